package migrate

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/flarebyte/seshat/atlas"
	"github.com/flarebyte/seshat/cmd/seshat/common"
	"github.com/flarebyte/seshat/internal/gitctx"
)

var lintFlags struct {
	env            string
	configURL      string
	devURL         string
	dirURL         string
	base           string
	latest         uint64
	web            bool
	contextFromGit bool
	vars           []string
	varFile        string
}

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Analyze migration files for destructive or unsafe changes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, project, err := common.NewClient()
		if err != nil {
			return err
		}
		vars, err := common.ParseVars(lintFlags.vars, lintFlags.varFile, project.Vars)
		if err != nil {
			return err
		}

		params := atlas.MigrateLintParams{
			Env:       common.Optional(firstOf(lintFlags.env, project.Env)),
			ConfigURL: common.Optional(lintFlags.configURL),
			DevURL:    common.Optional(lintFlags.devURL),
			DirURL:    common.Optional(firstOf(lintFlags.dirURL, project.DirURL)),
			Base:      common.Optional(lintFlags.base),
			Latest:    lintFlags.latest,
			Web:       lintFlags.web,
			Vars:      vars,
		}
		if lintFlags.contextFromGit {
			rc, err := gitctx.Detect(".")
			if err != nil {
				return err
			}
			params.Context = rc
		}

		report, err := client.MigrateLint(cmd.Context(), params)
		if err != nil {
			return err
		}
		if common.MachineOutput() {
			return common.Render(report)
		}
		renderLint(report)
		return nil
	},
}

func renderLint(r atlas.SummaryReport) {
	count := r.DiagnosticsCount()
	if count == 0 {
		pterm.Success.Println("no diagnostics")
		return
	}
	pterm.Warning.Printfln("%d diagnostic(s)", count)
	rows := pterm.TableData{{"File", "Code", "Pos", "Text"}}
	for _, f := range r.Files {
		for _, rep := range f.Reports {
			for _, d := range rep.Diagnostics {
				rows = append(rows, []string{f.Name, d.Code, fmt.Sprintf("%d", d.Pos), d.Text})
			}
		}
		if f.Error != "" {
			pterm.Error.Printfln("%s: %s", f.Name, f.Error)
		}
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}

func init() {
	f := lintCmd.Flags()
	f.StringVar(&lintFlags.env, "env", "", "atlas environment name")
	f.StringVar(&lintFlags.configURL, "config", "", "atlas config URL")
	f.StringVar(&lintFlags.devURL, "dev-url", "", "dev database URL")
	f.StringVar(&lintFlags.dirURL, "dir", "", "migration directory URL")
	f.StringVar(&lintFlags.base, "base", "", "base migration directory URL")
	f.Uint64Var(&lintFlags.latest, "latest", 0, "lint the latest N migration files")
	f.BoolVar(&lintFlags.web, "web", false, "open the lint report in the browser")
	f.BoolVar(&lintFlags.contextFromGit, "context-from-git", false, "attach a run context derived from the enclosing git repo")
	f.StringArrayVar(&lintFlags.vars, "var", nil, "template var as key=value (repeatable)")
	f.StringVar(&lintFlags.varFile, "var-file", "", "YAML file of template vars")
}
