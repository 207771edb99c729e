package migrate

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/flarebyte/seshat/atlas"
	"github.com/flarebyte/seshat/cmd/seshat/common"
	"github.com/flarebyte/seshat/internal/gitctx"
)

var pushFlags struct {
	tag            string
	devURL         string
	dirURL         string
	dirFormat      string
	lockTimeout    string
	configURL      string
	env            string
	vars           []string
	varFile        string
	contextFromGit bool
}

var pushCmd = &cobra.Command{
	Use:   "push <name>",
	Short: "Push a migration directory to the registry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, project, err := common.NewClient()
		if err != nil {
			return err
		}
		vars, err := common.ParseVars(pushFlags.vars, pushFlags.varFile, project.Vars)
		if err != nil {
			return err
		}

		params := atlas.MigratePushParams{
			Name:        args[0],
			Tag:         common.Optional(pushFlags.tag),
			DevURL:      common.Optional(pushFlags.devURL),
			DirURL:      common.Optional(firstOf(pushFlags.dirURL, project.DirURL)),
			DirFormat:   common.Optional(pushFlags.dirFormat),
			LockTimeout: common.Optional(pushFlags.lockTimeout),
			ConfigURL:   common.Optional(pushFlags.configURL),
			Env:         common.Optional(firstOf(pushFlags.env, project.Env)),
			Vars:        vars,
		}
		if pushFlags.contextFromGit {
			rc, err := gitctx.Detect(".")
			if err != nil {
				return err
			}
			params.Context = rc
		}

		out, err := client.MigratePush(cmd.Context(), params)
		if err != nil {
			return err
		}
		if common.MachineOutput() {
			return common.Render(map[string]string{"url": out})
		}
		pterm.Success.Printfln("pushed %s", args[0])
		if out != "" {
			pterm.Info.Println(out)
		}
		return nil
	},
}

func init() {
	f := pushCmd.Flags()
	f.StringVar(&pushFlags.tag, "tag", "", "tag to push as name:tag")
	f.StringVar(&pushFlags.devURL, "dev-url", "", "dev database URL")
	f.StringVar(&pushFlags.dirURL, "dir", "", "migration directory URL")
	f.StringVar(&pushFlags.dirFormat, "dir-format", "", "migration directory format")
	f.StringVar(&pushFlags.lockTimeout, "lock-timeout", "", "directory lock timeout")
	f.StringVar(&pushFlags.configURL, "config", "", "atlas config URL")
	f.StringVar(&pushFlags.env, "env", "", "atlas environment name")
	f.StringArrayVar(&pushFlags.vars, "var", nil, "template var as key=value (repeatable)")
	f.StringVar(&pushFlags.varFile, "var-file", "", "YAML file of template vars")
	f.BoolVar(&pushFlags.contextFromGit, "context-from-git", false, "attach a run context derived from the enclosing git repo")
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
