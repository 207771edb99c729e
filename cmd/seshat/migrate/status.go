package migrate

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/flarebyte/seshat/atlas"
	"github.com/flarebyte/seshat/cmd/seshat/common"
)

var statusFlags struct {
	env             string
	configURL       string
	dirURL          string
	url             string
	revisionsSchema string
	vars            []string
	varFile         string
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the migration status of a database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, project, err := common.NewClient()
		if err != nil {
			return err
		}
		vars, err := common.ParseVars(statusFlags.vars, statusFlags.varFile, project.Vars)
		if err != nil {
			return err
		}

		params := atlas.MigrateStatusParams{
			Env:             common.Optional(firstOf(statusFlags.env, project.Env)),
			ConfigURL:       common.Optional(statusFlags.configURL),
			DirURL:          common.Optional(firstOf(statusFlags.dirURL, project.DirURL)),
			URL:             common.Optional(statusFlags.url),
			RevisionsSchema: common.Optional(statusFlags.revisionsSchema),
			Vars:            vars,
		}

		status, err := client.MigrateStatus(cmd.Context(), params)
		if err != nil {
			return err
		}
		if common.MachineOutput() {
			return common.Render(status)
		}
		renderStatus(status)
		return nil
	},
}

func renderStatus(s atlas.MigrateStatus) {
	pterm.DefaultSection.Printf("Status: %s", orDash(s.Status))
	rows := pterm.TableData{
		{"Current", orDash(s.Current)},
		{"Next", orDash(s.Next)},
		{"Executed", fmt.Sprintf("%d of %d", s.Count, s.Total)},
		{"Pending", fmt.Sprintf("%d", len(s.Pending))},
	}
	_ = pterm.DefaultTable.WithData(rows).Render()
	if s.Error != "" {
		pterm.Error.Println(s.Error)
	}
}

func init() {
	f := statusCmd.Flags()
	f.StringVar(&statusFlags.env, "env", "", "atlas environment name")
	f.StringVar(&statusFlags.configURL, "config", "", "atlas config URL")
	f.StringVar(&statusFlags.dirURL, "dir", "", "migration directory URL")
	f.StringVar(&statusFlags.url, "url", "", "target database URL")
	f.StringVar(&statusFlags.revisionsSchema, "revisions-schema", "", "schema holding the revisions table")
	f.StringArrayVar(&statusFlags.vars, "var", nil, "template var as key=value (repeatable)")
	f.StringVar(&statusFlags.varFile, "var-file", "", "YAML file of template vars")
}
