package migrate

import (
	"github.com/spf13/cobra"

	"github.com/flarebyte/seshat/atlas"
	"github.com/flarebyte/seshat/cmd/seshat/common"
)

var downFlags struct {
	env             string
	configURL       string
	devURL          string
	url             string
	dirURL          string
	revisionsSchema string
	amount          uint64
	toVersion       string
	toTag           string
	triggerType     string
	triggerVersion  string
	vars            []string
	varFile         string
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert applied migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, project, err := common.NewClient()
		if err != nil {
			return err
		}
		vars, err := common.ParseVars(downFlags.vars, downFlags.varFile, project.Vars)
		if err != nil {
			return err
		}

		params := atlas.MigrateDownParams{
			Env:             common.Optional(firstOf(downFlags.env, project.Env)),
			ConfigURL:       common.Optional(downFlags.configURL),
			DevURL:          common.Optional(downFlags.devURL),
			URL:             common.Optional(downFlags.url),
			DirURL:          common.Optional(firstOf(downFlags.dirURL, project.DirURL)),
			RevisionsSchema: common.Optional(downFlags.revisionsSchema),
			Amount:          downFlags.amount,
			ToVersion:       common.Optional(downFlags.toVersion),
			ToTag:           common.Optional(downFlags.toTag),
			Vars:            vars,
		}
		if downFlags.triggerType != "" {
			trigger, err := atlas.ParseTriggerType(downFlags.triggerType)
			if err != nil {
				return err
			}
			params.Context = &atlas.DeployRunContext{
				TriggerType:    trigger,
				TriggerVersion: downFlags.triggerVersion,
			}
		}

		results, err := client.MigrateDownSlice(cmd.Context(), params)
		if err != nil {
			return err
		}
		if common.MachineOutput() {
			return common.Render(results)
		}
		renderReverted(results)
		return nil
	},
}

func init() {
	f := downCmd.Flags()
	f.StringVar(&downFlags.env, "env", "", "atlas environment name")
	f.StringVar(&downFlags.configURL, "config", "", "atlas config URL")
	f.StringVar(&downFlags.devURL, "dev-url", "", "dev database URL")
	f.StringVar(&downFlags.url, "url", "", "target database URL")
	f.StringVar(&downFlags.dirURL, "dir", "", "migration directory URL")
	f.StringVar(&downFlags.revisionsSchema, "revisions-schema", "", "schema holding the revisions table")
	f.Uint64Var(&downFlags.amount, "amount", 0, "number of migrations to revert (0 = one)")
	f.StringVar(&downFlags.toVersion, "to-version", "", "revert down to this version")
	f.StringVar(&downFlags.toTag, "to-tag", "", "revert down to this tag")
	f.StringVar(&downFlags.triggerType, "trigger-type", "", "deploy trigger type for audit")
	f.StringVar(&downFlags.triggerVersion, "trigger-version", "", "deploy trigger version for audit")
	f.StringArrayVar(&downFlags.vars, "var", nil, "template var as key=value (repeatable)")
	f.StringVar(&downFlags.varFile, "var-file", "", "YAML file of template vars")
}
