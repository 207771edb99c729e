package schema

import (
	"github.com/spf13/cobra"

	"github.com/flarebyte/seshat/atlas"
	"github.com/flarebyte/seshat/cmd/seshat/common"
)

var applyFlags struct {
	env       string
	configURL string
	devURL    string
	dryRun    bool
	txMode    string
	exclude   []string
	schema    []string
	to        string
	url       string
	vars      []string
	varFile   string
}

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply a desired schema to a database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, project, err := common.NewClient()
		if err != nil {
			return err
		}
		vars, err := common.ParseVars(applyFlags.vars, applyFlags.varFile, project.Vars)
		if err != nil {
			return err
		}

		params := atlas.SchemaApplyParams{
			Env:       common.Optional(firstOf(applyFlags.env, project.Env)),
			ConfigURL: common.Optional(applyFlags.configURL),
			DevURL:    common.Optional(applyFlags.devURL),
			DryRun:    applyFlags.dryRun,
			TxMode:    common.Optional(applyFlags.txMode),
			Exclude:   common.OptionalList(applyFlags.exclude),
			Schema:    common.OptionalList(applyFlags.schema),
			To:        common.Optional(applyFlags.to),
			URL:       common.Optional(applyFlags.url),
			Vars:      vars,
		}

		results, err := client.SchemaApplySlice(cmd.Context(), params)
		if err != nil {
			return err
		}
		if common.MachineOutput() {
			return common.Render(results)
		}
		renderApplied(results)
		return nil
	},
}

func init() {
	f := applyCmd.Flags()
	f.StringVar(&applyFlags.env, "env", "", "atlas environment name")
	f.StringVar(&applyFlags.configURL, "config", "", "atlas config URL")
	f.StringVar(&applyFlags.devURL, "dev-url", "", "dev database URL")
	f.BoolVar(&applyFlags.dryRun, "dry-run", false, "plan the changes without executing them")
	f.StringVar(&applyFlags.txMode, "tx-mode", "", "transaction mode: none, file or all")
	f.StringArrayVar(&applyFlags.exclude, "exclude", nil, "resource to exclude (repeatable)")
	f.StringArrayVar(&applyFlags.schema, "schema", nil, "schema to include (repeatable)")
	f.StringVar(&applyFlags.to, "to", "", "URL of the desired schema state")
	f.StringVar(&applyFlags.url, "url", "", "target database URL")
	f.StringArrayVar(&applyFlags.vars, "var", nil, "template var as key=value (repeatable)")
	f.StringVar(&applyFlags.varFile, "var-file", "", "YAML file of template vars")
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
