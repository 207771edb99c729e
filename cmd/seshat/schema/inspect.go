package schema

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flarebyte/seshat/atlas"
	"github.com/flarebyte/seshat/cmd/seshat/common"
)

var inspectFlags struct {
	env       string
	configURL string
	devURL    string
	exclude   []string
	format    string
	schema    []string
	url       string
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Inspect a database and print its schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, project, err := common.NewClient()
		if err != nil {
			return err
		}

		params := atlas.SchemaInspectParams{
			Env:       common.Optional(firstOf(inspectFlags.env, project.Env)),
			ConfigURL: common.Optional(inspectFlags.configURL),
			DevURL:    common.Optional(inspectFlags.devURL),
			Exclude:   common.OptionalList(inspectFlags.exclude),
			Format:    common.Optional(inspectFlags.format),
			Schema:    common.OptionalList(inspectFlags.schema),
			URL:       common.Optional(inspectFlags.url),
		}

		out, err := client.SchemaInspect(cmd.Context(), params)
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	},
}

func init() {
	f := inspectCmd.Flags()
	f.StringVar(&inspectFlags.env, "env", "", "atlas environment name")
	f.StringVar(&inspectFlags.configURL, "config", "", "atlas config URL")
	f.StringVar(&inspectFlags.devURL, "dev-url", "", "dev database URL")
	f.StringArrayVar(&inspectFlags.exclude, "exclude", nil, "resource to exclude (repeatable)")
	f.StringVar(&inspectFlags.format, "format", "", `output format ("sql" for DDL output)`)
	f.StringArrayVar(&inspectFlags.schema, "schema", nil, "schema to include (repeatable)")
	f.StringVar(&inspectFlags.url, "url", "", "database URL to inspect")
}
