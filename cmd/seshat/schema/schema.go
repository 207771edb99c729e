// Package schema implements the `seshat schema` command tree: declarative
// schema apply and inspect against a target database.
package schema

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/flarebyte/seshat/atlas"
)

// Cmd is the parent `schema` command.
var Cmd = &cobra.Command{
	Use:   "schema",
	Short: "Apply and inspect declarative database schemas",
}

func init() {
	Cmd.AddCommand(applyCmd, inspectCmd)
}

func renderApplied(results []atlas.SchemaApply) {
	for _, r := range results {
		if r.Error != "" {
			pterm.Error.Println(r.Error)
			continue
		}
		applied := len(r.Changes.Applied)
		pending := len(r.Changes.Pending)
		if applied == 0 && pending == 0 {
			pterm.Info.Printfln("%s: schema is synced, no changes to apply", r.URL)
			continue
		}
		pterm.Success.Printfln("%s: applied %d change(s), %d pending", r.URL, applied, pending)
		if r.Changes.Error != nil {
			pterm.Error.Printfln("failed statement: %s", r.Changes.Error.Stmt)
			pterm.Error.Println(r.Changes.Error.Text)
		}
	}
}
