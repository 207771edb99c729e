// Package migrate groups the versioned-migration subcommands: push,
// apply, down, status and lint.
package migrate

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/flarebyte/seshat/atlas"
)

// Cmd is the `seshat migrate` command group.
var Cmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage versioned migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	Cmd.AddCommand(pushCmd)
	Cmd.AddCommand(applyCmd)
	Cmd.AddCommand(downCmd)
	Cmd.AddCommand(statusCmd)
	Cmd.AddCommand(lintCmd)
}

func renderApplied(results []atlas.MigrateApply) {
	for _, res := range results {
		if res.Error != "" {
			pterm.Error.Printfln("apply failed: %s", res.Error)
			continue
		}
		pterm.Success.Printfln("migrated %s -> %s (%d applied, %d pending)",
			orDash(res.Current), orDash(res.Target), len(res.Applied), len(res.Pending))
		if len(res.Applied) == 0 {
			continue
		}
		rows := pterm.TableData{{"Version", "Description", "Statements"}}
		for _, f := range res.Applied {
			rows = append(rows, []string{f.Version, f.Description, pterm.Sprintf("%d", len(f.Applied))})
		}
		_ = pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
	}
}

func renderReverted(results []atlas.MigrateDown) {
	for _, res := range results {
		if res.Error != "" {
			pterm.Error.Printfln("down failed: %s", res.Error)
			continue
		}
		pterm.Success.Printfln("reverted %s -> %s (%d reverted, %d planned)",
			orDash(res.Current), orDash(res.Target), len(res.Reverted), len(res.Planned))
		if res.URL != "" {
			pterm.Info.Printfln("plan: %s", res.URL)
		}
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
