package root

import (
	"github.com/spf13/cobra"

	"github.com/flarebyte/seshat/cmd/seshat/common"
	"github.com/flarebyte/seshat/cmd/seshat/login"
	"github.com/flarebyte/seshat/cmd/seshat/logout"
	"github.com/flarebyte/seshat/cmd/seshat/migrate"
	"github.com/flarebyte/seshat/cmd/seshat/schema"
	"github.com/flarebyte/seshat/cmd/seshat/version"
)

// NewRootCmd creates the root command for seshat.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seshat",
		Short: "CLI: drive the Atlas schema-migration tool from typed, project-scoped commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Show help when no subcommand is provided.
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	common.RegisterPersistentFlags(cmd)

	// Subcommands
	cmd.AddCommand(version.VersionCmd)
	cmd.AddCommand(login.Cmd)
	cmd.AddCommand(logout.Cmd)
	cmd.AddCommand(migrate.Cmd)
	cmd.AddCommand(schema.Cmd)

	return cmd
}

// Execute runs the root command with provided args.
func Execute(args []string) error {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	return cmd.Execute()
}
