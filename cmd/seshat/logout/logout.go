package logout

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/flarebyte/seshat/cmd/seshat/common"
	"github.com/flarebyte/seshat/internal/keychain"
)

// Cmd clears the atlas binary's credentials and forgets the token
// stored in the OS keychain.
var Cmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear atlas credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := common.NewClient()
		if err != nil {
			return err
		}
		if err := client.Logout(cmd.Context()); err != nil {
			return err
		}
		if err := keychain.ClearToken(); err != nil {
			pterm.Warning.Printfln("logged out, but clearing the stored token failed: %v", err)
			return nil
		}
		pterm.Success.Println("Logged out")
		return nil
	},
}
