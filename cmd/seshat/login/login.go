package login

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/flarebyte/seshat/atlas"
	"github.com/flarebyte/seshat/cmd/seshat/common"
	"github.com/flarebyte/seshat/internal/keychain"
)

var flagToken string

// Cmd authenticates the wrapped atlas binary against its backend. When
// no --token is given, the token stored by a previous login is reused
// from the OS keychain.
var Cmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate atlas with a registry token",
	RunE: func(cmd *cobra.Command, args []string) error {
		token := flagToken
		if token == "" {
			stored, err := keychain.Token()
			if err != nil {
				return err
			}
			token = stored
		}

		client, _, err := common.NewClient()
		if err != nil {
			return err
		}
		if err := client.Login(cmd.Context(), atlas.LoginParams{Token: token}); err != nil {
			return err
		}
		if flagToken != "" {
			if err := keychain.SaveToken(flagToken); err != nil {
				pterm.Warning.Printfln("logged in, but storing the token failed: %v", err)
				return nil
			}
		}
		pterm.Success.Println("Logged in")
		return nil
	},
}

func init() {
	Cmd.Flags().StringVar(&flagToken, "token", "", "registry token; stored in the OS keychain on success")
}
