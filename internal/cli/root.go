package cli

import (
	"github.com/spf13/cobra"
)

// runtime carries the wired App to subcommands. It is populated by the root
// command's PersistentPreRunE, after flag parsing and env loading.
type runtime struct {
	app *App
}

// NewRootCommand creates the root command for the storefront CLI.
func NewRootCommand() *cobra.Command {
	rt := &runtime{}

	cmd := &cobra.Command{
		Use:           "storefront",
		Short:         "Command-line storefront for handcrafted bamboo goods",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp()
			if err != nil {
				return err
			}
			rt.app = app
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if rt.app == nil {
				return nil
			}
			return rt.app.Close(cmd.Context())
		},
	}

	cmd.AddCommand(newLoginCommand(rt))
	cmd.AddCommand(newRegisterCommand(rt))
	cmd.AddCommand(newLogoutCommand(rt))
	cmd.AddCommand(newWhoamiCommand(rt))
	cmd.AddCommand(newProductsCommand(rt))
	cmd.AddCommand(newCartCommand(rt))
	cmd.AddCommand(newAddressCommand(rt))
	cmd.AddCommand(newOrderCommand(rt))
	cmd.AddCommand(newOrdersCommand(rt))

	return cmd
}
