package cli

import (
	"github.com/spf13/cobra"

	"github.com/vin2grow/storefront-go/internal/api"
)

func newAddressCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "address",
		Short: "Manage your saved delivery addresses",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAddressList(rt, cmd)
		},
	}

	cmd.AddCommand(newAddressListCommand(rt))
	cmd.AddCommand(newAddressAddCommand(rt))
	cmd.AddCommand(newAddressUpdateCommand(rt))
	cmd.AddCommand(newAddressRemoveCommand(rt))
	cmd.AddCommand(newAddressDefaultCommand(rt))
	return cmd
}

func newAddressListCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your saved addresses",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAddressList(rt, cmd)
		},
	}
}

func runAddressList(rt *runtime, cmd *cobra.Command) error {
	addresses, err := rt.app.API.ListAddresses(cmd.Context())
	if err != nil {
		return cartError("list addresses", err)
	}

	if len(addresses) == 0 {
		cmd.Println("No saved addresses; add one with 'storefront address add'.")
		return nil
	}

	for _, a := range addresses {
		printAddress(cmd, a)
	}
	return nil
}

func printAddress(cmd *cobra.Command, a api.Address) {
	marker := " "
	if a.IsDefault {
		marker = "*"
	}
	label := a.Label
	if label == "" {
		label = "-"
	}
	cmd.Printf("%s %-38s %-8s %s, %s %s\n",
		marker, a.ID, label, a.Street, a.City, a.PostalCode)
}

// addressFlags binds the writable address fields to a command.
func addressFlags(cmd *cobra.Command, req *api.AddressRequest) {
	cmd.Flags().StringVar(&req.Label, "label", "home", "address label, e.g. home or work")
	cmd.Flags().StringVar(&req.Street, "street", "", "street address")
	cmd.Flags().StringVar(&req.City, "city", "", "city")
	cmd.Flags().StringVar(&req.State, "state", "", "state")
	cmd.Flags().StringVar(&req.PostalCode, "postal-code", "", "postal code")
	cmd.Flags().StringVar(&req.Phone, "phone", "", "contact phone")
	cmd.Flags().BoolVar(&req.IsDefault, "default", false, "use this address for checkout by default")
}

func newAddressAddCommand(rt *runtime) *cobra.Command {
	var req api.AddressRequest

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Save a new delivery address",
		RunE: func(cmd *cobra.Command, args []string) error {
			addresses, err := rt.app.API.AddAddress(cmd.Context(), req)
			if err != nil {
				return cartError("save address", err)
			}

			cmd.Println("Address saved.")
			if saved, ok := api.DefaultAddress(addresses); ok && saved.Street == req.Street {
				cmd.Println("It is now your default checkout address.")
			}
			return nil
		},
	}

	addressFlags(cmd, &req)
	_ = cmd.MarkFlagRequired("street")
	_ = cmd.MarkFlagRequired("city")
	_ = cmd.MarkFlagRequired("postal-code")
	return cmd
}

func newAddressUpdateCommand(rt *runtime) *cobra.Command {
	var req api.AddressRequest

	cmd := &cobra.Command{
		Use:   "update <address-id>",
		Short: "Rewrite a saved address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := rt.app.API.UpdateAddress(cmd.Context(), args[0], req); err != nil {
				return cartError("update address", err)
			}
			cmd.Println("Address updated.")
			return nil
		},
	}

	addressFlags(cmd, &req)
	_ = cmd.MarkFlagRequired("street")
	_ = cmd.MarkFlagRequired("city")
	_ = cmd.MarkFlagRequired("postal-code")
	return cmd
}

func newAddressRemoveCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <address-id>",
		Short: "Delete a saved address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := rt.app.API.DeleteAddress(cmd.Context(), args[0]); err != nil {
				return cartError("delete address", err)
			}
			cmd.Println("Address deleted.")
			return nil
		},
	}
}

func newAddressDefaultCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "default <address-id>",
		Short: "Use an address for checkout by default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := rt.app.API.SetDefaultAddress(cmd.Context(), args[0]); err != nil {
				return cartError("set default address", err)
			}
			cmd.Println("Default address updated.")
			return nil
		},
	}
}
