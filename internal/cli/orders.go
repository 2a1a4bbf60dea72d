package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vin2grow/storefront-go/internal/api"
)

func newOrderCommand(rt *runtime) *cobra.Command {
	var fullName, address, city, state, postalCode, phone string

	cmd := &cobra.Command{
		Use:   "order",
		Short: "Place an order for your cart contents",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := rt.app

			if err := app.Sync.Initialize(cmd.Context()); err != nil {
				return cartError("load cart", err)
			}

			items := app.Store.Items()
			if len(items) == 0 {
				cmd.Println("Your cart is empty; nothing to order.")
				return nil
			}

			orderItems := make([]api.OrderItem, 0, len(items))
			for _, item := range items {
				if !item.Valid() {
					continue
				}
				orderItems = append(orderItems, api.OrderItem{
					ProductID: item.ProductID(),
					Name:      item.Product.Name,
					Price:     item.Product.Price - item.Product.Discount,
					Quantity:  item.Quantity,
				})
			}

			// Without --address, checkout falls back to the saved default
			// address, matching the storefront's address-book flow.
			if address == "" {
				addresses, err := app.API.ListAddresses(cmd.Context())
				if err != nil {
					return cartError("load addresses", err)
				}
				saved, ok := api.DefaultAddress(addresses)
				if !ok {
					return fmt.Errorf("no delivery address: pass --address or save one with 'storefront address add'")
				}
				address, city, state, postalCode = saved.Street, saved.City, saved.State, saved.PostalCode
				if phone == "" {
					phone = saved.Phone
				}
			} else if city == "" || postalCode == "" {
				return fmt.Errorf("--city and --postal-code are required with --address")
			}

			if fullName == "" {
				if user, ok := app.Session.User(); ok {
					fullName = user.Name
				}
			}

			order, err := app.API.PlaceOrder(cmd.Context(), api.PlaceOrderRequest{
				FullName:    fullName,
				AddressLine: address,
				City:        city,
				State:       state,
				PostalCode:  postalCode,
				Phone:       phone,
				Items:       orderItems,
			})
			if err != nil {
				return cartError("place order", err)
			}

			// The server emptied the cart; reflect that locally.
			if err := app.Sync.Refresh(cmd.Context()); err != nil {
				app.Logger.Warn("cart refresh after order failed", "error", err)
			}

			cmd.Printf("Order %s placed, total %s.\n", order.ID, formatPaise(order.Total))
			return nil
		},
	}

	cmd.Flags().StringVar(&fullName, "name", "", "recipient full name (defaults to your profile name)")
	cmd.Flags().StringVar(&address, "address", "", "street address (defaults to your saved default address)")
	cmd.Flags().StringVar(&city, "city", "", "city")
	cmd.Flags().StringVar(&state, "state", "", "state")
	cmd.Flags().StringVar(&postalCode, "postal-code", "", "postal code")
	cmd.Flags().StringVar(&phone, "phone", "", "contact phone")

	return cmd
}

func newOrdersCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "orders",
		Short: "List your past orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			orders, err := rt.app.API.ListOrders(cmd.Context())
			if err != nil {
				return cartError("list orders", err)
			}

			if len(orders) == 0 {
				cmd.Println("No orders yet.")
				return nil
			}

			for _, o := range orders {
				cmd.Printf("%-38s %-10s %10s  %s\n",
					o.ID, o.Status, formatPaise(o.Total),
					o.CreatedAt.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}
