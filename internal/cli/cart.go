package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vin2grow/storefront-go/internal/cart"
	"github.com/vin2grow/storefront-go/internal/domain"
	apperrors "github.com/vin2grow/storefront-go/pkg/errors"
)

func newCartCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show and modify your cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCartShow(rt, cmd)
		},
	}

	cmd.AddCommand(newCartAddCommand(rt))
	cmd.AddCommand(newCartSetCommand(rt))
	cmd.AddCommand(newCartRemoveCommand(rt))
	cmd.AddCommand(newCartClearCommand(rt))
	return cmd
}

func runCartShow(rt *runtime, cmd *cobra.Command) error {
	app := rt.app

	if !app.Session.Authenticated() {
		cmd.Println("Please sign in first (storefront login).")
		return nil
	}

	if err := app.Sync.Initialize(cmd.Context()); err != nil {
		return cartError("load cart", err)
	}

	if app.Sync.State() == cart.StateEmpty || app.Store.Count() == 0 {
		cmd.Println("Your cart is empty.")
		return nil
	}

	for _, item := range app.Store.Items() {
		unit := item.Product.Price - item.Product.Discount
		cmd.Printf("%-38s %-28s %3d x %10s = %10s\n",
			item.ID, item.Product.Name, item.Quantity,
			formatPaise(unit), formatPaise(unit*int64(item.Quantity)))
	}
	cmd.Printf("%86s %10s\n", "Subtotal:", formatPaise(app.Store.Subtotal()))
	return nil
}

func newCartAddCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "add <product-id> [quantity]",
		Short: "Add a product to your cart",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := rt.app

			quantity := 1
			if len(args) == 2 {
				q, err := strconv.Atoi(args[1])
				if err != nil || q < 1 {
					return fmt.Errorf("quantity must be a positive number, got %q", args[1])
				}
				quantity = q
			}

			product, err := app.API.GetProduct(cmd.Context(), args[0])
			if err != nil {
				return cartError("look up product", err)
			}

			// Order limits and stock bound the quantity here, before the
			// synchronizer sees it.
			snapshot := domain.NewProductSnapshot(product)
			clamped := snapshot.ClampQuantity(quantity)

			if err := app.Sync.AddItem(cmd.Context(), product, clamped); err != nil {
				return cartError("add to cart", err)
			}

			if clamped != quantity {
				cmd.Printf("Added %d x %s to your cart (requested %d, limited by order rules).\n",
					clamped, product.Name, quantity)
				return nil
			}
			cmd.Printf("Added %d x %s to your cart.\n", clamped, product.Name)
			return nil
		},
	}
}

func newCartSetCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "set <line-id> <quantity>",
		Short: "Change the quantity of a cart line",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := rt.app

			quantity, err := strconv.Atoi(args[1])
			if err != nil || quantity < 1 {
				return fmt.Errorf("quantity must be a positive number, got %q", args[1])
			}

			// The line must be in the local snapshot before it can be
			// addressed.
			if err := app.Sync.Initialize(cmd.Context()); err != nil {
				return cartError("load cart", err)
			}

			if line, ok := app.Store.Find(args[0]); ok && line.Valid() {
				quantity = line.Product.ClampQuantity(quantity)
			}

			if err := app.Sync.UpdateQuantity(cmd.Context(), args[0], quantity); err != nil {
				return cartError("update quantity", err)
			}

			cmd.Printf("Quantity set to %d.\n", quantity)
			return nil
		},
	}
}

func newCartRemoveCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <line-id>",
		Short: "Remove a line from your cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := rt.app

			if err := app.Sync.Initialize(cmd.Context()); err != nil {
				return cartError("load cart", err)
			}

			if err := app.Sync.RemoveItem(cmd.Context(), args[0]); err != nil {
				return cartError("remove item", err)
			}

			cmd.Println("Item removed from your cart.")
			return nil
		},
	}
}

func newCartClearCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove everything from your cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.app.Sync.Clear(cmd.Context()); err != nil {
				return cartError("clear cart", err)
			}

			cmd.Println("Cart cleared.")
			return nil
		},
	}
}

// cartError rewords auth failures as a sign-in prompt; everything else passes
// through with context.
func cartError(op string, err error) error {
	if apperrors.IsAuthError(err) {
		return fmt.Errorf("%s: not signed in; run 'storefront login' first", op)
	}
	return fmt.Errorf("%s: %w", op, err)
}
