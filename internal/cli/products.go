package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newProductsCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Browse the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := rt.app.API.ListProducts(cmd.Context())
			if err != nil {
				return fmt.Errorf("list products: %w", err)
			}

			if len(products) == 0 {
				cmd.Println("No products available.")
				return nil
			}

			for _, p := range products {
				price := formatPaise(p.Price)
				if p.Discount > 0 {
					price = fmt.Sprintf("%s (was %s)", formatPaise(p.Price-p.Discount), formatPaise(p.Price))
				}
				stock := ""
				if p.Stock == 0 {
					stock = "  [out of stock]"
				}
				cmd.Printf("%-24s %-28s %s%s\n", p.ID, p.Name, price, stock)
			}
			return nil
		},
	}

	cmd.AddCommand(newProductShowCommand(rt))
	return cmd
}

func newProductShowCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "show <product-id>",
		Short: "Show one product in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := rt.app.API.GetProduct(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("get product: %w", err)
			}

			cmd.Printf("%s\n", p.Name)
			if p.Description != "" {
				cmd.Printf("  %s\n", p.Description)
			}
			cmd.Printf("  Price:    %s\n", formatPaise(p.Price))
			if p.Discount > 0 {
				cmd.Printf("  Discount: %s\n", formatPaise(p.Discount))
			}
			if p.Length > 0 || p.Width > 0 || p.Height > 0 {
				cmd.Printf("  Size:     %dx%dx%d cm\n", p.Length, p.Width, p.Height)
			}
			cmd.Printf("  Stock:    %d\n", p.Stock)
			return nil
		},
	}
}
