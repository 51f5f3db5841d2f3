package cmd

import (
	"fmt"

	"github.com/grovetools/sessionsync/cli"
	"github.com/grovetools/sessionsync/session"
	"github.com/spf13/cobra"
)

// NewCheckoutCmd creates the `checkout` command
func NewCheckoutCmd() *cobra.Command {
	var customer session.Customer

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order for the current cart",
		Long: `Place an order for the current cart. The customer becomes the signed-in
user and the cart is cleared. With --notify the running host is told the
order is complete.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openSessionEnv(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			parent, closeParent := env.parentEndpoint(cmd)
			defer closeParent()

			order, err := session.NewCheckout(env.session, parent).PlaceOrder(customer)
			if err != nil {
				return err
			}
			if cli.GetOptions(cmd).JSONOutput {
				return printJSON(cmd.OutOrStdout(), order)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Order placed for %s: %d items, $%.2f\n",
				customer.Name, order.Summary.Count, order.Summary.GrandTotal)
			return nil
		},
	}

	cmd.Flags().StringVar(&customer.Name, "name", "", "Customer name")
	cmd.Flags().StringVar(&customer.Email, "email", "", "Customer email")
	cmd.Flags().StringVar(&customer.Address, "address", "", "Street address")
	cmd.Flags().StringVar(&customer.City, "city", "", "City")
	cmd.Flags().StringVar(&customer.ZipCode, "zip", "", "ZIP code")
	addNotifyFlag(cmd)
	return cmd
}
