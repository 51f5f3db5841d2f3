package cmd

import (
	"fmt"

	"github.com/grovetools/sessionsync/cli"
	"github.com/grovetools/sessionsync/session"
	"github.com/spf13/cobra"
)

// NewCartCmd creates the `cart` command
func NewCartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage the session's cart",
	}
	cmd.AddCommand(newCartAddCmd(), newCartRemoveCmd(), newCartClearCmd(), newCartSummaryCmd())
	return cmd
}

func newCartAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add a catalog product to the cart",
		Long: `Add a catalog product to the cart. Adding the same product twice
yields two cart lines. With --notify the running host is told the new cart
count.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openSessionEnv(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			parent, closeParent := env.parentEndpoint(cmd)
			defer closeParent()

			p, err := session.NewCatalog(env.session, parent).AddToCartByID(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (cart: %d)\n", p.Name, env.session.Store().CartCount())
			return nil
		},
	}
	addNotifyFlag(cmd)
	return cmd
}

func newCartRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <product-id>",
		Aliases: []string{"remove"},
		Short:   "Remove every cart line for a product",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openSessionEnv(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			env.session.Store().RemoveFromCart(args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "Cart: %d\n", env.session.Store().CartCount())
			return nil
		},
	}
}

func newCartClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openSessionEnv(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			env.session.Store().ClearCart()
			fmt.Fprintln(cmd.OutOrStdout(), "Cart cleared")
			return nil
		},
	}
}

func newCartSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show cart lines and totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openSessionEnv(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			st := env.session.State()
			if cli.GetOptions(cmd).JSONOutput {
				return printJSON(cmd.OutOrStdout(), struct {
					Lines   interface{} `json:"lines"`
					Summary interface{} `json:"summary"`
				}{st.Cart, st.Summary()})
			}
			renderProducts(cmd.OutOrStdout(), st.Cart)
			renderSummary(cmd.OutOrStdout(), st.Summary())
			return nil
		},
	}
}
