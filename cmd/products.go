package cmd

import (
	"fmt"

	"github.com/grovetools/sessionsync/cli"
	"github.com/grovetools/sessionsync/session"
	"github.com/spf13/cobra"
)

// NewProductsCmd creates the `products` command
func NewProductsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Manage the session's product catalog",
	}
	cmd.AddCommand(newProductsLoadCmd(), newProductsListCmd(), newProductsSeedCmd())
	return cmd
}

func newProductsLoadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load <file>",
		Short: "Replace the catalog with products from a YAML, TOML or JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := session.LoadCatalogFile(args[0])
			if err != nil {
				return err
			}

			env, err := openSessionEnv(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			env.session.Store().SetProducts(products)
			fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d products\n", len(products))
			return nil
		},
	}
}

func newProductsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openSessionEnv(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			products := env.session.State().Products
			if cli.GetOptions(cmd).JSONOutput {
				return printJSON(cmd.OutOrStdout(), products)
			}
			renderProducts(cmd.OutOrStdout(), products)
			return nil
		},
	}
}

func newProductsSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Replace the catalog with the sample products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openSessionEnv(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			products := session.DefaultCatalog()
			env.session.Store().SetProducts(products)
			fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d sample products\n", len(products))
			return nil
		},
	}
}
