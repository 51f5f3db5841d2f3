package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/sessionsync/cli"
	"github.com/grovetools/sessionsync/pkg/models"
	"github.com/spf13/cobra"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	priceStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

// NewShowCmd creates the `show` command
func NewShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the current session state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openSessionEnv(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			st := env.session.State()
			if cli.GetOptions(cmd).JSONOutput {
				return printJSON(cmd.OutOrStdout(), st)
			}
			renderState(cmd.OutOrStdout(), env.session.ID(), st)
			return nil
		},
	}
	return cmd
}

func renderState(w io.Writer, id string, st models.SessionState) {
	fmt.Fprintf(w, "%s %s\n", headingStyle.Render("Session"), id)
	fmt.Fprintf(w, "  Route: %s\n", st.CurrentRoute)
	if st.User != nil {
		fmt.Fprintf(w, "  User:  %s <%s>\n", st.User.Name, st.User.Email)
	} else {
		fmt.Fprintf(w, "  User:  %s\n", mutedStyle.Render("signed out"))
	}

	fmt.Fprintf(w, "\n%s (%d)\n", headingStyle.Render("Products"), len(st.Products))
	renderProducts(w, st.Products)

	fmt.Fprintf(w, "\n%s (%d)\n", headingStyle.Render("Cart"), len(st.Cart))
	renderProducts(w, st.Cart)
	if len(st.Cart) > 0 {
		renderSummary(w, st.Summary())
	}
}

func renderProducts(w io.Writer, products []models.Product) {
	if len(products) == 0 {
		fmt.Fprintf(w, "  %s\n", mutedStyle.Render("(empty)"))
		return
	}
	for _, p := range products {
		fmt.Fprintf(w, "  %-4s %-28s %s\n", p.ID, p.Name, priceStyle.Render(fmt.Sprintf("$%.2f", p.Price)))
	}
}

func renderSummary(w io.Writer, s models.CartSummary) {
	fmt.Fprintf(w, "  %-33s $%.2f\n", "Subtotal", s.Subtotal)
	fmt.Fprintf(w, "  %-33s $%.2f\n", "Tax", s.Tax)
	fmt.Fprintf(w, "  %-33s %s\n", "Total", priceStyle.Render(fmt.Sprintf("$%.2f", s.GrandTotal)))
}
