package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pageza/alchemorsel-v2/mealplan/internal/app"
)

func (r *runner) basketCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "basket",
		Short: "Show and clear the shopping basket",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the shopping basket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, func(ctx context.Context, a *app.App) error {
				entries, err := a.Services.Basket.Entries(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintln(out, "Your shopping basket is empty")
					return nil
				}
				for _, e := range entries {
					mark := " "
					if e.IsChecked {
						mark = "x"
					}
					name := e.Name
					if e.Substituted() {
						name = fmt.Sprintf("%s (instead of %s)", e.Name, *e.OriginalName)
					}
					fmt.Fprintf(out, "[%s] %-8s %-6s %-36s from: %s\n", mark, e.Quantity, e.Unit, name, e.RecipeTitle)
				}
				return nil
			})
		},
	}

	clear := &cobra.Command{
		Use:   "clear",
		Short: "Empty the shopping basket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Services.Basket.Clear(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Shopping basket cleared")
				return nil
			})
		},
	}

	cmd.AddCommand(show, clear)
	return cmd
}
