package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pageza/alchemorsel-v2/mealplan/internal/app"
)

func (r *runner) syncCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Save or load the meal plan cloud copy",
	}

	save := &cobra.Command{
		Use:   "save",
		Short: "Overwrite the cloud copy with the local plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Services.Sync.SaveToRemote(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Meal plan saved to the cloud")
				return nil
			})
		},
	}

	var yes bool
	load := &cobra.Command{
		Use:   "load",
		Short: "Replace the local plan with the cloud copy",
		Long: `Replace the local meal plan with the cloud copy. Local changes that were
not saved are lost; past days and malformed entries are dropped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && !confirm(cmd, "Replace your local meal plan with the cloud copy? [y/N] ") {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
				return nil
			}
			return r.withApp(cmd, func(ctx context.Context, a *app.App) error {
				report, err := a.Services.Sync.LoadFromRemote(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if report.Cleared {
					fmt.Fprintln(out, "Nothing planned in the cloud; local plan cleared")
				} else {
					fmt.Fprintf(out, "Loaded %d meal(s) across %d day(s)\n", report.Instances, len(report.Days))
				}
				if len(report.DroppedKeys) > 0 {
					fmt.Fprintf(out, "Skipped malformed days: %s\n", strings.Join(report.DroppedKeys, ", "))
				}
				return nil
			})
		},
	}
	load.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	cmd.AddCommand(save, load)
	return cmd
}

func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
