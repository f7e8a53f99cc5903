package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/pageza/alchemorsel-v2/mealplan/internal/app"
	"github.com/pageza/alchemorsel-v2/mealplan/internal/model"
)

// planDay is the export shape of one day for json and yaml output.
type planDay struct {
	Date      string     `json:"date" yaml:"date"`
	Calories  int        `json:"calories,omitempty" yaml:"calories,omitempty"`
	Instances []planMeal `json:"instances" yaml:"instances"`
}

type planMeal struct {
	InstanceID string `json:"instanceId" yaml:"instanceId"`
	RecipeID   string `json:"recipeId" yaml:"recipeId"`
	Title      string `json:"title" yaml:"title"`
	Category   string `json:"category,omitempty" yaml:"category,omitempty"`
}

func exportPlan(plan model.CalendarPlan) []planDay {
	days := make([]planDay, 0, len(plan))
	for _, day := range plan.Days() {
		d := planDay{Date: day.String(), Calories: plan.TotalMacros(day).Calories}
		for _, inst := range plan[day] {
			d.Instances = append(d.Instances, planMeal{
				InstanceID: inst.InstanceID,
				RecipeID:   inst.RecipeID,
				Title:      inst.Title,
				Category:   inst.Category,
			})
		}
		days = append(days, d)
	}
	return days
}

func (r *runner) planCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show and edit the meal plan calendar",
	}

	var output string
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the meal plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, func(ctx context.Context, a *app.App) error {
				return writePlan(cmd.OutOrStdout(), a.Services.Plan.Plan(), output)
			})
		},
	}
	show.Flags().StringVarP(&output, "output", "o", "table", "output format: table, json or yaml")

	var image string
	assign := &cobra.Command{
		Use:   "assign <date> <recipe-id> <title>",
		Short: "Place a recipe on a day",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := model.ParseDateKey(args[0])
			if err != nil {
				return err
			}
			return r.withApp(cmd, func(ctx context.Context, a *app.App) error {
				inst, err := a.Services.Plan.Assign(ctx, day, model.RecipeSummary{
					RecipeID: args[1],
					Title:    args[2],
					ImageRef: image,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Planned %s on %s (%s)\n", inst.Title, day, inst.InstanceID)
				return nil
			})
		},
	}
	assign.Flags().StringVar(&image, "image", "", "image reference shown on the calendar")

	remove := &cobra.Command{
		Use:   "remove <date> <instance-id>",
		Short: "Remove one placement from a day",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := model.ParseDateKey(args[0])
			if err != nil {
				return err
			}
			return r.withApp(cmd, func(ctx context.Context, a *app.App) error {
				return a.Services.Plan.Remove(ctx, day, args[1])
			})
		},
	}

	prune := &cobra.Command{
		Use:   "prune",
		Short: "Drop days before today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, func(ctx context.Context, a *app.App) error {
				n, err := a.Services.Plan.Prune(ctx, a.Services.Plan.Today())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d day(s)\n", n)
				return nil
			})
		},
	}

	cmd.AddCommand(show, assign, remove, prune)
	return cmd
}

func writePlan(w io.Writer, plan model.CalendarPlan, format string) error {
	days := exportPlan(plan)
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(days)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(days); err != nil {
			return err
		}
		return enc.Close()
	case "table", "":
		if len(days) == 0 {
			fmt.Fprintln(w, "No meals planned")
			return nil
		}
		for _, d := range days {
			fmt.Fprintf(w, "%s", d.Date)
			if d.Calories > 0 {
				fmt.Fprintf(w, "  (%d kcal)", d.Calories)
			}
			fmt.Fprintln(w)
			for _, m := range d.Instances {
				fmt.Fprintf(w, "  %-32s %s\n", m.Title, m.InstanceID)
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
