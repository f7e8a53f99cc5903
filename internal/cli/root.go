// Package cli implements the planctl command tree over the same services
// the local API serves.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pageza/alchemorsel-v2/mealplan/config"
	"github.com/pageza/alchemorsel-v2/mealplan/internal/app"
)

// Opener builds the app a command runs against.
type Opener func(ctx context.Context, namespace string) (*app.App, error)

// DefaultOpener loads configuration from the environment and opens the
// configured stores.
func DefaultOpener(ctx context.Context, namespace string) (*app.App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if namespace != "" {
		cfg.RecordNamespace = namespace
	}
	return app.New(ctx, cfg)
}

type runner struct {
	open      Opener
	namespace string
}

// NewRootCommand returns the planctl command tree.
func NewRootCommand(open Opener) *cobra.Command {
	r := &runner{open: open}

	root := &cobra.Command{
		Use:   "planctl",
		Short: "Manage the Alchemorsel meal plan and shopping basket",
		Long: `planctl edits the local meal plan calendar and shopping basket and
saves or loads the plan to and from the cloud copy.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&r.namespace, "namespace", "n", "", "record namespace (default from RECORD_NAMESPACE)")

	root.AddCommand(r.planCommand(), r.basketCommand(), r.syncCommand())
	return root
}

// Execute runs planctl with the environment-backed opener.
func Execute() error {
	return NewRootCommand(DefaultOpener).Execute()
}

// withApp opens the app for the duration of fn.
func (r *runner) withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := r.open(ctx, r.namespace)
	if err != nil {
		return fmt.Errorf("failed to open meal plan store: %w", err)
	}
	defer a.Close()
	return fn(ctx, a)
}
