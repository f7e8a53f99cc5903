// Package app builds the services shared by the API server and the CLI.
package app

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/pageza/alchemorsel-v2/mealplan/config"
	"github.com/pageza/alchemorsel-v2/mealplan/internal/api"
	"github.com/pageza/alchemorsel-v2/mealplan/internal/database"
	"github.com/pageza/alchemorsel-v2/mealplan/internal/model"
	"github.com/pageza/alchemorsel-v2/mealplan/internal/remote"
	"github.com/pageza/alchemorsel-v2/mealplan/internal/service"
	"github.com/pageza/alchemorsel-v2/mealplan/internal/storage"
)

// App holds the loaded services and the resources behind them.
type App struct {
	Config   *config.Config
	Services api.Services
	closer   io.Closer
}

// New opens the record store, loads the meal plan and connects the remote
// driver. A remote that cannot be built leaves sync unavailable but the
// rest of the app usable.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	records, closer, err := database.OpenRecords(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open record store: %w", err)
	}

	rem, err := remote.New(ctx, cfg)
	if err != nil {
		log.Printf("[App] Warning: remote sync unavailable: %v", err)
		rem = unavailableRemote{err: err}
	}

	a, err := NewWithRecords(ctx, cfg, records, rem)
	if err != nil {
		closer.Close()
		return nil, err
	}
	a.closer = closer
	return a, nil
}

// NewWithRecords builds the services over already opened collaborators.
func NewWithRecords(ctx context.Context, cfg *config.Config, records storage.Records, rem service.RemotePlanStore) (*App, error) {
	selection := service.NewSelection()
	store := service.NewPlanStore(storage.NewPlanRecord(records, nil), selection)
	if err := store.Load(ctx); err != nil {
		return nil, fmt.Errorf("failed to load meal plan: %w", err)
	}

	return &App{
		Config: cfg,
		Services: api.Services{
			Plan:      store,
			Selection: selection,
			Basket:    service.NewBasketService(storage.NewBasketRecord(records, nil), nil),
			Sync:      service.NewSyncCoordinator(store, rem, nil),
		},
	}, nil
}

// Close releases the record store connection.
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

// unavailableRemote reports why the remote could not be configured on
// every sync attempt.
type unavailableRemote struct {
	err error
}

func (u unavailableRemote) Load(context.Context) (model.PlanDocument, error) {
	return model.PlanDocument{}, u.err
}

func (u unavailableRemote) Save(context.Context, model.CalendarPlan) error {
	return u.err
}
