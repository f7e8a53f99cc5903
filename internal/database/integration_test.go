package database

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/alchemorsel-v2/mealplan/config"
	"github.com/pageza/alchemorsel-v2/mealplan/internal/model"
	"github.com/pageza/alchemorsel-v2/mealplan/internal/storage"
	"github.com/pageza/alchemorsel-v2/mealplan/internal/testhelpers"
)

// exerciseRecords runs the plan and basket records against a live backend.
func exerciseRecords(t *testing.T, cfg *config.Config) {
	t.Helper()
	ctx := context.Background()

	records, closer, err := OpenRecords(cfg)
	require.NoError(t, err)
	defer closer.Close()

	_, err = records.Get(ctx, storage.MealPlanKey)
	assert.True(t, errors.Is(err, storage.ErrRecordNotFound))

	plans := storage.NewPlanRecord(records, nil)
	plan := model.CalendarPlan{
		"2099-03-01": {{InstanceID: "R1-1", RecipeID: "R1", Title: "Pancakes"}},
	}
	require.NoError(t, plans.Save(ctx, plan))

	loaded, err := plans.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Pancakes", loaded["2099-03-01"][0].Title)

	baskets := storage.NewBasketRecord(records, nil)
	require.NoError(t, baskets.Save(ctx, []model.BasketEntry{{ID: "b1", Name: "Flour", Quantity: "2", Unit: "cup"}}))
	entries, err := baskets.Load(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Flour", entries[0].Name)

	require.NoError(t, plans.Save(ctx, model.CalendarPlan{}))
	_, err = records.Get(ctx, storage.MealPlanKey)
	assert.True(t, errors.Is(err, storage.ErrRecordNotFound))

	require.NoError(t, records.Delete(ctx, "missing"))
}

func TestPostgresRecordsIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	cfg := testhelpers.StartPostgres(t)
	exerciseRecords(t, cfg)
}

func TestRedisRecordsIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	cfg := testhelpers.StartRedis(t)
	exerciseRecords(t, cfg)
}
