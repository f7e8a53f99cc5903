package service

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strconv"
	"testing"
	"time"

	"github.com/pageza/alchemorsel-v2/mealplan/internal/model"
	"github.com/pageza/alchemorsel-v2/mealplan/internal/storage"
)

var errDiskFull = errors.New("disk full")

// flakyRecords wraps MemoryRecords and fails writes while failWrites is set.
type flakyRecords struct {
	*storage.MemoryRecords
	failWrites bool
}

func (f *flakyRecords) Put(ctx context.Context, key string, value []byte) error {
	if f.failWrites {
		return errDiskFull
	}
	return f.MemoryRecords.Put(ctx, key, value)
}

func (f *flakyRecords) Delete(ctx context.Context, key string) error {
	if f.failWrites {
		return errDiskFull
	}
	return f.MemoryRecords.Delete(ctx, key)
}

type fixture struct {
	records   *flakyRecords
	selection *Selection
	store     *PlanStore
	logs      *bytes.Buffer
	now       time.Time
}

// newFixture builds a loaded PlanStore whose clock reads 2025-01-11 10:00.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		records:   &flakyRecords{MemoryRecords: storage.NewMemoryRecords()},
		selection: NewSelection(),
		logs:      &bytes.Buffer{},
		now:       time.Date(2025, 1, 11, 10, 0, 0, 0, time.Local),
	}
	logger := log.New(f.logs, "", 0)
	f.store = NewPlanStore(
		storage.NewPlanRecord(f.records, logger),
		f.selection,
		WithClock(func() time.Time { return f.now }),
		WithLogger(logger),
	)
	if err := f.store.Load(context.Background()); err != nil {
		t.Fatalf("failed to load plan store: %v", err)
	}
	return f
}

func pancakes() model.RecipeSummary {
	return model.RecipeSummary{RecipeID: "R1", Title: "Pancakes", ImageRef: "pancakes.jpg"}
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
