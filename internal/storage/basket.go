package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/pageza/alchemorsel-v2/mealplan/internal/model"
)

// BasketRecord reads and writes the shopping basket record with the same
// empty-means-absent rule as PlanRecord.
type BasketRecord struct {
	records Records
	logger  *log.Logger
}

// NewBasketRecord creates a BasketRecord over records.
func NewBasketRecord(records Records, logger *log.Logger) *BasketRecord {
	if logger == nil {
		logger = log.Default()
	}
	return &BasketRecord{records: records, logger: logger}
}

// Load returns the persisted entries; a corrupt record loads as empty.
func (r *BasketRecord) Load(ctx context.Context) ([]model.BasketEntry, error) {
	data, err := r.records.Get(ctx, BasketKey)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load basket: %w", err)
	}

	var entries []model.BasketEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		r.logger.Printf("[BasketRecord] Warning: basket record is corrupt, starting empty: %v", err)
		return nil, nil
	}
	return entries, nil
}

// Save writes entries, or deletes the record when there are none.
func (r *BasketRecord) Save(ctx context.Context, entries []model.BasketEntry) error {
	if len(entries) == 0 {
		return r.Clear(ctx)
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal basket: %w", err)
	}
	if err := r.records.Put(ctx, BasketKey, data); err != nil {
		return fmt.Errorf("failed to save basket: %w", err)
	}
	return nil
}

// Clear removes the record.
func (r *BasketRecord) Clear(ctx context.Context) error {
	if err := r.records.Delete(ctx, BasketKey); err != nil {
		return fmt.Errorf("failed to clear basket: %w", err)
	}
	return nil
}
