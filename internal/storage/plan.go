package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/pageza/alchemorsel-v2/mealplan/internal/model"
)

// PlanRecord reads and writes the meal plan record. An empty plan is never
// stored: saving one deletes the record, and a missing record loads as empty.
type PlanRecord struct {
	records Records
	logger  *log.Logger
}

// NewPlanRecord creates a PlanRecord over records. A nil logger uses log.Default().
func NewPlanRecord(records Records, logger *log.Logger) *PlanRecord {
	if logger == nil {
		logger = log.Default()
	}
	return &PlanRecord{records: records, logger: logger}
}

// Load returns the persisted plan. An unparsable record is treated as no
// data; malformed day keys are dropped with a warning.
func (r *PlanRecord) Load(ctx context.Context) (model.CalendarPlan, error) {
	data, err := r.records.Get(ctx, MealPlanKey)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return model.CalendarPlan{}, nil
		}
		return nil, fmt.Errorf("failed to load meal plan: %w", err)
	}

	doc, err := model.DecodePlanDocument(data)
	if err != nil {
		r.logger.Printf("[PlanRecord] Warning: meal plan record is corrupt, starting empty: %v", err)
		return model.CalendarPlan{}, nil
	}
	for _, k := range doc.MalformedDays {
		r.logger.Printf("[PlanRecord] Warning: dropping malformed day %q", k)
	}
	if doc.SkippedItems > 0 {
		r.logger.Printf("[PlanRecord] Warning: dropping %d malformed meal entries", doc.SkippedItems)
	}

	keys := make([]string, 0, len(doc.Days))
	for k := range doc.Days {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	plan := make(model.CalendarPlan, len(keys))
	for _, k := range keys {
		day, err := model.ParseDateKey(k)
		if err != nil {
			r.logger.Printf("[PlanRecord] Warning: dropping malformed day %q: %v", k, err)
			continue
		}
		if items := doc.Days[k]; len(items) > 0 {
			plan[day] = append(plan[day], items...)
		}
	}
	return plan, nil
}

// Save writes plan, or deletes the record when plan is empty.
func (r *PlanRecord) Save(ctx context.Context, plan model.CalendarPlan) error {
	if plan.IsEmpty() {
		return r.Clear(ctx)
	}
	compact := plan.Clone()
	compact.Compact()
	data, err := json.Marshal(compact)
	if err != nil {
		return fmt.Errorf("failed to marshal meal plan: %w", err)
	}
	if err := r.records.Put(ctx, MealPlanKey, data); err != nil {
		return fmt.Errorf("failed to save meal plan: %w", err)
	}
	return nil
}

// Clear removes the record.
func (r *PlanRecord) Clear(ctx context.Context) error {
	if err := r.records.Delete(ctx, MealPlanKey); err != nil {
		return fmt.Errorf("failed to clear meal plan: %w", err)
	}
	return nil
}
