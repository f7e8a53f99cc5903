package service

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/pageza/alchemorsel-v2/mealplan/internal/model"
	"github.com/pageza/alchemorsel-v2/mealplan/internal/storage"
)

// PlanStore owns the calendar meal plan and its persisted record. Every
// mutation is applied to a copy and swapped in only after the record was
// written, so a failed write leaves both memory and storage unchanged.
type PlanStore struct {
	mu        sync.Mutex
	plan      model.CalendarPlan
	record    *storage.PlanRecord
	selection *Selection
	logger    *log.Logger
	now       func() time.Time
}

// PlanStoreOption configures a PlanStore.
type PlanStoreOption func(*PlanStore)

// WithClock overrides the time source used for "today" and instance ids.
func WithClock(now func() time.Time) PlanStoreOption {
	return func(s *PlanStore) { s.now = now }
}

// WithLogger sets the logger for warnings.
func WithLogger(logger *log.Logger) PlanStoreOption {
	return func(s *PlanStore) { s.logger = logger }
}

// NewPlanStore creates a store over record. The selection, when not nil, is
// cleared by every successful Assign. Call Load before use.
func NewPlanStore(record *storage.PlanRecord, selection *Selection, opts ...PlanStoreOption) *PlanStore {
	s := &PlanStore{
		plan:      model.CalendarPlan{},
		record:    record,
		selection: selection,
		logger:    log.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today returns the current calendar date in local time.
func (s *PlanStore) Today() model.DateKey {
	return model.DateKeyFromTime(s.now())
}

// Load reads the persisted plan and prunes days before today. The pruned
// plan is written back when anything was dropped.
func (s *PlanStore) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	plan, err := s.record.Load(ctx)
	if err != nil {
		return err
	}
	plan.Compact()
	if removed := plan.PruneBefore(s.Today()); removed > 0 {
		s.logger.Printf("[PlanStore] Pruned %d past day(s) on load", removed)
		if err := s.record.Save(ctx, plan); err != nil {
			return err
		}
	}
	s.plan = plan
	return nil
}

// Plan returns a copy of the current plan.
func (s *PlanStore) Plan() model.CalendarPlan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plan.Clone()
}

// Day returns a copy of the placements on day.
func (s *PlanStore) Day(day model.DateKey) []model.PlannedInstance {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.plan[day]
	out := make([]model.PlannedInstance, len(items))
	copy(out, items)
	return out
}

// Assign appends a new placement of recipe to day and clears the pending
// selection.
func (s *PlanStore) Assign(ctx context.Context, day model.DateKey, recipe model.RecipeSummary) (model.PlannedInstance, error) {
	day, err := model.ParseDateKey(day.String())
	if err != nil {
		return model.PlannedInstance{}, &model.ValidationError{Field: "date", Message: err.Error()}
	}
	if err := recipe.Validate(); err != nil {
		return model.PlannedInstance{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.plan.Clone()
	inst := model.NewPlannedInstance(s.mintInstanceID(next[day], recipe.RecipeID), recipe)
	next[day] = append(next[day], inst)

	if err := s.commit(ctx, next); err != nil {
		return model.PlannedInstance{}, err
	}
	if s.selection != nil {
		s.selection.Clear()
	}
	return inst, nil
}

// mintInstanceID returns recipeID-<unix millis>, bumped until it is unique
// within the day.
func (s *PlanStore) mintInstanceID(items []model.PlannedInstance, recipeID string) string {
	taken := make(map[string]bool, len(items))
	for _, it := range items {
		taken[it.InstanceID] = true
	}
	ts := s.now().UnixMilli()
	for {
		id := recipeID + "-" + strconv.FormatInt(ts, 10)
		if !taken[id] {
			return id
		}
		ts++
	}
}

// Remove drops the placement with instanceID from day. Removing an unknown
// placement is a no-op.
func (s *PlanStore) Remove(ctx context.Context, day model.DateKey, instanceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOf(s.plan[day], instanceID)
	if idx < 0 {
		return nil
	}
	next := s.plan.Clone()
	next[day] = append(next[day][:idx], next[day][idx+1:]...)
	if len(next[day]) == 0 {
		delete(next, day)
	}
	return s.commit(ctx, next)
}

// Move relocates a placement to another day, keeping its instance id unless
// that id is already taken on the target day.
func (s *PlanStore) Move(ctx context.Context, from, to model.DateKey, instanceID string) (model.PlannedInstance, error) {
	to, err := model.ParseDateKey(to.String())
	if err != nil {
		return model.PlannedInstance{}, &model.ValidationError{Field: "to", Message: err.Error()}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOf(s.plan[from], instanceID)
	if idx < 0 {
		return model.PlannedInstance{}, fmt.Errorf("%w: %s on %s", ErrInstanceNotFound, instanceID, from)
	}
	if from == to {
		return s.plan[from][idx], nil
	}

	next := s.plan.Clone()
	inst := next[from][idx]
	next[from] = append(next[from][:idx], next[from][idx+1:]...)
	if len(next[from]) == 0 {
		delete(next, from)
	}
	if indexOf(next[to], inst.InstanceID) >= 0 {
		inst.InstanceID = s.mintInstanceID(next[to], inst.RecipeID)
	}
	next[to] = append(next[to], inst)

	if err := s.commit(ctx, next); err != nil {
		return model.PlannedInstance{}, err
	}
	return inst, nil
}

// Prune removes every day strictly before today and returns how many days
// were dropped. Nothing is written when nothing was dropped.
func (s *PlanStore) Prune(ctx context.Context, today model.DateKey) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.plan.Clone()
	removed := next.PruneBefore(today)
	if removed == 0 {
		return 0, nil
	}
	if err := s.commit(ctx, next); err != nil {
		return 0, err
	}
	return removed, nil
}

// ReplaceAll swaps in plan wholesale, prunes it against today and returns a
// copy of what was committed. An empty result removes the persisted record.
func (s *PlanStore) ReplaceAll(ctx context.Context, plan model.CalendarPlan) (model.CalendarPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := plan.Clone()
	next.Compact()
	next.PruneBefore(s.Today())
	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}
	return next.Clone(), nil
}

// commit persists next and then makes it the current plan. Callers hold mu.
func (s *PlanStore) commit(ctx context.Context, next model.CalendarPlan) error {
	if err := s.record.Save(ctx, next); err != nil {
		s.logger.Printf("[PlanStore] Error persisting meal plan: %v", err)
		return err
	}
	s.plan = next
	return nil
}

func indexOf(items []model.PlannedInstance, instanceID string) int {
	for i, it := range items {
		if it.InstanceID == instanceID {
			return i
		}
	}
	return -1
}
