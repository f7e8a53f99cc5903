package service

import (
	"sync"

	"github.com/pageza/alchemorsel-v2/mealplan/internal/model"
)

// Selection holds at most one recipe pending placement on the calendar.
// It lives in memory only.
type Selection struct {
	mu      sync.Mutex
	pending *model.RecipeSummary
}

// NewSelection creates an empty selection.
func NewSelection() *Selection {
	return &Selection{}
}

// Select replaces any pending recipe with r.
func (s *Selection) Select(r model.RecipeSummary) error {
	if err := r.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = &r
	return nil
}

// Pending returns the recipe awaiting placement, if any.
func (s *Selection) Pending() (model.RecipeSummary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return model.RecipeSummary{}, false
	}
	return *s.pending, true
}

// Clear drops the pending recipe.
func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil
}
