package service

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pageza/alchemorsel-v2/mealplan/internal/model"
	"github.com/pageza/alchemorsel-v2/mealplan/internal/storage"
)

// AddResult describes one AddFromRecipe call.
type AddResult struct {
	Entries []model.BasketEntry `json:"entries"`
	Added   int                 `json:"added"`
	Merged  int                 `json:"merged"`
	Skipped int                 `json:"skipped"`
	Message string              `json:"message"`
}

// BasketService owns the shopping basket record. The persisted list is
// re-read on every call so concurrent clients see each other's writes.
type BasketService struct {
	mu     sync.Mutex
	record *storage.BasketRecord
	logger *log.Logger
	now    func() time.Time
}

// NewBasketService creates a basket over record.
func NewBasketService(record *storage.BasketRecord, logger *log.Logger) *BasketService {
	if logger == nil {
		logger = log.Default()
	}
	return &BasketService{record: record, logger: logger, now: time.Now}
}

// Entries returns the persisted basket.
func (s *BasketService) Entries(ctx context.Context) ([]model.BasketEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record.Load(ctx)
}

// AddFromRecipe turns the recipe's ingredient rows into basket entries and
// consolidates them into the basket. Rows without a name are skipped.
func (s *BasketService) AddFromRecipe(ctx context.Context, recipe model.RecipeIngredients) (AddResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.record.Load(ctx)
	if err != nil {
		return AddResult{}, err
	}

	incoming := make([]model.BasketEntry, 0, len(recipe.Rows))
	skipped := 0
	for i, row := range recipe.Rows {
		if strings.TrimSpace(row.Name) == "" {
			s.logger.Printf("[BasketService] Warning: skipping ingredient %d of %q: missing name", i, recipe.RecipeTitle)
			skipped++
			continue
		}
		incoming = append(incoming, s.newEntry(recipe, row))
	}

	merged, stats := consolidate(existing, incoming)
	if err := s.record.Save(ctx, merged); err != nil {
		return AddResult{}, err
	}

	res := AddResult{
		Entries: merged,
		Added:   stats.Added,
		Merged:  stats.Merged,
		Skipped: skipped + stats.Skipped,
	}
	res.Message = addMessage(recipe.RecipeTitle, res)
	return res, nil
}

func (s *BasketService) newEntry(recipe model.RecipeIngredients, row model.IngredientRow) model.BasketEntry {
	e := model.BasketEntry{
		ID:          s.mintID(recipe.RecipeID),
		Name:        strings.TrimSpace(row.Name),
		Quantity:    strings.TrimSpace(row.Quantity),
		Unit:        strings.TrimSpace(row.Unit),
		RecipeTitle: strings.TrimSpace(recipe.RecipeTitle),
		RecipeID:    recipe.RecipeID,
	}
	if sub := strings.TrimSpace(row.Substitute); sub != "" && !strings.EqualFold(sub, e.Name) {
		orig := e.Name
		e.OriginalName = &orig
		e.Name = sub
	}
	return e
}

// mintID returns <source>-<unix millis>-<random suffix>.
func (s *BasketService) mintID(source string) string {
	if source == "" {
		source = "item"
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return source + "-" + strconv.FormatInt(s.now().UnixMilli(), 10) + "-" + suffix
}

func addMessage(title string, res AddResult) string {
	n := res.Added + res.Merged
	if n == 0 {
		return "No ingredients were added to your shopping basket"
	}
	noun := "ingredients"
	if n == 1 {
		noun = "ingredient"
	}
	msg := fmt.Sprintf("Added %d %s", n, noun)
	if title != "" {
		msg += fmt.Sprintf(" from %s", title)
	}
	msg += " to your shopping basket"
	if res.Merged > 0 {
		msg += fmt.Sprintf(" (%d combined with existing items)", res.Merged)
	}
	return msg
}

// UpdateQuantity stores q verbatim on the entry. q must be a positive
// number; the basket is not re-consolidated.
func (s *BasketService) UpdateQuantity(ctx context.Context, id, q string) (model.BasketEntry, error) {
	q = strings.TrimSpace(q)
	if v, ok := ParseQuantity(q); !ok || v <= 0 {
		return model.BasketEntry{}, ErrInvalidQuantity
	}
	return s.update(ctx, id, func(e *model.BasketEntry) error {
		e.Quantity = q
		return nil
	})
}

// SetChecked marks the entry as bought or not.
func (s *BasketService) SetChecked(ctx context.Context, id string, checked bool) (model.BasketEntry, error) {
	return s.update(ctx, id, func(e *model.BasketEntry) error {
		e.IsChecked = checked
		return nil
	})
}

// Substitute renames the entry, remembering the first original name.
func (s *BasketService) Substitute(ctx context.Context, id, name string) (model.BasketEntry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.BasketEntry{}, &model.ValidationError{Field: "name", Message: "is required"}
	}
	return s.update(ctx, id, func(e *model.BasketEntry) error {
		if !e.Substituted() {
			orig := e.Name
			e.OriginalName = &orig
		}
		e.Name = name
		if strings.EqualFold(*e.OriginalName, name) {
			e.Name = *e.OriginalName
			e.OriginalName = nil
		}
		return nil
	})
}

// RevertSubstitution restores the original ingredient name.
func (s *BasketService) RevertSubstitution(ctx context.Context, id string) (model.BasketEntry, error) {
	return s.update(ctx, id, func(e *model.BasketEntry) error {
		if !e.Substituted() {
			return ErrNotSubstituted
		}
		e.Name = *e.OriginalName
		e.OriginalName = nil
		return nil
	})
}

func (s *BasketService) update(ctx context.Context, id string, fn func(*model.BasketEntry) error) (model.BasketEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.record.Load(ctx)
	if err != nil {
		return model.BasketEntry{}, err
	}
	for i := range entries {
		if entries[i].ID != id {
			continue
		}
		if err := fn(&entries[i]); err != nil {
			return model.BasketEntry{}, err
		}
		if err := s.record.Save(ctx, entries); err != nil {
			return model.BasketEntry{}, err
		}
		return entries[i], nil
	}
	return model.BasketEntry{}, fmt.Errorf("%w: %s", ErrEntryNotFound, id)
}

// Remove drops the entry with id. Unknown ids are ignored.
func (s *BasketService) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.record.Load(ctx)
	if err != nil {
		return err
	}
	kept := entries[:0]
	for _, e := range entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(entries) {
		return nil
	}
	return s.record.Save(ctx, kept)
}

// Clear empties the basket and deletes its record.
func (s *BasketService) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record.Clear(ctx)
}
