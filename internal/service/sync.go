package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync/atomic"

	"github.com/pageza/alchemorsel-v2/mealplan/internal/model"
)

// RemotePlanStore is the server-held copy of the meal plan. Load returns an
// empty document when nothing is stored remotely and an error for transport
// or auth failures. Values of the wrong shape are reported in the document.
type RemotePlanStore interface {
	Load(ctx context.Context) (model.PlanDocument, error)
	Save(ctx context.Context, plan model.CalendarPlan) error
}

// LoadReport summarizes what a remote load kept and discarded.
type LoadReport struct {
	Days              []model.DateKey `json:"days"`
	Instances         int             `json:"instances"`
	DroppedKeys       []string        `json:"droppedKeys,omitempty"`
	DroppedInstances  int             `json:"droppedInstances,omitempty"`
	DuplicatesRemoved int             `json:"duplicatesRemoved,omitempty"`
	PrunedDays        []model.DateKey `json:"prunedDays,omitempty"`
	Cleared           bool            `json:"cleared"`
}

// SyncCoordinator runs the explicit save and load operations between the
// local plan and the remote copy. At most one runs at a time; a second call
// while one is pending fails with ErrSyncInProgress. Nothing is retried.
type SyncCoordinator struct {
	store  *PlanStore
	remote RemotePlanStore
	logger *log.Logger
	busy   atomic.Bool
}

// NewSyncCoordinator creates a coordinator for store and remote.
func NewSyncCoordinator(store *PlanStore, remote RemotePlanStore, logger *log.Logger) *SyncCoordinator {
	if logger == nil {
		logger = log.Default()
	}
	return &SyncCoordinator{store: store, remote: remote, logger: logger}
}

// Busy reports whether a remote operation is pending.
func (c *SyncCoordinator) Busy() bool {
	return c.busy.Load()
}

func (c *SyncCoordinator) acquire() error {
	if !c.busy.CompareAndSwap(false, true) {
		return ErrSyncInProgress
	}
	return nil
}

// SaveToRemote overwrites the remote copy with a snapshot of the local plan.
// Local state is never modified.
func (c *SyncCoordinator) SaveToRemote(ctx context.Context) error {
	if err := c.acquire(); err != nil {
		return err
	}
	defer c.busy.Store(false)

	plan := c.store.Plan()
	if err := c.remote.Save(ctx, plan); err != nil {
		c.logger.Printf("[SyncCoordinator] Error saving meal plan to remote: %v", err)
		return fmt.Errorf("%w: %w", ErrRemoteSave, err)
	}
	c.logger.Printf("[SyncCoordinator] Saved %d day(s) to remote", len(plan))
	return nil
}

// LoadFromRemote replaces the local plan with the remote copy. Malformed
// day keys and incomplete instances are dropped, past days are pruned and
// an empty result clears the local plan. On failure local state is left
// untouched. Callers are responsible for confirming with the user first.
func (c *SyncCoordinator) LoadFromRemote(ctx context.Context) (LoadReport, error) {
	if err := c.acquire(); err != nil {
		return LoadReport{}, err
	}
	defer c.busy.Store(false)

	doc, err := c.remote.Load(ctx)
	if err != nil {
		c.logger.Printf("[SyncCoordinator] Error loading meal plan from remote: %v", err)
		return LoadReport{}, fmt.Errorf("%w: %w", ErrRemoteLoad, err)
	}

	plan, report := c.sanitize(doc)
	report.PrunedDays = prunedDays(plan, c.store.Today())

	current, err := c.store.ReplaceAll(ctx, plan)
	if err != nil {
		return LoadReport{}, err
	}

	report.Days = current.Days()
	report.Instances = current.Count()
	report.Cleared = current.IsEmpty()
	c.logger.Printf("[SyncCoordinator] Loaded %d day(s) from remote", len(report.Days))
	return report, nil
}

// sanitize validates the remote document into a CalendarPlan. Keys that
// name the same day are merged.
func (c *SyncCoordinator) sanitize(doc model.PlanDocument) (model.CalendarPlan, LoadReport) {
	var report LoadReport
	plan := make(model.CalendarPlan, len(doc.Days))

	for _, k := range doc.MalformedDays {
		c.logger.Printf("[SyncCoordinator] Warning: dropping remote day %q with a malformed value", k)
		report.DroppedKeys = append(report.DroppedKeys, k)
	}
	if doc.SkippedItems > 0 {
		c.logger.Printf("[SyncCoordinator] Warning: dropping %d remote item(s) that are not meal entries", doc.SkippedItems)
		report.DroppedInstances += doc.SkippedItems
	}

	keys := make([]string, 0, len(doc.Days))
	for k := range doc.Days {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	seen := make(map[model.DateKey]map[string]bool)
	for _, k := range keys {
		day, err := model.ParseDateKey(k)
		if err != nil {
			c.logger.Printf("[SyncCoordinator] Warning: dropping remote day with malformed key %q", k)
			report.DroppedKeys = append(report.DroppedKeys, k)
			continue
		}
		if seen[day] == nil {
			seen[day] = make(map[string]bool)
		}
		for _, item := range doc.Days[k] {
			if !item.Valid() {
				c.logger.Printf("[SyncCoordinator] Warning: dropping incomplete instance on %s", day)
				report.DroppedInstances++
				continue
			}
			if seen[day][item.InstanceID] {
				report.DuplicatesRemoved++
				continue
			}
			seen[day][item.InstanceID] = true
			plan[day] = append(plan[day], item)
		}
	}
	sort.Strings(report.DroppedKeys)
	return plan, report
}

func prunedDays(plan model.CalendarPlan, today model.DateKey) []model.DateKey {
	var out []model.DateKey
	for _, day := range plan.Days() {
		if day.Before(today) {
			out = append(out, day)
		}
	}
	return out
}
