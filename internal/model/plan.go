package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// PlannedInstance is one placement of a recipe on one calendar day. Display
// metadata is copied at assignment time and does not follow later recipe edits.
type PlannedInstance struct {
	InstanceID string
	RecipeID   string
	Title      string
	ImageRef   string
	Category   string
	Macros     *Macros
	Extra      map[string]json.RawMessage
}

// NewPlannedInstance copies the summary into a placement with the given id.
func NewPlannedInstance(instanceID string, r RecipeSummary) PlannedInstance {
	var extra map[string]json.RawMessage
	if len(r.Extra) > 0 {
		extra = make(map[string]json.RawMessage, len(r.Extra))
		for k, v := range r.Extra {
			extra[k] = v
		}
	}
	var macros *Macros
	if r.Macros != nil {
		m := *r.Macros
		macros = &m
	}
	return PlannedInstance{
		InstanceID: instanceID,
		RecipeID:   r.RecipeID,
		Title:      r.Title,
		ImageRef:   r.ImageRef,
		Category:   r.Category,
		Macros:     macros,
		Extra:      extra,
	}
}

// Summary returns the recipe summary the instance was created from.
func (p PlannedInstance) Summary() RecipeSummary {
	return RecipeSummary{
		RecipeID: p.RecipeID,
		Title:    p.Title,
		ImageRef: p.ImageRef,
		Category: p.Category,
		Macros:   p.Macros,
		Extra:    p.Extra,
	}
}

// Valid reports whether the instance can be targeted and rendered.
func (p PlannedInstance) Valid() bool {
	return strings.TrimSpace(p.InstanceID) != "" && strings.TrimSpace(p.RecipeID) != ""
}

func (p PlannedInstance) MarshalJSON() ([]byte, error) {
	out := p.Summary().wireMap()
	out["instanceId"] = p.InstanceID
	return json.Marshal(out)
}

func (p *PlannedInstance) UnmarshalJSON(data []byte) error {
	var summary RecipeSummary
	extra, err := decodeSummary(data, &summary, "instanceId")
	if err != nil {
		return err
	}
	var ids struct {
		InstanceID json.RawMessage `json:"instanceId"`
	}
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	summary.Extra = extra
	*p = NewPlannedInstance(rawString(ids.InstanceID), summary)
	return nil
}

// CalendarPlan maps calendar days to their ordered placements. A day with
// no placements is never kept as a key.
type CalendarPlan map[DateKey][]PlannedInstance

// Clone returns a deep enough copy for independent mutation of day slices.
func (p CalendarPlan) Clone() CalendarPlan {
	out := make(CalendarPlan, len(p))
	for day, items := range p {
		cp := make([]PlannedInstance, len(items))
		copy(cp, items)
		out[day] = cp
	}
	return out
}

// IsEmpty reports whether any day has a placement.
func (p CalendarPlan) IsEmpty() bool {
	for _, items := range p {
		if len(items) > 0 {
			return false
		}
	}
	return true
}

// Days returns the plan's keys in chronological order.
func (p CalendarPlan) Days() []DateKey {
	days := make([]DateKey, 0, len(p))
	for day := range p {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

// Compact deletes keys whose sequence is empty.
func (p CalendarPlan) Compact() {
	for day, items := range p {
		if len(items) == 0 {
			delete(p, day)
		}
	}
}

// PruneBefore deletes every day strictly before today and returns how many
// were removed.
func (p CalendarPlan) PruneBefore(today DateKey) int {
	removed := 0
	for day := range p {
		if day.Before(today) {
			delete(p, day)
			removed++
		}
	}
	return removed
}

// Count returns the total number of placements.
func (p CalendarPlan) Count() int {
	n := 0
	for _, items := range p {
		n += len(items)
	}
	return n
}

// TotalMacros sums the nutrition of every placement on day. Placements
// without nutrition data are ignored.
func (p CalendarPlan) TotalMacros(day DateKey) Macros {
	var total Macros
	for _, item := range p[day] {
		if item.Macros != nil {
			total = total.Add(*item.Macros)
		}
	}
	return total
}

// PlanDocument is a serialized plan decoded leniently. Day keys are kept as
// written. Days whose value is not an array are listed in MalformedDays and
// array items that are not objects are counted in SkippedItems.
type PlanDocument struct {
	Days          map[string][]PlannedInstance
	MalformedDays []string
	SkippedItems  int
}

// DecodePlanDocument decodes a plan object day by day and item by item, so
// one bad value does not discard the rest. An empty input or null is an
// empty document; anything other than a JSON object is an error.
func DecodePlanDocument(data []byte) (PlanDocument, error) {
	doc := PlanDocument{Days: map[string][]PlannedInstance{}}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return doc, nil
	}

	var days map[string]json.RawMessage
	if err := json.Unmarshal(data, &days); err != nil {
		return PlanDocument{}, fmt.Errorf("plan document is not an object: %w", err)
	}

	for key, value := range days {
		var items []json.RawMessage
		if err := json.Unmarshal(value, &items); err != nil {
			doc.MalformedDays = append(doc.MalformedDays, key)
			continue
		}
		decoded := make([]PlannedInstance, 0, len(items))
		for _, item := range items {
			var inst PlannedInstance
			if err := json.Unmarshal(item, &inst); err != nil {
				doc.SkippedItems++
				continue
			}
			decoded = append(decoded, inst)
		}
		doc.Days[key] = decoded
	}
	sort.Strings(doc.MalformedDays)
	return doc, nil
}
