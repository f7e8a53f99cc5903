package api

import "github.com/pageza/alchemorsel-v2/mealplan/internal/model"

// DayResponse is one calendar day with its nutrition totals.
type DayResponse struct {
	Date      model.DateKey           `json:"date"`
	Instances []model.PlannedInstance `json:"instances"`
	Totals    model.Macros            `json:"totals"`
}

// PlanResponse is the full plan as returned by GET /plan.
type PlanResponse struct {
	Today model.DateKey      `json:"today"`
	Plan  model.CalendarPlan `json:"plan"`
	Days  []DayResponse      `json:"days"`
}

// MoveRequest moves one placement between days.
type MoveRequest struct {
	From       string `json:"from" binding:"required"`
	To         string `json:"to" binding:"required"`
	InstanceID string `json:"instanceId" binding:"required"`
}

// LoadRequest must carry confirm=true; loading replaces local state.
type LoadRequest struct {
	Confirm bool `json:"confirm"`
}

// UpdateEntryRequest patches one basket entry. Absent fields are left alone.
type UpdateEntryRequest struct {
	Quantity   *string `json:"quantity"`
	IsChecked  *bool   `json:"isChecked"`
	Substitute *string `json:"substitute"`
}
