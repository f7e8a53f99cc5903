package api

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/alchemorsel-v2/mealplan/internal/model"
	"github.com/pageza/alchemorsel-v2/mealplan/internal/service"
)

// PlanHandler serves the calendar plan and the pending selection.
type PlanHandler struct {
	store     *service.PlanStore
	selection *service.Selection
}

func NewPlanHandler(store *service.PlanStore, selection *service.Selection) *PlanHandler {
	return &PlanHandler{store: store, selection: selection}
}

func (h *PlanHandler) RegisterRoutes(router *gin.RouterGroup) {
	plan := router.Group("/plan")
	{
		plan.GET("", h.GetPlan)
		plan.POST("/move", h.MoveInstance)
		plan.GET("/:date", h.GetDay)
		plan.POST("/:date", h.AssignRecipe)
		plan.DELETE("/:date/:instanceId", h.RemoveInstance)
	}

	selection := router.Group("/selection")
	{
		selection.GET("", h.GetSelection)
		selection.PUT("", h.SelectRecipe)
		selection.DELETE("", h.ClearSelection)
	}
}

func (h *PlanHandler) GetPlan(c *gin.Context) {
	plan := h.store.Plan()
	days := make([]DayResponse, 0, len(plan))
	for _, day := range plan.Days() {
		days = append(days, DayResponse{Date: day, Instances: plan[day], Totals: plan.TotalMacros(day)})
	}
	c.JSON(http.StatusOK, PlanResponse{Today: h.store.Today(), Plan: plan, Days: days})
}

func (h *PlanHandler) GetDay(c *gin.Context) {
	day, ok := dateParam(c, "date")
	if !ok {
		return
	}
	items := h.store.Day(day)
	c.JSON(http.StatusOK, DayResponse{
		Date:      day,
		Instances: items,
		Totals:    model.CalendarPlan{day: items}.TotalMacros(day),
	})
}

// AssignRecipe places the recipe in the body on the day. An empty body
// places the pending selection instead.
func (h *PlanHandler) AssignRecipe(c *gin.Context) {
	day, ok := dateParam(c, "date")
	if !ok {
		return
	}

	raw, err := c.GetRawData()
	if err != nil {
		bindError(c, err)
		return
	}

	var recipe model.RecipeSummary
	if len(bytes.TrimSpace(raw)) == 0 {
		pending, ok := h.selection.Pending()
		if !ok {
			respondError(c, service.ErrNoPendingSelection)
			return
		}
		recipe = pending
	} else if err := json.Unmarshal(raw, &recipe); err != nil {
		bindError(c, err)
		return
	}

	inst, err := h.store.Assign(c.Request.Context(), day, recipe)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, inst)
}

func (h *PlanHandler) RemoveInstance(c *gin.Context) {
	day, ok := dateParam(c, "date")
	if !ok {
		return
	}
	if err := h.store.Remove(c.Request.Context(), day, c.Param("instanceId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PlanHandler) MoveInstance(c *gin.Context) {
	var req MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	from, err := model.ParseDateKey(req.From)
	if err != nil {
		respondError(c, &model.ValidationError{Field: "from", Message: err.Error()})
		return
	}

	to, err := model.ParseDateKey(req.To)
	if err != nil {
		respondError(c, &model.ValidationError{Field: "to", Message: err.Error()})
		return
	}

	inst, err := h.store.Move(c.Request.Context(), from, to, req.InstanceID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inst)
}

func (h *PlanHandler) GetSelection(c *gin.Context) {
	pending, ok := h.selection.Pending()
	if !ok {
		c.JSON(http.StatusOK, gin.H{"pending": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pending": pending})
}

func (h *PlanHandler) SelectRecipe(c *gin.Context) {
	var recipe model.RecipeSummary
	if err := c.ShouldBindJSON(&recipe); err != nil {
		bindError(c, err)
		return
	}
	if err := h.selection.Select(recipe); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pending": recipe})
}

func (h *PlanHandler) ClearSelection(c *gin.Context) {
	h.selection.Clear()
	c.Status(http.StatusNoContent)
}
