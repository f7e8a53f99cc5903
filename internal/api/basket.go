package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/alchemorsel-v2/mealplan/internal/model"
	"github.com/pageza/alchemorsel-v2/mealplan/internal/service"
)

// BasketHandler serves the shopping basket.
type BasketHandler struct {
	basket *service.BasketService
}

func NewBasketHandler(basket *service.BasketService) *BasketHandler {
	return &BasketHandler{basket: basket}
}

func (h *BasketHandler) RegisterRoutes(router *gin.RouterGroup) {
	basket := router.Group("/basket")
	{
		basket.GET("", h.ListEntries)
		basket.POST("", h.AddFromRecipe)
		basket.DELETE("", h.Clear)
		basket.PATCH("/:id", h.UpdateEntry)
		basket.DELETE("/:id", h.RemoveEntry)
		basket.POST("/:id/revert", h.RevertSubstitution)
	}
}

func (h *BasketHandler) ListEntries(c *gin.Context) {
	entries, err := h.basket.Entries(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if entries == nil {
		entries = []model.BasketEntry{}
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (h *BasketHandler) AddFromRecipe(c *gin.Context) {
	var req model.RecipeIngredients
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	res, err := h.basket.AddFromRecipe(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// UpdateEntry applies quantity, checked and substitute changes in that
// order; the first failure stops the update.
func (h *BasketHandler) UpdateEntry(c *gin.Context) {
	var req UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if req.Quantity == nil && req.IsChecked == nil && req.Substitute == nil {
		respondError(c, &model.ValidationError{Field: "body", Message: "nothing to update"})
		return
	}

	ctx := c.Request.Context()
	id := c.Param("id")
	var (
		entry model.BasketEntry
		err   error
	)
	if req.Quantity != nil {
		if entry, err = h.basket.UpdateQuantity(ctx, id, *req.Quantity); err != nil {
			respondError(c, err)
			return
		}
	}
	if req.IsChecked != nil {
		if entry, err = h.basket.SetChecked(ctx, id, *req.IsChecked); err != nil {
			respondError(c, err)
			return
		}
	}
	if req.Substitute != nil {
		if entry, err = h.basket.Substitute(ctx, id, *req.Substitute); err != nil {
			respondError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, entry)
}

func (h *BasketHandler) RevertSubstitution(c *gin.Context) {
	entry, err := h.basket.RevertSubstitution(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *BasketHandler) RemoveEntry(c *gin.Context) {
	if err := h.basket.Remove(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BasketHandler) Clear(c *gin.Context) {
	if err := h.basket.Clear(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
