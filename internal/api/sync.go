package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/alchemorsel-v2/mealplan/internal/service"
)

// SyncHandler exposes the explicit save and load against the remote plan.
type SyncHandler struct {
	sync *service.SyncCoordinator
}

func NewSyncHandler(sync *service.SyncCoordinator) *SyncHandler {
	return &SyncHandler{sync: sync}
}

func (h *SyncHandler) RegisterRoutes(router *gin.RouterGroup) {
	sync := router.Group("/sync")
	{
		sync.GET("/status", h.Status)
		sync.POST("/save", h.Save)
		sync.POST("/load", h.Load)
	}
}

// Status lets the UI disable the sync controls while an operation runs.
func (h *SyncHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"busy": h.sync.Busy()})
}

func (h *SyncHandler) Save(c *gin.Context) {
	if err := h.sync.SaveToRemote(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Meal plan saved to the cloud"})
}

func (h *SyncHandler) Load(c *gin.Context) {
	var req LoadRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		bindError(c, err)
		return
	}
	if !req.Confirm {
		respondError(c, ErrConfirmationRequired)
		return
	}

	report, err := h.sync.LoadFromRemote(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
