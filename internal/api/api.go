package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/alchemorsel-v2/mealplan/internal/model"
	"github.com/pageza/alchemorsel-v2/mealplan/internal/remote"
	"github.com/pageza/alchemorsel-v2/mealplan/internal/service"
)

// Services bundles what the handlers operate on.
type Services struct {
	Plan      *service.PlanStore
	Selection *service.Selection
	Basket    *service.BasketService
	Sync      *service.SyncCoordinator
}

// SetupAPI registers every route of the local API under /api/v1.
func SetupAPI(router *gin.Engine, svc Services) {
	v1 := router.Group("/api/v1")
	{
		NewPlanHandler(svc.Plan, svc.Selection).RegisterRoutes(v1)
		NewSyncHandler(svc.Sync).RegisterRoutes(v1)
		NewBasketHandler(svc.Basket).RegisterRoutes(v1)
	}
}

// ErrConfirmationRequired rejects a destructive load without confirmation.
var ErrConfirmationRequired = errors.New("loading from the cloud replaces your local meal plan; resend with confirm=true")

// StatusFor maps service errors to HTTP status codes.
func StatusFor(err error) int {
	var vErr *model.ValidationError
	switch {
	case errors.As(err, &vErr):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNoPendingSelection):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrEntryNotFound), errors.Is(err, service.ErrInstanceNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrSyncInProgress), errors.Is(err, service.ErrNotSubstituted):
		return http.StatusConflict
	case errors.Is(err, ErrConfirmationRequired):
		return http.StatusPreconditionFailed
	case errors.Is(err, remote.ErrSessionExpired), errors.Is(err, remote.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrRemoteSave), errors.Is(err, service.ErrRemoteLoad):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError hands err to middleware.ErrorHandler.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

func bindError(c *gin.Context, err error) {
	respondError(c, &model.ValidationError{Field: "body", Message: err.Error()})
}

func dateParam(c *gin.Context, name string) (model.DateKey, bool) {
	day, err := model.ParseDateKey(c.Param(name))
	if err != nil {
		respondError(c, &model.ValidationError{Field: name, Message: err.Error()})
		return "", false
	}
	return day, true
}
