package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/alchemorsel-v2/mealplan/internal/middleware"
	"github.com/pageza/alchemorsel-v2/mealplan/internal/mocks"
	"github.com/pageza/alchemorsel-v2/mealplan/internal/model"
	"github.com/pageza/alchemorsel-v2/mealplan/internal/remote"
	"github.com/pageza/alchemorsel-v2/mealplan/internal/service"
	"github.com/pageza/alchemorsel-v2/mealplan/internal/storage"
)

type testEnv struct {
	router  *gin.Engine
	remote  *mocks.MockRemotePlanStore
	records *storage.MemoryRecords
	svc     Services
}

func setupTestRouter(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	records := storage.NewMemoryRecords()
	selection := service.NewSelection()
	now := time.Date(2025, 1, 11, 9, 0, 0, 0, time.Local)
	store := service.NewPlanStore(storage.NewPlanRecord(records, nil), selection,
		service.WithClock(func() time.Time { return now }))
	require.NoError(t, store.Load(context.Background()))

	remoteStore := new(mocks.MockRemotePlanStore)
	svc := Services{
		Plan:      store,
		Selection: selection,
		Basket:    service.NewBasketService(storage.NewBasketRecord(records, nil), nil),
		Sync:      service.NewSyncCoordinator(store, remoteStore, nil),
	}

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.ErrorHandler(StatusFor))
	SetupAPI(router, svc)
	return &testEnv{router: router, remote: remoteStore, records: records, svc: svc}
}

// PerformRequest sends body as JSON unless it is nil.
func PerformRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request

	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			panic(err)
		}
		req = httptest.NewRequest(method, path, bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

var pancakes = map[string]interface{}{
	"recipeId": "R1",
	"title":    "Pancakes",
	"imageRef": "pancakes.jpg",
	"macros":   map[string]interface{}{"calories": 350, "protein": 8},
	"cuisine":  "american",
}

func TestAssignAndRemove(t *testing.T) {
	env := setupTestRouter(t)

	w := PerformRequest(env.router, "POST", "/api/v1/plan/2025-01-12", pancakes)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	inst := decode[model.PlannedInstance](t, w)
	assert.Equal(t, "R1", inst.RecipeID)
	assert.Contains(t, inst.Extra, "cuisine")

	w = PerformRequest(env.router, "GET", "/api/v1/plan", nil)
	require.Equal(t, http.StatusOK, w.Code)
	plan := decode[PlanResponse](t, w)
	assert.Equal(t, model.DateKey("2025-01-11"), plan.Today)
	require.Len(t, plan.Days, 1)
	assert.Equal(t, 350, plan.Days[0].Totals.Calories)

	w = PerformRequest(env.router, "DELETE", "/api/v1/plan/2025-01-12/"+inst.InstanceID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = PerformRequest(env.router, "GET", "/api/v1/plan/2025-01-12", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[DayResponse](t, w).Instances)
	assert.False(t, env.records.Has(storage.MealPlanKey))
}

func TestAssignValidation(t *testing.T) {
	env := setupTestRouter(t)

	w := PerformRequest(env.router, "POST", "/api/v1/plan/2025-02-30", pancakes)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = PerformRequest(env.router, "POST", "/api/v1/plan/2025-01-12", map[string]string{"title": "No id"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "recipeId")

	w = PerformRequest(env.router, "POST", "/api/v1/plan/2025-01-12", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, "no body and nothing selected")
}

func TestSelectThenPlace(t *testing.T) {
	env := setupTestRouter(t)

	w := PerformRequest(env.router, "PUT", "/api/v1/selection", pancakes)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = PerformRequest(env.router, "POST", "/api/v1/plan/2025-01-13", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Pancakes", decode[model.PlannedInstance](t, w).Title)

	w = PerformRequest(env.router, "GET", "/api/v1/selection", nil)
	assert.JSONEq(t, `{"pending":null}`, w.Body.String())
}

func TestMoveInstance(t *testing.T) {
	env := setupTestRouter(t)

	w := PerformRequest(env.router, "POST", "/api/v1/plan/2025-01-12", pancakes)
	require.Equal(t, http.StatusCreated, w.Code)
	inst := decode[model.PlannedInstance](t, w)

	w = PerformRequest(env.router, "POST", "/api/v1/plan/move", MoveRequest{From: "2025-01-12", To: "2025-01-15", InstanceID: inst.InstanceID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []model.DateKey{"2025-01-15"}, env.svc.Plan.Plan().Days())

	w = PerformRequest(env.router, "POST", "/api/v1/plan/move", MoveRequest{From: "2025-01-12", To: "2025-01-15", InstanceID: inst.InstanceID})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = PerformRequest(env.router, "POST", "/api/v1/plan/move", MoveRequest{From: "2025-01-15", To: "2025-01-16 ", InstanceID: inst.InstanceID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []model.DateKey{"2025-01-16"}, env.svc.Plan.Plan().Days())

	w = PerformRequest(env.router, "POST", "/api/v1/plan/move", MoveRequest{From: "2025-01-16", To: "16/01/2025", InstanceID: inst.InstanceID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []model.DateKey{"2025-01-16"}, env.svc.Plan.Plan().Days())
}

func TestSyncLoadRequiresConfirmation(t *testing.T) {
	env := setupTestRouter(t)

	w := PerformRequest(env.router, "POST", "/api/v1/sync/load", nil)
	assert.Equal(t, http.StatusPreconditionFailed, w.Code)

	w = PerformRequest(env.router, "POST", "/api/v1/sync/load", LoadRequest{Confirm: false})
	assert.Equal(t, http.StatusPreconditionFailed, w.Code)
	env.remote.AssertNotCalled(t, "Load", mock.Anything)
}

func TestSyncLoadAndSave(t *testing.T) {
	env := setupTestRouter(t)

	env.remote.On("Load", mock.Anything).Return(mocks.PlanDocument(map[string][]model.PlannedInstance{
		"2025-01-20": {{InstanceID: "R2-1", RecipeID: "R2", Title: "Waffles"}},
		"bad-key":    {{InstanceID: "R3-1", RecipeID: "R3", Title: "Soup"}},
	}), nil).Once()

	w := PerformRequest(env.router, "POST", "/api/v1/sync/load", LoadRequest{Confirm: true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	report := decode[service.LoadReport](t, w)
	assert.Equal(t, []string{"bad-key"}, report.DroppedKeys)
	assert.Equal(t, []model.DateKey{"2025-01-20"}, report.Days)

	env.remote.On("Save", mock.Anything, env.svc.Plan.Plan()).Return(nil).Once()
	w = PerformRequest(env.router, "POST", "/api/v1/sync/save", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	env.remote.AssertExpectations(t)
}

func TestSyncErrorStatuses(t *testing.T) {
	env := setupTestRouter(t)

	env.remote.On("Save", mock.Anything, mock.Anything).Return(errors.New("timeout")).Once()
	w := PerformRequest(env.router, "POST", "/api/v1/sync/save", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	env.remote.On("Load", mock.Anything).Return(nil, fmt.Errorf("%w (status 401)", remote.ErrUnauthorized)).Once()
	w = PerformRequest(env.router, "POST", "/api/v1/sync/load", LoadRequest{Confirm: true})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBasketRoutes(t *testing.T) {
	env := setupTestRouter(t)

	add := model.RecipeIngredients{RecipeID: "R1", RecipeTitle: "A", Rows: []model.IngredientRow{{Name: "egg", Unit: "pcs", Quantity: "2"}}}
	w := PerformRequest(env.router, "POST", "/api/v1/basket", add)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	add = model.RecipeIngredients{RecipeID: "R2", RecipeTitle: "B", Rows: []model.IngredientRow{{Name: "Egg", Unit: "pcs", Quantity: "3"}}}
	w = PerformRequest(env.router, "POST", "/api/v1/basket", add)
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[service.AddResult](t, w)
	require.Len(t, res.Entries, 1)
	assert.Equal(t, "5", res.Entries[0].Quantity)
	id := res.Entries[0].ID

	w = PerformRequest(env.router, "PATCH", "/api/v1/basket/"+id, map[string]string{"quantity": "zero"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	checked := true
	qty := "6"
	w = PerformRequest(env.router, "PATCH", "/api/v1/basket/"+id, UpdateEntryRequest{Quantity: &qty, IsChecked: &checked})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	entry := decode[model.BasketEntry](t, w)
	assert.Equal(t, "6", entry.Quantity)
	assert.True(t, entry.IsChecked)

	w = PerformRequest(env.router, "PATCH", "/api/v1/basket/"+id, map[string]string{"substitute": "quail egg"})
	require.Equal(t, http.StatusOK, w.Code)
	w = PerformRequest(env.router, "POST", "/api/v1/basket/"+id+"/revert", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "egg", decode[model.BasketEntry](t, w).Name)
	w = PerformRequest(env.router, "POST", "/api/v1/basket/"+id+"/revert", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = PerformRequest(env.router, "PATCH", "/api/v1/basket/missing", map[string]string{"quantity": "1"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = PerformRequest(env.router, "DELETE", "/api/v1/basket", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = PerformRequest(env.router, "GET", "/api/v1/basket", nil)
	assert.JSONEq(t, `{"entries":[]}`, w.Body.String())
}
