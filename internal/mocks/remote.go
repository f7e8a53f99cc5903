package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/alchemorsel-v2/mealplan/internal/model"
)

// MockRemotePlanStore is a mock implementation of the remote plan store
type MockRemotePlanStore struct {
	mock.Mock
}

func (m *MockRemotePlanStore) Load(ctx context.Context) (model.PlanDocument, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return model.PlanDocument{}, args.Error(1)
	}
	return args.Get(0).(model.PlanDocument), args.Error(1)
}

func (m *MockRemotePlanStore) Save(ctx context.Context, plan model.CalendarPlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

// PlanDocument wraps days as a well-formed remote document.
func PlanDocument(days map[string][]model.PlannedInstance) model.PlanDocument {
	return model.PlanDocument{Days: days}
}
