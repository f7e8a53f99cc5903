package service

import (
	"errors"

	"github.com/pageza/alchemorsel-v2/mealplan/internal/model"
)

var (
	ErrEntryNotFound      = errors.New("basket entry not found")
	ErrInstanceNotFound   = errors.New("planned instance not found")
	ErrNoPendingSelection = errors.New("no recipe is pending placement")
	ErrNotSubstituted     = errors.New("basket entry has no substitution to revert")
	ErrSyncInProgress     = errors.New("a sync operation is already in progress")
	ErrRemoteSave         = errors.New("failed to save meal plan to remote")
	ErrRemoteLoad         = errors.New("failed to load meal plan from remote")
)

// ErrInvalidQuantity rejects a manual basket quantity edit.
var ErrInvalidQuantity = &model.ValidationError{Field: "quantity", Message: "must be a positive number"}
