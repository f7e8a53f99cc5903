// Package remote implements the server-held copy of the meal plan: an
// authenticated HTTP endpoint of the recipe backend, or an S3 object.
package remote

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pageza/alchemorsel-v2/mealplan/internal/model"
)

var (
	// ErrSessionExpired is returned before any request is made when the
	// session token has already expired.
	ErrSessionExpired = errors.New("session expired, please sign in again")
	// ErrUnauthorized is returned when the remote rejects the credentials.
	ErrUnauthorized = errors.New("remote rejected the session")
)

// StatusError is an unexpected HTTP status from the remote.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("remote responded with status %d", e.Code)
	}
	return fmt.Sprintf("remote responded with status %d: %s", e.Code, e.Body)
}

// decodePlan reads a remote plan document. An empty body, null and {} all
// mean nothing is stored remotely. Keys are returned unvalidated; days and
// items of the wrong shape are reported in the document, not as errors.
func decodePlan(data []byte) (model.PlanDocument, error) {
	doc, err := model.DecodePlanDocument(data)
	if err != nil {
		return model.PlanDocument{}, fmt.Errorf("failed to decode remote meal plan: %w", err)
	}
	return doc, nil
}

func encodePlan(plan model.CalendarPlan) ([]byte, error) {
	compact := plan.Clone()
	compact.Compact()
	data, err := json.Marshal(compact)
	if err != nil {
		return nil, fmt.Errorf("failed to encode meal plan: %w", err)
	}
	return data, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
