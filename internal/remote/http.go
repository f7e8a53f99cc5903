package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pageza/alchemorsel-v2/mealplan/internal/model"
)

// DefaultPlanPath is the backend route holding the signed-in user's plan.
const DefaultPlanPath = "/api/v1/meal-plan"

// HTTPPlanStore reads and overwrites the plan through the recipe backend.
type HTTPPlanStore struct {
	baseURL string
	path    string
	token   string
	client  *http.Client
	now     func() time.Time
}

// NewHTTPPlanStore creates a store for baseURL. token is the bearer session
// token; an empty token sends unauthenticated requests.
func NewHTTPPlanStore(baseURL, token string, timeout time.Duration) *HTTPPlanStore {
	return &HTTPPlanStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		path:    DefaultPlanPath,
		token:   token,
		client: &http.Client{
			Timeout: timeout,
		},
		now: time.Now,
	}
}

// Load fetches the remote plan. 204 and an empty document mean nothing is
// stored; every other non-200 status is an error.
func (s *HTTPPlanStore) Load(ctx context.Context) (model.PlanDocument, error) {
	req, err := s.newRequest(ctx, http.MethodGet, nil)
	if err != nil {
		return model.PlanDocument{}, err
	}

	body, status, err := s.do(req)
	if err != nil {
		return model.PlanDocument{}, err
	}
	switch status {
	case http.StatusOK:
		return decodePlan(body)
	case http.StatusNoContent:
		return model.PlanDocument{}, nil
	default:
		return model.PlanDocument{}, statusError(status, body)
	}
}

// Save overwrites the remote plan with plan.
func (s *HTTPPlanStore) Save(ctx context.Context, plan model.CalendarPlan) error {
	data, err := encodePlan(plan)
	if err != nil {
		return err
	}
	req, err := s.newRequest(ctx, http.MethodPut, data)
	if err != nil {
		return err
	}

	body, status, err := s.do(req)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return statusError(status, body)
	}
	return nil
}

func (s *HTTPPlanStore) newRequest(ctx context.Context, method string, body []byte) (*http.Request, error) {
	if err := s.checkSession(); err != nil {
		return nil, err
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+s.path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	return req, nil
}

// checkSession rejects a JWT session token whose exp claim has passed. The
// signature is the backend's business; opaque tokens are sent as is.
func (s *HTTPPlanStore) checkSession() error {
	if s.token == "" {
		return nil
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.token, claims); err != nil {
		return nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	if !s.now().Before(exp.Time) {
		return ErrSessionExpired
	}
	return nil
}

func (s *HTTPPlanStore) do(req *http.Request) ([]byte, int, error) {
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		log.Printf("[RemotePlanStore] %s %s failed with status %d", req.Method, req.URL.Path, resp.StatusCode)
	}
	return body, resp.StatusCode, nil
}

func statusError(status int, body []byte) error {
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return fmt.Errorf("%w (status %d)", ErrUnauthorized, status)
	}
	return &StatusError{Code: status, Body: truncate(strings.TrimSpace(string(body)), 200)}
}
