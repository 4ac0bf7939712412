package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"farm-management/internal/auth"
	e "farm-management/internal/errors"
	"farm-management/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// mockDashboardService implements service.DashboardService for testing.
type mockDashboardService struct {
	summary *service.DashboardSummary
	err     error

	gotFarmID uuid.UUID
	gotAsOf   time.Time
}

func (m *mockDashboardService) Summary(_ context.Context, _, farmID uuid.UUID, asOf time.Time) (*service.DashboardSummary, error) {
	m.gotFarmID = farmID
	m.gotAsOf = asOf
	if m.err != nil {
		return nil, m.err
	}
	return m.summary, nil
}

func setupDashboardRouter(svc service.DashboardService, caller uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	ctrl := NewDashboardController(svc, zap.NewNop())
	router.GET("/v1/dashboard/summary", func(c *gin.Context) {
		if caller != uuid.Nil {
			auth.SetCallerID(c, caller)
		}
		ctrl.GetSummary(c)
	})
	return router
}

func TestGetSummarySuccess(t *testing.T) {
	farmID := uuid.New()
	fcr := 1.2
	mock := &mockDashboardService{summary: &service.DashboardSummary{
		FarmID:             farmID,
		TotalLots:          2,
		ActiveLots:         2,
		StartPopulation:    1000,
		Mortality7d:        5,
		MortalityRatePct:   0.5,
		FeedConversionRate: &fcr,
	}}
	router := setupDashboardRouter(mock, uuid.New())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/dashboard/summary?farm_id="+farmID.String()+"&as_of=2026-05-08", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var body service.DashboardSummary
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if body.FarmID != farmID {
		t.Errorf("Expected farm_id %s, got %s", farmID, body.FarmID)
	}
	if body.StartPopulation != 1000 {
		t.Errorf("Expected start_population 1000, got %d", body.StartPopulation)
	}
	if body.FeedConversionRate == nil || *body.FeedConversionRate != 1.2 {
		t.Errorf("Expected feed_conversion_ratio 1.2, got %v", body.FeedConversionRate)
	}

	want := time.Date(2026, 5, 8, 0, 0, 0, 0, time.UTC)
	if !mock.gotAsOf.Equal(want) {
		t.Errorf("Expected as_of %v, got %v", want, mock.gotAsOf)
	}
}

func TestGetSummaryMissingFarmID(t *testing.T) {
	router := setupDashboardRouter(&mockDashboardService{}, uuid.New())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/dashboard/summary", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if body["error"] != "Missing required parameter" {
		t.Errorf("Unexpected error field: %q", body["error"])
	}
}

func TestGetSummaryInvalidFarmID(t *testing.T) {
	router := setupDashboardRouter(&mockDashboardService{}, uuid.New())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/dashboard/summary?farm_id=not-a-uuid", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestGetSummaryForbidden(t *testing.T) {
	router := setupDashboardRouter(&mockDashboardService{err: e.ErrForbidden}, uuid.New())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/dashboard/summary?farm_id="+uuid.NewString(), nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("Expected status %d, got %d", http.StatusForbidden, w.Code)
	}
}

func TestGetSummaryUnauthenticated(t *testing.T) {
	router := setupDashboardRouter(&mockDashboardService{}, uuid.Nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/dashboard/summary?farm_id="+uuid.NewString(), nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}
