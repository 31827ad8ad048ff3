package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	jwxjwt "github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftwatch/timeclock-backend-go/internal/domain/anomaly"
)

type fakeAnomalyService struct {
	listFn     func(ctx context.Context, filter anomaly.AnomalyFilter) (anomaly.ListAnomalyResponse, error)
	getFn      func(ctx context.Context, id string) (anomaly.AnomalyResponse, error)
	validateFn func(ctx context.Context, req anomaly.HandleAnomalyRequest) (anomaly.AnomalyResponse, error)
	rejectFn   func(ctx context.Context, req anomaly.HandleAnomalyRequest) (anomaly.AnomalyResponse, error)
}

func (f *fakeAnomalyService) ListAnomalies(ctx context.Context, filter anomaly.AnomalyFilter) (anomaly.ListAnomalyResponse, error) {
	return f.listFn(ctx, filter)
}

func (f *fakeAnomalyService) GetAnomaly(ctx context.Context, id string) (anomaly.AnomalyResponse, error) {
	return f.getFn(ctx, id)
}

func (f *fakeAnomalyService) ValidateAnomaly(ctx context.Context, req anomaly.HandleAnomalyRequest) (anomaly.AnomalyResponse, error) {
	return f.validateFn(ctx, req)
}

func (f *fakeAnomalyService) RejectAnomaly(ctx context.Context, req anomaly.HandleAnomalyRequest) (anomaly.AnomalyResponse, error) {
	return f.rejectFn(ctx, req)
}

func newAnomalyTestRouter(svc anomaly.AnomalyService) *chi.Mux {
	h := NewAnomalyHandler(svc)
	r := chi.NewRouter()
	r.Get("/anomalies", h.List)
	r.Get("/anomalies/{id}", h.Get)
	r.Post("/anomalies/{id}/validate", h.Validate)
	r.Post("/anomalies/{id}/reject", h.Reject)
	return r
}

// adminContext simulates a verified admin token the way jwtauth.Verifier
// would place it on the request context.
func adminContext(t *testing.T, ctx context.Context, sub string) context.Context {
	t.Helper()
	tok := jwxjwt.New()
	require.NoError(t, tok.Set("sub", sub))
	require.NoError(t, tok.Set("role", "admin"))
	return jwtauth.NewContext(ctx, tok, nil)
}

func TestAnomalyListParsesQueryFilters(t *testing.T) {
	var captured anomaly.AnomalyFilter
	svc := &fakeAnomalyService{
		listFn: func(ctx context.Context, filter anomaly.AnomalyFilter) (anomaly.ListAnomalyResponse, error) {
			captured = filter
			return anomaly.ListAnomalyResponse{Anomalies: []anomaly.AnomalyResponse{}}, nil
		},
	}
	router := newAnomalyTestRouter(svc)

	const employeeID = "0c2de6a1-58a5-4b3f-8f49-2f6a2e06d7c3"
	req := httptest.NewRequest(http.MethodGet,
		"/anomalies?employee_id="+employeeID+"&severity=critical&status=pending&page=2&limit=50&sort_by=severity&sort_order=asc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, captured.EmployeeID)
	assert.Equal(t, employeeID, *captured.EmployeeID)
	require.NotNil(t, captured.Severity)
	assert.Equal(t, "critical", *captured.Severity)
	require.NotNil(t, captured.Status)
	assert.Equal(t, "pending", *captured.Status)
	assert.Equal(t, 2, captured.Page)
	assert.Equal(t, 50, captured.Limit)
	assert.Equal(t, "severity", captured.SortBy)
	assert.Equal(t, "asc", captured.SortOrder)
	assert.Nil(t, captured.Type)
}

func TestAnomalyValidateUsesTokenSubject(t *testing.T) {
	const anomalyID = "7b6a3f0e-4f39-4c2e-9b88-0f6d2a2f9f01"
	const adminID = "admin-42"

	var captured anomaly.HandleAnomalyRequest
	svc := &fakeAnomalyService{
		validateFn: func(ctx context.Context, req anomaly.HandleAnomalyRequest) (anomaly.AnomalyResponse, error) {
			captured = req
			return anomaly.AnomalyResponse{ID: req.ID, Status: anomaly.StatusValidated}, nil
		},
	}
	router := newAnomalyTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/anomalies/"+anomalyID+"/validate", nil)
	req = req.WithContext(adminContext(t, req.Context(), adminID))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, anomalyID, captured.ID)
	assert.Equal(t, adminID, captured.HandledBy)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, anomaly.StatusValidated, body.Data.Status)
}

func TestAnomalyValidateWithoutTokenFailsValidation(t *testing.T) {
	svc := &fakeAnomalyService{
		validateFn: func(ctx context.Context, req anomaly.HandleAnomalyRequest) (anomaly.AnomalyResponse, error) {
			t.Fatal("service should not be reached")
			return anomaly.AnomalyResponse{}, nil
		},
	}
	router := newAnomalyTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/anomalies/7b6a3f0e-4f39-4c2e-9b88-0f6d2a2f9f01/validate", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAnomalyErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"not found", anomaly.ErrAnomalyNotFound, http.StatusNotFound},
		{"already handled", anomaly.ErrAnomalyAlreadyHandled, http.StatusConflict},
		{"obsolete", anomaly.ErrAnomalyObsolete, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeAnomalyService{
				rejectFn: func(ctx context.Context, req anomaly.HandleAnomalyRequest) (anomaly.AnomalyResponse, error) {
					return anomaly.AnomalyResponse{}, tt.err
				},
			}
			router := newAnomalyTestRouter(svc)

			req := httptest.NewRequest(http.MethodPost, "/anomalies/7b6a3f0e-4f39-4c2e-9b88-0f6d2a2f9f01/reject", nil)
			req = req.WithContext(adminContext(t, req.Context(), "admin-1"))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}
