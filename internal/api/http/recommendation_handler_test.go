package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	api "github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/api/http"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/domain"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/phaseconfig"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/ratelimit"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/service"
)

// MockRecommendationService
type MockRecommendationService struct {
	mock.Mock
}

func (m *MockRecommendationService) CreateRequest(ctx context.Context, actor domain.Actor, in service.RecommendationInput) (*domain.RecommendationRequest, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecommendationRequest), args.Error(1)
}
func (m *MockRecommendationService) ListRequests(ctx context.Context, actor domain.Actor, applicationID, phaseID string) ([]domain.RecommendationRequest, error) {
	args := m.Called(ctx, actor, applicationID, phaseID)
	return args.Get(0).([]domain.RecommendationRequest), args.Error(1)
}
func (m *MockRecommendationService) GetByToken(ctx context.Context, token string) (*service.RecommendationForm, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RecommendationForm), args.Error(1)
}
func (m *MockRecommendationService) Submit(ctx context.Context, token string, formData map[string]any) error {
	return m.Called(ctx, token, formData).Error(0)
}
func (m *MockRecommendationService) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockRecommendationService) SendReminders(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

func newRouter(svc service.RecommendationService, limiter ratelimit.Limiter) *mux.Router {
	router := mux.NewRouter()
	api.RegisterRecommendationRoutes(router, svc, limiter)
	return router
}

func do(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRecommendationHandler_Get(t *testing.T) {
	svc := new(MockRecommendationService)
	router := newRouter(svc, nil)

	svc.On("GetByToken", mock.Anything, "tok-1").Return(&service.RecommendationForm{
		Request: &domain.RecommendationRequest{
			ID:               "r-1",
			ApplicationID:    "app-1",
			RecommenderEmail: "prof@example.org",
			RecommenderName:  "Prof. Knuth",
			Status:           domain.RecommendationViewed,
		},
		Fields: []phaseconfig.FormField{{Label: "Letter", Type: phaseconfig.FieldRichTextArea, Required: true}},
	}, nil)
	svc.On("GetByToken", mock.Anything, "missing").Return(nil, domain.ErrNotFound)

	t.Run("returns the form without request internals", func(t *testing.T) {
		rec := do(router, http.MethodGet, "/recommendations/tok-1", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Prof. Knuth", body["recommender_name"])
		assert.Equal(t, "viewed", body["status"])
		assert.NotContains(t, rec.Body.String(), "app-1")
		assert.NotContains(t, rec.Body.String(), "prof@example.org")
		assert.Len(t, body["fields"], 1)
	})

	t.Run("unknown token", func(t *testing.T) {
		rec := do(router, http.MethodGet, "/recommendations/missing", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestRecommendationHandler_Submit(t *testing.T) {
	svc := new(MockRecommendationService)
	router := newRouter(svc, nil)

	letter := map[string]any{"Letter": "Outstanding."}
	svc.On("Submit", mock.Anything, "tok-1", letter).Return(nil).Once()
	svc.On("Submit", mock.Anything, "tok-1", letter).Return(domain.ErrRecommendationAlreadySubmitted)
	svc.On("Submit", mock.Anything, "tok-2", map[string]any{}).
		Return(domain.ErrValidation.WithFields(map[string]string{"Letter": "required"}))

	t.Run("first submission", func(t *testing.T) {
		rec := do(router, http.MethodPost, "/recommendations/tok-1", `{"formData":{"Letter":"Outstanding."}}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"success":true}`, rec.Body.String())
	})

	t.Run("second submission conflicts", func(t *testing.T) {
		rec := do(router, http.MethodPost, "/recommendations/tok-1", `{"formData":{"Letter":"Outstanding."}}`)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "RecommendationAlreadySubmitted")
	})

	t.Run("field errors", func(t *testing.T) {
		rec := do(router, http.MethodPost, "/recommendations/tok-2", `{"formData":{}}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		var body struct {
			Fields map[string]string `json:"fields"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "required", body.Fields["Letter"])
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := do(router, http.MethodPost, "/recommendations/tok-1", `not json`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRecommendationHandler_InternalError(t *testing.T) {
	svc := new(MockRecommendationService)
	router := newRouter(svc, nil)
	svc.On("GetByToken", mock.Anything, "tok-1").Return(nil, assert.AnError)

	rec := do(router, http.MethodGet, "/recommendations/tok-1", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
}

func TestRateLimit(t *testing.T) {
	svc := new(MockRecommendationService)
	svc.On("GetByToken", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)
	router := newRouter(svc, ratelimit.NewMemoryLimiter(2, time.Minute))

	get := func(token, ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/recommendations/"+token, nil)
		req.Header.Set("X-Forwarded-For", ip+", 10.0.0.1")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNotFound, get("guess-1", "203.0.113.7"))
	assert.Equal(t, http.StatusNotFound, get("guess-1", "203.0.113.7"))
	assert.Equal(t, http.StatusTooManyRequests, get("guess-1", "203.0.113.7"))

	// Budgets are per client and token.
	assert.Equal(t, http.StatusNotFound, get("guess-1", "198.51.100.2"))
	assert.Equal(t, http.StatusNotFound, get("guess-2", "203.0.113.7"))
}
