package http

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/domain"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/logger"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/phaseconfig"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/ratelimit"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/service"
)

const maxSubmissionBytes = 1 << 20

// RecommendationHandler serves the unauthenticated recommender link. The token in
// the path is the only credential.
type RecommendationHandler struct {
	svc service.RecommendationService
}

func NewRecommendationHandler(svc service.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{svc: svc}
}

// recommendationView is what a recommender may see about the request.
type recommendationView struct {
	RecommenderName string                      `json:"recommender_name"`
	Status          domain.RecommendationStatus `json:"status"`
	SubmittedAt     *time.Time                  `json:"submitted_at,omitempty"`
	Fields          []phaseconfig.FormField     `json:"fields"`
}

type submitRequest struct {
	FormData map[string]any `json:"formData"`
}

type errorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// HandleGet returns the form a recommender has to fill in.
func (h *RecommendationHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]
	form, err := h.svc.GetByToken(r.Context(), token)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recommendationView{
		RecommenderName: form.Request.RecommenderName,
		Status:          form.Request.Status,
		SubmittedAt:     form.Request.SubmittedAt,
		Fields:          form.Fields,
	})
}

// HandleSubmit stores the recommender's answers.
func (h *RecommendationHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	var body submitRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSubmissionBytes))
	if err := dec.Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "request body must be a JSON object with formData"})
		return
	}

	if err := h.svc.Submit(r.Context(), token, body.FormData); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// RateLimit rejects requests once the client has used up its budget for the
// token in the path.
func RateLimit(limiter ratelimit.Limiter) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIP(r) + "|" + mux.Vars(r)["token"]
			if !limiter.Allow(key) {
				w.Header().Set("Retry-After", "60")
				writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "too many requests"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RegisterRecommendationRoutes registers the public recommender endpoints
func RegisterRecommendationRoutes(router *mux.Router, svc service.RecommendationService, limiter ratelimit.Limiter) {
	handler := NewRecommendationHandler(svc)
	sub := router.PathPrefix("/recommendations").Subrouter()
	if limiter != nil {
		sub.Use(RateLimit(limiter))
	}
	sub.HandleFunc("/{token}", handler.HandleGet).Methods("GET")
	sub.HandleFunc("/{token}", handler.HandleSubmit).Methods("POST")
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var de *domain.Error
	if !errors.As(err, &de) {
		logger.Error("Recommendation endpoint failed", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	code := http.StatusInternalServerError
	switch de.Kind {
	case domain.KindNotFound:
		code = http.StatusNotFound
	case domain.KindUnauthorized:
		code = http.StatusForbidden
	case domain.KindValidation:
		code = http.StatusUnprocessableEntity
	case domain.KindConflict, domain.KindAlreadyFinalized:
		code = http.StatusConflict
	}
	writeJSON(w, code, errorResponse{Error: de.Message, Code: de.Code, Fields: de.Fields})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to write response", "error", err)
	}
}
