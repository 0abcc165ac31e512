package gateway

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/trebuchet-org/drc/internal/adapters/metrics"
	"github.com/trebuchet-org/drc/internal/domain"
	"github.com/trebuchet-org/drc/internal/usecase"
)

// maxRequestBytes bounds a job request body
const maxRequestBytes = 64 << 10

// Handler exposes the job pipeline over HTTP
type Handler struct {
	jobs    *usecase.ProcessJob
	query   *usecase.QueryBinding
	metrics *metrics.Metrics
	log     *slog.Logger
	timeout time.Duration
}

// NewHandler creates the HTTP transport
func NewHandler(
	jobs *usecase.ProcessJob,
	query *usecase.QueryBinding,
	m *metrics.Metrics,
	log *slog.Logger,
) *Handler {
	return &Handler{
		jobs:    jobs,
		query:   query,
		metrics: m,
		log:     log,
		timeout: 60 * time.Second,
	}
}

// Routes builds the router
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.handleHealth)
	if h.metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(h.metrics.Registry, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(h.timeout))
		r.Post("/", h.handleJob)
		r.Post("/jobs", h.handleJob)
		r.Get("/bindings/{domain}", h.handleBinding)
	})

	return r
}

// handleJob runs one job request from the body
func (h *Handler) handleJob(w http.ResponseWriter, r *http.Request) {
	var req domain.JobRequest
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes))
	if err == nil {
		err = json.Unmarshal(body, &req)
	}
	if err != nil {
		jobErr := domain.NewJobError(req.ID, domain.MissingParameterError{
			Param:  "body",
			Reason: fmt.Sprintf("invalid job request: %v", err),
		})
		h.writeJSON(w, jobErr.StatusCode, jobErr)
		return
	}

	h.log.DebugContext(r.Context(), "job received",
		"job_id", req.ID,
		"domain", req.Data.Domain,
		"request_id", middleware.GetReqID(r.Context()),
	)

	status, resp := h.jobs.Execute(r.Context(), req)
	h.writeJSON(w, status, resp)
}

// handleBinding returns the registry state of a domain
func (h *Handler) handleBinding(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "domain")
	binding, err := h.query.GetBinding(r.Context(), name)
	if err != nil {
		h.log.ErrorContext(r.Context(), "failed to load binding", "domain", name, "error", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	h.writeJSON(w, http.StatusOK, binding)
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Debug("failed to write response", "status", status, "error", err)
	}
}
