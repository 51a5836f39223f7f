// Package chi exposes the agent over HTTP. The route table lives here;
// middleware is assembled in the composition root.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sagarpimpale/weather-rag-agent/internal/domain"
	logpkg "github.com/sagarpimpale/weather-rag-agent/internal/logger"
	healthuc "github.com/sagarpimpale/weather-rag-agent/internal/usecase/health"
	"github.com/sagarpimpale/weather-rag-agent/internal/usecase/usage"
)

// maxQueryBytes bounds the request body for /v1/query.
const maxQueryBytes = 16 << 10

// Error response codes returned to clients.
const (
	codeBadRequest             = "bad_request"
	codeValidationFailed       = "validation_failed"
	codeGenerationError        = "generation_error"
	codeEmbeddingProviderError = "embedding_provider_error"
	codeIndexNotReady          = "index_not_ready"
	codeIndexBuildError        = "index_build_error"
	codeInternalError          = "internal_error"
)

// QueryHandler processes one query end to end.
type QueryHandler interface {
	HandleQuery(ctx context.Context, text string) (domain.Answer, error)
}

// IndexRebuilder rebuilds the corpus index and exposes the serving snapshot.
type IndexRebuilder interface {
	Rebuild(ctx context.Context) error
	Current() domain.VectorIndex
}

// UsageReporter snapshots process-lifetime usage counters.
type UsageReporter interface {
	Report() usage.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server is the HTTP API server. Handlers log through the per-request
// logger installed by the wide-event middleware.
type Server struct {
	agent         QueryHandler
	index         IndexRebuilder
	usage         UsageReporter
	health        *healthuc.Service
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	agent QueryHandler,
	index IndexRebuilder,
	usage UsageReporter,
	health *healthuc.Service,
) *Server {
	s := &Server{
		agent:  agent,
		index:  index,
		usage:  usage,
		health: health,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrIndexNotReady, http.StatusServiceUnavailable, codeIndexNotReady),
		sentinelHandler(domain.ErrIndexBuild, http.StatusBadGateway, codeIndexBuildError),
		sentinelHandler(domain.ErrGeneration, http.StatusBadGateway, codeGenerationError),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeEmbeddingProviderError),
	}
	return s
}

// Routes mounts all endpoints on r.
func (s *Server) Routes(r chi.Router) {
	r.Post("/v1/query", s.handleQuery)
	r.Post("/v1/index/rebuild", s.handleRebuild)
	r.Get("/v1/usage", s.handleUsage)
	r.Get("/healthz", s.handleHealth)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
}

// handleQuery handles POST /v1/query.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	body := http.MaxBytesReader(w, r.Body, maxQueryBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.Query == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "Query text is required")
		return
	}

	ans, err := s.agent.HandleQuery(r.Context(), req.Query)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, answerToResponse(ans))
}

// handleRebuild handles POST /v1/index/rebuild.
func (s *Server) handleRebuild(w http.ResponseWriter, r *http.Request) {
	if err := s.index.Rebuild(r.Context()); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	resp := rebuildResponse{Status: "ok"}
	if ix := s.index.Current(); ix != nil {
		resp.Entries = ix.Len()
	}
	logpkg.FromContext(r.Context()).Info("index rebuilt", zap.Int("entries", resp.Entries))
	writeJSON(w, http.StatusOK, resp)
}

// handleUsage handles GET /v1/usage.
func (s *Server) handleUsage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.usage.Report())
}

// handleHealth handles GET /healthz.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: report.Checks,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrIndexNotReady,
		domain.ErrIndexBuild,
		domain.ErrGeneration,
		domain.ErrEmbeddingProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContext(r.Context())
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
