package chi

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/abmeta/internal/domain"
	"github.com/kailas-cloud/abmeta/internal/logger"
	"github.com/kailas-cloud/abmeta/internal/usecase/fetch"
	healthuc "github.com/kailas-cloud/abmeta/internal/usecase/health"
	itemuc "github.com/kailas-cloud/abmeta/internal/usecase/item"
	"github.com/kailas-cloud/abmeta/internal/usecase/mapping"
	"github.com/kailas-cloud/abmeta/internal/version"
)

const (
	maxRequestBody  = 1 << 20
	maxDocumentBody = 16 << 20
	maxFetchIDs     = 1000
)

// Server serves the abmeta HTTP API.
type Server struct {
	items  *itemuc.Service
	fetch  *fetch.Service
	mapper *mapping.Mapper
	health *healthuc.Service
	logger *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(
	items *itemuc.Service,
	fetchSvc *fetch.Service,
	mapper *mapping.Mapper,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	return &Server{
		items:  items,
		fetch:  fetchSvc,
		mapper: mapper,
		health: health,
		logger: logger,
	}
}

// Routes registers the API handlers on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/items", func(r chi.Router) {
		r.Get("/", s.ListItems)
		r.Put("/{id}", s.RegisterItem)
		r.Get("/{id}", s.GetItem)
		r.Delete("/{id}", s.DeleteItem)
	})

	r.Post("/fetch", s.Fetch)
	r.Post("/imports", s.Import)
	r.Post("/map", s.Map)
	r.Get("/scheme", s.Scheme)
}

// RegisterItem handles PUT /items/{id}.
func (s *Server) RegisterItem(w http.ResponseWriter, r *http.Request) {
	var req RegisterItemRequest
	if !decodeBody(w, r, &req) {
		return
	}

	it, created, err := s.items.Register(r.Context(), chi.URLParam(r, "id"), req.MBTrackID, req.Path)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, itemToResponse(&it))
}

// GetItem handles GET /items/{id}.
func (s *Server) GetItem(w http.ResponseWriter, r *http.Request) {
	it, err := s.items.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, itemToResponse(&it))
}

// ListItems handles GET /items.
func (s *Server) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.items.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	resp := ItemListResponse{Items: make([]ItemResponse, len(items)), Count: len(items)}
	for i := range items {
		resp.Items[i] = itemToResponse(&items[i])
	}
	writeJSON(w, http.StatusOK, resp)
}

// DeleteItem handles DELETE /items/{id}.
func (s *Server) DeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := s.items.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Fetch handles POST /fetch. Without ids every item is fetched.
func (s *Server) Fetch(w http.ResponseWriter, r *http.Request) {
	var req FetchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.IDs) > maxFetchIDs {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "too many ids")
		return
	}

	logger.FromContext(r.Context()).Info("Fetch requested",
		zap.Int("ids", len(req.IDs)),
		zap.Bool("write", req.Write),
	)

	results, err := s.fetch.FetchByIDs(r.Context(), req.IDs, req.Write)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resultsToResponse(results))
}

// Import handles POST /imports, the hook called after items are imported.
func (s *Server) Import(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.IDs) > maxFetchIDs {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "too many ids")
		return
	}
	if !s.fetch.Auto() {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	results, err := s.fetch.ImportTaskFiles(r.Context(), req.IDs)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, resultsToResponse(results))
}

// Map handles POST /map: maps a raw document without persisting anything.
func (s *Server) Map(w http.ResponseWriter, r *http.Request) {
	doc, err := domain.DecodeDocument(http.MaxBytesReader(w, r.Body, maxDocumentBody))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	rec := &mapping.Recorder{}
	attrs := s.mapper.Map(doc, rec)

	diags := rec.Diagnostics
	if diags == nil {
		diags = []mapping.Diagnostic{}
	}
	writeJSON(w, http.StatusOK, MapResponse{
		Attributes:  attributesToResponse(attrs),
		Diagnostics: diags,
	})
}

// Scheme handles GET /scheme.
func (s *Server) Scheme(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, SchemeResponse{
		Attributes:      s.mapper.Scheme().Targets(),
		CompositePolicy: s.mapper.Policy().String(),
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:  string(report.Status),
		Checks:  checks,
		Version: version.Version,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// decodeBody decodes a JSON request body and writes a 400 on failure.
// An empty body decodes as the zero value.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

