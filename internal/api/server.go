package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/samijaber1/aegis-reliability/internal/calculator"
	"github.com/samijaber1/aegis-reliability/internal/eval"
	"github.com/samijaber1/aegis-reliability/internal/observability"
	"github.com/samijaber1/aegis-reliability/internal/storage"
)

// Options wires the server to its collaborators. Store and Recorder are
// optional.
type Options struct {
	Session  *calculator.Session
	Store    storage.Store
	Recorder *observability.Recorder
	Printer  *calculator.Printer
	Logger   *zap.SugaredLogger

	// Audit records every stateless calculation in the store
	Audit bool
}

// Server is the HTTP API server
type Server struct {
	session  *calculator.Session
	store    storage.Store
	recorder *observability.Recorder
	printer  *calculator.Printer
	log      *zap.SugaredLogger
	audit    bool
	now      func() time.Time

	router *mux.Router
	server *http.Server
}

// pinger is implemented by stores that can check their backing connection
type pinger interface {
	Ping() error
}

// NewServer creates a new API server
func NewServer(opts Options, addr string) *Server {
	if opts.Printer == nil {
		opts.Printer = calculator.MustPrinter(calculator.DefaultLocale)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}

	s := &Server{
		session:  opts.Session,
		store:    opts.Store,
		recorder: opts.Recorder,
		printer:  opts.Printer,
		log:      opts.Logger,
		audit:    opts.Audit,
		now:      time.Now,
	}

	s.router = s.setupRouter()
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return s
}

func (s *Server) setupRouter() *mux.Router {
	router := mux.NewRouter()
	router.Use(s.loggingMiddleware)

	// Health endpoints
	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/readyz", s.handleReady).Methods(http.MethodGet)

	// Stateless calculators
	router.HandleFunc("/v1/mtbf", s.handleTimeMetric(eval.KindMTBF)).Methods(http.MethodPost)
	router.HandleFunc("/v1/mttr", s.handleTimeMetric(eval.KindMTTR)).Methods(http.MethodPost)
	router.HandleFunc("/v1/availability/steady", s.handleSteady).Methods(http.MethodPost)
	router.HandleFunc("/v1/availability/period", s.handlePeriod).Methods(http.MethodPost)

	// Session endpoints
	if s.session != nil {
		router.HandleFunc("/v1/session", s.handleSessionGet).Methods(http.MethodGet)
		router.HandleFunc("/v1/session", s.handleSessionPatch).Methods(http.MethodPatch)
		router.HandleFunc("/v1/session", s.handleSessionRestore).Methods(http.MethodPut)
		router.HandleFunc("/v1/session/calculate", s.handleSessionCalculate).Methods(http.MethodPost)
	}

	// Audit endpoint
	router.HandleFunc("/v1/audit", s.handleAudit).Methods(http.MethodGet)

	if s.recorder != nil {
		router.Handle("/metrics", s.recorder.Handler()).Methods(http.MethodGet)
	}

	return router
}

// Handler returns the routed handler, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Infof("Starting API server on %s", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down API server...")
	return s.server.Shutdown(ctx)
}

// handleHealth handles GET /healthz
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// handleReady handles GET /readyz
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	reasons := []string{}

	if s.store == nil {
		reasons = append(reasons, "no store configured")
	} else if p, ok := s.store.(pinger); ok {
		if err := p.Ping(); err != nil {
			reasons = append(reasons, fmt.Sprintf("store unreachable: %v", err))
		}
	}

	ready := len(reasons) == 0
	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}

	respondJSON(w, status, ReadyResponse{Ready: ready, Reasons: reasons})
}

// handleTimeMetric handles POST /v1/mtbf and /v1/mttr
func (s *Server) handleTimeMetric(kind eval.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TimeMetricRequest
		if !decodeBody(w, r, &req) {
			return
		}

		out := calculator.EvaluateTimeMetric(kind, calculator.TimeMetricSnapshot{
			Total: req.Total,
			Count: req.Count,
			Rows:  req.Rows,
		}, s.printer)

		s.observe(string(kind), out, req)
		respondOutput(w, out)
	}
}

// handleSteady handles POST /v1/availability/steady
func (s *Server) handleSteady(w http.ResponseWriter, r *http.Request) {
	var req SteadyRequest
	if !decodeBody(w, r, &req) {
		return
	}

	out := calculator.EvaluateSteady(calculator.AvailabilitySnapshot{
		MTBF: req.MTBF,
		MTTR: req.MTTR,
	}, s.printer)

	s.observe("steady", out, req)
	respondOutput(w, out)
}

// handlePeriod handles POST /v1/availability/period
func (s *Server) handlePeriod(w http.ResponseWriter, r *http.Request) {
	var req PeriodRequest
	if !decodeBody(w, r, &req) {
		return
	}

	out := calculator.EvaluatePeriod(calculator.AvailabilitySnapshot{
		MTTR:     req.MTTR,
		Period:   req.Period,
		Down:     req.Down,
		Failures: req.Failures,
		Rows:     req.Rows,
	}, s.printer)

	s.observe("period", out, req)
	respondOutput(w, out)
}

// handleSessionGet handles GET /v1/session
func (s *Server) handleSessionGet(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.sessionResponse())
}

// handleSessionPatch handles PATCH /v1/session. The recalculation runs once
// the debounce window has passed, so the response reports pending=true.
func (s *Server) handleSessionPatch(w http.ResponseWriter, r *http.Request) {
	var patch SessionPatch
	if !decodeBody(w, r, &patch) {
		return
	}

	if patch.Field == "" && patch.Rows == nil && patch.ActiveTab == "" {
		respondError(w, http.StatusBadRequest, "patch must set field, rows or activeTab")
		return
	}

	update := calculator.Update{
		Calculator: patch.Calculator,
		Field:      patch.Field,
		Rows:       patch.Rows,
		ActiveTab:  patch.ActiveTab,
	}
	if patch.Value != nil {
		update.Value = *patch.Value
	}

	if err := s.session.Update(update); err != nil {
		respondSessionError(w, err)
		return
	}

	respondJSON(w, http.StatusAccepted, s.sessionResponse())
}

// handleSessionRestore handles PUT /v1/session
func (s *Server) handleSessionRestore(w http.ResponseWriter, r *http.Request) {
	var snap calculator.Snapshot
	if !decodeBody(w, r, &snap) {
		return
	}

	s.session.Restore(snap)
	respondJSON(w, http.StatusOK, s.sessionResponse())
}

// handleSessionCalculate handles POST /v1/session/calculate
func (s *Server) handleSessionCalculate(w http.ResponseWriter, r *http.Request) {
	s.session.Calculate()
	respondJSON(w, http.StatusOK, s.sessionResponse())
}

// handleAudit handles GET /v1/audit
func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		respondError(w, http.StatusServiceUnavailable, "audit storage not configured")
		return
	}

	// Parse query parameters
	query := r.URL.Query()
	filter := storage.CalculationFilter{
		Calculator: query.Get("calculator"),
		Method:     query.Get("method"),
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			filter.Limit = limit
		}
	}

	if offsetStr := query.Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil {
			filter.Offset = offset
		}
	}

	if startTimeStr := query.Get("startTime"); startTimeStr != "" {
		if startTime, err := time.Parse(time.RFC3339, startTimeStr); err == nil {
			filter.StartTime = &startTime
		}
	}

	if endTimeStr := query.Get("endTime"); endTimeStr != "" {
		if endTime, err := time.Parse(time.RFC3339, endTimeStr); err == nil {
			filter.EndTime = &endTime
		}
	}

	records, err := s.store.QueryCalculations(filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to query audit: %v", err))
		return
	}
	if records == nil {
		records = []storage.CalculationRecord{}
	}

	respondJSON(w, http.StatusOK, AuditResponse{
		Records: records,
		Total:   len(records),
	})
}

// observe records metrics and, when enabled, an audit entry. Audit failures
// are logged and never fail the request.
func (s *Server) observe(name string, out calculator.Output, inputs interface{}) {
	if s.recorder != nil {
		s.recorder.RecordOutput(name, out)
	}

	if !s.audit || s.store == nil {
		return
	}

	rec, err := storage.NewCalculationRecord(name, out, inputs, s.now())
	if err != nil {
		s.log.Warnw("failed to build audit record", "calculator", name, "error", err)
		return
	}
	if err := s.store.RecordCalculation(rec); err != nil {
		s.log.Warnw("failed to record calculation", "calculator", name, "error", err)
	}
}

func (s *Server) sessionResponse() SessionResponse {
	return SessionResponse{
		Snapshot: s.session.Snapshot(),
		Outputs:  s.session.Outputs(),
		Pending:  s.session.Pending(),
	}
}

// Helper functions

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return false
	}
	return true
}

// respondOutput writes a calculation result. Calculation errors are part of
// the result and use 422.
func respondOutput(w http.ResponseWriter, out calculator.Output) {
	status := http.StatusOK
	if out.Err != nil {
		status = http.StatusUnprocessableEntity
	}
	respondJSON(w, status, out)
}

func respondSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, calculator.ErrUnknownCalculator),
		errors.Is(err, calculator.ErrUnknownField),
		errors.Is(err, calculator.ErrUnknownTab):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Infow("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}
