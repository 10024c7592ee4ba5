// Package api exposes the calculation engine over HTTP. Handlers only decode, validate,
// call the engine and encode; no financial math happens here.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/rgehrsitz/finplan/internal/advice"
	"github.com/rgehrsitz/finplan/internal/calculation"
	"github.com/rgehrsitz/finplan/internal/compare"
	"github.com/rgehrsitz/finplan/internal/config"
	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/rgehrsitz/finplan/internal/transform"
)

const maxRequestBytes = 1 << 20

// Server is the HTTP API server
type Server struct {
	engine      *calculation.CalculationEngine
	compare     *compare.CompareEngine
	sensitivity *calculation.SensitivityAnalyzer
	advisor     advice.Advisor
	limiter     *RateLimiter
	logger      *zap.Logger
	version     string
	mux         *http.ServeMux
	handler     http.Handler
}

// Option configures a Server
type Option func(*Server)

// WithVersion sets the version reported by /version and /health
func WithVersion(v string) Option { return func(s *Server) { s.version = v } }

// WithLogger sets the request logger
func WithLogger(l *zap.Logger) Option { return func(s *Server) { s.logger = l } }

// WithAdvisor enables ?advice=true on calculation endpoints
func WithAdvisor(a advice.Advisor) Option { return func(s *Server) { s.advisor = a } }

// WithRateLimiter limits requests per client address
func WithRateLimiter(rl *RateLimiter) Option { return func(s *Server) { s.limiter = rl } }

// NewServer creates a server around a calculation engine
func NewServer(engine *calculation.CalculationEngine, opts ...Option) *Server {
	s := &Server{
		engine:      engine,
		compare:     compare.NewCompareEngine(engine),
		sensitivity: calculation.NewSensitivityAnalyzer(engine),
		logger:      zap.NewNop(),
		version:     "dev",
		mux:         http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerRoutes()

	var h http.Handler = s.mux
	if s.limiter != nil {
		h = withRateLimit(s.limiter, h)
	}
	h = withRecovery(s.logger, h)
	h = withLogging(s.logger, h)
	s.handler = withRequestID(h)
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("POST /api/sip", s.handleSIP)
	s.mux.HandleFunc("POST /api/goal", s.handleGoal)
	s.mux.HandleFunc("POST /api/loan", s.handleLoan)
	s.mux.HandleFunc("POST /api/loan/compare", s.handleLoanCompare)
	s.mux.HandleFunc("POST /api/tax", s.handleTax)
	s.mux.HandleFunc("POST /api/budget", s.handleBudget)
	s.mux.HandleFunc("POST /api/sensitivity", s.handleSensitivity)

	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /version", s.handleVersion)
	s.mux.HandleFunc("GET /rules", s.handleRules)
	s.mux.HandleFunc("GET /rules/{version}", s.handleRuleTable)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr), zap.String("version", s.version))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		if s.limiter != nil {
			s.limiter.Stop()
		}
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleSIP(w http.ResponseWriter, r *http.Request) {
	var req domain.SIPRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := config.ValidateSIPRequest(&req); err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, "sip", func() (any, error) { return s.engine.SIP(req) })
}

func (s *Server) handleGoal(w http.ResponseWriter, r *http.Request) {
	var req domain.GoalRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := config.ValidateGoalRequest(&req); err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, "goal", func() (any, error) { return s.engine.Goal(req) })
}

func (s *Server) handleLoan(w http.ResponseWriter, r *http.Request) {
	var req domain.LoanRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := config.ValidateLoanRequest(&req); err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, "loan", func() (any, error) { return s.engine.Loan(req) })
}

func (s *Server) handleLoanCompare(w http.ResponseWriter, r *http.Request) {
	var req domain.LoanComparisonRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := config.ValidateComparisonRequest(&req); err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, "compare", func() (any, error) { return s.compare.Compare(r.Context(), req) })
}

func (s *Server) handleTax(w http.ResponseWriter, r *http.Request) {
	var req domain.TaxRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := config.ValidateTaxRequest(&req); err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, "tax", func() (any, error) { return s.engine.Tax(req) })
}

func (s *Server) handleBudget(w http.ResponseWriter, r *http.Request) {
	var req domain.BudgetRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := config.ValidateBudgetRequest(&req); err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, "budget", func() (any, error) { return s.engine.Budget(req) })
}

func (s *Server) handleSensitivity(w http.ResponseWriter, r *http.Request) {
	var req domain.SensitivityRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := config.ValidateSensitivityRequest(&req); err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, "sensitivity", func() (any, error) { return s.sensitivity.Analyze(r.Context(), req) })
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": s.version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"version":      s.version,
		"engine":       "finplan",
		"apiVersion":   "v1",
		"rulesVersion": s.engine.RulesVersion(),
	})
}

func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"active":  s.engine.RulesVersion(),
		"builtin": config.BuiltinVersions(),
	})
}

func (s *Server) handleRuleTable(w http.ResponseWriter, r *http.Request) {
	version := r.PathValue("version")
	if _, err := config.BuiltinSource(version); err != nil {
		writeError(w, r, http.StatusNotFound, CodeNotFound, fmt.Sprintf("no built-in rule table %q", version), "")
		return
	}
	table, err := config.NewRuleLoader().Resolve(version)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, table)
}

// decode reads a JSON body into dst, writing a 400 and returning false on failure
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, r, http.StatusBadRequest, CodeInvalidJSON, err.Error(), "")
		return false
	}
	return true
}

// respond runs the calculation, optionally attaches advice, and writes the envelope
func (s *Server) respond(w http.ResponseWriter, r *http.Request, tool string, calc func() (any, error)) {
	start := time.Now()
	result, err := calc()
	if err != nil {
		s.fail(w, r, err)
		return
	}

	resp := Response{
		Data: result,
		Meta: Meta{
			RequestID:     RequestIDFromContext(r.Context()),
			RulesVersion:  s.engine.RulesVersion(),
			EngineVersion: s.version,
		},
	}

	if r.URL.Query().Get("advice") == "true" {
		if s.advisor == nil {
			resp.Meta.AdviceError = "advice is not configured"
		} else {
			summary, err := s.advisor.Advise(r.Context(), advice.Request{
				RequestID: resp.Meta.RequestID,
				Tool:      tool,
				Figures:   result,
			})
			if err != nil {
				s.logger.Warn("advice unavailable", zap.String("tool", tool), zap.Error(err),
					zap.String("request_id", resp.Meta.RequestID))
				resp.Meta.AdviceError = err.Error()
			} else {
				env := advice.ToEnvelope(summary)
				resp.Advice = &env
			}
		}
	}

	resp.Meta.DurationMs = time.Since(start).Milliseconds()
	writeJSON(w, http.StatusOK, resp)
}

// fail maps an error to its status code: invalid arguments 400, domain errors 422,
// everything else 500
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var (
		calcErr *domain.CalculationError
		tErr    *transform.TransformError
		field   string
	)
	if errors.As(err, &calcErr) {
		field = calcErr.Field
	}

	switch {
	case errors.Is(err, domain.ErrInvalidArgument), errors.As(err, &tErr):
		writeError(w, r, http.StatusBadRequest, CodeInvalidArgument, err.Error(), field)
	case errors.Is(err, domain.ErrDomain):
		writeError(w, r, http.StatusUnprocessableEntity, CodeDomainError, err.Error(), field)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, r, http.StatusServiceUnavailable, CodeInternal, "request cancelled", "")
	default:
		s.logger.Error("calculation failed", zap.Error(err), zap.String("request_id", RequestIDFromContext(r.Context())))
		writeError(w, r, http.StatusInternalServerError, CodeInternal, err.Error(), "")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message, field string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorBody{
		Code:      code,
		Message:   message,
		Field:     field,
		RequestID: RequestIDFromContext(r.Context()),
	}})
}
