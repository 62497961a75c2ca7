// Package httpapi wires the HTTP surface of the assembly ledger service.
// It keeps handlers thin, delegating every rule to the service layer; its
// own job is decoding, input coercion, and status mapping.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	chi "github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/yhjeon/assemblybook/internal/aggregate"
	ledgersvc "github.com/yhjeon/assemblybook/internal/service/ledger"
)

// Narrator produces the free-text stewardship summary. Implementations must
// not fail; a fallback string stands in for any error.
type Narrator interface {
	Summarize(ctx context.Context, sum aggregate.Summary, rows []aggregate.Row) string
}

// ReadyChecker reports backing-store health for /readyz. Stores without a
// meaningful check (memory, file) simply omit the interface.
type ReadyChecker interface {
	Ready(ctx context.Context) error
}

// Server wires handlers and middleware using Chi.
type Server struct {
	svc      *ledgersvc.Service
	narrator Narrator
	ready    ReadyChecker
	log      *slog.Logger
	rt       *chi.Mux
}

// New constructs the HTTP server with routes and middleware. narrator and
// ready may be nil.
func New(svc *ledgersvc.Service, narrator Narrator, ready ReadyChecker, logger *slog.Logger) *Server {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(requestLogger(logger))
	r.Use(recoverer(logger))
	r.Use(metricsMiddleware)

	s := &Server{svc: svc, narrator: narrator, ready: ready, log: logger, rt: r}
	s.routes()
	return s
}

// Handler exposes the configured http.Handler.
func (s *Server) Handler() http.Handler { return s.rt }

// routes declares the public HTTP API endpoints.
func (s *Server) routes() {
	// Document lifecycle
	s.rt.Get("/v1/document", s.getDocument)
	s.rt.Get("/v1/export", s.exportDocument)
	s.rt.Post("/v1/import", s.importDocument)
	s.rt.Post("/v1/reset", s.resetDocument)

	// Counting, attendance, manual cash count
	s.rt.Put("/v1/counting/{day}/{slot}/{denom}", s.putCounting)
	s.rt.Put("/v1/attendance/{day}/{slot}", s.putAttendance)
	s.rt.Put("/v1/cash-count/{denom}", s.putManualCount)

	// Expense categories and detail lines, both namespaces
	s.rt.Post("/v1/{ns}/categories", s.postCategory)
	s.rt.Patch("/v1/{ns}/categories/{cat}", s.renameCategory)
	s.rt.Delete("/v1/{ns}/categories/{cat}", s.deleteCategory)
	s.rt.Post("/v1/{ns}/categories/{cat}/details", s.postDetail)
	s.rt.Patch("/v1/personal/categories/{cat}/details/{id}", s.patchPersonalDetail)
	s.rt.Delete("/v1/{ns}/categories/{cat}/details/{id}", s.deleteDetail)

	// Bank records
	s.rt.Post("/v1/bank/records", s.postBankRecord)
	s.rt.Delete("/v1/bank/records/{id}", s.deleteBankRecord)

	// Reports and overrides
	s.rt.Get("/v1/report", s.getReport)
	s.rt.Get("/v1/report/editable", s.getEditableReport)
	s.rt.Put("/v1/report/overrides/{cat}", s.putReportOverride)
	s.rt.Delete("/v1/report/overrides/{cat}", s.deleteReportOverride)
	s.rt.Delete("/v1/report/overrides", s.deleteReportOverrides)

	// Derived figures
	s.rt.Get("/v1/summary", s.getSummary)
	s.rt.Get("/v1/summary/narrative", s.getNarrative)

	// Health and metrics (unversioned)
	s.rt.Get("/healthz", s.healthz)
	s.rt.Get("/readyz", s.readyz)
	s.rt.Get("/metrics", metricsHandler().ServeHTTP)
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }

func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		if err := s.ready.Ready(r.Context()); err != nil {
			writeErr(w, http.StatusServiceUnavailable, "store not ready", "not_ready")
			return
		}
	}
	w.WriteHeader(http.StatusOK)
}
