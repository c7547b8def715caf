// Package handler implements the HTTP handlers for the border registry API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (record.go, upload.go, export.go, etc.) but all share the same Server
// struct so they can access its dependencies.
package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/border-registry/backend/internal/domain"
	"github.com/pkordes/border-registry/backend/internal/middleware"
	"github.com/pkordes/border-registry/backend/internal/service"
)

// Permission names the token must carry for the gated routes. They are part
// of the contract with the authentication collaborator that issues tokens.
const (
	PermUpload        = "registry.upload"
	PermExport        = "registry.export"
	PermManageReports = "reports.manage"
	PermManageAudits  = "audits.manage"
)

// RecordServicer defines the record operations the handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type RecordServicer interface {
	Create(ctx context.Context, userID string, in domain.RecordInput) (domain.Record, error)
	GetByID(ctx context.Context, id int64) (domain.Record, error)
	Update(ctx context.Context, userID string, id int64, in domain.RecordInput) (domain.Record, error)
	Delete(ctx context.Context, userID string, id int64) error
	List(ctx context.Context, q domain.ListQuery) (domain.Page[domain.Record], error)
}

// IngestServicer runs a CSV batch upload.
type IngestServicer interface {
	Ingest(ctx context.Context, r io.Reader) (domain.BatchResult, error)
}

// ExportServicer renders a filtered export in the requested format.
type ExportServicer interface {
	Export(ctx context.Context, q domain.ListQuery, columns []string, format string, opts service.ExportOptions) (service.ExportFile, error)
}

// ReportServicer manages saved report configurations, always scoped to the
// requesting user.
type ReportServicer interface {
	Save(ctx context.Context, userID string, rc domain.ReportConfig) (domain.ReportConfig, error)
	ListByUser(ctx context.Context, userID string) ([]domain.ReportConfig, error)
	Delete(ctx context.Context, userID string, id int64) error
}

// AuditServicer reads and clears the audit trail.
type AuditServicer interface {
	List(ctx context.Context, p domain.PaginationParams) (domain.Page[domain.AuditEntry], error)
	Clear(ctx context.Context) error
}

// StatsServicer aggregates the dashboard numbers.
type StatsServicer interface {
	Dashboard(ctx context.Context) (service.Dashboard, error)
}

// Server holds every handler dependency. Construct it with NewServer and
// mount Routes on the application router.
type Server struct {
	records RecordServicer
	ingests IngestServicer
	exports ExportServicer
	reports ReportServicer
	audits  AuditServicer
	stats   StatsServicer

	dateFormat     domain.DateFormat
	maxPerPage     int
	maxUploadBytes int64
	log            *slog.Logger
}

// Deps bundles the Server dependencies so NewServer stays readable as the
// service surface grows.
type Deps struct {
	Records RecordServicer
	Ingests IngestServicer
	Exports ExportServicer
	Reports ReportServicer
	Audits  AuditServicer
	Stats   StatsServicer

	DateFormat     domain.DateFormat
	MaxPerPage     int
	MaxUploadBytes int64
	Log            *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(d Deps) *Server {
	if d.Log == nil {
		d.Log = slog.Default()
	}
	return &Server{
		records:        d.Records,
		ingests:        d.Ingests,
		exports:        d.Exports,
		reports:        d.Reports,
		audits:         d.Audits,
		stats:          d.Stats,
		dateFormat:     d.DateFormat,
		maxPerPage:     d.MaxPerPage,
		maxUploadBytes: d.MaxUploadBytes,
		log:            d.Log,
	}
}

// Routes assembles the API router. The auth middleware is passed in rather
// than built here so tests can substitute one that injects a fixed user.
// /healthz stays outside the authenticated group.
func (s *Server) Routes(auth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(auth)

		r.Route("/registry", func(r chi.Router) {
			r.Get("/", s.handleListRecords)
			r.Post("/", s.handleCreateRecord)
			r.With(
				middleware.NewMaxBodySizeHandler(s.maxUploadBytes),
				middleware.RequirePermission(PermUpload),
			).Post("/upload", s.handleUpload)
			r.With(middleware.RequirePermission(PermExport)).Get("/export", s.handleExport)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetRecord)
				r.Put("/", s.handleUpdateRecord)
				r.Delete("/", s.handleDeleteRecord)
			})
		})

		r.Route("/reports", func(r chi.Router) {
			r.Use(middleware.RequirePermission(PermManageReports))
			r.Get("/", s.handleListReports)
			r.Post("/", s.handleSaveReport)
			r.Delete("/{id}", s.handleDeleteReport)
		})

		r.Route("/audits", func(r chi.Router) {
			r.Use(middleware.RequirePermission(PermManageAudits))
			r.Get("/", s.handleListAudits)
			r.Delete("/", s.handleClearAudits)
		})

		r.Get("/dashboard", s.handleDashboard)
	})

	return r
}
