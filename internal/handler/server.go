// Package handler implements the HTTP handlers for the tagcal API.
// All handlers are methods on Server. Methods are split into resource files
// (health.go, tag.go, period.go, ...) but share the same Server struct so
// they can access its dependencies.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/tagcal/internal/domain"
	"github.com/pkordes/tagcal/internal/layout"
	"github.com/pkordes/tagcal/internal/service"
	"github.com/pkordes/tagcal/spec"
)

// CalendarServicer defines the calendar operations the handlers depend on.
// Defining the interface in the consumer package lets handler tests inject a
// mock without touching storage or the service layer.
type CalendarServicer interface {
	Tags(ctx context.Context) []domain.Tag
	AddTag(ctx context.Context, name, color string) (domain.Tag, error)
	EditTag(ctx context.Context, id, name, color string) (domain.Tag, error)
	DeleteTag(ctx context.Context, id string) error

	ListPeriods(ctx context.Context, p domain.PaginationParams) ([]domain.Period, int)
	Period(ctx context.Context, id string) (domain.Period, error)
	CreatePeriod(ctx context.Context, tagID string, start, end domain.Date) (domain.Period, error)
	EditPeriod(ctx context.Context, id, tagID string, start, end domain.Date) (domain.Period, error)
	DeletePeriod(ctx context.Context, id string) error

	Marks(ctx context.Context) domain.DayMarks
	MarkDay(ctx context.Context, tagID string, d domain.Date) ([]domain.MarkEntry, error)
	UnmarkDay(ctx context.Context, tagID string, d domain.Date) error
	ClearAll(ctx context.Context) error

	Settings(ctx context.Context) domain.DisplaySettings
	UpdateSettings(ctx context.Context, s domain.DisplaySettings) (domain.DisplaySettings, error)

	Layout(ctx context.Context, opts layout.Options) layout.Layout
}

// ExportServicer defines the export and import operations.
type ExportServicer interface {
	Export(ctx context.Context, f service.Format) (service.ExportFile, error)
	Import(ctx context.Context, data []byte, confirm bool) (service.ImportSummary, error)
}

// Server serves every API endpoint.
type Server struct {
	cal     CalendarServicer
	export  ExportServicer
	metrics http.Handler
}

// NewServer constructs the Server with all its dependencies.
// metrics may be nil, in which case /metrics is not routed.
func NewServer(cal CalendarServicer, export ExportServicer, metrics http.Handler) *Server {
	return &Server{cal: cal, export: export, metrics: metrics}
}

// Routes returns the API router. Middleware is applied by the caller.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/tags", func(r chi.Router) {
		r.Get("/", s.ListTags)
		r.Post("/", s.CreateTag)
		r.Put("/{id}", s.UpdateTag)
		r.Delete("/{id}", s.DeleteTag)
	})

	r.Route("/periods", func(r chi.Router) {
		r.Get("/", s.ListPeriods)
		r.Post("/", s.CreatePeriod)
		r.Get("/{id}", s.GetPeriod)
		r.Put("/{id}", s.UpdatePeriod)
		r.Delete("/{id}", s.DeletePeriod)
	})

	r.Route("/marks", func(r chi.Router) {
		r.Get("/", s.ListMarks)
		r.Post("/", s.MarkDay)
		r.Delete("/", s.ClearMarks)
		r.Delete("/{date}/{tagId}", s.UnmarkDay)
	})

	r.Get("/settings", s.GetSettings)
	r.Put("/settings", s.UpdateSettings)

	r.Get("/calendar", s.GetCalendar)
	r.Get("/calendar.svg", s.GetCalendarSVG)

	r.Get("/export", s.GetExport)
	r.Post("/import", s.PostImport)

	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	return r
}

// GetOpenAPI handles GET /openapi.yaml.
func (s *Server) GetOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(spec.OpenAPI)
}
