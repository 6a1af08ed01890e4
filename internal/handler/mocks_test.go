package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pkordes/tagcal/internal/domain"
	"github.com/pkordes/tagcal/internal/handler"
	"github.com/pkordes/tagcal/internal/layout"
	"github.com/pkordes/tagcal/internal/service"
)

// mockCalendarServicer is a test double for handler.CalendarServicer.
// Set only the method fields your test needs.
type mockCalendarServicer struct {
	tags           func(ctx context.Context) []domain.Tag
	addTag         func(ctx context.Context, name, color string) (domain.Tag, error)
	editTag        func(ctx context.Context, id, name, color string) (domain.Tag, error)
	deleteTag      func(ctx context.Context, id string) error
	listPeriods    func(ctx context.Context, p domain.PaginationParams) ([]domain.Period, int)
	period         func(ctx context.Context, id string) (domain.Period, error)
	createPeriod   func(ctx context.Context, tagID string, start, end domain.Date) (domain.Period, error)
	editPeriod     func(ctx context.Context, id, tagID string, start, end domain.Date) (domain.Period, error)
	deletePeriod   func(ctx context.Context, id string) error
	marks          func(ctx context.Context) domain.DayMarks
	markDay        func(ctx context.Context, tagID string, d domain.Date) ([]domain.MarkEntry, error)
	unmarkDay      func(ctx context.Context, tagID string, d domain.Date) error
	clearAll       func(ctx context.Context) error
	settings       func(ctx context.Context) domain.DisplaySettings
	updateSettings func(ctx context.Context, s domain.DisplaySettings) (domain.DisplaySettings, error)
	layout         func(ctx context.Context, opts layout.Options) layout.Layout
}

func (m *mockCalendarServicer) Tags(ctx context.Context) []domain.Tag { return m.tags(ctx) }
func (m *mockCalendarServicer) AddTag(ctx context.Context, name, color string) (domain.Tag, error) {
	return m.addTag(ctx, name, color)
}
func (m *mockCalendarServicer) EditTag(ctx context.Context, id, name, color string) (domain.Tag, error) {
	return m.editTag(ctx, id, name, color)
}
func (m *mockCalendarServicer) DeleteTag(ctx context.Context, id string) error {
	return m.deleteTag(ctx, id)
}
func (m *mockCalendarServicer) ListPeriods(ctx context.Context, p domain.PaginationParams) ([]domain.Period, int) {
	return m.listPeriods(ctx, p)
}
func (m *mockCalendarServicer) Period(ctx context.Context, id string) (domain.Period, error) {
	return m.period(ctx, id)
}
func (m *mockCalendarServicer) CreatePeriod(ctx context.Context, tagID string, start, end domain.Date) (domain.Period, error) {
	return m.createPeriod(ctx, tagID, start, end)
}
func (m *mockCalendarServicer) EditPeriod(ctx context.Context, id, tagID string, start, end domain.Date) (domain.Period, error) {
	return m.editPeriod(ctx, id, tagID, start, end)
}
func (m *mockCalendarServicer) DeletePeriod(ctx context.Context, id string) error {
	return m.deletePeriod(ctx, id)
}
func (m *mockCalendarServicer) Marks(ctx context.Context) domain.DayMarks { return m.marks(ctx) }
func (m *mockCalendarServicer) MarkDay(ctx context.Context, tagID string, d domain.Date) ([]domain.MarkEntry, error) {
	return m.markDay(ctx, tagID, d)
}
func (m *mockCalendarServicer) UnmarkDay(ctx context.Context, tagID string, d domain.Date) error {
	return m.unmarkDay(ctx, tagID, d)
}
func (m *mockCalendarServicer) ClearAll(ctx context.Context) error { return m.clearAll(ctx) }
func (m *mockCalendarServicer) Settings(ctx context.Context) domain.DisplaySettings {
	return m.settings(ctx)
}
func (m *mockCalendarServicer) UpdateSettings(ctx context.Context, s domain.DisplaySettings) (domain.DisplaySettings, error) {
	return m.updateSettings(ctx, s)
}
func (m *mockCalendarServicer) Layout(ctx context.Context, opts layout.Options) layout.Layout {
	return m.layout(ctx, opts)
}

// mockExportServicer is a test double for handler.ExportServicer.
type mockExportServicer struct {
	export   func(ctx context.Context, f service.Format) (service.ExportFile, error)
	doImport func(ctx context.Context, data []byte, confirm bool) (service.ImportSummary, error)
}

func (m *mockExportServicer) Export(ctx context.Context, f service.Format) (service.ExportFile, error) {
	return m.export(ctx, f)
}
func (m *mockExportServicer) Import(ctx context.Context, data []byte, confirm bool) (service.ImportSummary, error) {
	return m.doImport(ctx, data, confirm)
}

// compile-time checks: the mocks and the real services satisfy the interfaces.
var (
	_ handler.CalendarServicer = (*mockCalendarServicer)(nil)
	_ handler.ExportServicer   = (*mockExportServicer)(nil)
	_ handler.CalendarServicer = (*service.CalendarService)(nil)
	_ handler.ExportServicer   = (*service.ExportService)(nil)
)

// ---- helpers ---------------------------------------------------------------

// newHTTPHandler wires a Server with the given mocks into the chi router.
// This mirrors how main.go wires it in production.
func newHTTPHandler(cal handler.CalendarServicer, export handler.ExportServicer) http.Handler {
	return handler.NewServer(cal, export, nil).Routes()
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

// decodeError decodes the standard error body.
func decodeError(t *testing.T, body *bytes.Buffer) handler.ErrorResponse {
	t.Helper()
	var resp handler.ErrorResponse
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	return resp
}

func tagFixture() domain.Tag {
	return domain.Tag{ID: "tag_1", Name: "Vacation", Color: "#ff0000"}
}

func periodFixture() domain.Period {
	return domain.Period{
		ID:        "period_1",
		TagID:     "tag_1",
		StartDate: domain.MustParseDate("2024-03-01"),
		EndDate:   domain.MustParseDate("2024-03-03"),
		TagName:   "Vacation",
		TagColor:  "#ff0000",
	}
}
