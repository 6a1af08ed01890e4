package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"gopkg.in/yaml.v3"

	"github.com/pkordes/tagcal/internal/domain"
)

// Format is an export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
	FormatICS  Format = "ics"
)

var contentTypes = map[Format]string{
	FormatJSON: "application/json",
	FormatYAML: "application/yaml",
	FormatCSV:  "text/csv",
	FormatICS:  "text/calendar",
}

// ParseFormat maps a query value to a Format. Empty selects JSON.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FormatJSON, nil
	}
	if _, ok := contentTypes[f]; !ok {
		return "", fmt.Errorf("%w: unknown export format %q", domain.ErrValidation, s)
	}
	return f, nil
}

// ExportFile is a rendered export ready to be downloaded.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ImportSummary describes an import. Applied is false for a dry run.
type ImportSummary struct {
	Applied    bool                   `json:"applied"`
	Tags       int                    `json:"tags"`
	Periods    int                    `json:"periods"`
	MarkedDays int                    `json:"markedDays"`
	Settings   domain.DisplaySettings `json:"settings"`
	ExportDate *time.Time             `json:"exportDate,omitempty"`
}

// ExportService renders exports of the calendar and loads imports into it.
type ExportService struct {
	cal *CalendarService
}

// NewExportService constructs an ExportService over cal.
func NewExportService(cal *CalendarService) *ExportService {
	return &ExportService{cal: cal}
}

// Document returns the current record stamped with the export time.
func (s *ExportService) Document(ctx context.Context) domain.ExportDocument {
	return domain.ExportDocument{
		Snapshot:   s.cal.Snapshot(ctx),
		ExportDate: s.cal.now().UTC().Truncate(time.Millisecond),
	}
}

// Export renders the calendar in format f.
func (s *ExportService) Export(ctx context.Context, f Format) (ExportFile, error) {
	doc := s.Document(ctx)

	var (
		body []byte
		err  error
	)
	switch f {
	case FormatJSON:
		body, err = json.MarshalIndent(doc, "", "  ")
	case FormatYAML:
		body, err = yaml.Marshal(doc)
	case FormatCSV:
		body, err = encodeCSV(domain.ExportRows(doc.Snapshot))
	case FormatICS:
		body = []byte(encodeICS(doc))
	default:
		err = fmt.Errorf("%w: unknown export format %q", domain.ErrValidation, f)
	}
	if err != nil {
		return ExportFile{}, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	return ExportFile{
		Filename:    domain.ExportFilename(doc.ExportDate, string(f)),
		ContentType: contentTypes[f],
		Body:        body,
	}, nil
}

var csvHeader = []string{"date", "tag_id", "tag_name", "tag_color", "period_id", "period_start", "period_end"}

func encodeCSV(rows []domain.ExportRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, r := range rows {
		rec := []string{r.Date, r.TagID, r.TagName, r.TagColor, r.PeriodID, r.PeriodStart, r.PeriodEnd}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const icsDomain = "@tagcal"

// encodeICS writes one all-day event per period and one per manual mark.
func encodeICS(doc domain.ExportDocument) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//tagcal//calendar export//EN")
	cal.SetXWRCalName("tagcal")

	for _, p := range doc.Periods {
		addAllDayEvent(cal, p.ID+icsDomain, p.TagName, p.TagColor, p.StartDate, p.EndDate, doc.ExportDate)
	}
	for _, date := range doc.MarkedDays.Dates() {
		d, err := domain.ParseDate(date)
		if err != nil {
			continue
		}
		for _, e := range doc.MarkedDays[date] {
			if e.PeriodID != "" {
				continue
			}
			uid := "mark-" + date + "-" + e.TagID + icsDomain
			addAllDayEvent(cal, uid, e.Name, e.Color, d, d, doc.ExportDate)
		}
	}
	return cal.Serialize()
}

func addAllDayEvent(cal *ical.Calendar, uid, name, color string, start, end domain.Date, stamp time.Time) {
	ev := cal.AddEvent(uid)
	ev.SetDtStampTime(stamp)
	ev.SetSummary(name)
	ev.SetAllDayStartAt(start.Time())
	// DTEND of an all-day event is exclusive.
	ev.SetAllDayEndAt(end.AddDays(1).Time())
	ev.AddProperty(ical.ComponentPropertyCategories, name)
	if color != "" {
		ev.SetColor(color)
	}
}

// Import parses an export document. With confirm it replaces the whole
// calendar; without it nothing changes and the summary previews the load.
// Malformed input returns domain.ErrImportFormat and leaves state untouched.
func (s *ExportService) Import(ctx context.Context, data []byte, confirm bool) (ImportSummary, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ImportSummary{}, fmt.Errorf("service.ExportService.Import: %w: empty document", domain.ErrImportFormat)
	}

	snap, err := domain.DecodeSnapshot(trimmed, domain.DefaultSettings(s.cal.now()))
	if err != nil {
		return ImportSummary{}, fmt.Errorf("service.ExportService.Import: %w", err)
	}

	summary := ImportSummary{
		Tags:       len(snap.Tags),
		Periods:    len(snap.Periods),
		MarkedDays: len(snap.MarkedDays),
		Settings:   snap.DisplaySettings,
		ExportDate: exportDate(trimmed),
	}
	if !confirm {
		return summary, nil
	}

	if err := s.cal.Replace(ctx, snap); err != nil {
		return ImportSummary{}, fmt.Errorf("service.ExportService.Import: %w", err)
	}
	summary.Applied = true
	s.cal.log.Info("calendar imported",
		"tags", summary.Tags, "periods", summary.Periods, "marked_days", summary.MarkedDays)
	return summary, nil
}

// exportDate returns the document's exportDate when it parses.
func exportDate(data []byte) *time.Time {
	var head struct {
		ExportDate string `json:"exportDate"`
	}
	if err := json.Unmarshal(data, &head); err != nil || head.ExportDate == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, head.ExportDate)
	if err != nil {
		return nil
	}
	return &t
}
