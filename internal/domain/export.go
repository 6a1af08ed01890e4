package domain

import "time"

// ExportDocument is the downloadable export: the full record plus the time
// it was taken. Import accepts the same shape.
type ExportDocument struct {
	Snapshot   `yaml:",inline"`
	ExportDate time.Time `json:"exportDate" yaml:"exportDate"`
}

// ExportFilename returns "calendario_<YYYY-MM-DD>.<ext>" for the day of now.
func ExportFilename(now time.Time, ext string) string {
	return "calendario_" + now.Format(DateLayout) + "." + ext
}

// ExportRow is a single row in the flat export.
// It is a denormalized view: one row per day-mark entry, with the owning
// period's range repeated on every row it produced. Manual marks have empty
// period fields.
type ExportRow struct {
	Date     string
	TagID    string
	TagName  string
	TagColor string

	// Period fields, empty for manual marks.
	PeriodID    string
	PeriodStart string
	PeriodEnd   string
}

// ExportRows flattens s into rows ordered by date, then by entry position.
func ExportRows(s Snapshot) []ExportRow {
	periods := make(map[string]Period, len(s.Periods))
	for _, p := range s.Periods {
		periods[p.ID] = p
	}

	rows := []ExportRow{}
	for _, date := range s.MarkedDays.Dates() {
		for _, e := range s.MarkedDays[date] {
			row := ExportRow{
				Date:     date,
				TagID:    e.TagID,
				TagName:  e.Name,
				TagColor: e.Color,
				PeriodID: e.PeriodID,
			}
			if p, ok := periods[e.PeriodID]; ok {
				row.PeriodStart = p.StartDate.String()
				row.PeriodEnd = p.EndDate.String()
			}
			rows = append(rows, row)
		}
	}
	return rows
}
