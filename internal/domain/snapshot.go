package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Snapshot is the full persisted record: every tag, day mark and period plus
// the display settings, flattened into one JSON object:
//
//	{"tags":[],"markedDays":{},"periods":[],"startMonth":"2024-01",
//	 "monthsCount":12,"highlightWeekends":false,"weekendColor":"#ffcccc"}
type Snapshot struct {
	Tags            []Tag    `json:"tags" yaml:"tags"`
	MarkedDays      DayMarks `json:"markedDays" yaml:"markedDays"`
	Periods         []Period `json:"periods" yaml:"periods"`
	DisplaySettings `yaml:",inline"`
}

// Normalized returns s with nil collections replaced by empty ones so the
// encoded record always carries [] and {} rather than null.
func (s Snapshot) Normalized() Snapshot {
	if s.Tags == nil {
		s.Tags = []Tag{}
	}
	if s.MarkedDays == nil {
		s.MarkedDays = DayMarks{}
	}
	if s.Periods == nil {
		s.Periods = []Period{}
	}
	return s
}

// EncodeSnapshot serializes s as the persisted record.
func EncodeSnapshot(s Snapshot) ([]byte, error) {
	b, err := json.Marshal(s.Normalized())
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return b, nil
}

// rawRecord mirrors Snapshot with optional settings so a missing field can
// be told apart from a zero one.
type rawRecord struct {
	Tags              []Tag    `json:"tags"`
	MarkedDays        DayMarks `json:"markedDays"`
	Periods           []Period `json:"periods"`
	StartMonth        *string  `json:"startMonth"`
	MonthsCount       *int     `json:"monthsCount"`
	HighlightWeekends *bool    `json:"highlightWeekends"`
	WeekendColor      *string  `json:"weekendColor"`
}

// DecodeSnapshot parses a persisted record or an export document.
// Missing or unusable settings fall back to defaults; legacy single-object
// day marks are wrapped in one-element sequences. Any JSON syntax or shape
// error is reported as ErrImportFormat.
func DecodeSnapshot(data []byte, defaults DisplaySettings) (Snapshot, error) {
	var raw rawRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrImportFormat, err)
	}

	s := Snapshot{
		Tags:            raw.Tags,
		MarkedDays:      raw.MarkedDays,
		Periods:         raw.Periods,
		DisplaySettings: defaults,
	}
	if raw.StartMonth != nil {
		if ym, err := ParseYearMonth(*raw.StartMonth); err == nil {
			s.StartMonth = ym
		}
	}
	if raw.MonthsCount != nil && *raw.MonthsCount >= MinMonthsCount && *raw.MonthsCount <= MaxMonthsCount {
		s.MonthsCount = *raw.MonthsCount
	}
	if raw.HighlightWeekends != nil {
		s.HighlightWeekends = *raw.HighlightWeekends
	}
	if raw.WeekendColor != nil && IsHexColor(strings.TrimSpace(*raw.WeekendColor)) {
		s.WeekendColor = strings.TrimSpace(*raw.WeekendColor)
	}
	s.sanitizeColors()
	return s.Normalized(), nil
}

// sanitizeColors replaces every tag, period and entry color that is not
// "#RRGGBB" with DefaultTagColor, the rule AddTag and EditTag enforce.
func (s *Snapshot) sanitizeColors() {
	for i := range s.Tags {
		s.Tags[i].Color = hexOrDefault(s.Tags[i].Color)
	}
	for i := range s.Periods {
		s.Periods[i].TagColor = hexOrDefault(s.Periods[i].TagColor)
	}
	for _, entries := range s.MarkedDays {
		for i := range entries {
			entries[i].Color = hexOrDefault(entries[i].Color)
		}
	}
}

func hexOrDefault(c string) string {
	c = strings.TrimSpace(c)
	if IsHexColor(c) {
		return c
	}
	return DefaultTagColor
}
