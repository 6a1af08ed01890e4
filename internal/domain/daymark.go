package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// MarkEntry records that a tag applies to a date.
// PeriodID is empty for marks made directly on a single day.
type MarkEntry struct {
	TagID    string `json:"tagId" yaml:"tagId"`
	Color    string `json:"color" yaml:"color"`
	Name     string `json:"name" yaml:"name"`
	PeriodID string `json:"periodId,omitempty" yaml:"periodId,omitempty"`
}

// DayMarks maps an ISO date ("2024-01-15") to the ordered entries marking it.
// The first entry of a date is its primary entry. A date never maps to an
// empty sequence and never holds two entries for the same tag.
type DayMarks map[string][]MarkEntry

// On returns the entries for d, or nil when d is unmarked.
func (m DayMarks) On(d Date) []MarkEntry {
	return m[d.String()]
}

// Primary returns the first entry of the date, which decides the single
// representative color of a day.
func (m DayMarks) Primary(date string) (MarkEntry, bool) {
	entries := m[date]
	if len(entries) == 0 {
		return MarkEntry{}, false
	}
	return entries[0], true
}

// HasTag reports whether the date already carries an entry for tagID.
func (m DayMarks) HasTag(date, tagID string) bool {
	for _, e := range m[date] {
		if e.TagID == tagID {
			return true
		}
	}
	return false
}

// Dates returns the marked dates in ascending order.
func (m DayMarks) Dates() []string {
	dates := make([]string, 0, len(m))
	for d := range m {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// Clone returns a deep copy.
func (m DayMarks) Clone() DayMarks {
	out := make(DayMarks, len(m))
	for d, entries := range m {
		out[d] = append([]MarkEntry(nil), entries...)
	}
	return out
}

// UnmarshalJSON accepts both the current shape (date -> array of entries)
// and the legacy shape where a date maps to a single entry object.
// Null values and empty arrays are dropped.
func (m *DayMarks) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("markedDays: %w", err)
	}
	out := make(DayMarks, len(raw))
	for date, value := range raw {
		value = bytes.TrimSpace(value)
		if len(value) == 0 || bytes.Equal(value, []byte("null")) {
			continue
		}
		var entries []MarkEntry
		if value[0] == '[' {
			if err := json.Unmarshal(value, &entries); err != nil {
				return fmt.Errorf("markedDays[%s]: %w", date, err)
			}
		} else {
			var single MarkEntry
			if err := json.Unmarshal(value, &single); err != nil {
				return fmt.Errorf("markedDays[%s]: %w", date, err)
			}
			entries = []MarkEntry{single}
		}
		if len(entries) > 0 {
			out[date] = entries
		}
	}
	*m = out
	return nil
}
