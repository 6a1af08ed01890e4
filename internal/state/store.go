// Package state holds the in-memory calendar model: tags, periods, the
// per-day mark sequences and the display settings. Every mutation is a
// named operation that either applies completely or returns an error
// without touching anything. The package knows nothing about persistence.
package state

import (
	"slices"

	"github.com/google/uuid"

	"github.com/pkordes/tagcal/internal/domain"
)

// IDFunc returns a new unique id with the given prefix ("tag", "period").
type IDFunc func(prefix string) string

// UUIDs is the default IDFunc: "tag_<uuid>", "period_<uuid>".
func UUIDs(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

// Store owns every calendar entity. It is not safe for concurrent use;
// callers serialise access (see service.CalendarService).
type Store struct {
	tags     []domain.Tag
	periods  []domain.Period
	marks    domain.DayMarks
	settings domain.DisplaySettings
	newID    IDFunc
}

// Option configures a Store.
type Option func(*Store)

// WithIDFunc replaces the id generator, mainly for deterministic tests.
func WithIDFunc(fn IDFunc) Option {
	return func(s *Store) { s.newID = fn }
}

// New returns an empty Store with the given display settings.
func New(settings domain.DisplaySettings, opts ...Option) *Store {
	return FromSnapshot(domain.Snapshot{DisplaySettings: settings}, opts...)
}

// FromSnapshot returns a Store holding a deep copy of snap.
func FromSnapshot(snap domain.Snapshot, opts ...Option) *Store {
	snap = snap.Normalized()
	s := &Store{
		tags:     slices.Clone(snap.Tags),
		periods:  slices.Clone(snap.Periods),
		marks:    snap.MarkedDays.Clone(),
		settings: snap.DisplaySettings,
		newID:    UUIDs,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns a deep copy of the full state.
func (s *Store) Snapshot() domain.Snapshot {
	return domain.Snapshot{
		Tags:            s.Tags(),
		MarkedDays:      s.Marks(),
		Periods:         s.Periods(),
		DisplaySettings: s.settings,
	}
}

// Replace swaps the entire state for snap, as an import does.
func (s *Store) Replace(snap domain.Snapshot) {
	snap = snap.Normalized()
	s.tags = slices.Clone(snap.Tags)
	s.periods = slices.Clone(snap.Periods)
	s.marks = snap.MarkedDays.Clone()
	s.settings = snap.DisplaySettings
}

// Tags returns all tags in creation order. Never nil.
func (s *Store) Tags() []domain.Tag {
	return append([]domain.Tag{}, s.tags...)
}

// Tag looks up a tag by id.
func (s *Store) Tag(id string) (domain.Tag, bool) {
	i := s.tagIndex(id)
	if i < 0 {
		return domain.Tag{}, false
	}
	return s.tags[i], true
}

// Periods returns all periods in creation order. Never nil.
func (s *Store) Periods() []domain.Period {
	return append([]domain.Period{}, s.periods...)
}

// Period looks up a period by id.
func (s *Store) Period(id string) (domain.Period, bool) {
	i := s.periodIndex(id)
	if i < 0 {
		return domain.Period{}, false
	}
	return s.periods[i], true
}

// Marks returns a deep copy of the day marks.
func (s *Store) Marks() domain.DayMarks {
	return s.marks.Clone()
}

// MarksOn returns a copy of the entries for one date.
func (s *Store) MarksOn(d domain.Date) []domain.MarkEntry {
	return slices.Clone(s.marks.On(d))
}

// Settings returns the display settings.
func (s *Store) Settings() domain.DisplaySettings {
	return s.settings
}

// SetSettings validates and stores new display settings.
func (s *Store) SetSettings(settings domain.DisplaySettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	s.settings = settings
	return nil
}

func (s *Store) tagIndex(id string) int {
	return slices.IndexFunc(s.tags, func(t domain.Tag) bool { return t.ID == id })
}

func (s *Store) periodIndex(id string) int {
	return slices.IndexFunc(s.periods, func(p domain.Period) bool { return p.ID == id })
}
