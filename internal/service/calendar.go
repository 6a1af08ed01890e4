// Package service runs calendar operations against the in-memory state
// store and keeps the persisted record in step with it. Every public method
// takes the service lock, so each user action completes before the next
// one starts.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pkordes/tagcal/internal/domain"
	"github.com/pkordes/tagcal/internal/layout"
	"github.com/pkordes/tagcal/internal/metrics"
	"github.com/pkordes/tagcal/internal/repo"
	"github.com/pkordes/tagcal/internal/state"
)

// DefaultStateKey is the record key the calendar is saved under.
const DefaultStateKey = "calendarData"

// CalendarService implements the tag, period, mark and settings operations.
type CalendarService struct {
	mu      sync.Mutex
	store   *state.Store
	repo    repo.RecordRepo
	key     string
	now     func() time.Time
	log     *slog.Logger
	metrics *metrics.Metrics
	storeOp []state.Option
}

// Option configures a CalendarService.
type Option func(*CalendarService)

// WithClock replaces time.Now, which decides the default start month.
func WithClock(now func() time.Time) Option {
	return func(s *CalendarService) { s.now = now }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *CalendarService) { s.log = l }
}

// WithMetrics records operation counts on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *CalendarService) { s.metrics = m }
}

// WithStateOptions passes options through to the state store.
func WithStateOptions(opts ...state.Option) Option {
	return func(s *CalendarService) { s.storeOp = append(s.storeOp, opts...) }
}

// NewCalendarService returns a service holding an empty calendar with
// default settings. Call Load to restore the saved record.
func NewCalendarService(r repo.RecordRepo, key string, opts ...Option) *CalendarService {
	if key == "" {
		key = DefaultStateKey
	}
	s := &CalendarService{repo: r, key: key, now: time.Now, log: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	s.store = state.New(s.defaults(), s.storeOp...)
	return s
}

func (s *CalendarService) defaults() domain.DisplaySettings {
	return domain.DefaultSettings(s.now())
}

// Load replaces the in-memory calendar with the saved record. A missing
// record leaves the defaults in place; an unreadable or corrupt one is
// logged and ignored.
func (s *CalendarService) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.repo.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.log.Info("no saved calendar, starting empty", "key", s.key)
		} else {
			s.log.Warn("could not read saved calendar, starting empty", "key", s.key, "error", err)
		}
		s.observeState()
		return
	}

	snap, err := domain.DecodeSnapshot(data, s.defaults())
	if err != nil {
		s.log.Warn("saved calendar is corrupt, starting empty", "key", s.key, "error", err)
		s.observeState()
		return
	}
	s.store.Replace(snap)
	s.observeState()
	s.log.Info("calendar loaded", "key", s.key,
		"tags", len(snap.Tags), "periods", len(snap.Periods), "marked_days", len(snap.MarkedDays))
}

// mutate runs fn under the lock and saves the record when fn succeeds.
func (s *CalendarService) mutate(ctx context.Context, op string, fn func(*state.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := fn(s.store)
	s.metrics.ObserveOp(op, err)
	if err != nil {
		return fmt.Errorf("service.CalendarService.%s: %w", op, err)
	}
	s.persistLocked(ctx, op)
	return nil
}

// persistLocked saves the current record. A failed save is logged and
// counted; the in-memory change stands.
func (s *CalendarService) persistLocked(ctx context.Context, op string) {
	s.observeState()
	data, err := domain.EncodeSnapshot(s.store.Snapshot())
	if err == nil {
		err = s.repo.Put(ctx, s.key, data)
	}
	if err != nil {
		s.metrics.SaveFailed()
		s.log.Error("saving calendar failed", "op", op, "key", s.key, "error", err)
	}
}

func (s *CalendarService) observeState() {
	s.metrics.SetState(len(s.store.Tags()), len(s.store.Periods()), len(s.store.Marks()))
}

// ---- reads -----------------------------------------------------------------

// Tags returns every tag in creation order.
func (s *CalendarService) Tags(_ context.Context) []domain.Tag {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Tags()
}

// ListPeriods returns one page of periods in creation order and the total count.
func (s *CalendarService) ListPeriods(_ context.Context, p domain.PaginationParams) ([]domain.Period, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Paginate(s.store.Periods(), p)
}

// Period returns one period. Returns domain.ErrNotFound if it does not exist.
func (s *CalendarService) Period(_ context.Context, id string) (domain.Period, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.store.Period(id)
	if !ok {
		return domain.Period{}, fmt.Errorf("service.CalendarService.Period: %w: period %q", domain.ErrNotFound, id)
	}
	return p, nil
}

// Marks returns a copy of every day's mark sequence.
func (s *CalendarService) Marks(_ context.Context) domain.DayMarks {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Marks()
}

// Settings returns the display settings.
func (s *CalendarService) Settings(_ context.Context) domain.DisplaySettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Settings()
}

// Snapshot returns a deep copy of the whole calendar.
func (s *CalendarService) Snapshot(_ context.Context) domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Snapshot()
}

// Layout computes the calendar layout for the current state.
func (s *CalendarService) Layout(_ context.Context, opts layout.Options) layout.Layout {
	s.mu.Lock()
	defer s.mu.Unlock()
	return layout.Build(s.store.Snapshot(), opts)
}

// ---- tags ------------------------------------------------------------------

// AddTag creates a tag. An empty color selects the default.
func (s *CalendarService) AddTag(ctx context.Context, name, color string) (domain.Tag, error) {
	var out domain.Tag
	err := s.mutate(ctx, "AddTag", func(st *state.Store) (err error) {
		out, err = st.AddTag(name, color)
		return err
	})
	return out, err
}

// EditTag renames or recolors a tag everywhere it is referenced.
func (s *CalendarService) EditTag(ctx context.Context, id, name, color string) (domain.Tag, error) {
	var out domain.Tag
	err := s.mutate(ctx, "EditTag", func(st *state.Store) (err error) {
		out, err = st.EditTag(id, name, color)
		return err
	})
	return out, err
}

// DeleteTag removes a tag with its periods and marks.
func (s *CalendarService) DeleteTag(ctx context.Context, id string) error {
	return s.mutate(ctx, "DeleteTag", func(st *state.Store) error {
		return st.DeleteTag(id)
	})
}

// ---- periods and marks -----------------------------------------------------

// CreatePeriod records a period and marks every day it covers.
func (s *CalendarService) CreatePeriod(ctx context.Context, tagID string, start, end domain.Date) (domain.Period, error) {
	var out domain.Period
	err := s.mutate(ctx, "CreatePeriod", func(st *state.Store) (err error) {
		out, err = st.CreatePeriod(tagID, start, end)
		return err
	})
	return out, err
}

// EditPeriod moves a period to a new range or tag.
func (s *CalendarService) EditPeriod(ctx context.Context, id, tagID string, start, end domain.Date) (domain.Period, error) {
	var out domain.Period
	err := s.mutate(ctx, "EditPeriod", func(st *state.Store) (err error) {
		out, err = st.EditPeriod(id, tagID, start, end)
		return err
	})
	return out, err
}

// DeletePeriod removes a period and the marks it produced.
func (s *CalendarService) DeletePeriod(ctx context.Context, id string) error {
	return s.mutate(ctx, "DeletePeriod", func(st *state.Store) error {
		return st.DeletePeriod(id)
	})
}

// MarkDay adds a manual mark and returns the day's sequence.
func (s *CalendarService) MarkDay(ctx context.Context, tagID string, d domain.Date) ([]domain.MarkEntry, error) {
	var out []domain.MarkEntry
	err := s.mutate(ctx, "MarkDay", func(st *state.Store) (err error) {
		out, err = st.MarkDay(tagID, d)
		return err
	})
	return out, err
}

// UnmarkDay removes a manual mark.
func (s *CalendarService) UnmarkDay(ctx context.Context, tagID string, d domain.Date) error {
	return s.mutate(ctx, "UnmarkDay", func(st *state.Store) error {
		return st.UnmarkDay(tagID, d)
	})
}

// ClearAll removes every mark and period. Tags and settings stay.
func (s *CalendarService) ClearAll(ctx context.Context) error {
	return s.mutate(ctx, "ClearAll", func(st *state.Store) error {
		st.ClearAll()
		return nil
	})
}

// ---- settings and bulk -----------------------------------------------------

// UpdateSettings validates and stores new display settings.
func (s *CalendarService) UpdateSettings(ctx context.Context, settings domain.DisplaySettings) (domain.DisplaySettings, error) {
	var out domain.DisplaySettings
	err := s.mutate(ctx, "UpdateSettings", func(st *state.Store) error {
		if err := st.SetSettings(settings); err != nil {
			return err
		}
		out = st.Settings()
		return nil
	})
	return out, err
}

// Replace swaps the whole calendar for snap, as an import does.
func (s *CalendarService) Replace(ctx context.Context, snap domain.Snapshot) error {
	return s.mutate(ctx, "Replace", func(st *state.Store) error {
		st.Replace(snap)
		return nil
	})
}
