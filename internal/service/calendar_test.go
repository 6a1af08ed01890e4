package service_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tagcal/internal/domain"
	"github.com/pkordes/tagcal/internal/layout"
	"github.com/pkordes/tagcal/internal/metrics"
	"github.com/pkordes/tagcal/internal/repo"
	"github.com/pkordes/tagcal/internal/service"
	"github.com/pkordes/tagcal/internal/state"
)

// mockRecordRepo is a hand-written test double for repo.RecordRepo.
// Set only the function fields a test needs.
type mockRecordRepo struct {
	get func(ctx context.Context, key string) ([]byte, error)
	put func(ctx context.Context, key string, data []byte) error
}

func (m *mockRecordRepo) Get(ctx context.Context, key string) ([]byte, error) {
	return m.get(ctx, key)
}
func (m *mockRecordRepo) Put(ctx context.Context, key string, data []byte) error {
	return m.put(ctx, key, data)
}

// compile-time check: mockRecordRepo must satisfy repo.RecordRepo.
var _ repo.RecordRepo = (*mockRecordRepo)(nil)

// ---- helpers ---------------------------------------------------------------

var fixedNow = time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func seqIDs() state.IDFunc {
	n := 0
	return func(prefix string) string {
		n++
		return fmt.Sprintf("%s_%d", prefix, n)
	}
}

func newService(t *testing.T, r repo.RecordRepo, opts ...service.Option) (*service.CalendarService, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	base := []service.Option{
		service.WithClock(clock),
		service.WithLogger(slog.New(slog.NewJSONHandler(&logs, nil))),
		service.WithStateOptions(state.WithIDFunc(seqIDs())),
	}
	return service.NewCalendarService(r, "calendarData", append(base, opts...)...), &logs
}

func d(s string) domain.Date { return domain.MustParseDate(s) }

func savedSnapshot(t *testing.T, r repo.RecordRepo) domain.Snapshot {
	t.Helper()
	data, err := r.Get(context.Background(), "calendarData")
	require.NoError(t, err)
	snap, err := domain.DecodeSnapshot(data, domain.DefaultSettings(fixedNow))
	require.NoError(t, err)
	return snap
}

// ---- Load ------------------------------------------------------------------

func TestCalendarService_Load_MissingRecordUsesDefaults(t *testing.T) {
	svc, logs := newService(t, repo.NewMemoryRecordRepo())

	svc.Load(context.Background())

	settings := svc.Settings(context.Background())
	assert.Equal(t, domain.YearMonth{Year: 2024, Month: time.March}, settings.StartMonth)
	assert.Equal(t, 12, settings.MonthsCount)
	assert.False(t, settings.HighlightWeekends)
	assert.Equal(t, "#ffcccc", settings.WeekendColor)
	assert.Empty(t, svc.Tags(context.Background()))
	assert.Contains(t, logs.String(), "no saved calendar")
}

func TestCalendarService_Load_CorruptRecordIsIgnored(t *testing.T) {
	r := repo.NewMemoryRecordRepo()
	require.NoError(t, r.Put(context.Background(), "calendarData", []byte(`{not json`)))
	svc, logs := newService(t, r)

	svc.Load(context.Background())

	assert.Empty(t, svc.Tags(context.Background()))
	assert.Contains(t, logs.String(), `"level":"WARN"`)
	assert.Contains(t, logs.String(), "corrupt")
}

func TestCalendarService_Load_ReadErrorIsIgnored(t *testing.T) {
	r := &mockRecordRepo{
		get: func(_ context.Context, _ string) ([]byte, error) { return nil, errors.New("disk on fire") },
	}
	svc, logs := newService(t, r)

	svc.Load(context.Background())

	assert.Empty(t, svc.Tags(context.Background()))
	assert.Contains(t, logs.String(), "disk on fire")
}

func TestCalendarService_Load_RestoresRecord(t *testing.T) {
	r := repo.NewMemoryRecordRepo()
	record := `{
		"tags":[{"id":"t1","name":"Vacation","color":"#3498db"}],
		"markedDays":{"2024-01-15":{"tagId":"t1","color":"#3498db","name":"Vacation"}},
		"periods":[],
		"startMonth":"2024-01","monthsCount":6,"highlightWeekends":true,"weekendColor":"#eeeeee"
	}`
	require.NoError(t, r.Put(context.Background(), "calendarData", []byte(record)))
	svc, _ := newService(t, r)

	svc.Load(context.Background())

	ctx := context.Background()
	require.Len(t, svc.Tags(ctx), 1)
	assert.Equal(t, []domain.MarkEntry{{TagID: "t1", Color: "#3498db", Name: "Vacation"}}, svc.Marks(ctx)["2024-01-15"])
	assert.Equal(t, 6, svc.Settings(ctx).MonthsCount)
	assert.True(t, svc.Settings(ctx).HighlightWeekends)
}

// ---- persistence -----------------------------------------------------------

func TestCalendarService_MutationsAreSaved(t *testing.T) {
	r := repo.NewMemoryRecordRepo()
	svc, _ := newService(t, r)
	ctx := context.Background()

	tag, err := svc.AddTag(ctx, "Vacation", "")
	require.NoError(t, err)
	_, err = svc.CreatePeriod(ctx, tag.ID, d("2024-01-15"), d("2024-01-17"))
	require.NoError(t, err)

	saved := savedSnapshot(t, r)
	assert.Equal(t, []domain.Tag{{ID: "tag_1", Name: "Vacation", Color: "#3498db"}}, saved.Tags)
	require.Len(t, saved.Periods, 1)
	assert.Len(t, saved.MarkedDays, 3)
	assert.Equal(t, "period_2", saved.MarkedDays["2024-01-16"][0].PeriodID)
}

func TestCalendarService_FailedOperationDoesNotSave(t *testing.T) {
	puts := 0
	r := &mockRecordRepo{
		put: func(_ context.Context, _ string, _ []byte) error { puts++; return nil },
	}
	svc, _ := newService(t, r)

	_, err := svc.AddTag(context.Background(), "  ", "")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "service.CalendarService.AddTag")
	assert.Zero(t, puts)
}

func TestCalendarService_SaveFailureKeepsMutation(t *testing.T) {
	r := &mockRecordRepo{
		put: func(_ context.Context, _ string, _ []byte) error { return errors.New("read-only filesystem") },
	}
	m := metrics.New()
	svc, logs := newService(t, r, service.WithMetrics(m))

	tag, err := svc.AddTag(context.Background(), "Vacation", "#E74C3C")

	require.NoError(t, err)
	assert.Equal(t, "#e74c3c", tag.Color)
	assert.Len(t, svc.Tags(context.Background()), 1)
	assert.Contains(t, logs.String(), "saving calendar failed")
	assert.Contains(t, logs.String(), "read-only filesystem")
}

// ---- operations ------------------------------------------------------------

func TestCalendarService_TagLifecycle(t *testing.T) {
	svc, _ := newService(t, repo.NewMemoryRecordRepo())
	ctx := context.Background()

	tag, err := svc.AddTag(ctx, "Vacation", "#3498db")
	require.NoError(t, err)
	_, err = svc.MarkDay(ctx, tag.ID, d("2024-02-01"))
	require.NoError(t, err)

	edited, err := svc.EditTag(ctx, tag.ID, "Holiday", "#2ecc71")
	require.NoError(t, err)
	assert.Equal(t, "Holiday", edited.Name)
	assert.Equal(t, "Holiday", svc.Marks(ctx)["2024-02-01"][0].Name)

	require.NoError(t, svc.DeleteTag(ctx, tag.ID))
	assert.Empty(t, svc.Tags(ctx))
	assert.Empty(t, svc.Marks(ctx))

	err = svc.DeleteTag(ctx, tag.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCalendarService_PeriodLifecycle(t *testing.T) {
	svc, _ := newService(t, repo.NewMemoryRecordRepo())
	ctx := context.Background()
	tag, err := svc.AddTag(ctx, "Vacation", "")
	require.NoError(t, err)

	p, err := svc.CreatePeriod(ctx, tag.ID, d("2024-01-10"), d("2024-01-12"))
	require.NoError(t, err)

	got, err := svc.Period(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	moved, err := svc.EditPeriod(ctx, p.ID, tag.ID, d("2024-02-01"), d("2024-02-02"))
	require.NoError(t, err)
	assert.Equal(t, d("2024-02-01"), moved.StartDate)
	assert.Equal(t, []string{"2024-02-01", "2024-02-02"}, svc.Marks(ctx).Dates())

	require.NoError(t, svc.DeletePeriod(ctx, p.ID))
	_, err = svc.Period(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, svc.Marks(ctx))
}

func TestCalendarService_CreatePeriod_Errors(t *testing.T) {
	svc, _ := newService(t, repo.NewMemoryRecordRepo())
	ctx := context.Background()
	tag, err := svc.AddTag(ctx, "Vacation", "")
	require.NoError(t, err)

	_, err = svc.CreatePeriod(ctx, tag.ID, d("2024-01-12"), d("2024-01-10"))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.CreatePeriod(ctx, "nope", d("2024-01-10"), d("2024-01-12"))
	assert.ErrorIs(t, err, domain.ErrValidation)

	assert.Empty(t, svc.Marks(ctx))
}

func TestCalendarService_ListPeriods_Paginates(t *testing.T) {
	svc, _ := newService(t, repo.NewMemoryRecordRepo())
	ctx := context.Background()
	tag, err := svc.AddTag(ctx, "Vacation", "")
	require.NoError(t, err)
	for i := 1; i <= 5; i++ {
		day := domain.NewDate(2024, time.January, i)
		_, err := svc.CreatePeriod(ctx, tag.ID, day, day)
		require.NoError(t, err)
	}

	page, limit := 2, 2
	got, total := svc.ListPeriods(ctx, domain.NewPaginationParams(&page, &limit))

	assert.Equal(t, 5, total)
	require.Len(t, got, 2)
	assert.Equal(t, d("2024-01-03"), got[0].StartDate)
}

func TestCalendarService_MarksAndClearAll(t *testing.T) {
	svc, _ := newService(t, repo.NewMemoryRecordRepo())
	ctx := context.Background()
	tag, err := svc.AddTag(ctx, "Vacation", "")
	require.NoError(t, err)

	entries, err := svc.MarkDay(ctx, tag.ID, d("2024-01-01"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	require.NoError(t, svc.UnmarkDay(ctx, tag.ID, d("2024-01-01")))
	assert.ErrorIs(t, svc.UnmarkDay(ctx, tag.ID, d("2024-01-01")), domain.ErrNotFound)

	_, err = svc.CreatePeriod(ctx, tag.ID, d("2024-01-01"), d("2024-01-05"))
	require.NoError(t, err)
	require.NoError(t, svc.ClearAll(ctx))
	assert.Empty(t, svc.Marks(ctx))
	periods, total := svc.ListPeriods(ctx, domain.NewPaginationParams(nil, nil))
	assert.Empty(t, periods)
	assert.Zero(t, total)
	assert.Len(t, svc.Tags(ctx), 1)
}

func TestCalendarService_UpdateSettings(t *testing.T) {
	r := repo.NewMemoryRecordRepo()
	svc, _ := newService(t, r)
	ctx := context.Background()

	want := domain.DisplaySettings{
		StartMonth:        domain.YearMonth{Year: 2025, Month: time.June},
		MonthsCount:       3,
		HighlightWeekends: true,
		WeekendColor:      "#ffeeee",
	}
	got, err := svc.UpdateSettings(ctx, want)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, want, savedSnapshot(t, r).DisplaySettings)

	bad := want
	bad.MonthsCount = 37
	_, err = svc.UpdateSettings(ctx, bad)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, want, svc.Settings(ctx))
}

func TestCalendarService_Layout(t *testing.T) {
	svc, _ := newService(t, repo.NewMemoryRecordRepo())
	ctx := context.Background()

	l := svc.Layout(ctx, layout.Options{ContainerWidth: 1200})

	assert.Equal(t, 1200.0, l.ContainerWidth)
	require.Len(t, l.Months, 12)
	assert.Equal(t, "2024-03", l.Months[0].Month)
}

func TestCalendarService_ConcurrentOperations(t *testing.T) {
	svc := service.NewCalendarService(repo.NewMemoryRecordRepo(), "",
		service.WithClock(clock),
		service.WithLogger(slog.New(slog.DiscardHandler)),
	)
	ctx := context.Background()
	tag, err := svc.AddTag(ctx, "Vacation", "")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 1; i <= 28; i++ {
		wg.Add(1)
		go func(day int) {
			defer wg.Done()
			date := domain.NewDate(2024, time.February, day)
			_, err := svc.MarkDay(ctx, tag.ID, date)
			assert.NoError(t, err)
			_ = svc.Layout(ctx, layout.Options{})
		}(i)
	}
	wg.Wait()

	assert.Len(t, svc.Marks(ctx), 28)
}
