package tracker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/athan/internal/athan"
	"github.com/Nixie-Tech-LLC/athan/internal/db"
	"github.com/Nixie-Tech-LLC/athan/internal/metrics"
	"github.com/Nixie-Tech-LLC/athan/internal/model"
)

type fakeSource struct {
	tables map[time.Month]model.MonthTable
	err    error
	calls  int
}

func (f *fakeSource) GetMonthTable(_ context.Context, _ string, month time.Month) (model.MonthTable, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	table, ok := f.tables[month]
	if !ok {
		return nil, db.ErrNoTimetable
	}
	return table, nil
}

type fakeCache struct {
	saved map[string]athan.Selection
}

func (f *fakeCache) LoadSelection(_ context.Context, _ string, date time.Time) (athan.Selection, bool, error) {
	sel, ok := f.saved[date.Format(time.DateOnly)]
	return sel, ok, nil
}

func (f *fakeCache) SaveSelection(_ context.Context, _ string, date time.Time, sel athan.Selection) error {
	f.saved[date.Format(time.DateOnly)] = sel
	return nil
}

type fakePublisher struct {
	sent []model.Snapshot
}

func (f *fakePublisher) Publish(snap model.Snapshot) error {
	f.sent = append(f.sent, snap)
	return nil
}

func aprilTable() model.MonthTable {
	return model.MonthTable{
		{"Jour", "Date", "Imsak", "Fajr", "Chouruq", "Dohr", "Asr", "Maghreb", "Isha"},
		{"Mar", "01/04", "05:20", "05:30", "07:02", "12:45", "16:00", "19:10", "20:30"},
		{"Mer", "02/04", "05h18", "05h28", "07h00", "12h45", "16h01", "19h11", "20h32"},
	}
}

func at(day, hour, minute int) time.Time {
	return time.Date(2025, time.April, day, hour, minute, 0, 0, time.UTC)
}

func newTracker() (*Tracker, *fakeSource, *fakeCache, *fakePublisher) {
	source := &fakeSource{tables: map[time.Month]model.MonthTable{time.April: aprilTable()}}
	cache := &fakeCache{saved: map[string]athan.Selection{}}
	pub := &fakePublisher{}
	tr := New(Config{
		City:      "PARIS",
		Source:    source,
		Cache:     cache,
		Publisher: pub,
		Metrics:   metrics.New(),
	})
	return tr, source, cache, pub
}

func TestRefresh_LoadsDayOnceAndSelects(t *testing.T) {
	tr, source, _, _ := newTracker()
	ctx := context.Background()

	snap, err := tr.Refresh(ctx, at(1, 4, 0))
	require.NoError(t, err)
	assert.Equal(t, model.Fajr, snap.Next.Name)
	assert.Equal(t, "2025-04-01", snap.Date)
	assert.Equal(t, "05:30", snap.Schedule.Fajr)
	assert.True(t, snap.Selected)

	_, err = tr.Refresh(ctx, at(1, 13, 0))
	require.NoError(t, err)
	assert.Equal(t, 1, source.calls)

	snap, err = tr.Refresh(ctx, at(2, 4, 0))
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls)
	assert.Equal(t, "05h28", snap.Schedule.Fajr)
}

func TestRefresh_PublishesOnlyWhenSelectionMoves(t *testing.T) {
	tr, _, cache, pub := newTracker()
	ctx := context.Background()

	_, err := tr.Refresh(ctx, at(1, 4, 0))
	require.NoError(t, err)
	_, err = tr.Refresh(ctx, at(1, 5, 30))
	require.NoError(t, err)
	require.Len(t, pub.sent, 1)

	snap, err := tr.Refresh(ctx, at(1, 5, 31))
	require.NoError(t, err)
	assert.Equal(t, model.Chouruq, snap.Next.Name)
	require.Len(t, pub.sent, 2)
	assert.Equal(t, model.ColumnChouruq, pub.sent[1].Index)
	assert.Equal(t, athan.Selection{Index: model.ColumnChouruq, Valid: true}, cache.saved["2025-04-01"])
}

func TestRefresh_AfterIshaKeepsLastSelection(t *testing.T) {
	tr, _, _, pub := newTracker()
	ctx := context.Background()

	_, err := tr.Refresh(ctx, at(1, 19, 0))
	require.NoError(t, err)

	snap, err := tr.Refresh(ctx, at(1, 21, 0))
	require.NoError(t, err)
	assert.Equal(t, model.Maghreb, snap.Next.Name)
	assert.Len(t, pub.sent, 1)
}

func TestRefresh_RestoresSavedSelection(t *testing.T) {
	tr, _, cache, _ := newTracker()
	cache.saved["2025-04-01"] = athan.Selection{Index: model.ColumnIsha, Valid: true}

	snap, err := tr.Refresh(context.Background(), at(1, 22, 0))
	require.NoError(t, err)
	assert.Equal(t, model.Isha, snap.Next.Name)
	assert.Equal(t, model.ColumnIsha, snap.Index)
}

func TestRefresh_NewDayDropsPreviousSelection(t *testing.T) {
	tr, _, _, _ := newTracker()
	ctx := context.Background()

	_, err := tr.Refresh(ctx, at(1, 19, 0))
	require.NoError(t, err)

	snap, err := tr.Refresh(ctx, at(2, 23, 0))
	require.NoError(t, err)
	assert.False(t, snap.Selected)
	assert.Equal(t, model.Header, snap.Next.Name)
}

func TestRefresh_MissingDay(t *testing.T) {
	tr, _, _, pub := newTracker()

	_, err := tr.Refresh(context.Background(), at(3, 4, 0))
	assert.ErrorIs(t, err, ErrNoSchedule)
	assert.Empty(t, pub.sent)
}

func TestRefresh_SourceErrorIsRetried(t *testing.T) {
	tr, source, _, _ := newTracker()
	source.err = errors.New("db down")
	ctx := context.Background()

	_, err := tr.Refresh(ctx, at(1, 4, 0))
	require.Error(t, err)

	source.err = nil
	snap, err := tr.Refresh(ctx, at(1, 4, 1))
	require.NoError(t, err)
	assert.Equal(t, model.Fajr, snap.Next.Name)
	assert.Equal(t, 2, source.calls)
}

func TestRefresh_NewMonthWithoutTimetableClearsDay(t *testing.T) {
	tr, _, _, pub := newTracker()
	ctx := context.Background()

	snap, err := tr.Refresh(ctx, at(1, 4, 0))
	require.NoError(t, err)
	require.True(t, snap.Selected)

	_, err = tr.Refresh(ctx, time.Date(2025, time.May, 1, 4, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, ErrNoSchedule)

	snap = tr.Snapshot()
	assert.Equal(t, "2025-05-01", snap.Date)
	assert.True(t, snap.Schedule.IsEmpty())
	assert.False(t, snap.Selected)
	assert.Equal(t, model.EventEntry{}, snap.Next)
	for _, p := range tr.Board() {
		assert.False(t, p.Next, p.Name)
	}
	assert.Len(t, pub.sent, 1)
}

func TestRefresh_SourceErrorClearsPreviousDay(t *testing.T) {
	tr, source, _, _ := newTracker()
	ctx := context.Background()

	_, err := tr.Refresh(ctx, at(1, 4, 0))
	require.NoError(t, err)

	source.err = errors.New("db down")
	_, err = tr.Refresh(ctx, at(2, 4, 0))
	require.Error(t, err)

	snap := tr.Snapshot()
	assert.Equal(t, "2025-04-02", snap.Date)
	assert.True(t, snap.Schedule.IsEmpty())
	assert.False(t, snap.Selected)
}

func TestRefresh_MalformedTime(t *testing.T) {
	tr, source, _, _ := newTracker()
	table := aprilTable()
	table[1][model.ColumnDohr] = "--:--"
	source.tables[time.April] = table

	_, err := tr.Refresh(context.Background(), at(1, 4, 0))
	assert.ErrorIs(t, err, athan.ErrMalformedTime)
	assert.ErrorContains(t, err, "dohr")
}

func TestInvalidate_ReloadsToday(t *testing.T) {
	tr, source, _, _ := newTracker()
	ctx := context.Background()

	_, err := tr.Refresh(ctx, at(1, 4, 0))
	require.NoError(t, err)

	table := aprilTable()
	table[1][model.ColumnFajr] = "05:45"
	source.tables[time.April] = table
	tr.Invalidate()
	assert.Equal(t, "2025-04-01", tr.Snapshot().Date)

	snap, err := tr.Refresh(ctx, at(1, 4, 5))
	require.NoError(t, err)
	assert.Equal(t, 45, snap.Next.Minute)
	assert.Equal(t, 2, source.calls)
}

func TestBoard_FollowsSelection(t *testing.T) {
	tr, _, _, _ := newTracker()

	_, err := tr.Refresh(context.Background(), at(1, 15, 0))
	require.NoError(t, err)

	board := tr.Board()
	require.Len(t, board, 7)
	assert.Equal(t, "ASR", board[4].Name)
	assert.True(t, board[4].Next)
}
