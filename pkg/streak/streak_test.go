package streak

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(month time.Month, dayOfMonth int) time.Time {
	return time.Date(2024, month, dayOfMonth, 0, 0, 0, 0, time.UTC)
}

func TestRecalculate(t *testing.T) {
	tests := []struct {
		name     string
		dates    []time.Time
		want     int
		wantLast time.Time
	}{
		{"gap resets run", []time.Time{d(5, 1), d(5, 2), d(5, 4)}, 1, d(5, 4)},
		{"five consecutive days", []time.Time{d(5, 3), d(5, 1), d(5, 5), d(5, 2), d(5, 4)}, 5, d(5, 5)},
		{"same day counts once", []time.Time{d(5, 1), d(5, 2), d(5, 2), d(5, 2)}, 2, d(5, 2)},
		{"single day", []time.Time{d(5, 1)}, 1, d(5, 1)},
		{"month boundary", []time.Time{d(4, 30), d(5, 1)}, 2, d(5, 1)},
		{"time of day ignored", []time.Time{d(5, 1).Add(23 * time.Hour), d(5, 2).Add(time.Hour)}, 2, d(5, 2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Recalculate(tt.dates)
			assert.Equal(t, tt.want, res.Current)
			require.NotNil(t, res.LastCooked)
			assert.True(t, tt.wantLast.Equal(*res.LastCooked))
		})
	}
}

func TestRecalculate_Empty(t *testing.T) {
	res := Recalculate(nil)
	assert.Equal(t, 0, res.Current)
	assert.Nil(t, res.LastCooked)
}

func TestEffective(t *testing.T) {
	last := d(5, 4)
	assert.Equal(t, 1, Effective(1, &last, d(5, 4)))
	assert.Equal(t, 3, Effective(3, &last, d(5, 5)))
	assert.Equal(t, 0, Effective(3, &last, d(5, 6)))

	old := d(5, 1)
	assert.Equal(t, 0, Effective(1, &old, d(5, 10)))
	assert.Equal(t, 0, Effective(0, nil, d(5, 10)))
}

func TestCalendar_TodayUsesZone(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	now := time.Date(2024, 5, 4, 20, 0, 0, 0, time.UTC)
	cal := NewCalendar(loc, func() time.Time { return now })

	assert.True(t, d(5, 5).Equal(cal.Today()))

	last := d(5, 3)
	assert.Equal(t, 0, cal.Effective(4, &last))
}

func TestLoadCalendar(t *testing.T) {
	cal, err := LoadCalendar("")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, cal.Location())

	_, err = LoadCalendar("Not/AZone")
	assert.Error(t, err)
}

type fakeSource struct {
	dates []time.Time
	err   error
}

func (f fakeSource) ListCookedDates(context.Context, string) ([]time.Time, error) {
	return f.dates, f.err
}

type fakeSink struct {
	current int
	last    *time.Time
	calls   int
}

func (f *fakeSink) UpdateStreak(_ context.Context, _ string, current int, last *time.Time) error {
	f.calls++
	f.current = current
	f.last = last
	return nil
}

func TestRecompute(t *testing.T) {
	sink := &fakeSink{current: 9}
	res, err := Recompute(context.Background(), fakeSource{dates: []time.Time{d(5, 1), d(5, 2)}}, sink, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Current)
	assert.Equal(t, 2, sink.current)
	require.NotNil(t, sink.last)
	assert.True(t, d(5, 2).Equal(*sink.last))

	res, err = Recompute(context.Background(), fakeSource{}, sink, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Current)
	assert.Equal(t, 0, sink.current)
	assert.Nil(t, sink.last)
}

func TestRecompute_SourceError(t *testing.T) {
	sink := &fakeSink{}
	_, err := Recompute(context.Background(), fakeSource{err: errors.New("boom")}, sink, "u1")
	assert.Error(t, err)
	assert.Zero(t, sink.calls)
}
