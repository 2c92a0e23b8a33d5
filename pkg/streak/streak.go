// Package streak derives a user's cooking streak from the dates of their
// cooking logs.
package streak

import (
	"context"
	"fmt"
	"slices"
	"time"
)

const day = 24 * time.Hour

type (
	// Result is the cached view stored on the user row.
	Result struct {
		Current    int
		LastCooked *time.Time
	}

	DateSource interface {
		ListCookedDates(ctx context.Context, userID string) ([]time.Time, error)
	}

	// Sink persists a recomputed streak. Updating a user that does not exist
	// must be a no-op.
	Sink interface {
		UpdateStreak(ctx context.Context, userID string, current int, lastCooked *time.Time) error
	}

	Calendar struct {
		loc *time.Location
		now func() time.Time
	}
)

// Date truncates t to its calendar date, expressed as midnight UTC.
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Recalculate returns the length of the run of consecutive days that ends at
// the most recent date. Several logs on one day count once.
func Recalculate(dates []time.Time) Result {
	if len(dates) == 0 {
		return Result{}
	}

	days := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		days = append(days, Date(d))
	}
	slices.SortFunc(days, func(a, b time.Time) int { return a.Compare(b) })
	days = slices.CompactFunc(days, func(a, b time.Time) bool { return a.Equal(b) })

	run := 1
	for i := 1; i < len(days); i++ {
		if days[i].Sub(days[i-1]) == day {
			run++
		} else {
			run = 1
		}
	}

	last := days[len(days)-1]
	return Result{Current: run, LastCooked: &last}
}

// Effective is the streak to display on a given day: a streak whose last
// cooking date is older than yesterday has lapsed.
func Effective(current int, lastCooked *time.Time, today time.Time) int {
	if lastCooked == nil || current <= 0 {
		return 0
	}
	if Date(today).Sub(Date(*lastCooked)) > day {
		return 0
	}
	return current
}

// Recompute rebuilds the streak for userID from every stored log date and
// writes it back. Pass transaction-bound source and sink to keep the log
// write and the streak in one commit.
func Recompute(ctx context.Context, src DateSource, sink Sink, userID string) (Result, error) {
	dates, err := src.ListCookedDates(ctx, userID)
	if err != nil {
		return Result{}, fmt.Errorf("list cooked dates: %w", err)
	}
	res := Recalculate(dates)
	if err := sink.UpdateStreak(ctx, userID, res.Current, res.LastCooked); err != nil {
		return Result{}, fmt.Errorf("update streak: %w", err)
	}
	return res, nil
}

func NewCalendar(loc *time.Location, now func() time.Time) *Calendar {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &Calendar{loc: loc, now: now}
}

// LoadCalendar builds a Calendar for an IANA zone name such as "Europe/Paris".
func LoadCalendar(name string) (*Calendar, error) {
	if name == "" {
		return NewCalendar(time.UTC, nil), nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return NewCalendar(loc, nil), nil
}

// Today is the current date in the calendar's zone.
func (c *Calendar) Today() time.Time {
	return Date(c.now().In(c.loc))
}

func (c *Calendar) Now() time.Time {
	return c.now().In(c.loc)
}

func (c *Calendar) Location() *time.Location {
	return c.loc
}

// Effective applies staleness against today in the calendar's zone.
func (c *Calendar) Effective(current int, lastCooked *time.Time) int {
	return Effective(current, lastCooked, c.Today())
}
