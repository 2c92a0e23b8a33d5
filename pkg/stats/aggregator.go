// Package stats summarises a user's cooking history.
package stats

import (
	"cmp"
	"kitchenlog/domain"
	"kitchenlog/entities"
	"math"
	"slices"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultTopN  = 5
	monthsWindow = 12
	monthLayout  = "2006-01"
)

type recipeTally struct {
	id        uuid.UUID
	name      string
	count     int
	ratingSum int
	rated     int
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Aggregate computes every statistic that depends only on the logs and the
// current date. Logs need their Recipe loaded for names. Missing durations and
// ratings are left out of sums and averages.
func Aggregate(logs []entities.CookingLog, today time.Time, topN int) domain.StatisticsResponse {
	if topN <= 0 {
		topN = DefaultTopN
	}

	res := domain.StatisticsResponse{TotalSessions: len(logs)}

	var durations, ratingSum, rated int
	tallies := map[uuid.UUID]*recipeTally{}
	for _, l := range logs {
		if l.DurationSeconds != nil {
			res.TotalDurationSeconds += *l.DurationSeconds
			durations++
		}
		t, ok := tallies[l.RecipeID]
		if !ok {
			t = &recipeTally{id: l.RecipeID}
			if l.Recipe != nil {
				t.name = l.Recipe.Name
			}
			tallies[l.RecipeID] = t
		}
		t.count++
		if l.Rating != nil {
			ratingSum += *l.Rating
			rated++
			t.ratingSum += *l.Rating
			t.rated++
		}
	}
	if durations > 0 {
		avg := round2(float64(res.TotalDurationSeconds) / float64(durations))
		res.AverageDurationSeconds = &avg
	}
	if rated > 0 {
		avg := round2(float64(ratingSum) / float64(rated))
		res.AverageRating = &avg
	}

	all := make([]*recipeTally, 0, len(tallies))
	for _, t := range tallies {
		all = append(all, t)
	}
	res.MostFrequent = mostFrequent(all, topN)
	res.TopRated = topRated(all, topN)
	res.Monthly = monthly(logs, today)
	res.ThisWeek = thisWeek(logs, today)
	return res
}

func byNameThenID(a, b *recipeTally) int {
	return cmpOr(cmp.Compare(a.name, b.name), cmp.Compare(a.id.String(), b.id.String()))
}

// mostFrequent ranks by log count; equal counts are ordered by recipe name.
func mostFrequent(tallies []*recipeTally, topN int) []domain.RecipeFrequency {
	sorted := slices.Clone(tallies)
	slices.SortFunc(sorted, func(a, b *recipeTally) int {
		return cmpOr(cmp.Compare(b.count, a.count), byNameThenID(a, b))
	})

	res := make([]domain.RecipeFrequency, 0, min(topN, len(sorted)))
	for _, t := range sorted[:min(topN, len(sorted))] {
		res = append(res, domain.RecipeFrequency{RecipeID: t.id.String(), RecipeName: t.name, Count: t.count})
	}
	return res
}

// topRated considers recipes with at least one rated log, ranked by average
// rating, then by number of rated logs, then by name.
func topRated(tallies []*recipeTally, topN int) []domain.RecipeRating {
	rated := make([]*recipeTally, 0, len(tallies))
	for _, t := range tallies {
		if t.rated > 0 {
			rated = append(rated, t)
		}
	}
	avg := func(t *recipeTally) float64 { return float64(t.ratingSum) / float64(t.rated) }
	slices.SortFunc(rated, func(a, b *recipeTally) int {
		return cmpOr(cmp.Compare(avg(b), avg(a)), cmp.Compare(b.rated, a.rated), byNameThenID(a, b))
	})

	res := make([]domain.RecipeRating, 0, min(topN, len(rated)))
	for _, t := range rated[:min(topN, len(rated))] {
		res = append(res, domain.RecipeRating{
			RecipeID:      t.id.String(),
			RecipeName:    t.name,
			AverageRating: round2(avg(t)),
			RatedCount:    t.rated,
		})
	}
	return res
}

// monthly counts logs for the twelve months ending with today's month,
// oldest first. Months without logs are included with zero.
func monthly(logs []entities.CookingLog, today time.Time) []domain.MonthlyCount {
	current := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)

	counts := make(map[string]int, monthsWindow)
	for _, l := range logs {
		counts[l.DateCooked.Format(monthLayout)]++
	}

	res := make([]domain.MonthlyCount, 0, monthsWindow)
	for i := monthsWindow - 1; i >= 0; i-- {
		key := current.AddDate(0, -i, 0).Format(monthLayout)
		res = append(res, domain.MonthlyCount{Month: key, Count: counts[key]})
	}
	return res
}

// thisWeek counts logs per day from Monday to Sunday of today's week.
func thisWeek(logs []entities.CookingLog, today time.Time) []domain.WeekdayCount {
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	monday := day.AddDate(0, 0, -((int(day.Weekday()) + 6) % 7))

	counts := make(map[string]int, 7)
	for _, l := range logs {
		counts[l.DateCooked.Format(domain.DateLayout)]++
	}

	res := make([]domain.WeekdayCount, 0, 7)
	for i := 0; i < 7; i++ {
		d := monday.AddDate(0, 0, i)
		key := d.Format(domain.DateLayout)
		res = append(res, domain.WeekdayCount{Day: d.Weekday().String(), Date: key, Count: counts[key]})
	}
	return res
}

// cmpOr mirrors cmp.Or (Go 1.22+): it returns the first argument that is not
// the zero value, or the zero value if there is none.
func cmpOr[T comparable](vals ...T) T {
	var zero T
	for _, v := range vals {
		if v != zero {
			return v
		}
	}
	return zero
}
