package stats

import (
	"kitchenlog/entities"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func logFor(r *entities.Recipe, day time.Time, duration, rating *int) entities.CookingLog {
	return entities.CookingLog{
		ID:              uuid.New(),
		RecipeID:        r.ID,
		Recipe:          r,
		DateCooked:      day,
		DurationSeconds: duration,
		Rating:          rating,
	}
}

func TestAggregate_Empty(t *testing.T) {
	res := Aggregate(nil, date(2024, 5, 15), 5)

	assert.Zero(t, res.TotalSessions)
	assert.Zero(t, res.TotalDurationSeconds)
	assert.Nil(t, res.AverageDurationSeconds)
	assert.Nil(t, res.AverageRating)
	assert.Empty(t, res.MostFrequent)
	assert.Empty(t, res.TopRated)
	assert.Len(t, res.Monthly, 12)
	assert.Len(t, res.ThisWeek, 7)
}

func TestAggregate_TotalsSkipMissingValues(t *testing.T) {
	pasta := &entities.Recipe{ID: uuid.New(), Name: "Pasta"}
	logs := []entities.CookingLog{
		logFor(pasta, date(2024, 5, 1), intPtr(600), intPtr(4)),
		logFor(pasta, date(2024, 5, 2), nil, intPtr(5)),
		logFor(pasta, date(2024, 5, 3), intPtr(300), nil),
	}

	res := Aggregate(logs, date(2024, 5, 15), 5)

	assert.Equal(t, 3, res.TotalSessions)
	assert.Equal(t, 900, res.TotalDurationSeconds)
	require.NotNil(t, res.AverageDurationSeconds)
	assert.InDelta(t, 450.0, *res.AverageDurationSeconds, 0.001)
	require.NotNil(t, res.AverageRating)
	assert.InDelta(t, 4.5, *res.AverageRating, 0.001)
}

func TestAggregate_MostFrequentTieBreaksByName(t *testing.T) {
	soup := &entities.Recipe{ID: uuid.New(), Name: "Soup"}
	curry := &entities.Recipe{ID: uuid.New(), Name: "Curry"}
	bread := &entities.Recipe{ID: uuid.New(), Name: "Bread"}
	day := date(2024, 5, 1)
	logs := []entities.CookingLog{
		logFor(soup, day, nil, nil),
		logFor(soup, day, nil, nil),
		logFor(curry, day, nil, nil),
		logFor(curry, day, nil, nil),
		logFor(bread, day, nil, nil),
	}

	res := Aggregate(logs, day, 2)

	require.Len(t, res.MostFrequent, 2)
	assert.Equal(t, "Curry", res.MostFrequent[0].RecipeName)
	assert.Equal(t, 2, res.MostFrequent[0].Count)
	assert.Equal(t, "Soup", res.MostFrequent[1].RecipeName)
}

func TestAggregate_TopRated(t *testing.T) {
	a := &entities.Recipe{ID: uuid.New(), Name: "Apple Pie"}
	b := &entities.Recipe{ID: uuid.New(), Name: "Brownies"}
	c := &entities.Recipe{ID: uuid.New(), Name: "Cake"}
	unrated := &entities.Recipe{ID: uuid.New(), Name: "Dumplings"}
	day := date(2024, 5, 1)
	logs := []entities.CookingLog{
		logFor(a, day, nil, intPtr(5)),
		logFor(b, day, nil, intPtr(5)),
		logFor(b, day, nil, intPtr(5)),
		logFor(c, day, nil, intPtr(3)),
		logFor(c, day, nil, intPtr(4)),
		logFor(unrated, day, nil, nil),
	}

	res := Aggregate(logs, day, 5)

	require.Len(t, res.TopRated, 3)
	assert.Equal(t, "Brownies", res.TopRated[0].RecipeName)
	assert.Equal(t, 2, res.TopRated[0].RatedCount)
	assert.Equal(t, "Apple Pie", res.TopRated[1].RecipeName)
	assert.Equal(t, "Cake", res.TopRated[2].RecipeName)
	assert.InDelta(t, 3.5, res.TopRated[2].AverageRating, 0.001)
}

func TestAggregate_MonthlyWindow(t *testing.T) {
	r := &entities.Recipe{ID: uuid.New(), Name: "Stew"}
	logs := []entities.CookingLog{
		logFor(r, date(2023, 5, 31), nil, nil),
		logFor(r, date(2023, 6, 1), nil, nil),
		logFor(r, date(2024, 3, 10), nil, nil),
		logFor(r, date(2024, 3, 11), nil, nil),
		logFor(r, date(2024, 5, 2), nil, nil),
	}

	res := Aggregate(logs, date(2024, 5, 15), 5)

	require.Len(t, res.Monthly, 12)
	assert.Equal(t, "2023-06", res.Monthly[0].Month)
	assert.Equal(t, 1, res.Monthly[0].Count)
	assert.Equal(t, "2024-03", res.Monthly[9].Month)
	assert.Equal(t, 2, res.Monthly[9].Count)
	assert.Equal(t, "2024-04", res.Monthly[10].Month)
	assert.Equal(t, 0, res.Monthly[10].Count)
	assert.Equal(t, "2024-05", res.Monthly[11].Month)
	assert.Equal(t, 1, res.Monthly[11].Count)
}

func TestAggregate_ThisWeekStartsMonday(t *testing.T) {
	r := &entities.Recipe{ID: uuid.New(), Name: "Salad"}
	// 2024-05-15 is a Wednesday.
	logs := []entities.CookingLog{
		logFor(r, date(2024, 5, 12), nil, nil),
		logFor(r, date(2024, 5, 13), nil, nil),
		logFor(r, date(2024, 5, 15), nil, nil),
		logFor(r, date(2024, 5, 15), nil, nil),
	}

	res := Aggregate(logs, date(2024, 5, 15), 5)

	require.Len(t, res.ThisWeek, 7)
	assert.Equal(t, "Monday", res.ThisWeek[0].Day)
	assert.Equal(t, "2024-05-13", res.ThisWeek[0].Date)
	assert.Equal(t, 1, res.ThisWeek[0].Count)
	assert.Equal(t, 2, res.ThisWeek[2].Count)
	assert.Equal(t, "Sunday", res.ThisWeek[6].Day)
	assert.Equal(t, "2024-05-19", res.ThisWeek[6].Date)
}
