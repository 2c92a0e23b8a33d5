package domain

var (
	MessageSuccessGetStats = "success get cooking statistics"
	MessageFailedGetStats  = "failed to get cooking statistics"
)

type (
	RecipeFrequency struct {
		RecipeID   string `json:"recipe_id"`
		RecipeName string `json:"recipe_name"`
		Count      int    `json:"count"`
	}

	RecipeRating struct {
		RecipeID      string  `json:"recipe_id"`
		RecipeName    string  `json:"recipe_name"`
		AverageRating float64 `json:"average_rating"`
		RatedCount    int     `json:"rated_count"`
	}

	MonthlyCount struct {
		Month string `json:"month"`
		Count int    `json:"count"`
	}

	WeekdayCount struct {
		Day   string `json:"day"`
		Date  string `json:"date"`
		Count int    `json:"count"`
	}

	StatisticsResponse struct {
		TotalSessions          int               `json:"total_sessions"`
		TotalDurationSeconds   int               `json:"total_duration_seconds"`
		AverageDurationSeconds *float64          `json:"average_duration_seconds"`
		AverageRating          *float64          `json:"average_rating"`
		CurrentStreak          int               `json:"current_streak"`
		LastCookedDate         string            `json:"last_cooked_date,omitempty"`
		MostFrequent           []RecipeFrequency `json:"most_frequent"`
		TopRated               []RecipeRating    `json:"top_rated"`
		Monthly                []MonthlyCount    `json:"monthly"`
		ThisWeek               []WeekdayCount    `json:"this_week"`
	}
)
