package domain

import (
	"errors"
	"mime/multipart"
	"time"
)

var (
	MessageSuccessCreateLog      = "successfully logged your cooking session"
	MessageSuccessGetLogs        = "success get cooking logs"
	MessageSuccessGetLog         = "success get cooking log"
	MessageSuccessUpdateLog      = "cooking log updated successfully"
	MessageSuccessDeleteLog      = "cooking log deleted successfully"
	MessageSuccessUploadLogImage = "cooking log image uploaded successfully"

	MessageFailedCreateLog      = "failed to log cooking session"
	MessageFailedGetLogs        = "failed to get cooking logs"
	MessageFailedGetLog         = "failed to get cooking log"
	MessageFailedUpdateLog      = "failed to update cooking log"
	MessageFailedDeleteLog      = "failed to delete cooking log"
	MessageFailedUploadLogImage = "failed to upload cooking log image"

	ErrCookingLogNotFound    = errors.New("cooking log not found")
	ErrUnauthorizedLogAccess = errors.New("unauthorized access to cooking log")
	ErrInvalidRating         = errors.New("rating must be between 1 and 5")
	ErrInvalidDuration       = errors.New("duration must not be negative")
)

type (
	CreateCookingLogRequest struct {
		RecipeID        string `json:"recipe_id" validate:"required,uuid"`
		DateCooked      string `json:"date_cooked" validate:"omitempty"`
		DurationSeconds *int   `json:"duration_seconds" validate:"omitempty,min=0"`
		Rating          *int   `json:"rating" validate:"omitempty,min=1,max=5"`
		Notes           string `json:"notes" validate:"omitempty,max=2000"`
	}

	// UpdateCookingLogRequest only touches the fields that are present.
	UpdateCookingLogRequest struct {
		DateCooked      string  `json:"date_cooked" validate:"omitempty"`
		DurationSeconds *int    `json:"duration_seconds" validate:"omitempty,min=0"`
		Rating          *int    `json:"rating" validate:"omitempty,min=1,max=5"`
		Notes           *string `json:"notes" validate:"omitempty,max=2000"`
	}

	UploadLogImageRequest struct {
		Image *multipart.FileHeader `json:"image" form:"image" validate:"required"`
	}

	CookingLogResponse struct {
		ID              string    `json:"id"`
		RecipeID        string    `json:"recipe_id"`
		RecipeName      string    `json:"recipe_name"`
		DateCooked      string    `json:"date_cooked"`
		DurationSeconds *int      `json:"duration_seconds,omitempty"`
		Rating          *int      `json:"rating,omitempty"`
		Notes           string    `json:"notes,omitempty"`
		ImageURL        string    `json:"image_url,omitempty"`
		CreatedAt       time.Time `json:"created_at"`
	}

	CookingLogMutationResponse struct {
		Log           CookingLogResponse `json:"log"`
		CurrentStreak int                `json:"current_streak"`
	}
)
