package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessShareRecipe   = "recipe shared successfully"
	MessageSuccessRevokeShare   = "access revoked successfully"
	MessageSuccessGetInbox      = "success get shared recipes inbox"
	MessageSuccessDismissNotice = "notice dismissed"
	MessageSuccessGetShared     = "success get recipes shared with you"

	MessageFailedShareRecipe   = "failed to share recipe"
	MessageFailedRevokeShare   = "failed to revoke access"
	MessageFailedGetInbox      = "failed to get shared recipes inbox"
	MessageFailedDismissNotice = "failed to dismiss notice"
	MessageFailedGetShared     = "failed to get recipes shared with you"

	ErrShareTargetNotFound = errors.New("user to share with not found")
	ErrNoticeNotFound      = errors.New("notice not found")
)

type (
	ShareRecipeRequest struct {
		Username string `json:"username" validate:"required"`
	}

	ShareRecipeResponse struct {
		RecipeID   string `json:"recipe_id"`
		Username   string `json:"username"`
		AlreadyHad bool   `json:"already_had_access"`
		NoticeSent bool   `json:"notice_sent"`
	}

	SharedRecipeNotice struct {
		ID         string    `json:"id"`
		RecipeID   string    `json:"recipe_id"`
		RecipeName string    `json:"recipe_name"`
		SharerName string    `json:"sharer_name"`
		DateShared time.Time `json:"date_shared"`
	}
)
