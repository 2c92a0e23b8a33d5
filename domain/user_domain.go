package domain

import (
	"errors"
	"mime/multipart"
	"time"
)

var (
	MessageSuccessRegister      = "account created successfully"
	MessageSuccessLogin         = "login successful"
	MessageSuccessLogout        = "you have been logged out"
	MessageSuccessGetUser       = "success get user"
	MessageSuccessUpdateUser    = "profile updated successfully"
	MessageSuccessUploadPicture = "profile picture updated successfully"
	MessageSuccessSearchUsers   = "success search users"
	MessageSuccessGetHome       = "success get home"

	MessageFailedRegister      = "failed to create account"
	MessageFailedLogin         = "login unsuccessful, please check your username/email and password"
	MessageFailedLogout        = "failed to logout"
	MessageFailedGetUser       = "failed to get user"
	MessageFailedUpdateUser    = "failed to update profile"
	MessageFailedUploadPicture = "failed to upload profile picture"
	MessageFailedSearchUsers   = "failed to search users"
	MessageFailedGetHome       = "failed to get home"

	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid username/email or password")
	ErrHashPassword       = errors.New("failed to hash password")
)

type (
	RegisterRequest struct {
		Username        string `json:"username" validate:"required,min=3,max=20"`
		Email           string `json:"email" validate:"required,email"`
		Password        string `json:"password" validate:"required,min=8"`
		ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
	}

	LoginRequest struct {
		Identifier string `json:"identifier" validate:"required"`
		Password   string `json:"password" validate:"required"`
		Remember   bool   `json:"remember"`
	}

	LoginResponse struct {
		Token     string       `json:"token"`
		ExpiresAt time.Time    `json:"expires_at"`
		User      UserResponse `json:"user"`
	}

	UpdateProfileRequest struct {
		Username string `json:"username" validate:"required,min=3,max=20"`
		Email    string `json:"email" validate:"required,email"`
		Bio      string `json:"bio" validate:"omitempty,max=500"`
	}

	UploadProfilePictureRequest struct {
		Picture *multipart.FileHeader `json:"picture" form:"picture" validate:"required"`
	}

	UserResponse struct {
		ID                string     `json:"id"`
		Username          string     `json:"username"`
		Email             string     `json:"email"`
		Bio               string     `json:"bio,omitempty"`
		ProfilePictureURL string     `json:"profile_picture_url,omitempty"`
		JoinedAt          time.Time  `json:"joined_at"`
		CurrentStreak     int        `json:"current_streak"`
		LastCookedDate    *time.Time `json:"last_cooked_date,omitempty"`
	}

	HomeResponse struct {
		User          UserResponse         `json:"user"`
		CurrentStreak int                  `json:"current_streak"`
		RecentLogs    []CookingLogResponse `json:"recent_logs"`
	}
)
