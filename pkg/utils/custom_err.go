package utils

import "errors"

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrAccountNotFound    = errors.New("account not found")

	ErrWorkspaceNotFound = errors.New("workspace not found")
	ErrMoodboardNotFound = errors.New("moodboard not found")
	ErrItemNotFound      = errors.New("item not found")
	ErrShareNotFound     = errors.New("share not found")
	ErrShareExpired      = errors.New("share expired")

	ErrInvalidStep      = errors.New("invalid onboarding step")
	ErrInvalidFocusArea = errors.New("invalid focus area")
	ErrInvalidImageType = errors.New("invalid image type")
	ErrInvalidItemType  = errors.New("invalid item type")
	ErrInvalidPage      = errors.New("invalid page parameter")
	ErrInvalidPageSize  = errors.New("invalid page size parameter")
	ErrValidation       = errors.New("validation failed")

	ErrGenerationFailed = errors.New("moodboard generation failed")
	ErrDatabaseError    = errors.New("database error")
)
