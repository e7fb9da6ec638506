package common

import "errors"

// Business logic errors
var (
	// General errors
	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("forbidden")

	// Board / topic / message errors
	ErrBoardNotFound   = errors.New("board not found")
	ErrTopicNotFound   = errors.New("topic not found")
	ErrMessageNotFound = errors.New("message not found")

	// Publication errors
	ErrPermissionDenied     = errors.New("permission denied")
	ErrTopicLocked          = errors.New("topic is locked")
	ErrDuplicateSubmission  = errors.New("duplicate submission")
	ErrFloodControl         = errors.New("posting too fast")
	ErrPollAlreadyExists    = errors.New("topic already has a poll")
	ErrStagedFileNotFound   = errors.New("staged attachment not found")
	ErrStagingLimitExceeded = errors.New("attachment limit exceeded")

	// Auth errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")
)
