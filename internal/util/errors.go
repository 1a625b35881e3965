package util

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailRegistered     = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrAccountDisabled     = errors.New("account disabled")
	ErrSessionNotFound     = errors.New("interview session not found")
	ErrSessionNotActive    = errors.New("interview session is not active")
	ErrSessionNotOwned     = errors.New("interview session belongs to another user")
	ErrNoQuestionsInBank   = errors.New("no enabled questions available")
	ErrQuestionNotFound    = errors.New("question not found")
	ErrRecordingTooLarge   = errors.New("recording exceeds the size limit")
	ErrUnsupportedMimeType = errors.New("unsupported file type")
)
