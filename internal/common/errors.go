// Package common holds utilities shared by every feature: sentinel errors
// and helpers for working with calendar days in the reference time zone.
package common

import "errors"

// Account errors.
var (
	// ErrUserNotFound: no user with that id/username.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists: registration with a username that is already taken.
	ErrUserExists = errors.New("username already taken")
	// ErrWrongPassword: login with bad credentials.
	ErrWrongPassword = errors.New("wrong username or password")
	// ErrTooManyAttempts: login attempt limit reached, try again later.
	ErrTooManyAttempts = errors.New("too many login attempts, try again later")
)

// Submission errors.
var (
	// ErrUnknownDifficulty: difficulty is not Easy/Medium/Hard.
	ErrUnknownDifficulty = errors.New("unknown difficulty")
	// ErrInvalidTime: minutes negative or seconds outside 0-59.
	ErrInvalidTime = errors.New("invalid time: minutes must be >= 0 and seconds in 0-59")
	// ErrDuplicateResult: a result already exists for that user/difficulty/day.
	// The submission for that difficulty is dropped, never turned into an update.
	ErrDuplicateResult = errors.New("result already recorded for this day")
)
