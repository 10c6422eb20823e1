package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrIncompleteProfile marks a user profile missing the demographic
	// fields a recompute needs (date of birth, height, weight, sex).
	ErrIncompleteProfile = errors.New("incomplete profile")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
)
