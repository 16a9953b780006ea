package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidDifficulty is returned when a review difficulty is not valid.
	ErrInvalidDifficulty = errors.New("invalid review difficulty")

	// ErrCharacterLocked is returned when a review is submitted for a
	// character that has not been unlocked yet.
	ErrCharacterLocked = errors.New("character is locked")

	// ErrCharacterBurned is returned when a review is submitted for a
	// character that has already been burned.
	ErrCharacterBurned = errors.New("character is burned")

	// ErrCharacterNotLocked is returned when an unlock is attempted on a
	// character that is already past the locked stage.
	ErrCharacterNotLocked = errors.New("character is not locked")
)
