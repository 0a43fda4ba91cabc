package model

import "errors"

// Common errors used across the application
var (
	// Duo session errors
	ErrSessionNotFound  = errors.New("duo session not found")
	ErrNoWaitingSession = errors.New("no waiting duo session for this game")
	ErrSessionFull      = errors.New("duo session already has two players")
	ErrNotInSession     = errors.New("player is not in this duo session")

	// Catalog errors
	ErrGameNotFound = errors.New("game not found")

	// User errors
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username is already taken")

	// Image errors
	ErrInvalidRegionCount = errors.New("difference count is not seven")
)
