package util

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailRegistered  = errors.New("email already registered")
	ErrPlanetNotFound   = errors.New("planet not found")
	ErrLevelNotFound    = errors.New("level not found")
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrProgressNotFound = errors.New("progress not found")
	ErrAlreadySubmitted = errors.New("exercise already submitted")
	ErrLevelLocked      = errors.New("level is locked")
	ErrInvalidAnswer    = errors.New("answer is required")
)
