// Package service implements the mood-tracking actions on top of the
// repository store.
package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidLevel is returned when a mood, energy or stress rating is
	// outside MinLevel..MaxLevel.
	ErrInvalidLevel = errors.New("level out of range")

	// ErrInvalidInput is returned when a required field is missing or malformed.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is returned when the addressed row does not exist.
	ErrNotFound = errors.New("not found")
)

// Rating bounds.
const (
	MinLevel = 1
	MaxLevel = 10
)

func checkLevel(name string, level int) error {
	if level < MinLevel || level > MaxLevel {
		return fmt.Errorf("%s %d not in %d..%d: %w", name, level, MinLevel, MaxLevel, ErrInvalidLevel)
	}
	return nil
}

func required(name, value string) error {
	if value == "" {
		return fmt.Errorf("%s is required: %w", name, ErrInvalidInput)
	}
	return nil
}
