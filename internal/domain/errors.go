package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrInvalidInput is returned when caller-supplied data is missing or blank.
	// It is usually wrapped with a more specific message.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyResult is returned when a flashcard set would contain no cards.
	ErrEmptyResult = errors.New("flashcard set has no cards")

	// ErrInvalidID is returned when an identifier is not in the store's format.
	ErrInvalidID = errors.New("invalid ID")
)

// Flashcard-specific validation errors
var (
	// ErrTopicEmpty is returned when a flashcard set topic is blank.
	ErrTopicEmpty = fmt.Errorf("%w: topic cannot be empty", ErrInvalidInput)

	// ErrTermEmpty is returned when a flashcard term is blank.
	ErrTermEmpty = fmt.Errorf("%w: term cannot be empty", ErrInvalidInput)

	// ErrDefinitionEmpty is returned when a flashcard definition is blank.
	ErrDefinitionEmpty = fmt.Errorf("%w: definition cannot be empty", ErrInvalidInput)
)
