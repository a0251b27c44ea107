// Package services defines the business logic for comparisons, scoring reads,
// and preference personalization. This file centralizes common service-level
// error values so that they can be consistently returned by service methods
// and checked by callers.
//
// These errors are intended for internal use by the service layer; translation
// into user-facing messages or HTTP status codes is performed at the handler
// layer.
package services

import "errors"

var (
	// ErrComparisonNotFound indicates that the requested comparison does not
	// exist or is not accessible to the current user.
	ErrComparisonNotFound = errors.New("comparison not found")

	// ErrItemNotFound indicates that the referenced item is not part of the
	// comparison.
	ErrItemNotFound = errors.New("item not found")

	// ErrPointNotFound indicates that the referenced point is not part of the
	// item.
	ErrPointNotFound = errors.New("point not found")

	// ErrEmptyText is returned when a request to create a comparison contains
	// no input text.
	ErrEmptyText = errors.New("input text is empty")

	// ErrTooLong is returned when input text exceeds the configured limit.
	ErrTooLong = errors.New("input text too long")

	// ErrEmptyInstructions is returned when a refinement request carries no
	// instructions.
	ErrEmptyInstructions = errors.New("instructions are empty")

	// ErrInvalidPolarity is returned when a point is written with a polarity
	// outside pro/con/neutral.
	ErrInvalidPolarity = errors.New("polarity must be pro, con or neutral")

	// ErrExtractionFailed wraps extraction collaborator failures; these are
	// recoverable and user-visible (retry or edit manually).
	ErrExtractionFailed = errors.New("could not extract a comparison from the text")

	// ErrRefinementFailed wraps refinement collaborator failures; recoverable
	// and user-visible.
	ErrRefinementFailed = errors.New("could not apply the instructions")

	// ErrNothingToUndo / ErrNothingToRedo report empty snapshot stacks.
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)
