// Package handlers defines the HTTP-layer error codes used across all API
// endpoints.
//
// These symbolic constants form the stable, machine-readable error taxonomy
// clients branch on; they supplement the human-readable messages carried in
// the ErrorResponse envelope. Generic codes mirror HTTP status semantics;
// domain-specific codes cover business failures a status alone cannot convey.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "extraction_failed",
//	  "message": "could not extract a comparison from the text"
//	}
package handlers

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeForbidden    = "forbidden"
	ErrCodeNotFound     = "not_found"
	ErrCodeConflict     = "conflict"
	ErrCodeRateLimited  = "too_many_requests"
	ErrCodeInternal     = "internal_error"

	// Domain-specific:
	ErrCodeExtractionFailed = "extraction_failed"
	ErrCodeRefinementFailed = "refinement_failed"
	ErrCodeNothingToUndo    = "nothing_to_undo"
	ErrCodeNothingToRedo    = "nothing_to_redo"
	ErrCodeListFailed       = "list_failed"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)
