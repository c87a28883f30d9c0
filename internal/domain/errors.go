package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, end date before start date).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrForbidden is returned by mutating service functions when the acting
// user lacks the permission the operation requires.
// Handlers should map this to HTTP 403.
//
// Permission queries never return this — "no access" is a false, not an error.
var ErrForbidden = errors.New("forbidden")

// ErrUnknownItemType is returned when an item-type tag falls outside the
// closed set of five supported types. This indicates a caller defect rather
// than a runtime access condition, so it is never collapsed to "no access".
var ErrUnknownItemType = errors.New("unknown item type")
