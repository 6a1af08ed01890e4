package domain

import "errors"

// ErrNotFound is returned when an operation references a tag, period or
// day mark that does not exist (for example a stale id from an old page).
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails business rule validation
// (empty tag name, start date after end date, months count out of range).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrImportFormat is returned when an imported document is not valid JSON
// of the expected shape. The current state is never touched when it occurs.
// Handlers should map this to HTTP 400.
var ErrImportFormat = errors.New("import format error")
