package apperrors

import "errors"

// ErrNotFound indicates that a referenced record is no longer present,
// typically because another device deleted it between syncs.
var ErrNotFound = errors.New("record not found")

// ErrValidation indicates that user input failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrPersistence indicates that the durable write to the remote snapshot
// store failed. The in-memory mutation is never rolled back because of it.
var ErrPersistence = errors.New("persistence error")

// ErrNothingToExport signals that a calendar export produced no events.
// It is an empty-result signal, not a hard failure.
var ErrNothingToExport = errors.New("nothing to export")
