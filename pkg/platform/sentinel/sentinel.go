package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and infrastructure layers return
// these (optionally wrapped) so services can translate them into domain errors.
//
//   - ErrNotFound: entity (or a referenced parent) does not exist in store
//   - ErrAlreadyUsed: a unique key (course name, enrollment pair) is taken
//   - ErrConflict: concurrent write lost against a storage constraint
//   - ErrStale: an incoming replica event is older than the stored version
//   - ErrUnavailable: service or resource temporarily unavailable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrAlreadyUsed = errors.New("already used")
	ErrStale       = errors.New("stale version")
	ErrUnavailable = errors.New("unavailable")
)
