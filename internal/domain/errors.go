package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, malformed date).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrDuplicate is returned when a record would violate the document_no or
// national_id_number uniqueness guarantee. During CSV ingestion it is
// converted to a skip; for single-record writes handlers map it to a
// field-level error on the offending column.
var ErrDuplicate = errors.New("duplicate record")

// ErrSchemaMismatch is returned when an uploaded CSV header row does not
// exactly match the expected column list. It is batch-fatal: no rows are
// processed.
var ErrSchemaMismatch = errors.New("csv header does not match expected schema")

// ErrBadColumn is returned when an export or report names a column outside
// the allow-list. Unlike listing filters, which silently degrade, export
// column selection hard-fails: an export silently dropping a column is worse
// than refusing.
var ErrBadColumn = errors.New("unknown column")

// FieldErrors maps field names to human-readable validation messages.
// It is the structured failure shape of the record validator: one entry per
// invalid field, never a partially normalized record alongside it.
type FieldErrors map[string]string

// Error renders the field messages in deterministic (sorted) order.
func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, e[f]))
	}
	return "validation error: " + strings.Join(parts, "; ")
}

// Is makes errors.Is(err, ErrValidation) match any FieldErrors value, so
// callers can branch on the error kind without inspecting the map.
func (e FieldErrors) Is(target error) bool {
	return target == ErrValidation
}
