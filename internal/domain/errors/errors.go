// Package errors defines the domain-level error taxonomy of the import
// engine. It distinguishes fatal schema problems, which abort a whole file,
// from recoverable row-level problems, which are skipped with a reason code.
package errors

import (
	"fmt"
	"strings"
)

// SkipReason classifies why a row or item was excluded from an import run.
// Reason codes are stable so tests and log consumers can match on them.
type SkipReason string

const (
	ReasonMissingPhone     SkipReason = "missing_phone"
	ReasonInvalidPhone     SkipReason = "invalid_phone"
	ReasonInvalidAmount    SkipReason = "invalid_amount"
	ReasonInvalidDate      SkipReason = "invalid_date"
	ReasonUnknownOrderType SkipReason = "unknown_order_type"
	ReasonEmptyFeedback    SkipReason = "empty_feedback"
	ReasonShortRecording   SkipReason = "short_recording"
	ReasonAlreadyProcessed SkipReason = "already_processed"
	ReasonExtractionFailed SkipReason = "extraction_failed"
	ReasonMissingTokens    SkipReason = "missing_tokens"
)

// RowError marks a recoverable, row-scoped problem. Pipelines log it, count
// the row as skipped or failed, and continue with the rest of the file.
type RowError struct {
	Reason SkipReason // Stable reason code.
	Detail string     // Human-readable context, e.g. the offending value.
	Cause  error      // Underlying error, when one exists.
}

// Error implements the error interface.
func (e *RowError) Error() string {
	if e.Detail == "" {
		return string(e.Reason)
	}

	return fmt.Sprintf("%s: %s", e.Reason, e.Detail)
}

// Unwrap returns the underlying cause, if any.
func (e *RowError) Unwrap() error {
	return e.Cause
}

// NewRowError builds a RowError with a formatted detail message.
func NewRowError(reason SkipReason, format string, args ...any) *RowError {
	return &RowError{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

// SchemaError marks a fatal validation failure: the source file does not
// carry the columns a pipeline requires. No partial import is attempted.
type SchemaError struct {
	Source  string   // Which source failed validation, e.g. "pos".
	Missing []string // The column names that could not be found.
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: missing required columns: %s", e.Source, strings.Join(e.Missing, ", "))
}
