// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import "fmt"

// Progress is the append-only message callback every pipeline reports
// through. A nil Progress is valid and silently discards messages, so
// callers without a console never have to pass a stub.
type Progress func(message string)

// Emit formats and forwards a progress line, tolerating a nil sink.
func (p Progress) Emit(format string, args ...any) {
	if p == nil {
		return
	}
	p(fmt.Sprintf(format, args...))
}

// Summary is the per-run outcome every pipeline returns: how many items went
// through, how many were skipped with a reason, and how many failed outright.
type Summary struct {
	Processed int
	Skipped   int
	Failed    int
}

// String renders the operator-facing one-line summary.
func (s Summary) String() string {
	return fmt.Sprintf("processed=%d skipped=%d failed=%d", s.Processed, s.Skipped, s.Failed)
}
