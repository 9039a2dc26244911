// Package repository defines the interfaces for the persistence layer.
package repository

import "context"

// Maintenance groups administrative operations on the storage backend.
type Maintenance interface {
	// ResetTestData purges the test-namespace tables, children before
	// parents, always preserving the reserved sentinel customer row. It
	// refuses to run against the production namespace.
	ResetTestData(ctx context.Context) error
}
