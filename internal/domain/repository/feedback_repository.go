// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"intake/internal/domain/entity"

	"github.com/google/uuid"
)

// FeedbackRepository defines operations for survey feedback persistence.
// Feedback is keyed by customer: one row per customer, updated in place.
type FeedbackRepository interface {
	// FindByCustomerIDs retrieves existing feedback rows keyed by customer ID.
	FindByCustomerIDs(ctx context.Context, customerIDs []uuid.UUID) (map[uuid.UUID]*entity.Feedback, error)

	// CreateBatch persists new feedback rows in one batched insert.
	CreateBatch(ctx context.Context, feedback []*entity.Feedback) error

	// Update replaces the stored ratings of an existing feedback row.
	Update(ctx context.Context, feedback *entity.Feedback) error
}

// MemoryRepository defines operations for free-text memory notes.
// Entries are append-only; there is no dedup key beyond customer+content.
type MemoryRepository interface {
	// CreateBatch appends memory entries in one batched insert.
	CreateBatch(ctx context.Context, entries []*entity.MemoryEntry) error
}
