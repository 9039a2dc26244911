// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"intake/internal/domain/entity"

	"github.com/google/uuid"
)

// TransactionRepository defines operations over loyalty-system transactions.
// The verifier only ever reads unlinked transactions and backfills order_id;
// transactions are never deleted or fabricated here.
type TransactionRepository interface {
	// FindUnlinked retrieves all transactions whose order_id is still null.
	FindUnlinked(ctx context.Context) ([]*entity.Transaction, error)

	// AssignOrder links a transaction to its matched order. The update is
	// guarded on order_id still being null to avoid clobbering an earlier run.
	AssignOrder(ctx context.Context, transactionID int64, orderID uuid.UUID) error
}
