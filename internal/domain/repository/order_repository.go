// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"errors"

	"intake/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrOrderNotFound is returned when an order is not found.
var ErrOrderNotFound = errors.New("order not found")

// OrderRepository defines the standard operations for order persistence.
type OrderRepository interface {
	// FindByReceiptIDs retrieves existing orders for a set of composite
	// receipt keys, keyed by receipt ID. This is the POS idempotency check.
	FindByReceiptIDs(ctx context.Context, receiptIDs []string) (map[string]*entity.Order, error)

	// CreateBatch persists new orders in one batched insert.
	CreateBatch(ctx context.Context, orders []*entity.Order) error

	// AssignCustomer backfills the owning customer on an order that was
	// created without one. Orders are otherwise immutable.
	AssignCustomer(ctx context.Context, receiptID string, customerID uuid.UUID) error
}
