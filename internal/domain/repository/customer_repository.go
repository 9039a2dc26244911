// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers
// and the infrastructure layer. The backing store offers table-scoped CRUD
// with equality/membership filters only; there is no multi-statement
// transaction support, so every operation here is a single batched call.
package repository

import (
	"context"
	"errors"

	"intake/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrCustomerNotFound is a domain-specific error returned when a customer is not found.
var ErrCustomerNotFound = errors.New("customer not found")

// CustomerRepository defines the standard operations for customer persistence.
// The application layer depends on this interface, not the concrete implementation.
type CustomerRepository interface {
	// FindByPhones retrieves existing customers for a set of canonical phone
	// keys, chunked to the backend's batch limit, keyed by phone number.
	// Failed read chunks are logged and skipped rather than aborting the call.
	FindByPhones(ctx context.Context, phones []string) (map[string]*entity.Customer, error)

	// CreateBatch persists new customers in one batched insert. Customer IDs
	// must already be assigned; natural-key dedup is the caller's job.
	CreateBatch(ctx context.Context, customers []*entity.Customer) error

	// UpdateFields applies a sparse field update to one customer by ID.
	UpdateFields(ctx context.Context, customerID uuid.UUID, fields map[string]any) error
}
