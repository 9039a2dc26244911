// Package impl contains the application-specific business rules implementations.
package impl

import (
	"context"
	"log/slog"

	"intake/internal/domain/entity"
	"intake/internal/domain/repository"
	"intake/internal/domain/service"
	"intake/internal/errors"

	"github.com/google/uuid"
)

// customerUpdate is one pending sparse update against an existing customer.
type customerUpdate struct {
	CustomerID uuid.UUID
	Fields     map[string]any
}

// resolution is the outcome of partitioning an import batch against the
// customer table: which incoming records update an existing customer, which
// become inserts, and the customer ID now associated with every phone key.
type resolution struct {
	Updates []customerUpdate
	Inserts []*entity.Customer

	ids map[string]uuid.UUID
}

// CustomerID returns the resolved customer ID for a canonical phone key.
func (r *resolution) CustomerID(phone string) (uuid.UUID, bool) {
	id, ok := r.ids[phone]

	return id, ok
}

// entityResolver routes incoming customer candidates to the update or insert
// path. The backing store enforces no natural-key dedup on insert, so
// intra-batch duplicates must be collapsed here, before any write: exactly
// one insert per phone key per batch.
type entityResolver struct {
	customers repository.CustomerRepository
	logger    *slog.Logger
}

func newEntityResolver(customers repository.CustomerRepository, logger *slog.Logger) *entityResolver {
	return &entityResolver{customers: customers, logger: logger}
}

// Resolve batch-looks-up the candidates' phone keys and partitions them.
// Candidates must already carry canonical phone numbers; merging follows the
// field-level merge policy regardless of which source produced the batch.
func (r *entityResolver) Resolve(ctx context.Context, candidates []*entity.Customer) (*resolution, error) {
	phones := make([]string, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))
	for _, candidate := range candidates {
		if _, ok := seen[candidate.PhoneNumber]; !ok {
			seen[candidate.PhoneNumber] = struct{}{}
			phones = append(phones, candidate.PhoneNumber)
		}
	}

	existing, err := r.customers.FindByPhones(ctx, phones)
	if err != nil {
		return nil, errors.Wrap(err, "failed to look up existing customers")
	}

	// Working copies accumulate merges across duplicate rows; the original
	// store state is kept aside to compute the final sparse updates.
	working := make(map[string]entity.Customer, len(existing))
	inserts := make(map[string]*entity.Customer)
	var insertOrder []string

	for _, candidate := range candidates {
		phone := candidate.PhoneNumber

		if original, ok := existing[phone]; ok {
			current, tracked := working[phone]
			if !tracked {
				current = *original
			}
			merged, _ := service.MergeCustomer(current, *candidate)
			working[phone] = merged

			continue
		}

		if pending, ok := inserts[phone]; ok {
			// Same phone appearing twice in one import: collapse client-side.
			merged, _ := service.MergeCustomer(*pending, *candidate)
			merged.CustomerID = pending.CustomerID
			*pending = merged

			continue
		}

		insert := *candidate
		insert.CustomerID = uuid.New()
		// Fresh inserts bypass MergeCustomer, so the email filter must run
		// here too: placeholders and malformed addresses count as absent.
		if !service.ValidEmail(insert.Email) {
			insert.Email = ""
		}
		inserts[phone] = &insert
		insertOrder = append(insertOrder, phone)
	}

	res := &resolution{ids: make(map[string]uuid.UUID, len(existing)+len(inserts))}

	for phone, original := range existing {
		res.ids[phone] = original.CustomerID
		merged, ok := working[phone]
		if !ok {
			continue
		}
		if fields := service.CustomerUpdates(*original, merged); len(fields) > 0 {
			res.Updates = append(res.Updates, customerUpdate{
				CustomerID: original.CustomerID,
				Fields:     fields,
			})
		}
	}

	for _, phone := range insertOrder {
		insert := inserts[phone]
		res.ids[phone] = insert.CustomerID
		res.Inserts = append(res.Inserts, insert)
	}

	return res, nil
}

// Apply persists a resolution: sparse updates per existing customer, then a
// single batched insert for the new ones. Write failures propagate.
func (r *entityResolver) Apply(ctx context.Context, res *resolution) error {
	for _, update := range res.Updates {
		r.logger.Debug("updating customer",
			slog.String("customerID", update.CustomerID.String()),
			slog.Int("fields", len(update.Fields)))
		if err := r.customers.UpdateFields(ctx, update.CustomerID, update.Fields); err != nil {
			return errors.Wrapf(err, "failed to update customer %s", update.CustomerID)
		}
	}

	if err := r.customers.CreateBatch(ctx, res.Inserts); err != nil {
		return errors.Wrap(err, "failed to insert customers")
	}

	return nil
}
