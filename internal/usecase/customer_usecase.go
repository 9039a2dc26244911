// Package usecase contains the application-specific business rules.
package usecase

import "context"

// CustomerImportUsecase imports the customer details spreadsheet: customer
// upserts, order-to-customer backfill, feedback upserts and memory notes,
// in that dependency order.
type CustomerImportUsecase interface {
	ImportFile(ctx context.Context, path string, progress Progress) (*Summary, error)
}
