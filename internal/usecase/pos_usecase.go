// Package usecase contains the application-specific business rules.
package usecase

import "context"

// POSImportUsecase imports a point-of-sale "sales details by receipt" export:
// line items are grouped into orders by receipt, customers are resolved by
// phone, and receipts already present are skipped.
type POSImportUsecase interface {
	ImportFile(ctx context.Context, path string, progress Progress) (*Summary, error)
}
