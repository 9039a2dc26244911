// Package usecase contains the application-specific business rules.
package usecase

import "context"

// VerifyResult is the outcome of one reconciliation pass over the loyalty
// transactions.
type VerifyResult struct {
	Matched     int      // Transactions linked to an order this pass.
	Problematic int      // Transactions with no order, a failed update, or an amount mismatch.
	Issues      []string // Human-readable description of every problem found.
}

// VerifyUsecase reconciles loyalty transactions against orders through the
// composite receipt key, backfilling the order reference and flagging amount
// or channel inconsistencies.
type VerifyUsecase interface {
	VerifyTransactions(ctx context.Context, progress Progress) (*VerifyResult, error)
}
