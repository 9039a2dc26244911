// Package impl contains the application-specific business rules implementations.
package impl

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"intake/internal/domain/entity"
	"intake/internal/domain/repository"
	"intake/internal/domain/service"
	"intake/internal/usecase"
)

// amountTolerance is the accepted relative difference between an order total
// and the loyalty system's bill total.
const amountTolerance = 0.10

// verifyService implements the VerifyUsecase interface.
type verifyService struct {
	transactions repository.TransactionRepository
	orders       repository.OrderRepository
	logger       *slog.Logger
}

// NewVerifyService is the constructor for verifyService.
func NewVerifyService(
	transactions repository.TransactionRepository,
	orders repository.OrderRepository,
	logger *slog.Logger,
) usecase.VerifyUsecase {
	return &verifyService{
		transactions: transactions,
		orders:       orders,
		logger:       logger,
	}
}

// VerifyTransactions reconciles unlinked loyalty transactions against orders.
// The composite receipt key derived here must format exactly like the one
// built at order-creation time, or matches silently fail.
func (srv *verifyService) VerifyTransactions(ctx context.Context, progress usecase.Progress) (*usecase.VerifyResult, error) {
	result := &usecase.VerifyResult{}

	transactions, err := srv.transactions.FindUnlinked(ctx)
	if err != nil {
		return nil, err
	}
	if len(transactions) == 0 {
		progress.Emit("No transactions without an order found. Nothing to verify.")

		return result, nil
	}

	receiptIDs := make([]string, 0, len(transactions))
	seen := make(map[string]struct{}, len(transactions))
	for _, tx := range transactions {
		receiptID := service.FormatReceiptID(tx.POSReceiptID, tx.CreatedAt)
		if _, ok := seen[receiptID]; !ok {
			seen[receiptID] = struct{}{}
			receiptIDs = append(receiptIDs, receiptID)
		}
	}

	orders, err := srv.orders.FindByReceiptIDs(ctx, receiptIDs)
	if err != nil {
		return nil, err
	}

	for _, tx := range transactions {
		receiptID := service.FormatReceiptID(tx.POSReceiptID, tx.CreatedAt)

		order, found := orders[receiptID]
		if !found {
			result.Problematic++
			result.Issues = append(result.Issues, fmt.Sprintf(
				"No matching order for transaction pos_receipt_id=%s date=%s -> %s",
				tx.POSReceiptID, tx.CreatedAt.Format("2006-01-02"), receiptID))

			continue
		}

		if err := srv.transactions.AssignOrder(ctx, tx.ID, order.OrderID); err != nil {
			result.Problematic++
			result.Issues = append(result.Issues, fmt.Sprintf(
				"Failed to update transaction for %s: %v", receiptID, err))
			srv.logger.Error("transaction update failed",
				slog.String("receiptId", receiptID), slog.String("error", err.Error()))

			continue
		}
		result.Matched++

		// A mismatch flags but does not unlink; the transaction stays matched.
		if !withinTolerance(order.TotalAmount, tx.BillTotal) {
			result.Problematic++
			result.Issues = append(result.Issues, fmt.Sprintf(
				"Amount mismatch for %s: order_total=%v, bill_total=%v",
				receiptID, order.TotalAmount, tx.BillTotal))
		}

		// Loyalty points are earned at the counter, so anything but a
		// dine-in order deserves a second look.
		if order.OrderType != entity.OrderTypeDineIn {
			srv.logger.Warn("matched order is not a dine-in order",
				slog.String("receiptId", receiptID), slog.String("orderType", string(order.OrderType)))
			progress.Emit("Warning: order %s has type %s", receiptID, order.OrderType)
		}
	}

	progress.Emit("Matched transactions: %d", result.Matched)
	progress.Emit("Problematic transactions: %d", result.Problematic)
	for _, issue := range result.Issues {
		progress.Emit("- %s", issue)
	}

	return result, nil
}

// withinTolerance accepts two amounts when both are zero or their absolute
// difference is within amountTolerance of the smaller magnitude. The smaller
// side keeps the check symmetric and strict: 100 vs 109 passes, 100 vs 111
// flags.
func withinTolerance(a, b float64) bool {
	if a == 0 && b == 0 {
		return true
	}
	smaller := math.Min(math.Abs(a), math.Abs(b))

	return math.Abs(a-b) <= amountTolerance*smaller
}
