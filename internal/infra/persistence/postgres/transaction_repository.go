package postgres

import (
	"context"

	"intake/internal/domain/entity"
	"intake/internal/domain/repository"
	"intake/internal/errors"
	"intake/internal/infra/persistence/model"

	"github.com/google/uuid"
)

// transactionRepository implements repository.TransactionRepository through
// the shared Gateway.
type transactionRepository struct {
	gateway *Gateway
}

// NewTransactionRepository is the constructor for transactionRepository.
func NewTransactionRepository(gateway *Gateway) repository.TransactionRepository {
	return &transactionRepository{gateway: gateway}
}

// FindUnlinked retrieves every transaction still missing its order
// back-reference. The verifier works through this set in one pass.
func (repo *transactionRepository) FindUnlinked(ctx context.Context) ([]*entity.Transaction, error) {
	var rows []model.TransactionModel
	err := repo.gateway.db.WithContext(ctx).
		Table(repo.gateway.ns.Transactions()).
		Where("order_id IS NULL").
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list unlinked transactions")
	}

	transactions := make([]*entity.Transaction, 0, len(rows))
	for i := range rows {
		transactions = append(transactions, toTransactionDomain(&rows[i]))
	}

	return transactions, nil
}

// AssignOrder links a transaction to its matched order. The null guard keeps
// a re-run from overwriting a link made by an earlier pass.
func (repo *transactionRepository) AssignOrder(ctx context.Context, transactionID int64, orderID uuid.UUID) error {
	result := repo.gateway.db.WithContext(ctx).
		Table(repo.gateway.ns.Transactions()).
		Where("id = ? AND order_id IS NULL", transactionID).
		Update("order_id", orderID)
	if result.Error != nil {
		return errors.Wrapf(result.Error, "failed to link transaction %d", transactionID)
	}

	return nil
}

func toTransactionDomain(data *model.TransactionModel) *entity.Transaction {
	return &entity.Transaction{
		ID:           data.ID,
		CreatedAt:    data.CreatedAt,
		POSReceiptID: data.POSReceiptID,
		BillTotal:    data.BillTotal,
		MemberID:     deref(data.MemberID),
		OrderID:      data.OrderID,
	}
}
