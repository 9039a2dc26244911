package postgres

import (
	"context"
	"encoding/json"
	"log/slog"

	"intake/internal/domain/entity"
	"intake/internal/domain/repository"
	"intake/internal/errors"
	"intake/internal/infra/persistence/model"

	"github.com/google/uuid"
)

// orderRepository implements repository.OrderRepository through the shared
// Gateway.
type orderRepository struct {
	gateway *Gateway
}

// NewOrderRepository is the constructor for orderRepository.
func NewOrderRepository(gateway *Gateway) repository.OrderRepository {
	return &orderRepository{gateway: gateway}
}

// FindByReceiptIDs retrieves existing orders by composite receipt key,
// chunked; failed read chunks are logged and skipped.
func (repo *orderRepository) FindByReceiptIDs(ctx context.Context, receiptIDs []string) (map[string]*entity.Order, error) {
	found := make(map[string]*entity.Order, len(receiptIDs))

	for _, batch := range chunked(receiptIDs, repo.gateway.batchSize) {
		var rows []model.OrderModel
		err := repo.gateway.db.WithContext(ctx).
			Table(repo.gateway.ns.Orders()).
			Where("receipt_id IN ?", batch).
			Find(&rows).Error
		if err != nil {
			repo.gateway.logger.Error("order lookup batch failed, skipping",
				slog.Int("batchSize", len(batch)), slog.String("error", err.Error()))

			continue
		}

		for i := range rows {
			order, err := toOrderDomain(&rows[i])
			if err != nil {
				repo.gateway.logger.Warn("skipping undecodable order row",
					slog.String("receiptId", rows[i].ReceiptID), slog.String("error", err.Error()))

				continue
			}
			found[order.ReceiptID] = order
		}
	}

	return found, nil
}

// CreateBatch inserts new orders; write failures propagate.
func (repo *orderRepository) CreateBatch(ctx context.Context, orders []*entity.Order) error {
	if len(orders) == 0 {
		return nil
	}

	rows := make([]*model.OrderModel, 0, len(orders))
	for _, order := range orders {
		row, err := fromOrderDomain(order)
		if err != nil {
			return errors.Wrapf(err, "failed to encode order %s", order.ReceiptID)
		}
		rows = append(rows, row)
	}

	for _, batch := range chunked(rows, repo.gateway.batchSize) {
		err := repo.gateway.db.WithContext(ctx).
			Table(repo.gateway.ns.Orders()).
			Create(batch).Error
		if err != nil {
			return errors.Wrap(err, "failed to insert orders")
		}
	}

	return nil
}

// AssignCustomer backfills the owning customer on an order created before
// its customer could be resolved.
func (repo *orderRepository) AssignCustomer(ctx context.Context, receiptID string, customerID uuid.UUID) error {
	result := repo.gateway.db.WithContext(ctx).
		Table(repo.gateway.ns.Orders()).
		Where("receipt_id = ? AND customer_id IS NULL", receiptID).
		Update("customer_id", customerID)
	if result.Error != nil {
		return errors.Wrapf(result.Error, "failed to assign customer on order %s", receiptID)
	}

	return nil
}

func toOrderDomain(data *model.OrderModel) (*entity.Order, error) {
	var items []entity.OrderItem
	if len(data.OrderItems) > 0 {
		if err := json.Unmarshal(data.OrderItems, &items); err != nil {
			return nil, errors.Wrap(err, "failed to decode order items")
		}
	}

	return &entity.Order{
		OrderID:        data.OrderID,
		CustomerID:     data.CustomerID,
		OrderDate:      data.OrderDate,
		OrderItems:     items,
		OrderItemsText: data.OrderItemsText,
		TotalAmount:    data.TotalAmount,
		OrderType:      entity.OrderType(data.OrderType),
		ReceiptID:      data.ReceiptID,
	}, nil
}

func fromOrderDomain(data *entity.Order) (*model.OrderModel, error) {
	items, err := json.Marshal(data.OrderItems)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode order items")
	}

	return &model.OrderModel{
		OrderID:        data.OrderID,
		CustomerID:     data.CustomerID,
		OrderDate:      data.OrderDate,
		OrderItems:     items,
		OrderItemsText: data.OrderItemsText,
		TotalAmount:    data.TotalAmount,
		OrderType:      string(data.OrderType),
		ReceiptID:      data.ReceiptID,
	}, nil
}
