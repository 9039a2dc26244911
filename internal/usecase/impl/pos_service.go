// Package impl contains the application-specific business rules implementations.
package impl

import (
	"context"
	"log/slog"
	"time"

	"intake/internal/domain/entity"
	domainerrors "intake/internal/domain/errors"
	"intake/internal/domain/repository"
	"intake/internal/domain/service"
	"intake/internal/infra/spreadsheet"
	"intake/internal/usecase"
	"intake/internal/util"

	"github.com/google/uuid"
)

// Column names of the POS "sales details by receipt" export.
const (
	posColCustomerName    = "Customer name"
	posColCustomerMobile  = "Customer mobile"
	posColCustomerEmail   = "Customer email"
	posColCustomerAddress = "Customer address"
	posColSaleDate        = "Sale date"
	posColReceiptNo       = "Receipt no"
	posColOrderType       = "Ordertype name"
	posColItemName        = "Item name"
	posColItemQuantity    = "Item quantity"
	posColItemAmount      = "Item amount"
)

// Date layouts the POS export has been seen to use.
var posDateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	"Jan/02/2006",
	"02/01/2006",
}

// posService implements the POSImportUsecase interface.
type posService struct {
	resolver *entityResolver
	orders   repository.OrderRepository
	phones   *service.PhoneNormalizer
	logger   *slog.Logger
}

// NewPOSService is the constructor for posService.
func NewPOSService(
	customers repository.CustomerRepository,
	orders repository.OrderRepository,
	phones *service.PhoneNormalizer,
	logger *slog.Logger,
) usecase.POSImportUsecase {
	return &posService{
		resolver: newEntityResolver(customers, logger),
		orders:   orders,
		phones:   phones,
		logger:   logger,
	}
}

// receiptGroup accumulates the line items of one receipt. Customer details
// come from the receipt's first row; the export repeats them per line.
type receiptGroup struct {
	receiptNo string
	receiptID string
	saleDate  time.Time
	orderType string
	phone     string // Canonical, or "" when absent/invalid.
	name      string
	email     string
	address   string
	items     []entity.OrderItem
	total     float64
}

// ImportFile imports one POS export. Receipts already present by receipt_id
// are skipped, so re-running the same file is a no-op.
func (srv *posService) ImportFile(ctx context.Context, path string, progress usecase.Progress) (*usecase.Summary, error) {
	table, err := spreadsheet.ReadFile(path, []string{posColReceiptNo, posColCustomerMobile, posColItemName})
	if err != nil {
		return nil, err
	}

	if err := table.RequireColumns("pos",
		posColCustomerName, posColCustomerMobile, posColCustomerEmail, posColCustomerAddress,
		posColSaleDate, posColReceiptNo, posColOrderType,
		posColItemName, posColItemQuantity, posColItemAmount,
	); err != nil {
		return nil, err
	}

	summary := &usecase.Summary{}
	groups, order := srv.groupReceipts(table, summary, progress)
	progress.Emit("Grouped %d rows into %d receipts", table.Len(), len(groups))

	existingOrders, err := srv.orders.FindByReceiptIDs(ctx, order)
	if err != nil {
		return nil, err
	}

	// One batched customer pass for every receipt that carries a usable phone.
	candidates := make([]*entity.Customer, 0, len(order))
	for _, receiptID := range order {
		group := groups[receiptID]
		if group.phone == "" {
			continue
		}
		candidates = append(candidates, &entity.Customer{
			PhoneNumber: group.phone,
			Name:        group.name,
			Email:       group.email,
			Address:     group.address,
		})
	}

	res, err := srv.resolver.Resolve(ctx, candidates)
	if err != nil {
		return nil, err
	}
	if err := srv.resolver.Apply(ctx, res); err != nil {
		return nil, err
	}
	progress.Emit("Customers: %d updated, %d inserted", len(res.Updates), len(res.Inserts))

	var newOrders []*entity.Order
	for _, receiptID := range order {
		group := groups[receiptID]

		if _, ok := existingOrders[receiptID]; ok {
			summary.Skipped++
			rowErr := domainerrors.NewRowError(domainerrors.ReasonAlreadyProcessed, "receipt %s", receiptID)
			srv.logger.Info("skipping receipt", slog.String("reason", rowErr.Error()))

			continue
		}

		orderType, ok := service.MapOrderType(group.orderType)
		if !ok {
			summary.Skipped++
			rowErr := domainerrors.NewRowError(domainerrors.ReasonUnknownOrderType, "%q on receipt %s", group.orderType, group.receiptNo)
			srv.logger.Warn("skipping receipt", slog.String("reason", rowErr.Error()))
			progress.Emit("Skipping order with invalid order type: %s", group.orderType)

			continue
		}

		// Orders with unresolved customers are kept; only the linkage drops.
		var customerID *uuid.UUID
		if group.phone != "" {
			if id, ok := res.CustomerID(group.phone); ok {
				customerID = &id
			}
		}

		newOrders = append(newOrders, &entity.Order{
			OrderID:        uuid.New(),
			CustomerID:     customerID,
			OrderDate:      group.saleDate,
			OrderItems:     group.items,
			OrderItemsText: entity.ItemsText(group.items),
			TotalAmount:    group.total,
			OrderType:      orderType,
			ReceiptID:      receiptID,
		})
	}

	if err := srv.orders.CreateBatch(ctx, newOrders); err != nil {
		return nil, err
	}
	summary.Processed = len(newOrders)

	progress.Emit("POS import complete: %s", summary)

	return summary, nil
}

// groupReceipts walks the export once, grouping line items by receipt
// number. Row-level data problems (bad dates, bad amounts) are logged and
// degrade that row only; they never abort the file.
func (srv *posService) groupReceipts(table *spreadsheet.Table, summary *usecase.Summary, progress usecase.Progress) (map[string]*receiptGroup, []string) {
	groups := make(map[string]*receiptGroup)
	var order []string

	for i := 0; i < table.Len(); i++ {
		row := table.Row(i)

		receiptNo := row.Get(posColReceiptNo)
		if receiptNo == "" {
			continue
		}

		saleDate, ok := parseDate(row.Get(posColSaleDate), posDateLayouts)
		if !ok {
			summary.Failed++
			rowErr := domainerrors.NewRowError(domainerrors.ReasonInvalidDate, "%q on receipt %s", row.Get(posColSaleDate), receiptNo)
			srv.logger.Warn("skipping row", slog.String("reason", rowErr.Error()))

			continue
		}

		receiptID := service.FormatReceiptID(receiptNo, saleDate)
		group, ok := groups[receiptID]
		if !ok {
			phone, valid := srv.phones.Normalize(row.Get(posColCustomerMobile))
			if !valid {
				phone = ""
				if raw := row.Get(posColCustomerMobile); raw != "" {
					srv.logger.Warn("unusable customer phone on receipt",
						slog.String("receiptId", receiptID), slog.String("raw", raw))
				}
			}

			group = &receiptGroup{
				receiptNo: receiptNo,
				receiptID: receiptID,
				saleDate:  saleDate,
				orderType: row.Get(posColOrderType),
				phone:     phone,
				name:      row.Get(posColCustomerName),
				email:     row.Get(posColCustomerEmail),
				address:   row.Get(posColCustomerAddress),
			}
			groups[receiptID] = group
			order = append(order, receiptID)
		}

		quantity, _ := util.ParseQuantity(row.Get(posColItemQuantity))

		// Unparseable amounts are excluded from the sum, not from the list.
		amount, amountOK := util.ParseAmount(row.Get(posColItemAmount))
		if !amountOK {
			rowErr := domainerrors.NewRowError(domainerrors.ReasonInvalidAmount, "%q on receipt %s", row.Get(posColItemAmount), receiptNo)
			srv.logger.Warn("item amount unparseable", slog.String("reason", rowErr.Error()))
			progress.Emit("Row with invalid item amount on receipt %s", receiptNo)
		} else {
			group.total += amount
		}

		group.items = append(group.items, entity.OrderItem{
			ItemName: row.Get(posColItemName),
			Quantity: quantity,
			Amount:   amount,
		})
	}

	return groups, order
}

// parseDate tries the given layouts in order.
func parseDate(raw string, layouts []string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, true
		}
	}

	return time.Time{}, false
}
