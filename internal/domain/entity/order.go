// Package entity contains the core business objects of the project.
package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// OrderType enumerates the sales channels a receipt can originate from.
type OrderType string

const (
	OrderTypeDineIn   OrderType = "Dine-In"
	OrderTypeDelivery OrderType = "Delivery"
	OrderTypeTakeAway OrderType = "Take away"
)

// OrderItem is a single line item on a receipt.
type OrderItem struct {
	ItemName string  `json:"item_name"`
	Quantity float64 `json:"quantity"`
	Amount   float64 `json:"amount"` // NaN is never stored; unparseable amounts are recorded as zero.
}

// Order represents one point-of-sale receipt. Orders are created once and are
// immutable afterwards, except for a customer backfill when the owning
// customer is resolved by a later import.
type Order struct {
	OrderID        uuid.UUID   `json:"order_id"`
	CustomerID     *uuid.UUID  `json:"customer_id"` // Nil when the receipt carried no resolvable phone number.
	OrderDate      time.Time   `json:"order_date"`
	OrderItems     []OrderItem `json:"order_items"`
	OrderItemsText string      `json:"order_items_text"`
	TotalAmount    float64     `json:"total_amount"`
	OrderType      OrderType   `json:"order_type"`
	ReceiptID      string      `json:"receipt_id"` // Composite natural key; the idempotency boundary for POS imports.
}

// ItemsText renders the human-readable line item summary, e.g.
// "Chicken Biryani (x2); Lassi (x1)".
func ItemsText(items []OrderItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, fmt.Sprintf("%s (x%v)", item.ItemName, item.Quantity))
	}

	return strings.Join(parts, "; ")
}
