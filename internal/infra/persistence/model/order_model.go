package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderModel mirrors the 'orders' / 'orders_testing' tables. OrderItems holds
// the raw line items as a jsonb document; OrderItemsText is the denormalized
// human-readable join kept alongside it.
type OrderModel struct {
	OrderID        uuid.UUID  `gorm:"column:order_id;type:uuid;primaryKey"`
	CustomerID     *uuid.UUID `gorm:"column:customer_id;type:uuid;index"`
	OrderDate      time.Time  `gorm:"column:order_date"`
	OrderItems     []byte     `gorm:"column:order_items;type:jsonb"`
	OrderItemsText string     `gorm:"column:order_items_text;type:text"`
	TotalAmount    float64    `gorm:"column:total_amount"`
	OrderType      string     `gorm:"column:order_type;type:varchar(16)"`
	ReceiptID      string     `gorm:"column:receipt_id;type:varchar(64);uniqueIndex;not null"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
}
