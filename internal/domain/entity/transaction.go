// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Transaction is a financial record imported from the loyalty system. The
// verifier links each transaction to its order through the composite receipt
// key and flags inconsistencies; it never deletes or fabricates transactions.
type Transaction struct {
	ID           int64      `json:"id"`
	CreatedAt    time.Time  `json:"created_at"`
	POSReceiptID string     `json:"pos_receipt_id"`
	BillTotal    float64    `json:"bill_total"`
	MemberID     string     `json:"member_id"`
	OrderID      *uuid.UUID `json:"order_id"` // Back-reference populated by the verifier.
}
