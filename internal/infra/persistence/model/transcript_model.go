package model

import (
	"time"

	"github.com/google/uuid"
)

// TranscriptModel mirrors the 'ivr_transcripts' / 'ivr_transcripts_testing'
// tables. Recording is the source filename and the idempotency key.
type TranscriptModel struct {
	ID            int64     `gorm:"column:id;primaryKey;autoIncrement"`
	CustomerID    uuid.UUID `gorm:"column:customer_id;type:uuid;index;not null"`
	Content       string    `gorm:"column:content;type:text"`
	DateRecording time.Time `gorm:"column:date_recording"`
	Sentiment     string    `gorm:"column:sentiment;type:varchar(32)"`
	Recording     string    `gorm:"column:recording;type:varchar(255);uniqueIndex"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

// TransactionModel mirrors the 'transactions' / 'transactions_testing'
// tables fed by the loyalty system.
type TransactionModel struct {
	ID           int64      `gorm:"column:id;primaryKey;autoIncrement"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	POSReceiptID string     `gorm:"column:pos_receipt_id;type:varchar(64);index"`
	BillTotal    float64    `gorm:"column:bill_total"`
	MemberID     *string    `gorm:"column:member_id;type:varchar(64)"`
	OrderID      *uuid.UUID `gorm:"column:order_id;type:uuid;index"`
}
