package model

import (
	"time"

	"github.com/google/uuid"
)

// FeedbackModel mirrors the 'feedback' / 'feedback_testing' tables.
// CustomerID carries a unique index: at most one feedback row per customer.
type FeedbackModel struct {
	FeedbackID        uuid.UUID `gorm:"column:feedback_id;type:uuid;primaryKey"`
	CustomerID        uuid.UUID `gorm:"column:customer_id;type:uuid;uniqueIndex;not null"`
	FoodReview        int       `gorm:"column:food_review"`
	Service           int       `gorm:"column:service"`
	Cleanliness       int       `gorm:"column:cleanliness"`
	Atmosphere        int       `gorm:"column:atmosphere"`
	Value             int       `gorm:"column:value"`
	OverallExperience int       `gorm:"column:overall_experience"`
	HeardAboutUsFrom  *string   `gorm:"column:where_did_they_hear_about_us;type:varchar(64)"`
	FeedbackDate      time.Time `gorm:"column:feedback_date"`
}

// MemoryModel mirrors the 'memory' / 'memory_testing' tables.
type MemoryModel struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	CustomerID uuid.UUID `gorm:"column:customer_id;type:uuid;index;not null"`
	Content    string    `gorm:"column:content;type:text;not null"`
	Source     string    `gorm:"column:source;type:varchar(32)"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}
