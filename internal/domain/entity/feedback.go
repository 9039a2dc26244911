// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Feedback holds one customer's survey ratings on a 0-4 scale, where 0 means
// "not answered". A customer has at most one Feedback row; repeated imports
// replace the stored ratings instead of appending.
type Feedback struct {
	FeedbackID        uuid.UUID `json:"feedback_id"`
	CustomerID        uuid.UUID `json:"customer_id"` // Dedup key: one feedback per customer.
	FoodReview        int       `json:"food_review"`
	Service           int       `json:"service"`
	Cleanliness       int       `json:"cleanliness"`
	Atmosphere        int       `json:"atmosphere"`
	Value             int       `json:"value"`
	OverallExperience int       `json:"overall_experience"`
	HeardAboutUsFrom  string    `json:"where_did_they_hear_about_us"` // Closed vocabulary; empty when unrecognized.
	FeedbackDate      time.Time `json:"feedback_date"`
}

// IsEmpty reports whether every rating is unanswered. Empty feedback rows are
// not worth persisting.
func (f *Feedback) IsEmpty() bool {
	return f.FoodReview == 0 && f.Service == 0 && f.Cleanliness == 0 &&
		f.Atmosphere == 0 && f.Value == 0 && f.OverallExperience == 0
}
