// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// CallTranscript stores the transcribed text of one IVR recording. The
// recording filename doubles as the idempotency key: a file that already has
// a transcript is never processed again.
type CallTranscript struct {
	CustomerID    uuid.UUID `json:"customer_id"`
	Content       string    `json:"content"`
	DateRecording time.Time `json:"date_recording"`
	Sentiment     string    `json:"sentiment"`
	Recording     string    `json:"recording"` // Source audio filename.
}
