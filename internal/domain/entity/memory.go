// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Memory sources.
const (
	MemorySourceSpreadsheet = "spreadsheet"
	MemorySourceTranscript  = "transcript"
)

// MemoryEntry is a free-text note attached to a customer, sourced from
// spreadsheet remarks or call transcripts. Entries are append-only.
type MemoryEntry struct {
	CustomerID uuid.UUID `json:"customer_id"`
	Content    string    `json:"content"`
	Source     string    `json:"source"`
	CreatedAt  time.Time `json:"created_at"`
}
