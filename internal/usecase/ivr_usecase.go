// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"
	"time"
)

// Recording is one IVR audio file handed to the import run. The filename
// must contain an 8-digit date token and an 11-digit phone token. Duration
// is optional; zero means unknown and bypasses the noise threshold.
type Recording struct {
	Filename string
	Data     []byte
	Duration time.Duration
}

// IVRImportUsecase imports recorded IVR calls: transcription and fact
// extraction are delegated to the external collaborators, extracted facts
// merge into the customer record, and the rest becomes a memory note.
type IVRImportUsecase interface {
	ImportRecordings(ctx context.Context, recordings []Recording, progress Progress) (*Summary, error)
}
