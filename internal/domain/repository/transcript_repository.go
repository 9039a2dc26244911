// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"intake/internal/domain/entity"
)

// TranscriptRepository defines operations for IVR call transcripts.
type TranscriptRepository interface {
	// ProcessedRecordings returns the set of recording filenames that
	// already have a stored transcript. This is the IVR idempotency check.
	ProcessedRecordings(ctx context.Context) (map[string]struct{}, error)

	// CreateBatch persists new transcripts in one batched insert.
	CreateBatch(ctx context.Context, transcripts []*entity.CallTranscript) error
}
