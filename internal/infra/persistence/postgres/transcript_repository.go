package postgres

import (
	"context"

	"intake/internal/domain/entity"
	"intake/internal/domain/repository"
	"intake/internal/errors"
	"intake/internal/infra/persistence/model"
)

// transcriptRepository implements repository.TranscriptRepository through
// the shared Gateway.
type transcriptRepository struct {
	gateway *Gateway
}

// NewTranscriptRepository is the constructor for transcriptRepository.
func NewTranscriptRepository(gateway *Gateway) repository.TranscriptRepository {
	return &transcriptRepository{gateway: gateway}
}

// ProcessedRecordings returns every stored recording filename. The result
// backs the IVR pipeline's idempotency check, so a read failure here must
// propagate: treating it as empty would reprocess everything.
func (repo *transcriptRepository) ProcessedRecordings(ctx context.Context) (map[string]struct{}, error) {
	var recordings []string
	err := repo.gateway.db.WithContext(ctx).
		Table(repo.gateway.ns.Transcripts()).
		Where("recording IS NOT NULL").
		Pluck("recording", &recordings).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list processed recordings")
	}

	processed := make(map[string]struct{}, len(recordings))
	for _, recording := range recordings {
		processed[recording] = struct{}{}
	}

	return processed, nil
}

// CreateBatch inserts new transcripts; write failures propagate.
func (repo *transcriptRepository) CreateBatch(ctx context.Context, transcripts []*entity.CallTranscript) error {
	if len(transcripts) == 0 {
		return nil
	}

	rows := make([]*model.TranscriptModel, 0, len(transcripts))
	for _, transcript := range transcripts {
		rows = append(rows, &model.TranscriptModel{
			CustomerID:    transcript.CustomerID,
			Content:       transcript.Content,
			DateRecording: transcript.DateRecording,
			Sentiment:     transcript.Sentiment,
			Recording:     transcript.Recording,
		})
	}

	for _, batch := range chunked(rows, repo.gateway.batchSize) {
		err := repo.gateway.db.WithContext(ctx).
			Table(repo.gateway.ns.Transcripts()).
			Create(batch).Error
		if err != nil {
			return errors.Wrap(err, "failed to insert transcripts")
		}
	}

	return nil
}
