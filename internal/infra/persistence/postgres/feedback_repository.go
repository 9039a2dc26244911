package postgres

import (
	"context"
	"log/slog"

	"intake/internal/domain/entity"
	"intake/internal/domain/repository"
	"intake/internal/errors"
	"intake/internal/infra/persistence/model"

	"github.com/google/uuid"
)

// feedbackRepository implements repository.FeedbackRepository through the
// shared Gateway.
type feedbackRepository struct {
	gateway *Gateway
}

// NewFeedbackRepository is the constructor for feedbackRepository.
func NewFeedbackRepository(gateway *Gateway) repository.FeedbackRepository {
	return &feedbackRepository{gateway: gateway}
}

// FindByCustomerIDs retrieves existing feedback rows keyed by customer,
// chunked; failed read chunks are logged and skipped.
func (repo *feedbackRepository) FindByCustomerIDs(ctx context.Context, customerIDs []uuid.UUID) (map[uuid.UUID]*entity.Feedback, error) {
	found := make(map[uuid.UUID]*entity.Feedback, len(customerIDs))

	for _, batch := range chunked(customerIDs, repo.gateway.batchSize) {
		var rows []model.FeedbackModel
		err := repo.gateway.db.WithContext(ctx).
			Table(repo.gateway.ns.Feedback()).
			Where("customer_id IN ?", batch).
			Find(&rows).Error
		if err != nil {
			repo.gateway.logger.Error("feedback lookup batch failed, skipping",
				slog.Int("batchSize", len(batch)), slog.String("error", err.Error()))

			continue
		}

		for i := range rows {
			feedback := toFeedbackDomain(&rows[i])
			found[feedback.CustomerID] = feedback
		}
	}

	return found, nil
}

// CreateBatch inserts new feedback rows; write failures propagate.
func (repo *feedbackRepository) CreateBatch(ctx context.Context, feedback []*entity.Feedback) error {
	if len(feedback) == 0 {
		return nil
	}

	rows := make([]*model.FeedbackModel, 0, len(feedback))
	for _, fb := range feedback {
		rows = append(rows, fromFeedbackDomain(fb))
	}

	for _, batch := range chunked(rows, repo.gateway.batchSize) {
		err := repo.gateway.db.WithContext(ctx).
			Table(repo.gateway.ns.Feedback()).
			Create(batch).Error
		if err != nil {
			return errors.Wrap(err, "failed to insert feedback")
		}
	}

	return nil
}

// Update replaces the stored ratings for an existing feedback row.
func (repo *feedbackRepository) Update(ctx context.Context, feedback *entity.Feedback) error {
	row := fromFeedbackDomain(feedback)
	err := repo.gateway.db.WithContext(ctx).
		Table(repo.gateway.ns.Feedback()).
		Where("feedback_id = ?", feedback.FeedbackID).
		Updates(map[string]any{
			"food_review":                  row.FoodReview,
			"service":                      row.Service,
			"cleanliness":                  row.Cleanliness,
			"atmosphere":                   row.Atmosphere,
			"value":                        row.Value,
			"overall_experience":           row.OverallExperience,
			"where_did_they_hear_about_us": row.HeardAboutUsFrom,
			"feedback_date":                row.FeedbackDate,
		}).Error
	if err != nil {
		return errors.Wrapf(err, "failed to update feedback %s", feedback.FeedbackID)
	}

	return nil
}

func toFeedbackDomain(data *model.FeedbackModel) *entity.Feedback {
	return &entity.Feedback{
		FeedbackID:        data.FeedbackID,
		CustomerID:        data.CustomerID,
		FoodReview:        data.FoodReview,
		Service:           data.Service,
		Cleanliness:       data.Cleanliness,
		Atmosphere:        data.Atmosphere,
		Value:             data.Value,
		OverallExperience: data.OverallExperience,
		HeardAboutUsFrom:  deref(data.HeardAboutUsFrom),
		FeedbackDate:      data.FeedbackDate,
	}
}

func fromFeedbackDomain(data *entity.Feedback) *model.FeedbackModel {
	return &model.FeedbackModel{
		FeedbackID:        data.FeedbackID,
		CustomerID:        data.CustomerID,
		FoodReview:        data.FoodReview,
		Service:           data.Service,
		Cleanliness:       data.Cleanliness,
		Atmosphere:        data.Atmosphere,
		Value:             data.Value,
		OverallExperience: data.OverallExperience,
		HeardAboutUsFrom:  nullable(data.HeardAboutUsFrom),
		FeedbackDate:      data.FeedbackDate,
	}
}

// memoryRepository implements repository.MemoryRepository.
type memoryRepository struct {
	gateway *Gateway
}

// NewMemoryRepository is the constructor for memoryRepository.
func NewMemoryRepository(gateway *Gateway) repository.MemoryRepository {
	return &memoryRepository{gateway: gateway}
}

// CreateBatch appends memory entries; write failures propagate.
func (repo *memoryRepository) CreateBatch(ctx context.Context, entries []*entity.MemoryEntry) error {
	if len(entries) == 0 {
		return nil
	}

	rows := make([]*model.MemoryModel, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, &model.MemoryModel{
			CustomerID: entry.CustomerID,
			Content:    entry.Content,
			Source:     entry.Source,
			CreatedAt:  entry.CreatedAt,
		})
	}

	for _, batch := range chunked(rows, repo.gateway.batchSize) {
		err := repo.gateway.db.WithContext(ctx).
			Table(repo.gateway.ns.Memory()).
			Create(batch).Error
		if err != nil {
			return errors.Wrap(err, "failed to insert memory entries")
		}
	}

	return nil
}
