// Package impl contains the application-specific business rules implementations.
package impl

import (
	"context"
	"log/slog"

	"intake/internal/domain/entity"
	domainerrors "intake/internal/domain/errors"
	"intake/internal/domain/repository"
	"intake/internal/domain/service"
	"intake/internal/usecase"
)

// cardService implements the CardImportUsecase interface.
type cardService struct {
	resolver  *entityResolver
	extractor service.CardExtractor
	phones    *service.PhoneNormalizer
	logger    *slog.Logger
}

// NewCardService is the constructor for cardService.
func NewCardService(
	customers repository.CustomerRepository,
	extractor service.CardExtractor,
	phones *service.PhoneNormalizer,
	logger *slog.Logger,
) usecase.CardImportUsecase {
	return &cardService{
		resolver:  newEntityResolver(customers, logger),
		extractor: extractor,
		phones:    phones,
		logger:    logger,
	}
}

// ImportCards reduces each card image to structured fields, merges cards by
// canonical phone client-side, then runs a single batched customer
// resolve/insert/update pass. Extraction failures and unusable phones are
// per-item: the run continues with the remaining cards.
func (srv *cardService) ImportCards(ctx context.Context, cards []usecase.CardImage, progress usecase.Progress) (*usecase.Summary, error) {
	summary := &usecase.Summary{}

	candidates := make([]*entity.Customer, 0, len(cards))
	for _, card := range cards {
		fields, err := srv.extractor.ExtractCard(ctx, card.Data)
		if err != nil {
			summary.Failed++
			rowErr := domainerrors.NewRowError(domainerrors.ReasonExtractionFailed, "%s", card.Filename)
			srv.logger.Error("card extraction failed",
				slog.String("reason", rowErr.Error()), slog.String("error", err.Error()))
			progress.Emit("Failed to extract %s: %v", card.Filename, err)

			continue
		}

		phone, ok := srv.phones.Normalize(fields.Phone)
		if !ok {
			summary.Skipped++
			reason := domainerrors.ReasonInvalidPhone
			if fields.Phone == "" {
				reason = domainerrors.ReasonMissingPhone
			}
			rowErr := domainerrors.NewRowError(reason, "%s: %q", card.Filename, fields.Phone)
			srv.logger.Warn("skipping card", slog.String("reason", rowErr.Error()))
			progress.Emit("Skipping %s: no usable phone number", card.Filename)

			continue
		}

		candidates = append(candidates, &entity.Customer{
			PhoneNumber: phone,
			Name:        fields.Name,
			Email:       fields.Email,
			Address:     fields.Address,
			CompanyName: fields.CompanyName,
		})
		summary.Processed++
		progress.Emit("Extracted %s -> %s", card.Filename, phone)
	}

	res, err := srv.resolver.Resolve(ctx, candidates)
	if err != nil {
		return nil, err
	}
	if err := srv.resolver.Apply(ctx, res); err != nil {
		return nil, err
	}

	progress.Emit("Customers: %d updated, %d inserted", len(res.Updates), len(res.Inserts))
	progress.Emit("Card import complete: %s", summary)

	return summary, nil
}
