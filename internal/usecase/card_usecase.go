// Package usecase contains the application-specific business rules.
package usecase

import "context"

// CardImage is one business card handed to the import run.
type CardImage struct {
	Filename string
	Data     []byte
}

// CardImportUsecase imports scanned business cards: each image is reduced to
// a flat field dictionary by the vision collaborator, cards are merged by
// phone client-side, then resolved and written in one batched pass.
type CardImportUsecase interface {
	ImportCards(ctx context.Context, cards []CardImage, progress Progress) (*Summary, error)
}
