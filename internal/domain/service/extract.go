package service

import "context"

// CardFields is the flat field dictionary a vision extractor reduces one
// business card image to. Missing fields are empty strings.
type CardFields struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	CompanyName string `json:"company_name"`
	Address     string `json:"address"`
}

// CardExtractor turns a business card image into structured fields. The
// extraction itself (OCR, vision model) is an external collaborator.
type CardExtractor interface {
	// ExtractCard reduces raw image bytes to a flat field dictionary.
	ExtractCard(ctx context.Context, image []byte) (*CardFields, error)
}

// Transcriber converts recorded call audio into a transcript string.
type Transcriber interface {
	// Transcribe sends audio bytes to the speech-to-text collaborator.
	// filename is passed through for the collaborator's content sniffing.
	Transcribe(ctx context.Context, filename string, audio []byte) (string, error)
}

// FactExtractor distills a call transcript into a structured fact map with
// arbitrary keys. At minimum "sentiment" is expected; person and company
// fields ("name", "company_name", "address", "email") feed the customer
// merge, and any remaining keys become memory content.
type FactExtractor interface {
	ExtractFacts(ctx context.Context, transcript string) (map[string]string, error)
}
