// Package impl contains the application-specific business rules implementations.
package impl

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"intake/internal/domain/entity"
	domainerrors "intake/internal/domain/errors"
	"intake/internal/domain/repository"
	"intake/internal/domain/service"
	"intake/internal/errors"
	"intake/internal/usecase"
	"intake/internal/util"

	"github.com/google/uuid"
)

// Fixed-width digit tokens encoded in IVR recording filenames.
const (
	ivrDateDigits  = 8  // yyyymmdd
	ivrPhoneDigits = 11 // trunk-prefixed local phone
)

// ivrDateLayout parses the filename date token.
const ivrDateLayout = "20060102"

// Extracted fact keys that merge into the customer record instead of the
// memory note.
var customerFactKeys = map[string]struct{}{
	"name":         {},
	"company_name": {},
	"address":      {},
	"email":        {},
	"phone_number": {},
	"sentiment":    {},
}

// ivrService implements the IVRImportUsecase interface.
type ivrService struct {
	customers   repository.CustomerRepository
	transcripts repository.TranscriptRepository
	memory      repository.MemoryRepository
	transcriber service.Transcriber
	facts       service.FactExtractor
	phones      *service.PhoneNormalizer
	minDuration time.Duration
	logger      *slog.Logger
}

// NewIVRService is the constructor for ivrService. minDuration is the noise
// threshold below which recordings are skipped.
func NewIVRService(
	customers repository.CustomerRepository,
	transcripts repository.TranscriptRepository,
	memory repository.MemoryRepository,
	transcriber service.Transcriber,
	facts service.FactExtractor,
	phones *service.PhoneNormalizer,
	minDuration time.Duration,
	logger *slog.Logger,
) usecase.IVRImportUsecase {
	return &ivrService{
		customers:   customers,
		transcripts: transcripts,
		memory:      memory,
		transcriber: transcriber,
		facts:       facts,
		phones:      phones,
		minDuration: minDuration,
		logger:      logger,
	}
}

// ivrFile is one recording whose filename yielded both tokens.
type ivrFile struct {
	recording usecase.Recording
	date      time.Time
	phone     string // Canonical.
}

// ImportRecordings imports a batch of IVR call recordings. Files whose names
// lack the date or phone token, recordings below the noise threshold, and
// recordings that already have a stored transcript are all skipped; failures
// of the external transcription or extraction collaborators are per-item.
func (srv *ivrService) ImportRecordings(ctx context.Context, recordings []usecase.Recording, progress usecase.Progress) (*usecase.Summary, error) {
	summary := &usecase.Summary{}

	files := srv.screenRecordings(recordings, summary, progress)

	processed, err := srv.transcripts.ProcessedRecordings(ctx)
	if err != nil {
		return nil, err
	}

	phones := make([]string, 0, len(files))
	for _, file := range files {
		phones = append(phones, file.phone)
	}
	known, err := srv.customers.FindByPhones(ctx, phones)
	if err != nil {
		return nil, err
	}

	var transcripts []*entity.CallTranscript
	var memories []*entity.MemoryEntry

	for _, file := range files {
		name := file.recording.Filename

		if _, done := processed[name]; done {
			summary.Skipped++
			rowErr := domainerrors.NewRowError(domainerrors.ReasonAlreadyProcessed, "%s", name)
			srv.logger.Info("skipping recording", slog.String("reason", rowErr.Error()))
			progress.Emit("Skipping already processed file: %s", name)

			continue
		}

		progress.Emit("Processing %s (date: %s, phone: %s)", name, file.date.Format("2006-01-02"), file.phone)

		transcript, err := srv.transcriber.Transcribe(ctx, name, file.recording.Data)
		if err != nil {
			summary.Failed++
			rowErr := domainerrors.NewRowError(domainerrors.ReasonExtractionFailed, "transcription of %s", name)
			srv.logger.Error("transcription failed",
				slog.String("reason", rowErr.Error()), slog.String("error", err.Error()))
			progress.Emit("Error processing %s: %v", name, err)

			continue
		}

		facts, err := srv.facts.ExtractFacts(ctx, transcript)
		if err != nil {
			summary.Failed++
			rowErr := domainerrors.NewRowError(domainerrors.ReasonExtractionFailed, "fact extraction for %s", name)
			srv.logger.Error("fact extraction failed",
				slog.String("reason", rowErr.Error()), slog.String("error", err.Error()))
			progress.Emit("Error processing %s: %v", name, err)

			continue
		}

		customer, err := srv.mergeCustomerFacts(ctx, known, file.phone, facts)
		if err != nil {
			return nil, err
		}

		transcripts = append(transcripts, &entity.CallTranscript{
			CustomerID:    customer.CustomerID,
			Content:       transcript,
			DateRecording: file.date,
			Sentiment:     facts["sentiment"],
			Recording:     name,
		})

		if content := memoryContent(facts); content != "" {
			memories = append(memories, &entity.MemoryEntry{
				CustomerID: customer.CustomerID,
				Content:    content,
				Source:     entity.MemorySourceTranscript,
				CreatedAt:  time.Now(),
			})
		}

		summary.Processed++
		progress.Emit("Processed %s", name)
	}

	if err := srv.transcripts.CreateBatch(ctx, transcripts); err != nil {
		return nil, errors.Wrap(err, "failed to insert transcripts")
	}
	if err := srv.memory.CreateBatch(ctx, memories); err != nil {
		return nil, errors.Wrap(err, "failed to insert memory entries")
	}

	progress.Emit("IVR import complete: %s", summary)

	return summary, nil
}

// screenRecordings drops files lacking filename tokens or below the noise
// threshold before any network round-trip happens.
func (srv *ivrService) screenRecordings(recordings []usecase.Recording, summary *usecase.Summary, progress usecase.Progress) []ivrFile {
	files := make([]ivrFile, 0, len(recordings))

	for _, recording := range recordings {
		name := recording.Filename

		dateToken := util.DigitRun(name, ivrDateDigits)
		phoneToken := util.DigitRun(name, ivrPhoneDigits)
		phone, phoneOK := srv.phones.Normalize(phoneToken)
		date, dateErr := time.Parse(ivrDateLayout, dateToken)
		if dateToken == "" || phoneToken == "" || !phoneOK || dateErr != nil {
			summary.Skipped++
			rowErr := domainerrors.NewRowError(domainerrors.ReasonMissingTokens, "%s", name)
			srv.logger.Warn("skipping recording", slog.String("reason", rowErr.Error()))
			progress.Emit("Skipping %s: couldn't extract valid date or phone", name)

			continue
		}

		// Zero duration means unknown and bypasses the threshold.
		if recording.Duration > 0 && recording.Duration < srv.minDuration {
			summary.Skipped++
			rowErr := domainerrors.NewRowError(domainerrors.ReasonShortRecording, "%s (%s)", name, recording.Duration)
			srv.logger.Info("skipping recording", slog.String("reason", rowErr.Error()))
			progress.Emit("Skipping %s: recording too short", name)

			continue
		}

		files = append(files, ivrFile{recording: recording, date: date, phone: phone})
	}

	return files
}

// mergeCustomerFacts resolves the calling customer by phone, creating a new
// record when unknown, and merges the customer-level extracted facts under
// the standard fill-if-blank policy. known doubles as a cache so repeat calls
// from the same phone within one run see earlier merges.
func (srv *ivrService) mergeCustomerFacts(ctx context.Context, known map[string]*entity.Customer, phone string, facts map[string]string) (*entity.Customer, error) {
	candidate := entity.Customer{
		PhoneNumber: phone,
		Name:        facts["name"],
		Email:       facts["email"],
		Address:     facts["address"],
		CompanyName: facts["company_name"],
	}
	if !service.ValidEmail(candidate.Email) {
		candidate.Email = ""
	}

	existing, found := known[phone]
	if !found {
		insert := candidate
		insert.CustomerID = uuid.New()
		if err := srv.customers.CreateBatch(ctx, []*entity.Customer{&insert}); err != nil {
			return nil, errors.Wrapf(err, "failed to create customer for %s", phone)
		}
		known[phone] = &insert
		srv.logger.Info("created customer from call", slog.String("phone", phone))

		return &insert, nil
	}

	if updates := service.CustomerUpdates(*existing, candidate); len(updates) > 0 {
		if err := srv.customers.UpdateFields(ctx, existing.CustomerID, updates); err != nil {
			return nil, errors.Wrapf(err, "failed to update customer %s", existing.CustomerID)
		}
		merged, _ := service.MergeCustomer(*existing, candidate)
		merged.CustomerID = existing.CustomerID
		*existing = merged
	}

	return existing, nil
}

// memoryContent joins the extracted facts that are not customer fields into
// one "key: value" note, in stable key order.
func memoryContent(facts map[string]string) string {
	keys := make([]string, 0, len(facts))
	for key, value := range facts {
		if _, customerLevel := customerFactKeys[key]; customerLevel || value == "" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+facts[key])
	}

	return strings.Join(parts, ", ")
}
