package impl

import (
	"context"
	"testing"
	"time"

	"intake/internal/domain/entity"
	"intake/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ivrFixtures holds all test dependencies for IVR import tests.
type ivrFixtures struct {
	service     usecase.IVRImportUsecase
	customers   *fakeCustomerRepo
	transcripts *fakeTranscriptRepo
	memory      *fakeMemoryRepo
	transcriber *fakeTranscriber
	facts       *fakeFactExtractor
}

func createTestIVRService(t *testing.T) ivrFixtures {
	t.Helper()
	customers := newFakeCustomerRepo()
	transcripts := newFakeTranscriptRepo()
	memory := &fakeMemoryRepo{}
	transcriber := &fakeTranscriber{texts: make(map[string]string), errs: make(map[string]error)}
	facts := &fakeFactExtractor{facts: make(map[string]map[string]string), errs: make(map[string]error)}
	svc := NewIVRService(customers, transcripts, memory, transcriber, facts,
		newTestNormalizer(), 10*time.Second, newDiscardLogger())

	return ivrFixtures{
		service:     svc,
		customers:   customers,
		transcripts: transcripts,
		memory:      memory,
		transcriber: transcriber,
		facts:       facts,
	}
}

const ivrFilename = "call_20240305_01712345678.mp3"

func TestIVRService_ImportRecordings_CreatesCustomerAndTranscript(t *testing.T) {
	fx := createTestIVRService(t)
	fx.transcriber.texts[ivrFilename] = "Hello, this is Alice calling about catering."
	fx.facts.facts["Hello, this is Alice calling about catering."] = map[string]string{
		"name":      "Alice Rahman",
		"sentiment": "positive",
		"category":  "catering inquiry",
		"occasion":  "office party",
	}

	summary, err := fx.service.ImportRecordings(context.Background(), []usecase.Recording{
		{Filename: ivrFilename, Data: []byte("audio"), Duration: 42 * time.Second},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Processed)

	customer := fx.customers.mustGet(t, "+8801712345678")
	assert.Equal(t, "Alice Rahman", customer.Name)

	require.Len(t, fx.transcripts.transcripts, 1)
	transcript := fx.transcripts.transcripts[0]
	assert.Equal(t, customer.CustomerID, transcript.CustomerID)
	assert.Equal(t, "positive", transcript.Sentiment)
	assert.Equal(t, ivrFilename, transcript.Recording)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), transcript.DateRecording)

	// Leftover facts become one memory note, in stable key order.
	require.Len(t, fx.memory.entries, 1)
	entry := fx.memory.entries[0]
	assert.Equal(t, "category: catering inquiry, occasion: office party", entry.Content)
	assert.Equal(t, entity.MemorySourceTranscript, entry.Source)
}

func TestIVRService_ImportRecordings_MergesFactsIntoExisting(t *testing.T) {
	fx := createTestIVRService(t)
	existing := &entity.Customer{
		CustomerID:  uuid.New(),
		PhoneNumber: "+8801712345678",
		Name:        "Alice",
	}
	require.NoError(t, fx.customers.CreateBatch(context.Background(), []*entity.Customer{existing}))

	fx.transcriber.texts[ivrFilename] = "transcript"
	fx.facts.facts["transcript"] = map[string]string{
		"name":         "Someone Else",
		"company_name": "Acme Ltd",
		"sentiment":    "neutral",
	}

	_, err := fx.service.ImportRecordings(context.Background(), []usecase.Recording{
		{Filename: ivrFilename, Data: []byte("audio")},
	}, nil)
	require.NoError(t, err)

	customer := fx.customers.mustGet(t, "+8801712345678")
	assert.Equal(t, "Alice", customer.Name, "transcript facts must not clobber a stored name")
	assert.Equal(t, "Acme Ltd", customer.CompanyName)
	require.Len(t, fx.transcripts.transcripts, 1)
	assert.Equal(t, existing.CustomerID, fx.transcripts.transcripts[0].CustomerID)
}

func TestIVRService_ImportRecordings_UnusableEmailFactDropped(t *testing.T) {
	fx := createTestIVRService(t)
	fx.transcriber.texts[ivrFilename] = "caller left a bad email"
	fx.facts.facts["caller left a bad email"] = map[string]string{
		"name":      "Alice Rahman",
		"email":     "not-an-email",
		"sentiment": "neutral",
	}

	_, err := fx.service.ImportRecordings(context.Background(), []usecase.Recording{
		{Filename: ivrFilename, Data: []byte("audio")},
	}, nil)
	require.NoError(t, err)

	customer := fx.customers.mustGet(t, "+8801712345678")
	assert.Equal(t, "Alice Rahman", customer.Name)
	assert.Empty(t, customer.Email)
}

func TestIVRService_ImportRecordings_SkipsMissingTokens(t *testing.T) {
	fx := createTestIVRService(t)

	summary, err := fx.service.ImportRecordings(context.Background(), []usecase.Recording{
		{Filename: "voicemail.mp3", Data: []byte("audio")},
		{Filename: "call_20240305.mp3", Data: []byte("audio")}, // No phone token.
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Skipped)
	assert.Zero(t, summary.Processed)
	assert.Empty(t, fx.transcripts.transcripts)
}

func TestIVRService_ImportRecordings_SkipsShortRecordings(t *testing.T) {
	fx := createTestIVRService(t)

	summary, err := fx.service.ImportRecordings(context.Background(), []usecase.Recording{
		{Filename: ivrFilename, Data: []byte("audio"), Duration: 3 * time.Second},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Skipped)
	assert.Empty(t, fx.transcripts.transcripts)
}

func TestIVRService_ImportRecordings_SkipsAlreadyProcessed(t *testing.T) {
	fx := createTestIVRService(t)
	fx.transcripts.processed[ivrFilename] = struct{}{}

	summary, err := fx.service.ImportRecordings(context.Background(), []usecase.Recording{
		{Filename: ivrFilename, Data: []byte("audio")},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Skipped)
	assert.Len(t, fx.transcripts.transcripts, 0)
}

func TestIVRService_ImportRecordings_TranscriptionFailureIsPerItem(t *testing.T) {
	fx := createTestIVRService(t)
	fx.transcriber.errs[ivrFilename] = errors.New("stt timeout")

	other := "call_20240306_01898765432.wav"
	fx.transcriber.texts[other] = "short chat"
	fx.facts.facts["short chat"] = map[string]string{"sentiment": "neutral"}

	summary, err := fx.service.ImportRecordings(context.Background(), []usecase.Recording{
		{Filename: ivrFilename, Data: []byte("a")},
		{Filename: other, Data: []byte("b")},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Processed)
	require.Len(t, fx.transcripts.transcripts, 1)
	assert.Equal(t, other, fx.transcripts.transcripts[0].Recording)
}
