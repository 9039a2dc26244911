package impl

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"intake/internal/domain/entity"
	"intake/internal/domain/repository"
	"intake/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestNormalizer() *service.PhoneNormalizer {
	return service.NewPhoneNormalizer("880", 8, 11)
}

// writeTempCSV drops CSV content into a temp file and returns its path.
func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "import.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

// fakeCustomerRepo is an in-memory repository.CustomerRepository. Customers
// are stored by canonical phone; lookups hand out copies so callers cannot
// mutate the store through a returned pointer.
type fakeCustomerRepo struct {
	byPhone     map[string]*entity.Customer
	updateCalls []map[string]any
	findErr     error
	createErr   error
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{byPhone: make(map[string]*entity.Customer)}
}

func (f *fakeCustomerRepo) FindByPhones(_ context.Context, phones []string) (map[string]*entity.Customer, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	found := make(map[string]*entity.Customer)
	for _, phone := range phones {
		if stored, ok := f.byPhone[phone]; ok {
			copied := *stored
			found[phone] = &copied
		}
	}

	return found, nil
}

func (f *fakeCustomerRepo) CreateBatch(_ context.Context, customers []*entity.Customer) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, customer := range customers {
		copied := *customer
		f.byPhone[customer.PhoneNumber] = &copied
	}

	return nil
}

func (f *fakeCustomerRepo) UpdateFields(_ context.Context, customerID uuid.UUID, fields map[string]any) error {
	for _, stored := range f.byPhone {
		if stored.CustomerID != customerID {
			continue
		}
		if v, ok := fields["name"].(string); ok {
			stored.Name = v
		}
		if v, ok := fields["email"].(string); ok {
			stored.Email = v
		}
		if v, ok := fields["address"].(string); ok {
			stored.Address = v
		}
		if v, ok := fields["company_name"].(string); ok {
			stored.CompanyName = v
		}
		if v, ok := fields["is_vip"].(bool); ok {
			stored.IsVIP = v
		}
		if v, ok := fields["is_returning_customer"].(bool); ok {
			stored.IsReturningCustomer = v
		}
		f.updateCalls = append(f.updateCalls, fields)

		return nil
	}

	return repository.ErrCustomerNotFound
}

func (f *fakeCustomerRepo) mustGet(t *testing.T, phone string) *entity.Customer {
	t.Helper()
	customer, ok := f.byPhone[phone]
	require.True(t, ok, "customer %s not stored", phone)

	return customer
}

// fakeOrderRepo is an in-memory repository.OrderRepository keyed by the
// composite receipt ID.
type fakeOrderRepo struct {
	byReceipt map[string]*entity.Order
	assigns   int
	assignErr error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{byReceipt: make(map[string]*entity.Order)}
}

func (f *fakeOrderRepo) FindByReceiptIDs(_ context.Context, receiptIDs []string) (map[string]*entity.Order, error) {
	found := make(map[string]*entity.Order)
	for _, receiptID := range receiptIDs {
		if stored, ok := f.byReceipt[receiptID]; ok {
			copied := *stored
			found[receiptID] = &copied
		}
	}

	return found, nil
}

func (f *fakeOrderRepo) CreateBatch(_ context.Context, orders []*entity.Order) error {
	for _, order := range orders {
		copied := *order
		f.byReceipt[order.ReceiptID] = &copied
	}

	return nil
}

func (f *fakeOrderRepo) AssignCustomer(_ context.Context, receiptID string, customerID uuid.UUID) error {
	if f.assignErr != nil {
		return f.assignErr
	}
	if stored, ok := f.byReceipt[receiptID]; ok && stored.CustomerID == nil {
		id := customerID
		stored.CustomerID = &id
		f.assigns++
	}

	return nil
}

// fakeFeedbackRepo is an in-memory repository.FeedbackRepository keyed by
// customer ID.
type fakeFeedbackRepo struct {
	byCustomer map[uuid.UUID]*entity.Feedback
	updates    int
}

func newFakeFeedbackRepo() *fakeFeedbackRepo {
	return &fakeFeedbackRepo{byCustomer: make(map[uuid.UUID]*entity.Feedback)}
}

func (f *fakeFeedbackRepo) FindByCustomerIDs(_ context.Context, customerIDs []uuid.UUID) (map[uuid.UUID]*entity.Feedback, error) {
	found := make(map[uuid.UUID]*entity.Feedback)
	for _, customerID := range customerIDs {
		if stored, ok := f.byCustomer[customerID]; ok {
			copied := *stored
			found[customerID] = &copied
		}
	}

	return found, nil
}

func (f *fakeFeedbackRepo) CreateBatch(_ context.Context, feedback []*entity.Feedback) error {
	for _, fb := range feedback {
		copied := *fb
		f.byCustomer[fb.CustomerID] = &copied
	}

	return nil
}

func (f *fakeFeedbackRepo) Update(_ context.Context, feedback *entity.Feedback) error {
	copied := *feedback
	f.byCustomer[feedback.CustomerID] = &copied
	f.updates++

	return nil
}

// fakeMemoryRepo collects appended memory entries.
type fakeMemoryRepo struct {
	entries []*entity.MemoryEntry
}

func (f *fakeMemoryRepo) CreateBatch(_ context.Context, entries []*entity.MemoryEntry) error {
	f.entries = append(f.entries, entries...)

	return nil
}

// fakeTranscriptRepo tracks processed recording filenames and stored
// transcripts.
type fakeTranscriptRepo struct {
	processed   map[string]struct{}
	transcripts []*entity.CallTranscript
}

func newFakeTranscriptRepo() *fakeTranscriptRepo {
	return &fakeTranscriptRepo{processed: make(map[string]struct{})}
}

func (f *fakeTranscriptRepo) ProcessedRecordings(_ context.Context) (map[string]struct{}, error) {
	done := make(map[string]struct{}, len(f.processed))
	for name := range f.processed {
		done[name] = struct{}{}
	}

	return done, nil
}

func (f *fakeTranscriptRepo) CreateBatch(_ context.Context, transcripts []*entity.CallTranscript) error {
	for _, transcript := range transcripts {
		f.transcripts = append(f.transcripts, transcript)
		f.processed[transcript.Recording] = struct{}{}
	}

	return nil
}

// fakeTransactionRepo is an in-memory repository.TransactionRepository.
type fakeTransactionRepo struct {
	transactions []*entity.Transaction
	assignErr    map[int64]error
}

func (f *fakeTransactionRepo) FindUnlinked(_ context.Context) ([]*entity.Transaction, error) {
	var unlinked []*entity.Transaction
	for _, tx := range f.transactions {
		if tx.OrderID == nil {
			copied := *tx
			unlinked = append(unlinked, &copied)
		}
	}

	return unlinked, nil
}

func (f *fakeTransactionRepo) AssignOrder(_ context.Context, transactionID int64, orderID uuid.UUID) error {
	if err := f.assignErr[transactionID]; err != nil {
		return err
	}
	for _, tx := range f.transactions {
		if tx.ID == transactionID && tx.OrderID == nil {
			id := orderID
			tx.OrderID = &id
		}
	}

	return nil
}

// fakeCardExtractor maps image bytes to canned fields.
type fakeCardExtractor struct {
	fields map[string]*service.CardFields
	errs   map[string]error
}

func (f *fakeCardExtractor) ExtractCard(_ context.Context, image []byte) (*service.CardFields, error) {
	if err := f.errs[string(image)]; err != nil {
		return nil, err
	}

	return f.fields[string(image)], nil
}

// fakeTranscriber maps recording filenames to canned transcripts.
type fakeTranscriber struct {
	texts map[string]string
	errs  map[string]error
}

func (f *fakeTranscriber) Transcribe(_ context.Context, filename string, _ []byte) (string, error) {
	if err := f.errs[filename]; err != nil {
		return "", err
	}

	return f.texts[filename], nil
}

// fakeFactExtractor maps transcripts to canned fact dictionaries.
type fakeFactExtractor struct {
	facts map[string]map[string]string
	errs  map[string]error
}

func (f *fakeFactExtractor) ExtractFacts(_ context.Context, transcript string) (map[string]string, error) {
	if err := f.errs[transcript]; err != nil {
		return nil, err
	}

	return f.facts[transcript], nil
}
