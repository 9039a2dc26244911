// Package impl contains the application-specific business rules implementations.
package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"intake/internal/domain/entity"
	domainerrors "intake/internal/domain/errors"
	"intake/internal/domain/repository"
	"intake/internal/domain/service"
	"intake/internal/errors"
	"intake/internal/infra/spreadsheet"
	"intake/internal/usecase"

	"github.com/google/uuid"
)

// Column names of the customer details spreadsheet.
const (
	custColContact     = "Contact Number"
	custColFirstName   = "First Name"
	custColLastName    = "Last Name"
	custColEmail       = "Email"
	custColAddress     = "Address"
	custColCompany     = "Company Name"
	custColReturning   = "Returning"
	custColVIPStatus   = "VIP Status"
	custColDate        = "Date"
	custColReceiptNo   = "Receipt No."
	custColFood        = "Food Review"
	custColService     = "Service"
	custColCleanliness = "Cleanliness"
	custColAtmosphere  = "Atmosphere"
	custColValue       = "Value"
	custColOverall     = "Overall Experience"
	custColHeardFrom   = "Where did they hear from us?"
	custColRemarks     = "Remarks"
)

var customerDateLayouts = []string{
	"Jan/02/2006",
	"2006-01-02",
	"02/01/2006",
}

// customerService implements the CustomerImportUsecase interface.
type customerService struct {
	resolver *entityResolver
	orders   repository.OrderRepository
	feedback repository.FeedbackRepository
	memory   repository.MemoryRepository
	phones   *service.PhoneNormalizer
	logger   *slog.Logger
}

// NewCustomerService is the constructor for customerService.
func NewCustomerService(
	customers repository.CustomerRepository,
	orders repository.OrderRepository,
	feedback repository.FeedbackRepository,
	memory repository.MemoryRepository,
	phones *service.PhoneNormalizer,
	logger *slog.Logger,
) usecase.CustomerImportUsecase {
	return &customerService{
		resolver: newEntityResolver(customers, logger),
		orders:   orders,
		feedback: feedback,
		memory:   memory,
		phones:   phones,
		logger:   logger,
	}
}

// customerRow is one parsed spreadsheet row, keyed by canonical phone.
type customerRow struct {
	phone     string
	candidate entity.Customer
	receiptNo string
	date      time.Time
	hasDate   bool
	feedback  entity.Feedback
	heardFrom string
	remarks   string
}

// ImportFile imports a customer details spreadsheet in dependency order:
// customers first, then the order backfill, feedback and memory notes that
// reference them.
func (srv *customerService) ImportFile(ctx context.Context, path string, progress usecase.Progress) (*usecase.Summary, error) {
	table, err := spreadsheet.ReadFile(path, []string{custColContact, custColFirstName})
	if err != nil {
		return nil, err
	}

	if err := table.RequireColumns("customer",
		custColContact, custColFirstName, custColLastName, custColEmail,
		custColAddress, custColCompany, custColReturning, custColVIPStatus,
		custColDate, custColFood, custColService, custColCleanliness,
		custColAtmosphere, custColValue, custColOverall, custColHeardFrom,
	); err != nil {
		return nil, err
	}

	summary := &usecase.Summary{}
	rows := srv.parseRows(table, summary)
	progress.Emit("Parsed %d usable rows out of %d", len(rows), table.Len())

	res, err := srv.resolveCustomers(ctx, rows)
	if err != nil {
		return nil, err
	}
	progress.Emit("Customers: %d updated, %d inserted", len(res.Updates), len(res.Inserts))

	if err := srv.backfillOrders(ctx, rows, res, progress); err != nil {
		return nil, err
	}

	if err := srv.upsertFeedback(ctx, rows, res, progress); err != nil {
		return nil, err
	}

	if err := srv.insertMemories(ctx, rows, res, progress); err != nil {
		return nil, err
	}

	summary.Processed = len(rows)
	progress.Emit("Customer import complete: %s", summary)

	return summary, nil
}

// parseRows normalizes and coerces every spreadsheet row. Rows without a
// usable phone number are skipped at customer level; phone is the mandatory
// resolution key for everything this pipeline writes.
func (srv *customerService) parseRows(table *spreadsheet.Table, summary *usecase.Summary) []customerRow {
	rows := make([]customerRow, 0, table.Len())

	for i := 0; i < table.Len(); i++ {
		row := table.Row(i)

		rawPhone := row.Get(custColContact)
		phone, ok := srv.phones.Normalize(rawPhone)
		if !ok {
			summary.Skipped++
			reason := domainerrors.ReasonInvalidPhone
			if rawPhone == "" {
				reason = domainerrors.ReasonMissingPhone
			}
			rowErr := domainerrors.NewRowError(reason, "row %d: %q", i+1, rawPhone)
			srv.logger.Warn("skipping row", slog.String("reason", rowErr.Error()))

			continue
		}

		returning := strings.ToLower(row.Get(custColReturning))
		candidate := entity.Customer{
			PhoneNumber:         phone,
			Name:                strings.TrimSpace(row.Get(custColFirstName) + " " + row.Get(custColLastName)),
			Email:               row.Get(custColEmail),
			Address:             row.Get(custColAddress),
			CompanyName:         row.Get(custColCompany),
			IsVIP:               strings.Contains(returning, "vip") || row.Get(custColVIPStatus) == "Yes",
			IsReturningCustomer: strings.Contains(returning, "returning"),
		}

		date, hasDate := parseDate(row.Get(custColDate), customerDateLayouts)

		rows = append(rows, customerRow{
			phone:     phone,
			candidate: candidate,
			receiptNo: row.Get(custColReceiptNo),
			date:      date,
			hasDate:   hasDate,
			feedback: entity.Feedback{
				FoodReview:        service.ConvertRating(row.Get(custColFood)),
				Service:           service.ConvertRating(row.Get(custColService)),
				Cleanliness:       service.ConvertRating(row.Get(custColCleanliness)),
				Atmosphere:        service.ConvertRating(row.Get(custColAtmosphere)),
				Value:             service.ConvertRating(row.Get(custColValue)),
				OverallExperience: service.ConvertRating(row.Get(custColOverall)),
			},
			heardFrom: service.NormalizeFeedbackSource(row.Get(custColHeardFrom)),
			remarks:   row.Get(custColRemarks),
		})
	}

	return rows
}

func (srv *customerService) resolveCustomers(ctx context.Context, rows []customerRow) (*resolution, error) {
	candidates := make([]*entity.Customer, 0, len(rows))
	for i := range rows {
		candidates = append(candidates, &rows[i].candidate)
	}

	res, err := srv.resolver.Resolve(ctx, candidates)
	if err != nil {
		return nil, err
	}
	if err := srv.resolver.Apply(ctx, res); err != nil {
		return nil, err
	}

	return res, nil
}

// backfillOrders links existing orders missing their owning customer to the
// customers this spreadsheet just resolved, matched by composite receipt key.
func (srv *customerService) backfillOrders(ctx context.Context, rows []customerRow, res *resolution, progress usecase.Progress) error {
	receiptIDs := make([]string, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		if row.receiptNo == "" || !row.hasDate {
			continue
		}
		receiptID := service.FormatReceiptID(row.receiptNo, row.date)
		if _, ok := seen[receiptID]; !ok {
			seen[receiptID] = struct{}{}
			receiptIDs = append(receiptIDs, receiptID)
		}
	}
	if len(receiptIDs) == 0 {
		return nil
	}

	existingOrders, err := srv.orders.FindByReceiptIDs(ctx, receiptIDs)
	if err != nil {
		return err
	}

	for _, row := range rows {
		if row.receiptNo == "" || !row.hasDate {
			continue
		}
		receiptID := service.FormatReceiptID(row.receiptNo, row.date)

		order, found := existingOrders[receiptID]
		if !found || order.CustomerID != nil {
			continue
		}
		customerID, ok := res.CustomerID(row.phone)
		if !ok {
			continue
		}

		if err := srv.orders.AssignCustomer(ctx, receiptID, customerID); err != nil {
			return errors.Wrapf(err, "failed to map order %s to customer", receiptID)
		}
		progress.Emit("Mapping order %s to customer %s", receiptID, row.phone)
	}

	return nil
}

// upsertFeedback inserts or updates one feedback row per customer. Empty
// feedback (all ratings unanswered) is not worth persisting. When the same
// customer appears on several rows, the last non-empty row wins.
func (srv *customerService) upsertFeedback(ctx context.Context, rows []customerRow, res *resolution, progress usecase.Progress) error {
	customerIDs := make([]uuid.UUID, 0, len(rows))
	seen := make(map[uuid.UUID]struct{}, len(rows))
	for _, row := range rows {
		if id, ok := res.CustomerID(row.phone); ok {
			if _, dup := seen[id]; !dup {
				seen[id] = struct{}{}
				customerIDs = append(customerIDs, id)
			}
		}
	}

	existing, err := srv.feedback.FindByCustomerIDs(ctx, customerIDs)
	if err != nil {
		return err
	}

	pending := make(map[uuid.UUID]*entity.Feedback)
	var pendingOrder []uuid.UUID
	var updates []*entity.Feedback

	for _, row := range rows {
		customerID, ok := res.CustomerID(row.phone)
		if !ok {
			continue
		}

		feedback := row.feedback
		feedback.CustomerID = customerID
		feedback.HeardAboutUsFrom = row.heardFrom
		if row.hasDate {
			feedback.FeedbackDate = row.date
		} else {
			feedback.FeedbackDate = time.Now()
		}

		if feedback.IsEmpty() {
			rowErr := domainerrors.NewRowError(domainerrors.ReasonEmptyFeedback, "customer %s", customerID)
			srv.logger.Debug("skipping feedback", slog.String("reason", rowErr.Error()))

			continue
		}

		if stored, found := existing[customerID]; found {
			feedback.FeedbackID = stored.FeedbackID
			updates = append(updates, &feedback)
			srv.logger.Info("new feedback for customer", slog.String("customerID", customerID.String()))

			continue
		}

		if prev, queued := pending[customerID]; queued {
			feedback.FeedbackID = prev.FeedbackID
		} else {
			feedback.FeedbackID = uuid.New()
			pendingOrder = append(pendingOrder, customerID)
		}
		entry := feedback
		pending[customerID] = &entry
	}

	inserts := make([]*entity.Feedback, 0, len(pendingOrder))
	for _, customerID := range pendingOrder {
		inserts = append(inserts, pending[customerID])
	}

	if len(inserts) > 0 {
		progress.Emit("Inserting %d new feedback entries", len(inserts))
		if err := srv.feedback.CreateBatch(ctx, inserts); err != nil {
			return errors.Wrap(err, "failed to insert feedback")
		}
	}

	if len(updates) > 0 {
		progress.Emit("Updating %d feedback entries", len(updates))
		for _, feedback := range updates {
			if err := srv.feedback.Update(ctx, feedback); err != nil {
				return errors.Wrapf(err, "failed to update feedback for customer %s", feedback.CustomerID)
			}
		}
	}

	return nil
}

// insertMemories appends one memory note per row with non-empty remarks.
func (srv *customerService) insertMemories(ctx context.Context, rows []customerRow, res *resolution, progress usecase.Progress) error {
	var entries []*entity.MemoryEntry
	for _, row := range rows {
		if row.remarks == "" {
			continue
		}
		customerID, ok := res.CustomerID(row.phone)
		if !ok {
			continue
		}
		entries = append(entries, &entity.MemoryEntry{
			CustomerID: customerID,
			Content:    row.remarks,
			Source:     entity.MemorySourceSpreadsheet,
			CreatedAt:  time.Now(),
		})
	}

	if len(entries) == 0 {
		return nil
	}

	progress.Emit("Inserting %d new memory entries", len(entries))
	if err := srv.memory.CreateBatch(ctx, entries); err != nil {
		return errors.Wrap(err, "failed to insert memory entries")
	}

	return nil
}
