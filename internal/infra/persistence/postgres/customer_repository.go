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

// customerRepository implements repository.CustomerRepository through the
// shared Gateway.
type customerRepository struct {
	gateway *Gateway
}

// NewCustomerRepository is the constructor for customerRepository.
func NewCustomerRepository(gateway *Gateway) repository.CustomerRepository {
	return &customerRepository{gateway: gateway}
}

// FindByPhones performs the chunked select-in behind entity resolution.
// A failing read chunk is logged and skipped; the remaining chunks are still
// attempted (best effort, continue-on-error for reads).
func (repo *customerRepository) FindByPhones(ctx context.Context, phones []string) (map[string]*entity.Customer, error) {
	found := make(map[string]*entity.Customer, len(phones))

	for _, batch := range chunked(phones, repo.gateway.batchSize) {
		var rows []model.CustomerModel
		err := repo.gateway.db.WithContext(ctx).
			Table(repo.gateway.ns.Customers()).
			Where("phone_number IN ?", batch).
			Find(&rows).Error
		if err != nil {
			repo.gateway.logger.Error("customer lookup batch failed, skipping",
				slog.Int("batchSize", len(batch)), slog.String("error", err.Error()))

			continue
		}

		for i := range rows {
			customer := toCustomerDomain(&rows[i])
			found[customer.PhoneNumber] = customer
		}
	}

	return found, nil
}

// CreateBatch inserts new customers. Write failures propagate: silently
// losing a resolved customer would corrupt every derived record below it.
func (repo *customerRepository) CreateBatch(ctx context.Context, customers []*entity.Customer) error {
	if len(customers) == 0 {
		return nil
	}

	rows := make([]*model.CustomerModel, 0, len(customers))
	for _, customer := range customers {
		rows = append(rows, fromCustomerDomain(customer))
	}

	for _, batch := range chunked(rows, repo.gateway.batchSize) {
		err := repo.gateway.db.WithContext(ctx).
			Table(repo.gateway.ns.Customers()).
			Create(batch).Error
		if err != nil {
			return errors.Wrap(err, "failed to insert customers")
		}
	}

	return nil
}

// UpdateFields applies a sparse update to one customer by opaque ID.
func (repo *customerRepository) UpdateFields(ctx context.Context, customerID uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}

	result := repo.gateway.db.WithContext(ctx).
		Table(repo.gateway.ns.Customers()).
		Where("customer_id = ?", customerID).
		Updates(fields)
	if result.Error != nil {
		return errors.Wrapf(result.Error, "failed to update customer %s", customerID)
	}
	if result.RowsAffected == 0 {
		return repository.ErrCustomerNotFound
	}

	return nil
}

func toCustomerDomain(data *model.CustomerModel) *entity.Customer {
	return &entity.Customer{
		CustomerID:          data.CustomerID,
		PhoneNumber:         data.PhoneNumber,
		Name:                deref(data.Name),
		Email:               deref(data.Email),
		Address:             deref(data.Address),
		CompanyName:         deref(data.CompanyName),
		IsVIP:               data.IsVIP,
		IsReturningCustomer: data.IsReturningCustomer,
	}
}

func fromCustomerDomain(data *entity.Customer) *model.CustomerModel {
	return &model.CustomerModel{
		CustomerID:          data.CustomerID,
		PhoneNumber:         data.PhoneNumber,
		Name:                nullable(data.Name),
		Email:               nullable(data.Email),
		Address:             nullable(data.Address),
		CompanyName:         nullable(data.CompanyName),
		IsVIP:               data.IsVIP,
		IsReturningCustomer: data.IsReturningCustomer,
	}
}

// deref flattens an optional column to the empty string the domain uses for
// "absent".
func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

// nullable stores blanks as NULL so fill-if-blank checks stay meaningful in
// the backing store.
func nullable(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}
