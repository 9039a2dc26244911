package postgres

import (
	"context"
	"log/slog"

	"intake/internal/domain/repository"
	"intake/internal/errors"

	"github.com/google/uuid"
)

// testSuffix marks the isolated table namespace used for dry-run imports.
const testSuffix = "_testing"

// sentinelCustomerID is the reserved seed row that must survive every reset.
var sentinelCustomerID = uuid.Nil

// Namespace resolves logical table names to either the production tables or
// their "_testing" counterparts. The decision is made once per run.
type Namespace struct {
	testing bool
}

// NewNamespace builds a namespace resolver.
func NewNamespace(testing bool) Namespace {
	return Namespace{testing: testing}
}

// Testing reports whether the namespace points at the test tables.
func (n Namespace) Testing() bool {
	return n.testing
}

func (n Namespace) resolve(logical string) string {
	if n.testing {
		return logical + testSuffix
	}

	return logical
}

func (n Namespace) Customers() string    { return n.resolve("customers") }
func (n Namespace) Orders() string       { return n.resolve("orders") }
func (n Namespace) Feedback() string     { return n.resolve("feedback") }
func (n Namespace) Memory() string       { return n.resolve("memory") }
func (n Namespace) Transcripts() string  { return n.resolve("ivr_transcripts") }
func (n Namespace) Transactions() string { return n.resolve("transactions") }

// maintenance implements repository.Maintenance.
type maintenance struct {
	gateway *Gateway
}

// NewMaintenance is the constructor for the administrative operations.
func NewMaintenance(gateway *Gateway) repository.Maintenance {
	return &maintenance{gateway: gateway}
}

// ResetTestData purges the test-namespace tables only, children before the
// customer/order rows they reference, preserving the sentinel seed row.
func (m *maintenance) ResetTestData(ctx context.Context) error {
	ns := m.gateway.ns
	if !ns.Testing() {
		return errors.New("reset refused: gateway is bound to the production namespace")
	}

	// Dependent rows first, honoring foreign-key direction. Deletes are
	// filtered so the sentinel seed row and its children survive; the
	// transactions table does not reference customers and is cleared whole.
	steps := []struct {
		table string
		where []any
	}{
		{ns.Memory(), []any{"customer_id <> ?", sentinelCustomerID}},
		{ns.Transcripts(), []any{"customer_id <> ?", sentinelCustomerID}},
		{ns.Feedback(), []any{"customer_id <> ?", sentinelCustomerID}},
		{ns.Transactions(), []any{"id IS NOT NULL"}},
		{ns.Orders(), []any{"customer_id IS NULL OR customer_id <> ?", sentinelCustomerID}},
		{ns.Customers(), []any{"customer_id <> ?", sentinelCustomerID}},
	}

	for _, step := range steps {
		err := m.gateway.db.WithContext(ctx).
			Table(step.table).
			Where(step.where[0], step.where[1:]...).
			Delete(nil).Error
		if err != nil {
			return errors.Wrapf(err, "failed to reset table %s", step.table)
		}
		m.gateway.logger.Info("reset table", slog.String("table", step.table))
	}

	return nil
}
