package service

import (
	"testing"

	"intake/internal/domain/entity"

	"github.com/stretchr/testify/assert"
)

func TestMergeCustomer_FillsBlanksOnly(t *testing.T) {
	existing := entity.Customer{Name: "Alice"}
	incoming := entity.Customer{Name: "Bob", Email: "x@y.com"}

	merged, changed := MergeCustomer(existing, incoming)
	assert.True(t, changed)
	assert.Equal(t, "Alice", merged.Name, "present values are never overwritten")
	assert.Equal(t, "x@y.com", merged.Email)
}

func TestMergeCustomer_VIPIsMonotonic(t *testing.T) {
	vip := entity.Customer{IsVIP: true}

	merged, changed := MergeCustomer(vip, entity.Customer{IsVIP: false})
	assert.False(t, changed)
	assert.True(t, merged.IsVIP, "once VIP, always VIP")

	promoted, changed := MergeCustomer(entity.Customer{}, entity.Customer{IsVIP: true})
	assert.True(t, changed)
	assert.True(t, promoted.IsVIP)
}

func TestMergeCustomer_RejectsBadEmails(t *testing.T) {
	for _, email := range []string{"-", "--", "---", "not-an-email", ""} {
		merged, changed := MergeCustomer(entity.Customer{}, entity.Customer{Email: email})
		assert.False(t, changed, "email %q", email)
		assert.Empty(t, merged.Email, "email %q", email)
	}
}

func TestMergeCustomer_NoChange(t *testing.T) {
	existing := entity.Customer{Name: "Alice", Email: "a@b.com", IsVIP: true}

	merged, changed := MergeCustomer(existing, existing)
	assert.False(t, changed)
	assert.Equal(t, existing, merged)
}

func TestCustomerUpdates_SparseFieldMap(t *testing.T) {
	existing := entity.Customer{Name: "Alice"}
	incoming := entity.Customer{Name: "Bob", Address: "12 Main Rd", IsVIP: true}

	updates := CustomerUpdates(existing, incoming)
	assert.Equal(t, map[string]any{"address": "12 Main Rd", "is_vip": true}, updates)
}

func TestCustomerUpdates_EmptyWhenNothingChanges(t *testing.T) {
	existing := entity.Customer{Name: "Alice", IsVIP: true}

	assert.Empty(t, CustomerUpdates(existing, entity.Customer{Name: "Bob", IsVIP: true}))
}

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("alice@example.com"))
	assert.False(t, ValidEmail("-"))
	assert.False(t, ValidEmail(""))
	assert.False(t, ValidEmail("no-at-sign"))
	assert.True(t, ValidEmail(" alice@example.com "))
}
