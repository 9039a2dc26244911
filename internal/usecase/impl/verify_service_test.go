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

// verifyFixtures holds all test dependencies for reconciliation tests.
type verifyFixtures struct {
	service      usecase.VerifyUsecase
	transactions *fakeTransactionRepo
	orders       *fakeOrderRepo
}

func createTestVerifyService(t *testing.T) verifyFixtures {
	t.Helper()
	transactions := &fakeTransactionRepo{assignErr: make(map[int64]error)}
	orders := newFakeOrderRepo()
	svc := NewVerifyService(transactions, orders, newDiscardLogger())

	return verifyFixtures{service: svc, transactions: transactions, orders: orders}
}

func seedOrder(t *testing.T, orders *fakeOrderRepo, receiptID string, total float64, orderType entity.OrderType) uuid.UUID {
	t.Helper()
	orderID := uuid.New()
	require.NoError(t, orders.CreateBatch(context.Background(), []*entity.Order{{
		OrderID:     orderID,
		ReceiptID:   receiptID,
		TotalAmount: total,
		OrderType:   orderType,
	}}))

	return orderID
}

func TestVerifyService_AmountWithinTolerance(t *testing.T) {
	fx := createTestVerifyService(t)
	created := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	orderID := seedOrder(t, fx.orders, "R-1_05_03_2024", 100, entity.OrderTypeDineIn)
	fx.transactions.transactions = []*entity.Transaction{
		{ID: 1, CreatedAt: created, POSReceiptID: "R-1", BillTotal: 109},
	}

	result, err := fx.service.VerifyTransactions(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Matched)
	assert.Zero(t, result.Problematic)
	assert.Empty(t, result.Issues)
	require.NotNil(t, fx.transactions.transactions[0].OrderID)
	assert.Equal(t, orderID, *fx.transactions.transactions[0].OrderID)
}

func TestVerifyService_AmountMismatchFlaggedButLinked(t *testing.T) {
	fx := createTestVerifyService(t)
	created := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	seedOrder(t, fx.orders, "R-1_05_03_2024", 100, entity.OrderTypeDineIn)
	fx.transactions.transactions = []*entity.Transaction{
		{ID: 1, CreatedAt: created, POSReceiptID: "R-1", BillTotal: 111},
	}

	result, err := fx.service.VerifyTransactions(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Matched)
	assert.Equal(t, 1, result.Problematic)
	require.Len(t, result.Issues, 1)
	assert.Contains(t, result.Issues[0], "Amount mismatch")
	// The mismatch only flags; the link stays.
	assert.NotNil(t, fx.transactions.transactions[0].OrderID)
}

func TestVerifyService_BothZeroAmountsAccepted(t *testing.T) {
	fx := createTestVerifyService(t)
	created := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	seedOrder(t, fx.orders, "R-1_05_03_2024", 0, entity.OrderTypeDineIn)
	fx.transactions.transactions = []*entity.Transaction{
		{ID: 1, CreatedAt: created, POSReceiptID: "R-1", BillTotal: 0},
	}

	result, err := fx.service.VerifyTransactions(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Matched)
	assert.Zero(t, result.Problematic)
}

func TestVerifyService_NoMatchingOrder(t *testing.T) {
	fx := createTestVerifyService(t)
	fx.transactions.transactions = []*entity.Transaction{
		{ID: 1, CreatedAt: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), POSReceiptID: "R-404", BillTotal: 50},
	}

	result, err := fx.service.VerifyTransactions(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, result.Matched)
	assert.Equal(t, 1, result.Problematic)
	require.Len(t, result.Issues, 1)
	assert.Contains(t, result.Issues[0], "No matching order")
	assert.Nil(t, fx.transactions.transactions[0].OrderID)
}

func TestVerifyService_UpdateFailureIsProblematic(t *testing.T) {
	fx := createTestVerifyService(t)
	created := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	seedOrder(t, fx.orders, "R-1_05_03_2024", 100, entity.OrderTypeDineIn)
	fx.transactions.transactions = []*entity.Transaction{
		{ID: 1, CreatedAt: created, POSReceiptID: "R-1", BillTotal: 100},
	}
	fx.transactions.assignErr[1] = errors.New("store unavailable")

	result, err := fx.service.VerifyTransactions(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, result.Matched)
	assert.Equal(t, 1, result.Problematic)
	require.Len(t, result.Issues, 1)
	assert.Contains(t, result.Issues[0], "Failed to update")
}

func TestVerifyService_AlreadyLinkedIgnored(t *testing.T) {
	fx := createTestVerifyService(t)
	linked := uuid.New()
	fx.transactions.transactions = []*entity.Transaction{
		{ID: 1, CreatedAt: time.Now(), POSReceiptID: "R-1", OrderID: &linked},
	}

	result, err := fx.service.VerifyTransactions(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, result.Matched)
	assert.Zero(t, result.Problematic)
}

func TestWithinTolerance(t *testing.T) {
	assert.True(t, withinTolerance(100, 109))
	assert.True(t, withinTolerance(100, 110))
	assert.False(t, withinTolerance(100, 111))
	assert.True(t, withinTolerance(0, 0))
	assert.False(t, withinTolerance(0, 5))
	assert.True(t, withinTolerance(109, 100))
}
