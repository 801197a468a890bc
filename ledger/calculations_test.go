package ledger_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fruitport/export-ledger/ledger"
)

// =============================================================================
// FINANCIAL TOTALS
// =============================================================================

func TestSupplierBalance(t *testing.T) {
	assert.True(t, ledger.SupplierBalance(dec("500"), dec("200")).Equal(dec("300")))

	// Overpaid suppliers carry a negative balance; nothing clamps it.
	assert.True(t, ledger.SupplierBalance(dec("100"), dec("150")).Equal(dec("-50")))
}

func TestContainerTotalValue(t *testing.T) {
	c := ledger.Container{
		Suppliers: []ledger.ContainerSupplier{
			{Amount: dec("120.50")},
			{Amount: dec("79.50")},
		},
	}
	assert.True(t, ledger.ContainerTotalValue(c).Equal(dec("200")))

	assert.True(t, ledger.ContainerTotalValue(ledger.Container{}).IsZero())
}

func TestTotalPendingPayments_OnlyOutstandingStatuses(t *testing.T) {
	// GIVEN: One pending, one partially paid, one fully paid transaction
	// WHEN: Summing pending payments
	// THEN: Only the first two remaining balances count

	txs := []ledger.Transaction{
		{Status: ledger.StatusPending, RemainingBalance: dec("100")},
		{Status: ledger.StatusPartiallyPaid, RemainingBalance: dec("40")},
		{Status: ledger.StatusFullyPaid, RemainingBalance: decimal.Zero},
	}

	assert.True(t, ledger.TotalPendingPayments(txs).Equal(dec("140")))
}

func TestTotalOwedFor_FiltersBySupplier(t *testing.T) {
	txs := []ledger.Transaction{
		{SupplierID: "a", Amount: dec("100")},
		{SupplierID: "b", Amount: dec("50")},
		{SupplierID: "a", Amount: dec("25")},
	}

	assert.True(t, ledger.TotalOwedFor(txs, "a").Equal(dec("125")))
	assert.True(t, ledger.TotalOwedFor(txs, "b").Equal(dec("50")))
	assert.True(t, ledger.TotalOwedFor(txs, "missing").IsZero())
}

func TestCalculations_Idempotent(t *testing.T) {
	// Derived values may be recomputed any number of times without drift.
	txs := []ledger.Transaction{
		{SupplierID: "a", Amount: dec("100"), Status: ledger.StatusPending, RemainingBalance: dec("100")},
	}
	first := ledger.TotalPendingPayments(txs)
	second := ledger.TotalPendingPayments(txs)
	assert.True(t, first.Equal(second))
}

// =============================================================================
// INVENTORY
// =============================================================================

func TestLowStockItems_StrictlyBelowMinimum(t *testing.T) {
	// GIVEN: Items below, at, and above their minimum
	// WHEN: Filtering for low stock
	// THEN: Only the strictly-below item qualifies

	items := []ledger.PackagingItem{
		{ID: "below", Quantity: 4, MinQuantity: 5},
		{ID: "at", Quantity: 5, MinQuantity: 5},
		{ID: "above", Quantity: 6, MinQuantity: 5},
	}

	low := ledger.LowStockItems(items)

	require.Len(t, low, 1)
	assert.Equal(t, ledger.PackagingItemID("below"), low[0].ID)

	assert.True(t, items[0].IsLowStock())
	assert.False(t, items[1].IsLowStock(), "quantity equal to minimum is not low stock")
	assert.False(t, items[2].IsLowStock())
}

// =============================================================================
// EXPENSES AND DASHBOARD
// =============================================================================

func TestMonthlyExpenseTotal(t *testing.T) {
	expenses := []ledger.Expense{
		{Amount: dec("100"), Date: day(2026, time.July, 1)},
		{Amount: dec("50"), Date: day(2026, time.July, 31)},
		{Amount: dec("999"), Date: day(2026, time.August, 1)},
		{Amount: dec("999"), Date: day(2025, time.July, 15)}, // same month, other year
	}

	assert.True(t, ledger.MonthlyExpenseTotal(expenses, 2026, time.July).Equal(dec("150")))
	assert.True(t, ledger.MonthlyExpenseTotal(expenses, 2026, time.June).IsZero())
}

func TestComputeDashboardStats(t *testing.T) {
	// GIVEN: A small bookkeeping state across all collections
	// WHEN: Computing the dashboard snapshot for a 3-month window
	// THEN: Every aggregate matches its calculator, oldest month first

	suppliers := []ledger.Supplier{
		{ID: "a", TotalPaid: dec("100")},
		{ID: "b", TotalPaid: dec("60")},
	}
	txs := []ledger.Transaction{
		{Status: ledger.StatusPending, RemainingBalance: dec("75")},
	}
	containers := []ledger.Container{
		{Status: ledger.ContainerPreparing},
		{Status: ledger.ContainerPreparing},
		{Status: ledger.ContainerDelivered},
	}
	items := []ledger.PackagingItem{
		{Quantity: 1, MinQuantity: 10},
	}
	expenses := []ledger.Expense{
		{Amount: dec("30"), Date: day(2026, time.June, 10)},
		{Amount: dec("20"), Date: day(2026, time.August, 2)},
	}

	stats := ledger.ComputeDashboardStats(suppliers, txs, containers, items, expenses,
		day(2026, time.August, 15), 3)

	assert.Equal(t, 2, stats.SupplierCount)
	assert.Equal(t, 2, stats.ContainerCounts[ledger.ContainerPreparing])
	assert.Equal(t, 1, stats.ContainerCounts[ledger.ContainerDelivered])
	assert.True(t, stats.TotalPendingPayments.Equal(dec("75")))
	assert.True(t, stats.TotalPaid.Equal(dec("160")))
	assert.Equal(t, 1, stats.LowStockCount)

	require.Len(t, stats.MonthlyExpenses, 3)
	assert.Equal(t, time.June, stats.MonthlyExpenses[0].Month)
	assert.True(t, stats.MonthlyExpenses[0].Total.Equal(dec("30")))
	assert.True(t, stats.MonthlyExpenses[1].Total.IsZero())
	assert.Equal(t, time.August, stats.MonthlyExpenses[2].Month)
	assert.True(t, stats.MonthlyExpenses[2].Total.Equal(dec("20")))
}

// =============================================================================
// STATUS DERIVATION
// =============================================================================

func TestStatusForBalance(t *testing.T) {
	amount := dec("100")

	assert.Equal(t, ledger.StatusFullyPaid, ledger.StatusForBalance(decimal.Zero, amount))
	assert.Equal(t, ledger.StatusPending, ledger.StatusForBalance(amount, amount))
	assert.Equal(t, ledger.StatusPartiallyPaid, ledger.StatusForBalance(dec("40"), amount))
}
