/*
calculations.go - Derived-value calculator

PURPOSE:
  Pure functions computing every derived total the system renders:
  supplier balance, container value, pending-payment totals, low-stock
  detection, monthly expense totals. Each is idempotent and
  order-independent over its input collection, so the presentation
  layer can call them as often as it likes.

SEE ALSO:
  - coordinator.go: Calls these after every mutation
  - api/handlers.go: Dashboard/report endpoints
*/
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// FINANCIAL TOTALS
// =============================================================================

// SupplierBalance is totalOwed - totalPaid. Not clamped: a supplier that was
// overpaid carries a negative balance.
func SupplierBalance(totalOwed, totalPaid decimal.Decimal) decimal.Decimal {
	return totalOwed.Sub(totalPaid)
}

// ContainerTotalValue sums the amounts of a container's embedded supplier
// contributions.
func ContainerTotalValue(c Container) decimal.Decimal {
	total := decimal.Zero
	for _, cs := range c.Suppliers {
		total = total.Add(cs.Amount)
	}
	return total
}

// TotalPendingPayments sums remaining balances over transactions that still
// owe something (Pending or Partially Paid).
func TotalPendingPayments(transactions []Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range transactions {
		if tx.Status == StatusPending || tx.Status == StatusPartiallyPaid {
			total = total.Add(tx.RemainingBalance)
		}
	}
	return total
}

// TotalOwedFor sums transaction amounts for one supplier. This is the
// authoritative recomputation behind Supplier.TotalOwed.
func TotalOwedFor(transactions []Transaction, supplierID SupplierID) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range transactions {
		if tx.SupplierID == supplierID {
			total = total.Add(tx.Amount)
		}
	}
	return total
}

// =============================================================================
// INVENTORY
// =============================================================================

// LowStockItems returns items strictly below their minimum quantity.
func LowStockItems(items []PackagingItem) []PackagingItem {
	var low []PackagingItem
	for _, item := range items {
		if item.IsLowStock() {
			low = append(low, item)
		}
	}
	return low
}

// =============================================================================
// EXPENSES
// =============================================================================

// MonthlyExpenseTotal sums expenses whose date falls within the given
// calendar month.
func MonthlyExpenseTotal(expenses []Expense, year int, month time.Month) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		if e.Date.Year() == year && e.Date.Month() == month {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// =============================================================================
// DASHBOARD STATS
// =============================================================================

// MonthlyExpensePoint is one month of the expense trend series.
type MonthlyExpensePoint struct {
	Year  int
	Month time.Month
	Total decimal.Decimal
}

// DashboardStats is the aggregate snapshot the reports page renders.
type DashboardStats struct {
	SupplierCount        int
	ContainerCounts      map[ContainerStatus]int
	TotalPendingPayments decimal.Decimal
	TotalPaid            decimal.Decimal
	LowStockCount        int
	MonthlyExpenses      []MonthlyExpensePoint
}

// ComputeDashboardStats assembles the dashboard snapshot. The trend series
// covers the `months` calendar months ending at `now`, oldest first.
func ComputeDashboardStats(
	suppliers []Supplier,
	transactions []Transaction,
	containers []Container,
	items []PackagingItem,
	expenses []Expense,
	now time.Time,
	months int,
) DashboardStats {
	stats := DashboardStats{
		SupplierCount:        len(suppliers),
		ContainerCounts:      make(map[ContainerStatus]int),
		TotalPendingPayments: TotalPendingPayments(transactions),
		TotalPaid:            decimal.Zero,
		LowStockCount:        len(LowStockItems(items)),
	}
	for _, s := range suppliers {
		stats.TotalPaid = stats.TotalPaid.Add(s.TotalPaid)
	}
	for _, c := range containers {
		stats.ContainerCounts[c.Status]++
	}

	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)
	for i := 0; i < months; i++ {
		at := start.AddDate(0, i, 0)
		stats.MonthlyExpenses = append(stats.MonthlyExpenses, MonthlyExpensePoint{
			Year:  at.Year(),
			Month: at.Month(),
			Total: MonthlyExpenseTotal(expenses, at.Year(), at.Month()),
		})
	}
	return stats
}
