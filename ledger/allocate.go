/*
allocate.go - FIFO payment allocation

PURPOSE:
  Given a supplier's transaction history and a payment amount, decide
  deterministically which transactions are cleared, by how much, and
  what remains of the payment. Oldest obligation first, each cleared
  fully before the next receives anything.

CONTRACT:
  - Only Pending and Partially Paid transactions are eligible.
  - Eligible transactions are sorted ascending by date; ties keep their
    original relative order (stable sort), so the total order is
    deterministic for any input.
  - Allocation to one transaction is min(payment left, its remaining
    balance); a ClearedTransaction entry is recorded only when the
    allocated amount is positive.
  - Overpayment is never an error: the excess comes back as
    RemainingPayment and the caller decides what to tell the user.
  - Pure function. Safe to call repeatedly as a preview; it never
    mutates its inputs.

SEE ALSO:
  - coordinator.go: CreateInvoice applies an allocation result
  - calculations.go: Derived totals over the same transactions
*/
package ledger

import (
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ALLOCATION RESULT
// =============================================================================

// TransactionUpdate is the post-allocation state the Coordinator writes back
// to one transaction.
type TransactionUpdate struct {
	TransactionID    TransactionID
	RemainingBalance decimal.Decimal
	Status           TransactionStatus
}

// AllocationResult is the outcome of one FIFO run.
type AllocationResult struct {
	Cleared          []ClearedTransaction
	Updates          []TransactionUpdate
	RemainingPayment decimal.Decimal
}

// =============================================================================
// ALLOCATOR
// =============================================================================

// AllocatePayment walks the supplier's outstanding transactions oldest-first
// and allocates the payment until it is exhausted or nothing is left to pay.
//
// A payment <= 0 allocates nothing and is returned unchanged.
func AllocatePayment(transactions []Transaction, payment decimal.Decimal) AllocationResult {
	result := AllocationResult{RemainingPayment: payment}
	if !payment.IsPositive() {
		return result
	}

	eligible := make([]Transaction, 0, len(transactions))
	for _, tx := range transactions {
		if tx.Status == StatusPending || tx.Status == StatusPartiallyPaid {
			eligible = append(eligible, tx)
		}
	}

	// Oldest first. SliceStable preserves insertion order on equal dates.
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].Date.Before(eligible[j].Date)
	})

	for _, tx := range eligible {
		if !result.RemainingPayment.IsPositive() {
			break
		}

		allocated := decimal.Min(result.RemainingPayment, tx.RemainingBalance)
		if !allocated.IsPositive() {
			continue
		}

		newBalance := tx.RemainingBalance.Sub(allocated)
		status := StatusPartiallyPaid
		if newBalance.IsZero() {
			status = StatusFullyPaid
		}

		result.Cleared = append(result.Cleared, ClearedTransaction{
			TransactionID:    tx.ID,
			AmountCleared:    allocated,
			RemainingBalance: newBalance,
		})
		result.Updates = append(result.Updates, TransactionUpdate{
			TransactionID:    tx.ID,
			RemainingBalance: newBalance,
			Status:           status,
		})
		result.RemainingPayment = result.RemainingPayment.Sub(allocated)
	}

	return result
}

// PreviewAllocation runs the same computation without any intent to commit.
// Exposed separately so callers can show the user what an invoice would clear.
func PreviewAllocation(transactions []Transaction, payment decimal.Decimal) AllocationResult {
	return AllocatePayment(transactions, payment)
}
