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
// TEST SETUP
// =============================================================================

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// outstandingTx builds a transaction still owing its full amount.
func outstandingTx(id string, date time.Time, amount string) ledger.Transaction {
	return ledger.Transaction{
		ID:               ledger.TransactionID(id),
		SupplierID:       "sup-1",
		Amount:           dec(amount),
		Date:             date,
		Status:           ledger.StatusPending,
		RemainingBalance: dec(amount),
	}
}

// =============================================================================
// FIFO ORDERING
// =============================================================================

func TestAllocatePayment_OldestFirst(t *testing.T) {
	// GIVEN: Three outstanding deliveries dated March, January, February
	// WHEN: Paying enough to clear exactly the two oldest
	// THEN: January and February are cleared in date order; March untouched

	txs := []ledger.Transaction{
		outstandingTx("tx-mar", day(2026, time.March, 5), "100"),
		outstandingTx("tx-jan", day(2026, time.January, 5), "100"),
		outstandingTx("tx-feb", day(2026, time.February, 5), "100"),
	}

	result := ledger.AllocatePayment(txs, dec("200"))

	require.Len(t, result.Cleared, 2)
	assert.Equal(t, ledger.TransactionID("tx-jan"), result.Cleared[0].TransactionID)
	assert.Equal(t, ledger.TransactionID("tx-feb"), result.Cleared[1].TransactionID)
	assert.True(t, result.RemainingPayment.IsZero())
}

func TestAllocatePayment_EqualDates_PreserveInsertionOrder(t *testing.T) {
	// GIVEN: Two deliveries on the same date
	// WHEN: Paying enough for only the first
	// THEN: The one listed first receives the payment (stable order)

	same := day(2026, time.April, 1)
	txs := []ledger.Transaction{
		outstandingTx("tx-a", same, "50"),
		outstandingTx("tx-b", same, "50"),
	}

	result := ledger.AllocatePayment(txs, dec("50"))

	require.Len(t, result.Cleared, 1)
	assert.Equal(t, ledger.TransactionID("tx-a"), result.Cleared[0].TransactionID)
}

func TestAllocatePayment_Deterministic(t *testing.T) {
	// GIVEN: The same inputs
	// WHEN: Allocating twice
	// THEN: Identical results, and the inputs are not mutated

	txs := []ledger.Transaction{
		outstandingTx("tx-1", day(2026, time.January, 1), "75"),
		outstandingTx("tx-2", day(2026, time.January, 2), "25"),
	}

	first := ledger.AllocatePayment(txs, dec("80"))
	second := ledger.AllocatePayment(txs, dec("80"))

	assert.Equal(t, first, second)
	assert.Equal(t, ledger.StatusPending, txs[0].Status, "input must not be mutated")
	assert.True(t, txs[0].RemainingBalance.Equal(dec("75")), "input must not be mutated")
}

// =============================================================================
// PARTIAL AND FULL CLEARING
// =============================================================================

func TestAllocatePayment_PartialPayment_SplitsAcrossOldest(t *testing.T) {
	// GIVEN: Deliveries of 100 and 100
	// WHEN: Paying 150
	// THEN: First fully cleared, second half cleared and Partially Paid

	txs := []ledger.Transaction{
		outstandingTx("tx-1", day(2026, time.January, 1), "100"),
		outstandingTx("tx-2", day(2026, time.February, 1), "100"),
	}

	result := ledger.AllocatePayment(txs, dec("150"))

	require.Len(t, result.Cleared, 2)
	assert.True(t, result.Cleared[0].AmountCleared.Equal(dec("100")))
	assert.True(t, result.Cleared[0].RemainingBalance.IsZero())
	assert.True(t, result.Cleared[1].AmountCleared.Equal(dec("50")))
	assert.True(t, result.Cleared[1].RemainingBalance.Equal(dec("50")))

	require.Len(t, result.Updates, 2)
	assert.Equal(t, ledger.StatusFullyPaid, result.Updates[0].Status)
	assert.Equal(t, ledger.StatusPartiallyPaid, result.Updates[1].Status)
	assert.True(t, result.RemainingPayment.IsZero())
}

func TestAllocatePayment_ResumesPartiallyPaid(t *testing.T) {
	// GIVEN: A delivery of 100 already half paid
	// WHEN: Paying the remaining 50
	// THEN: It is cleared to zero and marked Fully Paid

	tx := outstandingTx("tx-1", day(2026, time.January, 1), "100")
	tx.Status = ledger.StatusPartiallyPaid
	tx.RemainingBalance = dec("50")

	result := ledger.AllocatePayment([]ledger.Transaction{tx}, dec("50"))

	require.Len(t, result.Cleared, 1)
	assert.True(t, result.Cleared[0].AmountCleared.Equal(dec("50")))
	assert.True(t, result.Cleared[0].RemainingBalance.IsZero())
	assert.Equal(t, ledger.StatusFullyPaid, result.Updates[0].Status)
}

func TestAllocatePayment_SkipsFullyPaid(t *testing.T) {
	// GIVEN: An old fully paid delivery and a newer outstanding one
	// WHEN: Allocating a payment
	// THEN: The fully paid delivery receives nothing

	paid := outstandingTx("tx-old", day(2026, time.January, 1), "100")
	paid.Status = ledger.StatusFullyPaid
	paid.RemainingBalance = decimal.Zero

	txs := []ledger.Transaction{
		paid,
		outstandingTx("tx-new", day(2026, time.March, 1), "100"),
	}

	result := ledger.AllocatePayment(txs, dec("100"))

	require.Len(t, result.Cleared, 1)
	assert.Equal(t, ledger.TransactionID("tx-new"), result.Cleared[0].TransactionID)
}

// =============================================================================
// OVERPAYMENT AND DEGENERATE INPUTS
// =============================================================================

func TestAllocatePayment_Overpayment_ReturnsExcess(t *testing.T) {
	// GIVEN: A single delivery of 100
	// WHEN: Paying 130
	// THEN: 100 is allocated and 30 comes back as RemainingPayment

	txs := []ledger.Transaction{
		outstandingTx("tx-1", day(2026, time.January, 1), "100"),
	}

	result := ledger.AllocatePayment(txs, dec("130"))

	require.Len(t, result.Cleared, 1)
	assert.True(t, result.Cleared[0].AmountCleared.Equal(dec("100")))
	assert.True(t, result.RemainingPayment.Equal(dec("30")))
}

func TestAllocatePayment_ZeroOrNegativePayment_AllocatesNothing(t *testing.T) {
	txs := []ledger.Transaction{
		outstandingTx("tx-1", day(2026, time.January, 1), "100"),
	}

	zero := ledger.AllocatePayment(txs, decimal.Zero)
	assert.Empty(t, zero.Cleared)
	assert.True(t, zero.RemainingPayment.IsZero())

	negative := ledger.AllocatePayment(txs, dec("-10"))
	assert.Empty(t, negative.Cleared)
	assert.True(t, negative.RemainingPayment.Equal(dec("-10")))
}

func TestAllocatePayment_NoOutstanding_ReturnsPaymentUntouched(t *testing.T) {
	result := ledger.AllocatePayment(nil, dec("100"))

	assert.Empty(t, result.Cleared)
	assert.Empty(t, result.Updates)
	assert.True(t, result.RemainingPayment.Equal(dec("100")))
}

func TestAllocatePayment_FractionalAmounts(t *testing.T) {
	// GIVEN: Deliveries priced per kilogram with cents
	// WHEN: Paying an amount that splits mid-cent-exact
	// THEN: Decimal arithmetic keeps every balance exact

	txs := []ledger.Transaction{
		outstandingTx("tx-1", day(2026, time.January, 1), "33.33"),
		outstandingTx("tx-2", day(2026, time.January, 2), "66.67"),
	}

	result := ledger.AllocatePayment(txs, dec("50.00"))

	require.Len(t, result.Cleared, 2)
	assert.True(t, result.Cleared[0].AmountCleared.Equal(dec("33.33")))
	assert.True(t, result.Cleared[1].AmountCleared.Equal(dec("16.67")))
	assert.True(t, result.Cleared[1].RemainingBalance.Equal(dec("50.00")))
	assert.True(t, result.RemainingPayment.IsZero())
}

func TestPreviewAllocation_MatchesAllocatePayment(t *testing.T) {
	txs := []ledger.Transaction{
		outstandingTx("tx-1", day(2026, time.January, 1), "100"),
		outstandingTx("tx-2", day(2026, time.February, 1), "100"),
	}

	assert.Equal(t,
		ledger.AllocatePayment(txs, dec("150")),
		ledger.PreviewAllocation(txs, dec("150")),
	)
}
