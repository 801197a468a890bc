/*
Package ledger provides the bookkeeping core for a fruit-export operation.

PURPOSE:
  This package contains the domain model and algorithms for tracking
  suppliers, fruit-delivery transactions, payment invoices, shipping
  containers, packaging inventory, and expenses. Payments are applied
  to outstanding deliveries with a FIFO rule, and every derived total
  (supplier balance, container value, remaining balances) is recomputed
  from authoritative fields after each write.

KEY CONCEPTS IN THIS FILE (types.go):
  - Seven top-level aggregates: Supplier, Transaction, Invoice,
    Container, Supply, PackagingItem, Expense
  - Typed IDs to prevent mixing references between aggregates
  - decimal.Decimal for all monetary fields (never float64)

DESIGN PRINCIPLES:
  1. Aggregates cross-reference each other by id only (weak references)
  2. Derived fields (Balance, TotalValue, TotalAmount) are recomputed
     by the Coordinator, never written directly by callers
  3. Invoices are append-only records of allocation results

SEE ALSO:
  - allocate.go: FIFO payment allocation
  - calculations.go: Derived-value calculator
  - coordinator.go: Cross-aggregate orchestration
*/
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type SupplierID string
type TransactionID string
type InvoiceID string
type ContainerID string
type SupplyID string
type PackagingItemID string
type ExpenseID string

// =============================================================================
// STATUSES AND CATEGORIES
// =============================================================================

// TransactionStatus tracks how much of a delivery's amount is still owed.
type TransactionStatus string

const (
	StatusPending       TransactionStatus = "Pending"
	StatusPartiallyPaid TransactionStatus = "Partially Paid"
	StatusFullyPaid     TransactionStatus = "Fully Paid"
)

// StatusForBalance derives a transaction's status from its remaining balance.
// Fully Paid iff remaining == 0; Pending iff remaining == amount; otherwise
// Partially Paid.
func StatusForBalance(remaining, amount decimal.Decimal) TransactionStatus {
	switch {
	case remaining.IsZero():
		return StatusFullyPaid
	case remaining.Equal(amount):
		return StatusPending
	default:
		return StatusPartiallyPaid
	}
}

type ContainerStatus string

const (
	ContainerPreparing ContainerStatus = "Preparing"
	ContainerInTransit ContainerStatus = "In Transit"
	ContainerDelivered ContainerStatus = "Delivered"
)

type ExpenseCategory string

const (
	ExpenseSupplierPayment    ExpenseCategory = "Supplier Payment"
	ExpensePackagingMaterials ExpenseCategory = "Packaging Materials"
	ExpenseShipping           ExpenseCategory = "Shipping"
	ExpenseLabor              ExpenseCategory = "Labor"
	ExpenseOther              ExpenseCategory = "Other"
)

// =============================================================================
// SUPPLIER - A fruit supplier the business owes money to
// =============================================================================

// Supplier carries running financial totals. TotalOwed is the sum of the
// amounts of all its transactions, TotalPaid the sum of its invoice payments,
// and Balance is always TotalOwed - TotalPaid. The Coordinator is the only
// writer of the financial fields; contact fields are patched via
// UpdateSupplier.
type Supplier struct {
	ID               SupplierID
	Name             string
	Contact          string
	Email            string
	Phone            string
	FruitSpecialties []string
	TotalOwed        decimal.Decimal
	TotalPaid        decimal.Decimal
	Balance          decimal.Decimal
}

// =============================================================================
// TRANSACTION - One fruit delivery owed to a supplier
// =============================================================================

// Transaction records one delivery obligation. RemainingBalance starts equal
// to Amount and only decreases as invoice payments are allocated to it,
// floored at zero.
type Transaction struct {
	ID               TransactionID
	SupplierID       SupplierID
	SupplierName     string
	FruitType        string
	Quantity         decimal.Decimal
	Amount           decimal.Decimal
	Date             time.Time
	ContainerID      ContainerID // optional, empty when not tied to a shipment
	Status           TransactionStatus
	RemainingBalance decimal.Decimal
}

// =============================================================================
// INVOICE - Immutable record of one payment event
// =============================================================================

// ClearedTransaction is one line of a FIFO allocation result: how much of the
// payment went to a transaction and what that transaction's balance became.
type ClearedTransaction struct {
	TransactionID    TransactionID
	AmountCleared    decimal.Decimal
	RemainingBalance decimal.Decimal
}

// Invoice is append-only. TransactionsCleared is the allocation result frozen
// at creation time; it never changes even if the underlying transactions are
// later modified by unrelated operations.
type Invoice struct {
	ID                  InvoiceID
	SupplierID          SupplierID
	SupplierName        string
	Amount              decimal.Decimal
	Date                time.Time
	PaymentMethod       string
	TransactionsCleared []ClearedTransaction
}

// =============================================================================
// CONTAINER - A shipment with embedded supplier contributions
// =============================================================================

// ContainerSupplier is a denormalized summary of one supply embedded in its
// container, keyed by the supply's linked transaction id.
type ContainerSupplier struct {
	SupplierID    SupplierID
	SupplierName  string
	FruitType     string
	Quantity      decimal.Decimal
	TransactionID TransactionID
	Amount        decimal.Decimal
}

// Consignee is the receiving party for a container.
type Consignee struct {
	Name           string
	Company        string
	Location       string
	City           string
	Country        string
	Email          string
	Phone          string
	AdditionalInfo string
}

// Container does not own its contributing suppliers; Suppliers is a cached
// summary per contribution. TotalValue is recomputed from it on every
// container mutation.
type Container struct {
	ID              ContainerID
	ContainerNumber string
	Status          ContainerStatus
	Suppliers       []ContainerSupplier
	Consignee       *Consignee
	ShipDate        *time.Time
	DeliveryDate    *time.Time
	TotalValue      decimal.Decimal
}

// =============================================================================
// SUPPLY - One fruit delivery tied to a container and a supplier
// =============================================================================

// Supply spawns exactly one linked Transaction and one ContainerSupplier
// entry when created; the Coordinator keeps all three in lockstep for the
// supply's lifetime. TotalAmount = Quantity * Price.
type Supply struct {
	ID              SupplyID
	Date            time.Time
	ContainerID     ContainerID
	ContainerNumber string
	SupplierID      SupplierID
	SupplierName    string
	Details         string
	FruitType       string
	Quantity        decimal.Decimal
	Price           decimal.Decimal
	TotalAmount     decimal.Decimal
	TransactionID   TransactionID
}

// =============================================================================
// PACKAGING ITEM - Inventory entry for packaging materials
// =============================================================================

type PackagingItem struct {
	ID            PackagingItemID
	Name          string
	Category      string
	Quantity      int
	MinQuantity   int
	Unit          string
	LastRestocked *time.Time
}

// IsLowStock reports whether the item is below its minimum level.
// Quantity equal to MinQuantity is NOT low stock.
func (p PackagingItem) IsLowStock() bool {
	return p.Quantity < p.MinQuantity
}

// =============================================================================
// EXPENSE - Ledger entry, optionally linked to a supplier and invoice
// =============================================================================

type Expense struct {
	ID          ExpenseID
	Category    ExpenseCategory
	Description string
	Amount      decimal.Decimal
	Date        time.Time
	SupplierID  SupplierID // optional
	InvoiceID   InvoiceID  // optional, set for auto-created payment expenses
}

// =============================================================================
// DECIMAL HELPERS
// =============================================================================

func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// clampBalance bounds a remaining balance to [0, amount].
func clampBalance(remaining, amount decimal.Decimal) decimal.Decimal {
	if remaining.IsNegative() {
		return decimal.Zero
	}
	if remaining.GreaterThan(amount) {
		return amount
	}
	return remaining
}
