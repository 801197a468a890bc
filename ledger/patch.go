/*
patch.go - Typed partial updates

PURPOSE:
  Every update operation takes a patch struct that enumerates exactly
  which fields may change, one struct per Coordinator operation. A nil
  pointer means "leave unchanged". This replaces the original system's
  dynamic merge-anything update objects with a compile-time contract.

SEE ALSO:
  - coordinator.go: Applies these patches
*/
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// SupplierPatch updates contact information. Financial totals are owned by
// the Coordinator and cannot be patched.
type SupplierPatch struct {
	Name             *string
	Contact          *string
	Email            *string
	Phone            *string
	FruitSpecialties *[]string
}

// TransactionPatch updates a delivery record. Changing Amount triggers a
// supplier totalOwed recompute.
type TransactionPatch struct {
	FruitType        *string
	Quantity         *decimal.Decimal
	Amount           *decimal.Decimal
	Date             *time.Time
	ContainerID      *ContainerID
	Status           *TransactionStatus
	RemainingBalance *decimal.Decimal
}

// SupplyPatch updates a supply. Quantity/Price changes recompute TotalAmount
// and ripple into the linked transaction and container entry; a ContainerID
// change moves the contribution between containers.
type SupplyPatch struct {
	Date        *time.Time
	ContainerID *ContainerID
	SupplierID  *SupplierID
	Details     *string
	FruitType   *string
	Quantity    *decimal.Decimal
	Price       *decimal.Decimal
}

// ContainerPatch updates a shipment. Setting Suppliers replaces the whole
// contribution list and recomputes TotalValue.
type ContainerPatch struct {
	ContainerNumber *string
	Status          *ContainerStatus
	Suppliers       *[]ContainerSupplier
	Consignee       **Consignee
	ShipDate        **time.Time
	DeliveryDate    **time.Time
}

// PackagingItemPatch updates an inventory entry. Restocking goes through
// Restock, not this patch.
type PackagingItemPatch struct {
	Name        *string
	Category    *string
	Quantity    *int
	MinQuantity *int
	Unit        *string
}

// ExpensePatch updates a manually-entered expense.
type ExpensePatch struct {
	Category    *ExpenseCategory
	Description *string
	Amount      *decimal.Decimal
	Date        *time.Time
	SupplierID  *SupplierID
}
