/*
coordinator.go - Cross-aggregate consistency coordinator

PURPOSE:
  The Coordinator is the only component allowed to touch more than one
  repository in a single operation. Every mutating operation of the
  system lives here as an explicit orchestration function: creating a
  supply also creates its linked transaction and container entry,
  posting an invoice allocates payment and updates supplier totals,
  and so on. Repositories never mutate each other behind the scenes.

ORDERING DISCIPLINE:
  There is no multi-aggregate transaction. Each operation validates
  every referenced aggregate FIRST (unknown ids abort with a
  NotFoundError before any write), then applies its mutations
  sequentially. A failure partway through a write sequence can still
  leave aggregates inconsistent; putting the failure-prone lookups
  first keeps that window as small as the original design allows.

CONCURRENCY:
  The original system assumed a single user session. Running the core
  behind an HTTP server introduces concurrent callers, so every
  operation is serialized by one write mutex. Reads of single
  collections go straight to the repositories.

SEE ALSO:
  - allocate.go: FIFO allocation used by CreateInvoice
  - calculations.go: Derived totals recomputed after writes
  - repository.go: The injected per-aggregate stores
*/
package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// COORDINATOR
// =============================================================================

// Coordinator orchestrates multi-aggregate operations over injected
// repositories. Construct with NewCoordinator; the zero value is not usable.
type Coordinator struct {
	repos Repositories

	mu    sync.Mutex
	now   func() time.Time
	newID func() string
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithClock overrides the time source (tests).
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// WithIDGenerator overrides id generation (tests).
func WithIDGenerator(gen func() string) Option {
	return func(c *Coordinator) { c.newID = gen }
}

func NewCoordinator(repos Repositories, opts ...Option) *Coordinator {
	c := &Coordinator{
		repos: repos,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Repos exposes the read side: the presentation layer lists collections
// directly, it only mutates through Coordinator operations.
func (c *Coordinator) Repos() Repositories { return c.repos }

// =============================================================================
// SUPPLIER OPERATIONS
// =============================================================================

// NewSupplier is the input for CreateSupplier. Financial fields always start
// at zero; forms never set them.
type NewSupplier struct {
	Name             string
	Contact          string
	Email            string
	Phone            string
	FruitSpecialties []string
}

func (c *Coordinator) CreateSupplier(ctx context.Context, in NewSupplier) (Supplier, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Supplier{
		ID:               SupplierID(c.newID()),
		Name:             in.Name,
		Contact:          in.Contact,
		Email:            in.Email,
		Phone:            in.Phone,
		FruitSpecialties: in.FruitSpecialties,
		TotalOwed:        decimal.Zero,
		TotalPaid:        decimal.Zero,
		Balance:          decimal.Zero,
	}
	if err := c.repos.Suppliers.Put(ctx, s); err != nil {
		return Supplier{}, err
	}
	return s, nil
}

func (c *Coordinator) UpdateSupplier(ctx context.Context, id SupplierID, patch SupplierPatch) (Supplier, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, err := c.repos.Suppliers.Get(ctx, id)
	if err != nil {
		return Supplier{}, err
	}
	if s == nil {
		return Supplier{}, &NotFoundError{Kind: "supplier", ID: string(id)}
	}

	if patch.Name != nil {
		s.Name = *patch.Name
	}
	if patch.Contact != nil {
		s.Contact = *patch.Contact
	}
	if patch.Email != nil {
		s.Email = *patch.Email
	}
	if patch.Phone != nil {
		s.Phone = *patch.Phone
	}
	if patch.FruitSpecialties != nil {
		s.FruitSpecialties = *patch.FruitSpecialties
	}
	s.Balance = SupplierBalance(s.TotalOwed, s.TotalPaid)

	if err := c.repos.Suppliers.Put(ctx, *s); err != nil {
		return Supplier{}, err
	}
	return *s, nil
}

func (c *Coordinator) DeleteSupplier(ctx context.Context, id SupplierID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, err := c.repos.Suppliers.Get(ctx, id)
	if err != nil {
		return err
	}
	if s == nil {
		return &NotFoundError{Kind: "supplier", ID: string(id)}
	}
	return c.repos.Suppliers.Delete(ctx, id)
}

// refreshSupplierOwed recomputes a supplier's totalOwed as the sum of the
// amounts of all its transactions, leaving totalPaid untouched, and refreshes
// the balance. Callers hold the write mutex.
func (c *Coordinator) refreshSupplierOwed(ctx context.Context, supplierID SupplierID) error {
	s, err := c.repos.Suppliers.Get(ctx, supplierID)
	if err != nil {
		return err
	}
	if s == nil {
		// Supplier was deleted out from under its transactions; nothing to
		// refresh. Matches the original store behavior.
		return nil
	}

	txs, err := c.repos.Transactions.ListBySupplier(ctx, supplierID)
	if err != nil {
		return err
	}
	s.TotalOwed = TotalOwedFor(txs, supplierID)
	s.Balance = SupplierBalance(s.TotalOwed, s.TotalPaid)
	return c.repos.Suppliers.Put(ctx, *s)
}

// =============================================================================
// TRANSACTION OPERATIONS
// =============================================================================

// NewTransaction is the input for CreateTransaction.
type NewTransaction struct {
	SupplierID  SupplierID
	FruitType   string
	Quantity    decimal.Decimal
	Amount      decimal.Decimal
	Date        time.Time
	ContainerID ContainerID // optional
}

func (c *Coordinator) CreateTransaction(ctx context.Context, in NewTransaction) (Transaction, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.createTransactionLocked(ctx, in)
}

func (c *Coordinator) createTransactionLocked(ctx context.Context, in NewTransaction) (Transaction, error) {
	s, err := c.repos.Suppliers.Get(ctx, in.SupplierID)
	if err != nil {
		return Transaction{}, err
	}
	if s == nil {
		return Transaction{}, &NotFoundError{Kind: "supplier", ID: string(in.SupplierID)}
	}

	tx := Transaction{
		ID:               TransactionID(c.newID()),
		SupplierID:       in.SupplierID,
		SupplierName:     s.Name,
		FruitType:        in.FruitType,
		Quantity:         in.Quantity,
		Amount:           in.Amount,
		Date:             in.Date,
		ContainerID:      in.ContainerID,
		Status:           StatusPending,
		RemainingBalance: in.Amount,
	}
	if err := c.repos.Transactions.Put(ctx, tx); err != nil {
		return Transaction{}, err
	}
	if err := c.refreshSupplierOwed(ctx, in.SupplierID); err != nil {
		return Transaction{}, err
	}
	return tx, nil
}

func (c *Coordinator) UpdateTransaction(ctx context.Context, id TransactionID, patch TransactionPatch) (Transaction, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.updateTransactionLocked(ctx, id, patch)
}

func (c *Coordinator) updateTransactionLocked(ctx context.Context, id TransactionID, patch TransactionPatch) (Transaction, error) {
	tx, err := c.repos.Transactions.Get(ctx, id)
	if err != nil {
		return Transaction{}, err
	}
	if tx == nil {
		return Transaction{}, &NotFoundError{Kind: "transaction", ID: string(id)}
	}

	amountChanged := patch.Amount != nil && !patch.Amount.Equal(tx.Amount)

	if patch.FruitType != nil {
		tx.FruitType = *patch.FruitType
	}
	if patch.Quantity != nil {
		tx.Quantity = *patch.Quantity
	}
	if patch.Amount != nil {
		tx.Amount = *patch.Amount
	}
	if patch.Date != nil {
		tx.Date = *patch.Date
	}
	if patch.ContainerID != nil {
		tx.ContainerID = *patch.ContainerID
	}
	if patch.RemainingBalance != nil {
		tx.RemainingBalance = *patch.RemainingBalance
	}
	if patch.Status != nil {
		tx.Status = *patch.Status
	}

	if err := c.repos.Transactions.Put(ctx, *tx); err != nil {
		return Transaction{}, err
	}
	if amountChanged {
		if err := c.refreshSupplierOwed(ctx, tx.SupplierID); err != nil {
			return Transaction{}, err
		}
	}
	return *tx, nil
}

func (c *Coordinator) DeleteTransaction(ctx context.Context, id TransactionID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deleteTransactionLocked(ctx, id)
}

func (c *Coordinator) deleteTransactionLocked(ctx context.Context, id TransactionID) error {
	tx, err := c.repos.Transactions.Get(ctx, id)
	if err != nil {
		return err
	}
	if tx == nil {
		return &NotFoundError{Kind: "transaction", ID: string(id)}
	}
	if err := c.repos.Transactions.Delete(ctx, id); err != nil {
		return err
	}
	return c.refreshSupplierOwed(ctx, tx.SupplierID)
}

// =============================================================================
// SUPPLY OPERATIONS
// =============================================================================

// NewSupply is the input for CreateSupply. TotalAmount is derived, never
// provided.
type NewSupply struct {
	Date        time.Time
	ContainerID ContainerID
	SupplierID  SupplierID
	Details     string
	FruitType   string
	Quantity    decimal.Decimal
	Price       decimal.Decimal
}

// CreateSupply records a delivery and fans out: one linked Transaction for
// the supplier (which updates the supplier's totals), one ContainerSupplier
// contribution in the target container, then the Supply itself.
func (c *Coordinator) CreateSupply(ctx context.Context, in NewSupply) (Supply, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Lookups first: both referenced aggregates must exist before anything
	// is written.
	supplier, err := c.repos.Suppliers.Get(ctx, in.SupplierID)
	if err != nil {
		return Supply{}, err
	}
	if supplier == nil {
		return Supply{}, &NotFoundError{Kind: "supplier", ID: string(in.SupplierID)}
	}
	container, err := c.repos.Containers.Get(ctx, in.ContainerID)
	if err != nil {
		return Supply{}, err
	}
	if container == nil {
		return Supply{}, &NotFoundError{Kind: "container", ID: string(in.ContainerID)}
	}

	totalAmount := in.Quantity.Mul(in.Price)

	tx, err := c.createTransactionLocked(ctx, NewTransaction{
		SupplierID:  in.SupplierID,
		FruitType:   in.FruitType,
		Quantity:    in.Quantity,
		Amount:      totalAmount,
		Date:        in.Date,
		ContainerID: in.ContainerID,
	})
	if err != nil {
		return Supply{}, err
	}

	container.Suppliers = append(container.Suppliers, ContainerSupplier{
		SupplierID:    in.SupplierID,
		SupplierName:  supplier.Name,
		FruitType:     in.FruitType,
		Quantity:      in.Quantity,
		TransactionID: tx.ID,
		Amount:        totalAmount,
	})
	container.TotalValue = ContainerTotalValue(*container)
	if err := c.repos.Containers.Put(ctx, *container); err != nil {
		return Supply{}, err
	}

	supply := Supply{
		ID:              SupplyID(c.newID()),
		Date:            in.Date,
		ContainerID:     in.ContainerID,
		ContainerNumber: container.ContainerNumber,
		SupplierID:      in.SupplierID,
		SupplierName:    supplier.Name,
		Details:         in.Details,
		FruitType:       in.FruitType,
		Quantity:        in.Quantity,
		Price:           in.Price,
		TotalAmount:     totalAmount,
		TransactionID:   tx.ID,
	}
	if err := c.repos.Supplies.Put(ctx, supply); err != nil {
		return Supply{}, err
	}
	return supply, nil
}

// UpdateSupply reconciles a supply edit across its linked transaction and
// container entry. The linked transaction's remaining balance is adjusted by
// the DELTA between old and new total amount, clamped to [0, total] - it is
// not re-derived from invoice history. That mirrors the original system and
// can diverge from what a fresh FIFO replay would produce; see DESIGN.md.
func (c *Coordinator) UpdateSupply(ctx context.Context, id SupplyID, patch SupplyPatch) (Supply, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	existing, err := c.repos.Supplies.Get(ctx, id)
	if err != nil {
		return Supply{}, err
	}
	if existing == nil {
		return Supply{}, &NotFoundError{Kind: "supply", ID: string(id)}
	}

	updated := *existing
	if patch.Date != nil {
		updated.Date = *patch.Date
	}
	if patch.Details != nil {
		updated.Details = *patch.Details
	}
	if patch.FruitType != nil {
		updated.FruitType = *patch.FruitType
	}
	if patch.Quantity != nil {
		updated.Quantity = *patch.Quantity
	}
	if patch.Price != nil {
		updated.Price = *patch.Price
	}
	updated.TotalAmount = updated.Quantity.Mul(updated.Price)

	// Resolve referenced aggregates before mutating anything.
	if patch.SupplierID != nil && *patch.SupplierID != existing.SupplierID {
		s, err := c.repos.Suppliers.Get(ctx, *patch.SupplierID)
		if err != nil {
			return Supply{}, err
		}
		if s == nil {
			return Supply{}, &NotFoundError{Kind: "supplier", ID: string(*patch.SupplierID)}
		}
		updated.SupplierID = s.ID
		updated.SupplierName = s.Name
	}
	containerChanged := patch.ContainerID != nil && *patch.ContainerID != existing.ContainerID
	var newContainer *Container
	if containerChanged {
		newContainer, err = c.repos.Containers.Get(ctx, *patch.ContainerID)
		if err != nil {
			return Supply{}, err
		}
		if newContainer == nil {
			return Supply{}, &NotFoundError{Kind: "container", ID: string(*patch.ContainerID)}
		}
		updated.ContainerID = newContainer.ID
		updated.ContainerNumber = newContainer.ContainerNumber
	}

	if err := c.repos.Supplies.Put(ctx, updated); err != nil {
		return Supply{}, err
	}

	// Reconcile the linked transaction, if it still exists.
	if existing.TransactionID != "" {
		tx, err := c.repos.Transactions.Get(ctx, existing.TransactionID)
		if err != nil {
			return Supply{}, err
		}
		if tx != nil {
			diff := updated.TotalAmount.Sub(existing.TotalAmount)
			newRemaining := clampBalance(tx.RemainingBalance.Add(diff), updated.TotalAmount)
			newStatus := StatusForBalance(newRemaining, updated.TotalAmount)

			_, err = c.updateTransactionLocked(ctx, existing.TransactionID, TransactionPatch{
				FruitType:        &updated.FruitType,
				Quantity:         &updated.Quantity,
				Amount:           &updated.TotalAmount,
				Date:             &updated.Date,
				ContainerID:      &updated.ContainerID,
				RemainingBalance: &newRemaining,
				Status:           &newStatus,
			})
			if err != nil {
				return Supply{}, err
			}
		}
	}

	// Reconcile container entries, matched by the linked transaction id.
	if containerChanged {
		old, err := c.repos.Containers.Get(ctx, existing.ContainerID)
		if err != nil {
			return Supply{}, err
		}
		if old != nil && existing.TransactionID != "" {
			old.Suppliers = removeContribution(old.Suppliers, existing.TransactionID)
			old.TotalValue = ContainerTotalValue(*old)
			if err := c.repos.Containers.Put(ctx, *old); err != nil {
				return Supply{}, err
			}
		}
		newContainer.Suppliers = append(newContainer.Suppliers, ContainerSupplier{
			SupplierID:    updated.SupplierID,
			SupplierName:  updated.SupplierName,
			FruitType:     updated.FruitType,
			Quantity:      updated.Quantity,
			TransactionID: existing.TransactionID,
			Amount:        updated.TotalAmount,
		})
		newContainer.TotalValue = ContainerTotalValue(*newContainer)
		if err := c.repos.Containers.Put(ctx, *newContainer); err != nil {
			return Supply{}, err
		}
	} else if existing.TransactionID != "" {
		old, err := c.repos.Containers.Get(ctx, existing.ContainerID)
		if err != nil {
			return Supply{}, err
		}
		if old != nil {
			for i := range old.Suppliers {
				if old.Suppliers[i].TransactionID == existing.TransactionID {
					old.Suppliers[i].SupplierID = updated.SupplierID
					old.Suppliers[i].SupplierName = updated.SupplierName
					old.Suppliers[i].FruitType = updated.FruitType
					old.Suppliers[i].Quantity = updated.Quantity
					old.Suppliers[i].Amount = updated.TotalAmount
				}
			}
			old.TotalValue = ContainerTotalValue(*old)
			if err := c.repos.Containers.Put(ctx, *old); err != nil {
				return Supply{}, err
			}
		}
	}

	return updated, nil
}

// DeleteSupply removes the supply, its container contribution, and its
// linked transaction (which cascades the supplier totalOwed recompute).
func (c *Coordinator) DeleteSupply(ctx context.Context, id SupplyID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	supply, err := c.repos.Supplies.Get(ctx, id)
	if err != nil {
		return err
	}
	if supply == nil {
		return &NotFoundError{Kind: "supply", ID: string(id)}
	}

	if supply.TransactionID != "" {
		container, err := c.repos.Containers.Get(ctx, supply.ContainerID)
		if err != nil {
			return err
		}
		if container != nil {
			container.Suppliers = removeContribution(container.Suppliers, supply.TransactionID)
			container.TotalValue = ContainerTotalValue(*container)
			if err := c.repos.Containers.Put(ctx, *container); err != nil {
				return err
			}
		}

		tx, err := c.repos.Transactions.Get(ctx, supply.TransactionID)
		if err != nil {
			return err
		}
		if tx != nil {
			if err := c.deleteTransactionLocked(ctx, supply.TransactionID); err != nil {
				return err
			}
		}
	}

	return c.repos.Supplies.Delete(ctx, id)
}

func removeContribution(entries []ContainerSupplier, txID TransactionID) []ContainerSupplier {
	kept := entries[:0]
	for _, cs := range entries {
		if cs.TransactionID != txID {
			kept = append(kept, cs)
		}
	}
	return kept
}

// =============================================================================
// INVOICE OPERATIONS
// =============================================================================

// NewInvoice is the input for CreateInvoice.
type NewInvoice struct {
	SupplierID    SupplierID
	Amount        decimal.Decimal
	Date          time.Time
	PaymentMethod string
}

// InvoiceResult is the outcome of CreateInvoice. RemainingPayment > 0 means
// the payment exceeded everything outstanding; the excess is reported to the
// caller but not stored anywhere.
type InvoiceResult struct {
	Invoice          Invoice
	RemainingPayment decimal.Decimal
}

// PreviewInvoice runs the FIFO allocator without committing anything.
func (c *Coordinator) PreviewInvoice(ctx context.Context, supplierID SupplierID, amount decimal.Decimal) (AllocationResult, error) {
	s, err := c.repos.Suppliers.Get(ctx, supplierID)
	if err != nil {
		return AllocationResult{}, err
	}
	if s == nil {
		return AllocationResult{}, &NotFoundError{Kind: "supplier", ID: string(supplierID)}
	}
	txs, err := c.repos.Transactions.ListBySupplier(ctx, supplierID)
	if err != nil {
		return AllocationResult{}, err
	}
	return PreviewAllocation(txs, amount), nil
}

// CreateInvoice posts a payment: FIFO-allocates it over the supplier's
// outstanding transactions, persists the immutable invoice, writes the new
// balances and statuses back to the cleared transactions, bumps the
// supplier's totalPaid, and auto-creates a Supplier Payment expense.
//
// Rejected with ErrNothingToAllocate when the allocation clears zero
// transactions; in that case nothing is written.
func (c *Coordinator) CreateInvoice(ctx context.Context, in NewInvoice) (InvoiceResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	supplier, err := c.repos.Suppliers.Get(ctx, in.SupplierID)
	if err != nil {
		return InvoiceResult{}, err
	}
	if supplier == nil {
		return InvoiceResult{}, &NotFoundError{Kind: "supplier", ID: string(in.SupplierID)}
	}

	txs, err := c.repos.Transactions.ListBySupplier(ctx, in.SupplierID)
	if err != nil {
		return InvoiceResult{}, err
	}

	alloc := AllocatePayment(txs, in.Amount)
	if len(alloc.Cleared) == 0 {
		return InvoiceResult{}, ErrNothingToAllocate
	}

	inv := Invoice{
		ID:                  InvoiceID(c.newID()),
		SupplierID:          in.SupplierID,
		SupplierName:        supplier.Name,
		Amount:              in.Amount,
		Date:                in.Date,
		PaymentMethod:       in.PaymentMethod,
		TransactionsCleared: append([]ClearedTransaction(nil), alloc.Cleared...),
	}
	if err := c.repos.Invoices.Append(ctx, inv); err != nil {
		return InvoiceResult{}, err
	}

	for _, upd := range alloc.Updates {
		tx, err := c.repos.Transactions.Get(ctx, upd.TransactionID)
		if err != nil {
			return InvoiceResult{}, err
		}
		if tx == nil {
			continue
		}
		tx.RemainingBalance = upd.RemainingBalance
		tx.Status = upd.Status
		if err := c.repos.Transactions.Put(ctx, *tx); err != nil {
			return InvoiceResult{}, err
		}
	}

	supplier.TotalPaid = supplier.TotalPaid.Add(in.Amount)
	supplier.Balance = SupplierBalance(supplier.TotalOwed, supplier.TotalPaid)
	if err := c.repos.Suppliers.Put(ctx, *supplier); err != nil {
		return InvoiceResult{}, err
	}

	expense := Expense{
		ID:          ExpenseID(c.newID()),
		Category:    ExpenseSupplierPayment,
		Description: "Payment to " + supplier.Name,
		Amount:      in.Amount,
		Date:        in.Date,
		SupplierID:  in.SupplierID,
		InvoiceID:   inv.ID,
	}
	if err := c.repos.Expenses.Put(ctx, expense); err != nil {
		return InvoiceResult{}, err
	}

	return InvoiceResult{Invoice: inv, RemainingPayment: alloc.RemainingPayment}, nil
}

// =============================================================================
// CONTAINER OPERATIONS
// =============================================================================

// NewContainer is the input for CreateContainer.
type NewContainer struct {
	ContainerNumber string
	Status          ContainerStatus
	Suppliers       []ContainerSupplier
	Consignee       *Consignee
	ShipDate        *time.Time
	DeliveryDate    *time.Time
}

func (c *Coordinator) CreateContainer(ctx context.Context, in NewContainer) (Container, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cont := Container{
		ID:              ContainerID(c.newID()),
		ContainerNumber: in.ContainerNumber,
		Status:          in.Status,
		Suppliers:       in.Suppliers,
		Consignee:       in.Consignee,
		ShipDate:        in.ShipDate,
		DeliveryDate:    in.DeliveryDate,
	}
	cont.TotalValue = ContainerTotalValue(cont)
	if err := c.repos.Containers.Put(ctx, cont); err != nil {
		return Container{}, err
	}
	return cont, nil
}

func (c *Coordinator) UpdateContainer(ctx context.Context, id ContainerID, patch ContainerPatch) (Container, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cont, err := c.repos.Containers.Get(ctx, id)
	if err != nil {
		return Container{}, err
	}
	if cont == nil {
		return Container{}, &NotFoundError{Kind: "container", ID: string(id)}
	}

	if patch.ContainerNumber != nil {
		cont.ContainerNumber = *patch.ContainerNumber
	}
	if patch.Status != nil {
		cont.Status = *patch.Status
	}
	if patch.Suppliers != nil {
		cont.Suppliers = *patch.Suppliers
	}
	if patch.Consignee != nil {
		cont.Consignee = *patch.Consignee
	}
	if patch.ShipDate != nil {
		cont.ShipDate = *patch.ShipDate
	}
	if patch.DeliveryDate != nil {
		cont.DeliveryDate = *patch.DeliveryDate
	}
	cont.TotalValue = ContainerTotalValue(*cont)

	if err := c.repos.Containers.Put(ctx, *cont); err != nil {
		return Container{}, err
	}
	return *cont, nil
}

func (c *Coordinator) DeleteContainer(ctx context.Context, id ContainerID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	cont, err := c.repos.Containers.Get(ctx, id)
	if err != nil {
		return err
	}
	if cont == nil {
		return &NotFoundError{Kind: "container", ID: string(id)}
	}
	return c.repos.Containers.Delete(ctx, id)
}

// =============================================================================
// PACKAGING INVENTORY OPERATIONS
// =============================================================================

// NewPackagingItem is the input for CreatePackagingItem.
type NewPackagingItem struct {
	Name        string
	Category    string
	Quantity    int
	MinQuantity int
	Unit        string
}

func (c *Coordinator) CreatePackagingItem(ctx context.Context, in NewPackagingItem) (PackagingItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item := PackagingItem{
		ID:          PackagingItemID(c.newID()),
		Name:        in.Name,
		Category:    in.Category,
		Quantity:    in.Quantity,
		MinQuantity: in.MinQuantity,
		Unit:        in.Unit,
	}
	if err := c.repos.Packaging.Put(ctx, item); err != nil {
		return PackagingItem{}, err
	}
	return item, nil
}

func (c *Coordinator) UpdatePackagingItem(ctx context.Context, id PackagingItemID, patch PackagingItemPatch) (PackagingItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, err := c.repos.Packaging.Get(ctx, id)
	if err != nil {
		return PackagingItem{}, err
	}
	if item == nil {
		return PackagingItem{}, &NotFoundError{Kind: "packaging item", ID: string(id)}
	}

	if patch.Name != nil {
		item.Name = *patch.Name
	}
	if patch.Category != nil {
		item.Category = *patch.Category
	}
	if patch.Quantity != nil {
		item.Quantity = *patch.Quantity
	}
	if patch.MinQuantity != nil {
		item.MinQuantity = *patch.MinQuantity
	}
	if patch.Unit != nil {
		item.Unit = *patch.Unit
	}

	if err := c.repos.Packaging.Put(ctx, *item); err != nil {
		return PackagingItem{}, err
	}
	return *item, nil
}

func (c *Coordinator) DeletePackagingItem(ctx context.Context, id PackagingItemID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, err := c.repos.Packaging.Get(ctx, id)
	if err != nil {
		return err
	}
	if item == nil {
		return &NotFoundError{Kind: "packaging item", ID: string(id)}
	}
	return c.repos.Packaging.Delete(ctx, id)
}

// Restock adds stock to an item and stamps lastRestocked.
func (c *Coordinator) Restock(ctx context.Context, id PackagingItemID, qty int) (PackagingItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, err := c.repos.Packaging.Get(ctx, id)
	if err != nil {
		return PackagingItem{}, err
	}
	if item == nil {
		return PackagingItem{}, &NotFoundError{Kind: "packaging item", ID: string(id)}
	}

	item.Quantity += qty
	now := c.now()
	item.LastRestocked = &now

	if err := c.repos.Packaging.Put(ctx, *item); err != nil {
		return PackagingItem{}, err
	}
	return *item, nil
}

// =============================================================================
// EXPENSE OPERATIONS
// =============================================================================

// NewExpense is the input for CreateExpense (manually-entered expenses;
// Supplier Payment expenses are auto-created by CreateInvoice).
type NewExpense struct {
	Category    ExpenseCategory
	Description string
	Amount      decimal.Decimal
	Date        time.Time
	SupplierID  SupplierID // optional
}

func (c *Coordinator) CreateExpense(ctx context.Context, in NewExpense) (Expense, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if in.SupplierID != "" {
		s, err := c.repos.Suppliers.Get(ctx, in.SupplierID)
		if err != nil {
			return Expense{}, err
		}
		if s == nil {
			return Expense{}, &NotFoundError{Kind: "supplier", ID: string(in.SupplierID)}
		}
	}

	e := Expense{
		ID:          ExpenseID(c.newID()),
		Category:    in.Category,
		Description: in.Description,
		Amount:      in.Amount,
		Date:        in.Date,
		SupplierID:  in.SupplierID,
	}
	if err := c.repos.Expenses.Put(ctx, e); err != nil {
		return Expense{}, err
	}
	return e, nil
}

func (c *Coordinator) UpdateExpense(ctx context.Context, id ExpenseID, patch ExpensePatch) (Expense, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, err := c.repos.Expenses.Get(ctx, id)
	if err != nil {
		return Expense{}, err
	}
	if e == nil {
		return Expense{}, &NotFoundError{Kind: "expense", ID: string(id)}
	}

	if patch.Category != nil {
		e.Category = *patch.Category
	}
	if patch.Description != nil {
		e.Description = *patch.Description
	}
	if patch.Amount != nil {
		e.Amount = *patch.Amount
	}
	if patch.Date != nil {
		e.Date = *patch.Date
	}
	if patch.SupplierID != nil {
		e.SupplierID = *patch.SupplierID
	}

	if err := c.repos.Expenses.Put(ctx, *e); err != nil {
		return Expense{}, err
	}
	return *e, nil
}

func (c *Coordinator) DeleteExpense(ctx context.Context, id ExpenseID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, err := c.repos.Expenses.Get(ctx, id)
	if err != nil {
		return err
	}
	if e == nil {
		return &NotFoundError{Kind: "expense", ID: string(id)}
	}
	return c.repos.Expenses.Delete(ctx, id)
}
