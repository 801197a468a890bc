/*
repository.go - Persistence interfaces, one per aggregate

PURPOSE:
  Defines the boundary between the Coordinator and storage. Each
  aggregate type has its own owning repository; the Coordinator is the
  only component that touches more than one of them in a single
  operation. Repositories never reach into other collections.

CONTRACT:
  - Put inserts or replaces a whole record (records are small; there is
    no partial write at this layer - typed patches are applied by the
    Coordinator before Put).
  - Get returns (nil, nil) for a missing id; callers turn that into a
    NotFoundError. Storage errors are returned as-is.
  - List returns a snapshot copy the caller may mutate freely.

IMPLEMENTATIONS:
  - ledger/store/memory.go: In-memory (authoritative for a local
    single-user session, and the test store)
  - store/sqlite/sqlite.go: Durable SQLite snapshot of the collections

SEE ALSO:
  - coordinator.go: The only multi-repository writer
*/
package ledger

import "context"

// =============================================================================
// PER-AGGREGATE REPOSITORIES
// =============================================================================

type SupplierRepository interface {
	Put(ctx context.Context, s Supplier) error
	Get(ctx context.Context, id SupplierID) (*Supplier, error)
	List(ctx context.Context) ([]Supplier, error)
	Delete(ctx context.Context, id SupplierID) error
}

type TransactionRepository interface {
	Put(ctx context.Context, t Transaction) error
	Get(ctx context.Context, id TransactionID) (*Transaction, error)
	List(ctx context.Context) ([]Transaction, error)
	ListBySupplier(ctx context.Context, supplierID SupplierID) ([]Transaction, error)
	ListByContainer(ctx context.Context, containerID ContainerID) ([]Transaction, error)
	Delete(ctx context.Context, id TransactionID) error
}

// InvoiceRepository is append-only: invoices record allocation results at
// creation time and are never updated or deleted.
type InvoiceRepository interface {
	Append(ctx context.Context, inv Invoice) error
	Get(ctx context.Context, id InvoiceID) (*Invoice, error)
	List(ctx context.Context) ([]Invoice, error)
	ListBySupplier(ctx context.Context, supplierID SupplierID) ([]Invoice, error)
}

type ContainerRepository interface {
	Put(ctx context.Context, c Container) error
	Get(ctx context.Context, id ContainerID) (*Container, error)
	List(ctx context.Context) ([]Container, error)
	Delete(ctx context.Context, id ContainerID) error
}

type SupplyRepository interface {
	Put(ctx context.Context, s Supply) error
	Get(ctx context.Context, id SupplyID) (*Supply, error)
	List(ctx context.Context) ([]Supply, error)
	ListByContainer(ctx context.Context, containerID ContainerID) ([]Supply, error)
	ListBySupplier(ctx context.Context, supplierID SupplierID) ([]Supply, error)
	Delete(ctx context.Context, id SupplyID) error
}

type PackagingRepository interface {
	Put(ctx context.Context, item PackagingItem) error
	Get(ctx context.Context, id PackagingItemID) (*PackagingItem, error)
	List(ctx context.Context) ([]PackagingItem, error)
	Delete(ctx context.Context, id PackagingItemID) error
}

type ExpenseRepository interface {
	Put(ctx context.Context, e Expense) error
	Get(ctx context.Context, id ExpenseID) (*Expense, error)
	List(ctx context.Context) ([]Expense, error)
	ListBySupplier(ctx context.Context, supplierID SupplierID) ([]Expense, error)
	ListByCategory(ctx context.Context, category ExpenseCategory) ([]Expense, error)
	Delete(ctx context.Context, id ExpenseID) error
}

// Repositories bundles every collection for dependency injection into the
// Coordinator. No hidden globals: whoever constructs the Coordinator decides
// what backs each collection.
type Repositories struct {
	Suppliers    SupplierRepository
	Transactions TransactionRepository
	Invoices     InvoiceRepository
	Containers   ContainerRepository
	Supplies     SupplyRepository
	Packaging    PackagingRepository
	Expenses     ExpenseRepository
}
