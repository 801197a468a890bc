// Package store provides repository implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/fruitport/export-ledger/ledger"
)

// =============================================================================
// MEMORY STORE - In-memory implementation of every repository
// =============================================================================

// Memory implements all ledger repository interfaces with mutex-guarded maps.
// This is the authoritative store for a local single-user session and the
// store used by tests. List results are sorted by insertion order so reads
// are deterministic.
type Memory struct {
	mu sync.RWMutex

	seq          int
	order        map[string]int // id -> insertion sequence, all collections
	suppliers    map[ledger.SupplierID]ledger.Supplier
	transactions map[ledger.TransactionID]ledger.Transaction
	invoices     map[ledger.InvoiceID]ledger.Invoice
	containers   map[ledger.ContainerID]ledger.Container
	supplies     map[ledger.SupplyID]ledger.Supply
	packaging    map[ledger.PackagingItemID]ledger.PackagingItem
	expenses     map[ledger.ExpenseID]ledger.Expense
}

func NewMemory() *Memory {
	return &Memory{
		order:        make(map[string]int),
		suppliers:    make(map[ledger.SupplierID]ledger.Supplier),
		transactions: make(map[ledger.TransactionID]ledger.Transaction),
		invoices:     make(map[ledger.InvoiceID]ledger.Invoice),
		containers:   make(map[ledger.ContainerID]ledger.Container),
		supplies:     make(map[ledger.SupplyID]ledger.Supply),
		packaging:    make(map[ledger.PackagingItemID]ledger.PackagingItem),
		expenses:     make(map[ledger.ExpenseID]ledger.Expense),
	}
}

// Repositories returns the Memory wired into a ledger.Repositories bundle.
func (m *Memory) Repositories() ledger.Repositories {
	return ledger.Repositories{
		Suppliers:    (*memorySuppliers)(m),
		Transactions: (*memoryTransactions)(m),
		Invoices:     (*memoryInvoices)(m),
		Containers:   (*memoryContainers)(m),
		Supplies:     (*memorySupplies)(m),
		Packaging:    (*memoryPackaging)(m),
		Expenses:     (*memoryExpenses)(m),
	}
}

func (m *Memory) track(id string) {
	if _, ok := m.order[id]; !ok {
		m.seq++
		m.order[id] = m.seq
	}
}

// =============================================================================
// SUPPLIERS
// =============================================================================

type memorySuppliers Memory

func (m *memorySuppliers) Put(_ context.Context, s ledger.Supplier) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	(*Memory)(m).track(string(s.ID))
	m.suppliers[s.ID] = s
	return nil
}

func (m *memorySuppliers) Get(_ context.Context, id ledger.SupplierID) (*ledger.Supplier, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.suppliers[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *memorySuppliers) List(_ context.Context) ([]ledger.Supplier, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]ledger.Supplier, 0, len(m.suppliers))
	for _, s := range m.suppliers {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return m.order[string(out[i].ID)] < m.order[string(out[j].ID)]
	})
	return out, nil
}

func (m *memorySuppliers) Delete(_ context.Context, id ledger.SupplierID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.suppliers, id)
	return nil
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

type memoryTransactions Memory

func (m *memoryTransactions) Put(_ context.Context, t ledger.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	(*Memory)(m).track(string(t.ID))
	m.transactions[t.ID] = t
	return nil
}

func (m *memoryTransactions) Get(_ context.Context, id ledger.TransactionID) (*ledger.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.transactions[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (m *memoryTransactions) List(_ context.Context) ([]ledger.Transaction, error) {
	return m.list(func(ledger.Transaction) bool { return true })
}

func (m *memoryTransactions) ListBySupplier(_ context.Context, supplierID ledger.SupplierID) ([]ledger.Transaction, error) {
	return m.list(func(t ledger.Transaction) bool { return t.SupplierID == supplierID })
}

func (m *memoryTransactions) ListByContainer(_ context.Context, containerID ledger.ContainerID) ([]ledger.Transaction, error) {
	return m.list(func(t ledger.Transaction) bool { return t.ContainerID == containerID })
}

func (m *memoryTransactions) list(keep func(ledger.Transaction) bool) ([]ledger.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []ledger.Transaction
	for _, t := range m.transactions {
		if keep(t) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return m.order[string(out[i].ID)] < m.order[string(out[j].ID)]
	})
	return out, nil
}

func (m *memoryTransactions) Delete(_ context.Context, id ledger.TransactionID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.transactions, id)
	return nil
}

// =============================================================================
// INVOICES (append-only)
// =============================================================================

type memoryInvoices Memory

func (m *memoryInvoices) Append(_ context.Context, inv ledger.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	(*Memory)(m).track(string(inv.ID))
	// Defensive copy of the cleared list: the invoice is immutable once
	// appended, so later mutations of the caller's slice must not show here.
	inv.TransactionsCleared = append([]ledger.ClearedTransaction(nil), inv.TransactionsCleared...)
	m.invoices[inv.ID] = inv
	return nil
}

func (m *memoryInvoices) Get(_ context.Context, id ledger.InvoiceID) (*ledger.Invoice, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	inv, ok := m.invoices[id]
	if !ok {
		return nil, nil
	}
	inv.TransactionsCleared = append([]ledger.ClearedTransaction(nil), inv.TransactionsCleared...)
	return &inv, nil
}

func (m *memoryInvoices) List(_ context.Context) ([]ledger.Invoice, error) {
	return m.list(func(ledger.Invoice) bool { return true })
}

func (m *memoryInvoices) ListBySupplier(_ context.Context, supplierID ledger.SupplierID) ([]ledger.Invoice, error) {
	return m.list(func(inv ledger.Invoice) bool { return inv.SupplierID == supplierID })
}

func (m *memoryInvoices) list(keep func(ledger.Invoice) bool) ([]ledger.Invoice, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []ledger.Invoice
	for _, inv := range m.invoices {
		if keep(inv) {
			inv.TransactionsCleared = append([]ledger.ClearedTransaction(nil), inv.TransactionsCleared...)
			out = append(out, inv)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return m.order[string(out[i].ID)] < m.order[string(out[j].ID)]
	})
	return out, nil
}

// =============================================================================
// CONTAINERS
// =============================================================================

type memoryContainers Memory

func (m *memoryContainers) Put(_ context.Context, c ledger.Container) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	(*Memory)(m).track(string(c.ID))
	c.Suppliers = append([]ledger.ContainerSupplier(nil), c.Suppliers...)
	m.containers[c.ID] = c
	return nil
}

func (m *memoryContainers) Get(_ context.Context, id ledger.ContainerID) (*ledger.Container, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.containers[id]
	if !ok {
		return nil, nil
	}
	c.Suppliers = append([]ledger.ContainerSupplier(nil), c.Suppliers...)
	return &c, nil
}

func (m *memoryContainers) List(_ context.Context) ([]ledger.Container, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]ledger.Container, 0, len(m.containers))
	for _, c := range m.containers {
		c.Suppliers = append([]ledger.ContainerSupplier(nil), c.Suppliers...)
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return m.order[string(out[i].ID)] < m.order[string(out[j].ID)]
	})
	return out, nil
}

func (m *memoryContainers) Delete(_ context.Context, id ledger.ContainerID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.containers, id)
	return nil
}

// =============================================================================
// SUPPLIES
// =============================================================================

type memorySupplies Memory

func (m *memorySupplies) Put(_ context.Context, s ledger.Supply) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	(*Memory)(m).track(string(s.ID))
	m.supplies[s.ID] = s
	return nil
}

func (m *memorySupplies) Get(_ context.Context, id ledger.SupplyID) (*ledger.Supply, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.supplies[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *memorySupplies) List(_ context.Context) ([]ledger.Supply, error) {
	return m.list(func(ledger.Supply) bool { return true })
}

func (m *memorySupplies) ListByContainer(_ context.Context, containerID ledger.ContainerID) ([]ledger.Supply, error) {
	return m.list(func(s ledger.Supply) bool { return s.ContainerID == containerID })
}

func (m *memorySupplies) ListBySupplier(_ context.Context, supplierID ledger.SupplierID) ([]ledger.Supply, error) {
	return m.list(func(s ledger.Supply) bool { return s.SupplierID == supplierID })
}

func (m *memorySupplies) list(keep func(ledger.Supply) bool) ([]ledger.Supply, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []ledger.Supply
	for _, s := range m.supplies {
		if keep(s) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return m.order[string(out[i].ID)] < m.order[string(out[j].ID)]
	})
	return out, nil
}

func (m *memorySupplies) Delete(_ context.Context, id ledger.SupplyID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.supplies, id)
	return nil
}

// =============================================================================
// PACKAGING ITEMS
// =============================================================================

type memoryPackaging Memory

func (m *memoryPackaging) Put(_ context.Context, item ledger.PackagingItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	(*Memory)(m).track(string(item.ID))
	m.packaging[item.ID] = item
	return nil
}

func (m *memoryPackaging) Get(_ context.Context, id ledger.PackagingItemID) (*ledger.PackagingItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	item, ok := m.packaging[id]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (m *memoryPackaging) List(_ context.Context) ([]ledger.PackagingItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]ledger.PackagingItem, 0, len(m.packaging))
	for _, item := range m.packaging {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		return m.order[string(out[i].ID)] < m.order[string(out[j].ID)]
	})
	return out, nil
}

func (m *memoryPackaging) Delete(_ context.Context, id ledger.PackagingItemID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.packaging, id)
	return nil
}

// =============================================================================
// EXPENSES
// =============================================================================

type memoryExpenses Memory

func (m *memoryExpenses) Put(_ context.Context, e ledger.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	(*Memory)(m).track(string(e.ID))
	m.expenses[e.ID] = e
	return nil
}

func (m *memoryExpenses) Get(_ context.Context, id ledger.ExpenseID) (*ledger.Expense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.expenses[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (m *memoryExpenses) List(_ context.Context) ([]ledger.Expense, error) {
	return m.list(func(ledger.Expense) bool { return true })
}

func (m *memoryExpenses) ListBySupplier(_ context.Context, supplierID ledger.SupplierID) ([]ledger.Expense, error) {
	return m.list(func(e ledger.Expense) bool { return e.SupplierID == supplierID })
}

func (m *memoryExpenses) ListByCategory(_ context.Context, category ledger.ExpenseCategory) ([]ledger.Expense, error) {
	return m.list(func(e ledger.Expense) bool { return e.Category == category })
}

func (m *memoryExpenses) list(keep func(ledger.Expense) bool) ([]ledger.Expense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []ledger.Expense
	for _, e := range m.expenses {
		if keep(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return m.order[string(out[i].ID)] < m.order[string(out[j].ID)]
	})
	return out, nil
}

func (m *memoryExpenses) Delete(_ context.Context, id ledger.ExpenseID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.expenses, id)
	return nil
}
