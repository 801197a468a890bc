/*
Package sqlite provides SQLite-backed implementations of the ledger
repositories.

PURPOSE:
  Durably keeps the seven logical collections (suppliers, transactions,
  invoices, containers, supplies, packaging_items, expenses), one table
  per collection keyed by id, exactly the persisted-state layout the
  presentation layer expects to survive restarts.

NOT A TRANSACTION ENGINE:
  The Coordinator's multi-aggregate operations remain best-effort
  sequential writes; this package only makes each single-record write
  durable. Embedded lists (container contributions, invoice allocation
  lines, consignee) are stored as JSON columns, and monetary values as
  TEXT to keep decimal precision exact.

WAL MODE:
  SQLite is opened with WAL for better crash recovery and so readers
  don't block the single writer.

USAGE:
  st, err := sqlite.New("./books.db")   // or ":memory:"
  if err != nil { ... }
  defer st.Close()
  coord := ledger.NewCoordinator(st.Repositories())

SEE ALSO:
  - ledger/repository.go: Interface definitions
  - ledger/store/memory.go: In-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/fruitport/export-ledger/ledger"
)

// Store implements all ledger repositories over one SQLite database.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (and migrates) the database at dbPath. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Repositories bundles this store's collections for the Coordinator.
func (s *Store) Repositories() ledger.Repositories {
	return ledger.Repositories{
		Suppliers:    &supplierRepo{s},
		Transactions: &transactionRepo{s},
		Invoices:     &invoiceRepo{s},
		Containers:   &containerRepo{s},
		Supplies:     &supplyRepo{s},
		Packaging:    &packagingRepo{s},
		Expenses:     &expenseRepo{s},
	}
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS suppliers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		contact TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		fruit_specialties TEXT NOT NULL DEFAULT '[]',
		total_owed TEXT NOT NULL,
		total_paid TEXT NOT NULL,
		balance TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS transactions (
		id TEXT PRIMARY KEY,
		supplier_id TEXT NOT NULL,
		supplier_name TEXT NOT NULL DEFAULT '',
		fruit_type TEXT NOT NULL DEFAULT '',
		quantity TEXT NOT NULL,
		amount TEXT NOT NULL,
		date TEXT NOT NULL,
		container_id TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		remaining_balance TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_transactions_supplier ON transactions(supplier_id);
	CREATE INDEX IF NOT EXISTS idx_transactions_container ON transactions(container_id);

	CREATE TABLE IF NOT EXISTS invoices (
		id TEXT PRIMARY KEY,
		supplier_id TEXT NOT NULL,
		supplier_name TEXT NOT NULL DEFAULT '',
		amount TEXT NOT NULL,
		date TEXT NOT NULL,
		payment_method TEXT NOT NULL DEFAULT '',
		transactions_cleared TEXT NOT NULL DEFAULT '[]'
	);
	CREATE INDEX IF NOT EXISTS idx_invoices_supplier ON invoices(supplier_id);

	CREATE TABLE IF NOT EXISTS containers (
		id TEXT PRIMARY KEY,
		container_number TEXT NOT NULL,
		status TEXT NOT NULL,
		suppliers_json TEXT NOT NULL DEFAULT '[]',
		consignee_json TEXT,
		ship_date TEXT,
		delivery_date TEXT,
		total_value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS supplies (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		container_id TEXT NOT NULL,
		container_number TEXT NOT NULL DEFAULT '',
		supplier_id TEXT NOT NULL,
		supplier_name TEXT NOT NULL DEFAULT '',
		details TEXT NOT NULL DEFAULT '',
		fruit_type TEXT NOT NULL DEFAULT '',
		quantity TEXT NOT NULL,
		price TEXT NOT NULL,
		total_amount TEXT NOT NULL,
		transaction_id TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_supplies_container ON supplies(container_id);
	CREATE INDEX IF NOT EXISTS idx_supplies_supplier ON supplies(supplier_id);

	CREATE TABLE IF NOT EXISTS packaging_items (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		quantity INTEGER NOT NULL,
		min_quantity INTEGER NOT NULL,
		unit TEXT NOT NULL DEFAULT '',
		last_restocked TEXT
	);

	CREATE TABLE IF NOT EXISTS expenses (
		id TEXT PRIMARY KEY,
		category TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		amount TEXT NOT NULL,
		date TEXT NOT NULL,
		supplier_id TEXT NOT NULL DEFAULT '',
		invoice_id TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_expenses_supplier ON expenses(supplier_id);
	CREATE INDEX IF NOT EXISTS idx_expenses_category ON expenses(category);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Reset clears every collection. Dev/test helper, mirrors the original
// system's "initialize" operations.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, table := range []string{"suppliers", "transactions", "invoices", "containers", "supplies", "packaging_items", "expenses"} {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// SCAN/FORMAT HELPERS
// =============================================================================

func parseDec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func parseDate(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullableDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func scanNullableDate(s sql.NullString) *time.Time {
	if !s.Valid {
		return nil
	}
	t := parseDate(s.String)
	return &t
}

// =============================================================================
// SUPPLIERS
// =============================================================================

type supplierRepo struct{ s *Store }

func (r *supplierRepo) Put(ctx context.Context, sp ledger.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	specialties, err := json.Marshal(sp.FruitSpecialties)
	if err != nil {
		return err
	}
	_, err = r.s.db.ExecContext(ctx, `
		INSERT INTO suppliers (id, name, contact, email, phone, fruit_specialties, total_owed, total_paid, balance)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			contact = excluded.contact,
			email = excluded.email,
			phone = excluded.phone,
			fruit_specialties = excluded.fruit_specialties,
			total_owed = excluded.total_owed,
			total_paid = excluded.total_paid,
			balance = excluded.balance
	`, string(sp.ID), sp.Name, sp.Contact, sp.Email, sp.Phone, string(specialties),
		sp.TotalOwed.String(), sp.TotalPaid.String(), sp.Balance.String())
	return err
}

func (r *supplierRepo) Get(ctx context.Context, id ledger.SupplierID) (*ledger.Supplier, error) {
	rows, err := r.querySuppliers(ctx, selectSuppliers+` WHERE id = ?`, string(id))
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return &rows[0], nil
}

func (r *supplierRepo) List(ctx context.Context) ([]ledger.Supplier, error) {
	return r.querySuppliers(ctx, selectSuppliers+` ORDER BY rowid`)
}

func (r *supplierRepo) Delete(ctx context.Context, id ledger.SupplierID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, err := r.s.db.ExecContext(ctx, `DELETE FROM suppliers WHERE id = ?`, string(id))
	return err
}

const selectSuppliers = `SELECT id, name, contact, email, phone, fruit_specialties, total_owed, total_paid, balance FROM suppliers`

func (r *supplierRepo) querySuppliers(ctx context.Context, query string, args ...any) ([]ledger.Supplier, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.Supplier
	for rows.Next() {
		var sp ledger.Supplier
		var specialties, owed, paid, balance string
		if err := rows.Scan(&sp.ID, &sp.Name, &sp.Contact, &sp.Email, &sp.Phone, &specialties, &owed, &paid, &balance); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(specialties), &sp.FruitSpecialties); err != nil {
			return nil, err
		}
		sp.TotalOwed = parseDec(owed)
		sp.TotalPaid = parseDec(paid)
		sp.Balance = parseDec(balance)
		out = append(out, sp)
	}
	return out, rows.Err()
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

type transactionRepo struct{ s *Store }

func (r *transactionRepo) Put(ctx context.Context, t ledger.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	_, err := r.s.db.ExecContext(ctx, `
		INSERT INTO transactions (id, supplier_id, supplier_name, fruit_type, quantity, amount, date, container_id, status, remaining_balance)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			supplier_id = excluded.supplier_id,
			supplier_name = excluded.supplier_name,
			fruit_type = excluded.fruit_type,
			quantity = excluded.quantity,
			amount = excluded.amount,
			date = excluded.date,
			container_id = excluded.container_id,
			status = excluded.status,
			remaining_balance = excluded.remaining_balance
	`, string(t.ID), string(t.SupplierID), t.SupplierName, t.FruitType,
		t.Quantity.String(), t.Amount.String(), t.Date.UTC().Format(time.RFC3339),
		string(t.ContainerID), string(t.Status), t.RemainingBalance.String())
	return err
}

func (r *transactionRepo) Get(ctx context.Context, id ledger.TransactionID) (*ledger.Transaction, error) {
	rows, err := r.queryTransactions(ctx, selectTransactions+` WHERE id = ?`, string(id))
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return &rows[0], nil
}

func (r *transactionRepo) List(ctx context.Context) ([]ledger.Transaction, error) {
	return r.queryTransactions(ctx, selectTransactions+` ORDER BY rowid`)
}

func (r *transactionRepo) ListBySupplier(ctx context.Context, supplierID ledger.SupplierID) ([]ledger.Transaction, error) {
	return r.queryTransactions(ctx, selectTransactions+` WHERE supplier_id = ? ORDER BY rowid`, string(supplierID))
}

func (r *transactionRepo) ListByContainer(ctx context.Context, containerID ledger.ContainerID) ([]ledger.Transaction, error) {
	return r.queryTransactions(ctx, selectTransactions+` WHERE container_id = ? ORDER BY rowid`, string(containerID))
}

func (r *transactionRepo) Delete(ctx context.Context, id ledger.TransactionID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, err := r.s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, string(id))
	return err
}

const selectTransactions = `SELECT id, supplier_id, supplier_name, fruit_type, quantity, amount, date, container_id, status, remaining_balance FROM transactions`

func (r *transactionRepo) queryTransactions(ctx context.Context, query string, args ...any) ([]ledger.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.Transaction
	for rows.Next() {
		var t ledger.Transaction
		var qty, amount, date, remaining string
		if err := rows.Scan(&t.ID, &t.SupplierID, &t.SupplierName, &t.FruitType, &qty, &amount, &date, &t.ContainerID, &t.Status, &remaining); err != nil {
			return nil, err
		}
		t.Quantity = parseDec(qty)
		t.Amount = parseDec(amount)
		t.Date = parseDate(date)
		t.RemainingBalance = parseDec(remaining)
		out = append(out, t)
	}
	return out, rows.Err()
}

// =============================================================================
// INVOICES (append-only: no UPDATE or DELETE statements exist)
// =============================================================================

type invoiceRepo struct{ s *Store }

// clearedJSON is the stored shape of one allocation line.
type clearedJSON struct {
	TransactionID    string `json:"transaction_id"`
	AmountCleared    string `json:"amount_cleared"`
	RemainingBalance string `json:"remaining_balance"`
}

func (r *invoiceRepo) Append(ctx context.Context, inv ledger.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	lines := make([]clearedJSON, len(inv.TransactionsCleared))
	for i, c := range inv.TransactionsCleared {
		lines[i] = clearedJSON{
			TransactionID:    string(c.TransactionID),
			AmountCleared:    c.AmountCleared.String(),
			RemainingBalance: c.RemainingBalance.String(),
		}
	}
	cleared, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	_, err = r.s.db.ExecContext(ctx, `
		INSERT INTO invoices (id, supplier_id, supplier_name, amount, date, payment_method, transactions_cleared)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, string(inv.ID), string(inv.SupplierID), inv.SupplierName, inv.Amount.String(),
		inv.Date.UTC().Format(time.RFC3339), inv.PaymentMethod, string(cleared))
	return err
}

func (r *invoiceRepo) Get(ctx context.Context, id ledger.InvoiceID) (*ledger.Invoice, error) {
	rows, err := r.queryInvoices(ctx, selectInvoices+` WHERE id = ?`, string(id))
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return &rows[0], nil
}

func (r *invoiceRepo) List(ctx context.Context) ([]ledger.Invoice, error) {
	return r.queryInvoices(ctx, selectInvoices+` ORDER BY rowid`)
}

func (r *invoiceRepo) ListBySupplier(ctx context.Context, supplierID ledger.SupplierID) ([]ledger.Invoice, error) {
	return r.queryInvoices(ctx, selectInvoices+` WHERE supplier_id = ? ORDER BY rowid`, string(supplierID))
}

const selectInvoices = `SELECT id, supplier_id, supplier_name, amount, date, payment_method, transactions_cleared FROM invoices`

func (r *invoiceRepo) queryInvoices(ctx context.Context, query string, args ...any) ([]ledger.Invoice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.Invoice
	for rows.Next() {
		var inv ledger.Invoice
		var amount, date, cleared string
		if err := rows.Scan(&inv.ID, &inv.SupplierID, &inv.SupplierName, &amount, &date, &inv.PaymentMethod, &cleared); err != nil {
			return nil, err
		}
		var lines []clearedJSON
		if err := json.Unmarshal([]byte(cleared), &lines); err != nil {
			return nil, err
		}
		inv.Amount = parseDec(amount)
		inv.Date = parseDate(date)
		inv.TransactionsCleared = make([]ledger.ClearedTransaction, len(lines))
		for i, c := range lines {
			inv.TransactionsCleared[i] = ledger.ClearedTransaction{
				TransactionID:    ledger.TransactionID(c.TransactionID),
				AmountCleared:    parseDec(c.AmountCleared),
				RemainingBalance: parseDec(c.RemainingBalance),
			}
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// =============================================================================
// CONTAINERS
// =============================================================================

type containerRepo struct{ s *Store }

// contributionJSON is the stored shape of one embedded supplier contribution.
type contributionJSON struct {
	SupplierID    string `json:"supplier_id"`
	SupplierName  string `json:"supplier_name"`
	FruitType     string `json:"fruit_type"`
	Quantity      string `json:"quantity"`
	TransactionID string `json:"transaction_id"`
	Amount        string `json:"amount"`
}

func (r *containerRepo) Put(ctx context.Context, c ledger.Container) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	contribs := make([]contributionJSON, len(c.Suppliers))
	for i, cs := range c.Suppliers {
		contribs[i] = contributionJSON{
			SupplierID:    string(cs.SupplierID),
			SupplierName:  cs.SupplierName,
			FruitType:     cs.FruitType,
			Quantity:      cs.Quantity.String(),
			TransactionID: string(cs.TransactionID),
			Amount:        cs.Amount.String(),
		}
	}
	suppliersJSON, err := json.Marshal(contribs)
	if err != nil {
		return err
	}

	var consigneeJSON any
	if c.Consignee != nil {
		b, err := json.Marshal(c.Consignee)
		if err != nil {
			return err
		}
		consigneeJSON = string(b)
	}

	_, err = r.s.db.ExecContext(ctx, `
		INSERT INTO containers (id, container_number, status, suppliers_json, consignee_json, ship_date, delivery_date, total_value)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			container_number = excluded.container_number,
			status = excluded.status,
			suppliers_json = excluded.suppliers_json,
			consignee_json = excluded.consignee_json,
			ship_date = excluded.ship_date,
			delivery_date = excluded.delivery_date,
			total_value = excluded.total_value
	`, string(c.ID), c.ContainerNumber, string(c.Status), string(suppliersJSON), consigneeJSON,
		nullableDate(c.ShipDate), nullableDate(c.DeliveryDate), c.TotalValue.String())
	return err
}

func (r *containerRepo) Get(ctx context.Context, id ledger.ContainerID) (*ledger.Container, error) {
	rows, err := r.queryContainers(ctx, selectContainers+` WHERE id = ?`, string(id))
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return &rows[0], nil
}

func (r *containerRepo) List(ctx context.Context) ([]ledger.Container, error) {
	return r.queryContainers(ctx, selectContainers+` ORDER BY rowid`)
}

func (r *containerRepo) Delete(ctx context.Context, id ledger.ContainerID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, err := r.s.db.ExecContext(ctx, `DELETE FROM containers WHERE id = ?`, string(id))
	return err
}

const selectContainers = `SELECT id, container_number, status, suppliers_json, consignee_json, ship_date, delivery_date, total_value FROM containers`

func (r *containerRepo) queryContainers(ctx context.Context, query string, args ...any) ([]ledger.Container, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.Container
	for rows.Next() {
		var c ledger.Container
		var suppliersJSON, totalValue string
		var consigneeJSON, shipDate, deliveryDate sql.NullString
		if err := rows.Scan(&c.ID, &c.ContainerNumber, &c.Status, &suppliersJSON, &consigneeJSON, &shipDate, &deliveryDate, &totalValue); err != nil {
			return nil, err
		}
		var contribs []contributionJSON
		if err := json.Unmarshal([]byte(suppliersJSON), &contribs); err != nil {
			return nil, err
		}
		c.Suppliers = make([]ledger.ContainerSupplier, len(contribs))
		for i, cs := range contribs {
			c.Suppliers[i] = ledger.ContainerSupplier{
				SupplierID:    ledger.SupplierID(cs.SupplierID),
				SupplierName:  cs.SupplierName,
				FruitType:     cs.FruitType,
				Quantity:      parseDec(cs.Quantity),
				TransactionID: ledger.TransactionID(cs.TransactionID),
				Amount:        parseDec(cs.Amount),
			}
		}
		if consigneeJSON.Valid {
			var consignee ledger.Consignee
			if err := json.Unmarshal([]byte(consigneeJSON.String), &consignee); err != nil {
				return nil, err
			}
			c.Consignee = &consignee
		}
		c.ShipDate = scanNullableDate(shipDate)
		c.DeliveryDate = scanNullableDate(deliveryDate)
		c.TotalValue = parseDec(totalValue)
		out = append(out, c)
	}
	return out, rows.Err()
}

// =============================================================================
// SUPPLIES
// =============================================================================

type supplyRepo struct{ s *Store }

func (r *supplyRepo) Put(ctx context.Context, sp ledger.Supply) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	_, err := r.s.db.ExecContext(ctx, `
		INSERT INTO supplies (id, date, container_id, container_number, supplier_id, supplier_name, details, fruit_type, quantity, price, total_amount, transaction_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date = excluded.date,
			container_id = excluded.container_id,
			container_number = excluded.container_number,
			supplier_id = excluded.supplier_id,
			supplier_name = excluded.supplier_name,
			details = excluded.details,
			fruit_type = excluded.fruit_type,
			quantity = excluded.quantity,
			price = excluded.price,
			total_amount = excluded.total_amount,
			transaction_id = excluded.transaction_id
	`, string(sp.ID), sp.Date.UTC().Format(time.RFC3339), string(sp.ContainerID), sp.ContainerNumber,
		string(sp.SupplierID), sp.SupplierName, sp.Details, sp.FruitType,
		sp.Quantity.String(), sp.Price.String(), sp.TotalAmount.String(), string(sp.TransactionID))
	return err
}

func (r *supplyRepo) Get(ctx context.Context, id ledger.SupplyID) (*ledger.Supply, error) {
	rows, err := r.querySupplies(ctx, selectSupplies+` WHERE id = ?`, string(id))
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return &rows[0], nil
}

func (r *supplyRepo) List(ctx context.Context) ([]ledger.Supply, error) {
	return r.querySupplies(ctx, selectSupplies+` ORDER BY rowid`)
}

func (r *supplyRepo) ListByContainer(ctx context.Context, containerID ledger.ContainerID) ([]ledger.Supply, error) {
	return r.querySupplies(ctx, selectSupplies+` WHERE container_id = ? ORDER BY rowid`, string(containerID))
}

func (r *supplyRepo) ListBySupplier(ctx context.Context, supplierID ledger.SupplierID) ([]ledger.Supply, error) {
	return r.querySupplies(ctx, selectSupplies+` WHERE supplier_id = ? ORDER BY rowid`, string(supplierID))
}

func (r *supplyRepo) Delete(ctx context.Context, id ledger.SupplyID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, err := r.s.db.ExecContext(ctx, `DELETE FROM supplies WHERE id = ?`, string(id))
	return err
}

const selectSupplies = `SELECT id, date, container_id, container_number, supplier_id, supplier_name, details, fruit_type, quantity, price, total_amount, transaction_id FROM supplies`

func (r *supplyRepo) querySupplies(ctx context.Context, query string, args ...any) ([]ledger.Supply, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.Supply
	for rows.Next() {
		var sp ledger.Supply
		var date, qty, price, total string
		if err := rows.Scan(&sp.ID, &date, &sp.ContainerID, &sp.ContainerNumber, &sp.SupplierID, &sp.SupplierName, &sp.Details, &sp.FruitType, &qty, &price, &total, &sp.TransactionID); err != nil {
			return nil, err
		}
		sp.Date = parseDate(date)
		sp.Quantity = parseDec(qty)
		sp.Price = parseDec(price)
		sp.TotalAmount = parseDec(total)
		out = append(out, sp)
	}
	return out, rows.Err()
}

// =============================================================================
// PACKAGING ITEMS
// =============================================================================

type packagingRepo struct{ s *Store }

func (r *packagingRepo) Put(ctx context.Context, item ledger.PackagingItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	_, err := r.s.db.ExecContext(ctx, `
		INSERT INTO packaging_items (id, name, category, quantity, min_quantity, unit, last_restocked)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			category = excluded.category,
			quantity = excluded.quantity,
			min_quantity = excluded.min_quantity,
			unit = excluded.unit,
			last_restocked = excluded.last_restocked
	`, string(item.ID), item.Name, item.Category, item.Quantity, item.MinQuantity, item.Unit,
		nullableDate(item.LastRestocked))
	return err
}

func (r *packagingRepo) Get(ctx context.Context, id ledger.PackagingItemID) (*ledger.PackagingItem, error) {
	rows, err := r.queryItems(ctx, selectPackaging+` WHERE id = ?`, string(id))
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return &rows[0], nil
}

func (r *packagingRepo) List(ctx context.Context) ([]ledger.PackagingItem, error) {
	return r.queryItems(ctx, selectPackaging+` ORDER BY rowid`)
}

func (r *packagingRepo) Delete(ctx context.Context, id ledger.PackagingItemID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, err := r.s.db.ExecContext(ctx, `DELETE FROM packaging_items WHERE id = ?`, string(id))
	return err
}

const selectPackaging = `SELECT id, name, category, quantity, min_quantity, unit, last_restocked FROM packaging_items`

func (r *packagingRepo) queryItems(ctx context.Context, query string, args ...any) ([]ledger.PackagingItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.PackagingItem
	for rows.Next() {
		var item ledger.PackagingItem
		var restocked sql.NullString
		if err := rows.Scan(&item.ID, &item.Name, &item.Category, &item.Quantity, &item.MinQuantity, &item.Unit, &restocked); err != nil {
			return nil, err
		}
		item.LastRestocked = scanNullableDate(restocked)
		out = append(out, item)
	}
	return out, rows.Err()
}

// =============================================================================
// EXPENSES
// =============================================================================

type expenseRepo struct{ s *Store }

func (r *expenseRepo) Put(ctx context.Context, e ledger.Expense) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	_, err := r.s.db.ExecContext(ctx, `
		INSERT INTO expenses (id, category, description, amount, date, supplier_id, invoice_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			category = excluded.category,
			description = excluded.description,
			amount = excluded.amount,
			date = excluded.date,
			supplier_id = excluded.supplier_id,
			invoice_id = excluded.invoice_id
	`, string(e.ID), string(e.Category), e.Description, e.Amount.String(),
		e.Date.UTC().Format(time.RFC3339), string(e.SupplierID), string(e.InvoiceID))
	return err
}

func (r *expenseRepo) Get(ctx context.Context, id ledger.ExpenseID) (*ledger.Expense, error) {
	rows, err := r.queryExpenses(ctx, selectExpenses+` WHERE id = ?`, string(id))
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return &rows[0], nil
}

func (r *expenseRepo) List(ctx context.Context) ([]ledger.Expense, error) {
	return r.queryExpenses(ctx, selectExpenses+` ORDER BY rowid`)
}

func (r *expenseRepo) ListBySupplier(ctx context.Context, supplierID ledger.SupplierID) ([]ledger.Expense, error) {
	return r.queryExpenses(ctx, selectExpenses+` WHERE supplier_id = ? ORDER BY rowid`, string(supplierID))
}

func (r *expenseRepo) ListByCategory(ctx context.Context, category ledger.ExpenseCategory) ([]ledger.Expense, error) {
	return r.queryExpenses(ctx, selectExpenses+` WHERE category = ? ORDER BY rowid`, string(category))
}

func (r *expenseRepo) Delete(ctx context.Context, id ledger.ExpenseID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, err := r.s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, string(id))
	return err
}

const selectExpenses = `SELECT id, category, description, amount, date, supplier_id, invoice_id FROM expenses`

func (r *expenseRepo) queryExpenses(ctx context.Context, query string, args ...any) ([]ledger.Expense, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.Expense
	for rows.Next() {
		var e ledger.Expense
		var amount, date string
		if err := rows.Scan(&e.ID, &e.Category, &e.Description, &amount, &date, &e.SupplierID, &e.InvoiceID); err != nil {
			return nil, err
		}
		e.Amount = parseDec(amount)
		e.Date = parseDate(date)
		out = append(out, e)
	}
	return out, rows.Err()
}
