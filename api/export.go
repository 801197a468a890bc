/*
export.go - CSV report projections

PURPOSE:
  Streams flat CSV views of the collections for spreadsheet hand-off.
  Pure projections: every value is read straight from the repositories
  or a calculator function, nothing is recomputed here.

ENDPOINTS:
  GET /api/reports/suppliers.csv
  GET /api/reports/transactions.csv
  GET /api/reports/expenses.csv

SEE ALSO:
  - handlers.go: JSON counterparts of these views
*/
package api

import (
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"

	"github.com/fruitport/export-ledger/ledger"
)

func (h *Handler) listTransactionsFiltered(r *http.Request) ([]ledger.Transaction, error) {
	if sid := r.URL.Query().Get("supplier_id"); sid != "" {
		return h.repos().Transactions.ListBySupplier(r.Context(), ledger.SupplierID(sid))
	}
	return h.repos().Transactions.List(r.Context())
}

func (h *Handler) listExpensesFiltered(r *http.Request) ([]ledger.Expense, error) {
	if cat := r.URL.Query().Get("category"); cat != "" {
		return h.repos().Expenses.ListByCategory(r.Context(), ledger.ExpenseCategory(cat))
	}
	return h.repos().Expenses.List(r.Context())
}

func csvHeader(w http.ResponseWriter, filename string) *csv.Writer {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return csv.NewWriter(w)
}

// ExportSuppliersCSV writes one row per supplier with derived totals.
func (h *Handler) ExportSuppliersCSV(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.repos().Suppliers.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to export suppliers", err)
		return
	}

	cw := csvHeader(w, "suppliers.csv")
	cw.Write([]string{"id", "name", "contact", "email", "phone", "fruit_specialties", "total_owed", "total_paid", "balance"})
	for _, s := range suppliers {
		cw.Write([]string{
			string(s.ID), s.Name, s.Contact, s.Email, s.Phone,
			strings.Join(s.FruitSpecialties, "; "),
			s.TotalOwed.String(), s.TotalPaid.String(), s.Balance.String(),
		})
	}
	cw.Flush()
}

// ExportTransactionsCSV writes one row per transaction; honors the same
// ?supplier_id= filter as the JSON listing.
func (h *Handler) ExportTransactionsCSV(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.listTransactionsFiltered(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to export transactions", err)
		return
	}

	cw := csvHeader(w, "transactions.csv")
	cw.Write([]string{"id", "supplier_id", "supplier_name", "fruit_type", "quantity", "amount", "date", "container_id", "status", "remaining_balance"})
	for _, tx := range transactions {
		cw.Write([]string{
			string(tx.ID), string(tx.SupplierID), tx.SupplierName, tx.FruitType,
			tx.Quantity.String(), tx.Amount.String(), formatDay(tx.Date),
			string(tx.ContainerID), string(tx.Status), tx.RemainingBalance.String(),
		})
	}
	cw.Flush()
}

// ExportExpensesCSV writes one row per expense; honors ?category=.
func (h *Handler) ExportExpensesCSV(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.listExpensesFiltered(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to export expenses", err)
		return
	}

	cw := csvHeader(w, "expenses.csv")
	cw.Write([]string{"id", "category", "description", "amount", "date", "supplier_id", "invoice_id"})
	for _, e := range expenses {
		cw.Write([]string{
			string(e.ID), string(e.Category), e.Description,
			e.Amount.String(), formatDay(e.Date),
			string(e.SupplierID), string(e.InvoiceID),
		})
	}
	cw.Flush()
}

// ExportInventoryCSV writes one row per packaging item with the low-stock
// flag resolved.
func (h *Handler) ExportInventoryCSV(w http.ResponseWriter, r *http.Request) {
	items, err := h.repos().Packaging.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to export inventory", err)
		return
	}

	cw := csvHeader(w, "inventory.csv")
	cw.Write([]string{"id", "name", "category", "quantity", "min_quantity", "unit", "last_restocked", "low_stock"})
	for _, item := range items {
		restocked := ""
		if item.LastRestocked != nil {
			restocked = formatDay(*item.LastRestocked)
		}
		cw.Write([]string{
			string(item.ID), item.Name, item.Category,
			strconv.Itoa(item.Quantity), strconv.Itoa(item.MinQuantity),
			item.Unit, restocked, strconv.FormatBool(item.IsLowStock()),
		})
	}
	cw.Flush()
}
