/*
handlers.go - HTTP API handlers for the bookkeeping core

PURPOSE:
  Exposes the bookkeeping Coordinator via REST API. Handles HTTP
  request/response, JSON serialization and validation, and delegates
  every mutation to the Coordinator. No bookkeeping logic lives here.

ENDPOINTS:
  Suppliers:
    GET    /api/suppliers               List all suppliers
    POST   /api/suppliers               Create supplier
    GET    /api/suppliers/{id}          Get supplier
    PUT    /api/suppliers/{id}          Patch contact fields
    DELETE /api/suppliers/{id}          Delete supplier

  Transactions:
    GET    /api/transactions            List (optional ?supplier_id=)
    POST   /api/transactions            Record a delivery
    GET    /api/transactions/{id}       Get transaction
    PUT    /api/transactions/{id}       Patch transaction
    DELETE /api/transactions/{id}       Delete transaction

  Invoices:
    GET    /api/invoices                List (optional ?supplier_id=)
    POST   /api/invoices                Post a payment (FIFO allocation)
    GET    /api/invoices/preview        Dry-run allocation
    GET    /api/invoices/{id}           Get invoice

  Containers, Supplies, Inventory, Expenses: CRUD in the same shape,
  plus POST /api/inventory/{id}/restock.

  Reports:
    GET    /api/reports/stats           Dashboard snapshot
    GET    /api/reports/*.csv           CSV projections (export.go)

ERROR HANDLING:
  Domain errors map to HTTP statuses:
  - 400: Validation errors, invalid input
  - 404: Referenced aggregate not found
  - 422: Payment that clears no outstanding transactions
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - export.go: CSV projections
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/fruitport/export-ledger/ledger"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Coordinator *ledger.Coordinator
	Validate    *validator.Validate
	Logger      zerolog.Logger
}

// NewHandler creates a handler around a Coordinator.
func NewHandler(coord *ledger.Coordinator, logger zerolog.Logger) *Handler {
	return &Handler{
		Coordinator: coord,
		Validate:    validator.New(),
		Logger:      logger,
	}
}

func (h *Handler) repos() ledger.Repositories { return h.Coordinator.Repos() }

// timeNow is swapped out in tests for deterministic report windows.
var timeNow = func() time.Time { return time.Now().UTC() }

// decode parses the JSON body into req and runs struct validation. A false
// return means the error response has already been written.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	if err := h.Validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			details := make([]string, len(verrs))
			for i, fe := range verrs {
				details[i] = fe.Field() + ": failed " + fe.Tag()
			}
			writeJSON(w, http.StatusBadRequest, ErrorResponse{
				Error:   "Validation failed",
				Code:    "validation",
				Details: details,
			})
			return false
		}
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return false
	}
	return true
}

// =============================================================================
// SUPPLIER HANDLERS
// =============================================================================

// ListSuppliers returns all suppliers with their derived totals.
func (h *Handler) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.repos().Suppliers.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list suppliers", err)
		return
	}
	dtos := make([]SupplierDTO, len(suppliers))
	for i, s := range suppliers {
		dtos[i] = toSupplierDTO(s)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetSupplier(w http.ResponseWriter, r *http.Request) {
	id := ledger.SupplierID(chi.URLParam(r, "id"))
	s, err := h.repos().Suppliers.Get(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get supplier", err)
		return
	}
	if s == nil {
		writeError(w, http.StatusNotFound, "Supplier not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toSupplierDTO(*s))
}

func (h *Handler) CreateSupplier(w http.ResponseWriter, r *http.Request) {
	var req CreateSupplierRequest
	if !h.decode(w, r, &req) {
		return
	}
	s, err := h.Coordinator.CreateSupplier(r.Context(), ledger.NewSupplier{
		Name:             req.Name,
		Contact:          req.Contact,
		Email:            req.Email,
		Phone:            req.Phone,
		FruitSpecialties: req.FruitSpecialties,
	})
	if err != nil {
		h.writeDomainError(w, "Failed to create supplier", err)
		return
	}
	writeJSON(w, http.StatusCreated, toSupplierDTO(s))
}

func (h *Handler) UpdateSupplier(w http.ResponseWriter, r *http.Request) {
	id := ledger.SupplierID(chi.URLParam(r, "id"))
	var req UpdateSupplierRequest
	if !h.decode(w, r, &req) {
		return
	}
	s, err := h.Coordinator.UpdateSupplier(r.Context(), id, ledger.SupplierPatch{
		Name:             req.Name,
		Contact:          req.Contact,
		Email:            req.Email,
		Phone:            req.Phone,
		FruitSpecialties: req.FruitSpecialties,
	})
	if err != nil {
		h.writeDomainError(w, "Failed to update supplier", err)
		return
	}
	writeJSON(w, http.StatusOK, toSupplierDTO(s))
}

func (h *Handler) DeleteSupplier(w http.ResponseWriter, r *http.Request) {
	id := ledger.SupplierID(chi.URLParam(r, "id"))
	if err := h.Coordinator.DeleteSupplier(r.Context(), id); err != nil {
		h.writeDomainError(w, "Failed to delete supplier", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// TRANSACTION HANDLERS
// =============================================================================

// ListTransactions returns all transactions, optionally filtered by
// ?supplier_id= or ?container_id=.
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	var (
		txs []ledger.Transaction
		err error
	)
	switch {
	case r.URL.Query().Get("supplier_id") != "":
		txs, err = h.repos().Transactions.ListBySupplier(r.Context(), ledger.SupplierID(r.URL.Query().Get("supplier_id")))
	case r.URL.Query().Get("container_id") != "":
		txs, err = h.repos().Transactions.ListByContainer(r.Context(), ledger.ContainerID(r.URL.Query().Get("container_id")))
	default:
		txs, err = h.repos().Transactions.List(r.Context())
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list transactions", err)
		return
	}
	dtos := make([]TransactionDTO, len(txs))
	for i, tx := range txs {
		dtos[i] = toTransactionDTO(tx)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id := ledger.TransactionID(chi.URLParam(r, "id"))
	tx, err := h.repos().Transactions.Get(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get transaction", err)
		return
	}
	if tx == nil {
		writeError(w, http.StatusNotFound, "Transaction not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionDTO(*tx))
}

func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req CreateTransactionRequest
	if !h.decode(w, r, &req) {
		return
	}
	date, err := parseDay(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}
	if !req.Amount.IsPositive() {
		writeError(w, http.StatusBadRequest, "Amount must be positive", nil)
		return
	}
	tx, err := h.Coordinator.CreateTransaction(r.Context(), ledger.NewTransaction{
		SupplierID:  ledger.SupplierID(req.SupplierID),
		FruitType:   req.FruitType,
		Quantity:    req.Quantity,
		Amount:      req.Amount,
		Date:        date,
		ContainerID: ledger.ContainerID(req.ContainerID),
	})
	if err != nil {
		h.writeDomainError(w, "Failed to create transaction", err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionDTO(tx))
}

func (h *Handler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id := ledger.TransactionID(chi.URLParam(r, "id"))
	var req UpdateTransactionRequest
	if !h.decode(w, r, &req) {
		return
	}
	patch := ledger.TransactionPatch{
		FruitType: req.FruitType,
		Quantity:  req.Quantity,
		Amount:    req.Amount,
	}
	if req.Date != nil {
		date, err := parseDay(*req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
			return
		}
		patch.Date = &date
	}
	if req.ContainerID != nil {
		cid := ledger.ContainerID(*req.ContainerID)
		patch.ContainerID = &cid
	}
	tx, err := h.Coordinator.UpdateTransaction(r.Context(), id, patch)
	if err != nil {
		h.writeDomainError(w, "Failed to update transaction", err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionDTO(tx))
}

func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := ledger.TransactionID(chi.URLParam(r, "id"))
	if err := h.Coordinator.DeleteTransaction(r.Context(), id); err != nil {
		h.writeDomainError(w, "Failed to delete transaction", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// INVOICE HANDLERS
// =============================================================================

// ListInvoices returns all invoices, optionally filtered by ?supplier_id=.
func (h *Handler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	var (
		invoices []ledger.Invoice
		err      error
	)
	if sid := r.URL.Query().Get("supplier_id"); sid != "" {
		invoices, err = h.repos().Invoices.ListBySupplier(r.Context(), ledger.SupplierID(sid))
	} else {
		invoices, err = h.repos().Invoices.List(r.Context())
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list invoices", err)
		return
	}
	dtos := make([]InvoiceDTO, len(invoices))
	for i, inv := range invoices {
		dtos[i] = toInvoiceDTO(inv)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	id := ledger.InvoiceID(chi.URLParam(r, "id"))
	inv, err := h.repos().Invoices.Get(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get invoice", err)
		return
	}
	if inv == nil {
		writeError(w, http.StatusNotFound, "Invoice not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toInvoiceDTO(*inv))
}

// CreateInvoice posts a payment against a supplier's outstanding deliveries.
// 422 when the payment clears nothing; the response reports any excess the
// allocator could not place.
func (h *Handler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req CreateInvoiceRequest
	if !h.decode(w, r, &req) {
		return
	}
	date, err := parseDay(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}
	result, err := h.Coordinator.CreateInvoice(r.Context(), ledger.NewInvoice{
		SupplierID:    ledger.SupplierID(req.SupplierID),
		Amount:        req.Amount,
		Date:          date,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		h.writeDomainError(w, "Failed to create invoice", err)
		return
	}
	if result.RemainingPayment.IsPositive() {
		h.Logger.Warn().
			Str("supplier_id", req.SupplierID).
			Str("excess", result.RemainingPayment.String()).
			Msg("payment exceeded outstanding balance")
	}
	writeJSON(w, http.StatusCreated, InvoiceResponse{
		Invoice:          toInvoiceDTO(result.Invoice),
		RemainingPayment: result.RemainingPayment,
		Overpaid:         result.RemainingPayment.IsPositive(),
	})
}

// PreviewInvoice dry-runs the FIFO allocation for
// ?supplier_id=...&amount=... without committing anything.
func (h *Handler) PreviewInvoice(w http.ResponseWriter, r *http.Request) {
	sid := r.URL.Query().Get("supplier_id")
	if sid == "" {
		writeError(w, http.StatusBadRequest, "supplier_id is required", nil)
		return
	}
	amount, err := decimal.NewFromString(r.URL.Query().Get("amount"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}
	alloc, err := h.Coordinator.PreviewInvoice(r.Context(), ledger.SupplierID(sid), amount)
	if err != nil {
		h.writeDomainError(w, "Failed to preview allocation", err)
		return
	}
	writeJSON(w, http.StatusOK, PreviewAllocationDTO{
		Cleared:          toClearedDTOs(alloc.Cleared),
		RemainingPayment: alloc.RemainingPayment,
	})
}

// =============================================================================
// CONTAINER HANDLERS
// =============================================================================

func (h *Handler) ListContainers(w http.ResponseWriter, r *http.Request) {
	containers, err := h.repos().Containers.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list containers", err)
		return
	}
	dtos := make([]ContainerDTO, len(containers))
	for i, c := range containers {
		dtos[i] = toContainerDTO(c)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetContainer(w http.ResponseWriter, r *http.Request) {
	id := ledger.ContainerID(chi.URLParam(r, "id"))
	c, err := h.repos().Containers.Get(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get container", err)
		return
	}
	if c == nil {
		writeError(w, http.StatusNotFound, "Container not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toContainerDTO(*c))
}

func (h *Handler) CreateContainer(w http.ResponseWriter, r *http.Request) {
	var req CreateContainerRequest
	if !h.decode(w, r, &req) {
		return
	}
	shipDate, err := parseDayPtr(req.ShipDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid ship_date format (use YYYY-MM-DD)", err)
		return
	}
	deliveryDate, err := parseDayPtr(req.DeliveryDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid delivery_date format (use YYYY-MM-DD)", err)
		return
	}
	c, err := h.Coordinator.CreateContainer(r.Context(), ledger.NewContainer{
		ContainerNumber: req.ContainerNumber,
		Status:          ledger.ContainerStatus(req.Status),
		Suppliers:       fromContainerSupplierDTOs(req.Suppliers),
		Consignee:       fromConsigneeDTO(req.Consignee),
		ShipDate:        shipDate,
		DeliveryDate:    deliveryDate,
	})
	if err != nil {
		h.writeDomainError(w, "Failed to create container", err)
		return
	}
	writeJSON(w, http.StatusCreated, toContainerDTO(c))
}

func (h *Handler) UpdateContainer(w http.ResponseWriter, r *http.Request) {
	id := ledger.ContainerID(chi.URLParam(r, "id"))
	var req UpdateContainerRequest
	if !h.decode(w, r, &req) {
		return
	}
	patch := ledger.ContainerPatch{
		ContainerNumber: req.ContainerNumber,
	}
	if req.Status != nil {
		status := ledger.ContainerStatus(*req.Status)
		patch.Status = &status
	}
	if req.Suppliers != nil {
		suppliers := fromContainerSupplierDTOs(*req.Suppliers)
		patch.Suppliers = &suppliers
	}
	if req.Consignee != nil {
		consignee := fromConsigneeDTO(req.Consignee)
		patch.Consignee = &consignee
	}
	if req.ShipDate != nil {
		shipDate, err := parseClearableDay(*req.ShipDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid ship_date format (use YYYY-MM-DD)", err)
			return
		}
		patch.ShipDate = &shipDate
	}
	if req.DeliveryDate != nil {
		deliveryDate, err := parseClearableDay(*req.DeliveryDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid delivery_date format (use YYYY-MM-DD)", err)
			return
		}
		patch.DeliveryDate = &deliveryDate
	}
	c, err := h.Coordinator.UpdateContainer(r.Context(), id, patch)
	if err != nil {
		h.writeDomainError(w, "Failed to update container", err)
		return
	}
	writeJSON(w, http.StatusOK, toContainerDTO(c))
}

func (h *Handler) DeleteContainer(w http.ResponseWriter, r *http.Request) {
	id := ledger.ContainerID(chi.URLParam(r, "id"))
	if err := h.Coordinator.DeleteContainer(r.Context(), id); err != nil {
		h.writeDomainError(w, "Failed to delete container", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// SUPPLY HANDLERS
// =============================================================================

// ListSupplies returns all supplies, optionally filtered by ?container_id=
// or ?supplier_id=.
func (h *Handler) ListSupplies(w http.ResponseWriter, r *http.Request) {
	var (
		supplies []ledger.Supply
		err      error
	)
	switch {
	case r.URL.Query().Get("container_id") != "":
		supplies, err = h.repos().Supplies.ListByContainer(r.Context(), ledger.ContainerID(r.URL.Query().Get("container_id")))
	case r.URL.Query().Get("supplier_id") != "":
		supplies, err = h.repos().Supplies.ListBySupplier(r.Context(), ledger.SupplierID(r.URL.Query().Get("supplier_id")))
	default:
		supplies, err = h.repos().Supplies.List(r.Context())
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list supplies", err)
		return
	}
	dtos := make([]SupplyDTO, len(supplies))
	for i, s := range supplies {
		dtos[i] = toSupplyDTO(s)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetSupply(w http.ResponseWriter, r *http.Request) {
	id := ledger.SupplyID(chi.URLParam(r, "id"))
	s, err := h.repos().Supplies.Get(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get supply", err)
		return
	}
	if s == nil {
		writeError(w, http.StatusNotFound, "Supply not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toSupplyDTO(*s))
}

func (h *Handler) CreateSupply(w http.ResponseWriter, r *http.Request) {
	var req CreateSupplyRequest
	if !h.decode(w, r, &req) {
		return
	}
	date, err := parseDay(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}
	if !req.Quantity.IsPositive() || req.Price.IsNegative() {
		writeError(w, http.StatusBadRequest, "Quantity must be positive and price non-negative", nil)
		return
	}
	s, err := h.Coordinator.CreateSupply(r.Context(), ledger.NewSupply{
		Date:        date,
		ContainerID: ledger.ContainerID(req.ContainerID),
		SupplierID:  ledger.SupplierID(req.SupplierID),
		Details:     req.Details,
		FruitType:   req.FruitType,
		Quantity:    req.Quantity,
		Price:       req.Price,
	})
	if err != nil {
		h.writeDomainError(w, "Failed to create supply", err)
		return
	}
	writeJSON(w, http.StatusCreated, toSupplyDTO(s))
}

func (h *Handler) UpdateSupply(w http.ResponseWriter, r *http.Request) {
	id := ledger.SupplyID(chi.URLParam(r, "id"))
	var req UpdateSupplyRequest
	if !h.decode(w, r, &req) {
		return
	}
	patch := ledger.SupplyPatch{
		Details:   req.Details,
		FruitType: req.FruitType,
		Quantity:  req.Quantity,
		Price:     req.Price,
	}
	if req.Date != nil {
		date, err := parseDay(*req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
			return
		}
		patch.Date = &date
	}
	if req.ContainerID != nil {
		cid := ledger.ContainerID(*req.ContainerID)
		patch.ContainerID = &cid
	}
	if req.SupplierID != nil {
		sid := ledger.SupplierID(*req.SupplierID)
		patch.SupplierID = &sid
	}
	s, err := h.Coordinator.UpdateSupply(r.Context(), id, patch)
	if err != nil {
		h.writeDomainError(w, "Failed to update supply", err)
		return
	}
	writeJSON(w, http.StatusOK, toSupplyDTO(s))
}

func (h *Handler) DeleteSupply(w http.ResponseWriter, r *http.Request) {
	id := ledger.SupplyID(chi.URLParam(r, "id"))
	if err := h.Coordinator.DeleteSupply(r.Context(), id); err != nil {
		h.writeDomainError(w, "Failed to delete supply", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// PACKAGING INVENTORY HANDLERS
// =============================================================================

// ListPackagingItems returns all inventory entries; ?low_stock=true filters
// to items below their minimum.
func (h *Handler) ListPackagingItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.repos().Packaging.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list packaging items", err)
		return
	}
	if r.URL.Query().Get("low_stock") == "true" {
		items = ledger.LowStockItems(items)
	}
	dtos := make([]PackagingItemDTO, len(items))
	for i, item := range items {
		dtos[i] = toPackagingItemDTO(item)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetPackagingItem(w http.ResponseWriter, r *http.Request) {
	id := ledger.PackagingItemID(chi.URLParam(r, "id"))
	item, err := h.repos().Packaging.Get(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get packaging item", err)
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "Packaging item not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toPackagingItemDTO(*item))
}

func (h *Handler) CreatePackagingItem(w http.ResponseWriter, r *http.Request) {
	var req CreatePackagingItemRequest
	if !h.decode(w, r, &req) {
		return
	}
	item, err := h.Coordinator.CreatePackagingItem(r.Context(), ledger.NewPackagingItem{
		Name:        req.Name,
		Category:    req.Category,
		Quantity:    req.Quantity,
		MinQuantity: req.MinQuantity,
		Unit:        req.Unit,
	})
	if err != nil {
		h.writeDomainError(w, "Failed to create packaging item", err)
		return
	}
	writeJSON(w, http.StatusCreated, toPackagingItemDTO(item))
}

func (h *Handler) UpdatePackagingItem(w http.ResponseWriter, r *http.Request) {
	id := ledger.PackagingItemID(chi.URLParam(r, "id"))
	var req UpdatePackagingItemRequest
	if !h.decode(w, r, &req) {
		return
	}
	item, err := h.Coordinator.UpdatePackagingItem(r.Context(), id, ledger.PackagingItemPatch{
		Name:        req.Name,
		Category:    req.Category,
		Quantity:    req.Quantity,
		MinQuantity: req.MinQuantity,
		Unit:        req.Unit,
	})
	if err != nil {
		h.writeDomainError(w, "Failed to update packaging item", err)
		return
	}
	writeJSON(w, http.StatusOK, toPackagingItemDTO(item))
}

func (h *Handler) DeletePackagingItem(w http.ResponseWriter, r *http.Request) {
	id := ledger.PackagingItemID(chi.URLParam(r, "id"))
	if err := h.Coordinator.DeletePackagingItem(r.Context(), id); err != nil {
		h.writeDomainError(w, "Failed to delete packaging item", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RestockPackagingItem adds stock and stamps last_restocked.
func (h *Handler) RestockPackagingItem(w http.ResponseWriter, r *http.Request) {
	id := ledger.PackagingItemID(chi.URLParam(r, "id"))
	var req RestockRequest
	if !h.decode(w, r, &req) {
		return
	}
	item, err := h.Coordinator.Restock(r.Context(), id, req.Quantity)
	if err != nil {
		h.writeDomainError(w, "Failed to restock packaging item", err)
		return
	}
	writeJSON(w, http.StatusOK, toPackagingItemDTO(item))
}

// =============================================================================
// EXPENSE HANDLERS
// =============================================================================

// ListExpenses returns all expenses, optionally filtered by ?supplier_id= or
// ?category=.
func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	var (
		expenses []ledger.Expense
		err      error
	)
	switch {
	case r.URL.Query().Get("supplier_id") != "":
		expenses, err = h.repos().Expenses.ListBySupplier(r.Context(), ledger.SupplierID(r.URL.Query().Get("supplier_id")))
	case r.URL.Query().Get("category") != "":
		expenses, err = h.repos().Expenses.ListByCategory(r.Context(), ledger.ExpenseCategory(r.URL.Query().Get("category")))
	default:
		expenses, err = h.repos().Expenses.List(r.Context())
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list expenses", err)
		return
	}
	dtos := make([]ExpenseDTO, len(expenses))
	for i, e := range expenses {
		dtos[i] = toExpenseDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetExpense(w http.ResponseWriter, r *http.Request) {
	id := ledger.ExpenseID(chi.URLParam(r, "id"))
	e, err := h.repos().Expenses.Get(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get expense", err)
		return
	}
	if e == nil {
		writeError(w, http.StatusNotFound, "Expense not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toExpenseDTO(*e))
}

func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req CreateExpenseRequest
	if !h.decode(w, r, &req) {
		return
	}
	date, err := parseDay(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}
	e, err := h.Coordinator.CreateExpense(r.Context(), ledger.NewExpense{
		Category:    ledger.ExpenseCategory(req.Category),
		Description: req.Description,
		Amount:      req.Amount,
		Date:        date,
		SupplierID:  ledger.SupplierID(req.SupplierID),
	})
	if err != nil {
		h.writeDomainError(w, "Failed to create expense", err)
		return
	}
	writeJSON(w, http.StatusCreated, toExpenseDTO(e))
}

func (h *Handler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	id := ledger.ExpenseID(chi.URLParam(r, "id"))
	var req UpdateExpenseRequest
	if !h.decode(w, r, &req) {
		return
	}
	patch := ledger.ExpensePatch{
		Description: req.Description,
		Amount:      req.Amount,
	}
	if req.Category != nil {
		category := ledger.ExpenseCategory(*req.Category)
		patch.Category = &category
	}
	if req.Date != nil {
		date, err := parseDay(*req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
			return
		}
		patch.Date = &date
	}
	if req.SupplierID != nil {
		sid := ledger.SupplierID(*req.SupplierID)
		patch.SupplierID = &sid
	}
	e, err := h.Coordinator.UpdateExpense(r.Context(), id, patch)
	if err != nil {
		h.writeDomainError(w, "Failed to update expense", err)
		return
	}
	writeJSON(w, http.StatusOK, toExpenseDTO(e))
}

func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := ledger.ExpenseID(chi.URLParam(r, "id"))
	if err := h.Coordinator.DeleteExpense(r.Context(), id); err != nil {
		h.writeDomainError(w, "Failed to delete expense", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// GetStats returns the dashboard snapshot. ?months= sets the length of the
// expense trend series (default 6).
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	months := 6
	if m := r.URL.Query().Get("months"); m != "" {
		parsed, err := strconv.Atoi(m)
		if err != nil || parsed < 1 || parsed > 36 {
			writeError(w, http.StatusBadRequest, "months must be between 1 and 36", err)
			return
		}
		months = parsed
	}

	ctx := r.Context()
	repos := h.repos()
	suppliers, err := repos.Suppliers.List(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute stats", err)
		return
	}
	transactions, err := repos.Transactions.List(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute stats", err)
		return
	}
	containers, err := repos.Containers.List(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute stats", err)
		return
	}
	items, err := repos.Packaging.List(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute stats", err)
		return
	}
	expenses, err := repos.Expenses.List(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute stats", err)
		return
	}

	stats := ledger.ComputeDashboardStats(suppliers, transactions, containers, items, expenses, timeNow(), months)
	writeJSON(w, http.StatusOK, toStatsDTO(stats))
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

// writeDomainError maps ledger errors to HTTP statuses.
func (h *Handler) writeDomainError(w http.ResponseWriter, msg string, err error) {
	switch {
	case ledger.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, ledger.ErrNothingToAllocate):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error: err.Error(),
			Code:  "nothing_to_allocate",
		})
	case errors.Is(err, ledger.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error(), nil)
	default:
		h.Logger.Error().Err(err).Msg(msg)
		writeError(w, http.StatusInternalServerError, msg, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

func parseDayPtr(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := parseDay(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// parseClearableDay treats "" as an explicit clear (returns a nil inner
// pointer) and any other value as a date to set.
func parseClearableDay(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := parseDay(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
