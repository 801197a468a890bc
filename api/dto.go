/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation (validate struct tags)
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

MONEY:
  Monetary fields are decimal.Decimal, serialized as JSON strings to
  preserve precision. The decoder accepts both quoted strings and bare
  numbers.

DATES:
  Day-granularity dates cross the boundary as "YYYY-MM-DD"; optional
  dates as null.

VALIDATION:
  Request types carry go-playground/validator tags; handlers run the
  validator before touching the Coordinator.

SEE ALSO:
  - handlers.go: Uses these types
  - ledger/types.go: Domain aggregates these map to
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fruitport/export-ledger/ledger"
)

const dayFormat = "2006-01-02"

// =============================================================================
// SUPPLIERS
// =============================================================================

// SupplierDTO represents a supplier in API responses. Financial totals are
// always the Coordinator's derived values.
type SupplierDTO struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Contact          string          `json:"contact,omitempty"`
	Email            string          `json:"email,omitempty"`
	Phone            string          `json:"phone,omitempty"`
	FruitSpecialties []string        `json:"fruit_specialties,omitempty"`
	TotalOwed        decimal.Decimal `json:"total_owed"`
	TotalPaid        decimal.Decimal `json:"total_paid"`
	Balance          decimal.Decimal `json:"balance"`
}

// CreateSupplierRequest is the request to create a supplier. Financial fields
// are deliberately absent: they always start at zero.
type CreateSupplierRequest struct {
	Name             string   `json:"name" validate:"required"`
	Contact          string   `json:"contact"`
	Email            string   `json:"email" validate:"omitempty,email"`
	Phone            string   `json:"phone"`
	FruitSpecialties []string `json:"fruit_specialties"`
}

// UpdateSupplierRequest patches contact fields. Absent fields are unchanged.
type UpdateSupplierRequest struct {
	Name             *string   `json:"name" validate:"omitempty,min=1"`
	Contact          *string   `json:"contact"`
	Email            *string   `json:"email" validate:"omitempty,email"`
	Phone            *string   `json:"phone"`
	FruitSpecialties *[]string `json:"fruit_specialties"`
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

// TransactionDTO represents a fruit-delivery transaction.
type TransactionDTO struct {
	ID               string          `json:"id"`
	SupplierID       string          `json:"supplier_id"`
	SupplierName     string          `json:"supplier_name"`
	FruitType        string          `json:"fruit_type,omitempty"`
	Quantity         decimal.Decimal `json:"quantity"`
	Amount           decimal.Decimal `json:"amount"`
	Date             string          `json:"date"`
	ContainerID      string          `json:"container_id,omitempty"`
	Status           string          `json:"status"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
}

// CreateTransactionRequest records a delivery owed to a supplier. Status and
// remaining balance are derived, never accepted from clients.
type CreateTransactionRequest struct {
	SupplierID  string          `json:"supplier_id" validate:"required"`
	FruitType   string          `json:"fruit_type"`
	Quantity    decimal.Decimal `json:"quantity"`
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	Date        string          `json:"date" validate:"required"`
	ContainerID string          `json:"container_id"`
}

// UpdateTransactionRequest patches a delivery record.
type UpdateTransactionRequest struct {
	FruitType   *string          `json:"fruit_type"`
	Quantity    *decimal.Decimal `json:"quantity"`
	Amount      *decimal.Decimal `json:"amount"`
	Date        *string          `json:"date"`
	ContainerID *string          `json:"container_id"`
}

// =============================================================================
// INVOICES
// =============================================================================

// ClearedTransactionDTO is one allocation line of an invoice.
type ClearedTransactionDTO struct {
	TransactionID    string          `json:"transaction_id"`
	AmountCleared    decimal.Decimal `json:"amount_cleared"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
}

// InvoiceDTO represents an immutable payment record.
type InvoiceDTO struct {
	ID                  string                  `json:"id"`
	SupplierID          string                  `json:"supplier_id"`
	SupplierName        string                  `json:"supplier_name"`
	Amount              decimal.Decimal         `json:"amount"`
	Date                string                  `json:"date"`
	PaymentMethod       string                  `json:"payment_method,omitempty"`
	TransactionsCleared []ClearedTransactionDTO `json:"transactions_cleared"`
}

// CreateInvoiceRequest posts a payment against a supplier's outstanding
// transactions.
type CreateInvoiceRequest struct {
	SupplierID    string          `json:"supplier_id" validate:"required"`
	Amount        decimal.Decimal `json:"amount" validate:"required"`
	Date          string          `json:"date" validate:"required"`
	PaymentMethod string          `json:"payment_method"`
}

// InvoiceResponse wraps the created invoice. RemainingPayment > 0 means the
// payment exceeded everything outstanding; the excess was not stored.
type InvoiceResponse struct {
	Invoice          InvoiceDTO      `json:"invoice"`
	RemainingPayment decimal.Decimal `json:"remaining_payment"`
	Overpaid         bool            `json:"overpaid"`
}

// PreviewAllocationDTO is the dry-run view of a payment before posting it.
type PreviewAllocationDTO struct {
	Cleared          []ClearedTransactionDTO `json:"cleared"`
	RemainingPayment decimal.Decimal         `json:"remaining_payment"`
}

// =============================================================================
// CONTAINERS
// =============================================================================

// ContainerSupplierDTO is one embedded supplier contribution.
type ContainerSupplierDTO struct {
	SupplierID    string          `json:"supplier_id"`
	SupplierName  string          `json:"supplier_name"`
	FruitType     string          `json:"fruit_type,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
	TransactionID string          `json:"transaction_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
}

// ConsigneeDTO is the receiving party of a container.
type ConsigneeDTO struct {
	Name           string `json:"name"`
	Company        string `json:"company,omitempty"`
	Location       string `json:"location,omitempty"`
	City           string `json:"city,omitempty"`
	Country        string `json:"country,omitempty"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
	AdditionalInfo string `json:"additional_info,omitempty"`
}

// ContainerDTO represents a shipping container.
type ContainerDTO struct {
	ID              string                 `json:"id"`
	ContainerNumber string                 `json:"container_number"`
	Status          string                 `json:"status"`
	Suppliers       []ContainerSupplierDTO `json:"suppliers"`
	Consignee       *ConsigneeDTO          `json:"consignee,omitempty"`
	ShipDate        *string                `json:"ship_date,omitempty"`
	DeliveryDate    *string                `json:"delivery_date,omitempty"`
	TotalValue      decimal.Decimal        `json:"total_value"`
}

// CreateContainerRequest creates a shipment. TotalValue is derived from the
// supplier contributions, never accepted.
type CreateContainerRequest struct {
	ContainerNumber string                 `json:"container_number" validate:"required"`
	Status          string                 `json:"status" validate:"required,oneof='Preparing' 'In Transit' 'Delivered'"`
	Suppliers       []ContainerSupplierDTO `json:"suppliers"`
	Consignee       *ConsigneeDTO          `json:"consignee"`
	ShipDate        *string                `json:"ship_date"`
	DeliveryDate    *string                `json:"delivery_date"`
}

// UpdateContainerRequest patches a shipment. An empty-string ship_date or
// delivery_date clears the field; absence leaves it unchanged.
type UpdateContainerRequest struct {
	ContainerNumber *string                 `json:"container_number"`
	Status          *string                 `json:"status" validate:"omitempty,oneof='Preparing' 'In Transit' 'Delivered'"`
	Suppliers       *[]ContainerSupplierDTO `json:"suppliers"`
	Consignee       *ConsigneeDTO           `json:"consignee"`
	ShipDate        *string                 `json:"ship_date"`
	DeliveryDate    *string                 `json:"delivery_date"`
}

// =============================================================================
// SUPPLIES
// =============================================================================

// SupplyDTO represents one recorded delivery tied to a container.
type SupplyDTO struct {
	ID              string          `json:"id"`
	Date            string          `json:"date"`
	ContainerID     string          `json:"container_id"`
	ContainerNumber string          `json:"container_number"`
	SupplierID      string          `json:"supplier_id"`
	SupplierName    string          `json:"supplier_name"`
	Details         string          `json:"details,omitempty"`
	FruitType       string          `json:"fruit_type,omitempty"`
	Quantity        decimal.Decimal `json:"quantity"`
	Price           decimal.Decimal `json:"price"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	TransactionID   string          `json:"transaction_id"`
}

// CreateSupplyRequest records a delivery. total_amount is derived
// (quantity * price), never accepted.
type CreateSupplyRequest struct {
	Date        string          `json:"date" validate:"required"`
	ContainerID string          `json:"container_id" validate:"required"`
	SupplierID  string          `json:"supplier_id" validate:"required"`
	Details     string          `json:"details"`
	FruitType   string          `json:"fruit_type"`
	Quantity    decimal.Decimal `json:"quantity" validate:"required"`
	Price       decimal.Decimal `json:"price" validate:"required"`
}

// UpdateSupplyRequest patches a supply; quantity/price changes ripple into
// the linked transaction and container entry.
type UpdateSupplyRequest struct {
	Date        *string          `json:"date"`
	ContainerID *string          `json:"container_id"`
	SupplierID  *string          `json:"supplier_id"`
	Details     *string          `json:"details"`
	FruitType   *string          `json:"fruit_type"`
	Quantity    *decimal.Decimal `json:"quantity"`
	Price       *decimal.Decimal `json:"price"`
}

// =============================================================================
// PACKAGING INVENTORY
// =============================================================================

// PackagingItemDTO represents an inventory entry. LowStock is derived.
type PackagingItemDTO struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Category      string  `json:"category,omitempty"`
	Quantity      int     `json:"quantity"`
	MinQuantity   int     `json:"min_quantity"`
	Unit          string  `json:"unit,omitempty"`
	LastRestocked *string `json:"last_restocked,omitempty"`
	LowStock      bool    `json:"low_stock"`
}

// CreatePackagingItemRequest creates an inventory entry.
type CreatePackagingItemRequest struct {
	Name        string `json:"name" validate:"required"`
	Category    string `json:"category"`
	Quantity    int    `json:"quantity" validate:"gte=0"`
	MinQuantity int    `json:"min_quantity" validate:"gte=0"`
	Unit        string `json:"unit"`
}

// UpdatePackagingItemRequest patches an inventory entry.
type UpdatePackagingItemRequest struct {
	Name        *string `json:"name"`
	Category    *string `json:"category"`
	Quantity    *int    `json:"quantity" validate:"omitempty,gte=0"`
	MinQuantity *int    `json:"min_quantity" validate:"omitempty,gte=0"`
	Unit        *string `json:"unit"`
}

// RestockRequest adds stock to an item and stamps last_restocked.
type RestockRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

// =============================================================================
// EXPENSES
// =============================================================================

// ExpenseDTO represents a ledger expense entry.
type ExpenseDTO struct {
	ID          string          `json:"id"`
	Category    string          `json:"category"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	SupplierID  string          `json:"supplier_id,omitempty"`
	InvoiceID   string          `json:"invoice_id,omitempty"`
}

// CreateExpenseRequest records a manual expense. Supplier Payment expenses
// are auto-created by invoice posting, but the category is still accepted
// here for manual corrections.
type CreateExpenseRequest struct {
	Category    string          `json:"category" validate:"required,oneof='Supplier Payment' 'Packaging Materials' 'Shipping' 'Labor' 'Other'"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	Date        string          `json:"date" validate:"required"`
	SupplierID  string          `json:"supplier_id"`
}

// UpdateExpenseRequest patches a manual expense.
type UpdateExpenseRequest struct {
	Category    *string          `json:"category" validate:"omitempty,oneof='Supplier Payment' 'Packaging Materials' 'Shipping' 'Labor' 'Other'"`
	Description *string          `json:"description"`
	Amount      *decimal.Decimal `json:"amount"`
	Date        *string          `json:"date"`
	SupplierID  *string          `json:"supplier_id"`
}

// =============================================================================
// REPORTS
// =============================================================================

// MonthlyExpensePointDTO is one month of the expense trend series.
type MonthlyExpensePointDTO struct {
	Month string          `json:"month"` // "2026-08"
	Total decimal.Decimal `json:"total"`
}

// StatsDTO is the dashboard snapshot.
type StatsDTO struct {
	SupplierCount        int                      `json:"supplier_count"`
	ContainerCounts      map[string]int           `json:"container_counts"`
	TotalPendingPayments decimal.Decimal          `json:"total_pending_payments"`
	TotalPaid            decimal.Decimal          `json:"total_paid"`
	LowStockCount        int                      `json:"low_stock_count"`
	MonthlyExpenses      []MonthlyExpensePointDTO `json:"monthly_expenses"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func formatDay(t time.Time) string { return t.UTC().Format(dayFormat) }

func formatDayPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatDay(*t)
	return &s
}

// parseDay accepts "YYYY-MM-DD" and full RFC3339 timestamps.
func parseDay(s string) (time.Time, error) {
	if t, err := time.Parse(dayFormat, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func toSupplierDTO(s ledger.Supplier) SupplierDTO {
	return SupplierDTO{
		ID:               string(s.ID),
		Name:             s.Name,
		Contact:          s.Contact,
		Email:            s.Email,
		Phone:            s.Phone,
		FruitSpecialties: s.FruitSpecialties,
		TotalOwed:        s.TotalOwed,
		TotalPaid:        s.TotalPaid,
		Balance:          s.Balance,
	}
}

func toTransactionDTO(tx ledger.Transaction) TransactionDTO {
	return TransactionDTO{
		ID:               string(tx.ID),
		SupplierID:       string(tx.SupplierID),
		SupplierName:     tx.SupplierName,
		FruitType:        tx.FruitType,
		Quantity:         tx.Quantity,
		Amount:           tx.Amount,
		Date:             formatDay(tx.Date),
		ContainerID:      string(tx.ContainerID),
		Status:           string(tx.Status),
		RemainingBalance: tx.RemainingBalance,
	}
}

func toClearedDTOs(cleared []ledger.ClearedTransaction) []ClearedTransactionDTO {
	dtos := make([]ClearedTransactionDTO, len(cleared))
	for i, c := range cleared {
		dtos[i] = ClearedTransactionDTO{
			TransactionID:    string(c.TransactionID),
			AmountCleared:    c.AmountCleared,
			RemainingBalance: c.RemainingBalance,
		}
	}
	return dtos
}

func toInvoiceDTO(inv ledger.Invoice) InvoiceDTO {
	return InvoiceDTO{
		ID:                  string(inv.ID),
		SupplierID:          string(inv.SupplierID),
		SupplierName:        inv.SupplierName,
		Amount:              inv.Amount,
		Date:                formatDay(inv.Date),
		PaymentMethod:       inv.PaymentMethod,
		TransactionsCleared: toClearedDTOs(inv.TransactionsCleared),
	}
}

func toContainerDTO(c ledger.Container) ContainerDTO {
	suppliers := make([]ContainerSupplierDTO, len(c.Suppliers))
	for i, cs := range c.Suppliers {
		suppliers[i] = ContainerSupplierDTO{
			SupplierID:    string(cs.SupplierID),
			SupplierName:  cs.SupplierName,
			FruitType:     cs.FruitType,
			Quantity:      cs.Quantity,
			TransactionID: string(cs.TransactionID),
			Amount:        cs.Amount,
		}
	}
	dto := ContainerDTO{
		ID:              string(c.ID),
		ContainerNumber: c.ContainerNumber,
		Status:          string(c.Status),
		Suppliers:       suppliers,
		ShipDate:        formatDayPtr(c.ShipDate),
		DeliveryDate:    formatDayPtr(c.DeliveryDate),
		TotalValue:      c.TotalValue,
	}
	if c.Consignee != nil {
		dto.Consignee = &ConsigneeDTO{
			Name:           c.Consignee.Name,
			Company:        c.Consignee.Company,
			Location:       c.Consignee.Location,
			City:           c.Consignee.City,
			Country:        c.Consignee.Country,
			Email:          c.Consignee.Email,
			Phone:          c.Consignee.Phone,
			AdditionalInfo: c.Consignee.AdditionalInfo,
		}
	}
	return dto
}

func fromConsigneeDTO(dto *ConsigneeDTO) *ledger.Consignee {
	if dto == nil {
		return nil
	}
	return &ledger.Consignee{
		Name:           dto.Name,
		Company:        dto.Company,
		Location:       dto.Location,
		City:           dto.City,
		Country:        dto.Country,
		Email:          dto.Email,
		Phone:          dto.Phone,
		AdditionalInfo: dto.AdditionalInfo,
	}
}

func fromContainerSupplierDTOs(dtos []ContainerSupplierDTO) []ledger.ContainerSupplier {
	entries := make([]ledger.ContainerSupplier, len(dtos))
	for i, d := range dtos {
		entries[i] = ledger.ContainerSupplier{
			SupplierID:    ledger.SupplierID(d.SupplierID),
			SupplierName:  d.SupplierName,
			FruitType:     d.FruitType,
			Quantity:      d.Quantity,
			TransactionID: ledger.TransactionID(d.TransactionID),
			Amount:        d.Amount,
		}
	}
	return entries
}

func toSupplyDTO(s ledger.Supply) SupplyDTO {
	return SupplyDTO{
		ID:              string(s.ID),
		Date:            formatDay(s.Date),
		ContainerID:     string(s.ContainerID),
		ContainerNumber: s.ContainerNumber,
		SupplierID:      string(s.SupplierID),
		SupplierName:    s.SupplierName,
		Details:         s.Details,
		FruitType:       s.FruitType,
		Quantity:        s.Quantity,
		Price:           s.Price,
		TotalAmount:     s.TotalAmount,
		TransactionID:   string(s.TransactionID),
	}
}

func toPackagingItemDTO(item ledger.PackagingItem) PackagingItemDTO {
	return PackagingItemDTO{
		ID:            string(item.ID),
		Name:          item.Name,
		Category:      item.Category,
		Quantity:      item.Quantity,
		MinQuantity:   item.MinQuantity,
		Unit:          item.Unit,
		LastRestocked: formatDayPtr(item.LastRestocked),
		LowStock:      item.IsLowStock(),
	}
}

func toExpenseDTO(e ledger.Expense) ExpenseDTO {
	return ExpenseDTO{
		ID:          string(e.ID),
		Category:    string(e.Category),
		Description: e.Description,
		Amount:      e.Amount,
		Date:        formatDay(e.Date),
		SupplierID:  string(e.SupplierID),
		InvoiceID:   string(e.InvoiceID),
	}
}

func toStatsDTO(stats ledger.DashboardStats) StatsDTO {
	counts := make(map[string]int, len(stats.ContainerCounts))
	for status, n := range stats.ContainerCounts {
		counts[string(status)] = n
	}
	months := make([]MonthlyExpensePointDTO, len(stats.MonthlyExpenses))
	for i, p := range stats.MonthlyExpenses {
		months[i] = MonthlyExpensePointDTO{
			Month: time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01"),
			Total: p.Total,
		}
	}
	return StatsDTO{
		SupplierCount:        stats.SupplierCount,
		ContainerCounts:      counts,
		TotalPendingPayments: stats.TotalPendingPayments,
		TotalPaid:            stats.TotalPaid,
		LowStockCount:        stats.LowStockCount,
		MonthlyExpenses:      months,
	}
}
