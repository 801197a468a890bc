/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. RealIP:     Client address behind proxies
  3. requestLog: Structured request logging (zerolog)
  4. Recoverer:  Panic recovery (500 instead of crash)
  5. CORS:       Cross-origin requests for the frontend

ROUTE GROUPS:
  /api/suppliers/*      Supplier management
  /api/transactions/*   Delivery transactions
  /api/invoices/*       Payment posting and preview
  /api/containers/*     Shipping containers
  /api/supplies/*       Supply records (transaction + container fan-out)
  /api/inventory/*      Packaging inventory and restocking
  /api/expenses/*       Expense ledger
  /api/reports/*        Dashboard stats and CSV exports

SECURITY NOTE:
  No authentication middleware. All endpoints are public; deploy behind
  a trusted boundary.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLog(h.Logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/suppliers", func(r chi.Router) {
			r.Get("/", h.ListSuppliers)
			r.Post("/", h.CreateSupplier)
			r.Get("/{id}", h.GetSupplier)
			r.Put("/{id}", h.UpdateSupplier)
			r.Delete("/{id}", h.DeleteSupplier)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", h.ListTransactions)
			r.Post("/", h.CreateTransaction)
			r.Get("/{id}", h.GetTransaction)
			r.Put("/{id}", h.UpdateTransaction)
			r.Delete("/{id}", h.DeleteTransaction)
		})

		r.Route("/invoices", func(r chi.Router) {
			r.Get("/", h.ListInvoices)
			r.Post("/", h.CreateInvoice)
			r.Get("/preview", h.PreviewInvoice)
			r.Get("/{id}", h.GetInvoice)
		})

		r.Route("/containers", func(r chi.Router) {
			r.Get("/", h.ListContainers)
			r.Post("/", h.CreateContainer)
			r.Get("/{id}", h.GetContainer)
			r.Put("/{id}", h.UpdateContainer)
			r.Delete("/{id}", h.DeleteContainer)
		})

		r.Route("/supplies", func(r chi.Router) {
			r.Get("/", h.ListSupplies)
			r.Post("/", h.CreateSupply)
			r.Get("/{id}", h.GetSupply)
			r.Put("/{id}", h.UpdateSupply)
			r.Delete("/{id}", h.DeleteSupply)
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/", h.ListPackagingItems)
			r.Post("/", h.CreatePackagingItem)
			r.Get("/{id}", h.GetPackagingItem)
			r.Put("/{id}", h.UpdatePackagingItem)
			r.Delete("/{id}", h.DeletePackagingItem)
			r.Post("/{id}/restock", h.RestockPackagingItem)
		})

		r.Route("/expenses", func(r chi.Router) {
			r.Get("/", h.ListExpenses)
			r.Post("/", h.CreateExpense)
			r.Get("/{id}", h.GetExpense)
			r.Put("/{id}", h.UpdateExpense)
			r.Delete("/{id}", h.DeleteExpense)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/stats", h.GetStats)
			r.Get("/suppliers.csv", h.ExportSuppliersCSV)
			r.Get("/transactions.csv", h.ExportTransactionsCSV)
			r.Get("/expenses.csv", h.ExportExpensesCSV)
			r.Get("/inventory.csv", h.ExportInventoryCSV)
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}

// requestLog emits one structured line per request.
func requestLog(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("request")
		})
	}
}
