package web

import (
	"net/http"

	"carniceria-backend/internal/app"
)

// createOrder handles POST /api/orders. The server derives totalKg and
// subtotal per line and creates the PENDING invoice alongside the order.
func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var body app.CreateOrderRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	result, err := h.svc.CreateOrder(r.Context(), body)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, result)
}

// listInvoices handles GET /api/invoices.
func (h *Handler) listInvoices(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListInvoices(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Invoices)
}
