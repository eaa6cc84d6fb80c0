package web

import (
	"fmt"
	"net/http"

	"carniceria-backend/internal/app"
)

// listProducts handles GET /api/products.
func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListProducts(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Products)
}

// createProduct handles POST /api/products.
func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var body app.CreateProductRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	result, err := h.svc.CreateProduct(r.Context(), body)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, result.Product)
}

// updateProduct handles PUT /api/products/{id} and PUT /api/stock/products/{id}.
func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	var body app.UpdateProductRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	result, err := h.svc.UpdateProduct(r.Context(), id, body)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// deleteProduct handles DELETE /api/products/{id}. Requires {confirm:true}.
func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	if !confirmBody(w, r, "product") {
		return
	}

	if err := h.svc.DeleteProduct(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]string{"message": fmt.Sprintf("Product %d deleted.", id)})
}

// deleteAllProducts handles DELETE /api/products. Requires {confirm:true}.
func (h *Handler) deleteAllProducts(w http.ResponseWriter, r *http.Request) {
	if !confirmBody(w, r, "all products") {
		return
	}

	if err := h.svc.DeleteAllProducts(r.Context()); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]string{"message": "All products deleted."})
}
