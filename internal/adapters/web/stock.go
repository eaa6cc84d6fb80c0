package web

import (
	"net/http"

	"carniceria-backend/internal/app"
)

// getStock handles GET /api/stock.
func (h *Handler) getStock(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetStock(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// addBox handles POST /api/stock/products/{id}/boxes.
func (h *Handler) addBox(w http.ResponseWriter, r *http.Request) {
	productID, ok := urlID(w, r)
	if !ok {
		return
	}

	var body app.AddBoxRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	result, err := h.svc.AddBox(r.Context(), productID, body)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// updateBox handles PUT /api/stock/boxes/{id}.
func (h *Handler) updateBox(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	var body app.UpdateBoxRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	result, err := h.svc.UpdateBox(r.Context(), id, body)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// deleteBox handles DELETE /api/stock/boxes/{id}.
func (h *Handler) deleteBox(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteBox(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]string{"message": "Caja eliminada exitosamente"})
}

// clearStock handles DELETE /api/stock/all: removes every unconsumed box.
func (h *Handler) clearStock(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ClearStock(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{
		"message":      "Todo el stock eliminado exitosamente",
		"deletedCount": result.DeletedCount,
	})
}
