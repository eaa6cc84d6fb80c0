package web

import (
	"fmt"
	"net/http"

	"carniceria-backend/internal/app"
)

// listClients handles GET /api/clients.
func (h *Handler) listClients(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListClients(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Clients)
}

// createClient handles POST /api/clients. Duplicate CUITs get HTTP 409.
func (h *Handler) createClient(w http.ResponseWriter, r *http.Request) {
	var body app.CreateClientRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	result, err := h.svc.CreateClient(r.Context(), body)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, result.Client)
}

// deleteAllClients handles DELETE /api/clients/all. The destructive path is
// deliberately disabled: the route answers but deletes nothing.
func (h *Handler) deleteAllClients(w http.ResponseWriter, r *http.Request) {
	if !confirmBody(w, r, "all clients") {
		return
	}
	writeJSON(w, map[string]string{"message": "No clients deleted."})
}

// deleteClient handles DELETE /api/clients/{id}. Requires {confirm:true}.
func (h *Handler) deleteClient(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	if !confirmBody(w, r, "client") {
		return
	}

	if err := h.svc.DeleteClient(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]string{"message": fmt.Sprintf("Client %d deleted.", id)})
}
