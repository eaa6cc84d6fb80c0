package web

import (
	"encoding/json"
	"net/http"

	"carniceria-backend/internal/core"
)

// uploadRequest is the bulk upload payload: data[0] is the price table,
// the remaining elements are box rows.
type uploadRequest struct {
	Data []json.RawMessage `json:"data"`
}

type uploadResponse struct {
	Success bool               `json:"success"`
	Message string             `json:"message"`
	Results *core.UploadResult `json:"results"`
}

// uploadPreview handles POST /api/upload/upload-boxes-json: a read-only dry
// run. Invalid rows land in results.errors; the response is still 200.
func (h *Handler) uploadPreview(w http.ResponseWriter, r *http.Request) {
	var body uploadRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	results, err := h.svc.PreviewUpload(r.Context(), body.Data)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, uploadResponse{
		Success: true,
		Message: "Validación completada - Datos listos para confirmar",
		Results: results,
	})
}

// uploadConfirm handles POST /api/upload/confirm-boxes-json: applies the
// dataset. Per-item failures are recorded in results.errors; work already
// done is not rolled back.
func (h *Handler) uploadConfirm(w http.ResponseWriter, r *http.Request) {
	var body uploadRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	results, err := h.svc.ConfirmUpload(r.Context(), body.Data)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, uploadResponse{
		Success: true,
		Message: "Procesamiento completado",
		Results: results,
	})
}
