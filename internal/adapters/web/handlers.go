package web

import (
	"net/http"
	"strconv"

	"carniceria-backend/internal/app"

	"github.com/go-chi/chi/v5"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc    app.ApplicationService
	router chi.Router
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, allowedOrigins string) http.Handler {
	h := &Handler{svc: svc}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(allowedOrigins))
	r.Use(RequestBodyLimit(4 << 20)) // 4 MB: bulk uploads carry whole box lists

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.health)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.listProducts)
			r.Post("/", h.createProduct)
			r.Put("/{id}", h.updateProduct)
			r.Delete("/", h.deleteAllProducts)
			r.Delete("/{id}", h.deleteProduct)
		})

		r.Route("/clients", func(r chi.Router) {
			r.Get("/", h.listClients)
			r.Post("/", h.createClient)
			r.Delete("/all", h.deleteAllClients)
			r.Delete("/{id}", h.deleteClient)
		})

		r.Route("/stock", func(r chi.Router) {
			r.Get("/", h.getStock)
			r.Put("/products/{id}", h.updateProduct)
			r.Post("/products/{id}/boxes", h.addBox)
			r.Put("/boxes/{id}", h.updateBox)
			r.Delete("/boxes/{id}", h.deleteBox)
			r.Delete("/all", h.clearStock)
		})

		r.Post("/orders", h.createOrder)
		r.Get("/invoices", h.listInvoices)

		r.Route("/upload", func(r chi.Router) {
			r.Post("/upload-boxes-json", h.uploadPreview)
			r.Post("/confirm-boxes-json", h.uploadConfirm)
		})
	})

	h.router = r
	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	writeJSON(w, response{Status: "ok", Message: "API is up and running"})
}

// urlID extracts and parses the {id} URL parameter. Writes a 400 response and
// returns false when it is not a number.
func urlID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, "invalid id", "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// confirmBody reads the {confirm:true} guard required by destructive routes.
// Writes a 400 response and returns false when the confirmation is absent.
func confirmBody(w http.ResponseWriter, r *http.Request, what string) bool {
	var body struct {
		Confirm bool `json:"confirm"`
	}
	if !decodeJSON(w, r, &body) {
		return false
	}
	if !body.Confirm {
		writeError(w, r,
			"Confirmation required to delete "+what+". Pass { confirm: true } in the body.",
			"BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
