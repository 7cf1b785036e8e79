package clients

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/worklog-hq/worklog/internal/models"
	"github.com/worklog-hq/worklog/internal/storage"
)

// Response helpers (local to avoid import cycle)
type errorResponse struct {
	Error errorBody `json:"error"`
}
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
type dataResponse struct {
	Data any `json:"data"`
}

const (
	errCodeBadRequest       = "BAD_REQUEST"
	errCodeValidationFailed = "VALIDATION_FAILED"
	errCodeNotFound         = "NOT_FOUND"
	errCodeConflict         = "CONFLICT"
	errCodeInternalError    = "INTERNAL_ERROR"
)

func jsonError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: errorBody{Code: code, Message: message}})
}

func jsonOK(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(dataResponse{Data: data})
}

func jsonCreated(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(dataResponse{Data: data})
}

func jsonNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// ClientResponse is the wire shape for a registry entry.
type ClientResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// Handler handles client registry endpoints.
type Handler struct {
	storage storage.Storage
}

// NewHandler creates a new client handler.
func NewHandler(store storage.Storage) *Handler {
	return &Handler{storage: store}
}

// CreateRequest is the request body for registering a client.
type CreateRequest struct {
	Name string `json:"name"`
}

// UpdateRequest is the request body for renaming a client.
// The slug never changes on rename, so report references stay intact.
type UpdateRequest struct {
	Name string `json:"name"`
}

// List returns all registered clients, any authenticated user.
// Employees need the registry to label their own report entries.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	clients, err := h.storage.Clients().List(ctx)
	if err != nil {
		log.Printf("list clients error: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}

	resp := make([]*ClientResponse, len(clients))
	for i, c := range clients {
		resp[i] = clientToResponse(c)
	}
	jsonOK(w, resp)
}

// Create registers a new client (admin only).
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, errCodeBadRequest, "invalid request body")
		return
	}

	if err := ValidateName(req.Name); err != nil {
		jsonError(w, http.StatusBadRequest, errCodeValidationFailed, err.Error())
		return
	}

	ctx := r.Context()
	slug := models.Slugify(req.Name)

	// Check name and slug uniqueness
	existing, err := h.storage.Clients().GetByName(ctx, strings.TrimSpace(req.Name))
	if err != nil {
		log.Printf("create client error: check name: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}
	if existing != nil {
		jsonError(w, http.StatusConflict, errCodeConflict, "client name already exists")
		return
	}

	existing, err = h.storage.Clients().GetBySlug(ctx, slug)
	if err != nil {
		log.Printf("create client error: check slug: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}
	if existing != nil {
		jsonError(w, http.StatusConflict, errCodeConflict, "client slug already exists")
		return
	}

	client := models.NewClient(req.Name, slug)
	client.ID = uuid.New().String()

	if err := h.storage.Clients().Create(ctx, client); err != nil {
		log.Printf("create client error: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}

	log.Printf("client created: %s (%s)", client.Name, client.Slug)
	jsonCreated(w, clientToResponse(client))
}

// GetByID returns a client by ID (admin only).
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		jsonError(w, http.StatusBadRequest, errCodeBadRequest, "client id required")
		return
	}

	ctx := r.Context()
	client, err := h.storage.Clients().GetByID(ctx, id)
	if err != nil {
		log.Printf("get client error: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}
	if client == nil {
		jsonError(w, http.StatusNotFound, errCodeNotFound, "client not found")
		return
	}

	jsonOK(w, clientToResponse(client))
}

// Update renames a client (admin only). The slug is preserved.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		jsonError(w, http.StatusBadRequest, errCodeBadRequest, "client id required")
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, errCodeBadRequest, "invalid request body")
		return
	}

	if err := ValidateName(req.Name); err != nil {
		jsonError(w, http.StatusBadRequest, errCodeValidationFailed, err.Error())
		return
	}

	ctx := r.Context()
	client, err := h.storage.Clients().GetByID(ctx, id)
	if err != nil {
		log.Printf("update client error: get: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}
	if client == nil {
		jsonError(w, http.StatusNotFound, errCodeNotFound, "client not found")
		return
	}

	// Check name uniqueness
	existing, err := h.storage.Clients().GetByName(ctx, strings.TrimSpace(req.Name))
	if err != nil {
		log.Printf("update client error: check name: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}
	if existing != nil && existing.ID != id {
		jsonError(w, http.StatusConflict, errCodeConflict, "client name already exists")
		return
	}

	client.Name = strings.TrimSpace(req.Name)
	client.UpdatedAt = time.Now()

	if err := h.storage.Clients().Update(ctx, client); err != nil {
		log.Printf("update client error: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}

	log.Printf("client updated: %s (%s)", client.Name, client.Slug)
	jsonOK(w, clientToResponse(client))
}

// Delete removes a client (admin only). A client referenced by any
// report cannot be deleted; the reports would lose their label.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		jsonError(w, http.StatusBadRequest, errCodeBadRequest, "client id required")
		return
	}

	ctx := r.Context()
	client, err := h.storage.Clients().GetByID(ctx, id)
	if err != nil {
		log.Printf("delete client error: get: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}
	if client == nil {
		jsonError(w, http.StatusNotFound, errCodeNotFound, "client not found")
		return
	}

	inUse, err := h.storage.Reports().CountByClientSlug(ctx, client.Slug)
	if err != nil {
		log.Printf("delete client error: count reports: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}
	if inUse > 0 {
		jsonError(w, http.StatusConflict, errCodeConflict, "client in use")
		return
	}

	if err := h.storage.Clients().Delete(ctx, id); err != nil {
		log.Printf("delete client error: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}

	log.Printf("client deleted: %s (%s)", client.Name, client.Slug)
	jsonNoContent(w)
}

func clientToResponse(c *models.Client) *ClientResponse {
	return &ClientResponse{
		ID:        c.ID,
		Name:      c.Name,
		Slug:      c.Slug,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
		UpdatedAt: c.UpdatedAt.Format(time.RFC3339),
	}
}
