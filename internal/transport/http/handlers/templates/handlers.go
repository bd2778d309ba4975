package templateshandler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"agreements/internal/domain/templates"
	"agreements/internal/transport/http/api"
	"agreements/internal/transport/http/middleware"
	"agreements/internal/transport/http/shared"
)

// DocumentReader previews a remote template's text so operators can
// check its placeholder tokens before registering it.
type DocumentReader interface {
	GetDocumentText(ctx context.Context, docID string) (string, error)
}

type Handler struct {
	Store *templates.Store
	Docs  DocumentReader
}

func NewHandler(store *templates.Store, docs DocumentReader) *Handler {
	return &Handler{Store: store, Docs: docs}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Put("/templates", h.handleUpsert)
	r.Get("/templates", h.handleList)
	r.Get("/templates/{documentID}/preview", h.handlePreview)
}

type upsertPayload struct {
	CompanyName string `json:"companyName"`
	DocumentID  string `json:"documentId"`
	DocumentURL string `json:"documentUrl"`
	DisplayName string `json:"displayName"`
	Active      *bool  `json:"active"`
}

func (h *Handler) handleUpsert(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload upsertPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "bad_request", "invalid JSON payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("companyName", payload.CompanyName, "company name is required")
	v.Required("documentId", payload.DocumentID, "document id is required")
	if v.Reject(w, requestID) {
		return
	}

	active := true
	if payload.Active != nil {
		active = *payload.Active
	}

	tpl := templates.CompanyTemplate{
		CompanyName: strings.TrimSpace(payload.CompanyName),
		DocumentID:  strings.TrimSpace(payload.DocumentID),
		DocumentURL: payload.DocumentURL,
		DisplayName: payload.DisplayName,
		Active:      active,
	}

	id, err := h.Store.Upsert(r.Context(), tpl)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "upsert_failed", "could not save template", requestID)
		return
	}
	api.Success(w, map[string]any{"id": id}, requestID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	list, err := h.Store.List(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "could not list templates", requestID)
		return
	}
	api.Success(w, list, requestID)
}

func (h *Handler) handlePreview(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	documentID := chi.URLParam(r, "documentID")

	if h.Docs == nil {
		api.Fail(w, http.StatusServiceUnavailable, "provider_not_configured", "document provider is not configured", requestID)
		return
	}

	text, err := h.Docs.GetDocumentText(r.Context(), documentID)
	if err != nil {
		api.Fail(w, http.StatusBadGateway, "preview_failed", err.Error(), requestID)
		return
	}
	api.Success(w, map[string]any{"documentId": documentID, "text": text}, requestID)
}
