package agreementshandler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"agreements/internal/domain/agreement"
	"agreements/internal/platform/esign"
	"agreements/internal/platform/gdocs"
	"agreements/internal/transport/http/api"
	"agreements/internal/transport/http/middleware"
)

// Generator is the slice of the agreement service the handler needs.
type Generator interface {
	Generate(ctx context.Context, employeeID string) (*agreement.Result, error)
	RequestSignature(ctx context.Context, employeeID string) (esign.SignatureRequest, error)
}

type Handler struct {
	Service Generator
}

func NewHandler(service Generator) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/agreements/generate", h.handleGenerate)
	r.Post("/agreements/{employeeID}/signature", h.handleRequestSignature)
}

// generatePayload accepts the employee id under both historical field
// names; clients predating the rename still send employee_id.
type generatePayload struct {
	EmployeeID    string `json:"employeeId"`
	EmployeeIDAlt string `json:"employee_id"`
	Manual        bool   `json:"manual"`
}

func (p generatePayload) id() string {
	if strings.TrimSpace(p.EmployeeID) != "" {
		return strings.TrimSpace(p.EmployeeID)
	}
	return strings.TrimSpace(p.EmployeeIDAlt)
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload generatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "bad_request", "invalid JSON payload", requestID)
		return
	}
	employeeID := payload.id()
	if employeeID == "" {
		api.Fail(w, http.StatusBadRequest, "bad_request", "employeeId is required", requestID)
		return
	}

	result, err := h.Service.Generate(r.Context(), employeeID)
	if err != nil {
		status, code := classifyGenerateError(err)
		api.Fail(w, status, code, err.Error(), requestID)
		return
	}

	if len(result.Warnings) > 0 {
		api.SuccessWithWarnings(w, result, result.Warnings, requestID)
		return
	}
	api.Success(w, result, requestID)
}

func classifyGenerateError(err error) (int, string) {
	var authErr *gdocs.AuthError
	switch {
	case errors.Is(err, agreement.ErrEmployeeNotFound):
		return http.StatusNotFound, "employee_not_found"
	case errors.Is(err, agreement.ErrAlreadyProcessing):
		return http.StatusConflict, "generation_in_progress"
	case errors.Is(err, agreement.ErrNoTemplate):
		return http.StatusUnprocessableEntity, "template_not_configured"
	case errors.As(err, &authErr):
		return http.StatusBadGateway, "provider_auth_failed"
	default:
		return http.StatusInternalServerError, "generation_failed"
	}
}

func (h *Handler) handleRequestSignature(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	request, err := h.Service.RequestSignature(r.Context(), employeeID)
	if err != nil {
		if errors.Is(err, agreement.ErrEmployeeNotFound) {
			api.Fail(w, http.StatusNotFound, "employee_not_found", err.Error(), requestID)
			return
		}
		api.Fail(w, http.StatusBadGateway, "signature_request_failed", err.Error(), requestID)
		return
	}
	api.Success(w, request, requestID)
}
