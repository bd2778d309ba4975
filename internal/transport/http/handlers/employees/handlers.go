package employeeshandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"agreements/internal/domain/employee"
	"agreements/internal/transport/http/api"
	"agreements/internal/transport/http/middleware"
	"agreements/internal/transport/http/shared"
)

type Handler struct {
	Store *employee.Store
}

func NewHandler(store *employee.Store) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/employees", h.handleCreate)
	r.Get("/employees/{employeeID}/status", h.handleStatus)
}

type createPayload struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	FatherName   string `json:"fatherName"`
	Age          int    `json:"age"`
	Gender       string `json:"gender"`
	AadharNumber string `json:"aadharNumber"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city"`
	Pincode      string `json:"pincode"`

	JobTitle       string `json:"jobTitle"`
	JobDescription string `json:"jobDescription"`
	JoiningDate    string `json:"joiningDate"`
	Bonus          string `json:"bonus"`
	ClientName     string `json:"clientName"`
	ClientEmail    string `json:"clientEmail"`
	Manager        string `json:"manager"`

	AnnualGrossSalary float64 `json:"annualGrossSalary"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload createPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "bad_request", "invalid JSON payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("firstName", payload.FirstName, "first name is required")
	v.Required("lastName", payload.LastName, "last name is required")
	v.Required("email", payload.Email, "email is required")
	v.Email("email", payload.Email)
	v.Email("clientEmail", payload.ClientEmail)
	v.Required("joiningDate", payload.JoiningDate, "joining date is required")
	v.Date("joiningDate", payload.JoiningDate)
	v.Positive("annualGrossSalary", payload.AnnualGrossSalary, "annual gross salary must be positive")
	if v.Reject(w, requestID) {
		return
	}

	emp := &employee.Employee{
		FirstName:    strings.TrimSpace(payload.FirstName),
		LastName:     strings.TrimSpace(payload.LastName),
		Email:        strings.TrimSpace(payload.Email),
		FatherName:   payload.FatherName,
		Age:          payload.Age,
		Gender:       payload.Gender,
		AadharNumber: payload.AadharNumber,
		AddressLine1: payload.AddressLine1,
		AddressLine2: payload.AddressLine2,
		City:         payload.City,
		Pincode:      payload.Pincode,

		JobTitle:       payload.JobTitle,
		JobDescription: payload.JobDescription,
		JoiningDate:    payload.JoiningDate,
		LastDate:       employee.DeriveLastDate(payload.JoiningDate),
		Bonus:          payload.Bonus,
		ClientName:     payload.ClientName,
		ClientEmail:    payload.ClientEmail,
		Manager:        payload.Manager,

		AnnualGrossSalary: payload.AnnualGrossSalary,
		Salary:            employee.DeriveSalary(payload.AnnualGrossSalary),
	}

	id, err := h.Store.Create(r.Context(), emp)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "create_failed", "could not create employee", requestID)
		return
	}
	api.Created(w, map[string]any{"id": id, "agreementStatus": employee.AgreementStatusPending}, requestID)
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	emp, err := h.Store.Get(r.Context(), employeeID)
	if errors.Is(err, employee.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "lookup_failed", "could not load employee", requestID)
		return
	}

	api.Success(w, map[string]any{
		"id":                    emp.ID,
		"agreementStatus":       emp.AgreementStatus,
		"processingStartedAt":   emp.ProcessingStartedAt,
		"processingCompletedAt": emp.ProcessingCompletedAt,
		"pdfViewUrl":            emp.PDFViewURL,
		"pdfDownloadUrl":        emp.PDFDownloadURL,
		"signatureStatus":       emp.SignatureStatus,
	}, requestID)
}
