package agreementshandler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"agreements/internal/domain/agreement"
	"agreements/internal/platform/esign"
	"agreements/internal/platform/gdocs"
)

type fakeGenerator struct {
	gotID  string
	result *agreement.Result
	err    error
}

func (f *fakeGenerator) Generate(ctx context.Context, employeeID string) (*agreement.Result, error) {
	f.gotID = employeeID
	return f.result, f.err
}

func (f *fakeGenerator) RequestSignature(ctx context.Context, employeeID string) (esign.SignatureRequest, error) {
	return esign.SignatureRequest{}, f.err
}

func postGenerate(t *testing.T, svc Generator, body string) *httptest.ResponseRecorder {
	t.Helper()
	router := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(router)

	req := httptest.NewRequest(http.MethodPost, "/agreements/generate", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandleGenerateSuccess(t *testing.T) {
	svc := &fakeGenerator{result: &agreement.Result{EmployeeID: "emp-1", PDFURL: "https://blob.test/a.pdf"}}
	rec := postGenerate(t, svc, `{"employeeId":"emp-1"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.gotID != "emp-1" {
		t.Fatalf("expected employee id forwarded, got %q", svc.gotID)
	}

	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			PDFURL string `json:"pdfUrl"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Success || envelope.Data.PDFURL == "" {
		t.Fatalf("unexpected envelope: %s", rec.Body.String())
	}
}

func TestHandleGenerateAcceptsSnakeCaseID(t *testing.T) {
	svc := &fakeGenerator{result: &agreement.Result{EmployeeID: "emp-2"}}
	rec := postGenerate(t, svc, `{"employee_id":"emp-2","manual":true}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.gotID != "emp-2" {
		t.Fatalf("expected snake_case id accepted, got %q", svc.gotID)
	}
}

func TestHandleGenerateMissingID(t *testing.T) {
	rec := postGenerate(t, &fakeGenerator{}, `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandleGenerateErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{agreement.ErrEmployeeNotFound, http.StatusNotFound, "employee_not_found"},
		{agreement.ErrAlreadyProcessing, http.StatusConflict, "generation_in_progress"},
		{agreement.ErrNoTemplate, http.StatusUnprocessableEntity, "template_not_configured"},
		{&gdocs.AuthError{Reason: "rejected"}, http.StatusBadGateway, "provider_auth_failed"},
		{&agreement.RenderError{}, http.StatusInternalServerError, "generation_failed"},
	}

	for _, tc := range cases {
		rec := postGenerate(t, &fakeGenerator{err: tc.err}, `{"employeeId":"emp-1"}`)
		if rec.Code != tc.status {
			t.Fatalf("error %v: expected status %d, got %d", tc.err, tc.status, rec.Code)
		}
		var envelope struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if envelope.Error.Code != tc.code {
			t.Fatalf("error %v: expected code %q, got %q", tc.err, tc.code, envelope.Error.Code)
		}
	}
}

func TestHandleGenerateSurfacesWarnings(t *testing.T) {
	svc := &fakeGenerator{result: &agreement.Result{
		EmployeeID: "emp-1",
		Warnings:   []string{"agreement generated but audit record was not saved"},
	}}
	rec := postGenerate(t, svc, `{"employeeId":"emp-1"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var envelope struct {
		Warnings []string `json:"warnings"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Warnings) != 1 {
		t.Fatalf("expected warning in envelope, got %s", rec.Body.String())
	}
}
