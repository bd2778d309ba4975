package agreement

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"agreements/internal/domain/employee"
	"agreements/internal/domain/templates"
	"agreements/internal/platform/esign"
	"agreements/internal/platform/gdocs"
)

type fakeStore struct {
	employees map[string]*employee.Employee
	template  *templates.CompanyTemplate

	records      []GenerationRecord
	insertErr    error
	signature    [3]string
	markedFailed bool
}

func newFakeStore(emps ...*employee.Employee) *fakeStore {
	store := &fakeStore{employees: map[string]*employee.Employee{}}
	for _, emp := range emps {
		store.employees[emp.ID] = emp
	}
	return store
}

func (f *fakeStore) GetEmployee(ctx context.Context, id string) (*employee.Employee, error) {
	emp, ok := f.employees[id]
	if !ok {
		return nil, ErrEmployeeNotFound
	}
	return emp, nil
}

func (f *fakeStore) MarkProcessing(ctx context.Context, id string, startedAt time.Time) (bool, error) {
	emp, ok := f.employees[id]
	if !ok {
		return false, nil
	}
	if emp.AgreementStatus == employee.AgreementStatusProcessing {
		return false, nil
	}
	emp.AgreementStatus = employee.AgreementStatusProcessing
	emp.ProcessingStartedAt = &startedAt
	return true, nil
}

func (f *fakeStore) MarkCompleted(ctx context.Context, id, viewURL, downloadURL string, completedAt time.Time) error {
	emp, ok := f.employees[id]
	if !ok {
		return ErrEmployeeNotFound
	}
	emp.AgreementStatus = employee.AgreementStatusCompleted
	emp.PDFViewURL = viewURL
	emp.PDFDownloadURL = downloadURL
	emp.ProcessingCompletedAt = &completedAt
	return nil
}

func (f *fakeStore) MarkFailed(ctx context.Context, id string, completedAt time.Time) error {
	f.markedFailed = true
	if emp, ok := f.employees[id]; ok {
		emp.AgreementStatus = employee.AgreementStatusFailed
		emp.ProcessingCompletedAt = &completedAt
	}
	return nil
}

func (f *fakeStore) ActiveTemplateForCompany(ctx context.Context, companyName string) (*templates.CompanyTemplate, error) {
	if f.template != nil && strings.EqualFold(f.template.CompanyName, companyName) && f.template.Active {
		return f.template, nil
	}
	return nil, nil
}

func (f *fakeStore) InsertGenerationRecord(ctx context.Context, record GenerationRecord) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.records = append(f.records, record)
	return nil
}

func (f *fakeStore) UpdateSignature(ctx context.Context, id, status, requestID, docID string) error {
	if _, ok := f.employees[id]; !ok {
		return ErrEmployeeNotFound
	}
	f.signature = [3]string{status, requestID, docID}
	return nil
}

type fakeProvider struct {
	copiedFrom string
	replaced   map[string]string
	deleted    []string

	copyErr    error
	replaceErr error
	exportErr  error
	deleteErr  error
}

func (f *fakeProvider) CopyDocument(ctx context.Context, sourceID, newTitle string) (string, error) {
	if f.copyErr != nil {
		return "", f.copyErr
	}
	f.copiedFrom = sourceID
	return "copy-of-" + sourceID, nil
}

func (f *fakeProvider) BatchReplaceText(ctx context.Context, docID string, mapping map[string]string) (gdocs.ReplaceSummary, error) {
	if f.replaceErr != nil {
		return gdocs.ReplaceSummary{}, f.replaceErr
	}
	f.replaced = mapping
	return gdocs.ReplaceSummary{Replaced: len(mapping)}, nil
}

func (f *fakeProvider) ExportPDF(ctx context.Context, docID string) ([]byte, error) {
	if f.exportErr != nil {
		return nil, f.exportErr
	}
	return []byte("%PDF-1.4 provider"), nil
}

func (f *fakeProvider) DeleteDocument(ctx context.Context, docID string) error {
	f.deleted = append(f.deleted, docID)
	return f.deleteErr
}

type fakeBlobs struct {
	uploads map[string][]byte
	err     error
}

func (f *fakeBlobs) Upload(ctx context.Context, name string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	if f.uploads == nil {
		f.uploads = map[string][]byte{}
	}
	f.uploads[name] = data
	return nil
}

func (f *fakeBlobs) PublicURL(name string) string   { return "https://blob.test/" + name }
func (f *fakeBlobs) DownloadURL(name string) string { return "https://blob.test/" + name + "?download" }

func testService(store StoreAPI, provider DocumentProvider, defaultTemplateID string) (*Service, *fakeBlobs) {
	blobs := &fakeBlobs{}
	svc := NewService(store, provider, blobs, defaultTemplateID)
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	calls := 0
	svc.now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls-1) * 2 * time.Second)
	}
	return svc, blobs
}

func TestGenerateUsesCustomCompanyTemplate(t *testing.T) {
	emp := sampleEmployee()
	store := newFakeStore(emp)
	store.template = &templates.CompanyTemplate{CompanyName: "ACME CORP", DocumentID: "doc-custom", Active: true}
	provider := &fakeProvider{}
	svc, _ := testService(store, provider, "doc-default")

	result, err := svc.Generate(context.Background(), emp.ID)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if result.TemplateSource != TemplateSourceCustom {
		t.Fatalf("expected custom template source, got %q", result.TemplateSource)
	}
	if provider.copiedFrom != "doc-custom" {
		t.Fatalf("expected custom document id used, got %q", provider.copiedFrom)
	}
	if emp.AgreementStatus != employee.AgreementStatusCompleted {
		t.Fatalf("expected completed status, got %q", emp.AgreementStatus)
	}
}

func TestGenerateFallsBackToDefaultTemplate(t *testing.T) {
	emp := sampleEmployee()
	emp.ClientName = ""
	store := newFakeStore(emp)
	provider := &fakeProvider{}
	svc, _ := testService(store, provider, "doc-default")

	result, err := svc.Generate(context.Background(), emp.ID)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if result.TemplateSource != TemplateSourceDefault {
		t.Fatalf("expected default template source, got %q", result.TemplateSource)
	}
	if provider.copiedFrom != "doc-default" {
		t.Fatalf("expected default document id used, got %q", provider.copiedFrom)
	}
}

func TestGenerateNoTemplateConfigured(t *testing.T) {
	emp := sampleEmployee()
	emp.ClientName = ""
	store := newFakeStore(emp)
	svc, _ := testService(store, &fakeProvider{}, "")

	_, err := svc.Generate(context.Background(), emp.ID)
	if !errors.Is(err, ErrNoTemplate) {
		t.Fatalf("expected ErrNoTemplate, got %v", err)
	}
	if emp.AgreementStatus != employee.AgreementStatusFailed {
		t.Fatalf("expected failed status, got %q", emp.AgreementStatus)
	}
}

func TestGenerateFallsBackToLocalRenderer(t *testing.T) {
	emp := sampleEmployee()
	store := newFakeStore(emp)
	provider := &fakeProvider{exportErr: &gdocs.ProviderError{Op: "export", Status: http.StatusBadGateway, Body: "upstream down"}}
	svc, blobs := testService(store, provider, "doc-default")

	result, err := svc.Generate(context.Background(), emp.ID)
	if err != nil {
		t.Fatalf("generate should succeed via fallback: %v", err)
	}
	if result.RenderPath != RenderPathFallback {
		t.Fatalf("expected fallback render path, got %q", result.RenderPath)
	}
	if emp.AgreementStatus != employee.AgreementStatusCompleted {
		t.Fatalf("expected completed status, got %q", emp.AgreementStatus)
	}

	pdf := blobs.uploads[result.FileName]
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatal("expected a locally rendered PDF byte stream")
	}
	if len(provider.deleted) != 1 {
		t.Fatalf("temporary copy must be cleaned up even when export fails, deleted=%v", provider.deleted)
	}
}

func TestGenerateDeleteFailureDoesNotMaskSuccess(t *testing.T) {
	emp := sampleEmployee()
	store := newFakeStore(emp)
	provider := &fakeProvider{deleteErr: &gdocs.ProviderError{Op: "delete", Status: http.StatusForbidden, Body: "nope"}}
	svc, _ := testService(store, provider, "doc-default")

	result, err := svc.Generate(context.Background(), emp.ID)
	if err != nil {
		t.Fatalf("delete failure must not fail the request: %v", err)
	}
	if result.RenderPath != RenderPathProvider {
		t.Fatalf("expected provider path, got %q", result.RenderPath)
	}
}

func TestGenerateAuthErrorIsFatal(t *testing.T) {
	emp := sampleEmployee()
	store := newFakeStore(emp)
	provider := &fakeProvider{copyErr: &gdocs.AuthError{Reason: "credential rejected"}}
	svc, _ := testService(store, provider, "doc-default")

	_, err := svc.Generate(context.Background(), emp.ID)
	var authErr *gdocs.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthError to surface, got %v", err)
	}
	if emp.AgreementStatus != employee.AgreementStatusFailed {
		t.Fatalf("expected failed status, got %q", emp.AgreementStatus)
	}
}

func TestGenerateEmployeeNotFound(t *testing.T) {
	store := newFakeStore()
	svc, _ := testService(store, &fakeProvider{}, "doc-default")

	_, err := svc.Generate(context.Background(), "nope")
	if !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
	if store.markedFailed {
		t.Fatal("a missing employee has no row to mark failed")
	}
}

func TestGenerateRejectsConcurrentRun(t *testing.T) {
	emp := sampleEmployee()
	emp.AgreementStatus = employee.AgreementStatusProcessing
	store := newFakeStore(emp)
	svc, _ := testService(store, &fakeProvider{}, "doc-default")

	_, err := svc.Generate(context.Background(), emp.ID)
	if !errors.Is(err, ErrAlreadyProcessing) {
		t.Fatalf("expected ErrAlreadyProcessing, got %v", err)
	}
	if store.markedFailed {
		t.Fatal("the competing run owns the status row")
	}
}

func TestGenerateAuditFailureIsNonFatal(t *testing.T) {
	emp := sampleEmployee()
	store := newFakeStore(emp)
	store.insertErr = fmt.Errorf("audit table unavailable")
	svc, _ := testService(store, &fakeProvider{}, "doc-default")

	result, err := svc.Generate(context.Background(), emp.ID)
	if err != nil {
		t.Fatalf("audit failure must not fail generation: %v", err)
	}
	if len(result.Warnings) == 0 {
		t.Fatal("expected a warning surfaced for the lost audit record")
	}
	if emp.AgreementStatus != employee.AgreementStatusCompleted {
		t.Fatalf("expected completed status, got %q", emp.AgreementStatus)
	}
}

func TestGenerateRecordsAuditSnapshot(t *testing.T) {
	emp := sampleEmployee()
	store := newFakeStore(emp)
	svc, _ := testService(store, &fakeProvider{}, "doc-default")

	result, err := svc.Generate(context.Background(), emp.ID)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(store.records) != 1 {
		t.Fatalf("expected one audit record, got %d", len(store.records))
	}
	record := store.records[0]
	if record.Salary != emp.Salary {
		t.Fatal("audit record should snapshot the salary breakdown")
	}
	if record.DurationSecs != result.ProcessingSeconds {
		t.Fatalf("duration mismatch: %d vs %d", record.DurationSecs, result.ProcessingSeconds)
	}
	if result.ProcessingSeconds <= 0 {
		t.Fatalf("expected whole-second processing duration, got %d", result.ProcessingSeconds)
	}
}

type fakeSigner struct {
	request esign.SignatureRequest
	err     error
	gotURL  string
}

func (f *fakeSigner) CreateSignatureRequest(ctx context.Context, title, pdfURL string, signers []esign.Signer) (esign.SignatureRequest, error) {
	f.gotURL = pdfURL
	if f.err != nil {
		return esign.SignatureRequest{}, f.err
	}
	return f.request, nil
}

func TestRequestSignature(t *testing.T) {
	emp := sampleEmployee()
	emp.AgreementStatus = employee.AgreementStatusCompleted
	emp.PDFDownloadURL = "https://blob.test/agreement.pdf"
	store := newFakeStore(emp)

	signer := &fakeSigner{request: esign.SignatureRequest{RequestID: "req-1", DocumentID: "sig-doc-1"}}
	svc, _ := testService(store, &fakeProvider{}, "doc-default")
	svc.WithSignatureProvider(signer)

	request, err := svc.RequestSignature(context.Background(), emp.ID)
	if err != nil {
		t.Fatalf("request signature: %v", err)
	}
	if request.RequestID != "req-1" {
		t.Fatalf("unexpected request id %q", request.RequestID)
	}
	if signer.gotURL != emp.PDFDownloadURL {
		t.Fatalf("signer should receive the hosted PDF URL, got %q", signer.gotURL)
	}
	if store.signature != [3]string{employee.SignatureStatusSent, "req-1", "sig-doc-1"} {
		t.Fatalf("signature state not persisted: %v", store.signature)
	}
}

func TestRequestSignatureBeforeGeneration(t *testing.T) {
	emp := sampleEmployee()
	store := newFakeStore(emp)
	svc, _ := testService(store, &fakeProvider{}, "doc-default")
	svc.WithSignatureProvider(&fakeSigner{})

	if _, err := svc.RequestSignature(context.Background(), emp.ID); err == nil {
		t.Fatal("expected an error when no agreement has been generated")
	}
}

func TestRequestSignatureProviderFailure(t *testing.T) {
	emp := sampleEmployee()
	emp.AgreementStatus = employee.AgreementStatusCompleted
	emp.PDFDownloadURL = "https://blob.test/agreement.pdf"
	store := newFakeStore(emp)

	svc, _ := testService(store, &fakeProvider{}, "doc-default")
	svc.WithSignatureProvider(&fakeSigner{err: fmt.Errorf("provider down")})

	if _, err := svc.RequestSignature(context.Background(), emp.ID); err == nil {
		t.Fatal("expected provider failure to surface")
	}
	if store.signature[0] != employee.SignatureStatusFailed {
		t.Fatalf("expected failed signature status persisted, got %q", store.signature[0])
	}
}
