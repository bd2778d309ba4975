package agreement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"agreements/internal/domain/employee"
	"agreements/internal/platform/esign"
	"agreements/internal/platform/gdocs"
	"agreements/internal/platform/metrics"
)

// DocumentProvider is the remote copy/substitute/export/delete surface.
type DocumentProvider interface {
	CopyDocument(ctx context.Context, sourceID, newTitle string) (string, error)
	BatchReplaceText(ctx context.Context, docID string, mapping map[string]string) (gdocs.ReplaceSummary, error)
	ExportPDF(ctx context.Context, docID string) ([]byte, error)
	DeleteDocument(ctx context.Context, docID string) error
}

// BlobStore hosts the generated PDFs.
type BlobStore interface {
	Upload(ctx context.Context, name string, data []byte) error
	PublicURL(name string) string
	DownloadURL(name string) string
}

// SignatureProvider opens multi-party signature requests over hosted PDFs.
type SignatureProvider interface {
	CreateSignatureRequest(ctx context.Context, title, pdfURL string, signers []esign.Signer) (esign.SignatureRequest, error)
}

// Mailer mirrors the platform email interface without importing it.
type Mailer interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

// Service drives one generation request end to end: claim the employee
// row, resolve a template, run the provider pipeline (or fall back to the
// local renderer), upload the PDF, and persist the outcome.
type Service struct {
	store     StoreAPI
	provider  DocumentProvider
	blobs     BlobStore
	signer    SignatureProvider
	mailer    Mailer
	collector *metrics.Collector

	defaultTemplateID string
	emailFrom         string

	now    func() time.Time
	render func(text string) ([]byte, error)
}

func NewService(store StoreAPI, provider DocumentProvider, blobs BlobStore, defaultTemplateID string) *Service {
	return &Service{
		store:             store,
		provider:          provider,
		blobs:             blobs,
		defaultTemplateID: defaultTemplateID,
		now:               time.Now,
		render:            RenderPDF,
	}
}

func (s *Service) WithSignatureProvider(signer SignatureProvider) *Service {
	s.signer = signer
	return s
}

func (s *Service) WithMailer(mailer Mailer, from string) *Service {
	s.mailer = mailer
	s.emailFrom = from
	return s
}

func (s *Service) WithMetrics(collector *metrics.Collector) *Service {
	s.collector = collector
	return s
}

// Generate runs the full pipeline for one employee id. The employee's
// persisted status is the single source of truth for polling clients;
// the returned Result is the immediate response for the trigger call.
func (s *Service) Generate(ctx context.Context, employeeID string) (*Result, error) {
	start := s.now()

	claimed, err := s.store.MarkProcessing(ctx, employeeID, start)
	if err != nil {
		return nil, fmt.Errorf("claiming employee %s: %w", employeeID, err)
	}
	if !claimed {
		// Either the row does not exist or another request holds it.
		if _, err := s.store.GetEmployee(ctx, employeeID); err != nil {
			return nil, err
		}
		return nil, ErrAlreadyProcessing
	}

	emp, err := s.store.GetEmployee(ctx, employeeID)
	if err != nil {
		s.fail(ctx, employeeID, start)
		return nil, err
	}

	templateID, templateSource, err := s.resolveTemplate(ctx, emp)
	if err != nil {
		s.fail(ctx, employeeID, start)
		return nil, err
	}

	mapping := PlaceholderMap(emp, start)
	title := fmt.Sprintf("Agreement - %s %s - %s", emp.FirstName, emp.LastName, emp.ID)

	renderPath := RenderPathProvider
	pdf, err := s.generateWithProvider(ctx, templateID, title, mapping)
	if err != nil {
		var authErr *gdocs.AuthError
		if errors.As(err, &authErr) {
			// Credential problems are fatal for the attempt; retrying the
			// same exchange locally would not produce a better document.
			s.fail(ctx, employeeID, start)
			return nil, err
		}
		if s.collector != nil {
			s.collector.RecordProviderError()
		}
		slog.Warn("provider generation failed, using fallback renderer", "employeeId", employeeID, "err", err)

		renderPath = RenderPathFallback
		pdf, err = s.renderFallback(mapping, err)
		if err != nil {
			s.fail(ctx, employeeID, start)
			return nil, err
		}
		if s.collector != nil {
			s.collector.RecordFallback()
		}
	}

	fileName := agreementFileName(emp)
	if err := s.blobs.Upload(ctx, fileName, pdf); err != nil {
		s.fail(ctx, employeeID, start)
		return nil, fmt.Errorf("uploading agreement PDF: %w", err)
	}
	viewURL := s.blobs.PublicURL(fileName)
	downloadURL := s.blobs.DownloadURL(fileName)

	completed := s.now()
	durationSecs := int64(completed.Sub(start).Seconds())

	if err := s.store.MarkCompleted(ctx, employeeID, viewURL, downloadURL, completed); err != nil {
		s.fail(ctx, employeeID, start)
		return nil, fmt.Errorf("persisting completion: %w", err)
	}

	result := &Result{
		EmployeeID:        employeeID,
		PDFURL:            downloadURL,
		PDFViewURL:        viewURL,
		FileName:          fileName,
		TemplateSource:    templateSource,
		RenderPath:        renderPath,
		ProcessingSeconds: durationSecs,
	}

	record := GenerationRecord{
		EmployeeID:     employeeID,
		FileName:       fileName,
		DownloadURL:    downloadURL,
		Status:         employee.AgreementStatusCompleted,
		DurationSecs:   durationSecs,
		TemplateSource: templateSource,
		RenderPath:     renderPath,
		Salary:         emp.Salary,
	}
	if err := s.store.InsertGenerationRecord(ctx, record); err != nil {
		slog.Warn("audit record write failed", "employeeId", employeeID, "err", err)
		if s.collector != nil {
			s.collector.RecordAuditWriteError()
		}
		result.Warnings = append(result.Warnings, "agreement generated but audit record was not saved")
	}

	if s.collector != nil {
		s.collector.RecordGeneration(durationSecs, false)
	}
	s.notify(ctx, emp, downloadURL)

	return result, nil
}

// resolveTemplate picks the document id in priority order: an active
// company template for the employee's client, then the configured
// default. Having neither is a configuration error, distinct from
// generation failures.
func (s *Service) resolveTemplate(ctx context.Context, emp *employee.Employee) (string, string, error) {
	if strings.TrimSpace(emp.ClientName) != "" {
		tpl, err := s.store.ActiveTemplateForCompany(ctx, emp.ClientName)
		if err != nil {
			return "", "", fmt.Errorf("looking up company template: %w", err)
		}
		if tpl != nil {
			return tpl.DocumentID, TemplateSourceCustom, nil
		}
	}
	if s.defaultTemplateID != "" {
		return s.defaultTemplateID, TemplateSourceDefault, nil
	}
	return "", "", ErrNoTemplate
}

// generateWithProvider runs copy -> substitute -> export against the
// provider. The temporary copy is deleted whether or not export
// succeeded, and a delete failure never masks the pipeline error.
func (s *Service) generateWithProvider(ctx context.Context, templateID, title string, mapping map[string]string) ([]byte, error) {
	if s.provider == nil {
		return nil, &gdocs.ProviderError{Op: "copy", Status: 0, Body: "document provider is not configured"}
	}

	docID, err := s.provider.CopyDocument(ctx, templateID, title)
	if err != nil {
		return nil, err
	}
	defer func() {
		if delErr := s.provider.DeleteDocument(ctx, docID); delErr != nil {
			slog.Warn("temporary document cleanup failed", "docId", docID, "err", delErr)
		}
	}()

	if _, err := s.provider.BatchReplaceText(ctx, docID, mapping); err != nil {
		return nil, err
	}
	return s.provider.ExportPDF(ctx, docID)
}

func (s *Service) renderFallback(mapping map[string]string, providerErr error) ([]byte, error) {
	pdf, err := s.render(FallbackText(mapping))
	if err != nil {
		var renderErr *RenderError
		if errors.As(err, &renderErr) {
			renderErr.ProviderErr = providerErr
			return nil, renderErr
		}
		return nil, &RenderError{Err: err, ProviderErr: providerErr}
	}
	return pdf, nil
}

// fail persists the failed state best-effort; the triggering error is
// what the caller sees, so a failed status write is only logged.
func (s *Service) fail(ctx context.Context, employeeID string, start time.Time) {
	completed := s.now()
	if err := s.store.MarkFailed(ctx, employeeID, completed); err != nil {
		slog.Warn("persisting failed status", "employeeId", employeeID, "err", err)
	}
	if s.collector != nil {
		s.collector.RecordGeneration(int64(completed.Sub(start).Seconds()), true)
	}
}

func (s *Service) notify(ctx context.Context, emp *employee.Employee, downloadURL string) {
	if s.mailer == nil || strings.TrimSpace(emp.ClientEmail) == "" {
		return
	}
	subject := fmt.Sprintf("Employment agreement ready: %s %s", emp.FirstName, emp.LastName)
	body := fmt.Sprintf("The employment agreement for %s %s has been generated.\n\nDownload: %s\n", emp.FirstName, emp.LastName, downloadURL)
	if err := s.mailer.Send(ctx, s.emailFrom, emp.ClientEmail, subject, body); err != nil {
		slog.Warn("agreement-ready email failed", "employeeId", emp.ID, "err", err)
	}
}

// RequestSignature registers the completed agreement with the e-signature
// provider and records the request ids on the employee row.
func (s *Service) RequestSignature(ctx context.Context, employeeID string) (esign.SignatureRequest, error) {
	if s.signer == nil {
		return esign.SignatureRequest{}, fmt.Errorf("e-signature provider is not configured")
	}

	emp, err := s.store.GetEmployee(ctx, employeeID)
	if err != nil {
		return esign.SignatureRequest{}, err
	}
	if emp.AgreementStatus != employee.AgreementStatusCompleted || emp.PDFDownloadURL == "" {
		return esign.SignatureRequest{}, fmt.Errorf("agreement for employee %s is not generated yet", employeeID)
	}

	title := fmt.Sprintf("Employment Agreement - %s %s", emp.FirstName, emp.LastName)
	signers := []esign.Signer{
		{Name: strings.TrimSpace(emp.FirstName + " " + emp.LastName), Email: emp.Email},
		{Name: emp.ClientName, Email: emp.ClientEmail},
	}
	request, err := s.signer.CreateSignatureRequest(ctx, title, emp.PDFDownloadURL, signers)
	if err != nil {
		if updErr := s.store.UpdateSignature(ctx, employeeID, employee.SignatureStatusFailed, "", ""); updErr != nil {
			slog.Warn("persisting signature failure", "employeeId", employeeID, "err", updErr)
		}
		return esign.SignatureRequest{}, err
	}

	if err := s.store.UpdateSignature(ctx, employeeID, employee.SignatureStatusSent, request.RequestID, request.DocumentID); err != nil {
		return esign.SignatureRequest{}, fmt.Errorf("persisting signature request: %w", err)
	}
	return request, nil
}

var fileNameSanitizer = regexp.MustCompile(`[^a-z0-9]+`)

// agreementFileName derives a deterministic blob name from the employee's
// name and id.
func agreementFileName(emp *employee.Employee) string {
	first := fileNameSanitizer.ReplaceAllString(strings.ToLower(emp.FirstName), "_")
	last := fileNameSanitizer.ReplaceAllString(strings.ToLower(emp.LastName), "_")
	return fmt.Sprintf("agreement_%s_%s_%s.pdf", strings.Trim(first, "_"), strings.Trim(last, "_"), emp.ID)
}
