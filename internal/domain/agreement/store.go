package agreement

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"agreements/internal/domain/employee"
	"agreements/internal/domain/templates"
	"agreements/internal/platform/crypto"
)

type Store struct {
	DB        *pgxpool.Pool
	employees *employee.Store
	templates *templates.Store
}

func NewStore(db *pgxpool.Pool, cipher *crypto.Cipher) *Store {
	return &Store{
		DB:        db,
		employees: employee.NewStore(db, cipher),
		templates: templates.NewStore(db),
	}
}

func (s *Store) GetEmployee(ctx context.Context, id string) (*employee.Employee, error) {
	emp, err := s.employees.Get(ctx, id)
	if errors.Is(err, employee.ErrNotFound) {
		return nil, ErrEmployeeNotFound
	}
	return emp, err
}

func (s *Store) MarkProcessing(ctx context.Context, id string, startedAt time.Time) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET agreement_status = $2,
        processing_started_at = $3,
        processing_completed_at = NULL,
        updated_at = now()
    WHERE id = $1 AND agreement_status <> $2
  `, id, employee.AgreementStatusProcessing, startedAt)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) MarkCompleted(ctx context.Context, id, viewURL, downloadURL string, completedAt time.Time) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET agreement_status = $2,
        pdf_view_url = $3,
        pdf_download_url = $4,
        processing_completed_at = $5,
        updated_at = now()
    WHERE id = $1
  `, id, employee.AgreementStatusCompleted, viewURL, downloadURL, completedAt)
	return err
}

func (s *Store) MarkFailed(ctx context.Context, id string, completedAt time.Time) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET agreement_status = $2,
        processing_completed_at = $3,
        updated_at = now()
    WHERE id = $1
  `, id, employee.AgreementStatusFailed, completedAt)
	return err
}

func (s *Store) ActiveTemplateForCompany(ctx context.Context, companyName string) (*templates.CompanyTemplate, error) {
	tpl, err := s.templates.FindActiveByCompany(ctx, companyName)
	if errors.Is(err, templates.ErrNotFound) {
		return nil, nil
	}
	return tpl, err
}

func (s *Store) InsertGenerationRecord(ctx context.Context, record GenerationRecord) error {
	salaryJSON, err := json.Marshal(record.Salary)
	if err != nil {
		return fmt.Errorf("encoding salary snapshot: %w", err)
	}
	_, err = s.DB.Exec(ctx, `
    INSERT INTO generated_agreements (
      employee_id, file_name, download_url, status,
      duration_seconds, template_source, render_path, salary_snapshot
    ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
  `, record.EmployeeID, record.FileName, record.DownloadURL, record.Status,
		record.DurationSecs, record.TemplateSource, record.RenderPath, salaryJSON)
	return err
}

func (s *Store) UpdateSignature(ctx context.Context, id, status, requestID, docID string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET signature_status = $2,
        signature_request_id = $3,
        signature_doc_id = $4,
        updated_at = now()
    WHERE id = $1
  `, id, status, requestID, docID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}

// ListGenerationRecords returns the audit trail for one employee, newest
// first.
func (s *Store) ListGenerationRecords(ctx context.Context, employeeID string) ([]GenerationRecord, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, file_name, download_url, status,
           duration_seconds, template_source, render_path, salary_snapshot, created_at
    FROM generated_agreements
    WHERE employee_id = $1
    ORDER BY created_at DESC
  `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []GenerationRecord
	for rows.Next() {
		var record GenerationRecord
		var salaryJSON []byte
		if err := rows.Scan(&record.ID, &record.EmployeeID, &record.FileName, &record.DownloadURL,
			&record.Status, &record.DurationSecs, &record.TemplateSource, &record.RenderPath,
			&salaryJSON, &record.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(salaryJSON, &record.Salary); err != nil {
			return nil, fmt.Errorf("decoding salary snapshot: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

var _ StoreAPI = (*Store)(nil)
