package templates

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("company template not found")

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

// Upsert creates or replaces the template registered for a company name.
func (s *Store) Upsert(ctx context.Context, tpl CompanyTemplate) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO company_templates (company_name, document_id, document_url, display_name, active)
    VALUES ($1,$2,$3,$4,$5)
    ON CONFLICT (company_name) DO UPDATE
      SET document_id = EXCLUDED.document_id,
          document_url = EXCLUDED.document_url,
          display_name = EXCLUDED.display_name,
          active = EXCLUDED.active
    RETURNING id
  `, tpl.CompanyName, tpl.DocumentID, tpl.DocumentURL, tpl.DisplayName, tpl.Active).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) List(ctx context.Context) ([]CompanyTemplate, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, company_name, document_id, document_url, display_name, active, created_at
    FROM company_templates
    ORDER BY company_name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []CompanyTemplate
	for rows.Next() {
		var tpl CompanyTemplate
		if err := rows.Scan(&tpl.ID, &tpl.CompanyName, &tpl.DocumentID, &tpl.DocumentURL, &tpl.DisplayName, &tpl.Active, &tpl.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, tpl)
	}
	return list, rows.Err()
}

// FindActiveByCompany returns the first active template whose company
// name matches case-insensitively.
func (s *Store) FindActiveByCompany(ctx context.Context, companyName string) (*CompanyTemplate, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT id, company_name, document_id, document_url, display_name, active, created_at
    FROM company_templates
    WHERE active = TRUE AND LOWER(company_name) = LOWER($1)
    ORDER BY created_at
    LIMIT 1
  `, companyName)

	var tpl CompanyTemplate
	err := row.Scan(&tpl.ID, &tpl.CompanyName, &tpl.DocumentID, &tpl.DocumentURL, &tpl.DisplayName, &tpl.Active, &tpl.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}
