package employee

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"agreements/internal/platform/crypto"
)

var ErrNotFound = errors.New("employee not found")

type Store struct {
	DB     *pgxpool.Pool
	cipher *crypto.Cipher
}

// NewStore wraps the employees table. A configured cipher encrypts the
// Aadhaar number at rest; a nil cipher stores it as entered.
func NewStore(db *pgxpool.Pool, cipher *crypto.Cipher) *Store {
	return &Store{DB: db, cipher: cipher}
}

const employeeColumns = `
    id, first_name, last_name, email, father_name, age, gender, aadhar_number,
    address_line1, address_line2, city, pincode,
    job_title, job_description, joining_date, last_date, bonus,
    client_name, client_email, manager,
    annual_gross_salary,
    annual_basic, monthly_basic, annual_hra, monthly_hra,
    annual_lta, monthly_lta, annual_special, monthly_special,
    annual_flexible, monthly_flexible,
    agreement_status, processing_started_at, processing_completed_at,
    pdf_view_url, pdf_download_url,
    signature_status, signature_request_id, signature_doc_id,
    created_at, updated_at`

func (s *Store) Create(ctx context.Context, e *Employee) (string, error) {
	aadhar, err := s.sealAadhar(e.AadharNumber)
	if err != nil {
		return "", err
	}

	var id string
	err = s.DB.QueryRow(ctx, `
    INSERT INTO employees (
      first_name, last_name, email, father_name, age, gender, aadhar_number,
      address_line1, address_line2, city, pincode,
      job_title, job_description, joining_date, last_date, bonus,
      client_name, client_email, manager,
      annual_gross_salary,
      annual_basic, monthly_basic, annual_hra, monthly_hra,
      annual_lta, monthly_lta, annual_special, monthly_special,
      annual_flexible, monthly_flexible,
      agreement_status, signature_status
    ) VALUES (
      $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,
      $21,$22,$23,$24,$25,$26,$27,$28,$29,$30,$31,$32
    )
    RETURNING id
  `,
		e.FirstName, e.LastName, e.Email, e.FatherName, e.Age, e.Gender, aadhar,
		e.AddressLine1, e.AddressLine2, e.City, e.Pincode,
		e.JobTitle, e.JobDescription, e.JoiningDate, e.LastDate, e.Bonus,
		e.ClientName, e.ClientEmail, e.Manager,
		e.AnnualGrossSalary,
		e.Salary.AnnualBasic, e.Salary.MonthlyBasic, e.Salary.AnnualHRA, e.Salary.MonthlyHRA,
		e.Salary.AnnualLTA, e.Salary.MonthlyLTA, e.Salary.AnnualSpecial, e.Salary.MonthlySpecial,
		e.Salary.AnnualFlexible, e.Salary.MonthlyFlexible,
		AgreementStatusPending, SignatureStatusNone,
	).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) Get(ctx context.Context, id string) (*Employee, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT`+employeeColumns+`
    FROM employees
    WHERE id = $1
  `, id)
	e, err := scanEmployee(row)
	if err != nil {
		return nil, err
	}
	if e.AadharNumber, err = s.openAadhar(e.AadharNumber); err != nil {
		return nil, fmt.Errorf("decrypting aadhar number: %w", err)
	}
	return e, nil
}

func (s *Store) sealAadhar(value string) (string, error) {
	if s.cipher == nil {
		return value, nil
	}
	return s.cipher.EncryptString(value)
}

func (s *Store) openAadhar(value string) (string, error) {
	if s.cipher == nil {
		return value, nil
	}
	return s.cipher.DecryptString(value)
}

func scanEmployee(row pgx.Row) (*Employee, error) {
	var e Employee
	err := row.Scan(
		&e.ID, &e.FirstName, &e.LastName, &e.Email, &e.FatherName, &e.Age, &e.Gender, &e.AadharNumber,
		&e.AddressLine1, &e.AddressLine2, &e.City, &e.Pincode,
		&e.JobTitle, &e.JobDescription, &e.JoiningDate, &e.LastDate, &e.Bonus,
		&e.ClientName, &e.ClientEmail, &e.Manager,
		&e.AnnualGrossSalary,
		&e.Salary.AnnualBasic, &e.Salary.MonthlyBasic, &e.Salary.AnnualHRA, &e.Salary.MonthlyHRA,
		&e.Salary.AnnualLTA, &e.Salary.MonthlyLTA, &e.Salary.AnnualSpecial, &e.Salary.MonthlySpecial,
		&e.Salary.AnnualFlexible, &e.Salary.MonthlyFlexible,
		&e.AgreementStatus, &e.ProcessingStartedAt, &e.ProcessingCompletedAt,
		&e.PDFViewURL, &e.PDFDownloadURL,
		&e.SignatureStatus, &e.SignatureRequestID, &e.SignatureDocID,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}
