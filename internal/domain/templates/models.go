package templates

import "time"

// CompanyTemplate is a per-company override of the agreement document.
// Company names are matched case-insensitively against an employee's
// client name; only active rows are consulted during generation.
type CompanyTemplate struct {
	ID          string    `json:"id"`
	CompanyName string    `json:"companyName"`
	DocumentID  string    `json:"documentId"`
	DocumentURL string    `json:"documentUrl"`
	DisplayName string    `json:"displayName"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
}
