package agreement

import (
	"context"
	"time"

	"agreements/internal/domain/employee"
	"agreements/internal/domain/templates"
)

// StoreAPI is the narrow persistence surface the orchestrator drives:
// read the subject employee, move its status, look up templates, and
// append the audit row.
type StoreAPI interface {
	GetEmployee(ctx context.Context, id string) (*employee.Employee, error)

	// MarkProcessing claims the employee for one generation run. It
	// returns false without error when the row exists but is already in
	// the processing state.
	MarkProcessing(ctx context.Context, id string, startedAt time.Time) (bool, error)
	MarkCompleted(ctx context.Context, id, viewURL, downloadURL string, completedAt time.Time) error
	MarkFailed(ctx context.Context, id string, completedAt time.Time) error

	ActiveTemplateForCompany(ctx context.Context, companyName string) (*templates.CompanyTemplate, error)

	InsertGenerationRecord(ctx context.Context, record GenerationRecord) error

	UpdateSignature(ctx context.Context, id, status, requestID, docID string) error
}
