package agreement

import (
	"time"

	"agreements/internal/domain/employee"
)

const (
	TemplateSourceCustom  = "custom"
	TemplateSourceDefault = "default"
)

const (
	RenderPathProvider = "provider"
	RenderPathFallback = "fallback"
)

// Result is returned to the caller of a generation request.
type Result struct {
	EmployeeID        string   `json:"employeeId"`
	PDFURL            string   `json:"pdfUrl"`
	PDFViewURL        string   `json:"pdfViewUrl"`
	FileName          string   `json:"fileName"`
	TemplateSource    string   `json:"templateSource"`
	RenderPath        string   `json:"renderPath"`
	ProcessingSeconds int64    `json:"processingSeconds"`
	Warnings          []string `json:"warnings,omitempty"`
}

// GenerationRecord is the append-only audit row written after a
// successful generation, snapshotting the salary breakdown used.
type GenerationRecord struct {
	ID             string
	EmployeeID     string
	FileName       string
	DownloadURL    string
	Status         string
	DurationSecs   int64
	TemplateSource string
	RenderPath     string
	Salary         employee.SalaryBreakdown
	CreatedAt      time.Time
}
