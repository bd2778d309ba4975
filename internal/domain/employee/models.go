package employee

import "time"

const (
	AgreementStatusPending    = "pending"
	AgreementStatusProcessing = "processing"
	AgreementStatusCompleted  = "completed"
	AgreementStatusFailed     = "failed"
)

const (
	SignatureStatusNone      = "none"
	SignatureStatusSent      = "sent"
	SignatureStatusCompleted = "completed"
	SignatureStatusFailed    = "failed"
)

type Employee struct {
	ID         string `json:"id"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	FatherName string `json:"fatherName"`
	Age        int    `json:"age"`
	// Gender is stored as a relationship token ("Son" or "Daughter") for
	// direct insertion into the agreement text.
	Gender       string `json:"gender"`
	AadharNumber string `json:"aadharNumber"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city"`
	Pincode      string `json:"pincode"`

	JobTitle       string `json:"jobTitle"`
	JobDescription string `json:"jobDescription"`
	JoiningDate    string `json:"joiningDate"`
	LastDate       string `json:"lastDate"`
	Bonus          string `json:"bonus"`
	ClientName     string `json:"clientName"`
	ClientEmail    string `json:"clientEmail"`
	Manager        string `json:"manager"`

	AnnualGrossSalary float64 `json:"annualGrossSalary"`
	Salary            SalaryBreakdown

	AgreementStatus       string     `json:"agreementStatus"`
	ProcessingStartedAt   *time.Time `json:"processingStartedAt,omitempty"`
	ProcessingCompletedAt *time.Time `json:"processingCompletedAt,omitempty"`
	PDFViewURL            string     `json:"pdfViewUrl,omitempty"`
	PDFDownloadURL        string     `json:"pdfDownloadUrl,omitempty"`

	SignatureStatus    string `json:"signatureStatus"`
	SignatureRequestID string `json:"signatureRequestId,omitempty"`
	SignatureDocID     string `json:"signatureDocId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type SalaryBreakdown struct {
	AnnualBasic     float64 `json:"annualBasic"`
	MonthlyBasic    float64 `json:"monthlyBasic"`
	AnnualHRA       float64 `json:"annualHra"`
	MonthlyHRA      float64 `json:"monthlyHra"`
	AnnualLTA       float64 `json:"annualLta"`
	MonthlyLTA      float64 `json:"monthlyLta"`
	AnnualSpecial   float64 `json:"annualSpecial"`
	MonthlySpecial  float64 `json:"monthlySpecial"`
	AnnualFlexible  float64 `json:"annualFlexible"`
	MonthlyFlexible float64 `json:"monthlyFlexible"`
}
