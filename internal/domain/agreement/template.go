package agreement

import (
	"regexp"
	"strings"
)

// hardcodedTemplate is the built-in agreement used when the document
// provider path is unavailable. Its section headings drive the fallback
// renderer's layout heuristics, so heading text and renderer keywords
// must stay in sync.
const hardcodedTemplate = `EMPLOYMENT AGREEMENT

This Employment Agreement is entered into on {{Current_Date}} between {{Client_Name}} (the "Company") and {{Full Name}} (the "Employee").

EMPLOYEE INFORMATION

Name: {{Full Name}} ({{Son_Daughter}} of {{Father_Name}})
Age: {{Age}}
Email: {{Email}}
Aadhar Number: {{Aadhar_Number}}
Address: {{Address_Line1}}, {{Address_Line2}}
{{City}} - {{Pincode}}

EMPLOYMENT DETAILS

Designation: {{Designation}}
Date of Joining: {{Joining_Date}}
Agreement End Date: {{Last_Date}}
Reporting: {{Manager}}
Client: {{Client_Name}} ({{Client_Email}})

Role and Responsibilities:
{{Job_Description}}

COMPENSATION

The Employee will receive an annual gross salary of {{Annual_gross}} ({{Monthly_gross}} per month), payable in accordance with the Company's standard payroll schedule.

Bonus: {{Bonus}}

SALARY BREAKDOWN

Basic Salary: {{Annual_basic}} per annum ({{Monthly_basic}} per month)
House Rent Allowance: {{Annual_HRA}} per annum ({{Monthly_HRA}} per month)
Leave Travel Allowance: {{Annual_LTA}} per annum ({{Monthly_LTA}} per month)
Special Allowance: {{Annual_Special}} per annum ({{Monthly_Special}} per month)
Flexible Benefits: {{Annual_Flexible}} per annum ({{Monthly_Flexible}} per month)

TERMS AND CONDITIONS

1. The Employee shall perform the duties of {{Designation}} faithfully and to the best of their ability.
2. Employment commences on {{Joining_Date}}. Either party may terminate this agreement with written notice as per Company policy.
3. The Employee shall not disclose any confidential or proprietary information of the Company or its clients, during or after the term of employment.
4. All work product created in the course of employment is the exclusive property of the Company.
5. The Employee confirms that the personal details provided, including Aadhar number {{Aadhar_Number}}, are true and correct.
6. Compensation is subject to statutory deductions and withholdings as applicable under law.
7. This agreement is governed by the laws applicable at the Company's registered place of business.

SIGNATURES

Employee: {{Full Name}}
Date: {{Current_Date}}

For {{Client_Name}}:
Authorized Signatory
Date: {{Current_Date}}
`

var (
	placeholderPattern = regexp.MustCompile(`\{\{[^{}]+\}\}`)
	blankLineRuns      = regexp.MustCompile(`\n{3,}`)
)

// HardcodedTemplate exposes the built-in template text.
func HardcodedTemplate() string { return hardcodedTemplate }

// ApplyPlaceholders substitutes every mapped token by literal string
// replacement. This is the local twin of the provider's networked batch
// replace: same mapping, different applier.
func ApplyPlaceholders(text string, mapping map[string]string) string {
	for token, value := range mapping {
		text = strings.ReplaceAll(text, token, value)
	}
	return text
}

// StripUnmatched deletes any {{...}} token that survived substitution and
// collapses the blank-line runs left behind.
func StripUnmatched(text string) string {
	text = placeholderPattern.ReplaceAllString(text, "")
	return blankLineRuns.ReplaceAllString(text, "\n\n")
}

// FallbackText produces the fully substituted plain-text agreement used
// by the fallback renderer.
func FallbackText(mapping map[string]string) string {
	return StripUnmatched(ApplyPlaceholders(hardcodedTemplate, mapping))
}
