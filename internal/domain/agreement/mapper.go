package agreement

import (
	"strconv"
	"strings"
	"time"

	"agreements/internal/domain/employee"
	"agreements/internal/domain/format"
)

// PlaceholderMap builds the full token-to-value map consumed by both the
// provider-driven substitution and the fallback renderer. Every token the
// templates reference is present; missing optional fields map to the
// empty string, never to a literal "null" or "undefined".
func PlaceholderMap(e *employee.Employee, now time.Time) map[string]string {
	fullName := strings.TrimSpace(e.FirstName + " " + e.LastName)

	age := ""
	if e.Age > 0 {
		age = strconv.Itoa(e.Age)
	}

	return map[string]string{
		"{{Full Name}}":     fullName,
		"{{First Name}}":    e.FirstName,
		"{{Last Name}}":     e.LastName,
		"{{Email}}":         e.Email,
		"{{Father_Name}}":   e.FatherName,
		"{{Age}}":           age,
		"{{Son_Daughter}}":  e.Gender,
		"{{Aadhar_Number}}": e.AadharNumber,
		"{{Address_Line1}}": e.AddressLine1,
		"{{Address_Line2}}": e.AddressLine2,
		"{{City}}":          e.City,
		"{{Pincode}}":       e.Pincode,

		"{{Designation}}":     e.JobTitle,
		"{{Job_Description}}": format.HTMLToText(e.JobDescription),
		"{{Joining_Date}}":    format.Date(e.JoiningDate),
		"{{Last_Date}}":       format.Date(e.LastDate),
		"{{Bonus}}":           e.Bonus,
		"{{Client_Name}}":     e.ClientName,
		"{{Client_Email}}":    e.ClientEmail,
		"{{Manager}}":         e.Manager,

		"{{Annual_gross}}":     format.Currency(e.AnnualGrossSalary),
		"{{Monthly_gross}}":    format.Currency(e.AnnualGrossSalary / 12),
		"{{Annual_basic}}":     format.Currency(e.Salary.AnnualBasic),
		"{{Monthly_basic}}":    format.Currency(e.Salary.MonthlyBasic),
		"{{Annual_HRA}}":       format.Currency(e.Salary.AnnualHRA),
		"{{Monthly_HRA}}":      format.Currency(e.Salary.MonthlyHRA),
		"{{Annual_LTA}}":       format.Currency(e.Salary.AnnualLTA),
		"{{Monthly_LTA}}":      format.Currency(e.Salary.MonthlyLTA),
		"{{Annual_Special}}":   format.Currency(e.Salary.AnnualSpecial),
		"{{Monthly_Special}}":  format.Currency(e.Salary.MonthlySpecial),
		"{{Annual_Flexible}}":  format.Currency(e.Salary.AnnualFlexible),
		"{{Monthly_Flexible}}": format.Currency(e.Salary.MonthlyFlexible),

		"{{Current_Date}}": now.Format("2 January 2006"),
	}
}
