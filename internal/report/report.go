// Package report renders a cost estimate as a plain-text document suitable
// for download.
package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/natefinch/atomic"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gea/studyabroad/internal/estimator"
)

// FileName is the suggested name for a downloaded report.
const FileName = "Study_Abroad_Cost_Estimation.txt"

const (
	lineWidth  = 80
	smallWidth = 40
)

var printer = message.NewPrinter(language.English)

var examNames = map[estimator.ExamType]string{
	estimator.ExamIELTSPaper:    "IELTS Paper-based",
	estimator.ExamIELTSComputer: "IELTS Computer-based",
	estimator.ExamPTE:           "PTE",
	estimator.ExamTOEFL:         "TOEFL iBT",
}

var categoryNames = map[estimator.Category]string{
	estimator.CategoryEnglish: "English Proficiency",
	estimator.CategoryOffer:   "Offer Letter",
	estimator.CategoryGS:      "GS Stage",
	estimator.CategoryCOE:     "COE Stage",
	estimator.CategoryVisa:    "Visa Stage",
}

type summaryRow struct {
	Name   string
	Amount float64
	Share  float64
}

type view struct {
	estimator.Estimate
	In            estimator.Inputs
	Sub           map[string]float64
	Generated     string
	Summary       []summaryRow
	ExamName      string
	Medical       string
	Rate          int
	TermMonths    int
	TotalPayable  float64
	TotalInterest float64
}

var funcs = template.FuncMap{
	"npr":    func(v float64) string { return printer.Sprintf("%.2f", v) },
	"num":    func(n estimator.Number) float64 { return n.Float() },
	"line":   func() string { return strings.Repeat("═", lineWidth) },
	"rule":   func() string { return strings.Repeat("─", lineWidth) },
	"small":  func() string { return strings.Repeat("─", smallWidth) },
	"dashes": func() string { return strings.Repeat("-", smallWidth) },
	"pad":    func(w int, s string) string { return fmt.Sprintf("%-*s", w, s) },
	"lpad":   func(w int, s string) string { return fmt.Sprintf("%*s", w, s) },
	"pct":    func(v float64) string { return fmt.Sprintf("%.2f%%", v) },
	"flat": func(on bool, fee float64) string {
		if !on {
			return "0.00"
		}
		return printer.Sprintf("%.2f", fee)
	},
}

var tmpl = template.Must(template.New("report").Funcs(funcs).Parse(reportTemplate))

const reportTemplate = `{{line}}
STUDY ABROAD COST ESTIMATION REPORT
Generated: {{.Generated}}
{{line}}

SUMMARY OF ESTIMATED COSTS
{{rule}}
{{pad 22 "Category"}} {{lpad 20 "Amount (NPR)"}} {{lpad 12 "Share"}}
{{range .Summary}}{{pad 22 .Name}} {{lpad 20 (npr .Amount)}} {{lpad 12 (pct .Share)}}
{{end}}{{pad 22 "TOTAL"}} {{lpad 20 (npr .Total)}} {{lpad 12 "100.00%"}}

DETAILED BREAKDOWN
{{rule}}

1. ENGLISH PROFICIENCY
{{small}}
   English Class Cost:            NPR {{npr (num .In.EnglishClassCost)}}
   Exam Type:                     {{.ExamName}}
   Exam Fee:                      NPR {{npr .ExamFee}}
                                  {{dashes}}
   SUBTOTAL:                      NPR {{npr .Sub.english}}

2. OFFER LETTER
{{small}}
   Application Cost:              NPR {{npr (num .In.ApplicationCost)}}
                                  {{dashes}}
   SUBTOTAL:                      NPR {{npr .Sub.offer}}

3. GS STAGE
{{small}}
   Bank Loan Amount:              NPR {{npr (num .In.LoanAmount)}}
   Bank Processing Fee ({{num .In.BankProcessingRate}}%):  NPR {{npr .BankProcessingFee}}
   Disbursement Amount:           NPR {{npr (num .In.DisbursementAmount)}}
   Monthly EMI ({{num .In.InterestRate}}%):              NPR {{npr .MonthlyInstallment}}
   Translation ({{num .In.TranslationPages}} pages @ NPR 400/page): NPR {{npr .TranslationCost}}
   Notary ({{num .In.NotaryPages}} pages @ NPR 10/page):      NPR {{npr .NotaryCost}}
   Bank Property Valuation:       NPR {{flat .In.BankValuation 10000}}
   CA Report:                     NPR {{flat .In.CAReport 2500}}
   Property Valuation:            NPR {{flat .In.PropertyValuation 1500}}
   NOC ({{num .In.NocPrograms}} programs):             NPR {{npr .NocCost}}
                                  {{dashes}}
   SUBTOTAL:                      NPR {{npr .Sub.gs}}

4. COE STAGE
{{small}}
   Tuition Fee:                   NPR {{npr (num .In.TuitionFee)}}{{if .LoanCoversTuition}} (Covered by loan){{end}}
   Education Tax (3%):            NPR {{npr .EducationTax}}{{if .LoanCoversTuition}} (Covered by loan){{end}}
   Payment Company Fee:           NPR {{npr (num .In.PaymentCompanyFee)}}
   Health Care (AUD {{num .In.HealthCareCost}}):       NPR {{npr .HealthCareNPR}}
                                  {{dashes}}
   SUBTOTAL:                      NPR {{npr .Sub.coe}}{{if .LoanCoversTuition}} (Excluding tuition fee){{end}}

5. VISA STAGE
{{small}}
   Visa Fee (AUD 1,610):          NPR {{npr .VisaFee}}
   Biometric:                     NPR {{npr .BiometricFee}}
   Medical ({{.Medical}}):            NPR {{npr .MedicalCost}}
                                  {{dashes}}
   SUBTOTAL:                      NPR {{npr .Sub.visa}}

{{line}}
TOTAL ESTIMATED COST:             NPR {{npr .Total}}
{{line}}
{{if gt (num .In.DisbursementAmount) 0.0}}
LOAN INFORMATION
{{small}}
   Disbursement Amount:           NPR {{npr (num .In.DisbursementAmount)}}
   Interest Rate:                 {{num .In.InterestRate}}%
   Loan Term:                     {{.TermMonths}} months
   Monthly EMI:                   NPR {{npr .MonthlyInstallment}}
   Total Interest Payable:        NPR {{npr .TotalInterest}}
   Total Amount Payable:          NPR {{npr .TotalPayable}}
{{end}}
Notes:
- All costs are estimates and may vary based on actual circumstances
- Exchange rate used: 1 AUD = {{.Rate}} NPR
{{- if .LoanCoversTuition}}
- Tuition fee and education tax are excluded from the total as they are covered by the loan
{{- end}}
- Report generated on {{.Generated}}
- This is not an official document and should be used for planning purposes only
`

// Render writes the report for e to w.
func Render(w io.Writer, e estimator.Estimate, generatedAt time.Time) error {
	v := view{
		Estimate:   e,
		In:         e.Inputs,
		Sub:        make(map[string]float64, len(estimator.Categories)),
		Generated:  generatedAt.Format("January 2, 2006"),
		ExamName:   "Not selected",
		Medical:    string(estimator.MedicalIOMNepal),
		Rate:       estimator.AUDToNPR,
		TermMonths: estimator.LoanTermMonths,
	}
	if name, ok := examNames[e.Inputs.ExamType]; ok {
		v.ExamName = name
	}
	if e.Inputs.MedicalProvider == estimator.MedicalNorvic {
		v.Medical = string(estimator.MedicalNorvic)
	}
	for _, c := range estimator.Categories {
		v.Sub[string(c)] = e.Subtotals[c]
		v.Summary = append(v.Summary, summaryRow{
			Name:   categoryNames[c],
			Amount: e.Subtotals[c],
			Share:  e.Share(c),
		})
	}
	v.TotalPayable = e.MonthlyInstallment * estimator.LoanTermMonths
	if v.TotalPayable > 0 {
		v.TotalInterest = v.TotalPayable - e.Inputs.DisbursementAmount.Float()
	}

	if err := tmpl.Execute(w, v); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

// String renders the report to a string.
func String(e estimator.Estimate, generatedAt time.Time) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, e, generatedAt); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteFile renders the report and atomically replaces path with it.
func WriteFile(path string, e estimator.Estimate, generatedAt time.Time) error {
	var buf bytes.Buffer
	if err := Render(&buf, e, generatedAt); err != nil {
		return err
	}
	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}
