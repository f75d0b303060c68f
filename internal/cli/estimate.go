// Package cli implements the estimate command-line front-end.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	flag "github.com/spf13/pflag"
	"github.com/tailscale/hujson"

	"github.com/gea/studyabroad/internal/estimator"
	"github.com/gea/studyabroad/internal/report"
)

var errUnknownExamType = errors.New("unknown exam type")

// now is replaced in tests.
var now = time.Now

const usage = `Usage: estimate [options]

Compute the estimated cost of studying abroad and print the report.

Options:
  -i, --inputs <file>          JSON or JSONC file with calculator inputs
  -o, --out <file>             Write the report to a file instead of stdout
      --json                   Print the full estimate as JSON
  -h, --help                   Show this help

Input overrides (applied after --inputs):
`

// numberFields maps flag names onto the numeric calculator inputs.
var numberFields = []struct {
	flag  string
	usage string
	field func(*estimator.Inputs) *estimator.Number
}{
	{"english-class-cost", "English class cost (NPR)", func(in *estimator.Inputs) *estimator.Number { return &in.EnglishClassCost }},
	{"application-cost", "Offer letter application cost (NPR)", func(in *estimator.Inputs) *estimator.Number { return &in.ApplicationCost }},
	{"loan-amount", "Bank loan amount (NPR)", func(in *estimator.Inputs) *estimator.Number { return &in.LoanAmount }},
	{"bank-processing-rate", "Bank processing fee (percent of loan)", func(in *estimator.Inputs) *estimator.Number { return &in.BankProcessingRate }},
	{"disbursement-amount", "Disbursed loan principal (NPR)", func(in *estimator.Inputs) *estimator.Number { return &in.DisbursementAmount }},
	{"interest-rate", "Annual interest rate (percent)", func(in *estimator.Inputs) *estimator.Number { return &in.InterestRate }},
	{"translation-pages", "Pages to translate", func(in *estimator.Inputs) *estimator.Number { return &in.TranslationPages }},
	{"notary-pages", "Pages to notarize", func(in *estimator.Inputs) *estimator.Number { return &in.NotaryPages }},
	{"noc-programs", "Number of NOC programs", func(in *estimator.Inputs) *estimator.Number { return &in.NocPrograms }},
	{"tuition-fee", "Tuition fee (NPR)", func(in *estimator.Inputs) *estimator.Number { return &in.TuitionFee }},
	{"payment-company-fee", "Payment company fee (NPR)", func(in *estimator.Inputs) *estimator.Number { return &in.PaymentCompanyFee }},
	{"health-care-cost", "Health cover cost (AUD)", func(in *estimator.Inputs) *estimator.Number { return &in.HealthCareCost }},
}

var boolFields = []struct {
	flag  string
	usage string
	field func(*estimator.Inputs) *bool
}{
	{"bank-valuation", "Include bank property valuation", func(in *estimator.Inputs) *bool { return &in.BankValuation }},
	{"ca-report", "Include CA report", func(in *estimator.Inputs) *bool { return &in.CAReport }},
	{"property-valuation", "Include property valuation", func(in *estimator.Inputs) *bool { return &in.PropertyValuation }},
}

// Run executes the estimate command and returns the process exit code.
func Run(out, errOut io.Writer, args []string) int {
	flagSet := flag.NewFlagSet("estimate", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard) // We handle errors ourselves

	inputsPath := flagSet.StringP("inputs", "i", "", "Inputs file")
	outPath := flagSet.StringP("out", "o", "", "Report output file")
	asJSON := flagSet.Bool("json", false, "Print the estimate as JSON")
	help := flagSet.BoolP("help", "h", false, "Show help")
	examType := flagSet.String("exam-type", "", "Exam type (ielts-paper|ielts-computer|pte|toefl)")
	medical := flagSet.String("medical-provider", "", "Medical provider (Norvic|IOM Nepal)")

	numbers := make(map[string]*string, len(numberFields))
	for _, f := range numberFields {
		numbers[f.flag] = flagSet.String(f.flag, "", f.usage)
	}
	bools := make(map[string]*bool, len(boolFields))
	for _, f := range boolFields {
		bools[f.flag] = flagSet.Bool(f.flag, false, f.usage)
	}

	if err := flagSet.Parse(args); err != nil {
		fmt.Fprintln(errOut, "error:", err)
		return 1
	}

	if *help {
		fmt.Fprint(out, usage)
		fmt.Fprint(out, flagSet.FlagUsages())
		return 0
	}

	in := estimator.DefaultInputs()
	if *inputsPath != "" {
		loaded, err := loadInputs(*inputsPath)
		if err != nil {
			fmt.Fprintln(errOut, "error:", err)
			return 1
		}
		in = loaded
	}

	for _, f := range numberFields {
		if flagSet.Changed(f.flag) {
			*f.field(&in) = estimator.ParseNumber(*numbers[f.flag])
		}
	}
	for _, f := range boolFields {
		if flagSet.Changed(f.flag) {
			*f.field(&in) = *bools[f.flag]
		}
	}
	if flagSet.Changed("exam-type") {
		t := estimator.ExamType(*examType)
		switch t {
		case estimator.ExamNone, estimator.ExamIELTSPaper, estimator.ExamIELTSComputer, estimator.ExamPTE, estimator.ExamTOEFL:
			in.ExamType = t
		default:
			fmt.Fprintf(errOut, "error: %v: %s\n", errUnknownExamType, *examType)
			return 1
		}
	}
	if flagSet.Changed("medical-provider") {
		in.MedicalProvider = estimator.MedicalProvider(*medical)
	}

	e := estimator.Calculate(in)
	if len(e.Errors) > 0 {
		for _, field := range e.Errors.Fields() {
			fmt.Fprintln(errOut, "error:", e.Errors[field])
		}
		return 1
	}

	switch {
	case *asJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(e); err != nil {
			fmt.Fprintln(errOut, "error:", err)
			return 1
		}
	case *outPath != "":
		if err := report.WriteFile(*outPath, e, now()); err != nil {
			fmt.Fprintln(errOut, "error:", err)
			return 1
		}
		fmt.Fprintln(out, *outPath)
	default:
		if err := report.Render(out, e, now()); err != nil {
			fmt.Fprintln(errOut, "error:", err)
			return 1
		}
	}

	return 0
}

// loadInputs reads a JSON or JSONC inputs file. Omitted fields keep their
// defaults.
func loadInputs(path string) (estimator.Inputs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return estimator.Inputs{}, fmt.Errorf("failed to read inputs: %w", err)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return estimator.Inputs{}, fmt.Errorf("invalid JSONC in %s: %w", path, err)
	}

	var in estimator.Inputs
	if err := json.Unmarshal(standardized, &in); err != nil {
		return estimator.Inputs{}, fmt.Errorf("invalid inputs in %s: %w", path, err)
	}
	return in, nil
}
