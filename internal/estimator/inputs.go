// Package estimator computes the cost of studying abroad from a snapshot of
// user inputs spanning five stages: English test, offer letter, GS, COE and
// visa. All amounts are in NPR unless a field says AUD.
//
// The engine is pure arithmetic over an Inputs value. Subtotals and the total
// are returned unrounded; rounding belongs to whoever displays them.
package estimator

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ExamType selects the English proficiency exam.
type ExamType string

const (
	ExamNone          ExamType = ""
	ExamIELTSPaper    ExamType = "ielts-paper"
	ExamIELTSComputer ExamType = "ielts-computer"
	ExamPTE           ExamType = "pte"
	ExamTOEFL         ExamType = "toefl"
)

// MedicalProvider selects the visa medical clinic.
type MedicalProvider string

const (
	MedicalNorvic   MedicalProvider = "Norvic"
	MedicalIOMNepal MedicalProvider = "IOM Nepal"
)

// Number is a user-entered amount. It decodes from JSON numbers, numeric
// strings, "" and null; anything that is not a number decodes as 0 so the
// calculator stays computable.
type Number float64

// Float returns n as a float64, mapping NaN and infinities to 0.
func (n Number) Float() float64 {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*n = 0
			return nil
		}
		*n = ParseNumber(s)
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		*n = 0
		return nil
	}
	*n = Number(f)
	return nil
}

// ParseNumber converts free-form text to a Number, treating empty or
// non-numeric text as 0.
func ParseNumber(s string) Number {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return Number(f)
}

// Inputs is the full set of user-entered values. Field names on the wire
// match the names used in the report payload.
type Inputs struct {
	// English test
	EnglishClassCost Number   `json:"englishClassCost"`
	ExamType         ExamType `json:"examType"`

	// Offer letter
	ApplicationCost Number `json:"applicationCost"`

	// GS stage
	LoanAmount         Number `json:"loanAmount" validate:"nonnegative"`
	BankProcessingRate Number `json:"bankProcessingRate"` // percent
	DisbursementAmount Number `json:"disbursementAmount" validate:"nonnegative"`
	InterestRate       Number `json:"interestRate"` // annual percent
	TranslationPages   Number `json:"translationPages"`
	NotaryPages        Number `json:"notaryPages"`
	BankValuation      bool   `json:"bankValuation"`
	CAReport           bool   `json:"caReport"`
	PropertyValuation  bool   `json:"propertyValuation"`
	NocPrograms        Number `json:"nocPrograms"`

	// COE stage
	TuitionFee        Number `json:"tuitionFee" validate:"nonnegative"`
	PaymentCompanyFee Number `json:"paymentCompanyFee"`
	HealthCareCost    Number `json:"healthCareCost"` // AUD

	// Visa stage
	MedicalProvider MedicalProvider `json:"medicalProvider"`
}

// DefaultInputs returns the values a fresh calculator starts with.
func DefaultInputs() Inputs {
	return Inputs{
		EnglishClassCost:   5000,
		BankProcessingRate: 0.75,
		InterestRate:       8,
		BankValuation:      true,
		CAReport:           true,
		PropertyValuation:  true,
		NocPrograms:        1,
		HealthCareCost:     2500,
		MedicalProvider:    MedicalNorvic,
	}
}

// UnmarshalJSON decodes over DefaultInputs, so omitted fields keep their
// defaults rather than becoming zero.
func (in *Inputs) UnmarshalJSON(data []byte) error {
	type plain Inputs
	p := plain(DefaultInputs())
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*in = Inputs(p)
	return nil
}
