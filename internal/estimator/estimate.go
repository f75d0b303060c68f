package estimator

// Estimate is a snapshot of the inputs together with every value derived
// from them. Amounts are unrounded.
type Estimate struct {
	Inputs Inputs `json:"inputs"`

	ExamFee            float64 `json:"examFee"`
	BankProcessingFee  float64 `json:"bankProcessingFee"`
	MonthlyInstallment float64 `json:"monthlyInstallment"`
	TranslationCost    float64 `json:"translationCost"`
	NotaryCost         float64 `json:"notaryCost"`
	EngineeringCost    float64 `json:"engineeringCost"`
	NocCost            float64 `json:"nocCost"`
	EducationTax       float64 `json:"educationTax"`
	HealthCareNPR      float64 `json:"healthCareNpr"`
	MedicalCost        float64 `json:"medicalCost"`
	VisaFee            float64 `json:"visaFee"`
	BiometricFee       float64 `json:"biometricFee"`
	LoanCoversTuition  bool    `json:"loanCoversTuition"`

	Subtotals map[Category]float64 `json:"subtotals"`
	Total     float64              `json:"total"`

	// Errors holds validation feedback. A non-empty map does not stop the
	// rest of the estimate from being computed.
	Errors FieldErrors `json:"errors,omitempty"`
}

// Calculate evaluates every derivation for in.
func Calculate(in Inputs) Estimate {
	e := Estimate{
		Inputs:             in,
		ExamFee:            in.ExamFee(),
		BankProcessingFee:  in.BankProcessingFee(),
		MonthlyInstallment: in.MonthlyInstallment(),
		TranslationCost:    in.TranslationCost(),
		NotaryCost:         in.NotaryCost(),
		EngineeringCost:    in.EngineeringCost(),
		NocCost:            in.NocCost(),
		EducationTax:       in.EducationTax(),
		HealthCareNPR:      in.HealthCareNPR(),
		MedicalCost:        in.MedicalCost(),
		VisaFee:            in.VisaFee(),
		BiometricFee:       BiometricFee,
		LoanCoversTuition:  in.LoanCoversTuition(),
		Subtotals:          make(map[Category]float64, len(Categories)),
		Errors:             Validate(in),
	}
	for _, c := range Categories {
		e.Subtotals[c] = in.CategoryTotal(c)
	}
	e.Total = in.TotalCost()
	return e
}

// Share returns category c's fraction of the total as a percentage, or 0
// when the total is 0.
func (e Estimate) Share(c Category) float64 {
	if e.Total == 0 {
		return 0
	}
	return e.Subtotals[c] / e.Total * 100
}

// Payload is the flat key-value view handed to report renderers: every
// input under its own name plus every derived value.
type Payload map[string]any

// Payload flattens the estimate.
func (e Estimate) Payload() Payload {
	in := e.Inputs
	p := Payload{
		"englishClassCost":   in.EnglishClassCost.Float(),
		"examType":           string(in.ExamType),
		"applicationCost":    in.ApplicationCost.Float(),
		"loanAmount":         in.LoanAmount.Float(),
		"bankProcessingRate": in.BankProcessingRate.Float(),
		"disbursementAmount": in.DisbursementAmount.Float(),
		"interestRate":       in.InterestRate.Float(),
		"translationPages":   in.TranslationPages.Float(),
		"notaryPages":        in.NotaryPages.Float(),
		"bankValuation":      in.BankValuation,
		"caReport":           in.CAReport,
		"propertyValuation":  in.PropertyValuation,
		"nocPrograms":        in.NocPrograms.Float(),
		"tuitionFee":         in.TuitionFee.Float(),
		"paymentCompanyFee":  in.PaymentCompanyFee.Float(),
		"healthCareCost":     in.HealthCareCost.Float(),
		"medicalProvider":    string(in.MedicalProvider),

		"examFee":            e.ExamFee,
		"bankProcessingFee":  e.BankProcessingFee,
		"monthlyInstallment": e.MonthlyInstallment,
		"translationCost":    e.TranslationCost,
		"notaryCost":         e.NotaryCost,
		"engineeringCost":    e.EngineeringCost,
		"nocCost":            e.NocCost,
		"educationTax":       e.EducationTax,
		"healthCareNpr":      e.HealthCareNPR,
		"medicalCost":        e.MedicalCost,
		"visaFee":            e.VisaFee,
		"biometricFee":       e.BiometricFee,
		"loanCoversTuition":  e.LoanCoversTuition,
		"totalCost":          e.Total,
	}
	for _, c := range Categories {
		p["categoryTotal."+string(c)] = e.Subtotals[c]
	}
	return p
}
