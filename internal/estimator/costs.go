package estimator

import "math"

// AUDToNPR is the exchange rate used for every AUD amount in the totals.
const AUDToNPR = 90

// Fee schedule. Amounts are NPR unless suffixed AUD.
const (
	IELTSPaperFee    = 31500
	IELTSComputerFee = 28800
	PTEFeeAUD        = 200
	TOEFLFeeAUD      = 195

	TranslationPerPage = 400
	NotaryPerPage      = 10

	BankValuationFee     = 10000
	CAReportFee          = 2500
	PropertyValuationFee = 1500

	NOCPerProgram = 2000

	EducationTaxPercent = 3

	NorvicMedicalFee  = 10000
	IOMMedicalFeeAUD  = 70
	VisaFeeAUD        = 1610
	BiometricFee      = 3575
	LoanTermMonths    = 15 * 12
	monthsPerYear     = 12
	percentMultiplier = 100
)

// Category names one of the five cost stages.
type Category string

const (
	CategoryEnglish Category = "english"
	CategoryOffer   Category = "offer"
	CategoryGS      Category = "gs"
	CategoryCOE     Category = "coe"
	CategoryVisa    Category = "visa"
)

// Categories lists the cost stages in display order.
var Categories = []Category{CategoryEnglish, CategoryOffer, CategoryGS, CategoryCOE, CategoryVisa}

// ExamFee returns the fee for the selected exam, 0 when none is selected.
func (in Inputs) ExamFee() float64 {
	switch in.ExamType {
	case ExamIELTSPaper:
		return IELTSPaperFee
	case ExamIELTSComputer:
		return IELTSComputerFee
	case ExamPTE:
		return PTEFeeAUD * AUDToNPR
	case ExamTOEFL:
		return TOEFLFeeAUD * AUDToNPR
	default:
		return 0
	}
}

// BankProcessingFee is loanAmount × bankProcessingRate%.
func (in Inputs) BankProcessingFee() float64 {
	return in.LoanAmount.Float() * in.BankProcessingRate.Float() / percentMultiplier
}

// MonthlyInstallment returns the EMI for the disbursement amount over the
// fixed 15-year term. It is 0 when the principal or rate is not positive.
func (in Inputs) MonthlyInstallment() float64 {
	principal := in.DisbursementAmount.Float()
	rate := in.InterestRate.Float()
	if principal <= 0 || rate <= 0 {
		return 0
	}
	monthly := rate / percentMultiplier / monthsPerYear
	growth := math.Pow(1+monthly, LoanTermMonths)
	emi := principal * monthly * growth / (growth - 1)
	if math.IsNaN(emi) || math.IsInf(emi, 0) {
		return 0
	}
	return emi
}

// TranslationCost is translationPages × 400.
func (in Inputs) TranslationCost() float64 {
	return in.TranslationPages.Float() * TranslationPerPage
}

// NotaryCost is notaryPages × 10.
func (in Inputs) NotaryCost() float64 {
	return in.NotaryPages.Float() * NotaryPerPage
}

// EngineeringCost sums the flat fee of each selected valuation report.
func (in Inputs) EngineeringCost() float64 {
	var cost float64
	if in.BankValuation {
		cost += BankValuationFee
	}
	if in.CAReport {
		cost += CAReportFee
	}
	if in.PropertyValuation {
		cost += PropertyValuationFee
	}
	return cost
}

// NocCost is nocPrograms × 2000.
func (in Inputs) NocCost() float64 {
	return in.NocPrograms.Float() * NOCPerProgram
}

// EducationTax is 3% of the tuition fee.
func (in Inputs) EducationTax() float64 {
	return in.TuitionFee.Float() * EducationTaxPercent / percentMultiplier
}

// HealthCareNPR converts the AUD health cover cost to NPR.
func (in Inputs) HealthCareNPR() float64 {
	return in.HealthCareCost.Float() * AUDToNPR
}

// MedicalCost is the clinic fee: Norvic, or IOM Nepal for anything else.
func (in Inputs) MedicalCost() float64 {
	if in.MedicalProvider == MedicalNorvic {
		return NorvicMedicalFee
	}
	return IOMMedicalFeeAUD * AUDToNPR
}

// VisaFee is the AUD visa application charge in NPR.
func (in Inputs) VisaFee() float64 {
	return VisaFeeAUD * AUDToNPR
}

// VisaFixedCosts is the visa fee plus biometrics, always charged.
func (in Inputs) VisaFixedCosts() float64 {
	return in.VisaFee() + BiometricFee
}

// LoanCoversTuition reports whether a bank loan pays tuition and education
// tax, which removes both from the COE subtotal.
func (in Inputs) LoanCoversTuition() bool {
	return in.LoanAmount.Float() > 0
}

// CategoryTotal returns the unrounded subtotal for c, or 0 for an unknown
// category.
func (in Inputs) CategoryTotal(c Category) float64 {
	switch c {
	case CategoryEnglish:
		return in.EnglishClassCost.Float() + in.ExamFee()
	case CategoryOffer:
		return in.ApplicationCost.Float()
	case CategoryGS:
		return in.BankProcessingFee() + in.TranslationCost() + in.NotaryCost() +
			in.EngineeringCost() + in.NocCost()
	case CategoryCOE:
		if in.LoanCoversTuition() {
			return in.PaymentCompanyFee.Float() + in.HealthCareNPR()
		}
		return in.TuitionFee.Float() + in.EducationTax() + in.PaymentCompanyFee.Float() + in.HealthCareNPR()
	case CategoryVisa:
		return in.VisaFixedCosts() + in.MedicalCost()
	default:
		return 0
	}
}

// TotalCost is the sum of the five category subtotals, in category order.
func (in Inputs) TotalCost() float64 {
	var total float64
	for _, c := range Categories {
		total += in.CategoryTotal(c)
	}
	return total
}
