package checklist

import "github.com/gea/studyabroad/internal/models"

// item builds a plain, always-counted requirement.
func item(id, label string, children ...models.ChecklistItem) models.ChecklistItem {
	return models.ChecklistItem{ID: id, Label: label, Applicable: true, Children: children}
}

// optional builds a conditional requirement that starts out not applicable.
func optional(id, label string, children ...models.ChecklistItem) models.ChecklistItem {
	return models.ChecklistItem{ID: id, Label: label, Conditional: true, Children: children}
}

// templates holds the default checklist tree per stage. It is never handed
// out directly; DefaultItems returns deep copies.
var templates = map[models.StageKey][]models.ChecklistItem{
	models.StageOffer: {
		item("passport", "Passport submitted",
			optional("old-passport", "Old passport (if available)"),
			optional("immigration-history", "Disclose all immigration history"),
		),
		item("academic-docs", "Academic Documents submitted"),
		item("cv", "CV"),
		optional("english-test", "English Proficiency Test Score (if any)"),
		optional("work-experience", "Work experience/Internships (if any)"),
		optional("application-form", "Application form (If any)"),
		optional("gs-statement", "GS statement (If any)"),
	},
	models.StageGS: {
		item("relationship-verification", "Relationship verification Documents"),
		item("ward-tax-clearance", "Ward Tax Clearance Documents"),
		item("income", "Income",
			item("ward-income-verification", "Ward Income Verification Certificates"),
			optional("salary", "Salary (if any)",
				item("salary-certificate", "Salary Certificate"),
				item("tax-clearance-3-years", "Tax Clearance Certificate of past 3 years"),
				item("salary-statement", "1 year salary statement"),
				item("pan-card", "Pan Card"),
			),
			optional("rent-lease", "Rent/Lease (if any)",
				item("agreement-paper", "Agreement Paper"),
				item("rent-tax-receipt", "Rent/Lease Tax Receipt"),
				item("rent-statement", "Rent/Lease statement"),
				item("tenant-citizenship", "Tenant Citizenship"),
				item("land-ownership", "Land Ownership Certificate"),
				item("land-tax-receipt", "Land Tax Receipt"),
			),
			optional("business", "Business (if any)",
				item("business-registration", "Business Registration Certificate"),
				item("pan-vat-registration", "PAN/VAT registration"),
				item("business-tax-clearance", "Tax Clearance Certificate of past 3 years"),
				item("business-salary-statement", "1 year salary statement"),
			),
			optional("vehicle", "Vehicle (if any)",
				item("vehicle-registration", "Vehicle registration documents"),
				item("vehicle-road-tax", "Vehicle road tax documents"),
				item("vehicle-agreement", "Agreement letter if private"),
				item("transport-association-letter", "Letter from Transport association if public vehicle"),
				item("vehicle-insurance", "Vehicle insurance documents"),
			),
			optional("pension", "Pension (if any)",
				item("pension-book", "Pension Book"),
				item("pension-bank-statement", "Bank statement of 1 year"),
			),
			optional("agriculture", "Agriculture (if any)",
				item("ward-letter", "Letter from ward declaring it as source of income and tax this source is tax free"),
				item("sales-receipts", "Sales receipts"),
			),
			optional("foreign-employment", "Foreign Employment (if any)",
				item("salary-letter", "Salary letter"),
				item("foreign-passport", "Passport"),
				item("visa", "Visa"),
				item("foreign-statement", "1 year statement"),
				item("foreign-tax-documents", "Tax documents"),
			),
		),
		item("birth-certificates", "Birth Certificates"),
		item("citizenships", "Applicant's and Sponsor's Citizenships"),
		item("bank-loan-balance", "Bank loan / Bank Balance related documents",
			optional("bank-loan", "Bank Loan (if any)",
				item("mortgage-deed", "Mortgage Deed"),
				item("loan-sanction-letter", "Loan Sanction Letter"),
				item("loan-land-ownership", "Land Ownership Certificates"),
				item("loan-land-tax", "Land Tax Receipt"),
				item("bank-valuation-letter", "Bank Valuation Letter"),
			),
			optional("bank-balance", "Bank balance (if any)",
				item("balance-certificate", "Bank Balance Certificate"),
				item("balance-source", "Source of balance"),
			),
		),
		item("land-ownership-certificates", "Land Ownership Certificates"),
		item("land-tax-receipt", "Land Tax Receipt past 3 years"),
		item("property-valuation", "Property Valuation Letter"),
		item("ca-report", "CA Report"),
		item("gs-statements", "GS Statements"),
		item("gs-forms", "GS Forms"),
		item("offer-acceptance", "Offer acceptance"),
		optional("under-18-documents", "Under 18 documents (if any)",
			item("guardianship-proof", "Guardianship proof"),
			item("police-report", "Police report"),
			item("applicant-id", "Applicant's ID"),
		),
	},
	models.StageCOE: {
		item("swift-copy", "Swift Copy of paid tuition fee"),
		optional("disbursement-letter", "Disbursement letter / Loan Account statement after fee payment if bank loan"),
		item("oshc", "Overseas Student Health Cover (OSHC)"),
	},
	models.StageVisa: {
		item("confirmation-enrollment", "Confirmation of Enrollment letter"),
		item("visa-application-form", "Visa application form"),
		item("medical-test", "Medical Test"),
		item("biometric", "Biometric"),
	},
}

// DefaultItems returns a fresh copy of the default checklist for stage.
// It returns nil for an unknown stage.
func DefaultItems(stage models.StageKey) []models.ChecklistItem {
	return Clone(templates[stage])
}

// Clone deep-copies an item tree.
func Clone(items []models.ChecklistItem) []models.ChecklistItem {
	if items == nil {
		return nil
	}
	out := make([]models.ChecklistItem, len(items))
	for i, it := range items {
		out[i] = it
		out[i].Children = Clone(it.Children)
	}
	return out
}
