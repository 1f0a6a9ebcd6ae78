// Package extract pulls typed field groups out of normalized document text.
//
// The generic extractor covers resumes, invoices, contracts, and reports
// using the pattern library's primitives. The LP extractor layers
// label-proximity association on top of those primitives for capital call
// and distribution notices. Both degrade gracefully: a field group with no
// matches is omitted entirely, never emitted as a null placeholder.
package extract

// Fields is the structured_data payload of an extraction result. Every
// group is optional; encoding drops absent groups. At most one of the
// per-type detail blocks is set, matching the classified document type.
type Fields struct {
	ContactInfo   *ContactInfo         `json:"contact_info,omitempty"`
	Emails        []string             `json:"emails,omitempty"`
	Phones        []string             `json:"phones,omitempty"`
	Addresses     []string             `json:"addresses,omitempty"`
	Skills        []string             `json:"skills,omitempty"`
	Education     []string             `json:"education,omitempty"`
	Experience    []string             `json:"experience,omitempty"`
	Dates         []string             `json:"dates,omitempty"`
	FinancialData *FinancialData       `json:"financial_data,omitempty"`
	CapitalCall   *CapitalCallDetails  `json:"capital_call_details,omitempty"`
	Distribution  *DistributionDetails `json:"distribution_details,omitempty"`
}

// IsEmpty reports whether no field group was extracted at all.
func (f Fields) IsEmpty() bool {
	return f.ContactInfo == nil &&
		len(f.Emails) == 0 &&
		len(f.Phones) == 0 &&
		len(f.Addresses) == 0 &&
		len(f.Skills) == 0 &&
		len(f.Education) == 0 &&
		len(f.Experience) == 0 &&
		len(f.Dates) == 0 &&
		f.FinancialData == nil &&
		f.CapitalCall == nil &&
		f.Distribution == nil
}

// ContactInfo holds best-guess contact data.
type ContactInfo struct {
	Name string `json:"name,omitempty"`
}

// FinancialData groups monetary amounts and percentages found anywhere in
// the document. Values are canonical: digits with an optional decimal
// point, percent signs stripped.
type FinancialData struct {
	Amounts     []string `json:"amounts,omitempty"`
	Percentages []string `json:"percentages,omitempty"`
}

// CapitalCallDetails holds fields specific to capital call notices.
// Dates are ISO 8601 strings; amounts are canonical numeric strings.
// Confidence reflects label/value association completeness: labels found
// with no nearby value reduce it proportionally.
type CapitalCallDetails struct {
	CallDate            string            `json:"call_date,omitempty"`
	DueDate             string            `json:"due_date,omitempty"`
	CallAmount          string            `json:"call_amount,omitempty"`
	CallPercentage      string            `json:"call_percentage,omitempty"`
	LPCommitment        string            `json:"lp_commitment,omitempty"`
	RemainingCommitment string            `json:"remaining_commitment,omitempty"`
	FundName            string            `json:"fund_name,omitempty"`
	FundSize            string            `json:"fund_size,omitempty"`
	LPName              string            `json:"lp_name,omitempty"`
	PaymentInstructions string            `json:"payment_instructions,omitempty"`
	WireInstructions    *WireInstructions `json:"wire_instructions,omitempty"`
	Confidence          float64           `json:"confidence"`
}

// DistributionDetails holds fields specific to distribution notices.
type DistributionDetails struct {
	DistributionDate     string  `json:"distribution_date,omitempty"`
	RecordDate           string  `json:"record_date,omitempty"`
	DistributionAmount   string  `json:"distribution_amount,omitempty"`
	LPDistributionAmount string  `json:"lp_distribution_amount,omitempty"`
	DistributionPerUnit  string  `json:"distribution_per_unit,omitempty"`
	FundName             string  `json:"fund_name,omitempty"`
	FundNAV              string  `json:"fund_nav,omitempty"`
	TotalDistributions   string  `json:"total_distributions,omitempty"`
	LPName               string  `json:"lp_name,omitempty"`
	LPUnits              string  `json:"lp_units,omitempty"`
	IRR                  string  `json:"irr,omitempty"`
	Multiple             string  `json:"multiple,omitempty"`
	PaymentMethod        string  `json:"payment_method,omitempty"`
	PaymentInstructions  string  `json:"payment_instructions,omitempty"`
	Confidence           float64 `json:"confidence"`
}

// WireInstructions holds banking details lifted from a wire block.
type WireInstructions struct {
	BankName      string `json:"bank_name,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	RoutingNumber string `json:"routing_number,omitempty"`
	SwiftCode     string `json:"swift_code,omitempty"`
	Beneficiary   string `json:"beneficiary,omitempty"`
}

func (w *WireInstructions) empty() bool {
	return w == nil || (w.BankName == "" && w.AccountNumber == "" &&
		w.RoutingNumber == "" && w.SwiftCode == "" && w.Beneficiary == "")
}
