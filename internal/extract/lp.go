package extract

import (
	"regexp"
	"strings"

	"github.com/docsift/docsift/internal/classify"
	"github.com/docsift/docsift/internal/patterns"
)

// lpField binds a detail field to its label keywords and the primitive
// category whose match gets associated by proximity.
type lpField struct {
	name     string
	labels   []string
	category string
}

// capitalCallFields is the label table for capital call notices, in
// extraction order.
var capitalCallFields = []lpField{
	{name: "call_date", labels: []string{"call date", "notice date"}, category: patterns.CategoryDate},
	{name: "due_date", labels: []string{"due date", "payment due", "payment date", "deadline"}, category: patterns.CategoryDate},
	{name: "call_amount", labels: []string{"call amount", "capital call", "total commitment", "contribution amount", "amount due"}, category: patterns.CategoryCurrency},
	{name: "call_percentage", labels: []string{"call percentage", "contribution percentage", "percentage of commitment"}, category: patterns.CategoryPercentage},
	{name: "lp_commitment", labels: []string{"your commitment", "lp commitment", "committed capital"}, category: patterns.CategoryCurrency},
	{name: "remaining_commitment", labels: []string{"remaining commitment", "outstanding commitment", "unfunded commitment"}, category: patterns.CategoryCurrency},
	{name: "fund_size", labels: []string{"fund size", "total commitments", "aggregate commitments"}, category: patterns.CategoryCurrency},
}

// distributionFields is the label table for distribution notices.
var distributionFields = []lpField{
	{name: "distribution_date", labels: []string{"distribution date", "payment date"}, category: patterns.CategoryDate},
	{name: "record_date", labels: []string{"record date", "ex-date"}, category: patterns.CategoryDate},
	{name: "distribution_amount", labels: []string{"distribution amount", "total distribution", "gross distribution"}, category: patterns.CategoryCurrency},
	{name: "lp_distribution_amount", labels: []string{"your distribution", "net distribution", "distribution to you"}, category: patterns.CategoryCurrency},
	{name: "distribution_per_unit", labels: []string{"per unit", "per share"}, category: patterns.CategoryCurrency},
	{name: "fund_nav", labels: []string{"net asset value", "nav"}, category: patterns.CategoryCurrency},
	{name: "total_distributions", labels: []string{"total distributions", "cumulative distributions"}, category: patterns.CategoryCurrency},
	{name: "lp_units", labels: []string{"units held", "partnership units", "units"}, category: patterns.CategoryNumber},
}

var (
	// irrBeforeRE and irrAfterRE match "15.4% IRR" and "IRR: 15.4%" forms.
	irrBeforeRE = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s?%\s*(?:net\s+)?irr\b`)
	irrAfterRE  = regexp.MustCompile(`(?i)\birr\b[^%\n]{0,40}?(\d+(?:\.\d+)?)\s?%`)

	// multipleExprRE matches "2.3x" multiple-of-capital expressions.
	multipleExprRE = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)x\b`)

	// fundNameREs lift a fund name near its anchor keywords. The
	// capitalized-phrase form runs first; the "Fund Name:" label form is
	// the fallback.
	fundNameREs = []*regexp.Regexp{
		regexp.MustCompile(`\b([A-Z][A-Za-z0-9&.' -]{2,50}?(?:Fund|Partners|Capital|Ventures)(?:\s+[IVXL]+)?)\b`),
		regexp.MustCompile(`(?i)\bfund name[:\s]+([A-Z][A-Za-z0-9&.,' -]{2,60})`),
	}

	// lpNameREs lift the limited partner's name near its anchors.
	lpNameREs = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bdear\s+([^,\n]{2,60})`),
		regexp.MustCompile(`(?im)^to:\s*([^,\n]{2,60})`),
		regexp.MustCompile(`(?i)\blimited partner[:\s]+([^,\n]{2,60})`),
		regexp.MustCompile(`(?im)^lp[:\s]+([^,\n]{2,60})`),
	}
)

var paymentMethods = []string{"wire transfer", "ach", "direct deposit", "electronic transfer", "check"}

var paymentSectionHeaders = []string{
	"payment instructions", "wire instructions", "payment details", "banking information",
}

// maxInstructionLines bounds the payment-instruction section scan.
const maxInstructionLines = 8

// LP extracts the specialized field groups for capital call and
// distribution notices. Generic primitives are extracted first; the LP
// detail block layers label-proximity association on top. Partial
// label/value pairs always yield a best-effort partial result.
func (e *Extractor) LP(text string, typ classify.DocumentType) Fields {
	f := e.Generic(text)
	if strings.TrimSpace(text) == "" {
		return f
	}

	switch typ {
	case classify.TypeCapitalCall:
		if d := e.capitalCall(text); d != nil {
			f.CapitalCall = d
		}
	case classify.TypeDistribution:
		if d := e.distribution(text); d != nil {
			f.Distribution = d
		}
	}
	return f
}

// runFieldTable associates each field's labels with the nearest primitive
// match. Returns the extracted values plus label bookkeeping for the
// group-confidence computation.
func (e *Extractor) runFieldTable(text string, table []lpField) (values map[string]string, labeled, matchedCount int) {
	byCategory := map[string][]patterns.Match{}
	values = map[string]string{}

	for _, field := range table {
		matches, ok := byCategory[field.category]
		if !ok {
			matches = e.lib.MatchAll(field.category, text)
			byCategory[field.category] = matches
		}
		m, found, hasLabel := associate(text, field.labels, matches, e.window)
		if !hasLabel {
			continue
		}
		labeled++
		if found {
			matchedCount++
			values[field.name] = m.Value
		}
	}
	return values, labeled, matchedCount
}

func (e *Extractor) capitalCall(text string) *CapitalCallDetails {
	values, labeled, matched := e.runFieldTable(text, capitalCallFields)

	d := &CapitalCallDetails{
		CallDate:            values["call_date"],
		DueDate:             values["due_date"],
		CallAmount:          values["call_amount"],
		CallPercentage:      values["call_percentage"],
		LPCommitment:        values["lp_commitment"],
		RemainingCommitment: values["remaining_commitment"],
		FundSize:            values["fund_size"],
		FundName:            firstSubmatch(text, fundNameREs),
		LPName:              firstSubmatch(text, lpNameREs),
		PaymentInstructions: sectionAfter(text, paymentSectionHeaders, maxInstructionLines),
	}
	if w := extractWireInstructions(text); !w.empty() {
		d.WireInstructions = w
	}

	extras := 0
	if d.FundName != "" {
		extras++
	}
	if d.LPName != "" {
		extras++
	}
	if d.PaymentInstructions != "" {
		extras++
	}
	if d.WireInstructions != nil {
		extras++
	}
	if labeled == 0 && extras == 0 {
		return nil
	}
	d.Confidence = groupConfidence(labeled, matched, extras)
	return d
}

func (e *Extractor) distribution(text string) *DistributionDetails {
	values, labeled, matched := e.runFieldTable(text, distributionFields)

	d := &DistributionDetails{
		DistributionDate:     values["distribution_date"],
		RecordDate:           values["record_date"],
		DistributionAmount:   values["distribution_amount"],
		LPDistributionAmount: values["lp_distribution_amount"],
		DistributionPerUnit:  values["distribution_per_unit"],
		FundNAV:              values["fund_nav"],
		TotalDistributions:   values["total_distributions"],
		LPUnits:              values["lp_units"],
		FundName:             firstSubmatch(text, fundNameREs),
		LPName:               firstSubmatch(text, lpNameREs),
		IRR:                  extractIRR(text),
		Multiple:             extractMultiple(text),
		PaymentMethod:        firstKeyword(text, paymentMethods),
		PaymentInstructions:  sectionAfter(text, paymentSectionHeaders, maxInstructionLines),
	}

	extras := 0
	for _, v := range []string{d.FundName, d.LPName, d.IRR, d.Multiple, d.PaymentMethod, d.PaymentInstructions} {
		if v != "" {
			extras++
		}
	}
	if labeled == 0 && extras == 0 {
		return nil
	}
	d.Confidence = groupConfidence(labeled, matched, extras)
	return d
}

// groupConfidence is the label/value completeness ratio: labels that found
// a value, plus heuristic extras, over all opportunities. Missing values
// under present labels pull it down proportionally.
func groupConfidence(labeled, matched, extras int) float64 {
	total := labeled + extras
	if total == 0 {
		return 0
	}
	return float64(matched+extras) / float64(total)
}

func extractIRR(text string) string {
	if m := irrBeforeRE.FindStringSubmatch(text); len(m) == 2 {
		return m[1]
	}
	if m := irrAfterRE.FindStringSubmatch(text); len(m) == 2 {
		return m[1]
	}
	return ""
}

// extractMultiple requires a multiple anchor word somewhere in the text
// before trusting a bare "2.3x" token.
func extractMultiple(text string) string {
	anchored := false
	for _, kw := range []string{"multiple", "moic", "tvpi", "dpi"} {
		if patterns.ContainsKeyword(text, kw) {
			anchored = true
			break
		}
	}
	if !anchored {
		return ""
	}
	if m := multipleExprRE.FindStringSubmatch(text); len(m) == 2 {
		return m[1]
	}
	return ""
}

func extractWireInstructions(text string) *WireInstructions {
	return &WireInstructions{
		BankName:      valueAfterColon(text, []string{"bank name", "bank"}),
		AccountNumber: valueAfterColon(text, []string{"account number", "account no", "acct no"}),
		RoutingNumber: valueAfterColon(text, []string{"routing number", "routing no", "aba"}),
		SwiftCode:     valueAfterColon(text, []string{"swift", "swift code", "bic"}),
		Beneficiary:   valueAfterColon(text, []string{"beneficiary", "pay to"}),
	}
}

func firstSubmatch(text string, res []*regexp.Regexp) string {
	for _, re := range res {
		if m := re.FindStringSubmatch(text); len(m) >= 2 {
			return strings.TrimSpace(strings.Trim(m[1], " .,"))
		}
	}
	return ""
}

func firstKeyword(text string, keywords []string) string {
	for _, kw := range keywords {
		if patterns.ContainsKeyword(text, kw) {
			return kw
		}
	}
	return ""
}
