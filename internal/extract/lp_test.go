package extract

import (
	"testing"

	"github.com/docsift/docsift/internal/classify"
)

const capitalCallNotice = `Apex Growth Fund III
Capital Call Notice

Dear Acme Pension Trust,

Call Amount: $250,000
Total Commitment: $500,000
Remaining Commitment: $1,750,000
Call Percentage: 12.5%
Due Date: 03/15/2025

Wire Instructions:
Bank Name: First National Bank
Account Number: 987654321
Routing Number: 021000021
Swift Code: FNBKUS33
Beneficiary: Apex Growth Fund III

Sincerely,
The General Partner`

const distributionNotice = `Apex Growth Fund III
Distribution Notice

Dear Acme Pension Trust,

Distribution Amount: $1,200,000
Your Distribution: $48,000
Record Date: 2025-06-30
Payment Date: 07/15/2025
Net Asset Value: $82,500,000
Units Held: 4,800

Performance: 15.4% IRR, 2.3x multiple of invested capital
Payment will be made by wire transfer.`

func TestLPCapitalCall(t *testing.T) {
	e := newTestExtractor(t)
	f := e.LP(capitalCallNotice, classify.TypeCapitalCall)

	d := f.CapitalCall
	if d == nil {
		t.Fatal("capital_call_details missing")
	}
	if d.CallAmount != "250000" {
		t.Errorf("call_amount = %q, want 250000", d.CallAmount)
	}
	if d.DueDate != "2025-03-15" {
		t.Errorf("due_date = %q, want 2025-03-15", d.DueDate)
	}
	if d.CallPercentage != "12.5" {
		t.Errorf("call_percentage = %q, want 12.5", d.CallPercentage)
	}
	if d.RemainingCommitment != "1750000" {
		t.Errorf("remaining_commitment = %q", d.RemainingCommitment)
	}
	if d.FundName != "Apex Growth Fund" && d.FundName != "Apex Growth Fund III" {
		t.Errorf("fund_name = %q", d.FundName)
	}
	if d.LPName != "Acme Pension Trust" {
		t.Errorf("lp_name = %q", d.LPName)
	}
	if d.WireInstructions == nil {
		t.Fatal("wire_instructions missing")
	}
	if d.WireInstructions.RoutingNumber != "021000021" {
		t.Errorf("routing_number = %q", d.WireInstructions.RoutingNumber)
	}
	if d.WireInstructions.SwiftCode != "FNBKUS33" {
		t.Errorf("swift_code = %q", d.WireInstructions.SwiftCode)
	}
	if d.PaymentInstructions == "" {
		t.Error("payment_instructions missing")
	}
	if d.Confidence <= 0 || d.Confidence > 1 {
		t.Errorf("group confidence = %v, want in (0,1]", d.Confidence)
	}
	if f.Distribution != nil {
		t.Error("distribution_details must not appear on a capital call")
	}
}

func TestLPCapitalCallMinimal(t *testing.T) {
	e := newTestExtractor(t)
	text := "Capital Call Notice\nTotal Commitment: $500,000\nDue Date: 03/15/2025"

	f := e.LP(text, classify.TypeCapitalCall)
	d := f.CapitalCall
	if d == nil {
		t.Fatal("capital_call_details missing")
	}
	if d.CallAmount != "500000" {
		t.Errorf("call_amount = %q, want 500000 (total commitment label)", d.CallAmount)
	}
	if d.DueDate != "2025-03-15" {
		t.Errorf("due_date = %q, want 2025-03-15", d.DueDate)
	}
	if d.CallDate != "" {
		t.Errorf("call_date = %q, want omitted", d.CallDate)
	}
}

func TestLPDistribution(t *testing.T) {
	e := newTestExtractor(t)
	f := e.LP(distributionNotice, classify.TypeDistribution)

	d := f.Distribution
	if d == nil {
		t.Fatal("distribution_details missing")
	}
	if d.DistributionAmount != "1200000" {
		t.Errorf("distribution_amount = %q", d.DistributionAmount)
	}
	if d.LPDistributionAmount != "48000" {
		t.Errorf("lp_distribution_amount = %q", d.LPDistributionAmount)
	}
	if d.RecordDate != "2025-06-30" {
		t.Errorf("record_date = %q", d.RecordDate)
	}
	if d.DistributionDate != "2025-07-15" {
		t.Errorf("distribution_date = %q", d.DistributionDate)
	}
	if d.FundNAV != "82500000" {
		t.Errorf("fund_nav = %q", d.FundNAV)
	}
	if d.LPUnits != "4800" {
		t.Errorf("lp_units = %q", d.LPUnits)
	}
	if d.IRR != "15.4" {
		t.Errorf("irr = %q, want 15.4", d.IRR)
	}
	if d.Multiple != "2.3" {
		t.Errorf("multiple = %q, want 2.3", d.Multiple)
	}
	if d.PaymentMethod != "wire transfer" {
		t.Errorf("payment_method = %q", d.PaymentMethod)
	}
	if f.CapitalCall != nil {
		t.Error("capital_call_details must not appear on a distribution")
	}
}

func TestLPDistributionLabelWithoutValue(t *testing.T) {
	e := newTestExtractor(t)
	// NAV label present but no currency anywhere near it.
	text := "Distribution update for limited partners.\nNAV commentary will follow next quarter."

	f := e.LP(text, classify.TypeDistribution)
	d := f.Distribution
	if d == nil {
		t.Fatal("distribution_details missing: a labeled group degrades, it does not vanish")
	}
	if d.DistributionAmount != "" {
		t.Errorf("distribution_amount = %q, want omitted", d.DistributionAmount)
	}
	if d.FundNAV != "" {
		t.Errorf("fund_nav = %q, want omitted", d.FundNAV)
	}
	if d.Confidence >= 1 {
		t.Errorf("confidence = %v, want reduced for missing label/value pairs", d.Confidence)
	}
}

func TestLPNoLabelsAtAllOmitsDetails(t *testing.T) {
	e := newTestExtractor(t)
	f := e.LP("completely unrelated text about gardening", classify.TypeCapitalCall)
	if f.CapitalCall != nil {
		t.Errorf("capital_call_details = %+v, want omitted", f.CapitalCall)
	}
}

func TestLPEmptyText(t *testing.T) {
	e := newTestExtractor(t)
	f := e.LP("", classify.TypeDistribution)
	if !f.IsEmpty() {
		t.Errorf("empty input should yield empty fields: %+v", f)
	}
}

func TestLPRunsGenericFirst(t *testing.T) {
	e := newTestExtractor(t)
	f := e.LP(capitalCallNotice, classify.TypeCapitalCall)
	if f.FinancialData == nil || len(f.FinancialData.Amounts) == 0 {
		t.Error("generic financial_data should be present on LP documents")
	}
	if len(f.Dates) == 0 {
		t.Error("generic dates should be present on LP documents")
	}
}

func TestExtractMultipleRequiresAnchor(t *testing.T) {
	if got := extractMultiple("version 2.3x of the toolchain"); got != "" {
		t.Errorf("unanchored multiple = %q, want empty", got)
	}
	if got := extractMultiple("a 2.3x multiple"); got != "2.3" {
		t.Errorf("anchored multiple = %q, want 2.3", got)
	}
}

func TestExtractIRR(t *testing.T) {
	if got := extractIRR("net IRR of 15.4% since inception"); got != "15.4" {
		t.Errorf("irr = %q, want 15.4", got)
	}
	if got := extractIRR("delivered 15.4% IRR"); got != "15.4" {
		t.Errorf("irr = %q, want 15.4", got)
	}
	if got := extractIRR("no performance figures"); got != "" {
		t.Errorf("irr = %q, want empty", got)
	}
}
