package extract

import (
	"reflect"
	"testing"

	"github.com/docsift/docsift/internal/patterns"
)

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()
	lib, err := patterns.NewLibrary(nil)
	if err != nil {
		t.Fatalf("NewLibrary: %v", err)
	}
	return New(lib)
}

func TestGenericResume(t *testing.T) {
	e := newTestExtractor(t)
	text := "John Doe\nSoftware Engineer at Initech\nEmail: john@example.com\n" +
		"Phone: (555) 123-4567\nSkills: Python, JavaScript, React, AWS\n" +
		"Bachelor of Science, State University, 2015"

	f := e.Generic(text)

	if f.ContactInfo == nil || f.ContactInfo.Name != "John Doe" {
		t.Errorf("contact name = %+v, want John Doe", f.ContactInfo)
	}
	if !reflect.DeepEqual(f.Emails, []string{"john@example.com"}) {
		t.Errorf("emails = %v", f.Emails)
	}
	if len(f.Phones) != 1 {
		t.Errorf("phones = %v", f.Phones)
	}
	if !reflect.DeepEqual(f.Skills, []string{"Python", "JavaScript", "React", "AWS"}) {
		t.Errorf("skills = %v", f.Skills)
	}
	if len(f.Education) == 0 {
		t.Error("education lines missing")
	}
	if len(f.Experience) != 1 {
		t.Errorf("experience = %v, want the title-at-company line", f.Experience)
	}
	if len(f.Dates) != 0 {
		// Bare years are not a recognized date form.
		t.Errorf("dates = %v, want none", f.Dates)
	}
}

func TestGenericNameOmittedWhenFirstLineMatchesOtherCategory(t *testing.T) {
	e := newTestExtractor(t)
	f := e.Generic("john@example.com\nSome body text")
	if f.ContactInfo != nil {
		t.Errorf("contact_info = %+v, want omitted for an email first line", f.ContactInfo)
	}

	f = e.Generic("Invoice #1234 for services rendered in March")
	if f.ContactInfo != nil {
		t.Errorf("contact_info = %+v, want omitted for a digit-bearing first line", f.ContactInfo)
	}
}

func TestGenericFinancialData(t *testing.T) {
	e := newTestExtractor(t)
	f := e.Generic("Subtotal $1,200.50 plus tax of 8.25% due on receipt")
	if f.FinancialData == nil {
		t.Fatal("financial_data missing")
	}
	if !reflect.DeepEqual(f.FinancialData.Amounts, []string{"1200.50"}) {
		t.Errorf("amounts = %v", f.FinancialData.Amounts)
	}
	if !reflect.DeepEqual(f.FinancialData.Percentages, []string{"8.25"}) {
		t.Errorf("percentages = %v", f.FinancialData.Percentages)
	}
}

func TestGenericEmptyText(t *testing.T) {
	e := newTestExtractor(t)
	f := e.Generic("")
	if !f.IsEmpty() {
		t.Errorf("empty input should yield empty fields: %+v", f)
	}
}

func TestGenericNoMatchesOmitsGroups(t *testing.T) {
	e := newTestExtractor(t)
	f := e.Generic("a short unremarkable sentence without structure")
	if f.Emails != nil || f.Phones != nil || f.Skills != nil || f.FinancialData != nil {
		t.Errorf("expected omitted groups, got %+v", f)
	}
}

func TestGenericDeterministic(t *testing.T) {
	e := newTestExtractor(t)
	text := "Jane Roe\njane@fund.co\nSkills: Go, Python\n$5,000 due 01/02/2025"
	first := e.Generic(text)
	for i := 0; i < 5; i++ {
		if !reflect.DeepEqual(e.Generic(text), first) {
			t.Fatal("Generic output changed across runs")
		}
	}
}
