package classify

import (
	"testing"

	"github.com/docsift/docsift/internal/patterns"
)

func newTestClassifier(t *testing.T) *Classifier {
	t.Helper()
	lib, err := patterns.NewLibrary(nil)
	if err != nil {
		t.Fatalf("NewLibrary: %v", err)
	}
	c, err := New(lib, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestClassifyResume(t *testing.T) {
	c := newTestClassifier(t)
	text := "John Doe\nSoftware Engineer\nEmail: john@example.com\nSkills: Python, JavaScript, React, AWS"

	v := c.Classify(text)
	if v.Type != TypeResume {
		t.Fatalf("type = %s, want resume", v.Type)
	}
	if v.Confidence < 0.8 || v.Confidence > 1.0 {
		t.Errorf("confidence = %v, want around 0.9", v.Confidence)
	}
}

func TestClassifyCapitalCall(t *testing.T) {
	c := newTestClassifier(t)
	text := "Capital Call Notice\nTotal Commitment: $500,000\nDue Date: 03/15/2025"

	v := c.Classify(text)
	if v.Type != TypeCapitalCall {
		t.Fatalf("type = %s, want capital_call", v.Type)
	}
	if v.Confidence < 0.9 {
		t.Errorf("confidence = %v, want high", v.Confidence)
	}
	if len(v.Signals) == 0 {
		t.Error("expected matched signals in verdict")
	}
}

func TestClassifyDistribution(t *testing.T) {
	c := newTestClassifier(t)
	text := "Distribution Notice\nNet Asset Value: $12,000,000\nIRR: 15.4%\nRecord Date: 2025-06-30"

	v := c.Classify(text)
	if v.Type != TypeDistribution {
		t.Fatalf("type = %s, want distribution", v.Type)
	}
}

func TestClassifyDistributionWeakSignalsStillWin(t *testing.T) {
	c := newTestClassifier(t)
	// Scenario: distribution keywords but nothing else resembling any type.
	v := c.Classify("Quarterly distribution update for the fund. NAV remains stable.")
	if v.Type != TypeDistribution {
		t.Fatalf("type = %s, want distribution", v.Type)
	}
	if v.Confidence <= 0 || v.Confidence >= 1 {
		t.Errorf("confidence = %v, want in (0,1)", v.Confidence)
	}
}

func TestClassifyEmptyText(t *testing.T) {
	c := newTestClassifier(t)
	v := c.Classify("")
	if v.Type != TypeUnclassified {
		t.Errorf("type = %s, want unclassified", v.Type)
	}
	if v.Confidence != 0 {
		t.Errorf("confidence = %v, want 0", v.Confidence)
	}
}

func TestClassifyFallsBackToReport(t *testing.T) {
	c := newTestClassifier(t)
	v := c.Classify("the quick brown fox jumps over the lazy dog")
	if v.Type != TypeReport {
		t.Errorf("type = %s, want report fallback", v.Type)
	}
	if v.Confidence >= DefaultMinConfidence {
		t.Errorf("fallback confidence = %v, want below %v", v.Confidence, DefaultMinConfidence)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	c := newTestClassifier(t)
	text := "Capital call notice with a distribution mention and an invoice reference"
	first := c.Classify(text)
	for i := 0; i < 10; i++ {
		again := c.Classify(text)
		if again.Type != first.Type || again.Confidence != first.Confidence {
			t.Fatalf("run %d: verdict changed: %+v vs %+v", i, again, first)
		}
		if len(again.Signals) != len(first.Signals) {
			t.Fatalf("run %d: signal list changed", i)
		}
	}
}

func TestClassifyMonotonicConfidence(t *testing.T) {
	c := newTestClassifier(t)
	base := "capital call"
	more := base + "\ndrawdown notice for committed capital, total commitment due"

	weak := c.Classify(base)
	strong := c.Classify(more)
	if strong.Confidence < weak.Confidence {
		t.Errorf("adding matching signals lowered confidence: %v -> %v", weak.Confidence, strong.Confidence)
	}
}

func TestClassifyConfidenceSaturates(t *testing.T) {
	c := newTestClassifier(t)
	text := "capital call notice, drawdown, capital contribution, contribution request, " +
		"funding request, committed capital, total commitment, remaining commitment, " +
		"limited partner, due date, wire transfer"
	v := c.Classify(text)
	if v.Confidence != 1.0 {
		t.Errorf("confidence = %v, want saturated at 1.0", v.Confidence)
	}
}

func TestClassifyTieBreakByRegistrationOrder(t *testing.T) {
	lib, err := patterns.NewLibrary(nil)
	if err != nil {
		t.Fatal(err)
	}
	// Two template types share one phrase with identical weight and
	// saturation. The first registered must win.
	tmpl := &patterns.Template{
		Signals: []patterns.SignalSpec{
			{Type: "alpha", Phrase: "shared phrase", Weight: 4},
			{Type: "beta", Phrase: "shared phrase", Weight: 4},
		},
		Saturation: map[string]float64{"alpha": 4, "beta": 4},
	}
	c, err := New(lib, tmpl)
	if err != nil {
		t.Fatal(err)
	}
	v := c.Classify("document containing the shared phrase only")
	if v.Type != DocumentType("alpha") {
		t.Errorf("tie broke to %s, want alpha (registered first)", v.Type)
	}
}

func TestTemplateSignalsExtendClassifier(t *testing.T) {
	lib, err := patterns.NewLibrary(nil)
	if err != nil {
		t.Fatal(err)
	}
	tmpl := &patterns.Template{
		Signals: []patterns.SignalSpec{
			{Type: "purchase_order", Phrase: "purchase order", Weight: 4},
		},
		Saturation: map[string]float64{"purchase_order": 4},
	}
	c, err := New(lib, tmpl)
	if err != nil {
		t.Fatal(err)
	}
	v := c.Classify("Purchase Order for office supplies")
	if v.Type != DocumentType("purchase_order") {
		t.Errorf("type = %s, want template-defined purchase_order", v.Type)
	}
}

func TestNewRejectsUnclassifiedSignal(t *testing.T) {
	lib, _ := patterns.NewLibrary(nil)
	tmpl := &patterns.Template{
		Signals: []patterns.SignalSpec{{Type: "unclassified", Phrase: "x", Weight: 1}},
	}
	if _, err := New(lib, tmpl); err == nil {
		t.Fatal("expected error for signal targeting unclassified")
	}
}
