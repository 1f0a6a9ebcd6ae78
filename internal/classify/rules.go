package classify

import "github.com/docsift/docsift/internal/patterns"

// defaultSaturation applies to types without an explicit threshold.
const defaultSaturation = 6

// builtinSaturation holds the per-type score at which normalized
// confidence reaches 1.0. Tunable via document templates.
func builtinSaturation() map[DocumentType]float64 {
	return map[DocumentType]float64{
		TypeCapitalCall:  8,
		TypeDistribution: 8,
		TypeResume:       8,
		TypeInvoice:      6,
		TypeContract:     6,
		TypeReport:       5,
	}
}

// builtinSignals is the built-in {type, phrase, weight} table. Phrases
// match case-insensitively at word boundaries. A phrase may vote for more
// than one type; the weights decide.
func builtinSignals() []Signal {
	return []Signal{
		// Capital call notices.
		{TypeCapitalCall, "capital call", 3},
		{TypeCapitalCall, "call notice", 3},
		{TypeCapitalCall, "drawdown", 2},
		{TypeCapitalCall, "capital contribution", 2},
		{TypeCapitalCall, "contribution request", 2},
		{TypeCapitalCall, "funding request", 2},
		{TypeCapitalCall, "committed capital", 2},
		{TypeCapitalCall, "total commitment", 2},
		{TypeCapitalCall, "remaining commitment", 2},
		{TypeCapitalCall, "limited partner", 1},
		{TypeCapitalCall, "due date", 1},
		{TypeCapitalCall, "wire transfer", 1},

		// Distribution notices.
		{TypeDistribution, "distribution notice", 3},
		{TypeDistribution, "distribution", 2},
		{TypeDistribution, "distributions", 2},
		{TypeDistribution, "return of capital", 3},
		{TypeDistribution, "dividend", 2},
		{TypeDistribution, "net asset value", 2},
		{TypeDistribution, "nav", 1},
		{TypeDistribution, "internal rate of return", 2},
		{TypeDistribution, "irr", 1},
		{TypeDistribution, "record date", 1},
		{TypeDistribution, "proceeds", 1},
		{TypeDistribution, "limited partner", 1},

		// Resumes.
		{TypeResume, "resume", 3},
		{TypeResume, "curriculum vitae", 3},
		{TypeResume, "objective", 2},
		{TypeResume, "experience", 2},
		{TypeResume, "education", 2},
		{TypeResume, "skills", 2},
		{TypeResume, "employment history", 2},
		{TypeResume, "references", 1},

		// Invoices.
		{TypeInvoice, "invoice", 3},
		{TypeInvoice, "invoice number", 3},
		{TypeInvoice, "bill to", 2},
		{TypeInvoice, "amount due", 2},
		{TypeInvoice, "payment terms", 2},
		{TypeInvoice, "subtotal", 2},
		{TypeInvoice, "total due", 2},
		{TypeInvoice, "remit", 1},

		// Contracts.
		{TypeContract, "contract", 3},
		{TypeContract, "agreement", 2},
		{TypeContract, "terms and conditions", 2},
		{TypeContract, "hereinafter", 2},
		{TypeContract, "witnesseth", 3},
		{TypeContract, "governed by", 1},
		{TypeContract, "effective date", 1},

		// Generic reports.
		{TypeReport, "report", 2},
		{TypeReport, "executive summary", 3},
		{TypeReport, "findings", 2},
		{TypeReport, "analysis", 1},
		{TypeReport, "summary", 1},
		{TypeReport, "conclusion", 1},
	}
}

// builtinCues are structural signals: facts about the document shape that
// keyword rows can't express.
func builtinCues() []structuralCue {
	return []structuralCue{
		{
			name:   "email_present",
			typ:    TypeResume,
			weight: 2,
			present: func(text string, lib *patterns.Library) bool {
				return lib != nil && len(lib.MatchAll(patterns.CategoryEmail, text)) > 0
			},
		},
		{
			name:   "skill_terms",
			typ:    TypeResume,
			weight: 3,
			present: func(text string, lib *patterns.Library) bool {
				return lib != nil && len(lib.MatchAll(patterns.CategorySkill, text)) >= 2
			},
		},
		{
			name:   "degree_phrase",
			typ:    TypeResume,
			weight: 1,
			present: func(text string, lib *patterns.Library) bool {
				return lib != nil && len(lib.MatchAll(patterns.CategoryDegree, text)) > 0
			},
		},
		{
			name:   "currency_amounts",
			typ:    TypeInvoice,
			weight: 1,
			present: func(text string, lib *patterns.Library) bool {
				return lib != nil && len(lib.MatchAll(patterns.CategoryCurrency, text)) >= 2
			},
		},
	}
}
