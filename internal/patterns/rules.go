package patterns

import "regexp"

// skillVocabulary is the curated skill keyword list matched in resumes.
// Extended at load time by document templates.
var skillVocabulary = []string{
	"Python", "JavaScript", "TypeScript", "Java", "C++", "C#", "Go", "Rust",
	"React", "Angular", "Vue", "Node.js",
	"SQL", "MySQL", "PostgreSQL", "MongoDB", "Redis", "SQLite",
	"AWS", "Azure", "GCP", "Docker", "Kubernetes", "Terraform",
	"Git", "Linux", "Windows",
	"Machine Learning", "Deep Learning", "AI", "Data Science", "NLP",
	"Web Development", "Mobile Development", "UI/UX", "Agile", "Scrum",
}

// degreeVocabulary matches degree and institution phrases for the
// education extractor.
var degreeVocabulary = []string{
	"Bachelor of Science", "Bachelor of Arts", "Master of Science",
	"Master of Arts", "Master of Business Administration",
	"Bachelor", "Master", "Doctorate", "PhD", "Ph.D", "MBA",
	"B.S.", "B.A.", "M.S.", "M.A.",
	"University", "College", "Institute of Technology",
}

// builtinRules returns the built-in detector set, in registration order
// within each category. Rule order matters: matches are concatenated and
// de-duplicated by first occurrence.
func builtinRules() []*Rule {
	return []*Rule{
		{
			Name:     "email",
			Category: CategoryEmail,
			re:       regexp.MustCompile(`\b[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}\b`),
		},
		{
			Name:     "phone_intl",
			Category: CategoryPhone,
			re:       regexp.MustCompile(`\+\d{1,3}[-.\s]?\(?\d{1,4}\)?[-.\s]?\d{3,4}[-.\s]?\d{4}`),
		},
		{
			Name:     "phone_us",
			Category: CategoryPhone,
			re:       regexp.MustCompile(`\(?\d{3}\)?[-.\s]\d{3}[-.\s]?\d{4}\b`),
		},
		{
			Name:     "currency_symbol",
			Category: CategoryCurrency,
			re:       regexp.MustCompile(`\$\s?\d{1,3}(?:,\d{3})*(?:\.\d+)?|\$\s?\d+(?:\.\d+)?`),
		},
		{
			Name:     "currency_code",
			Category: CategoryCurrency,
			re:       regexp.MustCompile(`\b\d[\d,]*(?:\.\d+)?\s?(?:USD|EUR|GBP|CAD|AUD)\b`),
		},
		{
			Name:     "percentage",
			Category: CategoryPercentage,
			re:       regexp.MustCompile(`\b\d+(?:\.\d+)?\s?%`),
		},
		{
			Name:     "iso_date",
			Category: CategoryDate,
			re:       regexp.MustCompile(`\b\d{4}-\d{1,2}-\d{1,2}\b`),
		},
		{
			Name:     "slash_date",
			Category: CategoryDate,
			re:       regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`),
		},
		{
			Name:     "month_name_date",
			Category: CategoryDate,
			re: regexp.MustCompile(`(?i)\b(?:Jan(?:uary)?|Feb(?:ruary)?|Mar(?:ch)?|Apr(?:il)?|May|` +
				`Jun(?:e)?|Jul(?:y)?|Aug(?:ust)?|Sep(?:t(?:ember)?)?|Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?)\.?\s+\d{1,2},?\s+\d{4}\b`),
		},
		{
			Name:     "street_address",
			Category: CategoryAddress,
			re: regexp.MustCompile(`(?i)\b\d+\s+[A-Za-z0-9 .,'-]+?\b` +
				`(?:Street|St|Avenue|Ave|Road|Rd|Drive|Dr|Lane|Ln|Boulevard|Blvd|Way|Place|Pl|Court|Ct)\b\.?`),
		},
		{
			Name:     "plain_number",
			Category: CategoryNumber,
			re:       regexp.MustCompile(`\b\d[\d,]*(?:\.\d+)?\b`),
		},
		{
			Name:     "skill_vocabulary",
			Category: CategorySkill,
			keywords: skillVocabulary,
		},
		{
			Name:     "degree_vocabulary",
			Category: CategoryDegree,
			keywords: degreeVocabulary,
		},
	}
}
