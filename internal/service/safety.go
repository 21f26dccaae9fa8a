package service

import (
	"regexp"
	"strings"

	"finn-mini/internal/models"
)

// Crisis terms match anywhere in the message; out-of-scope terms only as
// whole words so "mg" does not fire inside "among". Amounts written as
// "10mg" count as a whole word.
const (
	crisisPattern     = `suicid(?:e|al)|self[-\s]?harm|kill myself|overdose`
	outOfScopePattern = `dosage|doses?|\d*\s*mg|milligrams?|diagnose|prescribe|medications?`
)

// SafetyClassifier checks messages against fixed crisis and out-of-scope
// vocabularies. It holds only compiled patterns and is safe to share.
type SafetyClassifier struct {
	crisis     *regexp.Regexp
	outOfScope *regexp.Regexp
}

// NewSafetyClassifier compiles the built-in vocabularies plus any extra
// literal terms. Extra crisis terms are matched anywhere, extra
// out-of-scope terms as whole words.
func NewSafetyClassifier(extraCrisis, extraOutOfScope []string) *SafetyClassifier {
	crisis := crisisPattern + quoteTerms(extraCrisis)
	oos := outOfScopePattern + quoteTerms(extraOutOfScope)
	return &SafetyClassifier{
		crisis:     regexp.MustCompile(`(?i)(?:` + crisis + `)`),
		outOfScope: regexp.MustCompile(`(?i)\b(?:` + oos + `)\b`),
	}
}

// Classify returns Crisis before OutOfScope when both match.
func (c *SafetyClassifier) Classify(message string) models.SafetyVerdict {
	if c.crisis.MatchString(message) {
		return models.SafetyVerdictCrisis
	}
	if c.outOfScope.MatchString(message) {
		return models.SafetyVerdictOutOfScope
	}
	return models.SafetyVerdictNone
}

func quoteTerms(terms []string) string {
	var b strings.Builder
	for _, t := range terms {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		b.WriteString("|")
		b.WriteString(regexp.QuoteMeta(t))
	}
	return b.String()
}
