package service

import (
	"testing"

	"finn-mini/internal/models"
)

func TestClassify(t *testing.T) {
	c := NewSafetyClassifier(nil, nil)
	cases := map[string]models.SafetyVerdict{
		"I think about SUICIDE":              models.SafetyVerdictCrisis,
		"feeling suicidal tonight":           models.SafetyVerdictCrisis,
		"thoughts of Self-Harm":              models.SafetyVerdictCrisis,
		"self harm":                          models.SafetyVerdictCrisis,
		"selfharm":                           models.SafetyVerdictCrisis,
		"I want to Kill Myself":              models.SafetyVerdictCrisis,
		"what if I overdosed":                models.SafetyVerdictCrisis,
		"what dose of melatonin":             models.SafetyVerdictOutOfScope,
		"is 5 MG too much":                   models.SafetyVerdictOutOfScope,
		"can you Diagnose me":                models.SafetyVerdictOutOfScope,
		"which medication helps":             models.SafetyVerdictOutOfScope,
		"can I take 10mg of melatonin":       models.SafetyVerdictOutOfScope,
		"is 500 mg ok":                       models.SafetyVerdictOutOfScope,
		"how many milligrams":                models.SafetyVerdictOutOfScope,
		"two doses a day":                    models.SafetyVerdictOutOfScope,
		"my medications make me tired":       models.SafetyVerdictOutOfScope,
		"10mgx is not a unit":                models.SafetyVerdictNone,
		"overdose on my medication dosage":   models.SafetyVerdictCrisis,
		"how can I sleep better":             models.SafetyVerdictNone,
		"among friends I feel stressed":      models.SafetyVerdictNone,
		"dosed off on the couch (no period)": models.SafetyVerdictNone,
	}
	for msg, want := range cases {
		if got := c.Classify(msg); got != want {
			t.Errorf("Classify(%q) = %s, want %s", msg, got, want)
		}
	}
}

func TestClassify_ExtraTerms(t *testing.T) {
	c := NewSafetyClassifier([]string{"end it all"}, []string{"ssri", " "})
	if got := c.Classify("I want to END IT ALL"); got != models.SafetyVerdictCrisis {
		t.Errorf("extra crisis term: got %s", got)
	}
	if got := c.Classify("is an SSRI ok"); got != models.SafetyVerdictOutOfScope {
		t.Errorf("extra out-of-scope term: got %s", got)
	}
	if got := c.Classify("the ssrist said hi"); got != models.SafetyVerdictNone {
		t.Errorf("out-of-scope extra terms must match whole words: got %s", got)
	}
}
