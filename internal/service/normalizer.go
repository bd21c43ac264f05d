package service

import (
	"strconv"
	"strings"

	"github.com/smartetude/smartetude-backend/internal/domain/entities"
)

// Truth is the normalized form of a true/false answer. Unrecognized input is
// kept distinct instead of being silently collapsed, and always grades as
// incorrect.
type Truth int

const (
	TruthUnrecognized Truth = iota
	TruthTrue
	TruthFalse
)

// trueSynonyms and falseSynonyms map free-form true/false answers, trimmed and
// case-folded, to a truth value. "a"/"b" cover answer lines written as option
// letters.
var (
	trueSynonyms  = []string{"vrai", "true", "a"}
	falseSynonyms = []string{"faux", "false", "b"}
)

// NormalizeTruth canonicalizes a raw true/false answer string.
func NormalizeTruth(raw string) Truth {
	v := strings.ToLower(strings.TrimSpace(raw))
	for _, s := range trueSynonyms {
		if v == s {
			return TruthTrue
		}
	}
	for _, s := range falseSynonyms {
		if v == s {
			return TruthFalse
		}
	}
	return TruthUnrecognized
}

// TruthLabel returns the canonical stored label for a truth value. The binary
// collapse of Unrecognized to "Faux" is deliberate and only applies to stored
// correct answers, never to graded submissions.
func TruthLabel(t Truth) string {
	if t == TruthTrue {
		return entities.TrueLabel
	}
	return entities.FalseLabel
}

// ParseOptionIndex parses a submitted answer as an option index. It returns
// false for non-integer input or an index outside [0, optionCount); such
// submissions are graded incorrect, never rejected.
func ParseOptionIndex(raw string, optionCount int) (int, bool) {
	idx, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	if idx < 0 || idx >= optionCount {
		return 0, false
	}
	return idx, true
}
