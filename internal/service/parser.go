package service

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/smartetude/smartetude-backend/internal/domain/entities"
)

const (
	// shortAffirmativeLimit is the length threshold (in runes) below which a
	// question without a question mark is assumed to be true/false.
	shortAffirmativeLimit = 100

	// fallbackTextLimit caps the synthesized question text when no question
	// could be parsed at all.
	fallbackTextLimit = 500
)

var (
	questionStartRe = regexp.MustCompile(`^(\d+)\.\s*(.+)$`)
	optionLineRe    = regexp.MustCompile(`^([A-D])[.)]\s*(.+)$`)
	answerLineRe    = regexp.MustCompile(`(?i)^(?:Réponse correcte|Réponse|Correct|Answer)\s*:\s*(.+)$`)

	leadingNumberRe   = regexp.MustCompile(`^\d+\.\s*`)
	answerFragmentRe  = regexp.MustCompile(`(?is)\*\*.*?\*\*|Réponse correcte.*$|Explication.*$`)
	defaultMCQOptions = []string{"Option A", "Option B", "Option C", "Option D"}
)

// trueFalseCues are substrings that mark a question as true/false: explicit
// "vrai ou faux" phrasing plus absoluteness markers that LLM output uses for
// claim-style statements. Checked in order, first match wins.
var trueFalseCues = []string{
	"vrai ou faux", "true or false", "est-ce vrai", "est-ce faux",
	"cette affirmation est", "cette déclaration est", "ceci est vrai",
	"ceci est faux", "correct ou incorrect", "right or wrong",
	"a été adopté", "a été accéléré", "ne présente que", "n'a que",
	"principalement", "uniquement", "seulement", "exclusivement",
}

// TrueFalseRule is one priority-ordered classifier rule. Rules are tried in
// order and the first match classifies the question as true/false; no match
// means multiple choice.
type TrueFalseRule struct {
	Name    string
	Matches func(text string) bool
}

// DefaultTrueFalseRules returns the built-in rule table: cue substrings, then
// a definite-article + absoluteness structure check, then the short
// affirmative fallback.
func DefaultTrueFalseRules() []TrueFalseRule {
	return []TrueFalseRule{
		{
			Name: "cue-phrase",
			Matches: func(text string) bool {
				lower := strings.ToLower(text)
				for _, cue := range trueFalseCues {
					if strings.Contains(lower, cue) {
						return true
					}
				}
				return false
			},
		},
		{
			Name: "definite-article-absoluteness",
			Matches: func(text string) bool {
				lower := strings.ToLower(text)
				if !strings.HasPrefix(lower, "le ") && !strings.HasPrefix(lower, "la ") && !strings.HasPrefix(lower, "les ") {
					return false
				}
				return strings.Contains(lower, "principalement")
			},
		},
		{
			Name: "short-affirmative",
			Matches: func(text string) bool {
				return utf8.RuneCountInString(text) < shortAffirmativeLimit && !strings.Contains(text, "?")
			},
		},
	}
}

// QuizTextParser turns free-form LLM quiz output into structured questions.
// It is total: it never fails and always returns at least one question, since
// the upstream generation format is best-effort only.
type QuizTextParser struct {
	tfRules []TrueFalseRule
}

// NewQuizTextParser creates a parser with the given classifier rules, or the
// default rule table when none are provided.
func NewQuizTextParser(rules ...TrueFalseRule) *QuizTextParser {
	if len(rules) == 0 {
		rules = DefaultTrueFalseRules()
	}
	return &QuizTextParser{tfRules: rules}
}

func (p *QuizTextParser) classify(text string) entities.QuestionType {
	for _, rule := range p.tfRules {
		if rule.Matches(text) {
			return entities.QuestionTypeTrueFalse
		}
	}
	return entities.QuestionTypeMultipleChoice
}

// Parse consumes a block of generated text line by line and returns the
// questions it contains, in input order.
func (p *QuizTextParser) Parse(raw string) []entities.GeneratedQuestion {
	var questions []entities.GeneratedQuestion
	var current *entities.GeneratedQuestion
	var options []string

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := questionStartRe.FindStringSubmatch(line); m != nil {
			if current != nil {
				questions = append(questions, finalizeQuestion(*current, options))
			}
			text := strings.TrimSpace(m[2])
			current = &entities.GeneratedQuestion{
				Text: text,
				Type: p.classify(text),
			}
			options = nil
			continue
		}
		if current == nil {
			continue
		}

		if m := optionLineRe.FindStringSubmatch(line); m != nil && current.Type != entities.QuestionTypeTrueFalse {
			options = append(options, strings.TrimSpace(m[2]))
			continue
		}

		if current.Type == entities.QuestionTypeTrueFalse && isTrueFalseWord(line) {
			options = append(options, line)
			continue
		}

		if m := answerLineRe.FindStringSubmatch(line); m != nil {
			current.CorrectIndex = resolveAnswer(current.Type, strings.TrimSpace(m[1]))
			questions = append(questions, finalizeQuestion(*current, options))
			current = nil
			options = nil
		}
	}

	// The last question may end without an explicit answer line.
	if current != nil {
		questions = append(questions, finalizeQuestion(*current, options))
	}

	if len(questions) == 0 {
		questions = append(questions, fallbackQuestion(raw))
	}
	return questions
}

// isTrueFalseWord reports whether a whole line is a bare true/false option.
func isTrueFalseWord(line string) bool {
	switch strings.ToLower(line) {
	case "vrai", "faux", "true", "false":
		return true
	}
	return false
}

// resolveAnswer maps an answer-line value to an option index. Unknown values
// fall back to index 0, never an error.
func resolveAnswer(kind entities.QuestionType, value string) int {
	if kind == entities.QuestionTypeTrueFalse {
		if NormalizeTruth(value) == TruthTrue {
			return 0
		}
		return 1
	}
	upper := strings.ToUpper(value)
	if len(upper) == 1 && upper[0] >= 'A' && upper[0] <= 'D' {
		return int(upper[0] - 'A')
	}
	return 0
}

// finalizeQuestion fills in option defaults. True/false questions always end
// up with the canonical ["Vrai", "Faux"] pair regardless of what was
// collected; multiple choice questions get placeholder options when the
// generated text had none.
func finalizeQuestion(q entities.GeneratedQuestion, options []string) entities.GeneratedQuestion {
	if q.Type == entities.QuestionTypeTrueFalse {
		q.Options = []string{entities.TrueLabel, entities.FalseLabel}
	} else if len(options) > 0 {
		q.Options = options
	} else {
		q.Options = append([]string(nil), defaultMCQOptions...)
	}
	return q
}

// fallbackQuestion synthesizes a single question when nothing could be parsed,
// so a malformed generation never loses the whole batch.
func fallbackQuestion(raw string) entities.GeneratedQuestion {
	kind := entities.QuestionTypeMultipleChoice
	lower := strings.ToLower(raw)
	for _, word := range []string{"vrai", "faux", "true", "false"} {
		if strings.Contains(lower, word) {
			kind = entities.QuestionTypeTrueFalse
			break
		}
	}
	return finalizeQuestion(entities.GeneratedQuestion{
		Text: truncateRunes(raw, fallbackTextLimit),
		Type: kind,
	}, nil)
}

// CleanQuestionText strips leading numbering, bold markers and trailing answer
// or explanation fragments that leak from the generated text into the question.
func CleanQuestionText(text string) string {
	text = leadingNumberRe.ReplaceAllString(text, "")
	text = answerFragmentRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}
