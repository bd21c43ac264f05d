package entities

import (
	"time"

	"github.com/google/uuid"
)

// QuestionType distinguishes multiple choice questions from true/false ones.
type QuestionType string

const (
	QuestionTypeMultipleChoice QuestionType = "multiple_choice"
	QuestionTypeTrueFalse      QuestionType = "true_false"
)

// Canonical labels for true/false options. Generated quizzes are French-first,
// so the stored pair is always ["Vrai", "Faux"].
const (
	TrueLabel  = "Vrai"
	FalseLabel = "Faux"
)

// GeneratedQuestion is the transient output of the quiz text parser, before
// questions are persisted. CorrectIndex points into Options.
type GeneratedQuestion struct {
	Text         string
	Type         QuestionType
	Options      []string
	CorrectIndex int
}

// CorrectAnswer returns the option value at CorrectIndex, or the first option
// when the index is out of range.
func (g *GeneratedQuestion) CorrectAnswer() string {
	if len(g.Options) == 0 {
		return ""
	}
	if g.CorrectIndex < 0 || g.CorrectIndex >= len(g.Options) {
		return g.Options[0]
	}
	return g.Options[g.CorrectIndex]
}

// Question is a persisted quiz question. It is created once at parse time and
// never re-parsed or mutated afterwards.
type Question struct {
	ID            uuid.UUID    // unique question ID
	QuizID        uuid.UUID    // owning quiz
	Type          QuestionType // multiple choice or true/false
	Text          string       // question text, cleaned of numbering and answer fragments
	Options       []string     // stored option values, in generation order
	CorrectAnswer string       // correct option value as a string
	Order         int          // display order within the quiz, 1-based
	CreatedAt     time.Time    // timestamp when the question was created
}

// NewQuestion builds a persisted question from a parsed one.
func NewQuestion(quizID uuid.UUID, g GeneratedQuestion, order int) *Question {
	return &Question{
		ID:            uuid.New(),
		QuizID:        quizID,
		Type:          g.Type,
		Text:          g.Text,
		Options:       g.Options,
		CorrectAnswer: g.CorrectAnswer(),
		Order:         order,
		CreatedAt:     time.Now(),
	}
}
