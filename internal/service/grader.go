package service

import (
	"math"

	"github.com/smartetude/smartetude-backend/internal/domain/entities"
)

// QuestionResult is the per-question grading outcome for one submitted answer.
type QuestionResult struct {
	Submitted    string `json:"submitted"`
	CorrectIndex int    `json:"correct_index"`
	Correct      bool   `json:"correct"`
}

// GradeResult is the aggregate outcome of grading one submission. Total is
// fixed at presentation-build time; unanswered questions count as incorrect
// but have no PerQuestion entry. The pass decision is not made here.
type GradeResult struct {
	Score       int                       `json:"score"`
	Total       int                       `json:"total"`
	Percentage  float64                   `json:"percentage"`
	PerQuestion map[string]QuestionResult `json:"per_question"`
}

// Grade checks submitted answers against the correctness map of the exact
// presentation the player saw. It never fails: unparseable or out-of-range
// submissions are simply incorrect.
func Grade(session *entities.QuizSession, answers map[string]string) GradeResult {
	result := GradeResult{
		Total:       session.TotalQuestions,
		PerQuestion: make(map[string]QuestionResult, len(answers)),
	}

	for questionID, raw := range answers {
		correctIndex, ok := session.CorrectAnswers[questionID]
		if !ok {
			continue
		}
		pq := session.Question(questionID)
		if pq == nil {
			continue
		}

		correct := isCorrectAnswer(pq, correctIndex, raw)
		result.PerQuestion[questionID] = QuestionResult{
			Submitted:    raw,
			CorrectIndex: correctIndex,
			Correct:      correct,
		}
		if correct {
			result.Score++
		}
	}

	if result.Total > 0 {
		result.Percentage = math.Round(float64(result.Score)/float64(result.Total)*100*100) / 100
	}
	return result
}

// isCorrectAnswer applies the normalizer rules: index equality for multiple
// choice, canonical truth comparison for true/false. A true/false submission
// may arrive either as an option index or as a label.
func isCorrectAnswer(pq *entities.PresentationQuestion, correctIndex int, raw string) bool {
	if pq.Type == entities.QuestionTypeMultipleChoice {
		idx, ok := ParseOptionIndex(raw, len(pq.Options))
		return ok && idx == correctIndex
	}

	submitted := raw
	if idx, ok := ParseOptionIndex(raw, len(pq.Options)); ok {
		submitted = pq.Options[idx]
	}
	truth := NormalizeTruth(submitted)
	if truth == TruthUnrecognized {
		return false
	}
	if correctIndex < 0 || correctIndex >= len(pq.Options) {
		return false
	}
	return truth == NormalizeTruth(pq.Options[correctIndex])
}
