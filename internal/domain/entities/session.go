package entities

import (
	"time"

	"github.com/google/uuid"
)

// Session statuses.
const (
	SessionActive    = "active"
	SessionCompleted = "completed"
	SessionAbandoned = "abandoned"
)

// PresentationQuestion is the per-session randomized view of one persisted
// question: freshly shuffled options and the correct index into that shuffle.
type PresentationQuestion struct {
	QuestionID   uuid.UUID    `json:"question_id"`
	Type         QuestionType `json:"type"`
	Text         string       `json:"text"`
	Options      []string     `json:"options"`
	CorrectIndex int          `json:"correct_index"`
}

// PresentationPayload is the output of the presentation builder: shuffled
// question order plus the correctness map keyed by stringified question ID.
// Mismatched lists question IDs whose stored correct answer was not found in
// their own options; those defaulted to index 0 and signal bad quiz data.
type PresentationPayload struct {
	Questions      []PresentationQuestion `json:"questions"`
	CorrectAnswers map[string]int         `json:"correct_answers"`
	Mismatched     []string               `json:"mismatched,omitempty"`
}

// QuizSession persists the exact presentation shown to one player so that
// grading later uses the identical shuffle. A new session reshuffles; sessions
// are never shared or reused.
type QuizSession struct {
	ID             uuid.UUID              // unique session ID
	QuizID         uuid.UUID              // quiz being played
	Status         string                 // "active", "completed", or "abandoned"
	Questions      []PresentationQuestion // shuffled questions as shown to the player
	CorrectAnswers map[string]int         // correctness map for this shuffle
	TotalQuestions int                    // fixed at build time
	StartedAt      time.Time              // timestamp when the session started
	CompletedAt    *time.Time             // timestamp when graded (nullable)
}

// NewQuizSession creates an active session from a freshly built presentation.
func NewQuizSession(quizID uuid.UUID, payload PresentationPayload) *QuizSession {
	return &QuizSession{
		ID:             uuid.New(),
		QuizID:         quizID,
		Status:         SessionActive,
		Questions:      payload.Questions,
		CorrectAnswers: payload.CorrectAnswers,
		TotalQuestions: len(payload.Questions),
		StartedAt:      time.Now(),
	}
}

// IsActive reports whether the session can still accept a submission.
func (s *QuizSession) IsActive() bool {
	return s.Status == SessionActive
}

// Complete marks the session as graded and sets the completion timestamp.
func (s *QuizSession) Complete() {
	s.Status = SessionCompleted
	now := time.Now()
	s.CompletedAt = &now
}

// Question returns the presentation question with the given ID, or nil.
func (s *QuizSession) Question(id string) *PresentationQuestion {
	for i := range s.Questions {
		if s.Questions[i].QuestionID.String() == id {
			return &s.Questions[i]
		}
	}
	return nil
}
