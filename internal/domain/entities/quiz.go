package entities

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Quiz groups the questions generated for a course.
type Quiz struct {
	ID            uuid.UUID // unique quiz ID
	CourseID      uuid.UUID // owning course
	Title         string    // quiz title
	Description   string    // optional description
	Difficulty    string    // "easy", "medium", or "hard"
	PassingScore  int       // minimum percentage to pass
	TotalAttempts int       // number of recorded attempts
	AverageScore  float64   // average score percentage over recorded attempts
	SuccessRate   float64   // percentage of recorded attempts that passed
	IsActive      bool      // whether the quiz can be played
	CreatedAt     time.Time // timestamp when the quiz was created
	UpdatedAt     time.Time // timestamp of the last update
}

// NewQuiz creates a new quiz for a course.
func NewQuiz(courseID uuid.UUID, title, description, difficulty string, passingScore int) *Quiz {
	now := time.Now()
	return &Quiz{
		ID:           uuid.New(),
		CourseID:     courseID,
		Title:        title,
		Description:  description,
		Difficulty:   difficulty,
		PassingScore: passingScore,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// RecordAttempt folds a finished attempt into the quiz rollup stats.
func (q *Quiz) RecordAttempt(scorePercentage float64, passed bool) {
	prev := float64(q.TotalAttempts)
	q.TotalAttempts++
	q.AverageScore = roundTwo((q.AverageScore*prev + scorePercentage) / float64(q.TotalAttempts))

	passedCount := q.SuccessRate / 100 * prev
	if passed {
		passedCount++
	}
	q.SuccessRate = roundTwo(passedCount / float64(q.TotalAttempts) * 100)
	q.UpdatedAt = time.Now()
}

// QuizAttempt is a recorded, graded play of a quiz. It is derived from a
// grading result and never mutated after Finalize.
type QuizAttempt struct {
	ID              uuid.UUID         // unique attempt ID
	QuizID          uuid.UUID         // quiz that was played
	SessionID       uuid.UUID         // session whose presentation was graded
	UserName        string            // display name, "Anonyme" when not provided
	Answers         map[string]string // raw submitted answers keyed by question ID
	Score           int               // number of correct answers
	TotalQuestions  int               // total questions in the session
	ScorePercentage float64           // score as a percentage, two decimals
	Passed          bool              // whether the passing score was reached
	TimeTaken       time.Duration     // reported or estimated completion time
	StartedAt       time.Time         // timestamp when the attempt started
	CompletedAt     time.Time         // timestamp when the attempt was graded
}

// NewQuizAttempt creates an attempt shell for a quiz session.
func NewQuizAttempt(quizID, sessionID uuid.UUID, userName string) *QuizAttempt {
	if userName == "" {
		userName = "Anonyme"
	}
	return &QuizAttempt{
		ID:        uuid.New(),
		QuizID:    quizID,
		SessionID: sessionID,
		UserName:  userName,
		StartedAt: time.Now(),
	}
}

// Finalize computes the percentage and pass flag from the raw score. The pass
// decision happens here, at the persistence boundary, not in the grader.
func (a *QuizAttempt) Finalize(score, totalQuestions, passingScore int) {
	a.Score = score
	a.TotalQuestions = totalQuestions
	if totalQuestions > 0 {
		a.ScorePercentage = roundTwo(float64(score) / float64(totalQuestions) * 100)
		a.Passed = a.ScorePercentage >= float64(passingScore)
	} else {
		a.ScorePercentage = 0
		a.Passed = false
	}
	a.CompletedAt = time.Now()
}

func roundTwo(v float64) float64 {
	return math.Round(v*100) / 100
}
