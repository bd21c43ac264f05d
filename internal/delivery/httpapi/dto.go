package httpapi

import (
	"time"

	"github.com/smartetude/smartetude-backend/internal/domain/entities"
	"github.com/smartetude/smartetude-backend/internal/service"
)

type courseResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Difficulty  string    `json:"difficulty"`
	FileName    string    `json:"file_name"`
	HasText     bool      `json:"has_text"`
	Summary     string    `json:"summary,omitempty"`
	OwnerName   string    `json:"owner_name"`
	IsPublic    bool      `json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
}

func toCourseResponse(c *entities.Course) courseResponse {
	return courseResponse{
		ID:          c.ID.String(),
		Title:       c.Title,
		Description: c.Description,
		Difficulty:  c.Difficulty,
		FileName:    c.FileName,
		HasText:     c.HasText(),
		Summary:     c.Summary,
		OwnerName:   c.OwnerName,
		IsPublic:    c.IsPublic,
		CreatedAt:   c.CreatedAt,
	}
}

type quizResponse struct {
	ID            string    `json:"id"`
	CourseID      string    `json:"course_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Difficulty    string    `json:"difficulty"`
	PassingScore  int       `json:"passing_score"`
	QuestionCount int       `json:"question_count,omitempty"`
	TotalAttempts int       `json:"total_attempts"`
	AverageScore  float64   `json:"average_score"`
	SuccessRate   float64   `json:"success_rate"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

func toQuizResponse(q *entities.Quiz, questionCount int) quizResponse {
	return quizResponse{
		ID:            q.ID.String(),
		CourseID:      q.CourseID.String(),
		Title:         q.Title,
		Description:   q.Description,
		Difficulty:    q.Difficulty,
		PassingScore:  q.PassingScore,
		QuestionCount: questionCount,
		TotalAttempts: q.TotalAttempts,
		AverageScore:  q.AverageScore,
		SuccessRate:   q.SuccessRate,
		IsActive:      q.IsActive,
		CreatedAt:     q.CreatedAt,
	}
}

// sessionQuestionResponse is the player-facing view of one session question.
// It deliberately omits the correct index.
type sessionQuestionResponse struct {
	QuestionID string   `json:"question_id"`
	Type       string   `json:"type"`
	Text       string   `json:"text"`
	Options    []string `json:"options"`
}

type sessionResponse struct {
	SessionID      string                    `json:"session_id"`
	QuizID         string                    `json:"quiz_id"`
	Status         string                    `json:"status"`
	TotalQuestions int                       `json:"total_questions"`
	Questions      []sessionQuestionResponse `json:"questions"`
	StartedAt      time.Time                 `json:"started_at"`
}

func toSessionResponse(s *entities.QuizSession) sessionResponse {
	questions := make([]sessionQuestionResponse, 0, len(s.Questions))
	for _, q := range s.Questions {
		questions = append(questions, sessionQuestionResponse{
			QuestionID: q.QuestionID.String(),
			Type:       string(q.Type),
			Text:       q.Text,
			Options:    q.Options,
		})
	}
	return sessionResponse{
		SessionID:      s.ID.String(),
		QuizID:         s.QuizID.String(),
		Status:         s.Status,
		TotalQuestions: s.TotalQuestions,
		Questions:      questions,
		StartedAt:      s.StartedAt,
	}
}

type attemptResponse struct {
	ID               string    `json:"id"`
	QuizID           string    `json:"quiz_id"`
	SessionID        string    `json:"session_id"`
	UserName         string    `json:"user_name"`
	Score            int       `json:"score"`
	TotalQuestions   int       `json:"total_questions"`
	ScorePercentage  float64   `json:"score_percentage"`
	Passed           bool      `json:"passed"`
	TimeTakenSeconds int64     `json:"time_taken_seconds"`
	CompletedAt      time.Time `json:"completed_at"`
}

func toAttemptResponse(a *entities.QuizAttempt) attemptResponse {
	return attemptResponse{
		ID:               a.ID.String(),
		QuizID:           a.QuizID.String(),
		SessionID:        a.SessionID.String(),
		UserName:         a.UserName,
		Score:            a.Score,
		TotalQuestions:   a.TotalQuestions,
		ScorePercentage:  a.ScorePercentage,
		Passed:           a.Passed,
		TimeTakenSeconds: int64(a.TimeTaken / time.Second),
		CompletedAt:      a.CompletedAt,
	}
}

type submitResponse struct {
	Attempt   attemptResponse     `json:"attempt"`
	Stats     statsResponse       `json:"stats"`
	LeveledUp bool                `json:"leveled_up"`
	Grade     service.GradeResult `json:"grade"`
}

type statsResponse struct {
	UserName         string  `json:"user_name"`
	QuizzesTaken     int     `json:"quizzes_taken"`
	QuizzesPassed    int     `json:"quizzes_passed"`
	AverageScore     float64 `json:"average_score"`
	ExperiencePoints int     `json:"experience_points"`
	Level            int     `json:"level"`
}

func toStatsResponse(s *entities.UserStats) statsResponse {
	return statsResponse{
		UserName:         s.UserName,
		QuizzesTaken:     s.QuizzesTaken,
		QuizzesPassed:    s.QuizzesPassed,
		AverageScore:     s.AverageScore,
		ExperiencePoints: s.ExperiencePoints,
		Level:            s.Level,
	}
}

type correctionResponse struct {
	Attempt attemptResponse          `json:"attempt"`
	Items   []service.CorrectionItem `json:"items"`
}
