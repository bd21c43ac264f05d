package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/smartetude/smartetude-backend/internal/domain/entities"
	"github.com/smartetude/smartetude-backend/internal/infra/postgres"
)

var ErrAttemptNotFound = errors.New("quiz attempt not found")

// AttemptRepository provides access to graded quiz attempts in the database.
type AttemptRepository struct {
	db postgres.DBTX
}

// NewAttemptRepository creates a new AttemptRepository with the provided database pool.
func NewAttemptRepository(db postgres.DBTX) *AttemptRepository {
	return &AttemptRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *AttemptRepository) WithTx(tx pgx.Tx) *AttemptRepository {
	return &AttemptRepository{db: tx}
}

// Create inserts a graded attempt.
func (r *AttemptRepository) Create(ctx context.Context, a *entities.QuizAttempt) error {
	answers, err := json.Marshal(a.Answers)
	if err != nil {
		return fmt.Errorf("marshal attempt answers: %w", err)
	}

	query := `
		INSERT INTO quiz_attempts (
			id, quiz_id, session_id, user_name, answers, score, total_questions,
			score_percentage, passed, time_taken_seconds, started_at, completed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err = r.db.Exec(
		ctx,
		query,
		a.ID,
		a.QuizID,
		a.SessionID,
		a.UserName,
		answers,
		a.Score,
		a.TotalQuestions,
		a.ScorePercentage,
		a.Passed,
		int64(a.TimeTaken/time.Second),
		a.StartedAt,
		a.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("create quiz attempt: %w", err)
	}

	return nil
}

// GetByID retrieves an attempt by its ID.
func (r *AttemptRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.QuizAttempt, error) {
	query := `
		SELECT id, quiz_id, session_id, user_name, answers, score, total_questions,
		       score_percentage, passed, time_taken_seconds, started_at, completed_at
		FROM quiz_attempts
		WHERE id = $1
	`

	var (
		a       entities.QuizAttempt
		answers []byte
		seconds int64
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&a.ID,
		&a.QuizID,
		&a.SessionID,
		&a.UserName,
		&answers,
		&a.Score,
		&a.TotalQuestions,
		&a.ScorePercentage,
		&a.Passed,
		&seconds,
		&a.StartedAt,
		&a.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("get quiz attempt: %w", err)
	}

	a.TimeTaken = time.Duration(seconds) * time.Second
	if err := json.Unmarshal(answers, &a.Answers); err != nil {
		return nil, fmt.Errorf("unmarshal attempt answers: %w", err)
	}

	return &a, nil
}
