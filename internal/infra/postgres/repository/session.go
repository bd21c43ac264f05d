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

var ErrSessionNotFound = errors.New("quiz session not found")

// SessionRepository persists quiz sessions, including the full presentation
// payload so grading happens against the exact shuffle the player saw.
type SessionRepository struct {
	db postgres.DBTX
}

// NewSessionRepository creates a new SessionRepository with the provided database pool.
func NewSessionRepository(db postgres.DBTX) *SessionRepository {
	return &SessionRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *SessionRepository) WithTx(tx pgx.Tx) *SessionRepository {
	return &SessionRepository{db: tx}
}

// Create inserts a new quiz session.
func (r *SessionRepository) Create(ctx context.Context, s *entities.QuizSession) error {
	questions, err := json.Marshal(s.Questions)
	if err != nil {
		return fmt.Errorf("marshal session questions: %w", err)
	}
	correct, err := json.Marshal(s.CorrectAnswers)
	if err != nil {
		return fmt.Errorf("marshal session correctness map: %w", err)
	}

	query := `
		INSERT INTO quiz_sessions (
			id, quiz_id, session_status, questions,
			correct_answers, total_questions, started_at, completed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = r.db.Exec(
		ctx,
		query,
		s.ID,
		s.QuizID,
		s.Status,
		questions,
		correct,
		s.TotalQuestions,
		s.StartedAt,
		s.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("create quiz session: %w", err)
	}

	return nil
}

// GetByID retrieves a session by its ID.
func (r *SessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.QuizSession, error) {
	query := `
		SELECT id, quiz_id, session_status, questions,
		       correct_answers, total_questions, started_at, completed_at
		FROM quiz_sessions
		WHERE id = $1
	`

	var (
		s         entities.QuizSession
		questions []byte
		correct   []byte
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.QuizID,
		&s.Status,
		&questions,
		&correct,
		&s.TotalQuestions,
		&s.StartedAt,
		&s.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get quiz session: %w", err)
	}

	if err := json.Unmarshal(questions, &s.Questions); err != nil {
		return nil, fmt.Errorf("unmarshal session questions: %w", err)
	}
	if err := json.Unmarshal(correct, &s.CorrectAnswers); err != nil {
		return nil, fmt.Errorf("unmarshal session correctness map: %w", err)
	}

	return &s, nil
}

// UpdateStatus stores a session's status and completion timestamp.
func (r *SessionRepository) UpdateStatus(ctx context.Context, s *entities.QuizSession) error {
	query := `
		UPDATE quiz_sessions
		SET session_status = $1, completed_at = $2
		WHERE id = $3
	`

	tag, err := r.db.Exec(ctx, query, s.Status, s.CompletedAt, s.ID)
	if err != nil {
		return fmt.Errorf("update quiz session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}

	return nil
}

// AbandonStale marks active sessions older than maxAge as abandoned and
// returns how many were affected.
func (r *SessionRepository) AbandonStale(ctx context.Context, maxAge time.Duration) (int64, error) {
	query := `
		UPDATE quiz_sessions
		SET session_status = $1
		WHERE session_status = $2 AND started_at < $3
	`

	tag, err := r.db.Exec(ctx, query, entities.SessionAbandoned, entities.SessionActive, time.Now().Add(-maxAge))
	if err != nil {
		return 0, fmt.Errorf("abandon stale sessions: %w", err)
	}

	return tag.RowsAffected(), nil
}
