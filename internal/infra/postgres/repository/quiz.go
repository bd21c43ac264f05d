package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/smartetude/smartetude-backend/internal/domain/entities"
	"github.com/smartetude/smartetude-backend/internal/infra/postgres"
)

var ErrQuizNotFound = errors.New("quiz not found")

// QuizRepository provides access to quiz and question data in the database.
type QuizRepository struct {
	db postgres.DBTX
}

// NewQuizRepository creates a new QuizRepository with the provided database pool.
func NewQuizRepository(db postgres.DBTX) *QuizRepository {
	return &QuizRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *QuizRepository) WithTx(tx pgx.Tx) *QuizRepository {
	return &QuizRepository{db: tx}
}

// Create inserts a new quiz.
func (r *QuizRepository) Create(ctx context.Context, q *entities.Quiz) error {
	query := `
		INSERT INTO quizzes (
			id, course_id, title, description, difficulty, passing_score,
			total_attempts, average_score, success_rate, is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.Exec(
		ctx,
		query,
		q.ID,
		q.CourseID,
		q.Title,
		q.Description,
		q.Difficulty,
		q.PassingScore,
		q.TotalAttempts,
		q.AverageScore,
		q.SuccessRate,
		q.IsActive,
		q.CreatedAt,
		q.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create quiz: %w", err)
	}

	return nil
}

// CreateQuestion inserts one persisted question of a quiz.
func (r *QuizRepository) CreateQuestion(ctx context.Context, q *entities.Question) error {
	options, err := json.Marshal(q.Options)
	if err != nil {
		return fmt.Errorf("marshal question options: %w", err)
	}

	query := `
		INSERT INTO questions (
			id, quiz_id, question_type, question_text,
			options, correct_answer, question_order, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = r.db.Exec(
		ctx,
		query,
		q.ID,
		q.QuizID,
		string(q.Type),
		q.Text,
		options,
		q.CorrectAnswer,
		q.Order,
		q.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create question: %w", err)
	}

	return nil
}

// GetByID retrieves a quiz by its ID.
func (r *QuizRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Quiz, error) {
	query := `
		SELECT id, course_id, title, description, difficulty, passing_score,
		       total_attempts, average_score, success_rate, is_active, created_at, updated_at
		FROM quizzes
		WHERE id = $1
	`

	var q entities.Quiz
	err := r.db.QueryRow(ctx, query, id).Scan(
		&q.ID,
		&q.CourseID,
		&q.Title,
		&q.Description,
		&q.Difficulty,
		&q.PassingScore,
		&q.TotalAttempts,
		&q.AverageScore,
		&q.SuccessRate,
		&q.IsActive,
		&q.CreatedAt,
		&q.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("get quiz: %w", err)
	}

	return &q, nil
}

// ListByCourse retrieves all quizzes of a course, newest first.
func (r *QuizRepository) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*entities.Quiz, error) {
	query := `
		SELECT id, course_id, title, description, difficulty, passing_score,
		       total_attempts, average_score, success_rate, is_active, created_at, updated_at
		FROM quizzes
		WHERE course_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	defer rows.Close()

	var quizzes []*entities.Quiz
	for rows.Next() {
		var q entities.Quiz
		if err := rows.Scan(
			&q.ID,
			&q.CourseID,
			&q.Title,
			&q.Description,
			&q.Difficulty,
			&q.PassingScore,
			&q.TotalAttempts,
			&q.AverageScore,
			&q.SuccessRate,
			&q.IsActive,
			&q.CreatedAt,
			&q.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan quiz: %w", err)
		}
		quizzes = append(quizzes, &q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}

	return quizzes, nil
}

// GetQuestions retrieves a quiz's questions ordered by their display order.
func (r *QuizRepository) GetQuestions(ctx context.Context, quizID uuid.UUID) ([]entities.Question, error) {
	query := `
		SELECT id, quiz_id, question_type, question_text,
		       options, correct_answer, question_order, created_at
		FROM questions
		WHERE quiz_id = $1
		ORDER BY question_order, created_at
	`

	rows, err := r.db.Query(ctx, query, quizID)
	if err != nil {
		return nil, fmt.Errorf("get questions: %w", err)
	}
	defer rows.Close()

	var questions []entities.Question
	for rows.Next() {
		var (
			q       entities.Question
			kind    string
			options []byte
		)
		if err := rows.Scan(
			&q.ID,
			&q.QuizID,
			&kind,
			&q.Text,
			&options,
			&q.CorrectAnswer,
			&q.Order,
			&q.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		q.Type = entities.QuestionType(kind)
		if err := json.Unmarshal(options, &q.Options); err != nil {
			return nil, fmt.Errorf("unmarshal question options: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get questions: %w", err)
	}

	return questions, nil
}

// UpdateStats stores the attempt rollup counters of a quiz.
func (r *QuizRepository) UpdateStats(ctx context.Context, q *entities.Quiz) error {
	query := `
		UPDATE quizzes
		SET total_attempts = $1,
		    average_score = $2,
		    success_rate = $3,
		    updated_at = $4
		WHERE id = $5
	`

	tag, err := r.db.Exec(ctx, query, q.TotalAttempts, q.AverageScore, q.SuccessRate, q.UpdatedAt, q.ID)
	if err != nil {
		return fmt.Errorf("update quiz stats: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrQuizNotFound
	}

	return nil
}
