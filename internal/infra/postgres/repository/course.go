package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/smartetude/smartetude-backend/internal/domain/entities"
	"github.com/smartetude/smartetude-backend/internal/infra/postgres"
)

var ErrCourseNotFound = errors.New("course not found")

// CourseRepository provides access to course data in the database.
type CourseRepository struct {
	db postgres.DBTX
}

// NewCourseRepository creates a new CourseRepository with the provided database pool.
func NewCourseRepository(db postgres.DBTX) *CourseRepository {
	return &CourseRepository{db: db}
}

// Create inserts a new course.
func (r *CourseRepository) Create(ctx context.Context, c *entities.Course) error {
	query := `
		INSERT INTO courses (
			id, title, description, difficulty, file_name,
			extracted_text, summary, owner_name, is_public, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.Exec(
		ctx,
		query,
		c.ID,
		c.Title,
		c.Description,
		c.Difficulty,
		c.FileName,
		c.ExtractedText,
		c.Summary,
		c.OwnerName,
		c.IsPublic,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create course: %w", err)
	}

	return nil
}

// GetByID retrieves a course by its ID.
func (r *CourseRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Course, error) {
	query := `
		SELECT id, title, description, difficulty, file_name,
		       extracted_text, summary, owner_name, is_public, created_at, updated_at
		FROM courses
		WHERE id = $1
	`

	var c entities.Course
	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.Title,
		&c.Description,
		&c.Difficulty,
		&c.FileName,
		&c.ExtractedText,
		&c.Summary,
		&c.OwnerName,
		&c.IsPublic,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("get course: %w", err)
	}

	return &c, nil
}

// List retrieves the most recent courses, newest first.
func (r *CourseRepository) List(ctx context.Context, limit int) ([]*entities.Course, error) {
	query := `
		SELECT id, title, description, difficulty, file_name,
		       extracted_text, summary, owner_name, is_public, created_at, updated_at
		FROM courses
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	var courses []*entities.Course
	for rows.Next() {
		var c entities.Course
		if err := rows.Scan(
			&c.ID,
			&c.Title,
			&c.Description,
			&c.Difficulty,
			&c.FileName,
			&c.ExtractedText,
			&c.Summary,
			&c.OwnerName,
			&c.IsPublic,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		courses = append(courses, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}

	return courses, nil
}

// UpdateSummary stores a generated summary on the course.
func (r *CourseRepository) UpdateSummary(ctx context.Context, id uuid.UUID, summary string) error {
	query := `
		UPDATE courses
		SET summary = $1, updated_at = now()
		WHERE id = $2
	`

	tag, err := r.db.Exec(ctx, query, summary, id)
	if err != nil {
		return fmt.Errorf("update course summary: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCourseNotFound
	}

	return nil
}

// Delete removes a course and, via cascade, its quizzes and questions.
func (r *CourseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCourseNotFound
	}

	return nil
}
