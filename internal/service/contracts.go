package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/smartetude/smartetude-backend/internal/domain/entities"
)

type CourseRepository interface {
	Create(ctx context.Context, c *entities.Course) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Course, error)
	List(ctx context.Context, limit int) ([]*entities.Course, error)
	UpdateSummary(ctx context.Context, id uuid.UUID, summary string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// LLMClient is the text-generation collaborator. Its output carries no format
// guarantee; the quiz parser is total for exactly that reason.
type LLMClient interface {
	GenerateQuiz(ctx context.Context, courseText string, numQuestions int, difficulty, language string) (string, error)
	GenerateSummary(ctx context.Context, courseText, level, language string) (string, error)
	ChatWithCourse(ctx context.Context, courseText, question, language string) (string, error)
}

// Cache stores generated results keyed by course and generation parameters.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}
