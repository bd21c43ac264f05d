package service

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smartetude/smartetude-backend/internal/domain/entities"
)

var ErrEmptyUpload = errors.New("uploaded file is empty")

// summaryFallbackLimit caps the raw-text excerpt returned when the language
// model is unavailable.
const summaryFallbackLimit = 800

// CourseService handles course upload, text extraction, summaries and chat.
type CourseService struct {
	courseRepo CourseRepository
	llm        LLMClient
	cache      Cache
	logger     *zap.Logger
}

// NewCourseService creates a new course service.
func NewCourseService(courseRepo CourseRepository, llm LLMClient, cache Cache, logger *zap.Logger) *CourseService {
	return &CourseService{
		courseRepo: courseRepo,
		llm:        llm,
		cache:      cache,
		logger:     logger,
	}
}

// CreateCourseInput carries a course upload: metadata plus the raw file bytes.
type CreateCourseInput struct {
	Title       string
	Description string
	Difficulty  string
	OwnerName   string
	IsPublic    bool
	FileName    string
	MimeType    string
	FileData    []byte
}

// CreateCourse extracts text from the uploaded document and persists the
// course. Extraction failure is not fatal: the course is stored without text
// and quiz generation will refuse it until a readable file is uploaded.
func (s *CourseService) CreateCourse(ctx context.Context, in CreateCourseInput) (*entities.Course, error) {
	if len(in.FileData) == 0 {
		return nil, ErrEmptyUpload
	}
	if in.Difficulty == "" {
		in.Difficulty = "intermediate"
	}

	course := entities.NewCourse(in.Title, in.Description, in.Difficulty, in.FileName, in.OwnerName)
	course.IsPublic = in.IsPublic

	text, err := ExtractText(in.FileName, in.MimeType, in.FileData)
	if err != nil {
		s.logger.Warn("text extraction failed",
			zap.String("file_name", in.FileName),
			zap.Error(err),
		)
	} else {
		course.ExtractedText = text
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}

	s.logger.Info("course created",
		zap.String("course_id", course.ID.String()),
		zap.String("file_name", in.FileName),
		zap.Int("text_length", len(course.ExtractedText)),
	)
	return course, nil
}

// GetCourse retrieves a course by its ID.
func (s *CourseService) GetCourse(ctx context.Context, id uuid.UUID) (*entities.Course, error) {
	return s.courseRepo.GetByID(ctx, id)
}

// ListCourses retrieves the most recent courses.
func (s *CourseService) ListCourses(ctx context.Context, limit int) ([]*entities.Course, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.courseRepo.List(ctx, limit)
}

// DeleteCourse removes a course and everything derived from it.
func (s *CourseService) DeleteCourse(ctx context.Context, id uuid.UUID) error {
	return s.courseRepo.Delete(ctx, id)
}

// Summarize returns an AI summary of a course at the requested level, served
// from cache when available. When the language model fails, a truncated
// excerpt of the course text is returned instead of an error so the player
// always gets something to read.
func (s *CourseService) Summarize(ctx context.Context, courseID uuid.UUID, level, language string) (string, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return "", err
	}
	if !course.HasText() {
		return "", ErrCourseHasNoText
	}
	if level == "" {
		level = "intermediate"
	}
	if language == "" {
		language = "french"
	}

	key := fmt.Sprintf("summary:%s:%s:%s", courseID, level, language)
	if cached, ok, err := s.cache.Get(ctx, key); err != nil {
		s.logger.Warn("summary cache lookup failed", zap.Error(err))
	} else if ok {
		return cached, nil
	}

	summary, err := s.llm.GenerateSummary(ctx, course.ExtractedText, level, language)
	if err != nil {
		s.logger.Warn("summary generation failed, returning excerpt",
			zap.String("course_id", courseID.String()),
			zap.Error(err),
		)
		return truncateRunes(course.ExtractedText, summaryFallbackLimit), nil
	}

	if err := s.cache.Set(ctx, key, summary); err != nil {
		s.logger.Warn("summary cache store failed", zap.Error(err))
	}
	if err := s.courseRepo.UpdateSummary(ctx, courseID, summary); err != nil {
		s.logger.Warn("summary persist failed", zap.Error(err))
	}
	return summary, nil
}

// Chat answers a free-form question about the course content.
func (s *CourseService) Chat(ctx context.Context, courseID uuid.UUID, question, language string) (string, error) {
	if utf8.RuneCountInString(question) == 0 {
		return "", errors.New("question is empty")
	}

	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return "", err
	}
	if !course.HasText() {
		return "", ErrCourseHasNoText
	}
	if language == "" {
		language = "french"
	}

	answer, err := s.llm.ChatWithCourse(ctx, course.ExtractedText, question, language)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	return answer, nil
}
