package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/smartetude/smartetude-backend/internal/domain/entities"
	"github.com/smartetude/smartetude-backend/internal/infra/postgres"
	"github.com/smartetude/smartetude-backend/internal/infra/postgres/repository"
)

var (
	ErrCourseHasNoText  = errors.New("course has no extracted text")
	ErrQuizInactive     = errors.New("quiz is not active")
	ErrQuizEmpty        = errors.New("quiz has no questions")
	ErrSessionClosed    = errors.New("quiz session is not active")
	ErrGenerationFailed = errors.New("generation failed")
)

const (
	defaultPassingScore         = 70
	defaultQuestionCount        = 5
	estimatedSecondsPerQuestion = 30
)

// Answer labels shown in the correction view for missing or unparseable
// submissions.
const (
	noAnswerLabel      = "Sans réponse"
	invalidAnswerLabel = "Réponse invalide"
)

// QuizService handles quiz generation, session lifecycle and grading.
type QuizService struct {
	courseRepo  CourseRepository
	quizRepo    *repository.QuizRepository
	sessionRepo *repository.SessionRepository
	attemptRepo *repository.AttemptRepository
	statsRepo   *repository.StatsRepository
	transactor  *postgres.Transactor
	llm         LLMClient
	cache       Cache
	parser      *QuizTextParser
	builder     *PresentationBuilder
	logger      *zap.Logger
}

// NewQuizService creates a new quiz service.
func NewQuizService(
	courseRepo CourseRepository,
	quizRepo *repository.QuizRepository,
	sessionRepo *repository.SessionRepository,
	attemptRepo *repository.AttemptRepository,
	statsRepo *repository.StatsRepository,
	transactor *postgres.Transactor,
	llm LLMClient,
	cache Cache,
	logger *zap.Logger,
) *QuizService {
	return &QuizService{
		courseRepo:  courseRepo,
		quizRepo:    quizRepo,
		sessionRepo: sessionRepo,
		attemptRepo: attemptRepo,
		statsRepo:   statsRepo,
		transactor:  transactor,
		llm:         llm,
		cache:       cache,
		parser:      NewQuizTextParser(),
		builder:     NewPresentationBuilder(nil),
		logger:      logger,
	}
}

// GenerateQuizInput carries the parameters of a quiz generation request.
type GenerateQuizInput struct {
	CourseID     uuid.UUID
	Title        string
	NumQuestions int
	Difficulty   string
	PassingScore int
}

// GenerateQuiz produces a quiz for a course: it asks the language model for
// raw quiz text (served from cache when available), parses it into questions
// and persists the quiz with its questions in one transaction.
func (s *QuizService) GenerateQuiz(ctx context.Context, in GenerateQuizInput) (*entities.Quiz, []entities.Question, error) {
	course, err := s.courseRepo.GetByID(ctx, in.CourseID)
	if err != nil {
		return nil, nil, fmt.Errorf("get course: %w", err)
	}
	if !course.HasText() {
		return nil, nil, ErrCourseHasNoText
	}

	if in.NumQuestions <= 0 {
		in.NumQuestions = defaultQuestionCount
	}
	if in.Difficulty == "" {
		in.Difficulty = "medium"
	}
	if in.PassingScore <= 0 {
		in.PassingScore = defaultPassingScore
	}
	if in.Title == "" {
		in.Title = "Quiz: " + course.Title
	}

	raw, err := s.generateQuizText(ctx, course, in.NumQuestions, in.Difficulty)
	if err != nil {
		return nil, nil, err
	}

	generated := s.parser.Parse(raw)
	quiz := entities.NewQuiz(course.ID, in.Title, course.Description, in.Difficulty, in.PassingScore)

	questions := make([]entities.Question, 0, len(generated))
	for i, g := range generated {
		g.Text = CleanQuestionText(g.Text)
		questions = append(questions, *entities.NewQuestion(quiz.ID, g, i+1))
	}

	err = s.transactor.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		quizRepo := s.quizRepo.WithTx(tx)
		if err := quizRepo.Create(ctx, quiz); err != nil {
			return err
		}
		for i := range questions {
			if err := quizRepo.CreateQuestion(ctx, &questions[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("persist quiz: %w", err)
	}

	s.logger.Info("quiz generated",
		zap.String("quiz_id", quiz.ID.String()),
		zap.String("course_id", course.ID.String()),
		zap.Int("questions", len(questions)),
	)
	return quiz, questions, nil
}

// generateQuizText returns the raw model output for a course, consulting the
// cache first. The cache key includes a digest of the course text so a
// re-uploaded course never reuses stale quiz text.
func (s *QuizService) generateQuizText(ctx context.Context, course *entities.Course, numQuestions int, difficulty string) (string, error) {
	key := quizCacheKey(course, numQuestions, difficulty)

	if cached, ok, err := s.cache.Get(ctx, key); err != nil {
		s.logger.Warn("quiz cache lookup failed", zap.Error(err))
	} else if ok {
		s.logger.Debug("quiz text served from cache", zap.String("course_id", course.ID.String()))
		return cached, nil
	}

	raw, err := s.llm.GenerateQuiz(ctx, course.ExtractedText, numQuestions, difficulty, "french")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	if err := s.cache.Set(ctx, key, raw); err != nil {
		s.logger.Warn("quiz cache store failed", zap.Error(err))
	}
	return raw, nil
}

func quizCacheKey(course *entities.Course, numQuestions int, difficulty string) string {
	sum := sha256.Sum256([]byte(course.ExtractedText))
	return fmt.Sprintf("quiz:%s:%d:%s:%s", course.ID, numQuestions, difficulty, hex.EncodeToString(sum[:8]))
}

// GetQuiz retrieves a quiz together with its persisted questions.
func (s *QuizService) GetQuiz(ctx context.Context, id uuid.UUID) (*entities.Quiz, []entities.Question, error) {
	quiz, err := s.quizRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	questions, err := s.quizRepo.GetQuestions(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return quiz, questions, nil
}

// ListQuizzes retrieves all quizzes of a course.
func (s *QuizService) ListQuizzes(ctx context.Context, courseID uuid.UUID) ([]*entities.Quiz, error) {
	return s.quizRepo.ListByCourse(ctx, courseID)
}

// StartSession builds a fresh shuffled presentation of a quiz and persists it
// as an active session. Every session reshuffles; two players never share a
// presentation.
func (s *QuizService) StartSession(ctx context.Context, quizID uuid.UUID) (*entities.QuizSession, error) {
	quiz, err := s.quizRepo.GetByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if !quiz.IsActive {
		return nil, ErrQuizInactive
	}

	questions, err := s.quizRepo.GetQuestions(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, ErrQuizEmpty
	}

	payload := s.builder.Build(questions)
	if len(payload.Mismatched) > 0 {
		s.logger.Warn("correct answers missing from options, defaulted to first option",
			zap.String("quiz_id", quizID.String()),
			zap.Strings("question_ids", payload.Mismatched),
		)
	}

	session := entities.NewQuizSession(quizID, payload)
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("quiz session started",
		zap.String("session_id", session.ID.String()),
		zap.String("quiz_id", quizID.String()),
	)
	return session, nil
}

// SubmitInput carries one player's answers for an active session.
type SubmitInput struct {
	SessionID uuid.UUID
	UserName  string
	Answers   map[string]string
	TimeTaken time.Duration
}

// SubmitResult is the outcome of grading a submission.
type SubmitResult struct {
	Attempt   *entities.QuizAttempt
	Grade     GradeResult
	Stats     *entities.UserStats
	LeveledUp bool
}

// Submit grades the submitted answers against the stored presentation of the
// session, then records the attempt, closes the session, folds the result
// into the quiz rollup and updates the player's stats, all in one
// transaction. A session accepts exactly one submission.
func (s *QuizService) Submit(ctx context.Context, in SubmitInput) (*SubmitResult, error) {
	session, err := s.sessionRepo.GetByID(ctx, in.SessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsActive() {
		return nil, ErrSessionClosed
	}

	quiz, err := s.quizRepo.GetByID(ctx, session.QuizID)
	if err != nil {
		return nil, err
	}

	grade := Grade(session, in.Answers)

	attempt := entities.NewQuizAttempt(quiz.ID, session.ID, in.UserName)
	attempt.Answers = in.Answers
	attempt.StartedAt = session.StartedAt
	attempt.TimeTaken = in.TimeTaken
	if attempt.TimeTaken <= 0 {
		attempt.TimeTaken = time.Duration(grade.Total) * estimatedSecondsPerQuestion * time.Second
	}
	attempt.Finalize(grade.Score, grade.Total, quiz.PassingScore)

	var (
		stats     *entities.UserStats
		leveledUp bool
	)
	err = s.transactor.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.attemptRepo.WithTx(tx).Create(ctx, attempt); err != nil {
			return err
		}

		session.Complete()
		if err := s.sessionRepo.WithTx(tx).UpdateStatus(ctx, session); err != nil {
			return err
		}

		quiz.RecordAttempt(attempt.ScorePercentage, attempt.Passed)
		if err := s.quizRepo.WithTx(tx).UpdateStats(ctx, quiz); err != nil {
			return err
		}

		statsRepo := s.statsRepo.WithTx(tx)
		stats, err = statsRepo.GetByUserName(ctx, attempt.UserName)
		if err != nil {
			if !errors.Is(err, repository.ErrStatsNotFound) {
				return err
			}
			stats = entities.NewUserStats(attempt.UserName)
		}
		leveledUp = stats.ApplyAttempt(attempt)
		return statsRepo.Upsert(ctx, stats)
	})
	if err != nil {
		return nil, fmt.Errorf("record attempt: %w", err)
	}

	s.logger.Info("quiz attempt recorded",
		zap.String("attempt_id", attempt.ID.String()),
		zap.String("session_id", session.ID.String()),
		zap.Float64("score_percentage", attempt.ScorePercentage),
		zap.Bool("passed", attempt.Passed),
	)
	return &SubmitResult{
		Attempt:   attempt,
		Grade:     grade,
		Stats:     stats,
		LeveledUp: leveledUp,
	}, nil
}

// GetAttempt retrieves a recorded attempt.
func (s *QuizService) GetAttempt(ctx context.Context, id uuid.UUID) (*entities.QuizAttempt, error) {
	return s.attemptRepo.GetByID(ctx, id)
}

// CorrectionItem is the per-question review of a graded attempt, in the
// order the player saw the questions.
type CorrectionItem struct {
	QuestionID      string   `json:"question_id"`
	Text            string   `json:"text"`
	Options         []string `json:"options"`
	CorrectAnswer   string   `json:"correct_answer"`
	SubmittedAnswer string   `json:"submitted_answer"`
	Correct         bool     `json:"correct"`
}

// Correction rebuilds the full review of an attempt from the stored session
// presentation: the exact options the player saw, what they answered and what
// was correct.
func (s *QuizService) Correction(ctx context.Context, attemptID uuid.UUID) (*entities.QuizAttempt, []CorrectionItem, error) {
	attempt, err := s.attemptRepo.GetByID(ctx, attemptID)
	if err != nil {
		return nil, nil, err
	}
	session, err := s.sessionRepo.GetByID(ctx, attempt.SessionID)
	if err != nil {
		return nil, nil, err
	}

	items := make([]CorrectionItem, 0, len(session.Questions))
	for i := range session.Questions {
		pq := &session.Questions[i]
		id := pq.QuestionID.String()
		raw, answered := attempt.Answers[id]
		correctIndex := session.CorrectAnswers[id]

		item := CorrectionItem{
			QuestionID:      id,
			Text:            pq.Text,
			Options:         pq.Options,
			SubmittedAnswer: displayAnswer(pq, raw, answered),
			Correct:         answered && isCorrectAnswer(pq, correctIndex, raw),
		}
		if correctIndex >= 0 && correctIndex < len(pq.Options) {
			item.CorrectAnswer = pq.Options[correctIndex]
		}
		items = append(items, item)
	}
	return attempt, items, nil
}

// displayAnswer resolves a raw submission to the option value to show in the
// correction view.
func displayAnswer(pq *entities.PresentationQuestion, raw string, answered bool) string {
	if !answered || raw == "" {
		return noAnswerLabel
	}
	if idx, ok := ParseOptionIndex(raw, len(pq.Options)); ok {
		return pq.Options[idx]
	}
	if pq.Type == entities.QuestionTypeTrueFalse {
		switch NormalizeTruth(raw) {
		case TruthTrue:
			return entities.TrueLabel
		case TruthFalse:
			return entities.FalseLabel
		}
	}
	return invalidAnswerLabel
}
