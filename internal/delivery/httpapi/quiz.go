package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/smartetude/smartetude-backend/internal/service"
)

// QuizHandler serves quiz generation, session and grading endpoints.
type QuizHandler struct {
	quizzes *service.QuizService
	logger  *zap.Logger
}

// NewQuizHandler creates a new quiz handler.
func NewQuizHandler(quizzes *service.QuizService, logger *zap.Logger) *QuizHandler {
	return &QuizHandler{quizzes: quizzes, logger: logger}
}

type generateQuizRequest struct {
	Title        string `json:"title"`
	NumQuestions int    `json:"num_questions"`
	Difficulty   string `json:"difficulty"`
	PassingScore int    `json:"passing_score"`
}

// Generate handles POST /courses/:id/quizzes.
func (h *QuizHandler) Generate(c *gin.Context) {
	courseID, ok := parseID(c)
	if !ok {
		return
	}

	var req generateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		respondBadRequest(c, "invalid request body")
		return
	}

	quiz, questions, err := h.quizzes.GenerateQuiz(c.Request.Context(), service.GenerateQuizInput{
		CourseID:     courseID,
		Title:        req.Title,
		NumQuestions: req.NumQuestions,
		Difficulty:   req.Difficulty,
		PassingScore: req.PassingScore,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, toQuizResponse(quiz, len(questions)))
}

// ListByCourse handles GET /courses/:id/quizzes.
func (h *QuizHandler) ListByCourse(c *gin.Context) {
	courseID, ok := parseID(c)
	if !ok {
		return
	}

	quizzes, err := h.quizzes.ListQuizzes(c.Request.Context(), courseID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	out := make([]quizResponse, 0, len(quizzes))
	for _, q := range quizzes {
		out = append(out, toQuizResponse(q, 0))
	}
	c.JSON(http.StatusOK, gin.H{"quizzes": out})
}

// Get handles GET /quizzes/:id.
func (h *QuizHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	quiz, questions, err := h.quizzes.GetQuiz(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toQuizResponse(quiz, len(questions)))
}

// StartSession handles POST /quizzes/:id/sessions. The response contains the
// shuffled questions without their correct answers.
func (h *QuizHandler) StartSession(c *gin.Context) {
	quizID, ok := parseID(c)
	if !ok {
		return
	}

	session, err := h.quizzes.StartSession(c.Request.Context(), quizID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, toSessionResponse(session))
}

type submitRequest struct {
	UserName         string            `json:"user_name"`
	Answers          map[string]string `json:"answers" binding:"required"`
	TimeTakenSeconds int64             `json:"time_taken_seconds"`
}

// Submit handles POST /sessions/:id/submit.
func (h *QuizHandler) Submit(c *gin.Context) {
	sessionID, ok := parseID(c)
	if !ok {
		return
	}

	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "answers are required")
		return
	}

	result, err := h.quizzes.Submit(c.Request.Context(), service.SubmitInput{
		SessionID: sessionID,
		UserName:  req.UserName,
		Answers:   req.Answers,
		TimeTaken: time.Duration(req.TimeTakenSeconds) * time.Second,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, submitResponse{
		Attempt:   toAttemptResponse(result.Attempt),
		Stats:     toStatsResponse(result.Stats),
		LeveledUp: result.LeveledUp,
		Grade:     result.Grade,
	})
}

// GetAttempt handles GET /attempts/:id.
func (h *QuizHandler) GetAttempt(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	attempt, err := h.quizzes.GetAttempt(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toAttemptResponse(attempt))
}

// Correction handles GET /attempts/:id/correction: the full per-question
// review with the options exactly as the player saw them.
func (h *QuizHandler) Correction(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	attempt, items, err := h.quizzes.Correction(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, correctionResponse{
		Attempt: toAttemptResponse(attempt),
		Items:   items,
	})
}
