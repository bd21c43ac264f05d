package httpapi

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smartetude/smartetude-backend/internal/service"
)

// CourseHandler serves course upload, listing, summary and chat endpoints.
type CourseHandler struct {
	courses        *service.CourseService
	maxUploadBytes int64
	logger         *zap.Logger
}

// NewCourseHandler creates a new course handler.
func NewCourseHandler(courses *service.CourseService, maxUploadBytes int64, logger *zap.Logger) *CourseHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 20 << 20
	}
	return &CourseHandler{
		courses:        courses,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// Create handles POST /courses: a multipart upload with the course document
// under the "file" field plus metadata fields.
func (h *CourseHandler) Create(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondBadRequest(c, "missing file field")
		return
	}
	if fileHeader.Size > h.maxUploadBytes {
		respondBadRequest(c, "file too large")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	title := strings.TrimSpace(c.PostForm("title"))
	if title == "" {
		title = fileHeader.Filename
	}

	course, err := h.courses.CreateCourse(c.Request.Context(), service.CreateCourseInput{
		Title:       title,
		Description: c.PostForm("description"),
		Difficulty:  c.PostForm("difficulty"),
		OwnerName:   c.PostForm("owner_name"),
		IsPublic:    c.PostForm("is_public") == "true",
		FileName:    fileHeader.Filename,
		MimeType:    fileHeader.Header.Get("Content-Type"),
		FileData:    data,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, toCourseResponse(course))
}

// List handles GET /courses.
func (h *CourseHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	courses, err := h.courses.ListCourses(c.Request.Context(), limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	out := make([]courseResponse, 0, len(courses))
	for _, course := range courses {
		out = append(out, toCourseResponse(course))
	}
	c.JSON(http.StatusOK, gin.H{"courses": out})
}

// Get handles GET /courses/:id.
func (h *CourseHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	course, err := h.courses.GetCourse(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toCourseResponse(course))
}

// Delete handles DELETE /courses/:id.
func (h *CourseHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.courses.DeleteCourse(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Summary handles GET /courses/:id/summary.
func (h *CourseHandler) Summary(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	summary, err := h.courses.Summarize(c.Request.Context(), id, c.Query("level"), c.Query("language"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

type chatRequest struct {
	Question string `json:"question" binding:"required"`
	Language string `json:"language"`
}

// Chat handles POST /courses/:id/chat.
func (h *CourseHandler) Chat(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "question is required")
		return
	}

	answer, err := h.courses.Chat(c.Request.Context(), id, req.Question, req.Language)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"answer": answer})
}

// parseID parses the :id path parameter as a UUID, responding 400 on failure.
func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}
