package entities

import (
	"time"

	"github.com/google/uuid"
)

// Course represents an uploaded course document with its extracted text.
// The extracted text is the source material for AI summaries and quizzes.
type Course struct {
	ID            uuid.UUID  // unique course ID
	Title         string     // course title
	Description   string     // optional description
	Difficulty    string     // "beginner", "intermediate", or "advanced"
	FileName      string     // original name of the uploaded file
	ExtractedText string     // plain text extracted from the uploaded document
	Summary       string     // AI-generated summary, empty until generated
	OwnerName     string     // display name of the uploader
	IsPublic      bool       // whether the course is visible to everyone
	CreatedAt     time.Time  // timestamp when the course was created
	UpdatedAt     time.Time  // timestamp of the last update
}

// NewCourse creates a new course with a fresh ID and timestamps.
func NewCourse(title, description, difficulty, fileName, ownerName string) *Course {
	now := time.Now()
	return &Course{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		Difficulty:  difficulty,
		FileName:    fileName,
		OwnerName:   ownerName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// HasText reports whether any text was extracted from the uploaded document.
func (c *Course) HasText() bool {
	return len(c.ExtractedText) > 0
}
