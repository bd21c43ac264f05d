package service

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/google/uuid"

	"github.com/smartetude/smartetude-backend/internal/domain/entities"
)

func buildSession(t *testing.T, seed int64) *entities.QuizSession {
	t.Helper()
	quizID := uuid.New()
	payload := NewPresentationBuilder(rand.New(rand.NewSource(seed))).Build(makeQuestions(quizID))
	return entities.NewQuizSession(quizID, payload)
}

func TestGrade_AllCorrectAnswersScoreFull(t *testing.T) {
	session := buildSession(t, 11)

	answers := make(map[string]string)
	for _, pq := range session.Questions {
		answers[pq.QuestionID.String()] = strconv.Itoa(session.CorrectAnswers[pq.QuestionID.String()])
	}

	result := Grade(session, answers)
	if result.Score != session.TotalQuestions {
		t.Fatalf("expected score %d, got %d", session.TotalQuestions, result.Score)
	}
	if result.Percentage != 100 {
		t.Fatalf("expected 100%%, got %v", result.Percentage)
	}
	for id, pr := range result.PerQuestion {
		if !pr.Correct {
			t.Fatalf("question %s graded incorrect", id)
		}
	}
}

func TestGrade_UnansweredQuestionsCountAsIncorrect(t *testing.T) {
	session := buildSession(t, 12)

	first := session.Questions[0]
	answers := map[string]string{
		first.QuestionID.String(): strconv.Itoa(session.CorrectAnswers[first.QuestionID.String()]),
	}

	result := Grade(session, answers)
	if result.Score != 1 {
		t.Fatalf("expected score 1, got %d", result.Score)
	}
	if result.Total != session.TotalQuestions {
		t.Fatalf("expected total %d, got %d", session.TotalQuestions, result.Total)
	}
	if len(result.PerQuestion) != 1 {
		t.Fatalf("expected 1 per-question entry, got %d", len(result.PerQuestion))
	}
}

func TestGrade_GarbageSubmissionsAreIncorrectNotErrors(t *testing.T) {
	session := buildSession(t, 13)

	answers := make(map[string]string)
	for _, pq := range session.Questions {
		answers[pq.QuestionID.String()] = "banana"
	}
	answers["not-a-question-id"] = "0"

	result := Grade(session, answers)
	if result.Score != 0 {
		t.Fatalf("expected score 0, got %d", result.Score)
	}
	if _, ok := result.PerQuestion["not-a-question-id"]; ok {
		t.Fatalf("unknown question id should be ignored")
	}
}

func TestGrade_TrueFalseAcceptsLabelSubmission(t *testing.T) {
	session := buildSession(t, 14)

	var tf *entities.PresentationQuestion
	for i := range session.Questions {
		if session.Questions[i].Type == entities.QuestionTypeTrueFalse {
			tf = &session.Questions[i]
			break
		}
	}
	if tf == nil {
		t.Fatalf("no true/false question in session")
	}

	correctLabel := tf.Options[session.CorrectAnswers[tf.QuestionID.String()]]
	result := Grade(session, map[string]string{tf.QuestionID.String(): correctLabel})
	if result.Score != 1 {
		t.Fatalf("label submission %q graded incorrect", correctLabel)
	}

	var wrongLabel string
	for _, opt := range tf.Options {
		if opt != correctLabel {
			wrongLabel = opt
		}
	}
	result = Grade(session, map[string]string{tf.QuestionID.String(): wrongLabel})
	if result.Score != 0 {
		t.Fatalf("wrong label %q graded correct", wrongLabel)
	}
}

func TestGrade_PercentageRoundedToTwoDecimals(t *testing.T) {
	quizID := uuid.New()
	questions := makeQuestions(quizID)
	payload := NewPresentationBuilder(rand.New(rand.NewSource(15))).Build(questions)
	session := entities.NewQuizSession(quizID, payload)

	first := session.Questions[0]
	answers := map[string]string{
		first.QuestionID.String(): strconv.Itoa(session.CorrectAnswers[first.QuestionID.String()]),
	}

	result := Grade(session, answers)
	// 1 of 3 correct.
	if result.Percentage != 33.33 {
		t.Fatalf("expected 33.33, got %v", result.Percentage)
	}
}

func TestGrade_EmptySessionScoresZero(t *testing.T) {
	session := entities.NewQuizSession(uuid.New(), entities.PresentationPayload{
		CorrectAnswers: map[string]int{},
	})

	result := Grade(session, map[string]string{})
	if result.Score != 0 || result.Total != 0 || result.Percentage != 0 {
		t.Fatalf("expected zeroes, got %+v", result)
	}
}
