package service

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"

	"github.com/smartetude/smartetude-backend/internal/domain/entities"
)

func makeQuestions(quizID uuid.UUID) []entities.Question {
	return []entities.Question{
		*entities.NewQuestion(quizID, entities.GeneratedQuestion{
			Text:         "Quelle est la capitale de la France?",
			Type:         entities.QuestionTypeMultipleChoice,
			Options:      []string{"Paris", "Lyon", "Marseille", "Nice"},
			CorrectIndex: 0,
		}, 1),
		*entities.NewQuestion(quizID, entities.GeneratedQuestion{
			Text:         "La Terre est plate.",
			Type:         entities.QuestionTypeTrueFalse,
			Options:      []string{"Vrai", "Faux"},
			CorrectIndex: 1,
		}, 2),
		*entities.NewQuestion(quizID, entities.GeneratedQuestion{
			Text:         "Quelle couleur obtient-on en mélangeant bleu et jaune?",
			Type:         entities.QuestionTypeMultipleChoice,
			Options:      []string{"Vert", "Rouge", "Violet", "Orange"},
			CorrectIndex: 0,
		}, 3),
	}
}

func TestBuild_CorrectnessMapMatchesShuffledOptions(t *testing.T) {
	quizID := uuid.New()
	questions := makeQuestions(quizID)

	builder := NewPresentationBuilder(rand.New(rand.NewSource(42)))
	payload := builder.Build(questions)

	if len(payload.Questions) != len(questions) {
		t.Fatalf("expected %d questions, got %d", len(questions), len(payload.Questions))
	}
	if len(payload.CorrectAnswers) != len(questions) {
		t.Fatalf("expected %d correctness entries, got %d", len(questions), len(payload.CorrectAnswers))
	}
	if len(payload.Mismatched) != 0 {
		t.Fatalf("unexpected mismatches: %v", payload.Mismatched)
	}

	byID := make(map[uuid.UUID]entities.Question)
	for _, q := range questions {
		byID[q.ID] = q
	}

	for _, pq := range payload.Questions {
		idx, ok := payload.CorrectAnswers[pq.QuestionID.String()]
		if !ok {
			t.Fatalf("missing correctness entry for %s", pq.QuestionID)
		}
		if idx != pq.CorrectIndex {
			t.Fatalf("correctness map disagrees with question: %d vs %d", idx, pq.CorrectIndex)
		}
		if idx < 0 || idx >= len(pq.Options) {
			t.Fatalf("correct index %d out of range for %v", idx, pq.Options)
		}
		stored := byID[pq.QuestionID]
		if stored.Type == entities.QuestionTypeMultipleChoice && pq.Options[idx] != stored.CorrectAnswer {
			t.Fatalf("correct option %q does not match stored answer %q", pq.Options[idx], stored.CorrectAnswer)
		}
	}
}

func TestBuild_SameSeedSamePresentation(t *testing.T) {
	quizID := uuid.New()
	questions := makeQuestions(quizID)

	first := NewPresentationBuilder(rand.New(rand.NewSource(7))).Build(questions)
	second := NewPresentationBuilder(rand.New(rand.NewSource(7))).Build(questions)

	for i := range first.Questions {
		if first.Questions[i].QuestionID != second.Questions[i].QuestionID {
			t.Fatalf("question order differs at %d", i)
		}
		for j := range first.Questions[i].Options {
			if first.Questions[i].Options[j] != second.Questions[i].Options[j] {
				t.Fatalf("option order differs for question %d", i)
			}
		}
	}
}

func TestBuild_DoesNotMutateInput(t *testing.T) {
	quizID := uuid.New()
	questions := makeQuestions(quizID)
	originalFirst := questions[0].ID
	originalOptions := append([]string(nil), questions[0].Options...)

	NewPresentationBuilder(rand.New(rand.NewSource(1))).Build(questions)

	if questions[0].ID != originalFirst {
		t.Fatalf("input question order was mutated")
	}
	for i, opt := range originalOptions {
		if questions[0].Options[i] != opt {
			t.Fatalf("input option order was mutated")
		}
	}
}

func TestBuild_TrueFalseResolvesStoredAnswer(t *testing.T) {
	quizID := uuid.New()
	q := *entities.NewQuestion(quizID, entities.GeneratedQuestion{
		Text:         "La Terre est ronde.",
		Type:         entities.QuestionTypeTrueFalse,
		Options:      []string{"Vrai", "Faux"},
		CorrectIndex: 0,
	}, 1)

	for seed := int64(0); seed < 10; seed++ {
		payload := NewPresentationBuilder(rand.New(rand.NewSource(seed))).Build([]entities.Question{q})
		pq := payload.Questions[0]
		if pq.Options[pq.CorrectIndex] != "Vrai" {
			t.Fatalf("seed %d: correct option is %q, want Vrai", seed, pq.Options[pq.CorrectIndex])
		}
	}
}

func TestBuild_MissingCorrectAnswerReportedAsMismatch(t *testing.T) {
	quizID := uuid.New()
	q := *entities.NewQuestion(quizID, entities.GeneratedQuestion{
		Text:         "Question avec des données incohérentes?",
		Type:         entities.QuestionTypeMultipleChoice,
		Options:      []string{"Un", "Deux", "Trois"},
		CorrectIndex: 0,
	}, 1)
	q.CorrectAnswer = "Quatre" // not among the options

	payload := NewPresentationBuilder(rand.New(rand.NewSource(3))).Build([]entities.Question{q})

	if len(payload.Mismatched) != 1 || payload.Mismatched[0] != q.ID.String() {
		t.Fatalf("expected mismatch for %s, got %v", q.ID, payload.Mismatched)
	}
	if payload.Questions[0].CorrectIndex != 0 {
		t.Fatalf("expected defaulted correct index 0, got %d", payload.Questions[0].CorrectIndex)
	}
}
