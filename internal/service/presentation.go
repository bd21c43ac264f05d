package service

import (
	"math/rand"

	"github.com/smartetude/smartetude-backend/internal/domain/entities"
)

// PresentationBuilder produces the per-session randomized view of a quiz:
// shuffled question order, shuffled options per question and the correctness
// map for that exact shuffle. The random source is injected so tests can pin
// a seed.
type PresentationBuilder struct {
	rng *rand.Rand
}

// NewPresentationBuilder creates a builder around the given random source.
// A nil rng uses the package-level locked source, which is safe for
// concurrent sessions; an explicit rng must not be shared across goroutines.
func NewPresentationBuilder(rng *rand.Rand) *PresentationBuilder {
	return &PresentationBuilder{rng: rng}
}

func (b *PresentationBuilder) shuffle(n int, swap func(i, j int)) {
	if b.rng != nil {
		b.rng.Shuffle(n, swap)
		return
	}
	rand.Shuffle(n, swap)
}

// Build shuffles the persisted questions into a fresh presentation payload.
// A stored correct answer that is missing from its own options is a data
// inconsistency: the index defaults to 0 and the question ID is reported in
// Mismatched instead of failing the whole quiz.
func (b *PresentationBuilder) Build(questions []entities.Question) entities.PresentationPayload {
	ordered := append([]entities.Question(nil), questions...)
	b.shuffle(len(ordered), func(i, j int) {
		ordered[i], ordered[j] = ordered[j], ordered[i]
	})

	payload := entities.PresentationPayload{
		Questions:      make([]entities.PresentationQuestion, 0, len(ordered)),
		CorrectAnswers: make(map[string]int, len(ordered)),
	}

	for _, q := range ordered {
		var pq entities.PresentationQuestion
		if q.Type == entities.QuestionTypeTrueFalse {
			pq = b.buildTrueFalse(q)
		} else {
			var mismatch bool
			pq, mismatch = b.buildMultipleChoice(q)
			if mismatch {
				payload.Mismatched = append(payload.Mismatched, q.ID.String())
			}
		}
		payload.Questions = append(payload.Questions, pq)
		payload.CorrectAnswers[q.ID.String()] = pq.CorrectIndex
	}
	return payload
}

func (b *PresentationBuilder) buildMultipleChoice(q entities.Question) (entities.PresentationQuestion, bool) {
	options := append([]string(nil), q.Options...)
	if len(options) == 0 {
		options = append([]string(nil), defaultMCQOptions...)
	}
	b.shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	correctIndex := -1
	for i, opt := range options {
		if opt == q.CorrectAnswer {
			correctIndex = i
			break
		}
	}
	mismatch := correctIndex < 0
	if mismatch {
		correctIndex = 0
	}

	return entities.PresentationQuestion{
		QuestionID:   q.ID,
		Type:         q.Type,
		Text:         q.Text,
		Options:      options,
		CorrectIndex: correctIndex,
	}, mismatch
}

func (b *PresentationBuilder) buildTrueFalse(q entities.Question) entities.PresentationQuestion {
	options := []string{entities.TrueLabel, entities.FalseLabel}
	b.shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	correctLabel := TruthLabel(NormalizeTruth(q.CorrectAnswer))
	correctIndex := 0
	if options[1] == correctLabel {
		correctIndex = 1
	}

	return entities.PresentationQuestion{
		QuestionID:   q.ID,
		Type:         q.Type,
		Text:         q.Text,
		Options:      options,
		CorrectIndex: correctIndex,
	}
}
