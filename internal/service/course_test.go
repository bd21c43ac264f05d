package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smartetude/smartetude-backend/internal/domain/entities"
)

type fakeCourseRepo struct {
	courses map[uuid.UUID]*entities.Course
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{courses: make(map[uuid.UUID]*entities.Course)}
}

func (r *fakeCourseRepo) Create(_ context.Context, c *entities.Course) error {
	r.courses[c.ID] = c
	return nil
}

func (r *fakeCourseRepo) GetByID(_ context.Context, id uuid.UUID) (*entities.Course, error) {
	c, ok := r.courses[id]
	if !ok {
		return nil, errors.New("course not found")
	}
	return c, nil
}

func (r *fakeCourseRepo) List(_ context.Context, _ int) ([]*entities.Course, error) {
	out := make([]*entities.Course, 0, len(r.courses))
	for _, c := range r.courses {
		out = append(out, c)
	}
	return out, nil
}

func (r *fakeCourseRepo) UpdateSummary(_ context.Context, id uuid.UUID, summary string) error {
	c, ok := r.courses[id]
	if !ok {
		return errors.New("course not found")
	}
	c.Summary = summary
	return nil
}

func (r *fakeCourseRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.courses, id)
	return nil
}

type fakeLLM struct {
	summary string
	fail    bool
	calls   int
}

func (f *fakeLLM) GenerateQuiz(_ context.Context, _ string, _ int, _, _ string) (string, error) {
	f.calls++
	if f.fail {
		return "", errors.New("model unavailable")
	}
	return "1. Question?\nA. Oui\nB. Non\nRéponse: A", nil
}

func (f *fakeLLM) GenerateSummary(_ context.Context, _, _, _ string) (string, error) {
	f.calls++
	if f.fail {
		return "", errors.New("model unavailable")
	}
	return f.summary, nil
}

func (f *fakeLLM) ChatWithCourse(_ context.Context, _, question, _ string) (string, error) {
	f.calls++
	if f.fail {
		return "", errors.New("model unavailable")
	}
	return "réponse à " + question, nil
}

type fakeCache struct {
	values map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string]string)}
}

func (c *fakeCache) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := c.values[key]
	return v, ok, nil
}

func (c *fakeCache) Set(_ context.Context, key, value string) error {
	c.values[key] = value
	return nil
}

func TestCreateCourse_ExtractsTextFromUpload(t *testing.T) {
	repo := newFakeCourseRepo()
	svc := NewCourseService(repo, &fakeLLM{}, newFakeCache(), zap.NewNop())

	course, err := svc.CreateCourse(context.Background(), CreateCourseInput{
		Title:    "Photosynthèse",
		FileName: "cours.txt",
		MimeType: "text/plain",
		FileData: []byte("La photosynthèse convertit la lumière en énergie."),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !course.HasText() {
		t.Fatalf("expected extracted text")
	}
	if _, err := repo.GetByID(context.Background(), course.ID); err != nil {
		t.Fatalf("course not persisted: %v", err)
	}
}

func TestCreateCourse_UnreadableFileStoredWithoutText(t *testing.T) {
	repo := newFakeCourseRepo()
	svc := NewCourseService(repo, &fakeLLM{}, newFakeCache(), zap.NewNop())

	course, err := svc.CreateCourse(context.Background(), CreateCourseInput{
		Title:    "Binaire",
		FileName: "mystere.dat",
		FileData: []byte{0x00, 0x01, 0xFF, 0x00},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if course.HasText() {
		t.Fatalf("expected no extracted text")
	}
}

func TestCreateCourse_EmptyUploadRejected(t *testing.T) {
	svc := NewCourseService(newFakeCourseRepo(), &fakeLLM{}, newFakeCache(), zap.NewNop())

	if _, err := svc.CreateCourse(context.Background(), CreateCourseInput{FileName: "vide.txt"}); !errors.Is(err, ErrEmptyUpload) {
		t.Fatalf("expected ErrEmptyUpload, got %v", err)
	}
}

func TestSummarize_SecondCallServedFromCache(t *testing.T) {
	repo := newFakeCourseRepo()
	llm := &fakeLLM{summary: "Résumé du cours."}
	svc := NewCourseService(repo, llm, newFakeCache(), zap.NewNop())

	course, _ := svc.CreateCourse(context.Background(), CreateCourseInput{
		Title:    "Cours",
		FileName: "cours.txt",
		FileData: []byte("Contenu du cours en texte brut."),
	})

	first, err := svc.Summarize(context.Background(), course.ID, "beginner", "french")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.Summarize(context.Background(), course.ID, "beginner", "french")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first != second || first != "Résumé du cours." {
		t.Fatalf("unexpected summaries: %q / %q", first, second)
	}
	if llm.calls != 1 {
		t.Fatalf("expected 1 model call, got %d", llm.calls)
	}
}

func TestSummarize_ModelFailureReturnsExcerpt(t *testing.T) {
	repo := newFakeCourseRepo()
	svc := NewCourseService(repo, &fakeLLM{fail: true}, newFakeCache(), zap.NewNop())

	course, _ := svc.CreateCourse(context.Background(), CreateCourseInput{
		Title:    "Cours",
		FileName: "cours.txt",
		FileData: []byte("Contenu du cours suffisamment long pour servir d'extrait."),
	})

	summary, err := svc.Summarize(context.Background(), course.ID, "", "")
	if err != nil {
		t.Fatalf("expected excerpt fallback, got error: %v", err)
	}
	if !strings.HasPrefix(summary, "Contenu du cours") {
		t.Fatalf("unexpected excerpt: %q", summary)
	}
}

func TestSummarize_CourseWithoutTextRefused(t *testing.T) {
	repo := newFakeCourseRepo()
	svc := NewCourseService(repo, &fakeLLM{}, newFakeCache(), zap.NewNop())

	course, _ := svc.CreateCourse(context.Background(), CreateCourseInput{
		Title:    "Binaire",
		FileName: "mystere.dat",
		FileData: []byte{0x00, 0x01, 0xFF, 0x00},
	})

	if _, err := svc.Summarize(context.Background(), course.ID, "", ""); !errors.Is(err, ErrCourseHasNoText) {
		t.Fatalf("expected ErrCourseHasNoText, got %v", err)
	}
}

func TestChat_WrapsModelFailure(t *testing.T) {
	repo := newFakeCourseRepo()
	svc := NewCourseService(repo, &fakeLLM{fail: true}, newFakeCache(), zap.NewNop())

	course, _ := svc.CreateCourse(context.Background(), CreateCourseInput{
		Title:    "Cours",
		FileName: "cours.txt",
		FileData: []byte("Contenu du cours."),
	})

	if _, err := svc.Chat(context.Background(), course.ID, "De quoi parle ce cours?", ""); !errors.Is(err, ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed, got %v", err)
	}
}
