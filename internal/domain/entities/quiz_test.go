package entities

import (
	"testing"

	"github.com/google/uuid"
)

func TestFinalize_ComputesPercentageAndPass(t *testing.T) {
	cases := []struct {
		name         string
		score, total int
		passing      int
		wantPct      float64
		wantPassed   bool
	}{
		{"all correct", 5, 5, 70, 100, true},
		{"exactly at threshold", 7, 10, 70, 70, true},
		{"just below threshold", 2, 3, 70, 66.67, false},
		{"rounded above threshold", 7, 9, 70, 77.78, true},
		{"zero total", 0, 0, 70, 0, false},
		{"zero score", 0, 4, 70, 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := NewQuizAttempt(uuid.New(), uuid.New(), "lea")
			a.Finalize(tc.score, tc.total, tc.passing)

			if a.ScorePercentage != tc.wantPct {
				t.Fatalf("percentage = %v, want %v", a.ScorePercentage, tc.wantPct)
			}
			if a.Passed != tc.wantPassed {
				t.Fatalf("passed = %v, want %v", a.Passed, tc.wantPassed)
			}
			if a.CompletedAt.IsZero() {
				t.Fatalf("completed_at not set")
			}
		})
	}
}

func TestNewQuizAttempt_DefaultsAnonymousUser(t *testing.T) {
	a := NewQuizAttempt(uuid.New(), uuid.New(), "")
	if a.UserName != "Anonyme" {
		t.Fatalf("user name = %q, want Anonyme", a.UserName)
	}
}

func TestRecordAttempt_RunningAverages(t *testing.T) {
	q := NewQuiz(uuid.New(), "Quiz", "", "medium", 70)

	q.RecordAttempt(100, true)
	q.RecordAttempt(50, false)

	if q.TotalAttempts != 2 {
		t.Fatalf("total attempts = %d", q.TotalAttempts)
	}
	if q.AverageScore != 75 {
		t.Fatalf("average score = %v, want 75", q.AverageScore)
	}
	if q.SuccessRate != 50 {
		t.Fatalf("success rate = %v, want 50", q.SuccessRate)
	}

	q.RecordAttempt(80, true)
	if q.AverageScore != 76.67 {
		t.Fatalf("average score = %v, want 76.67", q.AverageScore)
	}
	if q.SuccessRate != 66.67 {
		t.Fatalf("success rate = %v, want 66.67", q.SuccessRate)
	}
}
