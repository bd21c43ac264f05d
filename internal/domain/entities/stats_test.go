package entities

import (
	"testing"

	"github.com/google/uuid"
)

func TestLevelFor_Thresholds(t *testing.T) {
	cases := []struct {
		xp   int
		want int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{399, 2},
		{400, 3},
		{900, 4},
		{-5, 1},
	}

	for _, tc := range cases {
		if got := levelFor(tc.xp); got != tc.want {
			t.Fatalf("levelFor(%d) = %d, want %d", tc.xp, got, tc.want)
		}
	}
}

func TestApplyAttempt_AwardsExperienceAndCounters(t *testing.T) {
	s := NewUserStats("lea")

	a := NewQuizAttempt(uuid.New(), uuid.New(), "lea")
	a.Finalize(8, 10, 70)

	leveled := s.ApplyAttempt(a)

	if s.QuizzesTaken != 1 || s.QuizzesPassed != 1 {
		t.Fatalf("counters = %d/%d", s.QuizzesTaken, s.QuizzesPassed)
	}
	if s.AverageScore != 80 {
		t.Fatalf("average = %v, want 80", s.AverageScore)
	}
	// 8 correct * 10 XP + 50 pass bonus.
	if s.ExperiencePoints != 130 {
		t.Fatalf("xp = %d, want 130", s.ExperiencePoints)
	}
	if s.Level != 2 || !leveled {
		t.Fatalf("level = %d (leveled=%v), want 2 with level-up", s.Level, leveled)
	}
}

func TestApplyAttempt_FailedAttemptNoBonus(t *testing.T) {
	s := NewUserStats("sam")

	a := NewQuizAttempt(uuid.New(), uuid.New(), "sam")
	a.Finalize(3, 10, 70)

	leveled := s.ApplyAttempt(a)

	if s.QuizzesPassed != 0 {
		t.Fatalf("passed counter = %d, want 0", s.QuizzesPassed)
	}
	if s.ExperiencePoints != 30 {
		t.Fatalf("xp = %d, want 30", s.ExperiencePoints)
	}
	if leveled {
		t.Fatalf("unexpected level-up at 30 xp")
	}
}

func TestApplyAttempt_RunningAverage(t *testing.T) {
	s := NewUserStats("ali")

	first := NewQuizAttempt(uuid.New(), uuid.New(), "ali")
	first.Finalize(10, 10, 70)
	s.ApplyAttempt(first)

	second := NewQuizAttempt(uuid.New(), uuid.New(), "ali")
	second.Finalize(5, 10, 70)
	s.ApplyAttempt(second)

	if s.QuizzesTaken != 2 {
		t.Fatalf("taken = %d", s.QuizzesTaken)
	}
	if s.AverageScore != 75 {
		t.Fatalf("average = %v, want 75", s.AverageScore)
	}
}
