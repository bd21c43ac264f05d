package entities

import (
	"math"
	"time"
)

// UserStats is the per-player gamification rollup: attempt counters,
// experience points and the level derived from them.
type UserStats struct {
	UserName         string    // player display name, the row key
	QuizzesTaken     int       // total graded attempts
	QuizzesPassed    int       // attempts that reached the passing score
	AverageScore     float64   // running average score percentage
	ExperiencePoints int       // accumulated XP
	Level            int       // level derived from XP
	UpdatedAt        time.Time // timestamp of the last update
}

// NewUserStats creates an empty stats row for a player.
func NewUserStats(userName string) *UserStats {
	return &UserStats{
		UserName:  userName,
		Level:     1,
		UpdatedAt: time.Now(),
	}
}

// ApplyAttempt folds a finalized attempt into the stats and awards XP.
// It returns true when the player gained a level.
func (s *UserStats) ApplyAttempt(a *QuizAttempt) bool {
	prev := float64(s.QuizzesTaken)
	s.QuizzesTaken++
	s.AverageScore = roundTwo((s.AverageScore*prev + a.ScorePercentage) / float64(s.QuizzesTaken))
	if a.Passed {
		s.QuizzesPassed++
	}
	s.UpdatedAt = time.Now()
	return s.AddExperience(experienceFor(a))
}

// AddExperience adds XP, recomputes the level and reports a level-up.
func (s *UserStats) AddExperience(points int) bool {
	s.ExperiencePoints += points
	oldLevel := s.Level
	s.Level = levelFor(s.ExperiencePoints)
	return s.Level > oldLevel
}

// levelFor derives the level from experience points: floor(sqrt(xp/100)) + 1,
// never below 1.
func levelFor(xp int) int {
	if xp < 0 {
		xp = 0
	}
	level := int(math.Sqrt(float64(xp)/100)) + 1
	if level < 1 {
		level = 1
	}
	return level
}

// experienceFor awards 10 XP per correct answer plus a 50 XP pass bonus.
func experienceFor(a *QuizAttempt) int {
	xp := a.Score * 10
	if a.Passed {
		xp += 50
	}
	return xp
}
