package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/smartetude/smartetude-backend/internal/domain/entities"
	"github.com/smartetude/smartetude-backend/internal/infra/postgres"
)

var ErrStatsNotFound = errors.New("user stats not found")

// StatsRepository provides access to per-player gamification stats.
type StatsRepository struct {
	db postgres.DBTX
}

// NewStatsRepository creates a new StatsRepository with the provided database pool.
func NewStatsRepository(db postgres.DBTX) *StatsRepository {
	return &StatsRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *StatsRepository) WithTx(tx pgx.Tx) *StatsRepository {
	return &StatsRepository{db: tx}
}

// GetByUserName retrieves the stats row for a player.
func (r *StatsRepository) GetByUserName(ctx context.Context, userName string) (*entities.UserStats, error) {
	query := `
		SELECT user_name, quizzes_taken, quizzes_passed, average_score,
		       experience_points, level, updated_at
		FROM user_stats
		WHERE user_name = $1
	`

	var s entities.UserStats
	err := r.db.QueryRow(ctx, query, userName).Scan(
		&s.UserName,
		&s.QuizzesTaken,
		&s.QuizzesPassed,
		&s.AverageScore,
		&s.ExperiencePoints,
		&s.Level,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStatsNotFound
		}
		return nil, fmt.Errorf("get user stats: %w", err)
	}

	return &s, nil
}

// Upsert inserts or replaces the stats row for a player.
func (r *StatsRepository) Upsert(ctx context.Context, s *entities.UserStats) error {
	query := `
		INSERT INTO user_stats (
			user_name, quizzes_taken, quizzes_passed, average_score,
			experience_points, level, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_name) DO UPDATE SET
			quizzes_taken = EXCLUDED.quizzes_taken,
			quizzes_passed = EXCLUDED.quizzes_passed,
			average_score = EXCLUDED.average_score,
			experience_points = EXCLUDED.experience_points,
			level = EXCLUDED.level,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.Exec(
		ctx,
		query,
		s.UserName,
		s.QuizzesTaken,
		s.QuizzesPassed,
		s.AverageScore,
		s.ExperiencePoints,
		s.Level,
		s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert user stats: %w", err)
	}

	return nil
}
