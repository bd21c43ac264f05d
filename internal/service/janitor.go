package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/smartetude/smartetude-backend/internal/infra/postgres/repository"
)

// SessionJanitor marks long-inactive quiz sessions as abandoned so they stop
// accepting submissions.
type SessionJanitor struct {
	sessionRepo *repository.SessionRepository
	maxAge      time.Duration
	logger      *zap.Logger
}

// NewSessionJanitor creates a janitor that abandons sessions older than maxAge.
func NewSessionJanitor(sessionRepo *repository.SessionRepository, maxAge time.Duration, logger *zap.Logger) *SessionJanitor {
	if maxAge <= 0 {
		maxAge = 2 * time.Hour
	}
	return &SessionJanitor{
		sessionRepo: sessionRepo,
		maxAge:      maxAge,
		logger:      logger,
	}
}

// Start runs the hourly sweep until the context is cancelled.
func (j *SessionJanitor) Start(ctx context.Context) {
	j.logger.Info("session janitor started", zap.Duration("max_age", j.maxAge))

	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc("0 * * * *", func() {
		if err := j.sweep(ctx); err != nil {
			j.logger.Error("failed to abandon stale sessions", zap.Error(err))
		}
	})
	if err != nil {
		j.logger.Error("failed to add cron job", zap.Error(err))
		return
	}

	c.Start()

	<-ctx.Done()

	c.Stop()
	j.logger.Info("session janitor stopped")
}

func (j *SessionJanitor) sweep(ctx context.Context) error {
	n, err := j.sessionRepo.AbandonStale(ctx, j.maxAge)
	if err != nil {
		return err
	}
	if n > 0 {
		j.logger.Info("stale sessions abandoned", zap.Int64("count", n))
	}
	return nil
}
