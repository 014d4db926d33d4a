package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SessionEvicter drops idle in-memory sessions.
type SessionEvicter interface {
	EvictIdle(cutoff time.Time) int
}

// SessionJanitor periodically evicts quiz sessions nobody touched for a while.
type SessionJanitor struct {
	sessions SessionEvicter
	schedule string
	idleTTL  time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

func NewSessionJanitor(sessions SessionEvicter, schedule string, idleTTL time.Duration, logger *zap.Logger) *SessionJanitor {
	return &SessionJanitor{
		sessions: sessions,
		schedule: schedule,
		idleTTL:  idleTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// Start runs the eviction job until ctx is done.
func (j *SessionJanitor) Start(ctx context.Context) error {
	c := cron.New(cron.WithLocation(time.UTC))

	if _, err := c.AddFunc(j.schedule, j.sweep); err != nil {
		return err
	}

	c.Start()
	j.logger.Info("session janitor started",
		zap.String("schedule", j.schedule),
		zap.Duration("idle_ttl", j.idleTTL),
	)

	<-ctx.Done()

	<-c.Stop().Done()
	j.logger.Info("session janitor stopped")
	return nil
}

func (j *SessionJanitor) sweep() {
	evicted := j.sessions.EvictIdle(j.now().Add(-j.idleTTL))
	if evicted > 0 {
		j.logger.Info("idle quiz sessions evicted", zap.Int("count", evicted))
	}
}
