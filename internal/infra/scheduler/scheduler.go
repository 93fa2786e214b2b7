// Package scheduler — фоновая очистка просроченных сессий и брошенных оплат.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Spok95/payroll-console/internal/infra/metrics"
	"github.com/robfig/cron/v3"
)

type SessionPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

type IntentPurger interface {
	PurgeStale(ctx context.Context, ttl time.Duration) (int64, error)
}

type Cleanup struct {
	log       *slog.Logger
	sessions  SessionPurger
	intents   IntentPurger
	intentTTL time.Duration
}

func NewCleanup(log *slog.Logger, sessions SessionPurger, intents IntentPurger, intentTTL time.Duration) *Cleanup {
	return &Cleanup{log: log, sessions: sessions, intents: intents, intentTTL: intentTTL}
}

// RunOnce — один проход очистки; ошибки логируются, проход не прерывают.
func (c *Cleanup) RunOnce(ctx context.Context) {
	n, err := c.sessions.PurgeExpired(ctx)
	if err != nil {
		c.log.Error("session cleanup failed", "err", err)
	} else if n > 0 {
		metrics.SessionsPurged.Add(float64(n))
		c.log.Info("expired sessions purged", "count", n)
	}

	n, err = c.intents.PurgeStale(ctx, c.intentTTL)
	if err != nil {
		c.log.Error("checkout intent cleanup failed", "err", err)
	} else if n > 0 {
		c.log.Info("stale checkout intents purged", "count", n)
	}
}

// Start ставит очистку по расписанию и останавливает её, когда ctx отменён.
func Start(ctx context.Context, schedule string, job *Cleanup) error {
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() { job.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("schedule cleanup %q: %w", schedule, err)
	}
	c.Start()
	job.log.Info("cleanup scheduled", "schedule", schedule)

	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}
