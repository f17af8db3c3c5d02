package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/casavia/casavia/internal/auth"
	"github.com/casavia/casavia/internal/observability"
)

// SessionPurger deletes expired session audit rows.
type SessionPurger struct {
	sessions auth.Repository
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewSessionPurger constructs a SessionPurger.
func NewSessionPurger(sessions auth.Repository, logger *slog.Logger, metrics *observability.Metrics) *SessionPurger {
	return &SessionPurger{sessions: sessions, logger: logger, metrics: metrics}
}

// Handle processes TaskSessionPurge tasks.
func (p *SessionPurger) Handle(ctx context.Context, t *asynq.Task) error {
	var payload SessionPurgePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	tracker := p.metrics.TrackJob(TaskSessionPurge)
	return tracker.End(p.Purge(ctx))
}

// Purge removes session rows that have expired.
func (p *SessionPurger) Purge(ctx context.Context) error {
	removed, err := p.sessions.PurgeExpiredSessions(ctx, time.Now())
	if err != nil {
		return err
	}
	if p.logger != nil {
		p.logger.Info("session purge complete", slog.Int64("removed", removed))
	}
	return nil
}
