package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

type tokenPurger interface {
	PurgeExpiredTokens(ctx context.Context, now time.Time) (int64, error)
}

type revocationPurger interface {
	PurgeRevoked(now time.Time) int
}

// TokenJobs drops expired refresh tokens and stale in-memory revocations.
type TokenJobs struct {
	store   tokenPurger
	revoked revocationPurger
	now     func() time.Time
}

func NewTokenJobs(store tokenPurger, revoked revocationPurger) *TokenJobs {
	return &TokenJobs{store: store, revoked: revoked, now: time.Now}
}

func (j *TokenJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddDeferredJob("purge_expired_refresh_tokens", time.Hour, j.PurgeExpired)
}

func (j *TokenJobs) PurgeExpired(ctx context.Context) error {
	now := j.now()
	deleted, err := j.store.PurgeExpiredTokens(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to purge refresh tokens: %w", err)
	}
	forgotten := 0
	if j.revoked != nil {
		forgotten = j.revoked.PurgeRevoked(now)
	}
	if deleted > 0 || forgotten > 0 {
		slog.Info("Cron: tokens purged", "refresh_tokens", deleted, "revocations", forgotten)
	}
	return nil
}
