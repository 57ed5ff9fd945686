package worker

// retry_cron.go
// Background goroutine that periodically re-enqueues notifications stuck in
// status='pending' with a next_retry_at in the past. Uses the circuit breaker
// state to avoid hammering a downed SMTP relay.

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"stockpos/internal/infra"
	"stockpos/internal/repository"
)

const (
	retryTickInterval = 30 * time.Second
	retryBatchSize    = 20
)

// RetryCronConfig holds all dependencies for the retry goroutine.
type RetryCronConfig struct {
	NotificationRepo repository.NotificationRepository
	Dispatcher       *Dispatcher
	CB               *infra.CircuitBreaker
	RDB              *redis.Client
}

// StartRetryCron launches a background goroutine that ticks every 30s and
// re-enqueues due notifications. It respects the context for graceful
// shutdown.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				processRetries(ctx, cfg)
			}
		}
	}()
}

func processRetries(ctx context.Context, cfg RetryCronConfig) {
	// If CB is open, skip entirely, don't hammer a downed relay
	if cfg.CB.State() == infra.CBOpen {
		log.Debug().Msg("retry_cron: circuit breaker is open, skipping tick")
		return
	}

	due, err := cfg.NotificationRepo.FindDueRetries(ctx, retryBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("retry_cron: failed to query due retries")
		return
	}
	if len(due) == 0 {
		return
	}

	log.Info().Int("count", len(due)).Msg("retry_cron: re-enqueuing due notifications")
	for i := range due {
		if err := cfg.Dispatcher.EnqueueNotification(ctx, due[i].ID); err != nil {
			log.Warn().Err(err).Str("notification_id", due[i].ID.String()).Msg("retry_cron: enqueue failed")
		}
	}
}
