package worker

// notification_worker.go
// Delivers persisted notifications by email. Delivery is decoupled from the
// transaction that created the row: the job carries only the row id, so a
// rolled-back transaction leaves nothing to deliver.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"stockpos/internal/infra"
	"stockpos/internal/model"
	"stockpos/internal/repository"
)

// MaxDeliveryAttempts before a notification is marked failed and sent to the
// dead letter queue.
const MaxDeliveryAttempts = 5

// NotificationWorker processes delivery jobs from QueueNotifications.
// SMTP calls go through the circuit breaker so a downed relay fast-fails
// instead of stalling the pool.
type NotificationWorker struct {
	repo       repository.NotificationRepository
	mailer     *infra.Mailer
	cb         *infra.CircuitBreaker
	rdb        *redis.Client
	alertEmail string
}

func NewNotificationWorker(
	repo repository.NotificationRepository,
	mailer *infra.Mailer,
	cb *infra.CircuitBreaker,
	rdb *redis.Client,
	alertEmail string,
) *NotificationWorker {
	return &NotificationWorker{
		repo:       repo,
		mailer:     mailer,
		cb:         cb,
		rdb:        rdb,
		alertEmail: alertEmail,
	}
}

// Process handles a single delivery job.
func (w *NotificationWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload NotificationJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("notification_worker: invalid payload")
		return
	}
	id, err := uuid.Parse(payload.NotificationID)
	if err != nil {
		log.Error().Str("notification_id", payload.NotificationID).Msg("notification_worker: invalid id")
		return
	}

	notification, err := w.repo.FindByID(ctx, id)
	if err != nil {
		// The creating transaction rolled back, or a cascade removed the row.
		log.Debug().Str("notification_id", payload.NotificationID).Msg("notification_worker: row gone, dropping job")
		return
	}
	if notification.Status == model.NotificationSent {
		return
	}

	// No configured recipient means log-only delivery.
	if w.alertEmail == "" {
		log.Info().
			Str("category", notification.Category).
			Str("message", notification.Message).
			Msg("notification")
		_ = w.repo.MarkSent(ctx, notification.ID)
		return
	}

	subject := fmt.Sprintf("[stockpos] %s", notification.Category)
	sendErr := w.cb.Execute(func() error {
		return w.mailer.SendAlert(w.alertEmail, subject, notification.Message)
	})
	if sendErr == nil {
		if err := w.repo.MarkSent(ctx, notification.ID); err != nil {
			log.Error().Err(err).Str("notification_id", notification.ID.String()).Msg("notification_worker: mark sent failed")
		}
		return
	}

	attempts := notification.RetryCount + 1
	if attempts >= MaxDeliveryAttempts {
		if err := w.repo.MarkFailed(ctx, notification.ID, sendErr.Error(), nil); err != nil {
			log.Error().Err(err).Str("notification_id", notification.ID.String()).Msg("notification_worker: mark failed failed")
		}
		SendToDLQ(ctx, w.rdb, QueueNotifications, "notification", raw,
			fmt.Sprintf("max attempts (%d) exceeded: %s", MaxDeliveryAttempts, sendErr), attempts)
		return
	}

	next := time.Now().Add(deliveryBackoff(attempts))
	if err := w.repo.MarkFailed(ctx, notification.ID, sendErr.Error(), &next); err != nil {
		log.Error().Err(err).Str("notification_id", notification.ID.String()).Msg("notification_worker: mark failed failed")
	}
	log.Warn().
		Err(sendErr).
		Str("notification_id", notification.ID.String()).
		Int("attempt", attempts).
		Time("next_retry_at", next).
		Msg("notification_worker: delivery failed, scheduled retry")
}

// deliveryBackoff grows exponentially: 30s, 1m, 2m, 4m …
func deliveryBackoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return 30 * time.Second * time.Duration(1<<uint(attempt-1))
}
