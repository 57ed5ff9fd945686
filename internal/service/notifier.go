package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"stockpos/internal/model"
	"stockpos/internal/repository"
	"stockpos/internal/worker"
)

// Notifier persists a notification row inside the caller's transaction and
// enqueues its delivery. If the transaction rolls back the row never exists
// and the delivery worker drops the job on lookup.
type Notifier interface {
	NotifyTx(tx *gorm.DB, tenantID uuid.UUID, category, message string, relatedID *uuid.UUID) error
}

type notifier struct {
	repo       repository.NotificationRepository
	dispatcher *worker.Dispatcher
}

func NewNotifier(repo repository.NotificationRepository, dispatcher *worker.Dispatcher) Notifier {
	return &notifier{repo: repo, dispatcher: dispatcher}
}

func (n *notifier) NotifyTx(tx *gorm.DB, tenantID uuid.UUID, category, message string, relatedID *uuid.UUID) error {
	rec := &model.Notification{
		ID:        uuid.New(),
		TenantID:  tenantID,
		Category:  category,
		Message:   message,
		RelatedID: relatedID,
		Status:    model.NotificationPending,
	}
	if err := n.repo.CreateTx(tx, rec); err != nil {
		return err
	}
	if n.dispatcher != nil {
		if err := n.dispatcher.EnqueueNotification(context.Background(), rec.ID); err != nil {
			// The retry cron re-enqueues pending rows, so a failed enqueue
			// delays delivery instead of losing it.
			log.Warn().Err(err).Str("notification_id", rec.ID.String()).Msg("failed to enqueue notification")
		}
	}
	return nil
}
