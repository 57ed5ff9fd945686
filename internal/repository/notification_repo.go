package repository

import (
	"context"
	"time"

	"stockpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	CreateTx(tx *gorm.DB, n *model.Notification) error
	Create(ctx context.Context, n *model.Notification) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Notification, error)
	List(ctx context.Context, tenantID uuid.UUID, limit int) ([]model.Notification, error)

	// FindByRelatedTx returns rows whose RelatedID is any of the given ids,
	// used by cascading deletes.
	FindByRelatedTx(tx *gorm.DB, relatedIDs []uuid.UUID) ([]model.Notification, error)
	DeleteByIDsTx(tx *gorm.DB, ids []uuid.UUID) error

	// Delivery bookkeeping for the async worker.
	MarkSent(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, cause string, nextRetryAt *time.Time) error
	FindDueRetries(ctx context.Context, limit int) ([]model.Notification, error)
}

type notificationRepo struct{ db *gorm.DB }

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) CreateTx(tx *gorm.DB, n *model.Notification) error {
	return tx.Create(n).Error
}

func (r *notificationRepo) Create(ctx context.Context, n *model.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notificationRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Notification, error) {
	var n model.Notification
	err := r.db.WithContext(ctx).First(&n, "id = ?", id).Error
	return &n, err
}

func (r *notificationRepo) List(ctx context.Context, tenantID uuid.UUID, limit int) ([]model.Notification, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}
	var notifications []model.Notification
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

func (r *notificationRepo) FindByRelatedTx(tx *gorm.DB, relatedIDs []uuid.UUID) ([]model.Notification, error) {
	if len(relatedIDs) == 0 {
		return nil, nil
	}
	var notifications []model.Notification
	err := tx.Where("related_id IN ?", relatedIDs).Find(&notifications).Error
	return notifications, err
}

func (r *notificationRepo) DeleteByIDsTx(tx *gorm.DB, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return tx.Delete(&model.Notification{}, "id IN ?", ids).Error
}

func (r *notificationRepo) MarkSent(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Notification{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        model.NotificationSent,
			"next_retry_at": nil,
			"last_error":    nil,
		}).Error
}

func (r *notificationRepo) MarkFailed(ctx context.Context, id uuid.UUID, cause string, nextRetryAt *time.Time) error {
	status := model.NotificationPending
	if nextRetryAt == nil {
		status = model.NotificationFailed
	}
	return r.db.WithContext(ctx).Model(&model.Notification{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        status,
			"retry_count":   gorm.Expr("retry_count + 1"),
			"next_retry_at": nextRetryAt,
			"last_error":    cause,
		}).Error
}

func (r *notificationRepo) FindDueRetries(ctx context.Context, limit int) ([]model.Notification, error) {
	var notifications []model.Notification
	err := r.db.WithContext(ctx).
		Where("status = ? AND next_retry_at IS NOT NULL AND next_retry_at <= ?",
			model.NotificationPending, time.Now()).
		Order("next_retry_at ASC").Limit(limit).
		Find(&notifications).Error
	return notifications, err
}
