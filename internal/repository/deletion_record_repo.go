package repository

import (
	"context"

	"stockpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DeletionRecordRepository interface {
	CreateManyTx(tx *gorm.DB, records []model.DeletionRecord) error
	// DeleteForTx removes the tombstone for one restored entity.
	DeleteForTx(tx *gorm.DB, table string, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID, table string) ([]model.DeletionRecord, error)
}

type deletionRecordRepo struct{ db *gorm.DB }

func NewDeletionRecordRepository(db *gorm.DB) DeletionRecordRepository {
	return &deletionRecordRepo{db: db}
}

func (r *deletionRecordRepo) CreateManyTx(tx *gorm.DB, records []model.DeletionRecord) error {
	if len(records) == 0 {
		return nil
	}
	return tx.Create(&records).Error
}

func (r *deletionRecordRepo) DeleteForTx(tx *gorm.DB, table string, id uuid.UUID) error {
	return tx.Delete(&model.DeletionRecord{}, "table_name = ? AND id = ?", table, id).Error
}

func (r *deletionRecordRepo) List(ctx context.Context, tenantID uuid.UUID, table string) ([]model.DeletionRecord, error) {
	q := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if table != "" {
		q = q.Where("table_name = ?", table)
	}
	var records []model.DeletionRecord
	err := q.Order("deleted_at DESC").Find(&records).Error
	return records, err
}
