package repository

import (
	"context"

	"stockpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PriceHistoryRepository interface {
	CreateTx(tx *gorm.DB, e *model.PriceHistoryEntry) error
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]model.PriceHistoryEntry, error)
}

type priceHistoryRepo struct{ db *gorm.DB }

func NewPriceHistoryRepository(db *gorm.DB) PriceHistoryRepository {
	return &priceHistoryRepo{db: db}
}

func (r *priceHistoryRepo) CreateTx(tx *gorm.DB, e *model.PriceHistoryEntry) error {
	return tx.Create(e).Error
}

func (r *priceHistoryRepo) ListByProduct(ctx context.Context, productID uuid.UUID) ([]model.PriceHistoryEntry, error) {
	var entries []model.PriceHistoryEntry
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}
