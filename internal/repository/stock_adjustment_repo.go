package repository

import (
	"context"
	"fmt"

	"stockpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockAdjustmentFilter defines filters for listing ledger entries.
type StockAdjustmentFilter struct {
	ProductID  *uuid.UUID
	SourceType string
	Page       int
	Limit      int
}

// StockAdjustmentRepository is the append-only stock ledger. Entries are
// created inside the owning operation's transaction and deleted only as
// referential cleanup.
type StockAdjustmentRepository interface {
	CreateTx(tx *gorm.DB, a *model.StockAdjustment) error
	List(ctx context.Context, tenantID uuid.UUID, filter StockAdjustmentFilter) ([]model.StockAdjustment, int64, error)

	// FindBySaleTx matches entries tagged to a sale either by the structured
	// source reference or by either legacy reason-text format.
	FindBySaleTx(tx *gorm.DB, saleID uuid.UUID) ([]model.StockAdjustment, error)
	FindByProductTx(tx *gorm.DB, productID uuid.UUID) ([]model.StockAdjustment, error)
	FindByVariantTx(tx *gorm.DB, variantID uuid.UUID) ([]model.StockAdjustment, error)
	DeleteByIDsTx(tx *gorm.DB, ids []uuid.UUID) error
}

type stockAdjustmentRepo struct{ db *gorm.DB }

func NewStockAdjustmentRepository(db *gorm.DB) StockAdjustmentRepository {
	return &stockAdjustmentRepo{db: db}
}

func (r *stockAdjustmentRepo) CreateTx(tx *gorm.DB, a *model.StockAdjustment) error {
	return tx.Create(a).Error
}

func (r *stockAdjustmentRepo) List(ctx context.Context, tenantID uuid.UUID, filter StockAdjustmentFilter) ([]model.StockAdjustment, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.StockAdjustment{}).Where("tenant_id = ?", tenantID)
	if filter.ProductID != nil {
		q = q.Where("product_id = ?", *filter.ProductID)
	}
	if filter.SourceType != "" {
		q = q.Where("source_type = ?", filter.SourceType)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}

	var entries []model.StockAdjustment
	err := q.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&entries).Error
	return entries, total, err
}

// Legacy reason formats written before the structured source reference existed.
// Both embed the sale id verbatim, so an exact match per candidate is enough.
func legacySaleReasons(saleID uuid.UUID) []string {
	return []string{
		fmt.Sprintf("Sale #%s", saleID),
		fmt.Sprintf("Sold in transaction %s", saleID),
	}
}

func (r *stockAdjustmentRepo) FindBySaleTx(tx *gorm.DB, saleID uuid.UUID) ([]model.StockAdjustment, error) {
	var entries []model.StockAdjustment
	err := tx.
		Where("(source_type = ? AND source_id = ?) OR reason IN ?",
			model.SourceSale, saleID, legacySaleReasons(saleID)).
		Find(&entries).Error
	return entries, err
}

func (r *stockAdjustmentRepo) FindByProductTx(tx *gorm.DB, productID uuid.UUID) ([]model.StockAdjustment, error) {
	var entries []model.StockAdjustment
	err := tx.Where("product_id = ?", productID).Find(&entries).Error
	return entries, err
}

func (r *stockAdjustmentRepo) FindByVariantTx(tx *gorm.DB, variantID uuid.UUID) ([]model.StockAdjustment, error) {
	var entries []model.StockAdjustment
	err := tx.Where("variant_id = ?", variantID).Find(&entries).Error
	return entries, err
}

func (r *stockAdjustmentRepo) DeleteByIDsTx(tx *gorm.DB, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return tx.Delete(&model.StockAdjustment{}, "id IN ?", ids).Error
}
