package repository

import (
	"context"

	"stockpos/internal/dto"
	"stockpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SaleRepository interface {
	CreateTx(tx *gorm.DB, s *model.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Sale, error)
	List(ctx context.Context, tenantID uuid.UUID, filter dto.SaleFilter) ([]model.Sale, int64, error)

	// FindReturnsOfTx returns every return whose items reference the given
	// sale via original_sale_id.
	FindReturnsOfTx(tx *gorm.DB, saleID uuid.UUID) ([]model.Sale, error)

	UpdateItemReturnTx(tx *gorm.DB, itemID uuid.UUID, returnedQuantity int) error
	UpdateStatusTx(tx *gorm.DB, saleID uuid.UUID, status string) error
	DeleteTx(tx *gorm.DB, saleID uuid.UUID) error

	DB() *gorm.DB
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) DB() *gorm.DB { return r.db }

func (r *saleRepo) CreateTx(tx *gorm.DB, s *model.Sale) error {
	return tx.Create(s).Error
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).Preload("Items").Preload("Payments").First(&s, "id = ?", id).Error
	return &s, err
}

func (r *saleRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := tx.Preload("Items").Preload("Payments").First(&s, "id = ?", id).Error
	return &s, err
}

// List returns sales newest-first.
func (r *saleRepo) List(ctx context.Context, tenantID uuid.UUID, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	var sales []model.Sale
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Sale{}).Where("tenant_id = ?", tenantID)
	if filter.Type != "" && filter.Type != "all" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Date != "" {
		q = q.Where("DATE(created_at) = ?", filter.Date)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Items").Preload("Payments").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&sales).Error
	return sales, total, err
}

func (r *saleRepo) FindReturnsOfTx(tx *gorm.DB, saleID uuid.UUID) ([]model.Sale, error) {
	var sales []model.Sale
	err := tx.Preload("Items").Preload("Payments").
		Where("id IN (?)", tx.Session(&gorm.Session{NewDB: true}).
			Model(&model.SaleItem{}).
			Select("DISTINCT sale_id").
			Where("original_sale_id = ?", saleID)).
		Find(&sales).Error
	return sales, err
}

func (r *saleRepo) UpdateItemReturnTx(tx *gorm.DB, itemID uuid.UUID, returnedQuantity int) error {
	return tx.Model(&model.SaleItem{}).Where("id = ?", itemID).
		Update("returned_quantity", returnedQuantity).Error
}

func (r *saleRepo) UpdateStatusTx(tx *gorm.DB, saleID uuid.UUID, status string) error {
	return tx.Model(&model.Sale{}).Where("id = ?", saleID).Update("status", status).Error
}

// DeleteTx removes a sale with its items and payments. Ledger cleanup is the
// caller's responsibility; it needs the ids for tombstones anyway.
func (r *saleRepo) DeleteTx(tx *gorm.DB, saleID uuid.UUID) error {
	if err := tx.Delete(&model.SaleItem{}, "sale_id = ?", saleID).Error; err != nil {
		return err
	}
	if err := tx.Delete(&model.SalePayment{}, "sale_id = ?", saleID).Error; err != nil {
		return err
	}
	return tx.Delete(&model.Sale{}, "id = ?", saleID).Error
}
