package repository

import (
	"context"

	"stockpos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ShiftRepository interface {
	Create(ctx context.Context, s *model.Shift) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Shift, error)
	// FindOpen returns the tenant's single open shift, if any.
	FindOpen(ctx context.Context, tenantID uuid.UUID) (*model.Shift, error)
	FindOpenTx(tx *gorm.DB, tenantID uuid.UUID) (*model.Shift, error)
	Save(ctx context.Context, s *model.Shift) error
	// AddCashTx increments the running drawer accumulators atomically.
	AddCashTx(tx *gorm.DB, shiftID uuid.UUID, sales, refunds decimal.Decimal) error
	List(ctx context.Context, tenantID uuid.UUID, page, limit int) ([]model.Shift, int64, error)
	DB() *gorm.DB
}

type shiftRepo struct{ db *gorm.DB }

func NewShiftRepository(db *gorm.DB) ShiftRepository { return &shiftRepo{db: db} }

func (r *shiftRepo) DB() *gorm.DB { return r.db }

func (r *shiftRepo) Create(ctx context.Context, s *model.Shift) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *shiftRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Shift, error) {
	var s model.Shift
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	return &s, err
}

func (r *shiftRepo) FindOpen(ctx context.Context, tenantID uuid.UUID) (*model.Shift, error) {
	var s model.Shift
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND status = ?", tenantID, model.ShiftStatusOpen).
		First(&s).Error
	return &s, err
}

func (r *shiftRepo) FindOpenTx(tx *gorm.DB, tenantID uuid.UUID) (*model.Shift, error) {
	var s model.Shift
	err := tx.Where("tenant_id = ? AND status = ?", tenantID, model.ShiftStatusOpen).First(&s).Error
	return &s, err
}

func (r *shiftRepo) Save(ctx context.Context, s *model.Shift) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *shiftRepo) AddCashTx(tx *gorm.DB, shiftID uuid.UUID, sales, refunds decimal.Decimal) error {
	return tx.Model(&model.Shift{}).Where("id = ?", shiftID).Updates(map[string]interface{}{
		"cash_sales":   gorm.Expr("cash_sales + ?", sales),
		"cash_refunds": gorm.Expr("cash_refunds + ?", refunds),
	}).Error
}

func (r *shiftRepo) List(ctx context.Context, tenantID uuid.UUID, page, limit int) ([]model.Shift, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	q := r.db.WithContext(ctx).Model(&model.Shift{}).Where("tenant_id = ?", tenantID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var shifts []model.Shift
	err := q.Order("start_time DESC").Offset((page - 1) * limit).Limit(limit).Find(&shifts).Error
	return shifts, total, err
}
