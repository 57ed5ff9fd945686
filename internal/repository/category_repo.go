package repository

import (
	"context"

	"stockpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	// FindOrCreateTx looks a category up by name, creating it when absent.
	FindOrCreateTx(tx *gorm.DB, tenantID uuid.UUID, name string) (*model.Category, error)
	LinkProductTx(tx *gorm.DB, productID, categoryID uuid.UUID) error
	UnlinkProductTx(tx *gorm.DB, productID uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID) ([]model.Category, error)
}

type categoryRepo struct{ db *gorm.DB }

func NewCategoryRepository(db *gorm.DB) CategoryRepository { return &categoryRepo{db: db} }

func (r *categoryRepo) FindOrCreateTx(tx *gorm.DB, tenantID uuid.UUID, name string) (*model.Category, error) {
	var c model.Category
	err := tx.Where("tenant_id = ? AND name = ?", tenantID, name).First(&c).Error
	if err == nil {
		return &c, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	c = model.Category{TenantID: tenantID, Name: name}
	if err := tx.Create(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepo) LinkProductTx(tx *gorm.DB, productID, categoryID uuid.UUID) error {
	return tx.Create(&model.ProductCategory{ProductID: productID, CategoryID: categoryID}).Error
}

func (r *categoryRepo) UnlinkProductTx(tx *gorm.DB, productID uuid.UUID) error {
	return tx.Delete(&model.ProductCategory{}, "product_id = ?", productID).Error
}

func (r *categoryRepo) List(ctx context.Context, tenantID uuid.UUID) ([]model.Category, error) {
	var categories []model.Category
	err := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID).Order("name ASC").Find(&categories).Error
	return categories, err
}
