package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"stockpos/internal/apierror"
	"stockpos/internal/dto"
	"stockpos/internal/model"
	"stockpos/internal/repository"
)

// AdjustStockParams describes one absolute stock write. The service derives
// the signed ledger delta from the current level, so concurrent writers
// serialize on the row instead of compounding increments.
type AdjustStockParams struct {
	TenantID   uuid.UUID
	ProductID  uuid.UUID
	VariantID  *uuid.UUID
	NewLevel   int
	Reason     string
	SourceType string
	SourceID   *uuid.UUID
}

// ReceiveStockParams adds incoming units on top of the current level.
type ReceiveStockParams struct {
	TenantID   uuid.UUID
	ProductID  uuid.UUID
	VariantID  *uuid.UUID
	Quantity   int
	Reason     string
	SourceType string
	SourceID   *uuid.UUID
}

// InventoryService owns every stock mutation. All writes go through
// AdjustStockTx so the ledger, the denormalized product total and the
// edge-transition notifications stay consistent in one transaction.
type InventoryService interface {
	AdjustStock(ctx context.Context, p AdjustStockParams) (*model.StockAdjustment, error)
	AdjustStockTx(ctx context.Context, tx *gorm.DB, p AdjustStockParams) (*model.StockAdjustment, error)
	ReceiveStock(ctx context.Context, p ReceiveStockParams) (*model.StockAdjustment, error)
	ReceiveStockTx(ctx context.Context, tx *gorm.DB, p ReceiveStockParams) (*model.StockAdjustment, error)
	ListAdjustments(ctx context.Context, tenantID uuid.UUID, filter repository.StockAdjustmentFilter) (*dto.StockAdjustmentListResponse, error)
}

type inventoryService struct {
	products    repository.ProductRepository
	adjustments repository.StockAdjustmentRepository
	notifier    Notifier
}

func NewInventoryService(products repository.ProductRepository, adjustments repository.StockAdjustmentRepository, notifier Notifier) InventoryService {
	return &inventoryService{products: products, adjustments: adjustments, notifier: notifier}
}

func (s *inventoryService) AdjustStock(ctx context.Context, p AdjustStockParams) (*model.StockAdjustment, error) {
	var entry *model.StockAdjustment
	err := runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		var txErr error
		entry, txErr = s.AdjustStockTx(ctx, tx, p)
		return txErr
	})
	return entry, err
}

// AdjustStockTx sets the stock level of a product or variant inside the
// caller's transaction. A write that lands on the current level is a no-op:
// no ledger row, no notification. Returns (nil, nil) in that case.
func (s *inventoryService) AdjustStockTx(ctx context.Context, tx *gorm.DB, p AdjustStockParams) (*model.StockAdjustment, error) {
	product, err := s.products.FindByIDTx(tx, p.ProductID)
	if err != nil {
		return nil, apierror.NotFoundf("product %s not found", p.ProductID)
	}
	if product.TenantID != p.TenantID {
		return nil, apierror.AccessDenied()
	}

	var variant *model.Variant
	if p.VariantID != nil {
		for i := range product.Variants {
			if product.Variants[i].ID == *p.VariantID {
				variant = &product.Variants[i]
				break
			}
		}
		if variant == nil {
			return nil, apierror.NotFoundf("variant %s not found on product %s", p.VariantID, p.ProductID)
		}
	}

	current := product.Stock
	if variant != nil {
		current = variant.Stock
	}
	delta := p.NewLevel - current
	if delta == 0 {
		return nil, nil
	}

	sourceType := p.SourceType
	if sourceType == "" {
		sourceType = model.SourceManual
	}
	entry := &model.StockAdjustment{
		ID:          uuid.New(),
		TenantID:    p.TenantID,
		ProductID:   product.ID,
		VariantID:   p.VariantID,
		Delta:       delta,
		StockBefore: current,
		StockAfter:  p.NewLevel,
		Reason:      p.Reason,
		SourceType:  sourceType,
		SourceID:    p.SourceID,
	}
	if err := s.adjustments.CreateTx(tx, entry); err != nil {
		return nil, fmt.Errorf("recording stock adjustment: %w", err)
	}

	totalBefore := product.TotalStock()
	var totalAfter int
	if variant != nil {
		if err := s.products.UpdateVariantStockTx(tx, variant.ID, p.NewLevel); err != nil {
			return nil, fmt.Errorf("updating variant stock: %w", err)
		}
		variant.Stock = p.NewLevel
		totalAfter = product.TotalStock()
	} else {
		totalAfter = p.NewLevel
	}
	// The product row always carries the authoritative total, variant sums
	// included, so listings never need to aggregate.
	if err := s.products.UpdateStockTx(tx, product.ID, totalAfter); err != nil {
		return nil, fmt.Errorf("updating product stock: %w", err)
	}

	if err := s.notifyEdgeTransition(tx, product, totalBefore, totalAfter); err != nil {
		return nil, err
	}
	return entry, nil
}

// notifyEdgeTransition emits at most one alert, and only when the product
// total crosses zero or the low-stock threshold on the way down. Repeated
// writes below the line stay silent.
func (s *inventoryService) notifyEdgeTransition(tx *gorm.DB, product *model.Product, before, after int) error {
	switch {
	case before > 0 && after <= 0:
		msg := fmt.Sprintf("%s (%s) is out of stock", product.Name, product.SKU)
		return s.notifier.NotifyTx(tx, product.TenantID, model.NotifyOutOfStock, msg, &product.ID)
	case before > product.LowStockThreshold && after <= product.LowStockThreshold && after > 0:
		msg := fmt.Sprintf("%s (%s) is low on stock: %d left", product.Name, product.SKU, after)
		return s.notifier.NotifyTx(tx, product.TenantID, model.NotifyLowStock, msg, &product.ID)
	}
	return nil
}

func (s *inventoryService) ReceiveStock(ctx context.Context, p ReceiveStockParams) (*model.StockAdjustment, error) {
	var entry *model.StockAdjustment
	err := runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		var txErr error
		entry, txErr = s.ReceiveStockTx(ctx, tx, p)
		return txErr
	})
	return entry, err
}

// ReceiveStockTx is a convenience over AdjustStockTx: it reads the current
// level and raises it by Quantity. Receiving zero changes nothing.
func (s *inventoryService) ReceiveStockTx(ctx context.Context, tx *gorm.DB, p ReceiveStockParams) (*model.StockAdjustment, error) {
	if p.Quantity == 0 {
		return nil, nil
	}
	product, err := s.products.FindByIDTx(tx, p.ProductID)
	if err != nil {
		return nil, apierror.NotFoundf("product %s not found", p.ProductID)
	}
	current := product.Stock
	if p.VariantID != nil {
		// Oversold variants carry negative stock, so the lookup must not key
		// off the level itself.
		var variant *model.Variant
		for i := range product.Variants {
			if product.Variants[i].ID == *p.VariantID {
				variant = &product.Variants[i]
				break
			}
		}
		if variant == nil {
			return nil, apierror.NotFoundf("variant %s not found on product %s", p.VariantID, p.ProductID)
		}
		current = variant.Stock
	}

	reason := p.Reason
	if reason == "" {
		reason = "Stock received"
	}
	return s.AdjustStockTx(ctx, tx, AdjustStockParams{
		TenantID:   p.TenantID,
		ProductID:  p.ProductID,
		VariantID:  p.VariantID,
		NewLevel:   current + p.Quantity,
		Reason:     reason,
		SourceType: p.SourceType,
		SourceID:   p.SourceID,
	})
}

func (s *inventoryService) ListAdjustments(ctx context.Context, tenantID uuid.UUID, filter repository.StockAdjustmentFilter) (*dto.StockAdjustmentListResponse, error) {
	entries, total, err := s.adjustments.List(ctx, tenantID, filter)
	if err != nil {
		return nil, fmt.Errorf("listing stock adjustments: %w", err)
	}
	resp := &dto.StockAdjustmentListResponse{
		Data:  make([]dto.StockAdjustmentResponse, 0, len(entries)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range entries {
		resp.Data = append(resp.Data, adjustmentToResponse(&entries[i]))
	}
	return resp, nil
}

func adjustmentToResponse(a *model.StockAdjustment) dto.StockAdjustmentResponse {
	r := dto.StockAdjustmentResponse{
		ID:          a.ID.String(),
		ProductID:   a.ProductID.String(),
		Delta:       a.Delta,
		StockBefore: a.StockBefore,
		StockAfter:  a.StockAfter,
		Reason:      a.Reason,
		SourceType:  a.SourceType,
		CreatedAt:   a.CreatedAt.Format(timeFormat),
	}
	if a.VariantID != nil {
		v := a.VariantID.String()
		r.VariantID = &v
	}
	if a.SourceID != nil {
		src := a.SourceID.String()
		r.SourceID = &src
	}
	return r
}
