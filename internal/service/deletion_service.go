package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"stockpos/internal/apierror"
	"stockpos/internal/dto"
	"stockpos/internal/model"
	"stockpos/internal/repository"
)

// DeletionService is the integrity guard for destructive operations: it
// enforces the stock and variant preconditions, executes cascades as one
// transactional unit and leaves tombstones for sync consumers.
type DeletionService interface {
	DeleteProduct(ctx context.Context, tenantID, productID uuid.UUID, force bool) error
	DeleteVariant(ctx context.Context, tenantID, productID, variantID uuid.UUID, force bool) error
	BulkDeleteProducts(ctx context.Context, tenantID uuid.UUID, req dto.BulkDeleteRequest) (*dto.BulkDeleteResponse, error)
	RestoreProducts(ctx context.Context, tenantID uuid.UUID, req dto.RestoreProductsRequest) (*dto.RestoreProductsResponse, error)
	ListTombstones(ctx context.Context, tenantID uuid.UUID, table string) ([]model.DeletionRecord, error)
}

type deletionService struct {
	products      repository.ProductRepository
	adjustments   repository.StockAdjustmentRepository
	notifications repository.NotificationRepository
	categories    repository.CategoryRepository
	deletions     repository.DeletionRecordRepository
}

func NewDeletionService(
	products repository.ProductRepository,
	adjustments repository.StockAdjustmentRepository,
	notifications repository.NotificationRepository,
	categories repository.CategoryRepository,
	deletions repository.DeletionRecordRepository,
) DeletionService {
	return &deletionService{
		products:      products,
		adjustments:   adjustments,
		notifications: notifications,
		categories:    categories,
		deletions:     deletions,
	}
}

// cascadePlan is the unit of work for one product removal: every row the
// cascade will touch is collected first, then executed in one pass so a
// failure anywhere rolls the whole thing back.
type cascadePlan struct {
	adjustmentIDs   []uuid.UUID
	notificationIDs []uuid.UUID
	variantIDs      []uuid.UUID
	productID       uuid.UUID
	tombstones      []model.DeletionRecord
}

func (p *cascadePlan) mark(table string, id, tenantID uuid.UUID, at time.Time) {
	p.tombstones = append(p.tombstones, model.DeletionRecord{
		ID: id, TableName: table, TenantID: tenantID, DeletedAt: at,
	})
}

func (s *deletionService) DeleteProduct(ctx context.Context, tenantID, productID uuid.UUID, force bool) error {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return apierror.NotFoundf("product %s not found", productID)
	}
	if product.TenantID != tenantID {
		return apierror.AccessDenied()
	}
	if !force {
		if len(product.Variants) > 0 {
			return apierror.PreconditionFailedf("product %s has variants; delete them first or force", product.SKU)
		}
		if product.TotalStock() > 0 {
			return apierror.PreconditionFailedf("product %s has active stock", product.SKU)
		}
	}

	return runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		plan, err := s.buildProductPlan(tx, product)
		if err != nil {
			return err
		}
		return s.executePlan(tx, plan)
	})
}

// buildProductPlan collects the product's ledger rows, related notifications,
// variants and category joins into one plan.
func (s *deletionService) buildProductPlan(tx *gorm.DB, product *model.Product) (*cascadePlan, error) {
	now := time.Now().UTC()
	plan := &cascadePlan{productID: product.ID}

	entries, err := s.adjustments.FindByProductTx(tx, product.ID)
	if err != nil {
		return nil, fmt.Errorf("finding ledger entries: %w", err)
	}
	for _, e := range entries {
		plan.adjustmentIDs = append(plan.adjustmentIDs, e.ID)
		plan.mark("stock_adjustments", e.ID, product.TenantID, now)
	}

	related := []uuid.UUID{product.ID}
	for _, v := range product.Variants {
		related = append(related, v.ID)
		plan.variantIDs = append(plan.variantIDs, v.ID)
		plan.mark("variants", v.ID, product.TenantID, now)
	}
	notifications, err := s.notifications.FindByRelatedTx(tx, related)
	if err != nil {
		return nil, fmt.Errorf("finding related notifications: %w", err)
	}
	for _, n := range notifications {
		plan.notificationIDs = append(plan.notificationIDs, n.ID)
		plan.mark("notifications", n.ID, product.TenantID, now)
	}

	plan.mark("products", product.ID, product.TenantID, now)
	return plan, nil
}

func (s *deletionService) executePlan(tx *gorm.DB, plan *cascadePlan) error {
	if err := s.adjustments.DeleteByIDsTx(tx, plan.adjustmentIDs); err != nil {
		return fmt.Errorf("deleting ledger entries: %w", err)
	}
	if err := s.notifications.DeleteByIDsTx(tx, plan.notificationIDs); err != nil {
		return fmt.Errorf("deleting notifications: %w", err)
	}
	for _, variantID := range plan.variantIDs {
		if err := s.products.DeleteVariantTx(tx, variantID); err != nil {
			return fmt.Errorf("deleting variant %s: %w", variantID, err)
		}
	}
	if err := s.categories.UnlinkProductTx(tx, plan.productID); err != nil {
		return fmt.Errorf("unlinking categories: %w", err)
	}
	if err := s.products.DeleteTx(tx, plan.productID); err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}
	return s.deletions.CreateManyTx(tx, plan.tombstones)
}

func (s *deletionService) DeleteVariant(ctx context.Context, tenantID, productID, variantID uuid.UUID, force bool) error {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return apierror.NotFoundf("product %s not found", productID)
	}
	if product.TenantID != tenantID {
		return apierror.AccessDenied()
	}
	var variant *model.Variant
	for i := range product.Variants {
		if product.Variants[i].ID == variantID {
			variant = &product.Variants[i]
			break
		}
	}
	if variant == nil {
		return apierror.NotFoundf("variant %s not found on product %s", variantID, productID)
	}
	if !force && variant.Stock > 0 {
		return apierror.PreconditionFailedf("variant %s has active stock", variant.SKU)
	}

	return runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		now := time.Now().UTC()
		var tombstones []model.DeletionRecord

		entries, err := s.adjustments.FindByVariantTx(tx, variant.ID)
		if err != nil {
			return fmt.Errorf("finding ledger entries: %w", err)
		}
		entryIDs := make([]uuid.UUID, 0, len(entries))
		for _, e := range entries {
			entryIDs = append(entryIDs, e.ID)
			tombstones = append(tombstones, model.DeletionRecord{
				ID: e.ID, TableName: "stock_adjustments", TenantID: tenantID, DeletedAt: now,
			})
		}
		if err := s.adjustments.DeleteByIDsTx(tx, entryIDs); err != nil {
			return fmt.Errorf("deleting ledger entries: %w", err)
		}

		notifications, err := s.notifications.FindByRelatedTx(tx, []uuid.UUID{variant.ID})
		if err != nil {
			return fmt.Errorf("finding related notifications: %w", err)
		}
		notificationIDs := make([]uuid.UUID, 0, len(notifications))
		for _, n := range notifications {
			notificationIDs = append(notificationIDs, n.ID)
			tombstones = append(tombstones, model.DeletionRecord{
				ID: n.ID, TableName: "notifications", TenantID: tenantID, DeletedAt: now,
			})
		}
		if err := s.notifications.DeleteByIDsTx(tx, notificationIDs); err != nil {
			return fmt.Errorf("deleting notifications: %w", err)
		}

		if err := s.products.DeleteVariantTx(tx, variant.ID); err != nil {
			return fmt.Errorf("deleting variant: %w", err)
		}
		tombstones = append(tombstones, model.DeletionRecord{
			ID: variant.ID, TableName: "variants", TenantID: tenantID, DeletedAt: now,
		})

		// Parent stock is the sum of the surviving variants.
		remaining := 0
		for i := range product.Variants {
			if product.Variants[i].ID != variant.ID {
				remaining += product.Variants[i].Stock
			}
		}
		if err := s.products.UpdateStockTx(tx, product.ID, remaining); err != nil {
			return fmt.Errorf("recomputing product stock: %w", err)
		}
		return s.deletions.CreateManyTx(tx, tombstones)
	})
}

// BulkDeleteProducts partitions the requested ids: products holding active
// stock are skipped, the rest are removed with full cascade. Ids that don't
// resolve count as skipped.
func (s *deletionService) BulkDeleteProducts(ctx context.Context, tenantID uuid.UUID, req dto.BulkDeleteRequest) (*dto.BulkDeleteResponse, error) {
	ids := make([]uuid.UUID, 0, len(req.IDs))
	for _, raw := range req.IDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, apierror.Validationf("invalid product id %q", raw)
		}
		ids = append(ids, id)
	}

	products, err := s.products.FindByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, fmt.Errorf("loading products: %w", err)
	}
	found := make(map[uuid.UUID]*model.Product, len(products))
	for i := range products {
		found[products[i].ID] = &products[i]
	}

	resp := &dto.BulkDeleteResponse{}
	var deletable []*model.Product
	for _, id := range ids {
		product, ok := found[id]
		if !ok || product.TotalStock() > 0 {
			resp.Skipped++
			continue
		}
		deletable = append(deletable, product)
	}

	err = runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		for _, product := range deletable {
			plan, err := s.buildProductPlan(tx, product)
			if err != nil {
				return err
			}
			if err := s.executePlan(tx, plan); err != nil {
				return err
			}
			resp.Deleted++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// RestoreProducts recreates deleted products from historical sale line
// snapshots: original id when free, zero stock, filed under the synthesized
// "Restored" category, orphaned rows from the previous life purged first.
func (s *deletionService) RestoreProducts(ctx context.Context, tenantID uuid.UUID, req dto.RestoreProductsRequest) (*dto.RestoreProductsResponse, error) {
	// First snapshot per product wins; later duplicates are ignored.
	type snapshot struct{ item dto.RestoreItem }
	order := make([]uuid.UUID, 0, len(req.Items))
	byID := make(map[uuid.UUID]snapshot, len(req.Items))
	for _, item := range req.Items {
		id, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, apierror.Validationf("invalid product id %q", item.ProductID)
		}
		if _, seen := byID[id]; seen {
			continue
		}
		byID[id] = snapshot{item: item}
		order = append(order, id)
	}

	resp := &dto.RestoreProductsResponse{Restored: []string{}}
	err := runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		for _, id := range order {
			if _, err := s.products.FindByIDTx(tx, id); err == nil {
				// Still alive (or the id was reused), nothing to restore.
				continue
			}
			snap := byID[id]

			// Purge rows orphaned by the original deletion before the id
			// comes back to life.
			entries, err := s.adjustments.FindByProductTx(tx, id)
			if err != nil {
				return fmt.Errorf("finding orphaned ledger entries: %w", err)
			}
			entryIDs := make([]uuid.UUID, 0, len(entries))
			for _, e := range entries {
				entryIDs = append(entryIDs, e.ID)
			}
			if err := s.adjustments.DeleteByIDsTx(tx, entryIDs); err != nil {
				return fmt.Errorf("purging orphaned ledger entries: %w", err)
			}
			notifications, err := s.notifications.FindByRelatedTx(tx, []uuid.UUID{id})
			if err != nil {
				return fmt.Errorf("finding orphaned notifications: %w", err)
			}
			notificationIDs := make([]uuid.UUID, 0, len(notifications))
			for _, n := range notifications {
				notificationIDs = append(notificationIDs, n.ID)
			}
			if err := s.notifications.DeleteByIDsTx(tx, notificationIDs); err != nil {
				return fmt.Errorf("purging orphaned notifications: %w", err)
			}

			product := &model.Product{
				ID:                id,
				TenantID:          tenantID,
				SKU:               snap.item.SKU,
				Name:              snap.item.Name,
				RetailPrice:       snap.item.RetailPrice,
				CostPrice:         snap.item.CostPrice,
				Stock:             0,
				LowStockThreshold: 5,
				Active:            true,
			}
			if err := s.products.CreateTx(tx, product); err != nil {
				return fmt.Errorf("recreating product %s: %w", id, err)
			}

			category, err := s.categories.FindOrCreateTx(tx, tenantID, model.RestoredCategoryName)
			if err != nil {
				return fmt.Errorf("resolving restored category: %w", err)
			}
			if err := s.categories.LinkProductTx(tx, product.ID, category.ID); err != nil {
				return fmt.Errorf("linking restored category: %w", err)
			}

			if err := s.deletions.DeleteForTx(tx, "products", id); err != nil {
				return fmt.Errorf("clearing tombstone: %w", err)
			}
			resp.Restored = append(resp.Restored, id.String())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *deletionService) ListTombstones(ctx context.Context, tenantID uuid.UUID, table string) ([]model.DeletionRecord, error) {
	return s.deletions.List(ctx, tenantID, table)
}
