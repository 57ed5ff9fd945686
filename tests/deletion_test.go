package tests

import (
	"context"
	"testing"
	"time"

	"stockpos/internal/apierror"
	"stockpos/internal/dto"
	"stockpos/internal/model"
	"stockpos/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type deletionEnv struct {
	products   *stubProductRepo
	ledger     *stubAdjustmentRepo
	notes      *stubNotificationRepo
	categories *stubCategoryRepo
	deletions  *stubDeletionRepo
	svc        service.DeletionService
}

func newDeletionEnv() *deletionEnv {
	env := &deletionEnv{
		products:   newStubProductRepo(),
		ledger:     newStubAdjustmentRepo(),
		notes:      newStubNotificationRepo(),
		categories: newStubCategoryRepo(),
		deletions:  newStubDeletionRepo(),
	}
	env.svc = service.NewDeletionService(env.products, env.ledger, env.notes, env.categories, env.deletions)
	return env
}

func (env *deletionEnv) seedLedgerEntry(p *model.Product, variantID *uuid.UUID, delta int) *model.StockAdjustment {
	e := &model.StockAdjustment{
		ID:        uuid.New(),
		TenantID:  p.TenantID,
		ProductID: p.ID,
		VariantID: variantID,
		Delta:     delta,
		Reason:    "Stock received",
	}
	env.ledger.entries = append(env.ledger.entries, e)
	return e
}

func (env *deletionEnv) seedAlert(tenantID uuid.UUID, relatedID uuid.UUID) *model.Notification {
	n := &model.Notification{
		ID:        uuid.New(),
		TenantID:  tenantID,
		Category:  model.NotifyLowStock,
		Message:   "low",
		RelatedID: &relatedID,
		Status:    model.NotificationSent,
	}
	env.notes.rows[n.ID] = n
	return n
}

func TestDeleteProductWithStockRequiresForce(t *testing.T) {
	env := newDeletionEnv()
	tenant := uuid.New()
	p := seedProduct(env.products, tenant, "SKU-300", "Laptop", 4, 2)

	err := env.svc.DeleteProduct(context.Background(), tenant, p.ID, false)
	require.Error(t, err)
	assert.Equal(t, apierror.KindPreconditionFailed, apierror.KindOf(err))
	assert.Contains(t, env.products.products, p.ID)
}

func TestDeleteProductWithVariantsRequiresForce(t *testing.T) {
	env := newDeletionEnv()
	tenant := uuid.New()
	p := seedProduct(env.products, tenant, "SKU-301", "Shirt", 0, 2)
	seedVariant(env.products, p, "SKU-301-S", "Small", 0)

	err := env.svc.DeleteProduct(context.Background(), tenant, p.ID, false)
	require.Error(t, err)
	assert.Equal(t, apierror.KindPreconditionFailed, apierror.KindOf(err))
}

func TestForceDeleteCascades(t *testing.T) {
	env := newDeletionEnv()
	tenant := uuid.New()
	p := seedProduct(env.products, tenant, "SKU-302", "Monitor", 0, 2)
	v := seedVariant(env.products, p, "SKU-302-27", "27 inch", 6)
	variantID := v.ID

	env.seedLedgerEntry(p, nil, 3)
	env.seedLedgerEntry(p, &variantID, 6)
	env.seedAlert(tenant, p.ID)
	env.seedAlert(tenant, variantID)

	require.NoError(t, env.svc.DeleteProduct(context.Background(), tenant, p.ID, true))

	assert.NotContains(t, env.products.products, p.ID)
	assert.Empty(t, env.ledger.entries)
	assert.Empty(t, env.notes.rows)
	assert.Empty(t, env.categories.links)

	assert.Len(t, env.deletions.forTable("products"), 1)
	assert.Len(t, env.deletions.forTable("variants"), 1)
	assert.Len(t, env.deletions.forTable("stock_adjustments"), 2)
	assert.Len(t, env.deletions.forTable("notifications"), 2)
}

func TestDeleteVariantRecomputesParentStock(t *testing.T) {
	env := newDeletionEnv()
	tenant := uuid.New()
	p := seedProduct(env.products, tenant, "SKU-303", "Sneakers", 0, 2)
	seedVariant(env.products, p, "SKU-303-42", "Size 42", 5)
	gone := seedVariant(env.products, p, "SKU-303-43", "Size 43", 8)
	goneID := gone.ID
	env.seedLedgerEntry(p, &goneID, 8)

	require.NoError(t, env.svc.DeleteVariant(context.Background(), tenant, p.ID, goneID, true))

	assert.Len(t, p.Variants, 1)
	assert.Equal(t, 5, p.Stock)
	assert.Empty(t, env.ledger.entries)
	assert.Len(t, env.deletions.forTable("variants"), 1)
}

func TestDeleteVariantWithStockRequiresForce(t *testing.T) {
	env := newDeletionEnv()
	tenant := uuid.New()
	p := seedProduct(env.products, tenant, "SKU-304", "Boots", 0, 2)
	v := seedVariant(env.products, p, "SKU-304-40", "Size 40", 3)

	err := env.svc.DeleteVariant(context.Background(), tenant, p.ID, v.ID, false)
	require.Error(t, err)
	assert.Equal(t, apierror.KindPreconditionFailed, apierror.KindOf(err))
}

func TestBulkDeletePartitionsByStock(t *testing.T) {
	env := newDeletionEnv()
	tenant := uuid.New()
	empty := seedProduct(env.products, tenant, "SKU-305", "Empty A", 0, 2)
	stocked := seedProduct(env.products, tenant, "SKU-306", "Stocked B", 9, 2)
	missing := uuid.New()

	resp, err := env.svc.BulkDeleteProducts(context.Background(), tenant, dto.BulkDeleteRequest{
		IDs: []string{empty.ID.String(), stocked.ID.String(), missing.String()},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Deleted)
	assert.Equal(t, 2, resp.Skipped)
	assert.NotContains(t, env.products.products, empty.ID)
	assert.Contains(t, env.products.products, stocked.ID)
}

func TestRestoreRecreatesDeletedProduct(t *testing.T) {
	env := newDeletionEnv()
	tenant := uuid.New()
	p := seedProduct(env.products, tenant, "SKU-307", "Keyboard", 0, 2)
	productID := p.ID
	require.NoError(t, env.svc.DeleteProduct(context.Background(), tenant, productID, false))
	require.Len(t, env.deletions.forTable("products"), 1)

	resp, err := env.svc.RestoreProducts(context.Background(), tenant, dto.RestoreProductsRequest{
		Items: []dto.RestoreItem{{
			ProductID:   productID.String(),
			Name:        "Keyboard",
			SKU:         "SKU-307",
			RetailPrice: decimal.NewFromInt(180),
			CostPrice:   decimal.NewFromInt(110),
		}},
	})
	require.NoError(t, err)
	require.Equal(t, []string{productID.String()}, resp.Restored)

	restored, ok := env.products.products[productID]
	require.True(t, ok, "product comes back under its original id")
	assert.Equal(t, 0, restored.Stock)
	assert.Equal(t, 5, restored.LowStockThreshold)
	assert.True(t, restored.Active)

	// Filed under the synthesized category, tombstone cleared.
	require.Len(t, env.categories.links, 1)
	cat := env.categories.categories[env.categories.links[0].CategoryID]
	assert.Equal(t, model.RestoredCategoryName, cat.Name)
	assert.Empty(t, env.deletions.forTable("products"))
}

func TestRestorePurgesOrphanedRows(t *testing.T) {
	env := newDeletionEnv()
	tenant := uuid.New()
	productID := uuid.New()

	// Rows left behind by a deletion that predates referential cleanup.
	env.ledger.entries = append(env.ledger.entries, &model.StockAdjustment{
		ID: uuid.New(), TenantID: tenant, ProductID: productID, Delta: 5,
	})
	env.seedAlert(tenant, productID)
	env.deletions.records = append(env.deletions.records, model.DeletionRecord{
		ID: productID, TableName: "products", TenantID: tenant, DeletedAt: time.Now().UTC(),
	})

	_, err := env.svc.RestoreProducts(context.Background(), tenant, dto.RestoreProductsRequest{
		Items: []dto.RestoreItem{{
			ProductID:   productID.String(),
			Name:        "Ghost",
			SKU:         "SKU-308",
			RetailPrice: decimal.NewFromInt(50),
			CostPrice:   decimal.NewFromInt(20),
		}},
	})
	require.NoError(t, err)

	assert.Empty(t, env.ledger.entries)
	assert.Empty(t, env.notes.rows)
	assert.Contains(t, env.products.products, productID)
}

func TestRestoreSkipsLiveProducts(t *testing.T) {
	env := newDeletionEnv()
	tenant := uuid.New()
	p := seedProduct(env.products, tenant, "SKU-309", "Mouse", 3, 2)

	resp, err := env.svc.RestoreProducts(context.Background(), tenant, dto.RestoreProductsRequest{
		Items: []dto.RestoreItem{{
			ProductID:   p.ID.String(),
			Name:        "Mouse clone",
			SKU:         "SKU-309",
			RetailPrice: decimal.NewFromInt(40),
			CostPrice:   decimal.NewFromInt(15),
		}},
	})
	require.NoError(t, err)

	assert.Empty(t, resp.Restored)
	assert.Equal(t, 3, p.Stock) // untouched
}

func TestRestoreFirstSnapshotWins(t *testing.T) {
	env := newDeletionEnv()
	tenant := uuid.New()
	productID := uuid.New()

	resp, err := env.svc.RestoreProducts(context.Background(), tenant, dto.RestoreProductsRequest{
		Items: []dto.RestoreItem{
			{
				ProductID:   productID.String(),
				Name:        "First snapshot",
				SKU:         "SKU-310",
				RetailPrice: decimal.NewFromInt(100),
				CostPrice:   decimal.NewFromInt(60),
			},
			{
				ProductID:   productID.String(),
				Name:        "Later snapshot",
				SKU:         "SKU-310-LATE",
				RetailPrice: decimal.NewFromInt(999),
				CostPrice:   decimal.NewFromInt(500),
			},
		},
	})
	require.NoError(t, err)
	require.Len(t, resp.Restored, 1)

	restored := env.products.products[productID]
	assert.Equal(t, "First snapshot", restored.Name)
	assert.Equal(t, "SKU-310", restored.SKU)
}

func TestListTombstonesFiltersByTable(t *testing.T) {
	env := newDeletionEnv()
	tenant := uuid.New()
	now := time.Now().UTC()
	env.deletions.records = append(env.deletions.records,
		model.DeletionRecord{ID: uuid.New(), TableName: "products", TenantID: tenant, DeletedAt: now},
		model.DeletionRecord{ID: uuid.New(), TableName: "sales", TenantID: tenant, DeletedAt: now},
		model.DeletionRecord{ID: uuid.New(), TableName: "sales", TenantID: uuid.New(), DeletedAt: now},
	)

	all, err := env.svc.ListTombstones(context.Background(), tenant, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	sales, err := env.svc.ListTombstones(context.Background(), tenant, "sales")
	require.NoError(t, err)
	assert.Len(t, sales, 1)
}
