package tests

// In-memory repository stubs shared by the service tests in this package.
// Each stub satisfies its repository interface (checked at compile time) and
// returns gorm.ErrRecordNotFound for misses so the services' error mapping
// behaves exactly as against Postgres. DB() returns nil, which makes runTx
// invoke its callback without a real transaction.

import (
	"context"
	"fmt"
	"time"

	"stockpos/internal/dto"
	"stockpos/internal/model"
	"stockpos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── ProductRepository ────────────────────────────────────────────────────────

type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) CreateTx(_ *gorm.DB, p *model.Product) error {
	return r.Create(context.Background(), p)
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Product, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubProductRepo) FindBySKU(_ context.Context, tenantID uuid.UUID, sku string) (*model.Product, error) {
	for _, p := range r.products {
		if p.TenantID == tenantID && p.SKU == sku && p.Active {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) FindByIDs(_ context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]model.Product, error) {
	var result []model.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok && p.TenantID == tenantID {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (r *stubProductRepo) List(_ context.Context, tenantID uuid.UUID, filter dto.ProductFilter) ([]model.Product, int64, error) {
	var result []model.Product
	for _, p := range r.products {
		if p.TenantID != tenantID {
			continue
		}
		switch filter.Active {
		case "false":
			if p.Active {
				continue
			}
		case "all":
		default:
			if !p.Active {
				continue
			}
		}
		result = append(result, *p)
	}
	return result, int64(len(result)), nil
}

func (r *stubProductRepo) Save(_ context.Context, p *model.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Active = false
	return nil
}

func (r *stubProductRepo) UpdateStockTx(_ *gorm.DB, id uuid.UUID, stock int) error {
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Stock = stock
	return nil
}

func (r *stubProductRepo) UpdateVariantStockTx(_ *gorm.DB, id uuid.UUID, stock int) error {
	for _, p := range r.products {
		for i := range p.Variants {
			if p.Variants[i].ID == id {
				p.Variants[i].Stock = stock
				return nil
			}
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubProductRepo) CreateVariantTx(_ *gorm.DB, v *model.Variant) error {
	p, ok := r.products[v.ProductID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	p.Variants = append(p.Variants, *v)
	return nil
}

func (r *stubProductRepo) SaveVariantTx(_ *gorm.DB, v *model.Variant) error {
	p, ok := r.products[v.ProductID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range p.Variants {
		if p.Variants[i].ID == v.ID {
			p.Variants[i] = *v
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubProductRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	delete(r.products, id)
	return nil
}

func (r *stubProductRepo) DeleteVariantTx(_ *gorm.DB, id uuid.UUID) error {
	for _, p := range r.products {
		for i := range p.Variants {
			if p.Variants[i].ID == id {
				p.Variants = append(p.Variants[:i], p.Variants[i+1:]...)
				return nil
			}
		}
	}
	return nil
}

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// ── StockAdjustmentRepository ────────────────────────────────────────────────

type stubAdjustmentRepo struct {
	entries []*model.StockAdjustment
}

func newStubAdjustmentRepo() *stubAdjustmentRepo { return &stubAdjustmentRepo{} }

func (r *stubAdjustmentRepo) CreateTx(_ *gorm.DB, a *model.StockAdjustment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.entries = append(r.entries, a)
	return nil
}

func (r *stubAdjustmentRepo) List(_ context.Context, tenantID uuid.UUID, filter repository.StockAdjustmentFilter) ([]model.StockAdjustment, int64, error) {
	var result []model.StockAdjustment
	for _, e := range r.entries {
		if e.TenantID != tenantID {
			continue
		}
		if filter.ProductID != nil && e.ProductID != *filter.ProductID {
			continue
		}
		if filter.SourceType != "" && e.SourceType != filter.SourceType {
			continue
		}
		result = append(result, *e)
	}
	return result, int64(len(result)), nil
}

func (r *stubAdjustmentRepo) FindBySaleTx(_ *gorm.DB, saleID uuid.UUID) ([]model.StockAdjustment, error) {
	legacyA := fmt.Sprintf("Sale #%s", saleID)
	legacyB := fmt.Sprintf("Sold in transaction %s", saleID)
	var result []model.StockAdjustment
	for _, e := range r.entries {
		structured := e.SourceType == model.SourceSale && e.SourceID != nil && *e.SourceID == saleID
		if structured || e.Reason == legacyA || e.Reason == legacyB {
			result = append(result, *e)
		}
	}
	return result, nil
}

func (r *stubAdjustmentRepo) FindByProductTx(_ *gorm.DB, productID uuid.UUID) ([]model.StockAdjustment, error) {
	var result []model.StockAdjustment
	for _, e := range r.entries {
		if e.ProductID == productID {
			result = append(result, *e)
		}
	}
	return result, nil
}

func (r *stubAdjustmentRepo) FindByVariantTx(_ *gorm.DB, variantID uuid.UUID) ([]model.StockAdjustment, error) {
	var result []model.StockAdjustment
	for _, e := range r.entries {
		if e.VariantID != nil && *e.VariantID == variantID {
			result = append(result, *e)
		}
	}
	return result, nil
}

func (r *stubAdjustmentRepo) DeleteByIDsTx(_ *gorm.DB, ids []uuid.UUID) error {
	drop := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := r.entries[:0]
	for _, e := range r.entries {
		if !drop[e.ID] {
			kept = append(kept, e)
		}
	}
	r.entries = kept
	return nil
}

var _ repository.StockAdjustmentRepository = (*stubAdjustmentRepo)(nil)

// ── SaleRepository ───────────────────────────────────────────────────────────

type stubSaleRepo struct {
	sales map[uuid.UUID]*model.Sale
}

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{sales: make(map[uuid.UUID]*model.Sale)}
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

func (r *stubSaleRepo) CreateTx(_ *gorm.DB, s *model.Sale) error {
	r.sales[s.ID] = s
	return nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSaleRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Sale, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubSaleRepo) List(_ context.Context, tenantID uuid.UUID, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	var result []model.Sale
	for _, s := range r.sales {
		if s.TenantID != tenantID {
			continue
		}
		if filter.Type != "" && filter.Type != "all" && s.Type != filter.Type {
			continue
		}
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		result = append(result, *s)
	}
	return result, int64(len(result)), nil
}

func (r *stubSaleRepo) FindReturnsOfTx(_ *gorm.DB, saleID uuid.UUID) ([]model.Sale, error) {
	var result []model.Sale
	for _, s := range r.sales {
		for _, it := range s.Items {
			if it.OriginalSaleID != nil && *it.OriginalSaleID == saleID {
				result = append(result, *s)
				break
			}
		}
	}
	return result, nil
}

func (r *stubSaleRepo) UpdateItemReturnTx(_ *gorm.DB, itemID uuid.UUID, returnedQuantity int) error {
	for _, s := range r.sales {
		for i := range s.Items {
			if s.Items[i].ID == itemID {
				s.Items[i].ReturnedQuantity = returnedQuantity
				return nil
			}
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubSaleRepo) UpdateStatusTx(_ *gorm.DB, saleID uuid.UUID, status string) error {
	s, ok := r.sales[saleID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.Status = status
	return nil
}

func (r *stubSaleRepo) DeleteTx(_ *gorm.DB, saleID uuid.UUID) error {
	delete(r.sales, saleID)
	return nil
}

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

// ── ShiftRepository ──────────────────────────────────────────────────────────

type stubShiftRepo struct {
	shifts map[uuid.UUID]*model.Shift
}

func newStubShiftRepo() *stubShiftRepo {
	return &stubShiftRepo{shifts: make(map[uuid.UUID]*model.Shift)}
}

func (r *stubShiftRepo) DB() *gorm.DB { return nil }

func (r *stubShiftRepo) Create(_ context.Context, s *model.Shift) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.shifts[s.ID] = s
	return nil
}

func (r *stubShiftRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Shift, error) {
	s, ok := r.shifts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubShiftRepo) FindOpen(_ context.Context, tenantID uuid.UUID) (*model.Shift, error) {
	for _, s := range r.shifts {
		if s.TenantID == tenantID && s.Status == model.ShiftStatusOpen {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubShiftRepo) FindOpenTx(_ *gorm.DB, tenantID uuid.UUID) (*model.Shift, error) {
	return r.FindOpen(context.Background(), tenantID)
}

func (r *stubShiftRepo) Save(_ context.Context, s *model.Shift) error {
	r.shifts[s.ID] = s
	return nil
}

func (r *stubShiftRepo) AddCashTx(_ *gorm.DB, shiftID uuid.UUID, sales, refunds decimal.Decimal) error {
	s, ok := r.shifts[shiftID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.CashSales = s.CashSales.Add(sales)
	s.CashRefunds = s.CashRefunds.Add(refunds)
	return nil
}

func (r *stubShiftRepo) List(_ context.Context, tenantID uuid.UUID, page, limit int) ([]model.Shift, int64, error) {
	var result []model.Shift
	for _, s := range r.shifts {
		if s.TenantID == tenantID {
			result = append(result, *s)
		}
	}
	return result, int64(len(result)), nil
}

var _ repository.ShiftRepository = (*stubShiftRepo)(nil)

// ── PurchaseOrderRepository ──────────────────────────────────────────────────

type stubPORepo struct {
	orders map[uuid.UUID]*model.PurchaseOrder
}

func newStubPORepo() *stubPORepo {
	return &stubPORepo{orders: make(map[uuid.UUID]*model.PurchaseOrder)}
}

func (r *stubPORepo) DB() *gorm.DB { return nil }

func (r *stubPORepo) Create(_ context.Context, po *model.PurchaseOrder) error {
	if po.ID == uuid.Nil {
		po.ID = uuid.New()
	}
	r.orders[po.ID] = po
	return nil
}

func (r *stubPORepo) CreateTx(_ *gorm.DB, po *model.PurchaseOrder) error {
	return r.Create(context.Background(), po)
}

func (r *stubPORepo) FindByID(_ context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
	po, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return po, nil
}

func (r *stubPORepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.PurchaseOrder, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubPORepo) List(_ context.Context, tenantID uuid.UUID, filter dto.PurchaseOrderFilter) ([]model.PurchaseOrder, int64, error) {
	var result []model.PurchaseOrder
	for _, po := range r.orders {
		if po.TenantID != tenantID {
			continue
		}
		if filter.Status != "" && filter.Status != "all" && po.Status != filter.Status {
			continue
		}
		result = append(result, *po)
	}
	return result, int64(len(result)), nil
}

func (r *stubPORepo) UpdateItemReceivedTx(_ *gorm.DB, itemID uuid.UUID, quantityReceived int) error {
	for _, po := range r.orders {
		for i := range po.Items {
			if po.Items[i].ID == itemID {
				po.Items[i].QuantityReceived = quantityReceived
				return nil
			}
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubPORepo) UpdateStatusTx(_ *gorm.DB, poID uuid.UUID, status string) error {
	po, ok := r.orders[poID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	po.Status = status
	return nil
}

func (r *stubPORepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.orders, id)
	return nil
}

var _ repository.PurchaseOrderRepository = (*stubPORepo)(nil)

// ── NotificationRepository ───────────────────────────────────────────────────

type stubNotificationRepo struct {
	rows map[uuid.UUID]*model.Notification
}

func newStubNotificationRepo() *stubNotificationRepo {
	return &stubNotificationRepo{rows: make(map[uuid.UUID]*model.Notification)}
}

func (r *stubNotificationRepo) CreateTx(_ *gorm.DB, n *model.Notification) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	r.rows[n.ID] = n
	return nil
}

func (r *stubNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	return r.CreateTx(nil, n)
}

func (r *stubNotificationRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Notification, error) {
	n, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return n, nil
}

func (r *stubNotificationRepo) List(_ context.Context, tenantID uuid.UUID, limit int) ([]model.Notification, error) {
	var result []model.Notification
	for _, n := range r.rows {
		if n.TenantID == tenantID {
			result = append(result, *n)
		}
	}
	return result, nil
}

func (r *stubNotificationRepo) FindByRelatedTx(_ *gorm.DB, relatedIDs []uuid.UUID) ([]model.Notification, error) {
	want := make(map[uuid.UUID]bool, len(relatedIDs))
	for _, id := range relatedIDs {
		want[id] = true
	}
	var result []model.Notification
	for _, n := range r.rows {
		if n.RelatedID != nil && want[*n.RelatedID] {
			result = append(result, *n)
		}
	}
	return result, nil
}

func (r *stubNotificationRepo) DeleteByIDsTx(_ *gorm.DB, ids []uuid.UUID) error {
	for _, id := range ids {
		delete(r.rows, id)
	}
	return nil
}

func (r *stubNotificationRepo) MarkSent(_ context.Context, id uuid.UUID) error {
	n, ok := r.rows[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	n.Status = model.NotificationSent
	return nil
}

func (r *stubNotificationRepo) MarkFailed(_ context.Context, id uuid.UUID, cause string, nextRetryAt *time.Time) error {
	n, ok := r.rows[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	n.RetryCount++
	n.LastError = &cause
	n.NextRetryAt = nextRetryAt
	if nextRetryAt == nil {
		n.Status = model.NotificationFailed
	}
	return nil
}

func (r *stubNotificationRepo) FindDueRetries(_ context.Context, limit int) ([]model.Notification, error) {
	now := time.Now()
	var result []model.Notification
	for _, n := range r.rows {
		if n.Status == model.NotificationPending && n.NextRetryAt != nil && n.NextRetryAt.Before(now) {
			result = append(result, *n)
		}
	}
	return result, nil
}

var _ repository.NotificationRepository = (*stubNotificationRepo)(nil)

// byCategory filters the stored notification rows.
func (r *stubNotificationRepo) byCategory(category string) []*model.Notification {
	var result []*model.Notification
	for _, n := range r.rows {
		if n.Category == category {
			result = append(result, n)
		}
	}
	return result
}

// ── DeletionRecordRepository ─────────────────────────────────────────────────

type stubDeletionRepo struct {
	records []model.DeletionRecord
}

func newStubDeletionRepo() *stubDeletionRepo { return &stubDeletionRepo{} }

func (r *stubDeletionRepo) CreateManyTx(_ *gorm.DB, records []model.DeletionRecord) error {
	r.records = append(r.records, records...)
	return nil
}

func (r *stubDeletionRepo) DeleteForTx(_ *gorm.DB, table string, id uuid.UUID) error {
	kept := r.records[:0]
	for _, rec := range r.records {
		if rec.TableName == table && rec.ID == id {
			continue
		}
		kept = append(kept, rec)
	}
	r.records = kept
	return nil
}

func (r *stubDeletionRepo) List(_ context.Context, tenantID uuid.UUID, table string) ([]model.DeletionRecord, error) {
	var result []model.DeletionRecord
	for _, rec := range r.records {
		if rec.TenantID != tenantID {
			continue
		}
		if table != "" && rec.TableName != table {
			continue
		}
		result = append(result, rec)
	}
	return result, nil
}

var _ repository.DeletionRecordRepository = (*stubDeletionRepo)(nil)

// forTable returns the tombstones recorded against one table.
func (r *stubDeletionRepo) forTable(table string) []model.DeletionRecord {
	var result []model.DeletionRecord
	for _, rec := range r.records {
		if rec.TableName == table {
			result = append(result, rec)
		}
	}
	return result
}

// ── CategoryRepository ───────────────────────────────────────────────────────

type stubCategoryRepo struct {
	categories map[uuid.UUID]*model.Category
	links      []model.ProductCategory
}

func newStubCategoryRepo() *stubCategoryRepo {
	return &stubCategoryRepo{categories: make(map[uuid.UUID]*model.Category)}
}

func (r *stubCategoryRepo) FindOrCreateTx(_ *gorm.DB, tenantID uuid.UUID, name string) (*model.Category, error) {
	for _, c := range r.categories {
		if c.TenantID == tenantID && c.Name == name {
			return c, nil
		}
	}
	c := &model.Category{ID: uuid.New(), TenantID: tenantID, Name: name}
	r.categories[c.ID] = c
	return c, nil
}

func (r *stubCategoryRepo) LinkProductTx(_ *gorm.DB, productID, categoryID uuid.UUID) error {
	r.links = append(r.links, model.ProductCategory{ProductID: productID, CategoryID: categoryID})
	return nil
}

func (r *stubCategoryRepo) UnlinkProductTx(_ *gorm.DB, productID uuid.UUID) error {
	kept := r.links[:0]
	for _, l := range r.links {
		if l.ProductID != productID {
			kept = append(kept, l)
		}
	}
	r.links = kept
	return nil
}

func (r *stubCategoryRepo) List(_ context.Context, tenantID uuid.UUID) ([]model.Category, error) {
	var result []model.Category
	for _, c := range r.categories {
		if c.TenantID == tenantID {
			result = append(result, *c)
		}
	}
	return result, nil
}

var _ repository.CategoryRepository = (*stubCategoryRepo)(nil)

// ── PriceHistoryRepository ───────────────────────────────────────────────────

type stubHistoryRepo struct {
	entries []model.PriceHistoryEntry
}

func newStubHistoryRepo() *stubHistoryRepo { return &stubHistoryRepo{} }

func (r *stubHistoryRepo) CreateTx(_ *gorm.DB, e *model.PriceHistoryEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	r.entries = append(r.entries, *e)
	return nil
}

func (r *stubHistoryRepo) ListByProduct(_ context.Context, productID uuid.UUID) ([]model.PriceHistoryEntry, error) {
	var result []model.PriceHistoryEntry
	for _, e := range r.entries {
		if e.ProductID == productID {
			result = append(result, e)
		}
	}
	return result, nil
}

var _ repository.PriceHistoryRepository = (*stubHistoryRepo)(nil)

// ── SupplierRepository ───────────────────────────────────────────────────────

type stubSupplierRepo struct {
	suppliers map[uuid.UUID]*model.Supplier
}

func newStubSupplierRepo() *stubSupplierRepo {
	return &stubSupplierRepo{suppliers: make(map[uuid.UUID]*model.Supplier)}
}

func (r *stubSupplierRepo) Create(_ context.Context, s *model.Supplier) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.suppliers[s.ID] = s
	return nil
}

func (r *stubSupplierRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Supplier, error) {
	s, ok := r.suppliers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSupplierRepo) List(_ context.Context, tenantID uuid.UUID) ([]model.Supplier, error) {
	var result []model.Supplier
	for _, s := range r.suppliers {
		if s.TenantID == tenantID {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (r *stubSupplierRepo) Save(_ context.Context, s *model.Supplier) error {
	r.suppliers[s.ID] = s
	return nil
}

func (r *stubSupplierRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	s, ok := r.suppliers[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.Active = false
	return nil
}

var _ repository.SupplierRepository = (*stubSupplierRepo)(nil)

// ── UserRepository ───────────────────────────────────────────────────────────

type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	for _, existing := range r.users {
		if existing.TenantID == u.TenantID && existing.Username == u.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username && u.Active {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) List(_ context.Context, tenantID uuid.UUID, includeInactive bool) ([]model.User, error) {
	var result []model.User
	for _, u := range r.users {
		if u.TenantID != tenantID {
			continue
		}
		if !includeInactive && !u.Active {
			continue
		}
		result = append(result, *u)
	}
	return result, nil
}

func (r *stubUserRepo) Save(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

// ── Seed helpers ─────────────────────────────────────────────────────────────

func seedProduct(repo *stubProductRepo, tenantID uuid.UUID, sku, name string, stock, threshold int) *model.Product {
	p := &model.Product{
		ID:                uuid.New(),
		TenantID:          tenantID,
		SKU:               sku,
		Name:              name,
		RetailPrice:       decimal.NewFromInt(150),
		CostPrice:         decimal.NewFromInt(90),
		Stock:             stock,
		LowStockThreshold: threshold,
		Active:            true,
	}
	repo.products[p.ID] = p
	return p
}

func seedVariant(repo *stubProductRepo, p *model.Product, sku, name string, stock int) *model.Variant {
	v := model.Variant{
		ID:          uuid.New(),
		TenantID:    p.TenantID,
		ProductID:   p.ID,
		SKU:         sku,
		Name:        name,
		Stock:       stock,
		RetailPrice: decimal.NewFromInt(160),
		CostPrice:   decimal.NewFromInt(95),
	}
	p.Variants = append(p.Variants, v)
	p.Stock = p.TotalStock()
	return &p.Variants[len(p.Variants)-1]
}

func seedSupplier(repo *stubSupplierRepo, tenantID uuid.UUID, name string) *model.Supplier {
	s := &model.Supplier{
		ID:       uuid.New(),
		TenantID: tenantID,
		Name:     name,
		Active:   true,
	}
	repo.suppliers[s.ID] = s
	return s
}
