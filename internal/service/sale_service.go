package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"stockpos/internal/apierror"
	"stockpos/internal/dto"
	"stockpos/internal/model"
	"stockpos/internal/repository"
)

type SaleService interface {
	ProcessSale(ctx context.Context, tenantID, userID uuid.UUID, req dto.ProcessSaleRequest) (*dto.SaleResponse, error)
	GetSale(ctx context.Context, tenantID, saleID uuid.UUID) (*dto.SaleResponse, error)
	ListSales(ctx context.Context, tenantID uuid.UUID, filter dto.SaleFilter) (*dto.SaleListResponse, error)
	DeleteSale(ctx context.Context, tenantID, saleID uuid.UUID) error
}

type saleService struct {
	sales       repository.SaleRepository
	products    repository.ProductRepository
	adjustments repository.StockAdjustmentRepository
	shifts      repository.ShiftRepository
	deletions   repository.DeletionRecordRepository
	inventory   InventoryService
}

func NewSaleService(
	sales repository.SaleRepository,
	products repository.ProductRepository,
	adjustments repository.StockAdjustmentRepository,
	shifts repository.ShiftRepository,
	deletions repository.DeletionRecordRepository,
	inventory InventoryService,
) SaleService {
	return &saleService{
		sales:       sales,
		products:    products,
		adjustments: adjustments,
		shifts:      shifts,
		deletions:   deletions,
		inventory:   inventory,
	}
}

// saleLine is one resolved cart line with its price snapshots.
type saleLine struct {
	productID      uuid.UUID
	variantID      *uuid.UUID
	name           string
	sku            string
	quantity       int
	retailPrice    decimal.Decimal
	costPrice      decimal.Decimal
	originalSaleID *uuid.UUID
}

// ProcessSale finalizes a cart in one transaction: it snapshots prices,
// classifies the transaction by the sign of its total, moves stock through
// the ledger, links return lines to their original sale and routes cash
// payments to the open shift's drawer, if one exists.
func (s *saleService) ProcessSale(ctx context.Context, tenantID, userID uuid.UUID, req dto.ProcessSaleRequest) (*dto.SaleResponse, error) {
	lines, err := s.resolveLines(ctx, tenantID, req.Items)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	cogs := decimal.Zero
	for _, l := range lines {
		qty := decimal.NewFromInt(int64(l.quantity))
		total = total.Add(l.retailPrice.Mul(qty))
		cogs = cogs.Add(l.costPrice.Mul(qty))
	}

	// The sign of the net total decides the type. A mixed exchange that nets
	// positive is a regular sale even though it carries return lines.
	saleType := model.SaleTypeSale
	if total.IsNegative() {
		saleType = model.SaleTypeReturn
	}

	paid := decimal.Zero
	payments := make([]model.SalePayment, 0, len(req.Payments))
	for _, p := range req.Payments {
		paid = paid.Add(p.Amount)
		payments = append(payments, model.SalePayment{ID: uuid.New(), Method: p.Method, Amount: p.Amount})
	}
	if saleType == model.SaleTypeSale && paid.LessThan(total) {
		return nil, apierror.Validationf("insufficient payment: %s of %s", paid.StringFixed(2), total.StringFixed(2))
	}

	sale := &model.Sale{
		ID:       uuid.New(),
		TenantID: tenantID,
		UserID:   userID,
		Type:     saleType,
		Status:   model.SaleStatusCompleted,
		Total:    total,
		COGS:     cogs,
		Payments: payments,
	}
	for _, l := range lines {
		sale.Items = append(sale.Items, model.SaleItem{
			ID:             uuid.New(),
			ProductID:      l.productID,
			VariantID:      l.variantID,
			Name:           l.name,
			SKU:            l.sku,
			Quantity:       l.quantity,
			RetailPrice:    l.retailPrice,
			CostPrice:      l.costPrice,
			OriginalSaleID: l.originalSaleID,
		})
	}

	err = runTx(ctx, s.sales.DB(), func(tx *gorm.DB) error {
		if err := s.sales.CreateTx(tx, sale); err != nil {
			return fmt.Errorf("creating sale: %w", err)
		}

		reason := fmt.Sprintf("Sale #%s", sale.ID)
		if saleType == model.SaleTypeReturn {
			reason = fmt.Sprintf("Return #%s", sale.ID)
		}
		for _, l := range lines {
			// Stock is re-read inside the transaction; pre-flight snapshots
			// are only used for pricing.
			current, err := s.currentLevelTx(tx, l.productID, l.variantID)
			if err != nil {
				return err
			}
			if _, err := s.inventory.AdjustStockTx(ctx, tx, AdjustStockParams{
				TenantID:   tenantID,
				ProductID:  l.productID,
				VariantID:  l.variantID,
				NewLevel:   current - l.quantity,
				Reason:     reason,
				SourceType: model.SourceSale,
				SourceID:   &sale.ID,
			}); err != nil {
				return err
			}
		}

		if err := s.linkReturns(tx, tenantID, lines); err != nil {
			return err
		}
		return s.routeDrawerCash(tx, tenantID, payments)
	})
	if err != nil {
		return nil, err
	}
	return saleToResponse(sale), nil
}

func (s *saleService) resolveLines(ctx context.Context, tenantID uuid.UUID, items []dto.SaleItemRequest) ([]saleLine, error) {
	lines := make([]saleLine, 0, len(items))
	for _, it := range items {
		if it.Quantity == 0 {
			return nil, apierror.Validationf("item quantity must not be zero")
		}
		productID, err := uuid.Parse(it.ProductID)
		if err != nil {
			return nil, apierror.Validationf("invalid product id %q", it.ProductID)
		}
		product, err := s.products.FindByID(ctx, productID)
		if err != nil {
			return nil, apierror.NotFoundf("product %s not found", productID)
		}
		if product.TenantID != tenantID {
			return nil, apierror.AccessDenied()
		}
		if !product.Active {
			return nil, apierror.Validationf("product %s is inactive", product.SKU)
		}

		line := saleLine{
			productID:   product.ID,
			name:        product.Name,
			sku:         product.SKU,
			quantity:    it.Quantity,
			retailPrice: product.RetailPrice,
			costPrice:   product.CostPrice,
		}
		if it.VariantID != nil {
			variantID, err := uuid.Parse(*it.VariantID)
			if err != nil {
				return nil, apierror.Validationf("invalid variant id %q", *it.VariantID)
			}
			var variant *model.Variant
			for i := range product.Variants {
				if product.Variants[i].ID == variantID {
					variant = &product.Variants[i]
					break
				}
			}
			if variant == nil {
				return nil, apierror.NotFoundf("variant %s not found on product %s", variantID, product.ID)
			}
			line.variantID = &variant.ID
			line.name = fmt.Sprintf("%s - %s", product.Name, variant.Name)
			line.sku = variant.SKU
			line.retailPrice = variant.RetailPrice
			line.costPrice = variant.CostPrice
		}
		if it.OriginalSaleID != nil {
			origID, err := uuid.Parse(*it.OriginalSaleID)
			if err != nil {
				return nil, apierror.Validationf("invalid original sale id %q", *it.OriginalSaleID)
			}
			if it.Quantity >= 0 {
				return nil, apierror.Validationf("original sale reference requires a negative quantity")
			}
			line.originalSaleID = &origID
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func (s *saleService) currentLevelTx(tx *gorm.DB, productID uuid.UUID, variantID *uuid.UUID) (int, error) {
	product, err := s.products.FindByIDTx(tx, productID)
	if err != nil {
		return 0, apierror.NotFoundf("product %s not found", productID)
	}
	if variantID == nil {
		return product.Stock, nil
	}
	for i := range product.Variants {
		if product.Variants[i].ID == *variantID {
			return product.Variants[i].Stock, nil
		}
	}
	return 0, apierror.NotFoundf("variant %s not found on product %s", variantID, productID)
}

// linkReturns bumps returnedQuantity on the matching lines of each referenced
// original sale and re-derives that sale's status. The status never regresses:
// once refunded, always refunded.
func (s *saleService) linkReturns(tx *gorm.DB, tenantID uuid.UUID, lines []saleLine) error {
	byOriginal := map[uuid.UUID][]saleLine{}
	for _, l := range lines {
		if l.originalSaleID != nil && l.quantity < 0 {
			byOriginal[*l.originalSaleID] = append(byOriginal[*l.originalSaleID], l)
		}
	}

	for origID, returned := range byOriginal {
		original, err := s.sales.FindByIDTx(tx, origID)
		if err != nil {
			return apierror.NotFoundf("original sale %s not found", origID)
		}
		if original.TenantID != tenantID {
			return apierror.AccessDenied()
		}

		for _, l := range returned {
			item := matchItem(original.Items, l.productID, l.variantID)
			if item == nil {
				return apierror.Validationf("sale %s has no line for product %s", origID, l.productID)
			}
			item.ReturnedQuantity += -l.quantity
			if err := s.sales.UpdateItemReturnTx(tx, item.ID, item.ReturnedQuantity); err != nil {
				return fmt.Errorf("updating returned quantity: %w", err)
			}
		}

		status := deriveSaleStatus(original)
		if status != original.Status {
			if err := s.sales.UpdateStatusTx(tx, original.ID, status); err != nil {
				return fmt.Errorf("updating sale status: %w", err)
			}
		}
	}
	return nil
}

func matchItem(items []model.SaleItem, productID uuid.UUID, variantID *uuid.UUID) *model.SaleItem {
	for i := range items {
		it := &items[i]
		if it.ProductID != productID {
			continue
		}
		if (it.VariantID == nil) != (variantID == nil) {
			continue
		}
		if it.VariantID != nil && *it.VariantID != *variantID {
			continue
		}
		return it
	}
	return nil
}

func deriveSaleStatus(sale *model.Sale) string {
	if sale.Status == model.SaleStatusRefunded {
		return model.SaleStatusRefunded
	}
	allReturned := true
	anyReturned := false
	for i := range sale.Items {
		it := &sale.Items[i]
		if it.ReturnedQuantity > 0 {
			anyReturned = true
		}
		if it.ReturnedQuantity < it.Quantity {
			allReturned = false
		}
	}
	switch {
	case allReturned:
		return model.SaleStatusRefunded
	case anyReturned:
		return model.SaleStatusPartiallyRefunded
	default:
		return sale.Status
	}
}

// routeDrawerCash applies the net cash movement of the payment set to the
// open shift, if one exists. Card and transfer payments never touch the
// drawer, and a missing shift is not an error.
func (s *saleService) routeDrawerCash(tx *gorm.DB, tenantID uuid.UUID, payments []model.SalePayment) error {
	cash := decimal.Zero
	for _, p := range payments {
		if p.Method == model.PaymentMethodCash {
			cash = cash.Add(p.Amount)
		}
	}
	if cash.IsZero() {
		return nil
	}

	shift, err := s.shifts.FindOpenTx(tx, tenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("looking up open shift: %w", err)
	}

	if cash.IsPositive() {
		return s.shifts.AddCashTx(tx, shift.ID, cash, decimal.Zero)
	}
	return s.shifts.AddCashTx(tx, shift.ID, decimal.Zero, cash.Neg())
}

func (s *saleService) GetSale(ctx context.Context, tenantID, saleID uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.sales.FindByID(ctx, saleID)
	if err != nil {
		return nil, apierror.NotFoundf("sale %s not found", saleID)
	}
	if sale.TenantID != tenantID {
		return nil, apierror.AccessDenied()
	}
	return saleToResponse(sale), nil
}

func (s *saleService) ListSales(ctx context.Context, tenantID uuid.UUID, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	sales, total, err := s.sales.List(ctx, tenantID, filter)
	if err != nil {
		return nil, fmt.Errorf("listing sales: %w", err)
	}
	resp := &dto.SaleListResponse{
		Data:  make([]dto.SaleResponse, 0, len(sales)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range sales {
		resp.Data = append(resp.Data, *saleToResponse(&sales[i]))
	}
	return resp, nil
}

// DeleteSale removes a sale, every return linked to it, and the ledger rows
// either produced, leaving tombstones for sync clients. Returns cannot be
// deleted directly; they go away with their original sale.
func (s *saleService) DeleteSale(ctx context.Context, tenantID, saleID uuid.UUID) error {
	sale, err := s.sales.FindByID(ctx, saleID)
	if err != nil {
		return apierror.NotFoundf("sale %s not found", saleID)
	}
	if sale.TenantID != tenantID {
		return apierror.AccessDenied()
	}
	if sale.Type == model.SaleTypeReturn {
		return apierror.PreconditionFailedf("returns are deleted through their original sale")
	}

	return runTx(ctx, s.sales.DB(), func(tx *gorm.DB) error {
		returns, err := s.sales.FindReturnsOfTx(tx, sale.ID)
		if err != nil {
			return fmt.Errorf("finding linked returns: %w", err)
		}

		victims := append([]model.Sale{*sale}, returns...)
		now := time.Now().UTC()
		var tombstones []model.DeletionRecord
		for i := range victims {
			v := &victims[i]
			entries, err := s.adjustments.FindBySaleTx(tx, v.ID)
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

			if err := s.sales.DeleteTx(tx, v.ID); err != nil {
				return fmt.Errorf("deleting sale %s: %w", v.ID, err)
			}
			tombstones = append(tombstones, model.DeletionRecord{
				ID: v.ID, TableName: "sales", TenantID: tenantID, DeletedAt: now,
			})
		}
		return s.deletions.CreateManyTx(tx, tombstones)
	})
}

func saleToResponse(sale *model.Sale) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:        sale.ID.String(),
		Type:      sale.Type,
		Status:    sale.Status,
		Total:     sale.Total,
		COGS:      sale.COGS,
		Items:     make([]dto.SaleItemResponse, 0, len(sale.Items)),
		Payments:  make([]dto.PaymentRequest, 0, len(sale.Payments)),
		CreatedAt: sale.CreatedAt.Format(timeFormat),
	}
	for i := range sale.Items {
		it := &sale.Items[i]
		item := dto.SaleItemResponse{
			ProductID:        it.ProductID.String(),
			Name:             it.Name,
			SKU:              it.SKU,
			Quantity:         it.Quantity,
			RetailPrice:      it.RetailPrice,
			CostPrice:        it.CostPrice,
			ReturnedQuantity: it.ReturnedQuantity,
		}
		if it.VariantID != nil {
			v := it.VariantID.String()
			item.VariantID = &v
		}
		if it.OriginalSaleID != nil {
			o := it.OriginalSaleID.String()
			item.OriginalSaleID = &o
		}
		resp.Items = append(resp.Items, item)
	}
	for _, p := range sale.Payments {
		resp.Payments = append(resp.Payments, dto.PaymentRequest{Method: p.Method, Amount: p.Amount})
	}
	return resp
}
