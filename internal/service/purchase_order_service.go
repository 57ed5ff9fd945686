package service

import (
	"context"
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

type PurchaseOrderService interface {
	Create(ctx context.Context, tenantID uuid.UUID, req dto.CreatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error)
	Get(ctx context.Context, tenantID, poID uuid.UUID) (*dto.PurchaseOrderResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter dto.PurchaseOrderFilter) (*dto.PurchaseOrderListResponse, error)
	ReceiveItems(ctx context.Context, tenantID, poID uuid.UUID, req dto.ReceivePOItemsRequest) (*dto.PurchaseOrderResponse, error)
	Delete(ctx context.Context, tenantID, poID uuid.UUID) error
}

type purchaseOrderService struct {
	orders    repository.PurchaseOrderRepository
	products  repository.ProductRepository
	suppliers repository.SupplierRepository
	inventory InventoryService
	notifier  Notifier
}

func NewPurchaseOrderService(
	orders repository.PurchaseOrderRepository,
	products repository.ProductRepository,
	suppliers repository.SupplierRepository,
	inventory InventoryService,
	notifier Notifier,
) PurchaseOrderService {
	return &purchaseOrderService{
		orders:    orders,
		products:  products,
		suppliers: suppliers,
		inventory: inventory,
		notifier:  notifier,
	}
}

func (s *purchaseOrderService) Create(ctx context.Context, tenantID uuid.UUID, req dto.CreatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	supplierID, err := uuid.Parse(req.SupplierID)
	if err != nil {
		return nil, apierror.Validationf("invalid supplier id %q", req.SupplierID)
	}
	supplier, err := s.suppliers.FindByID(ctx, supplierID)
	if err != nil {
		return nil, apierror.NotFoundf("supplier %s not found", supplierID)
	}
	if supplier.TenantID != tenantID {
		return nil, apierror.AccessDenied()
	}

	po := &model.PurchaseOrder{
		ID:         uuid.New(),
		TenantID:   tenantID,
		SupplierID: supplier.ID,
		Status:     model.POStatusPending,
		Notes:      req.Notes,
	}
	if req.DateExpected != nil {
		t, err := time.Parse("2006-01-02", *req.DateExpected)
		if err != nil {
			return nil, apierror.Validationf("invalid date_expected %q, want YYYY-MM-DD", *req.DateExpected)
		}
		po.DateExpected = &t
	}

	total := decimal.Zero
	for _, it := range req.Items {
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

		item := model.PurchaseOrderItem{
			ID:              uuid.New(),
			ProductID:       product.ID,
			QuantityOrdered: it.QuantityOrdered,
			CostPrice:       it.CostPrice,
		}
		if it.VariantID != nil {
			variantID, err := uuid.Parse(*it.VariantID)
			if err != nil {
				return nil, apierror.Validationf("invalid variant id %q", *it.VariantID)
			}
			found := false
			for i := range product.Variants {
				if product.Variants[i].ID == variantID {
					found = true
					break
				}
			}
			if !found {
				return nil, apierror.NotFoundf("variant %s not found on product %s", variantID, product.ID)
			}
			item.VariantID = &variantID
		}
		total = total.Add(it.CostPrice.Mul(decimal.NewFromInt(int64(it.QuantityOrdered))))
		po.Items = append(po.Items, item)
	}
	po.TotalCost = total

	err = runTx(ctx, s.orders.DB(), func(tx *gorm.DB) error {
		if err := s.orders.CreateTx(tx, po); err != nil {
			return fmt.Errorf("creating purchase order: %w", err)
		}
		msg := fmt.Sprintf("Purchase order placed with %s for %s", supplier.Name, total.StringFixed(2))
		return s.notifier.NotifyTx(tx, tenantID, model.NotifyPOCreated, msg, &po.ID)
	})
	if err != nil {
		return nil, err
	}
	po.Supplier = supplier
	return poToResponse(po), nil
}

func (s *purchaseOrderService) Get(ctx context.Context, tenantID, poID uuid.UUID) (*dto.PurchaseOrderResponse, error) {
	po, err := s.orders.FindByID(ctx, poID)
	if err != nil {
		return nil, apierror.NotFoundf("purchase order %s not found", poID)
	}
	if po.TenantID != tenantID {
		return nil, apierror.AccessDenied()
	}
	return poToResponse(po), nil
}

func (s *purchaseOrderService) List(ctx context.Context, tenantID uuid.UUID, filter dto.PurchaseOrderFilter) (*dto.PurchaseOrderListResponse, error) {
	orders, total, err := s.orders.List(ctx, tenantID, filter)
	if err != nil {
		return nil, fmt.Errorf("listing purchase orders: %w", err)
	}
	resp := &dto.PurchaseOrderListResponse{
		Data:  make([]dto.PurchaseOrderResponse, 0, len(orders)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range orders {
		resp.Data = append(resp.Data, *poToResponse(&orders[i]))
	}
	return resp, nil
}

// ReceiveItems applies delivered quantities to their order lines and raises
// stock through the ledger, all in one transaction. Quantities are applied
// exactly as given; callers validate against the remaining amount, the
// lifecycle never clamps. The derived status moves pending → partial →
// received and each change emits a notification.
func (s *purchaseOrderService) ReceiveItems(ctx context.Context, tenantID, poID uuid.UUID, req dto.ReceivePOItemsRequest) (*dto.PurchaseOrderResponse, error) {
	po, err := s.orders.FindByID(ctx, poID)
	if err != nil {
		return nil, apierror.NotFoundf("purchase order %s not found", poID)
	}
	if po.TenantID != tenantID {
		return nil, apierror.AccessDenied()
	}

	err = runTx(ctx, s.orders.DB(), func(tx *gorm.DB) error {
		oldStatus := po.Status
		for _, entry := range req.Items {
			if entry.Quantity == 0 {
				continue
			}
			productID, err := uuid.Parse(entry.ProductID)
			if err != nil {
				return apierror.Validationf("invalid product id %q", entry.ProductID)
			}
			var variantID *uuid.UUID
			if entry.VariantID != nil {
				v, err := uuid.Parse(*entry.VariantID)
				if err != nil {
					return apierror.Validationf("invalid variant id %q", *entry.VariantID)
				}
				variantID = &v
			}

			line := matchPOItem(po.Items, productID, variantID)
			if line == nil {
				return apierror.NotFoundf("purchase order %s has no line for product %s", po.ID, productID)
			}

			if _, err := s.inventory.ReceiveStockTx(ctx, tx, ReceiveStockParams{
				TenantID:   tenantID,
				ProductID:  productID,
				VariantID:  variantID,
				Quantity:   entry.Quantity,
				Reason:     fmt.Sprintf("Received from PO #%s", po.ID),
				SourceType: model.SourcePurchaseOrder,
				SourceID:   &po.ID,
			}); err != nil {
				return err
			}

			line.QuantityReceived += entry.Quantity
			if err := s.orders.UpdateItemReceivedTx(tx, line.ID, line.QuantityReceived); err != nil {
				return fmt.Errorf("updating received quantity: %w", err)
			}
		}

		newStatus := po.DeriveStatus()
		if newStatus != oldStatus {
			if err := s.orders.UpdateStatusTx(tx, po.ID, newStatus); err != nil {
				return fmt.Errorf("updating purchase order status: %w", err)
			}
			po.Status = newStatus
			msg := fmt.Sprintf("Purchase order %s is now %s", po.ID, newStatus)
			if err := s.notifier.NotifyTx(tx, tenantID, model.NotifyPOStatus, msg, &po.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return poToResponse(po), nil
}

func matchPOItem(items []model.PurchaseOrderItem, productID uuid.UUID, variantID *uuid.UUID) *model.PurchaseOrderItem {
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

// Delete removes a purchase order that has received nothing. Once any line
// has stock against it the order is part of the ledger's audit trail.
func (s *purchaseOrderService) Delete(ctx context.Context, tenantID, poID uuid.UUID) error {
	po, err := s.orders.FindByID(ctx, poID)
	if err != nil {
		return apierror.NotFoundf("purchase order %s not found", poID)
	}
	if po.TenantID != tenantID {
		return apierror.AccessDenied()
	}
	if po.Status != model.POStatusPending {
		return apierror.PreconditionFailedf("only pending purchase orders can be deleted")
	}
	return s.orders.Delete(ctx, po.ID)
}

func poToResponse(po *model.PurchaseOrder) *dto.PurchaseOrderResponse {
	resp := &dto.PurchaseOrderResponse{
		ID:         po.ID.String(),
		SupplierID: po.SupplierID.String(),
		Status:     po.Status,
		TotalCost:  po.TotalCost,
		Notes:      po.Notes,
		Items:      make([]dto.POItemResponse, 0, len(po.Items)),
		CreatedAt:  po.CreatedAt.Format(timeFormat),
	}
	if po.Supplier != nil {
		resp.SupplierName = po.Supplier.Name
	}
	if po.DateExpected != nil {
		d := po.DateExpected.Format("2006-01-02")
		resp.DateExpected = &d
	}
	for i := range po.Items {
		it := &po.Items[i]
		item := dto.POItemResponse{
			ProductID:        it.ProductID.String(),
			QuantityOrdered:  it.QuantityOrdered,
			QuantityReceived: it.QuantityReceived,
			CostPrice:        it.CostPrice,
		}
		if it.VariantID != nil {
			v := it.VariantID.String()
			item.VariantID = &v
		}
		resp.Items = append(resp.Items, item)
	}
	return resp
}
