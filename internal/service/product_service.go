package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"stockpos/internal/apierror"
	"stockpos/internal/dto"
	"stockpos/internal/model"
	"stockpos/internal/repository"
)

type ProductService interface {
	Create(ctx context.Context, tenantID uuid.UUID, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	Get(ctx context.Context, tenantID, productID uuid.UUID) (*dto.ProductResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Update(ctx context.Context, tenantID, actorID, productID uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Deactivate(ctx context.Context, tenantID, productID uuid.UUID) error
	PriceHistory(ctx context.Context, tenantID, productID uuid.UUID) ([]dto.PriceHistoryResponse, error)
	// LookupPrice serves the redis-cached SKU price check for the caller's tenant.
	LookupPrice(ctx context.Context, tenantID uuid.UUID, sku string) (*dto.PriceLookupResponse, error)
}

type productService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	history    repository.PriceHistoryRepository
	suppliers  repository.SupplierRepository
}

func NewProductService(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	history repository.PriceHistoryRepository,
	suppliers repository.SupplierRepository,
) ProductService {
	return &productService{
		products:   products,
		categories: categories,
		history:    history,
		suppliers:  suppliers,
	}
}

func (s *productService) Create(ctx context.Context, tenantID uuid.UUID, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if _, err := s.products.FindBySKU(ctx, tenantID, req.SKU); err == nil {
		return nil, apierror.Validationf("sku %q is already in use", req.SKU)
	}

	product := &model.Product{
		ID:                uuid.New(),
		TenantID:          tenantID,
		SKU:               req.SKU,
		Name:              req.Name,
		Description:       req.Description,
		RetailPrice:       req.RetailPrice,
		CostPrice:         req.CostPrice,
		Stock:             req.Stock,
		LowStockThreshold: req.LowStockThreshold,
		Active:            true,
	}
	if product.LowStockThreshold == 0 {
		product.LowStockThreshold = 5
	}
	if req.SupplierID != nil {
		supplierID, err := uuid.Parse(*req.SupplierID)
		if err != nil {
			return nil, apierror.Validationf("invalid supplier id %q", *req.SupplierID)
		}
		supplier, err := s.suppliers.FindByID(ctx, supplierID)
		if err != nil {
			return nil, apierror.NotFoundf("supplier %s not found", supplierID)
		}
		if supplier.TenantID != tenantID {
			return nil, apierror.AccessDenied()
		}
		product.SupplierID = &supplier.ID
	}

	for _, v := range req.Variants {
		product.Variants = append(product.Variants, model.Variant{
			ID:          uuid.New(),
			TenantID:    tenantID,
			ProductID:   product.ID,
			SKU:         v.SKU,
			Name:        v.Name,
			Stock:       v.Stock,
			RetailPrice: v.RetailPrice,
			CostPrice:   v.CostPrice,
		})
	}
	// The parent row carries the variant sum from the very first write.
	if len(product.Variants) > 0 {
		product.Stock = product.TotalStock()
	}

	err := runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		if err := s.products.CreateTx(tx, product); err != nil {
			return fmt.Errorf("creating product: %w", err)
		}
		for _, name := range req.Categories {
			category, err := s.categories.FindOrCreateTx(tx, tenantID, name)
			if err != nil {
				return fmt.Errorf("resolving category %q: %w", name, err)
			}
			if err := s.categories.LinkProductTx(tx, product.ID, category.ID); err != nil {
				return fmt.Errorf("linking category %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return productToResponse(product), nil
}

func (s *productService) Get(ctx context.Context, tenantID, productID uuid.UUID) (*dto.ProductResponse, error) {
	product, err := s.findOwned(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	return productToResponse(product), nil
}

func (s *productService) List(ctx context.Context, tenantID uuid.UUID, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	products, total, err := s.products.List(ctx, tenantID, filter)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	resp := &dto.ProductListResponse{
		Data:  make([]dto.ProductResponse, 0, len(products)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range products {
		resp.Data = append(resp.Data, *productToResponse(&products[i]))
	}
	return resp, nil
}

// Update edits descriptive fields and prices. Every price change appends an
// immutable history entry attributed to the acting user. Stock is not
// touchable here; all stock movement goes through the ledger.
func (s *productService) Update(ctx context.Context, tenantID, actorID, productID uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := s.findOwned(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}

	err = runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		if err := s.recordPriceChange(tx, product, nil, model.PriceTypeRetail, product.RetailPrice, req.RetailPrice, actorID); err != nil {
			return err
		}
		if err := s.recordPriceChange(tx, product, nil, model.PriceTypeCost, product.CostPrice, req.CostPrice, actorID); err != nil {
			return err
		}

		product.Name = req.Name
		product.Description = req.Description
		product.RetailPrice = req.RetailPrice
		product.CostPrice = req.CostPrice
		product.LowStockThreshold = req.LowStockThreshold

		for _, vr := range req.Variants {
			variantID, err := uuid.Parse(vr.ID)
			if err != nil {
				return apierror.Validationf("invalid variant id %q", vr.ID)
			}
			var variant *model.Variant
			for i := range product.Variants {
				if product.Variants[i].ID == variantID {
					variant = &product.Variants[i]
					break
				}
			}
			if variant == nil {
				return apierror.NotFoundf("variant %s not found on product %s", variantID, product.ID)
			}

			if err := s.recordPriceChange(tx, product, &variant.ID, model.PriceTypeRetail, variant.RetailPrice, vr.RetailPrice, actorID); err != nil {
				return err
			}
			if err := s.recordPriceChange(tx, product, &variant.ID, model.PriceTypeCost, variant.CostPrice, vr.CostPrice, actorID); err != nil {
				return err
			}
			if vr.Name != nil {
				variant.Name = *vr.Name
			}
			variant.RetailPrice = vr.RetailPrice
			variant.CostPrice = vr.CostPrice
			if err := s.products.SaveVariantTx(tx, variant); err != nil {
				return fmt.Errorf("saving variant: %w", err)
			}
		}
		return s.saveTx(ctx, tx, product)
	})
	if err != nil {
		return nil, err
	}
	return productToResponse(product), nil
}

func (s *productService) saveTx(ctx context.Context, tx *gorm.DB, product *model.Product) error {
	if tx == nil {
		return s.products.Save(ctx, product)
	}
	// Omit associations: variants are saved individually above and stock is
	// ledger-owned.
	return tx.Omit("Variants", "Categories", "Supplier").Save(product).Error
}

func (s *productService) recordPriceChange(tx *gorm.DB, product *model.Product, variantID *uuid.UUID, priceType string, oldValue, newValue decimal.Decimal, actorID uuid.UUID) error {
	if oldValue.Equal(newValue) {
		return nil
	}
	entry := &model.PriceHistoryEntry{
		ID:        uuid.New(),
		TenantID:  product.TenantID,
		ProductID: product.ID,
		VariantID: variantID,
		PriceType: priceType,
		OldValue:  oldValue,
		NewValue:  newValue,
		ActorID:   actorID,
	}
	if err := s.history.CreateTx(tx, entry); err != nil {
		return fmt.Errorf("recording price change: %w", err)
	}
	return nil
}

func (s *productService) Deactivate(ctx context.Context, tenantID, productID uuid.UUID) error {
	if _, err := s.findOwned(ctx, tenantID, productID); err != nil {
		return err
	}
	return s.products.Deactivate(ctx, productID)
}

func (s *productService) PriceHistory(ctx context.Context, tenantID, productID uuid.UUID) ([]dto.PriceHistoryResponse, error) {
	if _, err := s.findOwned(ctx, tenantID, productID); err != nil {
		return nil, err
	}
	entries, err := s.history.ListByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("listing price history: %w", err)
	}
	out := make([]dto.PriceHistoryResponse, 0, len(entries))
	for _, e := range entries {
		r := dto.PriceHistoryResponse{
			PriceType: e.PriceType,
			OldValue:  e.OldValue,
			NewValue:  e.NewValue,
			ActorID:   e.ActorID.String(),
			CreatedAt: e.CreatedAt.Format(timeFormat),
		}
		if e.VariantID != nil {
			v := e.VariantID.String()
			r.VariantID = &v
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *productService) LookupPrice(ctx context.Context, tenantID uuid.UUID, sku string) (*dto.PriceLookupResponse, error) {
	product, err := s.products.FindBySKU(ctx, tenantID, sku)
	if err != nil {
		return nil, apierror.NotFoundf("no active product with sku %q", sku)
	}
	return &dto.PriceLookupResponse{
		Name:        product.Name,
		SKU:         product.SKU,
		RetailPrice: product.RetailPrice,
		Stock:       product.TotalStock(),
	}, nil
}

func (s *productService) findOwned(ctx context.Context, tenantID, productID uuid.UUID) (*model.Product, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, apierror.NotFoundf("product %s not found", productID)
	}
	if product.TenantID != tenantID {
		return nil, apierror.AccessDenied()
	}
	return product, nil
}

func productToResponse(product *model.Product) *dto.ProductResponse {
	resp := &dto.ProductResponse{
		ID:                product.ID.String(),
		SKU:               product.SKU,
		Name:              product.Name,
		Description:       product.Description,
		RetailPrice:       product.RetailPrice,
		CostPrice:         product.CostPrice,
		Stock:             product.Stock,
		LowStockThreshold: product.LowStockThreshold,
		Active:            product.Active,
		Variants:          make([]dto.VariantResponse, 0, len(product.Variants)),
	}
	if product.SupplierID != nil {
		sup := product.SupplierID.String()
		resp.SupplierID = &sup
	}
	for _, v := range product.Variants {
		resp.Variants = append(resp.Variants, dto.VariantResponse{
			ID:          v.ID.String(),
			SKU:         v.SKU,
			Name:        v.Name,
			Stock:       v.Stock,
			RetailPrice: v.RetailPrice,
			CostPrice:   v.CostPrice,
		})
	}
	return resp
}
