package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"stockpos/internal/apierror"
	"stockpos/internal/dto"
	"stockpos/internal/middleware"
	"stockpos/internal/model"
	"stockpos/internal/repository"
	"stockpos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type StockHandler struct {
	inventory service.InventoryService
	products  service.ProductService
	rdb       *redis.Client
	cacheTTL  time.Duration
}

func NewStockHandler(inventory service.InventoryService, products service.ProductService, rdb *redis.Client, cacheTTL time.Duration) *StockHandler {
	return &StockHandler{inventory: inventory, products: products, rdb: rdb, cacheTTL: cacheTTL}
}

// Adjust godoc
// @Summary Set the absolute stock level of a product or variant
// @Tags stock
// @Accept json
// @Produce json
// @Param id path string true "Product id"
// @Param body body dto.AdjustStockRequest true "Adjustment"
// @Success 200 {object} dto.StockAdjustmentResponse
// @Failure 404 {object} apierror.APIError
// @Security BearerAuth
// @Router /v1/products/{id}/stock [post]
func (h *StockHandler) Adjust(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.AdjustStockRequest
	if !bindAndValidate(c, &req) {
		return
	}

	params := service.AdjustStockParams{
		TenantID:  middleware.TenantID(c),
		ProductID: productID,
		NewLevel:  req.NewLevel,
		Reason:    req.Reason,
	}
	if req.VariantID != nil {
		variantID, err := uuid.Parse(*req.VariantID)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("invalid variant_id"))
			return
		}
		params.VariantID = &variantID
	}

	entry, err := h.inventory.AdjustStock(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}
	if entry == nil {
		// Level unchanged, nothing written.
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, adjustmentResponse(entry))
}

func (h *StockHandler) Receive(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ReceiveStockRequest
	if !bindAndValidate(c, &req) {
		return
	}

	params := service.ReceiveStockParams{
		TenantID:  middleware.TenantID(c),
		ProductID: productID,
		Quantity:  req.Quantity,
	}
	if req.VariantID != nil {
		variantID, err := uuid.Parse(*req.VariantID)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("invalid variant_id"))
			return
		}
		params.VariantID = &variantID
	}

	entry, err := h.inventory.ReceiveStock(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, adjustmentResponse(entry))
}

// Ledger lists stock adjustments, optionally filtered by product or source.
func (h *StockHandler) Ledger(c *gin.Context) {
	filter := repository.StockAdjustmentFilter{
		SourceType: c.Query("source_type"),
	}
	if raw := c.Query("product_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("invalid product_id"))
			return
		}
		filter.ProductID = &id
	}

	resp, err := h.inventory.ListAdjustments(c.Request.Context(), middleware.TenantID(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// LookupPrice serves the cached SKU price check.
func (h *StockHandler) LookupPrice(c *gin.Context) {
	sku := c.Param("sku")
	tenantID := middleware.TenantID(c)
	ctx := c.Request.Context()
	cacheKey := "price:" + tenantID.String() + ":" + sku

	if cached, err := h.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
		var resp dto.PriceLookupResponse
		if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
			c.JSON(http.StatusOK, resp)
			return
		}
	}

	resp, err := h.products.LookupPrice(ctx, tenantID, sku)
	if err != nil {
		respondError(c, err)
		return
	}

	// Populate cache, best effort, ignore errors
	if b, jsonErr := json.Marshal(resp); jsonErr == nil {
		_ = h.rdb.Set(context.Background(), cacheKey, b, h.cacheTTL).Err()
	}
	c.JSON(http.StatusOK, resp)
}

func adjustmentResponse(a *model.StockAdjustment) dto.StockAdjustmentResponse {
	r := dto.StockAdjustmentResponse{
		ID:          a.ID.String(),
		ProductID:   a.ProductID.String(),
		Delta:       a.Delta,
		StockBefore: a.StockBefore,
		StockAfter:  a.StockAfter,
		Reason:      a.Reason,
		SourceType:  a.SourceType,
		CreatedAt:   a.CreatedAt.Format(time.RFC3339),
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
