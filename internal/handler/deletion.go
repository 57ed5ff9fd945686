package handler

import (
	"net/http"

	"stockpos/internal/dto"
	"stockpos/internal/middleware"
	"stockpos/internal/service"

	"github.com/gin-gonic/gin"
)

// DeletionHandler exposes the destructive endpoints. All of them are gated to
// manager/admin at the router.
type DeletionHandler struct{ svc service.DeletionService }

func NewDeletionHandler(svc service.DeletionService) *DeletionHandler {
	return &DeletionHandler{svc: svc}
}

// DeleteProduct godoc
// @Summary Delete a product with full cascade
// @Tags deletion
// @Produce json
// @Param id path string true "Product id"
// @Param force query bool false "Bypass variant and stock preconditions"
// @Success 204
// @Failure 409 {object} apierror.APIError
// @Security BearerAuth
// @Router /v1/products/{id} [delete]
func (h *DeletionHandler) DeleteProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	force := c.Query("force") == "true"
	if err := h.svc.DeleteProduct(c.Request.Context(), middleware.TenantID(c), id, force); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *DeletionHandler) DeleteVariant(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}
	variantID, ok := pathID(c, "variantId")
	if !ok {
		return
	}
	force := c.Query("force") == "true"
	if err := h.svc.DeleteVariant(c.Request.Context(), middleware.TenantID(c), productID, variantID, force); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *DeletionHandler) BulkDelete(c *gin.Context) {
	var req dto.BulkDeleteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.BulkDeleteProducts(c.Request.Context(), middleware.TenantID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DeletionHandler) Restore(c *gin.Context) {
	var req dto.RestoreProductsRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RestoreProducts(c.Request.Context(), middleware.TenantID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Tombstones lists deletion records for sync consumers.
func (h *DeletionHandler) Tombstones(c *gin.Context) {
	records, err := h.svc.ListTombstones(c.Request.Context(), middleware.TenantID(c), c.Query("table"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}
