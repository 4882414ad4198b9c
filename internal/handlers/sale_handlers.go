package handlers

import (
	"errors"
	"net/http"

	"ebike_admin_backend/internal/middleware"
	"ebike_admin_backend/internal/models"
	"ebike_admin_backend/internal/services"
	"ebike_admin_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// SaleHandler holds the sale service.
type SaleHandler struct {
	saleService services.SaleService
}

// NewSaleHandler creates a new SaleHandler.
func NewSaleHandler(ss services.SaleService) *SaleHandler {
	return &SaleHandler{saleService: ss}
}

// RecordSale records a sale for the authenticated seller and decrements the
// shop inventory item.
func (h *SaleHandler) RecordSale(c *gin.Context) {
	sellerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.RecordSalePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	sale, err := h.saleService.RecordSale(sellerID, req)
	if err != nil {
		utils.LogError(err, "RecordSale: Error from saleService.RecordSale")
		if errors.Is(err, services.ErrInventoryItemNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Inventory item not found.", err.Error()))
		} else if errors.Is(err, services.ErrNotItemOwner) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "Inventory item belongs to a different seller.", err.Error()))
		} else if errors.Is(err, services.ErrInsufficientStock) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Not enough stock for this sale.", err.Error()))
		} else if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to record sale.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, sale)
}

// GetSales lists sales with filters and pagination. Admins see everything;
// sellers are pinned to their own slice regardless of the seller_id filter.
func (h *SaleHandler) GetSales(c *gin.Context) {
	var filters models.SaleFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid query parameters: "+err.Error(), err.Error()))
		return
	}

	if role, _ := c.Get(middleware.ContextUserRoleKey); role == models.RoleSeller {
		sellerID, ok := currentUserID(c)
		if !ok {
			return
		}
		filters.SellerID = &sellerID
	}

	sales, total, err := h.saleService.GetSales(filters)
	if err != nil {
		utils.LogError(err, "GetSales: Error from saleService.GetSales")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve sales.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"sales": sales,
		"total": total,
	})
}

// GetSaleByID retrieves a single sale.
func (h *SaleHandler) GetSaleByID(c *gin.Context) {
	id := c.Param("id")
	sale, err := h.saleService.GetSaleByID(id)
	if err != nil {
		utils.LogError(err, "GetSaleByID: Error from saleService.GetSaleByID for id "+id)
		if errors.Is(err, services.ErrSaleNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Sale not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve sale.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, sale)
}

// UpdateSale updates a sale's status and/or notes.
func (h *SaleHandler) UpdateSale(c *gin.Context) {
	id := c.Param("id")
	var req services.UpdateSalePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	sale, err := h.saleService.UpdateSale(id, req)
	if err != nil {
		utils.LogError(err, "UpdateSale: Error from saleService.UpdateSale for id "+id)
		if errors.Is(err, services.ErrSaleNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Sale not found.", err.Error()))
		} else if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update sale.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, sale)
}

// DeleteSale removes a sale record without touching inventory counters.
func (h *SaleHandler) DeleteSale(c *gin.Context) {
	id := c.Param("id")
	if err := h.saleService.DeleteSale(id); err != nil {
		utils.LogError(err, "DeleteSale: Error from saleService.DeleteSale for id "+id)
		if errors.Is(err, services.ErrSaleNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Sale not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete sale.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Sale deleted successfully"})
}
