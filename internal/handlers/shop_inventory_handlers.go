package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"ebike_admin_backend/internal/services"
	"ebike_admin_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ShopInventoryHandler holds the shop inventory service.
type ShopInventoryHandler struct {
	inventoryService services.ShopInventoryService
}

// NewShopInventoryHandler creates a new ShopInventoryHandler.
func NewShopInventoryHandler(is services.ShopInventoryService) *ShopInventoryHandler {
	return &ShopInventoryHandler{inventoryService: is}
}

// GetMyInventory lists the authenticated seller's shop inventory.
func (h *ShopInventoryHandler) GetMyInventory(c *gin.Context) {
	sellerID, ok := currentUserID(c)
	if !ok {
		return
	}

	items, err := h.inventoryService.GetSellerInventory(sellerID)
	if err != nil {
		utils.LogError(err, "GetMyInventory: Error from inventoryService.GetSellerInventory")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve shop inventory.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetSellerInventory lists a specific seller's shop inventory (admin view).
func (h *ShopInventoryHandler) GetSellerInventory(c *gin.Context) {
	sellerID := c.Param("sellerId")
	items, err := h.inventoryService.GetSellerInventory(sellerID)
	if err != nil {
		utils.LogError(err, "GetSellerInventory: Error from inventoryService.GetSellerInventory for seller "+sellerID)
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve shop inventory.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetInventoryItem retrieves one shop inventory item by its composite key.
func (h *ShopInventoryHandler) GetInventoryItem(c *gin.Context) {
	id := c.Param("id")
	item, err := h.inventoryService.GetInventoryItem(id)
	if err != nil {
		utils.LogError(err, "GetInventoryItem: Error from inventoryService.GetInventoryItem for id "+id)
		if errors.Is(err, services.ErrInventoryItemNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Inventory item not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve inventory item.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, item)
}

// GetLowStock lists the authenticated seller's items at or below the
// threshold. Accepts an optional ?threshold= override.
func (h *ShopInventoryHandler) GetLowStock(c *gin.Context) {
	sellerID, ok := currentUserID(c)
	if !ok {
		return
	}

	threshold := services.DefaultLowStockThreshold
	if raw := c.Query("threshold"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid threshold parameter.", "threshold must be a non-negative integer"))
			return
		}
		threshold = parsed
	}

	items, err := h.inventoryService.GetLowStockItems(sellerID, threshold)
	if err != nil {
		utils.LogError(err, "GetLowStock: Error from inventoryService.GetLowStockItems")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve low stock items.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetInventoryStats summarizes the authenticated seller's inventory.
func (h *ShopInventoryHandler) GetInventoryStats(c *gin.Context) {
	sellerID, ok := currentUserID(c)
	if !ok {
		return
	}

	stats, err := h.inventoryService.GetInventoryStats(sellerID)
	if err != nil {
		utils.LogError(err, "GetInventoryStats: Error from inventoryService.GetInventoryStats")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve inventory stats.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, stats)
}
