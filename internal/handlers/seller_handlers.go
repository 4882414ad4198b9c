package handlers

import (
	"errors"
	"net/http"

	"ebike_admin_backend/internal/models"
	"ebike_admin_backend/internal/services"
	"ebike_admin_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// SellerHandler holds the seller moderation service.
type SellerHandler struct {
	sellerService services.SellerService
}

// NewSellerHandler creates a new SellerHandler.
func NewSellerHandler(ss services.SellerService) *SellerHandler {
	return &SellerHandler{sellerService: ss}
}

// GetSellers lists seller accounts. ?status=pending narrows to applications
// awaiting review.
func (h *SellerHandler) GetSellers(c *gin.Context) {
	var (
		sellers interface{}
		err     error
	)
	if c.Query("status") == "pending" {
		sellers, err = h.sellerService.GetPendingSellers()
	} else {
		sellers, err = h.sellerService.GetSellers()
	}
	if err != nil {
		utils.LogError(err, "GetSellers: Error from sellerService")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve sellers.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, sellers)
}

// GetSellerByID retrieves one seller account.
func (h *SellerHandler) GetSellerByID(c *gin.Context) {
	uid := c.Param("id")
	seller, err := h.sellerService.GetSellerByID(uid)
	if err != nil {
		utils.LogError(err, "GetSellerByID: Error from sellerService.GetSellerByID for uid "+uid)
		h.respondSellerError(c, err, "Failed to retrieve seller.")
		return
	}
	c.JSON(http.StatusOK, seller)
}

// ApproveSeller activates a seller account.
func (h *SellerHandler) ApproveSeller(c *gin.Context) {
	h.moderate(c, h.sellerService.ApproveSeller, "ApproveSeller", "Failed to approve seller.")
}

// RejectSeller marks a seller application rejected.
func (h *SellerHandler) RejectSeller(c *gin.Context) {
	h.moderate(c, h.sellerService.RejectSeller, "RejectSeller", "Failed to reject seller.")
}

// SuspendSeller suspends an active seller.
func (h *SellerHandler) SuspendSeller(c *gin.Context) {
	h.moderate(c, h.sellerService.SuspendSeller, "SuspendSeller", "Failed to suspend seller.")
}

// ReactivateSeller restores a suspended seller to active.
func (h *SellerHandler) ReactivateSeller(c *gin.Context) {
	h.moderate(c, h.sellerService.ReactivateSeller, "ReactivateSeller", "Failed to reactivate seller.")
}

// DeleteSeller removes a seller account.
func (h *SellerHandler) DeleteSeller(c *gin.Context) {
	uid := c.Param("id")
	if err := h.sellerService.DeleteSeller(uid); err != nil {
		utils.LogError(err, "DeleteSeller: Error from sellerService.DeleteSeller for uid "+uid)
		h.respondSellerError(c, err, "Failed to delete seller.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Seller deleted successfully"})
}

func (h *SellerHandler) moderate(c *gin.Context, action func(string) (*models.User, error), opName, fallback string) {
	uid := c.Param("id")
	seller, err := action(uid)
	if err != nil {
		utils.LogError(err, opName+": Error from sellerService for uid "+uid)
		h.respondSellerError(c, err, fallback)
		return
	}
	c.JSON(http.StatusOK, seller)
}

func (h *SellerHandler) respondSellerError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Seller not found.", err.Error()))
	case errors.Is(err, services.ErrNotASeller):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Account is not a seller.", err.Error()))
	default:
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, fallback, "Internal error"))
	}
}
