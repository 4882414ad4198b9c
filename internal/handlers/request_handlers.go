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

// RequestHandler holds the inventory request service.
type RequestHandler struct {
	requestService services.RequestService
}

// NewRequestHandler creates a new RequestHandler.
func NewRequestHandler(rs services.RequestService) *RequestHandler {
	return &RequestHandler{requestService: rs}
}

// CreateRequest opens an inventory request for the authenticated seller.
func (h *RequestHandler) CreateRequest(c *gin.Context) {
	sellerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateRequestPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	request, err := h.requestService.CreateRequest(sellerID, req)
	if err != nil {
		utils.LogError(err, "CreateRequest: Error from requestService.CreateRequest")
		if errors.Is(err, services.ErrBikeNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Requested bike not found.", err.Error()))
		} else if errors.Is(err, services.ErrUserNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Seller account not found.", err.Error()))
		} else if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create inventory request.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, request)
}

// GetRequests lists all inventory requests (admin view).
func (h *RequestHandler) GetRequests(c *gin.Context) {
	var (
		requests interface{}
		err      error
	)
	if c.Query("status") == "pending" {
		requests, err = h.requestService.GetPendingRequests()
	} else {
		requests, err = h.requestService.GetRequests()
	}
	if err != nil {
		utils.LogError(err, "GetRequests: Error from requestService")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve inventory requests.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, requests)
}

// GetMyRequests lists the authenticated seller's own requests.
func (h *RequestHandler) GetMyRequests(c *gin.Context) {
	sellerID, ok := currentUserID(c)
	if !ok {
		return
	}

	requests, err := h.requestService.GetRequestsBySeller(sellerID)
	if err != nil {
		utils.LogError(err, "GetMyRequests: Error from requestService.GetRequestsBySeller")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve inventory requests.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, requests)
}

// GetRequestByID retrieves a single inventory request.
func (h *RequestHandler) GetRequestByID(c *gin.Context) {
	id := c.Param("id")
	request, err := h.requestService.GetRequestByID(id)
	if err != nil {
		utils.LogError(err, "GetRequestByID: Error from requestService.GetRequestByID for id "+id)
		if errors.Is(err, services.ErrRequestNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Inventory request not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve inventory request.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, request)
}

// ApproveRequest approves a request, crediting the seller's shop inventory
// and marking the request fulfilled in one step.
func (h *RequestHandler) ApproveRequest(c *gin.Context) {
	adminID, ok := currentUserID(c)
	if !ok {
		return
	}
	id := c.Param("id")

	var req services.ApproveRequestPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	request, err := h.requestService.ApproveRequest(id, adminID, req)
	if err != nil {
		utils.LogError(err, "ApproveRequest: Error from requestService.ApproveRequest for id "+id)
		h.respondRequestError(c, err, "Failed to approve inventory request.")
		return
	}
	c.JSON(http.StatusOK, request)
}

// RejectRequest rejects a request with no inventory side effect.
func (h *RequestHandler) RejectRequest(c *gin.Context) {
	adminID, ok := currentUserID(c)
	if !ok {
		return
	}
	id := c.Param("id")

	var req services.RejectRequestPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	request, err := h.requestService.RejectRequest(id, adminID, req)
	if err != nil {
		utils.LogError(err, "RejectRequest: Error from requestService.RejectRequest for id "+id)
		h.respondRequestError(c, err, "Failed to reject inventory request.")
		return
	}
	c.JSON(http.StatusOK, request)
}

// FulfillRequest marks a request fulfilled without touching inventory, for
// requests whose ledger credit already landed.
func (h *RequestHandler) FulfillRequest(c *gin.Context) {
	id := c.Param("id")
	request, err := h.requestService.FulfillRequest(id)
	if err != nil {
		utils.LogError(err, "FulfillRequest: Error from requestService.FulfillRequest for id "+id)
		h.respondRequestError(c, err, "Failed to fulfill inventory request.")
		return
	}
	c.JSON(http.StatusOK, request)
}

// ProcessRequest replays fulfillment for a request stuck in approved status.
// Admins can process any request; a seller can only claim their own.
func (h *RequestHandler) ProcessRequest(c *gin.Context) {
	callerID, ok := currentUserID(c)
	if !ok {
		return
	}
	id := c.Param("id")

	if role, _ := c.Get(middleware.ContextUserRoleKey); role == models.RoleSeller {
		owned, err := h.requestService.GetRequestByID(id)
		if err != nil {
			utils.LogError(err, "ProcessRequest: Error from requestService.GetRequestByID for id "+id)
			h.respondRequestError(c, err, "Failed to process inventory request.")
			return
		}
		if owned.SellerID != callerID {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "Inventory request belongs to a different seller.", "Seller does not own this request"))
			return
		}
	}

	request, err := h.requestService.ProcessApprovedRequest(id)
	if err != nil {
		utils.LogError(err, "ProcessRequest: Error from requestService.ProcessApprovedRequest for id "+id)
		if errors.Is(err, services.ErrRequestNotApproved) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Inventory request is not in approved status.", err.Error()))
		} else if errors.Is(err, services.ErrNoApprovedQuantity) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Inventory request has no approved quantity.", err.Error()))
		} else {
			h.respondRequestError(c, err, "Failed to process inventory request.")
		}
		return
	}
	c.JSON(http.StatusOK, request)
}

// DeleteRequest removes a request record.
func (h *RequestHandler) DeleteRequest(c *gin.Context) {
	id := c.Param("id")
	if err := h.requestService.DeleteRequest(id); err != nil {
		utils.LogError(err, "DeleteRequest: Error from requestService.DeleteRequest for id "+id)
		h.respondRequestError(c, err, "Failed to delete inventory request.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Inventory request deleted successfully"})
}

func (h *RequestHandler) respondRequestError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrRequestNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Inventory request not found.", err.Error()))
	case errors.Is(err, services.ErrBikeNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Requested bike not found.", err.Error()))
	case errors.Is(err, services.ErrRequestAlreadyProcessed):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Inventory request was already processed.", err.Error()))
	case errors.Is(err, services.ErrValidation):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), err.Error()))
	default:
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, fallback, "Internal error"))
	}
}
