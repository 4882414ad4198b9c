package handlers

import (
	"errors"
	"net/http"

	"ebike_admin_backend/internal/services"
	"ebike_admin_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// BikeHandler holds the catalog service.
type BikeHandler struct {
	bikeService services.BikeService
}

// NewBikeHandler creates a new BikeHandler.
func NewBikeHandler(bs services.BikeService) *BikeHandler {
	return &BikeHandler{bikeService: bs}
}

// CreateBike adds a bike to the catalog.
func (h *BikeHandler) CreateBike(c *gin.Context) {
	var req services.CreateBikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	bike, err := h.bikeService.CreateBike(req)
	if err != nil {
		utils.LogError(err, "CreateBike: Error from bikeService.CreateBike")
		if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create bike.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, bike)
}

// GetBikes lists the catalog.
func (h *BikeHandler) GetBikes(c *gin.Context) {
	bikes, err := h.bikeService.GetBikes()
	if err != nil {
		utils.LogError(err, "GetBikes: Error from bikeService.GetBikes")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve bikes.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, bikes)
}

// GetBikeByID retrieves a single catalog entry.
func (h *BikeHandler) GetBikeByID(c *gin.Context) {
	id := c.Param("id")
	bike, err := h.bikeService.GetBikeByID(id)
	if err != nil {
		utils.LogError(err, "GetBikeByID: Error from bikeService.GetBikeByID for id "+id)
		if errors.Is(err, services.ErrBikeNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Bike not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve bike.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, bike)
}

// UpdateBike updates a catalog entry.
func (h *BikeHandler) UpdateBike(c *gin.Context) {
	id := c.Param("id")
	var req services.UpdateBikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	bike, err := h.bikeService.UpdateBike(id, req)
	if err != nil {
		utils.LogError(err, "UpdateBike: Error from bikeService.UpdateBike for id "+id)
		if errors.Is(err, services.ErrBikeNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Bike not found.", err.Error()))
		} else if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update bike.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, bike)
}

// UpdateBikeStock sets the catalog-level stock counter.
func (h *BikeHandler) UpdateBikeStock(c *gin.Context) {
	id := c.Param("id")
	var req services.UpdateBikeStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	bike, err := h.bikeService.UpdateBikeStock(id, req)
	if err != nil {
		utils.LogError(err, "UpdateBikeStock: Error from bikeService.UpdateBikeStock for id "+id)
		if errors.Is(err, services.ErrBikeNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Bike not found.", err.Error()))
		} else if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update bike stock.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, bike)
}

// DeleteBike removes a catalog entry.
func (h *BikeHandler) DeleteBike(c *gin.Context) {
	id := c.Param("id")
	if err := h.bikeService.DeleteBike(id); err != nil {
		utils.LogError(err, "DeleteBike: Error from bikeService.DeleteBike for id "+id)
		if errors.Is(err, services.ErrBikeNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Bike not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete bike.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Bike deleted successfully"})
}
