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

// ReportHandler holds the report service.
type ReportHandler struct {
	reportService services.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(rs services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: rs}
}

// GetSalesReport aggregates sales over the requested date range
// (?range=today|week|month|quarter|year|all, default all). Sellers see their
// own numbers; admins can narrow to one seller with ?seller_id=.
func (h *ReportHandler) GetSalesReport(c *gin.Context) {
	dateRange := c.Query("range")

	var sellerID *string
	if role, _ := c.Get(middleware.ContextUserRoleKey); role == models.RoleSeller {
		uid, ok := currentUserID(c)
		if !ok {
			return
		}
		sellerID = &uid
	} else if filter := c.Query("seller_id"); filter != "" {
		sellerID = &filter
	}

	report, err := h.reportService.GetSalesReport(dateRange, sellerID)
	if err != nil {
		utils.LogError(err, "GetSalesReport: Error from reportService.GetSalesReport")
		if errors.Is(err, services.ErrUnknownDateRange) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Unknown date range.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to build sales report.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetDashboardStats returns the admin landing-page counters.
func (h *ReportHandler) GetDashboardStats(c *gin.Context) {
	stats, err := h.reportService.GetDashboardStats()
	if err != nil {
		utils.LogError(err, "GetDashboardStats: Error from reportService.GetDashboardStats")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to build dashboard stats.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, stats)
}
