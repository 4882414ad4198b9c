package router

import (
	"ebike_admin_backend/internal/handlers"
	"ebike_admin_backend/internal/middleware"
	"ebike_admin_backend/internal/models"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes sets up the authentication routes. Registration, admin
// setup, login and token refresh are public; profile routes require a token.
func SetupAuthRoutes(apiGroup *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	authRoutes := apiGroup.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.RegisterSeller)
		authRoutes.POST("/setup-admin", authHandler.SetupAdmin)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/refresh-token", authHandler.RefreshToken)

		authRequiredRoutes := authRoutes.Group("")
		authRequiredRoutes.Use(middleware.AuthMiddleware())
		{
			authRequiredRoutes.POST("/logout", authHandler.Logout)
			authRequiredRoutes.GET("/me", authHandler.GetCurrentUser)
			authRequiredRoutes.PATCH("/me", authHandler.UpdateProfile)
		}
	}
}

// SetupBikeRoutes sets up the catalog routes. Reading the catalog is open to
// both roles; writes are admin only.
func SetupBikeRoutes(authenticatedGroup *gin.RouterGroup, bikeHandler *handlers.BikeHandler) {
	bikeRoutes := authenticatedGroup.Group("/bikes")
	{
		bikeRoutes.GET("", bikeHandler.GetBikes)
		bikeRoutes.GET("/:id", bikeHandler.GetBikeByID)

		adminRoutes := bikeRoutes.Group("")
		adminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
		{
			adminRoutes.POST("", bikeHandler.CreateBike)
			adminRoutes.PUT("/:id", bikeHandler.UpdateBike)
			adminRoutes.PATCH("/:id/stock", bikeHandler.UpdateBikeStock)
			adminRoutes.DELETE("/:id", bikeHandler.DeleteBike)
		}
	}
}

// SetupRequestRoutes sets up the inventory request routes. Sellers open and
// list their own requests; the review queue and decisions are admin only.
// Processing a stuck approval is open to both roles, with the handler pinning
// sellers to their own requests.
func SetupRequestRoutes(authenticatedGroup *gin.RouterGroup, requestHandler *handlers.RequestHandler) {
	requestRoutes := authenticatedGroup.Group("/inventory-requests")
	{
		sellerRoutes := requestRoutes.Group("")
		sellerRoutes.Use(middleware.RoleAuthMiddleware(models.RoleSeller))
		{
			sellerRoutes.POST("", requestHandler.CreateRequest)
			sellerRoutes.GET("/mine", requestHandler.GetMyRequests)
		}

		requestRoutes.POST("/:id/process", requestHandler.ProcessRequest)

		adminRoutes := requestRoutes.Group("")
		adminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
		{
			adminRoutes.GET("", requestHandler.GetRequests)
			adminRoutes.GET("/:id", requestHandler.GetRequestByID)
			adminRoutes.POST("/:id/approve", requestHandler.ApproveRequest)
			adminRoutes.POST("/:id/reject", requestHandler.RejectRequest)
			adminRoutes.POST("/:id/fulfill", requestHandler.FulfillRequest)
			adminRoutes.DELETE("/:id", requestHandler.DeleteRequest)
		}
	}
}

// SetupShopInventoryRoutes sets up the shop inventory routes.
func SetupShopInventoryRoutes(authenticatedGroup *gin.RouterGroup, inventoryHandler *handlers.ShopInventoryHandler) {
	inventoryRoutes := authenticatedGroup.Group("/shop-inventory")
	{
		sellerRoutes := inventoryRoutes.Group("")
		sellerRoutes.Use(middleware.RoleAuthMiddleware(models.RoleSeller))
		{
			sellerRoutes.GET("/mine", inventoryHandler.GetMyInventory)
			sellerRoutes.GET("/low-stock", inventoryHandler.GetLowStock)
			sellerRoutes.GET("/stats", inventoryHandler.GetInventoryStats)
		}

		adminRoutes := inventoryRoutes.Group("")
		adminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
		{
			adminRoutes.GET("/seller/:sellerId", inventoryHandler.GetSellerInventory)
		}

		inventoryRoutes.GET("/:id", inventoryHandler.GetInventoryItem)
	}
}

// SetupSaleRoutes sets up the sales routes. Recording is seller only; the
// list endpoint serves both roles, with sellers pinned to their own sales.
func SetupSaleRoutes(authenticatedGroup *gin.RouterGroup, saleHandler *handlers.SaleHandler) {
	saleRoutes := authenticatedGroup.Group("/sales")
	{
		sellerRoutes := saleRoutes.Group("")
		sellerRoutes.Use(middleware.RoleAuthMiddleware(models.RoleSeller))
		{
			sellerRoutes.POST("", saleHandler.RecordSale)
		}

		saleRoutes.GET("", saleHandler.GetSales)
		saleRoutes.GET("/:id", saleHandler.GetSaleByID)

		adminRoutes := saleRoutes.Group("")
		adminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
		{
			adminRoutes.PATCH("/:id", saleHandler.UpdateSale)
			adminRoutes.DELETE("/:id", saleHandler.DeleteSale)
		}
	}
}

// SetupReportRoutes sets up the reporting routes.
func SetupReportRoutes(authenticatedGroup *gin.RouterGroup, reportHandler *handlers.ReportHandler) {
	reportRoutes := authenticatedGroup.Group("/reports")
	{
		reportRoutes.GET("/sales", reportHandler.GetSalesReport)

		adminRoutes := reportRoutes.Group("")
		adminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
		{
			adminRoutes.GET("/dashboard", reportHandler.GetDashboardStats)
		}
	}
}

// SetupSellerRoutes sets up the seller moderation routes (admin only).
func SetupSellerRoutes(authenticatedGroup *gin.RouterGroup, sellerHandler *handlers.SellerHandler) {
	sellerRoutes := authenticatedGroup.Group("/sellers")
	sellerRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
	{
		sellerRoutes.GET("", sellerHandler.GetSellers)
		sellerRoutes.GET("/:id", sellerHandler.GetSellerByID)
		sellerRoutes.POST("/:id/approve", sellerHandler.ApproveSeller)
		sellerRoutes.POST("/:id/reject", sellerHandler.RejectSeller)
		sellerRoutes.POST("/:id/suspend", sellerHandler.SuspendSeller)
		sellerRoutes.POST("/:id/reactivate", sellerHandler.ReactivateSeller)
		sellerRoutes.DELETE("/:id", sellerHandler.DeleteSeller)
	}
}
