package router

import (
	"database/sql"

	"ebike_admin_backend/internal/handlers"
	"ebike_admin_backend/internal/middleware"
	"ebike_admin_backend/internal/repositories"
	"ebike_admin_backend/internal/services"
	"ebike_admin_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, db *sql.DB) {
	// Initialize Repositories
	userRepo := repositories.NewUserRepository(db)
	bikeRepo := repositories.NewBikeRepository(db)
	requestRepo := repositories.NewRequestRepository(db)
	inventoryRepo := repositories.NewShopInventoryRepository(db)
	saleRepo := repositories.NewSaleRepository(db)

	// ATOMIC_WRITES switches the request fulfillment and sale recording paths
	// from sequential writes to guarded transactions.
	atomicWrites := utils.GetenvBool("ATOMIC_WRITES", false)
	txBeginner := services.NewSQLTxBeginner(db)

	// Initialize Services
	authService := services.NewAuthService(userRepo, db)
	sellerService := services.NewSellerService(userRepo, db)
	bikeService := services.NewBikeService(bikeRepo, db)
	requestService := services.NewRequestService(requestRepo, bikeRepo, inventoryRepo, userRepo, db, txBeginner, atomicWrites)
	inventoryService := services.NewShopInventoryService(inventoryRepo)
	saleService := services.NewSaleService(saleRepo, inventoryRepo, userRepo, db, txBeginner, atomicWrites)
	reportService := services.NewReportService(saleRepo, bikeRepo, userRepo, requestRepo)

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(authService)
	sellerHandler := handlers.NewSellerHandler(sellerService)
	bikeHandler := handlers.NewBikeHandler(bikeService)
	requestHandler := handlers.NewRequestHandler(requestService)
	inventoryHandler := handlers.NewShopInventoryHandler(inventoryService)
	saleHandler := handlers.NewSaleHandler(saleService)
	reportHandler := handlers.NewReportHandler(reportService)

	apiV1 := engine.Group("/api/v1")

	SetupAuthRoutes(apiV1, authHandler)

	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware())
	{
		SetupBikeRoutes(authenticated, bikeHandler)
		SetupRequestRoutes(authenticated, requestHandler)
		SetupShopInventoryRoutes(authenticated, inventoryHandler)
		SetupSaleRoutes(authenticated, saleHandler)
		SetupReportRoutes(authenticated, reportHandler)
		SetupSellerRoutes(authenticated, sellerHandler)
	}
}
