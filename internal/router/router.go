package router

import (
	"time"

	"stockpos/internal/config"
	"stockpos/internal/handler"
	"stockpos/internal/infra"
	"stockpos/internal/middleware"
	"stockpos/internal/repository"
	"stockpos/internal/service"
	"stockpos/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	reporter := infra.NewShiftReporter(cfg.PDFStoragePath)
	dispatcher := worker.NewDispatcher(rdb)

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	adjustmentRepo := repository.NewStockAdjustmentRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	shiftRepo := repository.NewShiftRepository(db)
	orderRepo := repository.NewPurchaseOrderRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	historyRepo := repository.NewPriceHistoryRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	deletionRepo := repository.NewDeletionRecordRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	notifier := service.NewNotifier(notificationRepo, dispatcher)

	authSvc := service.NewAuthService(userRepo, cfg)
	productSvc := service.NewProductService(productRepo, categoryRepo, historyRepo, supplierRepo)
	inventorySvc := service.NewInventoryService(productRepo, adjustmentRepo, notifier)
	saleSvc := service.NewSaleService(saleRepo, productRepo, adjustmentRepo, shiftRepo, deletionRepo, inventorySvc)
	orderSvc := service.NewPurchaseOrderService(orderRepo, productRepo, supplierRepo, inventorySvc, notifier)
	shiftSvc := service.NewShiftService(shiftRepo, notifier, reporter)
	supplierSvc := service.NewSupplierService(supplierRepo)
	deletionSvc := service.NewDeletionService(productRepo, adjustmentRepo, notificationRepo, categoryRepo, deletionRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	productsH := handler.NewProductsHandler(productSvc)
	stockH := handler.NewStockHandler(inventorySvc, productSvc, rdb, time.Duration(cfg.PriceCacheTTL)*time.Second)
	salesH := handler.NewSalesHandler(saleSvc)
	ordersH := handler.NewPurchaseOrdersHandler(orderSvc)
	shiftsH := handler.NewShiftsHandler(shiftSvc)
	suppliersH := handler.NewSuppliersHandler(supplierSvc)
	deletionH := handler.NewDeletionHandler(deletionSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: cashier, manager, admin, declared per-endpoint
		v1.POST("/sales", middleware.RequireRole("cashier", "manager", "admin"), salesH.Process)
		v1.GET("/sales", middleware.RequireRole("cashier", "manager", "admin"), salesH.List)
		v1.GET("/sales/:id", middleware.RequireRole("cashier", "manager", "admin"), salesH.Get)
		v1.DELETE("/sales/:id", middleware.RequireRole("manager", "admin"), salesH.Delete)

		// Catalog reads: every authenticated role (POS terminals sync these)
		v1.GET("/products", middleware.RequireRole("cashier", "manager", "admin"), productsH.List)
		v1.GET("/products/:id", middleware.RequireRole("cashier", "manager", "admin"), productsH.Get)
		v1.GET("/products/:id/price-history", middleware.RequireRole("cashier", "manager", "admin"), productsH.PriceHistory)
		v1.GET("/price/:sku", middleware.RequireRole("cashier", "manager", "admin"), stockH.LookupPrice)

		// Stock writes: manager or admin
		v1.POST("/products/:id/stock", middleware.RequireRole("manager", "admin"), stockH.Adjust)
		v1.POST("/products/:id/receive", middleware.RequireRole("manager", "admin"), stockH.Receive)
		v1.GET("/stock-adjustments", middleware.RequireRole("manager", "admin"), stockH.Ledger)

		// Catalog writes: admin only
		prods := v1.Group("/products", middleware.RequireRole("admin"))
		{
			prods.POST("", productsH.Create)
			prods.PUT("/:id", productsH.Update)
			prods.PATCH("/:id/deactivate", productsH.Deactivate)
		}

		// Hard deletes and restores: manager or admin
		del := v1.Group("", middleware.RequireRole("manager", "admin"))
		{
			del.DELETE("/products/:id", deletionH.DeleteProduct)
			del.DELETE("/products/:id/variants/:variantId", deletionH.DeleteVariant)
			del.POST("/products/bulk-delete", deletionH.BulkDelete)
			del.POST("/products/restore", deletionH.Restore)
			del.GET("/deletions", deletionH.Tombstones)
		}

		orders := v1.Group("/purchase-orders", middleware.RequireRole("manager", "admin"))
		{
			orders.POST("", ordersH.Create)
			orders.GET("", ordersH.List)
			orders.GET("/:id", ordersH.Get)
			orders.POST("/:id/receive", ordersH.Receive)
			orders.DELETE("/:id", ordersH.Delete)
		}

		shifts := v1.Group("/shifts")
		{
			shifts.POST("/open", middleware.RequireRole("cashier", "manager", "admin"), shiftsH.Open)
			shifts.POST("/close", middleware.RequireRole("cashier", "manager", "admin"), shiftsH.Close)
			shifts.GET("/current", middleware.RequireRole("cashier", "manager", "admin"), shiftsH.Current)
			shifts.GET("/:id", middleware.RequireRole("cashier", "manager", "admin"), shiftsH.Get)
			shifts.GET("/:id/report", middleware.RequireRole("cashier", "manager", "admin"), shiftsH.Report)
			shifts.GET("", middleware.RequireRole("manager", "admin"), shiftsH.History)
		}

		suppliers := v1.Group("/suppliers", middleware.RequireRole("admin"))
		{
			suppliers.POST("", suppliersH.Create)
			suppliers.GET("", suppliersH.List)
			suppliers.DELETE("/:id", suppliersH.Deactivate)
		}

		users := v1.Group("/users", middleware.RequireRole("admin"))
		{
			users.POST("", authH.CreateUser)
			users.GET("", authH.ListUsers)
			users.DELETE("/:id", authH.DeactivateUser)
		}
	}

	// Swagger UI, only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
