package router

import (
	"embed"
	"html/template"
	"time"

	"stockpilot/internal/config"
	"stockpilot/internal/handler"
	"stockpilot/internal/middleware"
	"stockpilot/internal/model"
	"stockpilot/internal/repository"
	"stockpilot/internal/service"
	"stockpilot/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

//go:embed templates/*.html
var templateFS embed.FS

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.html")))

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	saleRepo := repository.NewSaleRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	inventorySvc := service.NewInventoryService(productRepo)
	salesSvc := service.NewSalesService(saleRepo, productRepo, userRepo, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc, rdb)
	pagesH := handler.NewPagesHandler(inventorySvc, salesSvc, cfg)
	productsH := handler.NewProductsHandler(inventorySvc, cfg)
	salesH := handler.NewSalesHandler(salesSvc)
	adminH := handler.NewAdminHandler(salesSvc, authSvc, cfg)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))
	r.GET("/", pagesH.Index)
	r.GET("/login", authH.LoginPage)
	r.POST("/login", middleware.LoginRateLimiter(), authH.Login)

	// HTML pages — failed auth redirects to /login
	pageAuth := middleware.SessionAuth(cfg.JWTSecret, rdb, false)
	pages := r.Group("/", pageAuth)
	{
		pages.GET("/logout", authH.Logout)
		pages.GET("/dashboard", pagesH.Dashboard)
		pages.GET("/admin", middleware.RequireAdminPage(), pagesH.Admin)
	}

	// JSON API — failed auth returns 401
	apiAuth := middleware.SessionAuth(cfg.JWTSecret, rdb, true)
	api := r.Group("/api", apiAuth)
	{
		api.GET("/products", productsH.List)
		api.GET("/products/search", productsH.Search)
		api.GET("/products/low-stock", productsH.LowStock)
		api.GET("/products/:id", productsH.GetByID)
		api.POST("/purchase", salesH.Purchase)
		api.GET("/sales", salesH.MySales)

		// Admin-only writes and reports
		admin := api.Group("/admin", middleware.RequireRole(model.RoleAdmin))
		{
			admin.POST("/products", productsH.Create)
			admin.PUT("/products/:id", productsH.Update)
			admin.DELETE("/products/:id", productsH.Delete)
			admin.GET("/report", adminH.Report)
			admin.GET("/report/pdf", adminH.ReportPDF)
			admin.POST("/users", adminH.CreateUser)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
