// internal/router/router.go
package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fairprice/fairprice-backend/internal/config"
	"github.com/fairprice/fairprice-backend/internal/handlers"
	"github.com/fairprice/fairprice-backend/internal/middleware"
	"github.com/fairprice/fairprice-backend/internal/models"
	"github.com/fairprice/fairprice-backend/internal/repository"
	"github.com/fairprice/fairprice-backend/internal/services"
	"github.com/fairprice/fairprice-backend/internal/utils"
)

func Initialize(store repository.Store, cfg *config.Config) (*gin.Engine, error) {
	location, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid analytics timezone: %w", err)
	}

	// Initialize services
	authService := services.NewAuthService(store, cfg)
	userService := services.NewUserService(store)
	marketService := services.NewMarketService(store)
	priceService := services.NewPriceService(store, services.PriceServiceOptions{
		Location:      location,
		AllowReReview: cfg.Analytics.AllowReReview,
	})
	analyticsService := services.NewAnalyticsService(store)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	marketHandler := handlers.NewMarketHandler(marketService)
	priceHandler := handlers.NewPriceHandler(priceService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService, location)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.I18nMiddleware(cfg.I18n.DefaultLocale))
	r.Use(middleware.PerSecond(cfg.RateLimit.GeneralPerSecond, cfg.RateLimit.GeneralBurst))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	authRequired := middleware.AuthRequired()
	adminOnly := middleware.RequireRole(models.RoleAdmin)
	vendorOnly := middleware.RequireRole(models.RoleVendor)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.AuditLogMiddleware(store))
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.PerMinute(cfg.RateLimit.AuthPerMinute, cfg.RateLimit.AuthBurst))
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// User routes
		users := v1.Group("/users")
		users.Use(authRequired)
		{
			users.GET("/me", userHandler.Me)
			users.GET("", adminOnly, userHandler.ListUsers)
			users.PATCH("/:id/activate", adminOnly, userHandler.Activate)
			users.PATCH("/:id/deactivate", adminOnly, userHandler.Deactivate)
		}

		// Reference data
		v1.GET("/cities", marketHandler.ListCities)
		v1.POST("/cities", authRequired, adminOnly, marketHandler.CreateCity)
		v1.GET("/markets", marketHandler.ListMarkets)
		v1.GET("/markets/:id", marketHandler.GetMarket)
		v1.POST("/markets", authRequired, adminOnly, marketHandler.CreateMarket)
		v1.GET("/categories", marketHandler.ListCategories)
		v1.POST("/categories", authRequired, adminOnly, marketHandler.CreateCategory)
		v1.GET("/products", marketHandler.ListProducts)
		v1.GET("/products/:id", marketHandler.GetProduct)
		v1.POST("/products", authRequired, adminOnly, marketHandler.CreateProduct)

		// Vendor price submissions
		prices := v1.Group("/prices")
		prices.Use(authRequired, vendorOnly)
		{
			prices.POST("", priceHandler.Submit)
			prices.GET("/my-submissions", priceHandler.MySubmissions)
			prices.PATCH("/:id", priceHandler.Update)
		}

		// Admin moderation
		admin := v1.Group("/admin")
		admin.Use(authRequired, adminOnly)
		{
			admin.GET("/prices", priceHandler.AdminList)
			admin.POST("/prices/:id/review", priceHandler.Review)
		}

		// Analytics
		analytics := v1.Group("/analytics")
		{
			analytics.GET("/product/:product_id/market/:market_id", analyticsHandler.ProductMarket)
			analytics.GET("/product/:product_id/market/:market_id/daily", analyticsHandler.Daily)
			analytics.GET("/product/:product_id/market/:market_id/moving-average", analyticsHandler.MovingAverage)
			analytics.GET("/product/:product_id/market/:market_id/trend", analyticsHandler.Trend)
			analytics.GET("/product/:product_id/all-markets", analyticsHandler.AllMarkets)
			analytics.GET("/fluctuating-products", authRequired, analyticsHandler.Fluctuating)
		}
	}

	return r, nil
}
