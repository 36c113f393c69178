package router

import (
	"github.com/evermart/catalog-backend/config"
	"github.com/evermart/catalog-backend/internal/app/controller"
	"github.com/evermart/catalog-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type Router struct {
	catalogController  *controller.CatalogController
	settingsController *controller.SettingsController
	config             *config.Config
}

func NewRouter(
	catalogController *controller.CatalogController,
	settingsController *controller.SettingsController,
	cfg *config.Config,
) *Router {
	return &Router{
		catalogController:  catalogController,
		settingsController: settingsController,
		config:             cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "EVERMART catalog API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		products := v1.Group("/products")
		{
			products.GET("", r.catalogController.ListProducts)
			products.GET("/price-range", r.catalogController.GetPriceRange)
			products.GET("/:slug", r.catalogController.GetProductDetail)
		}

		settings := v1.Group("/settings")
		{
			settings.GET("/discounts", r.settingsController.GetDiscounts)
			settings.PUT("/discounts", r.settingsController.UpdateDiscounts)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
