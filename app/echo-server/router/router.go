package router

import (
	"shopTrace/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupProductRoutes(api *echo.Group, handler *rest.ProductHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	products := api.Group("/products")

	products.GET("", handler.GetPublishedProducts)
	products.GET("/:id", handler.GetProductByID)

	admin := api.Group("/admin/products", authRequired, adminOnly)
	admin.GET("", handler.GetAdminProducts)
	admin.POST("", handler.CreateProduct)
	admin.PUT("/:id/status", handler.UpdateProductStatus)
	admin.DELETE("/:id", handler.DeleteProduct)
	admin.POST("/:id/images", handler.AddProductImage)
	admin.POST("/:id/videos", handler.AddProductVideo)
}

func SetupTrackingRoutes(api *echo.Group, handler *rest.TrackingHandler) {
	api.POST("/events", handler.TrackEvent)
	api.GET("/sessions/profile", handler.GetProfile)
}

func SetupRecommendRoutes(api *echo.Group, handler *rest.RecommendHandler) {
	api.GET("/products/:id/recommendations", handler.GetRecommendations)
}

func SetupAnalyticsRoutes(api *echo.Group, handler *rest.AnalyticsHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	api.GET("/analytics/dashboard", handler.GetDashboard, authRequired, adminOnly)
}

func SetupAuthRoutes(api *echo.Group, handler *rest.AuthHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	auth := api.Group("/auth")

	auth.POST("/login", handler.Login)
	auth.POST("/admins", handler.CreateAdmin, authRequired, adminOnly)
}
