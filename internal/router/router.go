package router

import (
	"net/http"

	"shop-service/internal/handlers"
	"shop-service/internal/middleware"
	"shop-service/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

type Deps struct {
	Cart        service.CartService
	Catalog     service.CatalogService
	Auth        service.AuthService
	Profile     service.ProfileService
	Tokens      service.TokenProvider
	CORSOrigins []string
}

func Router(d Deps, log *zap.Logger) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(corsConfig(d.CORSOrigins)))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	cartHandler := handlers.NewCartHandler(d.Cart, log)
	catalogHandler := handlers.NewCatalogHandler(d.Catalog, log)
	accountHandler := handlers.NewAccountHandler(d.Auth, d.Profile, log)
	adminHandler := handlers.NewAdminHandler(d.Catalog, log)

	api := r.Group("/api/v1")

	auth := api.Group("/auth")
	{
		auth.POST("/register", accountHandler.Register)
		auth.POST("/verify-otp", accountHandler.VerifyOTP)
		auth.POST("/resend-otp", accountHandler.ResendOTP)
		auth.POST("/login", accountHandler.Login)
		auth.POST("/refresh", accountHandler.Refresh)
		auth.POST("/logout", accountHandler.Logout)
	}

	api.GET("/products", catalogHandler.ListProducts)
	api.GET("/products/featured", catalogHandler.FeaturedProducts)
	api.GET("/products/:slug", catalogHandler.GetProduct)
	api.GET("/products/:slug/stocks", catalogHandler.ProductStocks)
	api.GET("/categories", catalogHandler.ListCategories)
	api.GET("/categories/:slug/branches", catalogHandler.CategoryBranches)
	api.GET("/brands", catalogHandler.ListBrands)

	authed := api.Group("")
	authed.Use(middleware.AuthRequired(d.Tokens, log))
	{
		authed.GET("/me", accountHandler.Me)
		authed.PUT("/me/phone", accountHandler.UpdatePhone)
		authed.GET("/addresses", accountHandler.ListAddresses)
		authed.POST("/addresses", accountHandler.CreateAddress)
		authed.PUT("/addresses/:id/default", accountHandler.SetDefaultAddress)
		authed.DELETE("/addresses/:id", accountHandler.DeleteAddress)

		authed.POST("/cart/items", cartHandler.AddItem)
		authed.GET("/cart/items", cartHandler.ListItems)
		authed.DELETE("/cart/items/:id", cartHandler.RemoveItem)

		authed.GET("/checkout", cartHandler.CheckoutPreview)
		authed.POST("/checkout", cartHandler.Checkout)

		authed.GET("/orders", cartHandler.ListOrders)
		authed.GET("/orders/latest", cartHandler.LatestOrder)
		authed.PUT("/orders/:id/receipt", cartHandler.ConfirmReceipt)
		authed.PUT("/orders/:id/status", middleware.RequireAdmin(), cartHandler.UpdateStatus)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.AuthRequired(d.Tokens, log), middleware.RequireAdmin())
	{
		admin.POST("/categories", adminHandler.CreateCategory)
		admin.POST("/brands", adminHandler.CreateBrand)
		admin.POST("/products", adminHandler.CreateProduct)
		admin.DELETE("/products/:id", adminHandler.DeleteProduct)
		admin.POST("/products/:id/restore", adminHandler.RestoreProduct)
		admin.POST("/products/:id/colors", adminHandler.AddColor)
		admin.POST("/products/:id/features", adminHandler.AttachFeature)
		admin.PUT("/products/:id/stocks", adminHandler.SetStock)
		admin.PUT("/products/:id/discount", adminHandler.SetDiscount)
		admin.POST("/features/values", adminHandler.AddFeatureValue)
		admin.POST("/discount-codes", adminHandler.CreateDiscountCode)
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Authorization", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
