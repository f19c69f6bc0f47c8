package app

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/thelocalstore/store-api/internal/metrics"
	"github.com/thelocalstore/store-api/internal/middleware"
	"github.com/thelocalstore/store-api/internal/rate"
)

// RegisterRoutes builds the gin engine with the full /api/v1 surface.
// limiter and registry may be nil (tests run without them).
func (a *App) RegisterRoutes(logger *slog.Logger, limiter *rate.Limiter, registry *prometheus.Registry) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Recovery(logger, a.sentry))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS(a.config.HTTP.CORSOrigins))

	if registry != nil {
		metrics.Register(registry)
		router.GET("/metrics", gin.WrapH(metrics.Handler(registry)))
	}

	authed := middleware.Authenticate(a.tokens, a.store)
	seller := middleware.RequireSeller()

	v1 := router.Group("/api/v1")
	{
		health := v1.Group("/health")
		{
			health.GET("/liveness", a.HandleLiveness)
			health.GET("/readiness", a.HandleReadiness)
		}

		authGroup := v1.Group("/auth")
		if limiter != nil {
			authGroup.Use(middleware.RateLimit(limiter, logger))
		}
		{
			authGroup.POST("/register", a.HandleRegister)
			authGroup.POST("/register/seller", a.HandlePromoteToSeller)
			authGroup.POST("/login", a.HandleLogin)
			authGroup.POST("/refresh", a.HandleRefresh)
			authGroup.DELETE("/logout", a.HandleLogout)
			authGroup.POST("/password/forgot", a.HandleForgotPassword)
			authGroup.PATCH("/password/reset/:token", a.HandleResetPassword)
		}

		user := v1.Group("/user", authed)
		{
			user.GET("/me", a.HandleMe)
			user.PATCH("/me", a.HandleUpdateMe)
			user.DELETE("/me", a.HandleDeleteMe)
			user.GET("/me/avatar", a.HandleGetAvatar)
			user.POST("/me/avatar", a.HandleUploadAvatar)
			user.DELETE("/me/avatar", a.HandleDeleteAvatar)
		}

		address := v1.Group("/address")
		{
			// Pincode lookup is public so the address form can resolve
			// before the user saves anything.
			address.GET("/postal/:code", a.HandlePostalLookup)

			address.Use(authed)
			address.POST("", a.HandleCreateAddress)
			address.GET("", a.HandleListAddresses)
			address.GET("/:id", a.HandleGetAddress)
			address.PATCH("/:id", a.HandleUpdateAddress)
			address.DELETE("/:id", a.HandleDeleteAddress)
		}

		cart := v1.Group("/cart", authed)
		{
			cart.GET("", a.HandleListCart)
			cart.POST("", a.HandleAddCartItem)
			cart.PATCH("/:id", a.HandleUpdateCartItem)
			cart.DELETE("/:id", a.HandleDeleteCartItem)
		}

		product := v1.Group("/product")
		{
			product.GET("", a.HandleListProducts)
			product.GET("/:id", a.HandleGetProduct)
			product.GET("/image/:id", a.HandleGetProductImage)

			sellerOnly := product.Group("", authed, seller)
			{
				sellerOnly.GET("/myProducts", a.HandleListOwnProducts)
				sellerOnly.POST("", a.HandleCreateProduct)
				sellerOnly.PATCH("/:id", a.HandleUpdateProduct)
				sellerOnly.DELETE("/:id", a.HandleDeleteProduct)

				sellerOnly.POST("/:id/image", a.HandleUploadProductImage)
				sellerOnly.DELETE("/image/:id", a.HandleDeleteProductImage)

				sellerOnly.POST("/:id/variation", a.HandleCreateVariation)
				sellerOnly.PATCH("/variation/:id", a.HandleUpdateVariation)
				sellerOnly.DELETE("/variation/:id", a.HandleDeleteVariation)
			}
		}

		order := v1.Group("/order", authed)
		{
			order.POST("", a.HandlePlaceOrders)
			order.GET("", a.HandleListMyOrders)
			order.GET("/:id", a.HandleGetMyOrder)

			sellerOrders := order.Group("/seller", seller)
			{
				sellerOrders.GET("", a.HandleListSellerOrders)
				sellerOrders.PATCH("/:id", a.HandleUpdateSellerOrder)
				sellerOrders.DELETE("/:id", a.HandleDeleteSellerOrder)
			}
		}
	}

	return router
}
