package router

import (
	"github.com/gin-gonic/gin"
	"github.com/hanzla-outlet/outlet-backend/config"
	"github.com/hanzla-outlet/outlet-backend/internal/app/controller"
	"github.com/hanzla-outlet/outlet-backend/internal/app/model"
	"github.com/hanzla-outlet/outlet-backend/internal/middleware"
)

type Router struct {
	authController      *controller.AuthController
	userController      *controller.UserController
	categoryController  *controller.CategoryController
	productController   *controller.ProductController
	addressController   *controller.AddressController
	orderController     *controller.OrderController
	wishlistController  *controller.WishlistController
	stylistController   *controller.StylistController
	uploadController    *controller.UploadController
	stockFeedController *controller.StockFeedController
	authMiddleware      *middleware.AuthMiddleware
	activeUsers         middleware.ActiveUserChecker
	config              *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	userController *controller.UserController,
	categoryController *controller.CategoryController,
	productController *controller.ProductController,
	addressController *controller.AddressController,
	orderController *controller.OrderController,
	wishlistController *controller.WishlistController,
	stylistController *controller.StylistController,
	uploadController *controller.UploadController,
	stockFeedController *controller.StockFeedController,
	authMiddleware *middleware.AuthMiddleware,
	activeUsers middleware.ActiveUserChecker,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:      authController,
		userController:      userController,
		categoryController:  categoryController,
		productController:   productController,
		addressController:   addressController,
		orderController:     orderController,
		wishlistController:  wishlistController,
		stylistController:   stylistController,
		uploadController:    uploadController,
		stockFeedController: stockFeedController,
		authMiddleware:      authMiddleware,
		activeUsers:         activeUsers,
		config:              cfg,
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
			"message": "Outlet API is running",
		})
	})

	authenticated := []gin.HandlerFunc{
		r.authMiddleware.Authenticate(),
		r.authMiddleware.RequireActiveUser(r.activeUsers),
	}

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/refresh", r.authController.RefreshToken)
			auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
			auth.GET("/me", append(authenticated, r.authController.GetMe)...)
		}

		users := v1.Group("/users")
		users.Use(authenticated...)
		{
			users.GET("/me", r.userController.GetProfile)
			users.PATCH("/me", r.userController.UpdateProfile)
		}

		categories := v1.Group("/categories")
		{
			categories.GET("", r.categoryController.GetCategories)
			categories.GET("/:slug", r.categoryController.GetCategoryBySlug)
		}

		products := v1.Group("/products")
		{
			products.GET("", r.productController.GetProducts)
			products.GET("/:slug", r.productController.GetProductBySlug)
		}

		addresses := v1.Group("/addresses")
		addresses.Use(authenticated...)
		{
			addresses.GET("", r.addressController.ListAddresses)
			addresses.POST("", r.addressController.CreateAddress)
			addresses.PATCH("/:id", r.addressController.UpdateAddress)
			addresses.DELETE("/:id", r.addressController.DeleteAddress)
			addresses.POST("/:id/default", r.addressController.SetDefaultAddress)
		}

		orders := v1.Group("/orders")
		orders.Use(authenticated...)
		{
			orders.POST("", r.orderController.CreateOrder)
			orders.GET("", r.orderController.GetOrders)
			orders.GET("/:id", r.orderController.GetOrderByID)
		}

		wishlist := v1.Group("/wishlist")
		wishlist.Use(authenticated...)
		{
			wishlist.GET("", r.wishlistController.GetWishlist)
			wishlist.POST("/:product_id", r.wishlistController.AddToWishlist)
			wishlist.DELETE("/:product_id", r.wishlistController.RemoveFromWishlist)
		}

		v1.POST("/stylist/recommend", r.stylistController.Recommend)

		v1.GET("/ws/stock", r.authMiddleware.OptionalAuthenticate(), r.stockFeedController.Subscribe)

		admin := v1.Group("/admin")
		admin.Use(authenticated...)
		admin.Use(r.authMiddleware.RequireRole(model.RoleAdmin))
		{
			admin.GET("/products", r.productController.AdminListProducts)
			admin.GET("/products/:id", r.productController.AdminGetProduct)
			admin.POST("/products", r.productController.CreateProduct)
			admin.PATCH("/products/:id", r.productController.UpdateProduct)
			admin.DELETE("/products/:id", r.productController.DeleteProduct)

			admin.POST("/categories", r.categoryController.CreateCategory)
			admin.PATCH("/categories/:id", r.categoryController.UpdateCategory)
			admin.DELETE("/categories/:id", r.categoryController.DeleteCategory)

			admin.POST("/uploads/presigned-url", r.uploadController.GeneratePresignedURL)
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
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}

		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
