package routes

import (
	"github.com/cetler74/modern-e-commerce-platform/controllers"
	"github.com/cetler74/modern-e-commerce-platform/middleware"
	"github.com/cetler74/modern-e-commerce-platform/models"

	"github.com/gin-gonic/gin"
)

// Controllers bundles the handlers registered on the engine.
type Controllers struct {
	Auth         *controllers.AuthController
	Products     *controllers.ProductController
	Cart         *controllers.CartController
	Checkout     *controllers.CheckoutController
	Orders       *controllers.OrderController
	Subscription *controllers.SubscriptionController
	Blog         *controllers.BlogController
	Users        *controllers.UserController
	Analytics    *controllers.AnalyticsController
}

func RegisterRoutes(r *gin.Engine, resolver middleware.IdentityResolver, c Controllers) {
	requireAuth := middleware.RequireAuth(resolver)
	can := middleware.RequirePermission

	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/register", c.Auth.Register)
		authRoutes.POST("/login", c.Auth.Login)
	}

	productRoutes := r.Group("/products")
	{
		productRoutes.GET("", c.Products.ListProducts)
		productRoutes.GET("/:id", c.Products.GetProduct)
		productRoutes.POST("", requireAuth, can(models.PermProductsCreate), c.Products.CreateProduct)
		productRoutes.POST("/uploads", requireAuth, can(models.PermProductsCreate), c.Products.PresignUpload)
		productRoutes.PATCH("/:id", requireAuth, can(models.PermProductsUpdate), c.Products.UpdateProduct)
		productRoutes.DELETE("/:id", requireAuth, can(models.PermProductsDelete), c.Products.DeleteProduct)
	}

	cartRoutes := r.Group("/cart", requireAuth)
	{
		cartRoutes.GET("", c.Cart.GetCart)
		cartRoutes.DELETE("", c.Cart.Clear)
		cartRoutes.POST("/items", c.Cart.AddItem)
		cartRoutes.PATCH("/items/:id", c.Cart.UpdateItem)
		cartRoutes.DELETE("/items/:id", c.Cart.RemoveItem)
	}

	r.POST("/checkout", requireAuth, c.Checkout.Checkout)

	orderRoutes := r.Group("/orders", requireAuth)
	{
		orderRoutes.POST("", c.Orders.CreateOrder)
		orderRoutes.GET("", c.Orders.ListOrders) // own orders unless orders.read_all
		orderRoutes.GET("/:id", c.Orders.GetOrder)
		orderRoutes.PATCH("/:id", can(models.PermOrdersUpdate), c.Orders.UpdateOrder)
	}

	r.GET("/subscription-plans", c.Subscription.ListPlans)
	subscriptionRoutes := r.Group("/subscriptions", requireAuth)
	{
		subscriptionRoutes.POST("", c.Subscription.CreateSubscription)
		subscriptionRoutes.GET("", c.Subscription.ListSubscriptions)
		subscriptionRoutes.PUT("/:id", c.Subscription.ManageSubscription)
	}

	blogRoutes := r.Group("/blog")
	{
		blogRoutes.GET("", c.Blog.ListPosts)
		blogRoutes.GET("/:id", c.Blog.GetPost)
		blogRoutes.POST("", requireAuth, can(models.PermBlogCreate), c.Blog.CreatePost)
		blogRoutes.PATCH("/:id", requireAuth, can(models.PermBlogUpdate), c.Blog.UpdatePost)
		blogRoutes.DELETE("/:id", requireAuth, can(models.PermBlogDelete), c.Blog.DeletePost)
	}

	userRoutes := r.Group("/users", requireAuth)
	{
		userRoutes.GET("", can(models.PermUsersRead), c.Users.ListUsers)
		userRoutes.GET("/profile", c.Users.GetProfile)
		userRoutes.PUT("/profile", c.Users.UpdateProfile)
		userRoutes.GET("/addresses", c.Users.ListAddresses)
		userRoutes.POST("/addresses", c.Users.AddAddress)
		userRoutes.PATCH("/addresses/:id", c.Users.UpdateAddress)
		userRoutes.DELETE("/addresses/:id", c.Users.DeleteAddress)
	}

	analyticsRoutes := r.Group("/analytics")
	{
		analyticsRoutes.POST("/events", middleware.OptionalAuth(resolver), c.Analytics.TrackEvent)
		analyticsRoutes.GET("/dashboard", requireAuth, can(models.PermAnalyticsRead), c.Analytics.Dashboard)
		analyticsRoutes.GET("/sales", requireAuth, can(models.PermAnalyticsRead), c.Analytics.Sales)
		analyticsRoutes.GET("/products", requireAuth, can(models.PermAnalyticsRead), c.Analytics.TopProducts)
	}
}
