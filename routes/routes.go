package routes

import (
	"serviceconnect-backend/config"
	"serviceconnect-backend/controllers"
	"serviceconnect-backend/models"
	"serviceconnect-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RouterOptions configures the middleware stack.
type RouterOptions struct {
	Logger            *zap.Logger
	AllowedOrigins    []string
	MaxRequestsPerMin int
}

// SetupRouter builds the engine. controllers.Setup must have been called.
func SetupRouter(opts RouterOptions) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = utils.GetLogger()
	}
	origins := make(map[string]bool, len(opts.AllowedOrigins))
	for _, o := range opts.AllowedOrigins {
		origins[o] = true
	}

	r := gin.New()
	r.Use(utils.RequestLogger(opts.Logger))
	r.Use(utils.ErrorHandler())

	r.Use(cors.New(cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		AllowOriginFunc: func(origin string) bool {
			return origins[origin]
		},
	}))

	r.Use(config.PerformanceLogger())
	r.Use(utils.RateLimitMiddleware(opts.MaxRequestsPerMin))

	authenticated := []gin.HandlerFunc{utils.AuthMiddleware(), controllers.SessionRequired()}
	customer := append(authenticated[:len(authenticated):len(authenticated)], controllers.RequireRole(models.UserTypeCustomer))
	provider := append(authenticated[:len(authenticated):len(authenticated)], controllers.RequireRole(models.UserTypeProvider))
	admin := append(authenticated[:len(authenticated):len(authenticated)], controllers.RequireRole(models.UserTypeAdmin))

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		session := auth.Group("", authenticated...)
		session.POST("/logout", controllers.Logout)
		session.GET("/me", controllers.Me)
	}

	api := r.Group("/api")
	{
		// Catalog routes
		api.GET("/services", controllers.GetServices)
		api.GET("/services/:id", controllers.GetService)
		api.GET("/services/:id/providers", controllers.GetServiceProviders)
		api.GET("/providers/:id", controllers.GetProvider)
		api.POST("/contacts", controllers.SubmitContact)

		// Cart routes
		cart := api.Group("/cart", customer...)
		{
			cart.GET("", controllers.GetCart)
			cart.DELETE("", controllers.ClearCart)
			cart.POST("/items", controllers.AddCartItem)
			cart.PUT("/items/:id", controllers.UpdateCartItem)
			cart.DELETE("/items/:id", controllers.RemoveCartItem)
			cart.POST("/checkout", controllers.Checkout)
		}

		// Booking routes
		bookings := api.Group("/bookings", authenticated...)
		{
			bookings.GET("", controllers.GetBookings)
			bookings.GET("/:id", controllers.GetBooking)

			own := bookings.Group("", controllers.RequireRole(models.UserTypeCustomer))
			own.POST("", controllers.SubmitBooking)
			own.POST("/:id/cancel", controllers.CancelBooking)
			own.POST("/:id/rate", controllers.RateBooking)

			assigned := bookings.Group("", controllers.RequireRole(models.UserTypeProvider))
			assigned.POST("/:id/accept", controllers.AcceptBooking)
			assigned.POST("/:id/reject", controllers.RejectBooking)
			assigned.POST("/:id/complete", controllers.CompleteBooking)
		}

		// Provider routes
		prov := api.Group("/provider", provider...)
		{
			prov.GET("/dashboard", controllers.GetDashboardOverview)
			prov.GET("/availability", controllers.GetAvailability)
			prov.POST("/availability", controllers.AddAvailabilitySlot)
			prov.DELETE("/availability/:slotId", controllers.RemoveAvailabilitySlot)
		}

		// Admin routes
		reportController := controllers.ReportController{}
		adm := api.Group("", admin...)
		{
			adm.GET("/reports", reportController.GetBookingReport)
			adm.POST("/reminders/run", controllers.RunReminders)
			adm.GET("/reminders/logs", controllers.GetNotificationLogs)
		}
	}

	return r
}
