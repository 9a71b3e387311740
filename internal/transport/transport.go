package transport

import (
	"net/http"
	"time"

	"travelapp/internal/transport/middleware"

	"github.com/gin-gonic/gin"
)

func InitRoutes(
	listingHandler *ListingHandler,
	bookingHandler *BookingHandler,
	reviewHandler *ReviewHandler,
	userHandler *UserHandler,
) *gin.Engine {
	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.Timeout(30))

	// API routes
	api := router.Group("/api")
	{
		// Listing routes
		listings := api.Group("/listings")
		{
			listings.POST("", listingHandler.CreateListing)
			listings.GET("", listingHandler.GetAllListings)
			listings.GET("/available", listingHandler.GetAvailableListings)
			listings.GET("/:id", listingHandler.GetListing)
			listings.PUT("/:id", listingHandler.UpdateListing)
			listings.DELETE("/:id", listingHandler.DeleteListing)
			listings.GET("/:id/reviews", listingHandler.GetListingReviews)
		}

		// Booking routes
		bookings := api.Group("/bookings")
		{
			bookings.POST("", bookingHandler.CreateBooking)
			bookings.GET("", bookingHandler.GetAllBookings)
			bookings.GET("/:id", bookingHandler.GetBooking)
			bookings.PUT("/:id", bookingHandler.UpdateBooking)
			bookings.DELETE("/:id", bookingHandler.DeleteBooking)
			bookings.POST("/:id/confirm", bookingHandler.ConfirmBooking)
			bookings.POST("/:id/cancel", bookingHandler.CancelBooking)
			bookings.POST("/:id/initiate_payment", bookingHandler.InitiatePayment)
			bookings.GET("/:id/verify_payment", bookingHandler.VerifyPayment)
			bookings.GET("/:id/payment", bookingHandler.GetBookingPayment)
		}

		// Review routes
		reviews := api.Group("/reviews")
		{
			reviews.POST("", reviewHandler.CreateReview)
			reviews.GET("", reviewHandler.GetAllReviews)
			reviews.GET("/:id", reviewHandler.GetReview)
			reviews.PUT("/:id", reviewHandler.UpdateReview)
			reviews.DELETE("/:id", reviewHandler.DeleteReview)
		}

		// User routes
		users := api.Group("/users")
		{
			users.POST("/register", userHandler.RegisterUser)
			users.GET("", userHandler.GetAllUsers)
			users.GET("/:id", userHandler.GetUser)
		}
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	return router
}
