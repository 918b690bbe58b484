package routes

import (
	"net/http"
	"time"

	"transylvania/handlers"
	"transylvania/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterUserRoutes registers account endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/users")
	{
		api.POST("/signup", hb.SignUpHandler)
		api.POST("/signin", hb.SignInHandler)

		// Protected routes (Require Authentication)
		api.Use(middleware.JWTAuthMiddleware(hb.ProfileRepo))
		api.POST("/signout", hb.SignOutHandler)
		api.GET("/me", hb.GetProfileHandler)
		api.PUT("/me", hb.UpdateProfileHandler)
		api.DELETE("/me", hb.DeleteProfileHandler)
	}
}

// RegisterRoomRoutes registers catalogue endpoints. Listing and the live feed
// are public; rating requires authentication.
func RegisterRoomRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/rooms")
	{
		api.GET("", hb.ListRoomsHandler)
		api.GET("/:id", hb.GetRoomHandler)
		api.GET("/feed", hb.RoomFeedHandler)

		api.Use(middleware.JWTAuthMiddleware(hb.ProfileRepo))
		api.POST("/:id/ratings", hb.RateRoomHandler)
	}
}

// RegisterBookingRoutes sets up the reservation endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		api.GET("/availability", hb.AvailabilityHandler)

		api.Use(middleware.JWTAuthMiddleware(hb.ProfileRepo))
		api.POST("", hb.ReserveHandler)
		api.DELETE("/room/:roomID", hb.CancelBookingHandler)
		api.GET("/mine", hb.MyBookingsHandler)
	}
}

// RegisterChatRoutes registers the assistant endpoints.
func RegisterChatRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/chat")
	{
		api.Use(middleware.JWTAuthMiddleware(hb.ProfileRepo))
		api.POST("/message", hb.ChatMessageHandler)
		api.POST("/booking/start", hb.GuidedBookingStartHandler)
		api.POST("/booking/confirm", hb.ChatConfirmHandler)
		api.POST("/booking/cancel", hb.ChatCancelHandler)
		api.GET("/history", hb.ChatHistoryHandler)
	}
}

// RegisterAdminRoutes sets up endpoints for the admin portal.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/admin")
	{
		api.Use(middleware.JWTAuthMiddleware(hb.ProfileRepo))
		api.Use(middleware.AdminMiddleware(hb.ProfileRepo))
		api.GET("/analytics", hb.AnalyticsHandler)
		api.GET("/bookings", hb.AdminBookingsHandler)
		api.GET("/bookings/history", hb.AdminHistoryHandler)
		api.GET("/users", hb.AdminUsersHandler)
		api.PUT("/users/:id/admin", hb.SetAdminHandler)
		api.GET("/chatlogs", hb.AdminChatLogsHandler)
		api.PUT("/rooms", hb.SaveRoomHandler)
		api.DELETE("/rooms/:id", hb.DeleteRoomHandler)
		api.POST("/rooms/:id/image", hb.UploadRoomImageHandler)
		api.POST("/rooms/seed", hb.SeedRoomsHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Drac"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterUserRoutes(r, hb)
	RegisterRoomRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterChatRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterHealthRoute(r)
}
