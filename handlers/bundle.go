package handlers

import (
	profileRepoPkg "transylvania/database/repository/profile"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	ProfileRepo profileRepoPkg.ProfileRepository

	// User endpoints
	SignUpHandler        gin.HandlerFunc
	SignInHandler        gin.HandlerFunc
	SignOutHandler       gin.HandlerFunc
	GetProfileHandler    gin.HandlerFunc
	UpdateProfileHandler gin.HandlerFunc
	DeleteProfileHandler gin.HandlerFunc

	// Room endpoints
	ListRoomsHandler gin.HandlerFunc
	GetRoomHandler   gin.HandlerFunc
	RateRoomHandler  gin.HandlerFunc
	RoomFeedHandler  gin.HandlerFunc

	// Booking endpoints
	ReserveHandler       gin.HandlerFunc
	CancelBookingHandler gin.HandlerFunc
	MyBookingsHandler    gin.HandlerFunc
	AvailabilityHandler  gin.HandlerFunc

	// Assistant endpoints
	ChatMessageHandler        gin.HandlerFunc
	GuidedBookingStartHandler gin.HandlerFunc
	ChatConfirmHandler        gin.HandlerFunc
	ChatCancelHandler         gin.HandlerFunc
	ChatHistoryHandler        gin.HandlerFunc

	// Admin endpoints
	AnalyticsHandler       gin.HandlerFunc
	AdminBookingsHandler   gin.HandlerFunc
	AdminHistoryHandler    gin.HandlerFunc
	AdminUsersHandler      gin.HandlerFunc
	SetAdminHandler        gin.HandlerFunc
	AdminChatLogsHandler   gin.HandlerFunc
	SaveRoomHandler        gin.HandlerFunc
	DeleteRoomHandler      gin.HandlerFunc
	UploadRoomImageHandler gin.HandlerFunc
	SeedRoomsHandler       gin.HandlerFunc
}
