package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	bookingRepo "transylvania/database/repository/booking"
	"transylvania/services/assistant"
	"transylvania/services/reservation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type reserveRequest struct {
	RoomID  int    `json:"room_id" binding:"required"`
	Checkin string `json:"checkin" binding:"required"`
	Days    int    `json:"days" binding:"required"`
}

// ReserveHandler runs the two-step reservation for the authenticated caller.
func ReserveHandler(engine reservation.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		var req reserveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
			return
		}
		profileID := c.GetString("profileID")

		booking, room, err := engine.Reserve(c.Request.Context(), req.RoomID, profileID, req.Checkin, req.Days)
		if err != nil {
			var vErr *reservation.ValidationError
			var lErr *reservation.LedgerError
			switch {
			case errors.As(err, &vErr):
				c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error()})
			case errors.Is(err, reservation.ErrRoomUnavailable):
				c.JSON(http.StatusConflict, gin.H{"error": "Room is no longer available"})
			case errors.As(err, &lErr):
				logger.Error("Ledger failure during reservation",
					zap.Int("roomID", req.RoomID), zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Booking could not be recorded"})
			default:
				logger.Error("Reservation failed", zap.Int("roomID", req.RoomID), zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Reservation failed"})
			}
			return
		}
		c.JSON(http.StatusCreated, gin.H{"booking": booking, "room": room})
	}
}

// CancelBookingHandler releases a room held by the caller.
func CancelBookingHandler(engine reservation.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		roomID, err := strconv.Atoi(c.Param("roomID"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room id"})
			return
		}
		profileID := c.GetString("profileID")

		if err := engine.Cancel(c.Request.Context(), roomID, profileID); err != nil {
			if errors.Is(err, reservation.ErrNotHolder) {
				c.JSON(http.StatusForbidden, gin.H{"error": "Only the holder can cancel this booking"})
				return
			}
			logger.Error("Cancel failed", zap.Int("roomID", roomID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Cancel failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Booking cancelled"})
	}
}

// MyBookingsHandler lists the caller's ledger entries, newest first.
func MyBookingsHandler(ledger bookingRepo.BookingRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		profileID := c.GetString("profileID")
		bookings, err := ledger.ListByProfile(c.Request.Context(), profileID)
		if err != nil {
			logger.Error("Failed to list bookings", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list bookings"})
			return
		}
		c.JSON(http.StatusOK, bookings)
	}
}

// AvailabilityHandler answers date-ranged availability for the dashboard.
// ?date=YYYY-MM-DD defaults to today; ?room=N narrows to one room.
func AvailabilityHandler(oracle assistant.Oracle) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		date := c.Query("date")
		if date == "" {
			date = time.Now().Format("2006-01-02")
		}
		if _, err := time.Parse("2006-01-02", date); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
			return
		}

		if roomParam := c.Query("room"); roomParam != "" {
			roomID, err := strconv.Atoi(roomParam)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room id"})
				return
			}
			available, err := oracle.IsAvailable(c.Request.Context(), roomID, date)
			if err != nil {
				logger.Error("Availability check failed", zap.Int("roomID", roomID), zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Availability check failed"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"room_id": roomID, "date": date, "available": available})
			return
		}

		free, err := oracle.AvailableRoomIDs(c.Request.Context(), date)
		if err != nil {
			logger.Error("Availability listing failed", zap.String("date", date), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Availability listing failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"date": date, "available_rooms": free})
	}
}
