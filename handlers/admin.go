package handlers

import (
	"net/http"
	"strconv"

	"transylvania/models"
	"transylvania/services/admin"
	"transylvania/services/room"
	"transylvania/services/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AnalyticsHandler returns the portal dashboard snapshot.
func AnalyticsHandler(svc admin.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		snapshot, err := svc.Snapshot(c.Request.Context())
		if err != nil {
			logger.Error("Failed to build analytics snapshot", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build analytics"})
			return
		}
		c.JSON(http.StatusOK, snapshot)
	}
}

// AdminBookingsHandler lists all active ledger entries.
func AdminBookingsHandler(svc admin.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		bookings, err := svc.ActiveBookings(c.Request.Context())
		if err != nil {
			logger.Error("Failed to list active bookings", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list bookings"})
			return
		}
		c.JSON(http.StatusOK, bookings)
	}
}

// AdminHistoryHandler lists archived bookings.
func AdminHistoryHandler(svc admin.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		history, err := svc.BookingHistory(c.Request.Context())
		if err != nil {
			logger.Error("Failed to list booking history", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list history"})
			return
		}
		c.JSON(http.StatusOK, history)
	}
}

// AdminUsersHandler lists registered profiles.
func AdminUsersHandler(svc admin.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		users, err := svc.Users(c.Request.Context())
		if err != nil {
			logger.Error("Failed to list users", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list users"})
			return
		}
		c.JSON(http.StatusOK, users)
	}
}

type setAdminRequest struct {
	IsAdmin bool `json:"is_admin"`
}

// SetAdminHandler toggles the admin flag on a profile.
func SetAdminHandler(svc admin.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		var req setAdminRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
			return
		}
		profileID := c.Param("id")
		if err := svc.SetAdmin(c.Request.Context(), profileID, req.IsAdmin); err != nil {
			logger.Error("Failed to update admin flag", zap.String("profileID", profileID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update admin flag"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Updated"})
	}
}

// AdminChatLogsHandler lists recent assistant exchanges.
func AdminChatLogsHandler(svc admin.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
		entries, err := svc.RecentChatLogs(c.Request.Context(), limit)
		if err != nil {
			logger.Error("Failed to list chat logs", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list chat logs"})
			return
		}
		c.JSON(http.StatusOK, entries)
	}
}

// SaveRoomHandler creates or replaces a room in the catalogue.
func SaveRoomHandler(rooms room.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		var r models.Room
		if err := c.ShouldBindJSON(&r); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
			return
		}
		if r.ID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Room id must be positive"})
			return
		}
		if r.Status == "" {
			r.Status = models.RoomStatusAvailable
		}
		if err := rooms.Save(c.Request.Context(), &r); err != nil {
			logger.Error("Failed to save room", zap.Int("roomID", r.ID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save room"})
			return
		}
		c.JSON(http.StatusOK, r)
	}
}

// DeleteRoomHandler removes a room from the catalogue.
func DeleteRoomHandler(rooms room.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room id"})
			return
		}
		if err := rooms.Delete(c.Request.Context(), id); err != nil {
			logger.Error("Failed to delete room", zap.Int("roomID", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete room"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Room deleted"})
	}
}

// UploadRoomImageHandler stores a room image and saves its URL on the room.
func UploadRoomImageHandler(rooms room.Service, store storage.StorageService) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		if store == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Image storage not configured"})
			return
		}

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room id"})
			return
		}
		r, err := rooms.Get(c.Request.Context(), id)
		if err != nil || r == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
			return
		}

		fileHeader, err := c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing image file"})
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read image file"})
			return
		}
		defer file.Close()

		url, err := store.UploadRoomImage(c.Request.Context(), file, id)
		if err != nil {
			logger.Error("Failed to upload room image", zap.Int("roomID", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image"})
			return
		}

		r.Image = url
		if err := rooms.Save(c.Request.Context(), r); err != nil {
			logger.Error("Failed to save room image URL", zap.Int("roomID", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save image URL"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"image": url})
	}
}

// SeedRoomsHandler upserts the default room catalogue.
func SeedRoomsHandler(rooms room.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		var payload []models.Room
		if err := c.ShouldBindJSON(&payload); err != nil || len(payload) == 0 {
			payload = room.DefaultCatalogue()
		}
		if err := rooms.Seed(c.Request.Context(), payload); err != nil {
			logger.Error("Failed to seed rooms", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to seed rooms"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"seeded": len(payload)})
	}
}
