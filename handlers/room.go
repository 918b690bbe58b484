package handlers

import (
	"net/http"
	"strconv"

	ratingRepo "transylvania/database/repository/rating"
	"transylvania/models"
	"transylvania/services/room"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ListRoomsHandler returns the full room catalogue (cache-first).
func ListRoomsHandler(rooms room.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		list, err := rooms.List(c.Request.Context())
		if err != nil {
			logger.Error("Failed to list rooms", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list rooms"})
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// GetRoomHandler returns one room with its rating summary.
func GetRoomHandler(rooms room.Service, ratings ratingRepo.RatingRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room id"})
			return
		}

		r, err := rooms.Get(c.Request.Context(), id)
		if err != nil {
			logger.Error("Failed to fetch room", zap.Int("roomID", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch room"})
			return
		}
		if r == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
			return
		}

		summary, err := ratings.Summary(c.Request.Context(), id)
		if err != nil {
			logger.Warn("Failed to aggregate ratings", zap.Int("roomID", id), zap.Error(err))
			summary = &models.RatingSummary{}
		}

		amenities := r.Amenities
		if len(amenities) == 0 {
			amenities = rooms.Amenities(id)
		}
		c.JSON(http.StatusOK, gin.H{
			"room":      r,
			"amenities": amenities,
			"rating":    summary,
		})
	}
}

type rateRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// RateRoomHandler records or replaces the caller's rating for a room.
func RateRoomHandler(rooms room.Service, ratings ratingRepo.RatingRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room id"})
			return
		}
		var req rateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
			return
		}

		r, err := rooms.Get(c.Request.Context(), id)
		if err != nil || r == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
			return
		}

		rating := &models.Rating{
			RoomID:    id,
			ProfileID: c.GetString("profileID"),
			Rating:    req.Rating,
			Comment:   req.Comment,
		}
		if err := ratings.Upsert(c.Request.Context(), rating); err != nil {
			logger.Error("Failed to save rating", zap.Int("roomID", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save rating"})
			return
		}

		summary, err := ratings.Summary(c.Request.Context(), id)
		if err != nil {
			summary = &models.RatingSummary{}
		}
		c.JSON(http.StatusOK, gin.H{"rating": rating, "summary": summary})
	}
}
