package handlers

import (
	"net/http"

	chatlogRepo "transylvania/database/repository/chatlog"
	"transylvania/models"
	"transylvania/services/assistant"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ChatMessageHandler evaluates the newest user message through the intent
// engine. Errors never surface raw; the reply is always presentable.
func ChatMessageHandler(engine *assistant.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		var req models.ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
			return
		}

		reply, err := engine.HandleMessage(c.Request.Context(), c.GetString("profileID"), req)
		if err != nil {
			logger.Error("Chat handling failed", zap.Error(err))
			c.JSON(http.StatusOK, &models.ChatReply{Content: assistant.FallbackSentence, Intent: "error"})
			return
		}
		c.JSON(http.StatusOK, reply)
	}
}

type guidedStartRequest struct {
	RoomID int `json:"room_id" binding:"required"`
}

// GuidedBookingStartHandler opens the slot-filling dialogue for one room.
func GuidedBookingStartHandler(engine *assistant.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		var req guidedStartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
			return
		}

		reply, err := engine.StartGuidedBooking(c.Request.Context(), c.GetString("profileID"), req.RoomID)
		if err != nil {
			logger.Error("Guided booking start failed", zap.Int("roomID", req.RoomID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not start guided booking"})
			return
		}
		c.JSON(http.StatusOK, reply)
	}
}

// ChatConfirmHandler executes the pending reservation.
func ChatConfirmHandler(engine *assistant.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		reply, err := engine.Confirm(c.Request.Context(), c.GetString("profileID"))
		if err != nil {
			logger.Error("Chat confirm failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not confirm booking"})
			return
		}
		c.JSON(http.StatusOK, reply)
	}
}

// ChatCancelHandler discards the pending reservation.
func ChatCancelHandler(engine *assistant.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		reply, err := engine.CancelPending(c.Request.Context(), c.GetString("profileID"))
		if err != nil {
			logger.Error("Chat cancel failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not discard booking"})
			return
		}
		c.JSON(http.StatusOK, reply)
	}
}

// ChatHistoryHandler returns recent chat exchanges for the admin view.
func ChatHistoryHandler(logs chatlogRepo.ChatLogRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		entries, err := logs.ListRecent(c.Request.Context(), 50)
		if err != nil {
			logger.Error("Failed to list chat logs", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list chat history"})
			return
		}
		c.JSON(http.StatusOK, entries)
	}
}
