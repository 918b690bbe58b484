package handlers

import (
	"io"

	"transylvania/services/room"

	"github.com/gin-gonic/gin"
)

// RoomFeedHandler streams room-change events over SSE. Each pub/sub message
// becomes one "room_change" event; the stream ends when the client goes away.
func RoomFeedHandler(rooms room.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")

		sub := rooms.SubscribeChanges(c.Request.Context())
		defer sub.Close()
		ch := sub.Channel()

		c.Stream(func(w io.Writer) bool {
			select {
			case msg, ok := <-ch:
				if !ok {
					return false
				}
				c.SSEvent("room_change", msg.Payload)
				return true
			case <-c.Request.Context().Done():
				return false
			}
		})
	}
}
