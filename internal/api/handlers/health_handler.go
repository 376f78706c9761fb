package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const indexBanner = "Concierge Realtime Server running"

func Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// Index serves the banner, or the relay when the request asks for a
// websocket upgrade on the root path.
func Index(relay *RelayHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		if relay != nil && websocket.IsWebSocketUpgrade(c.Request) {
			relay.Relay(c)
			return
		}
		c.String(http.StatusOK, indexBanner)
	}
}
