package handler

import (
	"net/http"

	"grievanceportal/backend/internal/auth"
	"grievanceportal/backend/internal/hub"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The feed is token-protected, so any origin may connect.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket streams grievance events to an admin dashboard. Browsers
// pass the token as the "token" query parameter.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	userID := c.GetString(auth.ContextUserID)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.String("user_id", userID), zap.Error(err))
		return
	}

	client := hub.NewWebSocketClient(userID, conn, h.Hub, h.logger)
	if !h.Hub.Register(client) {
		_ = conn.Close()
		return
	}
	client.Run()
}
