package hub

import (
	"sync"
	"time"

	"grievanceportal/backend/internal/models"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 32
)

// WebSocketClient implements Client over a gorilla connection. The feed
// is one-way: inbound frames are read only to detect disconnects.
type WebSocketClient struct {
	ID     string
	UserID string
	Conn   *websocket.Conn
	Hub    *Manager
	Send   chan models.GrievanceEvent

	logger    *zap.Logger
	closeOnce sync.Once
}

func NewWebSocketClient(userID string, conn *websocket.Conn, hub *Manager, logger *zap.Logger) *WebSocketClient {
	return &WebSocketClient{
		ID:     uuid.NewString(),
		UserID: userID,
		Conn:   conn,
		Hub:    hub,
		Send:   make(chan models.GrievanceEvent, sendBuffer),
		logger: logger,
	}
}

func (c *WebSocketClient) GetID() string                                { return c.ID }
func (c *WebSocketClient) GetUserID() string                            { return c.UserID }
func (c *WebSocketClient) GetSendChannel() chan<- models.GrievanceEvent { return c.Send }

func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close stops writePump, which closes the connection.
func (c *WebSocketClient) Close() {
	c.closeOnce.Do(func() { close(c.Send) })
}

func (c *WebSocketClient) readPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("dashboard read failed", zap.String("client_id", c.ID), zap.Error(err))
			}
			return
		}
	}
}

func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteJSON(event); err != nil {
				c.logger.Warn("dashboard write failed", zap.String("client_id", c.ID), zap.Error(err))
				return
			}

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
