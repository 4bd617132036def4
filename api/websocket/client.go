package websocket

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/OldStager01/cloudguard-ml/internal/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in dev
	},
}

type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	// resourceID is written by the read pump and read by the hub's broadcast
	// path, so it needs its own lock.
	mu         sync.Mutex
	resourceID string
}

type IncomingMessage struct {
	Type       string `json:"type"`
	ResourceID string `json:"resource_id,omitempty"`
}

func NewClient(hub *Hub, conn *websocket.Conn, resourceID string) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, hub.cfg.ClientBuffer),
		resourceID: resourceID,
	}
}

// Subscription returns the resource the client is filtered to, or empty for
// an unfiltered client.
func (c *Client) Subscription() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resourceID
}

func (c *Client) setSubscription(resourceID string) {
	c.mu.Lock()
	c.resourceID = resourceID
	c.mu.Unlock()
}

func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	pongWait := c.hub.cfg.PongTimeout
	c.conn.SetReadLimit(c.hub.cfg.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Errorf("WebSocket error: %v", err)
			}
			break
		}

		var msg IncomingMessage
		if err := json.Unmarshal(message, &msg); err == nil {
			c.handleMessage(&msg)
		}
	}
}

func (c *Client) WritePump() {
	writeWait := c.hub.cfg.WriteTimeout

	ticker := time.NewTicker(c.hub.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to current websocket frame
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(msg *IncomingMessage) {
	switch msg.Type {
	case "subscribe":
		if msg.ResourceID != "" {
			c.setSubscription(msg.ResourceID)
			logger.Infof("Client subscribed to resource: %s", msg.ResourceID)
			c.sendConfirmation("subscribed", msg.ResourceID)
		}
	case "unsubscribe":
		oldResourceID := c.Subscription()
		c.setSubscription("")
		logger.Info("Client unsubscribed from resource")
		c.sendConfirmation("unsubscribed", oldResourceID)
	}
}

func (c *Client) sendConfirmation(action, resourceID string) {
	confirmation := map[string]interface{}{
		"type":        "subscription_update",
		"action":      action,
		"resource_id": resourceID,
		"timestamp":   time.Now(),
	}
	data, err := json.Marshal(confirmation)
	if err != nil {
		logger.Errorf("Failed to marshal confirmation: %v", err)
		return
	}
	select {
	case c.send <- data:
	default:
		logger.Warn("Client send channel full, dropping confirmation")
	}
}

func ServeWebSocket(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Errorf("WebSocket upgrade failed: %v", err)
			return
		}

		resourceID := c.Query("resource_id")
		client := NewClient(hub, conn, resourceID)
		hub.Register(client)

		go client.WritePump()
		go client.ReadPump()
	}
}
