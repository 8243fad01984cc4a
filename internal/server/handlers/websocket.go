// internal/server/handlers/websocket.go

package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/nats-io/nats.go"
)

// WebSocketConfig contains configuration for WebSocket connections
type WebSocketConfig struct {
	// Time allowed to write a message to the peer
	WriteWait time.Duration

	// Time allowed to read the next pong message from the peer
	PongWait time.Duration

	// Send pings to peer with this period
	PingPeriod time.Duration

	// Maximum message size allowed from peer
	MaxMessageSize int64
}

// DefaultWebSocketConfig returns the default WebSocket configuration
func DefaultWebSocketConfig() WebSocketConfig {
	return WebSocketConfig{
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		PingPeriod:     (60 * time.Second * 9) / 10,
		MaxMessageSize: 64 * 1024,
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// In production, this should be more restrictive
		return true
	},
}

// wsClient represents one connected WebSocket client subscribed to the
// engagement event stream
type wsClient struct {
	conn   *websocket.Conn
	send   chan []byte
	sub    *nats.Subscription
	config WebSocketConfig
}

// EngagementWebSocketHandler bridges the NATS engagement event stream to
// WebSocket clients so leaderboards and activity feeds update live.
func EngagementWebSocketHandler(natsConn *nats.Conn, eventsTopic string) http.HandlerFunc {
	config := DefaultWebSocketConfig()

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("Failed to upgrade to WebSocket: %v", err)
			return
		}

		client := &wsClient{
			conn:   conn,
			send:   make(chan []byte, 256),
			config: config,
		}

		// Fan every engagement event out to this client.
		sub, err := natsConn.Subscribe(eventsTopic+".>", func(msg *nats.Msg) {
			select {
			case client.send <- msg.Data:
			default:
				// Slow consumer: drop the event rather than block the bus.
			}
		})
		if err != nil {
			log.Printf("Failed to subscribe to engagement events: %v", err)
			conn.Close()
			return
		}
		client.sub = sub

		go client.writePump()
		go client.readPump()

		welcome, _ := json.Marshal(map[string]interface{}{
			"type": "welcome",
			"time": time.Now(),
		})
		client.send <- welcome
	}
}

// writePump pumps messages to the WebSocket connection and keeps the
// connection alive with periodic pings
func (c *wsClient) writePump() {
	ticker := time.NewTicker(c.config.PingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound messages; the stream is one-way. It exists to
// process control frames and detect closed connections.
func (c *wsClient) readPump() {
	defer c.close()

	c.conn.SetReadLimit(c.config.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// close tears down the NATS subscription and the connection
func (c *wsClient) close() {
	if c.sub != nil {
		c.sub.Unsubscribe()
		c.sub = nil
	}
	c.conn.Close()
}
