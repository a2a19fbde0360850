package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// WSMessage is a server-initiated push frame.
type WSMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// AckMessage answers exactly one client frame, matched by ID.
type AckMessage struct {
	Type string `json:"type"`
	ID   int64  `json:"id"`
	Data any    `json:"data"`
}

// Frame is what clients send: a sequence number, an event name, and the
// event's payload.
type Frame struct {
	ID    int64           `json:"id"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Conn is the minimal websocket surface a Client writes to; tests swap in
// a recorder.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client wraps one live connection. Writes are serialized by the client's
// own mutex since pushes and acks come from different goroutines.
type Client struct {
	ID     string
	IP     string
	UserID uint

	mu   sync.Mutex
	conn Conn
}

func NewClient(id, ip string, conn Conn) *Client {
	return &Client{ID: id, IP: ip, conn: conn}
}

func (c *Client) Send(event string, data any) {
	c.write(WSMessage{Type: event, Data: data})
}

func (c *Client) Ack(id int64, data any) {
	c.write(AckMessage{Type: "ack", ID: id, Data: data})
}

func (c *Client) Close() {
	c.conn.Close()
}

func (c *Client) write(v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		log.Printf("ws: marshal error: %v", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		log.Printf("ws: write error to %s: %v", c.ID, err)
	}
}
