package domain

import (
	"sync"

	"github.com/gofiber/contrib/websocket"
)

type WebSocketErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Code    int    `json:"code,omitempty"`
}

// Client is one websocket connection attached to a room or a game lobby.
// Send is never closed; Done is closed once when the client goes away.
type Client struct {
	Identity  string
	Topic     string
	Send      chan []byte
	Conn      *websocket.Conn
	WriteLock sync.Mutex
	Done      chan struct{}

	closeOnce sync.Once
}

func NewClient(conn *websocket.Conn, identity, topic string) *Client {
	return &Client{
		Identity: identity,
		Topic:    topic,
		Send:     make(chan []byte, 64),
		Conn:     conn,
		Done:     make(chan struct{}),
	}
}

func (c *Client) Close() {
	c.closeOnce.Do(func() { close(c.Done) })
}
