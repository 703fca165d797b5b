package hub

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/baoduongg/game-library/domain"

	"github.com/fasthttp/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

var (
	ErrClientClosed   = errors.New("client connection closed")
	ErrSendBufferFull = errors.New("client send buffer is full")
)

// SendJSON queues msg on the client's send buffer without blocking.
func SendJSON(client *domain.Client, msg any) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	return sendRaw(client, payload)
}

func sendRaw(client *domain.Client, payload []byte) error {
	select {
	case <-client.Done:
		return ErrClientClosed
	default:
	}

	select {
	case client.Send <- payload:
		return nil
	default:
		zap.L().Warn("Client send channel is full, dropping message", zap.String("identity", client.Identity),
			zap.String("topic", client.Topic))
		return ErrSendBufferFull
	}
}

// ClientSender adapts a client to anything that sends one message at a time.
type ClientSender struct {
	Client *domain.Client
}

func (s ClientSender) Send(msg any) error {
	return SendJSON(s.Client, msg)
}

// Serve runs both pumps for client and returns only after the write pump
// has exited. The websocket handler must not return earlier: the connection
// is recycled as soon as it does.
func Serve(client *domain.Client, onMessage func([]byte)) {
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		WritePump(client)
	}()

	ReadPump(client, onMessage)
	<-writerDone
}

// ReadPump reads until the connection fails or the peer closes it, passing
// each message to onMessage. It closes the client before returning.
func ReadPump(client *domain.Client, onMessage func([]byte)) {
	defer client.Close()

	client.Conn.SetReadLimit(maxMessageSize)
	client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	client.Conn.SetPongHandler(func(string) error {
		return client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				zap.L().Debug("Client connection closed gracefully", zap.String("identity", client.Identity))
			} else {
				zap.L().Debug("Client read error", zap.String("identity", client.Identity), zap.Error(err))
			}
			return
		}
		onMessage(payload)
	}
}

// WritePump owns all writes to the connection. Once the client is closed it
// flushes what is still queued, sends a close frame and returns.
func WritePump(client *domain.Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case msg := <-client.Send:
			if err := write(client, websocket.TextMessage, msg); err != nil {
				zap.L().Debug("WebSocket write error", zap.String("identity", client.Identity), zap.Error(err))
				client.Close()
				return
			}

		case <-ticker.C:
			if err := write(client, websocket.PingMessage, nil); err != nil {
				client.Close()
				return
			}

		case <-client.Done:
			for {
				select {
				case msg := <-client.Send:
					if err := write(client, websocket.TextMessage, msg); err != nil {
						return
					}
				default:
					write(client, websocket.CloseMessage, []byte{})
					return
				}
			}
		}
	}
}

func write(client *domain.Client, messageType int, payload []byte) error {
	client.WriteLock.Lock()
	defer client.WriteLock.Unlock()

	client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
	return client.Conn.WriteMessage(messageType, payload)
}
