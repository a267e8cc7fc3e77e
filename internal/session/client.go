package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/inamate/sketchpad/internal/sketch"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	maxMsgSize = 64 * 1024
)

// Client is one websocket connection to a session.
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	session   *Session // set by the hub once joined
	SessionID string
	ClientID  string
}

func NewClient(hub *Hub, conn *websocket.Conn, sessionID, clientID string) *Client {
	return &Client{
		hub:       hub,
		conn:      conn,
		send:      make(chan []byte, 256),
		SessionID: sessionID,
		ClientID:  clientID,
	}
}

// ServeWS upgrades the request and runs a client for session id until the
// connection closes. The session must exist.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, id string, originPatterns []string) {
	if err := h.View(r.Context(), id, func(_ *sketch.Manager) error { return nil }); err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		slog.Error("open session for websocket", "session", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: originPatterns,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	client := NewClient(h, conn, id, uuid.New().String())
	h.Register(client)

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}

func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	c.conn.SetReadLimit(maxMsgSize)

	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
				websocket.CloseStatus(err) == websocket.StatusGoingAway {
				return
			}
			slog.Debug("read error", "error", err, "client", c.ClientID)
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Warn("invalid message", "error", err, "client", c.ClientID)
			c.SendPayload(TypeError, 0, ErrorPayload{Message: "invalid message"})
			continue
		}

		c.handleMessage(ctx, &msg)
	}
}

func (c *Client) handleMessage(ctx context.Context, msg *Message) {
	if !strings.HasPrefix(msg.Type, "gesture.") {
		slog.Warn("unknown message type", "type", msg.Type, "client", c.ClientID)
		c.SendPayload(TypeError, msg.Seq, ErrorPayload{Message: "unknown message type " + msg.Type})
		return
	}

	err := c.hub.Gesture(ctx, c.SessionID, Gesture{Type: msg.Type, Payload: msg.Payload})
	if err != nil {
		slog.Debug("gesture failed", "type", msg.Type, "session", c.SessionID, "error", err)
		c.SendPayload(TypeError, msg.Seq, ErrorPayload{Message: err.Error()})
	}
}

func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				return
			}

			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Write(writeCtx, websocket.MessageText, message)
			cancel()
			if err != nil {
				slog.Debug("write error", "error", err, "client", c.ClientID)
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

func (c *Client) Send(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshal message", "error", err)
		return
	}

	select {
	case c.send <- data:
	default:
		slog.Warn("client send buffer full, dropping message", "client", c.ClientID)
	}
}

// reject closes the connection of a client that could not join. Its pumps
// then unwind through the normal unregister path.
func (c *Client) reject() {
	if c.conn != nil {
		c.conn.Close(websocket.StatusPolicyViolation, "session not found")
	}
}

// SendPayload marshals payload into a message of the given type and sends it.
func (c *Client) SendPayload(typ string, seq int64, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("marshal payload", "type", typ, "error", err)
		return
	}
	c.Send(&Message{Type: typ, SessionID: c.SessionID, ClientID: c.ClientID, Seq: seq, Payload: data})
}
