package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"bigtwo/internal/auth"
	"bigtwo/internal/domain"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendQueueSize  = 64
)

// Client pumps one websocket connection: a buffered outbound queue drained
// by writePump, and a readPump decoding inbound frames one at a time.
type Client struct {
	who    auth.Identity
	roomID string

	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once

	hub  *Hub
	core Core
	log  *zap.Logger
}

// NewClient wraps an upgraded connection. Serve must be called to start the
// pumps.
func NewClient(who auth.Identity, roomID string, conn *websocket.Conn, hub *Hub, core Core, log *zap.Logger) *Client {
	return &Client{
		who:    who,
		roomID: roomID,
		conn:   conn,
		send:   make(chan []byte, sendQueueSize),
		done:   make(chan struct{}),
		hub:    hub,
		core:   core,
		log: log.With(
			zap.String("room", roomID),
			zap.String("participant", who.ID)),
	}
}

// Serve registers the client, pushes the fresh room snapshot and blocks
// until the connection drops. A disconnect leaves room membership intact;
// only an explicit LEAVE or the idle sweep removes the participant.
func (c *Client) Serve() {
	c.hub.Register(c.who.ID, c)
	defer c.hub.Unregister(c.who.ID, c)

	go c.writePump()
	c.core.Connected(c.roomID, c.who)
	c.readPump()
}

// enqueue implements sender. It reports false when the queue is saturated;
// the frame is then dropped rather than blocking the fan-out.
func (c *Client) enqueue(frame []byte) bool {
	select {
	case <-c.done:
		return true
	case c.send <- frame:
		return true
	default:
		return false
	}
}

// shutdown implements sender; it is idempotent and unblocks both pumps.
func (c *Client) shutdown() {
	c.once.Do(func() { close(c.done) })
}

func (c *Client) readPump() {
	defer c.shutdown()
	defer c.conn.Close()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debug("connection dropped", zap.Error(err))
			}
			return
		}
		c.handleFrame(data)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer c.conn.Close()

	for {
		select {
		case <-c.done:
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		case frame := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleFrame decodes one inbound envelope against the closed type
// vocabulary. Malformed or ill-typed frames are logged and dropped; the
// connection stays up.
func (c *Client) handleFrame(data []byte) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		c.log.Debug("dropping malformed frame", zap.Error(err))
		return
	}

	switch env.Type {
	case TypeChat:
		var p ChatIn
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			c.log.Debug("dropping ill-typed CHAT", zap.Error(err))
			return
		}
		c.core.Chat(c.roomID, c.who, p.Content)

	case TypeMove:
		var p MoveIn
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			c.log.Debug("dropping ill-typed MOVE", zap.Error(err))
			return
		}
		cards, err := domain.ParseCards(p.Cards)
		if err != nil {
			c.log.Debug("dropping MOVE with bad card codes", zap.Error(err))
			c.sendError("unrecognized card codes")
			return
		}
		c.core.PlayMove(c.roomID, c.who.ID, cards)

	case TypeLeave:
		c.core.Leave(c.roomID, c.who.ID)
		c.shutdown()

	case TypeStartGame:
		c.core.StartGame(c.roomID, c.who.ID)

	case TypeReady:
		var p ReadyIn
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			c.log.Debug("dropping ill-typed READY", zap.Error(err))
			return
		}
		c.core.SetReady(c.roomID, c.who.ID, p.IsReady)

	default:
		c.log.Debug("dropping frame of unknown type", zap.String("type", env.Type))
	}
}

func (c *Client) sendError(msg string) {
	frame, err := newEnvelope(TypeError, ErrorOut{Message: msg}, c.who.ID)
	if err != nil {
		return
	}
	c.enqueue(frame)
}
