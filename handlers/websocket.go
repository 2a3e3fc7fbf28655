package handlers

import (
	"encoding/json"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/sirupsen/logrus"

	"github.com/handyhub/chat-relay/config"
	"github.com/handyhub/chat-relay/models"
	"github.com/handyhub/chat-relay/relay"
)

// Client pairs one websocket connection with its relay session and runs the
// read/write pumps for it.
type Client struct {
	Conn    *websocket.Conn
	Relay   *relay.Relay
	Session *relay.Session
	Cfg     config.Config
}

// HandleRead reads inbound frames and hands parsed envelopes to the relay.
// It returns when the connection closes, errors, or misses its pong
// deadline. Unparseable frames are dropped and the connection stays open.
func (c *Client) HandleRead() {
	log := logrus.WithFields(logrus.Fields{
		"sessionID": c.Session.ID(),
		"userID":    c.Session.UserID(),
		"roomID":    c.Session.RoomID(),
	})

	c.Conn.SetReadLimit(c.Cfg.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(c.Cfg.PongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(c.Cfg.PongWait))
		return nil
	})

	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.WithError(err).Warn("websocket read error")
			} else {
				log.Info("websocket closed")
			}
			return
		}

		var env models.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			log.WithError(err).Warn("dropping unparseable payload")
			continue
		}
		c.Relay.HandleInbound(c.Session, env)
	}
}

// HandleWrite drains the session's outbound queue to the websocket and
// keeps the connection alive with periodic pings. It exits when a write
// fails or the session is torn down.
func (c *Client) HandleWrite() {
	ticker := time.NewTicker(c.Cfg.PingPeriod)
	defer ticker.Stop()

	log := logrus.WithFields(logrus.Fields{
		"sessionID": c.Session.ID(),
		"userID":    c.Session.UserID(),
	})

	for {
		select {
		case env := <-c.Session.Outbound():
			c.Conn.SetWriteDeadline(time.Now().Add(c.Cfg.WriteWait))
			if err := c.Conn.WriteJSON(env); err != nil {
				log.WithError(err).Warn("websocket write error")
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Cfg.WriteWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.WithError(err).Warn("websocket ping error")
				return
			}

		case <-c.Session.Done():
			c.Conn.SetWriteDeadline(time.Now().Add(c.Cfg.WriteWait))
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

// HandleWebSocket drives one connection end to end: join on entry, relay
// inbound envelopes, leave exactly once on the way out. The identity tuple
// is resolved during the upgrade; by the time this runs it is trusted.
func HandleWebSocket(c *websocket.Conn, rly *relay.Relay, cfg config.Config) {
	roomID := c.Params("roomID")
	ident, ok := c.Locals(IdentityKey).(relay.Identity)
	if !ok || roomID == "" {
		// The upgrade gate guarantees both; refuse anything that slipped by.
		logrus.Warn("websocket opened without resolved identity or room")
		c.Close()
		return
	}

	session := rly.Connect(roomID, ident)
	client := &Client{Conn: c, Relay: rly, Session: session, Cfg: cfg}

	// Whichever way the read pump exits, the disconnect sequence runs once;
	// Disconnect is idempotent against a racing shutdown.
	defer func() {
		rly.Disconnect(session)
		c.Close()
	}()

	go client.HandleWrite()
	client.HandleRead()
}
