package feed

import (
	"net/http"
	"time"

	gorillaWS "github.com/gorilla/websocket"

	"github.com/AlibekovAA/places-directory/internal/common/constants"
	"github.com/AlibekovAA/places-directory/internal/common/logger"
)

type Client struct {
	hub    *Hub
	conn   *gorillaWS.Conn
	remote string
	send   chan []byte
	log    *logger.Logger
}

func newClient(hub *Hub, conn *gorillaWS.Conn, remote string, log *logger.Logger) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		remote: remote,
		send:   make(chan []byte, constants.FeedSendBufSize),
		log:    log,
	}
}

// readPump only services control frames; subscribers never send data.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(constants.FeedMaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(constants.FeedPongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(constants.FeedPongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if gorillaWS.IsUnexpectedCloseError(err, gorillaWS.CloseGoingAway, gorillaWS.CloseAbnormalClosure) {
				c.log.Warnf("feed read error remote=%s: %v", c.remote, err)
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(constants.FeedPingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(constants.FeedWriteWait))
			if !ok {
				_ = c.conn.WriteMessage(gorillaWS.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(gorillaWS.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(constants.FeedWriteWait))
			if err := c.conn.WriteMessage(gorillaWS.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

var upgrader = gorillaWS.Upgrader{
	ReadBufferSize:  constants.FeedReadBufferSize,
	WriteBufferSize: constants.FeedWriteBufferSize,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ServeWS upgrades the request and subscribes the connection to the hub.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithFields(r.Context(), logger.Fields{
			"action": "feed_upgrade_failed",
		}).Warnf("feed upgrade failed: %v", err)
		return
	}

	client := newClient(h, conn, r.RemoteAddr, h.log)
	if !h.Register(client) {
		_ = conn.WriteMessage(gorillaWS.CloseMessage,
			gorillaWS.FormatCloseMessage(gorillaWS.CloseGoingAway, "shutting down"))
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
