package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"sentry-server/internal/engine"
	"sentry-server/pkg/api"
	"sentry-server/pkg/logger"
)

// Настройки WebSocket
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client - посредник между Websocket и SentryService.
// Каждое подключение - отдельная сессия наблюдателя: он получает телеметрию
// и может слать команды любой вышке.
type Client struct {
	Service   *engine.SentryService
	Conn      *websocket.Conn
	Send      chan api.ServerResponse
	SessionID string
	log       *logrus.Entry
}

// NewClient регистрирует сессию в хабе и кладёт в её канал INIT.
func NewClient(svc *engine.SentryService, conn *websocket.Conn) *Client {
	id := uuid.NewString()
	c := &Client{
		Service:   svc,
		Conn:      conn,
		Send:      svc.Hub.Register(id),
		SessionID: id,
		log:       logger.Log.WithField("session", id),
	}

	hello := svc.Snapshot()
	hello.Type = "INIT"
	hello.SessionID = id
	svc.Hub.SendTo(id, hello)
	svc.Metrics.SetSubscribers(svc.Hub.SubscriberCount())

	c.log.WithField("remote", conn.RemoteAddr().String()).Info("Client connected")
	return c
}

// readPump читает команды от клиента
func (c *Client) readPump() {
	defer func() {
		c.Service.Hub.Unregister(c.SessionID)
		c.Service.Metrics.SetSubscribers(c.Service.Hub.SubscriberCount())
		if err := c.Conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection")
		}
		c.log.Info("Client disconnected")
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.log.WithError(err).Warn("failed to set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			c.log.WithError(err).Warn("failed to set pong read deadline")
		}
		return nil
	})

	for {
		var cmd api.ClientCommand
		err := c.Conn.ReadJSON(&cmd)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Errorf("WS Error: %v", err)
			}
			break
		}

		if err := c.Service.ProcessCommand(cmd); err != nil {
			c.log.WithFields(logrus.Fields{
				"action": cmd.Action,
				"tower":  cmd.Tower,
			}).WithError(err).Warn("Command rejected")
			c.Service.Hub.SendTo(c.SessionID, api.ServerResponse{
				Type:  "ERROR",
				Tick:  c.Service.Tick(),
				Error: err.Error(),
			})
		}
	}
}

// writePump отправляет данные клиенту + Ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.Conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection in writePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					c.log.WithError(err).Debug("write close message failed")
				}
				return
			}
			if err := c.Conn.WriteJSON(message); err != nil {
				c.log.WithError(err).Debug("write json message failed")
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}
