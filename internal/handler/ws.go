package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	// Время, разрешенное для записи сообщения клиенту.
	writeWait = 10 * time.Second
	// Время ожидания следующего pong от клиента.
	pongWait = 60 * time.Second
	// Период пингов, меньше pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Клиент ничего не отправляет, кроме управляющих кадров.
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// serveWS streams stats and card frames of an open session. The first frame is
// the current session state.
func (h *GameHandler) serveWS(c echo.Context) error {
	playerID, err := playerIDParam(c)
	if err != nil {
		return h.handleServiceError(c, err)
	}
	g, err := h.sessions.Get(playerID)
	if err != nil {
		return h.handleServiceError(c, err)
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// upgrader уже записал ответ
		h.logger.Warn("Failed to upgrade connection", zap.Stringer("playerID", playerID), zap.Error(err))
		return nil
	}

	client := &streamClient{playerID: playerID, conn: conn, send: make(chan []byte, sendBufferSize)}
	h.hub.register(client)
	h.hub.Send(playerID, StreamMessage{Type: MessageTypeState, Payload: g.State()})

	log := h.logger.With(zap.Stringer("playerID", playerID))
	log.Info("WebSocket connection established")
	go client.writePump(log)
	go client.readPump(h.hub, log)
	return nil
}

// readPump drains control frames until the connection closes.
func (c *streamClient) readPump(hub *StreamHub, log *zap.Logger) {
	defer func() {
		hub.unregister(c)
		_ = c.conn.Close()
		log.Debug("readPump finished")
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("WebSocket read error", zap.Error(err))
			}
			return
		}
		log.Debug("Ignoring client message")
	}
}

// writePump writes queued frames and keeps the connection alive with pings.
func (c *streamClient) writePump(log *zap.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Warn("Failed to write message", zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Debug("Failed to send ping", zap.Error(err))
				return
			}
		}
	}
}
