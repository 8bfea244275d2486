package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/gsampaio-rh/alexa-mcp-server/internal/auth"
	"github.com/gsampaio-rh/alexa-mcp-server/internal/hub"
	"github.com/gsampaio-rh/alexa-mcp-server/internal/model"
	"github.com/gsampaio-rh/alexa-mcp-server/internal/notify"
)

// Events fans executed-command events out to websocket subscribers and,
// when configured, to MQTT. A nil *Events drops everything.
type Events struct {
	Hub      *hub.Hub
	MQTT     *notify.Publisher
	Sanitize func(string) string
}

type serverMessage struct {
	Type  string      `json:"type"`
	Event string      `json:"event,omitempty"`
	Body  interface{} `json:"body,omitempty"`
}

func (e *Events) Publish(command, text, device string, err error) {
	if e == nil {
		return
	}

	evt := model.Event{
		ID:        uuid.NewString(),
		Command:   command,
		Text:      text,
		Device:    device,
		Success:   err == nil,
		CreatedAt: time.Now().UnixMilli(),
	}
	if err != nil {
		msg := err.Error()
		if e.Sanitize != nil {
			msg = e.Sanitize(msg)
		}
		evt.Error = msg
	}

	if e.Hub != nil {
		if data, err := json.Marshal(serverMessage{Type: "event", Event: "command", Body: evt}); err == nil {
			e.Hub.Broadcast(data)
		}
	}
	if e.MQTT != nil {
		e.MQTT.PublishEvent(evt)
	}
}

func (e *Events) PublishLightState(state model.LightState) {
	if e == nil {
		return
	}
	if e.Hub != nil {
		if data, err := json.Marshal(serverMessage{Type: "event", Event: "light-state", Body: state}); err == nil {
			e.Hub.Broadcast(data)
		}
	}
	if e.MQTT != nil {
		e.MQTT.PublishLightState(state)
	}
}

type WebSocketHandler struct {
	Hub         *hub.Hub
	TokenConfig auth.TokenConfig
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type wsWriter struct {
	conn *websocket.Conn
}

func (w *wsWriter) Write(message []byte) error {
	w.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return w.conn.WriteMessage(websocket.TextMessage, message)
}

func (w *wsWriter) Close() error {
	return w.conn.Close()
}

// Serve upgrades the connection and streams command events until the
// subscriber goes away. The token travels as a query parameter because
// browser websocket clients cannot set headers.
func (h *WebSocketHandler) Serve(c *gin.Context) {
	tokenString := c.Query("token")
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authentication token"})
		return
	}
	if err := auth.VerifyToken(tokenString, h.TokenConfig); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authentication token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	connection := &hub.Connection{Writer: &wsWriter{conn: conn}}
	h.Hub.Register(connection)
	defer func() {
		h.Hub.Unregister(connection)
		_ = conn.Close()
	}()

	// Reads are only consumed to detect disconnects; subscribers do not
	// send anything meaningful.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
