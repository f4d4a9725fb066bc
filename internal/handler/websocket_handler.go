// internal/handler/websocket_handler.go
package handler

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"escpos-service/internal/model"
	"escpos-service/internal/service"
	"escpos-service/internal/utils"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// EncodeFrame is the reply to one command frame
type EncodeFrame struct {
	Seq     int         `json:"seq"`
	Command string      `json:"command,omitempty"`
	Hex     string      `json:"hex,omitempty"`
	Base64  string      `json:"base64,omitempty"`
	Length  int         `json:"length"`
	Error   interface{} `json:"error,omitempty"`
}

type wsClient struct {
	id          string
	conn        *websocket.Conn
	send        chan []byte
	done        chan struct{}
	remoteAddr  string
	connectedAt time.Time
}

// WebSocketHandler streams command frames through the encoder and printer events
// to subscribers
type WebSocketHandler struct {
	upgrader       websocket.Upgrader
	commandService *service.CommandService
	eventBus       *service.EventBus
	maxFrameBytes  int64
	logger         *utils.ServiceLogger
}

// NewWebSocketHandler creates a new WebSocket handler. allowedOrigins follows the CORS
// setting: "*" accepts any origin.
func NewWebSocketHandler(
	commandService *service.CommandService,
	eventBus *service.EventBus,
	allowedOrigins []string,
	maxFrameBytes int64,
	logger *zap.Logger,
) *WebSocketHandler {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || slices.Contains(allowedOrigins, "*") || slices.Contains(allowedOrigins, origin)
		},
	}

	return &WebSocketHandler{
		upgrader:       upgrader,
		commandService: commandService,
		eventBus:       eventBus,
		maxFrameBytes:  maxFrameBytes,
		logger:         utils.NewServiceLogger(logger, "websocket-handler"),
	}
}

// RegisterRoutes registers WebSocket routes
func (h *WebSocketHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/encode", h.HandleEncodeConnection)
	router.GET("/events", h.HandleEventsConnection)
}

// HandleEncodeConnection upgrades the request and answers every text frame holding a
// command request with one EncodeFrame
func (h *WebSocketHandler) HandleEncodeConnection(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade WebSocket connection", zap.Error(err))
		return
	}

	client := &wsClient{
		id:          uuid.New().String(),
		conn:        conn,
		send:        make(chan []byte, 64),
		done:        make(chan struct{}),
		remoteAddr:  c.Request.RemoteAddr,
		connectedAt: time.Now(),
	}

	h.logger.Info("Encode WebSocket client connected",
		zap.String("client_id", client.id),
		zap.String("remote_addr", client.remoteAddr),
	)

	go h.handleClientWrite(client)
	go h.handleClientRead(client)
}

// HandleEventsConnection streams printer events. The optional types query parameter
// is a comma separated list of event types to receive.
func (h *WebSocketHandler) HandleEventsConnection(c *gin.Context) {
	var types []model.EventType
	for _, t := range strings.Split(c.Query("types"), ",") {
		if t = strings.TrimSpace(t); t != "" {
			types = append(types, model.EventType(strings.ToUpper(t)))
		}
	}

	// subscribe first so no event published after the handshake is missed
	events, unsubscribe := h.eventBus.Subscribe(types...)
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		unsubscribe()
		h.logger.Error("Failed to upgrade WebSocket connection", zap.Error(err))
		return
	}

	client := &wsClient{
		id:          uuid.New().String(),
		conn:        conn,
		send:        make(chan []byte, 64),
		done:        make(chan struct{}),
		remoteAddr:  c.Request.RemoteAddr,
		connectedAt: time.Now(),
	}

	h.logger.Info("Events WebSocket client connected",
		zap.String("client_id", client.id),
		zap.String("remote_addr", client.remoteAddr),
		zap.Int("event_types", len(types)),
	)

	go h.handleClientWrite(client)
	go h.forwardEvents(client, events)
	go h.drainClient(client, unsubscribe)
}

// forwardEvents owns client.send for an events connection
func (h *WebSocketHandler) forwardEvents(client *wsClient, events <-chan model.PrinterEvent) {
	defer close(client.send)
	for event := range events {
		message, err := json.Marshal(event)
		if err != nil {
			h.logger.Error("Failed to marshal event", zap.Error(err))
			continue
		}
		select {
		case client.send <- message:
		case <-client.done:
			return
		}
	}
}

// drainClient discards inbound frames until the peer goes away, then unsubscribes
func (h *WebSocketHandler) drainClient(client *wsClient, unsubscribe func()) {
	defer func() {
		unsubscribe()
		h.logger.Info("Events WebSocket client disconnected",
			zap.String("client_id", client.id),
			zap.Duration("connected_for", time.Since(client.connectedAt)),
		)
	}()

	client.conn.SetReadLimit(512)
	client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		client.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *WebSocketHandler) handleClientRead(client *wsClient) {
	defer func() {
		close(client.send)
		h.logger.Info("Encode WebSocket client disconnected",
			zap.String("client_id", client.id),
			zap.Duration("connected_for", time.Since(client.connectedAt)),
		)
	}()

	if h.maxFrameBytes > 0 {
		client.conn.SetReadLimit(h.maxFrameBytes)
	}
	client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		client.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for seq := 0; ; seq++ {
		messageType, message, err := client.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Error("WebSocket read error",
					zap.Error(err),
					zap.String("client_id", client.id),
				)
			}
			return
		}

		frame := h.encodeFrame(seq, messageType, message)
		reply, err := json.Marshal(frame)
		if err != nil {
			h.logger.Error("Failed to marshal encode frame", zap.Error(err))
			continue
		}
		select {
		case client.send <- reply:
		case <-client.done:
			return
		}
	}
}

func (h *WebSocketHandler) encodeFrame(seq int, messageType int, message []byte) EncodeFrame {
	frame := EncodeFrame{Seq: seq}
	if messageType != websocket.TextMessage {
		frame.Error = gin.H{"type": "error", "message": "expected a text frame"}
		return frame
	}

	var req model.CommandRequest
	if err := json.Unmarshal(message, &req); err != nil {
		frame.Error = gin.H{"type": "error", "message": "invalid command request: " + err.Error()}
		return frame
	}
	frame.Command = req.Command

	data, err := h.commandService.EncodeOne(req)
	if err != nil {
		frame.Error = errorDetail(err)
		return frame
	}
	frame.Hex = hex.EncodeToString(data)
	frame.Base64 = base64.StdEncoding.EncodeToString(data)
	frame.Length = len(data)
	return frame
}

func (h *WebSocketHandler) handleClientWrite(client *wsClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		close(client.done)
		client.conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.send:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				h.logger.Error("WebSocket write error", zap.Error(err), zap.String("client_id", client.id))
				return
			}
		case <-ticker.C:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
