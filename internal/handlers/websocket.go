package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"prime-slot-backend/internal/middleware"
	"prime-slot-backend/internal/models"
	"prime-slot-backend/internal/services"
)

const (
	MessageDrawResult        = "DRAW_RESULT"
	MessageLeaderboardUpdate = "LEADERBOARD_UPDATE"
	MessageBalanceUpdate     = "BALANCE_UPDATE"
	MessagePing              = "PING"
	MessagePong              = "PONG"

	writeWait = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Client struct {
	Address models.Address
	Conn    *websocket.Conn
	mu      sync.Mutex
}

// send serializes writes; gorilla connections allow one writer at a time.
func (c *Client) send(msg *Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.Conn.WriteJSON(msg)
}

type Message struct {
	Type    string `json:"type"`
	Address string `json:"address,omitempty"`
	Data    any    `json:"data"`
}

type WebSocketHub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
	logger     logrus.FieldLogger
	onSessions func(int)
}

type WebSocketHandler struct {
	gameEngine *services.GameEngine
	hub        *WebSocketHub
}

// NewWebSocketHandler starts the hub. onSessions, if set, is called with the
// client count whenever it changes.
func NewWebSocketHandler(gameEngine *services.GameEngine, logger logrus.FieldLogger, onSessions func(int)) *WebSocketHandler {
	hub := &WebSocketHub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 100),
		logger:     logger,
		onSessions: onSessions,
	}

	go hub.run()

	return &WebSocketHandler{
		gameEngine: gameEngine,
		hub:        hub,
	}
}

func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	addr, ok := middleware.Address(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.hub.logger.WithError(err).Warn("failed to upgrade to websocket")
		return
	}

	client := &Client{
		Address: addr,
		Conn:    conn,
	}

	h.hub.register <- client

	defer func() {
		h.hub.unregister <- client
		conn.Close()
	}()

	h.sendBalance(c, client)

	for {
		var msg Message
		err := conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.hub.logger.WithError(err).Warn("websocket error")
			}
			break
		}

		h.handleMessage(c, client, &msg)
	}
}

func (h *WebSocketHandler) handleMessage(c *gin.Context, client *Client, msg *Message) {
	switch msg.Type {
	case MessagePing:
		client.send(&Message{
			Type: MessagePong,
			Data: gin.H{"timestamp": time.Now().Unix()},
		})
	case MessageBalanceUpdate:
		h.sendBalance(c, client)
	}
}

func (h *WebSocketHandler) sendBalance(c *gin.Context, client *Client) {
	balance, err := h.gameEngine.Snapshot(c.Request.Context(), client.Address)
	if err != nil {
		h.hub.logger.WithError(err).WithField("participant", client.Address.String()).Debug("no balance for websocket client")
		return
	}

	client.send(&Message{
		Type:    MessageBalanceUpdate,
		Address: client.Address.String(),
		Data:    balance,
	})
}

func (hub *WebSocketHub) run() {
	for {
		select {
		case client := <-hub.register:
			hub.clients[client] = true
			hub.logger.WithField("participant", client.Address.String()).Debug("client registered")
			hub.sessionsChanged()

		case client := <-hub.unregister:
			if _, ok := hub.clients[client]; ok {
				delete(hub.clients, client)
				hub.logger.WithField("participant", client.Address.String()).Debug("client unregistered")
				hub.sessionsChanged()
			}

		case message := <-hub.broadcast:
			hub.broadcastMessage(message)
		}
	}
}

func (hub *WebSocketHub) sessionsChanged() {
	if hub.onSessions != nil {
		hub.onSessions(len(hub.clients))
	}
}

// broadcastMessage sends to every client, or only to the message's address
// when it has one.
func (hub *WebSocketHub) broadcastMessage(message *Message) {
	for client := range hub.clients {
		if message.Address != "" && client.Address.String() != message.Address {
			continue
		}
		if err := client.send(message); err != nil {
			hub.logger.WithError(err).Debug("websocket write failed")
		}
	}
}

// enqueue never blocks the engine; a full queue drops the message.
func (hub *WebSocketHub) enqueue(msg *Message) {
	select {
	case hub.broadcast <- msg:
	default:
		hub.logger.WithField("type", msg.Type).Warn("websocket broadcast queue full, dropping message")
	}
}

func (h *WebSocketHandler) BroadcastDraw(rec *models.DrawRecord) {
	h.hub.enqueue(&Message{
		Type: MessageDrawResult,
		Data: gin.H{
			"record":    rec,
			"outcome":   models.Outcome(rec.Prime),
			"timestamp": rec.CreatedAt.Unix(),
		},
	})
}

func (h *WebSocketHandler) BroadcastLeaderboard(board []models.LeaderboardEntry, stakingLamports uint64) {
	h.hub.enqueue(&Message{
		Type: MessageLeaderboardUpdate,
		Data: gin.H{
			"leaderboard":      board,
			"staking_lamports": stakingLamports,
		},
	})
}
