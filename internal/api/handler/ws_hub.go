package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"parking_ops/internal/domain"
	"parking_ops/internal/monitoring"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // gate screens connect from a different origin
	},
}

// ZoneStateProvider supplies the current payload for every zone a gate
// exposes, used for the initial snapshot on subscribe.
type ZoneStateProvider interface {
	ZoneStatesForGate(ctx context.Context, gateID string) ([]domain.ZoneState, error)
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte

	mu    sync.RWMutex
	gates map[string]bool

	closeOnce sync.Once
}

func (c *wsClient) subscribe(gateID string) {
	c.mu.Lock()
	c.gates[gateID] = true
	c.mu.Unlock()
}

func (c *wsClient) unsubscribe(gateID string) {
	c.mu.Lock()
	delete(c.gates, gateID)
	c.mu.Unlock()
}

func (c *wsClient) watchesAny(gateIDs []string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, g := range gateIDs {
		if c.gates[g] {
			return true
		}
	}
	return false
}

// WebSocketHub is the change notifier: it fans zone-state deltas out to the
// screens subscribed to each gate and broadcasts admin updates to everyone.
// Delivery is best-effort; a slow client's messages are dropped rather than
// blocking the mutating request or other subscribers.
type WebSocketHub struct {
	mu         sync.RWMutex
	clients    map[*wsClient]struct{}
	register   chan *wsClient
	unregister chan *wsClient
	provider   ZoneStateProvider
	log        *zap.Logger
}

func NewWebSocketHub(log *zap.Logger) *WebSocketHub {
	return &WebSocketHub{
		clients:    make(map[*wsClient]struct{}),
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
		log:        log,
	}
}

// SetProvider breaks the construction cycle: the hub is created before the
// parking service, which in turn is created with the hub as its notifier.
func (h *WebSocketHub) SetProvider(p ZoneStateProvider) {
	h.provider = p
}

func (h *WebSocketHub) Start() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			total := len(h.clients)
			h.mu.Unlock()
			monitoring.WebsocketClients.Set(float64(total))
			h.log.Debug("websocket client connected", zap.Int("total", total))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.closeOnce.Do(func() {
					close(client.send)
					client.conn.Close()
				})
			}
			total := len(h.clients)
			h.mu.Unlock()
			monitoring.WebsocketClients.Set(float64(total))
			h.log.Debug("websocket client disconnected", zap.Int("total", total))
		}
	}
}

// PublishZoneUpdate implements service.ChangeNotifier.
func (h *WebSocketHub) PublishZoneUpdate(state *domain.ZoneState, gateIDs []string) {
	message, err := json.Marshal(domain.ZoneUpdateMessage{Type: domain.WSTypeZoneUpdate, Payload: *state})
	if err != nil {
		h.log.Error("marshaling zone update", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		if client.watchesAny(gateIDs) {
			h.trySend(client, message)
		}
	}
}

// BroadcastAdminUpdate implements service.ChangeNotifier.
func (h *WebSocketHub) BroadcastAdminUpdate(update domain.AdminUpdate) {
	message, err := json.Marshal(domain.AdminUpdateMessage{Type: domain.WSTypeAdminUpdate, Payload: update})
	if err != nil {
		h.log.Error("marshaling admin update", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		h.trySend(client, message)
	}
}

func (h *WebSocketHub) trySend(client *wsClient, message []byte) {
	select {
	case client.send <- message:
	default:
		h.log.Warn("websocket client too slow, dropping message")
	}
}

type WebSocketHandler struct {
	hub *WebSocketHub
	log *zap.Logger
}

func NewWebSocketHandler(hub *WebSocketHub, log *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, log: log}
}

// HandleWebSocket upgrades the connection and runs the read/write pumps.
// Clients drive their gate subscriptions with subscribe/unsubscribe
// messages; on subscribe the current state of every zone the gate exposes
// is pushed immediately.
func (wh *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		wh.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &wsClient{
		conn:  conn,
		send:  make(chan []byte, 64),
		gates: make(map[string]bool),
	}
	wh.hub.register <- client

	go wh.writePump(client)
	go wh.readPump(client)
}

func (wh *WebSocketHandler) writePump(client *wsClient) {
	for message := range client.send {
		if err := client.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			break
		}
	}
	client.conn.Close()
}

func (wh *WebSocketHandler) readPump(client *wsClient) {
	defer func() {
		wh.hub.unregister <- client
	}()

	for {
		_, raw, err := client.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				wh.log.Warn("websocket read error", zap.Error(err))
			}
			return
		}

		var msg domain.WSClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			wh.log.Warn("ignoring malformed websocket message", zap.Error(err))
			continue
		}

		switch msg.Type {
		case domain.WSTypeSubscribe:
			client.subscribe(msg.Payload.GateID)
			wh.sendSnapshot(client, msg.Payload.GateID)
		case domain.WSTypeUnsubscribe:
			client.unsubscribe(msg.Payload.GateID)
		default:
			wh.log.Warn("ignoring unknown websocket message type", zap.String("type", msg.Type))
		}
	}
}

func (wh *WebSocketHandler) sendSnapshot(client *wsClient, gateID string) {
	if wh.hub.provider == nil {
		return
	}
	states, err := wh.hub.provider.ZoneStatesForGate(context.Background(), gateID)
	if err != nil {
		wh.log.Warn("snapshot for gate failed", zap.String("gateId", gateID), zap.Error(err))
		return
	}
	for i := range states {
		message, err := json.Marshal(domain.ZoneUpdateMessage{Type: domain.WSTypeZoneUpdate, Payload: states[i]})
		if err != nil {
			continue
		}
		wh.hub.trySend(client, message)
	}
}
