package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"claim-verify-be/internal/pkg/logger"
	"claim-verify-be/pkg/events"

	"github.com/redis/go-redis/v9"
)

// Hub fans pipeline progress events out to websocket watchers. Clients
// subscribe per session id; redis pub/sub relays events across instances
// so a watcher can be connected anywhere.
type Hub struct {
	// Watchers map: SessionID -> List of Clients (multi-tab)
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	// Redis connection for cross-instance relay, optional
	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Watcher registered", map[string]interface{}{"session_id": client.SessionID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.SessionID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.SessionID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.SessionID]) == 0 {
					delete(h.clients, client.SessionID)
					h.logger.Info("Hub", "Session has no more watchers", map[string]interface{}{"session_id": client.SessionID})
				}
			}
			h.mu.Unlock()
		}
	}
}

// Notify delivers one pipeline event to every watcher of its session,
// locally and via redis for other instances.
func (h *Hub) Notify(sessionId string, event events.Event) {
	data, err := json.Marshal(map[string]interface{}{
		"type": "progress",
		"data": event,
	})
	if err != nil {
		h.logger.Error("Hub", "Failed to marshal event", map[string]interface{}{"error": err.Error()})
		return
	}

	h.deliverLocal(sessionId, data)

	if h.rdb != nil {
		payload := map[string]interface{}{
			"session_id": sessionId,
			"message":    data,
		}
		jsonPayload, _ := json.Marshal(payload)
		h.rdb.Publish(context.Background(), "verify_progress", jsonPayload)
	}
}

func (h *Hub) deliverLocal(sessionId string, data []byte) {
	h.mu.RLock()
	clients, ok := h.clients[sessionId]
	h.mu.RUnlock()
	if !ok {
		return
	}
	for _, client := range clients {
		select {
		case client.Send <- data:
		default:
			// The unregister branch owns channel closure; closing here too
			// would double-close when Run processes the handoff.
			h.logger.Warn("Hub", "Watcher buffer full, dropping", map[string]interface{}{"session_id": sessionId})
			h.unregister <- client
		}
	}
}

func (h *Hub) subscribeToRedis() {
	// Every instance subscribes to the shared channel and delivers only to
	// sessions it has watchers for.
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, "verify_progress")
	defer pubsub.Close()

	ch := pubsub.Channel()

	for msg := range ch {
		var payload struct {
			SessionID string          `json:"session_id"`
			Message   json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			log.Printf("Redis msg parse error: %v", err)
			continue
		}
		h.deliverLocal(payload.SessionID, payload.Message)
	}
}
