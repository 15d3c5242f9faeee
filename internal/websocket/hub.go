package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"strategy-buddy-be/internal/dto"
	"strategy-buddy-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Hub fans completed turns out to the owning user's open chat views. Redis
// pub/sub bridges instances so a turn finished on one node still reaches a
// socket held by another.
type Hub struct {
	// UserID -> connected clients (multi-device)
	clients map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
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
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"user_id": client.UserID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.UserID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.UserID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.UserID]) == 0 {
					delete(h.clients, client.UserID)
					h.logger.Info("Hub", "Client completely unregistered", map[string]interface{}{"user_id": client.UserID})
				}
			}
			h.mu.Unlock()
		}
	}
}

// SendTurn delivers a completed turn to every socket the user holds, locally
// and via Redis for sockets on other instances.
func (h *Hub) SendTurn(event dto.TurnCompletedMessage) {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "turn",
		"data": map[string]interface{}{
			"conversation_id": event.ConversationId,
			"turn":            event.Turn,
		},
	})

	if dead := h.deliver(event.UserId, data); len(dead) > 0 {
		h.logger.Warn("Hub", "Client send buffer full, dropping connection", map[string]interface{}{"user_id": event.UserId})
		for _, client := range dead {
			h.unregister <- client
		}
	}

	if h.rdb != nil {
		payload := map[string]interface{}{
			"target_user_id": event.UserId.String(),
			"message":        data,
		}
		jsonPayload, _ := json.Marshal(payload)
		h.rdb.Publish(context.Background(), "cluster_events", jsonPayload)
	}
}

// deliver pushes data to the user's sockets and reports the ones whose
// buffers are full. The send happens under the read lock: Run closes a Send
// channel and removes the client in one critical section, so any client
// still visible in the map has an open channel. The unregister path is the
// only place a Send channel is ever closed.
func (h *Hub) deliver(userId uuid.UUID, data []byte) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var dead []*Client
	for _, client := range h.clients[userId] {
		select {
		case client.Send <- data:
		default:
			dead = append(dead, client)
		}
	}
	return dead
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, "cluster_events")
	defer pubsub.Close()

	ch := pubsub.Channel()

	for msg := range ch {
		var payload struct {
			TargetUserID string          `json:"target_user_id"`
			Message      json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			log.Printf("Redis msg parse error: %v", err)
			continue
		}

		uid, err := uuid.Parse(payload.TargetUserID)
		if err != nil {
			continue
		}

		for _, client := range h.deliver(uid, payload.Message) {
			h.unregister <- client
		}
	}
}
