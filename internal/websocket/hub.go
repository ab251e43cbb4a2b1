package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"podbot-be/internal/constant"
	"podbot-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// clusterMessage is what hubs exchange over Redis so a user connected to another
// instance still receives the update.
type clusterMessage struct {
	Origin   string          `json:"origin"`
	Username string          `json:"username"`
	Message  json.RawMessage `json:"message"`
}

type Hub struct {
	// Registered clients: username -> connections (multi-tab)
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client

	// Closed when Run returns so pumps never block on a stopped hub.
	done chan struct{}

	mu sync.RWMutex

	// Redis connection for cross-instance delivery; nil keeps delivery local
	rdb *redis.Client

	instanceID string
	logger     logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[string][]*Client),
		rdb:        rdb,
		instanceID: uuid.NewString(),
		logger:     log,
	}
}

// Run owns the client registry until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			close(h.done)
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.Username] = append(h.clients[client.Username], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"username": client.Username})

		case client := <-h.unregister:
			h.remove(client)
		}
	}
}

// Send delivers payload to every connection of username, here and on other instances.
func (h *Hub) Send(username string, payload interface{}) {
	data, err := json.Marshal(map[string]interface{}{
		"type": "activity",
		"data": payload,
	})
	if err != nil {
		h.logger.Error("Hub", "Failed to encode activity", map[string]interface{}{"error": err.Error()})
		return
	}

	h.deliverLocal(username, data)

	if h.rdb != nil {
		msg, _ := json.Marshal(clusterMessage{Origin: h.instanceID, Username: username, Message: data})
		if err := h.rdb.Publish(context.Background(), constant.ActivityChannel, msg).Err(); err != nil {
			h.logger.Warn("Hub", "Failed to publish activity to cluster", map[string]interface{}{"error": err.Error()})
		}
	}
}

// ClientCount reports the live connections of username on this instance.
func (h *Hub) ClientCount(username string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[username])
}

// registerClient hands c to Run. It reports false once the hub has stopped.
func (h *Hub) registerClient(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) unregisterClient(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// deliverLocal holds the read lock while sending: remove and closeAll close Send
// channels under the write lock.
func (h *Hub) deliverLocal(username string, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients[username] {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("Hub", "Client Send buffer full, dropping connection", map[string]interface{}{"username": username})
			go h.unregisterClient(client)
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.clients[client.Username]
	for i, c := range clients {
		if c == client {
			h.clients[client.Username] = append(clients[:i], clients[i+1:]...)
			close(client.Send)
			break
		}
	}
	if len(h.clients[client.Username]) == 0 {
		delete(h.clients, client.Username)
		h.logger.Info("Hub", "Client completely unregistered", map[string]interface{}{"username": client.Username})
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for username, clients := range h.clients {
		for _, c := range clients {
			close(c.Send)
		}
		delete(h.clients, username)
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, constant.ActivityChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}

			var payload clusterMessage
			if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
				h.logger.Warn("Hub", "Redis message parse error", map[string]interface{}{"error": err.Error()})
				continue
			}
			// Already delivered locally by Send.
			if payload.Origin == h.instanceID {
				continue
			}
			h.deliverLocal(payload.Username, payload.Message)
		}
	}
}
