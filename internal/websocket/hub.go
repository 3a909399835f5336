package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"course-notes-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const clusterChannel = "series_events"

// Message is the frame pushed to websocket clients.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type clusterEnvelope struct {
	Origin         string          `json:"origin"`
	TargetSeriesID int64           `json:"target_series_id"`
	Message        json.RawMessage `json:"message"`
}

// Hub fans series messages out to connected clients. With redis configured,
// messages are relayed to the hubs of other instances as well.
type Hub struct {
	// Registered clients: SeriesID -> connections viewing that series
	clients map[int64][]*Client

	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu sync.RWMutex

	rdb    *redis.Client
	origin string

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client, 64),
		done:       make(chan struct{}),
		clients:    make(map[int64][]*Client),
		rdb:        rdb,
		origin:     uuid.NewString(),
		logger:     log,
	}
}

// Run processes registrations until ctx is done. It must be called once.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SeriesID] = append(h.clients[client.SeriesID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"series_id": client.SeriesID, "user_id": client.UserID})

		case client := <-h.unregister:
			h.remove(client)
		}
	}
}

// Done is closed once Run has returned.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// Register hands a client to the running hub. It reports false once the hub
// has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// leave detaches a client; after Run has stopped the client is removed inline.
func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
		h.remove(client)
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.clients[client.SeriesID]
	for i, c := range clients {
		if c == client {
			h.clients[client.SeriesID] = append(clients[:i:i], clients[i+1:]...)
			close(client.Send)
			break
		}
	}
	if len(h.clients[client.SeriesID]) == 0 {
		delete(h.clients, client.SeriesID)
	}
}

// ClientCount returns the number of local connections viewing a series.
func (h *Hub) ClientCount(seriesID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[seriesID])
}

// BroadcastSeries pushes a message to every viewer of a series.
func (h *Hub) BroadcastSeries(seriesID int64, msgType string, data interface{}) error {
	frame, err := json.Marshal(Message{Type: msgType, Data: data})
	if err != nil {
		return err
	}

	h.deliver(seriesID, frame)

	if h.rdb != nil {
		payload, err := json.Marshal(clusterEnvelope{Origin: h.origin, TargetSeriesID: seriesID, Message: frame})
		if err != nil {
			return err
		}
		if err := h.rdb.Publish(context.Background(), clusterChannel, payload).Err(); err != nil {
			h.logger.Warn("Hub", "Redis publish failed", map[string]interface{}{"series_id": seriesID, "error": err.Error()})
		}
	}
	return nil
}

// deliver writes to local clients; clients with a full buffer are dropped.
func (h *Hub) deliver(seriesID int64, frame []byte) {
	var slow []*Client

	h.mu.RLock()
	for _, client := range h.clients[seriesID] {
		select {
		case client.Send <- frame:
		default:
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		h.logger.Warn("Hub", "Client send buffer full, dropping connection", map[string]interface{}{"series_id": seriesID, "user_id": client.UserID})
		h.leave(client)
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
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
			var env clusterEnvelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				h.logger.Warn("Hub", "Redis message parse error", map[string]interface{}{"error": err.Error()})
				continue
			}
			if env.Origin == h.origin {
				continue
			}
			h.deliver(env.TargetSeriesID, env.Message)
		}
	}
}
