package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"

	"github.com/Kvuthe/ITO/internal/repository"
)

const versionPollInterval = 2 * time.Second

// Message is the wire shape of hub broadcasts.
type Message struct {
	Type    string      `json:"type"`
	Version int64       `json:"version,omitempty"`
	Payload interface{} `json:"payload,omitempty"`
}

// Hub tracks connected clients and pushes a VERSION_UPDATE whenever the
// leaderboard version counter moves, so clients refetch instead of polling
// the boards themselves.
type Hub struct {
	redisRepo *repository.RedisRepository

	mu      sync.RWMutex
	clients map[*websocket.Conn]chan []byte

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewHub creates a new websocket hub
func NewHub(redisRepo *repository.RedisRepository) *Hub {
	return &Hub{
		redisRepo: redisRepo,
		clients:   make(map[*websocket.Conn]chan []byte),
		stopCh:    make(chan struct{}),
	}
}

// Start launches the version poller.
func (h *Hub) Start() {
	h.wg.Add(1)
	go h.pollVersion()
	log.Println("🔌 WebSocket hub started")
}

// Stop halts the poller and disconnects every client.
func (h *Hub) Stop() {
	close(h.stopCh)
	h.wg.Wait()

	h.mu.Lock()
	for conn, send := range h.clients {
		close(send)
		conn.Close()
		delete(h.clients, conn)
	}
	h.mu.Unlock()
	log.Println("🔌 WebSocket hub stopped")
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast queues a message for every connected client. Clients that cannot
// keep up are dropped rather than blocking the hub.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Failed to marshal hub message: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, send := range h.clients {
		select {
		case send <- data:
		default:
			close(send)
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// Handler serves one websocket client until it disconnects.
func (h *Hub) Handler(conn *websocket.Conn) {
	send := make(chan []byte, 16)

	h.mu.Lock()
	h.clients[conn] = send
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		if _, ok := h.clients[conn]; ok {
			close(send)
			delete(h.clients, conn)
		}
		h.mu.Unlock()
		conn.Close()
	}()

	go func() {
		for data := range send {
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		}
	}()

	// Drain reads so close frames and pings are processed.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// pollVersion watches the version counter and broadcasts on change.
func (h *Hub) pollVersion() {
	defer h.wg.Done()

	ticker := time.NewTicker(versionPollInterval)
	defer ticker.Stop()

	var lastVersion int64 = -1

	for {
		select {
		case <-h.stopCh:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), versionPollInterval)
			version, err := h.redisRepo.GetVersion(ctx)
			cancel()
			if err != nil {
				log.Printf("Failed to read leaderboard version: %v", err)
				continue
			}

			if lastVersion >= 0 && version != lastVersion {
				h.Broadcast(Message{Type: "VERSION_UPDATE", Version: version})
			}
			lastVersion = version
		}
	}
}
