package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/hanzla-outlet/outlet-backend/pkg/logger"
)

const (
	MessageTypeStockUpdate = "stock_update"
	MessageTypeSubscribe   = "subscribe"
	MessageTypeUnsubscribe = "unsubscribe"

	maxMessagesPerSecond = 10
	sendBufferSize       = 64
)

// StockUpdate is pushed to every client watching the product.
type StockUpdate struct {
	Type      string `json:"type"`
	ProductID uint   `json:"product_id"`
	Stock     int    `json:"stock"`
}

// ClientMessage narrows or widens the set of products a client watches.
type ClientMessage struct {
	Type       string `json:"type"`
	ProductIDs []uint `json:"product_ids"`
}

// Client is one stock feed connection. UserID is 0 for guests.
type Client struct {
	Hub    *Hub
	Conn   *Conn
	UserID uint
	Send   chan []byte

	// products is empty while the client watches the whole catalog
	products map[uint]bool
	mu       sync.RWMutex

	messageCount  int
	lastResetTime time.Time
	rateMu        sync.Mutex
}

func NewClient(hub *Hub, conn *Conn, userID uint) *Client {
	return &Client{
		Hub:      hub,
		Conn:     conn,
		UserID:   userID,
		Send:     make(chan []byte, sendBufferSize),
		products: make(map[uint]bool),
	}
}

// Watches reports whether the client should receive updates for productID.
func (c *Client) Watches(productID uint) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.products) == 0 || c.products[productID]
}

type broadcastMessage struct {
	productID uint
	payload   []byte
}

// Hub fans stock updates out to connected clients.
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *broadcastMessage

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		broadcast:  make(chan *broadcastMessage, 1024),
	}
}

// Run serves the hub until ctx is done, then closes every client's Send channel.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				close(client.Send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			logger.Info("Stock feed hub stopped", nil)
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			logger.Info("Stock feed client registered", map[string]interface{}{
				"user_id":       client.UserID,
				"total_clients": total,
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			logger.Info("Stock feed client unregistered", map[string]interface{}{
				"user_id":       client.UserID,
				"total_clients": total,
			})

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				if !client.Watches(message.productID) {
					continue
				}
				select {
				case client.Send <- message.payload:
				default:
					go h.Unregister(client)
					logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
						"user_id": client.UserID,
					})
				}
			}
			h.mu.RUnlock()
		}
	}
}

// PublishStock queues a stock update. It never blocks; when the queue is full
// the update is dropped and the next one for the product supersedes it.
func (h *Hub) PublishStock(productID uint, stock int) {
	data, err := json.Marshal(StockUpdate{
		Type:      MessageTypeStockUpdate,
		ProductID: productID,
		Stock:     stock,
	})
	if err != nil {
		logger.Error("Failed to marshal stock update", err, nil)
		return
	}

	select {
	case h.broadcast <- &broadcastMessage{productID: productID, payload: data}:
	default:
		logger.Warn("Broadcast channel full, stock update dropped", map[string]interface{}{
			"product_id": productID,
		})
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleClientMessage applies subscribe and unsubscribe requests, rate limited per client.
func (h *Hub) HandleClientMessage(client *Client, message []byte) {
	client.rateMu.Lock()
	now := time.Now()
	if now.Sub(client.lastResetTime) >= time.Second {
		client.messageCount = 0
		client.lastResetTime = now
	}
	client.messageCount++
	count := client.messageCount
	client.rateMu.Unlock()

	if count > maxMessagesPerSecond {
		logger.Warn("Rate limit exceeded", map[string]interface{}{
			"user_id": client.UserID,
			"count":   count,
		})
		return
	}

	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		logger.Warn("Failed to parse client message", map[string]interface{}{
			"user_id": client.UserID,
			"error":   err.Error(),
		})
		return
	}

	client.mu.Lock()
	defer client.mu.Unlock()

	switch msg.Type {
	case MessageTypeSubscribe:
		for _, id := range msg.ProductIDs {
			client.products[id] = true
		}
	case MessageTypeUnsubscribe:
		if len(msg.ProductIDs) == 0 {
			client.products = make(map[uint]bool)
			return
		}
		for _, id := range msg.ProductIDs {
			delete(client.products, id)
		}
	default:
		logger.Debug("Ignoring unknown client message", map[string]interface{}{
			"user_id": client.UserID,
			"type":    msg.Type,
		})
	}
}
