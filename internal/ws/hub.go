package ws

import (
	"encoding/json"
	"sync"
)

// Client is a single WebSocket subscription with tenant context.
type Client struct {
	UserID    uint
	CompanyID uint
	Send      chan []byte
	Hub       *Hub
	mu        sync.Mutex
	closed    bool
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
	if c.Hub != nil {
		c.Hub.unregister(c)
	}
}

// Hub maintains active subscriptions and broadcasts view-invalidation
// events to every connection of a tenant.
type Hub struct {
	mu        sync.RWMutex
	clients   map[*Client]struct{}
	byCompany map[uint]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients:   make(map[*Client]struct{}),
		byCompany: make(map[uint]map[*Client]struct{}),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.Hub = h
	h.clients[c] = struct{}{}
	if h.byCompany[c.CompanyID] == nil {
		h.byCompany[c.CompanyID] = make(map[*Client]struct{})
	}
	h.byCompany[c.CompanyID][c] = struct{}{}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
	if m := h.byCompany[c.CompanyID]; m != nil {
		delete(m, c)
		if len(m) == 0 {
			delete(h.byCompany, c.CompanyID)
		}
	}
}

// BroadcastToCompany delivers payload to all of a tenant's connections.
// Slow consumers are skipped, never waited on.
func (h *Hub) BroadcastToCompany(companyID uint, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.mu.RLock()
	m := h.byCompany[companyID]
	if m == nil {
		h.mu.RUnlock()
		return
	}
	clients := make([]*Client, 0, len(m))
	for c := range m {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	for _, c := range clients {
		select {
		case c.Send <- data:
		default:
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
