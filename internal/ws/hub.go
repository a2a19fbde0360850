package ws

import (
	"log"
	"sync"
)

// Hub tracks every live connection plus per-team delivery groups. Team
// group membership is established at team join/creation time and lasts for
// the life of the connection.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	teams   map[uint]map[string]*Client
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		teams:   make(map[uint]map[string]*Client),
	}
}

func (h *Hub) Add(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID] = client
	log.Printf("ws: client %s connected (total: %d)", client.ID, len(h.clients))
}

func (h *Hub) Remove(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if client, ok := h.clients[connID]; ok {
		client.Close()
		delete(h.clients, connID)
	}
	for teamID, group := range h.teams {
		delete(group, connID)
		if len(group) == 0 {
			delete(h.teams, teamID)
		}
	}
	log.Printf("ws: client %s disconnected", connID)
}

func (h *Hub) JoinTeam(teamID uint, connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, ok := h.clients[connID]
	if !ok {
		return
	}
	if h.teams[teamID] == nil {
		h.teams[teamID] = make(map[string]*Client)
	}
	h.teams[teamID][connID] = client
}

func (h *Hub) LeaveTeam(teamID uint, connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if group, ok := h.teams[teamID]; ok {
		delete(group, connID)
		if len(group) == 0 {
			delete(h.teams, teamID)
		}
	}
}

// Broadcast pushes an event to every connection. Satisfies the game
// machine's Broadcaster port.
func (h *Hub) Broadcast(event string, data any) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		client.Send(event, data)
	}
}

// BroadcastToTeam pushes a team-scoped event to the team's delivery group.
func (h *Hub) BroadcastToTeam(teamID uint, event string, data any) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.teams[teamID] {
		client.Send(event, data)
	}
}
