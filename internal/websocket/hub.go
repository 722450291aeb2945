package websocket

import (
	"encoding/json"
	"sync"
)

// BalanceUpdate is pushed to a user's dashboard whenever their wallet
// balance changes.
type BalanceUpdate struct {
	AccountID string `json:"account_id"`
	Balance   string `json:"balance"`
}

// Hub fans balance updates out to the connections of a single user. A
// user can have several dashboards open at once.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[*Client]struct{})}
}

func (h *Hub) Register(userID string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.subs[userID]
	if !ok {
		set = make(map[*Client]struct{})
		h.subs[userID] = set
	}
	set[client] = struct{}{}
}

func (h *Hub) Unregister(userID string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.subs[userID]
	if !ok {
		return
	}
	delete(set, client)
	if len(set) == 0 {
		delete(h.subs, userID)
	}
}

// BroadcastBalance drops the update for slow clients rather than block
// the committing request.
func (h *Hub) BroadcastBalance(userID string, update BalanceUpdate) {
	payload, err := json.Marshal(update)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.subs[userID] {
		select {
		case client.send <- payload:
		default:
		}
	}
}
