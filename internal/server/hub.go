package server

import (
	"sync"

	"github.com/charmbracelet/log"

	"github.com/lox/pokertables/internal/lobby"
)

// hub tracks open WebSocket connections and pushes table views to them.
type hub struct {
	mu     sync.RWMutex
	conns  map[*Connection]bool
	lobby  *lobby.Lobby
	logger *log.Logger
}

func newHub(l *lobby.Lobby, logger *log.Logger) *hub {
	return &hub{
		conns:  make(map[*Connection]bool),
		lobby:  l,
		logger: logger,
	}
}

func (h *hub) register(c *Connection) {
	h.mu.Lock()
	h.conns[c] = true
	n := len(h.conns)
	h.mu.Unlock()
	h.logger.Debug("Client connected", "total", n)
}

func (h *hub) unregister(c *Connection) {
	h.mu.Lock()
	delete(h.conns, c)
	n := len(h.conns)
	h.mu.Unlock()
	h.logger.Debug("Client disconnected", "total", n)
}

// broadcast sends a fresh view to every connection seated at tableID.
// Connections whose key is no longer seated anywhere are closed.
func (h *hub) broadcast(tableID string) {
	h.mu.RLock()
	conns := make([]*Connection, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		switch h.lobby.FindPlayer(c.key) {
		case tableID:
			c.sendView()
		case "":
			_ = c.Close()
		}
	}
}

func (h *hub) count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

func (h *hub) closeAll() {
	h.mu.RLock()
	conns := make([]*Connection, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.RUnlock()
	for _, c := range conns {
		_ = c.Close()
	}
}
