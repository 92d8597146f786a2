package websockets

import (
	"sync"

	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/logger"
	"github.com/gofiber/websocket/v2"
)

// Manager tracks connected dashboard clients and pushes status events to
// them. Clients only listen; inbound frames are drained and dropped.
type Manager struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]bool
	log   logger.Logger
}

type event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

func New() *Manager {
	return &Manager{
		conns: make(map[*websocket.Conn]bool),
		log:   logger.New("websockets"),
	}
}

func (m *Manager) HandleWebSocket(c *websocket.Conn) {
	m.mu.Lock()
	m.conns[c] = true
	count := len(m.conns)
	m.mu.Unlock()

	m.log.Debug("client connected", "clients", count)

	defer func() {
		m.mu.Lock()
		delete(m.conns, c)
		m.mu.Unlock()
		_ = c.Close()
	}()

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			return
		}
	}
}

// Broadcast sends one typed event to every connected client. Write
// failures drop the connection; the read loop notices on its next read.
func (m *Manager) Broadcast(eventType string, payload any) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for conn := range m.conns {
		if err := conn.WriteJSON(event{Type: eventType, Payload: payload}); err != nil {
			m.log.Debug("dropping client after write failure", "error", err)
			delete(m.conns, conn)
			_ = conn.Close()
		}
	}
}

func (m *Manager) ClientCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.conns)
}
