// Package hub fans grievance events out to connected admin dashboards.
package hub

import (
	"context"
	"sync"

	"grievanceportal/backend/internal/models"

	"go.uber.org/zap"
)

type Manager struct {
	mu      sync.RWMutex
	clients map[string]Client

	RegisterCh   chan Client
	UnregisterCh chan Client
	BroadcastCh  chan models.GrievanceEvent

	logger *zap.Logger
	done   chan struct{}
}

func NewManager(logger *zap.Logger) *Manager {
	return &Manager{
		clients:      make(map[string]Client),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		BroadcastCh:  make(chan models.GrievanceEvent, 64),
		logger:       logger,
		done:         make(chan struct{}),
	}
}

// Run owns the client set until ctx is cancelled, then closes every client.
func (m *Manager) Run(ctx context.Context) {
	defer close(m.done)
	for {
		select {
		case <-ctx.Done():
			m.closeAll()
			return

		case c := <-m.RegisterCh:
			m.mu.Lock()
			m.clients[c.GetID()] = c
			m.mu.Unlock()
			m.logger.Debug("dashboard connected", zap.String("client_id", c.GetID()), zap.String("user_id", c.GetUserID()))

		case c := <-m.UnregisterCh:
			m.remove(c.GetID())

		case event := <-m.BroadcastCh:
			m.broadcast(event)
		}
	}
}

func (m *Manager) broadcast(event models.GrievanceEvent) {
	m.mu.RLock()
	var slow []string
	for id, c := range m.clients {
		select {
		case c.GetSendChannel() <- event:
		default:
			slow = append(slow, id)
		}
	}
	m.mu.RUnlock()

	for _, id := range slow {
		m.logger.Warn("dropping slow dashboard client", zap.String("client_id", id))
		m.remove(id)
	}
}

func (m *Manager) remove(id string) {
	m.mu.Lock()
	c, ok := m.clients[id]
	delete(m.clients, id)
	m.mu.Unlock()
	if ok {
		c.Close()
		m.logger.Debug("dashboard disconnected", zap.String("client_id", id))
	}
}

func (m *Manager) closeAll() {
	m.mu.Lock()
	clients := m.clients
	m.clients = make(map[string]Client)
	m.mu.Unlock()
	for _, c := range clients {
		c.Close()
	}
}

// Register hands c to the hub. It returns false once the hub stopped.
func (m *Manager) Register(c Client) bool {
	select {
	case m.RegisterCh <- c:
		return true
	case <-m.done:
		return false
	}
}

func (m *Manager) Unregister(c Client) {
	select {
	case m.UnregisterCh <- c:
	case <-m.done:
	}
}

// Broadcast queues event for every connected client.
func (m *Manager) Broadcast(event models.GrievanceEvent) {
	select {
	case m.BroadcastCh <- event:
	case <-m.done:
	}
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

func (m *Manager) Has(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.clients[id]
	return ok
}

// Done is closed when Run returns.
func (m *Manager) Done() <-chan struct{} {
	return m.done
}
