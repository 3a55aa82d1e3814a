package live

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vango-dev/vtree/pkg/protocol"
)

// Manager tracks the sessions of one server. Sessions created by a page
// render wait for their WebSocket; those that never connect are swept
// after the pending timeout.
type Manager struct {
	server *Server

	mu       sync.RWMutex
	sessions map[string]*Session

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func newManager(srv *Server) *Manager {
	return &Manager{
		server:   srv,
		sessions: make(map[string]*Session),
		stop:     make(chan struct{}),
	}
}

// Create starts a session for app under a fresh ID.
func (m *Manager) Create(app App) *Session {
	s := newSession(uuid.NewString(), m.server, app)
	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()
	m.server.metrics.sessionsTotal.Inc()
	m.server.logger.Debug("session created", "session", s.id)
	return s
}

// Get returns the session with the given ID.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Each calls fn for every live session.
func (m *Manager) Each(fn func(*Session)) {
	m.mu.RLock()
	list := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		list = append(list, s)
	}
	m.mu.RUnlock()
	for _, s := range list {
		fn(s)
	}
}

func (m *Manager) remove(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// startSweeper drops pending sessions older than the pending timeout.
func (m *Manager) startSweeper() {
	timeout := m.server.config.PendingTimeout
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(max(timeout/2, time.Millisecond))
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.sweep(time.Now().Add(-timeout))
			case <-m.stop:
				return
			}
		}
	}()
}

// sweep closes sessions created before cutoff that never connected.
func (m *Manager) sweep(cutoff time.Time) int {
	var stale []*Session
	m.Each(func(s *Session) {
		if !s.Connected() && s.created.Before(cutoff) {
			stale = append(stale, s)
		}
	})
	for _, s := range stale {
		s.Close(protocol.CloseGoingAway, "session expired")
	}
	return len(stale)
}

// CloseAll stops the sweeper and closes every session.
func (m *Manager) CloseAll(reason protocol.CloseReason, message string) {
	m.stopOnce.Do(func() { close(m.stop) })
	m.wg.Wait()
	m.Each(func(s *Session) { s.Close(reason, message) })
}
