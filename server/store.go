package server

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"connectfour/engine"
)

var errMatchNotFound = errors.New("match not found")

// session is one live match plus its subscribed websocket connections.
// The mutex serializes steps, human moves, resets and broadcasts; the
// engine itself expects one decision at a time.
type session struct {
	id       string
	seats    [2]SeatConfig
	mu       sync.Mutex
	match    *engine.Match
	lastStep *engine.Step
	conns    map[*websocket.Conn]bool
}

func (s *session) unsubscribe(conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, conn)
}

// broadcast pushes the current state to every subscriber, dropping
// connections that fail to accept the write. Callers hold s.mu.
func (s *session) broadcast() {
	state := snapshotLocked(s)
	for conn := range s.conns {
		if err := conn.WriteJSON(state); err != nil {
			conn.Close()
			delete(s.conns, conn)
		}
	}
}

// store is the in-memory match registry.
type store struct {
	mu       sync.RWMutex
	sessions map[string]*session
}

func newStore() *store {
	return &store{sessions: make(map[string]*session)}
}

func (st *store) create(match *engine.Match, seats [2]SeatConfig) *session {
	s := &session{
		id:    uuid.NewString(),
		seats: seats,
		match: match,
		conns: make(map[*websocket.Conn]bool),
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[s.id] = s
	return s
}

func (st *store) get(id string) (*session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, errMatchNotFound
	}
	return s, nil
}

func (st *store) list() []*session {
	st.mu.RLock()
	defer st.mu.RUnlock()
	sessions := make([]*session, 0, len(st.sessions))
	for _, s := range st.sessions {
		sessions = append(sessions, s)
	}
	return sessions
}
