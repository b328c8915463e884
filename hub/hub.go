// Package hub pushes render models to connected browser sessions over
// websockets. Each session owns its own view-state controller over the
// shared mirrors; every mirror change and every client view command
// produces one fresh push.
package hub

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"forkful/datastore"
	"forkful/mirror"
	"forkful/models"
)

type Hub struct {
	recipes *mirror.Mirror[models.Recipe]
	boards  *mirror.Mirror[models.Board]
	docs    datastore.Documents
	blobs   datastore.Blobs

	mu       sync.Mutex
	sessions map[*Session]bool
	stopped  bool
}

func NewHub(recipes *mirror.Mirror[models.Recipe], boards *mirror.Mirror[models.Board], docs datastore.Documents, blobs datastore.Blobs) *Hub {
	return &Hub{
		recipes:  recipes,
		boards:   boards,
		docs:     docs,
		blobs:    blobs,
		sessions: make(map[*Session]bool),
	}
}

// Start wires the mirrors so every applied snapshot refreshes every
// session.
func (h *Hub) Start() {
	h.recipes.Watch(h.RefreshAll)
	h.boards.Watch(h.RefreshAll)
}

// RefreshAll pushes a recomputed render model to every live session.
func (h *Hub) RefreshAll() {
	h.mu.Lock()
	sessions := make([]*Session, 0, len(h.sessions))
	for s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.mu.Unlock()

	for _, s := range sessions {
		s.pushRender()
	}
}

func (h *Hub) add(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return
	}
	h.sessions[s] = true
}

func (h *Hub) remove(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.sessions[s]; ok {
		delete(h.sessions, s)
		close(s.send)
	}
}

// Stop disconnects every session.
func (h *Hub) Stop() {
	h.mu.Lock()
	h.stopped = true
	sessions := make([]*Session, 0, len(h.sessions))
	for s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.sessions = make(map[*Session]bool)
	h.mu.Unlock()

	for _, s := range sessions {
		close(s.send)
		s.conn.Close()
	}
}

// pushRender marshals the session's current render model onto its send
// queue. A session that has gone away, or one with a full queue, is
// skipped silently rather than blocking the caller.
func (s *Session) pushRender() {
	data, err := json.Marshal(s.ctrl.Render())
	if err != nil {
		log.Printf("hub: render marshal failed: %v", err)
		return
	}
	s.trySend(data)
}

// trySend delivers onto the session queue only while the hub still
// tracks the session. The hub un-tracks a session under the same mutex
// before its send channel ever closes, so a positive membership check
// means the channel is open.
func (s *Session) trySend(data []byte) {
	h := s.hub
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.sessions[s] {
		return
	}
	select {
	case s.send <- data:
	default:
	}
}

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)
