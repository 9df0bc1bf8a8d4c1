// Package server tracks the game sessions of a multi-connection host (the SSH
// binary): who is connected, the shared top-scores board, and graceful shutdown.
// Every connection still runs its own local session; nothing of the game state is shared.
package server

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/snake/internal/loop"
	"github.com/tomz197/snake/internal/loop/config"
)

// Hub manages connected sessions and the leaderboard.
type Hub struct {
	mu        sync.RWMutex
	sessions  map[int]*Handle
	nextID    int
	scores    []TopScoreEntry                 // Best recorded scores, sorted, capped at maxScores
	recorded  int                             // Entries recorded so far
	top       atomic.Pointer[[]TopScoreEntry] // Read-only copy of scores
	shutdown  atomic.Bool
	logger    *log.Logger
	maxScores int
}

// Handle is one connection's registration with the hub.
type Handle struct {
	ID       int
	Username string

	ctx    context.Context
	cancel context.CancelFunc
	hub    *Hub
	once   sync.Once
}

// NewHub creates an empty hub. A nil logger discards.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	h := &Hub{
		sessions:  make(map[int]*Handle),
		nextID:    1,
		logger:    logger.WithPrefix("hub"),
		maxScores: config.TopScoresShown,
	}
	empty := []TopScoreEntry{}
	h.top.Store(&empty)
	return h
}

// Register adds a session for username. The handle's context is derived from
// parent and is cancelled when the hub shuts down or the handle is closed.
func (h *Hub) Register(parent context.Context, username string) *Handle {
	ctx, cancel := context.WithCancel(parent)

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	handle := &Handle{ID: id, Username: username, ctx: ctx, cancel: cancel, hub: h}
	h.sessions[id] = handle
	active := len(h.sessions)
	h.mu.Unlock()

	h.logger.Info("session registered", "id", id, "user", username, "active", active)
	return handle
}

// Context returns the session context.
func (hd *Handle) Context() context.Context {
	return hd.ctx
}

// Record adds the final scores of a round to the leaderboard. In a two-player
// round each player gets an entry, suffixed with the player number.
func (hd *Handle) Record(r loop.Result) {
	hd.hub.logger.Debug("round finished", "id", hd.ID, "user", hd.Username, "best", r.Best())
	for _, p := range r.Players {
		name := hd.Username
		if len(r.Players) > 1 {
			name = playerName(hd.Username, p.Player)
		}
		hd.hub.record(TopScoreEntry{Username: name, Score: p.Score, clientID: hd.ID})
	}
}

// Close unregisters the session and cancels its context. Safe to call more than once.
func (hd *Handle) Close() {
	hd.once.Do(func() {
		hd.cancel()
		hd.hub.mu.Lock()
		delete(hd.hub.sessions, hd.ID)
		active := len(hd.hub.sessions)
		hd.hub.mu.Unlock()
		hd.hub.logger.Info("session closed", "id", hd.ID, "user", hd.Username, "active", active)
	})
}

// Active returns the number of registered sessions.
func (h *Hub) Active() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// ShuttingDown reports whether Shutdown has been called.
func (h *Hub) ShuttingDown() bool {
	return h.shutdown.Load()
}

// Shutdown gracefully shuts down all sessions: it flags the shutdown so clients
// can show a notice, waits for notice, cancels every session context and then
// waits for them to close (up to timeout). Returns the number still open.
func (h *Hub) Shutdown(notice, timeout time.Duration) int {
	h.shutdown.Store(true)
	h.logger.Info("shutting down", "active", h.Active())

	if notice > 0 {
		time.Sleep(notice)
	}

	h.mu.RLock()
	for _, handle := range h.sessions {
		handle.cancel()
	}
	h.mu.RUnlock()

	// Wait for all sessions to close, or timeout
	deadline := time.After(timeout)
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()

	for {
		remaining := h.Active()
		if remaining == 0 {
			return 0
		}
		select {
		case <-deadline:
			h.logger.Warn("sessions still open after shutdown timeout", "remaining", remaining)
			return remaining
		case <-ticker.C:
		}
	}
}
