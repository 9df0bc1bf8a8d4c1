package server

import (
	"fmt"
	"slices"
)

// TopScoreEntry represents a single entry on the leaderboard.
type TopScoreEntry struct {
	Username string
	Score    int
	clientID int // Used for deterministic tie-break when scores are equal
	seq      int // Insertion order within the hub
}

// TopScores returns the best recorded scores, best first. The slice must not be modified.
func (h *Hub) TopScores() []TopScoreEntry {
	return *h.top.Load()
}

// record inserts an entry, keeps the list sorted and capped, and publishes a new snapshot.
func (h *Hub) record(e TopScoreEntry) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.recorded++
	e.seq = h.recorded

	h.scores = append(h.scores, e)
	slices.SortStableFunc(h.scores, compareEntries)
	if len(h.scores) > h.maxScores {
		h.scores = h.scores[:h.maxScores]
	}

	top := slices.Clone(h.scores)
	h.top.Store(&top)
}

// compareEntries orders by score descending; ties go to the earlier client, then the earlier entry.
func compareEntries(a, b TopScoreEntry) int {
	switch {
	case a.Score != b.Score:
		return b.Score - a.Score
	case a.clientID != b.clientID:
		return a.clientID - b.clientID
	default:
		return a.seq - b.seq
	}
}

func playerName(username string, player int) string {
	if username == "" {
		return fmt.Sprintf("P%d", player+1)
	}
	return fmt.Sprintf("%s (P%d)", username, player+1)
}
