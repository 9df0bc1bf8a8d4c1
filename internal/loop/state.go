package loop

import (
	"github.com/tomz197/snake/internal/grid"
	"github.com/tomz197/snake/internal/object"
)

// State is the session lifecycle phase.
type State int

const (
	StateRunning  State = iota // Snakes move (initial)
	StatePaused                // Nothing moves until a player unpauses
	StateGameOver              // A snake died, waiting for restart or back
	StateExited                // Session finished, control returns to the caller
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateGameOver:
		return "game over"
	case StateExited:
		return "exited"
	}
	return "unknown"
}

// PlayerResult is one player's final standing.
type PlayerResult struct {
	Player int
	Score  int
	Length int
	Died   bool
}

// Result holds final scores, one entry per player in player order.
type Result struct {
	Players []PlayerResult
}

// Scores returns the final scores in player order.
func (r Result) Scores() []int {
	scores := make([]int, len(r.Players))
	for i, p := range r.Players {
		scores[i] = p.Score
	}
	return scores
}

// Best returns the highest final score.
func (r Result) Best() int {
	best := 0
	for _, p := range r.Players {
		best = max(best, p.Score)
	}
	return best
}

// Winner returns the index of the sole survivor in a two-player game,
// or -1 when nobody or everybody died.
func (r Result) Winner() int {
	if len(r.Players) < 2 {
		return -1
	}
	winner := -1
	for _, p := range r.Players {
		if p.Died {
			continue
		}
		if winner >= 0 {
			return -1
		}
		winner = p.Player
	}
	return winner
}

// Frame is a frozen copy of everything a renderer needs. Mutating it does not
// affect the session.
type Frame struct {
	State       State
	World       grid.World
	Snakes      []*object.Snake
	Consumables []object.Consumable
	Result      Result // Valid in StateGameOver
	Tick        uint64
}
