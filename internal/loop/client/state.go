package client

import (
	"time"

	"github.com/tomz197/snake/internal/draw"
)

// hudRows is the number of terminal rows reserved above the playfield.
const hudRows = 1

// view is what the client is showing on top of the playfield.
// A change of view clears the terminal so the previous overlay does not persist.
type view int

const (
	viewNone     view = iota // Before the first frame
	viewPlaying              // HUD only
	viewPaused               // Pause overlay
	viewGameOver             // Final scores and leaderboard
	viewIdle                 // Inactivity warning
	viewShutdown             // Host is shutting down
	viewTooSmall             // Terminal cannot fit the playfield
)

// clientState holds the per-terminal presentation state.
type clientState struct {
	view       view
	layout     draw.Layout
	termWidth  int
	termHeight int
	lastInput  time.Time // Last key press, for the inactivity timeout
	inactive   bool      // Whether the inactivity warning is up
}

func newClientState() *clientState {
	return &clientState{lastInput: time.Now()}
}
