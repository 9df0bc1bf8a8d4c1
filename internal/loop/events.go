package loop

import (
	"github.com/tomz197/snake/internal/config"
	"github.com/tomz197/snake/internal/grid"
	"github.com/tomz197/snake/internal/input"
)

// Action is what an input event asks the session to do.
type Action int

const (
	ActionTurn    Action = iota // Change a snake's direction
	ActionPause                 // Toggle pause (per player)
	ActionSprint                // Toggle sprint (per player)
	ActionRestart               // Start over after game over
	ActionBack                  // Leave the session, back to the caller
	ActionQuit                  // Leave the session, the process is shutting down
)

func (a Action) String() string {
	switch a {
	case ActionTurn:
		return "turn"
	case ActionPause:
		return "pause"
	case ActionSprint:
		return "sprint"
	case ActionRestart:
		return "restart"
	case ActionBack:
		return "back"
	case ActionQuit:
		return "quit"
	}
	return "unknown"
}

// Event is one discrete input for the session. Player and Dir are only
// meaningful for per-player actions.
type Event struct {
	Action Action
	Player int
	Dir    grid.Direction
}

// Turn returns an event that points player's snake in direction d.
func Turn(player int, d grid.Direction) Event {
	return Event{Action: ActionTurn, Player: player, Dir: d}
}

// Pause returns a pause toggle for player.
func Pause(player int) Event { return Event{Action: ActionPause, Player: player} }

// Sprint returns a sprint toggle for player.
func Sprint(player int) Event { return Event{Action: ActionSprint, Player: player} }

// Restart returns a restart event.
func Restart() Event { return Event{Action: ActionRestart} }

// Back returns a back event.
func Back() Event { return Event{Action: ActionBack} }

// Quit returns a quit event.
func Quit() Event { return Event{Action: ActionQuit} }

// KeyMap translates key names into events using the configured bindings.
// Bindings for players beyond the session's player count are ignored.
type KeyMap struct {
	keys map[string]Event
}

// NewKeyMap builds a key map for the first players bindings in s.
// Ctrl+C always quits.
func NewKeyMap(s config.Settings, players int) KeyMap {
	km := KeyMap{keys: make(map[string]Event)}
	for p := 0; p < players && p < len(s.Players); p++ {
		kb := s.Players[p]
		km.keys[kb.Up] = Turn(p, grid.Up)
		km.keys[kb.Down] = Turn(p, grid.Down)
		km.keys[kb.Left] = Turn(p, grid.Left)
		km.keys[kb.Right] = Turn(p, grid.Right)
		km.keys[kb.Pause] = Pause(p)
		km.keys[kb.Sprint] = Sprint(p)
	}
	km.keys[s.Restart] = Restart()
	km.keys[s.Back] = Back()
	km.keys[input.KeyCtrlC] = Quit()
	delete(km.keys, "")
	return km
}

// Lookup returns the event bound to key.
func (km KeyMap) Lookup(key string) (Event, bool) {
	e, ok := km.keys[key]
	return e, ok
}

// Events translates keys in order, dropping unbound ones.
func (km KeyMap) Events(keys []string) []Event {
	var events []Event
	for _, k := range keys {
		if e, ok := km.Lookup(k); ok {
			events = append(events, e)
		}
	}
	return events
}
