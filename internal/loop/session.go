package loop

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"
	"golang.org/x/exp/rand"

	"github.com/tomz197/snake/internal/audio"
	"github.com/tomz197/snake/internal/config"
	"github.com/tomz197/snake/internal/grid"
	loopcfg "github.com/tomz197/snake/internal/loop/config"
	"github.com/tomz197/snake/internal/object"
)

// ErrInvalidPlayers is returned when a session is created for anything but one or two players.
var ErrInvalidPlayers = errors.New("loop: player count must be 1 or 2")

// Options configures a new session. Zero values pick the defaults.
type Options struct {
	Settings   config.Settings // GameSpeed 0 means the default speed
	Players    int             // 1 or 2
	Sink       audio.Sink      // nil plays nothing
	Seed       uint64          // RNG seed for directions, colors and spawns
	Logger     *log.Logger     // nil discards
	World      grid.World      // zero value uses the default grid size
	Weights    object.Weights  // nil uses the default spawn table
	BaseSpeed  float64         // cells per second before modifiers; 0 uses the default
	OnGameOver func(r Result)  // called once per round when it ends
}

// Session owns one game: its snakes, the consumable pool and the lifecycle state.
// It is driven one tick at a time by Step and is not safe for concurrent use;
// renderers read from Snapshot.
type Session struct {
	state      State
	players    int
	world      grid.World
	snakes     []*object.Snake
	pool       []object.Consumable
	coord      *Coordinator
	spawner    *object.Spawner
	rng        *rand.Rand
	sink       audio.Sink
	logger     *log.Logger
	gameSpeed  float64
	baseSpeed  float64
	result     Result
	finished   bool // result holds a final standing
	onGameOver func(Result)
	tick       uint64
	moved      []bool
}

// New creates a running session.
func New(opts Options) (*Session, error) {
	if opts.Players != 1 && opts.Players != 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPlayers, opts.Players)
	}

	world := opts.World
	if world == (grid.World{}) {
		world = grid.World{Width: loopcfg.GridWidth, Height: loopcfg.GridHeight}
	}
	world, err := grid.NewWorld(world.Width, world.Height)
	if err != nil {
		return nil, err
	}

	weights := opts.Weights
	if weights == nil {
		weights = object.DefaultWeights()
	}
	rng := rand.New(rand.NewSource(opts.Seed))
	spawner, err := object.NewSpawner(world, rng, weights)
	if err != nil {
		return nil, err
	}

	sink := opts.Sink
	if sink == nil {
		sink = audio.Nop{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	baseSpeed := opts.BaseSpeed
	if baseSpeed <= 0 {
		baseSpeed = loopcfg.BaseSpeed
	}
	gameSpeed := opts.Settings.GameSpeed
	if gameSpeed == 0 {
		gameSpeed = loopcfg.DefaultGameSpeed
	}

	s := &Session{
		state:      StateRunning,
		players:    opts.Players,
		world:      world,
		coord:      NewCoordinator(world, spawner),
		spawner:    spawner,
		rng:        rng,
		sink:       sink,
		logger:     logger,
		gameSpeed:  config.ClampGameSpeed(gameSpeed),
		baseSpeed:  baseSpeed,
		onGameOver: opts.OnGameOver,
		moved:      make([]bool, opts.Players),
	}
	for i := range opts.Players {
		s.snakes = append(s.snakes, object.NewSnake(i, s.spawnPoint(i), rng))
	}
	s.pool = spawner.Reconcile(nil, 0)

	s.logger.Debug("session created", "players", opts.Players, "world", fmt.Sprintf("%dx%d", world.Width, world.Height), "gameSpeed", s.gameSpeed)
	return s, nil
}

// spawnPoint returns where player i starts: the center for a single player,
// the middle row at a quarter and three quarters of the width for two.
func (s *Session) spawnPoint(i int) grid.Cell {
	if s.players == 1 {
		return s.world.Center()
	}
	x := s.world.Width / 4
	if i == 1 {
		x = s.world.Width * 3 / 4
	}
	return grid.Cell{X: x, Y: s.world.Height / 2}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Players returns the number of snakes in the session.
func (s *Session) Players() int {
	return len(s.snakes)
}

// GameSpeed returns the clamped global speed scalar.
func (s *Session) GameSpeed() float64 {
	return s.gameSpeed
}

// Step runs one tick with the input events collected since the previous tick.
func (s *Session) Step(events []Event) {
	s.tick++
	switch s.state {
	case StateRunning:
		s.stepRunning(events)
	case StatePaused:
		s.stepPaused(events)
	case StateGameOver:
		s.stepGameOver(events)
	}
}

func (s *Session) stepRunning(events []Event) {
	// 1. Input
	for _, e := range events {
		switch e.Action {
		case ActionBack, ActionQuit:
			s.transition(StateExited, "by", e.Action)
			return
		case ActionTurn:
			if sn := s.snake(e.Player); sn != nil {
				sn.Turn(e.Dir)
			}
		case ActionPause:
			if sn := s.snake(e.Player); sn != nil {
				sn.Paused = true
				s.transition(StatePaused, "player", e.Player)
				return
			}
		case ActionSprint:
			if sn := s.snake(e.Player); sn != nil {
				sn.ToggleSprint()
				s.sink.Play(audio.SprintToggle)
			}
		}
	}

	// 2. Movement
	dead := make([]bool, len(s.snakes))
	for i, sn := range s.snakes {
		s.moved[i] = false
		if !sn.ShouldMove(s.baseSpeed, s.gameSpeed) {
			continue
		}
		sn.UpdateEffectTimer()
		if sn.Advance(s.world) {
			s.moved[i] = true
		} else {
			dead[i] = true
		}
	}

	// 3. Snakes running into each other
	for i, hit := range s.coord.CrossCollisions(s.snakes, s.moved) {
		dead[i] = dead[i] || hit
	}

	// 4. Death, or consumption and refill
	if slices.Contains(dead, true) {
		s.gameOver(dead)
		return
	}
	s.pool = s.coord.Consume(s.snakes, s.pool, s.sink)
}

func (s *Session) stepPaused(events []Event) {
	for _, e := range events {
		switch e.Action {
		case ActionBack, ActionQuit:
			s.transition(StateExited, "by", e.Action)
			return
		case ActionPause:
			for _, sn := range s.snakes {
				sn.Paused = false
			}
			s.transition(StateRunning, "player", e.Player)
			return
		}
	}
}

func (s *Session) stepGameOver(events []Event) {
	for _, e := range events {
		switch e.Action {
		case ActionBack, ActionQuit:
			s.transition(StateExited, "by", e.Action)
			return
		case ActionRestart:
			s.restart()
			s.transition(StateRunning)
			return
		}
	}
}

func (s *Session) gameOver(dead []bool) {
	s.sink.Play(audio.Death)
	s.result = s.standing(dead)
	s.finished = true
	s.transition(StateGameOver, "scores", s.result.Scores())
	if s.onGameOver != nil {
		s.onGameOver(s.Result())
	}
}

// restart puts every snake back at its spawn point and refills the pool from scratch.
func (s *Session) restart() {
	for i, sn := range s.snakes {
		sn.Reset(s.spawnPoint(i), s.rng)
	}
	s.pool = s.spawner.Reconcile(s.pool[:0], 0)
	s.result = Result{}
	s.finished = false
}

func (s *Session) transition(to State, keyvals ...any) {
	from := s.state
	s.state = to
	s.logger.Debug("session state", append([]any{"from", from, "to", to, "tick", s.tick}, keyvals...)...)
}

func (s *Session) snake(player int) *object.Snake {
	if player < 0 || player >= len(s.snakes) {
		return nil
	}
	return s.snakes[player]
}

func (s *Session) standing(dead []bool) Result {
	r := Result{Players: make([]PlayerResult, len(s.snakes))}
	for i, sn := range s.snakes {
		r.Players[i] = PlayerResult{
			Player: i,
			Score:  sn.Score,
			Length: sn.Length,
			Died:   dead != nil && dead[i],
		}
	}
	return r
}

// Result returns the final standing of the last round once it has ended,
// or the current scores while a round is still in play.
func (s *Session) Result() Result {
	if s.finished {
		r := s.result
		r.Players = slices.Clone(r.Players)
		return r
	}
	return s.standing(nil)
}

// Finished reports whether the last round ended in a death (as opposed to
// the player leaving mid-round).
func (s *Session) Finished() bool {
	return s.finished
}

// Snapshot returns a deep copy of the renderable state.
func (s *Session) Snapshot() Frame {
	f := Frame{
		State:       s.state,
		World:       s.world,
		Snakes:      make([]*object.Snake, len(s.snakes)),
		Consumables: slices.Clone(s.pool),
		Result:      s.Result(),
		Tick:        s.tick,
	}
	for i, sn := range s.snakes {
		f.Snakes[i] = sn.Clone()
	}
	return f
}
