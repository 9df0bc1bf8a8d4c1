package object

import (
	"math"
	"slices"

	"github.com/tomz197/snake/internal/grid"
	"github.com/tomz197/snake/internal/loop/config"
)

// Effect is a timed speed modifier granted by a consumable.
type Effect struct {
	Magnitude float64 // Multiplicative speed factor
	Duration  int     // Number of moves the effect lasts
}

// Snake is a player-controlled body on the grid.
type Snake struct {
	ID        int          // Player index (0 or 1)
	Color     Color        // Body color
	Body      []grid.Cell  // Occupied cells, head first
	Direction grid.Direction
	Length    int // Target length; the body is trimmed to this after each advance
	Score     int
	Paused    bool

	effect      Effect // Active consumable effect (valid while effectTimer > 0)
	effectTimer int    // Moves remaining on the active effect
	sprinting   bool   // Sprint toggle, applies whenever no effect is active
	moveAcc     int    // Ticks accumulated since the last move
}

// NewSnake creates a length-1 snake at spawn with a random direction and color.
func NewSnake(id int, spawn grid.Cell, rng RNG) *Snake {
	s := &Snake{ID: id, Color: RandomColor(rng)}
	s.Reset(spawn, rng)
	return s
}

// Reset returns the snake to its initial condition at spawn.
// The color is kept so players can still tell their snake apart after a restart.
func (s *Snake) Reset(spawn grid.Cell, rng RNG) {
	s.Body = append(s.Body[:0], spawn)
	s.Direction = RandomDirection(rng)
	s.Length = 1
	s.Score = 0
	s.Paused = false
	s.effect = Effect{}
	s.effectTimer = 0
	s.sprinting = false
	s.moveAcc = 0
}

// Head returns the head cell.
func (s *Snake) Head() grid.Cell {
	return s.Body[0]
}

// Turn sets the movement direction. A direction pointing back at the second
// segment is ignored while the body is longer than one cell. The check is
// against the neck rather than the pending direction, so several turns
// between two moves still can't fold the head back.
func (s *Snake) Turn(d grid.Direction) {
	if len(s.Body) > 1 && d == towards(s.Body[0], s.Body[1]) {
		return
	}
	s.Direction = d
}

// towards returns the unit step from a to the adjacent cell b, folding
// wrap-around jumps (W-1 apart) back into a single step.
func towards(a, b grid.Cell) grid.Direction {
	return grid.Direction{DX: unitStep(b.X - a.X), DY: unitStep(b.Y - a.Y)}
}

func unitStep(d int) int {
	switch {
	case d == 1 || d < -1:
		return 1
	case d == -1 || d > 1:
		return -1
	}
	return 0
}

// Advance moves the head one cell. Returns false (and leaves the body untouched)
// when the new head would land on the snake's own body.
func (s *Snake) Advance(w grid.World) bool {
	next := w.Advance(s.Head(), s.Direction)

	// The head and the segment behind it can't be hit (reversal is blocked),
	// and the tail is vacated this move unless the snake is still growing.
	end := len(s.Body)
	if end >= s.Length {
		end--
	}
	for i := 2; i < end; i++ {
		if s.Body[i] == next {
			return false
		}
	}

	s.Body = slices.Insert(s.Body, 0, next)
	if len(s.Body) > s.Length {
		s.Body = s.Body[:s.Length]
	}
	return true
}

// Grow raises the target length by one; the body catches up on the next advances.
func (s *Snake) Grow() {
	s.Length++
}

// AddScore adds points to the score.
func (s *Snake) AddScore(points int) {
	s.Score += points
}

// ApplyEffect starts a timed speed effect, replacing any active one.
func (s *Snake) ApplyEffect(e Effect) {
	if e.Duration <= 0 {
		return
	}
	s.effect = e
	s.effectTimer = e.Duration
}

// UpdateEffectTimer counts the active effect down by one move.
// The effect ends when the timer reaches exactly zero.
func (s *Snake) UpdateEffectTimer() {
	if s.effectTimer > 0 {
		s.effectTimer--
		if s.effectTimer == 0 {
			s.effect = Effect{}
		}
	}
}

// EffectRemaining returns the number of moves left on the active effect.
func (s *Snake) EffectRemaining() int {
	return s.effectTimer
}

// ToggleSprint flips the sprint flag. An active effect keeps precedence until it expires.
func (s *Snake) ToggleSprint() {
	s.sprinting = !s.sprinting
}

// Sprinting reports whether sprint is toggled on.
func (s *Snake) Sprinting() bool {
	return s.sprinting
}

// TogglePause flips the per-player pause flag.
func (s *Snake) TogglePause() {
	s.Paused = !s.Paused
}

// SpeedModifier returns the factor applied to the base speed: the active
// effect if any, otherwise the sprint multiplier when sprinting, otherwise 1.
func (s *Snake) SpeedModifier() float64 {
	switch {
	case s.effectTimer > 0:
		return s.effect.Magnitude
	case s.sprinting:
		return config.SprintMultiplier
	default:
		return 1.0
	}
}

// MoveInterval returns how many ticks pass between moves at the current speed.
func (s *Snake) MoveInterval(baseSpeed, gameSpeed float64) int {
	rate := baseSpeed * s.SpeedModifier() * gameSpeed
	if rate <= 0 {
		return math.MaxInt
	}
	n := int(math.Round(config.TicksPerSecond / rate))
	if n < 1 {
		n = 1
	}
	return n
}

// ShouldMove advances the move accumulator by one tick and reports whether
// the snake is due to move this tick.
func (s *Snake) ShouldMove(baseSpeed, gameSpeed float64) bool {
	s.moveAcc++
	if s.moveAcc >= s.MoveInterval(baseSpeed, gameSpeed) {
		s.moveAcc = 0
		return true
	}
	return false
}

// Clone returns a deep copy, safe to hand to a renderer.
func (s *Snake) Clone() *Snake {
	c := *s
	c.Body = slices.Clone(s.Body)
	return &c
}
