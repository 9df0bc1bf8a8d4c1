// Package grid provides the toroidal playfield and wrap-around arithmetic.
package grid

import (
	"errors"
	"fmt"
)

// ErrInvalidSize is returned when a world is constructed with a non-positive dimension.
var ErrInvalidSize = errors.New("grid: world dimensions must be positive")

// Cell is a single grid coordinate.
type Cell struct {
	X, Y int
}

// Direction is a unit step along one axis.
type Direction struct {
	DX, DY int
}

// The four movement directions.
var (
	Up    = Direction{DX: 0, DY: -1}
	Down  = Direction{DX: 0, DY: 1}
	Left  = Direction{DX: -1, DY: 0}
	Right = Direction{DX: 1, DY: 0}
)

// Directions lists all movement directions in a fixed order (for random picks).
var Directions = [4]Direction{Up, Down, Left, Right}

// Opposite returns the reversed direction.
func (d Direction) Opposite() Direction {
	return Direction{DX: -d.DX, DY: -d.DY}
}

// String returns a short name for known directions.
func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("(%d,%d)", d.DX, d.DY)
	}
}

// World is an immutable toroidal playfield: leaving one edge re-enters from the opposite one.
type World struct {
	Width  int
	Height int
}

// NewWorld creates a world of the given size in cells.
func NewWorld(width, height int) (World, error) {
	if width <= 0 || height <= 0 {
		return World{}, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	return World{Width: width, Height: height}, nil
}

// Wrap maps any integer offset back into [0,Width) x [0,Height).
func (w World) Wrap(x, y int) Cell {
	return Cell{X: mod(x, w.Width), Y: mod(y, w.Height)}
}

// Advance moves one step from c in direction d, wrapping each axis independently.
func (w World) Advance(c Cell, d Direction) Cell {
	return w.Wrap(c.X+d.DX, c.Y+d.DY)
}

// Contains reports whether c lies inside the world bounds.
func (w World) Contains(c Cell) bool {
	return c.X >= 0 && c.X < w.Width && c.Y >= 0 && c.Y < w.Height
}

// Cells returns the number of cells in the world.
func (w World) Cells() int {
	return w.Width * w.Height
}

// Center returns the middle cell.
func (w World) Center() Cell {
	return Cell{X: w.Width / 2, Y: w.Height / 2}
}

// mod is Euclidean modulo: the result is always in [0,n).
func mod(v, n int) int {
	r := v % n
	if r < 0 {
		r += n
	}
	return r
}
