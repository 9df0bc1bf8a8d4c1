// Package object holds the simulation entities: snakes, consumables and the spawner.
package object

import "github.com/tomz197/snake/internal/grid"

// RNG is the random source entities draw from. *rand.Rand from golang.org/x/exp/rand satisfies it.
type RNG interface {
	Intn(n int) int
}

// Color is a 24-bit RGB color.
type Color struct {
	R, G, B uint8
}

// RandomColor picks a color with every channel in [5, 200], dark enough to read on a light cell border.
func RandomColor(rng RNG) Color {
	return Color{
		R: uint8(5 + rng.Intn(196)),
		G: uint8(5 + rng.Intn(196)),
		B: uint8(5 + rng.Intn(196)),
	}
}

// RandomDirection picks one of the four movement directions.
func RandomDirection(rng RNG) grid.Direction {
	return grid.Directions[rng.Intn(len(grid.Directions))]
}
