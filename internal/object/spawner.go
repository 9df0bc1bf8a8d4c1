package object

import (
	"errors"
	"fmt"

	"github.com/tomz197/snake/internal/grid"
	"github.com/tomz197/snake/internal/loop/config"
)

// ErrInvalidWeights is returned for a malformed spawn weight table.
var ErrInvalidWeights = errors.New("object: invalid spawn weights")

// Weights holds the relative spawn weight of each kind.
type Weights map[Kind]int

// DefaultWeights returns the standard table: common 8, rare 6, epic 4, boost 5, debuff 4.
func DefaultWeights() Weights {
	return Weights{
		KindCommon:      config.WeightCommon,
		KindRare:        config.WeightRare,
		KindEpic:        config.WeightEpic,
		KindSpeedBoost:  config.WeightSpeedBoost,
		KindSpeedDebuff: config.WeightSpeedDebuff,
	}
}

// Spawner generates consumables and keeps their population at the level the score calls for.
type Spawner struct {
	world   grid.World
	rng     RNG
	weights [kindCount]int
	total   int
}

// NewSpawner creates a spawner over world. Every kind must have a non-negative
// weight and the weights must not all be zero.
func NewSpawner(w grid.World, rng RNG, weights Weights) (*Spawner, error) {
	s := &Spawner{world: w, rng: rng}
	if len(weights) != int(kindCount) {
		return nil, fmt.Errorf("%w: want %d kinds, got %d", ErrInvalidWeights, kindCount, len(weights))
	}
	for _, k := range Kinds {
		wt, ok := weights[k]
		if !ok {
			return nil, fmt.Errorf("%w: missing weight for %s", ErrInvalidWeights, k)
		}
		if wt < 0 {
			return nil, fmt.Errorf("%w: negative weight %d for %s", ErrInvalidWeights, wt, k)
		}
		s.weights[k] = wt
		s.total += wt
	}
	if s.total == 0 {
		return nil, fmt.Errorf("%w: all weights are zero", ErrInvalidWeights)
	}
	return s, nil
}

// Spawn draws a weighted random kind at a uniformly random cell.
// Occupied cells are not excluded: spawning under a head is eaten on the next check.
func (s *Spawner) Spawn() Consumable {
	return Consumable{
		Pos:  grid.Cell{X: s.rng.Intn(s.world.Width), Y: s.rng.Intn(s.world.Height)},
		Kind: s.pickKind(),
	}
}

func (s *Spawner) pickKind() Kind {
	r := s.rng.Intn(s.total)
	for _, k := range Kinds {
		if r < s.weights[k] {
			return k
		}
		r -= s.weights[k]
	}
	return Kinds[len(Kinds)-1]
}

// Reconcile tops the pool up to the population for score, or trims the most
// recently added items if it holds too many.
func (s *Spawner) Reconcile(pool []Consumable, score int) []Consumable {
	want := DesiredPopulation(score)
	for len(pool) < want {
		pool = append(pool, s.Spawn())
	}
	if len(pool) > want {
		pool = pool[:want]
	}
	return pool
}

// DesiredPopulation returns how many consumables should be on the grid for the given score.
func DesiredPopulation(score int) int {
	switch {
	case score >= config.PopulationHighScore:
		return config.PopulationHigh
	case score >= config.PopulationMidScore:
		return config.PopulationMid
	default:
		return config.PopulationLow
	}
}
