package loop

import (
	"slices"

	"github.com/tomz197/snake/internal/audio"
	"github.com/tomz197/snake/internal/grid"
	"github.com/tomz197/snake/internal/object"
)

// Coordinator resolves everything that involves more than one entity:
// snakes running into each other, and snakes eating consumables.
type Coordinator struct {
	spawner *object.Spawner
	occ     *grid.Occupancy
}

// NewCoordinator creates a coordinator for the given world. The spawner refills
// the consumable pool after every consumption pass.
func NewCoordinator(w grid.World, spawner *object.Spawner) *Coordinator {
	return &Coordinator{
		spawner: spawner,
		occ:     grid.NewOccupancy(w),
	}
}

// CrossCollisions reports, per snake, whether it died by running into another
// snake this tick. Only snakes that moved can die: a snake whose head lands on
// any cell of another snake (head included) is dead, so a head-on meeting kills both.
func (c *Coordinator) CrossCollisions(snakes []*object.Snake, moved []bool) []bool {
	dead := make([]bool, len(snakes))
	if len(snakes) < 2 {
		return dead
	}

	c.occ.Clear()
	for i, s := range snakes {
		for _, cell := range s.Body {
			c.occ.Insert(cell, i)
		}
	}

	for i, s := range snakes {
		if moved[i] && c.occ.Occupied(s.Head(), i) {
			dead[i] = true
		}
	}
	return dead
}

// Consume lets each snake, in player order, eat at most one consumable under its
// head. An eaten item leaves the pool at once, so two snakes can never both eat it.
// The pool is then reconciled against the highest score and returned.
func (c *Coordinator) Consume(snakes []*object.Snake, pool []object.Consumable, sink audio.Sink) []object.Consumable {
	for _, s := range snakes {
		head := s.Head()
		i := slices.IndexFunc(pool, func(item object.Consumable) bool {
			return item.Pos == head
		})
		if i < 0 {
			continue
		}

		spec := pool[i].Kind.Spec()
		s.Grow()
		s.AddScore(spec.Points)
		if spec.Effect != nil {
			s.ApplyEffect(*spec.Effect)
		}
		sink.Play(spec.Sound)
		pool = slices.Delete(pool, i, i+1)
	}
	return c.spawner.Reconcile(pool, maxScore(snakes))
}

func maxScore(snakes []*object.Snake) int {
	best := 0
	for _, s := range snakes {
		best = max(best, s.Score)
	}
	return best
}
