package object

import (
	"errors"
	"testing"

	"github.com/tomz197/snake/internal/grid"
)

// seqRNG returns scripted values (mod n), cycling when exhausted.
type seqRNG struct {
	vals []int
	i    int
}

func (r *seqRNG) Intn(n int) int {
	v := r.vals[r.i%len(r.vals)]
	r.i++
	return v % n
}

func newTestSpawner(t *testing.T) *Spawner {
	t.Helper()
	s, err := NewSpawner(grid.World{Width: 10, Height: 8}, newTestRNG(), DefaultWeights())
	if err != nil {
		t.Fatalf("NewSpawner: %v", err)
	}
	return s
}

func TestNewSpawnerValidatesWeights(t *testing.T) {
	w := grid.World{Width: 5, Height: 5}

	tests := []struct {
		name    string
		weights Weights
	}{
		{"missing kind", Weights{KindCommon: 1, KindRare: 1, KindEpic: 1, KindSpeedBoost: 1}},
		{"negative", Weights{KindCommon: 1, KindRare: -1, KindEpic: 1, KindSpeedBoost: 1, KindSpeedDebuff: 1}},
		{"all zero", Weights{KindCommon: 0, KindRare: 0, KindEpic: 0, KindSpeedBoost: 0, KindSpeedDebuff: 0}},
		{"unknown kind", Weights{KindCommon: 1, KindRare: 1, KindEpic: 1, KindSpeedBoost: 1, Kind(9): 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSpawner(w, newTestRNG(), tt.weights)
			if !errors.Is(err, ErrInvalidWeights) {
				t.Fatalf("expected ErrInvalidWeights, got %v", err)
			}
		})
	}
}

func TestSpawnPicksByWeight(t *testing.T) {
	w := grid.World{Width: 5, Height: 5}
	// Cumulative boundaries for 8/6/4/5/4 (total 27): 0-7 common, 8-13 rare,
	// 14-17 epic, 18-22 boost, 23-26 debuff.
	tests := []struct {
		draw int
		want Kind
	}{
		{0, KindCommon}, {7, KindCommon},
		{8, KindRare}, {13, KindRare},
		{14, KindEpic}, {17, KindEpic},
		{18, KindSpeedBoost}, {22, KindSpeedBoost},
		{23, KindSpeedDebuff}, {26, KindSpeedDebuff},
	}
	for _, tt := range tests {
		// Spawn draws x, y, then the kind.
		rng := &seqRNG{vals: []int{2, 3, tt.draw}}
		s, err := NewSpawner(w, rng, DefaultWeights())
		if err != nil {
			t.Fatal(err)
		}
		c := s.Spawn()
		if c.Kind != tt.want {
			t.Errorf("draw %d: kind = %v, want %v", tt.draw, c.Kind, tt.want)
		}
		if c.Pos != (grid.Cell{X: 2, Y: 3}) {
			t.Errorf("draw %d: pos = %v, want (2,3)", tt.draw, c.Pos)
		}
	}
}

func TestSpawnDistributionRoughlyMatchesWeights(t *testing.T) {
	s := newTestSpawner(t)
	counts := map[Kind]int{}
	const n = 27000
	for i := 0; i < n; i++ {
		c := s.Spawn()
		if !s.world.Contains(c.Pos) {
			t.Fatalf("spawned out of bounds: %v", c.Pos)
		}
		counts[c.Kind]++
	}
	for k, wt := range DefaultWeights() {
		expected := n * wt / 27
		if diff := counts[k] - expected; diff < -expected/10 || diff > expected/10 {
			t.Errorf("%v: %d spawns, expected about %d", k, counts[k], expected)
		}
	}
}

func TestDesiredPopulation(t *testing.T) {
	tests := []struct {
		score int
		want  int
	}{
		{0, 1}, {199, 1}, {200, 3}, {999, 3}, {1000, 5}, {50000, 5},
	}
	for _, tt := range tests {
		if got := DesiredPopulation(tt.score); got != tt.want {
			t.Errorf("DesiredPopulation(%d) = %d, want %d", tt.score, got, tt.want)
		}
	}
}

func TestReconcileGrowsAndTrims(t *testing.T) {
	s := newTestSpawner(t)

	for _, score := range []int{0, 150, 200, 640, 1000, 4000} {
		pool := s.Reconcile(nil, score)
		if len(pool) != DesiredPopulation(score) {
			t.Errorf("score %d: pool = %d, want %d", score, len(pool), DesiredPopulation(score))
		}
	}

	pool := s.Reconcile(nil, 1000)
	first := pool[0]
	pool = s.Reconcile(pool, 0)
	if len(pool) != 1 {
		t.Fatalf("pool = %d after shrink, want 1", len(pool))
	}
	if pool[0] != first {
		t.Errorf("shrink should drop the most recent items, kept %v want %v", pool[0], first)
	}
}

func TestKindSpecs(t *testing.T) {
	for _, k := range Kinds {
		spec := k.Spec()
		if spec.Points <= 0 {
			t.Errorf("%v: points = %d", k, spec.Points)
		}
		hasEffect := k == KindSpeedBoost || k == KindSpeedDebuff
		if (spec.Effect != nil) != hasEffect {
			t.Errorf("%v: effect presence = %v, want %v", k, spec.Effect != nil, hasEffect)
		}
	}
	if e := KindSpeedBoost.Spec().Effect; e.Magnitude != 1.75 || e.Duration != 200 {
		t.Errorf("boost effect = %+v", *e)
	}
	if e := KindSpeedDebuff.Spec().Effect; e.Magnitude != 0.7 || e.Duration != 100 {
		t.Errorf("debuff effect = %+v", *e)
	}
}
