package object

import (
	"fmt"

	"github.com/tomz197/snake/internal/audio"
	"github.com/tomz197/snake/internal/grid"
	"github.com/tomz197/snake/internal/loop/config"
)

// Kind identifies a consumable variant.
type Kind int

const (
	KindCommon Kind = iota
	KindRare
	KindEpic
	KindSpeedBoost
	KindSpeedDebuff

	kindCount // must stay last
)

// Kinds lists every consumable variant in declaration order.
var Kinds = [kindCount]Kind{KindCommon, KindRare, KindEpic, KindSpeedBoost, KindSpeedDebuff}

// KindSpec is the fixed description of a consumable variant.
type KindSpec struct {
	Name   string
	Points int
	Effect *Effect // nil for plain food
	Sound  audio.Sound
	Color  Color
}

var (
	boostEffect  = Effect{Magnitude: config.SpeedBoostMagnitude, Duration: config.SpeedBoostDuration}
	debuffEffect = Effect{Magnitude: config.SpeedDebuffMagnitude, Duration: config.SpeedDebuffDuration}
)

// Spec returns the points, effect, sound and color for a kind.
func (k Kind) Spec() KindSpec {
	switch k {
	case KindCommon:
		return KindSpec{Name: "blueberry", Points: config.PointsCommon, Sound: audio.Eat, Color: Color{0, 0, 255}}
	case KindRare:
		return KindSpec{Name: "apple", Points: config.PointsRare, Sound: audio.Eat, Color: Color{255, 0, 0}}
	case KindEpic:
		return KindSpec{Name: "watermelon", Points: config.PointsEpic, Sound: audio.Eat, Color: Color{0, 255, 0}}
	case KindSpeedBoost:
		e := boostEffect
		return KindSpec{Name: "speed boost", Points: config.PointsSpeedBoost, Effect: &e, Sound: audio.SpeedBoost, Color: Color{0, 150, 0}}
	case KindSpeedDebuff:
		e := debuffEffect
		return KindSpec{Name: "speed debuff", Points: config.PointsSpeedDebuff, Effect: &e, Sound: audio.SpeedDebuff, Color: Color{150, 0, 0}}
	default:
		panic(fmt.Sprintf("object: unknown consumable kind %d", int(k)))
	}
}

// String returns the kind's display name.
func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return k.Spec().Name
}

// Consumable is a collectible item on the grid. It is eaten exactly once and then replaced.
type Consumable struct {
	Pos  grid.Cell
	Kind Kind
}
