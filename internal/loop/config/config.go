// Package config centralizes all tunable game parameters.
package config

import "time"

// Playfield size in cells. Each cell renders as one column and half a terminal row.
const (
	GridWidth  = 64
	GridHeight = 32
)

// Tick rate of the session scheduler. Snakes move on their own cadence
// derived from BaseSpeed, their speed modifier and the game speed scalar.
const (
	TicksPerSecond = 60
	TickTime       = time.Second / TicksPerSecond
)

// Movement
const (
	BaseSpeed        = 10.0 // Cells per second at modifier 1.0 and game speed 1.0
	SprintMultiplier = 1.5
)

// Game speed scalar bounds (settings are clamped into this range).
const (
	MinGameSpeed     = 0.1
	MaxGameSpeed     = 4.0
	DefaultGameSpeed = 1.0
)

// Scoring
const (
	PointsCommon      = 10
	PointsRare        = 20
	PointsEpic        = 30
	PointsSpeedBoost  = 5
	PointsSpeedDebuff = 10
)

// Timed speed effects (durations are in snake moves, not render ticks).
const (
	SpeedBoostMagnitude  = 1.75
	SpeedBoostDuration   = 200
	SpeedDebuffMagnitude = 0.7
	SpeedDebuffDuration  = 100
)

// Relative spawn weights (not normalized).
const (
	WeightCommon      = 8
	WeightRare        = 6
	WeightEpic        = 4
	WeightSpeedBoost  = 5
	WeightSpeedDebuff = 4
)

// Consumable population thresholds, keyed to the highest score among players.
const (
	PopulationMidScore  = 200
	PopulationHighScore = 1000
	PopulationLow       = 1
	PopulationMid       = 3
	PopulationHigh      = 5
)

// Terminal rendering
const (
	MaxTermWidth  = GridWidth + 2
	MaxTermHeight = GridHeight/2 + 4 // Grid rows + HUD + border
)

// Hub (SSH)
const (
	TopScoresShown         = 5
	ShutdownDisplaySeconds = 3.0
	InactivityWarn         = 90  // Seconds without input before the idle warning is shown
	InactivityDisconnect   = 120 // Seconds without input before an SSH session is closed
)
