package config

import (
	"errors"
	"fmt"
	"math"
	"strings"

	loopcfg "github.com/tomz197/snake/internal/loop/config"
)

// ErrDuplicateBinding is returned when one key is bound to two actions.
var ErrDuplicateBinding = errors.New("config: key bound more than once")

// KeyBindings maps one player's actions to key names (as produced by the input package).
type KeyBindings struct {
	Up     string
	Down   string
	Left   string
	Right  string
	Pause  string
	Sprint string
}

// Settings is read once at session start and treated as read-only afterwards.
type Settings struct {
	Players       [2]KeyBindings
	Back          string  // Leave the session (global)
	Restart       string  // Start over from the game-over screen (global)
	MusicVolume   float64 // 0..1, passed through to the audio sink
	EffectsVolume float64 // 0..1, passed through to the audio sink
	GameSpeed     float64 // Scalar on every snake's move rate, clamped to [MinGameSpeed, MaxGameSpeed]
}

// Default returns the standard bindings: WASD for player one, arrows for player two.
func Default() Settings {
	return Settings{
		Players: [2]KeyBindings{
			{Up: "w", Down: "s", Left: "a", Right: "d", Pause: "p", Sprint: "e"},
			{Up: "up", Down: "down", Left: "left", Right: "right", Pause: "o", Sprint: "i"},
		},
		Back:          "esc",
		Restart:       "r",
		MusicVolume:   0.3,
		EffectsVolume: 0.6,
		GameSpeed:     loopcfg.DefaultGameSpeed,
	}
}

// FromEnv returns Default with environment overrides applied, then clamped.
//
//	SNAKE_GAME_SPEED, SNAKE_MUSIC_VOLUME, SNAKE_EFFECTS_VOLUME
//	SNAKE_BACK, SNAKE_RESTART
//	SNAKE_P1_UP ... SNAKE_P1_SPRINT, SNAKE_P2_UP ... SNAKE_P2_SPRINT
func FromEnv() Settings {
	s := Default()
	s.GameSpeed = GetEnvFloat("SNAKE_GAME_SPEED", s.GameSpeed)
	s.MusicVolume = GetEnvFloat("SNAKE_MUSIC_VOLUME", s.MusicVolume)
	s.EffectsVolume = GetEnvFloat("SNAKE_EFFECTS_VOLUME", s.EffectsVolume)
	s.Back = keyEnv("SNAKE_BACK", s.Back)
	s.Restart = keyEnv("SNAKE_RESTART", s.Restart)

	for i := range s.Players {
		prefix := fmt.Sprintf("SNAKE_P%d_", i+1)
		kb := &s.Players[i]
		kb.Up = keyEnv(prefix+"UP", kb.Up)
		kb.Down = keyEnv(prefix+"DOWN", kb.Down)
		kb.Left = keyEnv(prefix+"LEFT", kb.Left)
		kb.Right = keyEnv(prefix+"RIGHT", kb.Right)
		kb.Pause = keyEnv(prefix+"PAUSE", kb.Pause)
		kb.Sprint = keyEnv(prefix+"SPRINT", kb.Sprint)
	}
	return s.Clamped()
}

func keyEnv(key, fallback string) string {
	return strings.ToLower(strings.TrimSpace(GetEnv(key, fallback)))
}

// Clamped returns a copy with the game speed and volumes forced into range.
func (s Settings) Clamped() Settings {
	s.GameSpeed = ClampGameSpeed(s.GameSpeed)
	s.MusicVolume = clamp(s.MusicVolume, 0, 1)
	s.EffectsVolume = clamp(s.EffectsVolume, 0, 1)
	return s
}

// ClampGameSpeed forces v into [MinGameSpeed, MaxGameSpeed]. NaN maps to the default.
func ClampGameSpeed(v float64) float64 {
	if math.IsNaN(v) {
		return loopcfg.DefaultGameSpeed
	}
	return clamp(v, loopcfg.MinGameSpeed, loopcfg.MaxGameSpeed)
}

// Validate reports empty or duplicated bindings across both players and the global keys.
func (s Settings) Validate() error {
	seen := make(map[string]string)
	bind := func(action, key string) error {
		if key == "" {
			return fmt.Errorf("config: %s has no key", action)
		}
		if prev, ok := seen[key]; ok {
			return fmt.Errorf("%w: %q used by %s and %s", ErrDuplicateBinding, key, prev, action)
		}
		seen[key] = action
		return nil
	}

	if err := bind("back", s.Back); err != nil {
		return err
	}
	if err := bind("restart", s.Restart); err != nil {
		return err
	}
	for i, kb := range s.Players {
		p := fmt.Sprintf("player %d ", i+1)
		for _, b := range []struct{ action, key string }{
			{"up", kb.Up}, {"down", kb.Down}, {"left", kb.Left},
			{"right", kb.Right}, {"pause", kb.Pause}, {"sprint", kb.Sprint},
		} {
			if err := bind(p+b.action, b.key); err != nil {
				return err
			}
		}
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
