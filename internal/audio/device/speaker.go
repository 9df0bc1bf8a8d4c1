// Package device plays sound triggers on the system audio output with beep.
// Only binaries import it; package audio must not link the cgo backend.
package device

import (
	"errors"
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/tomz197/snake/internal/audio"
)

const sampleRate = beep.SampleRate(44100)

// note is one tone of a sound effect. A zero frequency is a rest.
type note struct {
	freq float64
	dur  time.Duration
}

// effectNotes describes every sound effect as a short note sequence.
var effectNotes = map[audio.Sound][]note{
	audio.Eat:          {{880, 45 * time.Millisecond}, {1175, 45 * time.Millisecond}},
	audio.SpeedBoost:   {{660, 50 * time.Millisecond}, {880, 50 * time.Millisecond}, {1320, 80 * time.Millisecond}},
	audio.SpeedDebuff:  {{440, 60 * time.Millisecond}, {370, 60 * time.Millisecond}, {294, 100 * time.Millisecond}},
	audio.Death:        {{392, 120 * time.Millisecond}, {0, 30 * time.Millisecond}, {311, 120 * time.Millisecond}, {0, 30 * time.Millisecond}, {196, 300 * time.Millisecond}},
	audio.SprintToggle: {{1320, 30 * time.Millisecond}},
}

// Speaker plays synthesized sound effects (and optional background music) through the system audio device.
// Until Init succeeds, every Play is a no-op, so a machine without audio still runs the game.
type Speaker struct {
	mu            sync.Mutex
	mixer         *beep.Mixer
	music         *beep.Ctrl
	effectsVolume float64
	musicVolume   float64
	initialized   bool
	logger        *log.Logger
}

// Compile-time check that Speaker implements Sink.
var _ audio.Sink = (*Speaker)(nil)

// NewSpeaker creates a speaker with the given effect and music volumes in [0,1].
func NewSpeaker(effectsVolume, musicVolume float64, logger *log.Logger) *Speaker {
	if logger == nil {
		logger = log.Default()
	}
	return &Speaker{
		mixer:         &beep.Mixer{},
		effectsVolume: clamp01(effectsVolume),
		musicVolume:   clamp01(musicVolume),
		logger:        logger.WithPrefix("audio"),
	}
}

// Init opens the audio device and starts background music if its volume is non-zero.
// On failure the speaker stays silent; the error is returned for logging only.
func (s *Speaker) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		s.logger.Warn("audio unavailable, continuing muted", "err", err)
		return err
	}
	speaker.Play(s.mixer)
	s.initialized = true

	if s.musicVolume > 0 {
		s.music = &beep.Ctrl{Streamer: withVolume(newMusicGenerator(sampleRate), s.musicVolume)}
		speaker.Lock()
		s.mixer.Add(s.music)
		speaker.Unlock()
	}
	s.logger.Debug("audio initialized", "effects", s.effectsVolume, "music", s.musicVolume)
	return nil
}

// Play queues a sound effect. Unknown sounds and a silent device are ignored.
func (s *Speaker) Play(snd audio.Sound) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized || s.effectsVolume <= 0 {
		return
	}
	streamer, err := buildEffect(effectNotes[snd])
	if err != nil {
		s.logger.Debug("sound dropped", "sound", snd, "err", err)
		return
	}

	speaker.Lock()
	s.mixer.Add(withVolume(streamer, s.effectsVolume))
	speaker.Unlock()
}

// Close stops all sounds. The device itself stays open: beep has no speaker shutdown.
func (s *Speaker) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}
	speaker.Lock()
	if s.music != nil {
		s.music.Paused = true
	}
	s.mixer.Clear()
	speaker.Unlock()
	s.initialized = false
}

var errEmptySound = errors.New("device: sound has no notes")

// buildEffect turns a note list into a finite streamer.
func buildEffect(notes []note) (beep.Streamer, error) {
	if len(notes) == 0 {
		return nil, errEmptySound
	}
	parts := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		samples := sampleRate.N(n.dur)
		if n.freq <= 0 {
			parts = append(parts, beep.Silence(samples))
			continue
		}
		tone, err := generators.SineTone(sampleRate, n.freq)
		if err != nil {
			return nil, err
		}
		parts = append(parts, beep.Take(samples, tone))
	}
	return beep.Seq(parts...), nil
}

// withVolume scales a streamer by a linear volume in [0,1].
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
