// Package audio provides fire-and-forget sound triggers for the game.
package audio

// Sound names an audio trigger.
type Sound string

const (
	Eat          Sound = "eat"
	SpeedBoost   Sound = "speed_boost"
	SpeedDebuff  Sound = "speed_debuff"
	Death        Sound = "death"
	SprintToggle Sound = "sprint_toggle"
)

// Sounds lists every trigger the game emits.
var Sounds = []Sound{Eat, SpeedBoost, SpeedDebuff, Death, SprintToggle}

// Sink accepts sound triggers. Play must not block and must not fail loudly:
// a sink that cannot produce sound simply drops the trigger.
type Sink interface {
	Play(s Sound)
}

// Nop is a silent sink.
type Nop struct{}

// Play discards the trigger.
func (Nop) Play(Sound) {}

// Recorder is a sink that keeps every trigger it receives, in order.
type Recorder struct {
	Played []Sound
}

// Play appends the trigger.
func (r *Recorder) Play(s Sound) {
	r.Played = append(r.Played, s)
}

// Count returns how many times s was played.
func (r *Recorder) Count(s Sound) int {
	n := 0
	for _, p := range r.Played {
		if p == s {
			n++
		}
	}
	return n
}

// Reset forgets all recorded triggers.
func (r *Recorder) Reset() {
	r.Played = r.Played[:0]
}
