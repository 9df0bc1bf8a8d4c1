package device

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// arpeggio is the looping background pattern (A minor, one note per step).
var arpeggio = []float64{220.00, 261.63, 329.63, 261.63, 196.00, 246.94, 293.66, 246.94}

// musicGenerator streams an endless soft arpeggio.
type musicGenerator struct {
	sr       beep.SampleRate
	pos      int
	stepLen  int
	stepFreq []float64
}

func newMusicGenerator(sr beep.SampleRate) *musicGenerator {
	return &musicGenerator{
		sr:       sr,
		stepLen:  sr.N(250 * time.Millisecond),
		stepFreq: arpeggio,
	}
}

// Stream fills samples with the next part of the pattern. It never ends.
func (g *musicGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		step := (g.pos / g.stepLen) % len(g.stepFreq)
		inStep := float64(g.pos%g.stepLen) / float64(g.stepLen)
		t := float64(g.pos) / float64(g.sr)

		// Pluck envelope: quick attack, exponential decay within each step.
		env := math.Min(inStep*50, 1) * math.Exp(-4*inStep)
		sample := 0.12 * env * math.Sin(2*math.Pi*g.stepFreq[step]*t)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *musicGenerator) Err() error {
	return nil
}
