// Package loop provides the game session state machine and the fixed-rate loop that drives it.
package loop

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomz197/snake/internal/loop/config"
)

// ErrInputClosed is returned by an InputSource whose underlying stream has ended.
var ErrInputClosed = errors.New("loop: input closed")

// InputSource yields the events that arrived since the last poll. Poll must not block.
type InputSource interface {
	Poll() ([]Event, error)
}

// Surface renders a frame. It only ever sees a snapshot, never live session state.
type Surface interface {
	Draw(f Frame) error
}

// Run drives the session with the standard Input → Update → Draw cycle at a fixed
// TicksPerSecond. It returns nil when the session exits or the input closes, and
// the context error when ctx is cancelled.
func Run(ctx context.Context, s *Session, src InputSource, surf Surface) error {
	return run(ctx, s, src, surf, config.TickTime)
}

func run(ctx context.Context, s *Session, src InputSource, surf Surface, tickTime time.Duration) error {
	timer := time.NewTimer(tickTime)
	defer timer.Stop()

	for {
		frameStart := time.Now()

		if err := ctx.Err(); err != nil {
			return err
		}

		// ===== INPUT PHASE =====
		events, err := src.Poll()
		if errors.Is(err, ErrInputClosed) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("poll input: %w", err)
		}

		// ===== UPDATE PHASE =====
		s.Step(events)
		if s.State() == StateExited {
			return nil
		}

		// ===== DRAW PHASE =====
		if err := surf.Draw(s.Snapshot()); err != nil {
			return fmt.Errorf("draw frame: %w", err)
		}

		// ===== FRAME TIMING =====
		elapsed := time.Since(frameStart)
		if elapsed < tickTime {
			timer.Reset(tickTime - elapsed)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
			}
		}
	}
}
