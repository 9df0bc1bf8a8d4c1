package loop

import (
	"errors"
	"slices"
	"testing"

	"github.com/tomz197/snake/internal/audio"
	"github.com/tomz197/snake/internal/grid"
	loopcfg "github.com/tomz197/snake/internal/loop/config"
	"github.com/tomz197/snake/internal/object"
)

// newTestSession creates a session on a 10x10 grid where every snake moves on every tick.
func newTestSession(t *testing.T, players int, sink audio.Sink) *Session {
	t.Helper()
	s, err := New(Options{
		Players:   players,
		Sink:      sink,
		Seed:      7,
		World:     grid.World{Width: 10, Height: 10},
		BaseSpeed: loopcfg.TicksPerSecond,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

// place overrides a snake's body, length and direction.
func place(sn *object.Snake, dir grid.Direction, body ...grid.Cell) {
	sn.Body = append([]grid.Cell(nil), body...)
	sn.Length = len(body)
	sn.Direction = dir
}

func TestNewRejectsPlayerCount(t *testing.T) {
	for _, n := range []int{0, 3, -1} {
		if _, err := New(Options{Players: n}); !errors.Is(err, ErrInvalidPlayers) {
			t.Errorf("players=%d: got %v, want ErrInvalidPlayers", n, err)
		}
	}
}

func TestNewRejectsBadWeights(t *testing.T) {
	_, err := New(Options{Players: 1, Weights: object.Weights{object.KindCommon: 1}})
	if !errors.Is(err, object.ErrInvalidWeights) {
		t.Errorf("got %v, want ErrInvalidWeights", err)
	}
}

func TestNewInitialState(t *testing.T) {
	s := newTestSession(t, 1, nil)

	if s.State() != StateRunning {
		t.Errorf("state = %v, want running", s.State())
	}
	if s.Players() != 1 {
		t.Errorf("players = %d, want 1", s.Players())
	}
	sn := s.snakes[0]
	if sn.Head() != (grid.Cell{X: 5, Y: 5}) || sn.Length != 1 || sn.Score != 0 {
		t.Errorf("unexpected initial snake: head=%v len=%d score=%d", sn.Head(), sn.Length, sn.Score)
	}
	if len(s.pool) != 1 {
		t.Errorf("pool size = %d, want 1", len(s.pool))
	}
	if s.GameSpeed() != loopcfg.DefaultGameSpeed {
		t.Errorf("game speed = %v, want default", s.GameSpeed())
	}
}

func TestTwoPlayerSpawnPoints(t *testing.T) {
	s := newTestSession(t, 2, nil)
	if got := s.snakes[0].Head(); got != (grid.Cell{X: 2, Y: 5}) {
		t.Errorf("player 1 spawn = %v, want (2,5)", got)
	}
	if got := s.snakes[1].Head(); got != (grid.Cell{X: 7, Y: 5}) {
		t.Errorf("player 2 spawn = %v, want (7,5)", got)
	}
}

func TestGameSpeedIsClamped(t *testing.T) {
	opts := Options{Players: 1}
	opts.Settings.GameSpeed = 50
	s, err := New(opts)
	if err != nil {
		t.Fatal(err)
	}
	if s.GameSpeed() != loopcfg.MaxGameSpeed {
		t.Errorf("game speed = %v, want %v", s.GameSpeed(), loopcfg.MaxGameSpeed)
	}
}

func TestStepMovesAndEats(t *testing.T) {
	var rec audio.Recorder
	s := newTestSession(t, 1, &rec)
	place(s.snakes[0], grid.Right, grid.Cell{X: 5, Y: 5})
	s.pool = []object.Consumable{{Pos: grid.Cell{X: 6, Y: 5}, Kind: object.KindCommon}}

	s.Step(nil)

	sn := s.snakes[0]
	if sn.Head() != (grid.Cell{X: 6, Y: 5}) {
		t.Fatalf("head = %v, want (6,5)", sn.Head())
	}
	if sn.Length != 2 || sn.Score != loopcfg.PointsCommon {
		t.Errorf("after eating: length=%d score=%d", sn.Length, sn.Score)
	}
	if rec.Count(audio.Eat) != 1 {
		t.Errorf("eat played %d times, want 1", rec.Count(audio.Eat))
	}
	if len(s.pool) != 1 {
		t.Errorf("pool size = %d, want refilled to 1", len(s.pool))
	}

	// The body catches up with the new length on the next move.
	s.pool = nil
	s.Step(nil)
	if len(sn.Body) != 2 {
		t.Errorf("body = %v, want 2 cells", sn.Body)
	}
}

func TestWrapAroundScenario(t *testing.T) {
	s := newTestSession(t, 1, nil)
	place(s.snakes[0], grid.Left, grid.Cell{X: 0, Y: 3})
	s.pool = nil

	s.Step(nil)
	if got := s.snakes[0].Head(); got != (grid.Cell{X: 9, Y: 3}) {
		t.Errorf("head = %v, want (9,3)", got)
	}
}

func TestOneConsumablePerSnakePerTick(t *testing.T) {
	s := newTestSession(t, 1, nil)
	place(s.snakes[0], grid.Right, grid.Cell{X: 5, Y: 5})
	target := grid.Cell{X: 6, Y: 5}
	s.pool = []object.Consumable{
		{Pos: target, Kind: object.KindCommon},
		{Pos: target, Kind: object.KindRare},
	}

	s.Step(nil)

	if s.snakes[0].Score != loopcfg.PointsCommon {
		t.Errorf("score = %d, want only the first item", s.snakes[0].Score)
	}
	if len(s.pool) != 1 || s.pool[0].Kind != object.KindRare || s.pool[0].Pos != target {
		t.Errorf("pool = %v, want the rare item left in place", s.pool)
	}
}

func TestEffectsApplyOnConsumption(t *testing.T) {
	tests := []struct {
		kind  object.Kind
		sound audio.Sound
		mod   float64
	}{
		{object.KindSpeedBoost, audio.SpeedBoost, loopcfg.SpeedBoostMagnitude},
		{object.KindSpeedDebuff, audio.SpeedDebuff, loopcfg.SpeedDebuffMagnitude},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			var rec audio.Recorder
			s := newTestSession(t, 1, &rec)
			place(s.snakes[0], grid.Down, grid.Cell{X: 1, Y: 1})
			s.pool = []object.Consumable{{Pos: grid.Cell{X: 1, Y: 2}, Kind: tt.kind}}

			s.Step(nil)

			if got := s.snakes[0].SpeedModifier(); got != tt.mod {
				t.Errorf("modifier = %v, want %v", got, tt.mod)
			}
			if rec.Count(tt.sound) != 1 {
				t.Errorf("sound %s played %d times", tt.sound, rec.Count(tt.sound))
			}
		})
	}
}

func TestSelfCollisionEndsGame(t *testing.T) {
	var rec audio.Recorder
	var results []Result
	s, err := New(Options{
		Players:    1,
		Sink:       &rec,
		World:      grid.World{Width: 10, Height: 10},
		BaseSpeed:  loopcfg.TicksPerSecond,
		OnGameOver: func(r Result) { results = append(results, r) },
	})
	if err != nil {
		t.Fatal(err)
	}
	sn := s.snakes[0]
	place(sn, grid.Up,
		grid.Cell{X: 5, Y: 5}, grid.Cell{X: 6, Y: 5}, grid.Cell{X: 6, Y: 4},
		grid.Cell{X: 5, Y: 4}, grid.Cell{X: 4, Y: 4})
	sn.Score = 40
	pool := []object.Consumable{{Pos: grid.Cell{X: 0, Y: 0}, Kind: object.KindEpic}}
	s.pool = slices.Clone(pool)
	before := slices.Clone(sn.Body)

	s.Step(nil)

	if s.State() != StateGameOver {
		t.Fatalf("state = %v, want game over", s.State())
	}
	if !slices.Equal(sn.Body, before) {
		t.Errorf("body changed on fatal move: %v", sn.Body)
	}
	if rec.Count(audio.Death) != 1 {
		t.Errorf("death played %d times", rec.Count(audio.Death))
	}
	if !slices.Equal(s.pool, pool) {
		t.Errorf("consumption ran after death: %v", s.pool)
	}
	r := s.Result()
	if len(r.Players) != 1 || r.Players[0].Score != 40 || !r.Players[0].Died {
		t.Errorf("result = %+v", r)
	}
	if !s.Finished() {
		t.Error("Finished = false after death")
	}
	if len(results) != 1 || results[0].Best() != 40 {
		t.Errorf("OnGameOver calls = %v", results)
	}

	// Further ticks do nothing until restart or back.
	s.Step(nil)
	if s.State() != StateGameOver || rec.Count(audio.Death) != 1 {
		t.Error("game over state not stable")
	}
}

func TestCrossCollisionKillsOnlyTheMover(t *testing.T) {
	s := newTestSession(t, 2, nil)
	place(s.snakes[0], grid.Right, grid.Cell{X: 4, Y: 5})
	place(s.snakes[1], grid.Down, grid.Cell{X: 5, Y: 6}, grid.Cell{X: 5, Y: 5}, grid.Cell{X: 5, Y: 4})
	s.pool = nil

	s.Step(nil)

	if s.State() != StateGameOver {
		t.Fatalf("state = %v, want game over", s.State())
	}
	r := s.Result()
	if !r.Players[0].Died || r.Players[1].Died {
		t.Errorf("deaths = %v/%v, want player 1 only", r.Players[0].Died, r.Players[1].Died)
	}
	if r.Winner() != 1 {
		t.Errorf("winner = %d, want 1", r.Winner())
	}
	if got := r.Scores(); len(got) != 2 {
		t.Errorf("scores = %v, want a pair", got)
	}
}

func TestHeadOnKillsBoth(t *testing.T) {
	s := newTestSession(t, 2, nil)
	place(s.snakes[0], grid.Right, grid.Cell{X: 3, Y: 5})
	place(s.snakes[1], grid.Left, grid.Cell{X: 5, Y: 5})
	s.pool = nil

	s.Step(nil)

	r := s.Result()
	if s.State() != StateGameOver || !r.Players[0].Died || !r.Players[1].Died {
		t.Fatalf("state=%v result=%+v, want both dead", s.State(), r)
	}
	if r.Winner() != -1 {
		t.Errorf("winner = %d, want -1", r.Winner())
	}
}

func TestPauseAndResume(t *testing.T) {
	s := newTestSession(t, 2, nil)
	place(s.snakes[0], grid.Right, grid.Cell{X: 1, Y: 1})
	place(s.snakes[1], grid.Right, grid.Cell{X: 1, Y: 8})
	s.pool = nil

	s.Step([]Event{Pause(0)})
	if s.State() != StatePaused || !s.snakes[0].Paused {
		t.Fatalf("state=%v paused=%v", s.State(), s.snakes[0].Paused)
	}
	if s.snakes[0].Head() != (grid.Cell{X: 1, Y: 1}) {
		t.Error("snake moved on the tick it paused")
	}

	for range 5 {
		s.Step([]Event{Turn(0, grid.Down), Sprint(1)})
	}
	if s.snakes[0].Head() != (grid.Cell{X: 1, Y: 1}) || s.snakes[1].Head() != (grid.Cell{X: 1, Y: 8}) {
		t.Error("snakes moved while paused")
	}
	if s.snakes[0].Direction != grid.Right || s.snakes[1].Sprinting() {
		t.Error("input other than pause was applied while paused")
	}

	// Either player can resume.
	s.Step([]Event{Pause(1)})
	if s.State() != StateRunning || s.snakes[0].Paused || s.snakes[1].Paused {
		t.Fatalf("resume failed: state=%v", s.State())
	}
	s.Step(nil)
	if s.snakes[0].Head() != (grid.Cell{X: 2, Y: 1}) {
		t.Errorf("head = %v after resume, want (2,1)", s.snakes[0].Head())
	}
}

func TestBackExitsImmediately(t *testing.T) {
	for _, state := range []State{StateRunning, StatePaused, StateGameOver} {
		t.Run(state.String(), func(t *testing.T) {
			s := newTestSession(t, 1, nil)
			place(s.snakes[0], grid.Right, grid.Cell{X: 5, Y: 5})
			s.state = state

			s.Step([]Event{Back(), Turn(0, grid.Up)})

			if s.State() != StateExited {
				t.Errorf("state = %v, want exited", s.State())
			}
			if s.snakes[0].Head() != (grid.Cell{X: 5, Y: 5}) || s.snakes[0].Direction != grid.Right {
				t.Error("tick continued after back")
			}
		})
	}
}

func TestQuitExits(t *testing.T) {
	s := newTestSession(t, 1, nil)
	s.Step([]Event{Quit()})
	if s.State() != StateExited {
		t.Errorf("state = %v, want exited", s.State())
	}
}

func TestRestartResetsEverything(t *testing.T) {
	s := newTestSession(t, 2, nil)
	place(s.snakes[0], grid.Right, grid.Cell{X: 3, Y: 5}, grid.Cell{X: 2, Y: 5})
	place(s.snakes[1], grid.Left, grid.Cell{X: 5, Y: 5})
	s.snakes[0].Score = 120
	s.snakes[1].Score = 30
	s.pool = nil
	s.Step(nil) // head-on at (4,5)
	if s.State() != StateGameOver {
		t.Fatalf("setup: state = %v", s.State())
	}

	s.Step([]Event{Turn(0, grid.Up)}) // ignored in game over
	if s.State() != StateGameOver {
		t.Fatal("turn left game over")
	}

	s.Step([]Event{Restart()})
	if s.State() != StateRunning {
		t.Fatalf("state = %v, want running", s.State())
	}
	for i, sn := range s.snakes {
		if sn.Score != 0 || sn.Length != 1 || len(sn.Body) != 1 || sn.Head() != s.spawnPoint(i) {
			t.Errorf("snake %d not reset: score=%d len=%d body=%v", i, sn.Score, sn.Length, sn.Body)
		}
	}
	if len(s.pool) != 1 {
		t.Errorf("pool size = %d, want 1", len(s.pool))
	}
	if s.Finished() {
		t.Error("Finished still set after restart")
	}
	if r := s.Result(); r.Best() != 0 || r.Players[0].Died {
		t.Errorf("result after restart = %+v", r)
	}
}

func TestSprintTogglePlaysSound(t *testing.T) {
	var rec audio.Recorder
	s := newTestSession(t, 1, &rec)
	s.pool = nil

	s.Step([]Event{Sprint(0)})
	if !s.snakes[0].Sprinting() || rec.Count(audio.SprintToggle) != 1 {
		t.Errorf("sprinting=%v sounds=%v", s.snakes[0].Sprinting(), rec.Played)
	}
	s.Step([]Event{Sprint(0)})
	if s.snakes[0].Sprinting() || rec.Count(audio.SprintToggle) != 2 {
		t.Errorf("second toggle: sprinting=%v sounds=%v", s.snakes[0].Sprinting(), rec.Played)
	}
}

func TestEventsForMissingPlayerAreIgnored(t *testing.T) {
	s := newTestSession(t, 1, nil)
	s.pool = nil
	s.Step([]Event{Turn(1, grid.Up), Pause(1), Sprint(3)})
	if s.State() != StateRunning {
		t.Errorf("state = %v, want running", s.State())
	}
}

func TestDefaultCadence(t *testing.T) {
	s, err := New(Options{Players: 1, World: grid.World{Width: 20, Height: 20}})
	if err != nil {
		t.Fatal(err)
	}
	sn := s.snakes[0]
	place(sn, grid.Right, grid.Cell{X: 0, Y: 0})
	s.pool = nil

	// 60 ticks/s at 10 cells/s is one move every 6 ticks.
	for range 5 {
		s.Step(nil)
	}
	if sn.Head() != (grid.Cell{X: 0, Y: 0}) {
		t.Fatalf("moved early: %v", sn.Head())
	}
	s.Step(nil)
	if sn.Head() != (grid.Cell{X: 1, Y: 0}) {
		t.Fatalf("head = %v after 6 ticks, want (1,0)", sn.Head())
	}
}

func TestTurnsBetweenMovesCannotFoldOntoNeck(t *testing.T) {
	s, err := New(Options{Players: 1, World: grid.World{Width: 10, Height: 10}})
	if err != nil {
		t.Fatal(err)
	}
	sn := s.snakes[0]
	place(sn, grid.Right, grid.Cell{X: 5, Y: 5}, grid.Cell{X: 4, Y: 5}, grid.Cell{X: 3, Y: 5})
	s.pool = nil

	// Both turns land before the snake is due to move again.
	s.Step([]Event{Turn(0, grid.Up)})
	s.Step([]Event{Turn(0, grid.Left)})
	for i := 0; sn.Head() == (grid.Cell{X: 5, Y: 5}); i++ {
		if i > loopcfg.TicksPerSecond {
			t.Fatal("snake never moved")
		}
		s.Step(nil)
	}

	if s.State() != StateRunning {
		t.Fatalf("state = %v, want running", s.State())
	}
	want := []grid.Cell{{X: 5, Y: 4}, {X: 5, Y: 5}, {X: 4, Y: 5}}
	if !slices.Equal(sn.Body, want) {
		t.Errorf("body = %v, want %v", sn.Body, want)
	}
}

func TestPopulationFollowsBestScore(t *testing.T) {
	s := newTestSession(t, 2, nil)
	place(s.snakes[0], grid.Right, grid.Cell{X: 0, Y: 0})
	place(s.snakes[1], grid.Right, grid.Cell{X: 0, Y: 9})
	s.snakes[1].Score = loopcfg.PopulationMidScore
	s.pool = nil

	s.Step(nil)
	if len(s.pool) != loopcfg.PopulationMid {
		t.Errorf("pool size = %d, want %d", len(s.pool), loopcfg.PopulationMid)
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	s := newTestSession(t, 1, nil)
	f := s.Snapshot()

	f.Snakes[0].Body[0] = grid.Cell{X: 99, Y: 99}
	f.Consumables[0].Pos = grid.Cell{X: 99, Y: 99}

	if s.snakes[0].Head() == (grid.Cell{X: 99, Y: 99}) {
		t.Error("snapshot shares snake body")
	}
	if s.pool[0].Pos == (grid.Cell{X: 99, Y: 99}) {
		t.Error("snapshot shares consumable pool")
	}
	if f.State != StateRunning || f.World.Width != 10 {
		t.Errorf("frame = %+v", f)
	}
}
