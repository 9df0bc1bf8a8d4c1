// Package tui is a tcell-backed frontend for local play: it reads key events
// from a tcell.Screen and draws session frames into it.
package tui

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/tomz197/snake/internal/config"
	"github.com/tomz197/snake/internal/draw"
	"github.com/tomz197/snake/internal/input"
	"github.com/tomz197/snake/internal/loop"
)

// Screen adapts a tcell.Screen to loop.InputSource and loop.Surface.
type Screen struct {
	screen   tcell.Screen
	keys     loop.KeyMap
	settings config.Settings
	events   chan tcell.Event
	quit     chan struct{}
	closed   bool
}

var (
	_ loop.InputSource = (*Screen)(nil)
	_ loop.Surface     = (*Screen)(nil)
)

// Open creates and initializes a terminal screen.
func Open(settings config.Settings, players int) (*Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	return New(screen, settings, players), nil
}

// New wraps an initialized screen and starts forwarding its events.
func New(screen tcell.Screen, settings config.Settings, players int) *Screen {
	screen.HideCursor()
	s := &Screen{
		screen:   screen,
		keys:     loop.NewKeyMap(settings, players),
		settings: settings,
		events:   make(chan tcell.Event, 100),
		quit:     make(chan struct{}),
	}
	go s.pump()
	return s
}

// pump forwards screen events until the screen is finalized.
func (s *Screen) pump() {
	defer close(s.events)
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case s.events <- ev:
		case <-s.quit:
			return
		}
	}
}

// Close finalizes the screen and restores the terminal.
func (s *Screen) Close() {
	close(s.quit)
	s.screen.Fini()
}

// Poll implements loop.InputSource.
func (s *Screen) Poll() ([]loop.Event, error) {
	var names []string
drain:
	for !s.closed {
		select {
		case ev, ok := <-s.events:
			if !ok {
				s.closed = true
				break drain
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if name := keyName(ev); name != "" {
					names = append(names, name)
				}
			case *tcell.EventResize:
				s.screen.Sync()
			}
		default:
			break drain
		}
	}
	if s.closed && len(names) == 0 {
		return nil, loop.ErrInputClosed
	}
	return s.keys.Events(names), nil
}

// keyName maps a tcell key event to the key names used by the settings.
func keyName(ev *tcell.EventKey) string {
	switch ev.Key() {
	case tcell.KeyUp:
		return input.KeyUp
	case tcell.KeyDown:
		return input.KeyDown
	case tcell.KeyLeft:
		return input.KeyLeft
	case tcell.KeyRight:
		return input.KeyRight
	case tcell.KeyEscape:
		return input.KeyEscape
	case tcell.KeyEnter:
		return input.KeyEnter
	case tcell.KeyTab:
		return input.KeyTab
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return input.KeyBackspace
	case tcell.KeyCtrlC:
		return input.KeyCtrlC
	case tcell.KeyRune:
		r := ev.Rune()
		if r == ' ' {
			return input.KeySpace
		}
		return string(unicode.ToLower(r))
	}
	return ""
}

// Draw implements loop.Surface.
func (s *Screen) Draw(f loop.Frame) error {
	s.screen.Clear()

	cols := f.World.Width
	rows := (f.World.Height + 1) / 2
	termW, termH := s.screen.Size()
	l := draw.Center(termW, termH, cols+2, rows+2, 1)
	if !l.Fits {
		s.text(0, 0, fmt.Sprintf("Terminal too small: need %dx%d", cols+2, rows+3), tcell.StyleDefault)
		s.screen.Show()
		return nil
	}

	// tcell cells are 0-based; the playfield starts inside the border.
	left, top := l.OffsetCol+1, l.OffsetRow+1
	s.border(left-1, top-1, cols, rows)
	s.cells(f, left, top)
	s.hud(f, left-1, top-2)

	centerX, centerY := left+cols/2, top+rows/2
	switch f.State {
	case loop.StatePaused:
		s.overlay(centerX, centerY, []string{"PAUSED", "", "Press your pause key to resume"})
	case loop.StateGameOver:
		s.overlay(centerX, centerY, s.gameOverLines(f.Result))
	}

	s.screen.Show()
	return nil
}

// cells paints the playfield with half blocks: one grid cell per column and half a row.
func (s *Screen) cells(f loop.Frame, left, top int) {
	w, h := f.World.Width, f.World.Height
	colors := make([]tcell.Color, w*h)
	for i := range colors {
		colors[i] = tcell.ColorDefault
	}
	for _, it := range f.Consumables {
		c := it.Kind.Spec().Color
		colors[it.Pos.Y*w+it.Pos.X] = tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
	}
	for _, sn := range f.Snakes {
		col := tcell.NewRGBColor(int32(sn.Color.R), int32(sn.Color.G), int32(sn.Color.B))
		for _, c := range sn.Body {
			colors[c.Y*w+c.X] = col
		}
	}

	for row := 0; row < (h+1)/2; row++ {
		for x := 0; x < w; x++ {
			topColor := colors[row*2*w+x]
			bottomColor := tcell.ColorDefault
			if row*2+1 < h {
				bottomColor = colors[(row*2+1)*w+x]
			}
			if topColor == tcell.ColorDefault && bottomColor == tcell.ColorDefault {
				continue
			}
			style := tcell.StyleDefault.Foreground(topColor).Background(bottomColor)
			ch := draw.BlockUpperHalf
			if topColor == tcell.ColorDefault {
				style = tcell.StyleDefault.Foreground(bottomColor)
				ch = draw.BlockLowerHalf
			}
			s.screen.SetContent(left+x, top+row, ch, nil, style)
		}
	}
}

func (s *Screen) border(x, y, cols, rows int) {
	style := tcell.StyleDefault
	for i := 1; i <= cols; i++ {
		s.screen.SetContent(x+i, y, '─', nil, style)
		s.screen.SetContent(x+i, y+rows+1, '─', nil, style)
	}
	for j := 1; j <= rows; j++ {
		s.screen.SetContent(x, y+j, '│', nil, style)
		s.screen.SetContent(x+cols+1, y+j, '│', nil, style)
	}
	s.screen.SetContent(x, y, '┌', nil, style)
	s.screen.SetContent(x+cols+1, y, '┐', nil, style)
	s.screen.SetContent(x, y+rows+1, '└', nil, style)
	s.screen.SetContent(x+cols+1, y+rows+1, '┘', nil, style)
}

func (s *Screen) hud(f loop.Frame, x, y int) {
	parts := make([]string, 0, len(f.Snakes))
	for _, sn := range f.Snakes {
		label := "Score"
		if len(f.Snakes) > 1 {
			label = fmt.Sprintf("P%d", sn.ID+1)
		}
		parts = append(parts, fmt.Sprintf("%s: %d  Len: %d", label, sn.Score, len(sn.Body)))
	}
	s.text(x, y, strings.Join(parts, "   "), tcell.StyleDefault.Bold(true))
}

func (s *Screen) gameOverLines(r loop.Result) []string {
	lines := []string{"GAME OVER", ""}
	if len(r.Players) == 1 {
		lines = append(lines, fmt.Sprintf("Final Score: %d", r.Players[0].Score))
	} else {
		scores := make([]string, 0, len(r.Players))
		for _, p := range r.Players {
			scores = append(scores, fmt.Sprintf("P%d: %d", p.Player+1, p.Score))
		}
		lines = append(lines, strings.Join(scores, "   "))
		if w := r.Winner(); w >= 0 {
			lines = append(lines, fmt.Sprintf("Player %d wins!", w+1))
		}
	}
	return append(lines, "",
		fmt.Sprintf("%s: restart   %s: exit", strings.ToUpper(s.settings.Restart), strings.ToUpper(s.settings.Back)))
}

// overlay writes lines centered on (cx, cy) over a blanked box.
func (s *Screen) overlay(cx, cy int, lines []string) {
	width := 0
	for _, l := range lines {
		width = max(width, len(l))
	}
	width += 4
	y0 := cy - len(lines)/2
	x0 := cx - width/2
	style := tcell.StyleDefault.Reverse(true)
	for i, l := range lines {
		pad := (width - len(l)) / 2
		row := strings.Repeat(" ", pad) + l + strings.Repeat(" ", width-pad-len(l))
		s.text(x0, y0+i, row, style)
	}
}

func (s *Screen) text(x, y int, str string, style tcell.Style) {
	for i, r := range []rune(str) {
		s.screen.SetContent(x+i, y, r, nil, style)
	}
}
