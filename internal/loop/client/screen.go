package client

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tomz197/snake/internal/draw"
	"github.com/tomz197/snake/internal/loop"
	loopcfg "github.com/tomz197/snake/internal/loop/config"
)

// Draw implements loop.Surface.
func (c *Client) Draw(f loop.Frame) error {
	c.updateScreen()

	if !c.state.layout.Fits {
		c.setView(viewTooSmall)
		c.drawTooSmall()
		return c.chunkWriter.Flush()
	}

	current := c.currentView(f.State)
	c.setView(current)

	c.canvas.Clear()
	for _, it := range f.Consumables {
		c.canvas.Set(it.Pos.X, it.Pos.Y, draw.Color(it.Kind.Spec().Color))
	}
	for _, s := range f.Snakes {
		col := draw.Color(s.Color)
		for _, cell := range s.Body {
			c.canvas.Set(cell.X, cell.Y, col)
		}
	}

	// Render canvas to terminal
	c.canvas.Render(c.chunkWriter)
	c.canvas.RenderBorder(c.chunkWriter)

	c.drawHUD(f)

	switch current {
	case viewShutdown:
		c.drawOverlay(c.shutdownLines())
	case viewIdle:
		c.drawOverlay(c.idleLines())
	case viewPaused:
		c.drawOverlay(c.pausedLines())
	case viewGameOver:
		c.drawOverlay(c.gameOverLines(f.Result))
	}

	return c.chunkWriter.Flush()
}

// currentView picks the overlay; host shutdown and inactivity take precedence over the game state.
func (c *Client) currentView(state loop.State) view {
	switch {
	case c.hub != nil && c.hub.ShuttingDown():
		return viewShutdown
	case c.state.inactive:
		return viewIdle
	case state == loop.StatePaused:
		return viewPaused
	case state == loop.StateGameOver:
		return viewGameOver
	}
	return viewPlaying
}

// setView does a full terminal clear on view transitions so UI elements from
// the previous view don't persist on screen.
func (c *Client) setView(v view) {
	if v == c.state.view {
		return
	}
	draw.ClearScreen(c.chunkWriter)
	c.canvas.ForceRedraw()
	c.state.view = v
}

func (c *Client) drawTooSmall() {
	need := fmt.Sprintf("Terminal too small: need %dx%d", c.canvas.TerminalWidth()+2, c.canvas.TerminalHeight()+2+hudRows)
	c.chunkWriter.WriteAt(1, 1, need)
}

// drawHUD draws the status row above the playfield.
// Text is padded to the box width so shrinking values don't leave residual characters.
func (c *Client) drawHUD(f loop.Frame) {
	width := c.canvas.TerminalWidth() + 2

	parts := make([]string, 0, len(f.Snakes))
	for _, s := range f.Snakes {
		label := "Score"
		if len(f.Snakes) > 1 {
			label = fmt.Sprintf("P%d", s.ID+1)
		}
		part := fmt.Sprintf("%s: %d  Len: %d  x%.2f", label, s.Score, len(s.Body), s.SpeedModifier())
		if s.Sprinting() && s.EffectRemaining() == 0 {
			part += " sprint"
		}
		parts = append(parts, part)
	}
	text := strings.Join(parts, "   ")
	if len(text) > width {
		text = text[:width]
	}

	l := c.state.layout
	c.chunkWriter.WriteAt(l.OffsetCol+1, l.OffsetRow, fmt.Sprintf("%-*s", width, text))
}

// drawOverlay renders lines as a bordered box centered on the playfield.
func (c *Client) drawOverlay(lines []string) {
	box := c.styles.box.Render(lipgloss.JoinVertical(lipgloss.Center, lines...))
	rows := strings.Split(box, "\n")

	l := c.state.layout
	centerCol := l.OffsetCol + 1 + (c.canvas.TerminalWidth()+2)/2
	centerRow := l.OffsetRow + 1 + (c.canvas.TerminalHeight()+2)/2
	top := max(1, centerRow-len(rows)/2)

	for i, row := range rows {
		col := max(1, centerCol-lipgloss.Width(row)/2)
		c.chunkWriter.WriteAt(col, top+i, row)
	}
}

// blink returns s or, in its off phase, blanks of the same width.
func blink(s string) string {
	if time.Now().UnixMilli()/600%2 == 0 {
		return s
	}
	return strings.Repeat(" ", lipgloss.Width(s))
}

func keyLabel(k string) string {
	return strings.ToUpper(k)
}

func (c *Client) pausedLines() []string {
	keys := make([]string, 0, c.players)
	for p := 0; p < c.players; p++ {
		keys = append(keys, keyLabel(c.settings.Players[p].Pause))
	}
	return []string{
		c.styles.title.Render("PAUSED"),
		"",
		blink(fmt.Sprintf("Press %s to resume", strings.Join(keys, " / "))),
		c.styles.hint.Render(fmt.Sprintf("%s to go back", keyLabel(c.settings.Back))),
	}
}

func (c *Client) gameOverLines(r loop.Result) []string {
	lines := []string{c.styles.title.Render("GAME OVER"), ""}

	if len(r.Players) == 1 {
		lines = append(lines, fmt.Sprintf("Final Score: %d", r.Players[0].Score))
	} else {
		scores := make([]string, 0, len(r.Players))
		for _, p := range r.Players {
			scores = append(scores, fmt.Sprintf("P%d: %d", p.Player+1, p.Score))
		}
		lines = append(lines, "Final Score", strings.Join(scores, "   "))
		if w := r.Winner(); w >= 0 {
			lines = append(lines, c.styles.accent.Render(fmt.Sprintf("Player %d wins!", w+1)))
		} else {
			lines = append(lines, c.styles.accent.Render("Draw"))
		}
	}

	if c.hub != nil {
		if top := c.hub.TopScores(); len(top) > 0 {
			lines = append(lines, "", c.styles.accent.Render("Top Scores"))
			for i, e := range top {
				lines = append(lines, fmt.Sprintf("%d. %-14s %6d", i+1, truncate(e.Username, 14), e.Score))
			}
		}
	}

	lines = append(lines, "",
		blink(fmt.Sprintf(">>  Press %s to Restart  <<", keyLabel(c.settings.Restart))),
		c.styles.hint.Render(fmt.Sprintf("%s to exit", keyLabel(c.settings.Back))),
	)
	return lines
}

func (c *Client) idleLines() []string {
	remaining := int((c.idleTimeout - time.Since(c.state.lastInput)).Seconds())
	return []string{
		c.styles.title.Render("INACTIVITY WARNING"),
		"",
		fmt.Sprintf("You will be disconnected in %d seconds.", max(0, remaining)),
		c.styles.hint.Render("Press any key to continue"),
	}
}

func (c *Client) shutdownLines() []string {
	return []string{
		c.styles.title.Render("SERVER SHUTTING DOWN"),
		"",
		"The server is restarting for maintenance.",
		"Please reconnect in a moment.",
		c.styles.hint.Render(fmt.Sprintf("Disconnecting in %d seconds...", int(loopcfg.ShutdownDisplaySeconds))),
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
