// Package client is the ANSI terminal frontend: it feeds key presses into a
// session and renders its frames over any io.Reader/io.Writer pair (a local tty
// or an SSH channel).
package client

import (
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/tomz197/snake/internal/config"
	"github.com/tomz197/snake/internal/draw"
	"github.com/tomz197/snake/internal/input"
	"github.com/tomz197/snake/internal/loop"
	loopcfg "github.com/tomz197/snake/internal/loop/config"
	"github.com/tomz197/snake/internal/loop/server"
)

// Hub is the part of the multi-connection host a client reads from.
type Hub interface {
	TopScores() []server.TopScoreEntry
	ShuttingDown() bool
}

// Options configures the client.
type Options struct {
	TermSizeFunc draw.TermSizeFunc
	Settings     config.Settings
	Players      int
	Hub          Hub           // nil for local play (no leaderboard, no shutdown notice)
	IdleWarn     time.Duration // 0 disables the inactivity warning
	IdleTimeout  time.Duration // 0 disables the inactivity disconnect
}

// Client handles rendering and input for a single terminal.
type Client struct {
	state        *clientState
	keys         loop.KeyMap
	settings     config.Settings
	players      int
	hub          Hub
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates HUD and overlay text for chunked output
	writer       io.Writer
	inputStream  *input.Stream
	termSizeFunc draw.TermSizeFunc
	styles       styles
	idleWarn     time.Duration
	idleTimeout  time.Duration
}

// Ensure Client is both halves of the session's frontend.
var (
	_ loop.InputSource = (*Client)(nil)
	_ loop.Surface     = (*Client)(nil)
)

// NewClient creates a client reading keys from r and drawing to w.
func NewClient(r io.Reader, w io.Writer, opts Options) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	players := opts.Players
	if players < 1 {
		players = 1
	}

	renderer := lipgloss.NewRenderer(w, termenv.WithProfile(termenv.TrueColor))

	return &Client{
		state:        newClientState(),
		keys:         loop.NewKeyMap(opts.Settings, players),
		settings:     opts.Settings,
		players:      players,
		hub:          opts.Hub,
		canvas:       draw.NewCanvas(loopcfg.GridWidth, loopcfg.GridHeight),
		chunkWriter:  draw.NewChunkWriter(w),
		writer:       w,
		inputStream:  input.StartStream(r),
		termSizeFunc: termSizeFunc,
		styles:       newStyles(renderer),
		idleWarn:     opts.IdleWarn,
		idleTimeout:  opts.IdleTimeout,
	}
}

// Start prepares the terminal: hidden cursor, empty screen.
func (c *Client) Start() {
	draw.HideCursor(c.writer)
	draw.ClearScreen(c.writer)
}

// Close restores the terminal.
func (c *Client) Close() {
	draw.ClearScreen(c.writer)
	draw.ShowCursor(c.writer)
}

// Poll implements loop.InputSource. It never blocks.
func (c *Client) Poll() ([]loop.Event, error) {
	keys, closed := c.inputStream.ReadKeys()
	now := time.Now()

	if len(keys) > 0 {
		c.state.lastInput = now
		c.state.inactive = false
	} else if closed {
		return nil, loop.ErrInputClosed
	}

	idle := now.Sub(c.state.lastInput)
	switch {
	case c.idleTimeout > 0 && idle > c.idleTimeout:
		return []loop.Event{loop.Quit()}, nil
	case c.idleWarn > 0 && idle > c.idleWarn:
		c.state.inactive = true
	}

	return c.keys.Events(keys), nil
}

// updateScreen recomputes the layout for the current terminal size. On actual
// changes it clears the terminal to remove residual cells outside the new area.
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	boxCols := c.canvas.TerminalWidth() + 2
	boxRows := c.canvas.TerminalHeight() + 2
	layout := draw.Center(termWidth, termHeight, boxCols, boxRows, hudRows)

	if layout != c.state.layout || termWidth != c.state.termWidth || termHeight != c.state.termHeight {
		draw.ClearScreen(c.chunkWriter)
		c.canvas.ForceRedraw()
		c.state.layout = layout
		c.state.termWidth = termWidth
		c.state.termHeight = termHeight
	}

	// Canvas starts inside the border
	c.canvas.SetOffset(layout.OffsetCol+1, layout.OffsetRow+1)
}
