package draw

import (
	"io"
	"strings"
)

// Color is a 24-bit terminal color.
type Color struct {
	R, G, B uint8
}

// pixel is one sub-pixel: half of a terminal cell.
type pixel struct {
	color Color
	on    bool
}

// Canvas is a drawing buffer with 2x vertical resolution using half-block characters.
// One logical pixel maps to one column and half a row, so a W x H grid needs W x H/2 cells.
// Render only rewrites cells that changed since the previous frame.
type Canvas struct {
	width          int     // Terminal columns used
	height         int     // Terminal rows used
	subPixelHeight int     // height * 2
	pixels         []pixel // Flat slice: [y * width + x]
	prev           []pixel // Last rendered frame
	dirty          bool    // Redraw everything on next Render

	// Offset for centering the render area inside a larger terminal.
	// These are 0-based terminal offsets (columns/rows to skip).
	offsetCol int
	offsetRow int

	renderBuf []byte
}

// NewCanvas creates a canvas for a logical grid of width x height pixels.
func NewCanvas(width, height int) *Canvas {
	rows := (height + 1) / 2
	sub := rows * 2
	return &Canvas{
		width:          width,
		height:         rows,
		subPixelHeight: sub,
		pixels:         make([]pixel, sub*width),
		prev:           make([]pixel, sub*width),
		dirty:          true,
	}
}

// SetOffset sets the column and row offset for centering the canvas.
// Offsets are 0-based terminal positions: the canvas starts at (offsetCol+1, offsetRow+1).
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.dirty = true
	}
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int {
	return c.offsetCol
}

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int {
	return c.offsetRow
}

// Clear resets all pixels in the canvas. The previous frame is kept for diffing.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// ForceRedraw makes the next Render write every cell, e.g. after the terminal was cleared.
func (c *Canvas) ForceRedraw() {
	c.dirty = true
}

// Set colors the pixel at logical (x, y). Out-of-range coordinates are ignored.
func (c *Canvas) Set(x, y int, col Color) {
	if x >= 0 && x < c.width && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.width+x] = pixel{color: col, on: true}
	}
}

// At reports the color of the pixel at logical (x, y) and whether it is set.
func (c *Canvas) At(x, y int) (Color, bool) {
	if x < 0 || x >= c.width || y < 0 || y >= c.subPixelHeight {
		return Color{}, false
	}
	p := c.pixels[y*c.width+x]
	return p.color, p.on
}

// Render writes changed cells to w using half-block characters and truecolor escapes.
func (c *Canvas) Render(w io.Writer) {
	c.renderBuf = c.renderBuf[:0]

	cursorRow, cursorCol := -1, -1
	for row := 0; row < c.height; row++ {
		topOffset := row * 2 * c.width
		bottomOffset := topOffset + c.width

		for col := 0; col < c.width; col++ {
			top := c.pixels[topOffset+col]
			bottom := c.pixels[bottomOffset+col]
			if !c.dirty && top == c.prev[topOffset+col] && bottom == c.prev[bottomOffset+col] {
				continue
			}

			if cursorRow != row || cursorCol != col {
				c.renderBuf = appendCursor(c.renderBuf, col+1+c.offsetCol, row+1+c.offsetRow)
			}
			c.writeCell(top, bottom)
			cursorRow, cursorCol = row, col+1
		}
	}
	if len(c.renderBuf) > 0 {
		c.renderBuf = append(c.renderBuf, seqResetStyle...)
	}

	copy(c.prev, c.pixels)
	c.dirty = false

	_ = writeChunks(w, c.renderBuf)
}

// writeCell emits one terminal cell: the top pixel as foreground of an upper half
// block, the bottom pixel as its background.
func (c *Canvas) writeCell(top, bottom pixel) {
	b := c.renderBuf
	switch {
	case !top.on && !bottom.on:
		b = append(b, seqResetStyle+" "...)
	case top.on && !bottom.on:
		b = append(b, "\033[49m"...)
		b = appendColor(b, 38, top.color)
		b = append(b, string(BlockUpperHalf)...)
	case !top.on && bottom.on:
		b = append(b, "\033[49m"...)
		b = appendColor(b, 38, bottom.color)
		b = append(b, string(BlockLowerHalf)...)
	default:
		b = appendColor(b, 38, top.color)
		b = appendColor(b, 48, bottom.color)
		b = append(b, string(BlockUpperHalf)...)
	}
	c.renderBuf = b
}

// RenderBorder draws a box border around the canvas area when there is room for it.
// Draws horizontal borders when there is vertical offset, vertical borders
// when there is horizontal offset, and corners when both are present.
func (c *Canvas) RenderBorder(w io.Writer) {
	hasH := c.offsetCol >= 1 // Room for left/right vertical bars
	hasV := c.offsetRow >= 1 // Room for top/bottom horizontal bars

	// Border positions (1-based terminal coordinates)
	left := c.offsetCol
	right := c.offsetCol + c.width + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.height + 1

	var cw ChunkWriter
	line := strings.Repeat("─", c.width)

	if hasV {
		if hasH {
			cw.WriteAt(left, top, "┌"+line+"┐")
			cw.WriteAt(left, bottom, "└"+line+"┘")
		} else {
			cw.WriteAt(c.offsetCol+1, top, line)
			cw.WriteAt(c.offsetCol+1, bottom, line)
		}
	}

	if hasH {
		startRow, endRow := top+1, bottom
		if !hasV {
			// No horizontal borders, side bars span full canvas height
			startRow = c.offsetRow + 1
			endRow = c.offsetRow + c.height + 1
		}
		for row := startRow; row < endRow; row++ {
			cw.WriteAt(left, row, "│")
			cw.WriteAt(right, row, "│")
		}
	}

	_ = writeChunks(w, cw.buf)
}

// TerminalWidth returns the terminal column count covered by the canvas.
func (c *Canvas) TerminalWidth() int {
	return c.width
}

// TerminalHeight returns the terminal row count covered by the canvas.
func (c *Canvas) TerminalHeight() int {
	return c.height
}

// LogicalToTerminal converts a logical pixel to its 1-based terminal position (col, row),
// including the centering offset.
func (c *Canvas) LogicalToTerminal(x, y int) (col, row int) {
	return x + 1 + c.offsetCol, y/2 + 1 + c.offsetRow
}

