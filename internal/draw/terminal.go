package draw

import (
	"io"
	"os"
	"strconv"

	"golang.org/x/term"
)

// maxChunkSize keeps each terminal write under a typical TCP payload so a
// frame crosses an SSH channel as a few whole packets.
const maxChunkSize = 1400

// Terminal control sequences.
const (
	seqClearScreen = "\033[H\033[2J"
	seqHideCursor  = "\033[?25l"
	seqShowCursor  = "\033[?25h"
	seqResetStyle  = "\033[0m"
)

// ChunkWriter collects one frame of output (canvas diff, border, HUD and
// overlays) and sends it with Flush. The zero value collects but drops on Flush.
type ChunkWriter struct {
	buf []byte
	out io.Writer
}

// NewChunkWriter creates a ChunkWriter that flushes to w.
func NewChunkWriter(w io.Writer) *ChunkWriter {
	return &ChunkWriter{out: w}
}

// Write appends p. It never fails.
func (cw *ChunkWriter) Write(p []byte) (int, error) {
	cw.buf = append(cw.buf, p...)
	return len(p), nil
}

// WriteString appends s. It never fails.
func (cw *ChunkWriter) WriteString(s string) (int, error) {
	cw.buf = append(cw.buf, s...)
	return len(s), nil
}

// WriteAt places s at the 1-based terminal position (col, row).
func (cw *ChunkWriter) WriteAt(col, row int, s string) {
	cw.buf = appendCursor(cw.buf, col, row)
	cw.buf = append(cw.buf, s...)
}

// Len returns the number of bytes waiting to be flushed.
func (cw *ChunkWriter) Len() int {
	return len(cw.buf)
}

// Flush sends the collected frame and empties the buffer.
func (cw *ChunkWriter) Flush() error {
	defer func() { cw.buf = cw.buf[:0] }()
	if cw.out == nil {
		return nil
	}
	return writeChunks(cw.out, cw.buf)
}

var _ io.StringWriter = (*ChunkWriter)(nil)

func writeChunks(w io.Writer, data []byte) error {
	for len(data) > 0 {
		n := min(len(data), maxChunkSize)
		if _, err := w.Write(data[:n]); err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}

// appendCursor appends ESC[row;colH.
func appendCursor(b []byte, col, row int) []byte {
	b = append(b, "\033["...)
	b = strconv.AppendInt(b, int64(row), 10)
	b = append(b, ';')
	b = strconv.AppendInt(b, int64(col), 10)
	return append(b, 'H')
}

// appendColor appends ESC[38;2;r;g;bm (layer 38, foreground) or the
// layer 48 background equivalent.
func appendColor(b []byte, layer int, c Color) []byte {
	b = append(b, "\033["...)
	b = strconv.AppendInt(b, int64(layer), 10)
	b = append(b, ";2;"...)
	b = strconv.AppendUint(b, uint64(c.R), 10)
	b = append(b, ';')
	b = strconv.AppendUint(b, uint64(c.G), 10)
	b = append(b, ';')
	b = strconv.AppendUint(b, uint64(c.B), 10)
	return append(b, 'm')
}

// TermSizeFunc is a function that returns the terminal dimensions.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc returns terminal size from os.Stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// ClearScreen clears the terminal and homes the cursor.
func ClearScreen(w io.Writer) {
	io.WriteString(w, seqClearScreen)
}

// HideCursor hides the terminal cursor.
func HideCursor(w io.Writer) {
	io.WriteString(w, seqHideCursor)
}

// ShowCursor resets styling and shows the terminal cursor.
func ShowCursor(w io.Writer) {
	io.WriteString(w, seqResetStyle+seqShowCursor)
}
