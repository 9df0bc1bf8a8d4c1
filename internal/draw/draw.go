// Package draw renders colored half-block pixels and text to ANSI terminals.
package draw

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// Layout places a canvas of fixed size inside a terminal.
type Layout struct {
	OffsetCol int  // Columns left of the canvas
	OffsetRow int  // Rows above the canvas
	Fits      bool // Terminal is large enough for the canvas plus its header row
}

// Center computes the offsets that center a canvas of canvasCols x canvasRows in a
// terminal of termCols x termRows, reserving headerRows at the top for a HUD.
func Center(termCols, termRows, canvasCols, canvasRows, headerRows int) Layout {
	l := Layout{
		Fits: termCols >= canvasCols && termRows >= canvasRows+headerRows,
	}
	if !l.Fits {
		return l
	}
	l.OffsetCol = (termCols - canvasCols) / 2
	l.OffsetRow = headerRows + (termRows-headerRows-canvasRows)/2
	return l
}
