// Package input turns a raw terminal byte stream into named key presses.
package input

import (
	"bufio"
	"io"
)

// Key names shared with the settings layer. Printable characters are named by
// themselves, lowercased.
const (
	KeyUp        = "up"
	KeyDown      = "down"
	KeyLeft      = "left"
	KeyRight     = "right"
	KeyEscape    = "esc"
	KeyEnter     = "enter"
	KeySpace     = "space"
	KeyTab       = "tab"
	KeyBackspace = "backspace"
	KeyCtrlC     = "ctrl+c"
)

// Stream delivers input bytes via a channel.
type Stream struct {
	ch      chan byte
	closed  bool
	pending []byte // Incomplete escape sequence held back from the last read
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
// The channel is closed when r returns an error (EOF on disconnect).
func StartStream(r io.Reader) *Stream {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	s := &Stream{ch: make(chan byte, 128)}
	go func() {
		for {
			b, err := br.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ReadKeys drains all available bytes (non-blocking) and returns the keys they
// encode, in arrival order. closed reports that the reader has ended; keys read
// before the end are still returned.
func (s *Stream) ReadKeys() (keys []string, closed bool) {
	var buf []byte
drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}
	return s.decode(buf), s.closed
}

// decode parses newly arrived bytes. A trailing partial escape sequence is held
// back for one read so an arrow key split across two reads is not taken for ESC.
// If nothing arrives by the next read, the held bytes are flushed as they are.
func (s *Stream) decode(buf []byte) []string {
	if len(buf) == 0 {
		if len(s.pending) == 0 {
			return nil
		}
		keys := Parse(s.pending)
		s.pending = s.pending[:0]
		return keys
	}

	buf = append(s.pending, buf...)
	keys, rest := parse(buf)
	s.pending = append(s.pending[:0:0], rest...)
	if s.closed && len(s.pending) > 0 {
		keys = append(keys, Parse(s.pending)...)
		s.pending = nil
	}
	return keys
}

// Parse decodes a chunk of terminal input into key names. Unknown escape
// sequences are skipped whole. A lone ESC at the end of the chunk is the escape key;
// any other truncated sequence is dropped.
func Parse(buf []byte) []string {
	keys, rest := parse(buf)
	if len(rest) == 1 {
		keys = append(keys, KeyEscape)
	}
	return keys
}

// parse decodes complete keys and returns the incomplete escape sequence at
// the end of buf, if any.
func parse(buf []byte) (keys []string, rest []byte) {
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		if b == '\x1b' && i+1 == len(buf) {
			return keys, buf[i:]
		}

		if b == '\x1b' && (buf[i+1] == '[' || buf[i+1] == 'O') {
			// CSI or SS3: ESC [ params final / ESC O final
			j := i + 2
			for j < len(buf) && (buf[j] < 0x40 || buf[j] > 0x7e) {
				j++
			}
			if j >= len(buf) {
				return keys, buf[i:]
			}
			if name, ok := arrow(buf[j]); ok {
				keys = append(keys, name)
			}
			i = j
			continue
		}

		if name := byteKey(b); name != "" {
			keys = append(keys, name)
		}
	}
	return keys, nil
}

func arrow(final byte) (string, bool) {
	switch final {
	case 'A':
		return KeyUp, true
	case 'B':
		return KeyDown, true
	case 'C':
		return KeyRight, true
	case 'D':
		return KeyLeft, true
	}
	return "", false
}

// byteKey names a single-byte key, or returns "" for bytes with no binding.
func byteKey(b byte) string {
	switch {
	case b == '\x1b':
		return KeyEscape
	case b == '\r' || b == '\n':
		return KeyEnter
	case b == ' ':
		return KeySpace
	case b == '\t':
		return KeyTab
	case b == '\b' || b == '\x7f':
		return KeyBackspace
	case b == '\x03':
		return KeyCtrlC
	case b >= 'A' && b <= 'Z':
		return string(rune(b - 'A' + 'a'))
	case b > ' ' && b < 0x7f:
		return string(rune(b))
	}
	return ""
}
