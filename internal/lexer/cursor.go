package lexer

import (
	"fmt"

	"idlc/internal/source"

	"fortio.org/safecast"
)

// Cursor is a byte position inside a single file.
type Cursor struct {
	file source.FileID
	src  []byte
	end  uint32
	Off  uint32
}

// NewCursor creates a new cursor for the provided file.
func NewCursor(f *source.File) Cursor {
	end, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return Cursor{file: f.ID, src: f.Content, end: end}
}

func (c *Cursor) EOF() bool {
	return c.Off >= c.end
}

// Peek returns the current byte or 0 at EOF.
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.src[c.Off]
}

// PeekAt returns the byte n positions ahead or 0 past EOF.
func (c *Cursor) PeekAt(n uint32) byte {
	if c.Off+n >= c.end {
		return 0
	}
	return c.src[c.Off+n]
}

// Bump consumes one byte and returns it.
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.src[c.Off]
	c.Off++
	return b
}

// Eat consumes the next byte if it matches b.
func (c *Cursor) Eat(b byte) bool {
	if c.Peek() == b && !c.EOF() {
		c.Off++
		return true
	}
	return false
}

// Mark is a saved offset used to build spans.
type Mark uint32

func (c *Cursor) Mark() Mark {
	return Mark(c.Off)
}

// SpanFrom returns the span between m and the current offset.
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{File: c.file, Start: uint32(m), End: c.Off}
}

func (c *Cursor) Reset(m Mark) {
	c.Off = uint32(m)
}

// Slice returns the source text covered by sp.
func (c *Cursor) Slice(sp source.Span) string {
	return string(c.src[sp.Start:sp.End])
}

// Rest returns the unread bytes.
func (c *Cursor) Rest() []byte {
	return c.src[c.Off:c.end]
}
