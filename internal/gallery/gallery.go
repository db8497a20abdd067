// Package gallery models the detail-viewer overlay: a cursor into an
// ordered in-memory list with previous/next stepping and keyboard
// handling. The cursor only navigates what the hosting view passed in;
// it fetches nothing itself.
package gallery

// Keyboard contract of the viewer.
const (
	KeyEscape     = "Escape"
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
)

type Cursor struct {
	length int
	index  int
}

// NewCursor positions a cursor over a list of the given length. ok is
// false when the index is out of range, which the caller treats as a
// closed viewer.
func NewCursor(length, index int) (Cursor, bool) {
	if length <= 0 || index < 0 || index >= length {
		return Cursor{}, false
	}
	return Cursor{length: length, index: index}, true
}

func (c Cursor) Index() int { return c.index }
func (c Cursor) Len() int   { return c.length }

// AtStart reports whether previous is disabled.
func (c Cursor) AtStart() bool { return c.index == 0 }

// AtEnd reports whether next is disabled.
func (c Cursor) AtEnd() bool { return c.index == c.length-1 }

// Prev steps back one item; a no-op at the first index.
func (c Cursor) Prev() Cursor {
	if c.AtStart() {
		return c
	}
	c.index--
	return c
}

// Next steps forward one item; a no-op at the last index.
func (c Cursor) Next() Cursor {
	if c.AtEnd() {
		return c
	}
	c.index++
	return c
}

// HandleKey applies a key event. open is false only for Escape; any
// unrecognized key leaves the cursor untouched.
func (c Cursor) HandleKey(key string) (next Cursor, open bool) {
	switch key {
	case KeyEscape:
		return c, false
	case KeyArrowLeft:
		return c.Prev(), true
	case KeyArrowRight:
		return c.Next(), true
	default:
		return c, true
	}
}
