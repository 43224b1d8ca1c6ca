package text

import "strings"

// CRLF terminates every emitted line.
const CRLF = "\r\n"

// Builder is a growable text buffer that can be rewound from the end.
// Decoded programs are ASCII-dominated, so the buffer stores bytes and the
// rewind predicates look at single bytes; multi-byte runes are never split
// because no predicate matches a UTF-8 continuation byte.
type Builder struct {
	buf []byte
}

// NewBuilder returns a Builder with room for size bytes.
func NewBuilder(size int) *Builder {
	return &Builder{buf: make([]byte, 0, size)}
}

func (b *Builder) WriteString(s string) {
	b.buf = append(b.buf, s...)
}

func (b *Builder) WriteByte(c byte) error {
	b.buf = append(b.buf, c)
	return nil
}

// Repeat appends s n times. Non-positive n writes nothing.
func (b *Builder) Repeat(s string, n int) {
	for i := 0; i < n; i++ {
		b.buf = append(b.buf, s...)
	}
}

// Len returns the number of bytes written.
func (b *Builder) Len() int {
	return len(b.buf)
}

// Last returns the final byte, or false when the buffer is empty.
func (b *Builder) Last() (byte, bool) {
	if len(b.buf) == 0 {
		return 0, false
	}
	return b.buf[len(b.buf)-1], true
}

// Truncate shortens the buffer to n bytes. Values outside [0, Len] are clamped.
func (b *Builder) Truncate(n int) {
	if n < 0 {
		n = 0
	}
	if n < len(b.buf) {
		b.buf = b.buf[:n]
	}
}

// TruncateWhile removes trailing bytes while pred reports true and returns the
// number of bytes removed.
func (b *Builder) TruncateWhile(pred func(byte) bool) int {
	n := len(b.buf)
	for n > 0 && pred(b.buf[n-1]) {
		n--
	}
	removed := len(b.buf) - n
	b.buf = b.buf[:n]
	return removed
}

// HasSuffix reports whether the buffer ends with s.
func (b *Builder) HasSuffix(s string) bool {
	return len(b.buf) >= len(s) && string(b.buf[len(b.buf)-len(s):]) == s
}

// LineIsBlank reports whether everything after the last newline is
// whitespace. An empty buffer counts as blank.
func (b *Builder) LineIsBlank() bool {
	for i := len(b.buf) - 1; i >= 0; i-- {
		switch b.buf[i] {
		case '\n':
			return true
		case ' ', '\t', '\r':
		default:
			return false
		}
	}
	return true
}

// String returns the buffer contents.
func (b *Builder) String() string {
	return string(b.buf)
}

// Trimmed returns the contents without leading or trailing whitespace.
func (b *Builder) Trimmed() string {
	return strings.TrimSpace(string(b.buf))
}

// IsSpace matches the blank characters padding and separators produce.
func IsSpace(c byte) bool {
	return c == ' '
}

// IsWhitespace matches spaces, tabs and line breaks.
func IsWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
