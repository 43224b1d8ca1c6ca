package stream

import (
	"encoding/binary"
	"math/big"
	"strings"

	"golang.org/x/text/encoding/unicode"

	"github.com/wippyai/pcdecode/errors"
)

const (
	// PackedNumberSize is the on-disk size of a packed number token payload.
	PackedNumberSize = 18

	packedMagnitudeSize = 14
)

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// Reader is a sequential cursor over a program buffer with position tracking
// and the primitive reads the bytecode format needs.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a Reader positioned at the start of data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Position returns the current byte position.
func (r *Reader) Position() int {
	return r.pos
}

// Len returns the number of unread bytes.
func (r *Reader) Len() int {
	return len(r.data) - r.pos
}

// AtEnd reports whether every byte has been consumed.
func (r *Reader) AtEnd() bool {
	return r.pos >= len(r.data)
}

// Skip advances the cursor by n bytes.
func (r *Reader) Skip(n int) error {
	if err := r.need(n); err != nil {
		return err
	}
	r.pos += n
	return nil
}

// ReadByte reads a single byte and advances the position.
func (r *Reader) ReadByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, errors.Truncated(r.pos, 1, 0)
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// Peek returns the next byte without consuming it.
func (r *Reader) Peek() (byte, bool) {
	if r.pos >= len(r.data) {
		return 0, false
	}
	return r.data[r.pos], true
}

// ReadBytes reads exactly n bytes. The returned slice aliases the buffer.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	buf := r.data[r.pos : r.pos+n]
	r.pos += n
	return buf, nil
}

// ReadU16 reads a little-endian uint16.
func (r *Reader) ReadU16() (uint16, error) {
	buf, err := r.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(buf), nil
}

// ReadUTF16String reads UTF-16LE code units up to and including a zero unit
// and returns the decoded text without the terminator.
func (r *Reader) ReadUTF16String() (string, error) {
	start := r.pos
	for {
		unit, err := r.ReadU16()
		if err != nil {
			return "", err
		}
		if unit == 0 {
			break
		}
	}
	return r.decode(start, r.data[start:r.pos-2])
}

// ReadLengthPrefixedUTF16 reads a little-endian byte count followed by that
// many bytes of UTF-16LE text.
func (r *Reader) ReadLengthPrefixedUTF16() (string, error) {
	n, err := r.ReadU16()
	if err != nil {
		return "", err
	}
	start := r.pos
	raw, err := r.ReadBytes(int(n))
	if err != nil {
		return "", err
	}
	return r.decode(start, raw)
}

// ReadComment reads a comment payload: a two-byte length stored as low byte
// then high byte, followed by that many bytes of UTF-16LE text.
func (r *Reader) ReadComment() (string, error) {
	lo, err := r.ReadByte()
	if err != nil {
		return "", err
	}
	hi, err := r.ReadByte()
	if err != nil {
		return "", err
	}
	n := int(lo) + int(hi)*256
	start := r.pos
	raw, err := r.ReadBytes(n)
	if err != nil {
		return "", err
	}
	return r.decode(start, raw)
}

// ReadPackedNumber reads an 18-byte packed decimal: one reserved byte, the
// decimal point position, fourteen little-endian magnitude bytes and two
// trailing bytes that carry nothing the text form needs.
func (r *Reader) ReadPackedNumber() (string, error) {
	buf, err := r.ReadBytes(PackedNumberSize)
	if err != nil {
		return "", err
	}
	places := int(buf[1])

	be := make([]byte, packedMagnitudeSize)
	for i := 0; i < packedMagnitudeSize; i++ {
		be[packedMagnitudeSize-1-i] = buf[2+i]
	}
	return FormatPacked(new(big.Int).SetBytes(be), places), nil
}

// FormatPacked renders magnitude with a decimal point places digits from the
// right, left-padding with zeros so at least one integer digit remains.
func FormatPacked(magnitude *big.Int, places int) string {
	digits := magnitude.String()
	if places <= 0 {
		return digits
	}
	if len(digits) < places+1 {
		digits = strings.Repeat("0", places+1-len(digits)) + digits
	}
	cut := len(digits) - places
	s := digits[:cut] + "." + digits[cut:]
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	return s
}

func (r *Reader) need(n int) error {
	if n < 0 || r.pos+n > len(r.data) {
		return errors.Truncated(r.pos, n, len(r.data)-r.pos)
	}
	return nil
}

func (r *Reader) decode(pos int, raw []byte) (string, error) {
	out, err := utf16le.NewDecoder().Bytes(raw)
	if err != nil {
		return "", errors.InvalidUTF16(pos, raw, err)
	}
	return string(out), nil
}
