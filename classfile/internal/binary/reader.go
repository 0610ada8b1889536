package binary

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// ErrSeek is returned when a seek targets a position outside the reader's region.
var ErrSeek = errors.New("seek out of range")

// Reader is a big-endian cursor over a byte slice.
//
// Errors are sticky: once a read fails every later read returns the zero value
// and Err reports the first failure. Sub-readers created with Slice alias the
// same backing array but track their own position, so a nested decoder can
// never move the parent's cursor or read past its own region.
type Reader struct {
	buf  []byte
	base int
	pos  int
	err  error
}

// NewReader creates a Reader over data starting at absolute offset 0.
func NewReader(data []byte) *Reader {
	return &Reader{buf: data}
}

// Err returns the first error encountered, if any.
func (r *Reader) Err() error {
	return r.err
}

// Position returns the current position relative to the start of this reader.
func (r *Reader) Position() int {
	return r.pos
}

// Offset returns the current position relative to the outermost reader.
func (r *Reader) Offset() int {
	return r.base + r.pos
}

// Len returns the size of this reader's region.
func (r *Reader) Len() int {
	return len(r.buf)
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.pos
}

// Seek moves to an absolute position within this reader's region.
// Seeking clears nothing: a sticky error stays set.
func (r *Reader) Seek(pos int) error {
	if pos < 0 || pos > len(r.buf) {
		return r.fail(fmt.Errorf("%w: %d not in [0, %d]", ErrSeek, pos, len(r.buf)))
	}
	r.pos = pos
	return nil
}

// Skip moves the cursor n bytes relative to the current position.
func (r *Reader) Skip(n int) {
	if r.err != nil {
		return
	}
	if !r.ensure(n) {
		return
	}
	r.pos += n
}

// Slice returns a reader bounded to the next n bytes and advances past them.
func (r *Reader) Slice(n int) *Reader {
	if r.err != nil {
		return &Reader{err: r.err, base: r.Offset()}
	}
	if n < 0 || !r.ensure(n) {
		return &Reader{err: r.err, base: r.Offset()}
	}
	sub := &Reader{
		buf:  r.buf[r.pos : r.pos+n : r.pos+n],
		base: r.Offset(),
	}
	r.pos += n
	return sub
}

// ReadU1 reads an unsigned byte.
func (r *Reader) ReadU1() uint8 {
	if r.err != nil || !r.ensure(1) {
		return 0
	}
	b := r.buf[r.pos]
	r.pos++
	return b
}

// ReadS1 reads a signed byte.
func (r *Reader) ReadS1() int8 {
	return int8(r.ReadU1())
}

// ReadU2 reads a big-endian uint16.
func (r *Reader) ReadU2() uint16 {
	if r.err != nil || !r.ensure(2) {
		return 0
	}
	v := binary.BigEndian.Uint16(r.buf[r.pos:])
	r.pos += 2
	return v
}

// ReadS2 reads a big-endian int16.
func (r *Reader) ReadS2() int16 {
	return int16(r.ReadU2())
}

// ReadU4 reads a big-endian uint32.
func (r *Reader) ReadU4() uint32 {
	if r.err != nil || !r.ensure(4) {
		return 0
	}
	v := binary.BigEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v
}

// ReadS4 reads a big-endian int32.
func (r *Reader) ReadS4() int32 {
	return int32(r.ReadU4())
}

// ReadU8 reads a big-endian uint64.
func (r *Reader) ReadU8() uint64 {
	if r.err != nil || !r.ensure(8) {
		return 0
	}
	v := binary.BigEndian.Uint64(r.buf[r.pos:])
	r.pos += 8
	return v
}

// ReadF4 reads a big-endian IEEE 754 float32.
func (r *Reader) ReadF4() float32 {
	return math.Float32frombits(r.ReadU4())
}

// ReadF8 reads a big-endian IEEE 754 float64.
func (r *Reader) ReadF8() float64 {
	return math.Float64frombits(r.ReadU8())
}

// ReadBytes returns a copy of the next n bytes.
func (r *Reader) ReadBytes(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || !r.ensure(n) {
		return nil
	}
	out := make([]byte, n)
	copy(out, r.buf[r.pos:r.pos+n])
	r.pos += n
	return out
}

func (r *Reader) ensure(n int) bool {
	if n < 0 || len(r.buf)-r.pos < n {
		r.fail(fmt.Errorf("at offset %d: need %d bytes, have %d: %w",
			r.Offset(), n, len(r.buf)-r.pos, io.ErrUnexpectedEOF))
		return false
	}
	return true
}

func (r *Reader) fail(err error) error {
	if r.err == nil {
		r.err = err
	}
	return r.err
}
