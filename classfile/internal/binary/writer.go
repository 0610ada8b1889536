package binary

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Writer accumulates big-endian encoded values.
type Writer struct {
	buf *bytes.Buffer
}

// NewWriter creates an empty Writer.
func NewWriter() *Writer {
	return &Writer{buf: &bytes.Buffer{}}
}

// Bytes returns the written bytes.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// WriteU1 writes one byte.
func (w *Writer) WriteU1(v uint8) {
	w.buf.WriteByte(v)
}

// WriteU2 writes a big-endian uint16.
func (w *Writer) WriteU2(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	w.buf.Write(b[:])
}

// WriteU4 writes a big-endian uint32.
func (w *Writer) WriteU4(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

// WriteU8 writes a big-endian uint64.
func (w *Writer) WriteU8(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

// WriteF4 writes a float32 as its IEEE 754 bits.
func (w *Writer) WriteF4(v float32) {
	w.WriteU4(math.Float32bits(v))
}

// WriteF8 writes a float64 as its IEEE 754 bits.
func (w *Writer) WriteF8(v float64) {
	w.WriteU8(math.Float64bits(v))
}

// WriteBytes writes data verbatim.
func (w *Writer) WriteBytes(data []byte) {
	w.buf.Write(data)
}
