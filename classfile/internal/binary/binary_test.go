package binary

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestReaderPrimitives(t *testing.T) {
	data := []byte{
		0xCA, 0xFE, 0xBA, 0xBE,
		0x00, 0x34,
		0xFF,
		0xFF, 0xFE,
		0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08,
	}
	r := NewReader(data)

	if got := r.ReadU4(); got != 0xCAFEBABE {
		t.Errorf("ReadU4 = %#x, want 0xCAFEBABE", got)
	}
	if got := r.ReadU2(); got != 52 {
		t.Errorf("ReadU2 = %d, want 52", got)
	}
	if got := r.ReadS1(); got != -1 {
		t.Errorf("ReadS1 = %d, want -1", got)
	}
	if got := r.ReadS2(); got != -2 {
		t.Errorf("ReadS2 = %d, want -2", got)
	}
	if got := r.ReadU8(); got != 0x0102030405060708 {
		t.Errorf("ReadU8 = %#x", got)
	}
	if r.Err() != nil {
		t.Fatalf("unexpected error: %v", r.Err())
	}
	if r.Remaining() != 0 {
		t.Errorf("Remaining = %d, want 0", r.Remaining())
	}
}

func TestReaderStickyError(t *testing.T) {
	r := NewReader([]byte{0x01})
	_ = r.ReadU2()
	if !errors.Is(r.Err(), io.ErrUnexpectedEOF) {
		t.Fatalf("Err = %v, want ErrUnexpectedEOF", r.Err())
	}
	if got := r.ReadU1(); got != 0 {
		t.Errorf("read after error returned %d, want 0", got)
	}
	if r.Position() != 0 {
		t.Errorf("Position = %d, want 0 after failed read", r.Position())
	}
}

func TestReaderSliceIsBounded(t *testing.T) {
	r := NewReader([]byte{0, 1, 2, 3, 4, 5, 6, 7})
	r.Skip(2)
	sub := r.Slice(3)

	if r.Position() != 5 {
		t.Errorf("parent Position = %d, want 5", r.Position())
	}
	if sub.Offset() != 2 {
		t.Errorf("sub Offset = %d, want 2", sub.Offset())
	}
	if got := sub.ReadU2(); got != 0x0203 {
		t.Errorf("sub ReadU2 = %#x, want 0x0203", got)
	}
	_ = sub.ReadU2()
	if sub.Err() == nil {
		t.Error("sub-reader read past its region")
	}
	if r.Err() != nil {
		t.Errorf("sub-reader error leaked into parent: %v", r.Err())
	}
	if got := r.ReadU1(); got != 5 {
		t.Errorf("parent ReadU1 = %d, want 5", got)
	}
}

func TestReaderSeek(t *testing.T) {
	r := NewReader([]byte{9, 8, 7})
	r.Skip(3)
	if err := r.Seek(1); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	if got := r.ReadU1(); got != 8 {
		t.Errorf("ReadU1 after Seek = %d, want 8", got)
	}
	if err := r.Seek(4); !errors.Is(err, ErrSeek) {
		t.Errorf("Seek(4) = %v, want ErrSeek", err)
	}
}

func TestReadBytesCopies(t *testing.T) {
	data := []byte{1, 2, 3}
	r := NewReader(data)
	out := r.ReadBytes(3)
	out[0] = 42
	if data[0] != 1 {
		t.Error("ReadBytes aliased the input buffer")
	}
}

func TestWriterRoundTrip(t *testing.T) {
	w := NewWriter()
	w.WriteU1(0x7F)
	w.WriteU2(0xBEEF)
	w.WriteU4(0xCAFEBABE)
	w.WriteU8(0x1122334455667788)
	w.WriteF4(1.5)
	w.WriteF8(-2.25)
	w.WriteBytes([]byte("ok"))

	if w.Len() != 1+2+4+8+4+8+2 {
		t.Fatalf("Len = %d", w.Len())
	}

	r := NewReader(w.Bytes())
	if r.ReadU1() != 0x7F || r.ReadU2() != 0xBEEF || r.ReadU4() != 0xCAFEBABE {
		t.Fatal("integer round trip mismatch")
	}
	if r.ReadU8() != 0x1122334455667788 {
		t.Fatal("u8 round trip mismatch")
	}
	if r.ReadF4() != 1.5 || r.ReadF8() != -2.25 {
		t.Fatal("float round trip mismatch")
	}
	if !bytes.Equal(r.ReadBytes(2), []byte("ok")) {
		t.Fatal("bytes round trip mismatch")
	}
}
