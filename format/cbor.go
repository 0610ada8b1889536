package format

import (
	"fmt"
	"io"

	"github.com/Col-E/CAFED00D-sub000/classfile"
	"github.com/fxamacker/cbor/v2"
)

// cborEncMode uses canonical options so equal classes encode to equal bytes.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("format: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// CBOREncoder writes the same summary as JSONEncoder in CBOR.
type CBOREncoder struct {
	w     io.Writer
	class *classfile.ClassFile
}

func NewCBOREncoder(w io.Writer) *CBOREncoder {
	return &CBOREncoder{w: w}
}

func (e *CBOREncoder) Encode(cf *classfile.ClassFile) error {
	e.class = cf
	data, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(data)
	return err
}

// MarshalText returns binary CBOR; it satisfies Encoder, not a text format.
func (e *CBOREncoder) MarshalText() ([]byte, error) {
	return cborEncMode.Marshal(summarize(e.class))
}
