package classfile

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Col-E/CAFED00D-sub000/classfile/internal/binary"
	"go.uber.org/zap"
)

// ParseFile decodes the class file at path with DefaultOptions.
func ParseFile(path string) (*ClassFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read class file: %w", err)
	}
	return Decode(data, DefaultOptions())
}

// Parse decodes a class file read from rd with DefaultOptions.
func Parse(rd io.Reader) (*ClassFile, error) {
	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, fmt.Errorf("failed to read class file: %w", err)
	}
	return Decode(data, DefaultOptions())
}

// Decode decodes a class file. Malformed attributes are dropped according to
// opts and reported to opts.Logger; everything else that is malformed fails
// the whole decode with an *Error.
func Decode(data []byte, opts Options) (*ClassFile, error) {
	d := &decoder{opts: &opts, log: opts.logger()}
	return d.decode(binary.NewReader(data))
}

type decoder struct {
	opts   *Options
	log    *zap.Logger
	cp     *ConstantPool
	major  uint16
	minor  uint16
	module bool
	// depth counts nested element values being decoded.
	depth int
}

func (d *decoder) decode(r *binary.Reader) (*ClassFile, error) {
	magic := r.ReadU4()
	if r.Err() != nil {
		return nil, readErr(0, "magic", r.Err())
	}
	if magic != Magic {
		return nil, &Error{
			Phase:    PhaseDecode,
			Kind:     KindStructural,
			Cause:    ErrInvalidMagic,
			Expected: fmt.Sprintf("0x%08X", uint32(Magic)),
			Actual:   fmt.Sprintf("0x%08X", magic),
		}
	}

	cf := &ClassFile{
		MinorVersion: r.ReadU2(),
		MajorVersion: r.ReadU2(),
	}
	d.major, d.minor = cf.MajorVersion, cf.MinorVersion

	count := int(r.ReadU2())
	if r.Err() != nil {
		return nil, readErr(r.Offset(), "class header", r.Err())
	}
	cf.ConstantPool = NewConstantPool()
	if err := cf.ConstantPool.load(r, count); err != nil {
		return nil, fmt.Errorf("failed to read constant pool: %w", err)
	}
	d.cp = cf.ConstantPool

	offset := r.Offset()
	cf.AccessFlags = AccessFlags(r.ReadU2())
	thisIndex := int(r.ReadU2())
	superIndex := int(r.ReadU2())
	if r.Err() != nil {
		return nil, readErr(offset, "class info", r.Err())
	}
	d.module = cf.AccessFlags.IsModule()

	var err error
	if cf.ThisClass, err = Entry[*ConstantClassInfo](d.cp, thisIndex); err != nil {
		return nil, fmt.Errorf("failed to resolve this_class: %w", err)
	}
	if cf.SuperClass, err = OptionalEntry[*ConstantClassInfo](d.cp, superIndex); err != nil {
		return nil, fmt.Errorf("failed to resolve super_class: %w", err)
	}

	n := int(r.ReadU2())
	cf.Interfaces = make([]*ConstantClassInfo, 0, min(n, r.Remaining()/2))
	for i := 0; i < n; i++ {
		iface, err := Entry[*ConstantClassInfo](d.cp, int(r.ReadU2()))
		if r.Err() != nil {
			return nil, readErr(r.Offset(), "interfaces", r.Err())
		}
		if err != nil {
			return nil, fmt.Errorf("failed to resolve interface %d: %w", i, err)
		}
		cf.Interfaces = append(cf.Interfaces, iface)
	}

	n = int(r.ReadU2())
	cf.Fields = make([]FieldInfo, 0, min(n, r.Remaining()/8))
	for i := 0; i < n; i++ {
		access, name, desc, attrs, err := d.readMember(r, LocationField)
		if err != nil {
			return nil, fmt.Errorf("failed to read field %d: %w", i, err)
		}
		cf.Fields = append(cf.Fields, FieldInfo{AccessFlags: access, Name: name, Descriptor: desc, Attributes: attrs})
	}

	n = int(r.ReadU2())
	cf.Methods = make([]MethodInfo, 0, min(n, r.Remaining()/8))
	for i := 0; i < n; i++ {
		access, name, desc, attrs, err := d.readMember(r, LocationMethod)
		if err != nil {
			return nil, fmt.Errorf("failed to read method %d: %w", i, err)
		}
		cf.Methods = append(cf.Methods, MethodInfo{AccessFlags: access, Name: name, Descriptor: desc, Attributes: attrs})
	}

	if cf.Attributes, err = d.readAttributes(r, LocationClass); err != nil {
		return nil, fmt.Errorf("failed to read class attributes: %w", err)
	}
	if r.Remaining() > 0 {
		d.log.Debug("ignoring trailing bytes after class file",
			zap.Int("offset", r.Offset()),
			zap.Int("count", r.Remaining()))
	}
	return cf, nil
}

func (d *decoder) readMember(r *binary.Reader, loc Location) (AccessFlags, *ConstantUtf8Info, *ConstantUtf8Info, []Attribute, error) {
	offset := r.Offset()
	access := AccessFlags(r.ReadU2())
	nameIndex := int(r.ReadU2())
	descIndex := int(r.ReadU2())
	if r.Err() != nil {
		return 0, nil, nil, nil, readErr(offset, loc.String()+" info", r.Err())
	}
	name, err := Entry[*ConstantUtf8Info](d.cp, nameIndex)
	if err != nil {
		return 0, nil, nil, nil, err
	}
	desc, err := Entry[*ConstantUtf8Info](d.cp, descIndex)
	if err != nil {
		return 0, nil, nil, nil, err
	}
	attrs, err := d.readAttributes(r, loc)
	if err != nil {
		return 0, nil, nil, nil, err
	}
	return access, name, desc, attrs, nil
}

func (d *decoder) readAttributes(r *binary.Reader, loc Location) ([]Attribute, error) {
	offset := r.Offset()
	n := int(r.ReadU2())
	if r.Err() != nil {
		return nil, readErr(offset, "attribute count", r.Err())
	}
	attrs := make([]Attribute, 0, min(n, r.Remaining()/6))
	for i := 0; i < n; i++ {
		a, err := d.readAttribute(r, loc)
		if err != nil {
			return nil, err
		}
		if a != nil {
			attrs = append(attrs, a)
		}
	}
	return attrs, nil
}

// readAttribute decodes one attribute. It returns a nil attribute and a nil
// error when the attribute was dropped.
func (d *decoder) readAttribute(r *binary.Reader, loc Location) (Attribute, error) {
	offset := r.Offset()
	nameIndex := int(r.ReadU2())
	length := int64(r.ReadU4())
	if r.Err() != nil {
		return nil, readErr(offset, "attribute header", r.Err())
	}
	if length > int64(r.Remaining()) {
		return nil, readErr(offset, "attribute",
			fmt.Errorf("declared length %d exceeds the %d bytes left: %w", length, r.Remaining(), io.ErrUnexpectedEOF))
	}
	sub := r.Slice(int(length))

	name, err := Entry[*ConstantUtf8Info](d.cp, nameIndex)
	if err != nil {
		d.drop(offset, fmt.Sprintf("#%d", nameIndex), loc, "unresolvable name", err)
		return nil, nil
	}
	if reason := gateAttribute(name.Value, loc, d.major, d.module, d.opts); reason != "" {
		d.drop(offset, name.Value, loc, reason, nil)
		return nil, nil
	}

	a, err := d.decodeAttribute(sub, name, loc)
	if sub.Err() != nil {
		// Reads past the end yield zeros, so any index error is a symptom.
		err = readErr(sub.Offset(), name.Value, sub.Err())
	}
	if err != nil {
		if !d.recoverable(err) {
			return nil, fmt.Errorf("attribute %s: %w", name.Value, err)
		}
		d.drop(offset, name.Value, loc, "malformed", err)
		return nil, nil
	}
	if sub.Remaining() != 0 {
		d.drop(offset, name.Value, loc,
			fmt.Sprintf("consumed %d of %d declared bytes", sub.Position(), length), nil)
		return nil, nil
	}
	return a, nil
}

// recoverable reports whether err only invalidates the attribute being
// decoded.
func (d *decoder) recoverable(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	switch e.Kind {
	case KindOutOfBounds, KindTypeMismatch, KindMalformed:
		return true
	case KindEOF:
		return d.opts.DropEOFAttributes
	}
	return false
}

func (d *decoder) drop(offset int, name string, loc Location, reason string, err error) {
	fields := []zap.Field{
		zap.String("attribute", name),
		zap.Stringer("location", loc),
		zap.Int("offset", offset),
		zap.String("reason", reason),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	d.log.Warn("dropping attribute", fields...)
}
