package classfile

import (
	"fmt"

	"github.com/Col-E/CAFED00D-sub000/classfile/internal/binary"
)

// VerificationTag identifies a verification_type_info variant.
type VerificationTag uint8

const (
	ItemTop               VerificationTag = 0
	ItemInteger           VerificationTag = 1
	ItemFloat             VerificationTag = 2
	ItemDouble            VerificationTag = 3
	ItemLong              VerificationTag = 4
	ItemNull              VerificationTag = 5
	ItemUninitializedThis VerificationTag = 6
	ItemObject            VerificationTag = 7
	ItemUninitialized     VerificationTag = 8
)

var verificationNames = [...]string{
	"top", "int", "float", "double", "long", "null", "uninitializedThis", "object", "uninitialized",
}

func (t VerificationTag) String() string {
	if int(t) < len(verificationNames) {
		return verificationNames[t]
	}
	return fmt.Sprintf("tag(%d)", uint8(t))
}

// VerificationType is the type of one local or stack slot in a frame.
type VerificationType interface {
	VerificationTag() VerificationTag
	verificationType()
}

// PrimitiveType covers the variants without payload.
type PrimitiveType VerificationTag

const (
	TopType               = PrimitiveType(ItemTop)
	IntegerType           = PrimitiveType(ItemInteger)
	FloatType             = PrimitiveType(ItemFloat)
	DoubleType            = PrimitiveType(ItemDouble)
	LongType              = PrimitiveType(ItemLong)
	NullType              = PrimitiveType(ItemNull)
	UninitializedThisType = PrimitiveType(ItemUninitializedThis)
)

type ObjectType struct {
	Class *ConstantClassInfo
}

// UninitializedType refers to the new instruction that created the value.
type UninitializedType struct {
	Offset uint16
}

func (p PrimitiveType) VerificationTag() VerificationTag    { return VerificationTag(p) }
func (*ObjectType) VerificationTag() VerificationTag        { return ItemObject }
func (*UninitializedType) VerificationTag() VerificationTag { return ItemUninitialized }

func (PrimitiveType) verificationType()      {}
func (*ObjectType) verificationType()        {}
func (*UninitializedType) verificationType() {}

func verificationLength(v VerificationType) int {
	switch v.(type) {
	case *ObjectType, *UninitializedType:
		return 3
	}
	return 1
}

// StackMapFrame is one entry of a StackMapTable. The frame type byte is
// derived from the variant and its fields.
type StackMapFrame interface {
	FrameType() uint8
	OffsetDelta() uint16
	frame()
}

const (
	sameFrameMax             = 63
	sameLocalsOneStackMin    = 64
	sameLocalsOneStackMax    = 127
	reservedFrameMax         = 246
	sameLocalsOneStackExtTag = 247
	chopFrameMin             = 248
	sameFrameExtendedTag     = 251
	appendFrameMax           = 254
	fullFrameTag             = 255
)

type SameFrame struct {
	Delta uint16
}

type SameLocalsOneStackItemFrame struct {
	Delta uint16
	Stack VerificationType
}

type SameLocalsOneStackItemFrameExtended struct {
	Delta uint16
	Stack VerificationType
}

// ChopFrame drops the last Absent locals (1 to 3).
type ChopFrame struct {
	Delta  uint16
	Absent int
}

type SameFrameExtended struct {
	Delta uint16
}

// AppendFrame adds 1 to 3 locals.
type AppendFrame struct {
	Delta  uint16
	Locals []VerificationType
}

type FullFrame struct {
	Delta  uint16
	Locals []VerificationType
	Stack  []VerificationType
}

func (f *SameFrame) FrameType() uint8 { return uint8(f.Delta) }
func (f *SameLocalsOneStackItemFrame) FrameType() uint8 {
	return uint8(sameLocalsOneStackMin + f.Delta)
}
func (f *SameLocalsOneStackItemFrameExtended) FrameType() uint8 { return sameLocalsOneStackExtTag }
func (f *ChopFrame) FrameType() uint8                           { return uint8(sameFrameExtendedTag - f.Absent) }
func (f *SameFrameExtended) FrameType() uint8                   { return sameFrameExtendedTag }
func (f *AppendFrame) FrameType() uint8                         { return uint8(sameFrameExtendedTag + len(f.Locals)) }
func (f *FullFrame) FrameType() uint8                           { return fullFrameTag }

func (f *SameFrame) OffsetDelta() uint16                           { return f.Delta }
func (f *SameLocalsOneStackItemFrame) OffsetDelta() uint16         { return f.Delta }
func (f *SameLocalsOneStackItemFrameExtended) OffsetDelta() uint16 { return f.Delta }
func (f *ChopFrame) OffsetDelta() uint16                           { return f.Delta }
func (f *SameFrameExtended) OffsetDelta() uint16                   { return f.Delta }
func (f *AppendFrame) OffsetDelta() uint16                         { return f.Delta }
func (f *FullFrame) OffsetDelta() uint16                           { return f.Delta }

func (*SameFrame) frame()                           {}
func (*SameLocalsOneStackItemFrame) frame()         {}
func (*SameLocalsOneStackItemFrameExtended) frame() {}
func (*ChopFrame) frame()                           {}
func (*SameFrameExtended) frame()                   {}
func (*AppendFrame) frame()                         {}
func (*FullFrame) frame()                           {}

func frameLength(f StackMapFrame) int {
	switch f := f.(type) {
	case *SameFrame:
		return 1
	case *SameLocalsOneStackItemFrame:
		return 1 + verificationLength(f.Stack)
	case *SameLocalsOneStackItemFrameExtended:
		return 3 + verificationLength(f.Stack)
	case *ChopFrame, *SameFrameExtended:
		return 3
	case *AppendFrame:
		return 3 + verificationListLength(f.Locals)
	case *FullFrame:
		return 7 + verificationListLength(f.Locals) + verificationListLength(f.Stack)
	}
	return 0
}

func verificationListLength(types []VerificationType) int {
	n := 0
	for _, v := range types {
		n += verificationLength(v)
	}
	return n
}

func decodeStackMapFrames(r *binary.Reader, cp *ConstantPool) ([]StackMapFrame, error) {
	count := int(r.ReadU2())
	frames := make([]StackMapFrame, 0, min(count, r.Remaining()))
	for i := 0; i < count; i++ {
		offset := r.Offset()
		f, err := decodeFrame(r, cp)
		if err != nil {
			return nil, err
		}
		if err := r.Err(); err != nil {
			return nil, readErr(offset, fmt.Sprintf("stack map frame %d", i), err)
		}
		frames = append(frames, f)
	}
	return frames, r.Err()
}

func decodeFrame(r *binary.Reader, cp *ConstantPool) (StackMapFrame, error) {
	offset := r.Offset()
	tag := r.ReadU1()
	switch {
	case tag <= sameFrameMax:
		return &SameFrame{Delta: uint16(tag)}, nil
	case tag <= sameLocalsOneStackMax:
		stack, err := decodeVerificationType(r, cp)
		if err != nil {
			return nil, err
		}
		return &SameLocalsOneStackItemFrame{Delta: uint16(tag - sameLocalsOneStackMin), Stack: stack}, nil
	case tag <= reservedFrameMax:
		return nil, structuralErr(offset, "reserved stack map frame type %d", tag)
	case tag == sameLocalsOneStackExtTag:
		delta := r.ReadU2()
		stack, err := decodeVerificationType(r, cp)
		if err != nil {
			return nil, err
		}
		return &SameLocalsOneStackItemFrameExtended{Delta: delta, Stack: stack}, nil
	case tag < sameFrameExtendedTag:
		return &ChopFrame{Delta: r.ReadU2(), Absent: sameFrameExtendedTag - int(tag)}, nil
	case tag == sameFrameExtendedTag:
		return &SameFrameExtended{Delta: r.ReadU2()}, nil
	case tag <= appendFrameMax:
		delta := r.ReadU2()
		locals, err := decodeVerificationTypes(r, cp, int(tag)-sameFrameExtendedTag)
		if err != nil {
			return nil, err
		}
		return &AppendFrame{Delta: delta, Locals: locals}, nil
	}

	delta := r.ReadU2()
	locals, err := decodeVerificationTypes(r, cp, int(r.ReadU2()))
	if err != nil {
		return nil, err
	}
	stack, err := decodeVerificationTypes(r, cp, int(r.ReadU2()))
	if err != nil {
		return nil, err
	}
	return &FullFrame{Delta: delta, Locals: locals, Stack: stack}, nil
}

func decodeVerificationTypes(r *binary.Reader, cp *ConstantPool, n int) ([]VerificationType, error) {
	if n > r.Remaining() {
		n = r.Remaining() + 1
	}
	types := make([]VerificationType, 0, n)
	for i := 0; i < n; i++ {
		v, err := decodeVerificationType(r, cp)
		if err != nil {
			return nil, err
		}
		types = append(types, v)
	}
	return types, nil
}

func decodeVerificationType(r *binary.Reader, cp *ConstantPool) (VerificationType, error) {
	offset := r.Offset()
	tag := VerificationTag(r.ReadU1())
	if r.Err() != nil {
		return TopType, nil
	}
	switch {
	case tag <= ItemUninitializedThis:
		return PrimitiveType(tag), nil
	case tag == ItemObject:
		index := int(r.ReadU2())
		if r.Err() != nil {
			return TopType, nil
		}
		class, err := Entry[*ConstantClassInfo](cp, index)
		if err != nil {
			return nil, err
		}
		return &ObjectType{Class: class}, nil
	case tag == ItemUninitialized:
		return &UninitializedType{Offset: r.ReadU2()}, nil
	}
	return nil, structuralErr(offset, "unknown verification type tag %d", tag)
}

func encodeStackMapFrames(w *binary.Writer, cp *ConstantPool, frames []StackMapFrame) error {
	w.WriteU2(uint16(len(frames)))
	for i, f := range frames {
		if err := encodeFrame(w, cp, f); err != nil {
			return fmt.Errorf("stack map frame %d: %w", i, err)
		}
	}
	return nil
}

func encodeFrame(w *binary.Writer, cp *ConstantPool, f StackMapFrame) error {
	switch f := f.(type) {
	case *SameFrame:
		if f.Delta > sameFrameMax {
			return invariantErr(-1, "<= 63", f.Delta, "same_frame offset delta")
		}
		w.WriteU1(f.FrameType())
	case *SameLocalsOneStackItemFrame:
		if f.Delta > sameLocalsOneStackMax-sameLocalsOneStackMin {
			return invariantErr(-1, "<= 63", f.Delta, "same_locals_1_stack_item_frame offset delta")
		}
		w.WriteU1(f.FrameType())
		encodeVerificationType(w, cp, f.Stack)
	case *SameLocalsOneStackItemFrameExtended:
		w.WriteU1(f.FrameType())
		w.WriteU2(f.Delta)
		encodeVerificationType(w, cp, f.Stack)
	case *ChopFrame:
		if f.Absent < 1 || f.Absent > 3 {
			return invariantErr(-1, "1..3", f.Absent, "chop_frame absent locals")
		}
		w.WriteU1(f.FrameType())
		w.WriteU2(f.Delta)
	case *SameFrameExtended:
		w.WriteU1(f.FrameType())
		w.WriteU2(f.Delta)
	case *AppendFrame:
		if len(f.Locals) < 1 || len(f.Locals) > 3 {
			return invariantErr(-1, "1..3", len(f.Locals), "append_frame locals")
		}
		w.WriteU1(f.FrameType())
		w.WriteU2(f.Delta)
		for _, v := range f.Locals {
			encodeVerificationType(w, cp, v)
		}
	case *FullFrame:
		w.WriteU1(f.FrameType())
		w.WriteU2(f.Delta)
		w.WriteU2(uint16(len(f.Locals)))
		for _, v := range f.Locals {
			encodeVerificationType(w, cp, v)
		}
		w.WriteU2(uint16(len(f.Stack)))
		for _, v := range f.Stack {
			encodeVerificationType(w, cp, v)
		}
	default:
		return encodeErr("unknown stack map frame %T", f)
	}
	return nil
}

func encodeVerificationType(w *binary.Writer, cp *ConstantPool, v VerificationType) {
	w.WriteU1(uint8(v.VerificationTag()))
	switch v := v.(type) {
	case *ObjectType:
		w.WriteU2(cp.ref(v.Class))
	case *UninitializedType:
		w.WriteU2(v.Offset)
	}
}
