package classfile

import (
	"fmt"

	"github.com/Col-E/CAFED00D-sub000/classfile/internal/binary"
)

type Annotation struct {
	Type     *ConstantUtf8Info
	Elements []ElementValuePair
}

type ElementValuePair struct {
	Name  *ConstantUtf8Info
	Value ElementValue
}

// TypeName returns the annotation's field descriptor, e.g. "Ljava/lang/Deprecated;".
func (a *Annotation) TypeName() string {
	return utf8Value(a.Type)
}

// ElementValue is one annotation element value; the tag selects the variant.
type ElementValue interface {
	ElementTag() byte
	elementValue()
}

// ConstElementValue holds a primitive or String constant. Tag is one of
// B C D F I J S Z s.
type ConstElementValue struct {
	Tag   byte
	Value ConstantPoolEntry
}

type EnumElementValue struct {
	TypeName  *ConstantUtf8Info
	ConstName *ConstantUtf8Info
}

type ClassElementValue struct {
	ClassInfo *ConstantUtf8Info
}

type AnnotationElementValue struct {
	Annotation *Annotation
}

type ArrayElementValue struct {
	Values []ElementValue
}

func (v *ConstElementValue) ElementTag() byte    { return v.Tag }
func (*EnumElementValue) ElementTag() byte       { return 'e' }
func (*ClassElementValue) ElementTag() byte      { return 'c' }
func (*AnnotationElementValue) ElementTag() byte { return '@' }
func (*ArrayElementValue) ElementTag() byte      { return '[' }

func (*ConstElementValue) elementValue()      {}
func (*EnumElementValue) elementValue()       {}
func (*ClassElementValue) elementValue()      {}
func (*AnnotationElementValue) elementValue() {}
func (*ArrayElementValue) elementValue()      {}

// TypeAnnotation is an annotation on a type use.
type TypeAnnotation struct {
	TargetType uint8
	Target     TargetInfo
	Path       []TypePathEntry
	Annotation
}

type TypePathEntry struct {
	Kind          uint8
	ArgumentIndex uint8
}

// TargetInfo is the target_info union of a type annotation. The variant is
// implied by TypeAnnotation.TargetType.
type TargetInfo interface {
	targetInfo()
}

type TypeParameterTarget struct {
	Index uint8
}

type SuperTypeTarget struct {
	Index uint16
}

type TypeParameterBoundTarget struct {
	TypeParameter uint8
	Bound         uint8
}

type EmptyTarget struct{}

type FormalParameterTarget struct {
	Index uint8
}

type ThrowsTarget struct {
	Index uint16
}

type LocalVarTarget struct {
	Table []LocalVarTargetEntry
}

type LocalVarTargetEntry struct {
	StartPC uint16
	Length  uint16
	Index   uint16
}

type CatchTarget struct {
	ExceptionTableIndex uint16
}

type OffsetTarget struct {
	Offset uint16
}

type TypeArgumentTarget struct {
	Offset uint16
	Index  uint8
}

func (*TypeParameterTarget) targetInfo()      {}
func (*SuperTypeTarget) targetInfo()          {}
func (*TypeParameterBoundTarget) targetInfo() {}
func (*EmptyTarget) targetInfo()              {}
func (*FormalParameterTarget) targetInfo()    {}
func (*ThrowsTarget) targetInfo()             {}
func (*LocalVarTarget) targetInfo()           {}
func (*CatchTarget) targetInfo()              {}
func (*OffsetTarget) targetInfo()             {}
func (*TypeArgumentTarget) targetInfo()       {}

func annotationLength(a *Annotation) int {
	n := 4
	for _, e := range a.Elements {
		n += 2 + elementValueLength(e.Value)
	}
	return n
}

func elementValueLength(v ElementValue) int {
	switch v := v.(type) {
	case *EnumElementValue:
		return 5
	case *AnnotationElementValue:
		return 1 + annotationLength(v.Annotation)
	case *ArrayElementValue:
		n := 3
		for _, e := range v.Values {
			n += elementValueLength(e)
		}
		return n
	}
	return 3
}

func typeAnnotationLength(a *TypeAnnotation) int {
	return 1 + targetInfoLength(a.Target) + 1 + 2*len(a.Path) + annotationLength(&a.Annotation)
}

func targetInfoLength(t TargetInfo) int {
	switch t := t.(type) {
	case *TypeParameterTarget, *FormalParameterTarget:
		return 1
	case *SuperTypeTarget, *TypeParameterBoundTarget, *ThrowsTarget, *CatchTarget, *OffsetTarget:
		return 2
	case *TypeArgumentTarget:
		return 3
	case *LocalVarTarget:
		return 2 + 6*len(t.Table)
	}
	return 0
}

func (d *decoder) readAnnotations(r *binary.Reader) ([]*Annotation, error) {
	n := int(r.ReadU2())
	out := make([]*Annotation, 0, min(n, r.Remaining()/4))
	for i := 0; i < n && r.Err() == nil; i++ {
		a, err := d.readAnnotation(r)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func (d *decoder) readAnnotation(r *binary.Reader) (*Annotation, error) {
	typ, err := Entry[*ConstantUtf8Info](d.cp, int(r.ReadU2()))
	if err != nil {
		return nil, err
	}
	a := &Annotation{Type: typ}
	n := int(r.ReadU2())
	for i := 0; i < n && r.Err() == nil; i++ {
		name, err := Entry[*ConstantUtf8Info](d.cp, int(r.ReadU2()))
		if err != nil {
			return nil, err
		}
		v, err := d.readElementValue(r)
		if err != nil {
			return nil, err
		}
		a.Elements = append(a.Elements, ElementValuePair{Name: name, Value: v})
	}
	return a, nil
}

// maxElementDepth bounds the nesting of array and annotation element values.
const maxElementDepth = 256

func (d *decoder) readElementValue(r *binary.Reader) (ElementValue, error) {
	offset := r.Offset()
	d.depth++
	defer func() { d.depth-- }()
	if d.depth > maxElementDepth {
		return nil, malformedErr(offset, "element values nested deeper than %d", maxElementDepth)
	}
	tag := r.ReadU1()
	if r.Err() != nil {
		return &ArrayElementValue{}, nil
	}
	switch tag {
	case 'B', 'C', 'I', 'S', 'Z':
		e, err := Entry[*ConstantIntegerInfo](d.cp, int(r.ReadU2()))
		return &ConstElementValue{Tag: tag, Value: e}, err
	case 'D':
		e, err := Entry[*ConstantDoubleInfo](d.cp, int(r.ReadU2()))
		return &ConstElementValue{Tag: tag, Value: e}, err
	case 'F':
		e, err := Entry[*ConstantFloatInfo](d.cp, int(r.ReadU2()))
		return &ConstElementValue{Tag: tag, Value: e}, err
	case 'J':
		e, err := Entry[*ConstantLongInfo](d.cp, int(r.ReadU2()))
		return &ConstElementValue{Tag: tag, Value: e}, err
	case 's':
		e, err := Entry[*ConstantUtf8Info](d.cp, int(r.ReadU2()))
		return &ConstElementValue{Tag: tag, Value: e}, err
	case 'e':
		typ, err := Entry[*ConstantUtf8Info](d.cp, int(r.ReadU2()))
		if err != nil {
			return nil, err
		}
		name, err := Entry[*ConstantUtf8Info](d.cp, int(r.ReadU2()))
		return &EnumElementValue{TypeName: typ, ConstName: name}, err
	case 'c':
		class, err := Entry[*ConstantUtf8Info](d.cp, int(r.ReadU2()))
		return &ClassElementValue{ClassInfo: class}, err
	case '@':
		a, err := d.readAnnotation(r)
		return &AnnotationElementValue{Annotation: a}, err
	case '[':
		n := int(r.ReadU2())
		arr := &ArrayElementValue{Values: make([]ElementValue, 0, min(n, r.Remaining()/3))}
		for i := 0; i < n && r.Err() == nil; i++ {
			v, err := d.readElementValue(r)
			if err != nil {
				return nil, err
			}
			arr.Values = append(arr.Values, v)
		}
		return arr, nil
	}
	return nil, structuralErr(offset, "unknown element value tag %q", tag)
}

func (d *decoder) readTypeAnnotation(r *binary.Reader) (*TypeAnnotation, error) {
	offset := r.Offset()
	ta := &TypeAnnotation{TargetType: r.ReadU1()}
	switch ta.TargetType {
	case 0x00, 0x01:
		ta.Target = &TypeParameterTarget{Index: r.ReadU1()}
	case 0x10:
		ta.Target = &SuperTypeTarget{Index: r.ReadU2()}
	case 0x11, 0x12:
		ta.Target = &TypeParameterBoundTarget{TypeParameter: r.ReadU1(), Bound: r.ReadU1()}
	case 0x13, 0x14, 0x15:
		ta.Target = &EmptyTarget{}
	case 0x16:
		ta.Target = &FormalParameterTarget{Index: r.ReadU1()}
	case 0x17:
		ta.Target = &ThrowsTarget{Index: r.ReadU2()}
	case 0x40, 0x41:
		n := int(r.ReadU2())
		t := &LocalVarTarget{Table: make([]LocalVarTargetEntry, 0, min(n, r.Remaining()/6))}
		for i := 0; i < n && r.Err() == nil; i++ {
			t.Table = append(t.Table, LocalVarTargetEntry{StartPC: r.ReadU2(), Length: r.ReadU2(), Index: r.ReadU2()})
		}
		ta.Target = t
	case 0x42:
		ta.Target = &CatchTarget{ExceptionTableIndex: r.ReadU2()}
	case 0x43, 0x44, 0x45, 0x46:
		ta.Target = &OffsetTarget{Offset: r.ReadU2()}
	case 0x47, 0x48, 0x49, 0x4A, 0x4B:
		ta.Target = &TypeArgumentTarget{Offset: r.ReadU2(), Index: r.ReadU1()}
	default:
		if r.Err() != nil {
			return ta, nil
		}
		return nil, structuralErr(offset, "unknown type annotation target type 0x%02x", ta.TargetType)
	}
	n := int(r.ReadU1())
	for i := 0; i < n && r.Err() == nil; i++ {
		ta.Path = append(ta.Path, TypePathEntry{Kind: r.ReadU1(), ArgumentIndex: r.ReadU1()})
	}
	a, err := d.readAnnotation(r)
	if err != nil {
		return nil, err
	}
	ta.Annotation = *a
	return ta, nil
}

// dedupeAnnotations keeps the first annotation of each type.
func dedupeAnnotations(annotations []*Annotation) ([]*Annotation, int) {
	seen := make(map[string]bool, len(annotations))
	out := annotations[:0:0]
	for _, a := range annotations {
		if seen[a.TypeName()] {
			continue
		}
		seen[a.TypeName()] = true
		out = append(out, a)
	}
	return out, len(annotations) - len(out)
}

func writeAnnotation(w *binary.Writer, cp *ConstantPool, a *Annotation) error {
	w.WriteU2(cp.ref(a.Type))
	w.WriteU2(uint16(len(a.Elements)))
	for _, e := range a.Elements {
		w.WriteU2(cp.ref(e.Name))
		if err := writeElementValue(w, cp, e.Value); err != nil {
			return err
		}
	}
	return nil
}

func writeElementValue(w *binary.Writer, cp *ConstantPool, v ElementValue) error {
	if v == nil {
		return encodeErr("nil element value")
	}
	w.WriteU1(v.ElementTag())
	switch v := v.(type) {
	case *ConstElementValue:
		w.WriteU2(cp.ref(v.Value))
	case *EnumElementValue:
		w.WriteU2(cp.ref(v.TypeName))
		w.WriteU2(cp.ref(v.ConstName))
	case *ClassElementValue:
		w.WriteU2(cp.ref(v.ClassInfo))
	case *AnnotationElementValue:
		return writeAnnotation(w, cp, v.Annotation)
	case *ArrayElementValue:
		w.WriteU2(uint16(len(v.Values)))
		for _, e := range v.Values {
			if err := writeElementValue(w, cp, e); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeTypeAnnotation(w *binary.Writer, cp *ConstantPool, ta *TypeAnnotation) error {
	w.WriteU1(ta.TargetType)
	switch t := ta.Target.(type) {
	case *TypeParameterTarget:
		w.WriteU1(t.Index)
	case *SuperTypeTarget:
		w.WriteU2(t.Index)
	case *TypeParameterBoundTarget:
		w.WriteU1(t.TypeParameter)
		w.WriteU1(t.Bound)
	case *EmptyTarget:
	case *FormalParameterTarget:
		w.WriteU1(t.Index)
	case *ThrowsTarget:
		w.WriteU2(t.Index)
	case *LocalVarTarget:
		w.WriteU2(uint16(len(t.Table)))
		for _, e := range t.Table {
			w.WriteU2(e.StartPC)
			w.WriteU2(e.Length)
			w.WriteU2(e.Index)
		}
	case *CatchTarget:
		w.WriteU2(t.ExceptionTableIndex)
	case *OffsetTarget:
		w.WriteU2(t.Offset)
	case *TypeArgumentTarget:
		w.WriteU2(t.Offset)
		w.WriteU1(t.Index)
	default:
		return encodeErr("type annotation target %T", ta.Target)
	}
	w.WriteU1(uint8(len(ta.Path)))
	for _, p := range ta.Path {
		w.WriteU1(p.Kind)
		w.WriteU1(p.ArgumentIndex)
	}
	return writeAnnotation(w, cp, &ta.Annotation)
}

func (v *ConstElementValue) String() string {
	switch c := v.Value.(type) {
	case *ConstantIntegerInfo:
		switch v.Tag {
		case 'Z':
			return fmt.Sprint(c.Value != 0)
		case 'C':
			return fmt.Sprintf("%q", rune(c.Value))
		}
		return fmt.Sprint(c.Value)
	case *ConstantLongInfo:
		return fmt.Sprint(c.Value)
	case *ConstantFloatInfo:
		return fmt.Sprint(c.Value)
	case *ConstantDoubleInfo:
		return fmt.Sprint(c.Value)
	case *ConstantUtf8Info:
		return fmt.Sprintf("%q", c.Value)
	}
	return "?"
}
