package classfile

import (
	"fmt"
	"math"

	"github.com/Col-E/CAFED00D-sub000/classfile/internal/binary"
)

// Encode serializes cf. See (*ClassFile).Encode.
func Encode(cf *ClassFile) ([]byte, error) {
	return cf.Encode()
}

// Encode serializes the class with DefaultOptions.
func (cf *ClassFile) Encode() ([]byte, error) {
	return cf.EncodeWith(DefaultOptions())
}

// EncodeWith serializes the class. Only CheckCodeLength applies to encoding.
// The body is written first so that entries referenced by a mutated model,
// but missing from the pool, are added to it before the pool itself is
// written.
func (cf *ClassFile) EncodeWith(opts Options) ([]byte, error) {
	if cf.ConstantPool == nil {
		cf.ConstantPool = NewConstantPool()
	}
	e := &encoder{cp: cf.ConstantPool, checkCodeLength: opts.CheckCodeLength}

	body := binary.NewWriter()
	if err := e.writeBody(body, cf); err != nil {
		return nil, err
	}

	out := binary.NewWriter()
	out.WriteU4(Magic)
	out.WriteU2(cf.MinorVersion)
	out.WriteU2(cf.MajorVersion)
	if err := cf.ConstantPool.write(out); err != nil {
		return nil, fmt.Errorf("failed to write constant pool: %w", err)
	}
	out.WriteBytes(body.Bytes())
	return out.Bytes(), nil
}

type encoder struct {
	cp              *ConstantPool
	checkCodeLength bool
}

func (e *encoder) writeBody(w *binary.Writer, cf *ClassFile) error {
	if cf.ThisClass == nil {
		return encodeErr("class has no this_class")
	}
	w.WriteU2(uint16(cf.AccessFlags))
	w.WriteU2(e.cp.ref(cf.ThisClass))
	w.WriteU2(e.cp.ref(cf.SuperClass))

	if err := checkCount("interfaces", len(cf.Interfaces)); err != nil {
		return err
	}
	w.WriteU2(uint16(len(cf.Interfaces)))
	for _, iface := range cf.Interfaces {
		w.WriteU2(e.cp.ref(iface))
	}

	if err := checkCount("fields", len(cf.Fields)); err != nil {
		return err
	}
	w.WriteU2(uint16(len(cf.Fields)))
	for i := range cf.Fields {
		f := &cf.Fields[i]
		if err := e.writeMember(w, f.AccessFlags, f.Name, f.Descriptor, f.Attributes); err != nil {
			return fmt.Errorf("failed to write field %d: %w", i, err)
		}
	}

	if err := checkCount("methods", len(cf.Methods)); err != nil {
		return err
	}
	w.WriteU2(uint16(len(cf.Methods)))
	for i := range cf.Methods {
		m := &cf.Methods[i]
		if err := e.writeMember(w, m.AccessFlags, m.Name, m.Descriptor, m.Attributes); err != nil {
			return fmt.Errorf("failed to write method %d: %w", i, err)
		}
	}

	if err := e.writeAttributes(w, cf.Attributes); err != nil {
		return fmt.Errorf("failed to write class attributes: %w", err)
	}
	return nil
}

func (e *encoder) writeMember(w *binary.Writer, access AccessFlags, name, desc *ConstantUtf8Info, attrs []Attribute) error {
	if name == nil || desc == nil {
		return encodeErr("member without name or descriptor")
	}
	w.WriteU2(uint16(access))
	w.WriteU2(e.cp.ref(name))
	w.WriteU2(e.cp.ref(desc))
	return e.writeAttributes(w, attrs)
}

func checkCount(what string, n int) error {
	if n > math.MaxUint16 {
		return encodeErr("%d %s, limit is %d", n, what, math.MaxUint16)
	}
	return nil
}

func (e *encoder) writeAttributes(w *binary.Writer, attrs []Attribute) error {
	if err := checkCount("attributes", len(attrs)); err != nil {
		return err
	}
	w.WriteU2(uint16(len(attrs)))
	for _, a := range attrs {
		if err := e.writeAttribute(w, a); err != nil {
			return err
		}
	}
	return nil
}

// writeAttribute writes the header with the analytically computed length
// and then the payload, and checks the two agree.
func (e *encoder) writeAttribute(w *binary.Writer, a Attribute) error {
	name := a.NameEntry()
	if name == nil {
		canonical := AttributeNameOf(a)
		if canonical == "" {
			return encodeErr("attribute %T has no name", a)
		}
		name = e.cp.Utf8(canonical)
	}
	length := a.Length()
	if int64(length) > math.MaxUint32 {
		return encodeErr("attribute %s is %d bytes", name.Value, length)
	}
	w.WriteU2(e.cp.ref(name))
	w.WriteU4(uint32(length))
	start := w.Len()
	if err := e.writePayload(w, a); err != nil {
		return fmt.Errorf("attribute %s: %w", name.Value, err)
	}
	if got := w.Len() - start; got != length {
		return invariantErr(start, length, got, "attribute %s payload length", name.Value)
	}
	return nil
}

func (e *encoder) writePayload(w *binary.Writer, a Attribute) error {
	cp := e.cp
	switch a := a.(type) {
	case *DefaultAttribute:
		w.WriteBytes(a.Data)
	case *ConstantValueAttribute:
		w.WriteU2(cp.ref(a.Value))
	case *CodeAttribute:
		return e.writeCode(w, a)
	case *StackMapTableAttribute:
		return encodeStackMapFrames(w, cp, a.Frames)
	case *ExceptionsAttribute:
		writeClassList(w, cp, a.Exceptions)
	case *InnerClassesAttribute:
		w.WriteU2(uint16(len(a.Classes)))
		for _, c := range a.Classes {
			w.WriteU2(cp.ref(c.InnerClass))
			w.WriteU2(cp.ref(c.OuterClass))
			w.WriteU2(cp.ref(c.InnerName))
			w.WriteU2(uint16(c.AccessFlags))
		}
	case *EnclosingMethodAttribute:
		w.WriteU2(cp.ref(a.Class))
		w.WriteU2(cp.ref(a.Method))
	case *SyntheticAttribute, *DeprecatedAttribute:
	case *SignatureAttribute:
		w.WriteU2(cp.ref(a.Signature))
	case *SourceFileAttribute:
		w.WriteU2(cp.ref(a.SourceFile))
	case *SourceDebugExtensionAttribute:
		w.WriteBytes(a.Data)
	case *LineNumberTableAttribute:
		w.WriteU2(uint16(len(a.Entries)))
		for _, l := range a.Entries {
			w.WriteU2(l.StartPC)
			w.WriteU2(l.LineNumber)
		}
	case *LocalVariableTableAttribute:
		w.WriteU2(uint16(len(a.Entries)))
		for _, v := range a.Entries {
			w.WriteU2(v.StartPC)
			w.WriteU2(v.Length)
			w.WriteU2(cp.ref(v.Name))
			w.WriteU2(cp.ref(v.Descriptor))
			w.WriteU2(v.Index)
		}
	case *LocalVariableTypeTableAttribute:
		w.WriteU2(uint16(len(a.Entries)))
		for _, v := range a.Entries {
			w.WriteU2(v.StartPC)
			w.WriteU2(v.Length)
			w.WriteU2(cp.ref(v.Name))
			w.WriteU2(cp.ref(v.Signature))
			w.WriteU2(v.Index)
		}
	case *AnnotationsAttribute:
		w.WriteU2(uint16(len(a.Annotations)))
		for _, an := range a.Annotations {
			if err := writeAnnotation(w, cp, an); err != nil {
				return err
			}
		}
	case *ParameterAnnotationsAttribute:
		if len(a.Parameters) > math.MaxUint8 {
			return encodeErr("%d annotated parameters", len(a.Parameters))
		}
		w.WriteU1(uint8(len(a.Parameters)))
		for _, p := range a.Parameters {
			w.WriteU2(uint16(len(p)))
			for _, an := range p {
				if err := writeAnnotation(w, cp, an); err != nil {
					return err
				}
			}
		}
	case *TypeAnnotationsAttribute:
		w.WriteU2(uint16(len(a.Annotations)))
		for _, ta := range a.Annotations {
			if err := writeTypeAnnotation(w, cp, ta); err != nil {
				return err
			}
		}
	case *AnnotationDefaultAttribute:
		return writeElementValue(w, cp, a.Value)
	case *BootstrapMethodsAttribute:
		w.WriteU2(uint16(len(a.Methods)))
		for _, m := range a.Methods {
			w.WriteU2(cp.ref(m.Handle))
			w.WriteU2(uint16(len(m.Arguments)))
			for _, arg := range m.Arguments {
				w.WriteU2(cp.ref(arg))
			}
		}
	case *MethodParametersAttribute:
		if len(a.Parameters) > math.MaxUint8 {
			return encodeErr("%d method parameters", len(a.Parameters))
		}
		w.WriteU1(uint8(len(a.Parameters)))
		for _, p := range a.Parameters {
			w.WriteU2(cp.ref(p.Name))
			w.WriteU2(uint16(p.AccessFlags))
		}
	case *ModuleAttribute:
		writeModule(w, cp, a)
	case *ModulePackagesAttribute:
		w.WriteU2(uint16(len(a.Packages)))
		for _, p := range a.Packages {
			w.WriteU2(cp.ref(p))
		}
	case *ModuleMainClassAttribute:
		w.WriteU2(cp.ref(a.MainClass))
	case *ModuleHashesAttribute:
		w.WriteU2(cp.ref(a.Algorithm))
		w.WriteU2(uint16(len(a.Hashes)))
		for _, h := range a.Hashes {
			w.WriteU2(cp.ref(h.Module))
			w.WriteU2(uint16(len(h.Hash)))
			w.WriteBytes(h.Hash)
		}
	case *ModuleResolutionAttribute:
		w.WriteU2(a.Flags)
	case *ModuleTargetAttribute:
		w.WriteU2(cp.ref(a.Platform))
	case *NestHostAttribute:
		w.WriteU2(cp.ref(a.Host))
	case *NestMembersAttribute:
		writeClassList(w, cp, a.Classes)
	case *PermittedSubclassesAttribute:
		writeClassList(w, cp, a.Classes)
	case *RecordAttribute:
		w.WriteU2(uint16(len(a.Components)))
		for _, c := range a.Components {
			w.WriteU2(cp.ref(c.Name))
			w.WriteU2(cp.ref(c.Descriptor))
			if err := e.writeAttributes(w, c.Attributes); err != nil {
				return err
			}
		}
	case *CharacterRangeTableAttribute:
		w.WriteU2(uint16(len(a.Entries)))
		for _, c := range a.Entries {
			w.WriteU2(c.StartPC)
			w.WriteU2(c.EndPC)
			w.WriteU4(c.RangeStart)
			w.WriteU4(c.RangeEnd)
			w.WriteU2(c.Flags)
		}
	case *CompilationIDAttribute:
		w.WriteU2(cp.ref(a.ID))
	case *SourceIDAttribute:
		w.WriteU2(cp.ref(a.ID))
	default:
		return encodeErr("unknown attribute type %T", a)
	}
	return nil
}

func (e *encoder) writeCode(w *binary.Writer, a *CodeAttribute) error {
	length := CodeLength(a.Instructions)
	limit := MaxCodeLength - 1
	if e.checkCodeLength && (length == 0 || length > limit) {
		return invariantErr(-1, fmt.Sprintf("1..%d", limit), length, "code length")
	}
	if a.Oak {
		if a.MaxStack > math.MaxUint8 || a.MaxLocals > math.MaxUint8 {
			return encodeErr("max_stack %d or max_locals %d does not fit the narrow code layout", a.MaxStack, a.MaxLocals)
		}
		if length > math.MaxUint16 {
			return encodeErr("code length %d does not fit the narrow code layout", length)
		}
		w.WriteU1(uint8(a.MaxStack))
		w.WriteU1(uint8(a.MaxLocals))
		w.WriteU2(uint16(length))
	} else {
		w.WriteU2(a.MaxStack)
		w.WriteU2(a.MaxLocals)
		w.WriteU4(uint32(length))
	}
	if err := encodeInstructions(w, e.cp, a.Instructions); err != nil {
		return err
	}
	w.WriteU2(uint16(len(a.ExceptionTable)))
	for _, h := range a.ExceptionTable {
		w.WriteU2(h.StartPC)
		w.WriteU2(h.EndPC)
		w.WriteU2(h.HandlerPC)
		w.WriteU2(e.cp.ref(h.CatchType))
	}
	return e.writeAttributes(w, a.Attributes)
}

func writeClassList(w *binary.Writer, cp *ConstantPool, classes []*ConstantClassInfo) {
	w.WriteU2(uint16(len(classes)))
	for _, c := range classes {
		w.WriteU2(cp.ref(c))
	}
}

func writeModuleList(w *binary.Writer, cp *ConstantPool, modules []*ConstantModuleInfo) {
	w.WriteU2(uint16(len(modules)))
	for _, m := range modules {
		w.WriteU2(cp.ref(m))
	}
}

func writeModule(w *binary.Writer, cp *ConstantPool, a *ModuleAttribute) {
	w.WriteU2(cp.ref(a.Module))
	w.WriteU2(uint16(a.Flags))
	w.WriteU2(cp.ref(a.Version))
	w.WriteU2(uint16(len(a.Requires)))
	for _, r := range a.Requires {
		w.WriteU2(cp.ref(r.Module))
		w.WriteU2(uint16(r.Flags))
		w.WriteU2(cp.ref(r.Version))
	}
	w.WriteU2(uint16(len(a.Exports)))
	for _, x := range a.Exports {
		w.WriteU2(cp.ref(x.Package))
		w.WriteU2(uint16(x.Flags))
		writeModuleList(w, cp, x.To)
	}
	w.WriteU2(uint16(len(a.Opens)))
	for _, o := range a.Opens {
		w.WriteU2(cp.ref(o.Package))
		w.WriteU2(uint16(o.Flags))
		writeModuleList(w, cp, o.To)
	}
	writeClassList(w, cp, a.Uses)
	w.WriteU2(uint16(len(a.Provides)))
	for _, p := range a.Provides {
		w.WriteU2(cp.ref(p.Service))
		writeClassList(w, cp, p.With)
	}
}
