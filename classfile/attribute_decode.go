package classfile

import (
	"github.com/Col-E/CAFED00D-sub000/classfile/internal/binary"
	"go.uber.org/zap"
)

// decodeAttribute decodes the payload of the attribute named name. r is
// bounded to the declared length.
func (d *decoder) decodeAttribute(r *binary.Reader, name *ConstantUtf8Info, loc Location) (Attribute, error) {
	base := AttributeBase{Name: name}
	switch name.Value {
	case AttrConstantValue:
		e, err := d.cp.Get(int(r.ReadU2()))
		return &ConstantValueAttribute{AttributeBase: base, Value: e}, err
	case AttrCode:
		return d.readCode(r, base)
	case AttrStackMapTable:
		frames, err := decodeStackMapFrames(r, d.cp)
		return &StackMapTableAttribute{AttributeBase: base, Frames: frames}, err
	case AttrExceptions:
		classes, err := d.readClassList(r)
		return &ExceptionsAttribute{AttributeBase: base, Exceptions: classes}, err
	case AttrInnerClasses:
		return d.readInnerClasses(r, base)
	case AttrEnclosingMethod:
		class, err := Entry[*ConstantClassInfo](d.cp, int(r.ReadU2()))
		if err != nil {
			return nil, err
		}
		method, err := OptionalEntry[*ConstantNameAndTypeInfo](d.cp, int(r.ReadU2()))
		return &EnclosingMethodAttribute{AttributeBase: base, Class: class, Method: method}, err
	case AttrSynthetic:
		return &SyntheticAttribute{AttributeBase: base}, nil
	case AttrDeprecated:
		return &DeprecatedAttribute{AttributeBase: base}, nil
	case AttrSignature:
		sig, err := Entry[*ConstantUtf8Info](d.cp, int(r.ReadU2()))
		return &SignatureAttribute{AttributeBase: base, Signature: sig}, err
	case AttrSourceFile:
		file, err := Entry[*ConstantUtf8Info](d.cp, int(r.ReadU2()))
		return &SourceFileAttribute{AttributeBase: base, SourceFile: file}, err
	case AttrSourceDebugExtension:
		return &SourceDebugExtensionAttribute{AttributeBase: base, Data: r.ReadBytes(r.Remaining())}, nil
	case AttrLineNumberTable:
		n := int(r.ReadU2())
		a := &LineNumberTableAttribute{AttributeBase: base, Entries: make([]LineNumberEntry, 0, min(n, r.Remaining()/4))}
		for i := 0; i < n && r.Err() == nil; i++ {
			a.Entries = append(a.Entries, LineNumberEntry{StartPC: r.ReadU2(), LineNumber: r.ReadU2()})
		}
		return a, nil
	case AttrLocalVariableTable:
		return d.readLocalVariables(r, base)
	case AttrLocalVariableTypeTable:
		return d.readLocalVariableTypes(r, base)
	case AttrRuntimeVisibleAnnotations, AttrRuntimeInvisibleAnnotations:
		annotations, err := d.readAnnotations(r)
		if err != nil {
			return nil, err
		}
		a := &AnnotationsAttribute{AttributeBase: base, Visible: name.Value == AttrRuntimeVisibleAnnotations}
		a.Annotations = d.dedupe(annotations, name.Value, loc)
		return a, nil
	case AttrRuntimeVisibleParameterAnnotations, AttrRuntimeInvisibleParameterAnnotations:
		a := &ParameterAnnotationsAttribute{AttributeBase: base, Visible: name.Value == AttrRuntimeVisibleParameterAnnotations}
		n := int(r.ReadU1())
		for i := 0; i < n && r.Err() == nil; i++ {
			annotations, err := d.readAnnotations(r)
			if err != nil {
				return nil, err
			}
			a.Parameters = append(a.Parameters, d.dedupe(annotations, name.Value, loc))
		}
		return a, nil
	case AttrRuntimeVisibleTypeAnnotations, AttrRuntimeInvisibleTypeAnnotations:
		a := &TypeAnnotationsAttribute{AttributeBase: base, Visible: name.Value == AttrRuntimeVisibleTypeAnnotations}
		n := int(r.ReadU2())
		for i := 0; i < n && r.Err() == nil; i++ {
			ta, err := d.readTypeAnnotation(r)
			if err != nil {
				return nil, err
			}
			a.Annotations = append(a.Annotations, ta)
		}
		return a, nil
	case AttrAnnotationDefault:
		v, err := d.readElementValue(r)
		return &AnnotationDefaultAttribute{AttributeBase: base, Value: v}, err
	case AttrBootstrapMethods:
		return d.readBootstrapMethods(r, base)
	case AttrMethodParameters:
		n := int(r.ReadU1())
		a := &MethodParametersAttribute{AttributeBase: base}
		for i := 0; i < n && r.Err() == nil; i++ {
			name, err := OptionalEntry[*ConstantUtf8Info](d.cp, int(r.ReadU2()))
			if err != nil {
				return nil, err
			}
			a.Parameters = append(a.Parameters, MethodParameter{Name: name, AccessFlags: AccessFlags(r.ReadU2())})
		}
		return a, nil
	case AttrModule:
		return d.readModule(r, base)
	case AttrModulePackages:
		n := int(r.ReadU2())
		a := &ModulePackagesAttribute{AttributeBase: base}
		for i := 0; i < n && r.Err() == nil; i++ {
			pkg, err := Entry[*ConstantPackageInfo](d.cp, int(r.ReadU2()))
			if err != nil {
				return nil, err
			}
			a.Packages = append(a.Packages, pkg)
		}
		return a, nil
	case AttrModuleMainClass:
		class, err := Entry[*ConstantClassInfo](d.cp, int(r.ReadU2()))
		return &ModuleMainClassAttribute{AttributeBase: base, MainClass: class}, err
	case AttrModuleHashes:
		return d.readModuleHashes(r, base)
	case AttrModuleResolution:
		return &ModuleResolutionAttribute{AttributeBase: base, Flags: r.ReadU2()}, nil
	case AttrModuleTarget:
		platform, err := Entry[*ConstantUtf8Info](d.cp, int(r.ReadU2()))
		return &ModuleTargetAttribute{AttributeBase: base, Platform: platform}, err
	case AttrNestHost:
		host, err := Entry[*ConstantClassInfo](d.cp, int(r.ReadU2()))
		return &NestHostAttribute{AttributeBase: base, Host: host}, err
	case AttrNestMembers:
		classes, err := d.readClassList(r)
		return &NestMembersAttribute{AttributeBase: base, Classes: classes}, err
	case AttrPermittedSubclasses:
		classes, err := d.readClassList(r)
		return &PermittedSubclassesAttribute{AttributeBase: base, Classes: classes}, err
	case AttrRecord:
		return d.readRecord(r, base)
	case AttrCharacterRangeTable:
		n := int(r.ReadU2())
		a := &CharacterRangeTableAttribute{AttributeBase: base, Entries: make([]CharacterRange, 0, min(n, r.Remaining()/14))}
		for i := 0; i < n && r.Err() == nil; i++ {
			a.Entries = append(a.Entries, CharacterRange{
				StartPC:    r.ReadU2(),
				EndPC:      r.ReadU2(),
				RangeStart: r.ReadU4(),
				RangeEnd:   r.ReadU4(),
				Flags:      r.ReadU2(),
			})
		}
		return a, nil
	case AttrCompilationID:
		id, err := Entry[*ConstantUtf8Info](d.cp, int(r.ReadU2()))
		return &CompilationIDAttribute{AttributeBase: base, ID: id}, err
	case AttrSourceID:
		id, err := Entry[*ConstantUtf8Info](d.cp, int(r.ReadU2()))
		return &SourceIDAttribute{AttributeBase: base, ID: id}, err
	}
	return &DefaultAttribute{AttributeBase: base, Data: r.ReadBytes(r.Remaining())}, nil
}

func (d *decoder) readCode(r *binary.Reader, base AttributeBase) (Attribute, error) {
	a := &CodeAttribute{AttributeBase: base, Oak: IsOak(d.major, d.minor)}
	var length int
	if a.Oak {
		a.MaxStack = uint16(r.ReadU1())
		a.MaxLocals = uint16(r.ReadU1())
		length = int(r.ReadU2())
	} else {
		a.MaxStack = r.ReadU2()
		a.MaxLocals = r.ReadU2()
		length = int(r.ReadU4())
	}
	if r.Err() != nil {
		return nil, readErr(r.Offset(), "code header", r.Err())
	}
	if d.opts.CheckCodeLength && (length <= 0 || length >= MaxCodeLength) {
		return nil, malformedErr(r.Offset(), "code length %d outside 1..%d", length, MaxCodeLength-1)
	}
	offset := r.Offset()
	code := r.ReadBytes(length)
	if r.Err() != nil {
		return nil, readErr(offset, "code", r.Err())
	}
	var err error
	if a.Instructions, err = decodeInstructions(code, offset, d.cp, d.opts); err != nil {
		return nil, err
	}

	n := int(r.ReadU2())
	a.ExceptionTable = make([]ExceptionTableEntry, 0, min(n, r.Remaining()/8))
	for i := 0; i < n && r.Err() == nil; i++ {
		e := ExceptionTableEntry{StartPC: r.ReadU2(), EndPC: r.ReadU2(), HandlerPC: r.ReadU2()}
		if e.CatchType, err = OptionalEntry[*ConstantClassInfo](d.cp, int(r.ReadU2())); err != nil {
			return nil, err
		}
		a.ExceptionTable = append(a.ExceptionTable, e)
	}
	if r.Err() != nil {
		return nil, readErr(r.Offset(), "exception table", r.Err())
	}
	if a.Attributes, err = d.readAttributes(r, LocationCode); err != nil {
		return nil, err
	}
	return a, nil
}

func (d *decoder) readClassList(r *binary.Reader) ([]*ConstantClassInfo, error) {
	n := int(r.ReadU2())
	classes := make([]*ConstantClassInfo, 0, min(n, r.Remaining()/2))
	for i := 0; i < n && r.Err() == nil; i++ {
		class, err := Entry[*ConstantClassInfo](d.cp, int(r.ReadU2()))
		if err != nil {
			return nil, err
		}
		classes = append(classes, class)
	}
	return classes, nil
}

func (d *decoder) readInnerClasses(r *binary.Reader, base AttributeBase) (Attribute, error) {
	n := int(r.ReadU2())
	a := &InnerClassesAttribute{AttributeBase: base, Classes: make([]InnerClassEntry, 0, min(n, r.Remaining()/8))}
	for i := 0; i < n && r.Err() == nil; i++ {
		var e InnerClassEntry
		var err error
		if e.InnerClass, err = Entry[*ConstantClassInfo](d.cp, int(r.ReadU2())); err != nil {
			return nil, err
		}
		if e.OuterClass, err = OptionalEntry[*ConstantClassInfo](d.cp, int(r.ReadU2())); err != nil {
			return nil, err
		}
		if e.InnerName, err = OptionalEntry[*ConstantUtf8Info](d.cp, int(r.ReadU2())); err != nil {
			return nil, err
		}
		e.AccessFlags = AccessFlags(r.ReadU2())
		a.Classes = append(a.Classes, e)
	}
	return a, nil
}

func (d *decoder) readLocalVariables(r *binary.Reader, base AttributeBase) (Attribute, error) {
	n := int(r.ReadU2())
	a := &LocalVariableTableAttribute{AttributeBase: base, Entries: make([]LocalVariableEntry, 0, min(n, r.Remaining()/10))}
	for i := 0; i < n && r.Err() == nil; i++ {
		e := LocalVariableEntry{StartPC: r.ReadU2(), Length: r.ReadU2()}
		var err error
		if e.Name, err = Entry[*ConstantUtf8Info](d.cp, int(r.ReadU2())); err != nil {
			return nil, err
		}
		if e.Descriptor, err = Entry[*ConstantUtf8Info](d.cp, int(r.ReadU2())); err != nil {
			return nil, err
		}
		e.Index = r.ReadU2()
		a.Entries = append(a.Entries, e)
	}
	return a, nil
}

func (d *decoder) readLocalVariableTypes(r *binary.Reader, base AttributeBase) (Attribute, error) {
	n := int(r.ReadU2())
	a := &LocalVariableTypeTableAttribute{AttributeBase: base, Entries: make([]LocalVariableTypeEntry, 0, min(n, r.Remaining()/10))}
	for i := 0; i < n && r.Err() == nil; i++ {
		e := LocalVariableTypeEntry{StartPC: r.ReadU2(), Length: r.ReadU2()}
		var err error
		if e.Name, err = Entry[*ConstantUtf8Info](d.cp, int(r.ReadU2())); err != nil {
			return nil, err
		}
		if e.Signature, err = Entry[*ConstantUtf8Info](d.cp, int(r.ReadU2())); err != nil {
			return nil, err
		}
		e.Index = r.ReadU2()
		a.Entries = append(a.Entries, e)
	}
	return a, nil
}

func (d *decoder) readBootstrapMethods(r *binary.Reader, base AttributeBase) (Attribute, error) {
	n := int(r.ReadU2())
	a := &BootstrapMethodsAttribute{AttributeBase: base, Methods: make([]BootstrapMethod, 0, min(n, r.Remaining()/4))}
	for i := 0; i < n && r.Err() == nil; i++ {
		handle, err := Entry[*ConstantMethodHandleInfo](d.cp, int(r.ReadU2()))
		if err != nil {
			return nil, err
		}
		m := BootstrapMethod{Handle: handle}
		argc := int(r.ReadU2())
		for j := 0; j < argc && r.Err() == nil; j++ {
			arg, err := d.cp.Get(int(r.ReadU2()))
			if err != nil {
				return nil, err
			}
			m.Arguments = append(m.Arguments, arg)
		}
		a.Methods = append(a.Methods, m)
	}
	return a, nil
}

func (d *decoder) readModule(r *binary.Reader, base AttributeBase) (Attribute, error) {
	a := &ModuleAttribute{AttributeBase: base}
	var err error
	if a.Module, err = Entry[*ConstantModuleInfo](d.cp, int(r.ReadU2())); err != nil {
		return nil, err
	}
	a.Flags = AccessFlags(r.ReadU2())
	if a.Version, err = OptionalEntry[*ConstantUtf8Info](d.cp, int(r.ReadU2())); err != nil {
		return nil, err
	}

	n := int(r.ReadU2())
	for i := 0; i < n && r.Err() == nil; i++ {
		var req ModuleRequires
		if req.Module, err = Entry[*ConstantModuleInfo](d.cp, int(r.ReadU2())); err != nil {
			return nil, err
		}
		req.Flags = AccessFlags(r.ReadU2())
		if req.Version, err = OptionalEntry[*ConstantUtf8Info](d.cp, int(r.ReadU2())); err != nil {
			return nil, err
		}
		a.Requires = append(a.Requires, req)
	}

	n = int(r.ReadU2())
	for i := 0; i < n && r.Err() == nil; i++ {
		pkg, flags, to, err := d.readPackageTargets(r)
		if err != nil {
			return nil, err
		}
		a.Exports = append(a.Exports, ModuleExports{Package: pkg, Flags: flags, To: to})
	}

	n = int(r.ReadU2())
	for i := 0; i < n && r.Err() == nil; i++ {
		pkg, flags, to, err := d.readPackageTargets(r)
		if err != nil {
			return nil, err
		}
		a.Opens = append(a.Opens, ModuleOpens{Package: pkg, Flags: flags, To: to})
	}

	if a.Uses, err = d.readClassList(r); err != nil {
		return nil, err
	}

	n = int(r.ReadU2())
	for i := 0; i < n && r.Err() == nil; i++ {
		var p ModuleProvides
		if p.Service, err = Entry[*ConstantClassInfo](d.cp, int(r.ReadU2())); err != nil {
			return nil, err
		}
		if p.With, err = d.readClassList(r); err != nil {
			return nil, err
		}
		a.Provides = append(a.Provides, p)
	}
	return a, nil
}

func (d *decoder) readPackageTargets(r *binary.Reader) (*ConstantPackageInfo, AccessFlags, []*ConstantModuleInfo, error) {
	pkg, err := Entry[*ConstantPackageInfo](d.cp, int(r.ReadU2()))
	if err != nil {
		return nil, 0, nil, err
	}
	flags := AccessFlags(r.ReadU2())
	n := int(r.ReadU2())
	var to []*ConstantModuleInfo
	for i := 0; i < n && r.Err() == nil; i++ {
		m, err := Entry[*ConstantModuleInfo](d.cp, int(r.ReadU2()))
		if err != nil {
			return nil, 0, nil, err
		}
		to = append(to, m)
	}
	return pkg, flags, to, nil
}

func (d *decoder) readModuleHashes(r *binary.Reader, base AttributeBase) (Attribute, error) {
	a := &ModuleHashesAttribute{AttributeBase: base}
	var err error
	if a.Algorithm, err = Entry[*ConstantUtf8Info](d.cp, int(r.ReadU2())); err != nil {
		return nil, err
	}
	n := int(r.ReadU2())
	for i := 0; i < n && r.Err() == nil; i++ {
		m, err := Entry[*ConstantModuleInfo](d.cp, int(r.ReadU2()))
		if err != nil {
			return nil, err
		}
		a.Hashes = append(a.Hashes, ModuleHash{Module: m, Hash: r.ReadBytes(int(r.ReadU2()))})
	}
	return a, nil
}

func (d *decoder) readRecord(r *binary.Reader, base AttributeBase) (Attribute, error) {
	n := int(r.ReadU2())
	a := &RecordAttribute{AttributeBase: base}
	for i := 0; i < n && r.Err() == nil; i++ {
		c := &RecordComponent{}
		var err error
		if c.Name, err = Entry[*ConstantUtf8Info](d.cp, int(r.ReadU2())); err != nil {
			return nil, err
		}
		if c.Descriptor, err = Entry[*ConstantUtf8Info](d.cp, int(r.ReadU2())); err != nil {
			return nil, err
		}
		if c.Attributes, err = d.readAttributes(r, LocationRecordComponent); err != nil {
			return nil, err
		}
		a.Components = append(a.Components, c)
	}
	return a, nil
}

func (d *decoder) dedupe(annotations []*Annotation, name string, loc Location) []*Annotation {
	if !d.opts.DropDuplicateAnnotations {
		return annotations
	}
	out, dropped := dedupeAnnotations(annotations)
	if dropped > 0 {
		d.log.Warn("dropping duplicate annotations",
			zap.String("attribute", name),
			zap.Stringer("location", loc),
			zap.Int("count", dropped))
	}
	return out
}
