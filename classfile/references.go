package classfile

// CPReferences returns the pool entries v refers to directly, in first-use
// order and without duplicates. v may be a *ClassFile, *FieldInfo,
// *MethodInfo, *RecordComponent, Attribute, Instruction, StackMapFrame,
// VerificationType, *Annotation, *TypeAnnotation or ElementValue. Nested
// attributes are included; entries referenced only by other entries are not.
func CPReferences(v any) []ConstantPoolEntry {
	c := &refCollector{seen: make(map[ConstantPoolEntry]bool)}
	c.visit(v)
	return c.refs
}

type refCollector struct {
	refs []ConstantPoolEntry
	seen map[ConstantPoolEntry]bool
}

func (c *refCollector) add(entries ...ConstantPoolEntry) {
	for _, e := range entries {
		if isNilEntry(e) || c.seen[e] {
			continue
		}
		c.seen[e] = true
		c.refs = append(c.refs, e)
	}
}

func (c *refCollector) attributes(attrs []Attribute) {
	for _, a := range attrs {
		c.visit(a)
	}
}

func (c *refCollector) visit(v any) {
	switch v := v.(type) {
	case *ClassFile:
		c.add(v.ThisClass, v.SuperClass)
		for _, iface := range v.Interfaces {
			c.add(iface)
		}
		for i := range v.Fields {
			c.visit(&v.Fields[i])
		}
		for i := range v.Methods {
			c.visit(&v.Methods[i])
		}
		c.attributes(v.Attributes)
	case *FieldInfo:
		c.add(v.Name, v.Descriptor)
		c.attributes(v.Attributes)
	case *MethodInfo:
		c.add(v.Name, v.Descriptor)
		c.attributes(v.Attributes)
	case *RecordComponent:
		c.add(v.Name, v.Descriptor)
		c.attributes(v.Attributes)
	case Attribute:
		c.add(v.NameEntry())
		c.attribute(v)
	case Instruction:
		c.instruction(v)
	case StackMapFrame:
		c.frame(v)
	case VerificationType:
		if o, ok := v.(*ObjectType); ok {
			c.add(o.Class)
		}
	case *Annotation:
		c.annotation(v)
	case *TypeAnnotation:
		c.annotation(&v.Annotation)
	case ElementValue:
		c.elementValue(v)
	}
}

func (c *refCollector) attribute(a Attribute) {
	switch a := a.(type) {
	case *ConstantValueAttribute:
		c.add(a.Value)
	case *CodeAttribute:
		for _, insn := range a.Instructions {
			c.instruction(insn)
		}
		for _, h := range a.ExceptionTable {
			c.add(h.CatchType)
		}
		c.attributes(a.Attributes)
	case *StackMapTableAttribute:
		for _, f := range a.Frames {
			c.frame(f)
		}
	case *ExceptionsAttribute:
		c.classes(a.Exceptions)
	case *InnerClassesAttribute:
		for _, e := range a.Classes {
			c.add(e.InnerClass, e.OuterClass, e.InnerName)
		}
	case *EnclosingMethodAttribute:
		c.add(a.Class, a.Method)
	case *SignatureAttribute:
		c.add(a.Signature)
	case *SourceFileAttribute:
		c.add(a.SourceFile)
	case *LocalVariableTableAttribute:
		for _, v := range a.Entries {
			c.add(v.Name, v.Descriptor)
		}
	case *LocalVariableTypeTableAttribute:
		for _, v := range a.Entries {
			c.add(v.Name, v.Signature)
		}
	case *AnnotationsAttribute:
		for _, an := range a.Annotations {
			c.annotation(an)
		}
	case *ParameterAnnotationsAttribute:
		for _, p := range a.Parameters {
			for _, an := range p {
				c.annotation(an)
			}
		}
	case *TypeAnnotationsAttribute:
		for _, ta := range a.Annotations {
			c.annotation(&ta.Annotation)
		}
	case *AnnotationDefaultAttribute:
		c.elementValue(a.Value)
	case *BootstrapMethodsAttribute:
		for _, m := range a.Methods {
			c.add(m.Handle)
			c.add(m.Arguments...)
		}
	case *MethodParametersAttribute:
		for _, p := range a.Parameters {
			c.add(p.Name)
		}
	case *ModuleAttribute:
		c.add(a.Module, a.Version)
		for _, r := range a.Requires {
			c.add(r.Module, r.Version)
		}
		for _, x := range a.Exports {
			c.add(x.Package)
			c.modules(x.To)
		}
		for _, o := range a.Opens {
			c.add(o.Package)
			c.modules(o.To)
		}
		c.classes(a.Uses)
		for _, p := range a.Provides {
			c.add(p.Service)
			c.classes(p.With)
		}
	case *ModulePackagesAttribute:
		for _, p := range a.Packages {
			c.add(p)
		}
	case *ModuleMainClassAttribute:
		c.add(a.MainClass)
	case *ModuleHashesAttribute:
		c.add(a.Algorithm)
		for _, h := range a.Hashes {
			c.add(h.Module)
		}
	case *ModuleTargetAttribute:
		c.add(a.Platform)
	case *NestHostAttribute:
		c.add(a.Host)
	case *NestMembersAttribute:
		c.classes(a.Classes)
	case *PermittedSubclassesAttribute:
		c.classes(a.Classes)
	case *RecordAttribute:
		for _, rc := range a.Components {
			c.visit(rc)
		}
	case *CompilationIDAttribute:
		c.add(a.ID)
	case *SourceIDAttribute:
		c.add(a.ID)
	}
}

func (c *refCollector) classes(classes []*ConstantClassInfo) {
	for _, cl := range classes {
		c.add(cl)
	}
}

func (c *refCollector) modules(modules []*ConstantModuleInfo) {
	for _, m := range modules {
		c.add(m)
	}
}

func (c *refCollector) instruction(insn Instruction) {
	switch i := insn.(type) {
	case *ConstantInsn:
		c.add(i.Ref)
	case *InvokeInterfaceInsn:
		c.add(i.Ref)
	case *InvokeDynamicInsn:
		c.add(i.Ref)
	case *MultiANewArrayInsn:
		c.add(i.Class)
	}
}

func (c *refCollector) frame(f StackMapFrame) {
	var types []VerificationType
	switch f := f.(type) {
	case *SameLocalsOneStackItemFrame:
		types = []VerificationType{f.Stack}
	case *SameLocalsOneStackItemFrameExtended:
		types = []VerificationType{f.Stack}
	case *AppendFrame:
		types = f.Locals
	case *FullFrame:
		types = append(append(types, f.Locals...), f.Stack...)
	}
	for _, t := range types {
		if o, ok := t.(*ObjectType); ok {
			c.add(o.Class)
		}
	}
}

func (c *refCollector) annotation(a *Annotation) {
	if a == nil {
		return
	}
	c.add(a.Type)
	for _, e := range a.Elements {
		c.add(e.Name)
		c.elementValue(e.Value)
	}
}

func (c *refCollector) elementValue(v ElementValue) {
	switch v := v.(type) {
	case *ConstElementValue:
		c.add(v.Value)
	case *EnumElementValue:
		c.add(v.TypeName, v.ConstName)
	case *ClassElementValue:
		c.add(v.ClassInfo)
	case *AnnotationElementValue:
		c.annotation(v.Annotation)
	case *ArrayElementValue:
		for _, e := range v.Values {
			c.elementValue(e)
		}
	}
}
