package classfile

type ClassFile struct {
	MinorVersion uint16
	MajorVersion uint16
	ConstantPool *ConstantPool
	AccessFlags  AccessFlags
	ThisClass    *ConstantClassInfo
	// SuperClass is nil for java/lang/Object and module-info.
	SuperClass *ConstantClassInfo
	Interfaces []*ConstantClassInfo
	Fields     []FieldInfo
	Methods    []MethodInfo
	Attributes []Attribute
}

// New creates an empty class with its own pool.
func New(major, minor uint16, access AccessFlags, name, super string) *ClassFile {
	cp := NewConstantPool()
	cf := &ClassFile{
		MajorVersion: major,
		MinorVersion: minor,
		ConstantPool: cp,
		AccessFlags:  access,
		ThisClass:    cp.Class(name),
	}
	if super != "" {
		cf.SuperClass = cp.Class(super)
	}
	return cf
}

func (cf *ClassFile) ClassName() string {
	return cf.ThisClass.ClassName()
}

func (cf *ClassFile) SuperClassName() string {
	return cf.SuperClass.ClassName()
}

func (cf *ClassFile) InterfaceNames() []string {
	names := make([]string, len(cf.Interfaces))
	for i, iface := range cf.Interfaces {
		names[i] = iface.ClassName()
	}
	return names
}

func (cf *ClassFile) AttributeList() []Attribute { return cf.Attributes }

func (cf *ClassFile) IsClass() bool {
	return !cf.AccessFlags.IsInterface() && !cf.AccessFlags.IsModule()
}

func (cf *ClassFile) IsInterface() bool {
	return cf.AccessFlags.IsInterface() && !cf.AccessFlags.IsAnnotation()
}

func (cf *ClassFile) IsAnnotation() bool {
	return cf.AccessFlags.IsAnnotation()
}

func (cf *ClassFile) IsEnum() bool {
	return cf.AccessFlags.IsEnum()
}

func (cf *ClassFile) IsModule() bool {
	return cf.AccessFlags.IsModule()
}

func (cf *ClassFile) IsOak() bool {
	return IsOak(cf.MajorVersion, cf.MinorVersion)
}

func (cf *ClassFile) GetField(name string) *FieldInfo {
	for i := range cf.Fields {
		if cf.Fields[i].NameString() == name {
			return &cf.Fields[i]
		}
	}
	return nil
}

func (cf *ClassFile) GetMethod(name, descriptor string) *MethodInfo {
	for i := range cf.Methods {
		if cf.Methods[i].NameString() == name {
			if descriptor == "" || cf.Methods[i].DescriptorString() == descriptor {
				return &cf.Methods[i]
			}
		}
	}
	return nil
}

func (cf *ClassFile) GetMethods(name string) []*MethodInfo {
	var methods []*MethodInfo
	for i := range cf.Methods {
		if cf.Methods[i].NameString() == name {
			methods = append(methods, &cf.Methods[i])
		}
	}
	return methods
}

func (cf *ClassFile) GetAttribute(name string) Attribute {
	return GetAttribute(cf, name)
}

// SourceFile returns the SourceFile attribute value, or "".
func (cf *ClassFile) SourceFile() string {
	if a, ok := FindAttribute[*SourceFileAttribute](cf); ok {
		return utf8Value(a.SourceFile)
	}
	return ""
}

// BootstrapMethods returns the class's bootstrap method table, or nil.
func (cf *ClassFile) BootstrapMethods() []BootstrapMethod {
	if a, ok := FindAttribute[*BootstrapMethodsAttribute](cf); ok {
		return a.Methods
	}
	return nil
}
