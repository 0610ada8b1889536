package classfile

type MethodInfo struct {
	AccessFlags AccessFlags
	Name        *ConstantUtf8Info
	Descriptor  *ConstantUtf8Info
	Attributes  []Attribute
}

func (m *MethodInfo) NameString() string       { return utf8Value(m.Name) }
func (m *MethodInfo) DescriptorString() string { return utf8Value(m.Descriptor) }

func (m *MethodInfo) AttributeList() []Attribute { return m.Attributes }

func (m *MethodInfo) GetAttribute(name string) Attribute {
	return GetAttribute(m, name)
}

// Code returns the method body, or nil for abstract and native methods and
// for methods whose Code attribute was dropped.
func (m *MethodInfo) Code() *CodeAttribute {
	code, _ := FindAttribute[*CodeAttribute](m)
	return code
}

func (m *MethodInfo) IsPublic() bool       { return m.AccessFlags.IsPublic() }
func (m *MethodInfo) IsPrivate() bool      { return m.AccessFlags.IsPrivate() }
func (m *MethodInfo) IsProtected() bool    { return m.AccessFlags.IsProtected() }
func (m *MethodInfo) IsStatic() bool       { return m.AccessFlags.IsStatic() }
func (m *MethodInfo) IsFinal() bool        { return m.AccessFlags.IsFinal() }
func (m *MethodInfo) IsSynchronized() bool { return m.AccessFlags.IsSynchronized() }
func (m *MethodInfo) IsBridge() bool       { return m.AccessFlags.IsBridge() }
func (m *MethodInfo) IsVarargs() bool      { return m.AccessFlags.IsVarargs() }
func (m *MethodInfo) IsNative() bool       { return m.AccessFlags.IsNative() }
func (m *MethodInfo) IsAbstract() bool     { return m.AccessFlags.IsAbstract() }
func (m *MethodInfo) IsStrict() bool       { return m.AccessFlags.IsStrict() }
func (m *MethodInfo) IsSynthetic() bool    { return m.AccessFlags.IsSynthetic() }

func (m *MethodInfo) IsConstructor() bool {
	return m.NameString() == "<init>"
}

func (m *MethodInfo) IsStaticInitializer() bool {
	return m.NameString() == "<clinit>"
}

func (m *MethodInfo) ParsedDescriptor() (*MethodDescriptor, error) {
	return ParseMethodDescriptor(m.DescriptorString())
}
