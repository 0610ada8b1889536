package classfile

type FieldInfo struct {
	AccessFlags AccessFlags
	Name        *ConstantUtf8Info
	Descriptor  *ConstantUtf8Info
	Attributes  []Attribute
}

func (f *FieldInfo) NameString() string       { return utf8Value(f.Name) }
func (f *FieldInfo) DescriptorString() string { return utf8Value(f.Descriptor) }

func (f *FieldInfo) AttributeList() []Attribute { return f.Attributes }

func (f *FieldInfo) GetAttribute(name string) Attribute {
	return GetAttribute(f, name)
}

// ConstantValue returns the field's initializer entry, or nil.
func (f *FieldInfo) ConstantValue() ConstantPoolEntry {
	if a, ok := FindAttribute[*ConstantValueAttribute](f); ok {
		return a.Value
	}
	return nil
}

func (f *FieldInfo) IsPublic() bool    { return f.AccessFlags.IsPublic() }
func (f *FieldInfo) IsPrivate() bool   { return f.AccessFlags.IsPrivate() }
func (f *FieldInfo) IsProtected() bool { return f.AccessFlags.IsProtected() }
func (f *FieldInfo) IsStatic() bool    { return f.AccessFlags.IsStatic() }
func (f *FieldInfo) IsFinal() bool     { return f.AccessFlags.IsFinal() }
func (f *FieldInfo) IsVolatile() bool  { return f.AccessFlags.IsVolatile() }
func (f *FieldInfo) IsTransient() bool { return f.AccessFlags.IsTransient() }
func (f *FieldInfo) IsSynthetic() bool { return f.AccessFlags.IsSynthetic() }
func (f *FieldInfo) IsEnum() bool      { return f.AccessFlags.IsEnum() }

func (f *FieldInfo) ParsedDescriptor() (*FieldType, error) {
	return ParseFieldDescriptor(f.DescriptorString())
}
