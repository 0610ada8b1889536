package classfile

// Attribute is one decoded attribute. The set of implementations is closed.
type Attribute interface {
	// AttributeName returns the attribute's name as stored in the pool.
	AttributeName() string
	// NameEntry is the pool entry holding the name. Nil for attributes built
	// in code; the encoder then uses the canonical name.
	NameEntry() *ConstantUtf8Info
	// Length is the payload length in bytes, excluding the 6-byte header.
	Length() int
	attribute()
}

// AttributeHolder is anything that carries a list of attributes.
type AttributeHolder interface {
	AttributeList() []Attribute
}

// AttributeBase is embedded by every attribute type.
type AttributeBase struct {
	Name *ConstantUtf8Info
}

func (a *AttributeBase) NameEntry() *ConstantUtf8Info { return a.Name }
func (a *AttributeBase) AttributeName() string        { return utf8Value(a.Name) }
func (*AttributeBase) attribute()                     {}

// FindAttribute returns the first attribute of type T held by h.
func FindAttribute[T Attribute](h AttributeHolder) (T, bool) {
	for _, a := range h.AttributeList() {
		if t, ok := a.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}

// GetAttribute returns the first attribute named name, or nil.
func GetAttribute(h AttributeHolder, name string) Attribute {
	for _, a := range h.AttributeList() {
		if AttributeNameOf(a) == name {
			return a
		}
	}
	return nil
}

func attributesLength(attrs []Attribute) int {
	n := 2
	for _, a := range attrs {
		n += 6 + a.Length()
	}
	return n
}

// DefaultAttribute keeps the payload of an attribute the codec does not
// decode. It round-trips verbatim.
type DefaultAttribute struct {
	AttributeBase
	Data []byte
}

func (a *DefaultAttribute) Length() int { return len(a.Data) }

type ConstantValueAttribute struct {
	AttributeBase
	Value ConstantPoolEntry
}

func (a *ConstantValueAttribute) Length() int { return 2 }

type CodeAttribute struct {
	AttributeBase
	MaxStack       uint16
	MaxLocals      uint16
	Instructions   []Instruction
	ExceptionTable []ExceptionTableEntry
	Attributes     []Attribute
	// Oak selects the pre-1.0.2 layout with u1 max_stack and max_locals and
	// a u2 code_length.
	Oak bool
}

// ExceptionTableEntry covers [StartPC, EndPC). A nil CatchType catches
// everything.
type ExceptionTableEntry struct {
	StartPC   uint16
	EndPC     uint16
	HandlerPC uint16
	CatchType *ConstantClassInfo
}

func (a *CodeAttribute) Length() int {
	header := 8
	if a.Oak {
		header = 4
	}
	return header + CodeLength(a.Instructions) + 2 + 8*len(a.ExceptionTable) + attributesLength(a.Attributes)
}

func (a *CodeAttribute) AttributeList() []Attribute { return a.Attributes }

type ExceptionsAttribute struct {
	AttributeBase
	Exceptions []*ConstantClassInfo
}

func (a *ExceptionsAttribute) Length() int { return 2 + 2*len(a.Exceptions) }

type SourceFileAttribute struct {
	AttributeBase
	SourceFile *ConstantUtf8Info
}

func (a *SourceFileAttribute) Length() int { return 2 }

type LineNumberTableAttribute struct {
	AttributeBase
	Entries []LineNumberEntry
}

type LineNumberEntry struct {
	StartPC    uint16
	LineNumber uint16
}

func (a *LineNumberTableAttribute) Length() int { return 2 + 4*len(a.Entries) }

type LocalVariableTableAttribute struct {
	AttributeBase
	Entries []LocalVariableEntry
}

type LocalVariableEntry struct {
	StartPC    uint16
	Length     uint16
	Name       *ConstantUtf8Info
	Descriptor *ConstantUtf8Info
	Index      uint16
}

func (a *LocalVariableTableAttribute) Length() int { return 2 + 10*len(a.Entries) }

type LocalVariableTypeTableAttribute struct {
	AttributeBase
	Entries []LocalVariableTypeEntry
}

type LocalVariableTypeEntry struct {
	StartPC   uint16
	Length    uint16
	Name      *ConstantUtf8Info
	Signature *ConstantUtf8Info
	Index     uint16
}

func (a *LocalVariableTypeTableAttribute) Length() int { return 2 + 10*len(a.Entries) }

type InnerClassesAttribute struct {
	AttributeBase
	Classes []InnerClassEntry
}

// InnerClassEntry has optional OuterClass and InnerName.
type InnerClassEntry struct {
	InnerClass  *ConstantClassInfo
	OuterClass  *ConstantClassInfo
	InnerName   *ConstantUtf8Info
	AccessFlags AccessFlags
}

func (a *InnerClassesAttribute) Length() int { return 2 + 8*len(a.Classes) }

type SyntheticAttribute struct {
	AttributeBase
}

func (a *SyntheticAttribute) Length() int { return 0 }

type DeprecatedAttribute struct {
	AttributeBase
}

func (a *DeprecatedAttribute) Length() int { return 0 }

// EnclosingMethodAttribute has a nil Method when the class is not enclosed
// by a method.
type EnclosingMethodAttribute struct {
	AttributeBase
	Class  *ConstantClassInfo
	Method *ConstantNameAndTypeInfo
}

func (a *EnclosingMethodAttribute) Length() int { return 4 }

type SignatureAttribute struct {
	AttributeBase
	Signature *ConstantUtf8Info
}

func (a *SignatureAttribute) Length() int { return 2 }

// SourceDebugExtensionAttribute keeps the raw modified UTF-8 bytes.
type SourceDebugExtensionAttribute struct {
	AttributeBase
	Data []byte
}

func (a *SourceDebugExtensionAttribute) Length() int { return len(a.Data) }

// DebugExtension decodes the payload as text.
func (a *SourceDebugExtensionAttribute) DebugExtension() string {
	return decodeModifiedUtf8(a.Data)
}

// AnnotationsAttribute is RuntimeVisibleAnnotations or
// RuntimeInvisibleAnnotations.
type AnnotationsAttribute struct {
	AttributeBase
	Visible     bool
	Annotations []*Annotation
}

func (a *AnnotationsAttribute) Length() int {
	n := 2
	for _, an := range a.Annotations {
		n += annotationLength(an)
	}
	return n
}

// ParameterAnnotationsAttribute is RuntimeVisibleParameterAnnotations or
// RuntimeInvisibleParameterAnnotations.
type ParameterAnnotationsAttribute struct {
	AttributeBase
	Visible    bool
	Parameters [][]*Annotation
}

func (a *ParameterAnnotationsAttribute) Length() int {
	n := 1
	for _, p := range a.Parameters {
		n += 2
		for _, an := range p {
			n += annotationLength(an)
		}
	}
	return n
}

// TypeAnnotationsAttribute is RuntimeVisibleTypeAnnotations or
// RuntimeInvisibleTypeAnnotations.
type TypeAnnotationsAttribute struct {
	AttributeBase
	Visible     bool
	Annotations []*TypeAnnotation
}

func (a *TypeAnnotationsAttribute) Length() int {
	n := 2
	for _, an := range a.Annotations {
		n += typeAnnotationLength(an)
	}
	return n
}

type AnnotationDefaultAttribute struct {
	AttributeBase
	Value ElementValue
}

func (a *AnnotationDefaultAttribute) Length() int { return elementValueLength(a.Value) }

type StackMapTableAttribute struct {
	AttributeBase
	Frames []StackMapFrame
}

func (a *StackMapTableAttribute) Length() int {
	n := 2
	for _, f := range a.Frames {
		n += frameLength(f)
	}
	return n
}

type BootstrapMethodsAttribute struct {
	AttributeBase
	Methods []BootstrapMethod
}

type BootstrapMethod struct {
	Handle    *ConstantMethodHandleInfo
	Arguments []ConstantPoolEntry
}

func (a *BootstrapMethodsAttribute) Length() int {
	n := 2
	for _, m := range a.Methods {
		n += 4 + 2*len(m.Arguments)
	}
	return n
}

type MethodParametersAttribute struct {
	AttributeBase
	Parameters []MethodParameter
}

// MethodParameter has a nil Name for formal parameters without one.
type MethodParameter struct {
	Name        *ConstantUtf8Info
	AccessFlags AccessFlags
}

func (a *MethodParametersAttribute) Length() int { return 1 + 4*len(a.Parameters) }

type ModuleAttribute struct {
	AttributeBase
	Module   *ConstantModuleInfo
	Flags    AccessFlags
	Version  *ConstantUtf8Info
	Requires []ModuleRequires
	Exports  []ModuleExports
	Opens    []ModuleOpens
	Uses     []*ConstantClassInfo
	Provides []ModuleProvides
}

type ModuleRequires struct {
	Module  *ConstantModuleInfo
	Flags   AccessFlags
	Version *ConstantUtf8Info
}

type ModuleExports struct {
	Package *ConstantPackageInfo
	Flags   AccessFlags
	To      []*ConstantModuleInfo
}

type ModuleOpens struct {
	Package *ConstantPackageInfo
	Flags   AccessFlags
	To      []*ConstantModuleInfo
}

type ModuleProvides struct {
	Service *ConstantClassInfo
	With    []*ConstantClassInfo
}

func (e *ModuleExports) length() int  { return 6 + 2*len(e.To) }
func (o *ModuleOpens) length() int    { return 6 + 2*len(o.To) }
func (p *ModuleProvides) length() int { return 4 + 2*len(p.With) }

func (a *ModuleAttribute) Length() int {
	n := 6 + 2 + 6*len(a.Requires) + 2 + 2 + 2 + 2*len(a.Uses) + 2
	for i := range a.Exports {
		n += a.Exports[i].length()
	}
	for i := range a.Opens {
		n += a.Opens[i].length()
	}
	for i := range a.Provides {
		n += a.Provides[i].length()
	}
	return n
}

type ModulePackagesAttribute struct {
	AttributeBase
	Packages []*ConstantPackageInfo
}

func (a *ModulePackagesAttribute) Length() int { return 2 + 2*len(a.Packages) }

type ModuleMainClassAttribute struct {
	AttributeBase
	MainClass *ConstantClassInfo
}

func (a *ModuleMainClassAttribute) Length() int { return 2 }

// ModuleHashesAttribute is written by jlink and jmod.
type ModuleHashesAttribute struct {
	AttributeBase
	Algorithm *ConstantUtf8Info
	Hashes    []ModuleHash
}

type ModuleHash struct {
	Module *ConstantModuleInfo
	Hash   []byte
}

func (a *ModuleHashesAttribute) Length() int {
	n := 4
	for _, h := range a.Hashes {
		n += 4 + len(h.Hash)
	}
	return n
}

type ModuleResolutionAttribute struct {
	AttributeBase
	Flags uint16
}

func (a *ModuleResolutionAttribute) Length() int { return 2 }

type ModuleTargetAttribute struct {
	AttributeBase
	Platform *ConstantUtf8Info
}

func (a *ModuleTargetAttribute) Length() int { return 2 }

type NestHostAttribute struct {
	AttributeBase
	Host *ConstantClassInfo
}

func (a *NestHostAttribute) Length() int { return 2 }

type NestMembersAttribute struct {
	AttributeBase
	Classes []*ConstantClassInfo
}

func (a *NestMembersAttribute) Length() int { return 2 + 2*len(a.Classes) }

type PermittedSubclassesAttribute struct {
	AttributeBase
	Classes []*ConstantClassInfo
}

func (a *PermittedSubclassesAttribute) Length() int { return 2 + 2*len(a.Classes) }

type RecordAttribute struct {
	AttributeBase
	Components []*RecordComponent
}

type RecordComponent struct {
	Name       *ConstantUtf8Info
	Descriptor *ConstantUtf8Info
	Attributes []Attribute
}

func (c *RecordComponent) AttributeList() []Attribute { return c.Attributes }

func (c *RecordComponent) length() int { return 4 + attributesLength(c.Attributes) }

func (a *RecordAttribute) Length() int {
	n := 2
	for _, c := range a.Components {
		n += c.length()
	}
	return n
}

// CharacterRangeTableAttribute maps code ranges to source character ranges.
// It is emitted by javac -Xjcov.
type CharacterRangeTableAttribute struct {
	AttributeBase
	Entries []CharacterRange
}

type CharacterRange struct {
	StartPC    uint16
	EndPC      uint16
	RangeStart uint32
	RangeEnd   uint32
	Flags      uint16
}

func (a *CharacterRangeTableAttribute) Length() int { return 2 + 14*len(a.Entries) }

type CompilationIDAttribute struct {
	AttributeBase
	ID *ConstantUtf8Info
}

func (a *CompilationIDAttribute) Length() int { return 2 }

type SourceIDAttribute struct {
	AttributeBase
	ID *ConstantUtf8Info
}

func (a *SourceIDAttribute) Length() int { return 2 }

// Attribute names.
const (
	AttrConstantValue                        = "ConstantValue"
	AttrCode                                 = "Code"
	AttrStackMapTable                        = "StackMapTable"
	AttrExceptions                           = "Exceptions"
	AttrInnerClasses                         = "InnerClasses"
	AttrEnclosingMethod                      = "EnclosingMethod"
	AttrSynthetic                            = "Synthetic"
	AttrSignature                            = "Signature"
	AttrSourceFile                           = "SourceFile"
	AttrSourceDebugExtension                 = "SourceDebugExtension"
	AttrLineNumberTable                      = "LineNumberTable"
	AttrLocalVariableTable                   = "LocalVariableTable"
	AttrLocalVariableTypeTable               = "LocalVariableTypeTable"
	AttrDeprecated                           = "Deprecated"
	AttrRuntimeVisibleAnnotations            = "RuntimeVisibleAnnotations"
	AttrRuntimeInvisibleAnnotations          = "RuntimeInvisibleAnnotations"
	AttrRuntimeVisibleParameterAnnotations   = "RuntimeVisibleParameterAnnotations"
	AttrRuntimeInvisibleParameterAnnotations = "RuntimeInvisibleParameterAnnotations"
	AttrRuntimeVisibleTypeAnnotations        = "RuntimeVisibleTypeAnnotations"
	AttrRuntimeInvisibleTypeAnnotations      = "RuntimeInvisibleTypeAnnotations"
	AttrAnnotationDefault                    = "AnnotationDefault"
	AttrBootstrapMethods                     = "BootstrapMethods"
	AttrMethodParameters                     = "MethodParameters"
	AttrModule                               = "Module"
	AttrModulePackages                       = "ModulePackages"
	AttrModuleMainClass                      = "ModuleMainClass"
	AttrModuleHashes                         = "ModuleHashes"
	AttrModuleResolution                     = "ModuleResolution"
	AttrModuleTarget                         = "ModuleTarget"
	AttrNestHost                             = "NestHost"
	AttrNestMembers                          = "NestMembers"
	AttrRecord                               = "Record"
	AttrPermittedSubclasses                  = "PermittedSubclasses"
	AttrCharacterRangeTable                  = "CharacterRangeTable"
	AttrCompilationID                        = "CompilationID"
	AttrSourceID                             = "SourceID"
)

// AttributeNameOf returns the name written for a: the stored name entry when
// present, otherwise the canonical name for its type.
func AttributeNameOf(a Attribute) string {
	if e := a.NameEntry(); e != nil {
		return e.Value
	}
	switch a := a.(type) {
	case *ConstantValueAttribute:
		return AttrConstantValue
	case *CodeAttribute:
		return AttrCode
	case *StackMapTableAttribute:
		return AttrStackMapTable
	case *ExceptionsAttribute:
		return AttrExceptions
	case *InnerClassesAttribute:
		return AttrInnerClasses
	case *EnclosingMethodAttribute:
		return AttrEnclosingMethod
	case *SyntheticAttribute:
		return AttrSynthetic
	case *SignatureAttribute:
		return AttrSignature
	case *SourceFileAttribute:
		return AttrSourceFile
	case *SourceDebugExtensionAttribute:
		return AttrSourceDebugExtension
	case *LineNumberTableAttribute:
		return AttrLineNumberTable
	case *LocalVariableTableAttribute:
		return AttrLocalVariableTable
	case *LocalVariableTypeTableAttribute:
		return AttrLocalVariableTypeTable
	case *DeprecatedAttribute:
		return AttrDeprecated
	case *AnnotationsAttribute:
		if a.Visible {
			return AttrRuntimeVisibleAnnotations
		}
		return AttrRuntimeInvisibleAnnotations
	case *ParameterAnnotationsAttribute:
		if a.Visible {
			return AttrRuntimeVisibleParameterAnnotations
		}
		return AttrRuntimeInvisibleParameterAnnotations
	case *TypeAnnotationsAttribute:
		if a.Visible {
			return AttrRuntimeVisibleTypeAnnotations
		}
		return AttrRuntimeInvisibleTypeAnnotations
	case *AnnotationDefaultAttribute:
		return AttrAnnotationDefault
	case *BootstrapMethodsAttribute:
		return AttrBootstrapMethods
	case *MethodParametersAttribute:
		return AttrMethodParameters
	case *ModuleAttribute:
		return AttrModule
	case *ModulePackagesAttribute:
		return AttrModulePackages
	case *ModuleMainClassAttribute:
		return AttrModuleMainClass
	case *ModuleHashesAttribute:
		return AttrModuleHashes
	case *ModuleResolutionAttribute:
		return AttrModuleResolution
	case *ModuleTargetAttribute:
		return AttrModuleTarget
	case *NestHostAttribute:
		return AttrNestHost
	case *NestMembersAttribute:
		return AttrNestMembers
	case *RecordAttribute:
		return AttrRecord
	case *PermittedSubclassesAttribute:
		return AttrPermittedSubclasses
	case *CharacterRangeTableAttribute:
		return AttrCharacterRangeTable
	case *CompilationIDAttribute:
		return AttrCompilationID
	case *SourceIDAttribute:
		return AttrSourceID
	}
	return ""
}
