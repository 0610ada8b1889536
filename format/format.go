package format

import (
	"encoding"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/Col-E/CAFED00D-sub000/classfile"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(cf *classfile.ClassFile) error
}

const (
	Line = "line"
	JSON = "json"
	CBOR = "cbor"
)

// New returns the encoder registered under name.
func New(name string, w io.Writer) (Encoder, error) {
	switch name {
	case Line:
		return NewLineEncoder(w), nil
	case JSON:
		return NewJSONEncoder(w), nil
	case CBOR:
		return NewCBOREncoder(w), nil
	}
	return nil, fmt.Errorf("unknown output format %q", name)
}

func classKind(cf *classfile.ClassFile) string {
	switch {
	case cf.IsAnnotation():
		return "annotation"
	case cf.IsEnum():
		return "enum"
	case cf.IsInterface():
		return "interface"
	case cf.IsModule():
		return "module"
	case cf.GetAttribute(classfile.AttrRecord) != nil:
		return "record"
	default:
		return "class"
	}
}

func visibility(flags classfile.AccessFlags) string {
	switch {
	case flags.IsPublic():
		return "public"
	case flags.IsProtected():
		return "protected"
	case flags.IsPrivate():
		return "private"
	default:
		return "package"
	}
}

func classModifiers(cf *classfile.ClassFile) []string {
	f := cf.AccessFlags
	var mods []string
	if f.IsFinal() {
		mods = append(mods, "final")
	}
	if f.IsAbstract() && !f.IsInterface() {
		mods = append(mods, "abstract")
	}
	if f.IsSynthetic() {
		mods = append(mods, "synthetic")
	}
	if cf.GetAttribute(classfile.AttrPermittedSubclasses) != nil {
		mods = append(mods, "sealed")
	}
	return mods
}

func fieldModifiers(f *classfile.FieldInfo) []string {
	var mods []string
	if f.IsStatic() {
		mods = append(mods, "static")
	}
	if f.IsFinal() {
		mods = append(mods, "final")
	}
	if f.IsVolatile() {
		mods = append(mods, "volatile")
	}
	if f.IsTransient() {
		mods = append(mods, "transient")
	}
	if f.IsSynthetic() {
		mods = append(mods, "synthetic")
	}
	if f.IsEnum() {
		mods = append(mods, "enum")
	}
	return mods
}

func methodModifiers(m *classfile.MethodInfo) []string {
	var mods []string
	if m.IsStatic() {
		mods = append(mods, "static")
	}
	if m.IsFinal() {
		mods = append(mods, "final")
	}
	if m.IsAbstract() {
		mods = append(mods, "abstract")
	}
	if m.IsSynchronized() {
		mods = append(mods, "synchronized")
	}
	if m.IsNative() {
		mods = append(mods, "native")
	}
	if m.IsBridge() {
		mods = append(mods, "bridge")
	}
	if m.IsVarargs() {
		mods = append(mods, "varargs")
	}
	if m.IsSynthetic() {
		mods = append(mods, "synthetic")
	}
	return mods
}

// joinOrDash joins mods with commas, using "-" for an empty list so that
// tab separated columns stay aligned.
func joinOrDash(mods []string) string {
	if len(mods) == 0 {
		return "-"
	}
	return strings.Join(mods, ",")
}

// fieldTypeString renders a field descriptor as a source type, falling back
// to the raw descriptor when it does not parse.
func fieldTypeString(desc string) string {
	ft, err := classfile.ParseFieldDescriptor(desc)
	if err != nil {
		return desc
	}
	return ft.String()
}

var handleKinds = map[classfile.MethodHandleKind]string{
	classfile.RefGetField:         "getfield",
	classfile.RefGetStatic:        "getstatic",
	classfile.RefPutField:         "putfield",
	classfile.RefPutStatic:        "putstatic",
	classfile.RefInvokeVirtual:    "invokevirtual",
	classfile.RefInvokeStatic:     "invokestatic",
	classfile.RefInvokeSpecial:    "invokespecial",
	classfile.RefNewInvokeSpecial: "newinvokespecial",
	classfile.RefInvokeInterface:  "invokeinterface",
}

// Constant renders a pool entry the way it reads in a bytecode listing.
func Constant(e classfile.ConstantPoolEntry) string {
	switch v := e.(type) {
	case nil:
		return "null"
	case *classfile.ConstantUtf8Info:
		return strconv.Quote(v.Value)
	case *classfile.ConstantIntegerInfo:
		return strconv.FormatInt(int64(v.Value), 10)
	case *classfile.ConstantFloatInfo:
		return formatFloat(float64(v.Value), 32, "f")
	case *classfile.ConstantLongInfo:
		return strconv.FormatInt(v.Value, 10) + "L"
	case *classfile.ConstantDoubleInfo:
		return formatFloat(v.Value, 64, "d")
	case *classfile.ConstantClassInfo:
		return v.ClassName()
	case *classfile.ConstantStringInfo:
		if v.Value == nil {
			return `""`
		}
		return strconv.Quote(v.Value.Value)
	case classfile.ConstantMemberRef:
		m := v.Member()
		return m.Class.ClassName() + "." + nameAndType(m.NameAndType)
	case *classfile.ConstantNameAndTypeInfo:
		return nameAndType(v)
	case *classfile.ConstantMethodHandleInfo:
		kind, ok := handleKinds[v.Kind]
		if !ok {
			kind = fmt.Sprintf("kind%d", v.Kind)
		}
		return kind + " " + Constant(v.Reference)
	case *classfile.ConstantMethodTypeInfo:
		return utf8(v.Descriptor)
	case *classfile.ConstantDynamicInfo:
		return fmt.Sprintf("#%d:%s", v.BootstrapMethodAttrIndex, nameAndType(v.NameAndType))
	case *classfile.ConstantInvokeDynamicInfo:
		return fmt.Sprintf("#%d:%s", v.BootstrapMethodAttrIndex, nameAndType(v.NameAndType))
	case *classfile.ConstantModuleInfo:
		return utf8(v.Name)
	case *classfile.ConstantPackageInfo:
		return utf8(v.Name)
	}
	return e.Tag().String()
}

func nameAndType(nt *classfile.ConstantNameAndTypeInfo) string {
	if nt == nil {
		return ""
	}
	return utf8(nt.Name) + ":" + utf8(nt.Descriptor)
}

func utf8(u *classfile.ConstantUtf8Info) string {
	if u == nil {
		return ""
	}
	return u.Value
}

// formatFloat appends suffix to finite values only.
func formatFloat(v float64, bits int, suffix string) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(v, 'g', -1, bits) + suffix
}
