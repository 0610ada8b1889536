package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/Col-E/CAFED00D-sub000/classfile"
)

// LineEncoder writes one tab separated record per line: the class header,
// then its supertypes, fields, methods and attributes.
type LineEncoder struct {
	w     io.Writer
	class *classfile.ClassFile
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(cf *classfile.ClassFile) error {
	e.class = cf
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	c := e.class

	fmt.Fprintf(&sb, "%s\t%s\t%s\t%d.%d\n",
		classKind(c),
		c.ClassName(),
		e.classModifiersStr(),
		c.MajorVersion,
		c.MinorVersion,
	)
	if super := c.SuperClassName(); super != "" {
		fmt.Fprintf(&sb, "extends\t%s\n", super)
	}
	for _, iface := range c.InterfaceNames() {
		fmt.Fprintf(&sb, "implements\t%s\n", iface)
	}

	for i := range c.Fields {
		f := &c.Fields[i]
		fmt.Fprintf(&sb, "field\t%s\t%s\t%s\t%s\n",
			f.NameString(),
			fieldTypeString(f.DescriptorString()),
			visibility(f.AccessFlags),
			joinOrDash(fieldModifiers(f)),
		)
	}

	for i := range c.Methods {
		m := &c.Methods[i]
		ret, params := e.signatureStrs(m.DescriptorString())
		fmt.Fprintf(&sb, "method\t%s\t%s\t%s\t%s\t%s\n",
			m.NameString(),
			ret,
			params,
			visibility(m.AccessFlags),
			joinOrDash(methodModifiers(m)),
		)
	}

	for _, a := range c.Attributes {
		fmt.Fprintf(&sb, "attribute\t%s\t%d\n", classfile.AttributeNameOf(a), a.Length())
	}

	return []byte(sb.String()), nil
}

func (e *LineEncoder) classModifiersStr() string {
	mods := append([]string{visibility(e.class.AccessFlags)}, classModifiers(e.class)...)
	return strings.Join(mods, ",")
}

// signatureStrs splits a method descriptor into its return type and a comma
// separated parameter list. An unparsable descriptor is returned whole.
func (e *LineEncoder) signatureStrs(desc string) (string, string) {
	md, err := classfile.ParseMethodDescriptor(desc)
	if err != nil {
		return desc, "-"
	}
	ret := "void"
	if md.ReturnType != nil {
		ret = md.ReturnType.String()
	}
	if len(md.Parameters) == 0 {
		return ret, "-"
	}
	parts := make([]string, len(md.Parameters))
	for i := range md.Parameters {
		parts[i] = md.Parameters[i].String()
	}
	return ret, strings.Join(parts, ",")
}
