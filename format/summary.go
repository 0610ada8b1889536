package format

import "github.com/Col-E/CAFED00D-sub000/classfile"

// classSummary is the structured view shared by the JSON and CBOR encoders.
type classSummary struct {
	Name       string             `json:"name" cbor:"name"`
	SuperClass string             `json:"superClass,omitempty" cbor:"superClass,omitempty"`
	Interfaces []string           `json:"interfaces,omitempty" cbor:"interfaces,omitempty"`
	Visibility string             `json:"visibility" cbor:"visibility"`
	Kind       string             `json:"kind" cbor:"kind"`
	Modifiers  []string           `json:"modifiers,omitempty" cbor:"modifiers,omitempty"`
	Version    versionSummary     `json:"version" cbor:"version"`
	SourceFile string             `json:"sourceFile,omitempty" cbor:"sourceFile,omitempty"`
	PoolSize   int                `json:"constantPoolCount" cbor:"constantPoolCount"`
	Fields     []fieldSummary     `json:"fields,omitempty" cbor:"fields,omitempty"`
	Methods    []methodSummary    `json:"methods,omitempty" cbor:"methods,omitempty"`
	Attributes []attributeSummary `json:"attributes,omitempty" cbor:"attributes,omitempty"`
}

type versionSummary struct {
	Major uint16 `json:"major" cbor:"major"`
	Minor uint16 `json:"minor" cbor:"minor"`
}

type fieldSummary struct {
	Name       string             `json:"name" cbor:"name"`
	Descriptor string             `json:"descriptor" cbor:"descriptor"`
	Type       string             `json:"type" cbor:"type"`
	Visibility string             `json:"visibility" cbor:"visibility"`
	Modifiers  []string           `json:"modifiers,omitempty" cbor:"modifiers,omitempty"`
	Attributes []attributeSummary `json:"attributes,omitempty" cbor:"attributes,omitempty"`
}

type methodSummary struct {
	Name       string             `json:"name" cbor:"name"`
	Descriptor string             `json:"descriptor" cbor:"descriptor"`
	Visibility string             `json:"visibility" cbor:"visibility"`
	Modifiers  []string           `json:"modifiers,omitempty" cbor:"modifiers,omitempty"`
	Code       *codeSummary       `json:"code,omitempty" cbor:"code,omitempty"`
	Attributes []attributeSummary `json:"attributes,omitempty" cbor:"attributes,omitempty"`
}

type codeSummary struct {
	MaxStack          uint16 `json:"maxStack" cbor:"maxStack"`
	MaxLocals         uint16 `json:"maxLocals" cbor:"maxLocals"`
	Length            int    `json:"length" cbor:"length"`
	Instructions      int    `json:"instructions" cbor:"instructions"`
	ExceptionHandlers int    `json:"exceptionHandlers,omitempty" cbor:"exceptionHandlers,omitempty"`
}

type attributeSummary struct {
	Name   string `json:"name" cbor:"name"`
	Length int    `json:"length" cbor:"length"`
}

func summarize(cf *classfile.ClassFile) classSummary {
	s := classSummary{
		Name:       cf.ClassName(),
		SuperClass: cf.SuperClassName(),
		Interfaces: cf.InterfaceNames(),
		Visibility: visibility(cf.AccessFlags),
		Kind:       classKind(cf),
		Modifiers:  classModifiers(cf),
		Version: versionSummary{
			Major: cf.MajorVersion,
			Minor: cf.MinorVersion,
		},
		SourceFile: cf.SourceFile(),
		PoolSize:   cf.ConstantPool.Count(),
		Attributes: summarizeAttributes(cf.Attributes),
	}
	if len(s.Interfaces) == 0 {
		s.Interfaces = nil
	}
	for i := range cf.Fields {
		f := &cf.Fields[i]
		s.Fields = append(s.Fields, fieldSummary{
			Name:       f.NameString(),
			Descriptor: f.DescriptorString(),
			Type:       fieldTypeString(f.DescriptorString()),
			Visibility: visibility(f.AccessFlags),
			Modifiers:  fieldModifiers(f),
			Attributes: summarizeAttributes(f.Attributes),
		})
	}
	for i := range cf.Methods {
		m := &cf.Methods[i]
		ms := methodSummary{
			Name:       m.NameString(),
			Descriptor: m.DescriptorString(),
			Visibility: visibility(m.AccessFlags),
			Modifiers:  methodModifiers(m),
			Attributes: summarizeAttributes(m.Attributes),
		}
		if code := m.Code(); code != nil {
			ms.Code = &codeSummary{
				MaxStack:          code.MaxStack,
				MaxLocals:         code.MaxLocals,
				Length:            classfile.CodeLength(code.Instructions),
				Instructions:      len(code.Instructions),
				ExceptionHandlers: len(code.ExceptionTable),
			}
		}
		s.Methods = append(s.Methods, ms)
	}
	return s
}

func summarizeAttributes(attrs []classfile.Attribute) []attributeSummary {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]attributeSummary, len(attrs))
	for i, a := range attrs {
		out[i] = attributeSummary{Name: classfile.AttributeNameOf(a), Length: a.Length()}
	}
	return out
}
