package classfile

import (
	"encoding/binary"
	"math"
)

// poolBuilder assembles a raw constant pool. Entries are written in the
// order they are requested, so tests control every index.
type poolBuilder struct {
	data  []byte
	next  int
	utf8s map[string]int
}

func newPoolBuilder() *poolBuilder {
	return &poolBuilder{next: 1, utf8s: make(map[string]int)}
}

func (p *poolBuilder) entry(tag ConstantTag, payload ...byte) int {
	idx := p.next
	p.data = append(p.data, byte(tag))
	p.data = append(p.data, payload...)
	p.next++
	if tag.IsWide() {
		p.next++
	}
	return idx
}

func (p *poolBuilder) utf8(s string) int {
	if idx, ok := p.utf8s[s]; ok {
		return idx
	}
	data := encodeModifiedUtf8(s)
	idx := p.entry(ConstantUtf8, append(u2(len(data)), data...)...)
	p.utf8s[s] = idx
	return idx
}

func (p *poolBuilder) class(name string) int {
	return p.entry(ConstantClass, u2(p.utf8(name))...)
}

func (p *poolBuilder) nameAndType(name, desc string) int {
	n, d := p.utf8(name), p.utf8(desc)
	return p.entry(ConstantNameAndType, cat(u2(n), u2(d))...)
}

func (p *poolBuilder) methodRef(owner, name, desc string) int {
	c := p.class(owner)
	nt := p.nameAndType(name, desc)
	return p.entry(ConstantMethodref, cat(u2(c), u2(nt))...)
}

func (p *poolBuilder) fieldRef(owner, name, desc string) int {
	c := p.class(owner)
	nt := p.nameAndType(name, desc)
	return p.entry(ConstantFieldref, cat(u2(c), u2(nt))...)
}

func (p *poolBuilder) integer(v int32) int {
	return p.entry(ConstantInteger, u4(uint32(v))...)
}

func (p *poolBuilder) long(v int64) int {
	return p.entry(ConstantLong, cat(u4(uint32(uint64(v)>>32)), u4(uint32(v)))...)
}

func (p *poolBuilder) double(v float64) int {
	bits := math.Float64bits(v)
	return p.entry(ConstantDouble, cat(u4(uint32(bits>>32)), u4(uint32(bits)))...)
}

// bytes returns constant_pool_count followed by the entries.
func (p *poolBuilder) bytes() []byte {
	return append(u2(p.next), p.data...)
}

// rawClass is a class file laid out field by field.
type rawClass struct {
	minor, major uint16
	pool         *poolBuilder
	access       uint16
	this, super  int
	interfaces   []int
	fields       [][]byte
	methods      [][]byte
	attributes   [][]byte
}

func (c *rawClass) bytes() []byte {
	out := u4(Magic)
	out = append(out, u2(int(c.minor))...)
	out = append(out, u2(int(c.major))...)
	out = append(out, c.pool.bytes()...)
	out = append(out, u2(int(c.access))...)
	out = append(out, u2(c.this)...)
	out = append(out, u2(c.super)...)
	out = append(out, u2(len(c.interfaces))...)
	for _, i := range c.interfaces {
		out = append(out, u2(i)...)
	}
	out = append(out, u2(len(c.fields))...)
	for _, f := range c.fields {
		out = append(out, f...)
	}
	out = append(out, u2(len(c.methods))...)
	for _, m := range c.methods {
		out = append(out, m...)
	}
	out = append(out, u2(len(c.attributes))...)
	for _, a := range c.attributes {
		out = append(out, a...)
	}
	return out
}

// newRawClass creates a public class Test extending java/lang/Object.
func newRawClass(major, minor uint16) *rawClass {
	p := newPoolBuilder()
	c := &rawClass{major: major, minor: minor, pool: p, access: uint16(AccPublic | AccSuper)}
	c.this = p.class("Test")
	c.super = p.class("java/lang/Object")
	return c
}

func member(access, name, desc int, attrs ...[]byte) []byte {
	out := cat(u2(access), u2(name), u2(desc), u2(len(attrs)))
	for _, a := range attrs {
		out = append(out, a...)
	}
	return out
}

func attr(name int, payload []byte) []byte {
	return cat(u2(name), u4(uint32(len(payload))), payload)
}

// codePayload builds a Code attribute payload in the modern layout.
func codePayload(maxStack, maxLocals int, code []byte, attrs ...[]byte) []byte {
	out := cat(u2(maxStack), u2(maxLocals), u4(uint32(len(code))), code, u2(0), u2(len(attrs)))
	for _, a := range attrs {
		out = append(out, a...)
	}
	return out
}

func u2(v int) []byte {
	return binary.BigEndian.AppendUint16(nil, uint16(v))
}

func u4(v uint32) []byte {
	return binary.BigEndian.AppendUint32(nil, v)
}

func cat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// constructorClass is a class with one constructor calling super() and a
// line number table mapping pc 0 to line 1.
func constructorClass(major uint16) *rawClass {
	c := newRawClass(major, 0)
	p := c.pool
	init := p.methodRef("java/lang/Object", "<init>", "()V")
	code := cat([]byte{byte(OpAload0), byte(OpInvokespecial)}, u2(init), []byte{byte(OpReturn)})
	lnt := attr(p.utf8(AttrLineNumberTable), cat(u2(1), u2(0), u2(1)))
	c.methods = append(c.methods, member(int(AccPublic), p.utf8("<init>"), p.utf8("()V"),
		attr(p.utf8(AttrCode), codePayload(1, 1, code, lnt))))
	return c
}
