package classfile

import (
	"fmt"
	"math"
	"reflect"

	"github.com/Col-E/CAFED00D-sub000/classfile/internal/binary"
)

// ConstantPoolEntry is one slot of the constant pool. Cross references between
// entries are direct pointers once the pool is loaded.
type ConstantPoolEntry interface {
	Tag() ConstantTag
	// Index is the entry's slot in its pool, or 0 when it has not been added.
	Index() int
	setIndex(int)
}

type entryIndex struct {
	index int
}

func (e *entryIndex) Index() int     { return e.index }
func (e *entryIndex) setIndex(i int) { e.index = i }

type ConstantUtf8Info struct {
	entryIndex
	Value string
	// raw holds the bytes read from the class file so that text which does
	// not survive modified UTF-8 decoding is written back untouched.
	raw []byte
}

func (c *ConstantUtf8Info) Tag() ConstantTag { return ConstantUtf8 }

func (c *ConstantUtf8Info) encoded() []byte {
	if c.raw != nil && decodeModifiedUtf8(c.raw) == c.Value {
		return c.raw
	}
	return encodeModifiedUtf8(c.Value)
}

type ConstantIntegerInfo struct {
	entryIndex
	Value int32
}

func (c *ConstantIntegerInfo) Tag() ConstantTag { return ConstantInteger }

type ConstantFloatInfo struct {
	entryIndex
	Value float32
}

func (c *ConstantFloatInfo) Tag() ConstantTag { return ConstantFloat }

type ConstantLongInfo struct {
	entryIndex
	Value int64
}

func (c *ConstantLongInfo) Tag() ConstantTag { return ConstantLong }

type ConstantDoubleInfo struct {
	entryIndex
	Value float64
}

func (c *ConstantDoubleInfo) Tag() ConstantTag { return ConstantDouble }

type ConstantClassInfo struct {
	entryIndex
	Name *ConstantUtf8Info
}

func (c *ConstantClassInfo) Tag() ConstantTag { return ConstantClass }

// ClassName returns the internal name, or "" for an unresolved entry.
func (c *ConstantClassInfo) ClassName() string {
	if c == nil || c.Name == nil {
		return ""
	}
	return c.Name.Value
}

type ConstantStringInfo struct {
	entryIndex
	Value *ConstantUtf8Info
}

func (c *ConstantStringInfo) Tag() ConstantTag { return ConstantString }

// MemberRef is the shared shape of field, method and interface method refs.
type MemberRef struct {
	Class       *ConstantClassInfo
	NameAndType *ConstantNameAndTypeInfo
}

func (m *MemberRef) Member() *MemberRef { return m }

// ConstantMemberRef is implemented by the three member reference entries.
type ConstantMemberRef interface {
	ConstantPoolEntry
	Member() *MemberRef
}

type ConstantFieldrefInfo struct {
	entryIndex
	MemberRef
}

func (c *ConstantFieldrefInfo) Tag() ConstantTag { return ConstantFieldref }

type ConstantMethodrefInfo struct {
	entryIndex
	MemberRef
}

func (c *ConstantMethodrefInfo) Tag() ConstantTag { return ConstantMethodref }

type ConstantInterfaceMethodrefInfo struct {
	entryIndex
	MemberRef
}

func (c *ConstantInterfaceMethodrefInfo) Tag() ConstantTag { return ConstantInterfaceMethodref }

type ConstantNameAndTypeInfo struct {
	entryIndex
	Name       *ConstantUtf8Info
	Descriptor *ConstantUtf8Info
}

func (c *ConstantNameAndTypeInfo) Tag() ConstantTag { return ConstantNameAndType }

type ConstantMethodHandleInfo struct {
	entryIndex
	Kind      MethodHandleKind
	Reference ConstantMemberRef
}

func (c *ConstantMethodHandleInfo) Tag() ConstantTag { return ConstantMethodHandle }

type ConstantMethodTypeInfo struct {
	entryIndex
	Descriptor *ConstantUtf8Info
}

func (c *ConstantMethodTypeInfo) Tag() ConstantTag { return ConstantMethodType }

type ConstantDynamicInfo struct {
	entryIndex
	BootstrapMethodAttrIndex uint16
	NameAndType              *ConstantNameAndTypeInfo
}

func (c *ConstantDynamicInfo) Tag() ConstantTag { return ConstantDynamic }

type ConstantInvokeDynamicInfo struct {
	entryIndex
	BootstrapMethodAttrIndex uint16
	NameAndType              *ConstantNameAndTypeInfo
}

func (c *ConstantInvokeDynamicInfo) Tag() ConstantTag { return ConstantInvokeDynamic }

type ConstantModuleInfo struct {
	entryIndex
	Name *ConstantUtf8Info
}

func (c *ConstantModuleInfo) Tag() ConstantTag { return ConstantModule }

type ConstantPackageInfo struct {
	entryIndex
	Name *ConstantUtf8Info
}

func (c *ConstantPackageInfo) Tag() ConstantTag { return ConstantPackage }

// ConstantPool is the 1-indexed constant pool table. Slot 0 and the slot
// following each long or double are always empty.
//
// The pool is not synchronized; it must not be mutated while another
// goroutine decodes or encodes against it.
type ConstantPool struct {
	entries []ConstantPoolEntry
	lookup  map[string]int
}

// NewConstantPool creates an empty pool.
func NewConstantPool() *ConstantPool {
	return &ConstantPool{
		entries: []ConstantPoolEntry{nil},
		lookup:  make(map[string]int),
	}
}

// Count returns the constant_pool_count value: the highest index plus one.
func (cp *ConstantPool) Count() int {
	return len(cp.entries)
}

// Entries returns the populated slots in index order.
func (cp *ConstantPool) Entries() []ConstantPoolEntry {
	out := make([]ConstantPoolEntry, 0, len(cp.entries))
	for _, e := range cp.entries {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}

// Get returns the entry at index. An index of 0, past the end, or naming the
// second slot of a wide entry is an out-of-bounds error.
func (cp *ConstantPool) Get(index int) (ConstantPoolEntry, error) {
	if index <= 0 || index >= len(cp.entries) {
		return nil, outOfBounds(index, len(cp.entries))
	}
	e := cp.entries[index]
	if e == nil {
		return nil, &Error{
			Phase:  PhaseDecode,
			Kind:   KindOutOfBounds,
			Offset: -1,
			Index:  index,
			Detail: "slot is the upper half of a wide entry",
		}
	}
	return e, nil
}

// Entry returns the entry at index as a T. Out-of-bounds indices and entries
// of the wrong kind produce distinct error kinds.
func Entry[T ConstantPoolEntry](cp *ConstantPool, index int) (T, error) {
	var zero T
	e, err := cp.Get(index)
	if err != nil {
		return zero, err
	}
	v, ok := e.(T)
	if !ok {
		return zero, &Error{
			Phase:    PhaseDecode,
			Kind:     KindTypeMismatch,
			Offset:   -1,
			Index:    index,
			Expected: reflect.TypeOf((*T)(nil)).Elem().String(),
			Actual:   e.Tag().String(),
		}
	}
	return v, nil
}

// OptionalEntry is Entry with index 0 meaning "absent".
func OptionalEntry[T ConstantPoolEntry](cp *ConstantPool, index int) (T, error) {
	var zero T
	if index == 0 {
		return zero, nil
	}
	return Entry[T](cp, index)
}

func outOfBounds(index, count int) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindOutOfBounds,
		Offset: -1,
		Index:  index,
		Detail: fmt.Sprintf("pool has %d slots", count),
	}
}

// IndexOf returns the index of e, or of an entry equal to it by value.
// It returns 0 when no such entry exists.
func (cp *ConstantPool) IndexOf(e ConstantPoolEntry) int {
	if e == nil {
		return 0
	}
	if idx := e.Index(); idx > 0 && idx < len(cp.entries) && cp.entries[idx] == e {
		return idx
	}
	return cp.lookup[entryKey(e)]
}

// Add appends e and the entries it references, reusing equal entries that
// are already present. It returns the index that represents e.
func (cp *ConstantPool) Add(e ConstantPoolEntry) int {
	if idx := cp.IndexOf(e); idx != 0 {
		return idx
	}
	for _, dep := range entryDependencies(e) {
		cp.Add(dep)
	}
	idx := len(cp.entries)
	cp.entries = append(cp.entries, e)
	if e.Tag().IsWide() {
		cp.entries = append(cp.entries, nil)
	}
	e.setIndex(idx)
	cp.lookup[entryKey(e)] = idx
	return idx
}

func intern[T ConstantPoolEntry](cp *ConstantPool, e T) T {
	return cp.entries[cp.Add(e)].(T)
}

func (cp *ConstantPool) Utf8(s string) *ConstantUtf8Info {
	return intern(cp, &ConstantUtf8Info{Value: s})
}

func (cp *ConstantPool) Integer(v int32) *ConstantIntegerInfo {
	return intern(cp, &ConstantIntegerInfo{Value: v})
}

func (cp *ConstantPool) Float(v float32) *ConstantFloatInfo {
	return intern(cp, &ConstantFloatInfo{Value: v})
}

func (cp *ConstantPool) Long(v int64) *ConstantLongInfo {
	return intern(cp, &ConstantLongInfo{Value: v})
}

func (cp *ConstantPool) Double(v float64) *ConstantDoubleInfo {
	return intern(cp, &ConstantDoubleInfo{Value: v})
}

func (cp *ConstantPool) Class(name string) *ConstantClassInfo {
	return intern(cp, &ConstantClassInfo{Name: cp.Utf8(name)})
}

func (cp *ConstantPool) String(s string) *ConstantStringInfo {
	return intern(cp, &ConstantStringInfo{Value: cp.Utf8(s)})
}

func (cp *ConstantPool) NameAndType(name, descriptor string) *ConstantNameAndTypeInfo {
	return intern(cp, &ConstantNameAndTypeInfo{Name: cp.Utf8(name), Descriptor: cp.Utf8(descriptor)})
}

func (cp *ConstantPool) FieldRef(owner, name, descriptor string) *ConstantFieldrefInfo {
	return intern(cp, &ConstantFieldrefInfo{MemberRef: cp.memberRef(owner, name, descriptor)})
}

func (cp *ConstantPool) MethodRef(owner, name, descriptor string) *ConstantMethodrefInfo {
	return intern(cp, &ConstantMethodrefInfo{MemberRef: cp.memberRef(owner, name, descriptor)})
}

func (cp *ConstantPool) InterfaceMethodRef(owner, name, descriptor string) *ConstantInterfaceMethodrefInfo {
	return intern(cp, &ConstantInterfaceMethodrefInfo{MemberRef: cp.memberRef(owner, name, descriptor)})
}

func (cp *ConstantPool) MethodType(descriptor string) *ConstantMethodTypeInfo {
	return intern(cp, &ConstantMethodTypeInfo{Descriptor: cp.Utf8(descriptor)})
}

func (cp *ConstantPool) MethodHandle(kind MethodHandleKind, ref ConstantMemberRef) *ConstantMethodHandleInfo {
	return intern(cp, &ConstantMethodHandleInfo{Kind: kind, Reference: ref})
}

func (cp *ConstantPool) Module(name string) *ConstantModuleInfo {
	return intern(cp, &ConstantModuleInfo{Name: cp.Utf8(name)})
}

func (cp *ConstantPool) Package(name string) *ConstantPackageInfo {
	return intern(cp, &ConstantPackageInfo{Name: cp.Utf8(name)})
}

func (cp *ConstantPool) memberRef(owner, name, descriptor string) MemberRef {
	return MemberRef{Class: cp.Class(owner), NameAndType: cp.NameAndType(name, descriptor)}
}

// GetUtf8 returns the text at index, or "" when index is not a Utf8 entry.
func (cp *ConstantPool) GetUtf8(index int) string {
	if e, err := Entry[*ConstantUtf8Info](cp, index); err == nil {
		return e.Value
	}
	return ""
}

// GetClassName returns the internal class name at index, or "".
func (cp *ConstantPool) GetClassName(index int) string {
	if e, err := Entry[*ConstantClassInfo](cp, index); err == nil {
		return e.ClassName()
	}
	return ""
}

func utf8Value(u *ConstantUtf8Info) string {
	if u == nil {
		return ""
	}
	return u.Value
}

func entryKey(e ConstantPoolEntry) string {
	switch v := e.(type) {
	case *ConstantUtf8Info:
		return "1:" + v.Value
	case *ConstantIntegerInfo:
		return fmt.Sprintf("3:%d", v.Value)
	case *ConstantFloatInfo:
		return fmt.Sprintf("4:%08x", math.Float32bits(v.Value))
	case *ConstantLongInfo:
		return fmt.Sprintf("5:%d", v.Value)
	case *ConstantDoubleInfo:
		return fmt.Sprintf("6:%016x", math.Float64bits(v.Value))
	case *ConstantClassInfo:
		return "7:" + utf8Value(v.Name)
	case *ConstantStringInfo:
		return "8:" + utf8Value(v.Value)
	case *ConstantFieldrefInfo:
		return "9:" + memberKey(&v.MemberRef)
	case *ConstantMethodrefInfo:
		return "10:" + memberKey(&v.MemberRef)
	case *ConstantInterfaceMethodrefInfo:
		return "11:" + memberKey(&v.MemberRef)
	case *ConstantNameAndTypeInfo:
		return nameTypeKey(v)
	case *ConstantMethodHandleInfo:
		ref := ""
		if v.Reference != nil {
			ref = entryKey(v.Reference)
		}
		return fmt.Sprintf("15:%d:%s", v.Kind, ref)
	case *ConstantMethodTypeInfo:
		return "16:" + utf8Value(v.Descriptor)
	case *ConstantDynamicInfo:
		return fmt.Sprintf("17:%d:%s", v.BootstrapMethodAttrIndex, nameTypeKey(v.NameAndType))
	case *ConstantInvokeDynamicInfo:
		return fmt.Sprintf("18:%d:%s", v.BootstrapMethodAttrIndex, nameTypeKey(v.NameAndType))
	case *ConstantModuleInfo:
		return "19:" + utf8Value(v.Name)
	case *ConstantPackageInfo:
		return "20:" + utf8Value(v.Name)
	}
	return fmt.Sprintf("?:%p", e)
}

func memberKey(m *MemberRef) string {
	owner := ""
	if m.Class != nil {
		owner = m.Class.ClassName()
	}
	return owner + "." + nameTypeKey(m.NameAndType)
}

func nameTypeKey(nt *ConstantNameAndTypeInfo) string {
	if nt == nil {
		return "12:"
	}
	return "12:" + utf8Value(nt.Name) + ":" + utf8Value(nt.Descriptor)
}

// entryDependencies lists the entries e points at directly.
func entryDependencies(e ConstantPoolEntry) []ConstantPoolEntry {
	var deps []ConstantPoolEntry
	add := func(d ConstantPoolEntry) {
		if d != nil && !isNilEntry(d) {
			deps = append(deps, d)
		}
	}
	switch v := e.(type) {
	case *ConstantClassInfo:
		add(v.Name)
	case *ConstantStringInfo:
		add(v.Value)
	case *ConstantFieldrefInfo:
		add(v.Class)
		add(v.NameAndType)
	case *ConstantMethodrefInfo:
		add(v.Class)
		add(v.NameAndType)
	case *ConstantInterfaceMethodrefInfo:
		add(v.Class)
		add(v.NameAndType)
	case *ConstantNameAndTypeInfo:
		add(v.Name)
		add(v.Descriptor)
	case *ConstantMethodHandleInfo:
		add(v.Reference)
	case *ConstantMethodTypeInfo:
		add(v.Descriptor)
	case *ConstantDynamicInfo:
		add(v.NameAndType)
	case *ConstantInvokeDynamicInfo:
		add(v.NameAndType)
	case *ConstantModuleInfo:
		add(v.Name)
	case *ConstantPackageInfo:
		add(v.Name)
	}
	return deps
}

// isNilEntry catches typed nil pointers stored in the interface.
func isNilEntry(e ConstantPoolEntry) bool {
	if e == nil {
		return true
	}
	v := reflect.ValueOf(e)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// load reads count-1 entries in two passes. The first pass creates every
// entry with its inline data; the second rewinds and links the index fields
// to the entries created by the first pass, so forward references resolve
// without a fix-up table.
func (cp *ConstantPool) load(r *binary.Reader, count int) error {
	cp.entries = make([]ConstantPoolEntry, max(count, 1))
	cp.lookup = make(map[string]int, count)
	start := r.Position()

	for i := 1; i < count; i++ {
		offset := r.Offset()
		tag := ConstantTag(r.ReadU1())
		e := readEntryShell(r, tag)
		if err := r.Err(); err != nil {
			return readErr(offset, fmt.Sprintf("constant pool entry %d", i), err)
		}
		if e == nil {
			return structuralErr(offset, "unknown constant pool tag %d at index %d", tag, i)
		}
		e.setIndex(i)
		cp.entries[i] = e
		if tag.IsWide() {
			if i+1 >= count {
				return structuralErr(offset, "wide entry at index %d overflows pool of %d slots", i, count)
			}
			i++
		}
	}

	if err := r.Seek(start); err != nil {
		return readErr(r.Offset(), "constant pool", err)
	}
	for i := 1; i < count; i++ {
		offset := r.Offset()
		tag := ConstantTag(r.ReadU1())
		if err := cp.resolveEntry(r, cp.entries[i]); err != nil {
			if e, ok := err.(*Error); ok && e.Offset < 0 {
				e.Offset = offset
				e.Detail = fmt.Sprintf("resolving %s entry %d", tag, i)
			}
			return err
		}
		if tag.IsWide() {
			i++
		}
	}
	if err := r.Err(); err != nil {
		return readErr(r.Offset(), "constant pool", err)
	}

	for i := len(cp.entries) - 1; i > 0; i-- {
		if e := cp.entries[i]; e != nil {
			cp.lookup[entryKey(e)] = i
		}
	}
	return nil
}

// readEntryShell reads one entry's fixed-size fields after the tag. Index
// fields are consumed but left unresolved. It returns nil for unknown tags.
func readEntryShell(r *binary.Reader, tag ConstantTag) ConstantPoolEntry {
	switch tag {
	case ConstantUtf8:
		raw := r.ReadBytes(int(r.ReadU2()))
		return &ConstantUtf8Info{Value: decodeModifiedUtf8(raw), raw: raw}
	case ConstantInteger:
		return &ConstantIntegerInfo{Value: r.ReadS4()}
	case ConstantFloat:
		return &ConstantFloatInfo{Value: r.ReadF4()}
	case ConstantLong:
		return &ConstantLongInfo{Value: int64(r.ReadU8())}
	case ConstantDouble:
		return &ConstantDoubleInfo{Value: r.ReadF8()}
	case ConstantClass:
		r.Skip(2)
		return &ConstantClassInfo{}
	case ConstantString:
		r.Skip(2)
		return &ConstantStringInfo{}
	case ConstantFieldref:
		r.Skip(4)
		return &ConstantFieldrefInfo{}
	case ConstantMethodref:
		r.Skip(4)
		return &ConstantMethodrefInfo{}
	case ConstantInterfaceMethodref:
		r.Skip(4)
		return &ConstantInterfaceMethodrefInfo{}
	case ConstantNameAndType:
		r.Skip(4)
		return &ConstantNameAndTypeInfo{}
	case ConstantMethodHandle:
		kind := MethodHandleKind(r.ReadU1())
		r.Skip(2)
		return &ConstantMethodHandleInfo{Kind: kind}
	case ConstantMethodType:
		r.Skip(2)
		return &ConstantMethodTypeInfo{}
	case ConstantDynamic:
		bsm := r.ReadU2()
		r.Skip(2)
		return &ConstantDynamicInfo{BootstrapMethodAttrIndex: bsm}
	case ConstantInvokeDynamic:
		bsm := r.ReadU2()
		r.Skip(2)
		return &ConstantInvokeDynamicInfo{BootstrapMethodAttrIndex: bsm}
	case ConstantModule:
		r.Skip(2)
		return &ConstantModuleInfo{}
	case ConstantPackage:
		r.Skip(2)
		return &ConstantPackageInfo{}
	}
	return nil
}

// resolveEntry re-reads e's fields and links its index fields.
func (cp *ConstantPool) resolveEntry(r *binary.Reader, e ConstantPoolEntry) error {
	var err error
	switch v := e.(type) {
	case *ConstantUtf8Info:
		r.Skip(int(r.ReadU2()))
	case *ConstantIntegerInfo, *ConstantFloatInfo:
		r.Skip(4)
	case *ConstantLongInfo, *ConstantDoubleInfo:
		r.Skip(8)
	case *ConstantClassInfo:
		v.Name, err = Entry[*ConstantUtf8Info](cp, int(r.ReadU2()))
	case *ConstantStringInfo:
		v.Value, err = Entry[*ConstantUtf8Info](cp, int(r.ReadU2()))
	case *ConstantFieldrefInfo:
		err = cp.resolveMember(r, &v.MemberRef)
	case *ConstantMethodrefInfo:
		err = cp.resolveMember(r, &v.MemberRef)
	case *ConstantInterfaceMethodrefInfo:
		err = cp.resolveMember(r, &v.MemberRef)
	case *ConstantNameAndTypeInfo:
		if v.Name, err = Entry[*ConstantUtf8Info](cp, int(r.ReadU2())); err != nil {
			return err
		}
		v.Descriptor, err = Entry[*ConstantUtf8Info](cp, int(r.ReadU2()))
	case *ConstantMethodHandleInfo:
		r.Skip(1)
		v.Reference, err = Entry[ConstantMemberRef](cp, int(r.ReadU2()))
	case *ConstantMethodTypeInfo:
		v.Descriptor, err = Entry[*ConstantUtf8Info](cp, int(r.ReadU2()))
	case *ConstantDynamicInfo:
		r.Skip(2)
		v.NameAndType, err = Entry[*ConstantNameAndTypeInfo](cp, int(r.ReadU2()))
	case *ConstantInvokeDynamicInfo:
		r.Skip(2)
		v.NameAndType, err = Entry[*ConstantNameAndTypeInfo](cp, int(r.ReadU2()))
	case *ConstantModuleInfo:
		v.Name, err = Entry[*ConstantUtf8Info](cp, int(r.ReadU2()))
	case *ConstantPackageInfo:
		v.Name, err = Entry[*ConstantUtf8Info](cp, int(r.ReadU2()))
	}
	return err
}

func (cp *ConstantPool) resolveMember(r *binary.Reader, m *MemberRef) error {
	var err error
	if m.Class, err = Entry[*ConstantClassInfo](cp, int(r.ReadU2())); err != nil {
		return err
	}
	m.NameAndType, err = Entry[*ConstantNameAndTypeInfo](cp, int(r.ReadU2()))
	return err
}

// seal adds every entry reachable from the pool's own entries, so that a
// mutated model can be written with a complete pool.
func (cp *ConstantPool) seal() {
	for i := 1; i < len(cp.entries); i++ {
		if e := cp.entries[i]; e != nil {
			for _, dep := range entryDependencies(e) {
				cp.Add(dep)
			}
		}
	}
}

func (cp *ConstantPool) write(w *binary.Writer) error {
	cp.seal()
	if len(cp.entries) > math.MaxUint16 {
		return encodeErr("constant pool has %d slots, limit is %d", len(cp.entries), math.MaxUint16)
	}
	w.WriteU2(uint16(len(cp.entries)))
	for i := 1; i < len(cp.entries); i++ {
		e := cp.entries[i]
		if e == nil {
			continue
		}
		w.WriteU1(uint8(e.Tag()))
		switch v := e.(type) {
		case *ConstantUtf8Info:
			data := v.encoded()
			if len(data) > math.MaxUint16 {
				return encodeErr("utf8 entry %d is %d bytes, limit is %d", i, len(data), math.MaxUint16)
			}
			w.WriteU2(uint16(len(data)))
			w.WriteBytes(data)
		case *ConstantIntegerInfo:
			w.WriteU4(uint32(v.Value))
		case *ConstantFloatInfo:
			w.WriteF4(v.Value)
		case *ConstantLongInfo:
			w.WriteU8(uint64(v.Value))
		case *ConstantDoubleInfo:
			w.WriteF8(v.Value)
		case *ConstantClassInfo:
			w.WriteU2(cp.ref(v.Name))
		case *ConstantStringInfo:
			w.WriteU2(cp.ref(v.Value))
		case *ConstantFieldrefInfo:
			cp.writeMember(w, &v.MemberRef)
		case *ConstantMethodrefInfo:
			cp.writeMember(w, &v.MemberRef)
		case *ConstantInterfaceMethodrefInfo:
			cp.writeMember(w, &v.MemberRef)
		case *ConstantNameAndTypeInfo:
			w.WriteU2(cp.ref(v.Name))
			w.WriteU2(cp.ref(v.Descriptor))
		case *ConstantMethodHandleInfo:
			w.WriteU1(uint8(v.Kind))
			w.WriteU2(cp.ref(v.Reference))
		case *ConstantMethodTypeInfo:
			w.WriteU2(cp.ref(v.Descriptor))
		case *ConstantDynamicInfo:
			w.WriteU2(v.BootstrapMethodAttrIndex)
			w.WriteU2(cp.ref(v.NameAndType))
		case *ConstantInvokeDynamicInfo:
			w.WriteU2(v.BootstrapMethodAttrIndex)
			w.WriteU2(cp.ref(v.NameAndType))
		case *ConstantModuleInfo:
			w.WriteU2(cp.ref(v.Name))
		case *ConstantPackageInfo:
			w.WriteU2(cp.ref(v.Name))
		}
	}
	return nil
}

func (cp *ConstantPool) writeMember(w *binary.Writer, m *MemberRef) {
	w.WriteU2(cp.ref(m.Class))
	w.WriteU2(cp.ref(m.NameAndType))
}

// ref returns the index to write for e, adding it when missing. A nil entry
// is written as 0.
func (cp *ConstantPool) ref(e ConstantPoolEntry) uint16 {
	if e == nil || isNilEntry(e) {
		return 0
	}
	return uint16(cp.Add(e))
}
