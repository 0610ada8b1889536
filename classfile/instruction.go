package classfile

// Instruction is one decoded bytecode instruction. The set of implementations
// is closed; see the *Insn types in this file.
type Instruction interface {
	Opcode() Opcode
	// Size is the encoded length in bytes when the opcode is emitted at pc.
	// Only the switch instructions depend on pc.
	Size(pc int) int
	instruction()
}

// InstructionFallback decodes an opcode the codec does not know. code is the
// method's whole code array and pc the offset of the opcode byte. The returned
// instruction's Size(pc) determines how many bytes are consumed.
type InstructionFallback func(op Opcode, code []byte, pc int) (Instruction, error)

// BasicInsn has no operands.
type BasicInsn struct {
	Op Opcode
}

// IntInsn is bipush, sipush or newarray.
type IntInsn struct {
	Op      Opcode
	Operand int32
}

// VarInsn loads, stores or returns through a local variable slot.
type VarInsn struct {
	Op  Opcode
	Var uint16
}

type IincInsn struct {
	Var       uint16
	Increment int16
}

// WideInsn wraps a VarInsn or IincInsn whose operands are encoded as u2.
type WideInsn struct {
	Inner Instruction
}

// ConstantInsn references a single pool entry: the ldc family, field access,
// invokevirtual, invokespecial, invokestatic, new, anewarray, checkcast and
// instanceof.
type ConstantInsn struct {
	Op  Opcode
	Ref ConstantPoolEntry
}

type InvokeInterfaceInsn struct {
	Ref   ConstantMemberRef
	Count uint8
}

type InvokeDynamicInsn struct {
	Ref *ConstantInvokeDynamicInfo
}

// BranchInsn holds a jump offset relative to its own opcode byte.
type BranchInsn struct {
	Op     Opcode
	Offset int32
}

// TableSwitchInsn offsets are relative to the opcode byte.
type TableSwitchInsn struct {
	Default int32
	Low     int32
	High    int32
	Offsets []int32
}

// LookupSwitchInsn offsets are relative to the opcode byte. Keys and Offsets
// have the same length.
type LookupSwitchInsn struct {
	Default int32
	Keys    []int32
	Offsets []int32
}

type MultiANewArrayInsn struct {
	Class      *ConstantClassInfo
	Dimensions uint8
}

// OpaqueInsn carries an opcode unknown to the codec with its raw operands.
// It is what an InstructionFallback typically returns.
type OpaqueInsn struct {
	Op       Opcode
	Operands []byte
}

func (i *BasicInsn) Opcode() Opcode           { return i.Op }
func (i *IntInsn) Opcode() Opcode             { return i.Op }
func (i *VarInsn) Opcode() Opcode             { return i.Op }
func (i *IincInsn) Opcode() Opcode            { return OpIinc }
func (i *WideInsn) Opcode() Opcode            { return OpWide }
func (i *ConstantInsn) Opcode() Opcode        { return i.Op }
func (i *InvokeInterfaceInsn) Opcode() Opcode { return OpInvokeinterface }
func (i *InvokeDynamicInsn) Opcode() Opcode   { return OpInvokedynamic }
func (i *BranchInsn) Opcode() Opcode          { return i.Op }
func (i *TableSwitchInsn) Opcode() Opcode     { return OpTableswitch }
func (i *LookupSwitchInsn) Opcode() Opcode    { return OpLookupswitch }
func (i *MultiANewArrayInsn) Opcode() Opcode  { return OpMultianewarray }
func (i *OpaqueInsn) Opcode() Opcode          { return i.Op }

func (i *BasicInsn) Size(int) int { return 1 }

func (i *IntInsn) Size(int) int {
	if i.Op == OpSipush {
		return 3
	}
	return 2
}

func (i *VarInsn) Size(int) int  { return 2 }
func (i *IincInsn) Size(int) int { return 3 }

func (i *WideInsn) Size(int) int {
	if _, ok := i.Inner.(*IincInsn); ok {
		return 6
	}
	return 4
}

func (i *ConstantInsn) Size(int) int {
	if i.Op == OpLdc {
		return 2
	}
	return 3
}

func (i *InvokeInterfaceInsn) Size(int) int { return 5 }
func (i *InvokeDynamicInsn) Size(int) int   { return 5 }

func (i *BranchInsn) Size(int) int {
	if i.Op == OpGotoW || i.Op == OpJsrW {
		return 5
	}
	return 3
}

func (i *TableSwitchInsn) Size(pc int) int {
	return 1 + switchPadding(pc) + 12 + 4*len(i.Offsets)
}

func (i *LookupSwitchInsn) Size(pc int) int {
	return 1 + switchPadding(pc) + 8 + 8*len(i.Keys)
}

func (i *MultiANewArrayInsn) Size(int) int { return 4 }
func (i *OpaqueInsn) Size(int) int         { return 1 + len(i.Operands) }

func (*BasicInsn) instruction()           {}
func (*IntInsn) instruction()             {}
func (*VarInsn) instruction()             {}
func (*IincInsn) instruction()            {}
func (*WideInsn) instruction()            {}
func (*ConstantInsn) instruction()        {}
func (*InvokeInterfaceInsn) instruction() {}
func (*InvokeDynamicInsn) instruction()   {}
func (*BranchInsn) instruction()          {}
func (*TableSwitchInsn) instruction()     {}
func (*LookupSwitchInsn) instruction()    {}
func (*MultiANewArrayInsn) instruction()  {}
func (*OpaqueInsn) instruction()          {}

// switchPadding is the number of zero bytes between a switch opcode at pc and
// its 4-byte aligned operands.
func switchPadding(pc int) int {
	return 3 - pc%4
}

// InstructionOffsets returns the code offset of each instruction.
func InstructionOffsets(insns []Instruction) []int {
	offsets := make([]int, len(insns))
	pc := 0
	for i, insn := range insns {
		offsets[i] = pc
		pc += insn.Size(pc)
	}
	return offsets
}

// CodeLength is the length of the code array the instructions encode to.
func CodeLength(insns []Instruction) int {
	pc := 0
	for _, insn := range insns {
		pc += insn.Size(pc)
	}
	return pc
}

// BranchTargets returns the absolute targets of a branch or switch placed at
// pc. The default target of a switch comes first. Other instructions have no
// targets.
func BranchTargets(insn Instruction, pc int) []int {
	switch i := insn.(type) {
	case *BranchInsn:
		return []int{pc + int(i.Offset)}
	case *TableSwitchInsn:
		targets := make([]int, 0, len(i.Offsets)+1)
		targets = append(targets, pc+int(i.Default))
		for _, off := range i.Offsets {
			targets = append(targets, pc+int(off))
		}
		return targets
	case *LookupSwitchInsn:
		targets := make([]int, 0, len(i.Offsets)+1)
		targets = append(targets, pc+int(i.Default))
		for _, off := range i.Offsets {
			targets = append(targets, pc+int(off))
		}
		return targets
	}
	return nil
}
