package classfile

import (
	"fmt"
	"io"
	"math"

	"github.com/Col-E/CAFED00D-sub000/classfile/internal/binary"
	"go.uber.org/zap"
)

// decodeInstructions decodes a method's code array. base is the absolute
// offset of code[0] and is only used for diagnostics.
func decodeInstructions(code []byte, base int, cp *ConstantPool, opts *Options) ([]Instruction, error) {
	r := binary.NewReader(code)
	var insns []Instruction
	for r.Remaining() > 0 {
		pc := r.Position()
		op := Opcode(r.ReadU1())
		insn, err := decodeInstruction(r, op, pc, code, cp, opts)
		if err != nil {
			if e, ok := err.(*Error); ok && e.Offset < 0 {
				e.Offset = base + pc
			}
			return nil, err
		}
		if err := r.Err(); err != nil {
			return nil, readErr(base+pc, fmt.Sprintf("operands of %s", op), err)
		}
		insns = append(insns, insn)
	}
	return insns, nil
}

func decodeInstruction(r *binary.Reader, op Opcode, pc int, code []byte, cp *ConstantPool, opts *Options) (Instruction, error) {
	switch operandKinds[op] {
	case operandsNone:
		return &BasicInsn{Op: op}, nil
	case operandsByte:
		return &IntInsn{Op: op, Operand: int32(r.ReadS1())}, nil
	case operandsNewArray:
		return &IntInsn{Op: op, Operand: int32(r.ReadU1())}, nil
	case operandsShort:
		return &IntInsn{Op: op, Operand: int32(r.ReadS2())}, nil
	case operandsLocal:
		return &VarInsn{Op: op, Var: uint16(r.ReadU1())}, nil
	case operandsIinc:
		v := r.ReadU1()
		return &IincInsn{Var: uint16(v), Increment: int16(r.ReadS1())}, nil
	case operandsLdc:
		return decodeConstantInsn(cp, op, int(r.ReadU1()))
	case operandsCPRef:
		return decodeConstantInsn(cp, op, int(r.ReadU2()))
	case operandsBranch:
		return &BranchInsn{Op: op, Offset: int32(r.ReadS2())}, nil
	case operandsBranchWide:
		return &BranchInsn{Op: op, Offset: r.ReadS4()}, nil
	case operandsInvokeInterface:
		ref, err := Entry[ConstantMemberRef](cp, int(r.ReadU2()))
		if err != nil {
			return nil, err
		}
		count := r.ReadU1()
		r.Skip(1)
		return &InvokeInterfaceInsn{Ref: ref, Count: count}, nil
	case operandsInvokeDynamic:
		ref, err := Entry[*ConstantInvokeDynamicInfo](cp, int(r.ReadU2()))
		if err != nil {
			return nil, err
		}
		r.Skip(2)
		return &InvokeDynamicInsn{Ref: ref}, nil
	case operandsMultiANewArray:
		class, err := Entry[*ConstantClassInfo](cp, int(r.ReadU2()))
		if err != nil {
			return nil, err
		}
		return &MultiANewArrayInsn{Class: class, Dimensions: r.ReadU1()}, nil
	case operandsTableSwitch:
		return decodeTableSwitch(r, pc)
	case operandsLookupSwitch:
		return decodeLookupSwitch(r, pc)
	case operandsWide:
		return decodeWide(r)
	}

	if opts.InstructionFallback == nil {
		return nil, structuralErr(-1, "unknown opcode 0x%02x", uint8(op))
	}
	insn, err := opts.InstructionFallback(op, code, pc)
	if err != nil {
		return nil, fmt.Errorf("fallback for opcode 0x%02x: %w", uint8(op), err)
	}
	if insn == nil {
		return nil, structuralErr(-1, "fallback returned no instruction for opcode 0x%02x", uint8(op))
	}
	size := insn.Size(pc)
	if size < 1 || size > len(code)-pc {
		return nil, structuralErr(-1, "fallback for opcode 0x%02x declared size %d", uint8(op), size)
	}
	opts.logger().Debug("decoded opcode with fallback",
		zap.Uint8("opcode", uint8(op)),
		zap.Int("pc", pc),
		zap.Int("size", size))
	r.Skip(size - 1)
	return insn, nil
}

func decodeConstantInsn(cp *ConstantPool, op Opcode, index int) (Instruction, error) {
	e, err := cp.Get(index)
	if err != nil {
		return nil, err
	}
	if !constantFits(op, e) {
		return nil, &Error{
			Phase:    PhaseDecode,
			Kind:     KindTypeMismatch,
			Offset:   -1,
			Index:    index,
			Detail:   "operand of " + op.String(),
			Expected: constantExpectation(op),
			Actual:   e.Tag().String(),
		}
	}
	return &ConstantInsn{Op: op, Ref: e}, nil
}

// constantFits reports whether e is a legal operand for op.
func constantFits(op Opcode, e ConstantPoolEntry) bool {
	switch op {
	case OpLdc, OpLdcW:
		switch e.Tag() {
		case ConstantInteger, ConstantFloat, ConstantString, ConstantClass,
			ConstantMethodType, ConstantMethodHandle, ConstantDynamic:
			return true
		}
		return false
	case OpLdc2W:
		switch e.Tag() {
		case ConstantLong, ConstantDouble, ConstantDynamic:
			return true
		}
		return false
	case OpGetstatic, OpPutstatic, OpGetfield, OpPutfield:
		return e.Tag() == ConstantFieldref
	case OpInvokevirtual:
		return e.Tag() == ConstantMethodref
	case OpInvokespecial, OpInvokestatic:
		return e.Tag() == ConstantMethodref || e.Tag() == ConstantInterfaceMethodref
	case OpNew, OpAnewarray, OpCheckcast, OpInstanceof:
		return e.Tag() == ConstantClass
	}
	return true
}

func constantExpectation(op Opcode) string {
	switch op {
	case OpLdc, OpLdcW:
		return "loadable constant"
	case OpLdc2W:
		return "Long, Double or Dynamic"
	case OpGetstatic, OpPutstatic, OpGetfield, OpPutfield:
		return "Fieldref"
	case OpNew, OpAnewarray, OpCheckcast, OpInstanceof:
		return "Class"
	}
	return "Methodref"
}

func decodeTableSwitch(r *binary.Reader, pc int) (Instruction, error) {
	r.Skip(switchPadding(pc))
	insn := &TableSwitchInsn{Default: r.ReadS4(), Low: r.ReadS4(), High: r.ReadS4()}
	if r.Err() != nil {
		return insn, nil
	}
	if insn.Low > insn.High {
		return nil, malformedErr(-1, "tableswitch low %d > high %d", insn.Low, insn.High)
	}
	n := int64(insn.High) - int64(insn.Low) + 1
	if n > int64(r.Remaining()/4) {
		return nil, readErr(r.Offset(), "tableswitch offsets", fmt.Errorf("%d entries: %w", n, io.ErrUnexpectedEOF))
	}
	insn.Offsets = make([]int32, n)
	for i := range insn.Offsets {
		insn.Offsets[i] = r.ReadS4()
	}
	return insn, nil
}

func decodeLookupSwitch(r *binary.Reader, pc int) (Instruction, error) {
	r.Skip(switchPadding(pc))
	insn := &LookupSwitchInsn{Default: r.ReadS4()}
	n := r.ReadS4()
	if r.Err() != nil {
		return insn, nil
	}
	if n < 0 {
		return nil, malformedErr(-1, "lookupswitch has negative pair count %d", n)
	}
	if int(n) > r.Remaining()/8 {
		return nil, readErr(r.Offset(), "lookupswitch pairs", fmt.Errorf("%d pairs: %w", n, io.ErrUnexpectedEOF))
	}
	insn.Keys = make([]int32, n)
	insn.Offsets = make([]int32, n)
	for i := range insn.Keys {
		insn.Keys[i] = r.ReadS4()
		insn.Offsets[i] = r.ReadS4()
	}
	return insn, nil
}

func decodeWide(r *binary.Reader) (Instruction, error) {
	op := Opcode(r.ReadU1())
	switch {
	case op == OpIinc:
		v := r.ReadU2()
		return &WideInsn{Inner: &IincInsn{Var: v, Increment: r.ReadS2()}}, nil
	case operandKinds[op] == operandsLocal:
		return &WideInsn{Inner: &VarInsn{Op: op, Var: r.ReadU2()}}, nil
	}
	if r.Err() != nil {
		return &BasicInsn{Op: OpWide}, nil
	}
	return nil, structuralErr(-1, "wide cannot modify %s", op)
}

// encodeInstructions writes insns starting at code offset 0. Each
// instruction must emit exactly Size(pc) bytes.
func encodeInstructions(w *binary.Writer, cp *ConstantPool, insns []Instruction) error {
	start := w.Len()
	for _, insn := range insns {
		pc := w.Len() - start
		if err := encodeInstruction(w, cp, insn, pc); err != nil {
			return err
		}
		if got, want := w.Len()-start-pc, insn.Size(pc); got != want {
			return invariantErr(pc, want, got, "%s wrote a different size than it declared", insn.Opcode())
		}
	}
	return nil
}

func encodeInstruction(w *binary.Writer, cp *ConstantPool, insn Instruction, pc int) error {
	w.WriteU1(uint8(insn.Opcode()))
	switch i := insn.(type) {
	case *BasicInsn:
	case *IntInsn:
		switch i.Op {
		case OpSipush:
			if i.Operand < math.MinInt16 || i.Operand > math.MaxInt16 {
				return encodeErr("sipush operand %d out of range", i.Operand)
			}
			w.WriteU2(uint16(int16(i.Operand)))
		case OpBipush:
			if i.Operand < math.MinInt8 || i.Operand > math.MaxInt8 {
				return encodeErr("bipush operand %d out of range", i.Operand)
			}
			w.WriteU1(uint8(int8(i.Operand)))
		default:
			if i.Operand < 0 || i.Operand > math.MaxUint8 {
				return encodeErr("%s operand %d out of range", i.Op, i.Operand)
			}
			w.WriteU1(uint8(i.Operand))
		}
	case *VarInsn:
		if i.Var > math.MaxUint8 {
			return encodeErr("%s local %d needs a wide prefix", i.Op, i.Var)
		}
		w.WriteU1(uint8(i.Var))
	case *IincInsn:
		if i.Var > math.MaxUint8 || i.Increment < math.MinInt8 || i.Increment > math.MaxInt8 {
			return encodeErr("iinc %d %d needs a wide prefix", i.Var, i.Increment)
		}
		w.WriteU1(uint8(i.Var))
		w.WriteU1(uint8(int8(i.Increment)))
	case *WideInsn:
		switch inner := i.Inner.(type) {
		case *IincInsn:
			w.WriteU1(uint8(OpIinc))
			w.WriteU2(inner.Var)
			w.WriteU2(uint16(inner.Increment))
		case *VarInsn:
			w.WriteU1(uint8(inner.Op))
			w.WriteU2(inner.Var)
		default:
			return encodeErr("wide cannot wrap %T", i.Inner)
		}
	case *ConstantInsn:
		index := cp.ref(i.Ref)
		if i.Op == OpLdc {
			if index > math.MaxUint8 {
				return encodeErr("ldc operand index %d does not fit in a byte", index)
			}
			w.WriteU1(uint8(index))
		} else {
			w.WriteU2(index)
		}
	case *InvokeInterfaceInsn:
		w.WriteU2(cp.ref(i.Ref))
		w.WriteU1(i.Count)
		w.WriteU1(0)
	case *InvokeDynamicInsn:
		w.WriteU2(cp.ref(i.Ref))
		w.WriteU2(0)
	case *BranchInsn:
		if i.Size(pc) == 5 {
			w.WriteU4(uint32(i.Offset))
		} else {
			if i.Offset < math.MinInt16 || i.Offset > math.MaxInt16 {
				return encodeErr("%s offset %d needs a wide branch", i.Op, i.Offset)
			}
			w.WriteU2(uint16(int16(i.Offset)))
		}
	case *TableSwitchInsn:
		if int64(i.High)-int64(i.Low)+1 != int64(len(i.Offsets)) {
			return invariantErr(pc, int64(i.High)-int64(i.Low)+1, len(i.Offsets), "tableswitch offset count")
		}
		writePadding(w, pc)
		w.WriteU4(uint32(i.Default))
		w.WriteU4(uint32(i.Low))
		w.WriteU4(uint32(i.High))
		for _, off := range i.Offsets {
			w.WriteU4(uint32(off))
		}
	case *LookupSwitchInsn:
		if len(i.Keys) != len(i.Offsets) {
			return invariantErr(pc, len(i.Keys), len(i.Offsets), "lookupswitch keys and offsets")
		}
		writePadding(w, pc)
		w.WriteU4(uint32(i.Default))
		w.WriteU4(uint32(len(i.Keys)))
		for k, key := range i.Keys {
			w.WriteU4(uint32(key))
			w.WriteU4(uint32(i.Offsets[k]))
		}
	case *MultiANewArrayInsn:
		w.WriteU2(cp.ref(i.Class))
		w.WriteU1(i.Dimensions)
	case *OpaqueInsn:
		w.WriteBytes(i.Operands)
	}
	return nil
}

func writePadding(w *binary.Writer, pc int) {
	for n := switchPadding(pc); n > 0; n-- {
		w.WriteU1(0)
	}
}
