package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/Col-E/CAFED00D-sub000/classfile"
)

var arrayTypes = map[int32]string{
	4: "boolean", 5: "char", 6: "float", 7: "double",
	8: "byte", 9: "short", 10: "int", 11: "long",
}

// Disassemble writes a bytecode listing of the methods in cf. When name is
// not empty only methods with that name are listed.
func Disassemble(w io.Writer, cf *classfile.ClassFile, name string) error {
	found := false
	for i := range cf.Methods {
		m := &cf.Methods[i]
		if name != "" && m.NameString() != name {
			continue
		}
		if found {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		found = true
		if err := WriteMethod(w, m); err != nil {
			return err
		}
	}
	if !found && name != "" {
		return fmt.Errorf("no method named %q in %s", name, cf.ClassName())
	}
	return nil
}

// WriteMethod writes the listing of a single method: its header, code,
// exception table and line numbers.
func WriteMethod(w io.Writer, m *classfile.MethodInfo) error {
	var sb strings.Builder
	mods := append([]string{visibility(m.AccessFlags)}, methodModifiers(m)...)
	fmt.Fprintf(&sb, "method %s %s%s\n", strings.Join(mods, " "), m.NameString(), m.DescriptorString())

	code := m.Code()
	if code == nil {
		sb.WriteString("  no code\n")
		_, err := io.WriteString(w, sb.String())
		return err
	}

	fmt.Fprintf(&sb, "  stack=%d locals=%d length=%d\n",
		code.MaxStack, code.MaxLocals, classfile.CodeLength(code.Instructions))
	offsets := classfile.InstructionOffsets(code.Instructions)
	for i, insn := range code.Instructions {
		fmt.Fprintf(&sb, "  %6d: %s\n", offsets[i], InstructionText(insn, offsets[i]))
	}

	if len(code.ExceptionTable) > 0 {
		sb.WriteString("  exceptions:\n")
		for _, h := range code.ExceptionTable {
			catch := "any"
			if h.CatchType != nil {
				catch = h.CatchType.ClassName()
			}
			fmt.Fprintf(&sb, "    [%d, %d) -> %d %s\n", h.StartPC, h.EndPC, h.HandlerPC, catch)
		}
	}

	if lnt, ok := classfile.FindAttribute[*classfile.LineNumberTableAttribute](code); ok {
		sb.WriteString("  lines:\n")
		for _, e := range lnt.Entries {
			fmt.Fprintf(&sb, "    line %d: %d\n", e.LineNumber, e.StartPC)
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// InstructionText renders insn placed at pc. Jump targets are absolute.
func InstructionText(insn classfile.Instruction, pc int) string {
	op := insn.Opcode().String()
	switch i := insn.(type) {
	case *classfile.BasicInsn:
		return op
	case *classfile.IntInsn:
		if i.Op == classfile.OpNewarray {
			if t, ok := arrayTypes[i.Operand]; ok {
				return op + " " + t
			}
		}
		return fmt.Sprintf("%s %d", op, i.Operand)
	case *classfile.VarInsn:
		return fmt.Sprintf("%s %d", op, i.Var)
	case *classfile.IincInsn:
		return fmt.Sprintf("%s %d %d", op, i.Var, i.Increment)
	case *classfile.WideInsn:
		return "wide " + InstructionText(i.Inner, pc)
	case *classfile.ConstantInsn:
		return op + " " + Constant(i.Ref)
	case *classfile.InvokeInterfaceInsn:
		return fmt.Sprintf("%s %s %d", op, Constant(i.Ref), i.Count)
	case *classfile.InvokeDynamicInsn:
		return op + " " + Constant(i.Ref)
	case *classfile.BranchInsn:
		return fmt.Sprintf("%s %d", op, classfile.BranchTargets(i, pc)[0])
	case *classfile.TableSwitchInsn:
		targets := classfile.BranchTargets(i, pc)
		return fmt.Sprintf("%s %d..%d default %d %v", op, i.Low, i.High, targets[0], targets[1:])
	case *classfile.LookupSwitchInsn:
		targets := classfile.BranchTargets(i, pc)
		pairs := make([]string, len(i.Keys))
		for k, key := range i.Keys {
			pairs[k] = fmt.Sprintf("%d: %d", key, targets[k+1])
		}
		return fmt.Sprintf("%s default %d {%s}", op, targets[0], strings.Join(pairs, ", "))
	case *classfile.MultiANewArrayInsn:
		return fmt.Sprintf("%s %s %d", op, i.Class.ClassName(), i.Dimensions)
	case *classfile.OpaqueInsn:
		return fmt.Sprintf("%s 0x%02x % x", op, uint8(i.Op), i.Operands)
	}
	return op
}
