package classfile

// Opcode is a JVM instruction opcode.
type Opcode uint8

const (
	OpNop             Opcode = 0x00
	OpAconstNull      Opcode = 0x01
	OpIconstM1        Opcode = 0x02
	OpIconst0         Opcode = 0x03
	OpIconst1         Opcode = 0x04
	OpIconst2         Opcode = 0x05
	OpIconst3         Opcode = 0x06
	OpIconst4         Opcode = 0x07
	OpIconst5         Opcode = 0x08
	OpLconst0         Opcode = 0x09
	OpLconst1         Opcode = 0x0a
	OpFconst0         Opcode = 0x0b
	OpFconst1         Opcode = 0x0c
	OpFconst2         Opcode = 0x0d
	OpDconst0         Opcode = 0x0e
	OpDconst1         Opcode = 0x0f
	OpBipush          Opcode = 0x10
	OpSipush          Opcode = 0x11
	OpLdc             Opcode = 0x12
	OpLdcW            Opcode = 0x13
	OpLdc2W           Opcode = 0x14
	OpIload           Opcode = 0x15
	OpLload           Opcode = 0x16
	OpFload           Opcode = 0x17
	OpDload           Opcode = 0x18
	OpAload           Opcode = 0x19
	OpIload0          Opcode = 0x1a
	OpAload0          Opcode = 0x2a
	OpAload3          Opcode = 0x2d
	OpIaload          Opcode = 0x2e
	OpSaload          Opcode = 0x35
	OpIstore          Opcode = 0x36
	OpLstore          Opcode = 0x37
	OpFstore          Opcode = 0x38
	OpDstore          Opcode = 0x39
	OpAstore          Opcode = 0x3a
	OpIstore0         Opcode = 0x3b
	OpAstore3         Opcode = 0x4e
	OpIastore         Opcode = 0x4f
	OpSastore         Opcode = 0x56
	OpPop             Opcode = 0x57
	OpSwap            Opcode = 0x5f
	OpIadd            Opcode = 0x60
	OpLxor            Opcode = 0x83
	OpIinc            Opcode = 0x84
	OpI2l             Opcode = 0x85
	OpDcmpg           Opcode = 0x98
	OpIfeq            Opcode = 0x99
	OpIfne            Opcode = 0x9a
	OpIflt            Opcode = 0x9b
	OpIfge            Opcode = 0x9c
	OpIfgt            Opcode = 0x9d
	OpIfle            Opcode = 0x9e
	OpIfIcmpeq        Opcode = 0x9f
	OpIfIcmpne        Opcode = 0xa0
	OpIfIcmplt        Opcode = 0xa1
	OpIfIcmpge        Opcode = 0xa2
	OpIfIcmpgt        Opcode = 0xa3
	OpIfIcmple        Opcode = 0xa4
	OpIfAcmpeq        Opcode = 0xa5
	OpIfAcmpne        Opcode = 0xa6
	OpGoto            Opcode = 0xa7
	OpJsr             Opcode = 0xa8
	OpRet             Opcode = 0xa9
	OpTableswitch     Opcode = 0xaa
	OpLookupswitch    Opcode = 0xab
	OpIreturn         Opcode = 0xac
	OpReturn          Opcode = 0xb1
	OpGetstatic       Opcode = 0xb2
	OpPutstatic       Opcode = 0xb3
	OpGetfield        Opcode = 0xb4
	OpPutfield        Opcode = 0xb5
	OpInvokevirtual   Opcode = 0xb6
	OpInvokespecial   Opcode = 0xb7
	OpInvokestatic    Opcode = 0xb8
	OpInvokeinterface Opcode = 0xb9
	OpInvokedynamic   Opcode = 0xba
	OpNew             Opcode = 0xbb
	OpNewarray        Opcode = 0xbc
	OpAnewarray       Opcode = 0xbd
	OpArraylength     Opcode = 0xbe
	OpAthrow          Opcode = 0xbf
	OpCheckcast       Opcode = 0xc0
	OpInstanceof      Opcode = 0xc1
	OpMonitorenter    Opcode = 0xc2
	OpMonitorexit     Opcode = 0xc3
	OpWide            Opcode = 0xc4
	OpMultianewarray  Opcode = 0xc5
	OpIfnull          Opcode = 0xc6
	OpIfnonnull       Opcode = 0xc7
	OpGotoW           Opcode = 0xc8
	OpJsrW            Opcode = 0xc9
	OpBreakpoint      Opcode = 0xca
)

var opcodeNames = [256]string{
	0x00: "nop", 0x01: "aconst_null", 0x02: "iconst_m1", 0x03: "iconst_0",
	0x04: "iconst_1", 0x05: "iconst_2", 0x06: "iconst_3", 0x07: "iconst_4",
	0x08: "iconst_5", 0x09: "lconst_0", 0x0a: "lconst_1", 0x0b: "fconst_0",
	0x0c: "fconst_1", 0x0d: "fconst_2", 0x0e: "dconst_0", 0x0f: "dconst_1",
	0x10: "bipush", 0x11: "sipush", 0x12: "ldc", 0x13: "ldc_w",
	0x14: "ldc2_w", 0x15: "iload", 0x16: "lload", 0x17: "fload",
	0x18: "dload", 0x19: "aload", 0x1a: "iload_0", 0x1b: "iload_1",
	0x1c: "iload_2", 0x1d: "iload_3", 0x1e: "lload_0", 0x1f: "lload_1",
	0x20: "lload_2", 0x21: "lload_3", 0x22: "fload_0", 0x23: "fload_1",
	0x24: "fload_2", 0x25: "fload_3", 0x26: "dload_0", 0x27: "dload_1",
	0x28: "dload_2", 0x29: "dload_3", 0x2a: "aload_0", 0x2b: "aload_1",
	0x2c: "aload_2", 0x2d: "aload_3", 0x2e: "iaload", 0x2f: "laload",
	0x30: "faload", 0x31: "daload", 0x32: "aaload", 0x33: "baload",
	0x34: "caload", 0x35: "saload", 0x36: "istore", 0x37: "lstore",
	0x38: "fstore", 0x39: "dstore", 0x3a: "astore", 0x3b: "istore_0",
	0x3c: "istore_1", 0x3d: "istore_2", 0x3e: "istore_3", 0x3f: "lstore_0",
	0x40: "lstore_1", 0x41: "lstore_2", 0x42: "lstore_3", 0x43: "fstore_0",
	0x44: "fstore_1", 0x45: "fstore_2", 0x46: "fstore_3", 0x47: "dstore_0",
	0x48: "dstore_1", 0x49: "dstore_2", 0x4a: "dstore_3", 0x4b: "astore_0",
	0x4c: "astore_1", 0x4d: "astore_2", 0x4e: "astore_3", 0x4f: "iastore",
	0x50: "lastore", 0x51: "fastore", 0x52: "dastore", 0x53: "aastore",
	0x54: "bastore", 0x55: "castore", 0x56: "sastore", 0x57: "pop",
	0x58: "pop2", 0x59: "dup", 0x5a: "dup_x1", 0x5b: "dup_x2",
	0x5c: "dup2", 0x5d: "dup2_x1", 0x5e: "dup2_x2", 0x5f: "swap",
	0x60: "iadd", 0x61: "ladd", 0x62: "fadd", 0x63: "dadd",
	0x64: "isub", 0x65: "lsub", 0x66: "fsub", 0x67: "dsub",
	0x68: "imul", 0x69: "lmul", 0x6a: "fmul", 0x6b: "dmul",
	0x6c: "idiv", 0x6d: "ldiv", 0x6e: "fdiv", 0x6f: "ddiv",
	0x70: "irem", 0x71: "lrem", 0x72: "frem", 0x73: "drem",
	0x74: "ineg", 0x75: "lneg", 0x76: "fneg", 0x77: "dneg",
	0x78: "ishl", 0x79: "lshl", 0x7a: "ishr", 0x7b: "lshr",
	0x7c: "iushr", 0x7d: "lushr", 0x7e: "iand", 0x7f: "land",
	0x80: "ior", 0x81: "lor", 0x82: "ixor", 0x83: "lxor",
	0x84: "iinc", 0x85: "i2l", 0x86: "i2f", 0x87: "i2d",
	0x88: "l2i", 0x89: "l2f", 0x8a: "l2d", 0x8b: "f2i",
	0x8c: "f2l", 0x8d: "f2d", 0x8e: "d2i", 0x8f: "d2l",
	0x90: "d2f", 0x91: "i2b", 0x92: "i2c", 0x93: "i2s",
	0x94: "lcmp", 0x95: "fcmpl", 0x96: "fcmpg", 0x97: "dcmpl",
	0x98: "dcmpg", 0x99: "ifeq", 0x9a: "ifne", 0x9b: "iflt",
	0x9c: "ifge", 0x9d: "ifgt", 0x9e: "ifle", 0x9f: "if_icmpeq",
	0xa0: "if_icmpne", 0xa1: "if_icmplt", 0xa2: "if_icmpge", 0xa3: "if_icmpgt",
	0xa4: "if_icmple", 0xa5: "if_acmpeq", 0xa6: "if_acmpne", 0xa7: "goto",
	0xa8: "jsr", 0xa9: "ret", 0xaa: "tableswitch", 0xab: "lookupswitch",
	0xac: "ireturn", 0xad: "lreturn", 0xae: "freturn", 0xaf: "dreturn",
	0xb0: "areturn", 0xb1: "return", 0xb2: "getstatic", 0xb3: "putstatic",
	0xb4: "getfield", 0xb5: "putfield", 0xb6: "invokevirtual", 0xb7: "invokespecial",
	0xb8: "invokestatic", 0xb9: "invokeinterface", 0xba: "invokedynamic", 0xbb: "new",
	0xbc: "newarray", 0xbd: "anewarray", 0xbe: "arraylength", 0xbf: "athrow",
	0xc0: "checkcast", 0xc1: "instanceof", 0xc2: "monitorenter", 0xc3: "monitorexit",
	0xc4: "wide", 0xc5: "multianewarray", 0xc6: "ifnull", 0xc7: "ifnonnull",
	0xc8: "goto_w", 0xc9: "jsr_w", 0xca: "breakpoint",
	0xfe: "impdep1", 0xff: "impdep2",
}

// OpcodeName returns the mnemonic for op, or "" when op is not defined.
func OpcodeName(op Opcode) string {
	return opcodeNames[op]
}

func (op Opcode) String() string {
	if name := opcodeNames[op]; name != "" {
		return name
	}
	return "unknown"
}

// operandKind describes the operand layout following an opcode.
type operandKind uint8

const (
	operandsNone operandKind = iota
	operandsByte
	operandsShort
	operandsLocal
	operandsIinc
	operandsLdc
	operandsCPRef
	operandsBranch
	operandsBranchWide
	operandsTableSwitch
	operandsLookupSwitch
	operandsInvokeInterface
	operandsInvokeDynamic
	operandsMultiANewArray
	operandsWide
	operandsNewArray
	operandsUnknown
)

var operandKinds [256]operandKind

func init() {
	for op := 0; op < 256; op++ {
		operandKinds[op] = operandsUnknown
	}
	for op := OpNop; op <= OpDconst1; op++ {
		operandKinds[op] = operandsNone
	}
	operandKinds[OpBipush] = operandsByte
	operandKinds[OpSipush] = operandsShort
	operandKinds[OpLdc] = operandsLdc
	operandKinds[OpLdcW] = operandsCPRef
	operandKinds[OpLdc2W] = operandsCPRef
	for op := OpIload; op <= OpAload; op++ {
		operandKinds[op] = operandsLocal
	}
	for op := OpIload0; op <= OpSaload; op++ {
		operandKinds[op] = operandsNone
	}
	for op := OpIstore; op <= OpAstore; op++ {
		operandKinds[op] = operandsLocal
	}
	for op := OpIstore0; op <= OpLxor; op++ {
		operandKinds[op] = operandsNone
	}
	operandKinds[OpIinc] = operandsIinc
	for op := OpI2l; op <= OpDcmpg; op++ {
		operandKinds[op] = operandsNone
	}
	for op := OpIfeq; op <= OpJsr; op++ {
		operandKinds[op] = operandsBranch
	}
	operandKinds[OpRet] = operandsLocal
	operandKinds[OpTableswitch] = operandsTableSwitch
	operandKinds[OpLookupswitch] = operandsLookupSwitch
	for op := OpIreturn; op <= OpReturn; op++ {
		operandKinds[op] = operandsNone
	}
	for op := OpGetstatic; op <= OpInvokestatic; op++ {
		operandKinds[op] = operandsCPRef
	}
	operandKinds[OpInvokeinterface] = operandsInvokeInterface
	operandKinds[OpInvokedynamic] = operandsInvokeDynamic
	operandKinds[OpNew] = operandsCPRef
	operandKinds[OpNewarray] = operandsNewArray
	operandKinds[OpAnewarray] = operandsCPRef
	operandKinds[OpArraylength] = operandsNone
	operandKinds[OpAthrow] = operandsNone
	operandKinds[OpCheckcast] = operandsCPRef
	operandKinds[OpInstanceof] = operandsCPRef
	operandKinds[OpMonitorenter] = operandsNone
	operandKinds[OpMonitorexit] = operandsNone
	operandKinds[OpWide] = operandsWide
	operandKinds[OpMultianewarray] = operandsMultiANewArray
	operandKinds[OpIfnull] = operandsBranch
	operandKinds[OpIfnonnull] = operandsBranch
	operandKinds[OpGotoW] = operandsBranchWide
	operandKinds[OpJsrW] = operandsBranchWide
}

// IsKnownOpcode reports whether the codec can decode op without a fallback.
func IsKnownOpcode(op Opcode) bool {
	return operandKinds[op] != operandsUnknown
}
