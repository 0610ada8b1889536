package format

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/Col-E/CAFED00D-sub000/classfile"
	"github.com/fxamacker/cbor/v2"
)

// greeter builds demo/Greeter with one field and a main method whose code is
// 13 bytes long.
func greeter() *classfile.ClassFile {
	cf := classfile.New(classfile.VersionJava8, 0, classfile.AccPublic|classfile.AccSuper, "demo/Greeter", "java/lang/Object")
	cp := cf.ConstantPool
	cf.Interfaces = []*classfile.ConstantClassInfo{cp.Class("java/lang/Runnable")}
	cf.Fields = append(cf.Fields, classfile.FieldInfo{
		AccessFlags: classfile.AccPrivate | classfile.AccFinal,
		Name:        cp.Utf8("name"),
		Descriptor:  cp.Utf8("Ljava/lang/String;"),
	})
	code := &classfile.CodeAttribute{
		MaxStack:  2,
		MaxLocals: 1,
		Instructions: []classfile.Instruction{
			&classfile.ConstantInsn{Op: classfile.OpGetstatic, Ref: cp.FieldRef("java/lang/System", "out", "Ljava/io/PrintStream;")},
			&classfile.ConstantInsn{Op: classfile.OpLdc, Ref: cp.String("hi")},
			&classfile.ConstantInsn{Op: classfile.OpInvokevirtual, Ref: cp.MethodRef("java/io/PrintStream", "println", "(Ljava/lang/String;)V")},
			&classfile.BranchInsn{Op: classfile.OpGoto, Offset: 4},
			&classfile.BasicInsn{Op: classfile.OpNop},
			&classfile.BasicInsn{Op: classfile.OpReturn},
		},
		ExceptionTable: []classfile.ExceptionTableEntry{{StartPC: 0, EndPC: 8, HandlerPC: 11}},
		Attributes: []classfile.Attribute{
			&classfile.LineNumberTableAttribute{Entries: []classfile.LineNumberEntry{{StartPC: 0, LineNumber: 3}, {StartPC: 12, LineNumber: 4}}},
		},
	}
	cf.Methods = append(cf.Methods, classfile.MethodInfo{
		AccessFlags: classfile.AccPublic | classfile.AccStatic,
		Name:        cp.Utf8("main"),
		Descriptor:  cp.Utf8("([Ljava/lang/String;)V"),
		Attributes:  []classfile.Attribute{code},
	})
	cf.Methods = append(cf.Methods, classfile.MethodInfo{
		AccessFlags: classfile.AccPublic | classfile.AccAbstract,
		Name:        cp.Utf8("run"),
		Descriptor:  cp.Utf8("()V"),
	})
	cf.Attributes = append(cf.Attributes, &classfile.SourceFileAttribute{SourceFile: cp.Utf8("Greeter.java")})
	return cf
}

func TestNew(t *testing.T) {
	for _, name := range []string{Line, JSON, CBOR} {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			enc, err := New(name, &buf)
			if err != nil {
				t.Fatalf("New(%q) error = %v", name, err)
			}
			if err := enc.Encode(greeter()); err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			if buf.Len() == 0 {
				t.Error("Encode() wrote nothing")
			}
		})
	}
	if _, err := New("xml", &bytes.Buffer{}); err == nil {
		t.Error("New(xml) should fail")
	}
}

func TestLineEncoder(t *testing.T) {
	var buf bytes.Buffer
	if err := NewLineEncoder(&buf).Encode(greeter()); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	want := strings.Join([]string{
		"class\tdemo/Greeter\tpublic\t52.0",
		"extends\tjava/lang/Object",
		"implements\tjava/lang/Runnable",
		"field\tname\tjava.lang.String\tprivate\tfinal",
		"method\tmain\tvoid\tjava.lang.String[]\tpublic\tstatic",
		"method\trun\tvoid\t-\tpublic\tabstract",
		"attribute\tSourceFile\t2",
	}, "\n") + "\n"
	if got := buf.String(); got != want {
		t.Errorf("line output:\n%s\nwant:\n%s", got, want)
	}
}

func TestJSONEncoder(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONEncoder(&buf).Encode(greeter()); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	var got classSummary
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if got.Name != "demo/Greeter" || got.SuperClass != "java/lang/Object" {
		t.Errorf("name = %q super = %q", got.Name, got.SuperClass)
	}
	if got.Kind != "class" || got.SourceFile != "Greeter.java" {
		t.Errorf("kind = %q sourceFile = %q", got.Kind, got.SourceFile)
	}
	if got.Version.Major != 52 {
		t.Errorf("version.major = %d, want 52", got.Version.Major)
	}
	if len(got.Fields) != 1 || got.Fields[0].Type != "java.lang.String" {
		t.Errorf("fields = %+v", got.Fields)
	}
	if len(got.Methods) != 2 {
		t.Fatalf("methods = %d, want 2", len(got.Methods))
	}
	m := got.Methods[0]
	if m.Code == nil || m.Code.Length != 13 || m.Code.Instructions != 6 || m.Code.ExceptionHandlers != 1 {
		t.Errorf("main code = %+v", m.Code)
	}
	if got.Methods[1].Code != nil {
		t.Error("abstract method should have no code")
	}
}

func TestCBOREncoder(t *testing.T) {
	var a, b bytes.Buffer
	if err := NewCBOREncoder(&a).Encode(greeter()); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if err := NewCBOREncoder(&b).Encode(greeter()); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	first := a.Bytes()
	if !bytes.Equal(first, b.Bytes()) {
		t.Error("canonical encoding should be deterministic")
	}

	var got classSummary
	if err := cbor.Unmarshal(first, &got); err != nil {
		t.Fatalf("cbor.Unmarshal() error = %v", err)
	}
	if got.Name != "demo/Greeter" {
		t.Errorf("name = %q", got.Name)
	}
	if len(got.Interfaces) != 1 || got.Interfaces[0] != "java/lang/Runnable" {
		t.Errorf("interfaces = %v", got.Interfaces)
	}
	if len(got.Methods) != 2 || got.Methods[0].Code == nil || got.Methods[0].Code.Length != 13 {
		t.Errorf("methods = %+v", got.Methods)
	}
}

func TestDisassemble(t *testing.T) {
	var buf bytes.Buffer
	if err := Disassemble(&buf, greeter(), "main"); err != nil {
		t.Fatalf("Disassemble() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"method public static main([Ljava/lang/String;)V\n",
		"  stack=2 locals=1 length=13\n",
		"       0: getstatic java/lang/System.out:Ljava/io/PrintStream;\n",
		"       3: ldc \"hi\"\n",
		"       5: invokevirtual java/io/PrintStream.println:(Ljava/lang/String;)V\n",
		"       8: goto 12\n",
		"      12: return\n",
		"    [0, 8) -> 11 any\n",
		"    line 4: 12\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("listing missing %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "run()V") {
		t.Error("listing should be filtered to main")
	}

	buf.Reset()
	if err := Disassemble(&buf, greeter(), ""); err != nil {
		t.Fatalf("Disassemble(all) error = %v", err)
	}
	if !strings.Contains(buf.String(), "method public abstract run()V\n  no code\n") {
		t.Errorf("listing of all methods:\n%s", buf.String())
	}

	if err := Disassemble(&buf, greeter(), "missing"); err == nil {
		t.Error("Disassemble(missing) should fail")
	}
}

func TestInstructionText(t *testing.T) {
	cp := classfile.NewConstantPool()
	tests := []struct {
		name string
		insn classfile.Instruction
		pc   int
		want string
	}{
		{name: "bipush", insn: &classfile.IntInsn{Op: classfile.OpBipush, Operand: -3}, want: "bipush -3"},
		{name: "newarray", insn: &classfile.IntInsn{Op: classfile.OpNewarray, Operand: 10}, want: "newarray int"},
		{name: "iload", insn: &classfile.VarInsn{Op: classfile.OpIload, Var: 4}, want: "iload 4"},
		{name: "wide iinc", insn: &classfile.WideInsn{Inner: &classfile.IincInsn{Var: 300, Increment: -2}}, want: "wide iinc 300 -2"},
		{name: "backward branch", insn: &classfile.BranchInsn{Op: classfile.OpGoto, Offset: -6}, pc: 10, want: "goto 4"},
		{
			name: "tableswitch",
			insn: &classfile.TableSwitchInsn{Default: 20, Low: 0, High: 1, Offsets: []int32{10, 15}},
			want: "tableswitch 0..1 default 20 [10 15]",
		},
		{
			name: "lookupswitch",
			insn: &classfile.LookupSwitchInsn{Default: 8, Keys: []int32{1, 5}, Offsets: []int32{12, 16}},
			pc:   4,
			want: "lookupswitch default 12 {1: 16, 5: 20}",
		},
		{
			name: "invokeinterface",
			insn: &classfile.InvokeInterfaceInsn{Ref: cp.InterfaceMethodRef("java/util/List", "size", "()I"), Count: 1},
			want: "invokeinterface java/util/List.size:()I 1",
		},
		{
			name: "multianewarray",
			insn: &classfile.MultiANewArrayInsn{Class: cp.Class("[[I"), Dimensions: 2},
			want: "multianewarray [[I 2",
		},
		{name: "opaque", insn: &classfile.OpaqueInsn{Op: 0xcb, Operands: []byte{1, 2}}, want: "unknown 0xcb 01 02"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InstructionText(tt.insn, tt.pc); got != tt.want {
				t.Errorf("InstructionText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConstant(t *testing.T) {
	cp := classfile.NewConstantPool()
	tests := []struct {
		name  string
		entry classfile.ConstantPoolEntry
		want  string
	}{
		{name: "nil", entry: nil, want: "null"},
		{name: "integer", entry: cp.Integer(-7), want: "-7"},
		{name: "float", entry: cp.Float(1.5), want: "1.5f"},
		{name: "long", entry: cp.Long(7), want: "7L"},
		{name: "double", entry: cp.Double(0.25), want: "0.25d"},
		{name: "nan", entry: cp.Double(math.NaN()), want: "NaN"},
		{name: "string", entry: cp.String(`say "hi"`), want: `"say \"hi\""`},
		{name: "class", entry: cp.Class("java/lang/Object"), want: "java/lang/Object"},
		{name: "method type", entry: cp.MethodType("()V"), want: "()V"},
		{
			name:  "method handle",
			entry: cp.MethodHandle(classfile.RefInvokeStatic, cp.MethodRef("Boot", "bsm", "()V")),
			want:  "invokestatic Boot.bsm:()V",
		},
		{name: "module", entry: cp.Module("java.base"), want: "java.base"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Constant(tt.entry); got != tt.want {
				t.Errorf("Constant() = %q, want %q", got, tt.want)
			}
		})
	}
}
