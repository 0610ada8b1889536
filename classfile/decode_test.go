package classfile

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observedOptions(opts Options) (Options, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	opts.Logger = zap.New(core)
	return opts, logs
}

func droppedAttributes(logs *observer.ObservedLogs) []string {
	var names []string
	for _, e := range logs.FilterMessage("dropping attribute").All() {
		names = append(names, e.ContextMap()["attribute"].(string))
	}
	return names
}

func TestDecodeConstructor(t *testing.T) {
	data := constructorClass(VersionJava8).bytes()
	cf, err := Decode(data, DefaultOptions())
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	t.Run("header", func(t *testing.T) {
		if got := cf.ClassName(); got != "Test" {
			t.Errorf("ClassName() = %q, want %q", got, "Test")
		}
		if got := cf.SuperClassName(); got != "java/lang/Object" {
			t.Errorf("SuperClassName() = %q, want %q", got, "java/lang/Object")
		}
		if cf.MajorVersion != VersionJava8 {
			t.Errorf("MajorVersion = %d, want %d", cf.MajorVersion, VersionJava8)
		}
		if !cf.IsClass() {
			t.Error("expected IsClass() to be true")
		}
	})

	m := cf.GetMethod("<init>", "()V")
	if m == nil {
		t.Fatal("constructor not found")
	}
	if !m.IsConstructor() {
		t.Error("expected IsConstructor() to be true")
	}
	code := m.Code()
	if code == nil {
		t.Fatal("constructor has no Code attribute")
	}

	t.Run("instructions", func(t *testing.T) {
		want := []Opcode{OpAload0, OpInvokespecial, OpReturn}
		if len(code.Instructions) != len(want) {
			t.Fatalf("got %d instructions, want %d", len(code.Instructions), len(want))
		}
		for i, op := range want {
			if got := code.Instructions[i].Opcode(); got != op {
				t.Errorf("instruction %d = %s, want %s", i, got, op)
			}
		}
		invoke, ok := code.Instructions[1].(*ConstantInsn)
		if !ok {
			t.Fatalf("instruction 1 is %T, want *ConstantInsn", code.Instructions[1])
		}
		ref, ok := invoke.Ref.(*ConstantMethodrefInfo)
		if !ok {
			t.Fatalf("invokespecial operand is %T, want *ConstantMethodrefInfo", invoke.Ref)
		}
		if got := ref.Class.ClassName(); got != "java/lang/Object" {
			t.Errorf("owner = %q, want java/lang/Object", got)
		}
		if got := ref.NameAndType.Name.Value; got != "<init>" {
			t.Errorf("name = %q, want <init>", got)
		}
		if got := CodeLength(code.Instructions); got != 5 {
			t.Errorf("CodeLength() = %d, want 5", got)
		}
	})

	t.Run("line numbers", func(t *testing.T) {
		lnt, ok := FindAttribute[*LineNumberTableAttribute](code)
		if !ok {
			t.Fatal("LineNumberTable not found")
		}
		want := []LineNumberEntry{{StartPC: 0, LineNumber: 1}}
		if len(lnt.Entries) != 1 || lnt.Entries[0] != want[0] {
			t.Errorf("entries = %v, want %v", lnt.Entries, want)
		}
	})

	t.Run("code length", func(t *testing.T) {
		// header 8, code 5, exception table 2, attribute count 2, LNT 12
		if got := code.Length(); got != 29 {
			t.Errorf("Length() = %d, want 29", got)
		}
	})

	t.Run("round trip", func(t *testing.T) {
		out, err := cf.Encode()
		if err != nil {
			t.Fatalf("Encode() error = %v", err)
		}
		if !bytes.Equal(out, data) {
			t.Errorf("Encode() differs from input\n got %x\nwant %x", out, data)
		}
	})
}

func TestDecodeRoundTripIsIdempotent(t *testing.T) {
	c := constructorClass(VersionJava17)
	p := c.pool
	c.attributes = append(c.attributes,
		attr(p.utf8(AttrSourceFile), u2(p.utf8("Test.java"))),
		attr(p.utf8("Custom"), []byte{1, 2, 3}),
		attr(p.utf8(AttrNestMembers), cat(u2(1), u2(p.class("Test$Inner")))),
	)
	data := c.bytes()

	cf, err := Decode(data, DefaultOptions())
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	first, err := cf.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	again, err := Decode(first, DefaultOptions())
	if err != nil {
		t.Fatalf("Decode() of encoded class error = %v", err)
	}
	second, err := again.Encode()
	if err != nil {
		t.Fatalf("second Encode() error = %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("encode(decode(encode(decode(x)))) differs from encode(decode(x))")
	}
	if !bytes.Equal(first, data) {
		t.Error("encoded class differs from input")
	}
	if got := cf.SourceFile(); got != "Test.java" {
		t.Errorf("SourceFile() = %q, want Test.java", got)
	}
	custom, ok := cf.GetAttribute("Custom").(*DefaultAttribute)
	if !ok {
		t.Fatalf("Custom attribute is %T, want *DefaultAttribute", cf.GetAttribute("Custom"))
	}
	if !bytes.Equal(custom.Data, []byte{1, 2, 3}) {
		t.Errorf("Custom data = %v, want [1 2 3]", custom.Data)
	}
}

func TestDecodeBadMagic(t *testing.T) {
	data := constructorClass(VersionJava8).bytes()
	data[0] = 0xCA
	data[3] = 0xFE
	_, err := Decode(data, DefaultOptions())
	if !errors.Is(err, ErrInvalidMagic) {
		t.Fatalf("Decode() error = %v, want ErrInvalidMagic", err)
	}
	if !IsStructural(err) {
		t.Errorf("expected a structural error, got %v", err)
	}
}

func TestDecodeForwardVersionedAttribute(t *testing.T) {
	tests := []struct {
		name    string
		major   uint16
		drop    bool
		wantHit bool
	}{
		{name: "java 8 with toggle", major: VersionJava8, drop: true, wantHit: false},
		{name: "java 8 without toggle", major: VersionJava8, drop: false, wantHit: true},
		{name: "java 11 with toggle", major: VersionJava11, drop: true, wantHit: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newRawClass(tt.major, 0)
			p := c.pool
			c.attributes = append(c.attributes, attr(p.utf8(AttrNestHost), u2(p.class("Outer"))))

			opts := DefaultOptions()
			opts.DropForwardVersioned = tt.drop
			opts, logs := observedOptions(opts)
			cf, err := Decode(c.bytes(), opts)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			host, found := FindAttribute[*NestHostAttribute](cf)
			if found != tt.wantHit {
				t.Fatalf("NestHost present = %v, want %v", found, tt.wantHit)
			}
			if found && host.Host.ClassName() != "Outer" {
				t.Errorf("host = %q, want Outer", host.Host.ClassName())
			}
			dropped := droppedAttributes(logs)
			if tt.wantHit && len(dropped) != 0 {
				t.Errorf("unexpected drops %v", dropped)
			}
			if !tt.wantHit && (len(dropped) != 1 || dropped[0] != AttrNestHost) {
				t.Errorf("dropped = %v, want [NestHost]", dropped)
			}
		})
	}
}

func TestDecodeContextGating(t *testing.T) {
	tests := []struct {
		name   string
		build  func(c *rawClass)
		lookup func(cf *ClassFile) bool
	}{
		{
			name: "module attribute without ACC_MODULE",
			build: func(c *rawClass) {
				p := c.pool
				c.attributes = append(c.attributes, attr(p.utf8(AttrModuleMainClass), u2(p.class("Main"))))
			},
			lookup: func(cf *ClassFile) bool {
				_, ok := FindAttribute[*ModuleMainClassAttribute](cf)
				return ok
			},
		},
		{
			name: "source file on a field",
			build: func(c *rawClass) {
				p := c.pool
				c.fields = append(c.fields, member(0, p.utf8("x"), p.utf8("I"),
					attr(p.utf8(AttrSourceFile), u2(p.utf8("Test.java")))))
			},
			lookup: func(cf *ClassFile) bool {
				return cf.GetField("x").GetAttribute(AttrSourceFile) != nil
			},
		},
		{
			name: "line numbers on a method",
			build: func(c *rawClass) {
				p := c.pool
				c.methods = append(c.methods, member(int(AccAbstract), p.utf8("m"), p.utf8("()V"),
					attr(p.utf8(AttrLineNumberTable), u2(0))))
			},
			lookup: func(cf *ClassFile) bool {
				return cf.GetMethod("m", "()V").GetAttribute(AttrLineNumberTable) != nil
			},
		},
	}
	for _, tt := range tests {
		for _, strict := range []bool{true, false} {
			name := tt.name
			if !strict {
				name += " lenient"
			}
			t.Run(name, func(t *testing.T) {
				c := newRawClass(VersionJava11, 0)
				tt.build(c)
				opts := DefaultOptions()
				opts.DropBadContextAttributes = strict
				cf, err := Decode(c.bytes(), opts)
				if err != nil {
					t.Fatalf("Decode() error = %v", err)
				}
				if got := tt.lookup(cf); got == strict {
					t.Errorf("attribute present = %v, want %v", got, !strict)
				}
			})
		}
	}
}

func TestDecodeModuleAttributesOnModule(t *testing.T) {
	c := newRawClass(VersionJava11, 0)
	c.access = uint16(AccModule)
	c.super = 0
	p := c.pool
	c.attributes = append(c.attributes, attr(p.utf8(AttrModuleMainClass), u2(p.class("Main"))))

	cf, err := Decode(c.bytes(), DefaultOptions())
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	main, ok := FindAttribute[*ModuleMainClassAttribute](cf)
	if !ok {
		t.Fatal("ModuleMainClass was dropped")
	}
	if got := main.MainClass.ClassName(); got != "Main" {
		t.Errorf("MainClass = %q, want Main", got)
	}
	if cf.SuperClass != nil {
		t.Errorf("SuperClass = %v, want nil", cf.SuperClass)
	}
}

func TestDecodeTruncatedLineNumberTable(t *testing.T) {
	build := func() []byte {
		c := newRawClass(VersionJava8, 0)
		p := c.pool
		// two entries declared, one present
		lnt := attr(p.utf8(AttrLineNumberTable), cat(u2(2), u2(0), u2(1)))
		code := []byte{byte(OpReturn)}
		c.methods = append(c.methods, member(int(AccStatic), p.utf8("run"), p.utf8("()V"),
			attr(p.utf8(AttrCode), codePayload(0, 0, code, lnt))))
		return c.bytes()
	}

	t.Run("dropped", func(t *testing.T) {
		opts, logs := observedOptions(DefaultOptions())
		cf, err := Decode(build(), opts)
		if err != nil {
			t.Fatalf("Decode() error = %v", err)
		}
		code := cf.GetMethod("run", "()V").Code()
		if code == nil {
			t.Fatal("Code attribute was dropped")
		}
		if len(code.Attributes) != 0 {
			t.Errorf("Code attributes = %d, want 0", len(code.Attributes))
		}
		if len(code.Instructions) != 1 {
			t.Errorf("instructions = %d, want 1", len(code.Instructions))
		}
		dropped := droppedAttributes(logs)
		if len(dropped) != 1 || dropped[0] != AttrLineNumberTable {
			t.Errorf("dropped = %v, want [LineNumberTable]", dropped)
		}
		entry := logs.FilterMessage("dropping attribute").All()[0]
		if got := entry.ContextMap()["location"]; got != "code" {
			t.Errorf("location = %v, want code", got)
		}
	})

	t.Run("fatal without toggle", func(t *testing.T) {
		opts := DefaultOptions()
		opts.DropEOFAttributes = false
		_, err := Decode(build(), opts)
		if err == nil {
			t.Fatal("Decode() succeeded, want error")
		}
		if !hasKind(err, KindEOF) {
			t.Errorf("error kind: got %v, want eof", err)
		}
	})
}

func TestDecodeTruncatedIndexAttribute(t *testing.T) {
	// one byte of a two-byte index
	build := func() []byte {
		c := newRawClass(VersionJava8, 0)
		p := c.pool
		c.attributes = append(c.attributes, attr(p.utf8(AttrSourceFile), []byte{0x01}))
		return c.bytes()
	}

	t.Run("dropped", func(t *testing.T) {
		opts, logs := observedOptions(DefaultOptions())
		cf, err := Decode(build(), opts)
		if err != nil {
			t.Fatalf("Decode() error = %v", err)
		}
		if len(cf.Attributes) != 0 {
			t.Errorf("class attributes = %d, want 0", len(cf.Attributes))
		}
		entries := logs.FilterMessage("dropping attribute").All()
		if len(entries) != 1 {
			t.Fatalf("drop diagnostics = %d, want 1", len(entries))
		}
		if err, ok := entries[0].ContextMap()["error"].(string); !ok || !strings.Contains(err, "eof") {
			t.Errorf("drop error = %v, want an eof error", entries[0].ContextMap()["error"])
		}
	})

	t.Run("fatal without toggle", func(t *testing.T) {
		opts := DefaultOptions()
		opts.DropEOFAttributes = false
		_, err := Decode(build(), opts)
		if err == nil {
			t.Fatal("Decode() succeeded, want error")
		}
		if !hasKind(err, KindEOF) {
			t.Errorf("error kind: got %v, want eof", err)
		}
	})
}

func TestDecodeDeeplyNestedElementValues(t *testing.T) {
	build := func(depth int) []byte {
		c := newRawClass(VersionJava8, 0)
		p := c.pool
		value := cat([]byte{'s'}, u2(p.utf8("leaf")))
		for i := 0; i < depth; i++ {
			value = cat([]byte{'['}, u2(1), value)
		}
		payload := cat(u2(1), u2(p.utf8("Ldemo/Deep;")), u2(1), u2(p.utf8("value")), value)
		c.attributes = append(c.attributes, attr(p.utf8(AttrRuntimeVisibleAnnotations), payload))
		return c.bytes()
	}

	tests := []struct {
		name  string
		depth int
		keep  bool
	}{
		{name: "shallow", depth: 10, keep: true},
		{name: "at limit", depth: maxElementDepth - 1, keep: true},
		{name: "too deep", depth: 5000, keep: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, logs := observedOptions(DefaultOptions())
			cf, err := Decode(build(tt.depth), opts)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			_, kept := FindAttribute[*AnnotationsAttribute](cf)
			if kept != tt.keep {
				t.Errorf("annotations kept = %v, want %v", kept, tt.keep)
			}
			if dropped := droppedAttributes(logs); !tt.keep && (len(dropped) != 1 || dropped[0] != AttrRuntimeVisibleAnnotations) {
				t.Errorf("dropped = %v, want [%s]", dropped, AttrRuntimeVisibleAnnotations)
			}
		})
	}
}

func TestDecodeAttributeDropReasons(t *testing.T) {
	tests := []struct {
		name  string
		build func(c *rawClass)
		drop  string
	}{
		{
			name: "type mismatch",
			build: func(c *rawClass) {
				p := c.pool
				c.attributes = append(c.attributes, attr(p.utf8(AttrSourceFile), u2(c.this)))
			},
			drop: AttrSourceFile,
		},
		{
			name: "index out of bounds",
			build: func(c *rawClass) {
				p := c.pool
				c.attributes = append(c.attributes, attr(p.utf8(AttrSourceFile), u2(500)))
			},
			drop: AttrSourceFile,
		},
		{
			name: "under-read payload",
			build: func(c *rawClass) {
				p := c.pool
				c.attributes = append(c.attributes, attr(p.utf8(AttrSourceFile), cat(u2(p.utf8("A.java")), u2(0))))
			},
			drop: AttrSourceFile,
		},
		{
			name: "unresolvable name",
			build: func(c *rawClass) {
				c.attributes = append(c.attributes, attr(400, []byte{1}))
			},
			drop: "#400",
		},
		{
			name: "empty code",
			build: func(c *rawClass) {
				p := c.pool
				c.methods = append(c.methods, member(0, p.utf8("m"), p.utf8("()V"),
					attr(p.utf8(AttrCode), codePayload(0, 0, nil))))
			},
			drop: AttrCode,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newRawClass(VersionJava8, 0)
			tt.build(c)
			opts, logs := observedOptions(DefaultOptions())
			cf, err := Decode(c.bytes(), opts)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if len(cf.Attributes) != 0 {
				t.Errorf("class attributes = %d, want 0", len(cf.Attributes))
			}
			dropped := droppedAttributes(logs)
			if len(dropped) != 1 || dropped[0] != tt.drop {
				t.Errorf("dropped = %v, want [%s]", dropped, tt.drop)
			}
		})
	}
}

func TestDecodeEmptyCodeWithoutLengthCheck(t *testing.T) {
	c := newRawClass(VersionJava8, 0)
	p := c.pool
	c.methods = append(c.methods, member(0, p.utf8("m"), p.utf8("()V"),
		attr(p.utf8(AttrCode), codePayload(0, 0, nil))))
	opts := DefaultOptions()
	opts.CheckCodeLength = false
	cf, err := Decode(c.bytes(), opts)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	code := cf.GetMethod("m", "()V").Code()
	if code == nil {
		t.Fatal("Code attribute was dropped")
	}
	if len(code.Instructions) != 0 {
		t.Errorf("instructions = %d, want 0", len(code.Instructions))
	}
	if _, err := cf.Encode(); !IsInvariant(err) {
		t.Errorf("Encode() error = %v, want invariant violation", err)
	}

	out, err := cf.EncodeWith(opts)
	if err != nil {
		t.Fatalf("EncodeWith() error = %v", err)
	}
	if !bytes.Equal(out, c.bytes()) {
		t.Errorf("EncodeWith() = % x, want % x", out, c.bytes())
	}
}

func TestDecodeAttributeOverrunsClass(t *testing.T) {
	c := newRawClass(VersionJava8, 0)
	p := c.pool
	c.attributes = append(c.attributes, cat(u2(p.utf8("Custom")), u4(100), []byte{1, 2}))
	_, err := Decode(c.bytes(), DefaultOptions())
	if err == nil {
		t.Fatal("Decode() succeeded, want error")
	}
	if !hasKind(err, KindEOF) {
		t.Errorf("error = %v, want eof", err)
	}
}

func TestDecodeOakCode(t *testing.T) {
	c := newRawClass(VersionJava1, 0)
	p := c.pool
	code := []byte{byte(OpIconst1), byte(OpIreturn)}
	payload := cat([]byte{1, 0}, u2(len(code)), code, u2(0), u2(0))
	c.methods = append(c.methods, member(int(AccStatic), p.utf8("one"), p.utf8("()I"),
		attr(p.utf8(AttrCode), payload)))
	data := c.bytes()

	cf, err := Decode(data, DefaultOptions())
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !cf.IsOak() {
		t.Error("expected IsOak() to be true")
	}
	a := cf.GetMethod("one", "()I").Code()
	if a == nil {
		t.Fatal("Code attribute was dropped")
	}
	if !a.Oak || a.MaxStack != 1 || a.MaxLocals != 0 {
		t.Errorf("code = {Oak:%v MaxStack:%d MaxLocals:%d}, want {true 1 0}", a.Oak, a.MaxStack, a.MaxLocals)
	}
	if a.Length() != len(payload) {
		t.Errorf("Length() = %d, want %d", a.Length(), len(payload))
	}
	out, err := cf.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Error("Oak class did not round trip")
	}
}

func TestDecodeDuplicateAnnotations(t *testing.T) {
	build := func() []byte {
		c := newRawClass(VersionJava8, 0)
		p := c.pool
		ann := cat(u2(p.utf8("LFoo;")), u2(0))
		c.attributes = append(c.attributes,
			attr(p.utf8(AttrRuntimeVisibleAnnotations), cat(u2(2), ann, ann)))
		return c.bytes()
	}
	tests := []struct {
		name string
		drop bool
		want int
	}{
		{name: "deduplicated", drop: true, want: 1},
		{name: "kept", drop: false, want: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.DropDuplicateAnnotations = tt.drop
			cf, err := Decode(build(), opts)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			a, ok := FindAttribute[*AnnotationsAttribute](cf)
			if !ok {
				t.Fatal("annotations attribute missing")
			}
			if len(a.Annotations) != tt.want {
				t.Errorf("annotations = %d, want %d", len(a.Annotations), tt.want)
			}
			if !a.Visible {
				t.Error("expected visible annotations")
			}
		})
	}
}

func TestDecodeUnknownOpcode(t *testing.T) {
	build := func() []byte {
		c := newRawClass(VersionJava8, 0)
		p := c.pool
		code := []byte{0xE0, 0x07, byte(OpReturn)}
		c.methods = append(c.methods, member(int(AccStatic), p.utf8("m"), p.utf8("()V"),
			attr(p.utf8(AttrCode), codePayload(0, 0, code))))
		return c.bytes()
	}

	t.Run("fatal without fallback", func(t *testing.T) {
		_, err := Decode(build(), DefaultOptions())
		if !IsStructural(err) {
			t.Fatalf("Decode() error = %v, want structural", err)
		}
	})

	t.Run("fallback", func(t *testing.T) {
		opts := DefaultOptions()
		opts.InstructionFallback = func(op Opcode, code []byte, pc int) (Instruction, error) {
			return &OpaqueInsn{Op: op, Operands: code[pc+1 : pc+2]}, nil
		}
		cf, err := Decode(build(), opts)
		if err != nil {
			t.Fatalf("Decode() error = %v", err)
		}
		insns := cf.GetMethod("m", "()V").Code().Instructions
		if len(insns) != 2 {
			t.Fatalf("instructions = %d, want 2", len(insns))
		}
		opaque, ok := insns[0].(*OpaqueInsn)
		if !ok || opaque.Op != 0xE0 || !bytes.Equal(opaque.Operands, []byte{0x07}) {
			t.Errorf("instruction 0 = %#v", insns[0])
		}
	})
}

func TestEncodeBuiltClass(t *testing.T) {
	cf := New(VersionJava17, 0, AccPublic|AccSuper, "demo/Hello", "java/lang/Object")
	cp := cf.ConstantPool
	out := cp.FieldRef("java/lang/System", "out", "Ljava/io/PrintStream;")
	printRef := cp.MethodRef("java/io/PrintStream", "println", "(Ljava/lang/String;)V")
	code := &CodeAttribute{
		MaxStack:  2,
		MaxLocals: 1,
		Instructions: []Instruction{
			&ConstantInsn{Op: OpGetstatic, Ref: out},
			&ConstantInsn{Op: OpLdc, Ref: cp.String("hello")},
			&ConstantInsn{Op: OpInvokevirtual, Ref: printRef},
			&BasicInsn{Op: OpReturn},
		},
	}
	cf.Methods = append(cf.Methods, MethodInfo{
		AccessFlags: AccPublic | AccStatic,
		Name:        cp.Utf8("main"),
		Descriptor:  cp.Utf8("([Ljava/lang/String;)V"),
		Attributes:  []Attribute{code},
	})
	cf.Attributes = append(cf.Attributes, &SourceFileAttribute{SourceFile: cp.Utf8("Hello.java")})

	data, err := cf.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	got, err := Decode(data, DefaultOptions())
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got.ClassName() != "demo/Hello" {
		t.Errorf("ClassName() = %q, want demo/Hello", got.ClassName())
	}
	if got.SourceFile() != "Hello.java" {
		t.Errorf("SourceFile() = %q, want Hello.java", got.SourceFile())
	}
	m := got.GetMethod("main", "([Ljava/lang/String;)V")
	if m == nil || m.Code() == nil {
		t.Fatal("main method or its code is missing")
	}
	insns := m.Code().Instructions
	if len(insns) != 4 {
		t.Fatalf("instructions = %d, want 4", len(insns))
	}
	ldc := insns[1].(*ConstantInsn)
	if s, ok := ldc.Ref.(*ConstantStringInfo); !ok || s.Value.Value != "hello" {
		t.Errorf("ldc operand = %#v, want string hello", ldc.Ref)
	}
}

func TestEncodeInvariants(t *testing.T) {
	tests := []struct {
		name string
		attr Attribute
	}{
		{
			name: "tableswitch offset count",
			attr: &CodeAttribute{Instructions: []Instruction{
				&TableSwitchInsn{Low: 0, High: 2, Offsets: []int32{1}},
			}},
		},
		{
			name: "empty code",
			attr: &CodeAttribute{},
		},
		{
			name: "same frame delta",
			attr: &StackMapTableAttribute{Frames: []StackMapFrame{&SameFrame{Delta: 64}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cf := New(VersionJava8, 0, AccPublic, "Test", "java/lang/Object")
			cf.Methods = append(cf.Methods, MethodInfo{
				Name:       cf.ConstantPool.Utf8("m"),
				Descriptor: cf.ConstantPool.Utf8("()V"),
				Attributes: []Attribute{tt.attr},
			})
			_, err := cf.Encode()
			if !IsInvariant(err) {
				t.Errorf("Encode() error = %v, want invariant violation", err)
			}
		})
	}
}
