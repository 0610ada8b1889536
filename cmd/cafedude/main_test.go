package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Col-E/CAFED00D-sub000/classfile"
)

// writeClass encodes demo/Hello, a class with only a default constructor, to
// a temporary file.
func writeClass(t *testing.T) string {
	t.Helper()
	cf := classfile.New(classfile.VersionJava8, 0, classfile.AccPublic|classfile.AccSuper, "demo/Hello", "java/lang/Object")
	cp := cf.ConstantPool
	cf.Methods = append(cf.Methods, classfile.MethodInfo{
		AccessFlags: classfile.AccPublic,
		Name:        cp.Utf8("<init>"),
		Descriptor:  cp.Utf8("()V"),
		Attributes: []classfile.Attribute{&classfile.CodeAttribute{
			MaxStack:  1,
			MaxLocals: 1,
			Instructions: []classfile.Instruction{
				&classfile.BasicInsn{Op: classfile.OpAload0},
				&classfile.ConstantInsn{Op: classfile.OpInvokespecial, Ref: cp.MethodRef("java/lang/Object", "<init>", "()V")},
				&classfile.BasicInsn{Op: classfile.OpReturn},
			},
		}},
	})
	data, err := cf.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	path := filepath.Join(t.TempDir(), "Hello.class")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCommands(t *testing.T) {
	class := writeClass(t)

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{name: "version", args: []string{"version"}, want: []string{"cafedude 0.1.0\n"}},
		{name: "dump line", args: []string{"dump", class}, want: []string{"class\tdemo/Hello\tpublic\t52.0\n", "method\t<init>\tvoid\t-\tpublic\t-\n"}},
		{name: "dump json", args: []string{"dump", "-f", "json", class}, want: []string{`"name": "demo/Hello"`, `"maxStack": 1`}},
		{name: "disasm", args: []string{"disasm", class}, want: []string{"       1: invokespecial java/lang/Object.<init>:()V\n", "       4: return\n"}},
		{name: "roundtrip", args: []string{"roundtrip", class}, want: []string{"equivalent, identical bytes"}},
		{name: "refs", args: []string{"refs", "-m", "<init>", class}, want: []string{"Methodref\tjava/lang/Object.<init>:()V\n", "Utf8\t\"Code\"\n"}},
		{name: "refs per member", args: []string{"refs", class}, want: []string{"class demo/Hello\n", "\tClass\tjava/lang/Object\n", "method <init>()V\n"}},
		{name: "codec flag", args: []string{"dump", "--check-code-length=false", class}, want: []string{"demo/Hello"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestRoundtripOutput(t *testing.T) {
	class := writeClass(t)
	dest := filepath.Join(t.TempDir(), "Out.class")
	if _, err := run(t, "roundtrip", "-o", dest, class); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	want, err := os.ReadFile(class)
	if err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Error("re-encoded class differs from the input")
	}
}

func TestCommandErrors(t *testing.T) {
	class := writeClass(t)
	badConfig := filepath.Join(t.TempDir(), "cafedude.toml")
	if err := os.WriteFile(badConfig, []byte("[output]\nformat = \"xml\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	garbage := filepath.Join(t.TempDir(), "Bad.class")
	if err := os.WriteFile(garbage, []byte{0xCA, 0xFE, 0xBA, 0xBF}, 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown format", args: []string{"dump", "-f", "xml", class}},
		{name: "invalid config", args: []string{"dump", "--config", badConfig, class}},
		{name: "missing file", args: []string{"dump", filepath.Join(t.TempDir(), "Nope.class")}},
		{name: "bad magic", args: []string{"dump", garbage}},
		{name: "unknown method", args: []string{"disasm", "-m", "nope", class}},
		{name: "unknown refs method", args: []string{"refs", "-m", "nope", class}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, tt.args...); err == nil {
				t.Errorf("%v should fail", tt.args)
			}
		})
	}
}
