package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
[codec]
drop-forward-versioned = false
drop-eof = false

[output]
format = "json"
`)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.Output.Format != FormatJSON {
		t.Errorf("output format = %q, want json", c.Output.Format)
	}
	if c.Path != path {
		t.Errorf("path = %q, want %q", c.Path, path)
	}

	opts := c.Options()
	if opts.DropForwardVersioned {
		t.Error("DropForwardVersioned should be disabled")
	}
	if opts.DropEOFAttributes {
		t.Error("DropEOFAttributes should be disabled")
	}
	if !opts.DropBadContextAttributes || !opts.DropDuplicateAnnotations || !opts.CheckCodeLength {
		t.Errorf("unset toggles should keep their defaults: %+v", opts)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "syntax", content: "[codec\n", want: "parse error"},
		{name: "unknown key", content: "[codec]\nstrict = true\n", want: "unknown keys"},
		{name: "bad format", content: "[output]\nformat = \"xml\"\n", want: "not one of"},
		{name: "wrong type", content: "[codec]\ndrop-eof = \"yes\"\n", want: "parse error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.content)
			_, err := Load(path)
			if err == nil {
				t.Fatal("Load succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestFindAndLoad(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "[output]\nformat = \"cbor\"\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	c, err := FindAndLoad(nested)
	if err != nil {
		t.Fatalf("FindAndLoad failed: %v", err)
	}
	if c.Output.Format != FormatCBOR {
		t.Errorf("output format = %q, want cbor", c.Output.Format)
	}
	if c.Path != filepath.Join(root, FileName) {
		t.Errorf("path = %q, want %q", c.Path, filepath.Join(root, FileName))
	}
}

func TestDefault(t *testing.T) {
	c := Default()
	if c.Output.Format != FormatLine {
		t.Errorf("default format = %q, want line", c.Output.Format)
	}
	opts := c.Options()
	if !opts.DropForwardVersioned || !opts.DropBadContextAttributes || !opts.DropEOFAttributes ||
		!opts.DropDuplicateAnnotations || !opts.CheckCodeLength {
		t.Errorf("default options should be strict: %+v", opts)
	}
}
