// Package config handles cafedude.toml configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/Col-E/CAFED00D-sub000/classfile"
)

// FileName is the name FindAndLoad looks for.
const FileName = "cafedude.toml"

// Output formats understood by the dump command.
const (
	FormatLine = "line"
	FormatJSON = "json"
	FormatCBOR = "cbor"
)

// Config represents a cafedude.toml file.
type Config struct {
	Codec  Codec  `toml:"codec"`
	Output Output `toml:"output"`

	// Path is the file the configuration was read from, empty for defaults.
	Path string `toml:"-"`
}

// Codec holds the decoder toggles. Unset toggles keep their strict default.
type Codec struct {
	DropForwardVersioned     *bool `toml:"drop-forward-versioned"`
	DropBadContext           *bool `toml:"drop-bad-context"`
	DropEOF                  *bool `toml:"drop-eof"`
	DropDuplicateAnnotations *bool `toml:"drop-duplicate-annotations"`
	CheckCodeLength          *bool `toml:"check-code-length"`
}

// Output configures the CLI renderers.
type Output struct {
	Format string `toml:"format"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{Output: Output{Format: FormatLine}}
}

// Load parses the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	c := Default()
	md, err := toml.Decode(string(data), c)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}
	c.Path = path
	return c, nil
}

// FindAndLoad walks up from startDir to find a cafedude.toml file and loads
// it. It returns Default() when no file is found.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return Default(), nil
		}
		dir = parent
	}
}

func (c *Config) validate() error {
	switch c.Output.Format {
	case FormatLine, FormatJSON, FormatCBOR:
		return nil
	}
	return fmt.Errorf("output format %q is not one of line, json, cbor", c.Output.Format)
}

// Options converts the codec table to decoder options, starting from
// classfile.DefaultOptions.
func (c *Config) Options() classfile.Options {
	opts := classfile.DefaultOptions()
	set(&opts.DropForwardVersioned, c.Codec.DropForwardVersioned)
	set(&opts.DropBadContextAttributes, c.Codec.DropBadContext)
	set(&opts.DropEOFAttributes, c.Codec.DropEOF)
	set(&opts.DropDuplicateAnnotations, c.Codec.DropDuplicateAnnotations)
	set(&opts.CheckCodeLength, c.Codec.CheckCodeLength)
	return opts
}

func set(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
