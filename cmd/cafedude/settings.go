package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Col-E/CAFED00D-sub000/classfile"
	"github.com/Col-E/CAFED00D-sub000/config"

	_ "github.com/tliron/commonlog/simple"
)

const appName = "cafedude"

var log = commonlog.GetLogger(appName)

// codecFlags maps a command line flag to the config toggle it overrides.
var codecFlags = []struct {
	name  string
	usage string
	field func(*config.Codec) **bool
}{
	{"drop-forward-versioned", "drop attributes newer than the class version", func(c *config.Codec) **bool { return &c.DropForwardVersioned }},
	{"drop-bad-context", "drop attributes found in a location that does not allow them", func(c *config.Codec) **bool { return &c.DropBadContext }},
	{"drop-eof", "drop attributes whose content ends early instead of failing", func(c *config.Codec) **bool { return &c.DropEOF }},
	{"drop-duplicate-annotations", "keep only the first annotation of each type", func(c *config.Codec) **bool { return &c.DropDuplicateAnnotations }},
	{"check-code-length", "reject Code attributes with an empty or oversized code array", func(c *config.Codec) **bool { return &c.CheckCodeLength }},
}

type globalFlags struct {
	configPath string
	verbose    int
	toggles    map[string]*bool
}

func (g *globalFlags) register(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&g.configPath, "config", "", "path to "+config.FileName+" (default: search upwards from the working directory)")
	flags.CountVarP(&g.verbose, "verbose", "v", "increase log verbosity (repeatable)")

	g.toggles = make(map[string]*bool, len(codecFlags))
	for _, f := range codecFlags {
		g.toggles[f.name] = flags.Bool(f.name, true, f.usage)
	}
}

// session is the state shared by every subcommand once flags are parsed.
type session struct {
	config *config.Config
	opts   classfile.Options
	logger *zap.Logger
}

func (g *globalFlags) open(cmd *cobra.Command) (*session, error) {
	commonlog.Configure(g.verbose, nil)

	var cfg *config.Config
	var err error
	if g.configPath != "" {
		cfg, err = config.Load(g.configPath)
	} else {
		cfg, err = config.FindAndLoad(".")
	}
	if err != nil {
		return nil, err
	}
	if cfg.Path != "" {
		log.Infof("using configuration %s", cfg.Path)
	}

	flags := cmd.Flags()
	for _, f := range codecFlags {
		if flags.Changed(f.name) {
			*f.field(&cfg.Codec) = g.toggles[f.name]
		}
	}

	logger, err := newLogger(g.verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	opts := cfg.Options()
	opts.Logger = logger
	return &session{config: cfg, opts: opts, logger: logger}, nil
}

// newLogger builds the codec logger. Dropped attributes are reported at warn
// level; -v adds debug output.
func newLogger(verbose int) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose > 0 {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

func (s *session) close() {
	_ = s.logger.Sync()
}

// readInput reads a class file from path, or standard input for "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}

func (s *session) decode(cmd *cobra.Command, path string) (*classfile.ClassFile, error) {
	data, err := readInput(cmd, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return s.decodeData(path, data)
}

func (s *session) decodeData(path string, data []byte) (*classfile.ClassFile, error) {
	log.Debugf("decoding %s (%d bytes)", path, len(data))
	cf, err := classfile.Decode(data, s.opts)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return cf, nil
}
