package classfile

import (
	"go.uber.org/zap"
)

// Options controls how tolerant the codec is of malformed input.
// The zero value disables every check; use DefaultOptions for strict decoding.
type Options struct {
	// Logger receives diagnostics for dropped attributes. Nil means no logging.
	Logger *zap.Logger
	// InstructionFallback decodes opcodes the codec does not know.
	// Nil fails fast with a structural error.
	InstructionFallback InstructionFallback

	// DropForwardVersioned drops attributes introduced after the class version.
	DropForwardVersioned bool
	// DropBadContextAttributes drops attributes found on a holder that does
	// not allow them.
	DropBadContextAttributes bool
	// DropEOFAttributes drops attributes whose content ends prematurely
	// instead of failing the whole class.
	DropEOFAttributes bool
	// DropDuplicateAnnotations keeps only the first annotation of each type
	// within one annotations attribute.
	DropDuplicateAnnotations bool
	// CheckCodeLength enforces 0 < code_length < 65536.
	CheckCodeLength bool
}

// DefaultOptions returns the strict configuration.
func DefaultOptions() Options {
	return Options{
		DropForwardVersioned:     true,
		DropBadContextAttributes: true,
		DropEOFAttributes:        true,
		DropDuplicateAnnotations: true,
		CheckCodeLength:          true,
	}
}

func (o *Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}
