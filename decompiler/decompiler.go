package decompiler

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/pcdecode/errors"
)

// DefaultHeaderSize is the length of the opaque header in front of the
// first token of every stored program.
const DefaultHeaderSize = 37

// Options controls decoding behavior
type Options struct {
	Logger   *zap.Logger      // defaults to the package Logger
	Metrics  Metrics          // receives one observation per call when set
	Trace    func(TraceEvent) // called before each token handler runs
	Registry *Registry        // defaults to DefaultRegistry
	// HeaderSize is the number of bytes skipped before decoding starts.
	// Zero selects DefaultHeaderSize.
	HeaderSize int
}

// TraceEvent describes one token as the decoder reaches it.
type TraceEvent struct {
	Name    string
	Offset  int
	Indent  int
	Parens  int
	Opcode  Opcode
	InIf    bool
	InClass bool
}

// Decompile decodes program with the default options.
func Decompile(program []byte, symbols *SymbolTable) (string, error) {
	return DecompileWithOptions(program, symbols, Options{})
}

// DecompileWithOptions decodes the tokenized program into CRLF-separated
// source text. It fails with errors.ErrDecode when the buffer ends inside a
// token and with errors.ErrReferenceNotFound when a reference index is not in
// symbols. Unknown opcodes are skipped.
func DecompileWithOptions(program []byte, symbols *SymbolTable, opts Options) (string, error) {
	if opts.Logger == nil {
		opts.Logger = Logger()
	}
	if opts.Registry == nil {
		opts.Registry = defaultRegistry
	}
	if opts.HeaderSize == 0 {
		opts.HeaderSize = DefaultHeaderSize
	}

	start := time.Now()
	out, err := decode(program, symbols, opts)
	elapsed := time.Since(start)

	if opts.Metrics != nil {
		opts.Metrics.ObserveDecode(len(out), elapsed, err)
	}
	if err != nil {
		opts.Logger.Debug("decode failed", zap.Int("bytes", len(program)), zap.Error(err))
		return "", err
	}
	opts.Logger.Debug("decoded program",
		zap.Int("bytes", len(program)),
		zap.Int("chars", len(out)),
		zap.Duration("elapsed", elapsed))
	return out, nil
}

func decode(program []byte, symbols *SymbolTable, opts Options) (string, error) {
	if opts.HeaderSize < 0 {
		return "", errors.InvalidData(errors.PhaseDecode,
			fmt.Sprintf("negative header size %d", opts.HeaderSize))
	}
	if len(program) < opts.HeaderSize {
		return "", errors.New(errors.PhaseDecode, errors.KindTruncated).
			Detail("program is %d bytes, header alone is %d", len(program), opts.HeaderSize).
			Value(len(program)).
			Build()
	}

	s := newState(program, symbols, opts.Logger)
	if err := s.in.Skip(opts.HeaderSize); err != nil {
		return "", err
	}

	for !s.in.AtEnd() {
		offset := s.in.Position()
		b, err := s.in.ReadByte()
		if err != nil {
			return "", err
		}
		op := Opcode(b)
		if op == OpEnd {
			break
		}
		h := opts.Registry.Get(op)
		if h == nil {
			continue
		}

		s.op = op
		if s.prevOp != OpOpenBracket {
			s.justOpenedBracket = false
		}
		if preOutdent.has(op) {
			s.indent--
		}
		s.writePadding()

		if opts.Trace != nil {
			opts.Trace(TraceEvent{
				Name:    opts.Registry.Name(op),
				Offset:  offset,
				Indent:  s.indent,
				Parens:  s.unmatchedParens(),
				Opcode:  op,
				InIf:    s.inIf,
				InClass: s.inClass,
			})
		}

		if err := h(s); err != nil {
			return "", atOffset(err, offset)
		}
		s.prevOp = op
	}

	return s.out.Trimmed(), nil
}

// atOffset records the token offset on structured errors that carry none.
func atOffset(err error, offset int) error {
	e, ok := err.(*errors.Error)
	if !ok || e.Position != 0 {
		return err
	}
	c := *e
	c.Position = offset
	return &c
}
