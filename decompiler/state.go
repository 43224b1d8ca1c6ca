package decompiler

import (
	"go.uber.org/zap"

	"github.com/wippyai/pcdecode/decompiler/internal/frame"
	"github.com/wippyai/pcdecode/decompiler/internal/stream"
	"github.com/wippyai/pcdecode/decompiler/internal/text"
)

// indentUnit is written once per indentation level at the start of a line.
const indentUnit = "   "

// state is everything one decode call owns. Nothing in it outlives the call.
type state struct {
	in      *stream.Reader
	out     *text.Builder
	bools   *frame.Stack
	symbols *SymbolTable
	log     *zap.Logger

	op     Opcode // token being decoded
	prevOp Opcode // token decoded before op

	indent int

	inClass        bool // between class/interface and end-class/end-interface
	inIf           bool // between If and Then
	afterClassDefn bool // class declaration finished, method bodies follow
	inDecl         bool // inside a Global or Component declaration
	declPending    bool // the declaration's terminator was just written

	justOpenedBracket bool

	// A header is a statement whose terminator ends the line without a
	// semicolon and opens a block (For, While, Function, method, ...).
	inHeader     bool
	headerIndent int

	// One entry per open Evaluate; true once its first When body began.
	evaluates []bool
}

func newState(program []byte, symbols *SymbolTable, log *zap.Logger) *state {
	return &state{
		in:      stream.NewReader(program),
		out:     text.NewBuilder(len(program) * 2),
		bools:   frame.NewStack(),
		symbols: symbols,
		log:     log,
		op:      OpEnd,
		prevOp:  OpEnd,
	}
}

// unmatchedParens is the number of open parentheses not yet closed.
func (s *state) unmatchedParens() int {
	return s.bools.Depth() - 1
}

func (s *state) atLineStart() bool {
	c, ok := s.out.Last()
	return !ok || c == '\n'
}

// writeSpaceBefore separates the next token from the previous one.
func (s *state) writeSpaceBefore() {
	c, ok := s.out.Last()
	if !ok || c == ' ' || c == '\n' {
		return
	}
	if c == '(' && s.op != OpNot {
		return
	}
	if noSpaceAfter.has(s.prevOp) {
		return
	}
	if s.justOpenedBracket {
		s.justOpenedBracket = false
		return
	}
	_ = s.out.WriteByte(' ')
}

// writeOperatorSpaceBefore separates an operator from its left operand.
func (s *state) writeOperatorSpaceBefore() {
	if operatorAttach.has(s.prevOp) {
		return
	}
	s.writeSpaceBefore()
}

// writeNewlineBefore starts a new line unless the current one is still empty.
func (s *state) writeNewlineBefore() {
	if s.out.Len() == 0 || s.out.LineIsBlank() {
		return
	}
	s.newline()
}

// newline ends the current line. Lines never keep trailing spaces.
func (s *state) newline() {
	s.out.TruncateWhile(text.IsSpace)
	s.out.WriteString(text.CRLF)
}

// writePadding indents a fresh line by the block level plus the extra
// level of the current boolean clause frame.
func (s *state) writePadding() {
	if !s.atLineStart() || s.out.Len() == 0 {
		return
	}
	n := s.indent + s.bools.Top().Indent
	if n < 0 {
		s.log.Debug("negative indent level",
			zap.Int("level", n),
			zap.Int("offset", s.in.Position()))
		return
	}
	s.out.Repeat(indentUnit, n)
}

// startLine puts the next token at the start of a line padded to the
// current level, ending the previous line if it holds anything.
func (s *state) startLine() {
	s.writeNewlineBefore()
	s.out.TruncateWhile(text.IsSpace)
	s.writePadding()
}

// outdent starts a line one level left of the current one.
func (s *state) outdent() {
	s.indent--
	s.startLine()
}

// keyword writes a spaced word.
func (s *state) keyword(word string) {
	s.writeSpaceBefore()
	s.out.WriteString(word)
}

// operator writes a spaced binary operator.
func (s *state) operator(sym string) {
	s.writeOperatorSpaceBefore()
	s.out.WriteString(sym)
}

// openHeader marks the current statement as a block header: its terminator
// ends the line and indents the body by level.
func (s *state) openHeader(level int) {
	s.inHeader = true
	s.headerIndent = level
}

// endCondition clears the boolean clause indentation once a condition or
// statement is complete.
func (s *state) endCondition() {
	s.bools.Reset()
}
