package decompiler

import "github.com/wippyai/pcdecode/decompiler/internal/text"

func registerPunctuation(r *Registry) {
	r.Register(OpComma, comma, ",")
	r.Register(OpPeriod, period, ".")
	r.Register(OpColon, colon, ":")
	r.Register(OpOpenParen, openParen, "(")
	r.Register(OpCloseParen, closeParen, ")")
	r.Register(OpOpenBracket, openBracket, "[")
	r.Register(OpCloseBracket, closeBracket, "]")
	r.Register(OpSemicolon, semicolon, ";")
}

func comma(s *state) error {
	s.out.TruncateWhile(text.IsWhitespace)
	s.out.WriteString(", ")
	return nil
}

func period(s *state) error {
	if c, ok := s.out.Last(); ok && c == ' ' {
		s.out.Truncate(s.out.Len() - 1)
	}
	s.out.WriteString(".")
	return nil
}

func colon(s *state) error {
	s.out.TruncateWhile(text.IsSpace)
	s.out.WriteString(":")
	return nil
}

// attach positions an opening parenthesis or bracket: directly after a
// callable token, spaced after anything else.
func (s *state) attach() {
	if callable.has(s.prevOp) {
		s.out.TruncateWhile(text.IsSpace)
		return
	}
	s.writeSpaceBefore()
}

func openParen(s *state) error {
	s.attach()
	s.out.WriteString("(")
	s.bools.Push()
	return nil
}

// closeParen leaves a space behind so the following token needs none,
// unless that token attaches to the parenthesis anyway.
func closeParen(s *state) error {
	s.out.TruncateWhile(text.IsWhitespace)
	s.out.WriteString(")")
	if next, ok := s.in.Peek(); !ok || !attachLeft.has(Opcode(next)) {
		_ = s.out.WriteByte(' ')
	}
	s.bools.Pop()
	return nil
}

func openBracket(s *state) error {
	s.attach()
	s.out.WriteString("[")
	s.justOpenedBracket = true
	return nil
}

func closeBracket(s *state) error {
	s.out.TruncateWhile(text.IsWhitespace)
	s.out.WriteString("]")
	return nil
}

// semicolon ends a statement. A header statement ends its line without a
// semicolon and opens the block body. A second terminator in a row encodes
// a blank line, except right after a Global or Component declaration where
// the extra terminator is swallowed.
func semicolon(s *state) error {
	s.endCondition()
	pending := s.declPending
	s.declPending = false

	if s.inHeader {
		s.inHeader = false
		s.newline()
		s.indent += s.headerIndent
		return nil
	}

	if s.prevOp == OpSemicolon {
		if pending {
			s.out.TruncateWhile(text.IsSpace)
			return nil
		}
		s.newline()
		return nil
	}

	s.out.TruncateWhile(text.IsWhitespace)
	s.out.WriteString(";")
	s.newline()
	s.declPending = s.inDecl
	s.inDecl = false
	return nil
}
