package decompiler

import "github.com/wippyai/pcdecode/decompiler/internal/text"

func registerComments(r *Registry) {
	r.Register(OpComment, comment, "comment")
	r.Register(OpLineComment, lineComment, "line-comment")
	r.Register(OpDocComment, docComment, "doc-comment")
	r.Register(OpInterfaceBlock, interfaceBlock, "interface-block")
}

// ownLine writes v on a line of its own at the current indentation.
func (s *state) ownLine(v string) {
	s.writeNewlineBefore()
	s.writePadding()
	s.out.WriteString(v)
	s.newline()
}

func comment(s *state) error {
	v, err := s.in.ReadComment()
	if err != nil {
		return err
	}
	s.ownLine(v)
	return nil
}

// lineComment reattaches the comment to the end of the line the previous
// statement finished.
func lineComment(s *state) error {
	v, err := s.in.ReadComment()
	if err != nil {
		return err
	}
	s.out.TruncateWhile(text.IsSpace)
	if s.out.HasSuffix(text.CRLF) {
		s.out.Truncate(s.out.Len() - len(text.CRLF))
	}
	if s.out.Len() > 0 {
		_ = s.out.WriteByte(' ')
	}
	s.out.WriteString(v)
	s.newline()
	return nil
}

func docComment(s *state) error {
	v, err := s.in.ReadLengthPrefixedUTF16()
	if err != nil {
		return err
	}
	s.ownLine(v)
	return nil
}

// interfaceBlock copies a pre-formatted block verbatim.
func interfaceBlock(s *state) error {
	v, err := s.in.ReadLengthPrefixedUTF16()
	if err != nil {
		return err
	}
	s.writeNewlineBefore()
	s.out.TruncateWhile(text.IsSpace)
	s.out.WriteString(v)
	if !s.out.HasSuffix(text.CRLF) {
		s.newline()
	}
	return nil
}
