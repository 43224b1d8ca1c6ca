package decompiler

import "strings"

func registerLiterals(r *Registry) {
	r.RegisterBulk([]Opcode{OpPureString, OpIdentifier}, pureString, "pure-string")
	r.Register(OpNumber, number, "number")
	r.Register(OpQuotedString, quotedString, "quoted-string")
	r.Register(OpReference, reference, "reference")
	r.Register(OpQualifiedReference, qualifiedReference, "qualified-reference")
	r.Register(OpEmbeddedText, embeddedText, "embedded-text")

	r.Register(OpTrue, keyword("True"), "True")
	r.Register(OpFalse, keyword("False"), "False")
	r.Register(OpNull, keyword("Null"), "Null")
	r.Register(OpSuper, keyword("%Super"), "%Super")
	r.Register(OpThis, keyword("%This"), "%This")
}

// keyword returns a handler writing word separated from the previous token.
func keyword(word string) Handler {
	return func(s *state) error {
		s.keyword(word)
		return nil
	}
}

func pureString(s *state) error {
	v, err := s.in.ReadUTF16String()
	if err != nil {
		return err
	}
	s.keyword(v)
	return nil
}

func number(s *state) error {
	v, err := s.in.ReadPackedNumber()
	if err != nil {
		return err
	}
	s.keyword(v)
	return nil
}

func quotedString(s *state) error {
	v, err := s.in.ReadUTF16String()
	if err != nil {
		return err
	}
	s.keyword(quote(v))
	return nil
}

// quote wraps v in double quotes, doubling any quote inside it.
func quote(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

// readSymbolIndex reads a stored reference slot. Slots are zero-based on
// disk; symbol table indices start at one.
func (s *state) readSymbolIndex() (int, error) {
	slot, err := s.in.ReadU16()
	if err != nil {
		return 0, err
	}
	return int(slot) + 1, nil
}

func reference(s *state) error {
	index, err := s.readSymbolIndex()
	if err != nil {
		return err
	}
	context, err := s.in.ReadByte()
	if err != nil {
		return err
	}
	return s.writeReference(index, context)
}

func qualifiedReference(s *state) error {
	index, err := s.readSymbolIndex()
	if err != nil {
		return err
	}
	return s.writeReference(index, RefQualified)
}

func (s *state) writeReference(index int, context byte) error {
	name, err := s.symbols.Resolve(index, context)
	if err != nil {
		return err
	}
	if name == "" {
		return nil
	}
	s.keyword(name)
	return nil
}

func embeddedText(s *state) error {
	v, err := s.in.ReadLengthPrefixedUTF16()
	if err != nil {
		return err
	}
	s.keyword(v)
	return nil
}
