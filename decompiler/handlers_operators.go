package decompiler

func registerOperators(r *Registry) {
	binary := []struct {
		op  Opcode
		sym string
	}{
		{OpEqual, "="},
		{OpNotEqual, "<>"},
		{OpGreaterEqual, ">="},
		{OpLessEqual, "<="},
		{OpLess, "<"},
		{OpGreater, ">"},
		{OpPlus, "+"},
		{OpMinus, "-"},
		{OpMultiply, "*"},
		{OpDivide, "/"},
		{OpPower, "**"},
		{OpConcat, "|"},
	}
	for _, b := range binary {
		r.Register(b.op, operator(b.sym), b.sym)
	}

	r.Register(OpNegate, operator("-"), "negate")
	r.Register(OpNot, keyword("Not"), "Not")
	r.Register(OpAt, keyword("@"), "@")
	r.Register(OpAnd, and, "And")
	r.Register(OpOr, or, "Or")
}

func operator(sym string) Handler {
	return func(s *state) error {
		s.operator(sym)
		return nil
	}
}

// and ends the line after the connective; the clause frame decides how far
// the continuation line is indented.
func and(s *state) error {
	s.keyword("And")
	s.newline()
	s.bools.And()
	return nil
}

func or(s *state) error {
	s.keyword("Or")
	s.newline()
	s.bools.Or()
	return nil
}
