package decompiler

func registerDeclarations(r *Registry) {
	r.Register(OpDeclare, declare, "Declare")
	r.Register(OpFunction, function, "Function")
	r.Register(OpEndFunction, closer("End-Function"), "End-Function")

	r.Register(OpGlobal, declaration("Global"), "Global")
	r.Register(OpComponent, declaration("Component"), "Component")

	words := []struct {
		op   Opcode
		word string
	}{
		{OpLibrary, "Library"},
		{OpAs, "As"},
		{OpValue, "Value"},
		{OpReturns, "Returns"},
		{OpPeopleCode, "PeopleCode"},
		{OpRef, "Ref"},
		{OpOut, "out"},
		{OpOf, "of"},
		{OpLocal, "Local"},
		{OpConstant, "Constant"},
		{OpInstance, "instance"},
		{OpImport, "import"},
		{OpCreate, "create"},
	}
	for _, w := range words {
		r.Register(w.op, keyword(w.word), w.word)
	}
}

func declare(s *state) error {
	s.writeNewlineBefore()
	s.writePadding()
	s.keyword("Declare")
	return nil
}

// function is either part of a Declare statement or the header of a
// function definition.
func function(s *state) error {
	if s.prevOp == OpDeclare {
		s.keyword("Function")
		return nil
	}
	s.writeNewlineBefore()
	s.writePadding()
	s.keyword("Function")
	s.openHeader(1)
	return nil
}

// declaration returns a handler for Global and Component variables, whose
// statements are followed by a redundant terminator in the bytecode.
func declaration(word string) Handler {
	return func(s *state) error {
		s.keyword(word)
		s.inDecl = true
		return nil
	}
}
