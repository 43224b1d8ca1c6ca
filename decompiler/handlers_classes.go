package decompiler

func registerClasses(r *Registry) {
	r.Register(OpClass, classHeader("class"), "class")
	r.Register(OpInterface, classHeader("interface"), "interface")
	r.Register(OpEndClass, classEnd("end-class"), "end-class")
	r.Register(OpEndInterface, classEnd("end-interface"), "end-interface")

	r.Register(OpMethod, member("method"), "method")
	r.Register(OpProperty, member("property"), "property")
	r.Register(OpGet, member("get"), "get")
	r.Register(OpSet, member("set"), "set")

	r.Register(OpEndMethod, endMethod, "end-method")
	r.Register(OpEndGet, accessorEnd("end-get"), "end-get")
	r.Register(OpEndSet, accessorEnd("end-set"), "end-set")

	r.Register(OpPrivate, section("private"), "private")
	r.Register(OpProtected, section("protected"), "protected")

	r.Register(OpExtends, keyword("extends"), "extends")
	r.Register(OpImplements, keyword("implements"), "implements")
	r.Register(OpReadOnly, keyword("readonly"), "readonly")
	r.Register(OpAbstract, keyword("abstract"), "abstract")
}

func classHeader(word string) Handler {
	return func(s *state) error {
		s.keyword(word)
		s.inClass = true
		s.openHeader(1)
		return nil
	}
}

func classEnd(word string) Handler {
	return func(s *state) error {
		s.outdent()
		s.keyword(word)
		s.inClass = false
		s.afterClassDefn = true
		return nil
	}
}

// member returns a handler for method, property, get and set. Inside the
// class declaration they declare a member; after it they open its body.
func member(word string) Handler {
	return func(s *state) error {
		s.keyword(word)
		if s.afterClassDefn {
			s.openHeader(1)
		}
		return nil
	}
}

func endMethod(s *state) error {
	if s.afterClassDefn {
		s.outdent()
	}
	s.keyword("end-method")
	return nil
}

// accessorEnd returns a handler for end-get and end-set, which only start
// their own line inside a class body.
func accessorEnd(word string) Handler {
	return func(s *state) error {
		if s.afterClassDefn {
			s.outdent()
		}
		s.keyword(word)
		return nil
	}
}

// section returns a handler for the private and protected markers of a class
// declaration, which sit one level left of the members they introduce.
// Outside a declaration they are plain modifiers.
func section(word string) Handler {
	return func(s *state) error {
		if !s.inClass {
			s.keyword(word)
			return nil
		}
		s.outdent()
		s.keyword(word)
		s.newline()
		s.indent++
		return nil
	}
}
