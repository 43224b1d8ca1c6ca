package decompiler

import "go.uber.org/zap"

func registerControl(r *Registry) {
	r.Register(OpIf, ifStatement, "If")
	r.Register(OpThen, then, "Then")
	r.Register(OpElse, elseBranch, "Else")
	r.Register(OpEndIf, endBlock("End-If"), "End-If")

	r.Register(OpWhile, header("While", 1), "While")
	r.Register(OpEndWhile, endBlock("End-While"), "End-While")
	r.Register(OpRepeat, blockOpener("Repeat"), "Repeat")
	r.Register(OpUntil, until, "Until")

	r.Register(OpFor, header("For", 1), "For")
	r.Register(OpTo, keyword("To"), "To")
	r.Register(OpStep, keyword("Step"), "Step")
	r.Register(OpEndFor, endBlock("End-For"), "End-For")

	r.Register(OpEvaluate, evaluate, "Evaluate")
	r.Register(OpWhen, when, "When")
	r.Register(OpWhenOther, whenOther, "When-Other")
	r.Register(OpEndEvaluate, endEvaluate, "End-Evaluate")

	r.Register(OpTry, blockOpener("try"), "try")
	r.Register(OpCatch, catch, "catch")
	r.Register(OpEndTry, closer("end-try"), "end-try")

	r.Register(OpBreak, keyword("Break"), "Break")
	r.Register(OpContinue, keyword("Continue"), "Continue")
	r.Register(OpExit, keyword("Exit"), "Exit")
	r.Register(OpReturn, keyword("Return"), "Return")
	r.Register(OpThrow, keyword("throw"), "throw")
	r.Register(OpError, keyword("Error"), "Error")
	r.Register(OpWarning, keyword("Warning"), "Warning")
}

// header returns a handler for a statement whose terminator opens a block
// indented by level.
func header(word string, level int) Handler {
	return func(s *state) error {
		s.keyword(word)
		s.openHeader(level)
		return nil
	}
}

// blockOpener returns a handler for a keyword that sits alone on its line
// and opens a block.
func blockOpener(word string) Handler {
	return func(s *state) error {
		s.keyword(word)
		s.newline()
		s.indent++
		return nil
	}
}

// endBlock returns a handler for a closer whose level the decode loop has
// already lowered.
func endBlock(word string) Handler {
	return func(s *state) error {
		s.startLine()
		s.keyword(word)
		return nil
	}
}

// closer returns a handler for a keyword that ends a block.
func closer(word string) Handler {
	return func(s *state) error {
		s.outdent()
		s.keyword(word)
		return nil
	}
}

func ifStatement(s *state) error {
	s.keyword("If")
	s.inIf = true
	return nil
}

func then(s *state) error {
	if !s.inIf {
		s.log.Debug("Then outside an If condition", zap.Int("offset", s.in.Position()))
	}
	s.keyword("Then")
	s.newline()
	s.indent++
	s.inIf = false
	s.endCondition()
	return nil
}

func elseBranch(s *state) error {
	s.outdent()
	s.keyword("Else")
	s.newline()
	s.indent++
	return nil
}

func until(s *state) error {
	s.outdent()
	s.keyword("Until")
	return nil
}

func evaluate(s *state) error {
	s.keyword("Evaluate")
	s.openHeader(0)
	s.evaluates = append(s.evaluates, false)
	return nil
}

// enterWhen leaves the previous When body of the innermost Evaluate, if any,
// and starts the branch line.
func (s *state) enterWhen() {
	if n := len(s.evaluates); n > 0 {
		if s.evaluates[n-1] {
			s.indent--
		}
		s.evaluates[n-1] = true
	}
	s.startLine()
}

func when(s *state) error {
	s.enterWhen()
	s.keyword("When")
	s.openHeader(1)
	return nil
}

func whenOther(s *state) error {
	s.enterWhen()
	s.keyword("When-Other")
	s.newline()
	s.indent++
	return nil
}

func endEvaluate(s *state) error {
	s.startLine()
	s.keyword("End-Evaluate")
	if n := len(s.evaluates); n > 0 {
		s.evaluates = s.evaluates[:n-1]
	}
	return nil
}

func catch(s *state) error {
	s.outdent()
	s.keyword("catch")
	s.openHeader(1)
	return nil
}
