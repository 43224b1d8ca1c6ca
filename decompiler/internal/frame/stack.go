package frame

// Bool is the last boolean connective seen within a frame.
type Bool uint8

const (
	None Bool = iota
	And
	Or
)

func (b Bool) String() string {
	switch b {
	case And:
		return "And"
	case Or:
		return "Or"
	default:
		return "None"
	}
}

// Frame tracks the extra indentation of chained And/Or clauses at one
// parenthesis depth.
type Frame struct {
	Indent      int
	Last        Bool
	AndIndented bool
}

// Stack holds one Frame per open parenthesis on top of a base frame that is
// never popped.
type Stack struct {
	frames []Frame
}

// NewStack creates a Stack holding only the base frame.
func NewStack() *Stack {
	return &Stack{frames: make([]Frame, 1, 8)}
}

// Top returns the current frame.
func (s *Stack) Top() *Frame {
	return &s.frames[len(s.frames)-1]
}

// Depth returns the number of frames, base frame included.
func (s *Stack) Depth() int {
	return len(s.frames)
}

// Push opens a frame that inherits the current indent.
func (s *Stack) Push() {
	s.frames = append(s.frames, Frame{Indent: s.Top().Indent})
}

// Pop closes the current frame. Popping the base frame is a no-op and
// reports false.
func (s *Stack) Pop() bool {
	if len(s.frames) == 1 {
		return false
	}
	s.frames = s.frames[:len(s.frames)-1]
	return true
}

// Reset clears the current frame at the end of a condition.
func (s *Stack) Reset() {
	*s.Top() = Frame{}
}

// And applies the And clause rule to the current frame.
func (s *Stack) And() {
	f := s.Top()
	if !f.AndIndented {
		f.Indent++
		f.AndIndented = true
	}
	if f.Last == Or {
		f.Indent++
	}
	f.Last = And
}

// Or applies the Or clause rule to the current frame.
func (s *Stack) Or() {
	f := s.Top()
	if !f.AndIndented {
		f.Indent++
		f.AndIndented = true
	}
	if f.AndIndented && f.Last == And && f.Indent > 1 {
		f.Indent--
	}
	f.Last = Or
}
