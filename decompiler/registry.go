package decompiler

// Handler decodes one token. The opcode byte has already been consumed; the
// handler reads any payload from the state's stream and writes text.
type Handler func(s *state) error

// Registry maps opcodes to their handlers.
//
// The registry provides O(1) handler lookup by opcode. Opcodes without a
// handler are skipped by the decoder.
type Registry struct {
	handlers [256]Handler
	names    [256]string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a handler for a single opcode.
//
// If a handler was already registered for this opcode, it is replaced.
// The name is used for traces and error messages.
func (r *Registry) Register(op Opcode, h Handler, name string) {
	r.handlers[op] = h
	r.names[op] = name
}

// RegisterBulk registers the same handler for multiple opcodes.
func (r *Registry) RegisterBulk(ops []Opcode, h Handler, name string) {
	for _, op := range ops {
		r.Register(op, h, name)
	}
}

// Get returns the handler for an opcode, or nil if not registered.
func (r *Registry) Get(op Opcode) Handler {
	return r.handlers[op]
}

// Has returns true if a handler is registered for the opcode.
func (r *Registry) Has(op Opcode) bool {
	return r.handlers[op] != nil
}

// Name returns the name of the handler for an opcode.
func (r *Registry) Name(op Opcode) string {
	return r.names[op]
}

// Opcodes returns every registered opcode in ascending order.
func (r *Registry) Opcodes() []Opcode {
	var ops []Opcode
	for i, h := range r.handlers {
		if h != nil {
			ops = append(ops, Opcode(i))
		}
	}
	return ops
}

var defaultRegistry = newDefaultRegistry()

// DefaultRegistry returns the registry the decoder uses.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

func newDefaultRegistry() *Registry {
	r := NewRegistry()
	registerLiterals(r)
	registerOperators(r)
	registerPunctuation(r)
	registerControl(r)
	registerDeclarations(r)
	registerClasses(r)
	registerComments(r)
	r.Register(OpEnd, func(*state) error { return nil }, "end")
	return r
}
