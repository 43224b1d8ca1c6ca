package decompiler

import "testing"

// program assembles test bytecode behind a zeroed header.
type program struct {
	buf []byte
}

func newProgram() *program {
	return &program{buf: make([]byte, DefaultHeaderSize)}
}

func utf16(s string) []byte {
	var out []byte
	for _, c := range s {
		out = append(out, byte(c), byte(c>>8))
	}
	return out
}

func (p *program) op(ops ...Opcode) *program {
	for _, op := range ops {
		p.buf = append(p.buf, byte(op))
	}
	return p
}

func (p *program) raw(b ...byte) *program {
	p.buf = append(p.buf, b...)
	return p
}

// name writes a pure-string token.
func (p *program) name(v string) *program {
	p.op(OpPureString)
	p.buf = append(p.buf, utf16(v)...)
	p.buf = append(p.buf, 0, 0)
	return p
}

func (p *program) quoted(v string) *program {
	p.op(OpQuotedString)
	p.buf = append(p.buf, utf16(v)...)
	p.buf = append(p.buf, 0, 0)
	return p
}

func (p *program) num(magnitude uint64, places byte) *program {
	p.op(OpNumber)
	buf := make([]byte, 18)
	buf[1] = places
	for i := 0; i < 8; i++ {
		buf[2+i] = byte(magnitude >> (8 * i))
	}
	p.buf = append(p.buf, buf...)
	return p
}

func (p *program) ref(slot uint16, context byte) *program {
	p.op(OpReference)
	p.buf = append(p.buf, byte(slot), byte(slot>>8), context)
	return p
}

func (p *program) comment(op Opcode, v string) *program {
	p.op(op)
	b := utf16(v)
	p.buf = append(p.buf, byte(len(b)), byte(len(b)>>8))
	p.buf = append(p.buf, b...)
	return p
}

// block writes a token carrying length-prefixed text.
func (p *program) block(op Opcode, v string) *program {
	return p.comment(op, v)
}

func (p *program) end() []byte {
	return append(p.op(OpEnd).buf, 0xAA, 0xBB)
}

func mustDecompile(t *testing.T, prog []byte, symbols *SymbolTable) string {
	t.Helper()
	out, err := Decompile(prog, symbols)
	if err != nil {
		t.Fatalf("Decompile: %v", err)
	}
	return out
}
