package decompiler

import "fmt"

// Opcode is a single token byte of the program bytecode.
type Opcode byte

// Token opcodes. Values not listed here are skipped by the decoder.
const (
	OpPureString   Opcode = 0x00 // identifier text, UTF-16 zero-terminated
	OpIdentifier   Opcode = 0x01 // system name text, UTF-16 zero-terminated
	OpNumber       Opcode = 0x02 // packed decimal
	OpComma        Opcode = 0x03
	OpDivide       Opcode = 0x04
	OpPeriod       Opcode = 0x05
	OpEqual        Opcode = 0x06
	OpEnd          Opcode = 0x07 // end of program
	OpGreaterEqual Opcode = 0x08
	OpGreater      Opcode = 0x09
	OpOpenParen    Opcode = 0x0A
	OpLessEqual    Opcode = 0x0B
	OpLess         Opcode = 0x0C
	OpMinus        Opcode = 0x0D
	OpMultiply     Opcode = 0x0E
	OpNotEqual     Opcode = 0x0F
	OpPlus         Opcode = 0x10
	OpPower        Opcode = 0x11
	OpSemicolon    Opcode = 0x12 // statement terminator
	OpCloseParen   Opcode = 0x13
	OpQuotedString Opcode = 0x14 // string literal, UTF-16 zero-terminated
	OpReference    Opcode = 0x15 // u16 symbol index + context byte
	OpIf           Opcode = 0x16
	OpThen         Opcode = 0x17
	OpElse         Opcode = 0x18
	OpEndIf        Opcode = 0x19
	OpAnd          Opcode = 0x1A
	OpOr           Opcode = 0x1B
	OpNot          Opcode = 0x1C
	OpConcat       Opcode = 0x1D
	OpComment      Opcode = 0x1E // comment on its own line
	OpWhile        Opcode = 0x1F
	OpEndWhile     Opcode = 0x20
	OpRepeat       Opcode = 0x21
	OpUntil        Opcode = 0x22
	OpFor          Opcode = 0x23
	OpTo           Opcode = 0x24
	OpStep         Opcode = 0x25
	OpEndFor       Opcode = 0x26
	OpBreak        Opcode = 0x27
	OpTrue         Opcode = 0x28
	OpFalse        Opcode = 0x29
	OpDeclare      Opcode = 0x2A
	OpFunction     Opcode = 0x2B
	OpLibrary      Opcode = 0x2C
	OpAs           Opcode = 0x2D
	OpValue        Opcode = 0x2E
	OpEndFunction  Opcode = 0x2F
	OpReturn       Opcode = 0x30
	OpReturns      Opcode = 0x31
	OpPeopleCode   Opcode = 0x32
	OpRef          Opcode = 0x33
	OpEvaluate     Opcode = 0x34
	OpWhen         Opcode = 0x35
	OpWhenOther    Opcode = 0x36
	OpEndEvaluate  Opcode = 0x37
	OpExit         Opcode = 0x38
	OpLocal        Opcode = 0x39
	OpGlobal       Opcode = 0x3A
	OpConstant     Opcode = 0x3B
	OpComponent    Opcode = 0x3C
	OpAt           Opcode = 0x3D
	OpNull         Opcode = 0x3E
	OpOpenBracket  Opcode = 0x3F
	OpCloseBracket Opcode = 0x40
	OpLineComment  Opcode = 0x41 // comment kept on the previous statement's line
	OpColon        Opcode = 0x42
	OpInstance     Opcode = 0x43
	OpCreate       Opcode = 0x44
	OpImport       Opcode = 0x45
	OpClass        Opcode = 0x46
	OpEndClass     Opcode = 0x47
	OpExtends      Opcode = 0x48
	OpImplements   Opcode = 0x49
	OpMethod       Opcode = 0x4A
	OpEndMethod    Opcode = 0x4B
	OpProperty     Opcode = 0x4C
	OpGet          Opcode = 0x4D
	OpEndGet       Opcode = 0x4E
	OpSet          Opcode = 0x4F
	OpEndSet       Opcode = 0x50
	OpReadOnly     Opcode = 0x51
	OpPrivate      Opcode = 0x52
	OpOut          Opcode = 0x53
	OpAbstract     Opcode = 0x54
	OpInterface    Opcode = 0x55
	OpEndInterface Opcode = 0x56
	OpTry          Opcode = 0x57
	OpCatch        Opcode = 0x58
	OpEndTry       Opcode = 0x59
	OpThrow        Opcode = 0x5A
	OpContinue     Opcode = 0x5B
	OpProtected    Opcode = 0x5C
	OpNegate       Opcode = 0x5D // unary minus
	OpOf           Opcode = 0x5E
	OpError        Opcode = 0x5F
	OpWarning      Opcode = 0x60

	OpDocComment         Opcode = 0x6E // length-prefixed block on its own line
	OpEmbeddedText       Opcode = 0x6F // length-prefixed text inline
	OpInterfaceBlock     Opcode = 0x70 // length-prefixed block, verbatim
	OpSuper              Opcode = 0x73
	OpThis               Opcode = 0x74
	OpQualifiedReference Opcode = 0x79 // u16 symbol index, Record.Name form
)

func (op Opcode) String() string {
	if name := defaultRegistry.Name(op); name != "" {
		return name
	}
	return fmt.Sprintf("op(0x%02x)", byte(op))
}

// noSpaceAfter lists tokens the next token attaches to directly.
var noSpaceAfter = opSet(OpCloseParen, OpColon, OpPeriod, OpAt, OpNegate)

// operatorAttach lists tokens after which an operator is written without a
// separating space.
var operatorAttach = opSet(OpOpenParen, OpOpenBracket, OpNegate, OpAt)

// callable lists tokens an opening parenthesis or bracket attaches to.
var callable = opSet(OpPureString, OpIdentifier, OpReference, OpQualifiedReference,
	OpCloseParen, OpCloseBracket, OpSuper, OpThis, OpExit)

// attachLeft lists tokens that strip the space in front of them.
var attachLeft = opSet(OpPeriod, OpComma, OpSemicolon, OpCloseParen, OpCloseBracket)

// preOutdent lists closers whose indent drops before line padding is written.
var preOutdent = opSet(OpEndIf, OpEndWhile, OpEndFor, OpEndEvaluate)

type opFlags [256]bool

func opSet(ops ...Opcode) *opFlags {
	var f opFlags
	for _, op := range ops {
		f[op] = true
	}
	return &f
}

func (f *opFlags) has(op Opcode) bool {
	return f[op]
}
