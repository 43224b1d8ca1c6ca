// Package decompiler turns tokenized program bytecode into formatted source
// text.
//
// A stored program is a 37-byte header followed by a stream of one-byte
// opcodes, some carrying a payload (UTF-16 strings, packed decimals,
// comments, symbol references). The decoder runs a single pass over the
// stream and reproduces the application's own formatting: CRLF line endings,
// three-space indentation, its spacing rules, and the extra indentation of
// chained And/Or conditions.
//
// # Decoding
//
//	symbols := decompiler.NewSymbolTable([]decompiler.Symbol{
//		{Index: 1, Record: "PSOPRDEFN", Name: "OPRID"},
//	})
//	src, err := decompiler.Decompile(program, symbols)
//	if errors.Is(err, pcerrors.ErrReferenceNotFound) {
//		// symbol table and bytecode come from different snapshots
//	}
//
// # Concurrency
//
// Each call owns its state. Decompile may run on many goroutines at once;
// a SymbolTable and a Stats sink may be shared between them.
//
// # Opcodes
//
// The handler table is exposed through DefaultRegistry so individual tokens
// can be inspected or traced. Opcodes without a handler are skipped, which
// keeps programs compiled by newer application releases decodable.
package decompiler
