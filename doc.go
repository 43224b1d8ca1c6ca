// Package pcdecode turns stored PeopleCode bytecode back into source text.
//
// Programs are kept by the application as a tokenized byte stream plus a
// table of the record and field names they reference. This module decodes
// that stream in a single pass and reproduces the text the application's
// own editor shows, down to its spacing, CRLF line endings and the extra
// indentation of chained And/Or conditions.
//
// # Architecture Overview
//
//	pcdecode/
//	├── decompiler/      Opcode table, handlers and the decode loop
//	│   └── internal/    Byte stream reader, output builder, boolean frame stack
//	├── manifest/        YAML batch manifests and symbol files
//	├── batch/           Concurrent decoding of many programs, verification
//	├── errors/          Structured error types for debugging
//	└── cmd/pcdecode/    Command line tool and interactive viewer
//
// # Quick Start
//
// Decode one program:
//
//	symbols := decompiler.NewSymbolTable([]decompiler.Symbol{
//		{Index: 1, Record: "PSOPRDEFN", Name: "OPRID"},
//	})
//	src, err := decompiler.Decompile(program, symbols)
//
// Decode a batch described by a manifest:
//
//	m, err := manifest.Load("batch.yaml")
//	results, err := batch.RunManifest(ctx, m, batch.Options{Verify: true})
//
// # Error Handling
//
// Errors are *errors.Error values carrying the phase and kind of failure,
// the program name and the byte offset. Match them with the sentinels:
//
//	if errors.Is(err, pcerrors.ErrReferenceNotFound) {
//		// symbol table and bytecode come from different snapshots
//	}
//
// # Thread Safety
//
// Every decode owns its state. Symbol tables and Stats may be shared between
// goroutines.
package pcdecode
