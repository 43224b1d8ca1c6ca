// Package manifest loads YAML descriptions of decode batches and symbol
// tables.
//
// A manifest lists programs by name with the path of their bytecode, their
// symbol table (a separate file or an inline list) and optionally a stored
// copy of the expected source:
//
//	header_size: 37
//	workers: 4
//	output_dir: out
//	programs:
//	  - name: PSOPRDEFN.FieldFormula
//	    bytecode: progs/psoprdefn.bin
//	    symbols: progs/psoprdefn.refs.yaml
//	    expected: progs/psoprdefn.pcode
//
// A symbol file holds a single references list:
//
//	references:
//	  - {index: 1, record: PSOPRDEFN, name: OPRID}
//
// Unknown keys are rejected. Relative paths resolve against the directory of
// the manifest file.
package manifest
