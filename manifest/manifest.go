package manifest

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/pcdecode/decompiler"
	"github.com/wippyai/pcdecode/errors"
)

// OutputExt is appended to a program name to form its output file name.
const OutputExt = ".pcode"

// Manifest describes a batch of programs to decode.
type Manifest struct {
	OutputDir  string    `yaml:"output_dir,omitempty"`
	Programs   []Program `yaml:"programs"`
	HeaderSize int       `yaml:"header_size,omitempty"`
	Workers    int       `yaml:"workers,omitempty"`

	dir string
}

// Program is one decode job. Paths are absolute once the manifest is loaded.
type Program struct {
	Name     string `yaml:"name"`
	Bytecode string `yaml:"bytecode"`
	// Symbols names a symbol file. Inline References are used instead when
	// it is empty.
	Symbols    string              `yaml:"symbols,omitempty"`
	References []decompiler.Symbol `yaml:"references,omitempty"`
	// Expected names a stored copy of the source the output is checked against.
	Expected string `yaml:"expected,omitempty"`
}

// SymbolFile is the on-disk form of a symbol table.
type SymbolFile struct {
	References []decompiler.Symbol `yaml:"references"`
}

// Load reads and validates the manifest at path. Relative paths inside it are
// resolved against the manifest's directory.
func Load(path string) (*Manifest, error) {
	data, err := readFile(path, "manifest")
	if err != nil {
		return nil, err
	}
	m, err := Parse(data, filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	Logger().Debug("loaded manifest",
		zap.String("path", path),
		zap.Int("programs", len(m.Programs)))
	return m, nil
}

// Parse decodes a manifest from data, resolving relative paths against dir.
func Parse(data []byte, dir string) (*Manifest, error) {
	var m Manifest
	if err := decodeStrict(data, &m); err != nil {
		return nil, err
	}
	m.dir = dir
	if err := m.validate(); err != nil {
		return nil, err
	}

	m.OutputDir = m.resolve(m.OutputDir)
	for i := range m.Programs {
		p := &m.Programs[i]
		p.Bytecode = m.resolve(p.Bytecode)
		p.Symbols = m.resolve(p.Symbols)
		p.Expected = m.resolve(p.Expected)
	}
	return &m, nil
}

// Dir returns the directory relative paths were resolved against.
func (m *Manifest) Dir() string {
	return m.dir
}

// OutputPath returns where the decoded text of p is written, or "" when the
// manifest has no output directory.
func (m *Manifest) OutputPath(p Program) string {
	if m.OutputDir == "" {
		return ""
	}
	return filepath.Join(m.OutputDir, p.Name+OutputExt)
}

func (m *Manifest) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(m.dir, path)
}

func (m *Manifest) validate() error {
	if m.HeaderSize < 0 {
		return errors.InvalidInput(errors.PhaseLoad,
			fmt.Sprintf("header_size must not be negative, got %d", m.HeaderSize))
	}
	if m.Workers < 0 {
		return errors.InvalidInput(errors.PhaseLoad,
			fmt.Sprintf("workers must not be negative, got %d", m.Workers))
	}
	if len(m.Programs) == 0 {
		return errors.InvalidInput(errors.PhaseLoad, "manifest lists no programs")
	}

	seen := make(map[string]bool, len(m.Programs))
	for i, p := range m.Programs {
		switch {
		case p.Name == "":
			return errors.InvalidInput(errors.PhaseLoad, fmt.Sprintf("programs[%d]: missing name", i))
		case strings.ContainsAny(p.Name, `/\`) || p.Name == "." || p.Name == "..":
			return errors.InvalidInput(errors.PhaseLoad, fmt.Sprintf("programs[%d]: name %q is not a file name", i, p.Name))
		case seen[p.Name]:
			return errors.InvalidInput(errors.PhaseLoad, fmt.Sprintf("programs[%d]: duplicate name %q", i, p.Name))
		case p.Bytecode == "":
			return errors.InvalidInput(errors.PhaseLoad, fmt.Sprintf("program %s: missing bytecode", p.Name))
		case p.Symbols != "" && len(p.References) > 0:
			return errors.InvalidInput(errors.PhaseLoad, fmt.Sprintf("program %s: both symbols and references given", p.Name))
		}
		if err := validateSymbols(p.References); err != nil {
			return errors.InProgram(p.Name, err)
		}
		seen[p.Name] = true
	}
	return nil
}

// ReadBytecode returns the program's bytecode.
func (p Program) ReadBytecode() ([]byte, error) {
	return readFile(p.Bytecode, "bytecode")
}

// SymbolTable returns the program's symbol table, loading its symbol file
// when one is named.
func (p Program) SymbolTable() (*decompiler.SymbolTable, error) {
	if p.Symbols == "" {
		return decompiler.NewSymbolTable(p.References), nil
	}
	return LoadSymbols(p.Symbols)
}

// ReadExpected returns the stored reference copy, or nil when p has none.
func (p Program) ReadExpected() ([]byte, error) {
	if p.Expected == "" {
		return nil, nil
	}
	return readFile(p.Expected, "expected output")
}

// LoadSymbols reads a symbol file.
func LoadSymbols(path string) (*decompiler.SymbolTable, error) {
	data, err := readFile(path, "symbol file")
	if err != nil {
		return nil, err
	}
	return ParseSymbols(data)
}

// ParseSymbols decodes a symbol file from data.
func ParseSymbols(data []byte) (*decompiler.SymbolTable, error) {
	var f SymbolFile
	if err := decodeStrict(data, &f); err != nil {
		return nil, err
	}
	if err := validateSymbols(f.References); err != nil {
		return nil, err
	}
	return decompiler.NewSymbolTable(f.References), nil
}

func validateSymbols(symbols []decompiler.Symbol) error {
	for i, s := range symbols {
		if s.Index < 1 {
			return errors.InvalidInput(errors.PhaseLoad,
				fmt.Sprintf("references[%d]: index must be at least 1, got %d", i, s.Index))
		}
		if s.Name == "" {
			return errors.InvalidInput(errors.PhaseLoad,
				fmt.Sprintf("references[%d]: missing name", i))
		}
	}
	return nil
}

// decodeStrict unmarshals a single YAML document, rejecting unknown keys.
func decodeStrict(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		if stderrors.Is(err, io.EOF) {
			return errors.InvalidInput(errors.PhaseLoad, "empty document")
		}
		return errors.Load("parse yaml", err)
	}
	return nil
}

func readFile(path, what string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		return data, nil
	}
	if stderrors.Is(err, fs.ErrNotExist) {
		e := errors.NotFound(errors.PhaseLoad, what, path)
		e.Cause = err
		return nil, e
	}
	return nil, errors.Load("read "+what, err)
}
