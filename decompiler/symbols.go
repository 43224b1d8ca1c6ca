package decompiler

import (
	"strings"

	"github.com/wippyai/pcdecode/errors"
)

// Reference context bytes. They follow the symbol index inside an
// OpReference token and select how the resolved name is written.
const (
	RefQualified byte = 0x00 // Record.Name
	RefBare      byte = 0x01 // Name
	RefQuoted    byte = 0x02 // Record."Name"
)

// Symbol is one entry of a program's reference table.
type Symbol struct {
	Index  int    `yaml:"index"`
	Record string `yaml:"record"`
	Name   string `yaml:"name"`
}

// SymbolTable maps 1-based reference indices to qualified names. It is not
// modified after construction and may be shared between concurrent decodes.
type SymbolTable struct {
	symbols []Symbol
	byIndex map[int]int
}

// NewSymbolTable builds a table from symbols. When two entries share an
// index the later one wins.
func NewSymbolTable(symbols []Symbol) *SymbolTable {
	t := &SymbolTable{
		symbols: make([]Symbol, len(symbols)),
		byIndex: make(map[int]int, len(symbols)),
	}
	copy(t.symbols, symbols)
	for i, s := range t.symbols {
		t.byIndex[s.Index] = i
	}
	return t
}

// Len returns the number of symbols.
func (t *SymbolTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.symbols)
}

// Symbols returns a copy of the table entries in their original order.
func (t *SymbolTable) Symbols() []Symbol {
	if t == nil {
		return nil
	}
	out := make([]Symbol, len(t.symbols))
	copy(out, t.symbols)
	return out
}

// Lookup returns the symbol stored under index.
func (t *SymbolTable) Lookup(index int) (Symbol, bool) {
	if t == nil {
		return Symbol{}, false
	}
	i, ok := t.byIndex[index]
	if !ok {
		return Symbol{}, false
	}
	return t.symbols[i], true
}

// Resolve returns the source text for the symbol at index written in the
// form context selects. Unknown context values resolve to "".
func (t *SymbolTable) Resolve(index int, context byte) (string, error) {
	sym, ok := t.Lookup(index)
	if !ok {
		return "", errors.ReferenceNotFound(index)
	}
	record := normalizeRecord(sym.Record)

	switch context {
	case RefQualified:
		return record + "." + sym.Name, nil
	case RefBare:
		return sym.Name, nil
	case RefQuoted:
		return record + `."` + strings.TrimSpace(sym.Name) + `"`, nil
	default:
		return "", nil
	}
}

// definitionKeywords are record names that denote a definition type rather
// than a database record; they are written in their canonical spelling.
var definitionKeywords = func() map[string]string {
	words := []string{
		"Record", "Field", "Scroll", "Page", "Component", "Panel", "PanelGroup",
		"MenuName", "BarName", "ItemName", "SQL", "HTML", "Image", "FileLayout",
		"Message", "Operation", "BusProcess", "BusActivity", "BusEvent",
		"CompIntfc", "Interlink", "Node", "StyleSheet", "URL",
	}
	m := make(map[string]string, len(words))
	for _, w := range words {
		m[strings.ToUpper(w)] = w
	}
	return m
}()

func normalizeRecord(name string) string {
	if kw, ok := definitionKeywords[strings.ToUpper(name)]; ok {
		return kw
	}
	return name
}
