package decompiler

import (
	"errors"
	"testing"

	pcerrors "github.com/wippyai/pcdecode/errors"
)

func TestSymbolTableResolve(t *testing.T) {
	table := NewSymbolTable([]Symbol{
		{Index: 1, Record: "PSOPRDEFN", Name: "OPRID"},
		{Index: 2, Record: "record", Name: " JOB "},
		{Index: 3, Record: "scroll", Name: "LEVEL1"},
	})

	tests := []struct {
		index   int
		context byte
		want    string
	}{
		{1, RefQualified, "PSOPRDEFN.OPRID"},
		{1, RefBare, "OPRID"},
		{1, RefQuoted, `PSOPRDEFN."OPRID"`},
		{2, RefQuoted, `Record."JOB"`},
		{3, RefQualified, "Scroll.LEVEL1"},
		{1, 0x7F, ""},
	}

	for _, tt := range tests {
		got, err := table.Resolve(tt.index, tt.context)
		if err != nil {
			t.Fatalf("Resolve(%d, %d): %v", tt.index, tt.context, err)
		}
		if got != tt.want {
			t.Errorf("Resolve(%d, %d) = %q, want %q", tt.index, tt.context, got, tt.want)
		}
	}
}

func TestSymbolTableMissing(t *testing.T) {
	table := NewSymbolTable([]Symbol{{Index: 1, Record: "R", Name: "F"}})

	for _, index := range []int{0, 2, -1} {
		_, err := table.Resolve(index, RefQualified)
		if !errors.Is(err, pcerrors.ErrReferenceNotFound) {
			t.Errorf("Resolve(%d): got %v, want ErrReferenceNotFound", index, err)
		}
	}

	var nilTable *SymbolTable
	if _, err := nilTable.Resolve(1, RefBare); !errors.Is(err, pcerrors.ErrReferenceNotFound) {
		t.Errorf("nil table: got %v", err)
	}
	if nilTable.Len() != 0 || nilTable.Symbols() != nil {
		t.Error("nil table not empty")
	}
}

func TestSymbolTableDuplicateIndex(t *testing.T) {
	table := NewSymbolTable([]Symbol{
		{Index: 1, Record: "A", Name: "X"},
		{Index: 1, Record: "B", Name: "Y"},
	})
	sym, ok := table.Lookup(1)
	if !ok || sym.Record != "B" {
		t.Errorf("Lookup(1) = %+v, %v; want later entry", sym, ok)
	}
	if table.Len() != 2 {
		t.Errorf("Len = %d, want 2", table.Len())
	}
}

func TestSymbolTableIsolation(t *testing.T) {
	in := []Symbol{{Index: 1, Record: "A", Name: "X"}}
	table := NewSymbolTable(in)
	in[0].Name = "changed"

	out := table.Symbols()
	out[0].Name = "also changed"

	if sym, _ := table.Lookup(1); sym.Name != "X" {
		t.Errorf("table mutated through caller slice: %q", sym.Name)
	}
}
