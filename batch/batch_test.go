package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/pcdecode/decompiler"
	pcerrors "github.com/wippyai/pcdecode/errors"
	"github.com/wippyai/pcdecode/manifest"
)

// statement builds a program holding a single "name;" statement.
func statement(name string) []byte {
	prog := make([]byte, decompiler.DefaultHeaderSize)
	prog = append(prog, byte(decompiler.OpPureString))
	for _, c := range name {
		prog = append(prog, byte(c), byte(c>>8))
	}
	prog = append(prog, 0, 0, byte(decompiler.OpSemicolon), byte(decompiler.OpEnd))
	return prog
}

// reference builds a program holding one qualified reference to slot.
func reference(slot uint16) []byte {
	prog := make([]byte, decompiler.DefaultHeaderSize)
	prog = append(prog, byte(decompiler.OpReference), byte(slot), byte(slot>>8), decompiler.RefQualified)
	return append(prog, byte(decompiler.OpSemicolon), byte(decompiler.OpEnd))
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunWritesOutputs(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")

	var jobs []Job
	for i := 0; i < 8; i++ {
		name := fmt.Sprintf("P%d", i)
		jobs = append(jobs, Job{
			Program: manifest.Program{
				Name:     name,
				Bytecode: writeFile(t, dir, name+".bin", statement(name)),
			},
			OutputPath: filepath.Join(out, name+manifest.OutputExt),
		})
	}

	var stats decompiler.Stats
	results, err := NewRunner(Options{Workers: 3, Metrics: &stats}).Run(context.Background(), jobs)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	for i, res := range results {
		want := fmt.Sprintf("P%d;", i)
		if res.Name != jobs[i].Name || res.Output != want {
			t.Errorf("result %d = %q %q, want %q %q", i, res.Name, res.Output, jobs[i].Name, want)
		}
		data, err := os.ReadFile(res.Path)
		if err != nil {
			t.Fatalf("output %d: %v", i, err)
		}
		if string(data) != want {
			t.Errorf("file %d = %q, want %q", i, data, want)
		}
	}

	if snap := stats.Snapshot(); snap.Decodes != 8 || snap.Failures != 0 {
		t.Errorf("stats = %+v", snap)
	}
}

func TestRunIsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	refs := []decompiler.Symbol{{Index: 1, Record: "PSOPRDEFN", Name: "OPRID"}}

	jobs := []Job{
		{Program: manifest.Program{Name: "ok", Bytecode: writeFile(t, dir, "ok.bin", reference(0)), References: refs}},
		{Program: manifest.Program{Name: "missing-ref", Bytecode: writeFile(t, dir, "bad.bin", reference(7)), References: refs}},
		{Program: manifest.Program{Name: "truncated", Bytecode: writeFile(t, dir, "short.bin", []byte{1, 2, 3})}},
		{Program: manifest.Program{Name: "no-file", Bytecode: filepath.Join(dir, "none.bin")}},
	}

	results, err := NewRunner(Options{Workers: 2}).Run(context.Background(), jobs)
	if err == nil {
		t.Fatal("expected combined error")
	}
	if n := len(multierr.Errors(err)); n != 3 {
		t.Errorf("got %d errors, want 3: %v", n, err)
	}

	if results[0].Err != nil || results[0].Output != "PSOPRDEFN.OPRID;" {
		t.Errorf("ok job = %q, %v", results[0].Output, results[0].Err)
	}
	if !errors.Is(results[1].Err, pcerrors.ErrReferenceNotFound) {
		t.Errorf("missing-ref: %v", results[1].Err)
	}
	if !errors.Is(results[2].Err, pcerrors.ErrDecode) {
		t.Errorf("truncated: %v", results[2].Err)
	}
	if !errors.Is(results[3].Err, os.ErrNotExist) {
		t.Errorf("no-file: %v", results[3].Err)
	}

	var e *pcerrors.Error
	if !errors.As(results[1].Err, &e) || e.Program != "missing-ref" {
		t.Errorf("program name not attached: %v", results[1].Err)
	}

	if failed := Failed(results); len(failed) != 3 || failed[0].Name != "missing-ref" {
		t.Errorf("Failed = %v", failed)
	}
}

func TestRunCanceled(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	jobs := []Job{{Program: manifest.Program{Name: "a", Bytecode: writeFile(t, dir, "a.bin", statement("A"))}}}
	results, err := NewRunner(Options{}).Run(ctx, jobs)
	if err == nil {
		t.Fatal("expected error")
	}
	var e *pcerrors.Error
	if !errors.As(results[0].Err, &e) || e.Kind != pcerrors.KindCanceled {
		t.Fatalf("got %v, want canceled", results[0].Err)
	}
	if e.Program != "a" {
		t.Errorf("program = %q, want a", e.Program)
	}
	if !errors.Is(results[0].Err, context.Canceled) {
		t.Error("context error not preserved")
	}
}

func TestRunVerify(t *testing.T) {
	dir := t.TempDir()
	prog := writeFile(t, dir, "a.bin", statement("A"))

	tests := []struct {
		name     string
		expected string
		wantErr  bool
	}{
		{"identical", "A;", false},
		{"lf endings and trailing newline", "A;\n", false},
		{"different", "B;\r\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := Job{Program: manifest.Program{
				Name:     "a",
				Bytecode: prog,
				Expected: writeFile(t, t.TempDir(), "a.pcode", []byte(tt.expected)),
			}}
			results, err := NewRunner(Options{Verify: true}).Run(context.Background(), []Job{job})
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(results[0].Err, pcerrors.ErrMismatch) {
				t.Errorf("got %v, want ErrMismatch", results[0].Err)
			}
			if results[0].Output != "A;" {
				t.Errorf("output = %q", results[0].Output)
			}
		})
	}
}

func TestRunTrace(t *testing.T) {
	dir := t.TempDir()
	jobs := []Job{
		{Program: manifest.Program{Name: "a", Bytecode: writeFile(t, dir, "a.bin", statement("A"))}},
		{Program: manifest.Program{Name: "b", Bytecode: writeFile(t, dir, "b.bin", statement("B"))}},
	}

	var mu sync.Mutex
	seen := make(map[string]int)
	opts := Options{
		Workers: 2,
		Trace: func(job string, ev decompiler.TraceEvent) {
			mu.Lock()
			seen[job]++
			mu.Unlock()
		},
	}
	if _, err := NewRunner(opts).Run(context.Background(), jobs); err != nil {
		t.Fatal(err)
	}
	if seen["a"] != 2 || seen["b"] != 2 {
		t.Errorf("trace counts = %v, want 2 per job", seen)
	}
}

func TestRunLogsFailures(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	jobs := []Job{{Program: manifest.Program{Name: "gone", Bytecode: filepath.Join(t.TempDir(), "gone.bin")}}}

	_, _ = NewRunner(Options{Logger: zap.New(core)}).Run(context.Background(), jobs)

	entries := logs.FilterMessage("decode failed").All()
	if len(entries) != 1 {
		t.Fatalf("got %d warnings, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["program"]; got != "gone" {
		t.Errorf("program field = %v", got)
	}
}

func TestRunManifest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.bin", statement("A"))
	writeFile(t, dir, "a.pcode", []byte("A;\r\n"))
	doc := []byte(`
workers: 2
output_dir: out
programs:
  - name: A.FieldFormula
    bytecode: a.bin
    expected: a.pcode
`)
	m, err := manifest.Parse(doc, dir)
	if err != nil {
		t.Fatal(err)
	}

	results, err := RunManifest(context.Background(), m, Options{Verify: true})
	if err != nil {
		t.Fatalf("RunManifest: %v", err)
	}
	want := filepath.Join(dir, "out", "A.FieldFormula.pcode")
	if results[0].Path != want {
		t.Errorf("Path = %q, want %q", results[0].Path, want)
	}
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name     string
		got      string
		want     string
		wantLine int
	}{
		{"equal", "A;\r\nB;", "A;\r\nB;\r\n", 0},
		{"trailing spaces ignored", "A;\r\nB;", "A;  \nB;", 0},
		{"second line differs", "A;\r\nB;", "A;\r\nC;", 2},
		{"output shorter", "A;", "A;\r\n\r\nB;", 2},
		{"output longer", "A;\r\nB;", "A;", 2},
		{"both empty", "", "\r\n", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Verify("p", tt.got, []byte(tt.want))
			if tt.wantLine == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var e *pcerrors.Error
			if !errors.As(err, &e) || e.Kind != pcerrors.KindMismatch {
				t.Fatalf("got %v, want mismatch", err)
			}
			if e.Value != tt.wantLine {
				t.Errorf("line = %v, want %d", e.Value, tt.wantLine)
			}
		})
	}
}
