package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wippyai/pcdecode/decompiler"
)

func statement(name string) []byte {
	prog := make([]byte, decompiler.DefaultHeaderSize)
	prog = append(prog, byte(decompiler.OpPureString))
	for _, c := range name {
		prog = append(prog, byte(c), byte(c>>8))
	}
	return append(prog, 0, 0, byte(decompiler.OpSemicolon), byte(decompiler.OpEnd))
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRunSingle(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "prog.bin")
	writeFile(t, in, statement("Hello"))

	var stdout, stderr bytes.Buffer
	if err := run(context.Background(), config{in: in}, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := stdout.String(); got != "Hello;\n" {
		t.Errorf("stdout = %q", got)
	}
}

func TestRunSingleTrace(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "prog.bin")
	writeFile(t, in, statement("A"))

	var stdout, stderr bytes.Buffer
	if err := run(context.Background(), config{in: in, trace: true}, &stdout, &stderr); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(stderr.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d trace lines, want 2:\n%s", len(lines), stderr.String())
	}
	if !strings.HasPrefix(lines[0], "prog ") || !strings.Contains(lines[1], ";") {
		t.Errorf("unexpected trace:\n%s", stderr.String())
	}
}

func TestRunSingleVerifyMismatch(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "prog.bin")
	writeFile(t, in, statement("A"))
	expected := filepath.Join(dir, "prog.pcode")
	writeFile(t, expected, []byte("B;\r\n"))

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), config{in: in, expected: expected}, &stdout, &stderr)
	if err == nil || !strings.Contains(err.Error(), "line 1") {
		t.Fatalf("got %v, want mismatch on line 1", err)
	}
}

func TestRunManifest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.bin"), statement("A"))
	writeFile(t, filepath.Join(dir, "b.bin"), []byte{1, 2})
	writeFile(t, filepath.Join(dir, "batch.yaml"), []byte(`
programs:
  - name: A
    bytecode: a.bin
  - name: B
    bytecode: b.bin
`))

	out := filepath.Join(dir, "out")
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), config{manifest: filepath.Join(dir, "batch.yaml"), out: out, workers: 2}, &stdout, &stderr)
	if err == nil {
		t.Fatal("expected error for program B")
	}

	report := stdout.String()
	if !strings.Contains(report, "ok   A -> ") || !strings.Contains(report, "FAIL B") {
		t.Errorf("report:\n%s", report)
	}
	if !strings.Contains(report, "1 decoded, 1 failed") {
		t.Errorf("summary missing:\n%s", report)
	}

	data, err := os.ReadFile(filepath.Join(out, "A.pcode"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "A;" {
		t.Errorf("A.pcode = %q", data)
	}
}

func TestViewerModel(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "prog.bin")
	writeFile(t, in, statement("A"))

	m := newViewerModel(config{in: in})
	m.Update(m.load())
	if len(m.visible) != 1 {
		t.Fatalf("visible = %v", m.visible)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter did not start a decode")
	}
	m.Update(cmd())
	if m.state != stateView || m.source != "A;" {
		t.Fatalf("state = %v, source = %q, err = %v", m.state, m.source, m.err)
	}
	if len(m.trace) != 2 {
		t.Errorf("trace has %d events, want 2", len(m.trace))
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}})
	if !m.showTrace {
		t.Error("t did not switch to the trace")
	}
	if !strings.Contains(m.View(), "pure-string") {
		t.Error("trace view does not name the tokens")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != stateSelect {
		t.Error("esc did not return to the program list")
	}
}

func TestProgramName(t *testing.T) {
	if got := programName("/x/PSOPRDEFN.FieldFormula.bin"); got != "PSOPRDEFN.FieldFormula" {
		t.Errorf("programName = %q", got)
	}
}
