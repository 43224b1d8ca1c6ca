package batch

import (
	"strings"

	"github.com/wippyai/pcdecode/errors"
)

// Verify compares decoded text with a stored copy of the same program. Line
// endings and trailing blank space are normalized first; the error names the
// first line that differs.
func Verify(name, got string, want []byte) error {
	g := splitLines(got)
	w := splitLines(string(want))

	n := min(len(g), len(w))
	for i := 0; i < n; i++ {
		if g[i] != w[i] {
			return errors.Mismatch(name, i+1, g[i], w[i])
		}
	}
	switch {
	case len(g) > n:
		return errors.Mismatch(name, n+1, g[n], "")
	case len(w) > n:
		return errors.Mismatch(name, n+1, "", w[n])
	}
	return nil
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.TrimRight(s, " \t\n")
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	return lines
}
