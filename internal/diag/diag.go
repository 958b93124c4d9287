package diag

import (
	"fmt"
	"strings"
)

// CodeError is a message tied to a source position or a source fragment.
type CodeError struct {
	Message string
	Context string
	Line    int
	Column  int
}

// Format renders err as "line:col: message" followed by the offending source
// line and a caret. When only a context is known, its position is recovered
// with LocateContext.
func Format(source string, err CodeError) string {
	line, col := err.Line, err.Column
	if line <= 0 {
		if l, c, ok := LocateContext(source, err.Context); ok {
			line, col = l, c
		}
	}
	if line <= 0 {
		if err.Context != "" {
			return fmt.Sprintf("%s (at `%s`)", err.Message, err.Context)
		}
		return err.Message
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d:%d: %s", line, col, err.Message)
	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return b.String()
	}
	src := strings.TrimRight(lines[line-1], "\r")
	b.WriteString("\n    ")
	b.WriteString(src)
	b.WriteString("\n    ")
	for i := 0; i < col-1 && i < len(src); i++ {
		if src[i] == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	b.WriteByte('^')
	return b.String()
}

// LocateContext finds the unique source position of a context fragment.
func LocateContext(source string, context string) (line int, col int, ok bool) {
	ctx := strings.TrimSpace(context)
	if ctx == "" {
		return 0, 0, false
	}
	lines := strings.Split(source, "\n")
	normalize := func(s string) string {
		s = strings.TrimSpace(s)
		s = strings.ReplaceAll(s, " ", "")
		s = strings.ReplaceAll(s, "\t", "")
		return s
	}
	normalizedCtx := normalize(strings.Trim(ctx, "`"))

	matchLine := -1
	for i, ln := range lines {
		if normalize(ln) == normalizedCtx {
			if matchLine != -1 {
				matchLine = -2
				break
			}
			matchLine = i
		}
	}
	if matchLine >= 0 {
		ln := lines[matchLine]
		col := strings.Index(ln, strings.TrimSpace(strings.Trim(ctx, "`")))
		if col < 0 {
			// spacing differs; point at the first non-blank character
			col = len(ln) - len(strings.TrimLeft(ln, " \t"))
		}
		return matchLine + 1, col + 1, true
	}

	candidates := []string{ctx}
	if trimmed := strings.Trim(ctx, "`"); trimmed != ctx {
		candidates = append(candidates, trimmed)
	}
	bestLine := -1
	bestCol := -1
	for i, ln := range lines {
		for _, c := range candidates {
			if c == "" {
				continue
			}
			if idx := strings.Index(ln, c); idx >= 0 {
				if bestLine != -1 {
					return 0, 0, false
				}
				bestLine = i + 1
				bestCol = idx + 1
			}
		}
	}
	if bestLine != -1 {
		return bestLine, bestCol, true
	}
	return 0, 0, false
}
