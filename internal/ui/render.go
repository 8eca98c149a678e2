// Package ui renders diff text and apply results for the terminal.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wwnbb/patchkit/internal/fileops"
)

// RenderDiff colorizes unified diff text line by line. With colorize false
// the input is returned unchanged, so piped output stays clean.
func RenderDiff(diffText string, colorize bool) string {
	if !colorize {
		return diffText
	}

	lines := strings.Split(diffText, "\n")
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = renderDiffLine(line)
	}
	return strings.Join(out, "\n")
}

func renderDiffLine(line string) string {
	switch {
	case strings.HasPrefix(line, "--- ") || strings.HasPrefix(line, "+++ "):
		return fileHeaderStyle.Render(line)
	case strings.HasPrefix(line, "@@"):
		return hunkHeaderStyle.Render(line)
	case strings.HasPrefix(line, "+"):
		return addedStyle.Render(line)
	case strings.HasPrefix(line, "-"):
		return removedStyle.Render(line)
	default:
		return line
	}
}

// RenderResults formats per-file apply results, one line per file plus a
// summary line.
func RenderResults(results []fileops.FileResult, colorize bool) string {
	var b strings.Builder
	applied := 0

	for _, r := range results {
		if r.Success {
			applied++
			b.WriteString(statusLine("ok", successStyle, colorize))
		} else {
			b.WriteString(statusLine("failed", failureStyle, colorize))
		}
		b.WriteString(" ")
		b.WriteString(string(r.Operation))
		b.WriteString(" ")
		b.WriteString(r.Path)
		if r.MovePath != "" {
			b.WriteString(" -> " + r.MovePath)
		}
		b.WriteString("\n")

		if r.Message != "" {
			detail := r.Message
			if colorize {
				detail = detailStyle.Render(detail)
			} else {
				detail = " " + detail
			}
			b.WriteString(detail + "\n")
		}
	}

	b.WriteString(fmt.Sprintf("%d of %d file(s) applied\n", applied, len(results)))
	return b.String()
}

func statusLine(label string, style lipgloss.Style, colorize bool) string {
	if colorize {
		return style.Render(label)
	}
	return label
}
