package rewrite

import (
	"sort"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/Sumatoshi-tech/codemend/pkg/syntax"
)

// TextEdit replaces the bytes of Span in the old text with NewText.
type TextEdit struct {
	Span    syntax.Span
	NewText string
}

// Edits returns the minimal, non-overlapping edits that turn oldText into
// newText, ordered by position in oldText.
func Edits(oldText, newText string) []TextEdit {
	if oldText == newText {
		return nil
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(oldText, newText, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var (
		edits   []TextEdit
		pos     int
		pending *TextEdit
	)

	flush := func() {
		if pending != nil {
			edits = append(edits, *pending)
			pending = nil
		}
	}

	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			flush()

			pos += len(d.Text)
		case diffmatchpatch.DiffDelete:
			if pending == nil {
				pending = &TextEdit{Span: syntax.Span{Start: pos, End: pos}}
			}

			pos += len(d.Text)
			pending.Span.End = pos
		case diffmatchpatch.DiffInsert:
			if pending == nil {
				pending = &TextEdit{Span: syntax.Span{Start: pos, End: pos}}
			}

			pending.NewText += d.Text
		}
	}

	flush()

	return edits
}

// Apply applies edits to text. Edits must not overlap.
func Apply(text string, edits []TextEdit) string {
	sorted := make([]TextEdit, len(edits))
	copy(sorted, edits)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Span.Start < sorted[j].Span.Start })

	var sb strings.Builder

	last := 0

	for _, e := range sorted {
		sb.WriteString(text[last:e.Span.Start])
		sb.WriteString(e.NewText)
		last = e.Span.End
	}

	sb.WriteString(text[last:])

	return sb.String()
}

// UnifiedDiff renders a line-based diff of two texts using "-"/"+" prefixes,
// the format the CLI prints for --diff.
func UnifiedDiff(oldText, newText string) []DiffLine {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToRunes(oldText, newText)
	diffs := dmp.DiffCharsToLines(dmp.DiffMainRunes(a, b, false), lines)

	var out []DiffLine

	for _, d := range diffs {
		op := DiffContext

		switch d.Type {
		case diffmatchpatch.DiffInsert:
			op = DiffAdded
		case diffmatchpatch.DiffDelete:
			op = DiffRemoved
		case diffmatchpatch.DiffEqual:
		}

		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}

			out = append(out, DiffLine{Op: op, Text: strings.TrimSuffix(line, "\n")})
		}
	}

	return out
}

// DiffOp tags a diff line.
type DiffOp uint8

// Diff line operations.
const (
	DiffContext DiffOp = iota
	DiffAdded
	DiffRemoved
)

// DiffLine is one line of a rendered diff.
type DiffLine struct {
	Op   DiffOp
	Text string
}
