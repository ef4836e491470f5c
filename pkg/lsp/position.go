package lsp

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/Sumatoshi-tech/codemend/pkg/syntax"
)

// OffsetOf converts an LSP position (UTF-16 columns) to a byte offset.
// Positions past the end of a line clamp to the line end, positions past
// the last line clamp to the end of text.
func OffsetOf(text string, pos protocol.Position) int {
	offset := 0

	for line := protocol.UInteger(0); line < pos.Line; line++ {
		next := strings.IndexByte(text[offset:], '\n')
		if next < 0 {
			return len(text)
		}

		offset += next + 1
	}

	units := protocol.UInteger(0)

	for offset < len(text) && units < pos.Character {
		r, size := utf8.DecodeRuneInString(text[offset:])
		if r == '\n' {
			break
		}

		units += protocol.UInteger(utf16.RuneLen(r))
		offset += size
	}

	return offset
}

// PositionOf converts a byte offset to an LSP position.
func PositionOf(text string, offset int) protocol.Position {
	offset = min(max(offset, 0), len(text))

	var pos protocol.Position

	for _, r := range text[:offset] {
		if r == '\n' {
			pos.Line++
			pos.Character = 0

			continue
		}

		pos.Character += protocol.UInteger(utf16.RuneLen(r))
	}

	return pos
}

// SpanOf converts an LSP range to a span.
func SpanOf(text string, r protocol.Range) syntax.Span {
	start := OffsetOf(text, r.Start)
	end := max(OffsetOf(text, r.End), start)

	return syntax.Span{Start: start, End: end}
}

// RangeOf converts a span to an LSP range.
func RangeOf(text string, span syntax.Span) protocol.Range {
	return protocol.Range{Start: PositionOf(text, span.Start), End: PositionOf(text, span.End)}
}
