package main

import (
	"bytes"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/codemend/pkg/syntax"
)

// ErrInvalidSelection indicates the requested position is outside the file.
var ErrInvalidSelection = errors.New("selection is outside the file")

// selectionFlags locate a caret or selection either by byte offset or by
// 1-based line and column.
type selectionFlags struct {
	offset int
	length int
	line   int
	column int
}

func (f *selectionFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.offset, "offset", 0, "byte offset of the caret or selection start")
	cmd.Flags().IntVar(&f.length, "length", 0, "selection length in bytes (0 is a caret)")
	cmd.Flags().IntVar(&f.line, "line", 0, "1-based line of the caret (overrides --offset)")
	cmd.Flags().IntVar(&f.column, "column", 1, "1-based column of the caret, in characters")
}

func (f *selectionFlags) span(src []byte) (syntax.Span, error) {
	start := f.offset

	if f.line > 0 {
		pos, err := offsetAt(src, f.line, f.column)
		if err != nil {
			return syntax.Span{}, err
		}

		start = pos
	}

	if start < 0 || f.length < 0 || start+f.length > len(src) {
		return syntax.Span{}, fmt.Errorf("%w: [%d, %d) in %d bytes", ErrInvalidSelection, start, start+f.length, len(src))
	}

	return syntax.NewSpan(start, f.length), nil
}

// offsetAt converts a 1-based line and character column to a byte offset.
func offsetAt(src []byte, line, column int) (int, error) {
	if column < 1 {
		return 0, fmt.Errorf("%w: column %d", ErrInvalidSelection, column)
	}

	offset := 0

	for current := 1; current < line; current++ {
		next := bytes.IndexByte(src[offset:], '\n')
		if next < 0 {
			return 0, fmt.Errorf("%w: line %d", ErrInvalidSelection, line)
		}

		offset += next + 1
	}

	for range column - 1 {
		if offset >= len(src) || src[offset] == '\n' {
			return 0, fmt.Errorf("%w: line %d column %d", ErrInvalidSelection, line, column)
		}

		_, size := utf8.DecodeRune(src[offset:])
		offset += size
	}

	return offset, nil
}
