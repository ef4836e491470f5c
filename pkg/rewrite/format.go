package rewrite

import (
	"strings"

	"github.com/Sumatoshi-tech/codemend/pkg/syntax"
)

// DefaultIndentUnit is four spaces.
const DefaultIndentUnit = "    "

// Options configures the formatter pass.
type Options struct {
	// IndentUnit is the text added per nesting level.
	IndentUnit string
}

// DefaultOptions returns four-space indentation.
func DefaultOptions() Options {
	return Options{IndentUnit: DefaultIndentUnit}
}

// Format re-indents every subtree carrying the format annotation and clears
// the annotation. Lines keep their content; only the whitespace that starts
// a line changes. The first line of a subtree anchors the indentation of
// the rest, which is derived from brace and parenthesis nesting.
func Format(root *syntax.Node, opts Options) (*syntax.Node, error) {
	if root == nil {
		return nil, nil
	}

	if opts.IndentUnit == "" {
		opts.IndentUnit = DefaultIndentUnit
	}

	targets := formatTargets(root)
	if len(targets) == 0 {
		return root, nil
	}

	text := root.FullText()
	replacements := make(map[*syntax.Node]*syntax.Node, len(targets))

	for _, target := range targets {
		base := lineIndent(text, target.Span().Start)
		replacements[target] = reindent(target, base, opts.IndentUnit).StripAnnotations(syntax.FormatAnnotation)
	}

	return ReplaceNodes(root, replacements)
}

// formatTargets returns the outermost annotated nodes.
func formatTargets(root *syntax.Node) []*syntax.Node {
	var out []*syntax.Node

	for n := range root.DescendantsAndSelf() {
		if !n.HasAnnotation(syntax.FormatAnnotation) {
			continue
		}

		nested := false

		for _, a := range n.Ancestors() {
			if a.HasAnnotation(syntax.FormatAnnotation) {
				nested = true

				break
			}
		}

		if !nested {
			out = append(out, n)
		}
	}

	return out
}

func lineIndent(text string, pos int) string {
	if pos > len(text) {
		pos = len(text)
	}

	start := strings.LastIndexByte(text[:pos], '\n') + 1

	end := start
	for end < pos && (text[end] == ' ' || text[end] == '\t') {
		end++
	}

	return text[start:end]
}

func reindent(target *syntax.Node, base, unit string) *syntax.Node {
	var (
		braces    int
		parens    int
		first     = true
		lineStart bool
	)

	return target.MapTokens(func(tok *syntax.Node) *syntax.Node {
		if tok.IsMissing() && tok.Width() == 0 {
			return tok
		}

		switch tok.Kind() {
		case syntax.CloseBraceToken:
			braces = max(braces-1, 0)
		case syntax.CloseParenToken, syntax.CloseBracketToken:
			parens = max(parens-1, 0)
		}

		out := tok

		if !first {
			level := braces
			if parens > 0 {
				level++
			}

			indent := base + strings.Repeat(unit, level)
			if leading, ok := indentLeading(tok.LeadingTrivia(), lineStart, indent); ok {
				out = tok.WithLeadingTrivia(leading...)
			}
		}

		switch tok.Kind() {
		case syntax.OpenBraceToken:
			braces++
		case syntax.OpenParenToken, syntax.OpenBracketToken:
			parens++
		}

		first = false
		lineStart = syntax.HasEndOfLine(tok.TrailingTrivia())

		return out
	})
}

// indentLeading rewrites the whitespace at the start of every line the
// leading trivia opens. It reports false when nothing starts a line.
func indentLeading(leading []syntax.Trivia, lineStart bool, indent string) ([]syntax.Trivia, bool) {
	if !lineStart && !syntax.HasEndOfLine(leading) {
		return nil, false
	}

	out := make([]syntax.Trivia, 0, len(leading)+1)
	atLineStart := lineStart

	for _, tr := range leading {
		switch {
		case tr.Kind == syntax.EndOfLineTrivia:
			out = append(out, tr)
			atLineStart = true
		case atLineStart && tr.Kind == syntax.WhitespaceTrivia:
			// Replaced below.
		case atLineStart:
			if indent != "" {
				out = append(out, syntax.Whitespace(indent))
			}

			out = append(out, tr)
			atLineStart = false
		default:
			out = append(out, tr)
		}
	}

	if atLineStart && indent != "" {
		out = append(out, syntax.Whitespace(indent))
	}

	return out, true
}
