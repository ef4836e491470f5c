package rules

import (
	"context"
	"errors"

	"github.com/Sumatoshi-tech/codemend/pkg/match"
	"github.com/Sumatoshi-tech/codemend/pkg/refactor"
	"github.com/Sumatoshi-tech/codemend/pkg/rewrite"
	"github.com/Sumatoshi-tech/codemend/pkg/syntax"
)

var errNoPreviousArgument = errors.New("argument has no predecessor")

// DuplicateArgument fills an empty argument slot with a copy of the
// argument right before it.
type DuplicateArgument struct{}

// ID implements refactor.Rule.
func (DuplicateArgument) ID() string { return DuplicateArgumentID }

// Title implements refactor.Rule.
func (DuplicateArgument) Title() string { return "Duplicate argument" }

// Kinds implements refactor.Rule.
func (DuplicateArgument) Kinds() []syntax.Kind {
	return []syntax.Kind{syntax.ArgumentList, syntax.AttributeArgumentList}
}

// Applicable returns the missing argument under an empty caret, provided
// the argument before it is present. Only the immediately preceding slot
// is considered.
func (DuplicateArgument) Applicable(rc *refactor.Context, node *syntax.Node) *syntax.Node {
	if !match.IsEmptyCaret(rc.Span()) {
		return nil
	}

	args := match.Arguments(node)

	for i, arg := range args {
		if !arg.IsMissing() || !rc.Span().Contains(arg.Span()) {
			continue
		}

		if i > 0 && !args[i-1].IsMissing() {
			return arg
		}
	}

	return nil
}

// Describe implements refactor.Rule.
func (r DuplicateArgument) Describe(*syntax.Node, refactor.Facts) (title, variant string) {
	return r.Title(), ""
}

// Build replaces the placeholder with a copy of its predecessor carrying
// the placeholder's trivia.
func (DuplicateArgument) Build(ctx context.Context, doc *refactor.Document, target *syntax.Node, _ refactor.Facts) (*refactor.Document, error) {
	if err := ctx.Err(); err != nil {
		return doc, err
	}

	prev := previousArgument(target)
	if prev == nil {
		return doc, errNoPreviousArgument
	}

	return replace(ctx, doc, target, rewrite.WithTriviaFrom(prev, target))
}

func previousArgument(arg *syntax.Node) *syntax.Node {
	args := match.Arguments(arg.Parent())

	for i, a := range args {
		if a == arg && i > 0 {
			return args[i-1]
		}
	}

	return nil
}
