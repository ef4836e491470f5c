package rules

import (
	"context"
	"errors"

	"github.com/Sumatoshi-tech/codemend/pkg/match"
	"github.com/Sumatoshi-tech/codemend/pkg/refactor"
	"github.com/Sumatoshi-tech/codemend/pkg/syntax"
)

var errMalformedUsing = errors.New("using statement has no header")

const simplifyUsingTitle = "Remove braces from 'using' statement"

// SimplifyNestedUsing merges a chain of directly nested using statements
// into one header with a single body.
type SimplifyNestedUsing struct{}

// ID implements refactor.Rule.
func (SimplifyNestedUsing) ID() string { return SimplifyNestedUsingID }

// Title implements refactor.Rule.
func (SimplifyNestedUsing) Title() string { return simplifyUsingTitle }

// Kinds implements refactor.Rule.
func (SimplifyNestedUsing) Kinds() []syntax.Kind { return []syntax.Kind{syntax.UsingStatement} }

// Applicable fires when the selection is on the header of a using whose
// body directly nests another using with resources.
func (SimplifyNestedUsing) Applicable(rc *refactor.Context, node *syntax.Node) *syntax.Node {
	closeParen := match.UsingCloseParen(node)
	if closeParen == nil || len(match.UsingResources(node)) == 0 {
		return nil
	}

	header := syntax.Span{Start: node.Span().Start, End: closeParen.Span().End}
	if !header.Contains(rc.Span()) {
		return nil
	}

	if len(usingChain(node)) < 2 {
		return nil
	}

	return node
}

// Describe pluralizes the title when more than one level collapses.
func (SimplifyNestedUsing) Describe(target *syntax.Node, _ refactor.Facts) (title, variant string) {
	if len(usingChain(target)) > 2 {
		return simplifyUsingTitle + "s", ""
	}

	return simplifyUsingTitle, ""
}

// Build replaces the chain with one using statement.
func (SimplifyNestedUsing) Build(ctx context.Context, doc *refactor.Document, target *syntax.Node, _ refactor.Facts) (*refactor.Document, error) {
	if err := ctx.Err(); err != nil {
		return doc, err
	}

	chain := usingChain(target)
	innermost := chain[len(chain)-1]

	keyword := target.FirstToken()
	openParen := match.DirectChildOfKind(target, syntax.OpenParenToken)
	closeParen := match.UsingCloseParen(innermost)
	body := match.UsingBody(innermost)

	if openParen == nil || closeParen == nil || body == nil {
		return doc, errMalformedUsing
	}

	children := []*syntax.Node{keyword.WithLeadingTrivia(), openParen.Detach()}

	first := true

	for _, u := range chain {
		for _, res := range match.UsingResources(u) {
			if !first {
				children = append(children, syntax.TokenWithTrivia(syntax.CommaToken, ",", nil, []syntax.Trivia{syntax.Space}))
			}

			children = append(children, res.WithoutTrivia())
			first = false
		}
	}

	children = append(children, closeParen.Detach(), body.Detach())

	merged := syntax.NewNode(syntax.UsingStatement, children...).
		WithLeadingTrivia(target.LeadingTrivia()...).
		WithTrailingTrivia(target.TrailingTrivia()...).
		WithAnnotations(syntax.FormatAnnotation)

	return replace(ctx, doc, target, merged)
}

// usingChain returns using followed by every using nested directly inside it.
func usingChain(using *syntax.Node) []*syntax.Node {
	chain := []*syntax.Node{using}

	for cur := using; ; {
		inner := match.EmbeddedUsing(cur)
		if inner == nil || len(match.UsingResources(inner)) == 0 {
			return chain
		}

		chain = append(chain, inner)
		cur = inner
	}
}
