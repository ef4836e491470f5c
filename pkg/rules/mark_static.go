package rules

import (
	"context"
	"errors"

	"github.com/Sumatoshi-tech/codemend/pkg/match"
	"github.com/Sumatoshi-tech/codemend/pkg/refactor"
	"github.com/Sumatoshi-tech/codemend/pkg/rewrite"
	"github.com/Sumatoshi-tech/codemend/pkg/semantic"
	"github.com/Sumatoshi-tech/codemend/pkg/syntax"
)

var errMalformedClass = errors.New("class declaration has no modifier list or keyword")

// MarkClassAsStatic adds the static modifier to a class whose authored
// members are all static.
type MarkClassAsStatic struct{}

// ID implements refactor.Rule.
func (MarkClassAsStatic) ID() string { return MarkClassAsStaticID }

// Title implements refactor.Rule.
func (MarkClassAsStatic) Title() string { return "Mark class as static" }

// Kinds implements refactor.Rule.
func (MarkClassAsStatic) Kinds() []syntax.Kind { return []syntax.Kind{syntax.ClassDeclaration} }

// Applicable fires on the class header (modifiers through name) of a class
// that is not static yet.
func (MarkClassAsStatic) Applicable(rc *refactor.Context, node *syntax.Node) *syntax.Node {
	if match.HasModifier(node, syntax.StaticKeyword) {
		return nil
	}

	name := match.DirectChildOfKind(node, syntax.IdentifierName)
	if name == nil {
		return nil
	}

	header := syntax.Span{Start: node.Span().Start, End: name.Span().End}
	if !header.Contains(rc.Span()) {
		return nil
	}

	return node
}

// Gate checks the class symbol: a non-static, explicitly declared class
// whose explicit members are all static and resolved.
func (MarkClassAsStatic) Gate(ctx context.Context, rc *refactor.Context, target *syntax.Node) (refactor.Facts, bool, error) {
	oracle, err := rc.Oracle(ctx)
	if err != nil {
		return refactor.Facts{}, false, err
	}

	sym, err := oracle.SymbolOf(ctx, target)
	if err != nil {
		return refactor.Facts{}, false, err
	}

	ok := sym.Kind == semantic.SymbolNamedType &&
		sym.TypeKind == semantic.TypeClass &&
		!sym.Static &&
		!sym.Implicit &&
		match.AllExplicitMembersStatic(sym)

	return refactor.Facts{Symbol: sym}, ok, nil
}

// Describe implements refactor.Rule.
func (r MarkClassAsStatic) Describe(*syntax.Node, refactor.Facts) (title, variant string) {
	return r.Title(), ""
}

// Build inserts static after the accessibility modifiers.
func (MarkClassAsStatic) Build(ctx context.Context, doc *refactor.Document, target *syntax.Node, _ refactor.Facts) (*refactor.Document, error) {
	if err := ctx.Err(); err != nil {
		return doc, err
	}

	mods := match.DirectChildOfKind(target, syntax.ModifierList)
	keyword := match.DirectChildOfKind(target, syntax.ClassKeyword)

	if mods == nil || keyword == nil {
		return doc, errMalformedClass
	}

	root, err := rewrite.ReplaceNodes(doc.Root(), AddModifier(mods, keyword, syntax.StaticKeyword))
	if err != nil {
		return doc, err
	}

	return doc.WithRoot(root), nil
}

// AddModifier returns the replacements that insert modifier into mods after
// its accessibility modifiers. When the new modifier becomes the first token
// of the declaration it takes over the leading trivia of the token that
// used to start it (the first modifier, or next when mods is empty).
func AddModifier(mods, next *syntax.Node, modifier syntax.Kind) map[*syntax.Node]*syntax.Node {
	existing := mods.Children()

	at := 0

	for i, m := range existing {
		if syntax.IsAccessibilityModifier(m.Kind()) {
			at = i + 1
		}
	}

	tok := syntax.TokenWithTrivia(modifier, syntax.TokenText(modifier), nil, []syntax.Trivia{syntax.Space})
	out := make(map[*syntax.Node]*syntax.Node, 2)

	tokens := make([]*syntax.Node, 0, len(existing)+1)

	for i, m := range existing {
		if i == at {
			tokens = append(tokens, tok)
		}

		tokens = append(tokens, m.Detach())
	}

	if at == len(existing) {
		tokens = append(tokens, tok)
	}

	if at == 0 {
		displaced := next
		if len(existing) > 0 {
			displaced = existing[0]
		}

		tokens[0] = tok.WithLeadingTrivia(displaced.LeadingTrivia()...)

		if len(existing) > 0 {
			tokens[1] = tokens[1].WithLeadingTrivia()
		} else {
			out[next] = next.WithLeadingTrivia()
		}
	}

	out[mods] = syntax.NewNode(syntax.ModifierList, tokens...)

	return out
}
