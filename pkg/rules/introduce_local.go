package rules

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Sumatoshi-tech/codemend/pkg/match"
	"github.com/Sumatoshi-tech/codemend/pkg/refactor"
	"github.com/Sumatoshi-tech/codemend/pkg/rewrite"
	"github.com/Sumatoshi-tech/codemend/pkg/syntax"
)

var errNoDeclarator = errors.New("local declaration has no declarator")

const fallbackIdentifier = "x"

// IntroduceLocalFromStatement turns an expression statement whose value is
// discarded into a local declaration holding it.
type IntroduceLocalFromStatement struct{}

// ID implements refactor.Rule.
func (IntroduceLocalFromStatement) ID() string { return IntroduceLocalFromStatementID }

// Title implements refactor.Rule.
func (IntroduceLocalFromStatement) Title() string { return "Introduce local for expression" }

// Kinds implements refactor.Rule.
func (IntroduceLocalFromStatement) Kinds() []syntax.Kind {
	return []syntax.Kind{syntax.ExpressionStatement}
}

// Applicable implements refactor.Rule.
func (IntroduceLocalFromStatement) Applicable(_ *refactor.Context, node *syntax.Node) *syntax.Node {
	if match.IsMissing(match.StatementExpression(node)) {
		return nil
	}

	return node
}

// Gate requires the expression to have a resolved, non-void type.
func (IntroduceLocalFromStatement) Gate(ctx context.Context, rc *refactor.Context, target *syntax.Node) (refactor.Facts, bool, error) {
	oracle, err := rc.Oracle(ctx)
	if err != nil {
		return refactor.Facts{}, false, err
	}

	typ, err := oracle.TypeOf(ctx, match.StatementExpression(target))
	if err != nil {
		return refactor.Facts{}, false, err
	}

	if !match.IsResolvedType(typ) || match.IsVoid(typ) {
		return refactor.Facts{}, false, nil
	}

	return refactor.Facts{Type: typ}, true, nil
}

// Describe implements refactor.Rule.
func (IntroduceLocalFromStatement) Describe(target *syntax.Node, _ refactor.Facts) (title, variant string) {
	return fmt.Sprintf("Introduce local for '%s'", match.StatementExpression(target).Text()), ""
}

// Build replaces the statement with "Type name = expr;" and marks name for
// rename.
func (IntroduceLocalFromStatement) Build(ctx context.Context, doc *refactor.Document, target *syntax.Node, facts refactor.Facts) (*refactor.Document, error) {
	if err := ctx.Err(); err != nil {
		return doc, err
	}

	oracle, err := doc.Semantics(ctx)
	if err != nil {
		return doc, err
	}

	visible, err := oracle.NamesInScope(ctx, target.Span().Start)
	if err != nil {
		return doc, err
	}

	name := UniqueName(IdentifierForType(facts.Type.Name), visible)
	expr := match.StatementExpression(target).WithoutTrivia()

	decl := syntax.NewLocalDeclaration(syntax.NewTypeName(facts.Type.Name), name, expr)

	ident := declaredIdentifier(decl)
	if ident == nil {
		return doc, errNoDeclarator
	}

	decl, err = decl.ReplaceDescendant(ident, ident.WithAnnotations(syntax.RenameAnnotation))
	if err != nil {
		return doc, fmt.Errorf("annotate %s: %w", name, err)
	}

	decl = rewrite.WithTriviaFrom(decl, target).WithAnnotations(syntax.FormatAnnotation)

	return replace(ctx, doc, target, decl)
}

func declaredIdentifier(decl *syntax.Node) *syntax.Node {
	for n := range decl.Descendants() {
		if n.Is(syntax.VariableDeclarator) {
			return n.ChildOfKind(syntax.IdentifierToken)
		}
	}

	return nil
}

// IdentifierForType derives a local name from a type name: namespace
// qualifiers and generic, array and nullable suffixes are dropped and the
// first letter is lowered. Names that are not identifiers or collide with
// keywords fall back to "x".
func IdentifierForType(typeName string) string {
	name := typeName

	if i := strings.IndexAny(name, "<[?"); i >= 0 {
		name = name[:i]
	}

	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return fallbackIdentifier
	}

	first, size := utf8.DecodeRuneInString(name)
	name = string(unicode.ToLower(first)) + name[size:]

	if !isIdentifier(name) || syntax.KindForText(name).IsKeyword() {
		return fallbackIdentifier
	}

	return name
}

func isIdentifier(s string) bool {
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}

	return s != ""
}

// UniqueName returns base, or base followed by the smallest positive
// number that makes it distinct from every name in taken.
func UniqueName(base string, taken []string) string {
	used := make(map[string]struct{}, len(taken))
	for _, n := range taken {
		used[n] = struct{}{}
	}

	if _, ok := used[base]; !ok {
		return base
	}

	for i := 1; ; i++ {
		candidate := base + strconv.Itoa(i)
		if _, ok := used[candidate]; !ok {
			return candidate
		}
	}
}
