package semantic

import (
	"context"
	"sync"

	"github.com/Sumatoshi-tech/codemend/pkg/syntax"
)

type nodeKey struct {
	kind syntax.Kind
	span syntax.Span
}

func keyOf(n *syntax.Node) nodeKey {
	return nodeKey{kind: n.Kind(), span: n.Span()}
}

// Fixture is a map-backed oracle. Facts are bound to nodes by kind and span,
// so a fixture answers for any tree with the same layout as the one it was
// populated from.
type Fixture struct {
	mu      sync.RWMutex
	symbols map[nodeKey]Symbol
	types   map[nodeKey]Type
	names   []string
}

// NewFixture returns an empty fixture.
func NewFixture() *Fixture {
	return &Fixture{
		symbols: make(map[nodeKey]Symbol),
		types:   make(map[nodeKey]Type),
	}
}

// BindSymbol records the symbol for n.
func (f *Fixture) BindSymbol(n *syntax.Node, s Symbol) *Fixture {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.symbols[keyOf(n)] = s

	return f
}

// BindType records the type of n.
func (f *Fixture) BindType(n *syntax.Node, t Type) *Fixture {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.types[keyOf(n)] = t

	return f
}

// DeclareNames adds names visible everywhere.
func (f *Fixture) DeclareNames(names ...string) *Fixture {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.names = append(f.names, names...)

	return f
}

// SymbolOf implements Oracle.
func (f *Fixture) SymbolOf(ctx context.Context, n *syntax.Node) (Symbol, error) {
	if err := ctx.Err(); err != nil {
		return Unresolved, err
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.symbols[keyOf(n)], nil
}

// TypeOf implements Oracle.
func (f *Fixture) TypeOf(ctx context.Context, n *syntax.Node) (Type, error) {
	if err := ctx.Err(); err != nil {
		return UnresolvedType, err
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.types[keyOf(n)], nil
}

// NamesInScope implements Oracle.
func (f *Fixture) NamesInScope(ctx context.Context, _ int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return append([]string(nil), f.names...), nil
}
