package semantic

import (
	"context"
	"errors"

	"github.com/Sumatoshi-tech/codemend/pkg/syntax"
)

// ErrNoSemantics is returned when a document has no semantic provider.
var ErrNoSemantics = errors.New("semantic model not available")

// Oracle answers symbol and type questions about one syntax tree. Results
// for nodes it cannot bind are Unresolved / UnresolvedType with a nil error.
// Errors are returned only when ctx is done.
type Oracle interface {
	// SymbolOf returns the symbol declared or referenced by n.
	SymbolOf(ctx context.Context, n *syntax.Node) (Symbol, error)
	// TypeOf returns the type of an expression or type reference.
	TypeOf(ctx context.Context, n *syntax.Node) (Type, error)
	// NamesInScope returns every name visible at pos.
	NamesInScope(ctx context.Context, pos int) ([]string, error)
}

// Provider resolves the oracle for a tree. Resolution may block (a host
// waiting on a compiler, say) and must honor ctx.
type Provider interface {
	Oracle(ctx context.Context, root *syntax.Node) (Oracle, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, root *syntax.Node) (Oracle, error)

// Oracle implements Provider.
func (f ProviderFunc) Oracle(ctx context.Context, root *syntax.Node) (Oracle, error) {
	return f(ctx, root)
}

// Static returns a provider that always yields o.
func Static(o Oracle) Provider {
	return ProviderFunc(func(ctx context.Context, _ *syntax.Node) (Oracle, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		return o, nil
	})
}
