package refactor

import (
	"context"
	"fmt"
	"sync"

	"github.com/Sumatoshi-tech/codemend/pkg/rewrite"
	"github.com/Sumatoshi-tech/codemend/pkg/semantic"
	"github.com/Sumatoshi-tech/codemend/pkg/syntax"
)

// Document is an immutable snapshot of one source file: its tree and the
// provider that resolves semantic facts for it. Rewrites produce new
// documents; existing ones stay valid.
type Document struct {
	path     string
	version  int
	root     *syntax.Node
	provider semantic.Provider

	mu     sync.Mutex
	oracle semantic.Oracle
}

// NewDocument creates version 0 of a document. provider may be nil when no
// semantic model is available.
func NewDocument(path string, root *syntax.Node, provider semantic.Provider) *Document {
	return &Document{path: path, root: root, provider: provider}
}

// Path returns the document path.
func (d *Document) Path() string { return d.path }

// Version counts rewrites since the document was created.
func (d *Document) Version() int { return d.version }

// Root returns the syntax tree.
func (d *Document) Root() *syntax.Node { return d.root }

// Text returns the full source text.
func (d *Document) Text() string { return d.root.FullText() }

// SupportsSemantics reports whether a semantic provider is attached.
func (d *Document) SupportsSemantics() bool { return d.provider != nil }

// WithRoot returns the next version of the document with a new tree. The
// semantic oracle is resolved again on demand.
func (d *Document) WithRoot(root *syntax.Node) *Document {
	return &Document{path: d.path, version: d.version + 1, root: root, provider: d.provider}
}

func (d *Document) withFormattedRoot(root *syntax.Node) *Document {
	return &Document{path: d.path, version: d.version, root: root, provider: d.provider}
}

// Semantics resolves the oracle for this document, waiting on the provider
// if needed. Successful resolutions are kept; failures are not.
func (d *Document) Semantics(ctx context.Context) (semantic.Oracle, error) {
	if d.provider == nil {
		return nil, semantic.ErrNoSemantics
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.oracle != nil {
		return d.oracle, nil
	}

	o, err := d.provider.Oracle(ctx, d.root)
	if err != nil {
		return nil, fmt.Errorf("resolve semantics for %s: %w", d.path, err)
	}

	d.oracle = o

	return o, nil
}

// RenameTarget returns the span a host should offer to rename after the
// rewrite that produced this document.
func (d *Document) RenameTarget() (syntax.Span, bool) {
	return rewrite.RenameTarget(d.root)
}
