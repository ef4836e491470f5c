// Package rewrite splices replacement subtrees into immutable syntax trees
// and runs the post-passes hosts rely on: re-indentation, rename target
// lookup and text edit extraction.
package rewrite

import (
	"fmt"

	"github.com/Sumatoshi-tech/codemend/pkg/syntax"
)

// Sentinel errors re-exported from the tree model.
var (
	// ErrNotInTree is returned when a replacement target is not a descendant of root.
	ErrNotInTree = syntax.ErrNotInTree
	// ErrOverlap is returned when replacement targets nest inside each other.
	ErrOverlap = syntax.ErrOverlap
)

// ReplaceNode returns a new root in which old is replaced by replacement.
// Only the ancestor path of old is rebuilt; root itself is left untouched.
func ReplaceNode(root, old, replacement *syntax.Node) (*syntax.Node, error) {
	if root == nil || old == nil || replacement == nil {
		return nil, fmt.Errorf("replace node: %w", ErrNotInTree)
	}

	out, err := root.ReplaceDescendant(old, replacement)
	if err != nil {
		return nil, fmt.Errorf("replace %s: %w", old.Kind(), err)
	}

	return out, nil
}

// ReplaceNodes replaces several disjoint nodes in one pass.
func ReplaceNodes(root *syntax.Node, replacements map[*syntax.Node]*syntax.Node) (*syntax.Node, error) {
	if len(replacements) == 0 {
		return root, nil
	}

	out, err := root.ReplaceDescendants(replacements)
	if err != nil {
		return nil, fmt.Errorf("replace %d nodes: %w", len(replacements), err)
	}

	return out, nil
}

// WithTriviaFrom gives replacement the leading trivia of old's first token
// and the trailing trivia of old's last token.
func WithTriviaFrom(replacement, old *syntax.Node) *syntax.Node {
	return replacement.
		WithLeadingTrivia(old.LeadingTrivia()...).
		WithTrailingTrivia(old.TrailingTrivia()...)
}

// RenameTarget returns the span of the first node or token carrying the
// rename annotation.
func RenameTarget(root *syntax.Node) (syntax.Span, bool) {
	if root == nil {
		return syntax.Span{}, false
	}

	for n := range root.DescendantsAndSelf() {
		if n.HasAnnotation(syntax.RenameAnnotation) {
			return n.Span(), true
		}
	}

	return syntax.Span{}, false
}
