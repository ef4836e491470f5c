package syntax

import (
	"errors"
	"iter"
	"strings"
	"sync"
)

// Sentinel errors for tree surgery.
var (
	// ErrNotInTree is returned when a node to replace is not a descendant of the given root.
	ErrNotInTree = errors.New("node is not part of the tree")
	// ErrOverlap is returned when replacement targets nest inside each other.
	ErrOverlap = errors.New("replacement targets overlap")
)

// Node is a positioned view over an immutable green node. Tokens are nodes
// whose kind is a token kind. Child views are created once and cached, so
// pointer identity is stable within a tree and safe for concurrent readers.
type Node struct {
	green  *green
	parent *Node
	pos    int
	index  int

	once     sync.Once
	children []*Node
}

func newRoot(g *green) *Node {
	return &Node{green: g}
}

// Kind returns the node kind.
func (n *Node) Kind() Kind {
	return n.green.kind
}

// IsToken reports whether the node is a token.
func (n *Node) IsToken() bool {
	return n.green.isToken()
}

// IsMissing reports whether the node stands in for absent source text.
func (n *Node) IsMissing() bool {
	return n.green.missing
}

// Parent returns the parent node, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Index returns the position of the node among its parent's children.
func (n *Node) Index() int {
	return n.index
}

// Root returns the topmost ancestor.
func (n *Node) Root() *Node {
	cur := n
	for cur.parent != nil {
		cur = cur.parent
	}

	return cur
}

// Children returns the child nodes and tokens in source order.
func (n *Node) Children() []*Node {
	n.once.Do(func() {
		if len(n.green.children) == 0 {
			return
		}

		n.children = make([]*Node, len(n.green.children))
		pos := n.pos

		for i, g := range n.green.children {
			n.children[i] = &Node{green: g, parent: n, pos: pos, index: i}
			pos += g.width
		}
	})

	return n.children
}

// ChildCount returns the number of children.
func (n *Node) ChildCount() int {
	return len(n.green.children)
}

// Child returns the i-th child, or nil when out of range.
func (n *Node) Child(i int) *Node {
	children := n.Children()
	if i < 0 || i >= len(children) {
		return nil
	}

	return children[i]
}

// ChildOfKind returns the first child of one of the given kinds.
func (n *Node) ChildOfKind(kinds ...Kind) *Node {
	for _, c := range n.Children() {
		if c.Is(kinds...) {
			return c
		}
	}

	return nil
}

// ChildrenOfKind returns every child of one of the given kinds.
func (n *Node) ChildrenOfKind(kinds ...Kind) []*Node {
	var out []*Node

	for _, c := range n.Children() {
		if c.Is(kinds...) {
			out = append(out, c)
		}
	}

	return out
}

// NodeChildren returns the non-token children.
func (n *Node) NodeChildren() []*Node {
	var out []*Node

	for _, c := range n.Children() {
		if !c.IsToken() {
			out = append(out, c)
		}
	}

	return out
}

// Is reports whether the node kind is one of kinds.
func (n *Node) Is(kinds ...Kind) bool {
	if n == nil {
		return false
	}

	for _, k := range kinds {
		if n.green.kind == k {
			return true
		}
	}

	return false
}

// FullSpan returns the span including leading and trailing trivia.
func (n *Node) FullSpan() Span {
	return Span{Start: n.pos, End: n.pos + n.green.width}
}

// Span returns the span without the outer trivia.
func (n *Node) Span() Span {
	start := n.pos + n.green.leadingWidth()
	end := n.pos + n.green.width - n.green.trailingWidth()

	if end < start {
		end = start
	}

	return Span{Start: start, End: end}
}

// Width returns the full width in bytes.
func (n *Node) Width() int {
	return n.green.width
}

// FullText returns the source text including outer trivia.
func (n *Node) FullText() string {
	return string(n.green.writeTo(make([]byte, 0, n.green.width)))
}

// Text returns the source text without outer trivia. For tokens this is the token text.
func (n *Node) Text() string {
	if n.IsToken() {
		return n.green.text
	}

	full := n.FullText()
	lead := n.green.leadingWidth()
	trail := n.green.trailingWidth()

	if lead+trail > len(full) {
		return ""
	}

	return full[lead : len(full)-trail]
}

// String returns Text.
func (n *Node) String() string {
	return n.Text()
}

// LeadingTrivia returns the leading trivia of the first token.
func (n *Node) LeadingTrivia() []Trivia {
	if tok := n.green.firstToken(); tok != nil {
		return tok.leading
	}

	return nil
}

// TrailingTrivia returns the trailing trivia of the last token.
func (n *Node) TrailingTrivia() []Trivia {
	if tok := n.green.lastToken(); tok != nil {
		return tok.trailing
	}

	return nil
}

// Annotations returns the annotation set of this node.
func (n *Node) Annotations() Annotation {
	return n.green.annotations
}

// HasAnnotation reports whether every bit of a is set on this node.
func (n *Node) HasAnnotation(a Annotation) bool {
	return n.green.annotations&a == a
}

// FirstToken returns the first token of the subtree, or nil when it has none.
func (n *Node) FirstToken() *Node {
	cur := n
	for !cur.IsToken() {
		var next *Node

		for _, c := range cur.Children() {
			if c.green.hasToken {
				next = c

				break
			}
		}

		if next == nil {
			return nil
		}

		cur = next
	}

	return cur
}

// LastToken returns the last token of the subtree, or nil when it has none.
func (n *Node) LastToken() *Node {
	cur := n
	for !cur.IsToken() {
		var next *Node

		children := cur.Children()
		for i := len(children) - 1; i >= 0; i-- {
			if children[i].green.hasToken {
				next = children[i]

				break
			}
		}

		if next == nil {
			return nil
		}

		cur = next
	}

	return cur
}

// Tokens returns every token of the subtree in source order.
func (n *Node) Tokens() []*Node {
	var out []*Node

	for d := range n.DescendantsAndSelf() {
		if d.IsToken() {
			out = append(out, d)
		}
	}

	return out
}

// Ancestors returns the parent chain, nearest first.
func (n *Node) Ancestors() []*Node {
	var out []*Node
	for cur := n.parent; cur != nil; cur = cur.parent {
		out = append(out, cur)
	}

	return out
}

// AncestorsAndSelf returns n followed by its ancestors.
func (n *Node) AncestorsAndSelf() []*Node {
	return append([]*Node{n}, n.Ancestors()...)
}

// FirstAncestorOrSelf returns the nearest node of one of kinds, starting at n.
func (n *Node) FirstAncestorOrSelf(kinds ...Kind) *Node {
	for cur := n; cur != nil; cur = cur.parent {
		if cur.Is(kinds...) {
			return cur
		}
	}

	return nil
}

// Descendants iterates the subtree in pre-order, excluding n.
func (n *Node) Descendants() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for _, c := range n.Children() {
			if !c.walk(yield) {
				return
			}
		}
	}
}

// DescendantsAndSelf iterates the subtree in pre-order, starting with n.
func (n *Node) DescendantsAndSelf() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		n.walk(yield)
	}
}

func (n *Node) walk(yield func(*Node) bool) bool {
	if !yield(n) {
		return false
	}

	for _, c := range n.Children() {
		if !c.walk(yield) {
			return false
		}
	}

	return true
}

// IsDescendantOf reports whether ancestor lies on n's parent chain.
func (n *Node) IsDescendantOf(ancestor *Node) bool {
	for cur := n.parent; cur != nil; cur = cur.parent {
		if cur == ancestor {
			return true
		}
	}

	return false
}

// EquivalentTo compares kinds and token texts, ignoring trivia and positions.
func (n *Node) EquivalentTo(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}

	return n.green.equivalent(other.green)
}

// FindNode returns the innermost non-token node whose span contains span.
// When no child span matches, a child whose full span does is preferred
// over stopping. Returns nil when span lies outside n.
func (n *Node) FindNode(span Span) *Node {
	if !n.FullSpan().Contains(span) {
		return nil
	}

	cur := n
	for {
		next := cur.childContaining(span)
		if next == nil {
			return cur
		}

		cur = next
	}
}

func (n *Node) childContaining(span Span) *Node {
	var loose *Node

	for _, c := range n.Children() {
		if c.IsToken() {
			continue
		}

		if c.Span().Contains(span) {
			return c
		}

		if loose == nil && c.FullSpan().Contains(span) && !c.FullSpan().IsEmpty() {
			loose = c
		}
	}

	return loose
}

// FindToken returns the token whose full span contains pos. A position at the
// end of the tree resolves to the last token.
func (n *Node) FindToken(pos int) *Node {
	if pos >= n.FullSpan().End {
		return n.LastToken()
	}

	cur := n
	for !cur.IsToken() {
		var next *Node

		for _, c := range cur.Children() {
			if c.green.hasToken && c.FullSpan().ContainsPos(pos) {
				next = c

				break
			}
		}

		if next == nil {
			return nil
		}

		cur = next
	}

	return cur
}

// ReplaceDescendant returns a new root in which old is replaced by repl.
// Only the path from old up to n is rebuilt; every other green node is
// shared with the original tree, which stays untouched.
func (n *Node) ReplaceDescendant(old, repl *Node) (*Node, error) {
	if old == n {
		return newRoot(repl.green), nil
	}

	if !old.IsDescendantOf(n) {
		return nil, ErrNotInTree
	}

	g := repl.green
	for cur := old; cur != n; cur = cur.parent {
		g = cur.parent.green.withChild(cur.index, g)
	}

	return newRoot(g), nil
}

// ReplaceDescendants replaces several disjoint descendants at once.
func (n *Node) ReplaceDescendants(replacements map[*Node]*Node) (*Node, error) {
	onPath := make(map[*Node]bool)

	for old := range replacements {
		if old != n && !old.IsDescendantOf(n) {
			return nil, ErrNotInTree
		}

		for cur := old.parent; cur != nil; cur = cur.parent {
			if _, nested := replacements[cur]; nested {
				return nil, ErrOverlap
			}

			onPath[cur] = true

			if cur == n {
				break
			}
		}
	}

	return newRoot(rebuild(n, replacements, onPath)), nil
}

func rebuild(n *Node, replacements map[*Node]*Node, onPath map[*Node]bool) *green {
	if repl, ok := replacements[n]; ok {
		return repl.green
	}

	if !onPath[n] {
		return n.green
	}

	children := make([]*green, len(n.green.children))
	for i, c := range n.Children() {
		children[i] = rebuild(c, replacements, onPath)
	}

	out := newNodeGreen(n.green.kind, children, n.green.missing)
	out.annotations = n.green.annotations

	return out
}

// MapTokens returns a detached copy of n with every token passed through fn.
func (n *Node) MapTokens(fn func(tok *Node) *Node) *Node {
	return newRoot(mapTokens(n, fn))
}

func mapTokens(n *Node, fn func(tok *Node) *Node) *green {
	if n.IsToken() {
		return fn(n).green
	}

	changed := false
	children := make([]*green, len(n.green.children))

	for i, c := range n.Children() {
		children[i] = mapTokens(c, fn)
		changed = changed || children[i] != c.green
	}

	if !changed {
		return n.green
	}

	out := newNodeGreen(n.green.kind, children, n.green.missing)
	out.annotations = n.green.annotations

	return out
}

// StripAnnotations returns a detached copy of n with a cleared on every node
// of the subtree.
func (n *Node) StripAnnotations(a Annotation) *Node {
	return newRoot(stripAnnotations(n.green, a))
}

func stripAnnotations(g *green, a Annotation) *green {
	changed := false
	children := g.children

	for i, c := range g.children {
		stripped := stripAnnotations(c, a)
		if stripped != c {
			if !changed {
				children = make([]*green, len(g.children))
				copy(children, g.children)
				changed = true
			}

			children[i] = stripped
		}
	}

	if !changed && g.annotations&a == 0 {
		return g
	}

	out := *g
	out.children = children
	out.annotations = g.annotations &^ a

	return &out
}

// Detach returns n as the root of its own tree.
func (n *Node) Detach() *Node {
	if n.parent == nil && n.pos == 0 {
		return n
	}

	return newRoot(n.green)
}

// WithLeadingTrivia returns a detached copy whose first token has the given leading trivia.
func (n *Node) WithLeadingTrivia(trivia ...Trivia) *Node {
	return newRoot(n.green.withLeading(trivia))
}

// WithTrailingTrivia returns a detached copy whose last token has the given trailing trivia.
func (n *Node) WithTrailingTrivia(trivia ...Trivia) *Node {
	return newRoot(n.green.withTrailing(trivia))
}

// WithoutTrivia strips the outer trivia.
func (n *Node) WithoutTrivia() *Node {
	return newRoot(n.green.withLeading(nil).withTrailing(nil))
}

// WithAnnotations returns a detached copy with a added to the annotation set.
func (n *Node) WithAnnotations(a Annotation) *Node {
	return newRoot(n.green.withAnnotations(n.green.annotations | a))
}

// WithoutAnnotations returns a detached copy with a removed from the annotation set.
func (n *Node) WithoutAnnotations(a Annotation) *Node {
	return newRoot(n.green.withAnnotations(n.green.annotations &^ a))
}

// Dump renders the tree shape as an indented kind listing, for debugging.
func (n *Node) Dump() string {
	var sb strings.Builder

	var dump func(*Node, int)

	dump = func(cur *Node, depth int) {
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString(cur.Kind().String())

		if cur.IsToken() {
			sb.WriteString(" ")
			sb.WriteString(quote(cur.green.text))
		}

		if cur.IsMissing() {
			sb.WriteString(" <missing>")
		}

		sb.WriteString("\n")

		for _, c := range cur.Children() {
			dump(c, depth+1)
		}
	}

	dump(n, 0)

	return sb.String()
}

func quote(s string) string {
	return "\"" + strings.ReplaceAll(s, "\"", "\\\"") + "\""
}
