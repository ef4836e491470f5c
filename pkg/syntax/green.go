package syntax

// Annotation marks a node for a later pass. Annotations survive structural
// sharing and are copied with the green node that carries them.
type Annotation uint8

// Annotations understood by the rewrite package.
const (
	// RenameAnnotation marks the identifier a host should offer to rename.
	RenameAnnotation Annotation = 1 << iota
	// FormatAnnotation marks a subtree for re-indentation.
	FormatAnnotation
)

// green is the immutable, position-free half of the tree. Green nodes are
// shared freely between trees and must never be mutated once built.
type green struct {
	kind        Kind
	text        string
	leading     []Trivia
	trailing    []Trivia
	children    []*green
	width       int
	hasToken    bool
	missing     bool
	annotations Annotation
}

func newTokenGreen(kind Kind, text string, leading, trailing []Trivia, missing bool) *green {
	return &green{
		kind:     kind,
		text:     text,
		leading:  leading,
		trailing: trailing,
		width:    triviaWidth(leading) + len(text) + triviaWidth(trailing),
		hasToken: true,
		missing:  missing,
	}
}

func newNodeGreen(kind Kind, children []*green, missing bool) *green {
	g := &green{kind: kind, children: children, missing: missing}
	for _, c := range children {
		g.width += c.width
		g.hasToken = g.hasToken || c.hasToken
	}

	return g
}

func (g *green) isToken() bool {
	return g.kind.IsToken()
}

func (g *green) leadingWidth() int {
	if g.isToken() {
		return triviaWidth(g.leading)
	}

	for _, c := range g.children {
		if c.hasToken {
			return c.leadingWidth()
		}
	}

	return 0
}

func (g *green) trailingWidth() int {
	if g.isToken() {
		return triviaWidth(g.trailing)
	}

	for i := len(g.children) - 1; i >= 0; i-- {
		if g.children[i].hasToken {
			return g.children[i].trailingWidth()
		}
	}

	return 0
}

func (g *green) firstToken() *green {
	if g.isToken() {
		return g
	}

	for _, c := range g.children {
		if c.hasToken {
			return c.firstToken()
		}
	}

	return nil
}

func (g *green) lastToken() *green {
	if g.isToken() {
		return g
	}

	for i := len(g.children) - 1; i >= 0; i-- {
		if g.children[i].hasToken {
			return g.children[i].lastToken()
		}
	}

	return nil
}

func (g *green) withChild(i int, c *green) *green {
	children := make([]*green, len(g.children))
	copy(children, g.children)
	children[i] = c

	out := newNodeGreen(g.kind, children, g.missing)
	out.annotations = g.annotations

	return out
}

func (g *green) withLeading(leading []Trivia) *green {
	if g.isToken() {
		out := newTokenGreen(g.kind, g.text, leading, g.trailing, g.missing)
		out.annotations = g.annotations

		return out
	}

	for i, c := range g.children {
		if c.hasToken {
			return g.withChild(i, c.withLeading(leading))
		}
	}

	return g
}

func (g *green) withTrailing(trailing []Trivia) *green {
	if g.isToken() {
		out := newTokenGreen(g.kind, g.text, g.leading, trailing, g.missing)
		out.annotations = g.annotations

		return out
	}

	for i := len(g.children) - 1; i >= 0; i-- {
		if c := g.children[i]; c.hasToken {
			return g.withChild(i, c.withTrailing(trailing))
		}
	}

	return g
}

func (g *green) withAnnotations(a Annotation) *green {
	out := *g
	out.annotations = a

	return &out
}

func (g *green) writeTo(buf []byte) []byte {
	if g.isToken() {
		for _, tr := range g.leading {
			buf = append(buf, tr.Text...)
		}

		buf = append(buf, g.text...)

		for _, tr := range g.trailing {
			buf = append(buf, tr.Text...)
		}

		return buf
	}

	for _, c := range g.children {
		buf = c.writeTo(buf)
	}

	return buf
}

func (g *green) equivalent(other *green) bool {
	if g.kind != other.kind {
		return false
	}

	if g.isToken() {
		return g.text == other.text
	}

	a, b := significantChildren(g), significantChildren(other)
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if !a[i].equivalent(b[i]) {
			return false
		}
	}

	return true
}

func significantChildren(g *green) []*green {
	out := make([]*green, 0, len(g.children))
	for _, c := range g.children {
		if c.width > 0 || !c.missing {
			out = append(out, c)
		}
	}

	return out
}
