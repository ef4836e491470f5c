package syntax

import "fmt"

// Span is a half-open byte range [Start, End) into source text.
type Span struct {
	Start int
	End   int
}

// NewSpan returns the span starting at start with the given length.
func NewSpan(start, length int) Span {
	return Span{Start: start, End: start + length}
}

// Len returns the span length in bytes.
func (s Span) Len() int {
	return s.End - s.Start
}

// IsEmpty reports whether the span has zero length.
func (s Span) IsEmpty() bool {
	return s.End == s.Start
}

// Contains reports whether other lies entirely inside s. An empty span at
// either boundary is contained.
func (s Span) Contains(other Span) bool {
	return other.Start >= s.Start && other.End <= s.End
}

// ContainsPos reports whether pos lies in [Start, End).
func (s Span) ContainsPos(pos int) bool {
	return pos >= s.Start && pos < s.End
}

// Overlaps reports whether the spans share at least one byte.
func (s Span) Overlaps(other Span) bool {
	return s.Start < other.End && other.Start < s.End
}

// String formats the span as [start..end).
func (s Span) String() string {
	return fmt.Sprintf("[%d..%d)", s.Start, s.End)
}
