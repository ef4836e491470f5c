package refactor

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/Sumatoshi-tech/codemend/pkg/syntax"
)

// Registry errors.
var (
	ErrDuplicateRule = errors.New("duplicate rule id")
	ErrInvalidRule   = errors.New("invalid rule")
)

var ruleIDPattern = regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z0-9]+)*$`)

// Registration binds a rule to the kinds it triggers on.
type Registration struct {
	ID    string
	Title string
	Kinds []syntax.Kind
	Rule  Rule
	order int
}

// Registry maps node kinds to the rules dispatched for them. It is built
// once and never mutated afterwards.
type Registry struct {
	ordered []Registration
	byKind  map[syntax.Kind][]Registration
	byID    map[string]Registration
}

// NewRegistry validates and indexes rules. Registration order is kept and
// decides action order among rules firing on the same node.
func NewRegistry(rules ...Rule) (*Registry, error) {
	r := &Registry{
		byKind: make(map[syntax.Kind][]Registration),
		byID:   make(map[string]Registration, len(rules)),
	}

	for i, rule := range rules {
		if rule == nil {
			return nil, fmt.Errorf("%w: rule %d is nil", ErrInvalidRule, i)
		}

		id := rule.ID()
		if !ruleIDPattern.MatchString(id) {
			return nil, fmt.Errorf("%w: id %q is not kebab-case", ErrInvalidRule, id)
		}

		if _, dup := r.byID[id]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRule, id)
		}

		kinds := rule.Kinds()
		if len(kinds) == 0 {
			return nil, fmt.Errorf("%w: %s declares no trigger kinds", ErrInvalidRule, id)
		}

		reg := Registration{ID: id, Title: rule.Title(), Kinds: kinds, Rule: rule, order: i}

		for _, k := range kinds {
			if !k.IsNode() {
				return nil, fmt.Errorf("%w: %s triggers on non-node kind %s", ErrInvalidRule, id, k)
			}

			r.byKind[k] = append(r.byKind[k], reg)
		}

		r.ordered = append(r.ordered, reg)
		r.byID[id] = reg
	}

	return r, nil
}

// MustRegistry is NewRegistry for static rule sets; it panics on error.
func MustRegistry(rules ...Rule) *Registry {
	r, err := NewRegistry(rules...)
	if err != nil {
		panic(err)
	}

	return r
}

// ForKind returns the registrations triggered by kind, in registration order.
func (r *Registry) ForKind(kind syntax.Kind) []Registration {
	return r.byKind[kind]
}

// Lookup returns the registration for id.
func (r *Registry) Lookup(id string) (Registration, bool) {
	reg, ok := r.byID[id]

	return reg, ok
}

// Registrations returns every registration in order.
func (r *Registry) Registrations() []Registration {
	out := make([]Registration, len(r.ordered))
	copy(out, r.ordered)

	return out
}

// IDs returns every rule id in registration order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.ordered))
	for i, reg := range r.ordered {
		ids[i] = reg.ID
	}

	return ids
}
