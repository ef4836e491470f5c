package refactor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Sumatoshi-tech/codemend/pkg/semantic"
	"github.com/Sumatoshi-tech/codemend/pkg/syntax"
)

// Context errors.
var (
	ErrContextClosed = errors.New("refactoring context is not collecting")
	ErrContextReused = errors.New("refactoring context already dispatched")
)

// State is the lifecycle stage of a Context.
type State uint8

// Context states.
const (
	StateIdle State = iota
	StateDispatched
	StateCollecting
	StateClosed
)

var stateNames = [...]string{"idle", "dispatched", "collecting", "closed"}

// String returns the state name.
func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}

	return "unknown"
}

// Settings decides which rules may run. The zero value enables every rule.
type Settings struct {
	disabled map[string]struct{}
}

// DefaultSettings enables every rule.
func DefaultSettings() Settings {
	return Settings{}
}

// DisableRules returns settings with the given rule ids turned off.
func DisableRules(ids ...string) Settings {
	s := Settings{disabled: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.disabled[id] = struct{}{}
	}

	return s
}

// SettingsFromEnablement builds settings from a rule id → enabled map.
// Rules missing from the map stay enabled.
func SettingsFromEnablement(enabled map[string]bool) Settings {
	var off []string

	for id, on := range enabled {
		if !on {
			off = append(off, id)
		}
	}

	return DisableRules(off...)
}

// Enabled reports whether the rule may run.
func (s Settings) Enabled(id string) bool {
	_, off := s.disabled[id]

	return !off
}

// Context is the per-invocation state shared by every rule evaluated for
// one (document, span) pair. Only the action sink mutates.
type Context struct {
	doc      *Document
	span     syntax.Span
	settings Settings

	mu      sync.Mutex
	state   State
	actions []Action
	keys    map[string]struct{}
}

// NewContext returns an idle context.
func NewContext(doc *Document, span syntax.Span, settings Settings) *Context {
	return &Context{doc: doc, span: span, settings: settings, keys: make(map[string]struct{})}
}

// Document returns the document under refactoring.
func (c *Context) Document() *Document { return c.doc }

// Span returns the selection.
func (c *Context) Span() syntax.Span { return c.span }

// Settings returns the rule settings.
func (c *Context) Settings() Settings { return c.settings }

// IsRuleEnabled reports whether id may run.
func (c *Context) IsRuleEnabled(id string) bool { return c.settings.Enabled(id) }

// SupportsSemantics reports whether semantic gates may run.
func (c *Context) SupportsSemantics() bool { return c.doc.SupportsSemantics() }

// Oracle resolves the document's semantic oracle.
func (c *Context) Oracle(ctx context.Context) (semantic.Oracle, error) {
	return c.doc.Semantics(ctx)
}

// State returns the lifecycle stage.
func (c *Context) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

func (c *Context) transition(from, to State) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != from {
		if c.state == StateClosed {
			return ErrContextClosed
		}

		return fmt.Errorf("%w: %s, want %s", ErrContextReused, c.state, from)
	}

	c.state = to

	return nil
}

// Register adds an action. An action whose equivalence key was already
// registered is dropped and Register reports false.
func (c *Context) Register(a Action) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateCollecting {
		return false, fmt.Errorf("%w: %s", ErrContextClosed, c.state)
	}

	if _, dup := c.keys[a.EquivalenceKey]; dup {
		return false, nil
	}

	c.keys[a.EquivalenceKey] = struct{}{}
	c.actions = append(c.actions, a)

	return true, nil
}

// Actions closes the context and returns the registered actions in order.
func (c *Context) Actions() []Action {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = StateClosed

	out := make([]Action, len(c.actions))
	copy(out, c.actions)

	return out
}
