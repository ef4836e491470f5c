// Package semantic defines the read-only oracle rules consult for symbol and
// type facts. Every lookup returns an explicit unresolved value instead of
// nil; errors are reserved for cancellation.
package semantic

// SymbolKind classifies a resolved symbol.
type SymbolKind uint8

// Symbol kinds. The zero value means unresolved.
const (
	SymbolUnresolved SymbolKind = iota
	SymbolNamespace
	SymbolNamedType
	SymbolMethod
	SymbolConstructor
	SymbolField
	SymbolProperty
	SymbolEvent
	SymbolLocal
	SymbolParameter
	SymbolErrorType
)

var symbolKindNames = [...]string{
	SymbolUnresolved:  "unresolved",
	SymbolNamespace:   "namespace",
	SymbolNamedType:   "named-type",
	SymbolMethod:      "method",
	SymbolConstructor: "constructor",
	SymbolField:       "field",
	SymbolProperty:    "property",
	SymbolEvent:       "event",
	SymbolLocal:       "local",
	SymbolParameter:   "parameter",
	SymbolErrorType:   "error-type",
}

// String returns the kind name.
func (k SymbolKind) String() string {
	if int(k) < len(symbolKindNames) {
		return symbolKindNames[k]
	}

	return "unknown"
}

// TypeKind classifies a type.
type TypeKind uint8

// Type kinds. The zero value means unknown.
const (
	TypeUnknown TypeKind = iota
	TypeClass
	TypeStruct
	TypeInterface
	TypeEnum
	TypeDelegate
	TypeError
)

// Type is a resolved type identity. Two types are equal when both are
// resolved and their names and kinds match.
type Type struct {
	Name string
	Kind TypeKind
	Void bool
}

// UnresolvedType is returned when no type could be determined.
var UnresolvedType = Type{}

// VoidType is the type of expressions producing no value.
var VoidType = Type{Name: "void", Kind: TypeStruct, Void: true}

// ErrorType returns the type a resolver reports for an unknown type name.
func ErrorType(name string) Type {
	return Type{Name: name, Kind: TypeError}
}

// Resolved reports whether the type is known at all.
func (t Type) Resolved() bool {
	return t.Name != "" && t.Kind != TypeUnknown
}

// IsError reports whether the type is an error type.
func (t Type) IsError() bool {
	return t.Kind == TypeError
}

// Equal reports type identity. Unresolved types are never equal.
func (t Type) Equal(other Type) bool {
	return t.Resolved() && other.Resolved() && t.Name == other.Name && t.Kind == other.Kind
}

// String returns the type name or "?" when unresolved.
func (t Type) String() string {
	if t.Name == "" {
		return "?"
	}

	return t.Name
}

// Symbol is a resolved program entity. Members is populated for named types.
type Symbol struct {
	Kind     SymbolKind
	Name     string
	Static   bool
	Implicit bool
	Type     Type
	TypeKind TypeKind
	Members  []Symbol
}

// Unresolved is the symbol returned when nothing could be bound.
var Unresolved = Symbol{}

// Resolved reports whether the symbol is bound.
func (s Symbol) Resolved() bool {
	return s.Kind != SymbolUnresolved
}

// IsNamedType reports whether the symbol declares a type.
func (s Symbol) IsNamedType() bool {
	return s.Kind == SymbolNamedType || s.Kind == SymbolErrorType
}

// ExplicitMembers returns the members that appear in source.
func (s Symbol) ExplicitMembers() []Symbol {
	out := make([]Symbol, 0, len(s.Members))
	for _, m := range s.Members {
		if !m.Implicit {
			out = append(out, m)
		}
	}

	return out
}
