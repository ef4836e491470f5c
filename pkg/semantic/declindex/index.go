// Package declindex is a lightweight oracle over one syntax tree. It knows
// the types, members, parameters and locals declared in the tree and infers
// expression types from them; anything declared elsewhere stays unresolved.
package declindex

import (
	"context"
	"strings"

	"github.com/Sumatoshi-tech/codemend/pkg/semantic"
	"github.com/Sumatoshi-tech/codemend/pkg/syntax"
)

type typeDecl struct {
	node   *syntax.Node
	symbol semantic.Symbol
	// members by name; methods share the slot of their first overload.
	members map[string]semantic.Symbol
}

// Index answers oracle queries for the tree it was built from.
type Index struct {
	root  *syntax.Node
	types map[string]*typeDecl
	decls map[syntax.Span]*typeDecl
}

// Provider returns a provider that indexes each document root on demand.
func Provider() semantic.Provider {
	return semantic.ProviderFunc(func(ctx context.Context, root *syntax.Node) (semantic.Oracle, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		return New(root), nil
	})
}

// New indexes the declarations of root.
func New(root *syntax.Node) *Index {
	idx := &Index{
		root:  root,
		types: make(map[string]*typeDecl),
		decls: make(map[syntax.Span]*typeDecl),
	}

	for n := range root.DescendantsAndSelf() {
		if kind, ok := typeKindOf(n.Kind()); ok {
			idx.declareType(n, kind)
		}
	}

	for _, td := range idx.decls {
		idx.collectMembers(td)
	}

	return idx
}

func typeKindOf(k syntax.Kind) (semantic.TypeKind, bool) {
	switch k {
	case syntax.ClassDeclaration:
		return semantic.TypeClass, true
	case syntax.StructDeclaration:
		return semantic.TypeStruct, true
	case syntax.InterfaceDeclaration:
		return semantic.TypeInterface, true
	case syntax.EnumDeclaration:
		return semantic.TypeEnum, true
	default:
		return semantic.TypeUnknown, false
	}
}

// declName returns the declared name: the identifier token of a parameter
// or declarator, otherwise the last simple name child, which follows any
// return type.
func declName(n *syntax.Node) string {
	if tok := n.ChildOfKind(syntax.IdentifierToken); tok != nil {
		return tok.Text()
	}

	if names := n.ChildrenOfKind(syntax.IdentifierName); len(names) > 0 {
		return names[len(names)-1].Text()
	}

	return ""
}

func hasModifier(decl *syntax.Node, kind syntax.Kind) bool {
	mods := decl.ChildOfKind(syntax.ModifierList)

	return mods != nil && mods.ChildOfKind(kind) != nil
}

func (idx *Index) declareType(n *syntax.Node, kind semantic.TypeKind) {
	name := declName(n)
	if name == "" {
		return
	}

	td := &typeDecl{
		node: n,
		symbol: semantic.Symbol{
			Kind:     semantic.SymbolNamedType,
			Name:     name,
			Static:   hasModifier(n, syntax.StaticKeyword),
			Type:     semantic.Type{Name: name, Kind: kind},
			TypeKind: kind,
		},
		members: make(map[string]semantic.Symbol),
	}

	idx.decls[n.Span()] = td

	if _, dup := idx.types[name]; !dup {
		idx.types[name] = td
	}
}

func (idx *Index) collectMembers(td *typeDecl) {
	var (
		members []semantic.Symbol
		hasCtor bool
	)

	add := func(sym semantic.Symbol) {
		members = append(members, sym)
		if _, seen := td.members[sym.Name]; !seen {
			td.members[sym.Name] = sym
		}
	}

	for _, m := range td.node.NodeChildren() {
		static := hasModifier(m, syntax.StaticKeyword) || hasModifier(m, syntax.ConstKeyword)

		switch m.Kind() {
		case syntax.MethodDeclaration:
			add(semantic.Symbol{Kind: semantic.SymbolMethod, Name: declName(m), Static: static, Type: idx.typeOfTypeNode(returnTypeNode(m))})
		case syntax.ConstructorDeclaration:
			hasCtor = true
			add(semantic.Symbol{Kind: semantic.SymbolConstructor, Name: declName(m), Static: static, Type: td.symbol.Type})
		case syntax.PropertyDeclaration:
			add(semantic.Symbol{Kind: semantic.SymbolProperty, Name: declName(m), Static: static, Type: idx.typeOfTypeNode(returnTypeNode(m))})
		case syntax.FieldDeclaration:
			decl := m.ChildOfKind(syntax.VariableDeclaration)
			if decl == nil {
				continue
			}

			typ := idx.typeOfTypeNode(firstNode(decl))
			for _, d := range decl.ChildrenOfKind(syntax.VariableDeclarator) {
				add(semantic.Symbol{Kind: semantic.SymbolField, Name: declName(d), Static: static, Type: typ})
			}
		default:
			if kind, ok := typeKindOf(m.Kind()); ok {
				nested := idx.decls[m.Span()]
				if nested == nil {
					continue
				}

				add(semantic.Symbol{Kind: semantic.SymbolNamedType, Name: nested.symbol.Name, TypeKind: kind, Type: nested.symbol.Type})
			}
		}
	}

	if td.symbol.TypeKind == semantic.TypeClass && !hasCtor && !td.symbol.Static {
		members = append(members, semantic.Symbol{
			Kind: semantic.SymbolConstructor, Name: td.symbol.Name, Implicit: true, Type: td.symbol.Type,
		})
	}

	td.symbol.Members = members
}

func firstNode(n *syntax.Node) *syntax.Node {
	nodes := n.NodeChildren()
	if len(nodes) == 0 {
		return nil
	}

	return nodes[0]
}

// returnTypeNode returns the type node of a method or property: the first
// node child after the modifier list.
func returnTypeNode(decl *syntax.Node) *syntax.Node {
	for _, c := range decl.NodeChildren() {
		if !c.Is(syntax.ModifierList, syntax.AttributeList) {
			return c
		}
	}

	return nil
}

var predefinedTypes = map[string]semantic.TypeKind{
	"object": semantic.TypeClass, "string": semantic.TypeClass, "dynamic": semantic.TypeClass,
}

// typeOfTypeNode resolves a type reference written in source.
func (idx *Index) typeOfTypeNode(n *syntax.Node) semantic.Type {
	if n == nil {
		return semantic.UnresolvedType
	}

	name := strings.Join(strings.Fields(n.Text()), "")

	return idx.typeNamed(name)
}

func (idx *Index) typeNamed(name string) semantic.Type {
	switch {
	case name == "":
		return semantic.UnresolvedType
	case name == "void":
		return semantic.VoidType
	case syntax.IsPredefinedTypeName(name):
		kind, ok := predefinedTypes[name]
		if !ok {
			kind = semantic.TypeStruct
		}

		return semantic.Type{Name: name, Kind: kind}
	}

	if td, ok := idx.types[name]; ok {
		return td.symbol.Type
	}

	return semantic.UnresolvedType
}

// SymbolOf implements semantic.Oracle.
func (idx *Index) SymbolOf(ctx context.Context, n *syntax.Node) (semantic.Symbol, error) {
	if err := ctx.Err(); err != nil {
		return semantic.Unresolved, err
	}

	if n == nil {
		return semantic.Unresolved, nil
	}

	if td, ok := idx.decls[n.Span()]; ok && td.node.Kind() == n.Kind() {
		return td.symbol, nil
	}

	switch n.Kind() {
	case syntax.IdentifierName:
		if sym, ok := idx.lookup(n, n.Text(), 0); ok {
			return sym, nil
		}

		if td, ok := idx.types[n.Text()]; ok {
			return td.symbol, nil
		}
	case syntax.MethodDeclaration, syntax.PropertyDeclaration, syntax.ConstructorDeclaration:
		if td := idx.enclosingType(n); td != nil {
			if sym, ok := td.members[declName(n)]; ok {
				return sym, nil
			}
		}
	}

	return semantic.Unresolved, nil
}

// TypeOf implements semantic.Oracle.
func (idx *Index) TypeOf(ctx context.Context, n *syntax.Node) (semantic.Type, error) {
	if err := ctx.Err(); err != nil {
		return semantic.UnresolvedType, err
	}

	return idx.typeOf(n, 0), nil
}

// NamesInScope implements semantic.Oracle. It returns the locals and
// parameters of the enclosing members, the members of enclosing types and
// every type declared in the tree.
func (idx *Index) NamesInScope(ctx context.Context, pos int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	at := idx.root.FindNode(syntax.NewSpan(pos, 0))
	if at == nil {
		return nil, nil
	}

	seen := make(map[string]struct{})

	var names []string

	add := func(name string) {
		if _, ok := seen[name]; ok || name == "" {
			return
		}

		seen[name] = struct{}{}
		names = append(names, name)
	}

	for _, scope := range at.AncestorsAndSelf() {
		for _, v := range scopeVariables(scope) {
			add(v.name)
		}

		if td, ok := idx.decls[scope.Span()]; ok && td.node.Kind() == scope.Kind() {
			for _, m := range td.symbol.Members {
				if !m.Implicit {
					add(m.Name)
				}
			}
		}
	}

	for name := range idx.types {
		add(name)
	}

	return names, nil
}

func (idx *Index) enclosingType(n *syntax.Node) *typeDecl {
	for _, a := range n.Ancestors() {
		if td, ok := idx.decls[a.Span()]; ok && td.node.Kind() == a.Kind() {
			return td
		}
	}

	return nil
}
