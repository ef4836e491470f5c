// Package parse builds lossless syntax trees from C# source using
// tree-sitter. Every byte of the input lands in a token or its trivia, so
// the tree's full text reproduces the source exactly.
package parse

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"sync"

	sitter "github.com/alexaandru/go-tree-sitter-bare"
	"github.com/alexaandru/go-sitter-forest/c_sharp"
	"github.com/src-d/enry/v2"

	"github.com/Sumatoshi-tech/codemend/pkg/syntax"
)

// LanguageCSharp is the linguist name of the only language parsed here.
const LanguageCSharp = "C#"

var (
	// ErrUnsupportedLanguage is returned for paths that are not C# sources.
	ErrUnsupportedLanguage = errors.New("unsupported language")

	errNoRootNode = errors.New("parser produced no root node")
	errPoolType   = errors.New("unexpected parser pool entry")
)

// Parser turns source text into a syntax tree.
type Parser interface {
	Parse(ctx context.Context, path string, src []byte) (*syntax.Node, error)
}

// ParserFunc adapts a function to Parser.
type ParserFunc func(ctx context.Context, path string, src []byte) (*syntax.Node, error)

// Parse implements Parser.
func (f ParserFunc) Parse(ctx context.Context, path string, src []byte) (*syntax.Node, error) {
	return f(ctx, path, src)
}

// Detect returns the linguist language of a file, or "" when unknown.
func Detect(path string, src []byte) string {
	return enry.GetLanguage(filepath.Base(path), src)
}

// Supports reports whether path has a C# extension.
func Supports(path string) bool {
	return slices.Contains(enry.GetLanguagesByExtension(filepath.Base(path), nil, nil), LanguageCSharp)
}

var csharpLanguage = sync.OnceValue(func() *sitter.Language {
	return sitter.NewLanguage(c_sharp.GetLanguage())
})

// CSharp parses C# with a pool of tree-sitter parsers. It is safe for
// concurrent use.
type CSharp struct {
	pool sync.Pool
}

// NewCSharp returns a ready parser.
func NewCSharp() *CSharp {
	lang := csharpLanguage()

	return &CSharp{
		pool: sync.Pool{
			New: func() any {
				tsParser := sitter.NewParser()
				tsParser.SetLanguage(lang)

				return tsParser
			},
		},
	}
}

// Parse implements Parser. An empty path skips the extension check.
func (p *CSharp) Parse(ctx context.Context, path string, src []byte) (*syntax.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if path != "" && !Supports(path) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, path)
	}

	tsParser, ok := p.pool.Get().(*sitter.Parser)
	if !ok {
		return nil, errPoolType
	}

	defer p.pool.Put(tsParser)

	tree, err := tsParser.ParseString(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.IsNull() {
		return nil, errNoRootNode
	}

	return lower(root, src), nil
}
