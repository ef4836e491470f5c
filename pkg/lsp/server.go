// Package lsp serves codemend refactorings as LSP code actions. Actions are
// listed cheaply on textDocument/codeAction and computed on
// codeAction/resolve.
package lsp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/Sumatoshi-tech/codemend/pkg/alg/lru"
	"github.com/Sumatoshi-tech/codemend/pkg/parse"
	"github.com/Sumatoshi-tech/codemend/pkg/refactor"
	"github.com/Sumatoshi-tech/codemend/pkg/rewrite"
	"github.com/Sumatoshi-tech/codemend/pkg/semantic"
)

const (
	serverName = "codemend"

	// DefaultPendingActions bounds how many listed actions await resolve.
	DefaultPendingActions = 256
)

// Server errors.
var (
	ErrUnknownDocument  = errors.New("document is not open")
	ErrDocumentTooLarge = errors.New("document exceeds size limit")
	ErrStaleAction      = errors.New("code action is stale")
)

// Deps wires the server to the engine.
type Deps struct {
	Engine   *refactor.Engine
	Parser   parse.Parser
	Provider semantic.Provider
	Settings refactor.Settings
	Logger   *slog.Logger

	// MaxDocumentBytes rejects larger documents; zero disables the check.
	MaxDocumentBytes uint64
	// PendingActions bounds the resolve cache; zero uses DefaultPendingActions.
	PendingActions int
	Version        string
}

type pendingAction struct {
	uri     protocol.DocumentUri
	version protocol.Integer
	text    string
	action  refactor.Action
}

// Server implements the codemend language server.
type Server struct {
	deps    Deps
	store   *DocumentStore
	pending *lru.Cache[string, pendingAction]
	seq     atomic.Uint64
	ctx     context.Context //nolint:containedctx // glsp handlers carry no context.
	handler protocol.Handler
}

// NewServer creates a server with default handlers.
func NewServer(deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}

	size := deps.PendingActions
	if size <= 0 {
		size = DefaultPendingActions
	}

	srv := &Server{
		deps:    deps,
		store:   NewDocumentStore(),
		pending: lru.New(lru.WithMaxEntries[string, pendingAction](size)),
		ctx:     context.Background(),
	}

	srv.handler = protocol.Handler{
		Initialize:             srv.initialize,
		Initialized:            srv.initialized,
		Shutdown:               srv.shutdown,
		SetTrace:               srv.setTrace,
		TextDocumentDidOpen:    srv.didOpen,
		TextDocumentDidChange:  srv.didChange,
		TextDocumentDidClose:   srv.didClose,
		TextDocumentCodeAction: srv.codeAction,
		CodeActionResolve:      srv.resolve,
	}

	return srv
}

// Handler exposes the protocol handler.
func (srv *Server) Handler() *protocol.Handler {
	return &srv.handler
}

// Store exposes the open documents.
func (srv *Server) Store() *DocumentStore {
	return srv.store
}

// Run serves on stdio until the client disconnects.
func (srv *Server) Run(ctx context.Context) error {
	srv.ctx = ctx

	lspServer := server.NewServer(&srv.handler, serverName, false)

	err := lspServer.RunStdio()
	if err != nil {
		return fmt.Errorf("lsp server: %w", err)
	}

	return nil
}

func (srv *Server) initialize(_ *glsp.Context, _ *protocol.InitializeParams) (any, error) {
	capabilities := srv.handler.CreateServerCapabilities()

	resolve := true
	capabilities.CodeActionProvider = protocol.CodeActionOptions{
		CodeActionKinds: []protocol.CodeActionKind{protocol.CodeActionKindRefactorRewrite},
		ResolveProvider: &resolve,
	}

	openClose := true
	change := protocol.TextDocumentSyncKindIncremental
	capabilities.TextDocumentSync = protocol.TextDocumentSyncOptions{
		OpenClose: &openClose,
		Change:    &change,
	}

	version := srv.deps.Version

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &version,
		},
	}, nil
}

func (srv *Server) initialized(_ *glsp.Context, _ *protocol.InitializedParams) error {
	return nil
}

func (srv *Server) shutdown(_ *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	srv.pending.Clear()

	return nil
}

func (srv *Server) setTrace(_ *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)

	return nil
}

func (srv *Server) didOpen(_ *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	srv.store.Set(params.TextDocument.URI, params.TextDocument.Version, params.TextDocument.Text)

	return nil
}

func (srv *Server) didChange(_ *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI

	if !srv.store.Apply(uri, params.TextDocument.Version, params.ContentChanges) {
		return fmt.Errorf("%w: %s", ErrUnknownDocument, uri)
	}

	srv.forget(uri)

	return nil
}

func (srv *Server) didClose(_ *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	srv.store.Delete(params.TextDocument.URI)
	srv.forget(params.TextDocument.URI)

	return nil
}

func (srv *Server) forget(uri protocol.DocumentUri) {
	srv.pending.RemoveFunc(func(_ string, p pendingAction) bool { return p.uri == uri })
}

func (srv *Server) codeAction(_ *glsp.Context, params *protocol.CodeActionParams) (any, error) {
	ctx := srv.ctx
	uri := params.TextDocument.URI

	text, version, ok := srv.store.Get(uri)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDocument, uri)
	}

	doc, err := srv.document(ctx, uri, version, text)
	if err != nil {
		return nil, err
	}

	res, err := srv.deps.Engine.Dispatch(ctx, refactor.Request{
		Document: doc,
		Span:     SpanOf(text, params.Range),
		Settings: srv.deps.Settings,
	})
	if err != nil {
		return nil, fmt.Errorf("code actions for %s: %w", uri, err)
	}

	for _, failure := range res.Failures {
		srv.deps.Logger.ErrorContext(ctx, "rule failed",
			"rule", failure.RuleID, "uri", uri, "error", failure.Err)
	}

	kind := protocol.CodeActionKindRefactorRewrite
	actions := make([]protocol.CodeAction, 0, len(res.Actions))

	for _, action := range res.Actions {
		key := strconv.FormatUint(srv.seq.Add(1), 10)
		srv.pending.Put(key, pendingAction{uri: uri, version: version, text: text, action: action})

		actions = append(actions, protocol.CodeAction{
			Title: action.Title,
			Kind:  &kind,
			Data:  key,
		})
	}

	return actions, nil
}

func (srv *Server) resolve(_ *glsp.Context, params *protocol.CodeAction) (*protocol.CodeAction, error) {
	key, _ := params.Data.(string)

	entry, ok := srv.pending.Get(key)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrStaleAction, params.Title)
	}

	if _, version, open := srv.store.Get(entry.uri); !open || version != entry.version {
		srv.pending.Remove(key)

		return nil, fmt.Errorf("%w: %q", ErrStaleAction, params.Title)
	}

	rewritten, err := entry.action.Compute(srv.ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", params.Title, err)
	}

	edits := rewrite.Edits(entry.text, rewritten.Text())
	textEdits := make([]protocol.TextEdit, len(edits))

	for i, e := range edits {
		textEdits[i] = protocol.TextEdit{Range: RangeOf(entry.text, e.Span), NewText: e.NewText}
	}

	resolved := *params
	resolved.Edit = &protocol.WorkspaceEdit{
		Changes: map[protocol.DocumentUri][]protocol.TextEdit{entry.uri: textEdits},
	}

	return &resolved, nil
}

// document returns the parsed document, parsing at most once per version.
func (srv *Server) document(
	ctx context.Context, uri protocol.DocumentUri, version protocol.Integer, text string,
) (*refactor.Document, error) {
	if doc := srv.store.cached(uri, version); doc != nil {
		return doc, nil
	}

	if limit := srv.deps.MaxDocumentBytes; limit > 0 && uint64(len(text)) > limit {
		return nil, fmt.Errorf("%w: %s is %s, limit %s", ErrDocumentTooLarge, uri,
			humanize.Bytes(uint64(len(text))), humanize.Bytes(limit))
	}

	path := pathOf(uri)

	root, err := srv.deps.Parser.Parse(ctx, path, []byte(text))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", uri, err)
	}

	doc := refactor.NewDocument(path, root, srv.deps.Provider)
	srv.store.remember(uri, version, doc)

	return doc, nil
}

func pathOf(uri protocol.DocumentUri) string {
	u, err := url.Parse(uri)
	if err != nil || u.Path == "" {
		return uri
	}

	return u.Path
}
