package lsp

import (
	"sync"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/Sumatoshi-tech/codemend/pkg/refactor"
)

type document struct {
	text    string
	version protocol.Integer
	// parsed is filled on first use and dropped on every change.
	parsed *refactor.Document
}

// DocumentStore is a thread-safe store of open documents keyed by URI.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[protocol.DocumentUri]*document
}

// NewDocumentStore creates an empty store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{documents: make(map[protocol.DocumentUri]*document)}
}

// Set stores the full text of a document.
func (ds *DocumentStore) Set(uri protocol.DocumentUri, version protocol.Integer, text string) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	ds.documents[uri] = &document{text: text, version: version}
}

// Get returns the text and version of a document.
func (ds *DocumentStore) Get(uri protocol.DocumentUri) (string, protocol.Integer, bool) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	doc, ok := ds.documents[uri]
	if !ok {
		return "", 0, false
	}

	return doc.text, doc.version, true
}

// Apply applies content changes in order. Changes without a range replace
// the whole text.
func (ds *DocumentStore) Apply(uri protocol.DocumentUri, version protocol.Integer, changes []any) bool {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	doc, ok := ds.documents[uri]
	if !ok {
		return false
	}

	text := doc.text

	for _, change := range changes {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			text = c.Text
		case protocol.TextDocumentContentChangeEvent:
			if c.Range == nil {
				text = c.Text

				continue
			}

			start, end := OffsetOf(text, c.Range.Start), OffsetOf(text, c.Range.End)
			text = text[:start] + c.Text + text[max(start, end):]
		case map[string]any:
			if whole, ok := c["text"].(string); ok && c["range"] == nil {
				text = whole
			}
		}
	}

	ds.documents[uri] = &document{text: text, version: version}

	return true
}

// Delete removes a document.
func (ds *DocumentStore) Delete(uri protocol.DocumentUri) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	delete(ds.documents, uri)
}

func (ds *DocumentStore) cached(uri protocol.DocumentUri, version protocol.Integer) *refactor.Document {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	if doc, ok := ds.documents[uri]; ok && doc.version == version {
		return doc.parsed
	}

	return nil
}

func (ds *DocumentStore) remember(uri protocol.DocumentUri, version protocol.Integer, parsed *refactor.Document) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	if doc, ok := ds.documents[uri]; ok && doc.version == version {
		doc.parsed = parsed
	}
}
