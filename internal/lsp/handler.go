// Package lsp exposes a minimal hover surface over the reordering pass: on
// open/change it parses, lowers, and reorders a document's first function
// and stores the result; on hover it reports the ordering/Prepare-use
// annotation recorded for the instruction at that line.
//
// This intentionally narrows the much richer language server the teacher
// repo implements (completion, semantic tokens, full diagnostics over a
// whole contract language) to the one signal this pass needs to surface:
// per-instruction reordering annotations. See SPEC_FULL.md §4.13.
package lsp

import (
	"fmt"
	"log"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"moveorder/internal/asm"
	"moveorder/internal/bytecode"
	"moveorder/internal/obslog"
	"moveorder/internal/reorder"
)

var obsLog = obslog.Logger()

// document is the per-file state the handler keeps: the reordered function
// and its ordering/Prepare-use annotations, as produced by reorder.Reorder.
type document struct {
	fn         *bytecode.Function
	ordering   reorder.OrderingAnnotation
	prepareUse reorder.PrepareUseMap
}

// Handler implements the LSP methods this server exposes.
type Handler struct {
	mu   sync.RWMutex
	docs map[string]*document
}

// NewHandler creates an empty Handler.
func NewHandler() *Handler {
	return &Handler{docs: make(map[string]*document)}
}

func (h *Handler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Println("LSP Initialize called")

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
			HoverProvider: true,
		},
	}, nil
}

func (h *Handler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Println("LSP Initialized")
	return nil
}

func (h *Handler) Shutdown(ctx *glsp.Context) error {
	log.Println("LSP Shutdown")
	return nil
}

func (h *Handler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	return h.update(params.TextDocument.URI, params.TextDocument.Text)
}

func (h *Handler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	// Full sync only (TextDocumentSyncKindFull above): the last change event
	// carries the whole document text.
	last := params.ContentChanges[len(params.ContentChanges)-1]
	change, ok := last.(protocol.TextDocumentContentChangeEventWhole)
	if !ok {
		return fmt.Errorf("unexpected incremental content change")
	}
	return h.update(params.TextDocument.URI, change.Text)
}

func (h *Handler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return err
	}
	h.mu.Lock()
	delete(h.docs, path)
	h.mu.Unlock()
	return nil
}

// TextDocumentHover reports the ordering annotation recorded for the
// instruction at the hovered line, against the reordered listing computed
// for the document's first function.
func (h *Handler) TextDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}

	h.mu.RLock()
	doc, ok := h.docs[path]
	h.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	offset, ok := lineToOffset(params.Position.Line, doc.fn)
	if !ok {
		return nil, nil
	}

	comment := asm.AnnotationComment(offset, doc.ordering, doc.prepareUse)
	if comment == "" {
		return nil, nil
	}

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindPlainText,
			Value: comment,
		},
	}, nil
}

func (h *Handler) update(uri protocol.DocumentUri, text string) error {
	path, err := uriToPath(uri)
	if err != nil {
		return err
	}

	fns, err := asm.ParseFunctions(path, text)
	if err != nil || len(fns) == 0 {
		// Parse errors are already reported to the terminal by
		// asm.ParseString's diagnostic printer; the hover surface simply
		// has nothing to show until the document parses again.
		if err != nil {
			obsLog.Warningf("malformed document %s: %s", path, err)
		} else {
			obsLog.Warningf("malformed document %s: no functions declared", path)
		}
		h.mu.Lock()
		delete(h.docs, path)
		h.mu.Unlock()
		return nil
	}

	reordered, ordering, prepareUse := reorder.Reorder(fns[0])

	h.mu.Lock()
	h.docs[path] = &document{fn: reordered, ordering: ordering, prepareUse: prepareUse}
	h.mu.Unlock()
	return nil
}

// lineToOffset maps a hovered line to an instruction offset, assuming the
// layout asm.PrintFunction produces: one header line, a `locals:` line when
// the code references any temporary, then one line per instruction, then a
// closing brace line.
func lineToOffset(line uint32, fn *bytecode.Function) (bytecode.Offset, bool) {
	header := 1
	for _, instr := range fn.Code {
		if len(instr.Sources()) > 0 || len(instr.Dests()) > 0 {
			header = 2
			break
		}
	}
	idx := int(line) - header
	if idx < 0 || idx >= len(fn.Code) {
		return 0, false
	}
	return bytecode.Offset(idx), true
}

func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}
	path := u.Path
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}
	return filepath.FromSlash(path), nil
}

func ptrBool(b bool) *bool { return &b }

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind { return &k }
