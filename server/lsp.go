package server

import (
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	glspserver "github.com/tliron/glsp/server"

	"github.com/shaderdesk/shaderdesk/playground"

	_ "github.com/tliron/commonlog/simple"
)

const lspName = "shaderdesk-lsp"

// builtinCompletions are prelude identifiers every shader can use.
var builtinCompletions = []string{
	"screen", "pass_in", "pass_out", "atomic_storage",
	"channel0", "channel1", "time", "mouse", "custom",
	"keyDown", "assert", "dispatch",
}

// LspServer bridges LSP editor features to the playground controller.
// The edited shader document feeds the code store; compile diagnostics
// flow back as published diagnostics, because the server registers
// itself as the controller's marker sink.
type LspServer struct {
	ctrl *playground.Controller

	mu   sync.Mutex
	uri  protocol.DocumentUri // the active shader document
	glsp *glsp.Context        // captured on first notification

	handler protocol.Handler
	server  *glspserver.Server
	version string
}

// NewLSP creates an LSP server wrapping the given controller. The
// returned server should be installed as the controller's MarkerSink.
func NewLSP(ctrl *playground.Controller) *LspServer {
	s := &LspServer{
		ctrl:    ctrl,
		version: "0.1.0",
	}

	s.handler = protocol.Handler{
		Initialize:  s.initialize,
		Initialized: s.initialized,
		Shutdown:    s.shutdown,
		SetTrace:    s.setTrace,

		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidClose:  s.textDocumentDidClose,

		TextDocumentCompletion: s.textDocumentCompletion,
		TextDocumentHover:      s.textDocumentHover,
	}

	s.server = glspserver.NewServer(&s.handler, lspName, false)

	return s
}

// Run starts the LSP server on stdio. Blocks until the client disconnects.
func (s *LspServer) Run() error {
	return s.server.RunStdio()
}

// --- LSP lifecycle handlers ---

func (s *LspServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	commonlog.NewInfoMessage(0, "shaderdesk LSP initializing")

	capabilities := s.handler.CreateServerCapabilities()

	syncKind := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    &syncKind,
	}

	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: []string{"."},
	}

	capabilities.HoverProvider = true

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lspName,
			Version: &s.version,
		},
	}, nil
}

func (s *LspServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (s *LspServer) shutdown(ctx *glsp.Context) error {
	s.ctrl.Stop()
	return nil
}

func (s *LspServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	return nil
}

// --- Document synchronization ---

func (s *LspServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.mu.Lock()
	s.uri = params.TextDocument.URI
	s.glsp = ctx
	s.mu.Unlock()

	s.ctrl.Code().SetText(params.TextDocument.Text)
	return nil
}

func (s *LspServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	s.mu.Lock()
	s.uri = params.TextDocument.URI
	s.glsp = ctx
	s.mu.Unlock()

	// With Full sync, the last change event contains the full text
	if len(params.ContentChanges) > 0 {
		last := params.ContentChanges[len(params.ContentChanges)-1]
		if whole, ok := last.(protocol.TextDocumentContentChangeEventWhole); ok {
			s.ctrl.Code().SetText(whole.Text)
		}
	}
	return nil
}

func (s *LspServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.mu.Lock()
	uri := s.uri
	s.uri = ""
	s.mu.Unlock()

	if uri != "" {
		go ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
			URI:         uri,
			Diagnostics: []protocol.Diagnostic{},
		})
	}
	return nil
}

// --- Marker sink ---

// SetMarkers publishes compile markers as LSP diagnostics on the active
// document. Called by the controller from its event loop.
func (s *LspServer) SetMarkers(markers []playground.Marker) {
	s.publish(markersToDiagnostics(markers))
}

// ClearMarkers removes all published diagnostics.
func (s *LspServer) ClearMarkers() {
	s.publish([]protocol.Diagnostic{})
}

func (s *LspServer) publish(diagnostics []protocol.Diagnostic) {
	s.mu.Lock()
	ctx := s.glsp
	uri := s.uri
	s.mu.Unlock()

	if ctx == nil || uri == "" {
		return
	}
	go ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

// markersToDiagnostics converts 1-based marker coordinates to the
// protocol's 0-based positions.
func markersToDiagnostics(markers []playground.Marker) []protocol.Diagnostic {
	diagnostics := make([]protocol.Diagnostic, 0, len(markers))
	for _, m := range markers {
		severity := protocol.DiagnosticSeverityError
		source := lspName
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{Line: zeroBased(m.StartRow), Character: zeroBased(m.StartCol)},
				End:   protocol.Position{Line: zeroBased(m.EndRow), Character: zeroBased(m.EndCol)},
			},
			Severity: &severity,
			Source:   &source,
			Message:  m.Message,
		})
	}
	return diagnostics
}

func zeroBased(n int) protocol.UInteger {
	if n <= 1 {
		return 0
	}
	return protocol.UInteger(n - 1)
}

// --- Language features ---

func (s *LspServer) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	text, _ := s.ctrl.Code().Snapshot()
	prefix := extractPrefix(text, params.Position)

	var items []protocol.CompletionItem

	// Members after "custom." are the bound uniform names.
	if strings.HasSuffix(prefix, ".") || strings.Contains(prefix, "custom.") {
		member := prefix[strings.LastIndex(prefix, ".")+1:]
		for _, name := range s.ctrl.Uniforms().Names() {
			if strings.HasPrefix(name, member) {
				kind := protocol.CompletionItemKindField
				detail := "uniform"
				nameCopy := name
				items = append(items, protocol.CompletionItem{
					Label:      name,
					Kind:       &kind,
					Detail:     &detail,
					InsertText: &nameCopy,
				})
			}
		}
		return items, nil
	}

	if prefix == "" {
		return nil, nil
	}

	lowerPrefix := strings.ToLower(prefix)
	for _, name := range builtinCompletions {
		if strings.HasPrefix(strings.ToLower(name), lowerPrefix) {
			kind := protocol.CompletionItemKindVariable
			detail := "builtin"
			nameCopy := name
			items = append(items, protocol.CompletionItem{
				Label:      name,
				Kind:       &kind,
				Detail:     &detail,
				InsertText: &nameCopy,
			})
		}
	}

	for _, e := range s.ctrl.Entries().List() {
		if strings.HasPrefix(strings.ToLower(e.Name), lowerPrefix) {
			kind := protocol.CompletionItemKindFunction
			detail := fmt.Sprintf("%s entry point", e.Kind)
			name := e.Name
			items = append(items, protocol.CompletionItem{
				Label:      e.Name,
				Kind:       &kind,
				Detail:     &detail,
				InsertText: &name,
			})
		}
	}

	return items, nil
}

func (s *LspServer) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	text, _ := s.ctrl.Code().Snapshot()
	word := extractWord(text, params.Position)
	if word == "" {
		return nil, nil
	}

	// Entry points first: hovering a dispatchable function shows its shape.
	for _, e := range s.ctrl.Entries().List() {
		if e.Name == word {
			value := fmt.Sprintf("**%s**\n\n%s entry point, workgroup size %d×%d×%d",
				e.Name, e.Kind, e.WorkgroupSize[0], e.WorkgroupSize[1], e.WorkgroupSize[2])
			return &protocol.Hover{
				Contents: protocol.MarkupContent{
					Kind:  protocol.MarkupKindMarkdown,
					Value: value,
				},
			}, nil
		}
	}

	if decl, ok := s.ctrl.Uniforms().Decl(word); ok {
		value := fmt.Sprintf("**custom.%s**\n\nuniform, default %g, range [%g, %g]",
			decl.Name, decl.Default, decl.Min, decl.Max)
		return &protocol.Hover{
			Contents: protocol.MarkupContent{
				Kind:  protocol.MarkupKindMarkdown,
				Value: value,
			},
		}, nil
	}

	return nil, nil
}

// --- Text extraction helpers ---

// extractPrefix returns the fragment before the cursor for completion,
// including a dotted path like "custom.ra".
func extractPrefix(text string, pos protocol.Position) string {
	lines := strings.Split(text, "\n")
	if int(pos.Line) >= len(lines) {
		return ""
	}
	line := lines[pos.Line]
	col := int(pos.Character)
	if col > len(line) {
		col = len(line)
	}

	// Walk backwards from cursor to find the start of the identifier
	start := col
	for start > 0 {
		ch := rune(line[start-1])
		if unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_' || ch == '.' {
			start--
		} else {
			break
		}
	}

	if start == col {
		return ""
	}

	return line[start:col]
}

// extractWord returns the full identifier under the cursor.
func extractWord(text string, pos protocol.Position) string {
	lines := strings.Split(text, "\n")
	if int(pos.Line) >= len(lines) {
		return ""
	}
	line := lines[pos.Line]
	col := int(pos.Character)
	if col > len(line) {
		col = len(line)
	}

	// Find start
	start := col
	for start > 0 {
		ch := rune(line[start-1])
		if unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_' {
			start--
		} else {
			break
		}
	}

	// Find end
	end := col
	for end < len(line) {
		ch := rune(line[end])
		if unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_' {
			end++
		} else {
			break
		}
	}

	if start == end {
		return ""
	}

	return line[start:end]
}

func boolPtr(b bool) *bool {
	return &b
}
