package lsp

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/Trapfether/tailwind-raw-reorder/internal/config"
	"github.com/Trapfether/tailwind-raw-reorder/internal/engine"
	"github.com/Trapfether/tailwind-raw-reorder/pkg/rewrite"
)

// sortActionTitle is shown in the editor's source action menu.
const sortActionTitle = "Sort Tailwind classes"

func (s *Server) handleFormatting(ctx context.Context, msg *JSONRPCMessage) error {
	var params DocumentFormattingParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		s.sendResponse(msg.ID, nil, &JSONRPCError{Code: codeInvalidParams, Message: err.Error()})
		return err
	}

	edits, err := s.formatDocument(ctx, params.TextDocument.URI)
	if err != nil {
		s.reportSortError(err)
	}
	s.sendResponse(msg.ID, edits, nil)
	return nil
}

func (s *Server) handleRangeFormatting(ctx context.Context, msg *JSONRPCMessage) error {
	var params DocumentRangeFormattingParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		s.sendResponse(msg.ID, nil, &JSONRPCError{Code: codeInvalidParams, Message: err.Error()})
		return err
	}

	edits, err := s.formatRange(ctx, params.TextDocument.URI, params.Range)
	if err != nil {
		s.reportSortError(err)
	}
	s.sendResponse(msg.ID, edits, nil)
	return nil
}

func (s *Server) handleCodeAction(ctx context.Context, msg *JSONRPCMessage) error {
	var params CodeActionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		s.sendResponse(msg.ID, nil, &JSONRPCError{Code: codeInvalidParams, Message: err.Error()})
		return err
	}

	actions := []CodeAction{}
	if kindRequested(params.Context.Only, CodeActionKindSortClasses) {
		edits, err := s.formatDocument(ctx, params.TextDocument.URI)
		if err != nil {
			s.reportSortError(err)
		}
		if len(edits) > 0 {
			actions = append(actions, CodeAction{
				Title: sortActionTitle,
				Kind:  CodeActionKindSortClasses,
				Edit: &WorkspaceEdit{
					Changes: map[string][]TextEdit{params.TextDocument.URI: edits},
				},
			})
		}
	}

	s.sendResponse(msg.ID, actions, nil)
	return nil
}

// kindRequested reports whether kind passes the client's "only" filter. A
// filter entry matches its own kind and every kind nested under it.
func kindRequested(only []CodeActionKind, kind CodeActionKind) bool {
	if len(only) == 0 {
		return true
	}
	for _, k := range only {
		if k == kind || strings.HasPrefix(string(kind), string(k)+".") {
			return true
		}
	}
	return false
}

// formatDocument returns the edits that sort every class list in the
// document. The result is never nil so clients receive an empty array.
func (s *Server) formatDocument(ctx context.Context, uri string) ([]TextEdit, error) {
	edits := []TextEdit{}
	doc := s.documents.Get(uri)
	if doc == nil {
		return edits, nil
	}

	e, err := s.currentEngine()
	if err != nil {
		return edits, err
	}

	_, found, err := e.SortText(ctx, doc.Path(), s.languageFor(e, doc), doc.Content)
	if err != nil {
		return edits, err
	}
	return append(edits, toTextEdits(doc, 0, found)...), nil
}

// markupChars never appear in a bare class list. A selection containing one
// is sorted like a document instead.
const markupChars = "<>=\"'`{}"

// formatRange sorts the selected text as one class list when it looks like
// one, and otherwise sorts the class lists inside it.
func (s *Server) formatRange(ctx context.Context, uri string, r Range) ([]TextEdit, error) {
	edits := []TextEdit{}
	doc := s.documents.Get(uri)
	if doc == nil {
		return edits, nil
	}

	e, err := s.currentEngine()
	if err != nil {
		return edits, err
	}

	start := doc.PositionToOffset(r.Start)
	end := doc.PositionToOffset(r.End)
	if start >= end {
		return edits, nil
	}
	text := doc.Content[start:end]
	lang := s.languageFor(e, doc)

	if !strings.ContainsAny(text, markupChars) {
		sorted, ok, err := e.SortSelection(ctx, doc.Path(), lang, text)
		if err != nil {
			return edits, err
		}
		if ok {
			if sorted != text {
				edits = append(edits, TextEdit{Range: doc.Range(start, end), NewText: sorted})
			}
			return edits, nil
		}
	}

	_, found, err := e.SortText(ctx, doc.Path(), lang, text)
	if err != nil {
		return edits, err
	}
	return append(edits, toTextEdits(doc, start, found)...), nil
}

// languageFor picks the language by file extension, then by the client's
// language id, then falls back to html.
func (s *Server) languageFor(e *engine.Engine, doc *Document) string {
	if lang, ok := e.LanguageFor(doc.Path()); ok {
		return lang
	}
	if _, ok := e.Languages()[doc.LanguageID]; ok {
		return doc.LanguageID
	}
	return config.FallbackLanguage
}

func toTextEdits(doc *Document, base int, edits []rewrite.Edit) []TextEdit {
	out := make([]TextEdit, 0, len(edits))
	for _, e := range edits {
		out = append(out, TextEdit{
			Range:   doc.Range(base+e.Start, base+e.End),
			NewText: e.NewText,
		})
	}
	return out
}

// reportSortError shows a failed sort to the user. Pattern and stylesheet
// problems are configuration errors the user must fix.
func (s *Server) reportSortError(err error) {
	s.logger.Warn("Sort failed", "error", err)
	s.showMessage(MessageTypeError, "rawreorder: %v", err)
}
