package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/Trapfether/tailwind-raw-reorder/internal/config"
	"github.com/Trapfether/tailwind-raw-reorder/internal/engine"
)

// JSON-RPC error codes.
const (
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
)

// ServerName is reported to clients in the initialize response.
const ServerName = "rawreorder"

// errExit stops the main loop after an exit notification.
var errExit = errors.New("exit")

// Server implements the Language Server Protocol for class sorting.
type Server struct {
	documents *DocumentStore

	// Project context
	projectRoot string
	configPath  string
	initialized bool

	engine    *engine.Engine
	configErr error
	engineMu  sync.RWMutex

	version string

	// I/O
	reader  *bufio.Reader
	writer  io.Writer
	writeMu sync.Mutex

	logger *slog.Logger

	shutdown   bool
	shutdownMu sync.RWMutex
}

// NewServer creates a new LSP server instance.
func NewServer(reader io.Reader, writer io.Writer) *Server {
	return NewServerWithLogger(reader, writer, nil)
}

// NewServerWithLogger creates a new LSP server instance with a custom logger.
func NewServerWithLogger(reader io.Reader, writer io.Writer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		documents: NewDocumentStore(),
		reader:    bufio.NewReader(reader),
		writer:    writer,
		logger:    logger,
	}
}

// SetVersion sets the version reported in the initialize response.
func (s *Server) SetVersion(v string) { s.version = v }

// Run processes JSON-RPC messages until the client sends exit or closes the
// stream.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("rawreorder LSP server starting")

	for {
		if err := ctx.Err(); err != nil {
			return nil //nolint:nilerr // cancellation is a normal stop
		}

		msg, err := s.readMessage()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				s.logger.Info("Client disconnected")
				return nil
			}
			s.logger.Error("Error reading message", "error", err)
			continue
		}

		if err := s.handleMessage(ctx, msg); err != nil {
			if errors.Is(err, errExit) {
				return nil
			}
			s.logger.Error("Error handling message", "method", msg.Method, "error", err)
		}
	}
}

// JSONRPCMessage represents a JSON-RPC 2.0 message.
type JSONRPCMessage struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id,omitempty"`
	Method  string           `json:"method,omitempty"`
	Params  json.RawMessage  `json:"params,omitempty"`
	Result  json.RawMessage  `json:"result,omitempty"`
	Error   *JSONRPCError    `json:"error,omitempty"`
}

// JSONRPCError represents a JSON-RPC error.
type JSONRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// readMessage reads a JSON-RPC message from the input stream.
func (s *Server) readMessage() (*JSONRPCMessage, error) {
	var contentLength int
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			return nil, err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			break // End of headers
		}

		if v, ok := strings.CutPrefix(line, "Content-Length:"); ok {
			contentLength, err = strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return nil, fmt.Errorf("invalid Content-Length: %w", err)
			}
		}
	}

	if contentLength == 0 {
		return nil, fmt.Errorf("missing Content-Length header")
	}

	body := make([]byte, contentLength)
	if _, err := io.ReadFull(s.reader, body); err != nil {
		return nil, fmt.Errorf("error reading body: %w", err)
	}

	var msg JSONRPCMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, fmt.Errorf("error parsing message: %w", err)
	}
	return &msg, nil
}

// sendResponse sends a JSON-RPC response.
func (s *Server) sendResponse(id *json.RawMessage, result any, err *JSONRPCError) {
	msg := JSONRPCMessage{
		JSONRPC: "2.0",
		ID:      id,
	}

	if err != nil {
		msg.Error = err
	} else {
		resultBytes, _ := json.Marshal(result)
		msg.Result = resultBytes
	}

	s.writeMessage(&msg)
}

// sendNotification sends a JSON-RPC notification (no ID).
func (s *Server) sendNotification(method string, params any) {
	msg := JSONRPCMessage{
		JSONRPC: "2.0",
		Method:  method,
	}

	if params != nil {
		paramsBytes, _ := json.Marshal(params)
		msg.Params = paramsBytes
	}

	s.writeMessage(&msg)
}

func (s *Server) showMessage(t MessageType, format string, args ...any) {
	s.sendNotification("window/showMessage", &ShowMessageParams{
		Type:    t,
		Message: fmt.Sprintf(format, args...),
	})
}

// writeMessage writes a JSON-RPC message to the output stream.
func (s *Server) writeMessage(msg *JSONRPCMessage) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	body, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("Error marshaling message", "error", err)
		return
	}

	header := fmt.Sprintf("Content-Length: %d\r\n\r\n", len(body))
	_, _ = s.writer.Write([]byte(header))
	_, _ = s.writer.Write(body)
}

func (s *Server) isShutdown() bool {
	s.shutdownMu.RLock()
	defer s.shutdownMu.RUnlock()
	return s.shutdown
}

// handleMessage dispatches a message to the appropriate handler.
func (s *Server) handleMessage(ctx context.Context, msg *JSONRPCMessage) error {
	s.logger.Debug("Received", "method", msg.Method)

	if msg.Method == "exit" {
		s.logger.Info("Server exit")
		return errExit
	}
	if s.isShutdown() && msg.ID != nil {
		s.sendResponse(msg.ID, nil, &JSONRPCError{Code: codeInvalidRequest, Message: "server is shut down"})
		return nil
	}

	switch msg.Method {
	case "initialize":
		return s.handleInitialize(msg)
	case "initialized":
		return s.handleInitialized(msg)
	case "shutdown":
		return s.handleShutdown(msg)
	case "textDocument/didOpen":
		return s.handleDidOpen(msg)
	case "textDocument/didClose":
		return s.handleDidClose(msg)
	case "textDocument/didChange":
		return s.handleDidChange(msg)
	case "textDocument/didSave":
		return s.handleDidSave(ctx, msg)
	case "textDocument/formatting":
		return s.handleFormatting(ctx, msg)
	case "textDocument/rangeFormatting":
		return s.handleRangeFormatting(ctx, msg)
	case "textDocument/codeAction":
		return s.handleCodeAction(ctx, msg)
	default:
		if msg.ID != nil {
			s.sendResponse(msg.ID, nil, &JSONRPCError{
				Code:    codeMethodNotFound,
				Message: "Method not found: " + msg.Method,
			})
		}
		return nil
	}
}

// --- Lifecycle handlers ---

func (s *Server) handleInitialize(msg *JSONRPCMessage) error {
	var params InitializeParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		s.sendResponse(msg.ID, nil, &JSONRPCError{Code: codeInvalidParams, Message: err.Error()})
		return err
	}

	root := URIToPath(params.RootURI)
	if root == "" {
		root = params.RootPath
	}
	if found := config.FindProjectRoot(root); found != "" {
		root = found
	}
	s.projectRoot = root
	s.logger.Info("Project root", "path", s.projectRoot)

	s.loadEngine()

	result := InitializeResult{
		Capabilities: ServerCapabilities{
			TextDocumentSync: &TextDocumentSyncOptions{
				OpenClose: true,
				Change:    TextDocumentSyncKindIncremental,
				Save:      &SaveOptions{},
			},
			DocumentFormattingProvider:      true,
			DocumentRangeFormattingProvider: true,
			CodeActionProvider: &CodeActionOptions{
				CodeActionKinds: []CodeActionKind{CodeActionKindSortClasses},
			},
		},
		ServerInfo: &ServerInfo{Name: ServerName, Version: s.version},
	}

	s.sendResponse(msg.ID, result, nil)
	return nil
}

func (s *Server) handleInitialized(_ *JSONRPCMessage) error {
	s.initialized = true
	s.logger.Info("Server initialized")

	if err := s.currentConfigErr(); err != nil {
		s.showMessage(MessageTypeError, "rawreorder: %v", err)
	}
	return nil
}

func (s *Server) handleShutdown(msg *JSONRPCMessage) error {
	s.shutdownMu.Lock()
	s.shutdown = true
	s.shutdownMu.Unlock()

	s.sendResponse(msg.ID, nil, nil)
	s.logger.Info("Server shutdown")
	return nil
}

// --- Document handlers ---

func (s *Server) handleDidOpen(msg *JSONRPCMessage) error {
	var params DidOpenTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}

	s.documents.Open(params.TextDocument)
	s.logger.Debug("Opened", "uri", params.TextDocument.URI)
	return nil
}

func (s *Server) handleDidClose(msg *JSONRPCMessage) error {
	var params DidCloseTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}

	s.documents.Close(params.TextDocument.URI)
	s.logger.Debug("Closed", "uri", params.TextDocument.URI)
	return nil
}

func (s *Server) handleDidChange(msg *JSONRPCMessage) error {
	var params DidChangeTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}

	s.documents.Update(params.TextDocument.URI, params.ContentChanges, params.TextDocument.Version)
	return nil
}

// handleDidSave reloads the project config or drops cached stylesheets when
// one of their files is saved.
func (s *Server) handleDidSave(ctx context.Context, msg *JSONRPCMessage) error {
	var params DidSaveTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}

	path := URIToPath(params.TextDocument.URI)
	base := filepath.Base(path)

	switch {
	case base == config.ConfigFileName || base == config.ConfigFileNameAlt:
		s.logger.Info("Config saved, reloading", "path", path)
		s.loadEngine()
		if err := s.currentConfigErr(); err != nil {
			s.showMessage(MessageTypeError, "rawreorder: %v", err)
		}
	case slices.Contains(config.StylesheetFileNames, base) || strings.HasSuffix(base, ".star") || s.isConfiguredStylesheet(path):
		s.logger.Info("Stylesheet saved, invalidating caches", "path", path)
		if e, err := s.currentEngine(); err == nil {
			e.Resolver().Invalidate(ctx)
		}
	}
	return nil
}

func (s *Server) isConfiguredStylesheet(path string) bool {
	e, err := s.currentEngine()
	if err != nil {
		return false
	}
	return path == e.Project().Stylesheet
}

// --- Engine ---

// loadEngine builds the sort engine from the project config. A config that
// fails to load or validate is kept as configErr and reported to the client.
func (s *Server) loadEngine() {
	e, path, err := s.buildEngine()

	s.engineMu.Lock()
	defer s.engineMu.Unlock()
	s.engine, s.configPath, s.configErr = e, path, err
	if err != nil {
		s.logger.Warn("Config error", "error", err)
		return
	}
	s.logger.Info("Loaded project config", "path", path)
}

func (s *Server) buildEngine() (*engine.Engine, string, error) {
	cfg, path, err := config.LoadFromDir(s.projectRoot)
	if err != nil {
		return nil, "", err
	}
	e, err := engine.New(engine.Config{
		Project: *cfg,
		Root:    s.projectRoot,
		Logger:  s.logger,
	})
	if err != nil {
		return nil, path, err
	}
	return e, path, nil
}

func (s *Server) currentEngine() (*engine.Engine, error) {
	s.engineMu.RLock()
	defer s.engineMu.RUnlock()
	if s.configErr != nil {
		return nil, s.configErr
	}
	if s.engine == nil {
		return nil, fmt.Errorf("server not initialized")
	}
	return s.engine, nil
}

func (s *Server) currentConfigErr() error {
	s.engineMu.RLock()
	defer s.engineMu.RUnlock()
	return s.configErr
}
