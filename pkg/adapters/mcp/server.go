// Package mcp exposes experience validation and compilation as MCP tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/iaee"
	"github.com/aretw0/iaee/internal/validator"
	"github.com/aretw0/iaee/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// SectionTypesURI is the resource listing registered section types.
const SectionTypesURI = "iaee://section-types"

// Engine defines what the MCP server needs from iaee.Engine.
type Engine interface {
	Decode(ctx context.Context, data []byte, format iaee.Format) (*domain.Experience, error)
	Compile(ctx context.Context, exp *domain.Experience, results domain.Results, comments domain.Comments) string
	ParseResults(path string, data []byte) (domain.Results, error)
	ParseComments(path string, data []byte) (domain.Comments, error)
}

// ValidateArgs are the arguments of validate_experience.
type ValidateArgs struct {
	Experience string `json:"experience"`
	Format     string `json:"format,omitempty"`
}

// ValidateResponse reports whether an experience document is valid.
type ValidateResponse struct {
	Valid    bool              `json:"valid" jsonschema_description:"True when the experience passed validation"`
	Title    string            `json:"title,omitempty" jsonschema_description:"Title of the valid experience"`
	Sections int               `json:"sections,omitempty" jsonschema_description:"Number of sections"`
	Issues   []validator.Issue `json:"issues,omitempty" jsonschema_description:"Path-addressed validation issues"`
}

// CompileArgs are the arguments of compile_summary.
type CompileArgs struct {
	Experience string `json:"experience"`
	Results    string `json:"results"`
	Comments   string `json:"comments,omitempty"`
	Format     string `json:"format,omitempty"`
}

// CompileResponse carries the compiled Markdown report.
type CompileResponse struct {
	Markdown string `json:"markdown" jsonschema_description:"The compiled Markdown report"`
	Approved bool   `json:"approved" jsonschema_description:"Whether the decision section was approved"`
}

// Server wraps an Engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	types     []string
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
// types is the list served by list_section_types.
func NewServer(engine Engine, types []string) *Server {
	s := &Server{
		engine:    engine,
		types:     types,
		mcpServer: server.NewMCPServer("iaee-mcp", strings.TrimSpace(iaee.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		slog.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: validate_experience
	validateTool := mcp.NewTool("validate_experience",
		mcp.WithDescription("Validate an experience document and report every schema issue."),
		mcp.WithString("experience", mcp.Required(), mcp.Description("The experience document")),
		mcp.WithString("format", mcp.Description("Document format: json (default) or yaml")),
		mcp.WithOutputSchema[ValidateResponse](),
	)
	s.mcpServer.AddTool(validateTool, mcp.NewStructuredToolHandler(s.handleValidate))

	// TOOL: compile_summary
	compileTool := mcp.NewTool("compile_summary",
		mcp.WithDescription("Compile an experience and its results into a Markdown report."),
		mcp.WithString("experience", mcp.Required(), mcp.Description("The experience document")),
		mcp.WithString("results", mcp.Required(), mcp.Description("Object of results keyed by section ID")),
		mcp.WithString("comments", mcp.Description("Object of reviewer comments keyed by section ID (optional)")),
		mcp.WithString("format", mcp.Description("Format of all three documents: json (default) or yaml")),
		mcp.WithOutputSchema[CompileResponse](),
	)
	s.mcpServer.AddTool(compileTool, mcp.NewStructuredToolHandler(s.handleCompile))

	// TOOL: list_section_types
	s.mcpServer.AddTool(mcp.NewTool("list_section_types",
		mcp.WithDescription("List the section types an experience may use."),
	), s.handleListTypes)
}

func parseFormat(name string) (iaee.Format, error) {
	switch strings.ToLower(name) {
	case "", "json":
		return iaee.FormatJSON, nil
	case "yaml", "yml":
		return iaee.FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, name)
	}
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest, args ValidateArgs) (ValidateResponse, error) {
	format, err := parseFormat(args.Format)
	if err != nil {
		return ValidateResponse{}, err
	}

	exp, err := s.engine.Decode(ctx, []byte(args.Experience), format)
	if err != nil {
		// Decode failures (malformed JSON) come back as a single root issue.
		return ValidateResponse{Valid: false, Issues: validator.Issues(err)}, nil
	}

	return ValidateResponse{Valid: true, Title: exp.Title, Sections: len(exp.Sections)}, nil
}

func (s *Server) handleCompile(ctx context.Context, request mcp.CallToolRequest, args CompileArgs) (CompileResponse, error) {
	format, err := parseFormat(args.Format)
	if err != nil {
		return CompileResponse{}, err
	}

	exp, err := s.engine.Decode(ctx, []byte(args.Experience), format)
	if err != nil {
		return CompileResponse{}, err
	}

	// The results/comments parsers pick YAML by extension.
	name := "results." + string(format)
	results, err := s.engine.ParseResults(name, []byte(args.Results))
	if err != nil {
		return CompileResponse{}, fmt.Errorf("invalid results: %w", err)
	}

	var comments domain.Comments
	if strings.TrimSpace(args.Comments) != "" {
		comments, err = s.engine.ParseComments(name, []byte(args.Comments))
		if err != nil {
			return CompileResponse{}, fmt.Errorf("invalid comments: %w", err)
		}
	}

	return CompileResponse{
		Markdown: s.engine.Compile(ctx, exp, results, comments),
		Approved: iaee.Approved(exp, results),
	}, nil
}

func (s *Server) handleListTypes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.Marshal(s.types)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) registerResources() {
	// EXPOSE: iaee://section-types
	s.mcpServer.AddResource(mcp.NewResource(SectionTypesURI, "Registered Section Types",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.types)
		if err != nil {
			return nil, fmt.Errorf("failed to encode section types: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      SectionTypesURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
