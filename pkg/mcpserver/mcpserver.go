// Package mcpserver exposes the extractor as a single MCP tool, the same
// shape the teacher's pkg/mcp package gives its route/middleware/page
// generators: a *Server wrapping mark3labs/mcp-go's server.MCPServer, with
// unexported state and thin handler methods that marshal a JSON result
// through mcp.NewToolResultText.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/watchapi-dev/routelens/pkg/config"
	"github.com/watchapi-dev/routelens/pkg/extractor"
	"github.com/watchapi-dev/routelens/pkg/rlog"
)

// Server hosts the extract_routes MCP tool over one workdir.
type Server struct {
	workdir   string
	log       *rlog.Logger
	mcpServer *server.MCPServer
}

// NewServer builds a Server rooted at workdir and registers its tools.
func NewServer(workdir string) *Server {
	s := &Server{
		workdir: workdir,
		log:     rlog.Discard(),
	}
	s.mcpServer = server.NewMCPServer("routelens", "0.1.0")
	s.registerTools()
	return s
}

// WithLogger attaches a logger used for the tool's diagnostic output.
func (s *Server) WithLogger(log *rlog.Logger) *Server {
	s.log = log
	return s
}

// Serve runs the server over stdio, the transport MCP clients (editors,
// agent runtimes) expect from a locally spawned tool process.
func (s *Server) Serve(ctx context.Context) error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	extractTool := mcp.NewTool("extract_routes",
		mcp.WithDescription("Statically extract HTTP routes from a Next.js / tRPC TypeScript project"),
		mcp.WithString("path", mcp.Description("Project root, relative to the server's workdir. Defaults to the workdir itself.")),
		mcp.WithString("tsconfigPath", mcp.Description("Path to tsconfig.json, relative to the project root.")),
	)
	s.mcpServer.AddTool(extractTool, s.handleExtractRoutes)
}

func (s *Server) handleExtractRoutes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	root := s.workdir
	if p, ok := req.Params.Arguments["path"].(string); ok && p != "" {
		if !filepath.IsAbs(p) {
			p = filepath.Join(s.workdir, p)
		}
		root = p
	}
	if root == "" {
		root = "."
	}

	cfg, err := config.Load(root)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading config: %v", err)), nil
	}
	if tc, ok := req.Params.Arguments["tsconfigPath"].(string); ok && tc != "" {
		cfg.TsconfigPath = tc
	}

	opts, err := cfg.ExtractorOptions(root)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("building extractor options: %v", err)), nil
	}
	opts.Logger = s.log

	res, err := extractor.Run(ctx, opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("extraction failed: %v", err)), nil
	}

	payload := struct {
		Total    int           `json:"total"`
		Routes   any           `json:"routes"`
		Warnings int           `json:"warnings"`
	}{
		Total:    len(res.Routes),
		Routes:   res.Routes,
		Warnings: len(res.Warnings),
	}
	body, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(body)), nil
}
