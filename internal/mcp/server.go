// ABOUTME: MCP server for catalog integration with AI agents.
// ABOUTME: Provides tools, resources, and prompts for articles and sections.

package mcp

import (
	"context"

	"github.com/harper/catalog/internal/catalog"
	"github.com/harper/catalog/internal/logger"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type Server struct {
	server   *mcp.Server
	articles *catalog.Service
	sections *catalog.Engine
	log      *logger.Logger
}

func NewServer(articles *catalog.Service, sections *catalog.Engine, log *logger.Logger) *Server {
	s := &Server{
		articles: articles,
		sections: sections,
		log:      logger.OrNop(log).With("component", "mcp"),
	}

	s.server = mcp.NewServer(
		&mcp.Implementation{
			Name:    "catalog",
			Version: "1.0.0",
		},
		&mcp.ServerOptions{
			HasTools:     true,
			HasResources: true,
			HasPrompts:   true,
		},
	)

	s.registerTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

func (s *Server) Serve(ctx context.Context) error {
	s.log.Info("MCP server starting on stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}
