// ABOUTME: MCP resources exposing sections as readable markdown.
// ABOUTME: Allows AI agents to read a section and its articles via URI.

package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/harper/catalog/internal/ui"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const sectionURIPrefix = "catalog://section/"

func (s *Server) registerResources() {
	s.server.AddResourceTemplate(
		&mcp.ResourceTemplate{
			URITemplate: sectionURIPrefix + "{id}",
			Name:        "Section",
			Description: "A section (articles sharing one tag set) with its articles, by section ID or prefix",
			MIMEType:    "text/markdown",
		},
		s.handleReadSection,
	)
}

func (s *Server) handleReadSection(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	idOrPrefix, ok := strings.CutPrefix(req.Params.URI, sectionURIPrefix)
	if !ok || idOrPrefix == "" {
		return nil, fmt.Errorf("invalid resource URI: %s", req.Params.URI)
	}

	id, err := s.sections.ResolveSectionID(ctx, idOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to find section: %w", err)
	}
	section, err := s.sections.Section(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get section: %w", err)
	}
	articles, err := s.sections.SectionArticles(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list section articles: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      req.Params.URI,
				MIMEType: "text/markdown",
				Text:     ui.SectionMarkdown(*section, articles),
			},
		},
	}, nil
}
