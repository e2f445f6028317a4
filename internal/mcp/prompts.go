// ABOUTME: MCP prompts for common catalog curation workflows.
// ABOUTME: Provides pre-configured prompts for AI agent interactions.

package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerPrompts() {
	s.server.AddPrompt(&mcp.Prompt{
		Name:        "organize-tags",
		Description: "Get suggestions for consolidating tags so related articles share sections",
	}, s.getOrganizeTagsPrompt)

	s.server.AddPrompt(&mcp.Prompt{
		Name:        "summarize-section",
		Description: "Summarize the articles of one section",
		Arguments: []*mcp.PromptArgument{
			{
				Name:        "section_id",
				Description: "ID or prefix of the section to summarize",
				Required:    true,
			},
		},
	}, s.getSummarizeSectionPrompt)
}

func (s *Server) getOrganizeTagsPrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	template := `Help me organize my article catalog. A section is the group of articles
that carry exactly the same set of tags (tag case does not matter).

1. Use the list_sections tool to see every section and its article count
2. Spot sections that differ only by a synonym, plural or near-duplicate tag
3. Suggest which tags to merge or drop so related articles land in one section
4. For each change, list the affected articles using list_section_articles

Please give concrete update_article calls (article ID and the full new tag list).`

	return &mcp.GetPromptResult{
		Messages: []*mcp.PromptMessage{
			{
				Role: "user",
				Content: &mcp.TextContent{
					Text: template,
				},
			},
		},
	}, nil
}

func (s *Server) getSummarizeSectionPrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	sectionID, ok := req.Params.Arguments["section_id"]
	if !ok || sectionID == "" {
		return nil, fmt.Errorf("section_id argument is required")
	}

	template := fmt.Sprintf(`Please summarize the section with ID: %s

1. Read the resource %s%s to get the section and its articles
2. Describe the common topic the section's tags point to
3. Highlight the most recently changed articles
4. Note any article whose title looks out of place for this section`, sectionID, sectionURIPrefix, sectionID)

	return &mcp.GetPromptResult{
		Messages: []*mcp.PromptMessage{
			{
				Role: "user",
				Content: &mcp.TextContent{
					Text: template,
				},
			},
		},
	}, nil
}
