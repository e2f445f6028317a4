// ABOUTME: MCP tools for article CRUD and section browsing.
// ABOUTME: Maps the CLI's catalog operations to the MCP tool interface.

package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/harper/catalog/internal/catalog"
	"github.com/harper/catalog/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	s.server.AddTool(&mcp.Tool{
		Name:        "create_article",
		Description: "Create an article with a title and an ordered list of tags",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"title": {"type": "string", "description": "Article title (max 256 characters)"},
				"tags": {"type": "array", "items": {"type": "string"}, "description": "Tag names; case-insensitive duplicates are dropped"}
			},
			"required": ["title"]
		}`),
	}, s.handleCreateArticle)

	s.server.AddTool(&mcp.Tool{
		Name:        "get_article",
		Description: "Get an article by ID or ID prefix",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "string", "description": "Article ID or prefix (6+ chars)"}
			},
			"required": ["id"]
		}`),
	}, s.handleGetArticle)

	s.server.AddTool(&mcp.Tool{
		Name:        "update_article",
		Description: "Update an article's title and/or replace its whole tag list",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "string", "description": "Article ID or prefix"},
				"title": {"type": "string", "description": "New title (kept when omitted)"},
				"tags": {"type": "array", "items": {"type": "string"}, "description": "New tag list (kept when omitted)"}
			},
			"required": ["id"]
		}`),
	}, s.handleUpdateArticle)

	s.server.AddTool(&mcp.Tool{
		Name:        "delete_article",
		Description: "Delete an article",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "string", "description": "Article ID or prefix"}
			},
			"required": ["id"]
		}`),
	}, s.handleDeleteArticle)

	s.server.AddTool(&mcp.Tool{
		Name:        "search_articles",
		Description: "Search article titles",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"query": {"type": "string", "description": "Search query"},
				"limit": {"type": "integer", "description": "Max results", "default": 10}
			},
			"required": ["query"]
		}`),
	}, s.handleSearchArticles)

	s.server.AddTool(&mcp.Tool{
		Name:        "list_sections",
		Description: "List sections: groups of articles sharing exactly the same tag set, largest first",
		InputSchema: json.RawMessage(`{"type": "object", "properties": {}}`),
	}, s.handleListSections)

	s.server.AddTool(&mcp.Tool{
		Name:        "list_section_articles",
		Description: "List the articles of a section, most recently changed first",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "string", "description": "Section ID or prefix (6+ chars)"}
			},
			"required": ["id"]
		}`),
	}, s.handleListSectionArticles)
}

func errorResult(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf(format, args...)},
		},
		IsError: true,
	}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("failed to encode result: %v", err)
	}
	return textResult(string(data))
}

// Tool handlers.
func (s *Server) handleCreateArticle(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		Title string   `json:"title"`
		Tags  []string `json:"tags"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	article, err := s.articles.Create(ctx, catalog.UpsertRequest{Title: params.Title, Tags: params.Tags})
	if err != nil {
		return s.failure("create article", err), nil
	}
	return jsonResult(article), nil
}

func (s *Server) handleGetArticle(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	article, errResult := s.lookupArticle(ctx, params.ID)
	if errResult != nil {
		return errResult, nil
	}
	return jsonResult(article), nil
}

func (s *Server) handleUpdateArticle(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		ID    string    `json:"id"`
		Title *string   `json:"title"`
		Tags  *[]string `json:"tags"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}
	if params.Title == nil && params.Tags == nil {
		return errorResult("nothing to update: provide title or tags"), nil
	}

	article, errResult := s.lookupArticle(ctx, params.ID)
	if errResult != nil {
		return errResult, nil
	}

	update := catalog.UpsertRequest{Title: article.Title, Tags: article.Tags}
	if params.Title != nil {
		update.Title = *params.Title
	}
	if params.Tags != nil {
		update.Tags = *params.Tags
	}

	found, err := s.articles.Update(ctx, article.ID, update)
	if err != nil {
		return s.failure("update article", err), nil
	}
	if !found {
		return errorResult("article %s not found", article.ID), nil
	}
	return textResult(fmt.Sprintf("Updated article %s", article.ID)), nil
}

func (s *Server) handleDeleteArticle(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	id, err := s.articles.Resolve(ctx, params.ID)
	if err != nil {
		return s.failure("find article", err), nil
	}
	found, err := s.articles.Delete(ctx, id)
	if err != nil {
		return s.failure("delete article", err), nil
	}
	if !found {
		return errorResult("article %s not found", id), nil
	}
	return textResult(fmt.Sprintf("Deleted article %s", id)), nil
}

func (s *Server) handleSearchArticles(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		Query string `json:"query"`
		Limit int    `json:"limit"`
	}
	params.Limit = 10
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	articles, err := s.articles.Search(ctx, params.Query, params.Limit)
	if err != nil {
		return s.failure("search", err), nil
	}
	return jsonResult(articles), nil
}

func (s *Server) handleListSections(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sections, err := s.sections.Sections(ctx)
	if err != nil {
		return s.failure("list sections", err), nil
	}
	return jsonResult(sections), nil
}

func (s *Server) handleListSectionArticles(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	id, err := s.sections.ResolveSectionID(ctx, params.ID)
	if err != nil {
		return s.failure("find section", err), nil
	}
	articles, err := s.sections.SectionArticles(ctx, id)
	if err != nil {
		return s.failure("list section articles", err), nil
	}
	return jsonResult(articles), nil
}

// lookupArticle resolves an id or prefix and loads the article, returning
// a tool error result when that fails.
func (s *Server) lookupArticle(ctx context.Context, idOrPrefix string) (*catalog.ArticleView, *mcp.CallToolResult) {
	id, err := s.articles.Resolve(ctx, idOrPrefix)
	if err != nil {
		return nil, s.failure("find article", err)
	}
	article, err := s.articles.Get(ctx, id)
	if err != nil {
		return nil, s.failure("get article", err)
	}
	if article == nil {
		return nil, s.failure("get article", catalog.ErrArticleNotFound)
	}
	return article, nil
}

// failure logs storage errors and turns err into a tool error result.
func (s *Server) failure(op string, err error) *mcp.CallToolResult {
	if !isClientError(err) {
		s.log.Error("Tool failed", "op", op, "error", err)
	}
	return errorResult("failed to %s: %v", op, err)
}

// isClientError reports whether err came from bad input rather than storage.
func isClientError(err error) bool {
	return models.IsValidation(err) ||
		errors.Is(err, catalog.ErrPrefixTooShort) ||
		errors.Is(err, catalog.ErrAmbiguousPrefix) ||
		errors.Is(err, catalog.ErrArticleNotFound) ||
		errors.Is(err, catalog.ErrSectionNotFound)
}
