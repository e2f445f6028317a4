// ABOUTME: Tests for MCP tool, resource and prompt handlers.
// ABOUTME: Calls handlers directly against a temp SQLite catalog.

package mcp

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harper/catalog/internal/catalog"
	"github.com/harper/catalog/internal/db"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store, err := db.OpenStore(filepath.Join(t.TempDir(), "mcp.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return NewServer(catalog.NewService(store, nil), catalog.NewEngine(store, nil), nil)
}

func callTool(t *testing.T, h mcp.ToolHandler, args string) *mcp.CallToolResult {
	t.Helper()
	res, err := h(context.Background(), &mcp.CallToolRequest{
		Params: &mcp.CallToolParamsRaw{Arguments: json.RawMessage(args)},
	})
	require.NoError(t, err)
	return res
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func createViaTool(t *testing.T, s *Server, args string) catalog.ArticleView {
	t.Helper()
	res := callTool(t, s.handleCreateArticle, args)
	require.False(t, res.IsError, resultText(t, res))
	var a catalog.ArticleView
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &a))
	return a
}

func TestCreateAndGetArticleTools(t *testing.T) {
	s := newTestServer(t)
	a := createViaTool(t, s, `{"title": "Hello", "tags": ["Go", "go", "SQL"]}`)
	assert.Equal(t, []string{"Go", "SQL"}, a.Tags)

	res := callTool(t, s.handleGetArticle, `{"id": "`+a.ID.String()[:8]+`"}`)
	require.False(t, res.IsError)
	assert.Contains(t, resultText(t, res), `"title": "Hello"`)
}

func TestCreateArticleToolValidation(t *testing.T) {
	s := newTestServer(t)
	res := callTool(t, s.handleCreateArticle, `{"title": "  "}`)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "title")
}

func TestUpdateArticleToolKeepsOmittedFields(t *testing.T) {
	s := newTestServer(t)
	a := createViaTool(t, s, `{"title": "Original", "tags": ["a", "b"]}`)

	res := callTool(t, s.handleUpdateArticle, `{"id": "`+a.ID.String()+`", "title": "Renamed"}`)
	require.False(t, res.IsError, resultText(t, res))

	got, err := s.articles.Get(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, []string{"a", "b"}, got.Tags)

	res = callTool(t, s.handleUpdateArticle, `{"id": "`+a.ID.String()+`", "tags": []}`)
	require.False(t, res.IsError)
	got, _ = s.articles.Get(context.Background(), a.ID)
	assert.Empty(t, got.Tags)

	res = callTool(t, s.handleUpdateArticle, `{"id": "`+a.ID.String()+`"}`)
	assert.True(t, res.IsError)
}

func TestDeleteArticleTool(t *testing.T) {
	s := newTestServer(t)
	a := createViaTool(t, s, `{"title": "Doomed"}`)

	res := callTool(t, s.handleDeleteArticle, `{"id": "`+a.ID.String()+`"}`)
	require.False(t, res.IsError)

	res = callTool(t, s.handleGetArticle, `{"id": "`+a.ID.String()+`"}`)
	assert.True(t, res.IsError)
}

func TestSectionTools(t *testing.T) {
	s := newTestServer(t)
	createViaTool(t, s, `{"title": "A", "tags": ["tag1", "tag2"]}`)
	createViaTool(t, s, `{"title": "B", "tags": ["TAG2", "Tag1"]}`)

	res := callTool(t, s.handleListSections, `{}`)
	require.False(t, res.IsError)
	var sections []catalog.Section
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &sections))
	require.Len(t, sections, 1)
	assert.Equal(t, 2, sections[0].ArticlesCount)

	res = callTool(t, s.handleListSectionArticles, `{"id": "`+sections[0].ID.String()[:8]+`"}`)
	require.False(t, res.IsError, resultText(t, res))
	var articles []catalog.ArticleView
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &articles))
	assert.Len(t, articles, 2)

	res = callTool(t, s.handleListSectionArticles, `{"id": "abc"}`)
	assert.True(t, res.IsError)
}

func TestSearchArticlesTool(t *testing.T) {
	s := newTestServer(t)
	createViaTool(t, s, `{"title": "Kafka streams"}`)

	res := callTool(t, s.handleSearchArticles, `{"query": "kafka"}`)
	require.False(t, res.IsError)
	assert.Contains(t, resultText(t, res), "Kafka streams")
}

func TestReadSectionResource(t *testing.T) {
	s := newTestServer(t)
	createViaTool(t, s, `{"title": "Tuning", "tags": ["Postgres"]}`)
	sections, err := s.sections.Sections(context.Background())
	require.NoError(t, err)

	uri := sectionURIPrefix + sections[0].ID.String()
	res, err := s.handleReadSection(context.Background(), &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{URI: uri},
	})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	assert.Equal(t, "text/markdown", res.Contents[0].MIMEType)
	assert.True(t, strings.HasPrefix(res.Contents[0].Text, "# Postgres"))
	assert.Contains(t, res.Contents[0].Text, "Tuning")

	_, err = s.handleReadSection(context.Background(), &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{URI: "catalog://note/x"},
	})
	assert.Error(t, err)
}

func TestPrompts(t *testing.T) {
	s := newTestServer(t)

	res, err := s.getOrganizeTagsPrompt(context.Background(), &mcp.GetPromptRequest{Params: &mcp.GetPromptParams{}})
	require.NoError(t, err)
	require.Len(t, res.Messages, 1)

	res, err = s.getSummarizeSectionPrompt(context.Background(), &mcp.GetPromptRequest{
		Params: &mcp.GetPromptParams{Arguments: map[string]string{"section_id": "ef7e5019"}},
	})
	require.NoError(t, err)
	text := res.Messages[0].Content.(*mcp.TextContent).Text
	assert.Contains(t, text, "catalog://section/ef7e5019")

	_, err = s.getSummarizeSectionPrompt(context.Background(), &mcp.GetPromptRequest{Params: &mcp.GetPromptParams{}})
	assert.Error(t, err)
}
