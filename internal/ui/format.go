// ABOUTME: Terminal UI formatting for catalog output.
// ABOUTME: Uses glamour for markdown and fatih/color for styling.

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/harper/catalog/internal/catalog"
)

const timeLayout = "2006-01-02 15:04"

var (
	faint = color.New(color.Faint).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
	cyan  = color.New(color.FgCyan).SprintFunc()
)

func FormatArticleListItem(a catalog.ArticleView) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("  %s  %s\n", faint(a.ID.String()[:8]), bold(a.Title)))
	if len(a.Tags) > 0 {
		sb.WriteString(fmt.Sprintf("            %s %s\n", faint("Tags:"), cyan(strings.Join(a.Tags, ", "))))
	}
	sb.WriteString(fmt.Sprintf("            %s %s\n", faint("Updated:"), faint(a.SortTime().Local().Format(timeLayout))))

	return sb.String()
}

func FormatArticleHeader(a catalog.ArticleView) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s\n", bold(a.Title)))
	sb.WriteString(fmt.Sprintf("%s %s\n", faint("ID:"), faint(a.ID.String())))
	sb.WriteString(fmt.Sprintf("%s %s\n", faint("Created:"), faint(a.CreatedAt.Local().Format(timeLayout))))
	if a.UpdatedAt != nil {
		sb.WriteString(fmt.Sprintf("%s %s\n", faint("Updated:"), faint(a.UpdatedAt.Local().Format(timeLayout))))
	}
	if len(a.Tags) > 0 {
		sb.WriteString(fmt.Sprintf("%s %s\n", faint("Tags:"), cyan(strings.Join(a.Tags, ", "))))
	}

	sb.WriteString(Separator())
	return sb.String()
}

func FormatSectionList(sections []catalog.Section) string {
	var sb strings.Builder

	for _, s := range sections {
		sb.WriteString(fmt.Sprintf("  %s  %s %s\n",
			faint(s.ID.String()[:8]),
			cyan(s.Name),
			faint(fmt.Sprintf("(%d)", s.ArticlesCount))))
	}

	return sb.String()
}

func FormatTagList(tags []catalog.TagCount) string {
	var sb strings.Builder

	for _, t := range tags {
		sb.WriteString(fmt.Sprintf("  %s %s\n",
			cyan(t.Tag.Name),
			faint(fmt.Sprintf("(%d)", t.Articles))))
	}

	return sb.String()
}

// SectionMarkdown describes a section and its articles as markdown.
func SectionMarkdown(s catalog.Section, articles []catalog.ArticleView) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# %s\n\n", s.Name))
	sb.WriteString(fmt.Sprintf("**ID:** `%s`  \n", s.ID))
	sb.WriteString(fmt.Sprintf("**Tags:** %s  \n", strings.Join(s.Tags, ", ")))
	sb.WriteString(fmt.Sprintf("**Articles:** %d\n\n", s.ArticlesCount))

	if len(articles) > 0 {
		sb.WriteString("## Articles\n\n")
		for _, a := range articles {
			sb.WriteString(fmt.Sprintf("- **%s** (`%s`, %s)\n", a.Title, a.ID.String()[:8], a.SortTime().UTC().Format(timeLayout)))
		}
	}

	return sb.String()
}

// RenderMarkdown renders markdown for the terminal, falling back to the
// raw text when rendering fails.
func RenderMarkdown(content string) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return content
	}

	out, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return out
}

func Separator() string {
	return faint(strings.Repeat("─", 50)) + "\n"
}

func Success(msg string) string {
	return color.New(color.FgGreen).Sprint("✓ ") + msg
}

func Error(msg string) string {
	return color.New(color.FgRed).Sprint("✗ ") + msg
}

func Warning(msg string) string {
	return color.New(color.FgYellow).Sprint("! ") + msg
}
