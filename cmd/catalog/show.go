// ABOUTME: Show command for displaying a single article.
// ABOUTME: Prints the article header and the section it belongs to.

package main

import (
	"fmt"

	"github.com/harper/catalog/internal/catalog"
	"github.com/harper/catalog/internal/models"
	"github.com/harper/catalog/internal/section"
	"github.com/harper/catalog/internal/ui"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <id-prefix>",
	Short: "Show an article",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		id, err := articles.Resolve(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to find article: %w", err)
		}
		view, err := articles.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get article: %w", err)
		}
		if view == nil {
			return fmt.Errorf("article %s: %w", args[0], catalog.ErrArticleNotFound)
		}

		fmt.Print(ui.FormatArticleHeader(*view))
		if len(view.Tags) == 0 {
			fmt.Println("Not in any section (no tags).")
			return nil
		}
		fmt.Printf("Section: %s\n", sectionOf(view.Tags))
		return nil
	},
}

// sectionOf returns the id of the section an article with tags falls in.
func sectionOf(tags []string) string {
	normalized := make([]string, 0, len(tags))
	for _, t := range tags {
		normalized = append(normalized, models.NormalizeTagName(t))
	}
	return section.Of(normalized).ID.String()
}

func init() {
	rootCmd.AddCommand(showCmd)
}
