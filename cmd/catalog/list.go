// ABOUTME: List and search commands for browsing articles.
// ABOUTME: Both print newest-changed articles first.

package main

import (
	"fmt"

	"github.com/harper/catalog/internal/catalog"
	"github.com/harper/catalog/internal/ui"
	"github.com/spf13/cobra"
)

const defaultListLimit = 20

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List articles",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		views, err := articles.List(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("failed to list articles: %w", err)
		}
		printArticles(views)
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search article titles",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		views, err := articles.Search(cmd.Context(), args[0], limit)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
		printArticles(views)
		return nil
	},
}

func printArticles(views []catalog.ArticleView) {
	if len(views) == 0 {
		fmt.Println("No articles found.")
		return
	}
	for _, v := range views {
		fmt.Print(ui.FormatArticleListItem(v))
	}
}

func init() {
	listCmd.Flags().IntP("limit", "n", defaultListLimit, "maximum number of articles (0 for all)")
	searchCmd.Flags().IntP("limit", "n", defaultListLimit, "maximum number of results")
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(searchCmd)
}
