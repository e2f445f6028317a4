// ABOUTME: Add command for creating articles.
// ABOUTME: Tags are given as a comma-separated list.

package main

import (
	"fmt"
	"strings"

	"github.com/harper/catalog/internal/catalog"
	"github.com/harper/catalog/internal/ui"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a new article",
	Long: `Create an article with an optional comma-separated tag list.

Examples:
  catalog add "Intro to channels" --tags go,concurrency
  catalog add "Reading list"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tagsFlag, _ := cmd.Flags().GetString("tags")

		view, err := articles.Create(cmd.Context(), catalog.UpsertRequest{
			Title: args[0],
			Tags:  splitTags(tagsFlag),
		})
		if err != nil {
			return fmt.Errorf("failed to create article: %w", err)
		}

		fmt.Println(ui.Success(fmt.Sprintf("Created article %s", view.ID.String()[:8])))
		return nil
	},
}

// splitTags splits a comma-separated flag value. Blank entries are left
// for the service to skip.
func splitTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func init() {
	addCmd.Flags().StringP("tags", "t", "", "comma-separated tags")
	rootCmd.AddCommand(addCmd)
}
