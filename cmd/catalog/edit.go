// ABOUTME: Edit command for changing an article's title or tags.
// ABOUTME: Omitted flags keep the current value; --tags "" clears all tags.

package main

import (
	"fmt"

	"github.com/harper/catalog/internal/catalog"
	"github.com/harper/catalog/internal/ui"
	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit <id-prefix>",
	Short: "Edit an article",
	Long:  `Change an article's title and/or tags. Changing tags moves the article to another section.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if !cmd.Flags().Changed("title") && !cmd.Flags().Changed("tags") {
			return fmt.Errorf("nothing to change: pass --title and/or --tags")
		}

		id, err := articles.Resolve(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to find article: %w", err)
		}
		current, err := articles.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get article: %w", err)
		}
		if current == nil {
			return fmt.Errorf("article %s: %w", args[0], catalog.ErrArticleNotFound)
		}

		req := catalog.UpsertRequest{Title: current.Title, Tags: current.Tags}
		if cmd.Flags().Changed("title") {
			req.Title, _ = cmd.Flags().GetString("title")
		}
		if cmd.Flags().Changed("tags") {
			tagsFlag, _ := cmd.Flags().GetString("tags")
			req.Tags = splitTags(tagsFlag)
		}

		found, err := articles.Update(ctx, id, req)
		if err != nil {
			return fmt.Errorf("failed to update article: %w", err)
		}
		if !found {
			return fmt.Errorf("article %s: %w", args[0], catalog.ErrArticleNotFound)
		}

		fmt.Println(ui.Success(fmt.Sprintf("Updated article %s", id.String()[:8])))
		return nil
	},
}

func init() {
	editCmd.Flags().String("title", "", "new title")
	editCmd.Flags().StringP("tags", "t", "", "replacement comma-separated tags")
	rootCmd.AddCommand(editCmd)
}
