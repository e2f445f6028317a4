// ABOUTME: Remove command for deleting articles.
// ABOUTME: Includes confirmation prompt before deletion.

package main

import (
	"fmt"

	"github.com/harper/catalog/internal/catalog"
	"github.com/harper/catalog/internal/ui"
	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:   "rm <id-prefix>",
	Short: "Remove an article",
	Long:  `Delete an article. Its tags are kept for other articles.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		force, _ := cmd.Flags().GetBool("force")

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

		if !force && !confirm(fmt.Sprintf("Delete article %q (%s)? [y/N] ", view.Title, id.String()[:8]), "y", "yes") {
			fmt.Println("Cancelled.")
			return nil
		}

		if _, err := articles.Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete article: %w", err)
		}

		fmt.Println(ui.Success(fmt.Sprintf("Deleted article %s", id.String()[:8])))
		return nil
	},
}

func init() {
	rmCmd.Flags().BoolP("force", "f", false, "skip confirmation")
	rootCmd.AddCommand(rmCmd)
}
