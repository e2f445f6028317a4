// ABOUTME: Section commands: list all sections or show one with its articles.
// ABOUTME: Sections are accepted by full id or unique id prefix.

package main

import (
	"fmt"

	"github.com/harper/catalog/internal/ui"
	"github.com/spf13/cobra"
)

var sectionsCmd = &cobra.Command{
	Use:   "sections",
	Short: "List sections",
	Long:  `List every section, largest first. A section holds the articles that share one exact tag set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := sections.Sections(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list sections: %w", err)
		}
		if len(list) == 0 {
			fmt.Println("No sections yet. Add an article with tags to create one.")
			return nil
		}
		fmt.Print(ui.FormatSectionList(list))
		return nil
	},
}

var sectionCmd = &cobra.Command{
	Use:   "section <id-prefix>",
	Short: "Show a section and its articles",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		raw, _ := cmd.Flags().GetBool("raw")

		id, err := sections.ResolveSectionID(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to find section: %w", err)
		}
		sec, err := sections.Section(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get section: %w", err)
		}
		list, err := sections.SectionArticles(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to list section articles: %w", err)
		}

		md := ui.SectionMarkdown(*sec, list)
		if raw {
			fmt.Print(md)
			return nil
		}
		fmt.Print(ui.RenderMarkdown(md))
		return nil
	},
}

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List tags with article counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		tl, err := tagLister()
		if err != nil {
			return err
		}
		tags, err := tl.ListTags(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list tags: %w", err)
		}
		if len(tags) == 0 {
			fmt.Println("No tags yet.")
			return nil
		}
		fmt.Print(ui.FormatTagList(tags))
		return nil
	},
}

func init() {
	sectionCmd.Flags().Bool("raw", false, "print markdown without rendering")
	rootCmd.AddCommand(sectionsCmd)
	rootCmd.AddCommand(sectionCmd)
	rootCmd.AddCommand(tagsCmd)
}
