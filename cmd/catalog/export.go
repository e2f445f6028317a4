// ABOUTME: Export command for backing up articles.
// ABOUTME: Writes every article with its tags as JSON or YAML.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/harper/catalog/internal/catalog"
	"github.com/harper/catalog/internal/ui"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const exportVersion = "1.0"

type ExportArticle struct {
	ID        string     `json:"id" yaml:"id"`
	Title     string     `json:"title" yaml:"title"`
	Tags      []string   `json:"tags" yaml:"tags"`
	CreatedAt time.Time  `json:"created_at" yaml:"created"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" yaml:"updated,omitempty"`
}

type ExportData struct {
	ExportedAt time.Time       `json:"exported_at" yaml:"exported_at"`
	Version    string          `json:"version" yaml:"version"`
	Articles   []ExportArticle `json:"articles" yaml:"articles"`
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export articles",
	Long:  `Export all articles to JSON or YAML. Output goes to stdout unless --output is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		outputPath, _ := cmd.Flags().GetString("output")

		views, err := articles.List(cmd.Context(), 0)
		if err != nil {
			return fmt.Errorf("failed to list articles: %w", err)
		}

		data, err := encodeExport(newExport(views, time.Now().UTC()), format)
		if err != nil {
			return err
		}

		if outputPath == "" || outputPath == "-" {
			fmt.Print(string(data))
			return nil
		}
		if err := os.WriteFile(outputPath, data, 0600); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Exported %d articles to %s", len(views), outputPath)))
		return nil
	},
}

func newExport(views []catalog.ArticleView, now time.Time) ExportData {
	export := ExportData{
		ExportedAt: now,
		Version:    exportVersion,
		Articles:   make([]ExportArticle, 0, len(views)),
	}
	for _, v := range views {
		export.Articles = append(export.Articles, ExportArticle{
			ID:        v.ID.String(),
			Title:     v.Title,
			Tags:      v.Tags,
			CreatedAt: v.CreatedAt,
			UpdatedAt: v.UpdatedAt,
		})
	}
	return export
}

func encodeExport(export ExportData, format string) ([]byte, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(export, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case "yaml", "yml":
		return yaml.Marshal(export)
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

func init() {
	exportCmd.Flags().StringP("format", "f", "json", "export format (json|yaml)")
	exportCmd.Flags().StringP("output", "o", "", "output path")
	rootCmd.AddCommand(exportCmd)
}
