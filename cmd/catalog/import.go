// ABOUTME: Import command for restoring articles from an export file.
// ABOUTME: Keeps ids and timestamps; articles that already exist are skipped.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/harper/catalog/internal/catalog"
	"github.com/harper/catalog/internal/ui"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import articles",
	Long:  `Import articles from a JSON or YAML export (chosen by file extension).`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0]) //nolint:gosec // User-specified file path is expected CLI behavior
		if err != nil {
			return err
		}
		export, err := decodeExport(data, filepath.Ext(args[0]))
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", args[0], err)
		}

		count := 0
		for _, ea := range export.Articles {
			view, err := ea.view()
			if err != nil {
				fmt.Println(ui.Warning(fmt.Sprintf("skipping %q: %v", ea.Title, err)))
				continue
			}
			if _, err := articles.Restore(cmd.Context(), view); err != nil {
				if errors.Is(err, catalog.ErrArticleExists) {
					fmt.Println(ui.Warning(fmt.Sprintf("skipping %q: already exists", ea.Title)))
					continue
				}
				fmt.Println(ui.Warning(fmt.Sprintf("failed to import %q: %v", ea.Title, err)))
				continue
			}
			count++
		}

		fmt.Println(ui.Success(fmt.Sprintf("Imported %d articles", count)))
		return nil
	},
}

func decodeExport(data []byte, ext string) (*ExportData, error) {
	var export ExportData
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &export); err != nil {
			return nil, err
		}
	default:
		if err := json.Unmarshal(data, &export); err != nil {
			return nil, err
		}
	}
	return &export, nil
}

func (ea ExportArticle) view() (catalog.ArticleView, error) {
	id, err := uuid.Parse(ea.ID)
	if err != nil {
		return catalog.ArticleView{}, fmt.Errorf("invalid id %q", ea.ID)
	}
	return catalog.ArticleView{
		ID:        id,
		Title:     ea.Title,
		Tags:      ea.Tags,
		CreatedAt: ea.CreatedAt,
		UpdatedAt: ea.UpdatedAt,
	}, nil
}

func init() {
	rootCmd.AddCommand(importCmd)
}
