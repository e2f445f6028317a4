// ABOUTME: Database operations for tags.
// ABOUTME: Resolves tag names to tags, creating missing ones without duplicates.

package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/harper/catalog/internal/catalog"
	"github.com/harper/catalog/internal/models"
)

// FindOrCreateTags returns one tag per name, in the order given. A name
// whose normalized form already exists maps to the stored tag, keeping the
// stored display name.
func FindOrCreateTags(ctx context.Context, db *sql.DB, names []models.TagName) ([]models.Tag, error) {
	if len(names) == 0 {
		return nil, nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO tags (id, name, name_normalized) VALUES (?, ?, ?)
			 ON CONFLICT(name_normalized) DO NOTHING`,
			uuid.New().String(), name.Value(), name.Normalized(),
		)
		if err != nil {
			return nil, fmt.Errorf("insert tag %q: %w", name.Value(), err)
		}

		tag, err := scanTag(tx.QueryRowContext(ctx,
			`SELECT id, name, name_normalized FROM tags WHERE name_normalized = ?`,
			name.Normalized(),
		))
		if err != nil {
			return nil, fmt.Errorf("read tag %q: %w", name.Value(), err)
		}
		tags = append(tags, tag)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return tags, nil
}

func scanTag(row *sql.Row) (models.Tag, error) {
	var tag models.Tag
	var idStr string
	if err := row.Scan(&idStr, &tag.Name, &tag.NameNormalized); err != nil {
		return models.Tag{}, err
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return models.Tag{}, fmt.Errorf("invalid tag ID in database: %w", err)
	}
	tag.ID = id
	return tag, nil
}

// ListTags returns every tag with the number of articles using it, by
// normalized name.
func ListTags(ctx context.Context, db *sql.DB) ([]catalog.TagCount, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT t.id, t.name, t.name_normalized, COUNT(at.article_id)
		 FROM tags t
		 LEFT JOIN article_tags at ON t.id = at.tag_id
		 GROUP BY t.id
		 ORDER BY t.name_normalized`,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var tags []catalog.TagCount
	for rows.Next() {
		var tc catalog.TagCount
		var idStr string
		if err := rows.Scan(&idStr, &tc.Tag.Name, &tc.Tag.NameNormalized, &tc.Articles); err != nil {
			return nil, err
		}
		if tc.Tag.ID, err = uuid.Parse(idStr); err != nil {
			return nil, fmt.Errorf("invalid tag ID in database: %w", err)
		}
		tags = append(tags, tc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tags, nil
}
