// ABOUTME: Database operations for articles and their ordered tag lists.
// ABOUTME: Provides CRUD, prefix-based lookup and the bulk association row load.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harper/catalog/internal/catalog"
	"github.com/harper/catalog/internal/models"
)

func CreateArticle(ctx context.Context, db *sql.DB, a *models.Article) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM articles WHERE id = ?`, a.ID.String()).Scan(&exists)
	if err == nil {
		return fmt.Errorf("%w: %s", catalog.ErrArticleExists, a.ID)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO articles (id, title, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		a.ID.String(), a.Title, a.CreatedAt.UTC(), nullTime(a.UpdatedAt),
	)
	if err != nil {
		return err
	}
	if err := insertArticleTags(ctx, tx, a); err != nil {
		return err
	}
	return tx.Commit()
}

// GetArticle returns the article and its tags in position order.
func GetArticle(ctx context.Context, db *sql.DB, id uuid.UUID) (*models.Article, []models.Tag, error) {
	var title string
	var createdAt time.Time
	var updatedAt sql.NullTime
	err := db.QueryRowContext(ctx,
		`SELECT title, created_at, updated_at FROM articles WHERE id = ?`,
		id.String(),
	).Scan(&title, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, catalog.ErrArticleNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	tags, err := articleTags(ctx, db, id)
	if err != nil {
		return nil, nil, err
	}

	ids := make([]uuid.UUID, len(tags))
	for i, t := range tags {
		ids[i] = t.ID
	}
	article, err := models.NewArticle(id, title, createdAt.UTC(), ids)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid article in database: %w", err)
	}
	if updatedAt.Valid {
		t := updatedAt.Time.UTC()
		article.UpdatedAt = &t
	}
	return article, tags, nil
}

func articleTags(ctx context.Context, db *sql.DB, id uuid.UUID) ([]models.Tag, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT t.id, t.name, t.name_normalized FROM tags t
		 JOIN article_tags at ON t.id = at.tag_id
		 WHERE at.article_id = ?
		 ORDER BY at.position`,
		id.String(),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var tags []models.Tag
	for rows.Next() {
		var tag models.Tag
		var idStr string
		if err := rows.Scan(&idStr, &tag.Name, &tag.NameNormalized); err != nil {
			return nil, err
		}
		if tag.ID, err = uuid.Parse(idStr); err != nil {
			return nil, fmt.Errorf("invalid tag ID in database: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tags, nil
}

// SaveArticle writes the title and timestamps and replaces the whole tag list.
func SaveArticle(ctx context.Context, db *sql.DB, a *models.Article) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx,
		`UPDATE articles SET title = ?, updated_at = ? WHERE id = ?`,
		a.Title, nullTime(a.UpdatedAt), a.ID.String(),
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return catalog.ErrArticleNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM article_tags WHERE article_id = ?`, a.ID.String()); err != nil {
		return err
	}
	if err := insertArticleTags(ctx, tx, a); err != nil {
		return err
	}
	return tx.Commit()
}

func insertArticleTags(ctx context.Context, tx *sql.Tx, a *models.Article) error {
	for _, t := range a.Tags() {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO article_tags (article_id, tag_id, position) VALUES (?, ?, ?)`,
			a.ID.String(), t.TagID.String(), t.Position,
		)
		if err != nil {
			return fmt.Errorf("insert article tag: %w", err)
		}
	}
	return nil
}

func DeleteArticle(ctx context.Context, db *sql.DB, id uuid.UUID) error {
	result, err := db.ExecContext(ctx, `DELETE FROM articles WHERE id = ?`, id.String())
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return catalog.ErrArticleNotFound
	}
	return nil
}

// ListArticleIDs returns all article ids, most recently changed first.
func ListArticleIDs(ctx context.Context, db *sql.DB) ([]uuid.UUID, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id FROM articles ORDER BY COALESCE(updated_at, created_at) DESC, id`,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var ids []uuid.UUID
	for rows.Next() {
		var idStr string
		if err := rows.Scan(&idStr); err != nil {
			return nil, err
		}
		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("invalid article ID in database: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

func ResolveArticleID(ctx context.Context, db *sql.DB, prefix string) (uuid.UUID, error) {
	if len(prefix) < catalog.MinPrefixLength {
		return uuid.Nil, catalog.ErrPrefixTooShort
	}

	rows, err := db.QueryContext(ctx, `SELECT id FROM articles WHERE id LIKE ? LIMIT 2`, prefix+"%")
	if err != nil {
		return uuid.Nil, err
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var idStr string
		if err := rows.Scan(&idStr); err != nil {
			return uuid.Nil, err
		}
		ids = append(ids, idStr)
	}
	if err := rows.Err(); err != nil {
		return uuid.Nil, err
	}

	switch len(ids) {
	case 0:
		return uuid.Nil, catalog.ErrArticleNotFound
	case 1:
		id, err := uuid.Parse(ids[0])
		if err != nil {
			return uuid.Nil, fmt.Errorf("invalid article ID in database: %w", err)
		}
		return id, nil
	default:
		return uuid.Nil, catalog.ErrAmbiguousPrefix
	}
}

// LoadArticleTagRows reads every association joined with its article and
// tag. Rows come oldest article first, so the earliest-created article of
// a section is the one seen first.
func LoadArticleTagRows(ctx context.Context, db *sql.DB) ([]catalog.Row, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT a.id, a.title, a.created_at, a.updated_at, t.name, t.name_normalized, at.position
		 FROM article_tags at
		 JOIN articles a ON a.id = at.article_id
		 JOIN tags t ON t.id = at.tag_id
		 ORDER BY a.created_at, a.id, at.position`,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []catalog.Row
	for rows.Next() {
		var r catalog.Row
		var idStr string
		var updatedAt sql.NullTime
		if err := rows.Scan(&idStr, &r.Title, &r.CreatedAt, &updatedAt, &r.TagName, &r.TagNormalized, &r.Position); err != nil {
			return nil, err
		}
		if r.ArticleID, err = uuid.Parse(idStr); err != nil {
			return nil, fmt.Errorf("invalid article ID in database: %w", err)
		}
		r.CreatedAt = r.CreatedAt.UTC()
		if updatedAt.Valid {
			t := updatedAt.Time.UTC()
			r.UpdatedAt = &t
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
