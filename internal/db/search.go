// ABOUTME: FTS5 full-text search over article titles.
// ABOUTME: Quotes user terms so punctuation never breaks the match syntax.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// SearchArticles returns ids of articles whose title contains every term
// of query as a word prefix, best rank first.
func SearchArticles(ctx context.Context, db *sql.DB, query string, limit int) ([]uuid.UUID, error) {
	match := ftsQuery(query)
	if match == "" {
		return nil, nil
	}

	rows, err := db.QueryContext(ctx,
		`SELECT a.id
		 FROM articles_fts
		 JOIN articles a ON articles_fts.rowid = a.rowid
		 WHERE articles_fts MATCH ?
		 ORDER BY rank
		 LIMIT ?`,
		match, limit,
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

// ftsQuery turns free text into an FTS5 query of quoted prefix terms.
func ftsQuery(query string) string {
	terms := strings.Fields(query)
	for i, term := range terms {
		terms[i] = `"` + strings.ReplaceAll(term, `"`, `""`) + `"*`
	}
	return strings.Join(terms, " ")
}
