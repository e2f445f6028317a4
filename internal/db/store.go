// ABOUTME: SQLite-backed implementation of the catalog store.
// ABOUTME: Adapts the package's free functions to the catalog.Store interface.

package db

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/harper/catalog/internal/catalog"
	"github.com/harper/catalog/internal/models"
)

type Store struct {
	db *sql.DB
}

var (
	_ catalog.Store     = (*Store)(nil)
	_ catalog.TagLister = (*Store)(nil)
)

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// OpenStore opens the database at path and wraps it.
func OpenStore(path string) (*Store, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	return NewStore(db), nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) LoadArticleTagRows(ctx context.Context) ([]catalog.Row, error) {
	return LoadArticleTagRows(ctx, s.db)
}

func (s *Store) FindOrCreateTags(ctx context.Context, names []models.TagName) ([]models.Tag, error) {
	return FindOrCreateTags(ctx, s.db, names)
}

func (s *Store) CreateArticle(ctx context.Context, a *models.Article) error {
	return CreateArticle(ctx, s.db, a)
}

func (s *Store) GetArticle(ctx context.Context, id uuid.UUID) (*models.Article, []models.Tag, error) {
	return GetArticle(ctx, s.db, id)
}

func (s *Store) SaveArticle(ctx context.Context, a *models.Article) error {
	return SaveArticle(ctx, s.db, a)
}

func (s *Store) DeleteArticle(ctx context.Context, id uuid.UUID) error {
	return DeleteArticle(ctx, s.db, id)
}

func (s *Store) ListArticleIDs(ctx context.Context) ([]uuid.UUID, error) {
	return ListArticleIDs(ctx, s.db)
}

func (s *Store) ResolveArticleID(ctx context.Context, prefix string) (uuid.UUID, error) {
	return ResolveArticleID(ctx, s.db, prefix)
}

func (s *Store) SearchArticles(ctx context.Context, query string, limit int) ([]uuid.UUID, error) {
	return SearchArticles(ctx, s.db, query, limit)
}

func (s *Store) ListTags(ctx context.Context) ([]catalog.TagCount, error) {
	return ListTags(ctx, s.db)
}
