// ABOUTME: Boundary between the catalog core and its storage backends.
// ABOUTME: Defines association rows, store operations and shared sentinel errors.

package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/harper/catalog/internal/models"
)

var (
	ErrArticleNotFound = errors.New("article not found")
	ErrArticleExists   = errors.New("article already exists")
	ErrPrefixTooShort  = errors.New("prefix must be at least 6 characters")
	ErrAmbiguousPrefix = errors.New("prefix matches multiple entries")
	ErrSectionNotFound = errors.New("section not found")
)

// MinPrefixLength is the shortest id prefix accepted for lookups.
const MinPrefixLength = 6

// Row is one article-to-tag association joined with its article and tag.
type Row struct {
	ArticleID     uuid.UUID
	Title         string
	CreatedAt     time.Time
	UpdatedAt     *time.Time
	TagName       string
	TagNormalized string
	Position      int
}

// RowSource supplies every association row in one bulk read. Rows may come
// in any order.
type RowSource interface {
	LoadArticleTagRows(ctx context.Context) ([]Row, error)
}

// Store persists articles and tags.
type Store interface {
	RowSource

	// FindOrCreateTags returns one tag per input name, in input order,
	// reusing the tag whose normalized name matches. Concurrent callers
	// must never create two tags with the same normalized name.
	FindOrCreateTags(ctx context.Context, names []models.TagName) ([]models.Tag, error)

	CreateArticle(ctx context.Context, a *models.Article) error

	// GetArticle returns the article and its tags in position order, or
	// ErrArticleNotFound.
	GetArticle(ctx context.Context, id uuid.UUID) (*models.Article, []models.Tag, error)

	// SaveArticle writes the article row and replaces its whole tag list,
	// or returns ErrArticleNotFound.
	SaveArticle(ctx context.Context, a *models.Article) error

	DeleteArticle(ctx context.Context, id uuid.UUID) error

	// ListArticleIDs returns every article id, most recently changed first.
	ListArticleIDs(ctx context.Context) ([]uuid.UUID, error)

	// ResolveArticleID finds the single article whose id starts with prefix.
	ResolveArticleID(ctx context.Context, prefix string) (uuid.UUID, error)

	// SearchArticles returns ids of articles whose title matches query.
	SearchArticles(ctx context.Context, query string, limit int) ([]uuid.UUID, error)
}

// TagCount is a stored tag and the number of articles using it.
type TagCount struct {
	Tag      models.Tag
	Articles int
}

// TagLister lists every stored tag, ordered by normalized name.
type TagLister interface {
	ListTags(ctx context.Context) ([]TagCount, error)
}
