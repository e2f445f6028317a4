// ABOUTME: Article operations using Charm KV storage.
// ABOUTME: Implements the catalog store: CRUD, prefix lookup, title search and row loading.

package charm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/charm/kv"
	"github.com/dgraph-io/badger/v3"
	"github.com/google/uuid"
	"github.com/harper/catalog/internal/catalog"
	"github.com/harper/catalog/internal/models"
)

var (
	_ catalog.Store     = (*Client)(nil)
	_ catalog.TagLister = (*Client)(nil)
)

// CreateArticle stores a new article, failing if the id is taken.
func (c *Client) CreateArticle(ctx context.Context, a *models.Article) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.do(func(k *kv.KV) error {
		if _, err := k.Get(articleKey(a.ID)); err == nil {
			return fmt.Errorf("%w: %s", catalog.ErrArticleExists, a.ID)
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return putArticle(k, a)
	})
}

// SaveArticle overwrites an existing article with its whole tag list.
func (c *Client) SaveArticle(ctx context.Context, a *models.Article) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.do(func(k *kv.KV) error {
		if _, err := k.Get(articleKey(a.ID)); errors.Is(err, badger.ErrKeyNotFound) {
			return catalog.ErrArticleNotFound
		} else if err != nil {
			return err
		}
		return putArticle(k, a)
	})
}

func putArticle(k *kv.KV, a *models.Article) error {
	tags, err := loadTags(k)
	if err != nil {
		return err
	}
	normalizedByID := make(map[uuid.UUID]string, len(tags))
	for _, t := range tags {
		id, err := uuid.Parse(t.ID)
		if err != nil {
			return fmt.Errorf("parse tag ID: %w", err)
		}
		normalizedByID[id] = t.NameNormalized
	}

	rec, err := newArticleRecord(a, normalizedByID)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal article: %w", err)
	}
	return k.Set(articleKey(a.ID), encoded)
}

// GetArticle retrieves an article and its tags in position order.
func (c *Client) GetArticle(ctx context.Context, id uuid.UUID) (*models.Article, []models.Tag, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	var article *models.Article
	var tags []models.Tag
	err := c.doReadOnly(func(k *kv.KV) error {
		data, err := k.Get(articleKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return catalog.ErrArticleNotFound
		}
		if err != nil {
			return err
		}

		var rec articleRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return fmt.Errorf("unmarshal article: %w", err)
		}
		if article, err = rec.model(); err != nil {
			return err
		}

		for _, ref := range rec.sortedTags() {
			data, err := k.Get(tagKey(ref.Normalized))
			if err != nil {
				return fmt.Errorf("read tag %q: %w", ref.Normalized, err)
			}
			var tr tagRecord
			if err := json.Unmarshal(data, &tr); err != nil {
				return fmt.Errorf("unmarshal tag: %w", err)
			}
			tag, err := tr.model()
			if err != nil {
				return err
			}
			tags = append(tags, tag)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return article, tags, nil
}

// DeleteArticle removes an article. Its tags stay.
func (c *Client) DeleteArticle(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.do(func(k *kv.KV) error {
		if _, err := k.Get(articleKey(id)); errors.Is(err, badger.ErrKeyNotFound) {
			return catalog.ErrArticleNotFound
		} else if err != nil {
			return err
		}
		return k.Delete(articleKey(id))
	})
}

// ListArticleIDs returns all article ids, most recently changed first.
func (c *Client) ListArticleIDs(ctx context.Context) ([]uuid.UUID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var records []articleRecord
	err := c.doReadOnly(func(k *kv.KV) error {
		var err error
		records, err = loadArticles(k)
		return err
	})
	if err != nil {
		return nil, err
	}
	return newestFirst(records)
}

func newestFirst(records []articleRecord) ([]uuid.UUID, error) {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b articleRecord) int {
		if c := b.sortTime().Compare(a.sortTime()); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})

	ids := make([]uuid.UUID, 0, len(sorted))
	for _, rec := range sorted {
		id, err := uuid.Parse(rec.ID)
		if err != nil {
			return nil, fmt.Errorf("parse article ID: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ResolveArticleID finds the article whose ID starts with prefix.
func (c *Client) ResolveArticleID(ctx context.Context, prefix string) (uuid.UUID, error) {
	if len(prefix) < catalog.MinPrefixLength {
		return uuid.Nil, catalog.ErrPrefixTooShort
	}
	if err := ctx.Err(); err != nil {
		return uuid.Nil, err
	}

	var matches []string
	err := c.doReadOnly(func(k *kv.KV) error {
		return scan(k, ArticlePrefix+prefix, func(key, _ []byte) error {
			matches = append(matches, strings.TrimPrefix(string(key), ArticlePrefix))
			return nil
		})
	})
	if err != nil {
		return uuid.Nil, err
	}

	switch len(matches) {
	case 0:
		return uuid.Nil, catalog.ErrArticleNotFound
	case 1:
		return uuid.Parse(matches[0])
	default:
		return uuid.Nil, fmt.Errorf("%w: %d matches", catalog.ErrAmbiguousPrefix, len(matches))
	}
}

// SearchArticles matches titles containing every query term, newest first.
func (c *Client) SearchArticles(ctx context.Context, query string, limit int) ([]uuid.UUID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var records []articleRecord
	err := c.doReadOnly(func(k *kv.KV) error {
		var err error
		records, err = loadArticles(k)
		return err
	})
	if err != nil {
		return nil, err
	}
	return searchRecords(records, query, limit)
}

func searchRecords(records []articleRecord, query string, limit int) ([]uuid.UUID, error) {
	var hits []articleRecord
	for _, rec := range records {
		if matchesQuery(rec.Title, query) {
			hits = append(hits, rec)
		}
	}
	slices.SortStableFunc(hits, func(a, b articleRecord) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}

	ids := make([]uuid.UUID, 0, len(hits))
	for _, h := range hits {
		id, err := uuid.Parse(h.ID)
		if err != nil {
			return nil, fmt.Errorf("parse article ID: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// LoadArticleTagRows reads every article and tag in one read-only pass.
func (c *Client) LoadArticleTagRows(ctx context.Context) ([]catalog.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var articles []articleRecord
	var tags map[string]tagRecord
	err := c.doReadOnly(func(k *kv.KV) error {
		var err error
		if articles, err = loadArticles(k); err != nil {
			return err
		}
		tags, err = loadTags(k)
		return err
	})
	if err != nil {
		return nil, err
	}
	return buildRows(articles, tags)
}
