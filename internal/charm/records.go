// ABOUTME: Stored record shapes for articles and tags in Charm KV.
// ABOUTME: Uses type-prefixed keys (article:uuid, tag:normalized) with JSON values.

package charm

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/charm/kv"
	"github.com/dgraph-io/badger/v3"
	"github.com/google/uuid"
	"github.com/harper/catalog/internal/catalog"
	"github.com/harper/catalog/internal/models"
)

const (
	// ArticlePrefix is the key prefix for articles.
	ArticlePrefix = "article:"

	// TagPrefix is the key prefix for tags, keyed by normalized name so a
	// name can only ever map to one tag.
	TagPrefix = "tag:"
)

type articleRecord struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
	Tags      []tagRef   `json:"tags,omitempty"`
}

// tagRef points at a tag record. Normalized names never change, so the
// reference carries the tag's key.
type tagRef struct {
	ID         string `json:"id"`
	Normalized string `json:"normalized"`
	Position   int    `json:"position"`
}

type tagRecord struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	NameNormalized string `json:"name_normalized"`
}

func articleKey(id uuid.UUID) []byte {
	return []byte(ArticlePrefix + id.String())
}

func tagKey(normalized string) []byte {
	return []byte(TagPrefix + normalized)
}

// newArticleRecord encodes a with each tag's normalized name taken from
// normalizedByID. Every tag of a must be present there.
func newArticleRecord(a *models.Article, normalizedByID map[uuid.UUID]string) (articleRecord, error) {
	rec := articleRecord{
		ID:        a.ID.String(),
		Title:     a.Title,
		CreatedAt: a.CreatedAt.UTC(),
	}
	if a.UpdatedAt != nil {
		t := a.UpdatedAt.UTC()
		rec.UpdatedAt = &t
	}
	for _, t := range a.Tags() {
		normalized, ok := normalizedByID[t.TagID]
		if !ok {
			return articleRecord{}, fmt.Errorf("unknown tag %s", t.TagID)
		}
		rec.Tags = append(rec.Tags, tagRef{ID: t.TagID.String(), Normalized: normalized, Position: t.Position})
	}
	return rec, nil
}

func (r articleRecord) sortTime() time.Time {
	if r.UpdatedAt != nil {
		return *r.UpdatedAt
	}
	return r.CreatedAt
}

func (r articleRecord) sortedTags() []tagRef {
	refs := slices.Clone(r.Tags)
	slices.SortStableFunc(refs, func(a, b tagRef) int { return cmp.Compare(a.Position, b.Position) })
	return refs
}

func (r articleRecord) model() (*models.Article, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, fmt.Errorf("parse article ID: %w", err)
	}
	refs := r.sortedTags()
	tagIDs := make([]uuid.UUID, len(refs))
	for i, ref := range refs {
		if tagIDs[i], err = uuid.Parse(ref.ID); err != nil {
			return nil, fmt.Errorf("parse tag ID: %w", err)
		}
	}
	a, err := models.NewArticle(id, r.Title, r.CreatedAt.UTC(), tagIDs)
	if err != nil {
		return nil, err
	}
	if r.UpdatedAt != nil {
		t := r.UpdatedAt.UTC()
		a.UpdatedAt = &t
	}
	return a, nil
}

func (r tagRecord) model() (models.Tag, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return models.Tag{}, fmt.Errorf("parse tag ID: %w", err)
	}
	return models.Tag{ID: id, Name: r.Name, NameNormalized: r.NameNormalized}, nil
}

// buildRows joins article records with their tags. Articles come oldest
// first, tags in position order; references to missing tags are skipped.
func buildRows(articles []articleRecord, tags map[string]tagRecord) ([]catalog.Row, error) {
	sorted := slices.Clone(articles)
	slices.SortStableFunc(sorted, func(a, b articleRecord) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})

	var rows []catalog.Row
	for _, a := range sorted {
		id, err := uuid.Parse(a.ID)
		if err != nil {
			return nil, fmt.Errorf("parse article ID: %w", err)
		}
		for _, ref := range a.sortedTags() {
			tag, ok := tags[ref.Normalized]
			if !ok {
				continue
			}
			rows = append(rows, catalog.Row{
				ArticleID:     id,
				Title:         a.Title,
				CreatedAt:     a.CreatedAt.UTC(),
				UpdatedAt:     a.UpdatedAt,
				TagName:       tag.Name,
				TagNormalized: tag.NameNormalized,
				Position:      ref.Position,
			})
		}
	}
	return rows, nil
}

// matchesQuery reports whether title contains every term of query,
// ignoring case. A blank query matches nothing.
func matchesQuery(title, query string) bool {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return false
	}
	lower := strings.ToLower(title)
	for _, term := range terms {
		if !strings.Contains(lower, term) {
			return false
		}
	}
	return true
}

// scan calls fn for every key under prefix with its value.
func scan(k *kv.KV, prefix string, fn func(key, val []byte) error) error {
	p := []byte(prefix)
	return k.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		opts.Prefix = p
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			item := it.Item()
			key := item.KeyCopy(nil)
			if err := item.Value(func(val []byte) error {
				return fn(key, val)
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

func loadArticles(k *kv.KV) ([]articleRecord, error) {
	var records []articleRecord
	err := scan(k, ArticlePrefix, func(_, val []byte) error {
		var rec articleRecord
		if err := json.Unmarshal(val, &rec); err != nil {
			return fmt.Errorf("unmarshal article: %w", err)
		}
		records = append(records, rec)
		return nil
	})
	return records, err
}

// loadTags returns every tag record keyed by normalized name.
func loadTags(k *kv.KV) (map[string]tagRecord, error) {
	tags := make(map[string]tagRecord)
	err := scan(k, TagPrefix, func(_, val []byte) error {
		var rec tagRecord
		if err := json.Unmarshal(val, &rec); err != nil {
			return fmt.Errorf("unmarshal tag: %w", err)
		}
		tags[rec.NameNormalized] = rec
		return nil
	})
	return tags, err
}
