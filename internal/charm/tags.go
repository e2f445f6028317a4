// ABOUTME: Tag operations using Charm KV storage.
// ABOUTME: Tags are keyed by normalized name; article counts come from article records.

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

// FindOrCreateTags returns one tag per name in input order, creating the
// missing ones. It runs under the exclusive write lock, so two callers can
// never both create the same normalized name.
func (c *Client) FindOrCreateTags(ctx context.Context, names []models.TagName) ([]models.Tag, error) {
	if len(names) == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tags := make([]models.Tag, 0, len(names))
	err := c.do(func(k *kv.KV) error {
		for _, name := range names {
			rec, err := getOrPutTag(k, name)
			if err != nil {
				return err
			}
			tag, err := rec.model()
			if err != nil {
				return err
			}
			tags = append(tags, tag)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

func getOrPutTag(k *kv.KV, name models.TagName) (tagRecord, error) {
	key := tagKey(name.Normalized())
	data, err := k.Get(key)
	if err == nil {
		var rec tagRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return tagRecord{}, fmt.Errorf("unmarshal tag: %w", err)
		}
		return rec, nil
	}
	if !errors.Is(err, badger.ErrKeyNotFound) {
		return tagRecord{}, err
	}

	rec := tagRecord{
		ID:             uuid.NewString(),
		Name:           name.Value(),
		NameNormalized: name.Normalized(),
	}
	encoded, err := json.Marshal(rec)
	if err != nil {
		return tagRecord{}, fmt.Errorf("marshal tag: %w", err)
	}
	if err := k.Set(key, encoded); err != nil {
		return tagRecord{}, err
	}
	return rec, nil
}

// ListTags returns all tags with their usage counts, by normalized name.
func (c *Client) ListTags(ctx context.Context) ([]catalog.TagCount, error) {
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
	return countTags(articles, tags)
}

func countTags(articles []articleRecord, tags map[string]tagRecord) ([]catalog.TagCount, error) {
	counts := make(map[string]int, len(tags))
	for _, a := range articles {
		for _, ref := range a.Tags {
			counts[ref.Normalized]++
		}
	}

	result := make([]catalog.TagCount, 0, len(tags))
	for normalized, rec := range tags {
		tag, err := rec.model()
		if err != nil {
			return nil, err
		}
		result = append(result, catalog.TagCount{Tag: tag, Articles: counts[normalized]})
	}
	slices.SortFunc(result, func(a, b catalog.TagCount) int {
		return strings.Compare(a.Tag.NameNormalized, b.Tag.NameNormalized)
	})
	return result, nil
}
