// ABOUTME: Article aggregate with its ordered, deduplicated tag references.
// ABOUTME: Enforces title and tag-list invariants on create and update.

package models

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harper/catalog/internal/section"
	"github.com/harper/catalog/internal/textutil"
)

const (
	MaxTitleLength = 256
	MaxArticleTags = 256
)

// ArticleTag places one tag at a 0-based slot in an article's tag list.
type ArticleTag struct {
	TagID    uuid.UUID
	Position int
}

func NewArticleTag(tagID uuid.UUID, position int) (ArticleTag, error) {
	if position < 0 {
		return ArticleTag{}, invalid("position", "position must be non-negative")
	}
	return ArticleTag{TagID: tagID, Position: position}, nil
}

// Article is the aggregate root. Its tag positions are always 0..n-1 in
// first-occurrence order of the ids it was built from.
type Article struct {
	ID        uuid.UUID
	Title     string
	CreatedAt time.Time
	UpdatedAt *time.Time

	tags []ArticleTag
}

// NewArticle validates the title and tag ids, drops repeated tag ids and
// assigns positions in the order given.
func NewArticle(id uuid.UUID, title string, createdAt time.Time, tagIDs []uuid.UUID) (*Article, error) {
	if id == uuid.Nil {
		return nil, invalid("id", "article id cannot be empty")
	}

	normalizedTitle, err := NormalizeTitle(title)
	if err != nil {
		return nil, err
	}
	tags, err := buildTagList(tagIDs)
	if err != nil {
		return nil, err
	}

	return &Article{
		ID:        id,
		Title:     normalizedTitle,
		CreatedAt: createdAt,
		tags:      tags,
	}, nil
}

// Update replaces the title and the whole tag list and stamps UpdatedAt,
// even when nothing changed. On error the article is left untouched.
func (a *Article) Update(title string, updatedAt time.Time, tagIDs []uuid.UUID) error {
	normalizedTitle, err := NormalizeTitle(title)
	if err != nil {
		return err
	}
	tags, err := buildTagList(tagIDs)
	if err != nil {
		return err
	}

	a.Title = normalizedTitle
	a.UpdatedAt = &updatedAt
	a.tags = tags
	return nil
}

// Tags returns a copy of the tag references in position order.
func (a *Article) Tags() []ArticleTag {
	return slices.Clone(a.tags)
}

// TagIDs returns the tag ids in position order.
func (a *Article) TagIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(a.tags))
	for i, t := range a.tags {
		ids[i] = t.TagID
	}
	return ids
}

// SortTime is UpdatedAt when set, CreatedAt otherwise.
func (a *Article) SortTime() time.Time {
	if a.UpdatedAt != nil {
		return *a.UpdatedAt
	}
	return a.CreatedAt
}

// SectionKey maps each tag id to its normalized name and builds the
// section key from the result. It agrees with section.Key by construction.
func (a *Article) SectionKey(normalizedName func(uuid.UUID) string) string {
	if len(a.tags) == 0 {
		return ""
	}
	names := make([]string, len(a.tags))
	for i, t := range a.tags {
		names[i] = normalizedName(t.TagID)
	}
	return section.Of(names).Key
}

// NormalizeTitle trims title and checks it is non-empty and at most
// MaxTitleLength characters long.
func NormalizeTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", invalid("title", "title cannot be empty")
	}
	if textutil.CodeUnits(trimmed) > MaxTitleLength {
		return "", invalid("title", "article title cannot be longer than %d characters", MaxTitleLength)
	}
	return trimmed, nil
}

func buildTagList(tagIDs []uuid.UUID) ([]ArticleTag, error) {
	seen := make(map[uuid.UUID]struct{}, len(tagIDs))
	distinct := make([]uuid.UUID, 0, len(tagIDs))
	for _, id := range tagIDs {
		if id == uuid.Nil {
			return nil, invalid("tags", "tag ids cannot contain an empty id")
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		distinct = append(distinct, id)
	}

	if len(distinct) > MaxArticleTags {
		return nil, invalid("tags", "articles cannot have more than %d distinct tags", MaxArticleTags)
	}

	tags := make([]ArticleTag, len(distinct))
	for i, id := range distinct {
		tags[i] = ArticleTag{TagID: id, Position: i}
	}
	return tags, nil
}
