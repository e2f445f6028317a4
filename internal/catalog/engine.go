// ABOUTME: Catalog aggregation engine deriving sections from live tag data.
// ABOUTME: Recomputes section identity from the association rows on every read.

package catalog

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harper/catalog/internal/logger"
	"github.com/harper/catalog/internal/section"
)

// Engine answers section queries. It holds no section state; each call
// reads all rows once and derives the result from them.
type Engine struct {
	rows RowSource
	log  *logger.Logger
}

func NewEngine(rows RowSource, log *logger.Logger) *Engine {
	return &Engine{rows: rows, log: logger.OrNop(log).With("component", "engine")}
}

// Sections returns every section, most articles first, then by name.
func (e *Engine) Sections(ctx context.Context) ([]Section, error) {
	rows, err := e.rows.LoadArticleTagRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("load article tags: %w", err)
	}
	sections := BuildSections(rows)
	e.log.Debug("sections computed", "rows", len(rows), "sections", len(sections))
	return sections, nil
}

// Section returns one section by id, or ErrSectionNotFound.
func (e *Engine) Section(ctx context.Context, id uuid.UUID) (*Section, error) {
	if id == uuid.Nil {
		return nil, ErrSectionNotFound
	}
	sections, err := e.Sections(ctx)
	if err != nil {
		return nil, err
	}
	for i := range sections {
		if sections[i].ID == id {
			return &sections[i], nil
		}
	}
	return nil, ErrSectionNotFound
}

// SectionArticles returns the articles of one section, most recently
// changed first. An unknown or empty id yields an empty list.
func (e *Engine) SectionArticles(ctx context.Context, id uuid.UUID) ([]ArticleView, error) {
	if id == uuid.Nil {
		return []ArticleView{}, nil
	}
	rows, err := e.rows.LoadArticleTagRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("load article tags: %w", err)
	}
	articles := SectionArticles(rows, id)
	e.log.Debug("section articles computed", "section_id", id, "articles", len(articles))
	return articles, nil
}

// ResolveSectionID accepts a full section id or a unique prefix of one.
func (e *Engine) ResolveSectionID(ctx context.Context, idOrPrefix string) (uuid.UUID, error) {
	if id, err := uuid.Parse(idOrPrefix); err == nil {
		return id, nil
	}
	if len(idOrPrefix) < MinPrefixLength {
		return uuid.Nil, ErrPrefixTooShort
	}

	sections, err := e.Sections(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	prefix := strings.ToLower(idOrPrefix)
	var matches []uuid.UUID
	for _, s := range sections {
		if strings.HasPrefix(s.ID.String(), prefix) {
			matches = append(matches, s.ID)
		}
	}
	switch len(matches) {
	case 0:
		return uuid.Nil, ErrSectionNotFound
	case 1:
		return matches[0], nil
	default:
		return uuid.Nil, fmt.Errorf("%w: %d matches", ErrAmbiguousPrefix, len(matches))
	}
}

// taggedArticle is one article rebuilt from its rows, tags in position order.
type taggedArticle struct {
	id         uuid.UUID
	title      string
	createdAt  time.Time
	updatedAt  *time.Time
	names      []string
	normalized []string
}

func (a *taggedArticle) view() ArticleView {
	return ArticleView{
		ID:        a.id,
		Title:     a.title,
		CreatedAt: a.createdAt,
		UpdatedAt: a.updatedAt,
		Tags:      slices.Clone(a.names),
	}
}

// groupByArticle rebuilds articles from rows, keeping the order in which
// each article was first seen.
func groupByArticle(rows []Row) []*taggedArticle {
	index := make(map[uuid.UUID]int)
	var grouped [][]Row
	for _, r := range rows {
		i, ok := index[r.ArticleID]
		if !ok {
			i = len(grouped)
			index[r.ArticleID] = i
			grouped = append(grouped, nil)
		}
		grouped[i] = append(grouped[i], r)
	}

	articles := make([]*taggedArticle, 0, len(grouped))
	for _, group := range grouped {
		slices.SortStableFunc(group, func(a, b Row) int {
			return cmp.Compare(a.Position, b.Position)
		})
		first := group[0]
		a := &taggedArticle{
			id:         first.ArticleID,
			title:      first.Title,
			createdAt:  first.CreatedAt,
			updatedAt:  first.UpdatedAt,
			names:      make([]string, len(group)),
			normalized: make([]string, len(group)),
		}
		for i, r := range group {
			a.names[i] = r.TagName
			a.normalized[i] = r.TagNormalized
		}
		articles = append(articles, a)
	}
	return articles
}

// BuildSections groups articles by section id. A section's display tags
// come from the first member article encountered in rows.
func BuildSections(rows []Row) []Section {
	type bucket struct {
		id             uuid.UUID
		representative *taggedArticle
		count          int
	}

	index := make(map[uuid.UUID]*bucket)
	var buckets []*bucket
	for _, a := range groupByArticle(rows) {
		identity := section.Of(a.normalized)
		if identity.ID == uuid.Nil {
			continue
		}
		b, ok := index[identity.ID]
		if !ok {
			b = &bucket{id: identity.ID, representative: a}
			index[identity.ID] = b
			buckets = append(buckets, b)
		}
		b.count++
	}

	sections := make([]Section, 0, len(buckets))
	for _, b := range buckets {
		tags := distinctSorted(b.representative.names)
		// A slice-backed sequence is never nil.
		name, _ := section.Name(slices.Values(tags))
		sections = append(sections, Section{
			ID:            b.id,
			Name:          name,
			Tags:          tags,
			ArticlesCount: b.count,
		})
	}

	slices.SortStableFunc(sections, func(a, b Section) int {
		if c := cmp.Compare(b.ArticlesCount, a.ArticlesCount); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return sections
}

// SectionArticles returns the articles whose computed section id equals id,
// newest SortTime first, each with tags in stored order.
func SectionArticles(rows []Row, id uuid.UUID) []ArticleView {
	if id == uuid.Nil {
		return []ArticleView{}
	}

	views := []ArticleView{}
	for _, a := range groupByArticle(rows) {
		if section.Of(a.normalized).ID != id {
			continue
		}
		views = append(views, a.view())
	}

	slices.SortStableFunc(views, func(a, b ArticleView) int {
		return b.SortTime().Compare(a.SortTime())
	})
	return views
}

func distinctSorted(names []string) []string {
	out := slices.Clone(names)
	slices.Sort(out)
	return slices.Compact(out)
}
