// ABOUTME: Article commands: create, read, update, delete, search and restore.
// ABOUTME: Validates input, resolves tags by normalized name and logs writes.

package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harper/catalog/internal/logger"
	"github.com/harper/catalog/internal/models"
)

// UpsertRequest carries a client's title and tag names in client order.
// Duplicate names (case-insensitive) keep their first occurrence.
type UpsertRequest struct {
	Title string
	Tags  []string
}

type Service struct {
	store Store
	log   *logger.Logger
	now   func() time.Time
	newID func() uuid.UUID
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the time source used for created/updated stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithIDGenerator sets how new article ids are made.
func WithIDGenerator(newID func() uuid.UUID) Option {
	return func(s *Service) {
		s.newID = newID
	}
}

func NewService(store Store, log *logger.Logger, opts ...Option) *Service {
	s := &Service{
		store: store,
		log:   logger.OrNop(log).With("component", "articles"),
		now:   time.Now,
		newID: uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores a new article and returns it as it would be read back.
func (s *Service) Create(ctx context.Context, req UpsertRequest) (*ArticleView, error) {
	if _, err := models.NormalizeTitle(req.Title); err != nil {
		return nil, err
	}
	tags, err := s.resolveTags(ctx, req.Tags)
	if err != nil {
		return nil, err
	}

	article, err := models.NewArticle(s.newID(), req.Title, s.now().UTC(), tagIDs(tags))
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateArticle(ctx, article); err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}

	s.log.Info("Article created", "article_id", article.ID, "tag_count", len(tags))
	return newView(article, tags), nil
}

// Get returns the article, or nil when it does not exist.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*ArticleView, error) {
	article, tags, err := s.store.GetArticle(ctx, id)
	if errors.Is(err, ErrArticleNotFound) {
		s.log.Warn("Article not found", "article_id", id)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	return newView(article, tags), nil
}

// Update replaces the title and tag list. It reports false when the
// article does not exist.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpsertRequest) (bool, error) {
	article, _, err := s.store.GetArticle(ctx, id)
	if errors.Is(err, ErrArticleNotFound) {
		s.log.Warn("Attempt to update not existing article", "article_id", id)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get article: %w", err)
	}

	if _, err := models.NormalizeTitle(req.Title); err != nil {
		return false, err
	}
	tags, err := s.resolveTags(ctx, req.Tags)
	if err != nil {
		return false, err
	}
	if err := article.Update(req.Title, s.now().UTC(), tagIDs(tags)); err != nil {
		return false, err
	}

	err = s.store.SaveArticle(ctx, article)
	if errors.Is(err, ErrArticleNotFound) {
		// Deleted between the read and the write.
		s.log.Warn("Attempt to update not existing article", "article_id", id)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("save article: %w", err)
	}

	s.log.Info("Article updated", "article_id", id)
	return true, nil
}

// Delete removes the article. It reports false when it does not exist.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	err := s.store.DeleteArticle(ctx, id)
	if errors.Is(err, ErrArticleNotFound) {
		s.log.Warn("Attempt to delete not existing article", "article_id", id)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("delete article: %w", err)
	}

	s.log.Info("Article deleted", "article_id", id)
	return true, nil
}

// Resolve accepts a full article id or a unique prefix of at least
// MinPrefixLength characters.
func (s *Service) Resolve(ctx context.Context, idOrPrefix string) (uuid.UUID, error) {
	if id, err := uuid.Parse(idOrPrefix); err == nil {
		return id, nil
	}
	if len(idOrPrefix) < MinPrefixLength {
		return uuid.Nil, ErrPrefixTooShort
	}
	return s.store.ResolveArticleID(ctx, strings.ToLower(idOrPrefix))
}

// List returns every article, most recently changed first. A positive
// limit caps the result.
func (s *Service) List(ctx context.Context, limit int) ([]ArticleView, error) {
	ids, err := s.store.ListArticleIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return s.load(ctx, ids)
}

// Search returns articles whose titles match query, best match first.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]ArticleView, error) {
	ids, err := s.store.SearchArticles(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search articles: %w", err)
	}
	return s.load(ctx, ids)
}

// load reads each article in ids, skipping ones deleted meanwhile.
func (s *Service) load(ctx context.Context, ids []uuid.UUID) ([]ArticleView, error) {
	views := make([]ArticleView, 0, len(ids))
	for _, id := range ids {
		article, tags, err := s.store.GetArticle(ctx, id)
		if errors.Is(err, ErrArticleNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("get article: %w", err)
		}
		views = append(views, *newView(article, tags))
	}
	return views, nil
}

// Restore stores an article exported elsewhere, keeping its id and
// timestamps. It returns ErrArticleExists when the id is taken.
func (s *Service) Restore(ctx context.Context, v ArticleView) (*ArticleView, error) {
	_, _, err := s.store.GetArticle(ctx, v.ID)
	if err == nil {
		return nil, fmt.Errorf("%w: %s", ErrArticleExists, v.ID)
	}
	if !errors.Is(err, ErrArticleNotFound) {
		return nil, fmt.Errorf("get article: %w", err)
	}

	if _, err := models.NormalizeTitle(v.Title); err != nil {
		return nil, err
	}
	tags, err := s.resolveTags(ctx, v.Tags)
	if err != nil {
		return nil, err
	}

	ids := tagIDs(tags)
	article, err := models.NewArticle(v.ID, v.Title, v.CreatedAt.UTC(), ids)
	if err != nil {
		return nil, err
	}
	if v.UpdatedAt != nil {
		if err := article.Update(v.Title, v.UpdatedAt.UTC(), ids); err != nil {
			return nil, err
		}
	}
	if err := s.store.CreateArticle(ctx, article); err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}

	s.log.Info("Article restored", "article_id", article.ID, "tag_count", len(tags))
	return newView(article, tags), nil
}

// resolveTags validates raw names and maps them to stored tags. Blank
// names are skipped and repeated names keep their first occurrence, so
// validation finishes before any tag is created.
func (s *Service) resolveTags(ctx context.Context, raw []string) ([]models.Tag, error) {
	names, err := parseTagNames(raw)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, nil
	}

	tags, err := s.store.FindOrCreateTags(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("find or create tags: %w", err)
	}
	if len(tags) != len(names) {
		return nil, fmt.Errorf("find or create tags: got %d tags for %d names", len(tags), len(names))
	}
	return tags, nil
}

func parseTagNames(raw []string) ([]models.TagName, error) {
	seen := make(map[string]struct{}, len(raw))
	names := make([]models.TagName, 0, len(raw))
	for _, r := range raw {
		if strings.TrimSpace(r) == "" {
			continue
		}
		name, err := models.NewTagName(r)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[name.Normalized()]; ok {
			continue
		}
		seen[name.Normalized()] = struct{}{}
		names = append(names, name)
	}

	if len(names) > models.MaxArticleTags {
		return nil, &models.ValidationError{
			Field:   "tags",
			Message: fmt.Sprintf("articles cannot have more than %d distinct tags", models.MaxArticleTags),
		}
	}
	return names, nil
}

func tagIDs(tags []models.Tag) []uuid.UUID {
	ids := make([]uuid.UUID, len(tags))
	for i, t := range tags {
		ids[i] = t.ID
	}
	return ids
}

// newView lists tag names in the article's position order. tags may be in
// any order.
func newView(a *models.Article, tags []models.Tag) *ArticleView {
	byID := make(map[uuid.UUID]string, len(tags))
	for _, t := range tags {
		byID[t.ID] = t.Name
	}
	names := make([]string, 0, len(tags))
	for _, id := range a.TagIDs() {
		if name, ok := byID[id]; ok {
			names = append(names, name)
		}
	}
	return &ArticleView{
		ID:        a.ID,
		Title:     a.Title,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
		Tags:      names,
	}
}
