// ABOUTME: Tests for article database operations.
// ABOUTME: Covers CRUD, tag positions, cascades, prefix lookup, search and row loading.

package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harper/catalog/internal/catalog"
	"github.com/harper/catalog/internal/models"
)

var created = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

func newTestArticle(t *testing.T, title string, tagIDs ...uuid.UUID) *models.Article {
	t.Helper()
	a, err := models.NewArticle(uuid.New(), title, created, tagIDs)
	if err != nil {
		t.Fatalf("new article: %v", err)
	}
	return a
}

func TestCreateAndGetArticle(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	tags, _ := FindOrCreateTags(ctx, db, tagNames(t, "Zeta", "alpha"))
	a := newTestArticle(t, "Hello", tags[0].ID, tags[1].ID)
	if err := CreateArticle(ctx, db, a); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, gotTags, err := GetArticle(ctx, db, a.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Hello" {
		t.Errorf("expected title Hello, got %q", got.Title)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("expected created %v, got %v", created, got.CreatedAt)
	}
	if got.UpdatedAt != nil {
		t.Errorf("expected no update time, got %v", got.UpdatedAt)
	}
	if len(gotTags) != 2 || gotTags[0].Name != "Zeta" || gotTags[1].Name != "alpha" {
		t.Errorf("expected tags in stored order, got %+v", gotTags)
	}
}

func TestCreateArticleDuplicateID(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	a := newTestArticle(t, "Once")
	if err := CreateArticle(ctx, db, a); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := CreateArticle(ctx, db, a); !errors.Is(err, catalog.ErrArticleExists) {
		t.Errorf("expected ErrArticleExists, got %v", err)
	}
}

func TestGetArticleNotFound(t *testing.T) {
	db := openTestDB(t)
	if _, _, err := GetArticle(context.Background(), db, uuid.New()); !errors.Is(err, catalog.ErrArticleNotFound) {
		t.Errorf("expected ErrArticleNotFound, got %v", err)
	}
}

func TestSaveArticleReplacesTags(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	tags, _ := FindOrCreateTags(ctx, db, tagNames(t, "a", "b", "c"))
	a := newTestArticle(t, "Post", tags[0].ID, tags[1].ID)
	if err := CreateArticle(ctx, db, a); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Swap positions of an existing tag to exercise the position constraint.
	updated := created.Add(time.Hour)
	if err := a.Update("Post v2", updated, []uuid.UUID{tags[2].ID, tags[0].ID}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := SaveArticle(ctx, db, a); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, gotTags, err := GetArticle(ctx, db, a.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Post v2" {
		t.Errorf("expected new title, got %q", got.Title)
	}
	if got.UpdatedAt == nil || !got.UpdatedAt.Equal(updated) {
		t.Errorf("expected updated %v, got %v", updated, got.UpdatedAt)
	}
	if len(gotTags) != 2 || gotTags[0].Name != "c" || gotTags[1].Name != "a" {
		t.Errorf("expected [c a], got %+v", gotTags)
	}
}

func TestSaveArticleNotFound(t *testing.T) {
	db := openTestDB(t)
	a := newTestArticle(t, "Ghost")
	if err := SaveArticle(context.Background(), db, a); !errors.Is(err, catalog.ErrArticleNotFound) {
		t.Errorf("expected ErrArticleNotFound, got %v", err)
	}
}

func TestDeleteArticleCascades(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	tags, _ := FindOrCreateTags(ctx, db, tagNames(t, "x"))
	a := newTestArticle(t, "Doomed", tags[0].ID)
	_ = CreateArticle(ctx, db, a)

	if err := DeleteArticle(ctx, db, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var links int
	_ = db.QueryRow(`SELECT COUNT(*) FROM article_tags`).Scan(&links)
	if links != 0 {
		t.Errorf("expected associations removed, got %d", links)
	}
	var tagCount int
	_ = db.QueryRow(`SELECT COUNT(*) FROM tags`).Scan(&tagCount)
	if tagCount != 1 {
		t.Errorf("expected tag to survive, got %d tags", tagCount)
	}

	if err := DeleteArticle(ctx, db, a.ID); !errors.Is(err, catalog.ErrArticleNotFound) {
		t.Errorf("expected ErrArticleNotFound on second delete, got %v", err)
	}
}

func TestResolveArticleID(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	a := newTestArticle(t, "Findable")
	_ = CreateArticle(ctx, db, a)

	id, err := ResolveArticleID(ctx, db, a.ID.String()[:8])
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if id != a.ID {
		t.Errorf("expected %s, got %s", a.ID, id)
	}

	if _, err := ResolveArticleID(ctx, db, "abc"); !errors.Is(err, catalog.ErrPrefixTooShort) {
		t.Errorf("expected ErrPrefixTooShort, got %v", err)
	}
	if _, err := ResolveArticleID(ctx, db, "zzzzzzzz"); !errors.Is(err, catalog.ErrArticleNotFound) {
		t.Errorf("expected ErrArticleNotFound, got %v", err)
	}
}

func TestResolveArticleIDAmbiguous(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	for _, id := range []string{"abcdef00-0000-0000-0000-000000000001", "abcdef00-0000-0000-0000-000000000002"} {
		a, _ := models.NewArticle(uuid.MustParse(id), "Twin", created, nil)
		_ = CreateArticle(ctx, db, a)
	}

	if _, err := ResolveArticleID(ctx, db, "abcdef"); !errors.Is(err, catalog.ErrAmbiguousPrefix) {
		t.Errorf("expected ErrAmbiguousPrefix, got %v", err)
	}
}

func TestListArticleIDs(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	older := newTestArticle(t, "Older")
	newer, _ := models.NewArticle(uuid.New(), "Newer", created.Add(time.Hour), nil)
	edited := newTestArticle(t, "Edited")
	_ = edited.Update("Edited", created.Add(2*time.Hour), nil)
	for _, a := range []*models.Article{older, newer, edited} {
		if err := CreateArticle(ctx, db, a); err != nil {
			t.Fatalf("create %s: %v", a.Title, err)
		}
	}

	ids, err := ListArticleIDs(ctx, db)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []uuid.UUID{edited.ID, newer.ID, older.ID}
	if len(ids) != len(want) {
		t.Fatalf("expected %d ids, got %d", len(want), len(ids))
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], ids[i])
		}
	}
}

func TestSearchArticles(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	golang := newTestArticle(t, "Concurrency in Golang")
	rust := newTestArticle(t, "Ownership in Rust")
	_ = CreateArticle(ctx, db, golang)
	_ = CreateArticle(ctx, db, rust)

	ids, err := SearchArticles(ctx, db, "gola", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(ids) != 1 || ids[0] != golang.ID {
		t.Errorf("expected only the golang article, got %v", ids)
	}

	ids, err = SearchArticles(ctx, db, "(Golang?", 10)
	if err != nil {
		t.Fatalf("search with punctuation: %v", err)
	}
	if len(ids) != 1 || ids[0] != golang.ID {
		t.Errorf("expected punctuation to be treated as text, got %v", ids)
	}

	ids, err = SearchArticles(ctx, db, "   ", 10)
	if err != nil || ids != nil {
		t.Errorf("expected no results for blank query, got %v, %v", ids, err)
	}
}

func TestSearchFollowsTitleUpdates(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	a := newTestArticle(t, "Draft")
	_ = CreateArticle(ctx, db, a)
	_ = a.Update("Published", created.Add(time.Minute), nil)
	_ = SaveArticle(ctx, db, a)

	if ids, _ := SearchArticles(ctx, db, "draft", 10); len(ids) != 0 {
		t.Errorf("expected old title gone from index, got %v", ids)
	}
	if ids, _ := SearchArticles(ctx, db, "published", 10); len(ids) != 1 {
		t.Errorf("expected new title indexed, got %v", ids)
	}
}

func TestLoadArticleTagRows(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	tags, _ := FindOrCreateTags(ctx, db, tagNames(t, "Go", "SQL"))
	a := newTestArticle(t, "Tagged", tags[1].ID, tags[0].ID)
	untagged := newTestArticle(t, "Bare")
	_ = CreateArticle(ctx, db, a)
	_ = CreateArticle(ctx, db, untagged)

	rows, err := LoadArticleTagRows(ctx, db)
	if err != nil {
		t.Fatalf("load rows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].TagName != "SQL" || rows[0].Position != 0 || rows[0].TagNormalized != "sql" {
		t.Errorf("unexpected first row: %+v", rows[0])
	}
	if rows[1].TagName != "Go" || rows[1].Position != 1 {
		t.Errorf("unexpected second row: %+v", rows[1])
	}
	if rows[0].ArticleID != a.ID || rows[0].Title != "Tagged" || !rows[0].CreatedAt.Equal(created) {
		t.Errorf("unexpected article columns: %+v", rows[0])
	}
}
