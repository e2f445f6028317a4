// ABOUTME: Tests for article commands against a real SQLite store.
// ABOUTME: Covers validation, tag reuse, full replace on update, restore and section effects.

package catalog_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harper/catalog/internal/catalog"
	"github.com/harper/catalog/internal/db"
	"github.com/harper/catalog/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func setup(t *testing.T) (*catalog.Service, *catalog.Engine, *clock, *db.Store) {
	t.Helper()
	store, err := db.OpenStore(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	c := &clock{now: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)}
	svc := catalog.NewService(store, nil, catalog.WithClock(c.Now))
	return svc, catalog.NewEngine(store, nil), c, store
}

func TestCreateAndGet(t *testing.T) {
	svc, _, c, _ := setup(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, catalog.UpsertRequest{Title: "  Hello  ", Tags: []string{"Go", " ", "go", "SQL"}})
	require.NoError(t, err)
	assert.Equal(t, "Hello", created.Title)
	assert.Equal(t, []string{"Go", "SQL"}, created.Tags)
	assert.Equal(t, c.now, created.CreatedAt)
	assert.Nil(t, created.UpdatedAt)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.Tags, got.Tags)
	assert.Equal(t, created.Title, got.Title)
}

func TestCreateReusesTagDisplayName(t *testing.T) {
	svc, _, _, _ := setup(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, catalog.UpsertRequest{Title: "First", Tags: []string{"Backend"}})
	require.NoError(t, err)
	second, err := svc.Create(ctx, catalog.UpsertRequest{Title: "Second", Tags: []string{"BACKEND"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"Backend"}, second.Tags)
}

func TestCreateValidation(t *testing.T) {
	svc, engine, _, store := setup(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  catalog.UpsertRequest
	}{
		{"empty title", catalog.UpsertRequest{Title: "  ", Tags: []string{"new-tag"}}},
		{"long title", catalog.UpsertRequest{Title: strings.Repeat("x", models.MaxTitleLength+1), Tags: []string{"new-tag"}}},
		{"long tag", catalog.UpsertRequest{Title: "ok", Tags: []string{"new-tag", strings.Repeat("t", models.MaxTagNameLength+1)}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.req)
			require.Error(t, err)
			assert.True(t, models.IsValidation(err), "expected validation error, got %v", err)
		})
	}

	// Rejected requests leave no tags behind.
	tags, err := store.ListTags(ctx)
	require.NoError(t, err)
	assert.Empty(t, tags)

	sections, err := engine.Sections(ctx)
	require.NoError(t, err)
	assert.Empty(t, sections)
}

func TestCreateTooManyTags(t *testing.T) {
	svc, _, _, _ := setup(t)

	tags := make([]string, models.MaxArticleTags+1)
	for i := range tags {
		tags[i] = uuid.NewString()
	}
	_, err := svc.Create(context.Background(), catalog.UpsertRequest{Title: "Crowded", Tags: tags})
	assert.True(t, models.IsValidation(err), "expected validation error, got %v", err)

	// Exactly the limit, with case duplicates on top, is accepted.
	tags = tags[:models.MaxArticleTags]
	tags = append(tags, strings.ToUpper(tags[0]))
	_, err = svc.Create(context.Background(), catalog.UpsertRequest{Title: "Full", Tags: tags})
	assert.NoError(t, err)
}

func TestGetMissing(t *testing.T) {
	svc, _, _, _ := setup(t)
	got, err := svc.Get(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUpdateReplacesTagsAndMovesSection(t *testing.T) {
	svc, engine, c, _ := setup(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, catalog.UpsertRequest{Title: "Post", Tags: []string{"a", "b"}})
	require.NoError(t, err)

	c.Advance(time.Hour)
	ok, err := svc.Update(ctx, a.ID, catalog.UpsertRequest{Title: "Post v2", Tags: []string{"C", "a"}})
	require.NoError(t, err)
	require.True(t, ok)

	got, err := svc.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Post v2", got.Title)
	assert.Equal(t, []string{"C", "a"}, got.Tags)
	require.NotNil(t, got.UpdatedAt)
	assert.True(t, c.now.Equal(*got.UpdatedAt))

	sections, err := engine.Sections(ctx)
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, "a, C", sections[0].Name)
}

func TestUpdateMissingAndInvalid(t *testing.T) {
	svc, _, _, _ := setup(t)
	ctx := context.Background()

	ok, err := svc.Update(ctx, uuid.New(), catalog.UpsertRequest{Title: "x"})
	require.NoError(t, err)
	assert.False(t, ok)

	a, err := svc.Create(ctx, catalog.UpsertRequest{Title: "Keep", Tags: []string{"k"}})
	require.NoError(t, err)
	_, err = svc.Update(ctx, a.ID, catalog.UpsertRequest{Title: ""})
	assert.True(t, models.IsValidation(err))

	got, _ := svc.Get(ctx, a.ID)
	assert.Equal(t, "Keep", got.Title)
	assert.Equal(t, []string{"k"}, got.Tags)
	assert.Nil(t, got.UpdatedAt)
}

func TestDelete(t *testing.T) {
	svc, engine, _, _ := setup(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, catalog.UpsertRequest{Title: "Gone", Tags: []string{"x"}})
	require.NoError(t, err)

	ok, err := svc.Delete(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Delete(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	sections, err := engine.Sections(ctx)
	require.NoError(t, err)
	assert.Empty(t, sections)
}

func TestResolve(t *testing.T) {
	svc, _, _, _ := setup(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, catalog.UpsertRequest{Title: "Short"})
	require.NoError(t, err)

	id, err := svc.Resolve(ctx, strings.ToUpper(a.ID.String()[:8]))
	require.NoError(t, err)
	assert.Equal(t, a.ID, id)

	_, err = svc.Resolve(ctx, "abc")
	assert.ErrorIs(t, err, catalog.ErrPrefixTooShort)
}

func TestSearch(t *testing.T) {
	svc, _, _, _ := setup(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, catalog.UpsertRequest{Title: "Kafka consumers", Tags: []string{"Kafka"}})
	require.NoError(t, err)
	_, err = svc.Create(ctx, catalog.UpsertRequest{Title: "Postgres indexes"})
	require.NoError(t, err)

	results, err := svc.Search(ctx, "kafka", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, a.ID, results[0].ID)
	assert.Equal(t, []string{"Kafka"}, results[0].Tags)
}

func TestList(t *testing.T) {
	svc, _, c, _ := setup(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, catalog.UpsertRequest{Title: "First"})
	require.NoError(t, err)
	c.Advance(time.Minute)
	second, err := svc.Create(ctx, catalog.UpsertRequest{Title: "Second", Tags: []string{"x"}})
	require.NoError(t, err)
	c.Advance(time.Minute)
	found, err := svc.Update(ctx, first.ID, catalog.UpsertRequest{Title: "First again"})
	require.NoError(t, err)
	require.True(t, found)

	all, err := svc.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.ID, all[0].ID)
	assert.Equal(t, "First again", all[0].Title)
	assert.Equal(t, second.ID, all[1].ID)
	assert.Equal(t, []string{"x"}, all[1].Tags)

	limited, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, first.ID, limited[0].ID)
}

func TestRestoreKeepsIdentityAndTimes(t *testing.T) {
	svc, _, _, _ := setup(t)
	ctx := context.Background()

	createdAt := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)
	updatedAt := createdAt.Add(48 * time.Hour)
	in := catalog.ArticleView{
		ID:        uuid.New(),
		Title:     "Imported",
		CreatedAt: createdAt,
		UpdatedAt: &updatedAt,
		Tags:      []string{"old", "Archive"},
	}

	out, err := svc.Restore(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, in.ID, out.ID)

	got, err := svc.Get(ctx, in.ID)
	require.NoError(t, err)
	assert.True(t, got.CreatedAt.Equal(createdAt))
	require.NotNil(t, got.UpdatedAt)
	assert.True(t, got.UpdatedAt.Equal(updatedAt))
	assert.Equal(t, []string{"old", "Archive"}, got.Tags)

	_, err = svc.Restore(ctx, in)
	assert.True(t, errors.Is(err, catalog.ErrArticleExists), "expected ErrArticleExists, got %v", err)
}

func TestSectionsFromService(t *testing.T) {
	svc, engine, c, _ := setup(t)
	ctx := context.Background()

	a, _ := svc.Create(ctx, catalog.UpsertRequest{Title: "A", Tags: []string{"tag1", "tag2"}})
	c.Advance(time.Minute)
	b, _ := svc.Create(ctx, catalog.UpsertRequest{Title: "B", Tags: []string{"TAG2", "Tag1"}})
	c.Advance(time.Minute)
	_, _ = svc.Create(ctx, catalog.UpsertRequest{Title: "C", Tags: []string{"tag3"}})
	_, _ = svc.Create(ctx, catalog.UpsertRequest{Title: "Untagged"})

	sections, err := engine.Sections(ctx)
	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Equal(t, uuid.MustParse("ef7e5019-0855-2fa3-789e-96872036f785"), sections[0].ID)
	assert.Equal(t, 2, sections[0].ArticlesCount)
	assert.Equal(t, "tag1, tag2", sections[0].Name)
	assert.Equal(t, 1, sections[1].ArticlesCount)

	articles, err := engine.SectionArticles(ctx, sections[0].ID)
	require.NoError(t, err)
	require.Len(t, articles, 2)
	assert.Equal(t, b.ID, articles[0].ID)
	assert.Equal(t, a.ID, articles[1].ID)
}
