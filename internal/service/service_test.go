package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quangminhduong-hustlereal/webapp-news/internal/store"
	"github.com/quangminhduong-hustlereal/webapp-news/pkg/models"
)

// fakeStore is an in-memory ArticleStore keyed by slug. It mimics the real
// store contract: conflict on duplicate slug, not-found on unknown slug,
// system-assigned id and timestamps on insert.
type fakeStore struct {
	bySlug    map[string]*models.Article
	nextID    int
	lastPatch *models.ArticlePatch
}

func newFakeStore() *fakeStore {
	return &fakeStore{bySlug: map[string]*models.Article{}}
}

func (f *fakeStore) Insert(a *models.Article) error {
	if _, ok := f.bySlug[a.Slug]; ok {
		return fmt.Errorf("insert article slug=%s: %w", a.Slug, store.ErrConflict)
	}
	f.nextID++
	a.ID = fmt.Sprintf("id-%d", f.nextID)
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	cp := *a
	f.bySlug[a.Slug] = &cp
	return nil
}

func (f *fakeStore) GetBySlug(slug string) (*models.Article, error) {
	a, ok := f.bySlug[slug]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeStore) All() ([]*models.Article, error) {
	out := []*models.Article{}
	for _, a := range f.bySlug {
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeStore) SlugExists(slug string) (bool, error) {
	_, ok := f.bySlug[slug]
	return ok, nil
}

func (f *fakeStore) UpdateBySlug(slug string, patch *models.ArticlePatch) (*models.Article, error) {
	f.lastPatch = patch
	a, ok := f.bySlug[slug]
	if !ok {
		return nil, store.ErrNotFound
	}
	if patch.Slug != nil && *patch.Slug != slug {
		if _, taken := f.bySlug[*patch.Slug]; taken {
			return nil, fmt.Errorf("update article slug=%s: %w", slug, store.ErrConflict)
		}
	}
	if patch.Title != nil {
		a.Title = *patch.Title
	}
	if patch.Content != nil {
		a.Content = *patch.Content
	}
	if patch.Excerpt != nil {
		a.Excerpt = *patch.Excerpt
	}
	if patch.Tags != nil {
		a.Tags = *patch.Tags
	}
	if patch.IsPublished != nil {
		a.IsPublished = *patch.IsPublished
	}
	if patch.Slug != nil {
		delete(f.bySlug, slug)
		a.Slug = *patch.Slug
		f.bySlug[a.Slug] = a
	}
	a.UpdatedAt = time.Now().UTC()
	cp := *a
	return &cp, nil
}

func TestCreateDerivesSlugAndDefaults(t *testing.T) {
	svc := NewService(newFakeStore())

	a, err := svc.Create(context.Background(), CreateArticleInput{
		Title:   "Hello World",
		Content: "x",
	})
	require.NoError(t, err)

	assert.Equal(t, "hello-world", a.Slug)
	assert.Equal(t, "Hello World", a.Title)
	assert.NotEmpty(t, a.ID)
	assert.False(t, a.IsPublished)
	assert.NotNil(t, a.Tags)
	assert.Empty(t, a.Tags)
	assert.False(t, a.CreatedAt.IsZero())
	assert.Nil(t, a.PublishedAt)
}

func TestCreateCollisionAppendsTimestamp(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()

	first, err := svc.Create(ctx, CreateArticleInput{Title: "Hello World", Content: "x"})
	require.NoError(t, err)
	require.Equal(t, "hello-world", first.Slug)

	second, err := svc.Create(ctx, CreateArticleInput{Title: "Hello World", Content: "y"})
	require.NoError(t, err)

	assert.NotEqual(t, first.Slug, second.Slug)
	assert.Regexp(t, regexp.MustCompile(`^hello-world-\d+$`), second.Slug)
}

func TestCreateRejectsMissingFields(t *testing.T) {
	fs := newFakeStore()
	svc := NewService(fs)
	ctx := context.Background()

	for _, in := range []CreateArticleInput{
		{Title: "", Content: "x"},
		{Title: "   ", Content: "x"},
		{Title: "Hello", Content: ""},
	} {
		_, err := svc.Create(ctx, in)
		assert.ErrorIs(t, err, ErrValidation)
	}
	assert.Empty(t, fs.bySlug, "no record may be persisted on validation failure")
}

func TestUpdateWithoutTitleKeepsSlug(t *testing.T) {
	fs := newFakeStore()
	svc := NewService(fs)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateArticleInput{Title: "Hello World", Content: "x"})
	require.NoError(t, err)

	content := "new"
	a, err := svc.Update(ctx, "hello-world", UpdateArticleInput{Content: &content})
	require.NoError(t, err)

	assert.Equal(t, "hello-world", a.Slug)
	assert.Equal(t, "new", a.Content)
	assert.Nil(t, fs.lastPatch.Slug, "slug must stay out of the write set when title is absent")
}

func TestUpdateUnchangedTitleKeepsSlug(t *testing.T) {
	fs := newFakeStore()
	svc := NewService(fs)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateArticleInput{Title: "Hello World", Content: "x"})
	require.NoError(t, err)

	title := "Hello World"
	a, err := svc.Update(ctx, "hello-world", UpdateArticleInput{Title: &title})
	require.NoError(t, err)

	assert.Equal(t, "hello-world", a.Slug)
	assert.Nil(t, fs.lastPatch.Slug, "identical candidate slug must not be rewritten")
}

func TestUpdateNewTitleRewritesSlug(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateArticleInput{Title: "Hello World", Content: "x"})
	require.NoError(t, err)

	title := "Goodbye World"
	a, err := svc.Update(ctx, "hello-world", UpdateArticleInput{Title: &title})
	require.NoError(t, err)

	assert.Equal(t, "goodbye-world", a.Slug)
	assert.Equal(t, "Goodbye World", a.Title)
}

func TestUpdateNewTitleCollisionAppendsTimestamp(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateArticleInput{Title: "Hello World", Content: "x"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateArticleInput{Title: "Other Post", Content: "y"})
	require.NoError(t, err)

	title := "Other Post"
	a, err := svc.Update(ctx, "hello-world", UpdateArticleInput{Title: &title})
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^other-post-\d+$`), a.Slug)
}

func TestUpdateUnknownSlugIsNotFound(t *testing.T) {
	svc := NewService(newFakeStore())

	content := "x"
	_, err := svc.Update(context.Background(), "does-not-exist", UpdateArticleInput{Content: &content})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateRejectsEmptyRequiredFields(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateArticleInput{Title: "Hello World", Content: "x"})
	require.NoError(t, err)

	empty := "  "
	_, err = svc.Update(ctx, "hello-world", UpdateArticleInput{Title: &empty})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Update(ctx, "hello-world", UpdateArticleInput{Content: &empty})
	assert.ErrorIs(t, err, ErrValidation)
}

// racingStore simulates losing the check-then-write race: the advisory
// exists-check reports the slug as free, but the insert still hits the
// unique index.
type racingStore struct {
	*fakeStore
}

func (r *racingStore) SlugExists(string) (bool, error) { return false, nil }

func (r *racingStore) Insert(a *models.Article) error {
	return fmt.Errorf("insert article slug=%s: %w", a.Slug, store.ErrConflict)
}

func TestCreateSurfacesStoreConflict(t *testing.T) {
	svc := NewService(&racingStore{fakeStore: newFakeStore()})

	_, err := svc.Create(context.Background(), CreateArticleInput{Title: "Hello World", Content: "x"})
	assert.True(t, errors.Is(err, store.ErrConflict))
}
