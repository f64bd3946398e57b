package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	dbtypes "github.com/quangminhduong-hustlereal/webapp-news/internal/db"
	"github.com/quangminhduong-hustlereal/webapp-news/internal/slug"
	"github.com/quangminhduong-hustlereal/webapp-news/pkg/models"
)

// ErrValidation tags client-caused input errors so the API layer can answer
// 400 without inspecting message text.
var ErrValidation = errors.New("invalid input")

type ArticleStore interface {
	Insert(a *models.Article) error
	GetBySlug(slug string) (*models.Article, error)
	All() ([]*models.Article, error)
	SlugExists(slug string) (bool, error)
	UpdateBySlug(slug string, patch *models.ArticlePatch) (*models.Article, error)
}

type Service struct {
	repo ArticleStore
}

func NewService(repo ArticleStore) *Service {
	return &Service{repo: repo}
}

// CreateArticleInput is the accepted create payload. Title and Content are
// required; everything else falls back to schema defaults.
type CreateArticleInput struct {
	Title       string
	Content     string
	Excerpt     string
	Category    string
	Tags        []string
	Author      string
	Source      string
	ImageURL    string
	IsPublished *bool
	PublishedAt *time.Time
}

// UpdateArticleInput is a partial update payload. Nil means "not sent" and
// the field is left untouched in the store.
type UpdateArticleInput struct {
	Title       *string
	Content     *string
	Excerpt     *string
	Category    *string
	Tags        *[]string
	Author      *string
	Source      *string
	ImageURL    *string
	IsPublished *bool
	PublishedAt *time.Time
}

func (s *Service) List(ctx context.Context) ([]*models.Article, error) {
	return s.repo.All()
}

func (s *Service) GetBySlug(ctx context.Context, sl string) (*models.Article, error) {
	return s.repo.GetBySlug(sl)
}

// Create validates the payload, resolves a unique slug from the title and
// persists the new article. The returned record carries the system-assigned
// id and timestamps.
func (s *Service) Create(ctx context.Context, in CreateArticleInput) (*models.Article, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" || strings.TrimSpace(in.Content) == "" {
		return nil, fmt.Errorf("%w: title and content are required", ErrValidation)
	}

	cand, err := s.resolveSlug(title)
	if err != nil {
		return nil, fmt.Errorf("resolve slug: %w", err)
	}

	a := &models.Article{
		Title:       title,
		Slug:        cand,
		Content:     in.Content,
		Excerpt:     strings.TrimSpace(in.Excerpt),
		Category:    strings.TrimSpace(in.Category),
		Tags:        dbtypes.StringSlice(in.Tags),
		Author:      strings.TrimSpace(in.Author),
		Source:      strings.TrimSpace(in.Source),
		ImageURL:    strings.TrimSpace(in.ImageURL),
		PublishedAt: in.PublishedAt,
	}
	if a.Tags == nil {
		a.Tags = dbtypes.StringSlice{}
	}
	if in.IsPublished != nil {
		a.IsPublished = *in.IsPublished
	}

	if err := s.repo.Insert(a); err != nil {
		return nil, err
	}
	return a, nil
}

// Update applies a partial update to the article matching currentSlug. The
// slug is recomputed only when the payload carries a title whose candidate
// slug differs from currentSlug; otherwise the slug column stays out of the
// write set.
func (s *Service) Update(ctx context.Context, currentSlug string, in UpdateArticleInput) (*models.Article, error) {
	patch := &models.ArticlePatch{
		Excerpt:     in.Excerpt,
		Category:    in.Category,
		Author:      in.Author,
		Source:      in.Source,
		ImageURL:    in.ImageURL,
		IsPublished: in.IsPublished,
		PublishedAt: in.PublishedAt,
	}

	if in.Content != nil {
		if strings.TrimSpace(*in.Content) == "" {
			return nil, fmt.Errorf("%w: content cannot be empty", ErrValidation)
		}
		patch.Content = in.Content
	}

	if in.Tags != nil {
		tags := dbtypes.StringSlice(*in.Tags)
		if tags == nil {
			tags = dbtypes.StringSlice{}
		}
		patch.Tags = &tags
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", ErrValidation)
		}
		patch.Title = &title

		if cand := slug.Make(title); cand != currentSlug {
			exists, err := s.repo.SlugExists(cand)
			if err != nil {
				return nil, fmt.Errorf("resolve slug: %w", err)
			}
			if exists {
				cand = slug.WithTimestamp(cand)
			}
			patch.Slug = &cand
		}
	}

	return s.repo.UpdateBySlug(currentSlug, patch)
}

// resolveSlug computes the create-mode candidate and disambiguates a taken
// one with a timestamp suffix. The exists-check and the caller's insert are
// not atomic; two concurrent creates with the same title can both pass and
// the unique index settles it.
func (s *Service) resolveSlug(title string) (string, error) {
	cand := slug.Make(title)
	exists, err := s.repo.SlugExists(cand)
	if err != nil {
		return "", err
	}
	if exists {
		cand = slug.WithTimestamp(cand)
	}
	return cand, nil
}
