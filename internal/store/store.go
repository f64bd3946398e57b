package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	dbtypes "github.com/quangminhduong-hustlereal/webapp-news/internal/db"
	"github.com/quangminhduong-hustlereal/webapp-news/pkg/models"
)

// Sentinel errors the layers above match with errors.Is. ErrConflict is the
// unique index on slug rejecting a write; the advisory pre-check in the
// service can race, so writes must still expect it.
var (
	ErrNotFound = errors.New("article not found")
	ErrConflict = errors.New("slug already in use")
)

type PgStore struct {
	db *sqlx.DB
}

func NewPgStore(db *sql.DB) *PgStore {
	return &PgStore{db: sqlx.NewDb(db, "postgres")}
}

func RunMigrations(db *sql.DB) error {
	initSQL := `
CREATE TABLE IF NOT EXISTS articles(
  id UUID PRIMARY KEY,
  title TEXT NOT NULL CHECK (btrim(title) <> ''),
  slug TEXT NOT NULL CHECK (slug <> ''),
  content TEXT NOT NULL CHECK (content <> ''),
  excerpt TEXT NOT NULL DEFAULT '',
  category TEXT NOT NULL DEFAULT '',
  tags JSONB NOT NULL DEFAULT '[]'::jsonb,
  author TEXT NOT NULL DEFAULT '',
  source TEXT NOT NULL DEFAULT '',
  image_url TEXT NOT NULL DEFAULT '',
  views BIGINT NOT NULL DEFAULT 0,
  published_at TIMESTAMPTZ,
  is_published BOOLEAN NOT NULL DEFAULT FALSE,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

-- slug is the external lookup key and must stay unique; this index is the
-- authoritative constraint, application-side checks are best effort.
CREATE UNIQUE INDEX IF NOT EXISTS idx_articles_slug ON articles(slug);
CREATE INDEX IF NOT EXISTS idx_articles_created ON articles(created_at);
`
	_, err := db.Exec(initSQL)
	return err
}

const articleColumns = `id,title,slug,content,excerpt,category,tags,author,source,image_url,views,published_at,is_published,created_at,updated_at`

// Insert persists a new article, assigning the id and both timestamps.
func (p *PgStore) Insert(a *models.Article) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.Tags == nil {
		a.Tags = dbtypes.StringSlice{}
	}
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now

	stmt := `
INSERT INTO articles (` + articleColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7::jsonb,$8,$9,$10,$11,$12,$13,$14,$15)
`
	_, err := p.db.Exec(stmt,
		a.ID,
		a.Title,
		a.Slug,
		a.Content,
		a.Excerpt,
		a.Category,
		a.Tags,
		a.Author,
		a.Source,
		a.ImageURL,
		a.Views,
		a.PublishedAt,
		a.IsPublished,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert article slug=%s: %w", a.Slug, ErrConflict)
		}
		return fmt.Errorf("insert article slug=%s: %w", a.Slug, err)
	}
	return nil
}

func (p *PgStore) GetBySlug(slug string) (*models.Article, error) {
	a := models.Article{}
	query := `
SELECT ` + articleColumns + `
FROM articles
WHERE slug = $1
`
	err := p.db.Get(&a, query, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// All returns every article, newest first.
func (p *PgStore) All() ([]*models.Article, error) {
	rows := []*models.Article{}
	query := `
SELECT ` + articleColumns + `
FROM articles
ORDER BY created_at DESC
`
	err := p.db.Select(&rows, query)
	return rows, err
}

// SlugExists is the advisory collision check used during slug resolution.
func (p *PgStore) SlugExists(slug string) (bool, error) {
	var exists bool
	err := p.db.Get(&exists, `SELECT EXISTS (SELECT 1 FROM articles WHERE slug = $1)`, slug)
	return exists, err
}

// UpdateBySlug applies a partial update to the article matching slug and
// returns the post-update record. Nil patch fields never reach the SET
// clause; updated_at is always refreshed.
func (p *PgStore) UpdateBySlug(slug string, patch *models.ArticlePatch) (*models.Article, error) {
	query, args := buildUpdate(slug, patch)

	a := models.Article{}
	err := p.db.Get(&a, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("update article slug=%s: %w", slug, ErrConflict)
		}
		return nil, fmt.Errorf("update article slug=%s: %w", slug, err)
	}
	return &a, nil
}

func buildUpdate(slug string, patch *models.ArticlePatch) (string, []interface{}) {
	set := []string{}
	args := []interface{}{}
	add := func(col string, v interface{}) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Slug != nil {
		add("slug", *patch.Slug)
	}
	if patch.Content != nil {
		add("content", *patch.Content)
	}
	if patch.Excerpt != nil {
		add("excerpt", *patch.Excerpt)
	}
	if patch.Category != nil {
		add("category", *patch.Category)
	}
	if patch.Tags != nil {
		add("tags", *patch.Tags)
	}
	if patch.Author != nil {
		add("author", *patch.Author)
	}
	if patch.Source != nil {
		add("source", *patch.Source)
	}
	if patch.ImageURL != nil {
		add("image_url", *patch.ImageURL)
	}
	if patch.Views != nil {
		add("views", *patch.Views)
	}
	if patch.PublishedAt != nil {
		add("published_at", *patch.PublishedAt)
	}
	if patch.IsPublished != nil {
		add("is_published", *patch.IsPublished)
	}
	add("updated_at", time.Now().UTC())

	args = append(args, slug)
	query := fmt.Sprintf(
		"UPDATE articles SET %s WHERE slug = $%d RETURNING %s",
		strings.Join(set, ", "), len(args), articleColumns,
	)
	return query, args
}

// isUniqueViolation reports whether err is Postgres rejecting a duplicate
// key (SQLSTATE 23505), which here can only be the slug index.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
