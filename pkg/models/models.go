package models

import (
	"time"

	dbtypes "github.com/quangminhduong-hustlereal/webapp-news/internal/db"
)

// Article is a blog article record. The slug is the external lookup key;
// the id is internal and system-assigned.
type Article struct {
	ID          string              `db:"id" json:"id"`
	Title       string              `db:"title" json:"title"`
	Slug        string              `db:"slug" json:"slug"`
	Content     string              `db:"content" json:"content"`
	Excerpt     string              `db:"excerpt" json:"excerpt,omitempty"`
	Category    string              `db:"category" json:"category,omitempty"`
	Tags        dbtypes.StringSlice `db:"tags" json:"tags"`
	Author      string              `db:"author" json:"author,omitempty"`
	Source      string              `db:"source" json:"source,omitempty"`
	ImageURL    string              `db:"image_url" json:"imageUrl,omitempty"`
	Views       int64               `db:"views" json:"views"`
	PublishedAt *time.Time          `db:"published_at" json:"publishedAt,omitempty"`
	IsPublished bool                `db:"is_published" json:"isPublished"`
	CreatedAt   time.Time           `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time           `db:"updated_at" json:"updatedAt"`
}

// ArticlePatch is a partial update. Nil fields are excluded from the write
// entirely, so an omitted field is never nulled out in the store.
type ArticlePatch struct {
	Title       *string
	Slug        *string
	Content     *string
	Excerpt     *string
	Category    *string
	Tags        *dbtypes.StringSlice
	Author      *string
	Source      *string
	ImageURL    *string
	Views       *int64
	PublishedAt *time.Time
	IsPublished *bool
}
