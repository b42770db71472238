package models

import (
	"time"

	"github.com/finoteselam-court/court-portal-api/pkg/i18n"
)

// Announcement represents a persisted announcement row.
type Announcement struct {
	ID          string     `db:"id" json:"id"`
	TitleEN     string     `db:"title_en" json:"title_en"`
	TitleAM     string     `db:"title_am" json:"title_am"`
	ContentEN   string     `db:"content_en" json:"content_en"`
	ContentAM   string     `db:"content_am" json:"content_am"`
	IsPublished bool       `db:"is_published" json:"is_published"`
	PublishedAt *time.Time `db:"published_at" json:"published_at"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// AnnouncementFields are the columns written on insert and update.
type AnnouncementFields struct {
	TitleEN     string
	TitleAM     string
	ContentEN   string
	ContentAM   string
	IsPublished bool
	PublishedAt *time.Time
}

// AnnouncementFilter narrows announcement listings.
type AnnouncementFilter struct {
	PublishedOnly bool
}

// PublicAnnouncement is an announcement rendered in one language for visitors.
type PublicAnnouncement struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	PublishedAt time.Time `json:"published_at"`
}

// Localize picks the title and content for the resolver's language.
func (a Announcement) Localize(r *i18n.Resolver) PublicAnnouncement {
	view := PublicAnnouncement{
		ID:      a.ID,
		Title:   r.Resolve(a.TitleEN, a.TitleAM),
		Content: r.Resolve(a.ContentEN, a.ContentAM),
	}
	if a.PublishedAt != nil {
		view.PublishedAt = *a.PublishedAt
	}
	return view
}
