package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/finoteselam-court/court-portal-api/internal/models"
)

const announcementColumns = `id, title_en, title_am, content_en, content_am, is_published, published_at, created_at, updated_at`

// AnnouncementRepository provides persistence for announcements.
type AnnouncementRepository struct {
	db *sqlx.DB
}

// NewAnnouncementRepository creates the repository.
func NewAnnouncementRepository(db *sqlx.DB) *AnnouncementRepository {
	return &AnnouncementRepository{db: db}
}

// List returns announcements. Published listings are ordered by publication
// time, admin listings by creation time, newest first in both cases.
func (r *AnnouncementRepository) List(ctx context.Context, filter models.AnnouncementFilter) ([]models.Announcement, error) {
	query := `SELECT ` + announcementColumns + ` FROM announcements ORDER BY created_at DESC`
	if filter.PublishedOnly {
		query = `SELECT ` + announcementColumns + ` FROM announcements WHERE is_published = TRUE ORDER BY published_at DESC`
	}
	announcements := []models.Announcement{}
	if err := r.db.SelectContext(ctx, &announcements, query); err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	return announcements, nil
}

// ListRecent returns the newest announcements by creation time.
func (r *AnnouncementRepository) ListRecent(ctx context.Context, limit int) ([]models.Announcement, error) {
	query := `SELECT ` + announcementColumns + ` FROM announcements ORDER BY created_at DESC LIMIT $1`
	announcements := []models.Announcement{}
	if err := r.db.SelectContext(ctx, &announcements, query, limit); err != nil {
		return nil, fmt.Errorf("list recent announcements: %w", err)
	}
	return announcements, nil
}

// GetByID returns an announcement by identifier. A missing row yields sql.ErrNoRows.
func (r *AnnouncementRepository) GetByID(ctx context.Context, id string) (*models.Announcement, error) {
	query := `SELECT ` + announcementColumns + ` FROM announcements WHERE id = $1`
	var announcement models.Announcement
	if err := r.db.GetContext(ctx, &announcement, query, id); err != nil {
		return nil, fmt.Errorf("get announcement %s: %w", id, err)
	}
	return &announcement, nil
}

// Insert stores a new announcement and returns its id.
func (r *AnnouncementRepository) Insert(ctx context.Context, fields models.AnnouncementFields) (string, error) {
	now := time.Now().UTC()
	row := models.Announcement{
		ID:          uuid.NewString(),
		TitleEN:     fields.TitleEN,
		TitleAM:     fields.TitleAM,
		ContentEN:   fields.ContentEN,
		ContentAM:   fields.ContentAM,
		IsPublished: fields.IsPublished,
		PublishedAt: fields.PublishedAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	const query = `INSERT INTO announcements (id, title_en, title_am, content_en, content_am, is_published, published_at, created_at, updated_at)
VALUES (:id, :title_en, :title_am, :content_en, :content_am, :is_published, :published_at, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return "", fmt.Errorf("create announcement: %w", err)
	}
	return row.ID, nil
}

// Update replaces the editable fields. created_at is never touched.
func (r *AnnouncementRepository) Update(ctx context.Context, id string, fields models.AnnouncementFields) error {
	const query = `UPDATE announcements SET title_en = $2, title_am = $3, content_en = $4, content_am = $5,
is_published = $6, published_at = $7, updated_at = $8 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, fields.TitleEN, fields.TitleAM, fields.ContentEN, fields.ContentAM,
		fields.IsPublished, fields.PublishedAt, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update announcement: %w", err)
	}
	return requireRow(res, "update announcement", id)
}

// Delete removes an announcement permanently.
func (r *AnnouncementRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM announcements WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete announcement: %w", err)
	}
	return requireRow(res, "delete announcement", id)
}

// Stats counts all and published announcements.
func (r *AnnouncementRepository) Stats(ctx context.Context) (total, published int, err error) {
	const query = `SELECT COUNT(*) AS total, COUNT(*) FILTER (WHERE is_published) AS published FROM announcements`
	var row struct {
		Total     int `db:"total"`
		Published int `db:"published"`
	}
	if err := r.db.GetContext(ctx, &row, query); err != nil {
		return 0, 0, fmt.Errorf("announcement stats: %w", err)
	}
	return row.Total, row.Published, nil
}

// requireRow turns a zero-row write into sql.ErrNoRows.
func requireRow(res sql.Result, op, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s %s: %w", op, id, sql.ErrNoRows)
	}
	return nil
}
