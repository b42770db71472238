package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/finoteselam-court/court-portal-api/internal/models"
)

const submissionColumns = `id, name, email, phone, subject, message, is_read, created_at`

// SubmissionRepository persists contact-form submissions. Rows are never deleted
// and is_read is the only column that changes after insert.
type SubmissionRepository struct {
	db *sqlx.DB
}

// NewSubmissionRepository creates the repository.
func NewSubmissionRepository(db *sqlx.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// Insert stores a new unread submission and returns its id.
func (r *SubmissionRepository) Insert(ctx context.Context, fields models.SubmissionFields) (string, error) {
	row := models.Submission{
		ID:        uuid.NewString(),
		Name:      fields.Name,
		Email:     fields.Email,
		Phone:     fields.Phone,
		Subject:   fields.Subject,
		Message:   fields.Message,
		IsRead:    false,
		CreatedAt: time.Now().UTC(),
	}
	const query = `INSERT INTO contact_submissions (id, name, email, phone, subject, message, is_read, created_at)
VALUES (:id, :name, :email, :phone, :subject, :message, :is_read, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return "", fmt.Errorf("create submission: %w", err)
	}
	return row.ID, nil
}

// List returns every submission newest-first.
func (r *SubmissionRepository) List(ctx context.Context) ([]models.Submission, error) {
	return r.list(ctx, `SELECT `+submissionColumns+` FROM contact_submissions ORDER BY created_at DESC`)
}

// ListRecent returns the newest submissions.
func (r *SubmissionRepository) ListRecent(ctx context.Context, limit int) ([]models.Submission, error) {
	return r.list(ctx, `SELECT `+submissionColumns+` FROM contact_submissions ORDER BY created_at DESC LIMIT $1`, limit)
}

func (r *SubmissionRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Submission, error) {
	submissions := []models.Submission{}
	if err := r.db.SelectContext(ctx, &submissions, query, args...); err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return submissions, nil
}

// GetByID returns a submission. A missing row yields sql.ErrNoRows.
func (r *SubmissionRepository) GetByID(ctx context.Context, id string) (*models.Submission, error) {
	var submission models.Submission
	query := `SELECT ` + submissionColumns + ` FROM contact_submissions WHERE id = $1`
	if err := r.db.GetContext(ctx, &submission, query, id); err != nil {
		return nil, fmt.Errorf("get submission %s: %w", id, err)
	}
	return &submission, nil
}

// SetRead sets is_read to value. Setting the current value again is a no-op success.
func (r *SubmissionRepository) SetRead(ctx context.Context, id string, value bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE contact_submissions SET is_read = $2 WHERE id = $1`, id, value)
	if err != nil {
		return fmt.Errorf("set submission read: %w", err)
	}
	return requireRow(res, "set submission read", id)
}

// CompareAndSetRead sets is_read to value only when it currently equals expected.
// swapped is false when another writer changed the flag first; a missing row
// yields sql.ErrNoRows.
func (r *SubmissionRepository) CompareAndSetRead(ctx context.Context, id string, expected, value bool) (bool, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE contact_submissions SET is_read = $3 WHERE id = $1 AND is_read = $2`, id, expected, value)
	if err != nil {
		return false, fmt.Errorf("compare and set submission read: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("compare and set submission read: %w", err)
	}
	if affected > 0 {
		return true, nil
	}
	if _, err := r.GetByID(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}

// Stats counts all and unread submissions.
func (r *SubmissionRepository) Stats(ctx context.Context) (total, unread int, err error) {
	const query = `SELECT COUNT(*) AS total, COUNT(*) FILTER (WHERE NOT is_read) AS unread FROM contact_submissions`
	var row struct {
		Total  int `db:"total"`
		Unread int `db:"unread"`
	}
	if err := r.db.GetContext(ctx, &row, query); err != nil {
		return 0, 0, fmt.Errorf("submission stats: %w", err)
	}
	return row.Total, row.Unread, nil
}
