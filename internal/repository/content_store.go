package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/finoteselam-court/court-portal-api/internal/models"
)

// ErrNotFound is wrapped by every store operation that targets a missing row.
var ErrNotFound = sql.ErrNoRows

// IsNotFound reports whether err means the targeted row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// checkID rejects ids that cannot name a row. Record ids are UUIDs, so a
// malformed id is reported as missing before it reaches the database.
func checkID(op, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%s %q: %w", op, id, ErrNotFound)
	}
	return nil
}

// ContentStore is the single gateway the site uses for announcements and
// contact submissions. Every write is durable when it returns and every list
// re-reads the database.
type ContentStore struct {
	announcements *AnnouncementRepository
	submissions   *SubmissionRepository
}

// NewContentStore composes the store from its repositories.
func NewContentStore(announcements *AnnouncementRepository, submissions *SubmissionRepository) *ContentStore {
	return &ContentStore{announcements: announcements, submissions: submissions}
}

// InsertAnnouncement stores a new announcement.
func (s *ContentStore) InsertAnnouncement(ctx context.Context, fields models.AnnouncementFields) (string, error) {
	return s.announcements.Insert(ctx, fields)
}

// UpdateAnnouncement overwrites an announcement's editable fields.
func (s *ContentStore) UpdateAnnouncement(ctx context.Context, id string, fields models.AnnouncementFields) error {
	if err := checkID("update announcement", id); err != nil {
		return err
	}
	return s.announcements.Update(ctx, id, fields)
}

// DeleteAnnouncement removes an announcement.
func (s *ContentStore) DeleteAnnouncement(ctx context.Context, id string) error {
	if err := checkID("delete announcement", id); err != nil {
		return err
	}
	return s.announcements.Delete(ctx, id)
}

// ListAnnouncements lists announcements matching filter.
func (s *ContentStore) ListAnnouncements(ctx context.Context, filter models.AnnouncementFilter) ([]models.Announcement, error) {
	return s.announcements.List(ctx, filter)
}

// GetAnnouncement reads one announcement.
func (s *ContentStore) GetAnnouncement(ctx context.Context, id string) (*models.Announcement, error) {
	if err := checkID("get announcement", id); err != nil {
		return nil, err
	}
	return s.announcements.GetByID(ctx, id)
}

// InsertSubmission stores a visitor message.
func (s *ContentStore) InsertSubmission(ctx context.Context, fields models.SubmissionFields) (string, error) {
	return s.submissions.Insert(ctx, fields)
}

// ToggleSubmissionRead sets the read flag to newValue.
func (s *ContentStore) ToggleSubmissionRead(ctx context.Context, id string, newValue bool) error {
	if err := checkID("set submission read", id); err != nil {
		return err
	}
	return s.submissions.SetRead(ctx, id, newValue)
}

// CompareAndSetSubmissionRead sets the read flag only if it still equals expected.
func (s *ContentStore) CompareAndSetSubmissionRead(ctx context.Context, id string, expected, value bool) (bool, error) {
	if err := checkID("compare and set submission read", id); err != nil {
		return false, err
	}
	return s.submissions.CompareAndSetRead(ctx, id, expected, value)
}

// ListSubmissions lists all submissions newest-first.
func (s *ContentStore) ListSubmissions(ctx context.Context) ([]models.Submission, error) {
	return s.submissions.List(ctx)
}

// GetSubmission reads one submission.
func (s *ContentStore) GetSubmission(ctx context.Context, id string) (*models.Submission, error) {
	if err := checkID("get submission", id); err != nil {
		return nil, err
	}
	return s.submissions.GetByID(ctx, id)
}
