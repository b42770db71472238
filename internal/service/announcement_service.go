package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/finoteselam-court/court-portal-api/internal/dto"
	"github.com/finoteselam-court/court-portal-api/internal/models"
	"github.com/finoteselam-court/court-portal-api/internal/repository"
	"github.com/finoteselam-court/court-portal-api/internal/validation"
	appErrors "github.com/finoteselam-court/court-portal-api/pkg/errors"
	"github.com/finoteselam-court/court-portal-api/pkg/i18n"
)

// Save modes used in metrics and the editor.
const (
	ModeCreate = "create"
	ModeUpdate = "update"
	ModeDelete = "delete"
)

type announcementStore interface {
	InsertAnnouncement(ctx context.Context, fields models.AnnouncementFields) (string, error)
	UpdateAnnouncement(ctx context.Context, id string, fields models.AnnouncementFields) error
	DeleteAnnouncement(ctx context.Context, id string) error
	ListAnnouncements(ctx context.Context, filter models.AnnouncementFilter) ([]models.Announcement, error)
	GetAnnouncement(ctx context.Context, id string) (*models.Announcement, error)
}

// AnnouncementService manages the announcement lifecycle. It holds no state
// between calls: every mutation is followed by a fresh read of the list.
type AnnouncementService struct {
	store   announcementStore
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
}

// NewAnnouncementService constructs the service.
func NewAnnouncementService(store announcementStore, metrics *MetricsService, logger *zap.Logger) *AnnouncementService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnnouncementService{
		store:   store,
		metrics: metrics,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// List returns every announcement, drafts included, newest-created first.
func (s *AnnouncementService) List(ctx context.Context) ([]models.Announcement, error) {
	items, err := s.store.ListAnnouncements(ctx, models.AnnouncementFilter{})
	if err != nil {
		return nil, appErrors.Store(err, "failed to list announcements")
	}
	return items, nil
}

// ListPublished returns published announcements rendered for r, newest-published first.
func (s *AnnouncementService) ListPublished(ctx context.Context, r *i18n.Resolver) ([]models.PublicAnnouncement, error) {
	items, err := s.store.ListAnnouncements(ctx, models.AnnouncementFilter{PublishedOnly: true})
	if err != nil {
		return nil, appErrors.Store(err, "failed to list announcements")
	}
	views := make([]models.PublicAnnouncement, 0, len(items))
	for _, item := range items {
		if !item.IsPublished {
			continue
		}
		views = append(views, item.Localize(r))
	}
	return views, nil
}

// Get returns one announcement.
func (s *AnnouncementService) Get(ctx context.Context, id string) (*models.Announcement, error) {
	item, err := s.store.GetAnnouncement(ctx, id)
	if err != nil {
		return nil, s.translate(err, "failed to load announcement")
	}
	return item, nil
}

// Create stores a new announcement and returns it with the refreshed list.
func (s *AnnouncementService) Create(ctx context.Context, draft *validation.AnnouncementDraft) (*dto.AnnouncementMutationResult, error) {
	if err := validation.Validate(draft); err != nil {
		return nil, err
	}
	id, err := s.store.InsertAnnouncement(ctx, s.fields(draft))
	s.metrics.RecordAnnouncementSave(ModeCreate, err)
	if err != nil {
		return nil, appErrors.Store(err, "failed to create announcement")
	}
	return s.refresh(ctx, id)
}

// Update overwrites an announcement and returns it with the refreshed list.
// published_at is recomputed from the draft, never carried over. A missing
// row returns the re-read list with the NOT_FOUND error.
func (s *AnnouncementService) Update(ctx context.Context, id string, draft *validation.AnnouncementDraft) (*dto.AnnouncementMutationResult, error) {
	if err := validation.Validate(draft); err != nil {
		return nil, err
	}
	err := s.store.UpdateAnnouncement(ctx, id, s.fields(draft))
	s.metrics.RecordAnnouncementSave(ModeUpdate, err)
	if err != nil {
		if repository.IsNotFound(err) {
			return s.reconcile(ctx, id, err)
		}
		return nil, appErrors.Store(err, "failed to update announcement")
	}
	return s.refresh(ctx, id)
}

// Delete removes an announcement once confirmed. When the row is already
// gone the list is still re-read and returned with the NOT_FOUND error.
func (s *AnnouncementService) Delete(ctx context.Context, id string, confirmed bool) (*dto.AnnouncementMutationResult, error) {
	if !confirmed {
		return nil, appErrors.Clone(appErrors.ErrConfirmationRequired, "deletion must be confirmed")
	}
	err := s.store.DeleteAnnouncement(ctx, id)
	s.metrics.RecordAnnouncementSave(ModeDelete, err)
	if err != nil {
		if !repository.IsNotFound(err) {
			return nil, appErrors.Store(err, "failed to delete announcement")
		}
		return s.reconcile(ctx, id, err)
	}
	return s.refresh(ctx, "")
}

// reconcile re-reads the list after a write hit a missing row so the caller
// sees what the store actually holds.
func (s *AnnouncementService) reconcile(ctx context.Context, id string, err error) (*dto.AnnouncementMutationResult, error) {
	notFound := s.translate(err, "announcement not found")
	items, listErr := s.store.ListAnnouncements(ctx, models.AnnouncementFilter{})
	if listErr != nil {
		s.logger.Warn("reconcile after missing announcement failed", zap.String("id", id), zap.Error(listErr))
		return nil, notFound
	}
	return &dto.AnnouncementMutationResult{Announcements: items}, notFound
}

// fields maps a validated draft to store columns, stamping published_at now
// for published drafts and clearing it otherwise.
func (s *AnnouncementService) fields(draft *validation.AnnouncementDraft) models.AnnouncementFields {
	fields := models.AnnouncementFields{
		TitleEN:     draft.TitleEN,
		TitleAM:     draft.TitleAM,
		ContentEN:   draft.ContentEN,
		ContentAM:   draft.ContentAM,
		IsPublished: draft.IsPublished,
	}
	if draft.IsPublished {
		now := s.now()
		fields.PublishedAt = &now
	}
	return fields
}

// refresh re-reads the admin list after a successful write. A failed re-read
// still returns a non-nil result since the write itself was committed.
func (s *AnnouncementService) refresh(ctx context.Context, savedID string) (*dto.AnnouncementMutationResult, error) {
	items, err := s.store.ListAnnouncements(ctx, models.AnnouncementFilter{})
	if err != nil {
		s.logger.Warn("announcement list reload failed", zap.Error(err))
		return &dto.AnnouncementMutationResult{}, appErrors.Store(err, "saved, but the list could not be reloaded")
	}
	result := &dto.AnnouncementMutationResult{Announcements: items}
	for i := range items {
		if items[i].ID == savedID {
			saved := items[i]
			result.Saved = &saved
			break
		}
	}
	return result, nil
}

func (s *AnnouncementService) translate(err error, message string) error {
	if repository.IsNotFound(err) {
		return appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
	}
	return appErrors.Store(err, message)
}
