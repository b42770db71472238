package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/finoteselam-court/court-portal-api/internal/dto"
	"github.com/finoteselam-court/court-portal-api/internal/models"
	appErrors "github.com/finoteselam-court/court-portal-api/pkg/errors"
)

const defaultRecentLimit = 5

type announcementStatsReader interface {
	Stats(ctx context.Context) (total, published int, err error)
	ListRecent(ctx context.Context, limit int) ([]models.Announcement, error)
}

type submissionStatsReader interface {
	Stats(ctx context.Context) (total, unread int, err error)
	ListRecent(ctx context.Context, limit int) ([]models.Submission, error)
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Announcements announcementStatsReader
	Submissions   submissionStatsReader
	Logger        *zap.Logger
	RecentLimit   int
}

// DashboardService composes the admin overview.
type DashboardService struct {
	announcements announcementStatsReader
	submissions   submissionStatsReader
	logger        *zap.Logger
	recentLimit   int
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	limit := params.RecentLimit
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	return &DashboardService{
		announcements: params.Announcements,
		submissions:   params.Submissions,
		logger:        logger,
		recentLimit:   limit,
	}
}

// Admin returns counts and the newest announcements and messages.
func (s *DashboardService) Admin(ctx context.Context) (*dto.AdminDashboardResponse, error) {
	total, published, err := s.announcements.Stats(ctx)
	if err != nil {
		return nil, s.fail("announcement stats", err)
	}
	messages, unread, err := s.submissions.Stats(ctx)
	if err != nil {
		return nil, s.fail("message stats", err)
	}
	recentAnnouncements, err := s.announcements.ListRecent(ctx, s.recentLimit)
	if err != nil {
		return nil, s.fail("recent announcements", err)
	}
	recentMessages, err := s.submissions.ListRecent(ctx, s.recentLimit)
	if err != nil {
		return nil, s.fail("recent messages", err)
	}

	return &dto.AdminDashboardResponse{
		Announcements: dto.AnnouncementStats{Total: total, Published: published, Drafts: total - published},
		Messages:      dto.MessageStats{Total: messages, Unread: unread},
		Recent: dto.RecentActivitySection{
			Announcements: recentAnnouncements,
			Messages:      recentMessages,
		},
	}, nil
}

func (s *DashboardService) fail(what string, err error) error {
	s.logger.Error("dashboard query failed", zap.String("query", what), zap.Error(err))
	return appErrors.Store(err, "failed to load dashboard")
}
