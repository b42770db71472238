package dto

import "github.com/finoteselam-court/court-portal-api/internal/models"

// AdminDashboardResponse captures the aggregated admin dashboard payload.
type AdminDashboardResponse struct {
	Announcements AnnouncementStats     `json:"announcements"`
	Messages      MessageStats          `json:"messages"`
	Recent        RecentActivitySection `json:"recent"`
}

// AnnouncementStats counts announcements by state.
type AnnouncementStats struct {
	Total     int `json:"total"`
	Published int `json:"published"`
	Drafts    int `json:"drafts"`
}

// MessageStats counts inbox messages.
type MessageStats struct {
	Total  int `json:"total"`
	Unread int `json:"unread"`
}

// RecentActivitySection lists the newest records of each kind.
type RecentActivitySection struct {
	Announcements []models.Announcement `json:"announcements"`
	Messages      []models.Submission   `json:"messages"`
}
