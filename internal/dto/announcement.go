package dto

import "github.com/finoteselam-court/court-portal-api/internal/models"

// AnnouncementMutationResult is returned after every announcement write. The
// list is re-read after the write, so it reflects the store, not the request.
type AnnouncementMutationResult struct {
	Saved         *models.Announcement  `json:"saved,omitempty"`
	Announcements []models.Announcement `json:"announcements"`
}

// PublicNewsResponse is the visitor-facing news list.
type PublicNewsResponse struct {
	Language string                      `json:"language"`
	Items    []models.PublicAnnouncement `json:"items"`
}
