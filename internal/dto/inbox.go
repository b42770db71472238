package dto

import "github.com/finoteselam-court/court-portal-api/internal/models"

// InboxResponse lists contact submissions newest-first with the derived unread count.
type InboxResponse struct {
	Items       []models.Submission `json:"items"`
	UnreadCount int                 `json:"unread_count"`
}

// NewInbox builds the inbox payload from a freshly read list.
func NewInbox(items []models.Submission) InboxResponse {
	if items == nil {
		items = []models.Submission{}
	}
	return InboxResponse{Items: items, UnreadCount: models.UnreadCount(items)}
}

// SubmissionReceipt acknowledges a contact-form post without echoing stored data.
type SubmissionReceipt struct {
	Received bool `json:"received"`
}
