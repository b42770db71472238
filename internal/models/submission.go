package models

import "time"

// Submission is a contact-form message from a site visitor.
type Submission struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Subject   string    `db:"subject" json:"subject"`
	Message   string    `db:"message" json:"message"`
	IsRead    bool      `db:"is_read" json:"is_read"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// SubmissionFields are the visitor-supplied columns.
type SubmissionFields struct {
	Name    string
	Email   string
	Phone   *string
	Subject string
	Message string
}

// UnreadCount counts submissions not yet marked read.
func UnreadCount(items []Submission) int {
	count := 0
	for _, item := range items {
		if !item.IsRead {
			count++
		}
	}
	return count
}
