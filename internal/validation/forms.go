package validation

import (
	"strings"

	"github.com/finoteselam-court/court-portal-api/internal/models"
)

// ContactForm is the public contact-form payload. Lengths count characters, not bytes.
type ContactForm struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email,max=255"`
	Phone   string `json:"phone"`
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"required,max=2000"`
}

// Normalize implements Form.
func (f *ContactForm) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Subject = strings.TrimSpace(f.Subject)
	f.Message = strings.TrimSpace(f.Message)
}

// Fields maps the form onto store columns. An empty phone is stored as NULL.
func (f ContactForm) Fields() models.SubmissionFields {
	fields := models.SubmissionFields{
		Name:    f.Name,
		Email:   f.Email,
		Subject: f.Subject,
		Message: f.Message,
	}
	if f.Phone != "" {
		phone := f.Phone
		fields.Phone = &phone
	}
	return fields
}

// CredentialUpdate changes the signed-in admin's email and, optionally, password.
type CredentialUpdate struct {
	Email                string `json:"email" validate:"required,email,max=255"`
	Password             string `json:"password" validate:"omitempty,min=6"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required_with=Password,eqfield=Password"`
}

// Normalize implements Form. Passwords are taken verbatim.
func (f *CredentialUpdate) Normalize() {
	f.Email = strings.TrimSpace(f.Email)
}

// AnnouncementDraft is the editable announcement content. Both titles are required.
type AnnouncementDraft struct {
	TitleEN     string `json:"title_en" validate:"required,max=300"`
	TitleAM     string `json:"title_am" validate:"required,max=300"`
	ContentEN   string `json:"content_en" validate:"max=20000"`
	ContentAM   string `json:"content_am" validate:"max=20000"`
	IsPublished bool   `json:"is_published"`
}

// Normalize implements Form.
func (f *AnnouncementDraft) Normalize() {
	f.TitleEN = strings.TrimSpace(f.TitleEN)
	f.TitleAM = strings.TrimSpace(f.TitleAM)
	f.ContentEN = strings.TrimSpace(f.ContentEN)
	f.ContentAM = strings.TrimSpace(f.ContentAM)
}

// DraftFrom pre-populates a draft from a stored announcement.
func DraftFrom(a models.Announcement) AnnouncementDraft {
	return AnnouncementDraft{
		TitleEN:     a.TitleEN,
		TitleAM:     a.TitleAM,
		ContentEN:   a.ContentEN,
		ContentAM:   a.ContentAM,
		IsPublished: a.IsPublished,
	}
}

// SignInForm holds admin credentials.
type SignInForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Normalize implements Form.
func (f *SignInForm) Normalize() {
	f.Email = strings.TrimSpace(f.Email)
}

// PasswordResetRequest starts the reset-link flow.
type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// Normalize implements Form.
func (f *PasswordResetRequest) Normalize() {
	f.Email = strings.TrimSpace(f.Email)
}

// PasswordResetConfirm completes the reset-link flow.
type PasswordResetConfirm struct {
	Token                string `json:"token" validate:"required"`
	Password             string `json:"password" validate:"required,min=6"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

// Normalize implements Form.
func (f *PasswordResetConfirm) Normalize() {
	f.Token = strings.TrimSpace(f.Token)
}
