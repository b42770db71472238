package mailer

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// PasswordReset is the data for the bilingual reset mail.
type PasswordReset struct {
	To       string
	SiteName string
	Link     string
	Expires  time.Duration
}

// RenderPasswordReset renders the reset mail with both English and Amharic text.
func RenderPasswordReset(data PasswordReset) (Message, error) {
	var buf bytes.Buffer
	view := struct {
		PasswordReset
		Minutes int
	}{PasswordReset: data, Minutes: int(data.Expires.Minutes())}
	if err := templates.ExecuteTemplate(&buf, "password_reset.html", view); err != nil {
		return Message{}, fmt.Errorf("render password reset mail: %w", err)
	}
	return Message{
		To:      data.To,
		Subject: fmt.Sprintf("%s - Password reset / የይለፍ ቃል ዳግም ማስጀመሪያ", data.SiteName),
		HTML:    buf.String(),
	}, nil
}
