package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/finoteselam-court/court-portal-api/pkg/errors"
)

func validContact() *ContactForm {
	return &ContactForm{
		Name:    "Abebe Kebede",
		Email:   "abebe@example.com",
		Subject: "Hearing date",
		Message: "When is my hearing?",
	}
}

func requireViolation(t *testing.T, err error, field, rule string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation.Code))
	appErr := appErrors.FromError(err)
	assert.Equal(t, field, appErr.Field)
	v, ok := Violation(err)
	require.True(t, ok)
	assert.Equal(t, rule, v.Rule)
}

func TestContactFormValid(t *testing.T) {
	form := &ContactForm{
		Name:    "  Abebe Kebede ",
		Email:   " abebe@example.com ",
		Phone:   "  ",
		Subject: " Hearing date",
		Message: "When is my hearing?  ",
	}
	require.NoError(t, Validate(form))
	assert.Equal(t, "Abebe Kebede", form.Name)
	assert.Equal(t, "abebe@example.com", form.Email)

	fields := form.Fields()
	assert.Nil(t, fields.Phone)
	assert.Equal(t, "When is my hearing?", fields.Message)
}

func TestContactFormPhoneKept(t *testing.T) {
	form := validContact()
	form.Phone = " +251 911 000000 "
	require.NoError(t, Validate(form))
	require.NotNil(t, form.Fields().Phone)
	assert.Equal(t, "+251 911 000000", *form.Fields().Phone)
}

func TestContactFormSingleViolations(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*ContactForm)
		field  string
		rule   string
	}{
		{"blank name", func(f *ContactForm) { f.Name = "   " }, "name", "required"},
		{"long name", func(f *ContactForm) { f.Name = strings.Repeat("a", 101) }, "name", "max"},
		{"bad email", func(f *ContactForm) { f.Email = "not-an-email" }, "email", "email"},
		{"blank subject", func(f *ContactForm) { f.Subject = "" }, "subject", "required"},
		{"long subject", func(f *ContactForm) { f.Subject = strings.Repeat("s", 201) }, "subject", "max"},
		{"blank message", func(f *ContactForm) { f.Message = "\n\t" }, "message", "required"},
		{"long message", func(f *ContactForm) { f.Message = strings.Repeat("m", 2001) }, "message", "max"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := validContact()
			tc.mutate(form)
			requireViolation(t, Validate(form), tc.field, tc.rule)
		})
	}
}

func TestContactFormCountsCharacters(t *testing.T) {
	form := validContact()
	form.Name = strings.Repeat("አ", 100)
	assert.NoError(t, Validate(form))
}

func TestContactFormFailsFastInDeclarationOrder(t *testing.T) {
	form := &ContactForm{Name: "", Email: "bad", Subject: "", Message: ""}
	requireViolation(t, Validate(form), "name", "required")
}

func TestViolationMessagesAreBilingual(t *testing.T) {
	form := validContact()
	form.Name = ""
	err := Validate(form)
	v, ok := Violation(err)
	require.True(t, ok)
	assert.Equal(t, "Name is required", v.Message().EN)
	assert.Equal(t, "ስም ያስፈልጋል", v.Message().AM)
	assert.Equal(t, "Name is required", appErrors.FromError(err).Message)
}

func TestCredentialUpdate(t *testing.T) {
	require.NoError(t, Validate(&CredentialUpdate{Email: "admin@court.example"}))
	require.NoError(t, Validate(&CredentialUpdate{Email: "admin@court.example", Password: "secret1", PasswordConfirmation: "secret1"}))

	requireViolation(t, Validate(&CredentialUpdate{Email: ""}), "email", "required")
	requireViolation(t, Validate(&CredentialUpdate{Email: "admin@court.example", Password: "abc"}), "password", "min")
	requireViolation(t, Validate(&CredentialUpdate{Email: "admin@court.example", Password: "secret1", PasswordConfirmation: "secret2"}), "password_confirmation", "eqfield")
}

func TestCredentialUpdateNeedsConfirmationWithPassword(t *testing.T) {
	err := Validate(&CredentialUpdate{Email: "admin@court.example", Password: "secret1"})
	requireViolation(t, err, "password_confirmation", "required_with")
	v, _ := Violation(err)
	assert.Equal(t, "Password confirmation is required", v.Message().EN)
	assert.Equal(t, "የይለፍ ቃል ማረጋገጫ ያስፈልጋል", v.Message().AM)

	requireViolation(t, Validate(&CredentialUpdate{Email: "admin@court.example", PasswordConfirmation: "secret1"}), "password_confirmation", "eqfield")
}

func TestSignInForm(t *testing.T) {
	require.NoError(t, Validate(&SignInForm{Email: "admin@court.example", Password: "secret1"}))
	requireViolation(t, Validate(&SignInForm{Email: "admin@court.example"}), "password", "required")
	requireViolation(t, Validate(&SignInForm{Email: "admin@court.example", Password: "abc"}), "password", "min")
}

func TestAnnouncementDraft(t *testing.T) {
	draft := &AnnouncementDraft{TitleEN: " Court closed ", TitleAM: "ፍርድ ቤቱ ዝግ ነው"}
	require.NoError(t, Validate(draft))
	assert.Equal(t, "Court closed", draft.TitleEN)

	requireViolation(t, Validate(&AnnouncementDraft{TitleEN: "Only English"}), "title_am", "required")
	requireViolation(t, Validate(&AnnouncementDraft{TitleEN: "a", TitleAM: "b", ContentEN: strings.Repeat("x", 20001)}), "content_en", "max")
}

func TestPasswordResetConfirm(t *testing.T) {
	require.NoError(t, Validate(&PasswordResetConfirm{Token: "t", Password: "secret1", PasswordConfirmation: "secret1"}))
	requireViolation(t, Validate(&PasswordResetConfirm{Password: "secret1", PasswordConfirmation: "secret1"}), "token", "required")
}

func TestValidateNilForm(t *testing.T) {
	var form *SignInForm
	assert.True(t, appErrors.HasCode(Validate(form), appErrors.ErrValidation.Code))
}
