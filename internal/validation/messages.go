package validation

import (
	"fmt"

	"github.com/finoteselam-court/court-portal-api/pkg/i18n"
)

// FieldViolation names the field and rule that failed.
type FieldViolation struct {
	Field string
	Rule  string
	Param string
}

// Error returns the English message.
func (v *FieldViolation) Error() string {
	return v.Message().EN
}

// Message renders the violation in both languages.
func (v *FieldViolation) Message() i18n.Text {
	label, ok := labels[v.Field]
	if !ok {
		label = i18n.T(v.Field, v.Field)
	}
	switch v.Rule {
	case "required", "required_with":
		return i18n.T(label.EN+" is required", label.AM+" ያስፈልጋል")
	case "email":
		return i18n.T("Invalid email", "ልክ ያልሆነ ኢሜይል")
	case "max":
		return i18n.T(
			fmt.Sprintf("%s must be at most %s characters", label.EN, v.Param),
			fmt.Sprintf("%s ከ%s ቁምፊዎች መብለጥ የለበትም", label.AM, v.Param),
		)
	case "min":
		return i18n.T(
			fmt.Sprintf("%s must be at least %s characters", label.EN, v.Param),
			fmt.Sprintf("%s ቢያንስ %s ቁምፊዎች መሆን አለበት", label.AM, v.Param),
		)
	case "eqfield":
		return i18n.T("Passwords do not match", "የይለፍ ቃሎቹ አይዛመዱም")
	}
	return i18n.T(label.EN+" is invalid", label.AM+" ልክ አይደለም")
}

var labels = map[string]i18n.Text{
	"name":                  i18n.T("Name", "ስም"),
	"email":                 i18n.T("Email", "ኢሜይል"),
	"phone":                 i18n.T("Phone", "ስልክ"),
	"subject":               i18n.T("Subject", "ርዕስ"),
	"message":               i18n.T("Message", "መልእክት"),
	"password":              i18n.T("Password", "የይለፍ ቃል"),
	"password_confirmation": i18n.T("Password confirmation", "የይለፍ ቃል ማረጋገጫ"),
	"token":                 i18n.T("Reset token", "የማስጀመሪያ ኮድ"),
	"title_en":              i18n.T("English title", "የእንግሊዝኛ ርዕስ"),
	"title_am":              i18n.T("Amharic title", "የአማርኛ ርዕስ"),
	"content_en":            i18n.T("English content", "የእንግሊዝኛ ይዘት"),
	"content_am":            i18n.T("Amharic content", "የአማርኛ ይዘት"),
}
