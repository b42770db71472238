package service

import "github.com/finoteselam-court/court-portal-api/pkg/i18n"

// User-facing notifications, carried in the response envelope's meta.notice.
var (
	NoticeMessageSent      = i18n.T("Message sent successfully!", "መልእክት በተሳካ ሁኔታ ተልኳል!")
	NoticeMessageFailed    = i18n.T("Failed to send message. Please try again.", "መልእክት መላክ አልተሳካም። እባክዎ እንደገና ይሞክሩ።")
	NoticeCreated          = i18n.T("Created successfully", "በተሳካ ሁኔታ ተፈጥሯል")
	NoticeUpdated          = i18n.T("Updated successfully", "በተሳካ ሁኔታ ተሻሽሏል")
	NoticeDeleted          = i18n.T("Deleted successfully", "በተሳካ ሁኔታ ተሰርዟል")
	NoticeUpdateFailed     = i18n.T("Failed to update", "ማሻሻል አልተሳካም")
	NoticeNotFound         = i18n.T("The item no longer exists. The list has been refreshed.", "ንጥሉ ከአሁን በኋላ የለም። ዝርዝሩ ታድሷል።")
	NoticeConfirmDelete    = i18n.T("Please confirm the deletion.", "እባክዎ መሰረዙን ያረጋግጡ።")
	NoticeNoChanges        = i18n.T("No changes to update", "የሚሻሻል ለውጥ የለም")
	NoticeProfileUpdated   = i18n.T("Profile updated successfully!", "መገለጫው በተሳካ ሁኔታ ተሻሽሏል!")
	NoticeResetSent        = i18n.T("Password reset instructions sent to your email", "የይለፍ ቃል ዳግም ማስጀመሪያ መመሪያ ወደ ኢሜይልዎ ተልኳል")
	NoticePasswordReset    = i18n.T("Password has been reset. Please sign in.", "የይለፍ ቃሉ ዳግም ተቀናብሯል። እባክዎ ይግቡ።")
	NoticeInvalidLogin     = i18n.T("Invalid credentials. Please try again.", "ልክ ያልሆነ መረጃ። እባክዎ እንደገና ይሞክሩ።")
	NoticeSignedIn         = i18n.T("Signed in successfully", "በተሳካ ሁኔታ ገብተዋል")
	NoticeSignedOut        = i18n.T("Signed out", "ወጥተዋል")
	NoticeSignInRequired   = i18n.T("Please sign in to continue.", "ለመቀጠል እባክዎ ይግቡ።")
	NoticeForbidden        = i18n.T("You do not have permission to do that.", "ይህን ለማድረግ ፈቃድ የለዎትም።")
	NoticeEmailTaken       = i18n.T("That email is already in use.", "ያ ኢሜይል አስቀድሞ ጥቅም ላይ ውሏል።")
	NoticeUnavailable      = i18n.T("The service is temporarily unavailable. Please try again.", "አገልግሎቱ ለጊዜው አይገኝም። እባክዎ እንደገና ይሞክሩ።")
	NoticeUnexpected       = i18n.T("Something went wrong. Please try again.", "ችግር ተፈጥሯል። እባክዎ እንደገና ይሞክሩ።")
	NoticeLanguageUpdated  = i18n.T("Language updated", "ቋንቋ ተቀይሯል")
	NoticeMarkedRead       = i18n.T("Marked as read", "እንደተነበበ ምልክት ተደርጓል")
	NoticeMarkedUnread     = i18n.T("Marked as unread", "እንዳልተነበበ ምልክት ተደርጓል")
	NoticeDraftDiscarded   = i18n.T("Draft discarded", "ረቂቁ ተሰርዟል")
	NoticeEditorNotDrafted = i18n.T("There is no draft in progress.", "በሂደት ላይ ያለ ረቂቅ የለም።")
)
