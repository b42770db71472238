package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/finoteselam-court/court-portal-api/internal/dto"
	"github.com/finoteselam-court/court-portal-api/internal/models"
	"github.com/finoteselam-court/court-portal-api/internal/repository"
	"github.com/finoteselam-court/court-portal-api/internal/validation"
	appErrors "github.com/finoteselam-court/court-portal-api/pkg/errors"
	"github.com/finoteselam-court/court-portal-api/pkg/export"
	"github.com/finoteselam-court/court-portal-api/pkg/i18n"
)

// Export formats.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

// toggleAttempts bounds compare-and-set retries when admins race on one message.
const toggleAttempts = 3

type submissionStore interface {
	InsertSubmission(ctx context.Context, fields models.SubmissionFields) (string, error)
	ListSubmissions(ctx context.Context) ([]models.Submission, error)
	GetSubmission(ctx context.Context, id string) (*models.Submission, error)
	CompareAndSetSubmissionRead(ctx context.Context, id string, expected, value bool) (bool, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportFile is a rendered inbox export.
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

// SubmissionService handles contact-form intake and the admin inbox.
type SubmissionService struct {
	store   submissionStore
	csv     csvRenderer
	pdf     pdfRenderer
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
}

// NewSubmissionService constructs the service.
func NewSubmissionService(store submissionStore, csv csvRenderer, pdf pdfRenderer, metrics *MetricsService, logger *zap.Logger) *SubmissionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubmissionService{
		store:   store,
		csv:     csv,
		pdf:     pdf,
		metrics: metrics,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Submit validates and stores a visitor message exactly once, returning the
// confirmation in the resolver's language. Nothing is written when validation fails.
func (s *SubmissionService) Submit(ctx context.Context, form *validation.ContactForm, r *i18n.Resolver) (string, error) {
	if err := validation.Validate(form); err != nil {
		return "", err
	}
	_, err := s.store.InsertSubmission(ctx, form.Fields())
	s.metrics.RecordSubmission(err)
	if err != nil {
		s.logger.Error("contact submission not stored", zap.Error(err))
		return "", appErrors.Store(err, NoticeMessageFailed.Localize(r))
	}
	return NoticeMessageSent.Localize(r), nil
}

// List returns the inbox newest-first with its unread count.
func (s *SubmissionService) List(ctx context.Context) (*dto.InboxResponse, error) {
	items, err := s.store.ListSubmissions(ctx)
	if err != nil {
		return nil, appErrors.Store(err, "failed to list messages")
	}
	inbox := dto.NewInbox(items)
	return &inbox, nil
}

// ToggleRead inverts the stored read flag and returns the refreshed inbox.
// The flag is read from the store, never from the caller, and written with
// compare-and-set so two admins toggling at once cannot silently overwrite
// each other; a lost race re-reads and retries.
func (s *SubmissionService) ToggleRead(ctx context.Context, id string) (*dto.InboxResponse, bool, error) {
	var value bool
	swapped := false
	for attempt := 0; attempt < toggleAttempts && !swapped; attempt++ {
		current, err := s.store.GetSubmission(ctx, id)
		if err != nil {
			return s.toggleFailed(ctx, id, err, "failed to load message")
		}
		value = !current.IsRead
		swapped, err = s.store.CompareAndSetSubmissionRead(ctx, id, current.IsRead, value)
		if err != nil {
			return s.toggleFailed(ctx, id, err, "failed to update message")
		}
	}
	if !swapped {
		return nil, false, appErrors.Clone(appErrors.ErrConflict, "message was changed by someone else, please retry")
	}
	inbox, err := s.List(ctx)
	if err != nil {
		return nil, value, err
	}
	return inbox, value, nil
}

// toggleFailed reports a failed toggle. A missing message also returns the
// re-read inbox so the caller can drop it from view.
func (s *SubmissionService) toggleFailed(ctx context.Context, id string, err error, message string) (*dto.InboxResponse, bool, error) {
	translated := s.translate(err, message)
	if !repository.IsNotFound(err) {
		return nil, false, translated
	}
	inbox, listErr := s.List(ctx)
	if listErr != nil {
		s.logger.Warn("reconcile after missing message failed", zap.String("id", id), zap.Error(listErr))
		return nil, false, translated
	}
	return inbox, false, translated
}

// Export renders the inbox as CSV or PDF.
func (s *SubmissionService) Export(ctx context.Context, format string) (*ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatCSV
	}
	if format != FormatCSV && format != FormatPDF {
		return nil, appErrors.FieldError("format", "format must be csv or pdf", nil)
	}

	items, err := s.store.ListSubmissions(ctx)
	if err != nil {
		return nil, appErrors.Store(err, "failed to list messages")
	}
	dataset := inboxDataset(items)
	stamp := s.now().Format("20060102-150405")

	switch format {
	case FormatPDF:
		content, err := s.pdf.Render(dataset, "Contact Messages / የተላኩ መልእክቶች")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportFile{Filename: fmt.Sprintf("messages-%s.pdf", stamp), ContentType: "application/pdf", Content: content}, nil
	default:
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportFile{Filename: fmt.Sprintf("messages-%s.csv", stamp), ContentType: "text/csv; charset=utf-8", Content: content}, nil
	}
}

func inboxDataset(items []models.Submission) export.Dataset {
	headers := []string{"Received", "Name", "Email", "Phone", "Subject", "Message", "Read"}
	rows := make([]map[string]string, 0, len(items))
	for _, item := range items {
		phone := ""
		if item.Phone != nil {
			phone = *item.Phone
		}
		read := "no"
		if item.IsRead {
			read = "yes"
		}
		rows = append(rows, map[string]string{
			"Received": item.CreatedAt.UTC().Format("2006-01-02 15:04"),
			"Name":     item.Name,
			"Email":    item.Email,
			"Phone":    phone,
			"Subject":  item.Subject,
			"Message":  item.Message,
			"Read":     read,
		})
	}
	return export.Dataset{Headers: headers, Rows: rows, Widths: []float64{1.2, 1.3, 1.8, 1.1, 1.8, 4, 0.5}}
}

func (s *SubmissionService) translate(err error, message string) error {
	if repository.IsNotFound(err) {
		return appErrors.Clone(appErrors.ErrNotFound, "message not found")
	}
	return appErrors.Store(err, message)
}
