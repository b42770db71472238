package service

import (
	"context"
	"net/http"
	"sync"

	"github.com/finoteselam-court/court-portal-api/internal/dto"
	"github.com/finoteselam-court/court-portal-api/internal/models"
	"github.com/finoteselam-court/court-portal-api/internal/validation"
	appErrors "github.com/finoteselam-court/court-portal-api/pkg/errors"
)

// EditorState is the lifecycle position of an announcement editor.
type EditorState string

const (
	EditorIdle     EditorState = "idle"
	EditorDrafting EditorState = "drafting"
	EditorSaving   EditorState = "saving"
)

// EditorMode tells whether a draft creates or updates an announcement.
type EditorMode string

const (
	EditorModeCreate EditorMode = "create"
	EditorModeEdit   EditorMode = "edit"
)

// ErrEditorState is returned for an operation the editor's current state does not allow.
var ErrEditorState = appErrors.New("EDITOR_STATE", http.StatusConflict, "editor is not in a state that allows this action")

type announcementSaver interface {
	Create(ctx context.Context, draft *validation.AnnouncementDraft) (*dto.AnnouncementMutationResult, error)
	Update(ctx context.Context, id string, draft *validation.AnnouncementDraft) (*dto.AnnouncementMutationResult, error)
}

// EditorSnapshot is a copy of the editor's state safe to hand to callers.
type EditorSnapshot struct {
	State         EditorState                   `json:"state"`
	Mode          EditorMode                    `json:"mode,omitempty"`
	TargetID      string                        `json:"target_id,omitempty"`
	Draft         *validation.AnnouncementDraft `json:"draft,omitempty"`
	LastError     *appErrors.Error              `json:"last_error,omitempty"`
	Saved         *models.Announcement          `json:"saved,omitempty"`
	Announcements []models.Announcement         `json:"announcements,omitempty"`
}

// AnnouncementEditor holds one admin session's in-progress draft.
//
//	Idle -> Drafting -> Saving -> Idle (list refreshed)
//	                    Saving -> Drafting (draft kept, error recorded)
type AnnouncementEditor struct {
	mu     sync.Mutex
	saver  announcementSaver
	state  EditorState
	mode   EditorMode
	target string
	draft  *validation.AnnouncementDraft
	err    *appErrors.Error
	saved  *models.Announcement
	list   []models.Announcement
}

// NewAnnouncementEditor returns an idle editor.
func NewAnnouncementEditor(saver announcementSaver) *AnnouncementEditor {
	return &AnnouncementEditor{saver: saver, state: EditorIdle}
}

// Snapshot returns the current state.
func (e *AnnouncementEditor) Snapshot() EditorSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot()
}

// StartCreate opens an empty, unpublished draft.
func (e *AnnouncementEditor) StartCreate() (EditorSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == EditorSaving {
		return e.snapshot(), ErrEditorState
	}
	e.begin(EditorModeCreate, "", &validation.AnnouncementDraft{})
	return e.snapshot(), nil
}

// StartEdit opens a draft pre-populated from existing.
func (e *AnnouncementEditor) StartEdit(existing models.Announcement) (EditorSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == EditorSaving {
		return e.snapshot(), ErrEditorState
	}
	draft := validation.DraftFrom(existing)
	e.begin(EditorModeEdit, existing.ID, &draft)
	return e.snapshot(), nil
}

// SetDraft replaces the draft content while drafting.
func (e *AnnouncementEditor) SetDraft(draft validation.AnnouncementDraft) (EditorSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != EditorDrafting {
		return e.snapshot(), ErrEditorState
	}
	e.draft = &draft
	return e.snapshot(), nil
}

// Save persists the draft. On success the editor returns to Idle holding the
// refreshed list; on failure it keeps the draft and returns to Drafting.
func (e *AnnouncementEditor) Save(ctx context.Context) (EditorSnapshot, error) {
	e.mu.Lock()
	if e.state != EditorDrafting {
		defer e.mu.Unlock()
		return e.snapshot(), ErrEditorState
	}
	e.state = EditorSaving
	mode, target := e.mode, e.target
	draft := *e.draft
	e.mu.Unlock()

	var (
		result *dto.AnnouncementMutationResult
		err    error
	)
	if mode == EditorModeEdit {
		result, err = e.saver.Update(ctx, target, &draft)
	} else {
		result, err = e.saver.Create(ctx, &draft)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	// a non-nil result means the write was committed even if the reload failed
	if result != nil {
		e.state = EditorIdle
		e.mode, e.target, e.draft, e.err = "", "", nil, nil
		e.saved = result.Saved
		e.list = result.Announcements
		if err != nil {
			e.err = appErrors.FromError(err)
		}
		return e.snapshot(), err
	}
	e.state = EditorDrafting
	e.draft = &draft
	e.err = appErrors.FromError(err)
	return e.snapshot(), err
}

// Cancel discards any draft and returns to Idle.
func (e *AnnouncementEditor) Cancel() EditorSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != EditorSaving {
		e.state = EditorIdle
		e.mode, e.target, e.draft, e.err = "", "", nil, nil
	}
	return e.snapshot()
}

func (e *AnnouncementEditor) begin(mode EditorMode, target string, draft *validation.AnnouncementDraft) {
	e.state = EditorDrafting
	e.mode = mode
	e.target = target
	e.draft = draft
	e.err = nil
	e.saved = nil
	e.list = nil
}

func (e *AnnouncementEditor) snapshot() EditorSnapshot {
	snap := EditorSnapshot{
		State:         e.state,
		Mode:          e.mode,
		TargetID:      e.target,
		LastError:     e.err,
		Saved:         e.saved,
		Announcements: e.list,
	}
	if e.draft != nil {
		draft := *e.draft
		snap.Draft = &draft
	}
	return snap
}

// EditorRegistry keys announcement editors by admin session id.
type EditorRegistry struct {
	mu      sync.Mutex
	saver   announcementSaver
	editors map[string]*AnnouncementEditor
}

// NewEditorRegistry creates an empty registry.
func NewEditorRegistry(saver announcementSaver) *EditorRegistry {
	return &EditorRegistry{saver: saver, editors: make(map[string]*AnnouncementEditor)}
}

// Editor returns the session's editor, creating an idle one on first use.
func (r *EditorRegistry) Editor(sessionID string) *AnnouncementEditor {
	r.mu.Lock()
	defer r.mu.Unlock()
	editor, ok := r.editors[sessionID]
	if !ok {
		editor = NewAnnouncementEditor(r.saver)
		r.editors[sessionID] = editor
	}
	return editor
}

// Discard drops the editors of ended sessions.
func (r *EditorRegistry) Discard(sessionIDs ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range sessionIDs {
		delete(r.editors, id)
	}
}

// Len reports how many sessions hold an editor.
func (r *EditorRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.editors)
}
