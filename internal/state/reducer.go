package state

import (
	"errors"
	"fmt"
	"unicode"

	"github.com/google/uuid"

	"github.com/sdrive-tools/sdrive/internal/catalog"
	"github.com/sdrive-tools/sdrive/internal/store"
)

// chromeLines is the vertical space the header, search bar and status line
// take away from the row viewport.
const chromeLines = 5

// Services are the side-effecting collaborators the reducer drives. Each call
// is fire-and-forget: it runs off the event loop and re-enters by dispatching
// a completion action. Injected so the reducer stays testable without a
// server.
type Services struct {
	LoadCatalog    func()
	LoadRules      func()
	LoadStats      func()
	Upload         func(sessionID string, paths []string)
	Delete         func(relpath string)
	Download       func(relpath string)
	DownloadFolder func(folder string)
	Preview        func(f store.FileRecord)
	SaveRule       func(folder string, extensions []string)
}

// StateReducer applies actions to the AppState.
type StateReducer struct {
	services Services
}

// NewStateReducer creates a reducer with the given collaborators.
func NewStateReducer(services Services) *StateReducer {
	return &StateReducer{services: services}
}

// Reduce applies one action. The returned bool reports whether a re-render
// is needed.
func (r *StateReducer) Reduce(s *AppState, action Action) (bool, error) {
	switch a := action.(type) {

	// ===== NAVIGATION =====

	case NavigateUpAction:
		r.moveSelection(s, -1)
	case NavigateDownAction:
		r.moveSelection(s, 1)
	case PageUpAction:
		r.moveSelection(s, -r.viewportRows(s))
	case PageDownAction:
		r.moveSelection(s, r.viewportRows(s))

	case OpenSelectionAction:
		return true, r.openSelection(s)

	case BackAction:
		r.back(s)

	// ===== SEARCH =====

	case SearchStartAction:
		s.SearchActive = true
	case SearchStopAction:
		s.SearchActive = false
	case SearchCharAction:
		if unicode.IsPrint(a.Char) {
			s.SearchTerm += string(a.Char)
			r.resetSelection(s)
		}
	case SearchBackspaceAction:
		if s.SearchTerm != "" {
			runes := []rune(s.SearchTerm)
			s.SearchTerm = string(runes[:len(runes)-1])
			r.resetSelection(s)
		}

	// ===== SORT =====

	case SortCycleAction:
		s.SortKey = s.SortKey.Next()
		r.resetSelection(s)
	case SetSortAction:
		if a.Key.Valid() {
			s.SortKey = a.Key
			r.resetSelection(s)
		}

	// ===== CATALOG / SERVER =====

	case ReloadAction:
		r.services.LoadCatalog()
		r.services.LoadRules()
		return false, nil

	case CatalogLoadedAction:
		r.catalogLoaded(s, a)

	case RulesLoadedAction:
		if a.Err == nil {
			s.Rules = a.Rules
		}

	case StatsLoadedAction:
		if a.Err == nil {
			s.Stats = a.Stats
			s.StatsKnown = true
		}

	case HealthCheckedAction:
		s.Healthy = a.Alive
		s.HealthKnown = true

	// ===== UPLOAD =====

	case UploadStartAction:
		r.startUpload(s, a.Paths)

	case UploadProgressAction:
		if s.Upload != nil && s.Upload.ID == a.SessionID && a.Percent > s.Upload.Percent {
			s.Upload.Percent = a.Percent
		}

	case UploadFinishedAction:
		r.uploadFinished(s, a)

	// ===== FILE OPERATIONS =====

	case DeleteFinishedAction:
		r.deleteFinished(s, a)

	case DownloadSelectionAction:
		if row, ok := r.selectedRow(s); ok && row.Kind == RowFile {
			s.Notice = "downloading " + row.Title
			r.services.Download(row.Path)
		}

	case DownloadFolderAction:
		if folder := r.targetFolder(s); folder != "" {
			s.Notice = "archiving " + folder
			r.services.DownloadFolder(folder)
		}

	case TransferFinishedAction:
		if a.Err != nil {
			s.Notice = "transfer failed: " + a.Err.Error()
		} else {
			s.Notice = "saved " + a.Dest
		}

	// ===== PREVIEW =====

	case PreviewLoadedAction:
		inst := a.Instruction
		s.Preview = &inst
		s.PreviewScroll = 0

	case PreviewCloseAction:
		s.Preview = nil
		s.PreviewScroll = 0

	case PreviewScrollUpAction:
		if s.PreviewScroll > 0 {
			s.PreviewScroll--
		}
	case PreviewScrollDownAction:
		if s.Preview != nil && s.PreviewScroll < len(s.Preview.Lines)-1 {
			s.PreviewScroll++
		}

	// ===== RULES =====

	case RulesToggleAction:
		s.RulesVisible = !s.RulesVisible

	case RuleSavedAction:
		if a.Err != nil {
			s.Notice = "rule save failed: " + serverMessage(a.Err, "rule save failed")
		} else {
			s.Rules = a.Rules
			s.Notice = "rule saved"
		}

	// ===== PROMPT =====

	case UploadPromptAction:
		s.Prompt = PromptUpload
		s.PromptBuffer = ""
	case DeletePromptAction:
		if row, ok := r.selectedRow(s); ok && row.Kind == RowFile {
			s.Prompt = PromptDelete
			s.PromptBuffer = ""
			s.PromptTarget = row.Path
		}
	case RulePromptAction:
		s.Prompt = PromptRule
		s.PromptBuffer = ""
	case PromptCharAction:
		if s.Prompt != PromptNone && unicode.IsPrint(a.Char) {
			s.PromptBuffer += string(a.Char)
		}
	case PromptBackspaceAction:
		if runes := []rune(s.PromptBuffer); len(runes) > 0 {
			s.PromptBuffer = string(runes[:len(runes)-1])
		}
	case PromptAcceptAction:
		r.acceptPrompt(s)
	case PromptCancelAction:
		r.clearPrompt(s)

	// ===== APPLICATION =====

	case ResizeAction:
		s.ScreenWidth = a.Width
		s.ScreenHeight = a.Height

	case QuitAction:
		return false, nil

	default:
		return false, fmt.Errorf("unhandled action %T", action)
	}

	return true, nil
}

func (r *StateReducer) viewportRows(s *AppState) int {
	rows := s.ScreenHeight - chromeLines
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (r *StateReducer) moveSelection(s *AppState, delta int) {
	count := DeriveDisplay(s).RowCount()
	if count == 0 {
		s.SelectedIndex = 0
		s.ScrollOffset = 0
		return
	}
	s.SelectedIndex += delta
	if s.SelectedIndex < 0 {
		s.SelectedIndex = 0
	}
	if s.SelectedIndex >= count {
		s.SelectedIndex = count - 1
	}
	r.ensureVisible(s)
}

func (r *StateReducer) ensureVisible(s *AppState) {
	viewport := r.viewportRows(s)
	if s.SelectedIndex < s.ScrollOffset {
		s.ScrollOffset = s.SelectedIndex
	}
	if s.SelectedIndex >= s.ScrollOffset+viewport {
		s.ScrollOffset = s.SelectedIndex - viewport + 1
	}
	if s.ScrollOffset < 0 {
		s.ScrollOffset = 0
	}
}

func (r *StateReducer) resetSelection(s *AppState) {
	s.SelectedIndex = 0
	s.ScrollOffset = 0
}

func (r *StateReducer) selectedRow(s *AppState) (Row, bool) {
	return DeriveDisplay(s).RowAt(s.SelectedIndex)
}

// targetFolder picks the folder an archive download applies to: the open
// folder, or the selected folder card.
func (r *StateReducer) targetFolder(s *AppState) string {
	if s.Mode() == ModeFolderContents {
		return s.SelectedFolder
	}
	if row, ok := r.selectedRow(s); ok && row.Kind == RowFolder {
		return row.Path
	}
	return ""
}

func (r *StateReducer) openSelection(s *AppState) error {
	row, ok := r.selectedRow(s)
	if !ok {
		return nil
	}

	if row.Kind == RowFolder {
		// Opening a matching folder during search clears the term.
		s.SelectedFolder = row.Path
		s.SearchTerm = ""
		s.SearchActive = false
		r.resetSelection(s)
		return nil
	}

	for _, f := range s.Files {
		if f.RelativePath == row.Path {
			r.services.Preview(f)
			return nil
		}
	}
	return fmt.Errorf("selected file %s no longer in catalog", row.Path)
}

// back clears both the search term and the folder selection; the one-level
// history always lands on Folders.
func (r *StateReducer) back(s *AppState) {
	s.SearchTerm = ""
	s.SearchActive = false
	s.SelectedFolder = ""
	r.resetSelection(s)
}

func (r *StateReducer) catalogLoaded(s *AppState, a CatalogLoadedAction) {
	// The reload an upload session triggered has completed; the session's
	// lifetime ends here whatever its outcome was.
	if s.Upload != nil && s.Upload.awaitingReload {
		s.Upload = nil
	}

	if a.Err != nil {
		s.LastError = a.Err
		s.Notice = "reload failed: " + a.Err.Error()
		return
	}

	s.LastError = nil
	s.Files = a.Files
	s.Aggregates = catalog.BuildAggregates(a.Files)

	if s.SelectedFolder != "" {
		if _, ok := s.Aggregates[s.SelectedFolder]; !ok {
			s.SelectedFolder = ""
		}
	}

	if count := DeriveDisplay(s).RowCount(); s.SelectedIndex >= count {
		if count == 0 {
			s.SelectedIndex = 0
		} else {
			s.SelectedIndex = count - 1
		}
	}
	r.ensureVisible(s)
}

func (r *StateReducer) startUpload(s *AppState, paths []string) {
	if len(paths) == 0 {
		return
	}
	s.Upload = &UploadSession{ID: uuid.NewString(), Outcome: UploadPending}
	s.Notice = ""
	r.services.Upload(s.Upload.ID, paths)
}

func (r *StateReducer) uploadFinished(s *AppState, a UploadFinishedAction) {
	if s.Upload == nil || s.Upload.ID != a.SessionID {
		return
	}

	s.Upload.Percent = 100
	if a.Success {
		s.Upload.Outcome = UploadSucceeded
		s.Notice = "upload complete"
	} else {
		s.Upload.Outcome = UploadFailed
		message := a.Message
		if message == "" {
			message = "upload failed"
		}
		s.Upload.Message = message
		s.Notice = message
	}

	// Exactly one reload per session, success or not. Stats only move when
	// the store accepted something.
	s.Upload.awaitingReload = true
	r.services.LoadCatalog()
	if a.Success {
		r.services.LoadStats()
	}
}

func (r *StateReducer) deleteFinished(s *AppState, a DeleteFinishedAction) {
	if a.Err != nil {
		s.Notice = serverMessage(a.Err, "delete failed")
	} else {
		s.Notice = "deleted " + a.Path
		r.services.LoadStats()
	}
	if s.Preview != nil && s.Preview.Path == a.Path {
		s.Preview = nil
	}
	r.services.LoadCatalog()
}

func (r *StateReducer) acceptPrompt(s *AppState) {
	kind, buffer, target := s.Prompt, s.PromptBuffer, s.PromptTarget
	r.clearPrompt(s)

	switch kind {
	case PromptUpload:
		r.startUpload(s, parseUploadPaths(buffer))
	case PromptDelete:
		if target != "" {
			r.services.Delete(target)
		}
	case PromptRule:
		folder, exts, err := parseRulePrompt(buffer)
		if err != nil {
			s.Notice = err.Error()
			return
		}
		r.services.SaveRule(folder, exts)
	}
}

func (r *StateReducer) clearPrompt(s *AppState) {
	s.Prompt = PromptNone
	s.PromptBuffer = ""
	s.PromptTarget = ""
}

// serverMessage surfaces a server-reported message verbatim when present,
// falling back to a generic one.
func serverMessage(err error, fallback string) string {
	var serr *store.ServerError
	if errors.As(err, &serr) && serr.Message != "" {
		return serr.Message
	}
	if err != nil {
		return fallback + ": " + err.Error()
	}
	return fallback
}
