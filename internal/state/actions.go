package state

import (
	"github.com/sdrive-tools/sdrive/internal/catalog"
	"github.com/sdrive-tools/sdrive/internal/preview"
	"github.com/sdrive-tools/sdrive/internal/store"
)

// Action is the base interface for all state mutations.
type Action interface{}

// ===== NAVIGATION ACTIONS =====

type NavigateUpAction struct{}
type NavigateDownAction struct{}
type PageUpAction struct{}
type PageDownAction struct{}

// OpenSelectionAction opens the selected row: a folder card enters the
// folder, a file opens its preview.
type OpenSelectionAction struct{}

// BackAction is the one-level back navigation: from FolderContents or Search
// it returns to Folders, clearing both the term and the folder selection.
type BackAction struct{}

// ===== SEARCH ACTIONS =====

type SearchStartAction struct{}
type SearchCharAction struct {
	Char rune
}
type SearchBackspaceAction struct{}
type SearchStopAction struct{} // leave the input without touching the term

// ===== SORT ACTIONS =====

type SortCycleAction struct{}
type SetSortAction struct {
	Key catalog.SortKey
}

// ===== CATALOG / SERVER ACTIONS =====

type ReloadAction struct{}
type CatalogLoadedAction struct {
	Files []store.FileRecord
	Err   error
}
type RulesLoadedAction struct {
	Rules store.RuleSet
	Err   error
}
type StatsLoadedAction struct {
	Stats store.Stats
	Err   error
}
type HealthCheckedAction struct {
	Alive bool
}

// ===== UPLOAD ACTIONS =====

type UploadStartAction struct {
	Paths []string
}
type UploadProgressAction struct {
	SessionID string
	Percent   int
}
type UploadFinishedAction struct {
	SessionID string
	Success   bool
	Message   string
}

// ===== FILE OPERATION ACTIONS =====

type DeleteFinishedAction struct {
	Path    string
	Message string
	Err     error
}
type DownloadSelectionAction struct{}
type DownloadFolderAction struct{}
type TransferFinishedAction struct {
	Dest string
	Err  error
}

// ===== PREVIEW ACTIONS =====

type PreviewLoadedAction struct {
	Instruction preview.Instruction
}
type PreviewCloseAction struct{}
type PreviewScrollUpAction struct{}
type PreviewScrollDownAction struct{}

// ===== RULES ACTIONS =====

type RulesToggleAction struct{}
type RuleSavedAction struct {
	Rules store.RuleSet
	Err   error
}

// ===== PROMPT ACTIONS =====

type UploadPromptAction struct{}
type DeletePromptAction struct{}
type RulePromptAction struct{}
type PromptCharAction struct {
	Char rune
}
type PromptBackspaceAction struct{}
type PromptAcceptAction struct{}
type PromptCancelAction struct{}

// ===== APPLICATION ACTIONS =====

type ResizeAction struct {
	Width  int
	Height int
}
type QuitAction struct{}
