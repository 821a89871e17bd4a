// Package state holds the catalog view-model: the application state, the
// actions that mutate it, and the derivation of the render model.
package state

import (
	"github.com/sdrive-tools/sdrive/internal/catalog"
	"github.com/sdrive-tools/sdrive/internal/preview"
	"github.com/sdrive-tools/sdrive/internal/store"
)

// ViewMode identifies which of the three views is active. The mode is derived
// from the search term and folder selection, never stored: a non-empty term
// always means Search, regardless of a previously selected folder.
type ViewMode int

const (
	ModeFolders ViewMode = iota
	ModeFolderContents
	ModeSearch
)

func (m ViewMode) String() string {
	switch m {
	case ModeFolderContents:
		return "folder"
	case ModeSearch:
		return "search"
	default:
		return "folders"
	}
}

// UploadOutcome is the lifecycle position of one upload session.
type UploadOutcome int

const (
	UploadPending UploadOutcome = iota
	UploadSucceeded
	UploadFailed
)

// UploadSession is the transient state of one upload call. It lives from
// submission until the catalog reload it triggers completes.
type UploadSession struct {
	ID             string
	Percent        int // monotonically non-decreasing
	Outcome        UploadOutcome
	Message        string
	awaitingReload bool
}

// PromptKind identifies what an open input prompt is collecting.
type PromptKind int

const (
	PromptNone PromptKind = iota
	PromptUpload
	PromptDelete
	PromptRule
)

// AppState is the whole client state. It is owned by the single event loop;
// async completions re-enter through dispatched actions.
type AppState struct {
	// Catalog. Files is only ever replaced wholesale; Aggregates are rebuilt
	// from scratch on each replacement.
	Files      []store.FileRecord
	Aggregates map[string]catalog.FolderAggregate
	Rules      store.RuleSet

	// View. SelectedFolder is remembered while a search term suppresses it;
	// clearing the term returns to the folder, backing out clears both.
	SelectedFolder string
	SearchTerm     string
	SearchActive   bool // search input focused
	SortKey        catalog.SortKey
	SelectedIndex  int
	ScrollOffset   int

	// Preview
	Preview       *preview.Instruction
	PreviewScroll int

	// Upload
	Upload *UploadSession

	// Server indicators
	Healthy     bool
	HealthKnown bool
	Stats       store.Stats
	StatsKnown  bool

	// Rules overlay
	RulesVisible bool

	// Prompt
	Prompt       PromptKind
	PromptBuffer string
	PromptTarget string // relative path pending deletion

	// Dimensions
	ScreenWidth  int
	ScreenHeight int

	// Status line
	Notice    string
	LastError error

	dispatch func(Action)
}

// Mode derives the active view. Search wins whenever the term is non-empty.
func (s *AppState) Mode() ViewMode {
	if s.SearchTerm != "" {
		return ModeSearch
	}
	if s.SelectedFolder != "" {
		return ModeFolderContents
	}
	return ModeFolders
}

// SetDispatch installs the callback async completions use to re-enter the
// event loop.
func (s *AppState) SetDispatch(fn func(Action)) {
	s.dispatch = fn
}

// Dispatch hands an action to the event loop. Safe to call from any
// goroutine once SetDispatch has run.
func (s *AppState) Dispatch(action Action) {
	if s.dispatch != nil {
		s.dispatch(action)
	}
}

// FolderFiles returns the records belonging to one folder, in catalog order.
func (s *AppState) FolderFiles(folder string) []store.FileRecord {
	var files []store.FileRecord
	for _, f := range s.Files {
		if f.Folder() == folder {
			files = append(files, f)
		}
	}
	return files
}
