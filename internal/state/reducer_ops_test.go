package state

import (
	"errors"
	"testing"

	"github.com/sdrive-tools/sdrive/internal/preview"
	"github.com/sdrive-tools/sdrive/internal/store"
)

// ===== DELETE =====

func TestDeleteFinishedSuccess(t *testing.T) {
	fake := &fakeServices{}
	r := NewStateReducer(fake.services())
	s := newTestState(testCatalog())

	reduce(t, r, s, DeleteFinishedAction{Path: "Docs/a.txt"})

	if fake.catalogLoads != 1 {
		t.Errorf("Delete should reload the catalog, got %d", fake.catalogLoads)
	}
	if fake.statLoads != 1 {
		t.Errorf("Successful delete should refresh stats, got %d", fake.statLoads)
	}
	if s.Notice != "deleted Docs/a.txt" {
		t.Errorf("Notice should name the file, got %q", s.Notice)
	}
}

func TestDeleteFinishedFailureSurfacesServerMessage(t *testing.T) {
	fake := &fakeServices{}
	r := NewStateReducer(fake.services())
	s := newTestState(testCatalog())

	err := &store.ServerError{StatusCode: 423, Message: "file is locked"}
	reduce(t, r, s, DeleteFinishedAction{Path: "Docs/a.txt", Err: err})

	if s.Notice != "file is locked" {
		t.Errorf("Server message should surface verbatim, got %q", s.Notice)
	}
	if fake.statLoads != 0 {
		t.Errorf("Failed delete must not refresh stats, got %d", fake.statLoads)
	}
	if fake.catalogLoads != 1 {
		t.Errorf("Catalog still reloads to re-sync, got %d", fake.catalogLoads)
	}
}

func TestDeleteFinishedClosesMatchingPreview(t *testing.T) {
	fake := &fakeServices{}
	r := NewStateReducer(fake.services())
	s := newTestState(testCatalog())
	s.Preview = &preview.Instruction{Title: "a.txt", Path: "Docs/a.txt"}

	reduce(t, r, s, DeleteFinishedAction{Path: "Docs/a.txt"})

	if s.Preview != nil {
		t.Error("Preview of a deleted file should close")
	}
}

// ===== DOWNLOAD =====

func TestDownloadSelectionTargetsFile(t *testing.T) {
	fake := &fakeServices{}
	r := NewStateReducer(fake.services())
	s := newTestState(testCatalog())
	s.SelectedFolder = "Docs"

	reduce(t, r, s, DownloadSelectionAction{})

	if len(fake.downloads) != 1 || fake.downloads[0] != "Docs/a.txt" {
		t.Errorf("Download should target the selected file, got %v", fake.downloads)
	}
}

func TestDownloadSelectionIgnoresFolderCard(t *testing.T) {
	fake := &fakeServices{}
	r := NewStateReducer(fake.services())
	s := newTestState(testCatalog())

	reduce(t, r, s, DownloadSelectionAction{})

	if len(fake.downloads) != 0 {
		t.Errorf("A folder card is not a file download target, got %v", fake.downloads)
	}
}

func TestDownloadFolderFromGridAndContents(t *testing.T) {
	fake := &fakeServices{}
	r := NewStateReducer(fake.services())
	s := newTestState(testCatalog())

	// Folder grid: archive the selected card.
	reduce(t, r, s, DownloadFolderAction{})
	if len(fake.archives) != 1 || fake.archives[0] != "Docs" {
		t.Fatalf("Archive should target the selected card, got %v", fake.archives)
	}

	// Folder contents: archive the open folder.
	s.SelectedFolder = "Images"
	reduce(t, r, s, DownloadFolderAction{})
	if len(fake.archives) != 2 || fake.archives[1] != "Images" {
		t.Errorf("Archive should target the open folder, got %v", fake.archives)
	}
}

func TestTransferFinished(t *testing.T) {
	fake := &fakeServices{}
	r := NewStateReducer(fake.services())
	s := newTestState(testCatalog())

	reduce(t, r, s, TransferFinishedAction{Dest: "/home/x/Downloads/a.txt"})
	if s.Notice != "saved /home/x/Downloads/a.txt" {
		t.Errorf("Success notice should name the destination, got %q", s.Notice)
	}

	reduce(t, r, s, TransferFinishedAction{Err: errors.New("disk full")})
	if s.Notice != "transfer failed: disk full" {
		t.Errorf("Failure notice mismatch: %q", s.Notice)
	}
}

// ===== PREVIEW =====

func TestPreviewLoadedAndScroll(t *testing.T) {
	fake := &fakeServices{}
	r := NewStateReducer(fake.services())
	s := newTestState(testCatalog())

	inst := preview.Instruction{Title: "a.txt", Path: "Docs/a.txt", Lines: []string{"one", "two", "three"}}
	reduce(t, r, s, PreviewLoadedAction{Instruction: inst})

	if s.Preview == nil || s.PreviewScroll != 0 {
		t.Fatalf("Preview should open at the top, got %+v / %d", s.Preview, s.PreviewScroll)
	}

	reduce(t, r, s, PreviewScrollDownAction{})
	reduce(t, r, s, PreviewScrollDownAction{})
	reduce(t, r, s, PreviewScrollDownAction{})
	if s.PreviewScroll != 2 {
		t.Errorf("Scroll should clamp to the last line, got %d", s.PreviewScroll)
	}

	reduce(t, r, s, PreviewCloseAction{})
	if s.Preview != nil || s.PreviewScroll != 0 {
		t.Error("Close should drop the instruction and reset scroll")
	}
}

// ===== RULES =====

func TestRuleSaved(t *testing.T) {
	fake := &fakeServices{}
	r := NewStateReducer(fake.services())
	s := newTestState(testCatalog())

	rules := store.RuleSet{"Docs": {"pdf"}}
	reduce(t, r, s, RuleSavedAction{Rules: rules})

	if len(s.Rules["Docs"]) != 1 {
		t.Errorf("Saved rules should replace the mapping, got %v", s.Rules)
	}

	reduce(t, r, s, RuleSavedAction{Err: &store.ServerError{StatusCode: 400, Message: "bad extension"}})
	if s.Notice != "rule save failed: bad extension" {
		t.Errorf("Failure should surface the server message, got %q", s.Notice)
	}
	if len(s.Rules["Docs"]) != 1 {
		t.Error("A failed save must not clobber the rules")
	}
}

// ===== PROMPTS =====

func TestUploadPromptFlow(t *testing.T) {
	fake := &fakeServices{}
	r := NewStateReducer(fake.services())
	s := newTestState(testCatalog())

	reduce(t, r, s, UploadPromptAction{})
	for _, ch := range "/tmp/a.txt, /tmp/b.txt" {
		reduce(t, r, s, PromptCharAction{Char: ch})
	}
	reduce(t, r, s, PromptAcceptAction{})

	if s.Prompt != PromptNone {
		t.Error("Accept should close the prompt")
	}
	if len(fake.uploads) != 1 {
		t.Fatalf("Accept should start one upload session, got %v", fake.uploads)
	}
	if s.Upload == nil {
		t.Error("Session should exist after prompt accept")
	}
}

func TestDeletePromptRequiresConfirmation(t *testing.T) {
	fake := &fakeServices{}
	r := NewStateReducer(fake.services())
	s := newTestState(testCatalog())
	s.SelectedFolder = "Docs"

	reduce(t, r, s, DeletePromptAction{})
	if s.Prompt != PromptDelete || s.PromptTarget != "Docs/a.txt" {
		t.Fatalf("Prompt should hold the selected path, got %v / %q", s.Prompt, s.PromptTarget)
	}

	reduce(t, r, s, PromptCancelAction{})
	if len(fake.deletes) != 0 {
		t.Fatalf("Cancel must not delete, got %v", fake.deletes)
	}

	reduce(t, r, s, DeletePromptAction{})
	reduce(t, r, s, PromptAcceptAction{})
	if len(fake.deletes) != 1 || fake.deletes[0] != "Docs/a.txt" {
		t.Errorf("Confirm should delete the held path, got %v", fake.deletes)
	}
}

func TestDeletePromptIgnoresFolderCard(t *testing.T) {
	fake := &fakeServices{}
	r := NewStateReducer(fake.services())
	s := newTestState(testCatalog())

	reduce(t, r, s, DeletePromptAction{})

	if s.Prompt != PromptNone {
		t.Error("Folder cards are not deletable; prompt should not open")
	}
}

func TestRulePromptParsesAndSaves(t *testing.T) {
	fake := &fakeServices{}
	r := NewStateReducer(fake.services())
	s := newTestState(testCatalog())

	reduce(t, r, s, RulePromptAction{})
	for _, ch := range "Music = .MP3, flac" {
		reduce(t, r, s, PromptCharAction{Char: ch})
	}
	reduce(t, r, s, PromptAcceptAction{})

	if len(fake.savedRules) != 1 || fake.savedRules[0] != "Music" {
		t.Errorf("Accept should save the parsed rule, got %v", fake.savedRules)
	}
}

func TestRulePromptBadInputSurfacesError(t *testing.T) {
	fake := &fakeServices{}
	r := NewStateReducer(fake.services())
	s := newTestState(testCatalog())

	reduce(t, r, s, RulePromptAction{})
	for _, ch := range "no separator here" {
		reduce(t, r, s, PromptCharAction{Char: ch})
	}
	reduce(t, r, s, PromptAcceptAction{})

	if len(fake.savedRules) != 0 {
		t.Errorf("Malformed input must not save, got %v", fake.savedRules)
	}
	if s.Notice == "" {
		t.Error("Malformed input should surface feedback")
	}
}

func TestPromptBackspace(t *testing.T) {
	fake := &fakeServices{}
	r := NewStateReducer(fake.services())
	s := newTestState(testCatalog())

	reduce(t, r, s, UploadPromptAction{})
	reduce(t, r, s, PromptCharAction{Char: 'a'})
	reduce(t, r, s, PromptCharAction{Char: 'é'})
	reduce(t, r, s, PromptBackspaceAction{})

	if s.PromptBuffer != "a" {
		t.Errorf("Backspace should remove one rune, got %q", s.PromptBuffer)
	}
}
