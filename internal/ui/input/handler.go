// Package input converts tcell events to actions.
package input

import (
	"github.com/gdamore/tcell/v2"

	statepkg "github.com/sdrive-tools/sdrive/internal/state"
)

// InputHandler converts tcell events to actions, interpreting keys according
// to the current interaction mode.
type InputHandler struct {
	actionChan chan statepkg.Action
	state      *statepkg.AppState
}

// NewInputHandler creates an input handler.
func NewInputHandler(actionChan chan statepkg.Action) *InputHandler {
	return &InputHandler{actionChan: actionChan}
}

// SetState sets the state reference for mode checking.
func (ih *InputHandler) SetState(state *statepkg.AppState) {
	ih.state = state
}

// ProcessEvent converts a tcell event into an action. It returns false when
// the application should stop reading events.
func (ih *InputHandler) ProcessEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return ih.processKeyEvent(ev)
	case *tcell.EventResize:
		w, h := ev.Size()
		ih.actionChan <- statepkg.ResizeAction{Width: w, Height: h}
		return true
	default:
		return true
	}
}

func (ih *InputHandler) processKeyEvent(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyCtrlC {
		ih.actionChan <- statepkg.QuitAction{}
		return false
	}

	switch {
	case ih.state != nil && ih.state.Prompt != statepkg.PromptNone:
		ih.processPromptKey(ev)
	case ih.state != nil && ih.state.Preview != nil:
		ih.processPreviewKey(ev)
	case ih.state != nil && ih.state.SearchActive:
		ih.processSearchKey(ev)
	default:
		return ih.processNormalKey(ev)
	}
	return true
}

func (ih *InputHandler) processPromptKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		ih.actionChan <- statepkg.PromptCancelAction{}
	case tcell.KeyEnter:
		ih.actionChan <- statepkg.PromptAcceptAction{}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		ih.actionChan <- statepkg.PromptBackspaceAction{}
	case tcell.KeyRune:
		ih.actionChan <- statepkg.PromptCharAction{Char: ev.Rune()}
	}
}

func (ih *InputHandler) processPreviewKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		ih.actionChan <- statepkg.PreviewCloseAction{}
	case tcell.KeyUp:
		ih.actionChan <- statepkg.PreviewScrollUpAction{}
	case tcell.KeyDown:
		ih.actionChan <- statepkg.PreviewScrollDownAction{}
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			ih.actionChan <- statepkg.PreviewCloseAction{}
		case 'k':
			ih.actionChan <- statepkg.PreviewScrollUpAction{}
		case 'j':
			ih.actionChan <- statepkg.PreviewScrollDownAction{}
		}
	}
}

// processSearchKey keeps navigation available while typing: arrows move the
// selection through the live results, every rune refines the term.
func (ih *InputHandler) processSearchKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		ih.actionChan <- statepkg.BackAction{}
	case tcell.KeyEnter:
		ih.actionChan <- statepkg.OpenSelectionAction{}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		ih.actionChan <- statepkg.SearchBackspaceAction{}
	case tcell.KeyUp:
		ih.actionChan <- statepkg.NavigateUpAction{}
	case tcell.KeyDown:
		ih.actionChan <- statepkg.NavigateDownAction{}
	case tcell.KeyRune:
		ih.actionChan <- statepkg.SearchCharAction{Char: ev.Rune()}
	}
}

func (ih *InputHandler) processNormalKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape:
		ih.actionChan <- statepkg.BackAction{}
	case tcell.KeyEnter:
		ih.actionChan <- statepkg.OpenSelectionAction{}
	case tcell.KeyUp:
		ih.actionChan <- statepkg.NavigateUpAction{}
	case tcell.KeyDown:
		ih.actionChan <- statepkg.NavigateDownAction{}
	case tcell.KeyPgUp:
		ih.actionChan <- statepkg.PageUpAction{}
	case tcell.KeyPgDn:
		ih.actionChan <- statepkg.PageDownAction{}
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			ih.actionChan <- statepkg.QuitAction{}
			return false
		case '/':
			ih.actionChan <- statepkg.SearchStartAction{}
		case 'j':
			ih.actionChan <- statepkg.NavigateDownAction{}
		case 'k':
			ih.actionChan <- statepkg.NavigateUpAction{}
		case 's':
			ih.actionChan <- statepkg.SortCycleAction{}
		case 'u':
			ih.actionChan <- statepkg.UploadPromptAction{}
		case 'd':
			ih.actionChan <- statepkg.DownloadSelectionAction{}
		case 'D':
			ih.actionChan <- statepkg.DeletePromptAction{}
		case 'A':
			ih.actionChan <- statepkg.DownloadFolderAction{}
		case 'r':
			ih.actionChan <- statepkg.ReloadAction{}
		case 'R':
			ih.actionChan <- statepkg.RulesToggleAction{}
		case 'e':
			if ih.state != nil && ih.state.RulesVisible {
				ih.actionChan <- statepkg.RulePromptAction{}
			}
		}
	}
	return true
}
