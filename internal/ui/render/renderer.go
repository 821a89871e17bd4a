// Package render draws the derived render model onto a tcell screen.
package render

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/sdrive-tools/sdrive/internal/preview"
	statepkg "github.com/sdrive-tools/sdrive/internal/state"
	"github.com/sdrive-tools/sdrive/internal/textutil"
)

// Renderer handles all UI rendering. It consumes the render model derived by
// the state package and never reaches into the catalog itself.
type Renderer struct {
	screen tcell.Screen
	theme  ColorTheme
}

// NewRenderer creates a renderer.
func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{
		screen: screen,
		theme:  GetColorTheme(),
	}
}

// Render draws the entire UI based on state.
func (r *Renderer) Render(state *statepkg.AppState) {
	r.screen.Clear()
	w, h := r.screen.Size()

	model := statepkg.DeriveDisplay(state)

	r.drawHeader(state, model, w)
	r.drawSearchBar(state, w)

	switch {
	case state.Preview != nil:
		r.drawPreview(state, w, h)
	case state.RulesVisible:
		r.drawRules(state, w, h)
	default:
		r.drawRows(state, model, w, h)
	}

	r.drawPromptOrStatus(state, w, h)
	r.screen.Show()
}

func (r *Renderer) drawHeader(state *statepkg.AppState, model statepkg.RenderModel, w int) {
	style := tcell.StyleDefault.Background(r.theme.HeaderBg).Foreground(r.theme.HeaderFg)

	x := r.drawText(0, 0, w, "sdrive", style.Bold(true))
	x = r.drawText(x, 0, w-x, " › ", style)
	title := model.Title
	if state.Preview != nil {
		title = model.Title + " › " + state.Preview.Title
	}
	x = r.drawText(x, 0, w-x, textutil.SanitizeTerminalText(title), style.Bold(true))

	sortLabel := " sort: " + string(state.SortKey)
	if avail := w - x - textutil.DisplayWidth(sortLabel); avail > 0 {
		r.drawText(w-textutil.DisplayWidth(sortLabel), 0, w, sortLabel, style)
	}
}

func (r *Renderer) drawSearchBar(state *statepkg.AppState, w int) {
	style := tcell.StyleDefault
	label := "search: " + state.SearchTerm
	if state.SearchActive {
		label += "▌"
	} else if state.SearchTerm == "" {
		label = "press / to search"
		style = style.Foreground(r.theme.NoticeFg)
	}
	r.drawText(0, 1, w, textutil.SanitizeTerminalText(label), style)
}

func (r *Renderer) drawRows(state *statepkg.AppState, model statepkg.RenderModel, w, h int) {
	top := 2
	bottom := h - 2
	if bottom <= top {
		return
	}

	y := top
	for i := state.ScrollOffset; i < model.RowCount() && y < bottom; i++ {
		row, _ := model.RowAt(i)
		r.drawRow(row, i == state.SelectedIndex, i >= len(model.Rows), y, w)
		y++
	}

	if model.RowCount() == 0 {
		empty := "no files"
		if model.Mode == statepkg.ModeSearch {
			empty = "no matches"
		}
		r.drawText(2, top, w-2, empty, tcell.StyleDefault.Foreground(r.theme.NoticeFg))
	}
}

func (r *Renderer) drawRow(row statepkg.Row, selected, secondary bool, y, w int) {
	style := tcell.StyleDefault
	switch {
	case selected:
		style = style.Background(r.theme.SelectionBg).Foreground(r.theme.SelectionFg)
	case secondary:
		style = style.Foreground(r.theme.MatchFg)
	case row.Kind == statepkg.RowFolder:
		style = style.Foreground(r.theme.FolderFg)
	default:
		style = style.Foreground(r.theme.FileFg)
	}

	detail := ""
	switch row.Kind {
	case statepkg.RowFolder:
		marker := "▸ "
		if secondary {
			marker = "↪ "
		}
		detail = fmt.Sprintf("%s  %s  %s", formatCount(row.FileCount), formatSize(row.Size), formatActivity(row.Activity))
		r.drawAlignedRow(marker+row.Title, detail, selected, style, y, w)
	default:
		detail = fmt.Sprintf("%s  %s", formatSize(row.Size), formatActivity(row.Activity))
		r.drawAlignedRow("  "+row.Title, detail, selected, style, y, w)
	}
}

// drawAlignedRow puts the title left and the detail column right, truncating
// the title first when space runs out.
func (r *Renderer) drawAlignedRow(title, detail string, fill bool, style tcell.Style, y, w int) {
	title = textutil.SanitizeTerminalText(title)
	detailWidth := textutil.DisplayWidth(detail)
	titleSpace := w - detailWidth - 2
	if titleSpace < 4 {
		titleSpace = w
		detail = ""
	}

	if fill {
		for x := 0; x < w; x++ {
			r.screen.SetContent(x, y, ' ', nil, style)
		}
	}
	r.drawText(0, y, titleSpace, r.truncate(title, titleSpace), style)
	if detail != "" {
		r.drawText(w-detailWidth, y, detailWidth, detail, style)
	}
}

func (r *Renderer) drawPreview(state *statepkg.AppState, w, h int) {
	inst := state.Preview
	top := 2
	bottom := h - 2
	style := tcell.StyleDefault.Foreground(r.theme.PreviewFg)

	switch inst.Kind {
	case preview.KindError:
		r.drawText(2, top, w-2, inst.Err, tcell.StyleDefault.Foreground(r.theme.ErrorFg))
	case preview.KindImage, preview.KindPDF, preview.KindAudio, preview.KindVideo:
		label := fmt.Sprintf("[%s] %s", inst.Kind, inst.Title)
		r.drawText(2, top, w-2, label, style.Bold(true))
		r.drawText(2, top+1, w-2, "served from "+inst.ContentURL, style.Foreground(r.theme.NoticeFg))
	default:
		y := top
		for i := state.PreviewScroll; i < len(inst.Lines) && y < bottom; i++ {
			r.drawText(2, y, w-2, inst.Lines[i], style)
			y++
		}
		if inst.Truncated && y < bottom {
			r.drawText(2, y, w-2, "… (content truncated)", style.Foreground(r.theme.NoticeFg))
		}
	}
}

func (r *Renderer) drawRules(state *statepkg.AppState, w, h int) {
	style := tcell.StyleDefault
	r.drawText(2, 2, w-2, "Categorization rules (server-side)", style.Bold(true))

	y := 4
	if len(state.Rules) == 0 {
		r.drawText(2, y, w-2, "no rules defined", style.Foreground(r.theme.NoticeFg))
		return
	}
	for folder, exts := range state.Rules {
		if y >= h-2 {
			break
		}
		line := fmt.Sprintf("%s = %s", folder, strings.Join(exts, ", "))
		r.drawText(2, y, w-2, textutil.SanitizeTerminalText(line), style)
		y++
	}
}

func (r *Renderer) drawPromptOrStatus(state *statepkg.AppState, w, h int) {
	y := h - 1
	if y < 0 {
		return
	}

	if state.Prompt != statepkg.PromptNone {
		label := ""
		switch state.Prompt {
		case statepkg.PromptUpload:
			label = "upload (comma-separated paths): "
		case statepkg.PromptDelete:
			label = "delete " + state.PromptTarget + "? Enter to confirm, Esc to cancel"
		case statepkg.PromptRule:
			label = "rule (folder = ext1, ext2): "
		}
		r.drawText(0, y, w, label+state.PromptBuffer+"▌", tcell.StyleDefault.Bold(true))
		return
	}

	r.drawStatusLine(state, w, y)
}

func (r *Renderer) drawStatusLine(state *statepkg.AppState, w, y int) {
	style := tcell.StyleDefault.Background(r.theme.StatusBg).Foreground(r.theme.StatusFg)

	var parts []string
	switch {
	case !state.HealthKnown:
		parts = append(parts, "● …")
	case state.Healthy:
		parts = append(parts, "● online")
	default:
		parts = append(parts, "● offline")
	}

	if state.StatsKnown {
		parts = append(parts, formatUsage(state.Stats))
	}

	if state.Upload != nil {
		switch state.Upload.Outcome {
		case statepkg.UploadPending:
			parts = append(parts, fmt.Sprintf("uploading %d%%", state.Upload.Percent))
		case statepkg.UploadFailed:
			parts = append(parts, "upload failed")
		default:
			parts = append(parts, "upload done")
		}
	}

	if state.Notice != "" {
		parts = append(parts, textutil.SanitizeTerminalText(state.Notice))
	}

	line := strings.Join(parts, "  ·  ")
	r.drawText(0, y, w, r.truncate(line, w), style)

	// Health dot color overrides the first cell.
	dotStyle := style.Foreground(r.theme.UnhealthyFg)
	if state.Healthy && state.HealthKnown {
		dotStyle = style.Foreground(r.theme.HealthyFg)
	}
	if w > 0 {
		r.screen.SetContent(0, y, '●', nil, dotStyle)
	}
}

// drawText draws text at (x, y) within maxWidth columns and returns the next
// free column.
func (r *Renderer) drawText(x, y, maxWidth int, text string, style tcell.Style) int {
	if maxWidth <= 0 {
		return x
	}
	width := 0
	for _, ru := range text {
		rw := runewidth.RuneWidth(ru)
		if rw <= 0 {
			rw = 1
		}
		if width+rw > maxWidth {
			break
		}
		r.screen.SetContent(x+width, y, ru, nil, style)
		width += rw
	}
	return x + width
}

// truncate shortens text to width columns, ending in an ellipsis when
// anything was cut.
func (r *Renderer) truncate(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if textutil.DisplayWidth(text) <= width {
		return text
	}
	var b strings.Builder
	used := 0
	for _, ru := range text {
		rw := runewidth.RuneWidth(ru)
		if rw <= 0 {
			rw = 1
		}
		if used+rw > width-1 {
			break
		}
		b.WriteRune(ru)
		used += rw
	}
	b.WriteRune('…')
	return b.String()
}
