package preview

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sdrive-tools/sdrive/internal/store"
	"github.com/sdrive-tools/sdrive/internal/textutil"
)

// MaxVisibleLines bounds the visible height of text previews; longer content
// scrolls internally.
const MaxVisibleLines = 500

// Instruction tells the renderer how to present one file. Exactly one of the
// payload fields is meaningful for a given Kind: ContentURL for media and pdf
// embeds, HTML+Lines for markdown, Lines for json/text, Err for failures.
type Instruction struct {
	Kind       Kind
	Title      string
	Path       string
	ContentURL string   // embed source for image/pdf/audio/video
	HTML       string   // sanitized markup (markdown only)
	Lines      []string // terminal-displayable text
	Truncated  bool
	Err        string
}

// FetchFunc fetches raw preview bytes for a relative path.
type FetchFunc func(ctx context.Context, relpath string) ([]byte, error)

// ContentURLFunc resolves a relative path to the store's content-view address.
type ContentURLFunc func(relpath string) string

// Dispatcher builds preview instructions. Collaborators are injected so the
// dispatcher stays independent of the HTTP client and the renderer.
type Dispatcher struct {
	fetch      FetchFunc
	contentURL ContentURLFunc
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(fetch FetchFunc, contentURL ContentURLFunc) *Dispatcher {
	return &Dispatcher{fetch: fetch, contentURL: contentURL}
}

// Preview resolves the instruction for one file. Media kinds resolve without
// a fetch; text-like kinds perform one fetch and degrade to an error
// instruction on failure. The surface is never left blank: every failure path
// yields feedback.
func (d *Dispatcher) Preview(ctx context.Context, f store.FileRecord) Instruction {
	kind := KindForName(f.Name)
	inst := Instruction{Kind: kind, Title: f.Name, Path: f.RelativePath}

	if !kind.NeedsFetch() {
		inst.ContentURL = d.contentURL(f.RelativePath)
		return inst
	}

	content, err := d.fetch(ctx, f.RelativePath)
	if err != nil {
		return failureInstruction(f, err)
	}

	switch kind {
	case KindMarkdown:
		formatMarkdown(content, &inst)
	case KindJSON:
		formatJSON(content, &inst)
	default:
		formatText(content, &inst)
	}
	return inst
}

// failureInstruction carries the response status for server refusals and the
// failure reason for transport errors.
func failureInstruction(f store.FileRecord, err error) Instruction {
	inst := Instruction{Kind: KindError, Title: f.Name, Path: f.RelativePath}
	var serr *store.ServerError
	if errors.As(err, &serr) {
		inst.Err = fmt.Sprintf("preview failed: status %d", serr.StatusCode)
		if serr.Message != "" {
			inst.Err += ": " + serr.Message
		}
	} else {
		inst.Err = "preview failed: " + err.Error()
	}
	return inst
}

// formatJSON attempts a strict re-indent with two spaces; unparsable content
// falls back to raw text rather than erroring.
func formatJSON(content []byte, inst *Instruction) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, content, "", "  "); err != nil {
		formatText(content, inst)
		return
	}
	inst.Lines, inst.Truncated = toDisplayLines(buf.String())
}

func formatText(content []byte, inst *Instruction) {
	inst.Lines, inst.Truncated = toDisplayLines(string(content))
}

func toDisplayLines(text string) ([]string, bool) {
	text = strings.TrimSuffix(text, "\n")
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	truncated := false
	if len(raw) > MaxVisibleLines {
		raw = raw[:MaxVisibleLines]
		truncated = true
	}

	lines := make([]string, len(raw))
	for i, line := range raw {
		lines[i] = textutil.SanitizeTerminalText(textutil.ExpandTabs(line, textutil.DefaultTabWidth))
	}
	return lines, truncated
}
