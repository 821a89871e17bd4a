package preview

import (
	"bytes"
	"html"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

	// markupPolicy sanitizes rendered markup before anything displays it.
	// Raw transformed output is never trusted.
	markupPolicy = bluemonday.UGCPolicy()

	// stripPolicy removes every tag, leaving plain text for the terminal.
	stripPolicy = bluemonday.StrictPolicy()
)

// formatMarkdown converts markdown to sanitized markup. HTML carries the
// sanitized document for embedding consumers; Lines carries a tag-stripped
// plain-text projection for the terminal. If the conversion fails the source
// is escaped and shown preformatted instead.
func formatMarkdown(content []byte, inst *Instruction) {
	var buf bytes.Buffer
	if err := markdown.Convert(content, &buf); err != nil {
		escaped := html.EscapeString(string(content))
		inst.Lines, inst.Truncated = toDisplayLines(escaped)
		return
	}

	inst.HTML = markupPolicy.Sanitize(buf.String())
	text := html.UnescapeString(stripPolicy.Sanitize(buf.String()))
	inst.Lines, inst.Truncated = toDisplayLines(text)
}
