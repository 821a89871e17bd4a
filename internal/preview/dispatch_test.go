package preview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/sdrive-tools/sdrive/internal/store"
)

func staticFetch(content string, err error) FetchFunc {
	return func(ctx context.Context, relpath string) ([]byte, error) {
		return []byte(content), err
	}
}

func staticURL(relpath string) string {
	return "http://store.local/view/" + relpath
}

func TestPreviewMediaKindsNeverFetch(t *testing.T) {
	fetched := false
	d := NewDispatcher(func(ctx context.Context, relpath string) ([]byte, error) {
		fetched = true
		return nil, nil
	}, staticURL)

	cases := []struct {
		name string
		kind Kind
	}{
		{"photo.jpg", KindImage},
		{"report.pdf", KindPDF},
		{"song.mp3", KindAudio},
		{"clip.mp4", KindVideo},
	}
	for _, tc := range cases {
		inst := d.Preview(context.Background(), store.FileRecord{Name: tc.name, RelativePath: "x/" + tc.name})
		if inst.Kind != tc.kind {
			t.Errorf("%s: expected kind %s, got %s", tc.name, tc.kind, inst.Kind)
		}
		if inst.ContentURL != "http://store.local/view/x/"+tc.name {
			t.Errorf("%s: ContentURL = %q", tc.name, inst.ContentURL)
		}
	}
	if fetched {
		t.Error("Media previews must resolve without a content fetch")
	}
}

func TestPreviewTextContent(t *testing.T) {
	d := NewDispatcher(staticFetch("line one\r\nline two\tend", nil), staticURL)

	inst := d.Preview(context.Background(), store.FileRecord{Name: "notes.txt", RelativePath: "notes.txt"})

	if inst.Kind != KindText {
		t.Fatalf("Expected text kind, got %s", inst.Kind)
	}
	if len(inst.Lines) != 2 {
		t.Fatalf("CRLF should normalize to 2 lines, got %v", inst.Lines)
	}
	if strings.Contains(inst.Lines[1], "\t") {
		t.Errorf("Tabs should be expanded, got %q", inst.Lines[1])
	}
}

func TestPreviewTextTruncation(t *testing.T) {
	var b strings.Builder
	for i := 0; i < MaxVisibleLines+50; i++ {
		fmt.Fprintf(&b, "line %d\n", i)
	}
	d := NewDispatcher(staticFetch(b.String(), nil), staticURL)

	inst := d.Preview(context.Background(), store.FileRecord{Name: "big.log", RelativePath: "big.log"})

	if len(inst.Lines) != MaxVisibleLines {
		t.Errorf("Lines should cap at %d, got %d", MaxVisibleLines, len(inst.Lines))
	}
	if !inst.Truncated {
		t.Error("Truncated flag should be set")
	}
}

func TestPreviewJSONReindents(t *testing.T) {
	d := NewDispatcher(staticFetch(`{"b":1,"a":[2,3]}`, nil), staticURL)

	inst := d.Preview(context.Background(), store.FileRecord{Name: "data.json", RelativePath: "data.json"})

	if inst.Kind != KindJSON {
		t.Fatalf("Expected json kind, got %s", inst.Kind)
	}
	if len(inst.Lines) < 2 {
		t.Fatalf("JSON should be re-indented across lines, got %v", inst.Lines)
	}
	if !strings.HasPrefix(inst.Lines[1], "  ") {
		t.Errorf("Expected two-space indent, got %q", inst.Lines[1])
	}
}

func TestPreviewInvalidJSONFallsBackToText(t *testing.T) {
	d := NewDispatcher(staticFetch(`{not json`, nil), staticURL)

	inst := d.Preview(context.Background(), store.FileRecord{Name: "data.json", RelativePath: "data.json"})

	if inst.Kind != KindJSON {
		t.Fatalf("Kind stays json, got %s", inst.Kind)
	}
	if len(inst.Lines) != 1 || inst.Lines[0] != "{not json" {
		t.Errorf("Unparsable JSON should display raw, got %v", inst.Lines)
	}
}

func TestPreviewMarkdownSanitized(t *testing.T) {
	source := "# Title\n\nsome *text*\n\n<script>alert(1)</script>\n"
	d := NewDispatcher(staticFetch(source, nil), staticURL)

	inst := d.Preview(context.Background(), store.FileRecord{Name: "notes.md", RelativePath: "notes.md"})

	if inst.Kind != KindMarkdown {
		t.Fatalf("Expected markdown kind, got %s", inst.Kind)
	}
	if strings.Contains(inst.HTML, "<script") {
		t.Errorf("Script tags must be sanitized out of the markup: %q", inst.HTML)
	}
	if !strings.Contains(inst.HTML, "<h1") {
		t.Errorf("Structural markup should survive sanitization: %q", inst.HTML)
	}

	joined := strings.Join(inst.Lines, "\n")
	if strings.Contains(joined, "<") {
		t.Errorf("Terminal lines must be tag-free: %q", joined)
	}
	if !strings.Contains(joined, "Title") || !strings.Contains(joined, "some text") {
		t.Errorf("Plain-text projection should keep the content: %q", joined)
	}
}

func TestPreviewServerErrorCarriesStatus(t *testing.T) {
	err := &store.ServerError{StatusCode: 404, Message: "not found"}
	d := NewDispatcher(staticFetch("", err), staticURL)

	inst := d.Preview(context.Background(), store.FileRecord{Name: "gone.txt", RelativePath: "gone.txt"})

	if inst.Kind != KindError {
		t.Fatalf("Fetch failure should yield an error instruction, got %s", inst.Kind)
	}
	if !strings.Contains(inst.Err, "404") || !strings.Contains(inst.Err, "not found") {
		t.Errorf("Error should carry status and message, got %q", inst.Err)
	}
	if inst.Title != "gone.txt" {
		t.Errorf("Error instruction keeps the file identity, got %q", inst.Title)
	}
}

func TestPreviewTransportErrorCarriesReason(t *testing.T) {
	d := NewDispatcher(staticFetch("", errors.New("connection refused")), staticURL)

	inst := d.Preview(context.Background(), store.FileRecord{Name: "a.txt", RelativePath: "a.txt"})

	if inst.Kind != KindError {
		t.Fatalf("Expected error instruction, got %s", inst.Kind)
	}
	if !strings.Contains(inst.Err, "connection refused") {
		t.Errorf("Error should carry the failure reason, got %q", inst.Err)
	}
}

func TestKindForNameUnknownDefaultsToText(t *testing.T) {
	if KindForName("README") != KindText {
		t.Error("Extension-less names should default to text")
	}
	if KindForName("archive.XYZ") != KindText {
		t.Error("Unknown extensions should default to text")
	}
	if KindForName("PHOTO.JPG") != KindImage {
		t.Error("Extension matching should be case-insensitive")
	}
}
