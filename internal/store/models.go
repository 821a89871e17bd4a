package store

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"time"
)

// Uncategorized is the folder files without a category land in.
const Uncategorized = "Uncategorized"

// Timestamp wraps time.Time with lenient JSON decoding. The store emits
// isoformat strings that may or may not carry a zone offset; anything
// unparsable decodes to the zero time instead of failing the whole listing.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Time = time.Time{}
		return nil
	}
	if raw == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed
			return nil
		}
	}
	t.Time = time.Time{}
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return json.Marshal("")
	}
	return json.Marshal(t.Format(time.RFC3339Nano))
}

// FileRecord is one file as reported by the store. RelativePath is the only
// stable identity; names repeat across categories.
type FileRecord struct {
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	SizeBytes    int64     `json:"size_bytes"`
	RelativePath string    `json:"relative_path"`
	Created      Timestamp `json:"created_time"`
	LastAccess   Timestamp `json:"last_access_time"`
	Modified     Timestamp `json:"modified_time"`
	Thumbnail    string    `json:"thumbnail,omitempty"`
}

// Ext returns the lowercase extension without the leading dot, or "".
func (f FileRecord) Ext() string {
	ext := filepath.Ext(f.Name)
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// Folder returns the category, mapping an absent one to Uncategorized.
func (f FileRecord) Folder() string {
	if f.Category == "" {
		return Uncategorized
	}
	return f.Category
}

// Health is the store liveness report.
type Health struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// OK reports whether the store considers itself live.
func (h Health) OK() bool {
	return h.Status == "ok"
}

// Stats describes storage usage. CapacityBytes is zero when the store has no
// configured ceiling.
type Stats struct {
	TotalBytes    int64 `json:"total_bytes"`
	CapacityBytes int64 `json:"capacity_bytes,omitempty"`
	FileCount     int64 `json:"file_count"`
}

// RuleSet maps a folder name to the lowercase extensions routed into it.
// Rules are display-only on the client; categorization happens server-side.
type RuleSet map[string][]string

// OpResult is the success/message envelope mutation endpoints reply with.
type OpResult struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	File    *FileRecord `json:"file,omitempty"`
}

type listResponse struct {
	Files []FileRecord `json:"files"`
}

type rulesResponse struct {
	Rules RuleSet `json:"rules"`
}
