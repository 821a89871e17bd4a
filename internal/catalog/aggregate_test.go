package catalog

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/sdrive-tools/sdrive/internal/store"
)

func ts(value string) store.Timestamp {
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return store.Timestamp{Time: parsed}
}

func TestBuildAggregatesGroupsByFolder(t *testing.T) {
	files := []store.FileRecord{
		{Name: "a.txt", Category: "Docs", SizeBytes: 100, RelativePath: "Docs/a.txt"},
		{Name: "b.pdf", Category: "Docs", SizeBytes: 200, RelativePath: "Docs/b.pdf"},
		{Name: "c.jpg", Category: "Images", SizeBytes: 50, RelativePath: "Images/c.jpg"},
	}

	aggs := BuildAggregates(files)

	if len(aggs) != 2 {
		t.Fatalf("Expected 2 folders, got %d", len(aggs))
	}
	docs := aggs["Docs"]
	if docs.FileCount != 2 || docs.TotalSize != 300 {
		t.Errorf("Docs should be (2, 300), got (%d, %d)", docs.FileCount, docs.TotalSize)
	}
	images := aggs["Images"]
	if images.FileCount != 1 || images.TotalSize != 50 {
		t.Errorf("Images should be (1, 50), got (%d, %d)", images.FileCount, images.TotalSize)
	}
}

func TestBuildAggregatesCountsSumToInput(t *testing.T) {
	files := []store.FileRecord{
		{Name: "a.txt", Category: "Docs"},
		{Name: "b.txt", Category: "Docs"},
		{Name: "c.txt"},
		{Name: "d.txt", Category: "Music"},
	}

	aggs := BuildAggregates(files)

	total := 0
	for _, agg := range aggs {
		total += agg.FileCount
	}
	if total != len(files) {
		t.Errorf("Folder counts should sum to %d, got %d", len(files), total)
	}
}

func TestBuildAggregatesUncategorized(t *testing.T) {
	files := []store.FileRecord{
		{Name: "orphan.bin", SizeBytes: 10, RelativePath: "orphan.bin"},
	}

	aggs := BuildAggregates(files)

	agg, ok := aggs[store.Uncategorized]
	if !ok {
		t.Fatalf("File without category should land in %q, got %v", store.Uncategorized, aggs)
	}
	if agg.FileCount != 1 {
		t.Errorf("Expected 1 file, got %d", agg.FileCount)
	}
}

func TestBuildAggregatesLastActivityIsMaxInstant(t *testing.T) {
	files := []store.FileRecord{
		{
			Name: "old.txt", Category: "Docs",
			Created:    ts("2024-01-01T00:00:00Z"),
			LastAccess: ts("2024-06-01T00:00:00Z"),
		},
		{
			Name: "new.txt", Category: "Docs",
			Created:  ts("2024-02-01T00:00:00Z"),
			Modified: ts("2024-09-01T00:00:00Z"),
		},
	}

	agg := BuildAggregates(files)["Docs"]

	want := ts("2024-09-01T00:00:00Z").Time
	if !agg.LastActivity.Equal(want) {
		t.Errorf("LastActivity should be %v, got %v", want, agg.LastActivity)
	}
}

func TestBuildAggregatesMalformedTimestampsContributeNothing(t *testing.T) {
	// Decode through the wire path so unparsable timestamps take the lenient
	// zero-time branch.
	payload := `{"name":"x.txt","category":"Docs","size_bytes":5,"created_time":"not-a-date","last_access_time":""}`
	var f store.FileRecord
	if err := json.Unmarshal([]byte(payload), &f); err != nil {
		t.Fatalf("Decoding should not fail on bad timestamps: %v", err)
	}

	agg := BuildAggregates([]store.FileRecord{f})["Docs"]

	if !agg.LastActivity.IsZero() {
		t.Errorf("Malformed timestamps should leave LastActivity zero, got %v", agg.LastActivity)
	}
	if agg.FileCount != 1 || agg.TotalSize != 5 {
		t.Errorf("The file itself still counts: got (%d, %d)", agg.FileCount, agg.TotalSize)
	}
}

func TestBuildAggregatesThumbnailFirstInInputOrder(t *testing.T) {
	files := []store.FileRecord{
		{Name: "plain.txt", Category: "Docs"},
		{Name: "first.jpg", Category: "Docs", Thumbnail: "thumb-first"},
		{Name: "second.jpg", Category: "Docs", Thumbnail: "thumb-second"},
	}

	agg := BuildAggregates(files)["Docs"]

	if agg.Thumbnail != "thumb-first" {
		t.Errorf("Thumbnail should be first-encountered in input order, got %q", agg.Thumbnail)
	}
}

func TestBuildAggregatesEmptyInput(t *testing.T) {
	aggs := BuildAggregates(nil)
	if len(aggs) != 0 {
		t.Errorf("Empty catalog should yield no aggregates, got %v", aggs)
	}
}
