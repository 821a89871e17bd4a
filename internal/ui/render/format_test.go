package render

import (
	"strings"
	"testing"
	"time"

	"github.com/sdrive-tools/sdrive/internal/store"
)

func TestFormatSize(t *testing.T) {
	cases := []struct {
		bytes int64
		want  string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1 KB"},
		{1536, "1.5 KB"},
		{1024 * 1024, "1 MB"},
		{5 * 1024 * 1024 * 1024, "5 GB"},
	}
	for _, tc := range cases {
		if got := formatSize(tc.bytes); got != tc.want {
			t.Errorf("formatSize(%d) = %q, want %q", tc.bytes, got, tc.want)
		}
	}
}

func TestFormatActivity(t *testing.T) {
	if got := formatActivity(time.Time{}); got != "—" {
		t.Errorf("Zero time should render as dash, got %q", got)
	}

	at := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
	if got := formatActivity(at); got != "2024-05-01 10:30" {
		t.Errorf("formatActivity = %q", got)
	}
}

func TestFormatUsageWithCapacity(t *testing.T) {
	got := formatUsage(store.Stats{TotalBytes: 512 * 1024 * 1024, CapacityBytes: 1024 * 1024 * 1024})

	if !strings.Contains(got, "50%") {
		t.Errorf("Expected 50%% against the reported capacity, got %q", got)
	}
	if strings.Contains(got, "~") {
		t.Errorf("Real capacity should not be approximate, got %q", got)
	}
}

func TestFormatUsageWithoutCapacity(t *testing.T) {
	got := formatUsage(store.Stats{TotalBytes: usageReferenceBytes / 2})

	if !strings.Contains(got, "~50%") {
		t.Errorf("Missing capacity should fall back to the reference scale, got %q", got)
	}
}

func TestFormatCount(t *testing.T) {
	if got := formatCount(1); got != "1 file" {
		t.Errorf("formatCount(1) = %q", got)
	}
	if got := formatCount(3); got != "3 files" {
		t.Errorf("formatCount(3) = %q", got)
	}
}
