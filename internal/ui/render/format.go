package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/sdrive-tools/sdrive/internal/store"
)

// usageReferenceBytes is the scale the usage gauge falls back to when the
// store reports no capacity ceiling.
const usageReferenceBytes = int64(10) * 1024 * 1024 * 1024

// formatSize renders a byte count for humans.
func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	value := float64(bytes) / float64(div)
	suffix := []string{"KB", "MB", "GB", "TB", "PB"}[exp]
	formatted := strings.TrimSuffix(fmt.Sprintf("%.1f", value), ".0")
	return formatted + " " + suffix
}

// formatActivity renders the most-recent-activity instant, or a dash when it
// was never known.
func formatActivity(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Format("2006-01-02 15:04")
}

// formatUsage renders the storage gauge: percentage against the capacity
// ceiling when the store reports one, else against a fixed reference scale.
func formatUsage(stats store.Stats) string {
	ceiling := stats.CapacityBytes
	approx := ""
	if ceiling <= 0 {
		ceiling = usageReferenceBytes
		approx = "~"
	}
	pct := float64(stats.TotalBytes) / float64(ceiling) * 100
	return fmt.Sprintf("%s / %s (%s%.0f%%)", formatSize(stats.TotalBytes), formatSize(ceiling), approx, pct)
}

// formatCount pluralizes a file count.
func formatCount(n int) string {
	if n == 1 {
		return "1 file"
	}
	return fmt.Sprintf("%d files", n)
}
