// Package catalog derives folder aggregates from the flat file listing and
// provides the sort/filter pipeline shared by every view.
package catalog

import (
	"time"

	"github.com/sdrive-tools/sdrive/internal/store"
)

// FolderAggregate is a derived per-folder summary. Aggregates are rebuilt from
// scratch on every catalog replacement; there is no incremental update path.
type FolderAggregate struct {
	Name         string
	FileCount    int
	TotalSize    int64
	LastActivity time.Time // max over member created/access/modified instants
	Thumbnail    string    // first member in input order that has one
}

// BuildAggregates groups files by folder. It is pure and order-independent
// except for the representative thumbnail, which is first-encountered in
// input order. Files without a category land in store.Uncategorized. Absent
// or unparsable timestamps contribute nothing to LastActivity.
func BuildAggregates(files []store.FileRecord) map[string]FolderAggregate {
	aggregates := make(map[string]FolderAggregate)

	for _, f := range files {
		folder := f.Folder()
		agg := aggregates[folder]
		agg.Name = folder
		agg.FileCount++
		agg.TotalSize += f.SizeBytes
		if agg.Thumbnail == "" && f.Thumbnail != "" {
			agg.Thumbnail = f.Thumbnail
		}
		if latest := activityInstant(f); latest.After(agg.LastActivity) {
			agg.LastActivity = latest
		}
		aggregates[folder] = agg
	}

	return aggregates
}

func activityInstant(f store.FileRecord) time.Time {
	latest := f.Created.Time
	if f.LastAccess.After(latest) {
		latest = f.LastAccess.Time
	}
	if f.Modified.After(latest) {
		latest = f.Modified.Time
	}
	return latest
}
