package catalog

import (
	"sort"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/sdrive-tools/sdrive/internal/store"
)

// SortKey selects the comparator applied to a view.
type SortKey string

const (
	SortNameAsc    SortKey = "name-asc"
	SortNameDesc   SortKey = "name-desc"
	SortSizeAsc    SortKey = "size-asc"
	SortSizeDesc   SortKey = "size-desc"
	SortCreatedNew SortKey = "created-new"
	SortCreatedOld SortKey = "created-old"
	SortAccessNew  SortKey = "access-new"
	SortAccessOld  SortKey = "access-old"
)

// sortCycle is the order the UI steps through with the sort key binding.
var sortCycle = []SortKey{
	SortNameAsc, SortNameDesc,
	SortSizeAsc, SortSizeDesc,
	SortCreatedNew, SortCreatedOld,
	SortAccessNew, SortAccessOld,
}

// Next returns the key following k in the UI cycle.
func (k SortKey) Next() SortKey {
	for i, key := range sortCycle {
		if key == k {
			return sortCycle[(i+1)%len(sortCycle)]
		}
	}
	return sortCycle[0]
}

// Valid reports whether k is a known sort key.
func (k SortKey) Valid() bool {
	for _, key := range sortCycle {
		if key == k {
			return true
		}
	}
	return false
}

// collator performs locale-aware name comparison. The single event loop is
// the only caller; collate.Collator is not safe for concurrent use.
var collator = collate.New(language.Und, collate.Loose)

// SortFiles returns files ordered by key. The input is not mutated; an
// unknown key returns the original order.
func SortFiles(files []store.FileRecord, key SortKey) []store.FileRecord {
	sorted := make([]store.FileRecord, len(files))
	copy(sorted, files)

	switch key {
	case SortNameAsc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return collator.CompareString(sorted[i].Name, sorted[j].Name) < 0
		})
	case SortNameDesc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return collator.CompareString(sorted[i].Name, sorted[j].Name) > 0
		})
	case SortSizeAsc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].SizeBytes < sorted[j].SizeBytes
		})
	case SortSizeDesc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].SizeBytes > sorted[j].SizeBytes
		})
	case SortCreatedNew, SortAccessNew:
		sort.SliceStable(sorted, func(i, j int) bool {
			return recordInstant(sorted[i]).After(recordInstant(sorted[j]))
		})
	case SortCreatedOld, SortAccessOld:
		sort.SliceStable(sorted, func(i, j int) bool {
			return recordInstant(sorted[i]).Before(recordInstant(sorted[j]))
		})
	}

	return sorted
}

// SortFolders returns aggregates ordered by key, with the same comparator
// family as SortFiles applied to the aggregate fields.
func SortFolders(folders []FolderAggregate, key SortKey) []FolderAggregate {
	sorted := make([]FolderAggregate, len(folders))
	copy(sorted, folders)

	switch key {
	case SortNameAsc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return collator.CompareString(sorted[i].Name, sorted[j].Name) < 0
		})
	case SortNameDesc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return collator.CompareString(sorted[i].Name, sorted[j].Name) > 0
		})
	case SortSizeAsc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].TotalSize < sorted[j].TotalSize
		})
	case SortSizeDesc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].TotalSize > sorted[j].TotalSize
		})
	case SortCreatedNew, SortAccessNew:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].LastActivity.After(sorted[j].LastActivity)
		})
	case SortCreatedOld, SortAccessOld:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].LastActivity.Before(sorted[j].LastActivity)
		})
	}

	return sorted
}

// recordInstant is the per-record sort instant: created, falling back to last
// access. Missing instants are the zero time and sort as oldest.
func recordInstant(f store.FileRecord) time.Time {
	if !f.Created.IsZero() {
		return f.Created.Time
	}
	return f.LastAccess.Time
}
