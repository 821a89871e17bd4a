package state

import (
	"time"

	"github.com/sdrive-tools/sdrive/internal/catalog"
	"github.com/sdrive-tools/sdrive/internal/store"
)

// RowKind distinguishes folder cards from file rows.
type RowKind int

const (
	RowFolder RowKind = iota
	RowFile
)

// Row is one entry of the render model with its display fields.
type Row struct {
	Kind      RowKind
	Title     string
	Path      string // relative path for files, folder name for folders
	Folder    string
	Size      int64
	FileCount int
	Activity  time.Time
	Thumbnail string
}

// RenderModel is the ordered, display-ready projection of the state. The
// renderer consumes it without reaching back into the catalog.
type RenderModel struct {
	Mode          ViewMode
	Title         string
	Rows          []Row
	FolderMatches []Row // secondary "matching folders" entries during search
}

// RowCount returns the size of the combined selection space: primary rows
// first, folder matches after.
func (m RenderModel) RowCount() int {
	return len(m.Rows) + len(m.FolderMatches)
}

// RowAt resolves a selection index across both sections.
func (m RenderModel) RowAt(index int) (Row, bool) {
	if index < 0 || index >= m.RowCount() {
		return Row{}, false
	}
	if index < len(m.Rows) {
		return m.Rows[index], true
	}
	return m.FolderMatches[index-len(m.Rows)], true
}

// DeriveDisplay is the pure function from (catalog, view state, sort key,
// search term) to the ordered render model. It is recomputed on every render
// pass and never cached across catalog replacements.
func DeriveDisplay(s *AppState) RenderModel {
	switch s.Mode() {
	case ModeSearch:
		return deriveSearch(s)
	case ModeFolderContents:
		return deriveFolderContents(s)
	default:
		return deriveFolders(s)
	}
}

func deriveFolders(s *AppState) RenderModel {
	folders := make([]catalog.FolderAggregate, 0, len(s.Aggregates))
	for _, agg := range s.Aggregates {
		folders = append(folders, agg)
	}
	// Map order is random; fall back to name order before the active sort so
	// unknown keys still yield a deterministic grid.
	folders = catalog.SortFolders(folders, catalog.SortNameAsc)
	folders = catalog.SortFolders(folders, s.SortKey)

	model := RenderModel{Mode: ModeFolders, Title: "Folders"}
	for _, agg := range folders {
		model.Rows = append(model.Rows, folderRow(agg))
	}
	return model
}

func deriveFolderContents(s *AppState) RenderModel {
	files := catalog.SortFiles(s.FolderFiles(s.SelectedFolder), s.SortKey)

	model := RenderModel{Mode: ModeFolderContents, Title: s.SelectedFolder}
	for _, f := range files {
		model.Rows = append(model.Rows, fileRow(f))
	}
	return model
}

// deriveSearch matches files across the entire catalog and folder names as
// secondary entries. File matching includes the exact-extension rule; folder
// matching is substring-only.
func deriveSearch(s *AppState) RenderModel {
	var matched []store.FileRecord
	for _, f := range s.Files {
		if catalog.Matches(f, s.SearchTerm) {
			matched = append(matched, f)
		}
	}
	matched = catalog.SortFiles(matched, s.SortKey)

	model := RenderModel{Mode: ModeSearch, Title: "Search: " + s.SearchTerm}
	for _, f := range matched {
		model.Rows = append(model.Rows, fileRow(f))
	}

	var folders []catalog.FolderAggregate
	for _, agg := range s.Aggregates {
		if catalog.MatchesFolder(agg.Name, s.SearchTerm) {
			folders = append(folders, agg)
		}
	}
	folders = catalog.SortFolders(folders, catalog.SortNameAsc)
	for _, agg := range folders {
		model.FolderMatches = append(model.FolderMatches, folderRow(agg))
	}
	return model
}

func folderRow(agg catalog.FolderAggregate) Row {
	return Row{
		Kind:      RowFolder,
		Title:     agg.Name,
		Path:      agg.Name,
		Size:      agg.TotalSize,
		FileCount: agg.FileCount,
		Activity:  agg.LastActivity,
		Thumbnail: agg.Thumbnail,
	}
}

func fileRow(f store.FileRecord) Row {
	activity := f.Created.Time
	if f.LastAccess.After(activity) {
		activity = f.LastAccess.Time
	}
	if f.Modified.After(activity) {
		activity = f.Modified.Time
	}
	return Row{
		Kind:      RowFile,
		Title:     f.Name,
		Path:      f.RelativePath,
		Folder:    f.Folder(),
		Size:      f.SizeBytes,
		Activity:  activity,
		Thumbnail: f.Thumbnail,
	}
}
