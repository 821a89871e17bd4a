package catalog

import (
	"strings"

	"github.com/sdrive-tools/sdrive/internal/store"
)

// Matches reports whether a file matches a search term: case-insensitive
// substring on the name or the full relative path, or exact equality with the
// file's extension (a leading dot on the term is stripped first). The empty
// term matches everything.
func Matches(f store.FileRecord, term string) bool {
	if term == "" {
		return true
	}
	needle := strings.ToLower(term)
	if strings.Contains(strings.ToLower(f.Name), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(f.RelativePath), needle) {
		return true
	}
	return strings.TrimPrefix(needle, ".") == f.Ext()
}

// MatchesFolder reports whether a folder name matches a term. Folder matching
// is substring-only; the extension rule applies to files, not folders.
func MatchesFolder(name, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(term))
}
