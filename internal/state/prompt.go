package state

import (
	"fmt"
	"strings"
)

// parseUploadPaths splits a prompt buffer into local file paths. Paths are
// comma-separated so names with spaces survive.
func parseUploadPaths(buffer string) []string {
	var paths []string
	for _, part := range strings.Split(buffer, ",") {
		if p := strings.TrimSpace(part); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// parseRulePrompt parses "folder = ext1, ext2" (or "folder: ext1 ext2") into
// a folder name and its extension list.
func parseRulePrompt(buffer string) (string, []string, error) {
	sep := strings.IndexAny(buffer, "=:")
	if sep < 0 {
		return "", nil, fmt.Errorf("rule format: folder = ext1, ext2")
	}

	folder := strings.TrimSpace(buffer[:sep])
	if folder == "" {
		return "", nil, fmt.Errorf("rule format: folder = ext1, ext2")
	}

	var exts []string
	for _, part := range strings.FieldsFunc(buffer[sep+1:], func(r rune) bool {
		return r == ',' || r == ' '
	}) {
		ext := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(part), "."))
		if ext != "" {
			exts = append(exts, ext)
		}
	}
	if len(exts) == 0 {
		return "", nil, fmt.Errorf("rule needs at least one extension")
	}
	return folder, exts, nil
}
