// Package preview selects and builds the rendering strategy for a file.
package preview

import (
	"path/filepath"
	"strings"
)

// Kind is the rendering strategy for a file, decided by extension.
type Kind int

const (
	KindText Kind = iota // default: fetch and show preformatted
	KindImage
	KindPDF
	KindAudio
	KindVideo
	KindMarkdown
	KindJSON
	KindError // inline failure feedback, never a blank surface
)

// kindByExt is the single extension table; every dispatch decision goes
// through it.
var kindByExt = map[string]Kind{
	"jpg": KindImage, "jpeg": KindImage, "png": KindImage, "gif": KindImage,
	"webp": KindImage, "bmp": KindImage, "tiff": KindImage,

	"pdf": KindPDF,

	"mp3": KindAudio, "wav": KindAudio, "ogg": KindAudio,
	"m4a": KindAudio, "flac": KindAudio,

	"mp4": KindVideo, "webm": KindVideo, "mov": KindVideo,
	"mkv": KindVideo, "avi": KindVideo,

	"md":   KindMarkdown,
	"json": KindJSON,
}

// KindForName returns the preview kind for a file name.
func KindForName(name string) Kind {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if kind, ok := kindByExt[ext]; ok {
		return kind
	}
	return KindText
}

// NeedsFetch reports whether the kind requires a content fetch before it can
// render. Media kinds embed the content URL directly.
func (k Kind) NeedsFetch() bool {
	switch k {
	case KindMarkdown, KindJSON, KindText:
		return true
	default:
		return false
	}
}

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindPDF:
		return "pdf"
	case KindAudio:
		return "audio"
	case KindVideo:
		return "video"
	case KindMarkdown:
		return "markdown"
	case KindJSON:
		return "json"
	case KindError:
		return "error"
	default:
		return "text"
	}
}
