package media

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MaxUploadBytes is the largest file the summarization endpoint accepts (25 MiB).
const MaxUploadBytes int64 = 25 * 1024 * 1024

// UploadExtensions lists the file types offered by the upload picker.
var UploadExtensions = []string{".txt", ".mp3", ".wav", ".m4a", ".mpga", ".mp4", ".mpeg", ".webm"}

var (
	audioExtensions = []string{".mp3", ".wav", ".m4a", ".mpga"}
	videoExtensions = []string{".mp4", ".mpeg", ".webm"}
)

// Kind groups upload extensions by how the server turns them into text.
type Kind string

const (
	KindText  Kind = "text"
	KindAudio Kind = "audio"
	KindVideo Kind = "video"
	KindOther Kind = "other"
)

// File describes a local file picked for upload.
type File struct {
	Path string
	Name string
	Size int64
}

// Stat inspects path without reading it. Size limits are the caller's concern.
func Stat(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, err
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("%s is a directory", path)
	}
	return File{Path: path, Name: filepath.Base(path), Size: info.Size()}, nil
}

// Kind reports how the file would be processed.
func (f File) Kind() Kind {
	return KindOf(f.Name)
}

// TooLarge reports whether the file exceeds MaxUploadBytes.
func (f File) TooLarge() bool {
	return f.Size > MaxUploadBytes
}

// KindOf classifies a filename by extension.
func KindOf(name string) Kind {
	ext := strings.ToLower(filepath.Ext(name))
	switch {
	case ext == ".txt":
		return KindText
	case contains(audioExtensions, ext):
		return KindAudio
	case contains(videoExtensions, ext):
		return KindVideo
	default:
		return KindOther
	}
}

// Allowed reports whether name carries one of the UploadExtensions.
func Allowed(name string) bool {
	return contains(UploadExtensions, strings.ToLower(filepath.Ext(name)))
}

// HumanSize renders a byte count for status lines.
func HumanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func contains(haystack []string, needle string) bool {
	for _, existing := range haystack {
		if existing == needle {
			return true
		}
	}
	return false
}
