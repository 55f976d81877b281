package media

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// TranscriptExtensions lists the files that can be loaded into the transcript editor.
var TranscriptExtensions = []string{".txt", ".md", ".pdf"}

// maxTranscriptBytes keeps an imported transcript within the upload budget.
const maxTranscriptBytes = MaxUploadBytes

var extraneousWhitespace = regexp.MustCompile(`[ \t]+`)

// ReadTranscript loads plain text from a .txt, .md or .pdf file.
func ReadTranscript(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".txt", ".md":
		return readText(path)
	case ".pdf":
		return readPDF(path)
	default:
		return "", fmt.Errorf("unsupported transcript file %q", filepath.Base(path))
	}
}

func readText(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.Size() > maxTranscriptBytes {
		return "", fmt.Errorf("transcript %s is larger than %s", filepath.Base(path), HumanSize(maxTranscriptBytes))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("transcript %s is not valid UTF-8", filepath.Base(path))
	}
	return strings.TrimSpace(string(data)), nil
}

func readPDF(path string) (string, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}
	defer file.Close()

	content, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract pdf text: %w", err)
	}

	var builder strings.Builder
	if _, err := io.Copy(&builder, io.LimitReader(content, maxTranscriptBytes)); err != nil {
		return "", err
	}
	text := extraneousWhitespace.ReplaceAllString(builder.String(), " ")
	return strings.TrimSpace(text), nil
}
