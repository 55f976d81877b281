package llm

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	whitespaceRe   = regexp.MustCompile(`[ \t]+`)
	bulletMarkerRe = regexp.MustCompile(`^(?:[-*•·]+|\d+[.)])\s+`)
)

func clipText(text string, limit int) string {
	text = strings.TrimSpace(text)
	if limit <= 0 || len(text) <= limit {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}

func buildSummaryPrompt(transcript string, part, parts int) string {
	var b strings.Builder
	b.WriteString("Summarize the following podcast transcript as 3 to 7 key points.\n")
	b.WriteString("Write one point per line with no numbering, bullets, headings or extra commentary.\n")
	b.WriteString("Each point should be a complete sentence of at most 30 words.\n\n")
	if parts > 1 {
		b.WriteString(fmt.Sprintf("This is part %d of %d of the transcript.\n\n", part, parts))
	}
	b.WriteString("Transcript:\n")
	b.WriteString(transcript)
	return b.String()
}

// normalizeSummary splits model output into points, stripping list markers
// and blank lines.
func normalizeSummary(raw string) []string {
	var points []string
	for _, line := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		line = bulletMarkerRe.ReplaceAllString(line, "")
		line = strings.ReplaceAll(line, "**", "")
		line = strings.TrimSpace(whitespaceRe.ReplaceAllString(line, " "))
		if line == "" || (strings.HasSuffix(line, ":") && len(strings.Fields(line)) <= 4) {
			continue
		}
		points = append(points, line)
	}
	return points
}

// chunkTranscript splits text on sentence boundaries into pieces of at most
// limit characters. Sentences longer than limit are cut hard.
func chunkTranscript(text string, limit int) []string {
	text = clipText(text, maxTranscriptChars)
	if text == "" {
		return nil
	}
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}
	var chunks []string
	var current strings.Builder
	currentLen := 0
	flush := func() {
		if chunk := strings.TrimSpace(current.String()); chunk != "" {
			chunks = append(chunks, chunk)
		}
		current.Reset()
		currentLen = 0
	}
	for _, sentence := range roughSentenceSplit(text) {
		runes := []rune(sentence)
		for len(runes) > limit {
			flush()
			chunks = append(chunks, strings.TrimSpace(string(runes[:limit])))
			runes = []rune(strings.TrimSpace(string(runes[limit:])))
		}
		if len(runes) == 0 {
			continue
		}
		if currentLen > 0 && currentLen+1+len(runes) > limit {
			flush()
		}
		if currentLen > 0 {
			current.WriteByte(' ')
			currentLen++
		}
		current.WriteString(string(runes))
		currentLen += len(runes)
	}
	flush()
	return chunks
}

func roughSentenceSplit(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	var sentences []string
	var current strings.Builder
	for _, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			sentence := strings.TrimSpace(current.String())
			if sentence != "" {
				sentences = append(sentences, sentence)
			}
			current.Reset()
		}
	}
	if tail := strings.TrimSpace(current.String()); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}
