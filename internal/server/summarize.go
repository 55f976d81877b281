package server

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/csheth/podsum/internal/media"
)

const (
	msgEmptyTranscript = "Transcript is empty or not provided."
	msgFileTooLarge    = "File size too large (max 25MB)"

	// Room for the multipart envelope around a file at the size limit.
	multipartOverhead = 1 << 20
	multipartMemory   = 8 << 20
)

var errNoTranscriber = errors.New("audio transcription is not configured")

// handleSummarize accepts either a multipart "file" upload or a JSON
// {"transcript": "..."} body and responds with {"summary": "..."}.
func (s *Server) handleSummarize(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, media.MaxUploadBytes+multipartOverhead)

	var (
		transcript string
		err        error
	)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		transcript, err = s.transcriptFromUpload(c)
	} else {
		transcript, err = transcriptFromJSON(c)
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": msgFileTooLarge})
			return
		}
		s.fail(c, err)
		return
	}
	if strings.TrimSpace(transcript) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgEmptyTranscript})
		return
	}

	summary, err := s.summarize(c, transcript)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

func (s *Server) summarize(c *gin.Context, transcript string) (string, error) {
	if s.summarizer == nil {
		return "", errors.New("no summarizer configured")
	}
	model := s.summarizer.Name()
	if s.cache != nil {
		if summary, ok := s.cache.Get(model, transcript); ok {
			s.logger.Debug("summary cache hit", zap.String("model", model))
			return summary, nil
		}
	}
	summary, err := s.summarizer.Summarize(c.Request.Context(), transcript)
	if err != nil {
		return "", err
	}
	if s.cache != nil {
		if err := s.cache.Put(model, transcript, summary); err != nil {
			s.logger.Warn("summary cache write failed", zap.Error(err))
		}
	}
	return summary, nil
}

// transcriptFromUpload returns "" without error when no acceptable file was sent,
// so the caller reports an empty transcript.
func (s *Server) transcriptFromUpload(c *gin.Context) (string, error) {
	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", err
		}
		return "", nil
	}
	header, err := c.FormFile("file")
	if err != nil {
		return "", nil
	}
	name := filepath.Base(header.Filename)
	if !media.Allowed(name) {
		s.logger.Info("rejected upload type", zap.String("file", name))
		return "", nil
	}
	if header.Size > media.MaxUploadBytes {
		return "", &http.MaxBytesError{Limit: media.MaxUploadBytes}
	}

	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	switch media.KindOf(name) {
	case media.KindText:
		return readUTF8(file)
	case media.KindAudio, media.KindVideo:
		return s.transcribe(c, name, file)
	default:
		return "", nil
	}
}

func (s *Server) transcribe(c *gin.Context, name string, file multipart.File) (string, error) {
	if s.transcriber == nil {
		return "", errNoTranscriber
	}
	s.logger.Info("transcribing upload", zap.String("file", name))
	text, err := s.transcriber.Transcribe(c.Request.Context(), name, file)
	if err != nil {
		return "", fmt.Errorf("transcribe %s: %w", name, err)
	}
	return text, nil
}

func readUTF8(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", errors.New("text file is not valid UTF-8")
	}
	return string(data), nil
}

// transcriptFromJSON returns "" when the body is not a JSON object with a
// string transcript field.
func transcriptFromJSON(c *gin.Context) (string, error) {
	var req struct {
		Transcript string `json:"transcript"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", err
		}
		return "", nil
	}
	return req.Transcript, nil
}

func (s *Server) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	s.logger.Warn("summarize failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
