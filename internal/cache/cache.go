// Package cache keeps generated summaries on disk so repeated transcripts
// skip the model.
package cache

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"
)

const (
	cacheEnvVar   = "PODSUM_CACHE_DIR"
	cacheSubdir   = "podsum/summaries"
	defaultTTL    = 24 * time.Hour
	partialSuffix = ".part"
	metaSuffix    = ".meta"
	summarySuffix = ".txt"
)

// Store is a directory of summaries keyed by transcript and model.
type Store struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

type entryMeta struct {
	Model           string    `json:"model"`
	TranscriptChars int       `json:"transcriptChars"`
	CachedAt        time.Time `json:"cachedAt"`
	Size            int64     `json:"size"`
}

// DefaultDir honours PODSUM_CACHE_DIR, then the user cache directory.
func DefaultDir() string {
	if dir := os.Getenv(cacheEnvVar); dir != "" {
		return dir
	}
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(os.TempDir(), "podsum-cache")
	}
	return filepath.Join(base, cacheSubdir)
}

// New creates dir if needed. A zero ttl means 24 hours.
func New(dir string, ttl time.Duration) (*Store, error) {
	if dir == "" {
		dir = DefaultDir()
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: dir, ttl: ttl, now: time.Now}, nil
}

// Dir returns the directory backing the store.
func (s *Store) Dir() string {
	return s.dir
}

// Get returns a fresh summary for transcript, if one was stored.
func (s *Store) Get(model, transcript string) (string, bool) {
	summaryPath, metaPath, _ := s.pathsFor(Key(model, transcript))
	meta, err := readMeta(metaPath)
	if err != nil {
		return "", false
	}
	if s.now().Sub(meta.CachedAt) >= s.ttl {
		return "", false
	}
	data, err := os.ReadFile(summaryPath)
	if err != nil || int64(len(data)) != meta.Size || len(data) == 0 {
		return "", false
	}
	return string(data), true
}

// Put stores summary for transcript. The summary file is written to a partial
// path first and renamed into place.
func (s *Store) Put(model, transcript, summary string) error {
	if summary == "" {
		return errors.New("cache: refusing to store an empty summary")
	}
	summaryPath, metaPath, partialPath := s.pathsFor(Key(model, transcript))
	if err := os.WriteFile(partialPath, []byte(summary), 0o644); err != nil {
		return err
	}
	if err := os.Rename(partialPath, summaryPath); err != nil {
		os.Remove(partialPath)
		return err
	}
	return writeMeta(metaPath, entryMeta{
		Model:           model,
		TranscriptChars: len(transcript),
		CachedAt:        s.now().UTC(),
		Size:            int64(len(summary)),
	})
}

// Prune removes entries older than the TTL and returns how many were dropped.
func (s *Store) Prune() (int, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*"+metaSuffix))
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, metaPath := range matches {
		meta, err := readMeta(metaPath)
		if err == nil && s.now().Sub(meta.CachedAt) < s.ttl {
			continue
		}
		base := metaPath[:len(metaPath)-len(metaSuffix)]
		os.Remove(base + summarySuffix)
		os.Remove(metaPath)
		removed++
	}
	return removed, nil
}

func (s *Store) pathsFor(key string) (string, string, string) {
	return filepath.Join(s.dir, key+summarySuffix), filepath.Join(s.dir, key+metaSuffix), filepath.Join(s.dir, key+partialSuffix)
}

// Key identifies a transcript summarized by a given model.
func Key(model, transcript string) string {
	h := sha1.New()
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write([]byte(transcript))
	return hex.EncodeToString(h.Sum(nil))
}

func readMeta(path string) (entryMeta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return entryMeta{}, err
	}
	var meta entryMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return entryMeta{}, err
	}
	return meta, nil
}

func writeMeta(path string, meta entryMeta) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
