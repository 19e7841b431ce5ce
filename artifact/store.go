// Package artifact keeps optional copies of uploads and results on disk and
// prunes them once they are older than a TTL.
package artifact

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/segmentio/ksuid"
	"go.uber.org/zap"
)

type Store struct {
	dir    string
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

func NewStore(dir string, ttl time.Duration, logger *zap.Logger) (*Store, error) {
	if dir == "" {
		return nil, errors.New("artifact: empty directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact dir: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{dir: dir, ttl: ttl, logger: logger, now: time.Now}, nil
}

func (s *Store) Dir() string { return s.dir }

// Save writes data as <ksuid>_<op>.<ext> and returns the file name. The
// ksuid carries the creation time used by Prune.
func (s *Store) Save(op, ext string, data []byte) (string, error) {
	id, err := ksuid.NewRandomWithTime(s.now())
	if err != nil {
		return "", fmt.Errorf("new ksuid: %w", err)
	}
	name := id.String() + "_" + op + "." + ext
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}
	return name, nil
}

// Prune removes artifacts older than the TTL and reports how many went.
func (s *Store) Prune() (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("read artifact dir: %w", err)
	}

	cutoff := s.now().Add(-s.ttl)
	removed := 0
	var errs []error
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		created, ok := s.createdAt(e)
		if !ok || !created.Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}

// createdAt prefers the timestamp in the ksuid prefix and falls back to the
// file's modification time for names it did not generate.
func (s *Store) createdAt(e os.DirEntry) (time.Time, bool) {
	if prefix, _, ok := strings.Cut(e.Name(), "_"); ok {
		if id, err := ksuid.Parse(prefix); err == nil {
			return id.Time(), true
		}
	}
	info, err := e.Info()
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}
