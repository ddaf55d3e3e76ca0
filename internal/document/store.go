// Package document persists the committed lines: a fixed working file that
// is rewritten on every commit, plus timestamped snapshots.
package document

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const (
	DefaultWorkingName    = "cache.txt"
	DefaultSnapshotPrefix = "zw_"
	snapshotLayout        = "20060102150405"
	maxLineBytes          = 1 << 20
)

// Store is safe for concurrent use; writes are serialized.
type Store struct {
	Dir            string
	WorkingName    string
	SnapshotPrefix string
	Now            func() time.Time

	mu sync.Mutex
}

func NewStore(dir string) *Store {
	return &Store{
		Dir:            dir,
		WorkingName:    DefaultWorkingName,
		SnapshotPrefix: DefaultSnapshotPrefix,
		Now:            time.Now,
	}
}

func (s *Store) WorkingPath() string {
	return filepath.Join(s.Dir, s.WorkingName)
}

// Load reads the working file. A missing file is an empty document.
func (s *Store) Load() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ReadLines(s.WorkingPath())
}

// SaveWorking replaces the working file with lines.
func (s *Store) SaveWorking(lines []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeLines(s.WorkingPath(), lines)
}

// Snapshot writes lines to a new timestamped file and returns its path.
func (s *Store) Snapshot(lines []string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stamp := s.Now().Format(snapshotLayout)
	base := s.SnapshotPrefix + stamp
	path := filepath.Join(s.Dir, base+".txt")
	for n := 2; ; n++ {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			break
		} else if err != nil {
			return "", fmt.Errorf("stat %s: %w", path, err)
		}
		path = filepath.Join(s.Dir, fmt.Sprintf("%s-%d.txt", base, n))
	}
	if err := writeLines(path, lines); err != nil {
		return "", err
	}
	return path, nil
}

// Snapshots lists snapshot files, oldest first.
func (s *Store) Snapshots() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.Dir, s.SnapshotPrefix+"*.txt"))
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// ReadLines reads newline-delimited records, trimming surrounding
// whitespace from each.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 4096), maxLineBytes)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return lines, nil
}

// writeLines writes through a temp file so a crash never leaves a torn
// document behind.
func writeLines(path string, lines []string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	for _, line := range lines {
		w.WriteString(line)
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
