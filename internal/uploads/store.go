package uploads

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// allowedExtensions is the upload allow-list for both predict endpoints.
var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// Allowed reports whether the filename carries an accepted image extension.
func Allowed(filename string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// Store persists uploaded images under a single directory.
type Store struct {
	dir string
}

// NewStore creates the uploads directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating upload dir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the uploads directory path.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes the upload to disk under a collision-resistant name built from
// the current millisecond timestamp, a random suffix and the original base
// name. Returns the stored name and the full path.
func (s *Store) Save(src io.Reader, originalName string) (string, string, error) {
	base := filepath.Base(originalName)
	savedName := fmt.Sprintf("%d_%s_%s",
		time.Now().UTC().UnixMilli(), uuid.New().String()[:8], base)
	path := filepath.Join(s.dir, savedName)

	dst, err := os.Create(path)
	if err != nil {
		return "", "", fmt.Errorf("creating upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", "", fmt.Errorf("writing upload file: %w", err)
	}
	return savedName, path, nil
}

// SweepOlderThan removes stored uploads whose modification time is before
// cutoff. Returns the number of files removed.
func (s *Store) SweepOlderThan(cutoff time.Time) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(s.dir, entry.Name())); err == nil {
				removed++
			}
		}
	}
	return removed, nil
}
