package receipt

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Archive defines the interface for keeping uploaded receipt images
type Archive interface {
	// Save stores a file and returns the name it was stored under
	Save(filename string, data []byte) (string, error)

	// Get retrieves a stored file
	Get(path string) ([]byte, error)

	// Delete removes a stored file
	Delete(path string) error
}

// LocalArchive implements Archive on the local filesystem
type LocalArchive struct {
	basePath string
}

// NewLocalArchive creates a new LocalArchive rooted at basePath
func NewLocalArchive(basePath string) (*LocalArchive, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}

	return &LocalArchive{
		basePath: basePath,
	}, nil
}

// Save stores a file in the archive
func (l *LocalArchive) Save(filename string, data []byte) (string, error) {
	path := filepath.Join(l.basePath, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}
	return filename, nil
}

// Get retrieves a file from the archive
func (l *LocalArchive) Get(path string) ([]byte, error) {
	fullPath := filepath.Join(l.basePath, path)
	data, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return data, nil
}

// Delete removes a file from the archive
func (l *LocalArchive) Delete(path string) error {
	fullPath := filepath.Join(l.basePath, path)
	if err := os.Remove(fullPath); err != nil {
		return fmt.Errorf("deleting file: %w", err)
	}
	return nil
}

var (
	specialChars = regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	multiSpace   = regexp.MustCompile(`\s+`)
)

// sanitizeFilename cleans up a filename before it becomes part of an
// archive path: strips special characters, collapses whitespace and
// truncates phone-generated long names.
func sanitizeFilename(filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)

	base = specialChars.ReplaceAllString(base, "")
	base = multiSpace.ReplaceAllString(base, " ")
	base = strings.TrimSpace(base)

	const maxLen = 50
	if len(base) > maxLen {
		base = base[:maxLen]
	}
	if base == "" {
		base = "receipt"
	}

	return base + ext
}
