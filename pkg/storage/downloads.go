package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Downloads persists fetched and generated report files under a base
// directory, standing in for the browser's download folder.
type Downloads struct {
	baseDir string
}

// NewDownloads ensures the base directory exists and returns a handle.
func NewDownloads(baseDir string) (*Downloads, error) {
	if baseDir == "" {
		baseDir = "./downloads"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create downloads directory: %w", err)
	}
	return &Downloads{baseDir: baseDir}, nil
}

// Dir returns the base directory.
func (s *Downloads) Dir() string {
	return s.baseDir
}

// Save writes the given bytes under the base dir and returns the full path.
func (s *Downloads) Save(filename string, data []byte) (string, error) {
	path, err := s.resolve(filename)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("prepare download directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write download file: %w", err)
	}
	return path, nil
}

// SaveStream copies from reader into the target file path.
func (s *Downloads) SaveStream(filename string, r io.Reader) (string, error) {
	path, err := s.resolve(filename)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("prepare download directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create download file: %w", err)
	}
	defer file.Close() //nolint:errcheck
	if _, err := io.Copy(file, r); err != nil {
		return "", fmt.Errorf("write download stream: %w", err)
	}
	return path, nil
}

// Open returns a read-only handle for a stored file.
func (s *Downloads) Open(filename string) (*os.File, error) {
	path, err := s.resolve(filename)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open download file: %w", err)
	}
	return file, nil
}

// Delete removes a stored file if present.
func (s *Downloads) Delete(filename string) error {
	path, err := s.resolve(filename)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete download file: %w", err)
	}
	return nil
}

// resolve confines the target path to the base directory. Filenames come
// from server headers as well as local callers, so anything that would
// escape the base dir after cleaning is rejected.
func (s *Downloads) resolve(filename string) (string, error) {
	clean := filepath.Clean(strings.TrimPrefix(filename, "/"))
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("filename %q escapes the downloads directory", filename)
	}
	return filepath.Join(s.baseDir, clean), nil
}

// Filename joins non-empty parts with underscores and appends the extension,
// producing names that encode the report's filter parameters.
func Filename(ext string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		p = strings.ReplaceAll(p, " ", "-")
		p = strings.ReplaceAll(p, string(filepath.Separator), "-")
		kept = append(kept, p)
	}
	if len(kept) == 0 {
		kept = append(kept, "report")
	}
	return fmt.Sprintf("%s.%s", strings.Join(kept, "_"), strings.TrimPrefix(ext, "."))
}
