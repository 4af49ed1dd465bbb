package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilename(t *testing.T) {
	assert.Equal(t, "teacher-attendance_2025-01.csv", Filename("csv", "teacher-attendance", "2025-01"))
	assert.Equal(t, "result-sheet_Class-Five_2025.pdf", Filename("pdf", "result-sheet", "Class Five", "", "2025"))
	assert.Equal(t, "report.xlsx", Filename("xlsx"))
	assert.Equal(t, "report.csv", Filename(".csv"), "a leading dot on the extension is tolerated")
}

func TestDownloadsSaveAndOpen(t *testing.T) {
	downloads, err := NewDownloads(t.TempDir())
	require.NoError(t, err)

	path, err := downloads.Save("report.csv", []byte("a,b\n1,2\n"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, downloads.Dir()))

	file, err := downloads.Open("report.csv")
	require.NoError(t, err)
	defer file.Close() //nolint:errcheck

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(data))
}

func TestDownloadsSaveStream(t *testing.T) {
	downloads, err := NewDownloads(t.TempDir())
	require.NoError(t, err)

	path, err := downloads.SaveStream("admit-cards.pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))
}

func TestDownloadsDelete(t *testing.T) {
	downloads, err := NewDownloads(t.TempDir())
	require.NoError(t, err)

	_, err = downloads.Save("stale.csv", []byte("x"))
	require.NoError(t, err)
	require.NoError(t, downloads.Delete("stale.csv"))

	// Deleting an absent file is not an error.
	assert.NoError(t, downloads.Delete("stale.csv"))
}

func TestDownloadsResolveStaysInsideBase(t *testing.T) {
	base := t.TempDir()
	downloads, err := NewDownloads(base)
	require.NoError(t, err)

	path, err := downloads.Save("/nested/report.csv", []byte("x"))
	require.NoError(t, err)
	rel, err := filepath.Rel(base, path)
	require.NoError(t, err)
	assert.False(t, strings.HasPrefix(rel, ".."))
}

func TestDownloadsRejectsTraversingFilenames(t *testing.T) {
	parent := t.TempDir()
	base := filepath.Join(parent, "downloads")
	downloads, err := NewDownloads(base)
	require.NoError(t, err)

	// Filenames may come from a server's Content-Disposition header.
	for _, name := range []string{
		"../escaped.txt",
		"..",
		"nested/../../escaped.txt",
		"/../escaped.txt",
	} {
		_, err := downloads.Save(name, []byte("x"))
		assert.Error(t, err, "filename %q must be rejected", name)
	}
	_, err = os.Stat(filepath.Join(parent, "escaped.txt"))
	assert.True(t, os.IsNotExist(err), "nothing may be written outside the base dir")

	_, err = downloads.SaveStream("../escaped.txt", strings.NewReader("x"))
	assert.Error(t, err)
	_, err = downloads.Open("../escaped.txt")
	assert.Error(t, err)
	assert.Error(t, downloads.Delete("../escaped.txt"))
}
