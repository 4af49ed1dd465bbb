package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-admin-console/internal/api"
	"github.com/noah-isme/sma-admin-console/internal/form"
	"github.com/noah-isme/sma-admin-console/internal/resources"
	"github.com/noah-isme/sma-admin-console/internal/screen"
	"github.com/noah-isme/sma-admin-console/pkg/storage"
)

func newTestConsole(t *testing.T, handler http.HandlerFunc, confirmer screen.Confirmer) (*console, *bytes.Buffer) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := api.New(api.Options{BaseURL: server.URL})
	require.NoError(t, err)

	v := validator.New()
	require.NoError(t, form.Register(v))

	downloads, err := storage.NewDownloads(t.TempDir())
	require.NoError(t, err)

	out := &bytes.Buffer{}
	return &console{
		deps: resources.Deps{
			Client:    client,
			Validate:  v,
			Notifier:  &screen.MemoryNotifier{},
			Confirmer: confirmer,
			Logger:    zap.NewNop(),
		},
		client:    client,
		downloads: downloads,
		logger:    zap.NewNop(),
		out:       out,
	}, out
}

func TestActionDeclinedConfirmationIsNotAnError(t *testing.T) {
	mutations := 0
	c, out := newTestConsole(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			mutations++
		}
		w.Write([]byte(`{"data":[{"id":"1","employeeName":"Abdul Karim","startDate":"2025-03-10","endDate":"2025-03-12","status":"pending"}]}`)) //nolint:errcheck
	}, screen.ConfirmFunc(func(string) bool { return false }))

	err := c.run(context.Background(), []string{"delete", "leave", "1"})
	require.NoError(t, err, "a declined confirmation must not become an exit failure")
	assert.Contains(t, out.String(), "cancelled")
	assert.Equal(t, 0, mutations)
}

func TestCreateWithFileReferenceGoesMultipart(t *testing.T) {
	var gotContentType, gotName, gotPhotoFilename string
	c, _ := newTestConsole(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			gotContentType = r.Header.Get("Content-Type")
			require.NoError(t, r.ParseMultipartForm(1<<20))
			gotName = r.FormValue("name")
			if _, header, err := r.FormFile("photo"); err == nil {
				gotPhotoFilename = header.Filename
			}
		}
		w.Write([]byte(`{"success":true,"data":{}}`)) //nolint:errcheck
	}, screen.AutoConfirm())

	photo := filepath.Join(t.TempDir(), "photo.png")
	require.NoError(t, os.WriteFile(photo, []byte("\x89PNG\r\n\x1a\n"), 0o644))

	err := c.run(context.Background(), []string{"create", "headmasters", "name=Rahima Khatun", "phone=01712345678", "photo=@" + photo})
	require.NoError(t, err)
	assert.Contains(t, gotContentType, "multipart/form-data")
	assert.Equal(t, "Rahima Khatun", gotName)
	assert.Equal(t, "photo.png", gotPhotoFilename)
}

func TestCreateWithNonImageFileRejectedBeforeNetwork(t *testing.T) {
	posts := 0
	c, _ := newTestConsole(t, func(w http.ResponseWriter, r *http.Request) {
		posts++
		w.Write([]byte(`{"success":true,"data":{}}`)) //nolint:errcheck
	}, screen.AutoConfirm())

	doc := filepath.Join(t.TempDir(), "scan.pdf")
	require.NoError(t, os.WriteFile(doc, []byte("%PDF-1.4"), 0o644))

	err := c.run(context.Background(), []string{"create", "headmasters", "name=Rahima Khatun", "phone=01712345678", "photo=@" + doc})
	require.Error(t, err)
	assert.Equal(t, 0, posts)
}

func TestLookupsRendersOptions(t *testing.T) {
	c, out := newTestConsole(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/sessions", r.URL.Path)
		w.Write([]byte(`{"data":[{"id":"1","name":"2024-2025"},{"id":"2","name":"2025-2026"}]}`)) //nolint:errcheck
	}, screen.AutoConfirm())

	require.NoError(t, c.run(context.Background(), []string{"lookups", "sessions"}))
	assert.Contains(t, out.String(), "2024-2025")
	assert.Contains(t, out.String(), "2025-2026")
}

func TestLookupsSilentFallbackRendersEmptyTable(t *testing.T) {
	c, out := newTestConsole(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, screen.AutoConfirm())

	err := c.run(context.Background(), []string{"lookups", "classes"})
	require.NoError(t, err, "lookup failures degrade to an empty list, not an error")
	assert.Contains(t, out.String(), "ID")
}

func TestLookupsUnknownCollection(t *testing.T) {
	c, _ := newTestConsole(t, func(w http.ResponseWriter, r *http.Request) {}, screen.AutoConfirm())
	assert.Error(t, c.run(context.Background(), []string{"lookups", "nonsense"}))
}
