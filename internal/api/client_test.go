package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/sma-admin-console/pkg/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(Options{
		BaseURL:       server.URL,
		CookieName:    "session",
		SessionCookie: "abc123",
	})
	require.NoError(t, err)
	return client
}

func TestClientAttachesCookieAndRequestID(t *testing.T) {
	var gotCookie, gotRequestID string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("session"); err == nil {
			gotCookie = c.Value
		}
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`{"success":true,"data":[]}`)) //nolint:errcheck
	})

	var items []namedItem
	require.NoError(t, client.Get(context.Background(), "/sessions", nil, &items))
	assert.Equal(t, "abc123", gotCookie)
	assert.NotEmpty(t, gotRequestID)
}

func TestClientAppliesQueryParams(t *testing.T) {
	var gotYear string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotYear = r.URL.Query().Get("year")
		w.Write([]byte(`[]`)) //nolint:errcheck
	})

	query := url.Values{}
	query.Set("year", "2025")
	var items []namedItem
	require.NoError(t, client.Get(context.Background(), "/collected-fee", query, &items))
	assert.Equal(t, "2025", gotYear)
}

func TestClientNon2xxCarriesServerMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"success":false,"message":"already exists"}`)) //nolint:errcheck
	})

	_, err := client.Post(context.Background(), "/payment-types", map[string]string{"name": "x"}, nil)
	require.Error(t, err)

	var typed *appErrors.Error
	require.True(t, errors.As(err, &typed))
	assert.Equal(t, http.StatusConflict, typed.Status)
	assert.Equal(t, "already exists", typed.Message)
}

func TestClientNon2xxFallsBackToGenericMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`boom`)) //nolint:errcheck
	})

	_, err := client.Delete(context.Background(), "/users/1")
	require.Error(t, err)

	var typed *appErrors.Error
	require.True(t, errors.As(err, &typed))
	assert.NotEmpty(t, typed.Message)
	assert.Equal(t, http.StatusInternalServerError, typed.Status)
}

func TestClientTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	client, err := New(Options{BaseURL: server.URL})
	require.NoError(t, err)
	server.Close()

	err = client.Get(context.Background(), "/sessions", nil, nil)
	require.Error(t, err)

	var typed *appErrors.Error
	require.True(t, errors.As(err, &typed))
	assert.Equal(t, appErrors.ErrTransport.Code, typed.Code)
}

func TestClientMultipartEncoding(t *testing.T) {
	var gotName, gotFilename string
	var gotFile []byte
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotName = r.FormValue("studentName")
		file, header, err := r.FormFile("photo")
		require.NoError(t, err)
		defer file.Close() //nolint:errcheck
		gotFilename = header.Filename
		gotFile, _ = io.ReadAll(file)
		w.Write([]byte(`{"success":true,"message":"created"}`)) //nolint:errcheck
	})

	result, err := client.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/online-applications",
		Form:   map[string]string{"studentName": "Rahim"},
		File:   &Upload{Field: "photo", Filename: "photo.jpg", MIME: "image/jpeg", Content: []byte("jpegbytes")},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "created", result.Message)
	assert.Equal(t, "Rahim", gotName)
	assert.Equal(t, "photo.jpg", gotFilename)
	assert.Equal(t, []byte("jpegbytes"), gotFile)
}

func TestClientGetBlob(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="result-sheet.pdf"`)
		w.Write([]byte("%PDF-1.4 fake")) //nolint:errcheck
	})

	payload, filename, err := client.GetBlob(context.Background(), "/result-sheet", nil)
	require.NoError(t, err)
	assert.Equal(t, "result-sheet.pdf", filename)
	assert.Equal(t, []byte("%PDF-1.4 fake"), payload)
}

func TestNewRejectsRelativeBaseURL(t *testing.T) {
	_, err := New(Options{BaseURL: "/not-absolute"})
	require.Error(t, err)
}
