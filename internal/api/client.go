package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-admin-console/internal/metrics"
	appErrors "github.com/noah-isme/sma-admin-console/pkg/errors"
)

const requestIDHeader = "X-Request-ID"

// Client performs calls against the remote school API. It is explicitly
// constructed and injected rather than shared as a package-level singleton,
// so the base origin can differ per environment and tests can point it at a
// fake backend.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	cookie  *http.Cookie
	logger  *zap.Logger
	metrics *metrics.Recorder
}

// Options configures a Client.
type Options struct {
	BaseURL       string
	CookieName    string
	SessionCookie string
	HTTPClient    *http.Client
	Logger        *zap.Logger
	Metrics       *metrics.Recorder
}

// New builds a Client from options.
func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base URL must be absolute: %s", opts.BaseURL)
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	var cookie *http.Cookie
	if opts.SessionCookie != "" {
		name := opts.CookieName
		if name == "" {
			name = "session"
		}
		cookie = &http.Cookie{Name: name, Value: opts.SessionCookie}
	}
	return &Client{
		baseURL: base,
		http:    httpClient,
		cookie:  cookie,
		logger:  logger,
		metrics: opts.Metrics,
	}, nil
}

// Upload is a file part for multipart submissions.
type Upload struct {
	Field    string
	Filename string
	MIME     string
	Content  []byte
}

// Size returns the payload size in bytes.
func (u Upload) Size() int64 {
	return int64(len(u.Content))
}

// Request describes one outbound call. Body is JSON-encoded when set; Form
// and File switch the request to multipart encoding.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   interface{}
	Form   map[string]string
	File   *Upload
}

// Result carries response metadata after a successful call.
type Result struct {
	Status  int
	Message string
}

// Do performs a single attempt against the remote API: no retry, no
// timeout override beyond the underlying http.Client. The ambient session
// cookie and a generated request ID are attached to every call. The decoded
// payload lands in dest when dest is non-nil.
func (c *Client) Do(ctx context.Context, req Request, dest interface{}) (*Result, error) {
	httpReq, err := c.build(ctx, req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	duration := time.Since(start)
	if err != nil {
		c.metrics.ObserveRequest(req.Method, req.Path, 0, duration)
		c.logger.Warn("api request failed",
			zap.String("method", req.Method),
			zap.String("path", req.Path),
			zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrTransport.Code, 0, appErrors.ErrTransport.Message)
	}
	defer resp.Body.Close() //nolint:errcheck

	c.metrics.ObserveRequest(req.Method, req.Path, resp.StatusCode, duration)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrTransport.Code, 0, appErrors.ErrTransport.Message)
	}

	c.logger.Debug("api request",
		zap.String("method", req.Method),
		zap.String("path", req.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", duration))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, appErrors.FromStatus(resp.StatusCode, serverMessage(body))
	}

	msg, err := decodeEnvelope(body, dest)
	if err != nil {
		return nil, err
	}
	return &Result{Status: resp.StatusCode, Message: msg}, nil
}

// Get fetches a collection or record.
func (c *Client) Get(ctx context.Context, p string, query url.Values, dest interface{}) error {
	_, err := c.Do(ctx, Request{Method: http.MethodGet, Path: p, Query: query}, dest)
	return err
}

// Post issues a JSON create call.
func (c *Client) Post(ctx context.Context, p string, body interface{}, dest interface{}) (*Result, error) {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: p, Body: body}, dest)
}

// Put issues a JSON replace call.
func (c *Client) Put(ctx context.Context, p string, body interface{}, dest interface{}) (*Result, error) {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: p, Body: body}, dest)
}

// Patch issues a JSON partial-update call.
func (c *Client) Patch(ctx context.Context, p string, body interface{}, dest interface{}) (*Result, error) {
	return c.Do(ctx, Request{Method: http.MethodPatch, Path: p, Body: body}, dest)
}

// Delete removes a record.
func (c *Client) Delete(ctx context.Context, p string) (*Result, error) {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: p}, nil)
}

// GetBlob fetches a pre-built binary report. It returns the payload and the
// filename suggested by the Content-Disposition header, when present.
func (c *Client) GetBlob(ctx context.Context, p string, query url.Values) ([]byte, string, error) {
	return c.Blob(ctx, Request{Method: http.MethodGet, Path: p, Query: query})
}

// Blob performs a call whose response body is an opaque byte stream rather
// than an envelope, for server-generated report downloads.
func (c *Client) Blob(ctx context.Context, req Request) ([]byte, string, error) {
	httpReq, err := c.build(ctx, req)
	if err != nil {
		return nil, "", err
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	duration := time.Since(start)
	if err != nil {
		c.metrics.ObserveRequest(req.Method, req.Path, 0, duration)
		return nil, "", appErrors.Wrap(err, appErrors.ErrTransport.Code, 0, appErrors.ErrTransport.Message)
	}
	defer resp.Body.Close() //nolint:errcheck

	c.metrics.ObserveRequest(req.Method, req.Path, resp.StatusCode, duration)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrTransport.Code, 0, appErrors.ErrTransport.Message)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, "", appErrors.FromStatus(resp.StatusCode, serverMessage(body))
	}

	c.metrics.ObserveDownload(len(body))

	filename := ""
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			filename = params["filename"]
		}
	}
	return body, filename, nil
}

func (c *Client) build(ctx context.Context, req Request) (*http.Request, error) {
	target := *c.baseURL
	target.Path = path.Join(target.Path, "/", req.Path)
	if req.Query != nil {
		target.RawQuery = req.Query.Encode()
	}

	var (
		reader      io.Reader
		contentType string
	)
	switch {
	case req.File != nil || req.Form != nil:
		buf := &bytes.Buffer{}
		writer := multipart.NewWriter(buf)
		for name, value := range req.Form {
			if err := writer.WriteField(name, value); err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, 0, "encode multipart field")
			}
		}
		if req.File != nil {
			part, err := writer.CreateFormFile(req.File.Field, req.File.Filename)
			if err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, 0, "encode multipart file")
			}
			if _, err := part.Write(req.File.Content); err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, 0, "encode multipart file")
			}
		}
		if err := writer.Close(); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, 0, "finalise multipart body")
		}
		reader = buf
		contentType = writer.FormDataContentType()
	case req.Body != nil:
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, 0, "encode request body")
		}
		reader = bytes.NewReader(payload)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target.String(), reader)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, 0, "build request")
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(requestIDHeader, uuid.NewString())
	if c.cookie != nil {
		httpReq.AddCookie(c.cookie)
	}
	if !strings.HasPrefix(httpReq.URL.Path, "/") {
		httpReq.URL.Path = "/" + httpReq.URL.Path
	}
	return httpReq, nil
}
