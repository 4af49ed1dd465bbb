package report

import (
	"context"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-admin-console/internal/api"
	"github.com/noah-isme/sma-admin-console/pkg/export"
	"github.com/noah-isme/sma-admin-console/pkg/storage"
)

type blobClient interface {
	Blob(ctx context.Context, req api.Request) ([]byte, string, error)
}

// Downloader fetches server-built binary reports and saves them under
// generated filenames that encode the selected filters.
type Downloader struct {
	client blobClient
	saver  fileSaver
	logger *zap.Logger
}

// NewDownloader constructs a Downloader.
func NewDownloader(client blobClient, saver fileSaver, logger *zap.Logger) *Downloader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Downloader{client: client, saver: saver, logger: logger}
}

// SheetFilters selects the result sheet to print.
type SheetFilters struct {
	ClassID     string
	SectionID   string
	ExamID      string
	Session     string
	Order       string
	Orientation export.Orientation
}

// ResultSheet fetches the printable result sheet for the filter set.
func (d *Downloader) ResultSheet(ctx context.Context, f SheetFilters) (string, error) {
	query := url.Values{}
	setIf(query, "classId", f.ClassID)
	setIf(query, "sectionId", f.SectionID)
	setIf(query, "examId", f.ExamID)
	setIf(query, "session", f.Session)
	setIf(query, "order", f.Order)
	if f.Orientation.Valid() {
		query.Set("orientation", string(f.Orientation))
	}

	payload, suggested, err := d.client.Blob(ctx, api.Request{Method: http.MethodGet, Path: "/result-sheet", Query: query})
	if err != nil {
		return "", err
	}
	filename := suggested
	if filename == "" {
		filename = storage.Filename("pdf", "result-sheet", f.ClassID, f.SectionID, f.ExamID, shortID())
	}
	return d.save(filename, payload)
}

// IncomeExpense fetches the income/expense report for a date range.
func (d *Downloader) IncomeExpense(ctx context.Context, from, to string, format Format) (string, error) {
	query := url.Values{}
	setIf(query, "from", from)
	setIf(query, "to", to)
	if format != "" {
		query.Set("format", string(format))
	} else {
		format = FormatPDF
	}

	payload, suggested, err := d.client.Blob(ctx, api.Request{Method: http.MethodGet, Path: "/reports/income-expense", Query: query})
	if err != nil {
		return "", err
	}
	filename := suggested
	if filename == "" {
		filename = storage.Filename(string(format), "income-expense", from, to, shortID())
	}
	return d.save(filename, payload)
}

// AdmitCardRequest selects the students to print admit cards for.
type AdmitCardRequest struct {
	ExamID    string   `json:"examId"`
	ClassID   string   `json:"classId"`
	SectionID string   `json:"sectionId,omitempty"`
	Rolls     []string `json:"rolls,omitempty"`
}

// AdmitCards asks the server to build the admit card sheet and saves the
// returned stream.
func (d *Downloader) AdmitCards(ctx context.Context, req AdmitCardRequest) (string, error) {
	payload, suggested, err := d.client.Blob(ctx, api.Request{Method: http.MethodPost, Path: "/admit-card", Body: req})
	if err != nil {
		return "", err
	}
	filename := suggested
	if filename == "" {
		filename = storage.Filename("pdf", "admit-cards", req.ExamID, req.ClassID, shortID())
	}
	return d.save(filename, payload)
}

func (d *Downloader) save(filename string, payload []byte) (string, error) {
	path, err := d.saver.Save(filename, payload)
	if err != nil {
		return "", err
	}
	d.logger.Info("report downloaded", zap.String("path", path), zap.Int("bytes", len(payload)))
	return path, nil
}

func setIf(query url.Values, key, value string) {
	if value != "" {
		query.Set(key, value)
	}
}

func shortID() string {
	return uuid.NewString()[:8]
}
