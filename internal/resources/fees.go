package resources

import (
	"context"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-admin-console/internal/api"
	"github.com/noah-isme/sma-admin-console/internal/models"
)

// FeeReports serves the read-only fee views: the monthly collected-fee
// aggregate and the due-fee SMS search.
type FeeReports struct {
	client *api.Client
	logger *zap.Logger
}

// NewFeeReports constructs the fee report reader.
func NewFeeReports(client *api.Client, logger *zap.Logger) *FeeReports {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeeReports{client: client, logger: logger}
}

// CollectedByYear fetches the month-by-month collection aggregate.
func (f *FeeReports) CollectedByYear(ctx context.Context, year int) ([]models.CollectedFeeMonth, error) {
	query := url.Values{}
	query.Set("year", strconv.Itoa(year))
	var months []models.CollectedFeeMonth
	if err := f.client.Get(ctx, "/collected-fee", query, &months); err != nil {
		return nil, err
	}
	return months, nil
}

// DueFeeSearch finds students with outstanding fees for SMS notification.
func (f *FeeReports) DueFeeSearch(ctx context.Context, classID, section string) ([]models.DueFeeRecord, error) {
	query := url.Values{}
	if classID != "" {
		query.Set("classId", classID)
	}
	if section != "" {
		query.Set("section", section)
	}
	var records []models.DueFeeRecord
	if err := f.client.Get(ctx, "/send-sms", query, &records); err != nil {
		return nil, err
	}
	return records, nil
}
