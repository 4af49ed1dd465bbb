package resources

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-admin-console/internal/api"
	"github.com/noah-isme/sma-admin-console/internal/models"
)

// Lookups serves the reference collections that populate dropdowns. These
// reads degrade silently: a failure is logged and yields an empty list, with
// no user-visible toast, since "no data available" is an acceptable state
// for a selector.
type Lookups struct {
	client *api.Client
	logger *zap.Logger
}

// NewLookups constructs the lookup reader.
func NewLookups(client *api.Client, logger *zap.Logger) *Lookups {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Lookups{client: client, logger: logger}
}

func (l *Lookups) options(ctx context.Context, path string) []models.Option {
	var items []models.Option
	if err := l.client.Get(ctx, path, nil, &items); err != nil {
		l.logger.Warn("lookup failed", zap.String("path", path), zap.Error(err))
		return nil
	}
	return items
}

// Sessions lists academic sessions.
func (l *Lookups) Sessions(ctx context.Context) []models.Option { return l.options(ctx, "/sessions") }

// Classes lists school classes.
func (l *Lookups) Classes(ctx context.Context) []models.Option { return l.options(ctx, "/class") }

// Sections lists class sections.
func (l *Lookups) Sections(ctx context.Context) []models.Option { return l.options(ctx, "/sections") }

// Batches lists student batches.
func (l *Lookups) Batches(ctx context.Context) []models.Option { return l.options(ctx, "/batches") }

// Branches lists school branches.
func (l *Lookups) Branches(ctx context.Context) []models.Option { return l.options(ctx, "/branches") }

// ExamCategories lists exam categories.
func (l *Lookups) ExamCategories(ctx context.Context) []models.Option {
	return l.options(ctx, "/exam-categories")
}

// ExamHalls lists exam halls.
func (l *Lookups) ExamHalls(ctx context.Context) []models.Option {
	return l.options(ctx, "/exam-hall")
}

// BankAccounts lists configured bank accounts.
func (l *Lookups) BankAccounts(ctx context.Context) []models.Option {
	return l.options(ctx, "/bank-accounts")
}

// ExamTimetable lists exam timetable slots.
func (l *Lookups) ExamTimetable(ctx context.Context) []models.ExamSlot {
	var items []models.ExamSlot
	if err := l.client.Get(ctx, "/exam-timetable", nil, &items); err != nil {
		l.logger.Warn("lookup failed", zap.String("path", "/exam-timetable"), zap.Error(err))
		return nil
	}
	return items
}

// Students lists students for selector use.
func (l *Lookups) Students(ctx context.Context) []models.Option {
	return l.options(ctx, "/students")
}

// Teachers returns the teacher roster. Unlike the other lookups this one
// propagates its error: the monthly attendance report cannot run without it.
func (l *Lookups) Teachers(ctx context.Context) ([]models.TeacherInfo, error) {
	var items []models.TeacherInfo
	if err := l.client.Get(ctx, "/teacher-list", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// FacebookPage returns the school's configured social page, or nil.
func (l *Lookups) FacebookPage(ctx context.Context) *models.FacebookPage {
	var page models.FacebookPage
	if err := l.client.Get(ctx, "/facebook-page", nil, &page); err != nil {
		l.logger.Warn("lookup failed", zap.String("path", "/facebook-page"), zap.Error(err))
		return nil
	}
	return &page
}
