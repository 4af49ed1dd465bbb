package resources

import (
	"context"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-admin-console/internal/api"
	"github.com/noah-isme/sma-admin-console/internal/dispatch"
	"github.com/noah-isme/sma-admin-console/internal/form"
	"github.com/noah-isme/sma-admin-console/internal/models"
	"github.com/noah-isme/sma-admin-console/internal/screen"
)

const leavePath = "/employee-leave"

// NewLeaveScreen assembles the employee leave workflow screen: list with
// status-aware transition actions, application form with date-range
// validation, and the aggregate stats summary.
func NewLeaveScreen(d Deps) *Screen {
	loader := screen.NewListLoader(fetchLeaves(d.Client), d.Logger)
	stats := newLeaveStats(d.Client, d.Logger)

	spec := form.Spec{
		Resource: "leave application",
		Fields: []form.FieldSpec{
			{Name: "employeeName", Label: "Employee name", Rules: "required,min=3"},
			{Name: "phone", Label: "Mobile number", Rules: "omitempty,bd_phone"},
			{Name: "leaveType", Label: "Leave type", Rules: "required"},
			{Name: "startDate", Label: "Start date", Rules: "required,datetime=2006-01-02"},
			{Name: "endDate", Label: "End date", Rules: "required,datetime=2006-01-02"},
			{Name: "reason", Label: "Reason", Rules: "required,min=5"},
		},
		DateRanges: []form.RangeSpec{{Start: "startDate", End: "endDate"}},
		CreatePath: leavePath,
		UpdatePath: leavePath + "/:id",
	}
	ctrl := form.NewController(spec, d.Client, d.Validate, d.Notifier, refreshAfterSubmit(loader, d.Logger), d.Logger)

	endpoints := map[dispatch.Action]dispatch.Endpoint{
		dispatch.ActionApprove: {
			Method:  http.MethodPatch,
			Path:    leavePath + "/:id/status",
			Body:    map[string]interface{}{"status": models.LeaveStatusApproved},
			Confirm: "Approve this leave application?",
		},
		dispatch.ActionReject: {
			Method:  http.MethodPatch,
			Path:    leavePath + "/:id/status",
			Body:    map[string]interface{}{"status": models.LeaveStatusRejected},
			Confirm: "Reject this leave application?",
		},
		dispatch.ActionDelete: {
			Method:  http.MethodDelete,
			Path:    leavePath + "/:id",
			Confirm: "Delete this leave application?",
		},
	}
	disp := dispatch.New(d.Client, endpoints, d.Confirmer, d.Notifier, loader.Load, stats.Refresh, d.Logger)

	return &Screen{
		Name:         "leave",
		Title:        "Employee Leave",
		Columns:      []string{"employeeName", "leaveType", "startDate", "endDate", "status"},
		Loader:       loader,
		Form:         ctrl,
		Dispatcher:   disp,
		RefreshStats: stats.Refresh,
	}
}

func fetchLeaves(client *api.Client) screen.FetchFunc {
	return func(ctx context.Context) ([]models.Record, error) {
		var items []models.LeaveApplication
		if err := client.Get(ctx, leavePath, nil, &items); err != nil {
			return nil, err
		}
		records := make([]models.Record, 0, len(items))
		for _, item := range items {
			records = append(records, models.Record{
				ID: item.ID,
				Fields: []models.Field{
					{Name: "employeeName", Value: item.EmployeeName},
					{Name: "phone", Value: item.Phone},
					{Name: "leaveType", Value: item.LeaveType},
					{Name: "startDate", Value: item.StartDate},
					{Name: "endDate", Value: item.EndDate},
					{Name: "reason", Value: item.Reason},
					{Name: "status", Value: string(item.Status)},
				},
			})
		}
		return records, nil
	}
}

// leaveStats mirrors the stats summary endpoint, re-fetched after every
// mutation alongside the list.
type leaveStats struct {
	mu      sync.Mutex
	client  *api.Client
	current models.LeaveStats
	logger  *zap.Logger
}

func newLeaveStats(client *api.Client, logger *zap.Logger) *leaveStats {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &leaveStats{client: client, logger: logger}
}

// Refresh re-fetches the summary counters.
func (s *leaveStats) Refresh(ctx context.Context) error {
	var stats models.LeaveStats
	if err := s.client.Get(ctx, leavePath+"/stats/summary", nil, &stats); err != nil {
		return err
	}
	s.mu.Lock()
	s.current = stats
	s.mu.Unlock()
	return nil
}

// Current returns the last fetched counters.
func (s *leaveStats) Current() models.LeaveStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func refreshAfterSubmit(loader *screen.ListLoader, logger *zap.Logger) func(ctx context.Context) {
	return func(ctx context.Context) {
		if err := loader.Load(ctx); err != nil {
			logger.Warn("list refresh after submit failed", zap.Error(err))
		}
	}
}

// Transitions exposes the actions a leave record's status currently offers,
// so the view only renders approve/reject on pending rows.
func Transitions(record models.Record) []dispatch.Action {
	status := models.LeaveStatus(record.Get("status"))
	actions := make([]dispatch.Action, 0, 3)
	for _, next := range status.Transitions() {
		switch next {
		case models.LeaveStatusApproved:
			actions = append(actions, dispatch.ActionApprove)
		case models.LeaveStatusRejected:
			actions = append(actions, dispatch.ActionReject)
		}
	}
	actions = append(actions, dispatch.ActionDelete)
	return actions
}
