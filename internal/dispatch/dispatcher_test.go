package dispatch

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-admin-console/internal/api"
	"github.com/noah-isme/sma-admin-console/internal/screen"
	appErrors "github.com/noah-isme/sma-admin-console/pkg/errors"
)

type clientStub struct {
	calls []api.Request
	err   error
}

func (s *clientStub) Do(ctx context.Context, req api.Request, dest interface{}) (*api.Result, error) {
	s.calls = append(s.calls, req)
	if s.err != nil {
		return nil, s.err
	}
	return &api.Result{Status: http.StatusOK, Message: "status updated"}, nil
}

func leaveEndpoints() map[Action]Endpoint {
	return map[Action]Endpoint{
		ActionApprove: {
			Method:  http.MethodPatch,
			Path:    "/employee-leave/:id/status",
			Body:    map[string]interface{}{"status": "approved"},
			Confirm: "Approve this leave application?",
		},
		ActionDelete: {
			Method: http.MethodDelete,
			Path:   "/employee-leave/:id",
		},
	}
}

func TestDispatchDeclinedConfirmationMakesNoCall(t *testing.T) {
	stub := &clientStub{}
	decline := screen.ConfirmFunc(func(string) bool { return false })
	d := New(stub, leaveEndpoints(), decline, nil, nil, nil, nil)

	err := d.Dispatch(context.Background(), ActionApprove, "7")
	require.Error(t, err)

	var typed *appErrors.Error
	require.True(t, errors.As(err, &typed))
	assert.Equal(t, appErrors.ErrCancelled.Code, typed.Code)
	assert.Empty(t, stub.calls, "a declined confirmation must not reach the network")
}

func TestDispatchSuccessRefreshesListAndStats(t *testing.T) {
	stub := &clientStub{}
	notifier := &screen.MemoryNotifier{}
	listRefreshed, statsRefreshed := 0, 0
	d := New(stub, leaveEndpoints(), screen.AutoConfirm(), notifier,
		func(context.Context) error { listRefreshed++; return nil },
		func(context.Context) error { statsRefreshed++; return nil },
		nil)

	err := d.Dispatch(context.Background(), ActionApprove, "7")
	require.NoError(t, err)

	require.Len(t, stub.calls, 1)
	assert.Equal(t, http.MethodPatch, stub.calls[0].Method)
	assert.Equal(t, "/employee-leave/7/status", stub.calls[0].Path)
	assert.Equal(t, 1, listRefreshed)
	assert.Equal(t, 1, statsRefreshed)

	toasts := notifier.Drain()
	require.Len(t, toasts, 1)
	assert.Equal(t, screen.ToastSuccess, toasts[0].Level)
	assert.Equal(t, "status updated", toasts[0].Message)
}

func TestDispatchFailureLeavesRefreshersUntouched(t *testing.T) {
	stub := &clientStub{err: appErrors.Clone(appErrors.ErrServer, "already processed")}
	notifier := &screen.MemoryNotifier{}
	refreshed := 0
	d := New(stub, leaveEndpoints(), screen.AutoConfirm(), notifier,
		func(context.Context) error { refreshed++; return nil }, nil, nil)

	err := d.Dispatch(context.Background(), ActionDelete, "7")
	require.Error(t, err)
	assert.Equal(t, 0, refreshed, "a failed action must not re-fetch the list")

	toasts := notifier.Drain()
	require.Len(t, toasts, 1)
	assert.Equal(t, screen.ToastError, toasts[0].Level)
	assert.Equal(t, "already processed", toasts[0].Message)
}

func TestDispatchUnknownActionRejected(t *testing.T) {
	stub := &clientStub{}
	d := New(stub, leaveEndpoints(), screen.AutoConfirm(), nil, nil, nil, nil)

	assert.False(t, d.Supports(ActionSetCurrent))
	err := d.Dispatch(context.Background(), ActionSetCurrent, "7")
	require.Error(t, err)
	assert.Empty(t, stub.calls)
}
