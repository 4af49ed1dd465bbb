package dispatch

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-admin-console/internal/api"
	"github.com/noah-isme/sma-admin-console/internal/screen"
	appErrors "github.com/noah-isme/sma-admin-console/pkg/errors"
)

// Action names a record-level mutation.
type Action string

const (
	ActionApprove    Action = "approve"
	ActionReject     Action = "reject"
	ActionDelete     Action = "delete"
	ActionToggle     Action = "toggle"
	ActionSetCurrent Action = "set-current"
)

// Endpoint binds an action to its request shape. Path may contain an :id
// placeholder; Body, when set, is sent as the JSON payload.
type Endpoint struct {
	Method  string
	Path    string
	Body    map[string]interface{}
	Confirm string
}

type actionClient interface {
	Do(ctx context.Context, req api.Request, dest interface{}) (*api.Result, error)
}

// Refresher reloads state after a successful mutation. Mutation responses
// carry no updated record state; the owning list (and stats, where present)
// is always re-fetched instead.
type Refresher func(ctx context.Context) error

// Dispatcher runs fire-and-refresh actions against single records. Every
// action is guarded by a cancellable confirmation; a failed action leaves
// the list in its last fetched state, since records are never mutated
// locally.
type Dispatcher struct {
	client    actionClient
	endpoints map[Action]Endpoint
	confirmer screen.Confirmer
	notifier  screen.Notifier
	refresh   Refresher
	stats     Refresher
	logger    *zap.Logger
}

// New builds a dispatcher for one resource's actions.
func New(client actionClient, endpoints map[Action]Endpoint, confirmer screen.Confirmer, notifier screen.Notifier, refresh Refresher, stats Refresher, logger *zap.Logger) *Dispatcher {
	if confirmer == nil {
		confirmer = screen.AutoConfirm()
	}
	if notifier == nil {
		notifier = screen.NotifierFunc(func(screen.ToastLevel, string) {})
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		client:    client,
		endpoints: endpoints,
		confirmer: confirmer,
		notifier:  notifier,
		refresh:   refresh,
		stats:     stats,
		logger:    logger,
	}
}

// Supports reports whether the dispatcher knows the given action.
func (d *Dispatcher) Supports(action Action) bool {
	_, ok := d.endpoints[action]
	return ok
}

// Dispatch confirms, issues the action's request, and on success re-fetches
// the owning list and stats unconditionally. A declined confirmation returns
// ErrCancelled; callers treat it as a guard, not a failure.
func (d *Dispatcher) Dispatch(ctx context.Context, action Action, id string) error {
	endpoint, ok := d.endpoints[action]
	if !ok {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported action %q", action))
	}

	prompt := endpoint.Confirm
	if prompt == "" {
		prompt = fmt.Sprintf("Apply %s to record %s?", action, id)
	}
	if !d.confirmer.Confirm(prompt) {
		return appErrors.Clone(appErrors.ErrCancelled, "")
	}

	req := api.Request{
		Method: endpoint.Method,
		Path:   strings.ReplaceAll(endpoint.Path, ":id", id),
	}
	if endpoint.Body != nil {
		req.Body = endpoint.Body
	}

	result, err := d.client.Do(ctx, req, nil)
	if err != nil {
		d.notifier.Toast(screen.ToastError, appErrors.FromError(err).Message)
		d.logger.Warn("action failed",
			zap.String("action", string(action)),
			zap.String("record_id", id),
			zap.Error(err))
		return err
	}

	message := result.Message
	if message == "" {
		message = fmt.Sprintf("%s applied", action)
	}
	d.notifier.Toast(screen.ToastSuccess, message)

	if d.refresh != nil {
		if err := d.refresh(ctx); err != nil {
			d.logger.Warn("list refresh after action failed", zap.Error(err))
		}
	}
	if d.stats != nil {
		if err := d.stats(ctx); err != nil {
			d.logger.Warn("stats refresh after action failed", zap.Error(err))
		}
	}
	return nil
}
