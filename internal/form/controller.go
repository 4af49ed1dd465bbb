package form

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-admin-console/internal/api"
	"github.com/noah-isme/sma-admin-console/internal/models"
	"github.com/noah-isme/sma-admin-console/internal/screen"
	appErrors "github.com/noah-isme/sma-admin-console/pkg/errors"
)

// Mode distinguishes creating a new record from editing an existing one.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// FieldSpec declares one form field and its validation rules, expressed as
// a validator tag expression evaluated against the field's string value.
type FieldSpec struct {
	Name    string
	Label   string
	Rules   string
	Default string
}

// FileSpec bounds a form's single file field. Violations are caught before
// any network call is made.
type FileSpec struct {
	Field        string
	Required     bool
	MaxBytes     int64
	AllowedMIMEs []string
}

// RangeSpec names a pair of date fields where End must not precede Start.
// Equal dates are accepted.
type RangeSpec struct {
	Start string
	End   string
}

// Spec declares a resource form: its fields, constraints and endpoints.
type Spec struct {
	Resource     string
	Fields       []FieldSpec
	File         *FileSpec
	DateRanges   []RangeSpec
	CreatePath   string
	UpdatePath   string
	UpdateMethod string
	Multipart    bool
}

type submitClient interface {
	Do(ctx context.Context, req api.Request, dest interface{}) (*api.Result, error)
}

// Controller holds one form's field state and drives the validate-submit
// pipeline: synchronous local validation blocks submission entirely, a
// passing form issues exactly one create or update call, and server failures
// leave the entered values intact for correction.
type Controller struct {
	spec      Spec
	client    submitClient
	validate  *validator.Validate
	notifier  screen.Notifier
	onSuccess func(ctx context.Context)
	logger    *zap.Logger

	mode      Mode
	recordID  string
	values    map[string]string
	file      *api.Upload
	busy      bool
	closed    bool
	submitErr string
}

// NewController builds a create-mode controller seeded with defaults.
func NewController(spec Spec, client submitClient, validate *validator.Validate, notifier screen.Notifier, onSuccess func(ctx context.Context), logger *zap.Logger) *Controller {
	if validate == nil {
		validate = validator.New()
		_ = Register(validate)
	}
	if notifier == nil {
		notifier = screen.NotifierFunc(func(screen.ToastLevel, string) {})
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if spec.UpdateMethod == "" {
		spec.UpdateMethod = http.MethodPut
	}
	c := &Controller{
		spec:      spec,
		client:    client,
		validate:  validate,
		notifier:  notifier,
		onSuccess: onSuccess,
		logger:    logger,
		mode:      ModeCreate,
	}
	c.Reset()
	return c
}

// Reset returns every field to its declared default and clears any file and
// submit error. Mode reverts to create.
func (c *Controller) Reset() {
	c.values = make(map[string]string, len(c.spec.Fields))
	for _, f := range c.spec.Fields {
		c.values[f.Name] = f.Default
	}
	c.mode = ModeCreate
	c.recordID = ""
	c.file = nil
	c.closed = false
	c.submitErr = ""
}

// Seed switches the controller to edit mode, loading field values from the
// record's last-known server state. Concurrent edits by other actors are not
// reconciled; last write wins.
func (c *Controller) Seed(record models.Record) {
	c.Reset()
	c.mode = ModeEdit
	c.recordID = record.ID
	for name, value := range record.Values() {
		if _, ok := c.values[name]; ok {
			c.values[name] = value
		}
	}
}

// Mode returns the controller mode.
func (c *Controller) Mode() Mode {
	return c.mode
}

// Closed reports whether an edit-mode submit succeeded and the form should
// return to the list.
func (c *Controller) Closed() bool {
	return c.closed
}

// SubmitError returns the inline error from the last failed submission.
func (c *Controller) SubmitError() string {
	return c.submitErr
}

// Value returns one field's current value.
func (c *Controller) Value(name string) string {
	return c.values[name]
}

// SetValue updates one field's current value.
func (c *Controller) SetValue(name, value string) {
	c.values[name] = value
}

// SetValues updates several fields at once.
func (c *Controller) SetValues(values map[string]string) {
	for name, value := range values {
		c.values[name] = value
	}
}

// AttachFile stages the form's file part, enforcing the size ceiling and
// MIME allow-list immediately so an oversized or mistyped file never reaches
// the network.
func (c *Controller) AttachFile(upload api.Upload) error {
	if c.spec.File == nil {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s does not accept a file", c.spec.Resource))
	}
	if msg := c.checkFile(&upload); msg != "" {
		return appErrors.Validation(map[string]string{c.spec.File.Field: msg})
	}
	upload.Field = c.spec.File.Field
	c.file = &upload
	return nil
}

// ClearFile removes the staged file part.
func (c *Controller) ClearFile() {
	c.file = nil
}

// Validate runs every field rule synchronously and returns a field-keyed
// error mapping. An empty map means the form may be submitted.
func (c *Controller) Validate() map[string]string {
	errs := make(map[string]string)
	for _, f := range c.spec.Fields {
		if f.Rules == "" {
			continue
		}
		if err := c.validate.Var(c.values[f.Name], f.Rules); err != nil {
			var fieldErrs validator.ValidationErrors
			if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
				errs[f.Name] = messageFor(fieldErrs[0])
			} else {
				errs[f.Name] = "Invalid value"
			}
		}
	}
	for _, r := range c.spec.DateRanges {
		if _, taken := errs[r.Start]; taken {
			continue
		}
		if _, taken := errs[r.End]; taken {
			continue
		}
		start, errStart := ParseDate(c.values[r.Start])
		end, errEnd := ParseDate(c.values[r.End])
		if errStart != nil || errEnd != nil {
			continue
		}
		if end.Before(start) {
			errs[r.End] = "End date must not be before start date"
		}
	}
	if c.spec.File != nil {
		if c.file == nil {
			if c.spec.File.Required && c.mode == ModeCreate {
				errs[c.spec.File.Field] = "This field is required"
			}
		} else if msg := c.checkFile(c.file); msg != "" {
			errs[c.spec.File.Field] = msg
		}
	}
	return errs
}

// Submit validates and, when the form is clean, issues exactly one create
// (POST) or update call. A non-empty field error map blocks submission with
// zero network calls. The busy flag rejects re-entrant submission while a
// call is in flight.
func (c *Controller) Submit(ctx context.Context) (map[string]string, error) {
	if c.busy {
		return nil, appErrors.Clone(appErrors.ErrBusy, "")
	}
	if errs := c.Validate(); len(errs) > 0 {
		return errs, appErrors.Validation(errs)
	}

	c.busy = true
	defer func() { c.busy = false }()

	req := c.buildRequest()
	result, err := c.client.Do(ctx, req, nil)
	if err != nil {
		msg := appErrors.FromError(err).Message
		c.submitErr = msg
		c.notifier.Toast(screen.ToastError, msg)
		c.logger.Warn("form submission failed",
			zap.String("resource", c.spec.Resource),
			zap.String("mode", string(c.mode)),
			zap.Error(err))
		return nil, err
	}

	c.submitErr = ""
	message := result.Message
	if message == "" {
		message = fmt.Sprintf("%s saved", c.spec.Resource)
	}
	c.notifier.Toast(screen.ToastSuccess, message)

	if c.mode == ModeCreate {
		c.Reset()
	} else {
		c.closed = true
	}
	if c.onSuccess != nil {
		c.onSuccess(ctx)
	}
	return nil, nil
}

func (c *Controller) buildRequest() api.Request {
	method := http.MethodPost
	path := c.spec.CreatePath
	if c.mode == ModeEdit {
		method = c.spec.UpdateMethod
		path = strings.ReplaceAll(c.spec.UpdatePath, ":id", c.recordID)
	}

	if c.spec.Multipart || c.file != nil {
		form := make(map[string]string, len(c.values))
		for name, value := range c.values {
			form[name] = value
		}
		return api.Request{Method: method, Path: path, Form: form, File: c.file}
	}

	body := make(map[string]string, len(c.values))
	for name, value := range c.values {
		body[name] = value
	}
	return api.Request{Method: method, Path: path, Body: body}
}

func (c *Controller) checkFile(upload *api.Upload) string {
	spec := c.spec.File
	if spec.MaxBytes > 0 && upload.Size() > spec.MaxBytes {
		return fmt.Sprintf("File exceeds the %d MB limit", spec.MaxBytes/(1024*1024))
	}
	if len(spec.AllowedMIMEs) > 0 && !mimeAllowed(upload.MIME, spec.AllowedMIMEs) {
		return "Unsupported file type"
	}
	return ""
}

func mimeAllowed(mime string, allowed []string) bool {
	for _, a := range allowed {
		if a == mime {
			return true
		}
		// "image/*" style wildcards.
		if prefix, ok := strings.CutSuffix(a, "/*"); ok && strings.HasPrefix(mime, prefix+"/") {
			return true
		}
	}
	return false
}
