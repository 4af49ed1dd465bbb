package form

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-admin-console/internal/api"
	"github.com/noah-isme/sma-admin-console/internal/models"
	"github.com/noah-isme/sma-admin-console/internal/screen"
	appErrors "github.com/noah-isme/sma-admin-console/pkg/errors"
)

type clientStub struct {
	calls   []api.Request
	err     error
	message string
	onDo    func()
}

func (s *clientStub) Do(ctx context.Context, req api.Request, dest interface{}) (*api.Result, error) {
	s.calls = append(s.calls, req)
	if s.onDo != nil {
		s.onDo()
	}
	if s.err != nil {
		return nil, s.err
	}
	return &api.Result{Status: http.StatusOK, Message: s.message}, nil
}

func newValidate(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	require.NoError(t, Register(v))
	return v
}

func leaveSpec() Spec {
	return Spec{
		Resource: "leave application",
		Fields: []FieldSpec{
			{Name: "employeeName", Label: "Employee name", Rules: "required,min=3"},
			{Name: "phone", Label: "Mobile number", Rules: "omitempty,bd_phone"},
			{Name: "startDate", Label: "Start date", Rules: "required,datetime=2006-01-02"},
			{Name: "endDate", Label: "End date", Rules: "required,datetime=2006-01-02"},
			{Name: "reason", Label: "Reason", Rules: "required,min=5"},
		},
		DateRanges: []RangeSpec{{Start: "startDate", End: "endDate"}},
		CreatePath: "/employee-leave",
		UpdatePath: "/employee-leave/:id",
	}
}

func validLeaveValues() map[string]string {
	return map[string]string{
		"employeeName": "Karim Uddin",
		"phone":        "01712345678",
		"startDate":    "2025-03-10",
		"endDate":      "2025-03-12",
		"reason":       "family emergency",
	}
}

func TestSubmitBlankRequiredFieldsBlocksNetwork(t *testing.T) {
	stub := &clientStub{}
	ctrl := NewController(leaveSpec(), stub, newValidate(t), nil, nil, nil)

	fieldErrs, err := ctrl.Submit(context.Background())
	require.Error(t, err)
	assert.NotEmpty(t, fieldErrs)
	assert.Contains(t, fieldErrs, "employeeName")
	assert.Contains(t, fieldErrs, "reason")
	assert.Empty(t, stub.calls, "invalid submit must make zero network calls")
}

func TestSubmitValidCreateMakesExactlyOneCall(t *testing.T) {
	stub := &clientStub{}
	notifier := &screen.MemoryNotifier{}
	refreshed := 0
	ctrl := NewController(leaveSpec(), stub, newValidate(t), notifier, func(context.Context) { refreshed++ }, nil)
	ctrl.SetValues(validLeaveValues())

	fieldErrs, err := ctrl.Submit(context.Background())
	require.NoError(t, err)
	assert.Empty(t, fieldErrs)
	require.Len(t, stub.calls, 1)
	assert.Equal(t, http.MethodPost, stub.calls[0].Method)
	assert.Equal(t, "/employee-leave", stub.calls[0].Path)
	assert.Equal(t, 1, refreshed)

	// Create mode resets to defaults on success.
	assert.Equal(t, ModeCreate, ctrl.Mode())
	assert.Empty(t, ctrl.Value("employeeName"))

	toasts := notifier.Drain()
	require.Len(t, toasts, 1)
	assert.Equal(t, screen.ToastSuccess, toasts[0].Level)
}

func TestSubmitEditUsesUpdateEndpoint(t *testing.T) {
	stub := &clientStub{}
	refreshed := 0
	ctrl := NewController(leaveSpec(), stub, newValidate(t), nil, func(context.Context) { refreshed++ }, nil)

	ctrl.Seed(models.Record{
		ID: "42",
		Fields: []models.Field{
			{Name: "employeeName", Value: "Karim Uddin"},
			{Name: "startDate", Value: "2025-03-10"},
			{Name: "endDate", Value: "2025-03-12"},
			{Name: "reason", Value: "medical leave"},
		},
	})
	require.Equal(t, ModeEdit, ctrl.Mode())

	fieldErrs, err := ctrl.Submit(context.Background())
	require.NoError(t, err)
	assert.Empty(t, fieldErrs)
	require.Len(t, stub.calls, 1)
	assert.Equal(t, http.MethodPut, stub.calls[0].Method)
	assert.Equal(t, "/employee-leave/42", stub.calls[0].Path)
	assert.True(t, ctrl.Closed())
	assert.Equal(t, 1, refreshed)
}

func TestSubmitServerFailureKeepsValues(t *testing.T) {
	stub := &clientStub{err: appErrors.Clone(appErrors.ErrServer, "overlapping leave exists")}
	notifier := &screen.MemoryNotifier{}
	ctrl := NewController(leaveSpec(), stub, newValidate(t), notifier, nil, nil)
	ctrl.SetValues(validLeaveValues())

	_, err := ctrl.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Karim Uddin", ctrl.Value("employeeName"), "entered values must survive a failed submit")
	assert.Equal(t, "overlapping leave exists", ctrl.SubmitError())

	toasts := notifier.Drain()
	require.Len(t, toasts, 1)
	assert.Equal(t, screen.ToastError, toasts[0].Level)
}

func TestSubmitWhileBusyIsRejected(t *testing.T) {
	stub := &clientStub{}
	ctrl := NewController(leaveSpec(), stub, newValidate(t), nil, nil, nil)
	ctrl.SetValues(validLeaveValues())

	// Re-enter Submit while the first call is still in flight.
	var busyErr error
	stub.onDo = func() {
		_, busyErr = ctrl.Submit(context.Background())
	}

	_, err := ctrl.Submit(context.Background())
	require.NoError(t, err)

	var typed *appErrors.Error
	require.True(t, errors.As(busyErr, &typed))
	assert.Equal(t, appErrors.ErrBusy.Code, typed.Code)
	assert.Len(t, stub.calls, 1, "double submission must be prevented")
}

func TestDateRangeEqualDatesAccepted(t *testing.T) {
	stub := &clientStub{}
	ctrl := NewController(leaveSpec(), stub, newValidate(t), nil, nil, nil)
	values := validLeaveValues()
	values["endDate"] = values["startDate"]
	ctrl.SetValues(values)

	fieldErrs := ctrl.Validate()
	assert.Empty(t, fieldErrs)
}

func TestDateRangeInvertedRejected(t *testing.T) {
	stub := &clientStub{}
	ctrl := NewController(leaveSpec(), stub, newValidate(t), nil, nil, nil)
	values := validLeaveValues()
	values["startDate"] = "2025-03-12"
	values["endDate"] = "2025-03-10"
	ctrl.SetValues(values)

	fieldErrs := ctrl.Validate()
	assert.Contains(t, fieldErrs, "endDate")
}

func photoSpec() Spec {
	return Spec{
		Resource: "headmaster",
		Fields: []FieldSpec{
			{Name: "name", Label: "Name", Rules: "required"},
		},
		File: &FileSpec{
			Field:        "photo",
			MaxBytes:     10 * 1024 * 1024,
			AllowedMIMEs: []string{"image/*"},
		},
		CreatePath: "/headmasters-list",
		UpdatePath: "/headmasters-list/:id",
	}
}

func TestAttachFileOversizedRejectedBeforeNetwork(t *testing.T) {
	stub := &clientStub{}
	ctrl := NewController(photoSpec(), stub, newValidate(t), nil, nil, nil)
	ctrl.SetValue("name", "Rahima Khatun")

	err := ctrl.AttachFile(api.Upload{
		Filename: "huge.jpg",
		MIME:     "image/jpeg",
		Content:  make([]byte, 11*1024*1024),
	})
	require.Error(t, err)

	var typed *appErrors.Error
	require.True(t, errors.As(err, &typed))
	assert.Contains(t, typed.Fields, "photo")
	assert.Empty(t, stub.calls)
}

func TestAttachFileWrongMIMERejected(t *testing.T) {
	stub := &clientStub{}
	ctrl := NewController(photoSpec(), stub, newValidate(t), nil, nil, nil)

	err := ctrl.AttachFile(api.Upload{
		Filename: "scan.pdf",
		MIME:     "application/pdf",
		Content:  []byte("pdf"),
	})
	require.Error(t, err)
	assert.Empty(t, stub.calls)
}

func TestSubmitWithFileGoesMultipart(t *testing.T) {
	stub := &clientStub{}
	ctrl := NewController(photoSpec(), stub, newValidate(t), nil, nil, nil)
	ctrl.SetValue("name", "Rahima Khatun")

	require.NoError(t, ctrl.AttachFile(api.Upload{
		Filename: "photo.png",
		MIME:     "image/png",
		Content:  []byte("pngbytes"),
	}))

	fieldErrs, err := ctrl.Submit(context.Background())
	require.NoError(t, err)
	assert.Empty(t, fieldErrs)
	require.Len(t, stub.calls, 1)
	require.NotNil(t, stub.calls[0].File)
	assert.Equal(t, "photo", stub.calls[0].File.Field)
	assert.Equal(t, "Rahima Khatun", stub.calls[0].Form["name"])
}

func TestRequiredFileMissingBlocksCreate(t *testing.T) {
	spec := photoSpec()
	spec.File.Required = true
	stub := &clientStub{}
	ctrl := NewController(spec, stub, newValidate(t), nil, nil, nil)
	ctrl.SetValue("name", "Rahima Khatun")

	fieldErrs, err := ctrl.Submit(context.Background())
	require.Error(t, err)
	assert.Contains(t, fieldErrs, "photo")
	assert.Empty(t, stub.calls)
}
