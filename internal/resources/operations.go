package resources

import (
	"github.com/noah-isme/sma-admin-console/internal/form"
)

// The operation screens are submit-only: they carry a form but no list of
// their own, matching the one-shot nature of the underlying endpoints.

// NewAdmissionScreen assembles the online admission application form. The
// submission is multipart because of the applicant photo.
func NewAdmissionScreen(d Deps) *Screen {
	spec := form.Spec{
		Resource: "online application",
		Fields: []form.FieldSpec{
			{Name: "studentName", Label: "Student name", Rules: "required,min=3"},
			{Name: "fatherName", Label: "Father's name", Rules: "required,min=3"},
			{Name: "motherName", Label: "Mother's name", Rules: "required,min=3"},
			{Name: "dateOfBirth", Label: "Date of birth", Rules: "required,datetime=2006-01-02"},
			{Name: "age", Label: "Age", Rules: "required,numeric,int_gte=4,int_lte=18"},
			{Name: "desiredClass", Label: "Desired class", Rules: "required"},
			{Name: "guardianPhone", Label: "Guardian mobile", Rules: "required,bd_phone"},
			{Name: "address", Label: "Address", Rules: "required,min=5"},
		},
		File: &form.FileSpec{
			Field:        "photo",
			Required:     true,
			MaxBytes:     d.Uploads.maxBytes(),
			AllowedMIMEs: d.Uploads.imageMIMEs(),
		},
		CreatePath: "/online-applications",
		Multipart:  true,
	}
	ctrl := form.NewController(spec, d.Client, d.Validate, d.Notifier, nil, d.Logger)

	return &Screen{
		Name:  "admissions",
		Title: "Online Admission",
		Form:  ctrl,
	}
}

// NewBranchMigrationScreen assembles the branch migration form. The backend
// owns the actual migration and rejects same-branch requests.
func NewBranchMigrationScreen(d Deps) *Screen {
	spec := form.Spec{
		Resource: "branch migration",
		Fields: []form.FieldSpec{
			{Name: "fromBranchId", Label: "Source branch", Rules: "required"},
			{Name: "toBranchId", Label: "Destination branch", Rules: "required"},
			{Name: "session", Label: "Session", Rules: "required"},
		},
		CreatePath: "/migrate-branches",
	}
	ctrl := form.NewController(spec, d.Client, d.Validate, d.Notifier, nil, d.Logger)

	return &Screen{
		Name:  "branch-migration",
		Title: "Branch Migration",
		Form:  ctrl,
	}
}

// NewSmartAttendanceScreen assembles the smart attendance device push form.
func NewSmartAttendanceScreen(d Deps) *Screen {
	spec := form.Spec{
		Resource: "smart attendance",
		Fields: []form.FieldSpec{
			{Name: "deviceId", Label: "Device", Rules: "required"},
			{Name: "date", Label: "Date", Rules: "required,datetime=2006-01-02"},
		},
		CreatePath: "/smart-attendance",
	}
	ctrl := form.NewController(spec, d.Client, d.Validate, d.Notifier, nil, d.Logger)

	return &Screen{
		Name:  "smart-attendance",
		Title: "Smart Attendance",
		Form:  ctrl,
	}
}
