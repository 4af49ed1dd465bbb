package resources

import (
	"context"
	"net/http"
	"strconv"

	"github.com/noah-isme/sma-admin-console/internal/api"
	"github.com/noah-isme/sma-admin-console/internal/dispatch"
	"github.com/noah-isme/sma-admin-console/internal/form"
	"github.com/noah-isme/sma-admin-console/internal/models"
	"github.com/noah-isme/sma-admin-console/internal/screen"
)

const usersPath = "/users"

// NewUserScreen assembles the user and role management screen.
func NewUserScreen(d Deps) *Screen {
	loader := screen.NewListLoader(fetchUsers(d.Client), d.Logger)

	spec := form.Spec{
		Resource: "user",
		Fields: []form.FieldSpec{
			{Name: "name", Label: "Name", Rules: "required,min=3"},
			{Name: "email", Label: "Email", Rules: "required,email"},
			{Name: "phone", Label: "Mobile number", Rules: "omitempty,bd_phone"},
			{Name: "role", Label: "Role", Rules: "required,oneof=admin accountant teacher staff", Default: string(models.RoleStaff)},
		},
		CreatePath: usersPath,
		UpdatePath: usersPath + "/:id",
	}
	ctrl := form.NewController(spec, d.Client, d.Validate, d.Notifier, refreshAfterSubmit(loader, d.Logger), d.Logger)

	endpoints := map[dispatch.Action]dispatch.Endpoint{
		dispatch.ActionToggle: {
			Method:  http.MethodPatch,
			Path:    usersPath + "/:id/toggle",
			Confirm: "Toggle this user's active state?",
		},
		dispatch.ActionDelete: {
			Method:  http.MethodDelete,
			Path:    usersPath + "/:id",
			Confirm: "Delete this user?",
		},
	}
	disp := dispatch.New(d.Client, endpoints, d.Confirmer, d.Notifier, loader.Load, nil, d.Logger)

	return &Screen{
		Name:       "users",
		Title:      "Users",
		Columns:    []string{"name", "email", "role", "active"},
		Loader:     loader,
		Form:       ctrl,
		Dispatcher: disp,
	}
}

func fetchUsers(client *api.Client) screen.FetchFunc {
	return func(ctx context.Context) ([]models.Record, error) {
		var items []models.User
		if err := client.Get(ctx, usersPath, nil, &items); err != nil {
			return nil, err
		}
		records := make([]models.Record, 0, len(items))
		for _, item := range items {
			records = append(records, models.Record{
				ID: item.ID,
				Fields: []models.Field{
					{Name: "name", Value: item.Name},
					{Name: "email", Value: item.Email},
					{Name: "phone", Value: item.Phone},
					{Name: "role", Value: string(item.Role)},
					{Name: "active", Value: strconv.FormatBool(item.Active)},
				},
			})
		}
		return records, nil
	}
}

// NewStudentPhotoScreen assembles the student photo update form: a
// multipart PUT against the student record with the usual image guards.
func NewStudentPhotoScreen(d Deps) *Screen {
	loader := screen.NewListLoader(func(ctx context.Context) ([]models.Record, error) {
		var items []models.Student
		if err := d.Client.Get(ctx, "/students", nil, &items); err != nil {
			return nil, err
		}
		records := make([]models.Record, 0, len(items))
		for _, item := range items {
			records = append(records, models.Record{
				ID: item.ID,
				Fields: []models.Field{
					{Name: "name", Value: item.Name},
					{Name: "roll", Value: item.Roll},
					{Name: "className", Value: item.ClassName},
					{Name: "section", Value: item.Section},
				},
			})
		}
		return records, nil
	}, d.Logger)

	spec := form.Spec{
		Resource: "student photo",
		Fields: []form.FieldSpec{
			{Name: "name", Label: "Name", Rules: "required"},
		},
		File: &form.FileSpec{
			Field:        "photo",
			Required:     true,
			MaxBytes:     d.Uploads.maxBytes(),
			AllowedMIMEs: d.Uploads.imageMIMEs(),
		},
		CreatePath:   "/students",
		UpdatePath:   "/students/:id",
		UpdateMethod: http.MethodPut,
		Multipart:    true,
	}
	ctrl := form.NewController(spec, d.Client, d.Validate, d.Notifier, refreshAfterSubmit(loader, d.Logger), d.Logger)

	return &Screen{
		Name:    "student-photo",
		Title:   "Student Photo Update",
		Columns: []string{"name", "roll", "className", "section"},
		Loader:  loader,
		Form:    ctrl,
	}
}
