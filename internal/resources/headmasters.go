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

const headmasterPath = "/headmasters-list"

// NewHeadmasterScreen assembles the headmaster records screen. The
// set-as-current action relies on the server to demote the previous holder;
// the client only re-fetches afterwards.
func NewHeadmasterScreen(d Deps) *Screen {
	loader := screen.NewListLoader(fetchHeadmasters(d.Client), d.Logger)

	spec := form.Spec{
		Resource: "headmaster",
		Fields: []form.FieldSpec{
			{Name: "name", Label: "Name", Rules: "required,min=3"},
			{Name: "phone", Label: "Mobile number", Rules: "required,bd_phone"},
			{Name: "email", Label: "Email", Rules: "omitempty,email"},
			{Name: "tenure", Label: "Tenure", Rules: ""},
		},
		File: &form.FileSpec{
			Field:        "photo",
			MaxBytes:     d.Uploads.maxBytes(),
			AllowedMIMEs: d.Uploads.imageMIMEs(),
		},
		CreatePath: headmasterPath,
		UpdatePath: headmasterPath + "/:id",
	}
	ctrl := form.NewController(spec, d.Client, d.Validate, d.Notifier, refreshAfterSubmit(loader, d.Logger), d.Logger)

	endpoints := map[dispatch.Action]dispatch.Endpoint{
		dispatch.ActionSetCurrent: {
			Method:  http.MethodPut,
			Path:    headmasterPath + "/:id/set-current",
			Confirm: "Set this headmaster as current?",
		},
		dispatch.ActionToggle: {
			Method:  http.MethodPatch,
			Path:    headmasterPath + "/:id/toggle",
			Confirm: "Toggle this headmaster's active state?",
		},
		dispatch.ActionDelete: {
			Method:  http.MethodDelete,
			Path:    headmasterPath + "/:id",
			Confirm: "Delete this headmaster record?",
		},
	}
	disp := dispatch.New(d.Client, endpoints, d.Confirmer, d.Notifier, loader.Load, nil, d.Logger)

	return &Screen{
		Name:       "headmasters",
		Title:      "Headmasters",
		Columns:    []string{"name", "phone", "tenure", "current", "active"},
		Loader:     loader,
		Form:       ctrl,
		Dispatcher: disp,
	}
}

func fetchHeadmasters(client *api.Client) screen.FetchFunc {
	return func(ctx context.Context) ([]models.Record, error) {
		var items []models.Headmaster
		if err := client.Get(ctx, headmasterPath, nil, &items); err != nil {
			return nil, err
		}
		records := make([]models.Record, 0, len(items))
		for _, item := range items {
			records = append(records, models.Record{
				ID: item.ID,
				Fields: []models.Field{
					{Name: "name", Value: item.Name},
					{Name: "phone", Value: item.Phone},
					{Name: "email", Value: item.Email},
					{Name: "tenure", Value: item.Tenure},
					{Name: "current", Value: strconv.FormatBool(item.Current)},
					{Name: "active", Value: strconv.FormatBool(item.Active)},
				},
			})
		}
		return records, nil
	}
}
