package resources

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/noah-isme/sma-admin-console/internal/dispatch"
	"github.com/noah-isme/sma-admin-console/internal/form"
	"github.com/noah-isme/sma-admin-console/internal/models"
	"github.com/noah-isme/sma-admin-console/internal/screen"
)

// The catalog screens are plain CRUD over small reference resources. They
// share one assembly helper and differ only in fields and endpoints.

const (
	paymentTypePath     = "/payment-types"
	blogCategoryPath    = "/blog-category"
	seatArrangementPath = "/seat-arrangement"
	totalSeatsPath      = "/total-seats"
	combinedResultPath  = "/combined-result"
)

func crudEndpoints(base, noun string) map[dispatch.Action]dispatch.Endpoint {
	return map[dispatch.Action]dispatch.Endpoint{
		dispatch.ActionDelete: {
			Method:  http.MethodDelete,
			Path:    base + "/:id",
			Confirm: "Delete this " + noun + "?",
		},
	}
}

// NewPaymentTypeScreen assembles the fee payment types screen.
func NewPaymentTypeScreen(d Deps) *Screen {
	loader := screen.NewListLoader(func(ctx context.Context) ([]models.Record, error) {
		var items []models.PaymentType
		if err := d.Client.Get(ctx, paymentTypePath, nil, &items); err != nil {
			return nil, err
		}
		records := make([]models.Record, 0, len(items))
		for _, item := range items {
			records = append(records, models.Record{
				ID: item.ID,
				Fields: []models.Field{
					{Name: "name", Value: item.Name},
					{Name: "description", Value: item.Description},
					{Name: "active", Value: strconv.FormatBool(item.Active)},
				},
			})
		}
		return records, nil
	}, d.Logger)

	spec := form.Spec{
		Resource: "payment type",
		Fields: []form.FieldSpec{
			{Name: "name", Label: "Name", Rules: "required,min=2"},
			{Name: "description", Label: "Description", Rules: ""},
		},
		CreatePath: paymentTypePath,
		UpdatePath: paymentTypePath + "/:id",
	}
	ctrl := form.NewController(spec, d.Client, d.Validate, d.Notifier, refreshAfterSubmit(loader, d.Logger), d.Logger)

	endpoints := crudEndpoints(paymentTypePath, "payment type")
	endpoints[dispatch.ActionToggle] = dispatch.Endpoint{
		Method:  http.MethodPatch,
		Path:    paymentTypePath + "/:id/toggle",
		Confirm: "Toggle this payment type?",
	}
	disp := dispatch.New(d.Client, endpoints, d.Confirmer, d.Notifier, loader.Load, nil, d.Logger)

	return &Screen{
		Name:       "payment-types",
		Title:      "Payment Types",
		Columns:    []string{"name", "description", "active"},
		Loader:     loader,
		Form:       ctrl,
		Dispatcher: disp,
	}
}

// NewBlogCategoryScreen assembles the blog category screen.
func NewBlogCategoryScreen(d Deps) *Screen {
	loader := screen.NewListLoader(func(ctx context.Context) ([]models.Record, error) {
		var items []models.BlogCategory
		if err := d.Client.Get(ctx, blogCategoryPath, nil, &items); err != nil {
			return nil, err
		}
		records := make([]models.Record, 0, len(items))
		for _, item := range items {
			records = append(records, models.Record{
				ID: item.ID,
				Fields: []models.Field{
					{Name: "name", Value: item.Name},
					{Name: "slug", Value: item.Slug},
				},
			})
		}
		return records, nil
	}, d.Logger)

	spec := form.Spec{
		Resource: "blog category",
		Fields: []form.FieldSpec{
			{Name: "name", Label: "Name", Rules: "required,min=2"},
		},
		CreatePath: blogCategoryPath,
		UpdatePath: blogCategoryPath + "/:id",
	}
	ctrl := form.NewController(spec, d.Client, d.Validate, d.Notifier, refreshAfterSubmit(loader, d.Logger), d.Logger)
	disp := dispatch.New(d.Client, crudEndpoints(blogCategoryPath, "blog category"), d.Confirmer, d.Notifier, loader.Load, nil, d.Logger)

	return &Screen{
		Name:       "blog-categories",
		Title:      "Blog Categories",
		Columns:    []string{"name", "slug"},
		Loader:     loader,
		Form:       ctrl,
		Dispatcher: disp,
	}
}

// NewSeatArrangementScreen assembles the exam-hall seat arrangement screen.
func NewSeatArrangementScreen(d Deps) *Screen {
	loader := screen.NewListLoader(func(ctx context.Context) ([]models.Record, error) {
		var items []models.SeatArrangement
		if err := d.Client.Get(ctx, seatArrangementPath, nil, &items); err != nil {
			return nil, err
		}
		records := make([]models.Record, 0, len(items))
		for _, item := range items {
			records = append(records, models.Record{
				ID: item.ID,
				Fields: []models.Field{
					{Name: "className", Value: item.ClassName},
					{Name: "section", Value: item.Section},
					{Name: "examName", Value: item.ExamName},
					{Name: "hallName", Value: item.HallName},
					{Name: "startRoll", Value: strconv.Itoa(item.StartRoll)},
					{Name: "endRoll", Value: strconv.Itoa(item.EndRoll)},
				},
			})
		}
		return records, nil
	}, d.Logger)

	spec := form.Spec{
		Resource: "seat arrangement",
		Fields: []form.FieldSpec{
			{Name: "className", Label: "Class", Rules: "required"},
			{Name: "section", Label: "Section", Rules: "required"},
			{Name: "examName", Label: "Exam", Rules: ""},
			{Name: "hallName", Label: "Hall", Rules: "required"},
			{Name: "startRoll", Label: "Start roll", Rules: "required,numeric,int_gte=1"},
			{Name: "endRoll", Label: "End roll", Rules: "required,numeric,int_gte=1"},
		},
		CreatePath: seatArrangementPath,
		UpdatePath: seatArrangementPath + "/:id",
	}
	ctrl := form.NewController(spec, d.Client, d.Validate, d.Notifier, refreshAfterSubmit(loader, d.Logger), d.Logger)
	disp := dispatch.New(d.Client, crudEndpoints(seatArrangementPath, "seat arrangement"), d.Confirmer, d.Notifier, loader.Load, nil, d.Logger)

	return &Screen{
		Name:       "seat-arrangements",
		Title:      "Seat Arrangements",
		Columns:    []string{"className", "section", "hallName", "startRoll", "endRoll"},
		Loader:     loader,
		Form:       ctrl,
		Dispatcher: disp,
	}
}

// NewTotalSeatsScreen assembles the per-class seat capacity screen.
func NewTotalSeatsScreen(d Deps) *Screen {
	loader := screen.NewListLoader(func(ctx context.Context) ([]models.Record, error) {
		var items []models.TotalSeats
		if err := d.Client.Get(ctx, totalSeatsPath, nil, &items); err != nil {
			return nil, err
		}
		records := make([]models.Record, 0, len(items))
		for _, item := range items {
			records = append(records, models.Record{
				ID: item.ID,
				Fields: []models.Field{
					{Name: "className", Value: item.ClassName},
					{Name: "session", Value: item.Session},
					{Name: "seats", Value: strconv.Itoa(item.Seats)},
				},
			})
		}
		return records, nil
	}, d.Logger)

	spec := form.Spec{
		Resource: "seat capacity",
		Fields: []form.FieldSpec{
			{Name: "className", Label: "Class", Rules: "required"},
			{Name: "session", Label: "Session", Rules: "required"},
			{Name: "seats", Label: "Seats", Rules: "required,numeric,int_gte=1,int_lte=500"},
		},
		CreatePath: totalSeatsPath,
		UpdatePath: totalSeatsPath + "/:id",
	}
	ctrl := form.NewController(spec, d.Client, d.Validate, d.Notifier, refreshAfterSubmit(loader, d.Logger), d.Logger)
	disp := dispatch.New(d.Client, crudEndpoints(totalSeatsPath, "seat capacity record"), d.Confirmer, d.Notifier, loader.Load, nil, d.Logger)

	return &Screen{
		Name:       "total-seats",
		Title:      "Total Seats",
		Columns:    []string{"className", "session", "seats"},
		Loader:     loader,
		Form:       ctrl,
		Dispatcher: disp,
	}
}

// NewCombinedResultScreen assembles the combined exam result screen.
func NewCombinedResultScreen(d Deps) *Screen {
	loader := screen.NewListLoader(func(ctx context.Context) ([]models.Record, error) {
		var items []models.CombinedResult
		if err := d.Client.Get(ctx, combinedResultPath, nil, &items); err != nil {
			return nil, err
		}
		records := make([]models.Record, 0, len(items))
		for _, item := range items {
			records = append(records, models.Record{
				ID: item.ID,
				Fields: []models.Field{
					{Name: "name", Value: item.Name},
					{Name: "className", Value: item.ClassName},
					{Name: "session", Value: item.Session},
					{Name: "examNames", Value: strings.Join(item.ExamNames, ", ")},
					{Name: "published", Value: strconv.FormatBool(item.Published)},
				},
			})
		}
		return records, nil
	}, d.Logger)

	spec := form.Spec{
		Resource: "combined result",
		Fields: []form.FieldSpec{
			{Name: "name", Label: "Name", Rules: "required,min=3"},
			{Name: "className", Label: "Class", Rules: "required"},
			{Name: "session", Label: "Session", Rules: "required"},
			{Name: "examNames", Label: "Exams", Rules: "required"},
		},
		CreatePath: combinedResultPath,
		UpdatePath: combinedResultPath + "/:id",
	}
	ctrl := form.NewController(spec, d.Client, d.Validate, d.Notifier, refreshAfterSubmit(loader, d.Logger), d.Logger)
	disp := dispatch.New(d.Client, crudEndpoints(combinedResultPath, "combined result"), d.Confirmer, d.Notifier, loader.Load, nil, d.Logger)

	return &Screen{
		Name:       "combined-results",
		Title:      "Combined Results",
		Columns:    []string{"name", "className", "session", "published"},
		Loader:     loader,
		Form:       ctrl,
		Dispatcher: disp,
	}
}
