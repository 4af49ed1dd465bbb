package resources

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-admin-console/internal/api"
	"github.com/noah-isme/sma-admin-console/internal/dispatch"
	"github.com/noah-isme/sma-admin-console/internal/form"
	"github.com/noah-isme/sma-admin-console/internal/screen"
)

// Deps carries the shared collaborators every screen is assembled from. The
// client is injected, never ambient.
type Deps struct {
	Client    *api.Client
	Validate  *validator.Validate
	Notifier  screen.Notifier
	Confirmer screen.Confirmer
	Uploads   UploadPolicy
	Logger    *zap.Logger
}

// UploadPolicy bounds the file fields across every screen. Zero values fall
// back to the shipped defaults.
type UploadPolicy struct {
	MaxFileSizeBytes  int64
	AllowedImageMIMEs []string
}

func (p UploadPolicy) maxBytes() int64 {
	if p.MaxFileSizeBytes > 0 {
		return p.MaxFileSizeBytes
	}
	return 10 * 1024 * 1024
}

func (p UploadPolicy) imageMIMEs() []string {
	if len(p.AllowedImageMIMEs) > 0 {
		return p.AllowedImageMIMEs
	}
	return []string{"image/*"}
}

// Screen bundles one resource's list loader, form controller and action
// dispatcher. Screens are independent of each other; each owns its own
// isolated state and re-fetches from scratch when opened.
type Screen struct {
	Name       string
	Title      string
	Columns    []string
	Loader     *screen.ListLoader
	Form       *form.Controller
	Dispatcher *dispatch.Dispatcher

	// RefreshStats reloads the screen's aggregate stats endpoint, when the
	// resource has one.
	RefreshStats func(ctx context.Context) error
}

// Builder assembles a screen from shared dependencies.
type Builder func(d Deps) *Screen

// Registry maps resource names to their screen builders.
func Registry() map[string]Builder {
	return map[string]Builder{
		"leave":             NewLeaveScreen,
		"headmasters":       NewHeadmasterScreen,
		"payment-types":     NewPaymentTypeScreen,
		"blog-categories":   NewBlogCategoryScreen,
		"seat-arrangements": NewSeatArrangementScreen,
		"total-seats":       NewTotalSeatsScreen,
		"combined-results":  NewCombinedResultScreen,
		"users":             NewUserScreen,
		"admissions":        NewAdmissionScreen,
		"student-photo":     NewStudentPhotoScreen,
		"branch-migration":  NewBranchMigrationScreen,
		"smart-attendance":  NewSmartAttendanceScreen,
	}
}
