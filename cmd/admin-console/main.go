package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-admin-console/internal/api"
	"github.com/noah-isme/sma-admin-console/internal/form"
	"github.com/noah-isme/sma-admin-console/internal/metrics"
	"github.com/noah-isme/sma-admin-console/internal/resources"
	"github.com/noah-isme/sma-admin-console/internal/screen"
	"github.com/noah-isme/sma-admin-console/pkg/config"
	"github.com/noah-isme/sma-admin-console/pkg/logger"
	"github.com/noah-isme/sma-admin-console/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	recorder := metrics.NewRecorder()
	if cfg.Metrics.Enabled {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", recorder.Handler())
			if err := http.ListenAndServe(cfg.Metrics.Addr, mux); err != nil {
				logr.Warn("metrics server stopped", zap.Error(err))
			}
		}()
	}

	client, err := api.New(api.Options{
		BaseURL:       cfg.API.BaseURL,
		CookieName:    cfg.API.CookieName,
		SessionCookie: cfg.API.SessionCookie,
		HTTPClient:    &http.Client{Timeout: cfg.API.Timeout},
		Logger:        logr,
		Metrics:       recorder,
	})
	if err != nil {
		logr.Sugar().Fatalw("failed to build API client", "error", err)
	}

	validate := validator.New()
	if err := form.Register(validate); err != nil {
		logr.Sugar().Fatalw("failed to register validation rules", "error", err)
	}

	downloads, err := storage.NewDownloads(cfg.Downloads.Dir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare download directory", "error", err)
	}

	var confirmer screen.Confirmer
	if cfg.Console.AssumeYes {
		confirmer = screen.AutoConfirm()
	} else {
		confirmer = screen.NewPromptConfirmer(os.Stdin, os.Stdout)
	}

	app := &console{
		deps: resources.Deps{
			Client:    client,
			Validate:  validate,
			Notifier:  terminalNotifier(logr),
			Confirmer: confirmer,
			Uploads: resources.UploadPolicy{
				MaxFileSizeBytes:  cfg.Uploads.MaxFileSizeBytes,
				AllowedImageMIMEs: cfg.Uploads.AllowedImageMIMEs,
			},
			Logger: logr,
		},
		client:    client,
		downloads: downloads,
		logger:    logr,
		out:       os.Stdout,
	}

	if err := app.run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// terminalNotifier prints toasts to the terminal and mirrors them to the
// structured log.
func terminalNotifier(logr *zap.Logger) screen.Notifier {
	logged := screen.NewLogNotifier(logr)
	return screen.NotifierFunc(func(level screen.ToastLevel, message string) {
		marker := "✓"
		if level == screen.ToastError {
			marker = "✗"
		}
		fmt.Fprintf(os.Stdout, "%s %s\n", marker, message)
		logged.Toast(level, message)
	})
}
