package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ATenderholt/rainbow-xform/internal/settings"
	"github.com/ATenderholt/rainbow-xform/internal/storage"
	"github.com/go-chi/chi/v5"
)

type App struct {
	cfg      *settings.Config
	srv      *http.Server
	verifier *storage.BucketVerifier
}

func NewApp(cfg *settings.Config, mux *chi.Mux, verifier *storage.BucketVerifier) App {
	return App{
		cfg: cfg,
		srv: &http.Server{
			Addr:    cfg.Address(),
			Handler: mux,
		},
		verifier: verifier,
	}
}

func (app App) Start(ctx context.Context) error {
	if app.cfg.VerifyDestination {
		err := app.verifier.Verify(ctx, app.cfg.DestinationBucket)
		if err != nil {
			return err
		}
	}

	go func() {
		logger.Infof("Listening for notifications on %s", app.srv.Addr)
		err := app.srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("Problem serving notifications: %v", err)
		}
	}()

	return nil
}

func (app App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	return app.srv.Shutdown(ctx)
}
