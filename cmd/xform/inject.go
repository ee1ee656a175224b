//go:build wireinject
// +build wireinject

package main

import (
	"github.com/ATenderholt/rainbow-xform/internal/convert"
	"github.com/ATenderholt/rainbow-xform/internal/http"
	"github.com/ATenderholt/rainbow-xform/internal/service"
	"github.com/ATenderholt/rainbow-xform/internal/settings"
	"github.com/ATenderholt/rainbow-xform/internal/storage"
	"github.com/google/wire"
)

var api = wire.NewSet(
	http.NewChiMux,
	http.NewNotificationHandler,
	wire.Bind(new(http.Dispatcher), new(*service.Dispatcher)),
)

var dispatch = wire.NewSet(
	service.NewDispatcher,
	convert.NewRunner,
)

func InjectApp(cfg *settings.Config) (App, error) {
	wire.Build(
		NewApp,
		api,
		dispatch,
		storage.NewBucketVerifier,
	)
	return App{}, nil
}
