package main

import (
	"context"
	"fmt"

	"github.com/kbukum/nucleus/bootstrap"
	"github.com/kbukum/nucleus/nucleus"
	"github.com/kbukum/nucleus/observability"
	"github.com/kbukum/nucleus/server"
)

// daemon wires the container, the exporters and the HTTP browser into one
// bootstrap.App.
type daemon struct {
	app     *bootstrap.App[*Config]
	obs     *observability.Component
	nucleus *nucleus.Nucleus
	server  *server.Server
}

func newDaemon(cfg *Config, opts ...bootstrap.Option) (*daemon, error) {
	app, err := bootstrap.NewApp(cfg, opts...)
	if err != nil {
		return nil, err
	}
	d := &daemon{app: app, obs: observability.NewComponent(cfg.Observability)}
	if err := app.RegisterComponent(d.obs); err != nil {
		return nil, err
	}
	app.OnConfigure(d.configure)
	return d, nil
}

func (d *daemon) configure(ctx context.Context, app *bootstrap.App[*Config]) error {
	cfg := app.Cfg

	n, err := nucleus.Start(ctx, &cfg.Config,
		nucleus.WithLogger(app.Logger.WithComponent("nucleus")),
		nucleus.WithMetrics(d.obs.Metrics()),
	)
	if err != nil {
		return fmt.Errorf("starting nucleus: %w", err)
	}
	if err := app.Components.RegisterAndStart(ctx, n); err != nil {
		_ = n.Shutdown(ctx)
		return err
	}
	d.nucleus = n
	app.Summary.TrackContainer(n.Modules(), n.InitialService(), len(n.Container().Registrations()))

	if !cfg.Server.Enabled {
		return nil
	}
	s := server.New(cfg.Server, app.Logger.WithComponent("http"))
	s.ApplyDefaults(cfg.Name, n)
	s.TrackRoutes(app.Summary)
	if err := app.Components.RegisterAndStart(ctx, server.NewComponent(s)); err != nil {
		return err
	}
	d.server = s
	return nil
}

func (d *daemon) run(ctx context.Context) error {
	return d.app.Run(ctx)
}
