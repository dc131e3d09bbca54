// Package bootstrap runs a service process: it finishes the typed config,
// starts registered components in order, runs lifecycle hooks, prints a
// startup summary and shuts everything down in reverse on a signal.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*Config]) error {
//	    n, err := nucleus.Start(ctx, &a.Cfg.Config)
//	    ...
//	    return a.Components.RegisterAndStart(ctx, n)
//	})
//	return app.Run(ctx)
package bootstrap
