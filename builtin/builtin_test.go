package builtin

import (
	"context"
	"testing"
	"time"

	"github.com/kbukum/nucleus/di"
	"github.com/kbukum/nucleus/errors"
	"github.com/kbukum/nucleus/logger"
	"github.com/kbukum/nucleus/request"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newContainer(t *testing.T) *di.Container {
	t.Helper()
	c := di.New(di.WithLogger(logger.Nop()))
	t.Cleanup(func() { _ = c.Shutdown(context.Background()) })

	err := c.RegisterSingleton(StartupPath, &Startup{
		Modules:        []string{"DAS", "DafEar.base"},
		InitialService: "/atg/dynamo/MyComponent",
		Started:        fixedNow,
		Now:            func() time.Time { return fixedNow },
	})
	if err != nil {
		t.Fatalf("RegisterSingleton failed: %v", err)
	}

	mods, err := NewCatalog().Resolve([]string{"DafEar.base"})
	if err != nil {
		t.Fatalf("Resolve modules failed: %v", err)
	}
	for _, m := range mods {
		if err := m.Register(c); err != nil {
			t.Fatalf("register %s failed: %v", m.Name, err)
		}
	}
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	return c
}

func TestCatalog(t *testing.T) {
	mods, err := NewCatalog().Resolve([]string{"DafEar.base"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(mods) != 2 || mods[0].Name != "DAS" || mods[1].Name != "DafEar.base" {
		t.Errorf("unexpected module order: %+v", mods)
	}
}

func TestDASComponents(t *testing.T) {
	c := newContainer(t)
	r := c.Bind(context.Background())

	cfg, err := di.Resolve[*Configuration](r, ConfigurationPath)
	if err != nil {
		t.Fatalf("Resolve Configuration failed: %v", err)
	}
	if cfg.InitialService != "/atg/dynamo/MyComponent" || len(cfg.Modules) != 2 {
		t.Errorf("unexpected configuration %+v", cfg)
	}
	if !cfg.Started.Equal(fixedNow) {
		t.Errorf("expected start time %v, got %v", fixedNow, cfg.Started)
	}

	clock, err := di.Resolve[*Clock](r, ClockPath)
	if err != nil {
		t.Fatalf("Resolve Clock failed: %v", err)
	}
	if !clock.Now().Equal(fixedNow) {
		t.Errorf("expected fixed clock, got %v", clock.Now())
	}

	d1, err := di.Resolve[*CurrentDate](r, CurrentDatePath)
	if err != nil {
		t.Fatalf("Resolve CurrentDate failed: %v", err)
	}
	d2 := di.MustResolve[*CurrentDate](r, CurrentDatePath)
	if d1 == d2 {
		t.Error("expected a fresh CurrentDate per resolution")
	}
	if d1.Year() != 2024 {
		t.Errorf("expected 2024, got %d", d1.Year())
	}
}

func TestDafEarComponents(t *testing.T) {
	c := newContainer(t)
	m := request.NewManager(request.WithLogger(logger.Nop()), request.WithNamespaceHook(c.Track))
	defer m.InvalidateAll()

	req, err := m.NewRequest("mySessionId", request.ModeNew, nil)
	if err != nil {
		t.Fatalf("NewRequest failed: %v", err)
	}
	r := c.Bind(request.WithRequest(context.Background(), req))

	orig, err := di.Resolve[*request.Request](r, OriginatingRequestPath)
	if err != nil {
		t.Fatalf("Resolve OriginatingRequest failed: %v", err)
	}
	if orig != req {
		t.Error("expected the bound request")
	}

	info, err := di.Resolve[*SessionInfo](r, SessionInfoPath)
	if err != nil {
		t.Fatalf("Resolve SessionInfo failed: %v", err)
	}
	if info.SessionID != "mySessionId" || !info.Valid() {
		t.Errorf("unexpected session info %+v", info)
	}
	if info.LastAccess().IsZero() {
		t.Error("expected last access time")
	}

	win, err := di.Resolve[*WindowInfo](r, WindowInfoPath)
	if err != nil {
		t.Fatalf("Resolve WindowInfo failed: %v", err)
	}
	if win.WindowID != req.WindowID() || win.SessionID != "mySessionId" {
		t.Errorf("unexpected window info %+v", win)
	}
	if got := c.AbsoluteNameOf(win); got != WindowInfoPath {
		t.Errorf("expected %s, got %q", WindowInfoPath, got)
	}
}

func TestDafEarWithoutRequest(t *testing.T) {
	c := newContainer(t)
	for _, path := range []string{OriginatingRequestPath, SessionInfoPath, WindowInfoPath} {
		_, err := c.Resolve(context.Background(), path)
		if !errors.HasCode(err, errors.ErrCodeScopeUnavailable) {
			t.Errorf("%s: expected SCOPE_UNAVAILABLE, got %v", path, err)
		}
	}
}
