package builtin

import (
	"time"

	"github.com/kbukum/nucleus/di"
	"github.com/kbukum/nucleus/module"
	"github.com/kbukum/nucleus/scope"
)

// Component paths registered by the DAS module.
const (
	ConfigurationPath = "/atg/dynamo/Configuration"
	ClockPath         = "/atg/dynamo/service/Clock"
	CurrentDatePath   = "/atg/dynamo/service/CurrentDate"
)

// Configuration describes the running container as its modules see it.
type Configuration struct {
	Modules        []string
	InitialService string
	Started        time.Time
}

// Clock is the container time source.
type Clock struct {
	now func() time.Time
}

// NewClock creates a clock reading from now; nil means time.Now.
func NewClock(now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{now: now}
}

// Now returns the current time.
func (c *Clock) Now() time.Time { return c.now() }

// CurrentDate is the time at which it was resolved.
type CurrentDate struct {
	Time time.Time
}

// Year returns the calendar year.
func (d *CurrentDate) Year() int { return d.Time.Year() }

// DAS returns the base module: container configuration and time services.
func DAS() module.Module {
	return module.Module{
		Name:        "DAS",
		Description: "Container configuration and time services",
		Register: func(c *di.Container) error {
			if err := c.Register(ConfigurationPath, scope.Global, func(r di.Resolver) (*Configuration, error) {
				s, err := di.Resolve[*Startup](r, StartupPath)
				if err != nil {
					return nil, err
				}
				return &Configuration{
					Modules:        append([]string(nil), s.Modules...),
					InitialService: s.InitialService,
					Started:        s.Started,
				}, nil
			}, di.WithDescription("Module list and initial service")); err != nil {
				return err
			}

			if err := c.Register(ClockPath, scope.Global, func(r di.Resolver) (*Clock, error) {
				s, err := di.Resolve[*Startup](r, StartupPath)
				if err != nil {
					return nil, err
				}
				return NewClock(s.Now), nil
			}, di.WithDescription("Container time source")); err != nil {
				return err
			}

			return c.Register(CurrentDatePath, scope.Prototype, func(r di.Resolver) (*CurrentDate, error) {
				clock, err := di.Resolve[*Clock](r, "Clock")
				if err != nil {
					return nil, err
				}
				return &CurrentDate{Time: clock.Now()}, nil
			}, di.WithDescription("Time of resolution"))
		},
	}
}
