package nucleus

import (
	"fmt"
	"time"

	"github.com/kbukum/nucleus/config"
	"github.com/kbukum/nucleus/observability"
	"github.com/kbukum/nucleus/validation"
)

// DefaultIdleTimeout is the session idle timeout when none is configured.
const DefaultIdleTimeout = 30 * time.Minute

// Config describes a container: which modules to load and which component
// to resolve once they are registered.
//
// Example config.yml:
//
//	name: nucleusd
//	modules: [DAS, DafEar.base]
//	initial_service: /atg/dynamo/Configuration
//	sessions:
//	  idle_timeout: 30m
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Modules        []string             `yaml:"modules" mapstructure:"modules" validate:"required,min=1,dive,required,module_name"`
	InitialService string               `yaml:"initial_service" mapstructure:"initial_service" validate:"required,component_path"`
	Sessions       SessionsConfig       `yaml:"sessions" mapstructure:"sessions"`
	Observability  observability.Config `yaml:"observability" mapstructure:"observability"`
}

// SessionsConfig configures session tracking.
type SessionsConfig struct {
	// IdleTimeout invalidates sessions without requests for this long.
	// Negative disables expiry.
	IdleTimeout time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "nucleus"
	}
	c.ServiceConfig.ApplyDefaults()
	if c.Sessions.IdleTimeout == 0 {
		c.Sessions.IdleTimeout = DefaultIdleTimeout
	}
	if c.Observability.ServiceVersion == "" {
		c.Observability.ServiceVersion = c.Version
	}
	if c.Observability.Environment == "" {
		c.Observability.Environment = c.Environment
	}
	c.Observability.ApplyDefaults(c.Name)
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	if v := validation.New().Names("modules", c.Modules); v.HasErrors() {
		return v.Validate()
	}
	return nil
}
