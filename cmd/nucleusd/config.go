package main

import (
	"fmt"

	"github.com/kbukum/nucleus/nucleus"
	"github.com/kbukum/nucleus/server"
)

const serviceName = "nucleusd"

// Config is the nucleusd configuration: a container plus the HTTP browser.
type Config struct {
	nucleus.Config `yaml:",inline" mapstructure:",squash"`

	Server server.Config `yaml:"server" mapstructure:"server"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	if len(c.Modules) == 0 {
		c.Modules = []string{"DAS", "DafEar.base"}
	}
	if c.InitialService == "" {
		c.InitialService = "/atg/dynamo/Configuration"
	}
	c.Config.ApplyDefaults()
	c.Server.ApplyDefaults()
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := c.Config.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("config.server: %w", err)
	}
	return nil
}
