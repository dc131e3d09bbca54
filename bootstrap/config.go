package bootstrap

import (
	"github.com/kbukum/nucleus/config"
)

// Config is satisfied by any config struct embedding config.ServiceConfig
// that also implements ApplyDefaults and Validate.
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
