// Package validation provides input validation for configuration and
// component paths.
//
// It supports both struct tag validation (using the validator library) and
// programmatic validation with error collection. Struct tags name fields by
// their mapstructure key, so messages match the configuration file.
//
// # Struct Tag Validation
//
//	type Config struct {
//	    Modules        []string `mapstructure:"modules" validate:"required,min=1"`
//	    InitialService string   `mapstructure:"initial_service" validate:"required,component_path"`
//	}
//	err := validation.Validate(cfg)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Path("initial_service", cfg.InitialService)
//	err := v.Validate()
package validation
