// Package config loads service configuration from a YAML file, a .env file
// and the process environment.
//
// It uses Viper to merge the sources; environment variables override file
// values, with underscores standing for nesting (SESSIONS_IDLE_TIMEOUT sets
// sessions.idle_timeout).
//
// # Usage
//
//	cfg, err := config.Load[*nucleus.Config]("nucleusd")
//
// Load applies defaults and validates; LoadConfig only unmarshals.
package config
