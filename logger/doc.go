// Package logger provides structured logging for nucleus using zerolog.
//
// Packages obtain a component-tagged logger with Get and log with field maps:
//
//	log := logger.Get("di")
//	log.Debug("component constructed", logger.Fields(logger.FieldPath, "/GlobalComponent"))
package logger
