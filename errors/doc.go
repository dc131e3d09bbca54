// Package errors provides the structured error type shared by every nucleus
// package. Each failure carries a machine-readable code, an HTTP status for
// the component browser, and optional details such as the offending path or
// scope.
package errors
