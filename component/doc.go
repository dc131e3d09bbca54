// Package component defines the lifecycle interface for long-lived global
// components and a registry that starts them in order and stops them in
// reverse.
//
// Global component instances that implement Component are started by the
// container as soon as they are constructed and stopped at shutdown.
package component
