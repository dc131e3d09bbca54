// Package version reports build information for nucleusd. Values are
// stamped with -ldflags and fall back to the module's VCS build settings:
//
//	go build -ldflags "-X github.com/kbukum/nucleus/version.Version=1.2.0" ./cmd/nucleusd
package version
