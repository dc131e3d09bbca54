// Package server exposes a running nucleus over HTTP: a gin engine served
// over HTTP/1.1 and h2c, health checks, and a component browser.
//
// Routes installed by ApplyDefaults:
//
//   - GET /nucleus/*path resolves a component inside a container request
//     bound to the NUCLEUS_SESSION cookie and the _windowid parameter
//   - GET /nucleus-registrations lists every registered path
//   - GET /info reports build info and loaded modules
//   - GET /health, /livez, /readyz report component health
package server
