// Package builtin provides the stock modules every container can load.
//
//   - DAS: /atg/dynamo/Configuration, /atg/dynamo/service/Clock and the
//     prototype /atg/dynamo/service/CurrentDate.
//   - DafEar.base (requires DAS): /OriginatingRequest (request scope),
//     /atg/dynamo/servlet/sessiontracking/SessionInfo (session scope) and
//     /atg/dynamo/servlet/WindowInfo (window scope).
//
// The container registers a *Startup singleton at StartupPath before any
// module registers; DAS components read it.
package builtin

import (
	"time"

	"github.com/kbukum/nucleus/module"
)

// StartupPath is where the container publishes its *Startup.
const StartupPath = "/atg/dynamo/nucleus/Startup"

// Startup carries the container's start parameters to its components.
type Startup struct {
	Modules        []string
	InitialService string
	Started        time.Time
	Now            func() time.Time
}

// NewCatalog returns a catalog holding the stock modules.
func NewCatalog() *module.Catalog {
	return module.NewCatalog(DAS(), DafEar())
}
